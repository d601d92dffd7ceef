package wire

import (
	"os"
)

// Config controls optional decode behaviors. Defaults follow proto3
// semantics: absent fields stay absent and unknown fields are preserved.
type Config struct {
	// PopulateDefaultsOnDecode: when true, non-repeated primitive and enum
	// fields absent from the wire payload are populated with their zero
	// values in the decoded record. When false (default), absent fields
	// remain missing, so a field encoded as 0 and an omitted field decode
	// identically only with this toggle off.
	PopulateDefaultsOnDecode bool

	// DiscardUnknownOnDecode: when true, fields not present in the
	// descriptor are skipped and dropped. When false (default), their raw
	// spans are kept on the record so a decode-then-re-encode reproduces
	// the unknown bytes exactly.
	DiscardUnknownOnDecode bool
}

var config = Config{}

// SetConfig sets the global wire configuration. Defaults remain zero-valued
// unless explicitly changed by the caller.
func SetConfig(c Config) { config = c }

func init() {
	// Optional env toggles for test harnesses; defaults remain unchanged if unset.
	if v := os.Getenv("IMCODEC_POPULATE_DEFAULTS"); v == "1" || v == "true" {
		config.PopulateDefaultsOnDecode = true
	}
	if v := os.Getenv("IMCODEC_DISCARD_UNKNOWN"); v == "1" || v == "true" {
		config.DiscardUnknownOnDecode = true
	}
}
