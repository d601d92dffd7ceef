package wire

import (
	"errors"
	"fmt"
	"strings"
)

// Decode errors. Decode either fully succeeds and returns a complete record
// or fails with one of these; no partial record is ever exposed.
var (
	// ErrTruncated reports input that ends mid-tag, mid-varint or
	// mid-payload.
	ErrTruncated = errors.New("truncated input")

	// ErrLengthOverflow reports a length prefix that would read past the
	// end of the input.
	ErrLengthOverflow = errors.New("length prefix exceeds remaining input")

	// ErrVarintTooLong reports a varint running beyond the 10 bytes needed
	// for a 64-bit value. This caps unbounded continuation-bit runs in
	// corrupt or malicious input.
	ErrVarintTooLong = errors.New("varint exceeds 10 bytes")

	// ErrVarintOverflow reports a varint whose value does not fit in 64
	// bits.
	ErrVarintOverflow = errors.New("varint overflows 64 bits")

	// ErrWireKindMismatch reports a known field whose tag carries a wire
	// type different from the one its descriptor declares.
	ErrWireKindMismatch = errors.New("wire type does not match descriptor")
)

// Encode errors.
var (
	// ErrTypeMismatch reports a record value whose runtime type does not
	// match the field's declared logical type.
	ErrTypeMismatch = errors.New("value type does not match field type")

	// ErrInvalidFieldNumber reports a field number that is zero, negative,
	// or absent from the message descriptor.
	ErrInvalidFieldNumber = errors.New("invalid field number")
)

// FieldError carries the field path at which an encode/decode error occurred.
type FieldError struct {
	FieldPath []string // e.g., ["metadata", "inner_data", "latency"]
	Err       error    // underlying error
}

// Error implements the error interface.
func (e *FieldError) Error() string {
	if len(e.FieldPath) == 0 {
		return e.Err.Error()
	}

	return fmt.Sprintf("error at field path %s: %v", strings.Join(e.FieldPath, "."), e.Err)
}

// Unwrap returns the underlying error.
func (e *FieldError) Unwrap() error {
	return e.Err
}

// wrapWithField wraps an error with a field name
func wrapWithField(err error, fieldName string) error {
	if err == nil {
		return nil
	}

	var fe *FieldError
	if errors.As(err, &fe) {
		return &FieldError{
			FieldPath: append([]string{fieldName}, fe.FieldPath...),
			Err:       fe.Err,
		}
	}

	return &FieldError{
		FieldPath: []string{fieldName},
		Err:       err,
	}
}
