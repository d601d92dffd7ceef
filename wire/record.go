package wire

// FieldValue is a single populated field of a Record.
type FieldValue struct {
	Number FieldNumber
	Value  interface{} // scalar, *Record for nested messages, []interface{} for repeated
}

// Record is a runtime message value built dynamically against a message
// descriptor: field numbers mapped to typed values, in field-presence
// order. Encoding walks Fields in order; decoding appends fields as they
// appear on the wire. Records are built fresh per encode/decode call and
// are not safe for concurrent mutation.
type Record struct {
	Fields []FieldValue

	// Unknown holds raw spans for wire fields absent from the descriptor,
	// in decode order. Re-encoding emits them verbatim after the known
	// fields so schema-evolution data survives a round trip.
	Unknown []RawValue
}

// NewRecord creates an empty record.
func NewRecord() *Record {
	return &Record{}
}

// Get returns the value for a field number and whether it is present.
func (r *Record) Get(num FieldNumber) (interface{}, bool) {
	for i := range r.Fields {
		if r.Fields[i].Number == num {
			return r.Fields[i].Value, true
		}
	}
	return nil, false
}

// Has reports whether a field number is present.
func (r *Record) Has(num FieldNumber) bool {
	_, ok := r.Get(num)
	return ok
}

// Set stores a singular field value. Setting a number that is already
// present replaces its value in place: last value wins, presence order is
// kept from the first occurrence.
func (r *Record) Set(num FieldNumber, value interface{}) {
	for i := range r.Fields {
		if r.Fields[i].Number == num {
			r.Fields[i].Value = value
			return
		}
	}
	r.Fields = append(r.Fields, FieldValue{Number: num, Value: value})
}

// Append accumulates an element of a repeated field, preserving element
// order across calls.
func (r *Record) Append(num FieldNumber, element interface{}) {
	for i := range r.Fields {
		if r.Fields[i].Number == num {
			elems, _ := r.Fields[i].Value.([]interface{})
			r.Fields[i].Value = append(elems, element)
			return
		}
	}
	r.Fields = append(r.Fields, FieldValue{Number: num, Value: []interface{}{element}})
}

// AddUnknown appends a preserved raw field span.
func (r *Record) AddUnknown(rv RawValue) {
	r.Unknown = append(r.Unknown, rv)
}

// Len returns the number of populated known fields.
func (r *Record) Len() int {
	return len(r.Fields)
}
