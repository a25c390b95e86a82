package instruction

// Fields maps field names to their values. Accepted value types per kind:
// KindU8 uint8 or int; KindInt64 int64, int, int32, uint32 or uint64;
// KindFixedString and KindRustString string; KindPublicKey
// solana.PublicKey or a 32-byte slice.
type Fields map[string]interface{}

// Layout describes the byte schema of one instruction. Encoded data starts
// with Index followed by Fields in declared order.
type Layout struct {
	Name   string
	Index  uint8
	Fields []Field
}

// Span returns the static encoded size including the opcode byte, or -1
// when any field is variable-length
func (l Layout) Span() int {
	span := 1
	for _, f := range l.Fields {
		s := f.Span()
		if s < 0 {
			return -1
		}
		span += s
	}
	return span
}

// Alloc returns the exact buffer size needed to encode values
func (l Layout) Alloc(values Fields) (int, error) {
	if span := l.Span(); span >= 0 {
		return span, nil
	}

	alloc := 1
	for _, f := range l.Fields {
		v, ok := values[f.Name]
		if !ok {
			return 0, &MissingFieldError{Instruction: l.Name, Field: f.Name}
		}
		s, ok := f.spanOf(v)
		if !ok {
			return 0, &FieldTypeError{Instruction: l.Name, Field: f.Name, Value: v}
		}
		alloc += s
	}
	return alloc, nil
}
