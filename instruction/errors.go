package instruction

import (
	"errors"
	"fmt"
)

var (
	// ErrUnknownOpcode is returned when decoding data whose first byte is not
	// a registered instruction
	ErrUnknownOpcode = errors.New("unknown instruction opcode")
	// ErrOpcodeMismatch is returned when decoding data against a layout with
	// a different opcode
	ErrOpcodeMismatch = errors.New("instruction opcode does not match layout")
	// ErrShortBuffer is returned when the data ends before the layout does
	ErrShortBuffer = errors.New("instruction data is shorter than its layout")
	// ErrTrailingData is returned when the data continues past the layout
	ErrTrailingData = errors.New("instruction data is longer than its layout")
	// ErrEmptyData is returned when decoding a zero-length buffer
	ErrEmptyData = errors.New("instruction data is empty")
)

// MissingFieldError is returned when a field declared by the layout has no
// value in the input
type MissingFieldError struct {
	Instruction string
	Field       string
}

func (e *MissingFieldError) Error() string {
	return fmt.Sprintf("%s: missing field %q", e.Instruction, e.Field)
}

// FieldTooLongError is returned when a string does not fit its fixed width
type FieldTooLongError struct {
	Instruction string
	Field       string
	Width       int
	Length      int
}

func (e *FieldTooLongError) Error() string {
	return fmt.Sprintf(
		"%s: field %q is %d bytes long, exceeds width of %d",
		e.Instruction, e.Field, e.Length, e.Width,
	)
}

// FieldTypeError is returned when a value cannot be encoded as the field's
// kind
type FieldTypeError struct {
	Instruction string
	Field       string
	Value       interface{}
}

func (e *FieldTypeError) Error() string {
	return fmt.Sprintf(
		"%s: field %q cannot encode value of type %T", e.Instruction, e.Field, e.Value,
	)
}
