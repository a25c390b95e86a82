package instruction

import (
	"bytes"
	"fmt"
	"strings"

	bin "github.com/gagliardetto/binary"
	"github.com/gagliardetto/solana-go"
)

const padByte = ' '

// Encode serializes values according to layout. The returned slice is
// exactly Alloc bytes long.
func Encode(layout Layout, values Fields) ([]byte, error) {
	alloc, err := layout.Alloc(values)
	if err != nil {
		return nil, err
	}

	buf := new(bytes.Buffer)
	buf.Grow(alloc)
	enc := bin.NewBinEncoder(buf)

	if err := enc.WriteUint8(layout.Index); err != nil {
		return nil, err
	}

	for _, f := range layout.Fields {
		v, ok := values[f.Name]
		if !ok {
			return nil, &MissingFieldError{Instruction: layout.Name, Field: f.Name}
		}
		if err := encodeField(enc, layout.Name, f, v); err != nil {
			return nil, err
		}
	}

	return buf.Bytes(), nil
}

// EncodeInstruction serializes a typed instruction
func EncodeInstruction(ix Instruction) ([]byte, error) {
	return Encode(ix.Layout(), ix.Fields())
}

func encodeField(enc *bin.Encoder, name string, f Field, v interface{}) error {
	typeErr := &FieldTypeError{Instruction: name, Field: f.Name, Value: v}

	switch f.Kind {
	case KindU8:
		n, ok := toInt64(v)
		if !ok || n < 0 || n > 0xff {
			return typeErr
		}
		return enc.WriteUint8(uint8(n))

	case KindInt64:
		n, ok := toInt64(v)
		if !ok {
			return typeErr
		}
		return enc.WriteInt64(n, bin.LE)

	case KindFixedString:
		s, ok := v.(string)
		if !ok {
			return typeErr
		}
		if len(s) > f.Width {
			return &FieldTooLongError{
				Instruction: name, Field: f.Name, Width: f.Width, Length: len(s),
			}
		}
		padded := make([]byte, f.Width)
		copy(padded, s)
		for i := len(s); i < f.Width; i++ {
			padded[i] = padByte
		}
		return enc.WriteBytes(padded, false)

	case KindPublicKey:
		switch key := v.(type) {
		case solana.PublicKey:
			return enc.WriteBytes(key[:], false)
		case []byte:
			if len(key) != PublicKeyLength {
				return typeErr
			}
			return enc.WriteBytes(key, false)
		default:
			return typeErr
		}

	case KindRustString:
		s, ok := v.(string)
		if !ok {
			return typeErr
		}
		if err := enc.WriteUint32(uint32(len(s)), bin.LE); err != nil {
			return err
		}
		if err := enc.WriteUint32(0, bin.LE); err != nil {
			return err
		}
		return enc.WriteBytes([]byte(s), false)
	}

	return fmt.Errorf("%s: field %q has unknown kind %s", name, f.Name, f.Kind)
}

func toInt64(v interface{}) (int64, bool) {
	switch n := v.(type) {
	case int64:
		return n, true
	case int:
		return int64(n), true
	case int32:
		return int64(n), true
	case uint8:
		return int64(n), true
	case uint32:
		return int64(n), true
	case uint64:
		if n > 1<<63-1 {
			return 0, false
		}
		return int64(n), true
	default:
		return 0, false
	}
}

// Decode parses data according to layout. Fixed-width strings are returned
// with trailing spaces stripped, integers as int64, u8 as uint8 and public
// keys as solana.PublicKey.
func Decode(layout Layout, data []byte) (Fields, error) {
	if len(data) == 0 {
		return nil, ErrEmptyData
	}
	if data[0] != layout.Index {
		return nil, fmt.Errorf(
			"%w: got %d, want %d for %s", ErrOpcodeMismatch, data[0], layout.Index, layout.Name,
		)
	}

	dec := bin.NewBinDecoder(data[1:])
	values := make(Fields, len(layout.Fields))

	for _, f := range layout.Fields {
		v, err := decodeField(dec, f)
		if err != nil {
			return nil, fmt.Errorf("%s: field %q: %w", layout.Name, f.Name, err)
		}
		values[f.Name] = v
	}
	if n := dec.Remaining(); n != 0 {
		return nil, fmt.Errorf("%w: %d bytes after %s", ErrTrailingData, n, layout.Name)
	}

	return values, nil
}

// DecodeAny looks up the layout by the opcode byte and decodes data with it
func DecodeAny(data []byte) (Layout, Fields, error) {
	if len(data) == 0 {
		return Layout{}, nil, ErrEmptyData
	}
	layout, ok := Lookup(data[0])
	if !ok {
		return Layout{}, nil, fmt.Errorf("%w: %d", ErrUnknownOpcode, data[0])
	}
	values, err := Decode(layout, data)
	if err != nil {
		return Layout{}, nil, err
	}
	return layout, values, nil
}

func decodeField(dec *bin.Decoder, f Field) (interface{}, error) {
	need := func(n int) error {
		if dec.Remaining() < n {
			return ErrShortBuffer
		}
		return nil
	}

	switch f.Kind {
	case KindU8:
		if err := need(1); err != nil {
			return nil, err
		}
		return dec.ReadUint8()

	case KindInt64:
		if err := need(8); err != nil {
			return nil, err
		}
		return dec.ReadInt64(bin.LE)

	case KindFixedString:
		if err := need(f.Width); err != nil {
			return nil, err
		}
		b, err := dec.ReadNBytes(f.Width)
		if err != nil {
			return nil, err
		}
		return strings.TrimRight(string(b), string(padByte)), nil

	case KindPublicKey:
		if err := need(PublicKeyLength); err != nil {
			return nil, err
		}
		b, err := dec.ReadNBytes(PublicKeyLength)
		if err != nil {
			return nil, err
		}
		return solana.PublicKeyFromBytes(b), nil

	case KindRustString:
		if err := need(rustStringHeader); err != nil {
			return nil, err
		}
		length, err := dec.ReadUint32(bin.LE)
		if err != nil {
			return nil, err
		}
		if _, err := dec.ReadUint32(bin.LE); err != nil {
			return nil, err
		}
		if err := need(int(length)); err != nil {
			return nil, err
		}
		b, err := dec.ReadNBytes(int(length))
		if err != nil {
			return nil, err
		}
		return string(b), nil
	}

	return nil, fmt.Errorf("unknown kind %s", f.Kind)
}
