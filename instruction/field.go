package instruction

import "fmt"

// Kind identifies the binary representation of a field
type Kind uint8

const (
	// KindU8 is a single unsigned byte
	KindU8 Kind = iota
	// KindInt64 is a signed 64-bit little-endian integer
	KindInt64
	// KindFixedString is a UTF-8 string right-padded with spaces to Width bytes
	KindFixedString
	// KindPublicKey is a raw 32-byte public key
	KindPublicKey
	// KindRustString is a u32 length, u32 padding and the payload bytes
	KindRustString
)

// PublicKeyLength is the width of a KindPublicKey field
const PublicKeyLength = 32

// rustStringHeader is the length prefix plus its padding word
const rustStringHeader = 8

func (k Kind) String() string {
	switch k {
	case KindU8:
		return "u8"
	case KindInt64:
		return "ns64"
	case KindFixedString:
		return "blob"
	case KindPublicKey:
		return "publicKey"
	case KindRustString:
		return "rustString"
	default:
		return fmt.Sprintf("kind(%d)", uint8(k))
	}
}

// Field is one named slot of a layout
type Field struct {
	Name  string
	Kind  Kind
	Width int
}

func U8(name string) Field {
	return Field{Name: name, Kind: KindU8, Width: 1}
}

func Int64(name string) Field {
	return Field{Name: name, Kind: KindInt64, Width: 8}
}

func FixedString(name string, width int) Field {
	return Field{Name: name, Kind: KindFixedString, Width: width}
}

func PublicKey(name string) Field {
	return Field{Name: name, Kind: KindPublicKey, Width: PublicKeyLength}
}

func RustString(name string) Field {
	return Field{Name: name, Kind: KindRustString, Width: -1}
}

// Span returns the encoded size of the field, or -1 when it depends on the
// value
func (f Field) Span() int {
	if f.Kind == KindRustString {
		return -1
	}
	return f.Width
}

// spanOf returns the encoded size of the field holding v
func (f Field) spanOf(v interface{}) (int, bool) {
	if f.Kind != KindRustString {
		return f.Width, true
	}
	s, ok := v.(string)
	if !ok {
		return 0, false
	}
	return rustStringHeader + len(s), true
}
