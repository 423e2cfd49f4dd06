// Package codec implements the AMQP 1.0 primitive type encoding: every value
// is emitted as a constructor byte, an optional size field for variable-width
// kinds, and a payload, with all multi-byte integers in network byte order.
package codec

// Constructor bytes as defined in the AMQP 1.0 specification, part 1.6.
const (
	CtorNull byte = 0x40

	CtorBool      byte = 0x56 // boolean with the octet 0x00 being false and 0x01 being true
	CtorBoolTrue  byte = 0x41
	CtorBoolFalse byte = 0x42

	CtorUByte      byte = 0x50 // 8-bit unsigned integer
	CtorUShort     byte = 0x60 // 16-bit unsigned integer in network byte order
	CtorUInt       byte = 0x70 // 32-bit unsigned integer in network byte order
	CtorSmallUInt  byte = 0x52 // uint value in the range 0 to 255 inclusive
	CtorUInt0      byte = 0x43 // the uint value 0
	CtorULong      byte = 0x80 // 64-bit unsigned integer in network byte order
	CtorSmallULong byte = 0x53 // ulong value in the range 0 to 255 inclusive
	CtorULong0     byte = 0x44 // the ulong value 0

	CtorByte      byte = 0x51 // 8-bit two's-complement integer
	CtorShort     byte = 0x61 // 16-bit two's-complement integer in network byte order
	CtorInt       byte = 0x71 // 32-bit two's-complement integer in network byte order
	CtorSmallInt  byte = 0x54 // 8-bit two's-complement integer
	CtorLong      byte = 0x81 // 64-bit two's-complement integer in network byte order
	CtorSmallLong byte = 0x55 // 8-bit two's-complement integer

	CtorChar      byte = 0x73 // a UTF-32BE encoded Unicode character
	CtorTimestamp byte = 0x83 // 64-bit signed milliseconds since the unix epoch

	CtorVbin8  byte = 0xa0 // up to 2^8 - 1 octets of binary data
	CtorVbin32 byte = 0xb0 // up to 2^32 - 1 octets of binary data
	CtorStr8   byte = 0xa1 // up to 2^8 - 1 octets of UTF-8 Unicode, no byte order mark
	CtorStr32  byte = 0xb1 // up to 2^32 - 1 octets of UTF-8 Unicode, no byte order mark
	CtorSym8   byte = 0xa3 // up to 2^8 - 1 seven-bit ASCII characters
	CtorSym32  byte = 0xb3 // up to 2^32 - 1 seven-bit ASCII characters
)

// Kind identifies the logical type of a decoded primitive value.
type Kind int

const (
	KindNull Kind = iota + 1
	KindBool
	KindUByte
	KindUShort
	KindUInt
	KindULong
	KindByte
	KindShort
	KindInt
	KindLong
	KindChar
	KindTimestamp
	KindBinary
	KindString
	KindSymbol
)

// String returns the lowercase AMQP name of the kind.
func (k Kind) String() string {
	switch k {
	case KindNull:
		return "null"
	case KindBool:
		return "boolean"
	case KindUByte:
		return "ubyte"
	case KindUShort:
		return "ushort"
	case KindUInt:
		return "uint"
	case KindULong:
		return "ulong"
	case KindByte:
		return "byte"
	case KindShort:
		return "short"
	case KindInt:
		return "int"
	case KindLong:
		return "long"
	case KindChar:
		return "char"
	case KindTimestamp:
		return "timestamp"
	case KindBinary:
		return "binary"
	case KindString:
		return "string"
	case KindSymbol:
		return "symbol"
	}
	return "unknown"
}

// Value is a decoded AMQP primitive. Exactly one payload field is meaningful
// for a given Kind: Bool for booleans, Uint for the unsigned kinds, Int for
// the signed kinds and timestamps, Char for chars, Bytes for binary, Str for
// string and symbol.
type Value struct {
	Kind  Kind
	Bool  bool
	Uint  uint64
	Int   int64
	Char  rune
	Bytes []byte
	Str   string
}
