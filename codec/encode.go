package codec

import (
	"encoding/binary"
	"math"

	"github.com/vortexmq/amqpex/errors"
)

// Zero-payload constructors are fixed single-byte literals.

// Null encodes the null value.
func Null() []byte { return []byte{CtorNull} }

// True encodes the boolean true literal.
func True() []byte { return []byte{CtorBoolTrue} }

// False encodes the boolean false literal.
func False() []byte { return []byte{CtorBoolFalse} }

// Boolean encodes a boolean using the full-width 0x56 constructor.
func Boolean(v bool) []byte {
	if v {
		return []byte{CtorBool, 0x01}
	}
	return []byte{CtorBool, 0x00}
}

// UInt0 encodes the uint value zero as a single constructor byte.
func UInt0() []byte { return []byte{CtorUInt0} }

// ULong0 encodes the ulong value zero as a single constructor byte.
func ULong0() []byte { return []byte{CtorULong0} }

// UByte encodes an 8-bit unsigned integer.
func UByte(v uint8) []byte { return []byte{CtorUByte, v} }

// UShort encodes a 16-bit unsigned integer.
func UShort(v uint16) []byte {
	out := []byte{CtorUShort, 0, 0}
	binary.BigEndian.PutUint16(out[1:], v)
	return out
}

// UInt encodes a 32-bit unsigned integer at full width.
func UInt(v uint32) []byte {
	out := []byte{CtorUInt, 0, 0, 0, 0}
	binary.BigEndian.PutUint32(out[1:], v)
	return out
}

// SmallUInt encodes a uint whose value fits in one octet.
func SmallUInt(v uint32) ([]byte, error) {
	if v > math.MaxUint8 {
		return nil, errors.NewEncodingConstraint("smalluint", "value %d exceeds 255", v)
	}
	return []byte{CtorSmallUInt, byte(v)}, nil
}

// ULong encodes a 64-bit unsigned integer at full width.
func ULong(v uint64) []byte {
	out := make([]byte, 9)
	out[0] = CtorULong
	binary.BigEndian.PutUint64(out[1:], v)
	return out
}

// SmallULong encodes a ulong whose value fits in one octet.
func SmallULong(v uint64) ([]byte, error) {
	if v > math.MaxUint8 {
		return nil, errors.NewEncodingConstraint("smallulong", "value %d exceeds 255", v)
	}
	return []byte{CtorSmallULong, byte(v)}, nil
}

// Byte encodes an 8-bit signed integer.
func Byte(v int8) []byte { return []byte{CtorByte, byte(v)} }

// Short encodes a 16-bit signed integer.
func Short(v int16) []byte {
	out := []byte{CtorShort, 0, 0}
	binary.BigEndian.PutUint16(out[1:], uint16(v))
	return out
}

// Int encodes a 32-bit signed integer at full width.
func Int(v int32) []byte {
	out := []byte{CtorInt, 0, 0, 0, 0}
	binary.BigEndian.PutUint32(out[1:], uint32(v))
	return out
}

// SmallInt encodes an int whose value fits in one signed octet.
func SmallInt(v int32) ([]byte, error) {
	if v < math.MinInt8 || v > math.MaxInt8 {
		return nil, errors.NewEncodingConstraint("smallint", "value %d outside [-128, 127]", v)
	}
	return []byte{CtorSmallInt, byte(int8(v))}, nil
}

// Long encodes a 64-bit signed integer at full width.
func Long(v int64) []byte {
	out := make([]byte, 9)
	out[0] = CtorLong
	binary.BigEndian.PutUint64(out[1:], uint64(v))
	return out
}

// SmallLong encodes a long whose value fits in one signed octet.
func SmallLong(v int64) ([]byte, error) {
	if v < math.MinInt8 || v > math.MaxInt8 {
		return nil, errors.NewEncodingConstraint("smalllong", "value %d outside [-128, 127]", v)
	}
	return []byte{CtorSmallLong, byte(int8(v))}, nil
}

// Char encodes a Unicode code point as 4 big-endian bytes.
func Char(r rune) []byte {
	out := []byte{CtorChar, 0, 0, 0, 0}
	binary.BigEndian.PutUint32(out[1:], uint32(r))
	return out
}

// Timestamp encodes milliseconds since the unix epoch.
func Timestamp(millis int64) []byte {
	out := make([]byte, 9)
	out[0] = CtorTimestamp
	binary.BigEndian.PutUint64(out[1:], uint64(millis))
	return out
}

// variable-width kinds: the caller picks the width class explicitly, and an
// oversized payload is a constraint violation, never a silent truncation.

func sized8(field string, ctor byte, payload []byte) ([]byte, error) {
	if len(payload) > math.MaxUint8 {
		return nil, errors.NewEncodingConstraint(field, "payload length %d exceeds 255", len(payload))
	}
	out := make([]byte, 0, 2+len(payload))
	out = append(out, ctor, byte(len(payload)))
	return append(out, payload...), nil
}

func sized32(ctor byte, payload []byte) []byte {
	out := make([]byte, 5, 5+len(payload))
	out[0] = ctor
	binary.BigEndian.PutUint32(out[1:5], uint32(len(payload)))
	return append(out, payload...)
}

// Binary8 encodes up to 255 octets of binary data.
func Binary8(v []byte) ([]byte, error) { return sized8("binary8", CtorVbin8, v) }

// Binary32 encodes binary data with a 4-byte length prefix.
func Binary32(v []byte) []byte { return sized32(CtorVbin32, v) }

// String8 encodes up to 255 octets of UTF-8 text.
func String8(v string) ([]byte, error) { return sized8("string8", CtorStr8, []byte(v)) }

// String32 encodes UTF-8 text with a 4-byte length prefix.
func String32(v string) []byte { return sized32(CtorStr32, []byte(v)) }

// Symbol8 encodes up to 255 octets of symbolic ASCII.
func Symbol8(v string) ([]byte, error) { return sized8("symbol8", CtorSym8, []byte(v)) }

// Symbol32 encodes symbolic ASCII with a 4-byte length prefix.
func Symbol32(v string) []byte { return sized32(CtorSym32, []byte(v)) }
