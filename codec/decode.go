package codec

import (
	"encoding/binary"

	"github.com/vortexmq/amqpex/errors"
)

// Decode parses one primitive value from the front of buf, returning the
// value and the number of bytes consumed. It dispatches on the constructor
// byte and validates that size-prefixed payloads fit inside buf.
func Decode(buf []byte) (Value, int, error) {
	if len(buf) == 0 {
		return Value{}, 0, errors.NewDecodeFailure("constructor", "empty buffer")
	}
	ctor := buf[0]
	rest := buf[1:]

	switch ctor {
	case CtorNull:
		return Value{Kind: KindNull}, 1, nil
	case CtorBoolTrue:
		return Value{Kind: KindBool, Bool: true}, 1, nil
	case CtorBoolFalse:
		return Value{Kind: KindBool}, 1, nil
	case CtorUInt0:
		return Value{Kind: KindUInt}, 1, nil
	case CtorULong0:
		return Value{Kind: KindULong}, 1, nil

	case CtorBool:
		if len(rest) < 1 {
			return Value{}, 0, truncated("boolean", 1, len(rest))
		}
		switch rest[0] {
		case 0x00:
			return Value{Kind: KindBool}, 2, nil
		case 0x01:
			return Value{Kind: KindBool, Bool: true}, 2, nil
		}
		return Value{}, 0, errors.NewDecodeFailure("boolean", "invalid octet 0x%02x", rest[0])

	case CtorUByte, CtorSmallUInt, CtorSmallULong:
		if len(rest) < 1 {
			return Value{}, 0, truncated("ubyte", 1, len(rest))
		}
		k := KindUByte
		switch ctor {
		case CtorSmallUInt:
			k = KindUInt
		case CtorSmallULong:
			k = KindULong
		}
		return Value{Kind: k, Uint: uint64(rest[0])}, 2, nil

	case CtorUShort:
		if len(rest) < 2 {
			return Value{}, 0, truncated("ushort", 2, len(rest))
		}
		return Value{Kind: KindUShort, Uint: uint64(binary.BigEndian.Uint16(rest))}, 3, nil

	case CtorUInt:
		if len(rest) < 4 {
			return Value{}, 0, truncated("uint", 4, len(rest))
		}
		return Value{Kind: KindUInt, Uint: uint64(binary.BigEndian.Uint32(rest))}, 5, nil

	case CtorULong:
		if len(rest) < 8 {
			return Value{}, 0, truncated("ulong", 8, len(rest))
		}
		return Value{Kind: KindULong, Uint: binary.BigEndian.Uint64(rest)}, 9, nil

	case CtorByte, CtorSmallInt, CtorSmallLong:
		if len(rest) < 1 {
			return Value{}, 0, truncated("byte", 1, len(rest))
		}
		k := KindByte
		switch ctor {
		case CtorSmallInt:
			k = KindInt
		case CtorSmallLong:
			k = KindLong
		}
		return Value{Kind: k, Int: int64(int8(rest[0]))}, 2, nil

	case CtorShort:
		if len(rest) < 2 {
			return Value{}, 0, truncated("short", 2, len(rest))
		}
		return Value{Kind: KindShort, Int: int64(int16(binary.BigEndian.Uint16(rest)))}, 3, nil

	case CtorInt:
		if len(rest) < 4 {
			return Value{}, 0, truncated("int", 4, len(rest))
		}
		return Value{Kind: KindInt, Int: int64(int32(binary.BigEndian.Uint32(rest)))}, 5, nil

	case CtorLong:
		if len(rest) < 8 {
			return Value{}, 0, truncated("long", 8, len(rest))
		}
		return Value{Kind: KindLong, Int: int64(binary.BigEndian.Uint64(rest))}, 9, nil

	case CtorChar:
		if len(rest) < 4 {
			return Value{}, 0, truncated("char", 4, len(rest))
		}
		return Value{Kind: KindChar, Char: rune(binary.BigEndian.Uint32(rest))}, 5, nil

	case CtorTimestamp:
		if len(rest) < 8 {
			return Value{}, 0, truncated("timestamp", 8, len(rest))
		}
		return Value{Kind: KindTimestamp, Int: int64(binary.BigEndian.Uint64(rest))}, 9, nil

	case CtorVbin8, CtorStr8, CtorSym8:
		payload, n, err := readSized8(rest)
		if err != nil {
			return Value{}, 0, err
		}
		return sizedValue(ctor, payload), 1 + n, nil

	case CtorVbin32, CtorStr32, CtorSym32:
		payload, n, err := readSized32(rest)
		if err != nil {
			return Value{}, 0, err
		}
		return sizedValue(ctor, payload), 1 + n, nil
	}

	return Value{}, 0, errors.NewDecodeFailure("constructor", "unknown constructor byte 0x%02x", ctor)
}

func sizedValue(ctor byte, payload []byte) Value {
	switch ctor {
	case CtorVbin8, CtorVbin32:
		return Value{Kind: KindBinary, Bytes: payload}
	case CtorSym8, CtorSym32:
		return Value{Kind: KindSymbol, Str: string(payload)}
	}
	return Value{Kind: KindString, Str: string(payload)}
}

func readSized8(buf []byte) ([]byte, int, error) {
	if len(buf) < 1 {
		return nil, 0, truncated("size8", 1, len(buf))
	}
	size := int(buf[0])
	if len(buf) < 1+size {
		return nil, 0, truncated("payload", size, len(buf)-1)
	}
	out := make([]byte, size)
	copy(out, buf[1:1+size])
	return out, 1 + size, nil
}

func readSized32(buf []byte) ([]byte, int, error) {
	if len(buf) < 4 {
		return nil, 0, truncated("size32", 4, len(buf))
	}
	size := int(binary.BigEndian.Uint32(buf))
	if size < 0 || len(buf) < 4+size {
		return nil, 0, truncated("payload", size, len(buf)-4)
	}
	out := make([]byte, size)
	copy(out, buf[4:4+size])
	return out, 4 + size, nil
}

func truncated(field string, want, have int) error {
	return errors.NewDecodeFailure(field, "need %d bytes, have %d", want, have)
}
