package codec

import (
	"bytes"
	"strings"
	"testing"

	"github.com/vortexmq/amqpex/errors"
)

func TestFixedLiteralEncodings(t *testing.T) {
	tests := []struct {
		name string
		got  []byte
		want []byte
	}{
		{"null", Null(), []byte{0x40}},
		{"true", True(), []byte{0x41}},
		{"false", False(), []byte{0x42}},
		{"uint0", UInt0(), []byte{0x43}},
		{"ulong0", ULong0(), []byte{0x44}},
		{"boolean true", Boolean(true), []byte{0x56, 0x01}},
		{"boolean false", Boolean(false), []byte{0x56, 0x00}},
	}
	for _, tt := range tests {
		if !bytes.Equal(tt.got, tt.want) {
			t.Errorf("%s: got % x, want % x", tt.name, tt.got, tt.want)
		}
	}
}

func TestUnsignedEncodings(t *testing.T) {
	if got := UInt(500); !bytes.Equal(got, []byte{0x70, 0x00, 0x00, 0x01, 0xf4}) {
		t.Errorf("uint(500): got % x", got)
	}
	if got := UShort(0x1234); !bytes.Equal(got, []byte{0x60, 0x12, 0x34}) {
		t.Errorf("ushort: got % x", got)
	}
	if got := ULong(1); !bytes.Equal(got, []byte{0x80, 0, 0, 0, 0, 0, 0, 0, 1}) {
		t.Errorf("ulong: got % x", got)
	}
	small, err := SmallUInt(255)
	if err != nil {
		t.Fatalf("smalluint(255): %v", err)
	}
	if !bytes.Equal(small, []byte{0x52, 0xff}) {
		t.Errorf("smalluint: got % x", small)
	}
	if _, err := SmallUInt(256); !errors.IsKind(err, errors.EncodingConstraint) {
		t.Errorf("smalluint(256): expected constraint violation, got %v", err)
	}
	if _, err := SmallULong(300); !errors.IsKind(err, errors.EncodingConstraint) {
		t.Errorf("smallulong(300): expected constraint violation, got %v", err)
	}
}

func TestSignedEncodings(t *testing.T) {
	if got := Byte(-1); !bytes.Equal(got, []byte{0x51, 0xff}) {
		t.Errorf("byte(-1): got % x", got)
	}
	if got := Short(-2); !bytes.Equal(got, []byte{0x61, 0xff, 0xfe}) {
		t.Errorf("short(-2): got % x", got)
	}
	if got := Int(-1); !bytes.Equal(got, []byte{0x71, 0xff, 0xff, 0xff, 0xff}) {
		t.Errorf("int(-1): got % x", got)
	}
	if _, err := SmallInt(200); !errors.IsKind(err, errors.EncodingConstraint) {
		t.Errorf("smallint(200): expected constraint violation, got %v", err)
	}
	if _, err := SmallLong(-129); !errors.IsKind(err, errors.EncodingConstraint) {
		t.Errorf("smalllong(-129): expected constraint violation, got %v", err)
	}
}

func TestVariableWidthEncodings(t *testing.T) {
	s8, err := String8("abc")
	if err != nil {
		t.Fatalf("string8: %v", err)
	}
	if !bytes.Equal(s8, []byte{0xa1, 0x03, 'a', 'b', 'c'}) {
		t.Errorf("string8: got % x", s8)
	}
	if got := String32("abc"); !bytes.Equal(got, []byte{0xb1, 0, 0, 0, 3, 'a', 'b', 'c'}) {
		t.Errorf("string32: got % x", got)
	}
	b8, err := Binary8([]byte{0xde, 0xad})
	if err != nil {
		t.Fatalf("binary8: %v", err)
	}
	if !bytes.Equal(b8, []byte{0xa0, 0x02, 0xde, 0xad}) {
		t.Errorf("binary8: got % x", b8)
	}
	sym, err := Symbol8("amqp:link:stolen")
	if err != nil {
		t.Fatalf("symbol8: %v", err)
	}
	if sym[0] != CtorSym8 || int(sym[1]) != len("amqp:link:stolen") {
		t.Errorf("symbol8 header: got % x", sym[:2])
	}
}

func TestString8BoundaryNeverTruncates(t *testing.T) {
	long := strings.Repeat("x", 300)
	if _, err := String8(long); !errors.IsKind(err, errors.EncodingConstraint) {
		t.Fatalf("string8(300 chars): expected constraint violation, got %v", err)
	}
	// 255 is the last legal length for the 8-bit width class.
	edge, err := String8(strings.Repeat("x", 255))
	if err != nil {
		t.Fatalf("string8(255 chars): %v", err)
	}
	if len(edge) != 2+255 {
		t.Errorf("string8(255 chars): length %d", len(edge))
	}
	if _, err := Binary8(make([]byte, 256)); !errors.IsKind(err, errors.EncodingConstraint) {
		t.Errorf("binary8(256): expected constraint violation, got %v", err)
	}
	if _, err := Symbol8(strings.Repeat("s", 256)); !errors.IsKind(err, errors.EncodingConstraint) {
		t.Errorf("symbol8(256): expected constraint violation, got %v", err)
	}
}

func TestRoundTrip(t *testing.T) {
	encodings := []struct {
		name string
		enc  []byte
		want Value
	}{
		{"null", Null(), Value{Kind: KindNull}},
		{"true", True(), Value{Kind: KindBool, Bool: true}},
		{"boolean false", Boolean(false), Value{Kind: KindBool}},
		{"ubyte", UByte(0x7f), Value{Kind: KindUByte, Uint: 0x7f}},
		{"ushort", UShort(500), Value{Kind: KindUShort, Uint: 500}},
		{"uint 500", UInt(500), Value{Kind: KindUInt, Uint: 500}},
		{"uint0", UInt0(), Value{Kind: KindUInt}},
		{"ulong", ULong(1 << 40), Value{Kind: KindULong, Uint: 1 << 40}},
		{"ulong0", ULong0(), Value{Kind: KindULong}},
		{"byte", Byte(-5), Value{Kind: KindByte, Int: -5}},
		{"short", Short(-300), Value{Kind: KindShort, Int: -300}},
		{"int", Int(-70000), Value{Kind: KindInt, Int: -70000}},
		{"long", Long(-1 << 40), Value{Kind: KindLong, Int: -1 << 40}},
		{"char", Char('é'), Value{Kind: KindChar, Char: 'é'}},
		{"timestamp", Timestamp(1598918400000), Value{Kind: KindTimestamp, Int: 1598918400000}},
		{"string32", String32("hello"), Value{Kind: KindString, Str: "hello"}},
		{"symbol32", Symbol32("sym"), Value{Kind: KindSymbol, Str: "sym"}},
		{"binary32", Binary32([]byte{1, 2, 3}), Value{Kind: KindBinary, Bytes: []byte{1, 2, 3}}},
	}
	for _, tt := range encodings {
		got, n, err := Decode(tt.enc)
		if err != nil {
			t.Errorf("%s: decode: %v", tt.name, err)
			continue
		}
		if n != len(tt.enc) {
			t.Errorf("%s: consumed %d of %d bytes", tt.name, n, len(tt.enc))
		}
		if got.Kind != tt.want.Kind || got.Bool != tt.want.Bool || got.Uint != tt.want.Uint ||
			got.Int != tt.want.Int || got.Char != tt.want.Char || got.Str != tt.want.Str ||
			!bytes.Equal(got.Bytes, tt.want.Bytes) {
			t.Errorf("%s: got %+v, want %+v", tt.name, got, tt.want)
		}
	}
}

func TestRoundTripSized8(t *testing.T) {
	s8, _ := String8("queue1")
	v, n, err := Decode(s8)
	if err != nil || v.Str != "queue1" || n != len(s8) {
		t.Fatalf("string8 round trip: v=%+v n=%d err=%v", v, n, err)
	}
	b8, _ := Binary8([]byte("tag1"))
	v, n, err = Decode(b8)
	if err != nil || !bytes.Equal(v.Bytes, []byte("tag1")) || n != len(b8) {
		t.Fatalf("binary8 round trip: v=%+v n=%d err=%v", v, n, err)
	}
	sym8, _ := Symbol8("s")
	v, _, err = Decode(sym8)
	if err != nil || v.Kind != KindSymbol || v.Str != "s" {
		t.Fatalf("symbol8 round trip: v=%+v err=%v", v, err)
	}
}

func TestDecodeFailures(t *testing.T) {
	cases := []struct {
		name string
		buf  []byte
	}{
		{"empty", nil},
		{"unknown constructor", []byte{0x99}},
		{"truncated uint", []byte{0x70, 0x00}},
		{"truncated string8 payload", []byte{0xa1, 0x05, 'a'}},
		{"truncated binary32 size", []byte{0xb0, 0x00}},
		{"invalid boolean octet", []byte{0x56, 0x02}},
	}
	for _, tt := range cases {
		if _, _, err := Decode(tt.buf); !errors.IsKind(err, errors.DecodeFailure) {
			t.Errorf("%s: expected decode failure, got %v", tt.name, err)
		}
	}
}
