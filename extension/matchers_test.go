package extension

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vortexmq/amqpex/errors"
)

func buildDataEx(t *testing.T, to string) []byte {
	t.Helper()
	built, err := NewDataEx().
		TypeID(0x10).
		DeliveryTag([]byte("tag1")).
		MessageFormat(0).
		Flags("SETTLED").
		To(to).
		Build()
	require.NoError(t, err)
	return built
}

func TestMatcherRequiresTypeID(t *testing.T) {
	_, err := NewMatchDataEx().To("queue1").Build()
	require.Error(t, err)
	assert.True(t, errors.IsKind(err, errors.MatchFailure))

	_, err = NewMatchBeginEx().Address("a").Build()
	assert.Error(t, err)

	_, err = NewMatchAbortEx().Condition("c").Build()
	assert.Error(t, err)
}

func TestMatcherWildcardsEverythingButTypeID(t *testing.T) {
	match, err := NewMatchDataEx().TypeID(0x10).Build()
	require.NoError(t, err)

	for _, to := range []string{"queue1", "queue2", ""} {
		built := buildDataEx(t, to)
		cur := &Cursor{Buf: built}
		record, err := match(cur)
		require.NoError(t, err, "typeId-only matcher must match any DataEx of that type")
		assert.Equal(t, uint32(0x10), record.TypeID)
		assert.Equal(t, len(built), cur.Pos)
	}
}

func TestMatcherRejectsDifferentTypeID(t *testing.T) {
	match, err := NewMatchDataEx().TypeID(0x99).Build()
	require.NoError(t, err)

	cur := &Cursor{Buf: buildDataEx(t, "queue1")}
	_, err = match(cur)
	require.Error(t, err)
	assert.True(t, errors.IsKind(err, errors.MatchFailure))
	assert.Equal(t, 0, cur.Pos, "failed match must not advance the cursor")
}

func TestMatcherExactFlagsBitmask(t *testing.T) {
	buildWithFlags := func(names ...string) []byte {
		built, err := NewDataEx().TypeID(0x10).Flags(names...).Build()
		require.NoError(t, err)
		return built
	}

	match, err := NewMatchDataEx().TypeID(0x10).Flags("SETTLED", "ABORTED").Build()
	require.NoError(t, err)

	// 0b0101 matches only the exact combination
	record, err := match(&Cursor{Buf: buildWithFlags("SETTLED", "ABORTED")})
	require.NoError(t, err)
	assert.Equal(t, TransferFlags(5), record.Flags)

	for _, single := range []string{"SETTLED", "RESUME", "ABORTED"} {
		_, err := match(&Cursor{Buf: buildWithFlags(single)})
		require.Error(t, err, "flags %s alone must not match", single)
		assert.True(t, errors.IsKind(err, errors.MatchFailure))
	}
}

func TestMatcherSingleAssignmentGuard(t *testing.T) {
	m := NewMatchDataEx().TypeID(0x10).DeliveryTag([]byte("a")).DeliveryTag([]byte("b"))
	_, err := m.Build()
	require.Error(t, err)
	assert.True(t, errors.IsKind(err, errors.DuplicateField))

	m = NewMatchDataEx().TypeID(0x10).To("x").To("y")
	_, err = m.Build()
	require.Error(t, err)
	assert.True(t, errors.IsKind(err, errors.DuplicateField))

	ab := NewMatchAbortEx().TypeID(1).TypeID(2)
	_, err = ab.Build()
	require.Error(t, err)
	assert.True(t, errors.IsKind(err, errors.DuplicateField))
}

func TestMatcherEndToEndScenario(t *testing.T) {
	built := buildDataEx(t, "queue1")

	match, err := NewMatchDataEx().TypeID(0x10).To("queue1").Build()
	require.NoError(t, err)

	cur := &Cursor{Buf: built}
	record, err := match(cur)
	require.NoError(t, err)
	assert.Equal(t, len(built), cur.Pos, "cursor advances by the full record length")
	assert.Equal(t, []byte("tag1"), record.DeliveryTag)

	// same matcher against queue2 bytes reports a MatchFailure
	other := buildDataEx(t, "queue2")
	_, err = match(&Cursor{Buf: other})
	require.Error(t, err)
	assert.True(t, errors.IsKind(err, errors.MatchFailure))
	assert.Contains(t, err.Error(), "queue2", "failure renders the decoded record")
}

func TestMatcherSequentialRecords(t *testing.T) {
	first := buildDataEx(t, "queue1")
	second := buildDataEx(t, "queue1")
	buf := append(append([]byte{}, first...), second...)

	match, err := NewMatchDataEx().TypeID(0x10).To("queue1").Build()
	require.NoError(t, err)

	cur := &Cursor{Buf: buf}
	_, err = match(cur)
	require.NoError(t, err)
	assert.Equal(t, len(first), cur.Pos)

	_, err = match(cur)
	require.NoError(t, err)
	assert.Equal(t, len(buf), cur.Pos)
	assert.Empty(t, cur.Remaining())
}

func TestMatcherDecodeFailure(t *testing.T) {
	match, err := NewMatchDataEx().TypeID(0x10).Build()
	require.NoError(t, err)

	_, err = match(&Cursor{Buf: []byte{0x00, 0x00}})
	require.Error(t, err)
	assert.True(t, errors.IsKind(err, errors.DecodeFailure))
}

func TestMatcherAnnotationsCompareWholeList(t *testing.T) {
	built, err := NewDataEx().
		TypeID(0x10).
		Annotation(NumericKey(1), []byte("a")).
		Annotation(NamedKey("k"), []byte("b")).
		Build()
	require.NoError(t, err)

	match, err := NewMatchDataEx().
		TypeID(0x10).
		Annotation(NumericKey(1), []byte("a")).
		Annotation(NamedKey("k"), []byte("b")).
		Build()
	require.NoError(t, err)
	_, err = match(&Cursor{Buf: built})
	assert.NoError(t, err)

	// order matters: swapped annotations must not match
	swapped, err := NewMatchDataEx().
		TypeID(0x10).
		Annotation(NamedKey("k"), []byte("b")).
		Annotation(NumericKey(1), []byte("a")).
		Build()
	require.NoError(t, err)
	_, err = swapped(&Cursor{Buf: built})
	require.Error(t, err)
	assert.True(t, errors.IsKind(err, errors.MatchFailure))

	// a shorter expected list must not match either
	short, err := NewMatchDataEx().
		TypeID(0x10).
		Annotation(NumericKey(1), []byte("a")).
		Build()
	require.NoError(t, err)
	_, err = short(&Cursor{Buf: built})
	assert.Error(t, err)
}

func TestMatcherPropertiesCompareWholeRecord(t *testing.T) {
	built, err := NewDataEx().TypeID(0x10).To("queue1").Subject("s").Build()
	require.NoError(t, err)

	// matching only a subset of the decoded properties fails: once any
	// property is configured, the whole record must agree
	partial, err := NewMatchDataEx().TypeID(0x10).To("queue1").Build()
	require.NoError(t, err)
	_, err = partial(&Cursor{Buf: built})
	require.Error(t, err)
	assert.True(t, errors.IsKind(err, errors.MatchFailure))

	full, err := NewMatchDataEx().TypeID(0x10).To("queue1").Subject("s").Build()
	require.NoError(t, err)
	_, err = full(&Cursor{Buf: built})
	assert.NoError(t, err)
}

func TestMatcherLatchedEnumError(t *testing.T) {
	_, err := NewMatchDataEx().TypeID(1).Flags("NOPE").Build()
	require.Error(t, err)
	assert.True(t, errors.IsKind(err, errors.UnrecognizedEnum))
}

func TestBeginExMatcher(t *testing.T) {
	built, err := NewBeginEx().
		TypeID(0x11).
		Address("session0").
		Capabilities("SEND_ONLY").
		SenderSettleMode("MIXED").
		ReceiverSettleMode("SECOND").
		Build()
	require.NoError(t, err)

	match, err := NewMatchBeginEx().
		TypeID(0x11).
		Capabilities("SEND_ONLY").
		ReceiverSettleMode("SECOND").
		Build()
	require.NoError(t, err)

	cur := &Cursor{Buf: built}
	record, err := match(cur)
	require.NoError(t, err)
	assert.Equal(t, "session0", record.Address)
	assert.Equal(t, len(built), cur.Pos)

	wrong, err := NewMatchBeginEx().TypeID(0x11).SenderSettleMode("SETTLED").Build()
	require.NoError(t, err)
	_, err = wrong(&Cursor{Buf: built})
	require.Error(t, err)
	assert.True(t, errors.IsKind(err, errors.MatchFailure))
}

func TestAbortExMatcher(t *testing.T) {
	built, err := NewAbortEx().TypeID(0x12).Condition("link-detached").Build()
	require.NoError(t, err)

	match, err := NewMatchAbortEx().TypeID(0x12).Condition("link-detached").Build()
	require.NoError(t, err)
	cur := &Cursor{Buf: built}
	_, err = match(cur)
	require.NoError(t, err)
	assert.Equal(t, len(built), cur.Pos)

	wrong, err := NewMatchAbortEx().TypeID(0x12).Condition("other").Build()
	require.NoError(t, err)
	_, err = wrong(&Cursor{Buf: built})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "link-detached")
}
