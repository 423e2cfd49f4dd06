package extension

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vortexmq/amqpex/errors"
)

func TestCapabilityCodes(t *testing.T) {
	tests := []struct {
		name string
		want Capability
	}{
		{"RECEIVE_ONLY", ReceiveOnly},
		{"SEND_ONLY", SendOnly},
		{"SEND_AND_RECEIVE", SendAndReceive},
	}
	for _, tt := range tests {
		got, err := ParseCapability(tt.name)
		require.NoError(t, err)
		assert.Equal(t, tt.want, got)
		assert.Equal(t, tt.name, got.String())
	}

	_, err := ParseCapability("send_only")
	require.Error(t, err, "names are case-exact")
	assert.True(t, errors.IsKind(err, errors.UnrecognizedEnum))
}

func TestSettleModeCodes(t *testing.T) {
	ssm, err := ParseSenderSettleMode("UNSETTLED")
	require.NoError(t, err)
	assert.Equal(t, SenderUnsettled, ssm)
	ssm, err = ParseSenderSettleMode("MIXED")
	require.NoError(t, err)
	assert.Equal(t, SenderMixed, ssm)
	_, err = ParseSenderSettleMode("ALWAYS")
	assert.True(t, errors.IsKind(err, errors.UnrecognizedEnum))

	rsm, err := ParseReceiverSettleMode("SECOND")
	require.NoError(t, err)
	assert.Equal(t, ReceiverSecond, rsm)
	_, err = ParseReceiverSettleMode("THIRD")
	assert.True(t, errors.IsKind(err, errors.UnrecognizedEnum))
}

func TestTransferFlagBits(t *testing.T) {
	flags, err := ParseTransferFlags("SETTLED", "ABORTED")
	require.NoError(t, err)
	assert.Equal(t, TransferFlags(0b0101), flags)

	flags, err = ParseTransferFlags("RESUME", "BATCHABLE")
	require.NoError(t, err)
	assert.Equal(t, TransferFlags(0b1010), flags)

	flags, err = ParseTransferFlags()
	require.NoError(t, err)
	assert.Equal(t, TransferFlags(0), flags)

	_, err = ParseTransferFlags("SETTLED", "URGENT")
	require.Error(t, err)
	assert.True(t, errors.IsKind(err, errors.UnrecognizedEnum))
}

func TestTransferFlagsString(t *testing.T) {
	assert.Equal(t, "[]", TransferFlags(0).String())
	assert.Equal(t, "[SETTLED|ABORTED]", (FlagSettled | FlagAborted).String())
}

func TestBodyKindCodes(t *testing.T) {
	for name, want := range map[string]BodyKind{
		"NULL":     BodyNull,
		"DATA":     BodyData,
		"SEQUENCE": BodySequence,
		"VALUE":    BodyValue,
	} {
		got, err := ParseBodyKind(name)
		require.NoError(t, err)
		assert.Equal(t, want, got)
	}
	_, err := ParseBodyKind("STREAM")
	assert.True(t, errors.IsKind(err, errors.UnrecognizedEnum))
}
