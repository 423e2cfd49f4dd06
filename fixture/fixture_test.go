package fixture

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vortexmq/amqpex/extension"
)

func TestSnapshotRoundTrip(t *testing.T) {
	record := &extension.AbortEx{TypeID: 0x12, Condition: "link-detached"}

	data, err := Snapshot(record)
	require.NoError(t, err)
	require.NotEmpty(t, data)

	var out extension.AbortEx
	require.NoError(t, Load(data, &out))
	assert.Equal(t, *record, out)
}

func TestSnapshotDeterministic(t *testing.T) {
	record := &extension.BeginEx{TypeID: 1, Address: "s", Capabilities: extension.SendOnly}

	first, err := Snapshot(record)
	require.NoError(t, err)
	second, err := Snapshot(record)
	require.NoError(t, err)
	assert.Equal(t, first, second)
}

func TestFileRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "record.cbor")
	record := &extension.DataEx{TypeID: 0x10, DeliveryTag: []byte("tag1"), Flags: extension.FlagSettled}

	require.NoError(t, WriteFile(path, record))

	var out extension.DataEx
	require.NoError(t, ReadFile(path, &out))
	assert.Equal(t, record.TypeID, out.TypeID)
	assert.Equal(t, record.DeliveryTag, out.DeliveryTag)
	assert.Equal(t, record.Flags, out.Flags)
}

func TestLoadRejectsGarbage(t *testing.T) {
	var out extension.DataEx
	assert.Error(t, Load([]byte{0xff, 0x00}, &out))
}
