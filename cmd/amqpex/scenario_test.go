package main

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vortexmq/amqpex/errors"
	"github.com/vortexmq/amqpex/extension"
)

const sampleScenario = `
records:
  - kind: routeEx
    address: queue1
    capabilities: RECEIVE_ONLY
  - kind: beginEx
    typeId: 17
    address: session0
    capabilities: SEND_AND_RECEIVE
    senderSettleMode: SETTLED
    receiverSettleMode: FIRST
  - kind: dataEx
    typeId: 16
    deliveryTag: tag1
    messageFormat: 0
    flags: [SETTLED]
    properties:
      to: queue1
    applicationProperties:
      - key: region
        value: us-east
    bodyKind: DATA
  - kind: abortEx
    typeId: 18
    condition: link-detached
`

func writeScenario(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "scenario.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestLoadScenario(t *testing.T) {
	s, err := LoadScenario(writeScenario(t, sampleScenario))
	require.NoError(t, err)
	require.Len(t, s.Records, 4)
	assert.Equal(t, "routeEx", s.Records[0].Kind)
	assert.Equal(t, uint32(16), s.Records[2].TypeID)
	require.NotNil(t, s.Records[2].Properties)
	require.NotNil(t, s.Records[2].Properties.To)
	assert.Equal(t, "queue1", *s.Records[2].Properties.To)
}

func TestLoadScenarioEmpty(t *testing.T) {
	_, err := LoadScenario(writeScenario(t, "records: []\n"))
	assert.ErrorContains(t, err, "no records")
}

func TestScenarioBuildsDecodableRecords(t *testing.T) {
	s, err := LoadScenario(writeScenario(t, sampleScenario))
	require.NoError(t, err)

	route, err := s.Records[0].Build()
	require.NoError(t, err)
	routeEx, _, err := extension.DecodeRouteEx(route)
	require.NoError(t, err)
	assert.Equal(t, "queue1", routeEx.Address)
	assert.Equal(t, extension.ReceiveOnly, routeEx.Capabilities)

	data, err := s.Records[2].Build()
	require.NoError(t, err)
	dataEx, size, err := extension.DecodeDataEx(data)
	require.NoError(t, err)
	assert.Equal(t, len(data), size)
	assert.Equal(t, []byte("tag1"), dataEx.DeliveryTag)
	assert.Equal(t, extension.FlagSettled, dataEx.Flags)
	require.NotNil(t, dataEx.Properties)
	require.NotNil(t, dataEx.Properties.To)
	assert.Equal(t, "queue1", *dataEx.Properties.To)
	assert.Equal(t, extension.BodyData, dataEx.BodyKind)
}

func TestScenarioRejectsUnknownKind(t *testing.T) {
	spec := RecordSpec{Kind: "flushEx"}
	_, err := spec.Build()
	assert.ErrorContains(t, err, "unknown record kind")
}

func TestScenarioBadEnumSurfacesBuilderError(t *testing.T) {
	spec := RecordSpec{Kind: "routeEx", Address: "q", Capabilities: "receive_only"}
	_, err := spec.Build()
	require.Error(t, err)
	assert.True(t, errors.IsKind(err, errors.UnrecognizedEnum))
}
