package extension

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vortexmq/amqpex/errors"
)

// dataExHeader is the fixed prefix of a DataEx record up to the annotations
// array: typeId, empty deliveryTag, deferred, messageFormat, flags.
func dataExHeader() []byte {
	return []byte{
		0x00, 0x00, 0x00, 0x10, // typeId
		0x00,                   // deliveryTag length
		0x00, 0x00, 0x00, 0x00, // deferred
		0x00, 0x00, 0x00, 0x00, // messageFormat
		0x00, // flags
	}
}

func TestDecodeDataExRejectsOverstatedAnnotationCount(t *testing.T) {
	// Empty annotations region claiming 0xFFFFFFFF items. The count must be
	// rejected against the region size before any allocation happens.
	buf := append(dataExHeader(),
		0x00, 0x00, 0x00, 0x00, // annotations byte length
		0xff, 0xff, 0xff, 0xff, // annotations item count
	)

	_, _, err := DecodeDataEx(buf)
	require.Error(t, err)
	assert.True(t, errors.IsKind(err, errors.DecodeFailure))
	assert.Contains(t, err.Error(), "item count")
}

func TestDecodeDataExRejectsOverstatedApplicationPropertyCount(t *testing.T) {
	buf := append(dataExHeader(),
		0x00, 0x00, 0x00, 0x00, // annotations: empty
		0x00, 0x00, 0x00, 0x00,
		0x00, 0x00, 0x00, 0x00, // properties: empty
		0x00, 0x00, 0x00, 0x00,
		0x00, 0x00, 0x00, 0x00, // applicationProperties byte length
		0xff, 0xff, 0xff, 0xff, // applicationProperties item count
	)

	_, _, err := DecodeDataEx(buf)
	require.Error(t, err)
	assert.True(t, errors.IsKind(err, errors.DecodeFailure))
	assert.Contains(t, err.Error(), "item count")
}

func TestDecodeDataExRejectsCountBeyondRegionCapacity(t *testing.T) {
	// A 6-byte region can back at most one annotation; claiming two must fail
	// before item decoding starts.
	buf := append(dataExHeader(),
		0x00, 0x00, 0x00, 0x06, // annotations byte length
		0x00, 0x00, 0x00, 0x02, // annotations item count
		0x01, 0x00, // named key, empty name
		0x00, 0x00, 0x00, 0x00, // empty value
	)

	_, _, err := DecodeDataEx(buf)
	require.Error(t, err)
	assert.True(t, errors.IsKind(err, errors.DecodeFailure))
}
