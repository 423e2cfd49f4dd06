package extension

import (
	"bytes"
	"encoding/binary"
	"math"

	"github.com/vortexmq/amqpex/errors"
)

// Message-property field ids in canonical wire order.
const (
	propMessageID          = 0
	propUserID             = 1
	propTo                 = 2
	propSubject            = 3
	propReplyTo            = 4
	propCorrelationID      = 5
	propContentType        = 6
	propContentEncoding    = 7
	propAbsoluteExpiryTime = 8
	propCreationTime       = 9
	propGroupID            = 10
	propGroupSequence      = 11
	propReplyToGroupID     = 12
)

func writeString8(buf *bytes.Buffer, field, v string) error {
	if len(v) > math.MaxUint8 {
		return errors.NewEncodingConstraint(field, "payload length %d exceeds 255", len(v))
	}
	buf.WriteByte(byte(len(v)))
	buf.WriteString(v)
	return nil
}

func writeBytes8(buf *bytes.Buffer, field string, v []byte) error {
	if len(v) > math.MaxUint8 {
		return errors.NewEncodingConstraint(field, "payload length %d exceeds 255", len(v))
	}
	buf.WriteByte(byte(len(v)))
	buf.Write(v)
	return nil
}

func writeBytes32(buf *bytes.Buffer, v []byte) {
	var size [4]byte
	binary.BigEndian.PutUint32(size[:], uint32(len(v)))
	buf.Write(size[:])
	buf.Write(v)
}

func writeUint32(buf *bytes.Buffer, v uint32) {
	var tmp [4]byte
	binary.BigEndian.PutUint32(tmp[:], v)
	buf.Write(tmp[:])
}

func writeUint64(buf *bytes.Buffer, v uint64) {
	var tmp [8]byte
	binary.BigEndian.PutUint64(tmp[:], v)
	buf.Write(tmp[:])
}

// writeArray32 frames an already-encoded items region as a length-prefixed
// ordered array: 4-byte byte length of the items region, 4-byte item count,
// then the items. The items region is capped at MaxCollectionSize.
func writeArray32(buf *bytes.Buffer, field string, items []byte, count int) error {
	if len(items) > MaxCollectionSize {
		return errors.NewBufferCapacity(field, len(items), MaxCollectionSize)
	}
	writeUint32(buf, uint32(len(items)))
	writeUint32(buf, uint32(count))
	buf.Write(items)
	return nil
}

func writeMessageID(buf *bytes.Buffer, field string, id *MessageID) error {
	buf.WriteByte(byte(id.Kind))
	switch id.Kind {
	case MessageIDULong:
		writeUint64(buf, id.ULong)
		return nil
	case MessageIDBinary:
		return writeBytes8(buf, field, id.Binary)
	case MessageIDString:
		return writeString8(buf, field, id.Str)
	}
	return errors.NewEncodingConstraint(field, "invalid messageId kind %d", id.Kind)
}

func encodeAnnotations(annotations []Annotation) ([]byte, error) {
	var items bytes.Buffer
	for _, a := range annotations {
		items.WriteByte(byte(a.Key.Kind))
		switch a.Key.Kind {
		case KeyNumericID:
			writeUint64(&items, a.Key.ID)
		case KeyName:
			if err := writeString8(&items, "annotations", a.Key.Name); err != nil {
				return nil, err
			}
		default:
			return nil, errors.NewEncodingConstraint("annotations", "invalid key kind %d", a.Key.Kind)
		}
		writeBytes32(&items, a.Value)
	}
	return items.Bytes(), nil
}

// encodeProperties serializes the set fields of the properties record, one
// item per field, in fieldId order. A nil or empty record yields no items.
func encodeProperties(p *MessageProperties) ([]byte, int, error) {
	if p.isZero() {
		return nil, 0, nil
	}
	var items bytes.Buffer
	count := 0
	if p.MessageID != nil {
		items.WriteByte(propMessageID)
		count++
		if err := writeMessageID(&items, "messageId", p.MessageID); err != nil {
			return nil, 0, err
		}
	}
	if p.UserID != nil {
		items.WriteByte(propUserID)
		count++
		if err := writeBytes8(&items, "userId", p.UserID); err != nil {
			return nil, 0, err
		}
	}
	stringProps := []struct {
		id   byte
		name string
		val  *string
	}{
		{propTo, "to", p.To},
		{propSubject, "subject", p.Subject},
		{propReplyTo, "replyTo", p.ReplyTo},
	}
	for _, sp := range stringProps {
		if sp.val == nil {
			continue
		}
		items.WriteByte(sp.id)
		count++
		if err := writeString8(&items, sp.name, *sp.val); err != nil {
			return nil, 0, err
		}
	}
	if p.CorrelationID != nil {
		items.WriteByte(propCorrelationID)
		count++
		if err := writeMessageID(&items, "correlationId", p.CorrelationID); err != nil {
			return nil, 0, err
		}
	}
	stringProps = []struct {
		id   byte
		name string
		val  *string
	}{
		{propContentType, "contentType", p.ContentType},
		{propContentEncoding, "contentEncoding", p.ContentEncoding},
	}
	for _, sp := range stringProps {
		if sp.val == nil {
			continue
		}
		items.WriteByte(sp.id)
		count++
		if err := writeString8(&items, sp.name, *sp.val); err != nil {
			return nil, 0, err
		}
	}
	if p.AbsoluteExpiryTime != nil {
		items.WriteByte(propAbsoluteExpiryTime)
		count++
		writeUint64(&items, *p.AbsoluteExpiryTime)
	}
	if p.CreationTime != nil {
		items.WriteByte(propCreationTime)
		count++
		writeUint64(&items, *p.CreationTime)
	}
	if p.GroupID != nil {
		items.WriteByte(propGroupID)
		count++
		if err := writeString8(&items, "groupId", *p.GroupID); err != nil {
			return nil, 0, err
		}
	}
	if p.GroupSequence != nil {
		items.WriteByte(propGroupSequence)
		count++
		writeUint32(&items, *p.GroupSequence)
	}
	if p.ReplyToGroupID != nil {
		items.WriteByte(propReplyToGroupID)
		count++
		if err := writeString8(&items, "replyToGroupId", *p.ReplyToGroupID); err != nil {
			return nil, 0, err
		}
	}
	return items.Bytes(), count, nil
}

func encodeApplicationProperties(props []ApplicationProperty) ([]byte, error) {
	var items bytes.Buffer
	for _, ap := range props {
		if err := writeString8(&items, "applicationProperties", ap.Key); err != nil {
			return nil, err
		}
		writeBytes32(&items, ap.Value)
	}
	return items.Bytes(), nil
}

func finish(buf *bytes.Buffer) ([]byte, error) {
	if buf.Len() > MaxRecordSize {
		return nil, errors.NewBufferCapacity("record", buf.Len(), MaxRecordSize)
	}
	// exact-size result buffer, detached from the accumulator
	out := make([]byte, buf.Len())
	copy(out, buf.Bytes())
	return out, nil
}

// MarshalBinary encodes the record into its canonical wire layout.
func (r *RouteEx) MarshalBinary() ([]byte, error) {
	var buf bytes.Buffer
	if err := writeString8(&buf, "address", r.Address); err != nil {
		return nil, err
	}
	buf.WriteByte(byte(r.Capabilities))
	return finish(&buf)
}

// MarshalBinary encodes the record into its canonical wire layout.
func (b *BeginEx) MarshalBinary() ([]byte, error) {
	var buf bytes.Buffer
	writeUint32(&buf, b.TypeID)
	if err := writeString8(&buf, "address", b.Address); err != nil {
		return nil, err
	}
	buf.WriteByte(byte(b.Capabilities))
	buf.WriteByte(byte(b.SenderSettleMode))
	buf.WriteByte(byte(b.ReceiverSettleMode))
	return finish(&buf)
}

// MarshalBinary encodes the record into its canonical wire layout. Unset
// collections encode as empty arrays; an unset deliveryTag encodes as a
// zero-length tag.
func (d *DataEx) MarshalBinary() ([]byte, error) {
	var buf bytes.Buffer
	writeUint32(&buf, d.TypeID)
	if err := writeBytes8(&buf, "deliveryTag", d.DeliveryTag); err != nil {
		return nil, err
	}
	writeUint32(&buf, d.Deferred)
	writeUint32(&buf, d.MessageFormat)
	buf.WriteByte(byte(d.Flags))

	annotations, err := encodeAnnotations(d.Annotations)
	if err != nil {
		return nil, err
	}
	if err := writeArray32(&buf, "annotations", annotations, len(d.Annotations)); err != nil {
		return nil, err
	}

	properties, count, err := encodeProperties(d.Properties)
	if err != nil {
		return nil, err
	}
	if err := writeArray32(&buf, "properties", properties, count); err != nil {
		return nil, err
	}

	appProps, err := encodeApplicationProperties(d.ApplicationProperties)
	if err != nil {
		return nil, err
	}
	if err := writeArray32(&buf, "applicationProperties", appProps, len(d.ApplicationProperties)); err != nil {
		return nil, err
	}

	buf.WriteByte(byte(d.BodyKind))
	return finish(&buf)
}

// MarshalBinary encodes the record into its canonical wire layout.
func (a *AbortEx) MarshalBinary() ([]byte, error) {
	var buf bytes.Buffer
	writeUint32(&buf, a.TypeID)
	if err := writeString8(&buf, "condition", a.Condition); err != nil {
		return nil, err
	}
	return finish(&buf)
}
