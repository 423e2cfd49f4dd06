package extension

import (
	"encoding/binary"

	"github.com/vortexmq/amqpex/errors"
)

// decoder walks a byte region with bounds checks, following the offset
// pattern used throughout the wire layer. Every read failure is a
// DecodeFailure naming the field being read.
type decoder struct {
	buf []byte
	pos int
}

func (d *decoder) need(field string, n int) error {
	if d.pos+n > len(d.buf) {
		return errors.NewDecodeFailure(field, "need %d bytes at offset %d, have %d", n, d.pos, len(d.buf)-d.pos)
	}
	return nil
}

func (d *decoder) readUint8(field string) (uint8, error) {
	if err := d.need(field, 1); err != nil {
		return 0, err
	}
	v := d.buf[d.pos]
	d.pos++
	return v, nil
}

func (d *decoder) readUint32(field string) (uint32, error) {
	if err := d.need(field, 4); err != nil {
		return 0, err
	}
	v := binary.BigEndian.Uint32(d.buf[d.pos:])
	d.pos += 4
	return v, nil
}

func (d *decoder) readUint64(field string) (uint64, error) {
	if err := d.need(field, 8); err != nil {
		return 0, err
	}
	v := binary.BigEndian.Uint64(d.buf[d.pos:])
	d.pos += 8
	return v, nil
}

func (d *decoder) readString8(field string) (string, error) {
	size, err := d.readUint8(field)
	if err != nil {
		return "", err
	}
	if err := d.need(field, int(size)); err != nil {
		return "", err
	}
	v := string(d.buf[d.pos : d.pos+int(size)])
	d.pos += int(size)
	return v, nil
}

func (d *decoder) readBytes8(field string) ([]byte, error) {
	size, err := d.readUint8(field)
	if err != nil {
		return nil, err
	}
	if err := d.need(field, int(size)); err != nil {
		return nil, err
	}
	v := make([]byte, size)
	copy(v, d.buf[d.pos:])
	d.pos += int(size)
	return v, nil
}

func (d *decoder) readBytes32(field string) ([]byte, error) {
	size, err := d.readUint32(field)
	if err != nil {
		return nil, err
	}
	if err := d.need(field, int(size)); err != nil {
		return nil, err
	}
	v := make([]byte, size)
	copy(v, d.buf[d.pos:])
	d.pos += int(size)
	return v, nil
}

func (d *decoder) readMessageID(field string) (*MessageID, error) {
	kind, err := d.readUint8(field)
	if err != nil {
		return nil, err
	}
	switch MessageIDKind(kind) {
	case MessageIDULong:
		v, err := d.readUint64(field)
		if err != nil {
			return nil, err
		}
		return ULongMessageID(v), nil
	case MessageIDBinary:
		v, err := d.readBytes8(field)
		if err != nil {
			return nil, err
		}
		return BinaryMessageID(v), nil
	case MessageIDString:
		v, err := d.readString8(field)
		if err != nil {
			return nil, err
		}
		return StringMessageID(v), nil
	}
	return nil, errors.NewDecodeFailure(field, "invalid messageId kind %d", kind)
}

// readArray32 reads the array framing and returns a sub-decoder covering
// exactly the items region plus the item count. The region byte length must
// be consumed exactly by the item decoders.
func (d *decoder) readArray32(field string) (*decoder, int, error) {
	byteLen, err := d.readUint32(field)
	if err != nil {
		return nil, 0, err
	}
	count, err := d.readUint32(field)
	if err != nil {
		return nil, 0, err
	}
	if err := d.need(field, int(byteLen)); err != nil {
		return nil, 0, err
	}
	items := &decoder{buf: d.buf[d.pos : d.pos+int(byteLen)]}
	d.pos += int(byteLen)
	return items, int(count), nil
}

// Smallest possible encoded items, used to reject counts the region cannot
// back before any allocation happens: annotation = key kind + empty named
// key + value length prefix; application property = empty key + value
// length prefix.
const (
	annotationItemMin  = 6
	appPropertyItemMin = 5
)

func decodeAnnotations(d *decoder) ([]Annotation, error) {
	items, count, err := d.readArray32("annotations")
	if err != nil {
		return nil, err
	}
	if count > len(items.buf)/annotationItemMin {
		return nil, errors.NewDecodeFailure("annotations", "item count %d exceeds region size %d", count, len(items.buf))
	}
	annotations := make([]Annotation, 0, count)
	for i := 0; i < count; i++ {
		kind, err := items.readUint8("annotations")
		if err != nil {
			return nil, err
		}
		var key AnnotationKey
		switch AnnotationKeyKind(kind) {
		case KeyNumericID:
			id, err := items.readUint64("annotations")
			if err != nil {
				return nil, err
			}
			key = NumericKey(id)
		case KeyName:
			name, err := items.readString8("annotations")
			if err != nil {
				return nil, err
			}
			key = NamedKey(name)
		default:
			return nil, errors.NewDecodeFailure("annotations", "invalid key kind %d", kind)
		}
		value, err := items.readBytes32("annotations")
		if err != nil {
			return nil, err
		}
		annotations = append(annotations, Annotation{Key: key, Value: value})
	}
	if items.pos != len(items.buf) {
		return nil, errors.NewDecodeFailure("annotations", "items region has %d trailing bytes", len(items.buf)-items.pos)
	}
	return annotations, nil
}

func decodeProperties(d *decoder) (*MessageProperties, error) {
	items, count, err := d.readArray32("properties")
	if err != nil {
		return nil, err
	}
	if count == 0 {
		if len(items.buf) != 0 {
			return nil, errors.NewDecodeFailure("properties", "empty array carries %d bytes", len(items.buf))
		}
		return nil, nil
	}
	props := &MessageProperties{}
	for i := 0; i < count; i++ {
		id, err := items.readUint8("properties")
		if err != nil {
			return nil, err
		}
		switch id {
		case propMessageID:
			if props.MessageID != nil {
				return nil, errors.NewDecodeFailure("messageId", "property item repeated")
			}
			if props.MessageID, err = items.readMessageID("messageId"); err != nil {
				return nil, err
			}
		case propUserID:
			if props.UserID != nil {
				return nil, errors.NewDecodeFailure("userId", "property item repeated")
			}
			if props.UserID, err = items.readBytes8("userId"); err != nil {
				return nil, err
			}
		case propTo:
			if props.To, err = items.readStringProp("to", props.To); err != nil {
				return nil, err
			}
		case propSubject:
			if props.Subject, err = items.readStringProp("subject", props.Subject); err != nil {
				return nil, err
			}
		case propReplyTo:
			if props.ReplyTo, err = items.readStringProp("replyTo", props.ReplyTo); err != nil {
				return nil, err
			}
		case propCorrelationID:
			if props.CorrelationID != nil {
				return nil, errors.NewDecodeFailure("correlationId", "property item repeated")
			}
			if props.CorrelationID, err = items.readMessageID("correlationId"); err != nil {
				return nil, err
			}
		case propContentType:
			if props.ContentType, err = items.readStringProp("contentType", props.ContentType); err != nil {
				return nil, err
			}
		case propContentEncoding:
			if props.ContentEncoding, err = items.readStringProp("contentEncoding", props.ContentEncoding); err != nil {
				return nil, err
			}
		case propAbsoluteExpiryTime:
			if props.AbsoluteExpiryTime != nil {
				return nil, errors.NewDecodeFailure("absoluteExpiryTime", "property item repeated")
			}
			v, err := items.readUint64("absoluteExpiryTime")
			if err != nil {
				return nil, err
			}
			props.AbsoluteExpiryTime = &v
		case propCreationTime:
			if props.CreationTime != nil {
				return nil, errors.NewDecodeFailure("creationTime", "property item repeated")
			}
			v, err := items.readUint64("creationTime")
			if err != nil {
				return nil, err
			}
			props.CreationTime = &v
		case propGroupID:
			if props.GroupID, err = items.readStringProp("groupId", props.GroupID); err != nil {
				return nil, err
			}
		case propGroupSequence:
			if props.GroupSequence != nil {
				return nil, errors.NewDecodeFailure("groupSequence", "property item repeated")
			}
			v, err := items.readUint32("groupSequence")
			if err != nil {
				return nil, err
			}
			props.GroupSequence = &v
		case propReplyToGroupID:
			if props.ReplyToGroupID, err = items.readStringProp("replyToGroupId", props.ReplyToGroupID); err != nil {
				return nil, err
			}
		default:
			return nil, errors.NewDecodeFailure("properties", "unknown property field id %d", id)
		}
	}
	if items.pos != len(items.buf) {
		return nil, errors.NewDecodeFailure("properties", "items region has %d trailing bytes", len(items.buf)-items.pos)
	}
	return props, nil
}

func (d *decoder) readStringProp(field string, existing *string) (*string, error) {
	if existing != nil {
		return nil, errors.NewDecodeFailure(field, "property item repeated")
	}
	v, err := d.readString8(field)
	if err != nil {
		return nil, err
	}
	return &v, nil
}

func decodeApplicationProperties(d *decoder) ([]ApplicationProperty, error) {
	items, count, err := d.readArray32("applicationProperties")
	if err != nil {
		return nil, err
	}
	if count > len(items.buf)/appPropertyItemMin {
		return nil, errors.NewDecodeFailure("applicationProperties", "item count %d exceeds region size %d", count, len(items.buf))
	}
	props := make([]ApplicationProperty, 0, count)
	for i := 0; i < count; i++ {
		key, err := items.readString8("applicationProperties")
		if err != nil {
			return nil, err
		}
		value, err := items.readBytes32("applicationProperties")
		if err != nil {
			return nil, err
		}
		props = append(props, ApplicationProperty{Key: key, Value: value})
	}
	if items.pos != len(items.buf) {
		return nil, errors.NewDecodeFailure("applicationProperties", "items region has %d trailing bytes", len(items.buf)-items.pos)
	}
	return props, nil
}

// DecodeRouteEx decodes one RouteEx record from the front of buf and returns
// the record plus the exact number of bytes it occupies.
func DecodeRouteEx(buf []byte) (*RouteEx, int, error) {
	d := &decoder{buf: buf}
	address, err := d.readString8("address")
	if err != nil {
		return nil, 0, err
	}
	capabilities, err := d.readUint8("capabilities")
	if err != nil {
		return nil, 0, err
	}
	return &RouteEx{Address: address, Capabilities: Capability(capabilities)}, d.pos, nil
}

// DecodeBeginEx decodes one BeginEx record from the front of buf and returns
// the record plus the exact number of bytes it occupies.
func DecodeBeginEx(buf []byte) (*BeginEx, int, error) {
	d := &decoder{buf: buf}
	record := &BeginEx{}
	typeID, err := d.readUint32("typeId")
	if err != nil {
		return nil, 0, err
	}
	record.TypeID = typeID
	if record.Address, err = d.readString8("address"); err != nil {
		return nil, 0, err
	}
	capabilities, err := d.readUint8("capabilities")
	if err != nil {
		return nil, 0, err
	}
	record.Capabilities = Capability(capabilities)
	ssm, err := d.readUint8("senderSettleMode")
	if err != nil {
		return nil, 0, err
	}
	record.SenderSettleMode = SenderSettleMode(ssm)
	rsm, err := d.readUint8("receiverSettleMode")
	if err != nil {
		return nil, 0, err
	}
	record.ReceiverSettleMode = ReceiverSettleMode(rsm)
	return record, d.pos, nil
}

// DecodeDataEx decodes one DataEx record from the front of buf and returns
// the record plus the exact number of bytes it occupies.
func DecodeDataEx(buf []byte) (*DataEx, int, error) {
	d := &decoder{buf: buf}
	record := &DataEx{}
	typeID, err := d.readUint32("typeId")
	if err != nil {
		return nil, 0, err
	}
	record.TypeID = typeID
	if record.DeliveryTag, err = d.readBytes8("deliveryTag"); err != nil {
		return nil, 0, err
	}
	if record.Deferred, err = d.readUint32("deferred"); err != nil {
		return nil, 0, err
	}
	if record.MessageFormat, err = d.readUint32("messageFormat"); err != nil {
		return nil, 0, err
	}
	flags, err := d.readUint8("flags")
	if err != nil {
		return nil, 0, err
	}
	record.Flags = TransferFlags(flags)
	if record.Annotations, err = decodeAnnotations(d); err != nil {
		return nil, 0, err
	}
	if record.Properties, err = decodeProperties(d); err != nil {
		return nil, 0, err
	}
	if record.ApplicationProperties, err = decodeApplicationProperties(d); err != nil {
		return nil, 0, err
	}
	bodyKind, err := d.readUint8("bodyKind")
	if err != nil {
		return nil, 0, err
	}
	record.BodyKind = BodyKind(bodyKind)
	return record, d.pos, nil
}

// DecodeAbortEx decodes one AbortEx record from the front of buf and returns
// the record plus the exact number of bytes it occupies.
func DecodeAbortEx(buf []byte) (*AbortEx, int, error) {
	d := &decoder{buf: buf}
	record := &AbortEx{}
	typeID, err := d.readUint32("typeId")
	if err != nil {
		return nil, 0, err
	}
	record.TypeID = typeID
	if record.Condition, err = d.readString8("condition"); err != nil {
		return nil, 0, err
	}
	return record, d.pos, nil
}
