// Package extension implements the codec for AMQP protocol-extension
// metadata records: composite builders that produce byte-exact encodings of
// RouteEx, BeginEx, DataEx and AbortEx, and composite matchers that decode a
// captured byte region and compare configured fields while leaving the rest
// as wildcards.
package extension

import (
	"bytes"
	"fmt"
	"strings"
)

// Hard caps carried over from the reference surface. Accumulators grow on
// demand; these bound the finished encodings.
const (
	// MaxRecordSize caps the total encoded size of one extension record.
	MaxRecordSize = 8 * 1024
	// MaxCollectionSize caps the encoded items region of one nested collection.
	MaxCollectionSize = 1024
)

// AnnotationKeyKind selects between the two annotation key variants.
type AnnotationKeyKind uint8

const (
	// KeyNumericID keys an annotation by numeric id.
	KeyNumericID AnnotationKeyKind = 0x00
	// KeyName keys an annotation by symbolic name.
	KeyName AnnotationKeyKind = 0x01
)

// AnnotationKey is the two-case tagged key variant: either a numeric id or a
// symbolic name. Exactly one of ID/Name is meaningful per Kind.
type AnnotationKey struct {
	Kind AnnotationKeyKind
	ID   uint64
	Name string
}

// NumericKey builds an id-keyed annotation key.
func NumericKey(id uint64) AnnotationKey { return AnnotationKey{Kind: KeyNumericID, ID: id} }

// NamedKey builds a name-keyed annotation key.
func NamedKey(name string) AnnotationKey { return AnnotationKey{Kind: KeyName, Name: name} }

func (k AnnotationKey) String() string {
	if k.Kind == KeyNumericID {
		return fmt.Sprintf("id(%d)", k.ID)
	}
	return fmt.Sprintf("name(%q)", k.Name)
}

// Annotation is one delivery annotation. The value is an opaque byte payload;
// the codec never re-interprets it. Wire order equals insertion order.
type Annotation struct {
	Key   AnnotationKey
	Value []byte
}

// ApplicationProperty is one ordered (key, value) application property.
// Duplicate keys are permitted and order is preserved.
type ApplicationProperty struct {
	Key   string
	Value []byte
}

// MessageIDKind selects the variant of a messageId or correlationId.
type MessageIDKind uint8

const (
	MessageIDULong  MessageIDKind = 0x00
	MessageIDBinary MessageIDKind = 0x01
	MessageIDString MessageIDKind = 0x02
)

// MessageID is the three-case tagged variant used by the messageId and
// correlationId message properties.
type MessageID struct {
	Kind   MessageIDKind
	ULong  uint64
	Binary []byte
	Str    string
}

// ULongMessageID builds the unsigned-integer variant.
func ULongMessageID(v uint64) *MessageID { return &MessageID{Kind: MessageIDULong, ULong: v} }

// BinaryMessageID builds the binary variant.
func BinaryMessageID(v []byte) *MessageID { return &MessageID{Kind: MessageIDBinary, Binary: v} }

// StringMessageID builds the string variant.
func StringMessageID(v string) *MessageID { return &MessageID{Kind: MessageIDString, Str: v} }

func (m *MessageID) String() string {
	switch m.Kind {
	case MessageIDULong:
		return fmt.Sprintf("ulong(%d)", m.ULong)
	case MessageIDBinary:
		return fmt.Sprintf("binary(% x)", m.Binary)
	}
	return fmt.Sprintf("string(%q)", m.Str)
}

func (m *MessageID) equal(o *MessageID) bool {
	if m == nil || o == nil {
		return m == o
	}
	if m.Kind != o.Kind {
		return false
	}
	switch m.Kind {
	case MessageIDULong:
		return m.ULong == o.ULong
	case MessageIDBinary:
		return bytes.Equal(m.Binary, o.Binary)
	}
	return m.Str == o.Str
}

// MessageProperties is the fixed optional-field message-properties record.
// Nil fields are absent and omitted from the encoding entirely.
type MessageProperties struct {
	MessageID          *MessageID
	UserID             []byte
	To                 *string
	Subject            *string
	ReplyTo            *string
	CorrelationID      *MessageID
	ContentType        *string
	ContentEncoding    *string
	AbsoluteExpiryTime *uint64
	CreationTime       *uint64
	GroupID            *string
	GroupSequence      *uint32
	ReplyToGroupID     *string
}

// isZero reports whether no property field has been set.
func (p *MessageProperties) isZero() bool {
	return p == nil || (p.MessageID == nil && p.UserID == nil && p.To == nil &&
		p.Subject == nil && p.ReplyTo == nil && p.CorrelationID == nil &&
		p.ContentType == nil && p.ContentEncoding == nil &&
		p.AbsoluteExpiryTime == nil && p.CreationTime == nil &&
		p.GroupID == nil && p.GroupSequence == nil && p.ReplyToGroupID == nil)
}

// RouteEx is the route-control extension record.
type RouteEx struct {
	Address      string
	Capabilities Capability
}

// BeginEx is the session-begin extension record.
type BeginEx struct {
	TypeID             uint32
	Address            string
	Capabilities       Capability
	SenderSettleMode   SenderSettleMode
	ReceiverSettleMode ReceiverSettleMode
}

// DataEx is the data-transfer extension record.
type DataEx struct {
	TypeID                uint32
	DeliveryTag           []byte
	Deferred              uint32
	MessageFormat         uint32
	Flags                 TransferFlags
	Annotations           []Annotation
	Properties            *MessageProperties
	ApplicationProperties []ApplicationProperty
	BodyKind              BodyKind
}

// AbortEx is the transfer-abort extension record.
type AbortEx struct {
	TypeID    uint32
	Condition string
}

func (r *RouteEx) String() string {
	return fmt.Sprintf("routeEx{address:%q capabilities:%s}", r.Address, r.Capabilities)
}

func (b *BeginEx) String() string {
	return fmt.Sprintf("beginEx{typeId:%#x address:%q capabilities:%s senderSettleMode:%s receiverSettleMode:%s}",
		b.TypeID, b.Address, b.Capabilities, b.SenderSettleMode, b.ReceiverSettleMode)
}

func (a *AbortEx) String() string {
	return fmt.Sprintf("abortEx{typeId:%#x condition:%q}", a.TypeID, a.Condition)
}

// String renders every field of the record. Matcher failures embed this
// rendering so a mismatch is diagnosable from the error alone.
func (d *DataEx) String() string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "dataEx{typeId:%#x deliveryTag:% x deferred:%d messageFormat:%d flags:%s",
		d.TypeID, d.DeliveryTag, d.Deferred, d.MessageFormat, d.Flags)
	if len(d.Annotations) > 0 {
		sb.WriteString(" annotations:[")
		for i, a := range d.Annotations {
			if i > 0 {
				sb.WriteString(" ")
			}
			fmt.Fprintf(&sb, "%s=% x", a.Key, a.Value)
		}
		sb.WriteString("]")
	}
	if p := d.Properties; !p.isZero() {
		sb.WriteString(" properties:{")
		first := true
		writeProp := func(name, val string) {
			if !first {
				sb.WriteString(" ")
			}
			first = false
			sb.WriteString(name + ":" + val)
		}
		if p.MessageID != nil {
			writeProp("messageId", p.MessageID.String())
		}
		if p.UserID != nil {
			writeProp("userId", fmt.Sprintf("% x", p.UserID))
		}
		if p.To != nil {
			writeProp("to", fmt.Sprintf("%q", *p.To))
		}
		if p.Subject != nil {
			writeProp("subject", fmt.Sprintf("%q", *p.Subject))
		}
		if p.ReplyTo != nil {
			writeProp("replyTo", fmt.Sprintf("%q", *p.ReplyTo))
		}
		if p.CorrelationID != nil {
			writeProp("correlationId", p.CorrelationID.String())
		}
		if p.ContentType != nil {
			writeProp("contentType", fmt.Sprintf("%q", *p.ContentType))
		}
		if p.ContentEncoding != nil {
			writeProp("contentEncoding", fmt.Sprintf("%q", *p.ContentEncoding))
		}
		if p.AbsoluteExpiryTime != nil {
			writeProp("absoluteExpiryTime", fmt.Sprintf("%d", *p.AbsoluteExpiryTime))
		}
		if p.CreationTime != nil {
			writeProp("creationTime", fmt.Sprintf("%d", *p.CreationTime))
		}
		if p.GroupID != nil {
			writeProp("groupId", fmt.Sprintf("%q", *p.GroupID))
		}
		if p.GroupSequence != nil {
			writeProp("groupSequence", fmt.Sprintf("%d", *p.GroupSequence))
		}
		if p.ReplyToGroupID != nil {
			writeProp("replyToGroupId", fmt.Sprintf("%q", *p.ReplyToGroupID))
		}
		sb.WriteString("}")
	}
	if len(d.ApplicationProperties) > 0 {
		sb.WriteString(" applicationProperties:[")
		for i, ap := range d.ApplicationProperties {
			if i > 0 {
				sb.WriteString(" ")
			}
			fmt.Fprintf(&sb, "%q=% x", ap.Key, ap.Value)
		}
		sb.WriteString("]")
	}
	fmt.Fprintf(&sb, " bodyKind:%s}", d.BodyKind)
	return sb.String()
}
