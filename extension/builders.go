package extension

import (
	"fmt"
)

// Builders accumulate field assignments into a plain record value and
// serialize the whole record in one pass at Build time. Setter-side faults
// (unknown enum names, width violations) are latched and surfaced by Build,
// which may be called at most once per instance.

type builderState struct {
	err   error
	built bool
}

func (s *builderState) latch(err error) {
	if s.err == nil {
		s.err = err
	}
}

func (s *builderState) finalize() error {
	if s.err != nil {
		return s.err
	}
	if s.built {
		return fmt.Errorf("builder already finalized")
	}
	s.built = true
	return nil
}

// RouteExBuilder builds a RouteEx record.
type RouteExBuilder struct {
	builderState
	record RouteEx
}

// NewRouteEx returns a fresh RouteEx builder.
func NewRouteEx() *RouteExBuilder { return &RouteExBuilder{} }

// Address sets the target address.
func (b *RouteExBuilder) Address(address string) *RouteExBuilder {
	b.record.Address = address
	return b
}

// Capabilities sets the capabilities field from its enum name.
func (b *RouteExBuilder) Capabilities(name string) *RouteExBuilder {
	c, err := ParseCapability(name)
	if err != nil {
		b.latch(err)
		return b
	}
	b.record.Capabilities = c
	return b
}

// Build serializes the record into an exactly-sized buffer.
func (b *RouteExBuilder) Build() ([]byte, error) {
	if err := b.finalize(); err != nil {
		return nil, err
	}
	return b.record.MarshalBinary()
}

// BeginExBuilder builds a BeginEx record.
type BeginExBuilder struct {
	builderState
	record BeginEx
}

// NewBeginEx returns a fresh BeginEx builder.
func NewBeginEx() *BeginExBuilder { return &BeginExBuilder{} }

// TypeID sets the extension type id.
func (b *BeginExBuilder) TypeID(typeID uint32) *BeginExBuilder {
	b.record.TypeID = typeID
	return b
}

// Address sets the session address.
func (b *BeginExBuilder) Address(address string) *BeginExBuilder {
	b.record.Address = address
	return b
}

// Capabilities sets the capabilities field from its enum name.
func (b *BeginExBuilder) Capabilities(name string) *BeginExBuilder {
	c, err := ParseCapability(name)
	if err != nil {
		b.latch(err)
		return b
	}
	b.record.Capabilities = c
	return b
}

// SenderSettleMode sets the sender settle mode from its enum name.
func (b *BeginExBuilder) SenderSettleMode(name string) *BeginExBuilder {
	m, err := ParseSenderSettleMode(name)
	if err != nil {
		b.latch(err)
		return b
	}
	b.record.SenderSettleMode = m
	return b
}

// ReceiverSettleMode sets the receiver settle mode from its enum name.
func (b *BeginExBuilder) ReceiverSettleMode(name string) *BeginExBuilder {
	m, err := ParseReceiverSettleMode(name)
	if err != nil {
		b.latch(err)
		return b
	}
	b.record.ReceiverSettleMode = m
	return b
}

// Build serializes the record into an exactly-sized buffer.
func (b *BeginExBuilder) Build() ([]byte, error) {
	if err := b.finalize(); err != nil {
		return nil, err
	}
	return b.record.MarshalBinary()
}

// DataExBuilder builds a DataEx record. Message-property setters fill the
// pending properties struct; it is serialized exactly once at Build time, so
// property setters may interleave freely with annotation and
// application-property appends.
type DataExBuilder struct {
	builderState
	record DataEx
}

// NewDataEx returns a fresh DataEx builder.
func NewDataEx() *DataExBuilder { return &DataExBuilder{} }

// TypeID sets the extension type id.
func (b *DataExBuilder) TypeID(typeID uint32) *DataExBuilder {
	b.record.TypeID = typeID
	return b
}

// DeliveryTag sets the delivery tag bytes.
func (b *DataExBuilder) DeliveryTag(tag []byte) *DataExBuilder {
	b.record.DeliveryTag = tag
	return b
}

// Deferred sets the deferred fragment count.
func (b *DataExBuilder) Deferred(deferred uint32) *DataExBuilder {
	b.record.Deferred = deferred
	return b
}

// MessageFormat sets the message format code.
func (b *DataExBuilder) MessageFormat(format uint32) *DataExBuilder {
	b.record.MessageFormat = format
	return b
}

// Flags ORs the named transfer flags into the flags bitmask.
func (b *DataExBuilder) Flags(names ...string) *DataExBuilder {
	f, err := ParseTransferFlags(names...)
	if err != nil {
		b.latch(err)
		return b
	}
	b.record.Flags = f
	return b
}

// Annotation appends one annotation; insertion order is preserved on the
// wire. The value is treated as pre-encoded opaque bytes.
func (b *DataExBuilder) Annotation(key AnnotationKey, value []byte) *DataExBuilder {
	b.record.Annotations = append(b.record.Annotations, Annotation{Key: key, Value: value})
	return b
}

// ApplicationProperty appends one (key, value) application property;
// duplicates are permitted and order is preserved.
func (b *DataExBuilder) ApplicationProperty(key string, value []byte) *DataExBuilder {
	b.record.ApplicationProperties = append(b.record.ApplicationProperties,
		ApplicationProperty{Key: key, Value: value})
	return b
}

// BodyKind sets the body kind from its enum name.
func (b *DataExBuilder) BodyKind(name string) *DataExBuilder {
	k, err := ParseBodyKind(name)
	if err != nil {
		b.latch(err)
		return b
	}
	b.record.BodyKind = k
	return b
}

func (b *DataExBuilder) properties() *MessageProperties {
	if b.record.Properties == nil {
		b.record.Properties = &MessageProperties{}
	}
	return b.record.Properties
}

// MessageID sets the messageId message property.
func (b *DataExBuilder) MessageID(id *MessageID) *DataExBuilder {
	b.properties().MessageID = id
	return b
}

// UserID sets the userId message property.
func (b *DataExBuilder) UserID(userID []byte) *DataExBuilder {
	b.properties().UserID = userID
	return b
}

// To sets the to message property.
func (b *DataExBuilder) To(to string) *DataExBuilder {
	b.properties().To = &to
	return b
}

// Subject sets the subject message property.
func (b *DataExBuilder) Subject(subject string) *DataExBuilder {
	b.properties().Subject = &subject
	return b
}

// ReplyTo sets the replyTo message property.
func (b *DataExBuilder) ReplyTo(replyTo string) *DataExBuilder {
	b.properties().ReplyTo = &replyTo
	return b
}

// CorrelationID sets the correlationId message property.
func (b *DataExBuilder) CorrelationID(id *MessageID) *DataExBuilder {
	b.properties().CorrelationID = id
	return b
}

// ContentType sets the contentType message property.
func (b *DataExBuilder) ContentType(contentType string) *DataExBuilder {
	b.properties().ContentType = &contentType
	return b
}

// ContentEncoding sets the contentEncoding message property.
func (b *DataExBuilder) ContentEncoding(contentEncoding string) *DataExBuilder {
	b.properties().ContentEncoding = &contentEncoding
	return b
}

// AbsoluteExpiryTime sets the absoluteExpiryTime message property.
func (b *DataExBuilder) AbsoluteExpiryTime(millis uint64) *DataExBuilder {
	b.properties().AbsoluteExpiryTime = &millis
	return b
}

// CreationTime sets the creationTime message property.
func (b *DataExBuilder) CreationTime(millis uint64) *DataExBuilder {
	b.properties().CreationTime = &millis
	return b
}

// GroupID sets the groupId message property.
func (b *DataExBuilder) GroupID(groupID string) *DataExBuilder {
	b.properties().GroupID = &groupID
	return b
}

// GroupSequence sets the groupSequence message property.
func (b *DataExBuilder) GroupSequence(seq uint32) *DataExBuilder {
	b.properties().GroupSequence = &seq
	return b
}

// ReplyToGroupID sets the replyToGroupId message property.
func (b *DataExBuilder) ReplyToGroupID(replyToGroupID string) *DataExBuilder {
	b.properties().ReplyToGroupID = &replyToGroupID
	return b
}

// Build serializes the record into an exactly-sized buffer.
func (b *DataExBuilder) Build() ([]byte, error) {
	if err := b.finalize(); err != nil {
		return nil, err
	}
	return b.record.MarshalBinary()
}

// AbortExBuilder builds an AbortEx record.
type AbortExBuilder struct {
	builderState
	record AbortEx
}

// NewAbortEx returns a fresh AbortEx builder.
func NewAbortEx() *AbortExBuilder { return &AbortExBuilder{} }

// TypeID sets the extension type id.
func (b *AbortExBuilder) TypeID(typeID uint32) *AbortExBuilder {
	b.record.TypeID = typeID
	return b
}

// Condition sets the abort condition.
func (b *AbortExBuilder) Condition(condition string) *AbortExBuilder {
	b.record.Condition = condition
	return b
}

// Build serializes the record into an exactly-sized buffer.
func (b *AbortExBuilder) Build() ([]byte, error) {
	if err := b.finalize(); err != nil {
		return nil, err
	}
	return b.record.MarshalBinary()
}
