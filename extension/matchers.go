package extension

import (
	"bytes"

	"github.com/vortexmq/amqpex/errors"
)

// Cursor is a caller-owned read position over a captured byte region. A
// successful match advances Pos by exactly the matched record's encoded size,
// so one cursor can drive sequential matches over a single buffer.
type Cursor struct {
	Buf []byte
	Pos int
}

// Remaining returns the unconsumed tail of the buffer.
func (c *Cursor) Remaining() []byte { return c.Buf[c.Pos:] }

// matcherState latches duplicate-assignment faults raised by setters. The
// fault is recorded before any buffer is inspected and surfaced by Build.
type matcherState struct {
	err error
}

func (s *matcherState) latch(err error) {
	if s.err == nil {
		s.err = err
	}
}

// assign guards single assignment: marking an already-set field latches a
// DuplicateFieldAssignment.
func (s *matcherState) assign(set *bool, field string) bool {
	if *set {
		s.latch(errors.NewDuplicateField(field))
		return false
	}
	*set = true
	return true
}

// DataExMatcher tests a candidate byte region against a partially specified
// DataEx record. On success it returns the decoded record and advances the
// cursor; on failure it returns a DecodeFailure or MatchFailure.
type DataExMatcher func(cur *Cursor) (*DataEx, error)

// BeginExMatcher is the BeginEx counterpart of DataExMatcher.
type BeginExMatcher func(cur *Cursor) (*BeginEx, error)

// AbortExMatcher is the AbortEx counterpart of DataExMatcher.
type AbortExMatcher func(cur *Cursor) (*AbortEx, error)

// DataExMatcherBuilder mirrors DataExBuilder field-for-field. Each scalar
// field and each message property may be configured at most once; annotation
// and application-property calls append expected items. Unconfigured fields
// are wildcards.
type DataExMatcherBuilder struct {
	matcherState

	typeID    uint32
	typeIDSet bool

	deliveryTag    []byte
	deliveryTagSet bool

	deferred    uint32
	deferredSet bool

	messageFormat    uint32
	messageFormatSet bool

	flags    TransferFlags
	flagsSet bool

	annotations    []Annotation
	annotationsSet bool

	properties MessageProperties
	propSet    [propReplyToGroupID + 1]bool

	appProps    []ApplicationProperty
	appPropsSet bool

	bodyKind    BodyKind
	bodyKindSet bool
}

// NewMatchDataEx returns a fresh DataEx matcher builder.
func NewMatchDataEx() *DataExMatcherBuilder { return &DataExMatcherBuilder{} }

// TypeID configures the expected type id. A matcher without a configured
// typeId never attempts a match.
func (m *DataExMatcherBuilder) TypeID(typeID uint32) *DataExMatcherBuilder {
	if m.assign(&m.typeIDSet, "typeId") {
		m.typeID = typeID
	}
	return m
}

// DeliveryTag configures the expected delivery tag bytes.
func (m *DataExMatcherBuilder) DeliveryTag(tag []byte) *DataExMatcherBuilder {
	if m.assign(&m.deliveryTagSet, "deliveryTag") {
		m.deliveryTag = tag
	}
	return m
}

// Deferred configures the expected deferred count.
func (m *DataExMatcherBuilder) Deferred(deferred uint32) *DataExMatcherBuilder {
	if m.assign(&m.deferredSet, "deferred") {
		m.deferred = deferred
	}
	return m
}

// MessageFormat configures the expected message format code.
func (m *DataExMatcherBuilder) MessageFormat(format uint32) *DataExMatcherBuilder {
	if m.assign(&m.messageFormatSet, "messageFormat") {
		m.messageFormat = format
	}
	return m
}

// Flags configures the expected transfer-flag bitmask from flag names.
func (m *DataExMatcherBuilder) Flags(names ...string) *DataExMatcherBuilder {
	if !m.assign(&m.flagsSet, "flags") {
		return m
	}
	f, err := ParseTransferFlags(names...)
	if err != nil {
		m.latch(err)
		return m
	}
	m.flags = f
	return m
}

// Annotation appends one expected annotation. Once any annotation is
// configured the decoded annotation list must equal the configured list
// exactly, in order.
func (m *DataExMatcherBuilder) Annotation(key AnnotationKey, value []byte) *DataExMatcherBuilder {
	m.annotationsSet = true
	m.annotations = append(m.annotations, Annotation{Key: key, Value: value})
	return m
}

// ApplicationProperty appends one expected application property.
func (m *DataExMatcherBuilder) ApplicationProperty(key string, value []byte) *DataExMatcherBuilder {
	m.appPropsSet = true
	m.appProps = append(m.appProps, ApplicationProperty{Key: key, Value: value})
	return m
}

// BodyKind configures the expected body kind from its enum name.
func (m *DataExMatcherBuilder) BodyKind(name string) *DataExMatcherBuilder {
	if !m.assign(&m.bodyKindSet, "bodyKind") {
		return m
	}
	k, err := ParseBodyKind(name)
	if err != nil {
		m.latch(err)
		return m
	}
	m.bodyKind = k
	return m
}

func (m *DataExMatcherBuilder) assignProp(id int, field string) bool {
	if m.propSet[id] {
		m.latch(errors.NewDuplicateField(field))
		return false
	}
	m.propSet[id] = true
	return true
}

// MessageID configures the expected messageId message property.
func (m *DataExMatcherBuilder) MessageID(id *MessageID) *DataExMatcherBuilder {
	if m.assignProp(propMessageID, "messageId") {
		m.properties.MessageID = id
	}
	return m
}

// UserID configures the expected userId message property.
func (m *DataExMatcherBuilder) UserID(userID []byte) *DataExMatcherBuilder {
	if m.assignProp(propUserID, "userId") {
		m.properties.UserID = userID
	}
	return m
}

// To configures the expected to message property.
func (m *DataExMatcherBuilder) To(to string) *DataExMatcherBuilder {
	if m.assignProp(propTo, "to") {
		m.properties.To = &to
	}
	return m
}

// Subject configures the expected subject message property.
func (m *DataExMatcherBuilder) Subject(subject string) *DataExMatcherBuilder {
	if m.assignProp(propSubject, "subject") {
		m.properties.Subject = &subject
	}
	return m
}

// ReplyTo configures the expected replyTo message property.
func (m *DataExMatcherBuilder) ReplyTo(replyTo string) *DataExMatcherBuilder {
	if m.assignProp(propReplyTo, "replyTo") {
		m.properties.ReplyTo = &replyTo
	}
	return m
}

// CorrelationID configures the expected correlationId message property.
func (m *DataExMatcherBuilder) CorrelationID(id *MessageID) *DataExMatcherBuilder {
	if m.assignProp(propCorrelationID, "correlationId") {
		m.properties.CorrelationID = id
	}
	return m
}

// ContentType configures the expected contentType message property.
func (m *DataExMatcherBuilder) ContentType(contentType string) *DataExMatcherBuilder {
	if m.assignProp(propContentType, "contentType") {
		m.properties.ContentType = &contentType
	}
	return m
}

// ContentEncoding configures the expected contentEncoding message property.
func (m *DataExMatcherBuilder) ContentEncoding(contentEncoding string) *DataExMatcherBuilder {
	if m.assignProp(propContentEncoding, "contentEncoding") {
		m.properties.ContentEncoding = &contentEncoding
	}
	return m
}

// AbsoluteExpiryTime configures the expected absoluteExpiryTime property.
func (m *DataExMatcherBuilder) AbsoluteExpiryTime(millis uint64) *DataExMatcherBuilder {
	if m.assignProp(propAbsoluteExpiryTime, "absoluteExpiryTime") {
		m.properties.AbsoluteExpiryTime = &millis
	}
	return m
}

// CreationTime configures the expected creationTime message property.
func (m *DataExMatcherBuilder) CreationTime(millis uint64) *DataExMatcherBuilder {
	if m.assignProp(propCreationTime, "creationTime") {
		m.properties.CreationTime = &millis
	}
	return m
}

// GroupID configures the expected groupId message property.
func (m *DataExMatcherBuilder) GroupID(groupID string) *DataExMatcherBuilder {
	if m.assignProp(propGroupID, "groupId") {
		m.properties.GroupID = &groupID
	}
	return m
}

// GroupSequence configures the expected groupSequence message property.
func (m *DataExMatcherBuilder) GroupSequence(seq uint32) *DataExMatcherBuilder {
	if m.assignProp(propGroupSequence, "groupSequence") {
		m.properties.GroupSequence = &seq
	}
	return m
}

// ReplyToGroupID configures the expected replyToGroupId message property.
func (m *DataExMatcherBuilder) ReplyToGroupID(replyToGroupID string) *DataExMatcherBuilder {
	if m.assignProp(propReplyToGroupID, "replyToGroupId") {
		m.properties.ReplyToGroupID = &replyToGroupID
	}
	return m
}

func (m *DataExMatcherBuilder) propertiesConfigured() bool {
	for _, set := range m.propSet {
		if set {
			return true
		}
	}
	return false
}

// Build yields the decode-and-compare predicate. It fails if any setter
// latched a fault or if typeId was never configured: matching everything is
// unsupported, wildcarding everything except the type is not.
func (m *DataExMatcherBuilder) Build() (DataExMatcher, error) {
	if m.err != nil {
		return nil, m.err
	}
	if !m.typeIDSet {
		return nil, errors.NewMatchFailure("typeId", "matcher requires a configured typeId")
	}
	return m.match, nil
}

// match decodes one DataEx record at the cursor and compares configured
// fields in wire order, short-circuiting on the first mismatch.
func (m *DataExMatcherBuilder) match(cur *Cursor) (*DataEx, error) {
	record, size, err := DecodeDataEx(cur.Remaining())
	if err != nil {
		return nil, err
	}
	if record.TypeID != m.typeID {
		return nil, mismatch("typeId", record)
	}
	if m.deliveryTagSet && !bytes.Equal(record.DeliveryTag, m.deliveryTag) {
		return nil, mismatch("deliveryTag", record)
	}
	if m.deferredSet && record.Deferred != m.deferred {
		return nil, mismatch("deferred", record)
	}
	if m.messageFormatSet && record.MessageFormat != m.messageFormat {
		return nil, mismatch("messageFormat", record)
	}
	if m.flagsSet && record.Flags != m.flags {
		return nil, mismatch("flags", record)
	}
	if m.annotationsSet && !annotationsEqual(record.Annotations, m.annotations) {
		return nil, mismatch("annotations", record)
	}
	if m.propertiesConfigured() && !propertiesEqual(record.Properties, &m.properties) {
		return nil, mismatch("properties", record)
	}
	if m.appPropsSet && !appPropsEqual(record.ApplicationProperties, m.appProps) {
		return nil, mismatch("applicationProperties", record)
	}
	if m.bodyKindSet && record.BodyKind != m.bodyKind {
		return nil, mismatch("bodyKind", record)
	}
	cur.Pos += size
	return record, nil
}

func mismatch(field string, record interface{ String() string }) error {
	return errors.NewMatchFailure(field, "decoded record %s", record.String())
}

func annotationsEqual(got, want []Annotation) bool {
	if len(got) != len(want) {
		return false
	}
	for i := range got {
		if got[i].Key != want[i].Key || !bytes.Equal(got[i].Value, want[i].Value) {
			return false
		}
	}
	return true
}

func appPropsEqual(got, want []ApplicationProperty) bool {
	if len(got) != len(want) {
		return false
	}
	for i := range got {
		if got[i].Key != want[i].Key || !bytes.Equal(got[i].Value, want[i].Value) {
			return false
		}
	}
	return true
}

// propertiesEqual compares the whole properties record: once any property is
// configured on the matcher, the decoded record must carry exactly the
// configured fields, no more and no fewer.
func propertiesEqual(got, want *MessageProperties) bool {
	if got.isZero() || want.isZero() {
		return got.isZero() == want.isZero()
	}
	return got.MessageID.equal(want.MessageID) &&
		optBytesEqual(got.UserID, want.UserID) &&
		optStringEqual(got.To, want.To) &&
		optStringEqual(got.Subject, want.Subject) &&
		optStringEqual(got.ReplyTo, want.ReplyTo) &&
		got.CorrelationID.equal(want.CorrelationID) &&
		optStringEqual(got.ContentType, want.ContentType) &&
		optStringEqual(got.ContentEncoding, want.ContentEncoding) &&
		optUint64Equal(got.AbsoluteExpiryTime, want.AbsoluteExpiryTime) &&
		optUint64Equal(got.CreationTime, want.CreationTime) &&
		optStringEqual(got.GroupID, want.GroupID) &&
		optUint32Equal(got.GroupSequence, want.GroupSequence) &&
		optStringEqual(got.ReplyToGroupID, want.ReplyToGroupID)
}

func optStringEqual(a, b *string) bool {
	if a == nil || b == nil {
		return (a == nil) == (b == nil)
	}
	return *a == *b
}

func optUint64Equal(a, b *uint64) bool {
	if a == nil || b == nil {
		return (a == nil) == (b == nil)
	}
	return *a == *b
}

func optUint32Equal(a, b *uint32) bool {
	if a == nil || b == nil {
		return (a == nil) == (b == nil)
	}
	return *a == *b
}

func optBytesEqual(a, b []byte) bool {
	if a == nil || b == nil {
		return (a == nil) == (b == nil)
	}
	return bytes.Equal(a, b)
}

// BeginExMatcherBuilder mirrors BeginExBuilder field-for-field with
// single-assignment guards.
type BeginExMatcherBuilder struct {
	matcherState

	typeID    uint32
	typeIDSet bool

	address    string
	addressSet bool

	capabilities    Capability
	capabilitiesSet bool

	senderSettleMode    SenderSettleMode
	senderSettleModeSet bool

	receiverSettleMode    ReceiverSettleMode
	receiverSettleModeSet bool
}

// NewMatchBeginEx returns a fresh BeginEx matcher builder.
func NewMatchBeginEx() *BeginExMatcherBuilder { return &BeginExMatcherBuilder{} }

// TypeID configures the expected type id.
func (m *BeginExMatcherBuilder) TypeID(typeID uint32) *BeginExMatcherBuilder {
	if m.assign(&m.typeIDSet, "typeId") {
		m.typeID = typeID
	}
	return m
}

// Address configures the expected session address.
func (m *BeginExMatcherBuilder) Address(address string) *BeginExMatcherBuilder {
	if m.assign(&m.addressSet, "address") {
		m.address = address
	}
	return m
}

// Capabilities configures the expected capabilities from the enum name.
func (m *BeginExMatcherBuilder) Capabilities(name string) *BeginExMatcherBuilder {
	if !m.assign(&m.capabilitiesSet, "capabilities") {
		return m
	}
	c, err := ParseCapability(name)
	if err != nil {
		m.latch(err)
		return m
	}
	m.capabilities = c
	return m
}

// SenderSettleMode configures the expected sender settle mode.
func (m *BeginExMatcherBuilder) SenderSettleMode(name string) *BeginExMatcherBuilder {
	if !m.assign(&m.senderSettleModeSet, "senderSettleMode") {
		return m
	}
	mode, err := ParseSenderSettleMode(name)
	if err != nil {
		m.latch(err)
		return m
	}
	m.senderSettleMode = mode
	return m
}

// ReceiverSettleMode configures the expected receiver settle mode.
func (m *BeginExMatcherBuilder) ReceiverSettleMode(name string) *BeginExMatcherBuilder {
	if !m.assign(&m.receiverSettleModeSet, "receiverSettleMode") {
		return m
	}
	mode, err := ParseReceiverSettleMode(name)
	if err != nil {
		m.latch(err)
		return m
	}
	m.receiverSettleMode = mode
	return m
}

// Build yields the decode-and-compare predicate.
func (m *BeginExMatcherBuilder) Build() (BeginExMatcher, error) {
	if m.err != nil {
		return nil, m.err
	}
	if !m.typeIDSet {
		return nil, errors.NewMatchFailure("typeId", "matcher requires a configured typeId")
	}
	return m.match, nil
}

func (m *BeginExMatcherBuilder) match(cur *Cursor) (*BeginEx, error) {
	record, size, err := DecodeBeginEx(cur.Remaining())
	if err != nil {
		return nil, err
	}
	if record.TypeID != m.typeID {
		return nil, mismatch("typeId", record)
	}
	if m.addressSet && record.Address != m.address {
		return nil, mismatch("address", record)
	}
	if m.capabilitiesSet && record.Capabilities != m.capabilities {
		return nil, mismatch("capabilities", record)
	}
	if m.senderSettleModeSet && record.SenderSettleMode != m.senderSettleMode {
		return nil, mismatch("senderSettleMode", record)
	}
	if m.receiverSettleModeSet && record.ReceiverSettleMode != m.receiverSettleMode {
		return nil, mismatch("receiverSettleMode", record)
	}
	cur.Pos += size
	return record, nil
}

// AbortExMatcherBuilder mirrors AbortExBuilder field-for-field with
// single-assignment guards.
type AbortExMatcherBuilder struct {
	matcherState

	typeID    uint32
	typeIDSet bool

	condition    string
	conditionSet bool
}

// NewMatchAbortEx returns a fresh AbortEx matcher builder.
func NewMatchAbortEx() *AbortExMatcherBuilder { return &AbortExMatcherBuilder{} }

// TypeID configures the expected type id.
func (m *AbortExMatcherBuilder) TypeID(typeID uint32) *AbortExMatcherBuilder {
	if m.assign(&m.typeIDSet, "typeId") {
		m.typeID = typeID
	}
	return m
}

// Condition configures the expected abort condition.
func (m *AbortExMatcherBuilder) Condition(condition string) *AbortExMatcherBuilder {
	if m.assign(&m.conditionSet, "condition") {
		m.condition = condition
	}
	return m
}

// Build yields the decode-and-compare predicate.
func (m *AbortExMatcherBuilder) Build() (AbortExMatcher, error) {
	if m.err != nil {
		return nil, m.err
	}
	if !m.typeIDSet {
		return nil, errors.NewMatchFailure("typeId", "matcher requires a configured typeId")
	}
	return m.match, nil
}

func (m *AbortExMatcherBuilder) match(cur *Cursor) (*AbortEx, error) {
	record, size, err := DecodeAbortEx(cur.Remaining())
	if err != nil {
		return nil, err
	}
	if record.TypeID != m.typeID {
		return nil, mismatch("typeId", record)
	}
	if m.conditionSet && record.Condition != m.condition {
		return nil, mismatch("condition", record)
	}
	cur.Pos += size
	return record, nil
}
