package main

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/vortexmq/amqpex/extension"
)

// Scenario is a YAML description of extension records to encode. Values are
// scenario-file strings; byte-valued fields are UTF-8 encoded.
type Scenario struct {
	Records []RecordSpec `yaml:"records"`
}

// RecordSpec describes one record of any extension kind. Only the fields
// matching the kind are consulted.
type RecordSpec struct {
	Kind string `yaml:"kind"`

	TypeID             uint32   `yaml:"typeId"`
	Address            string   `yaml:"address"`
	Capabilities       string   `yaml:"capabilities"`
	SenderSettleMode   string   `yaml:"senderSettleMode"`
	ReceiverSettleMode string   `yaml:"receiverSettleMode"`
	Condition          string   `yaml:"condition"`
	DeliveryTag        string   `yaml:"deliveryTag"`
	Deferred           uint32   `yaml:"deferred"`
	MessageFormat      uint32   `yaml:"messageFormat"`
	Flags              []string `yaml:"flags"`
	BodyKind           string   `yaml:"bodyKind"`

	Annotations           []AnnotationSpec  `yaml:"annotations"`
	Properties            *PropertiesSpec   `yaml:"properties"`
	ApplicationProperties []AppPropertySpec `yaml:"applicationProperties"`
}

// AnnotationSpec keys an annotation by numeric id or symbolic name.
type AnnotationSpec struct {
	ID    *uint64 `yaml:"id"`
	Name  *string `yaml:"name"`
	Value string  `yaml:"value"`
}

// PropertiesSpec mirrors the optional message-property fields.
type PropertiesSpec struct {
	MessageID          *string `yaml:"messageId"`
	UserID             *string `yaml:"userId"`
	To                 *string `yaml:"to"`
	Subject            *string `yaml:"subject"`
	ReplyTo            *string `yaml:"replyTo"`
	CorrelationID      *string `yaml:"correlationId"`
	ContentType        *string `yaml:"contentType"`
	ContentEncoding    *string `yaml:"contentEncoding"`
	AbsoluteExpiryTime *uint64 `yaml:"absoluteExpiryTime"`
	CreationTime       *uint64 `yaml:"creationTime"`
	GroupID            *string `yaml:"groupId"`
	GroupSequence      *uint32 `yaml:"groupSequence"`
	ReplyToGroupID     *string `yaml:"replyToGroupId"`
}

// AppPropertySpec is one ordered application property.
type AppPropertySpec struct {
	Key   string `yaml:"key"`
	Value string `yaml:"value"`
}

// LoadScenario parses the scenario file at path.
func LoadScenario(path string) (*Scenario, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading scenario %s: %w", path, err)
	}
	var s Scenario
	if err := yaml.Unmarshal(data, &s); err != nil {
		return nil, fmt.Errorf("parsing scenario %s: %w", path, err)
	}
	if len(s.Records) == 0 {
		return nil, fmt.Errorf("scenario %s has no records", path)
	}
	return &s, nil
}

// Build encodes the record described by the spec.
func (r *RecordSpec) Build() ([]byte, error) {
	switch r.Kind {
	case "routeEx":
		b := extension.NewRouteEx().Address(r.Address)
		if r.Capabilities != "" {
			b.Capabilities(r.Capabilities)
		}
		return b.Build()

	case "beginEx":
		b := extension.NewBeginEx().TypeID(r.TypeID).Address(r.Address)
		if r.Capabilities != "" {
			b.Capabilities(r.Capabilities)
		}
		if r.SenderSettleMode != "" {
			b.SenderSettleMode(r.SenderSettleMode)
		}
		if r.ReceiverSettleMode != "" {
			b.ReceiverSettleMode(r.ReceiverSettleMode)
		}
		return b.Build()

	case "dataEx":
		b := extension.NewDataEx().
			TypeID(r.TypeID).
			Deferred(r.Deferred).
			MessageFormat(r.MessageFormat)
		if r.DeliveryTag != "" {
			b.DeliveryTag([]byte(r.DeliveryTag))
		}
		if len(r.Flags) > 0 {
			b.Flags(r.Flags...)
		}
		for _, a := range r.Annotations {
			switch {
			case a.ID != nil:
				b.Annotation(extension.NumericKey(*a.ID), []byte(a.Value))
			case a.Name != nil:
				b.Annotation(extension.NamedKey(*a.Name), []byte(a.Value))
			default:
				return nil, fmt.Errorf("annotation needs an id or a name")
			}
		}
		if p := r.Properties; p != nil {
			if p.MessageID != nil {
				b.MessageID(extension.StringMessageID(*p.MessageID))
			}
			if p.UserID != nil {
				b.UserID([]byte(*p.UserID))
			}
			if p.To != nil {
				b.To(*p.To)
			}
			if p.Subject != nil {
				b.Subject(*p.Subject)
			}
			if p.ReplyTo != nil {
				b.ReplyTo(*p.ReplyTo)
			}
			if p.CorrelationID != nil {
				b.CorrelationID(extension.StringMessageID(*p.CorrelationID))
			}
			if p.ContentType != nil {
				b.ContentType(*p.ContentType)
			}
			if p.ContentEncoding != nil {
				b.ContentEncoding(*p.ContentEncoding)
			}
			if p.AbsoluteExpiryTime != nil {
				b.AbsoluteExpiryTime(*p.AbsoluteExpiryTime)
			}
			if p.CreationTime != nil {
				b.CreationTime(*p.CreationTime)
			}
			if p.GroupID != nil {
				b.GroupID(*p.GroupID)
			}
			if p.GroupSequence != nil {
				b.GroupSequence(*p.GroupSequence)
			}
			if p.ReplyToGroupID != nil {
				b.ReplyToGroupID(*p.ReplyToGroupID)
			}
		}
		for _, ap := range r.ApplicationProperties {
			b.ApplicationProperty(ap.Key, []byte(ap.Value))
		}
		if r.BodyKind != "" {
			b.BodyKind(r.BodyKind)
		}
		return b.Build()

	case "abortEx":
		return extension.NewAbortEx().TypeID(r.TypeID).Condition(r.Condition).Build()
	}
	return nil, fmt.Errorf("unknown record kind %q", r.Kind)
}
