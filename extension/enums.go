package extension

import (
	"fmt"
	"strings"

	"github.com/vortexmq/amqpex/errors"
)

// Capability codes for route and session-begin records.
type Capability uint8

const (
	ReceiveOnly    Capability = 1
	SendOnly       Capability = 2
	SendAndReceive Capability = 3
)

func (c Capability) String() string {
	switch c {
	case ReceiveOnly:
		return "RECEIVE_ONLY"
	case SendOnly:
		return "SEND_ONLY"
	case SendAndReceive:
		return "SEND_AND_RECEIVE"
	}
	return fmt.Sprintf("Capability(%d)", uint8(c))
}

// ParseCapability maps a capability name to its wire code. Unknown names fail
// explicitly, never defaulting.
func ParseCapability(name string) (Capability, error) {
	switch name {
	case "RECEIVE_ONLY":
		return ReceiveOnly, nil
	case "SEND_ONLY":
		return SendOnly, nil
	case "SEND_AND_RECEIVE":
		return SendAndReceive, nil
	}
	return 0, errors.NewUnrecognizedEnum("capabilities", name)
}

// SenderSettleMode codes per the AMQP 1.0 sender-settle-mode definition.
type SenderSettleMode uint8

const (
	SenderUnsettled SenderSettleMode = 0
	SenderSettled   SenderSettleMode = 1
	SenderMixed     SenderSettleMode = 2
)

func (m SenderSettleMode) String() string {
	switch m {
	case SenderUnsettled:
		return "UNSETTLED"
	case SenderSettled:
		return "SETTLED"
	case SenderMixed:
		return "MIXED"
	}
	return fmt.Sprintf("SenderSettleMode(%d)", uint8(m))
}

// ParseSenderSettleMode maps a sender-settle-mode name to its wire code.
func ParseSenderSettleMode(name string) (SenderSettleMode, error) {
	switch name {
	case "UNSETTLED":
		return SenderUnsettled, nil
	case "SETTLED":
		return SenderSettled, nil
	case "MIXED":
		return SenderMixed, nil
	}
	return 0, errors.NewUnrecognizedEnum("senderSettleMode", name)
}

// ReceiverSettleMode codes per the AMQP 1.0 receiver-settle-mode definition.
type ReceiverSettleMode uint8

const (
	ReceiverFirst  ReceiverSettleMode = 0
	ReceiverSecond ReceiverSettleMode = 1
)

func (m ReceiverSettleMode) String() string {
	switch m {
	case ReceiverFirst:
		return "FIRST"
	case ReceiverSecond:
		return "SECOND"
	}
	return fmt.Sprintf("ReceiverSettleMode(%d)", uint8(m))
}

// ParseReceiverSettleMode maps a receiver-settle-mode name to its wire code.
func ParseReceiverSettleMode(name string) (ReceiverSettleMode, error) {
	switch name {
	case "FIRST":
		return ReceiverFirst, nil
	case "SECOND":
		return ReceiverSecond, nil
	}
	return 0, errors.NewUnrecognizedEnum("receiverSettleMode", name)
}

// TransferFlags is the transfer-flag bitmask.
type TransferFlags uint8

const (
	FlagSettled   TransferFlags = 1
	FlagResume    TransferFlags = 2
	FlagAborted   TransferFlags = 4
	FlagBatchable TransferFlags = 8
)

func (f TransferFlags) String() string {
	if f == 0 {
		return "[]"
	}
	var names []string
	if f&FlagSettled != 0 {
		names = append(names, "SETTLED")
	}
	if f&FlagResume != 0 {
		names = append(names, "RESUME")
	}
	if f&FlagAborted != 0 {
		names = append(names, "ABORTED")
	}
	if f&FlagBatchable != 0 {
		names = append(names, "BATCHABLE")
	}
	if rest := f &^ (FlagSettled | FlagResume | FlagAborted | FlagBatchable); rest != 0 {
		names = append(names, fmt.Sprintf("0x%02x", uint8(rest)))
	}
	return "[" + strings.Join(names, "|") + "]"
}

// ParseTransferFlags ORs the named transfer flags into one bitmask.
func ParseTransferFlags(names ...string) (TransferFlags, error) {
	var flags TransferFlags
	for _, name := range names {
		switch name {
		case "SETTLED":
			flags |= FlagSettled
		case "RESUME":
			flags |= FlagResume
		case "ABORTED":
			flags |= FlagAborted
		case "BATCHABLE":
			flags |= FlagBatchable
		default:
			return 0, errors.NewUnrecognizedEnum("flags", name)
		}
	}
	return flags, nil
}

// BodyKind identifies the body section layout of a transfer.
type BodyKind uint8

const (
	BodyNull     BodyKind = 0
	BodyData     BodyKind = 1
	BodySequence BodyKind = 2
	BodyValue    BodyKind = 3
)

func (b BodyKind) String() string {
	switch b {
	case BodyNull:
		return "NULL"
	case BodyData:
		return "DATA"
	case BodySequence:
		return "SEQUENCE"
	case BodyValue:
		return "VALUE"
	}
	return fmt.Sprintf("BodyKind(%d)", uint8(b))
}

// ParseBodyKind maps a body-kind name to its wire code.
func ParseBodyKind(name string) (BodyKind, error) {
	switch name {
	case "NULL":
		return BodyNull, nil
	case "DATA":
		return BodyData, nil
	case "SEQUENCE":
		return BodySequence, nil
	case "VALUE":
		return BodyValue, nil
	}
	return 0, errors.NewUnrecognizedEnum("bodyKind", name)
}
