// Package net is the TCP wire-protocol front end for the engine: a
// length-implicit, big-endian binary protocol for submitting/cancelling/
// modifying orders and receiving execution reports. None of this is part
// of the core order book's invariants (the book and engine packages know
// nothing about it) — it is the "network front end" external collaborator
// the specification calls out, built in the teacher repository's wire
// format style.
package net

import (
	"encoding/binary"
	"errors"

	"github.com/google/uuid"

	"crossbook/internal/common"
)

var (
	ErrInvalidMessageType = errors.New("net: invalid message type")
	ErrMessageTooShort    = errors.New("net: message too short")
)

type MessageType uint16

const (
	Heartbeat MessageType = iota
	NewOrder
	CancelOrder
	ModifyOrder
)

const (
	BaseMessageHeaderLen = 2 // MessageType

	// OrderID(8) + OrderType(2) + Side(1) + Price(8) + Quantity(8) + UsernameLen(1)
	NewOrderMessageHeaderLen = 8 + 2 + 1 + 8 + 8 + 1
	// OrderID(8)
	CancelOrderMessageHeaderLen = 8
	// OrderID(8) + Side(1) + Price(8) + Quantity(8)
	ModifyOrderMessageHeaderLen = 8 + 1 + 8 + 8
)

// Message is anything parseMessage can hand back to the session handler.
type Message interface {
	Type() MessageType
}

// NewOrderMessage carries a client-submitted order onto the wire. Owner is
// the connecting username, used only to route execution reports back to
// the right client session — it plays no role in matching.
type NewOrderMessage struct {
	OrderID   common.OrderID
	OrderType common.OrderType
	Side      common.Side
	Price     common.Price
	Quantity  common.Quantity
	Owner     string
}

func (NewOrderMessage) Type() MessageType { return NewOrder }

// CancelOrderMessage requests cancellation of a resting order.
type CancelOrderMessage struct {
	OrderID common.OrderID
}

func (CancelOrderMessage) Type() MessageType { return CancelOrder }

// ModifyOrderMessage requests a cancel-then-new replace of a resting order.
type ModifyOrderMessage struct {
	OrderID  common.OrderID
	Side     common.Side
	Price    common.Price
	Quantity common.Quantity
}

func (ModifyOrderMessage) Type() MessageType { return ModifyOrder }

// parseMessage reads the 2-byte type header and dispatches to the matching
// body parser.
func parseMessage(msg []byte) (Message, error) {
	if len(msg) < BaseMessageHeaderLen {
		return nil, ErrMessageTooShort
	}
	typeOf := MessageType(binary.BigEndian.Uint16(msg[0:2]))
	body := msg[BaseMessageHeaderLen:]

	switch typeOf {
	case NewOrder:
		return parseNewOrder(body)
	case CancelOrder:
		return parseCancelOrder(body)
	case ModifyOrder:
		return parseModifyOrder(body)
	default:
		return nil, ErrInvalidMessageType
	}
}

func parseNewOrder(body []byte) (NewOrderMessage, error) {
	if len(body) < NewOrderMessageHeaderLen {
		return NewOrderMessage{}, ErrMessageTooShort
	}

	m := NewOrderMessage{
		OrderID:   common.OrderID(binary.BigEndian.Uint64(body[0:8])),
		OrderType: common.OrderType(binary.BigEndian.Uint16(body[8:10])),
		Side:      common.Side(body[10]),
		Price:     common.Price(binary.BigEndian.Uint64(body[11:19])),
		Quantity:  common.Quantity(binary.BigEndian.Uint64(body[19:27])),
	}

	usernameLen := int(body[27])
	if len(body) < NewOrderMessageHeaderLen+usernameLen {
		return NewOrderMessage{}, ErrMessageTooShort
	}
	m.Owner = string(body[NewOrderMessageHeaderLen : NewOrderMessageHeaderLen+usernameLen])

	return m, nil
}

func parseCancelOrder(body []byte) (CancelOrderMessage, error) {
	if len(body) < CancelOrderMessageHeaderLen {
		return CancelOrderMessage{}, ErrMessageTooShort
	}
	return CancelOrderMessage{OrderID: common.OrderID(binary.BigEndian.Uint64(body[0:8]))}, nil
}

func parseModifyOrder(body []byte) (ModifyOrderMessage, error) {
	if len(body) < ModifyOrderMessageHeaderLen {
		return ModifyOrderMessage{}, ErrMessageTooShort
	}
	return ModifyOrderMessage{
		OrderID:  common.OrderID(binary.BigEndian.Uint64(body[0:8])),
		Side:     common.Side(body[8]),
		Price:    common.Price(binary.BigEndian.Uint64(body[9:17])),
		Quantity: common.Quantity(binary.BigEndian.Uint64(body[17:25])),
	}, nil
}

// ReportMessageType distinguishes a successful execution report from an
// error report on the return path.
type ReportMessageType uint8

const (
	ExecutionReport ReportMessageType = iota
	ErrorReport
)

// Report is one leg of a trade (or a rejection notice) serialized back to a
// client. CorrelationID lets a client match a report to the request that
// produced it; it plays no role in the book's matching and never enters
// the book's indices.
type Report struct {
	MessageType   ReportMessageType
	CorrelationID uuid.UUID
	OrderID       common.OrderID
	Side          common.Side
	Price         common.Price
	Quantity      common.Quantity
	Err           string
}

// reportFixedHeaderLen: MessageType(1) + CorrelationID(16) + OrderID(8) +
// Side(1) + Price(8) + Quantity(8) + ErrLen(4)
const reportFixedHeaderLen = 1 + 16 + 8 + 1 + 8 + 8 + 4

// Serialize packs a Report onto the wire.
func (r Report) Serialize() []byte {
	buf := make([]byte, reportFixedHeaderLen+len(r.Err))

	buf[0] = byte(r.MessageType)
	copy(buf[1:17], r.CorrelationID[:])
	binary.BigEndian.PutUint64(buf[17:25], uint64(r.OrderID))
	buf[25] = byte(r.Side)
	binary.BigEndian.PutUint64(buf[26:34], uint64(r.Price))
	binary.BigEndian.PutUint64(buf[34:42], uint64(r.Quantity))
	binary.BigEndian.PutUint32(buf[42:46], uint32(len(r.Err)))
	copy(buf[reportFixedHeaderLen:], r.Err)

	return buf
}
