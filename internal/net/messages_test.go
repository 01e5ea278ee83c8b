package net

import (
	"encoding/binary"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"crossbook/internal/common"
)

func encodeNewOrder(id common.OrderID, orderType common.OrderType, side common.Side, price common.Price, qty common.Quantity, owner string) []byte {
	buf := make([]byte, BaseMessageHeaderLen+NewOrderMessageHeaderLen+len(owner))
	binary.BigEndian.PutUint16(buf[0:2], uint16(NewOrder))
	binary.BigEndian.PutUint64(buf[2:10], uint64(id))
	binary.BigEndian.PutUint16(buf[10:12], uint16(orderType))
	buf[12] = byte(side)
	binary.BigEndian.PutUint64(buf[13:21], uint64(price))
	binary.BigEndian.PutUint64(buf[21:29], uint64(qty))
	buf[29] = uint8(len(owner))
	copy(buf[30:], owner)
	return buf
}

func TestParseNewOrder(t *testing.T) {
	raw := encodeNewOrder(7, common.FillAndKill, common.Sell, 12345, 99, "alice")

	msg, err := parseMessage(raw)
	require.NoError(t, err)

	newOrder, ok := msg.(NewOrderMessage)
	require.True(t, ok)
	assert.Equal(t, common.OrderID(7), newOrder.OrderID)
	assert.Equal(t, common.FillAndKill, newOrder.OrderType)
	assert.Equal(t, common.Sell, newOrder.Side)
	assert.Equal(t, common.Price(12345), newOrder.Price)
	assert.Equal(t, common.Quantity(99), newOrder.Quantity)
	assert.Equal(t, "alice", newOrder.Owner)
}

func TestParseNewOrderTooShort(t *testing.T) {
	raw := encodeNewOrder(7, common.GoodTillCancel, common.Buy, 1, 1, "bob")
	_, err := parseMessage(raw[:len(raw)-2])
	assert.ErrorIs(t, err, ErrMessageTooShort)
}

func TestParseCancelOrder(t *testing.T) {
	buf := make([]byte, BaseMessageHeaderLen+CancelOrderMessageHeaderLen)
	binary.BigEndian.PutUint16(buf[0:2], uint16(CancelOrder))
	binary.BigEndian.PutUint64(buf[2:10], 42)

	msg, err := parseMessage(buf)
	require.NoError(t, err)
	cancel, ok := msg.(CancelOrderMessage)
	require.True(t, ok)
	assert.Equal(t, common.OrderID(42), cancel.OrderID)
}

func TestParseUnknownMessageType(t *testing.T) {
	buf := make([]byte, BaseMessageHeaderLen)
	binary.BigEndian.PutUint16(buf[0:2], 9999)
	_, err := parseMessage(buf)
	assert.ErrorIs(t, err, ErrInvalidMessageType)
}

func TestReportSerializeRoundTripFields(t *testing.T) {
	report := Report{
		MessageType:   ExecutionReport,
		CorrelationID: uuid.New(),
		OrderID:       5,
		Side:          common.Buy,
		Price:         100,
		Quantity:      10,
	}
	buf := report.Serialize()

	assert.Equal(t, byte(ExecutionReport), buf[0])
	gotID, err := uuid.FromBytes(buf[1:17])
	require.NoError(t, err)
	assert.Equal(t, report.CorrelationID, gotID)
	assert.Equal(t, uint64(5), binary.BigEndian.Uint64(buf[17:25]))
}
