package common

import "errors"

// ErrInvalidFill is returned by Order.Fill when asked to fill more than the
// order's remaining quantity.
var ErrInvalidFill = errors.New("common: fill quantity exceeds remaining quantity")

// ErrNotMarketOrder is returned by Order.ToGoodTillCancel when called on an
// order that was not constructed as a Market order.
var ErrNotMarketOrder = errors.New("common: only market orders can be converted to good-till-cancel")

// Order is the book's unit of resting liquidity. Identity (ID, Side) and the
// initial quantity never change after construction; Price and Type change
// exactly once, for a Market order rewritten by the book at acceptance
// time. RemainingQty is the only field mutated thereafter, by Fill.
type Order struct {
	id           OrderID
	orderType    OrderType
	side         Side
	price        Price
	initialQty   Quantity
	remainingQty Quantity
}

// New constructs a limit-priced order (GoodTillCancel, FillAndKill,
// GoodForDay, or FillOrKill — anything whose price is meaningful at
// construction time).
func New(id OrderID, orderType OrderType, side Side, price Price, qty Quantity) *Order {
	return &Order{
		id:           id,
		orderType:    orderType,
		side:         side,
		price:        price,
		initialQty:   qty,
		remainingQty: qty,
	}
}

// NewMarket constructs a Market order. Its price is unset (the zero value)
// until the book rewrites it via ToGoodTillCancel at acceptance time; unlike
// the source this is implemented from, there is no sentinel negative price
// to leak if that rewrite is skipped.
func NewMarket(id OrderID, side Side, qty Quantity) *Order {
	return &Order{
		id:           id,
		orderType:    Market,
		side:         side,
		initialQty:   qty,
		remainingQty: qty,
	}
}

func (o *Order) ID() OrderID             { return o.id }
func (o *Order) Type() OrderType         { return o.orderType }
func (o *Order) Side() Side              { return o.side }
func (o *Order) Price() Price            { return o.price }
func (o *Order) InitialQty() Quantity    { return o.initialQty }
func (o *Order) RemainingQty() Quantity  { return o.remainingQty }
func (o *Order) FilledQty() Quantity     { return o.initialQty - o.remainingQty }
func (o *Order) IsFilled() bool          { return o.remainingQty == 0 }

// Fill reduces the remaining quantity by qty. It fails if qty exceeds what
// remains; the matcher never triggers this path since it always caps the
// matched quantity at the smaller side's remaining quantity.
func (o *Order) Fill(qty Quantity) error {
	if qty > o.remainingQty {
		return ErrInvalidFill
	}
	o.remainingQty -= qty
	return nil
}

// ToGoodTillCancel atomically rewrites a Market order's price and type once
// the book has determined the opposite side's best price. It is only legal
// on an order that is still a Market order.
func (o *Order) ToGoodTillCancel(price Price) error {
	if o.orderType != Market {
		return ErrNotMarketOrder
	}
	o.price = price
	o.orderType = GoodTillCancel
	return nil
}
