package common

// TradeInfo is one leg of a Trade: the resting order's own id, its own
// recorded price, and the quantity consumed from it in this match.
type TradeInfo struct {
	OrderID  OrderID
	Price    Price
	Quantity Quantity
}

// Trade pairs the two legs produced by a single match between a bid and an
// ask. BidTrade and AskTrade each carry that side's own order's price —
// for an aggressor this is the price it was inserted at (for a rewritten
// Market order, the opposite best captured at acceptance time).
type Trade struct {
	BidTrade TradeInfo
	AskTrade TradeInfo
}

// Trades is an ordered batch of matches produced by a single Add/Match pass.
type Trades []Trade

// ModifyRequest carries a replacement side/price/quantity for an existing
// order id. Modify is strictly cancel-then-new: the book discards the old
// order's price-time priority and constructs a fresh one with the
// ModifyRequest's side/price/quantity and the original order's type.
type ModifyRequest struct {
	OrderID  OrderID
	Side     Side
	Price    Price
	Quantity Quantity
}

// Level summarizes resting liquidity at a single price: the sum of
// remaining quantities of every order at that price.
type Level struct {
	Price    Price
	Quantity Quantity
}

// Levels is a Snapshot's return shape: each side's levels in side-native
// order (bids descending, asks ascending).
type Levels struct {
	Bids []Level
	Asks []Level
}
