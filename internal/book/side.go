package book

import (
	"container/list"

	"github.com/tidwall/btree"

	"crossbook/internal/common"
)

// priceLevel holds every resting order at a single price, in arrival order.
// Orders live in a doubly-linked list (as the original C++ implementation
// this book is modeled on keeps its price levels in a std::list) so that a
// locator-held element reference survives pushes and splices anywhere else
// in the same level: push-back, pop-front, and splice-out-by-reference are
// all O(1).
type priceLevel struct {
	price  common.Price
	orders *list.List // of *common.Order
}

func newPriceLevel(price common.Price) *priceLevel {
	return &priceLevel{price: price, orders: list.New()}
}

func (pl *priceLevel) empty() bool { return pl.orders.Len() == 0 }

func (pl *priceLevel) front() *common.Order {
	e := pl.orders.Front()
	if e == nil {
		return nil
	}
	return e.Value.(*common.Order)
}

// pushBack inserts order at the tail of the level and returns the element
// reference the locator must keep to splice it out later in O(1).
func (pl *priceLevel) pushBack(order *common.Order) *list.Element {
	return pl.orders.PushBack(order)
}

// remove splices out the node at elem in O(1).
func (pl *priceLevel) remove(elem *list.Element) {
	pl.orders.Remove(elem)
}

// sideIndex is a price-sorted map from Price to the resting orders at that
// price, best-first. Bids sort descending (highest price first); asks sort
// ascending (lowest price first). A price key exists iff its level is
// non-empty.
type sideIndex struct {
	levels *btree.BTreeG[*priceLevel]
}

func newBidIndex() *sideIndex {
	return &sideIndex{levels: btree.NewBTreeG(func(a, b *priceLevel) bool {
		return a.price > b.price
	})}
}

func newAskIndex() *sideIndex {
	return &sideIndex{levels: btree.NewBTreeG(func(a, b *priceLevel) bool {
		return a.price < b.price
	})}
}

func (s *sideIndex) empty() bool { return s.levels.Len() == 0 }

// best returns the first (price-time-priority best) level, if any.
func (s *sideIndex) best() (*priceLevel, bool) {
	return s.levels.MinMut()
}

// getOrCreate returns the level at price, creating and inserting an empty
// one if it does not yet exist.
func (s *sideIndex) getOrCreate(price common.Price) *priceLevel {
	if level, ok := s.levels.GetMut(&priceLevel{price: price}); ok {
		return level
	}
	level := newPriceLevel(price)
	s.levels.Set(level)
	return level
}

// dropIfEmpty deletes the price key if its level has become empty.
func (s *sideIndex) dropIfEmpty(level *priceLevel) {
	if level.empty() {
		s.levels.Delete(level)
	}
}

// snapshot returns every level's (price, total remaining quantity) in the
// side's native best-first order.
func (s *sideIndex) snapshot() []common.Level {
	out := make([]common.Level, 0, s.levels.Len())
	s.levels.Scan(func(level *priceLevel) bool {
		var qty common.Quantity
		for e := level.orders.Front(); e != nil; e = e.Next() {
			qty += e.Value.(*common.Order).RemainingQty()
		}
		out = append(out, common.Level{Price: level.price, Quantity: qty})
		return true
	})
	return out
}
