package book

import (
	"container/list"

	"crossbook/internal/common"
)

// orderLocation is what the locator stores for a resting order: the order
// itself, the level it rests in, and the stable list element reference
// inside that level's sequence. The element reference is never invalidated
// by insertions or deletions elsewhere in the same level, so splice-out on
// cancel is O(1).
type orderLocation struct {
	order *common.Order
	level *priceLevel
	elem  *list.Element
}

// locator is the OrderID -> (order, position) index. It is kept strictly
// consistent with the two side indices: every resting order appears in
// exactly one side's level and one locator entry.
type locator struct {
	byID map[common.OrderID]*orderLocation
}

func newLocator() *locator {
	return &locator{byID: make(map[common.OrderID]*orderLocation)}
}

func (l *locator) has(id common.OrderID) bool {
	_, ok := l.byID[id]
	return ok
}

func (l *locator) get(id common.OrderID) (*orderLocation, bool) {
	loc, ok := l.byID[id]
	return loc, ok
}

func (l *locator) insert(id common.OrderID, loc *orderLocation) {
	l.byID[id] = loc
}

func (l *locator) delete(id common.OrderID) {
	delete(l.byID, id)
}

func (l *locator) size() int { return len(l.byID) }
