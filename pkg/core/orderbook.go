package core

import "strconv"

func formatOrderID(id OrderID) string {
	return strconv.FormatUint(uint64(id), 10)
}

// Config carries construction-time sizing hints. Both are optional; zero
// values fall back to Go's normal map/slice growth.
type Config struct {
	ReserveOrders             int
	ReservePriceLevelsPerSide int
	Sink                      EventSink
}

// OrderBook is a single instrument: two SideBooks sharing one OrderIndex,
// dispatching requests and publishing events to a sink. It is not safe for
// concurrent use — callers sharding across instruments must give each
// OrderBook its own goroutine.
type OrderBook struct {
	sides [2]*SideBook // indexed by Side
	index *orderIndex
	sink  EventSink
}

// NewOrderBook constructs an empty book. A nil Sink is replaced with
// NullSink so callers never need a nil check before wiring one up.
func NewOrderBook(cfg Config) *OrderBook {
	sink := cfg.Sink
	if sink == nil {
		sink = NullSink{}
	}
	index := newOrderIndex(cfg.ReserveOrders)
	ob := &OrderBook{index: index, sink: sink}
	ob.sides[Buy] = newSideBook(Buy, index, cfg.ReserveOrders, cfg.ReservePriceLevelsPerSide)
	ob.sides[Sell] = newSideBook(Sell, index, cfg.ReserveOrders, cfg.ReservePriceLevelsPerSide)
	return ob
}

// MatchAddNewOrder accepts a new order, matching it against the opposite
// side first and resting any remainder on its own side.
func (ob *OrderBook) MatchAddNewOrder(orderID OrderID, side Side, qty Qty, price CentPrice) bool {
	if ob.index.contains(orderID) {
		ob.sink.OnError(orderID, RequestAdd, ErrCodeDuplicateOrderID, "")
		return false
	}
	if qty <= 0 {
		ob.sink.OnError(orderID, RequestAdd, ErrCodeQtyTooSmall, "")
		return false
	}
	opposite := ob.sides[side.opposite()]
	residual := opposite.matchAgainst(orderID, qty, price, ob.sink)
	if residual > 0 {
		ob.sides[side].addRestingOrder(orderID, residual, price)
	}
	return true
}

// CancelOrder removes a resting order in full.
func (ob *OrderBook) CancelOrder(orderID OrderID) bool {
	return ob.cancelByID(orderID, RequestCancel)
}

func (ob *OrderBook) cancelByID(orderID OrderID, kind RequestKind) bool {
	loc, ok := ob.index.find(orderID)
	if !ok {
		ob.sink.OnError(orderID, kind, ErrCodeUnknownOrderID, "")
		return false
	}
	ob.sides[loc.side].cancelByHandle(orderID, loc)
	return true
}

// PartialCancelOrder reduces a resting order's quantity in place, preserving
// its position in the FIFO. A cancellation that reduces quantity to zero or
// below is treated as a full cancel.
func (ob *OrderBook) PartialCancelOrder(orderID OrderID, cancelledQty Qty) bool {
	loc, ok := ob.index.find(orderID)
	if !ok {
		ob.sink.OnError(orderID, RequestPartialCancel, ErrCodeUnknownOrderID, "")
		return false
	}
	order := loc.level.at(loc.node)
	if cancelledQty > order.Qty {
		ob.sink.OnError(orderID, RequestPartialCancel, ErrCodeQtyTooLarge, "")
		return false
	}
	order.Qty -= cancelledQty
	if order.Qty <= 0 {
		ob.sides[loc.side].cancelByHandle(orderID, loc)
	}
	return true
}

// ReplaceOrder cancels originalID and adds newID in its place, always
// losing time priority — the price and/or quantity may have changed, so
// the new order joins the back of its level's FIFO like any other add.
func (ob *OrderBook) ReplaceOrder(originalID, newID OrderID, qty Qty, price CentPrice) bool {
	if newID == originalID || ob.index.contains(newID) {
		ob.sink.OnError(newID, RequestReplace, ErrCodeDuplicateOrderID, "originalOrderID: "+formatOrderID(originalID))
		return false
	}
	loc, ok := ob.index.find(originalID)
	if !ok {
		ob.sink.OnError(originalID, RequestReplace, ErrCodeUnknownOrderID, "")
		return false
	}
	side := loc.side
	ob.sides[side].cancelByHandle(originalID, loc)
	return ob.MatchAddNewOrder(newID, side, qty, price)
}

// CountOrders returns the number of live resting orders on side.
func (ob *OrderBook) CountOrders(side Side) int { return ob.sides[side].countOrders() }

// CountPriceLevels returns the number of non-empty price levels on side.
func (ob *OrderBook) CountPriceLevels(side Side) int { return ob.sides[side].countPriceLevels() }

// CountOrdersAtPrice returns how many orders rest at price on side.
func (ob *OrderBook) CountOrdersAtPrice(side Side, price CentPrice) int {
	return ob.sides[side].countOrdersAtPrice(price)
}

// Top returns the best price on side and how many orders rest there.
func (ob *OrderBook) Top(side Side) (price CentPrice, orders int, ok bool) {
	return ob.sides[side].top()
}
