package core

// SideBook is one side of an OrderBook: a price→level map, a price-priority
// heap over that map's levels, and a shared reference to the OrderIndex the
// owning OrderBook hands to both of its SideBooks.
type SideBook struct {
	side      Side
	byPrice   map[CentPrice]*Level
	heap      *priceHeap
	nodes     *arena[orderNode]
	index     *orderIndex
	orderCnt  int
	levelCnt  int // levels with a non-empty FIFO; heap.Len() may exceed this
}

func newSideBook(side Side, index *orderIndex, reserveOrders, reserveLevels int) *SideBook {
	return &SideBook{
		side:    side,
		byPrice: make(map[CentPrice]*Level, reserveLevels),
		heap:    newPriceHeap(side, reserveLevels),
		nodes:   newArena[orderNode](reserveOrders),
		index:   index,
	}
}

// marketable reports whether this SideBook's top price crosses an
// aggressor's limitPrice. This SideBook is always the one being drained,
// i.e. the side opposite the incoming order.
func (sb *SideBook) marketable(topPrice, limitPrice CentPrice) bool {
	if sb.side == Buy {
		return topPrice >= limitPrice
	}
	return topPrice <= limitPrice
}

// addRestingOrder inserts a brand-new resting order. Pre: orderID not in
// index, qty > 0.
func (sb *SideBook) addRestingOrder(orderID OrderID, qty Qty, price CentPrice) {
	level, ok := sb.byPrice[price]
	if !ok {
		level = newLevel(price, sb.nodes)
		sb.byPrice[price] = level
		sb.heap.pushLevel(level) // map insertion was new: exactly one heap entry per price
	}
	wasEmpty := level.empty()
	node := level.pushBack(Order{OrderID: orderID, Qty: qty, Price: price, Side: sb.side})
	sb.index.insert(orderID, orderLocation{side: sb.side, level: level, node: node})
	sb.orderCnt++
	if wasEmpty {
		sb.levelCnt++
	}
}

// cleanupTopEmpty drains empty levels from the top of the heap. It is the
// only place levels are ever removed from the heap or the price map —
// non-top empty levels are left as tombstones for a later add or match to
// rediscover via byPrice.
func (sb *SideBook) cleanupTopEmpty() {
	for {
		top := sb.heap.top()
		if top == nil || !top.empty() {
			return
		}
		sb.heap.popTop()
		delete(sb.byPrice, top.price)
	}
}

// matchAgainst drains this SideBook against an aggressor with the given
// remaining quantity and limit price, emitting one TradeMsg per matched
// step. It returns the aggressor's residual quantity after the loop exits.
func (sb *SideBook) matchAgainst(aggressorID OrderID, qty Qty, limitPrice CentPrice, sink EventSink) Qty {
	residual := qty
	for residual > 0 {
		sb.cleanupTopEmpty()
		top := sb.heap.top()
		if top == nil || !sb.marketable(top.price, limitPrice) {
			break
		}
		h := top.frontHandle()
		resting := top.at(h)
		tradeQty := residual
		if resting.Qty < tradeQty {
			tradeQty = resting.Qty
		}
		tradePrice := top.price

		residual -= tradeQty
		resting.Qty -= tradeQty

		aggFill := Fill{IsFull: residual == 0, OrderID: aggressorID, LeaveQty: residual}
		restFill := Fill{IsFull: resting.Qty == 0, OrderID: resting.OrderID, LeaveQty: resting.Qty}

		sink.OnTrade(TradeMsg{
			TradeQty:       tradeQty,
			TradePrice:     tradePrice,
			AggressiveFill: aggFill,
			RestingFill:    restFill,
		})

		if restFill.IsFull {
			sb.index.erase(resting.OrderID)
			top.popFront()
			sb.orderCnt--
			if top.empty() {
				sb.levelCnt--
			}
		}
	}
	return residual
}

// cancelByHandle removes the order at loc from its FIFO and the shared
// index, performing top-empty cleanup if the level it left behind is now
// empty and at the top of the heap.
func (sb *SideBook) cancelByHandle(orderID OrderID, loc orderLocation) {
	wasEmpty := loc.level.empty()
	loc.level.erase(loc.node)
	sb.index.erase(orderID)
	sb.orderCnt--
	if !wasEmpty && loc.level.empty() {
		sb.levelCnt--
	}
	sb.cleanupTopEmpty()
}

func (sb *SideBook) countOrders() int      { return sb.orderCnt }
func (sb *SideBook) countPriceLevels() int { return sb.levelCnt }

func (sb *SideBook) countOrdersAtPrice(price CentPrice) int {
	level, ok := sb.byPrice[price]
	if !ok {
		return 0
	}
	return level.size()
}

// top returns the best price and the number of orders resting there, or
// ok=false if this side is empty.
func (sb *SideBook) top() (price CentPrice, orders int, ok bool) {
	sb.cleanupTopEmpty()
	l := sb.heap.top()
	if l == nil {
		return 0, 0, false
	}
	return l.price, l.size(), true
}
