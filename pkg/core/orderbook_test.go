package core

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// recordingSink captures every callback for assertion. It mirrors the shape
// of TradeMsg/Fill exactly so test expectations can be written as plain
// literals.
type recordingSink struct {
	trades []TradeMsg
	errs   []errEvent
	logs   []logEvent
}

type errEvent struct {
	orderID OrderID
	kind    RequestKind
	code    ErrCode
	context string
}

type logEvent struct {
	orderID OrderID
	kind    RequestKind
	message string
}

func (s *recordingSink) OnTrade(msg TradeMsg) { s.trades = append(s.trades, msg) }
func (s *recordingSink) OnError(orderID OrderID, kind RequestKind, code ErrCode, context string) {
	s.errs = append(s.errs, errEvent{orderID, kind, code, context})
}
func (s *recordingSink) OnLog(orderID OrderID, kind RequestKind, message string) {
	s.logs = append(s.logs, logEvent{orderID, kind, message})
}

// csvLines renders a recordingSink's trades as the wire-format triples from
// spec §6, for tests that want to assert against the exact scenario output.
func csvLines(trades []TradeMsg) []string {
	var lines []string
	for _, t := range trades {
		lines = append(lines, fmt.Sprintf("2,%d,%d", t.TradeQty, t.TradePrice/100))
		lines = append(lines, fillLine(t.AggressiveFill))
		lines = append(lines, fillLine(t.RestingFill))
	}
	return lines
}

func fillLine(f Fill) string {
	if f.IsFull {
		return fmt.Sprintf("3,%d", f.OrderID)
	}
	return fmt.Sprintf("4,%d,%d", f.OrderID, f.LeaveQty)
}

func newTestBook(sink EventSink) *OrderBook {
	return NewOrderBook(Config{Sink: sink})
}

// checkInvariants re-derives P1-P3 and P7, and checks that every resting
// order carries its level's price, from the book's query methods and its
// internal maps and heap. Several tests call it after their mutating calls;
// not every test calls it after every mutating call.
func checkInvariants(t *testing.T, ob *OrderBook) {
	t.Helper()
	buyPrice, _, buyOk := ob.Top(Buy)
	sellPrice, _, sellOk := ob.Top(Sell)
	if buyOk && sellOk {
		assert.Less(t, int(buyPrice), int(sellPrice), "book must not be crossed")
	}
	assert.Equal(t, ob.index.len(), ob.CountOrders(Buy)+ob.CountOrders(Sell), "index size must equal total resting orders")
	for _, side := range []Side{Buy, Sell} {
		sb := ob.sides[side]
		sum := 0
		levels := 0
		for _, l := range sb.byPrice {
			sum += l.size()
			if !l.empty() {
				levels++
			}
			for h := l.frontHandle(); h != nilHandle; h = l.nodes.get(h).next {
				assert.Equal(t, l.price, l.at(h).Price, "order price must equal its level's price on %v", side)
			}
		}
		assert.Equal(t, sb.orderCnt, sum, "order count must match sum of level sizes on %v", side)
		assert.Equal(t, sb.levelCnt, levels, "level count must match non-empty levels on %v", side)
		seen := map[CentPrice]bool{}
		for _, l := range sb.heap.levels {
			assert.False(t, seen[l.price], "duplicate heap entry for price %d on %v", l.price, side)
			seen[l.price] = true
		}
	}
}

func TestScenarioA_BasicCross(t *testing.T) {
	sink := &recordingSink{}
	ob := newTestBook(sink)

	require.True(t, ob.MatchAddNewOrder(1, Buy, 100, 3000))
	checkInvariants(t, ob)
	require.True(t, ob.MatchAddNewOrder(2, Buy, 200, 3000))
	checkInvariants(t, ob)
	require.True(t, ob.MatchAddNewOrder(3, Buy, 300, 1000))
	checkInvariants(t, ob)
	require.True(t, ob.MatchAddNewOrder(4, Sell, 200, 2000))
	checkInvariants(t, ob)
	require.True(t, ob.CancelOrder(2))
	checkInvariants(t, ob)
	require.True(t, ob.MatchAddNewOrder(5, Sell, 400, 1000))
	checkInvariants(t, ob)

	expected := []string{
		"2,100,30", "4,4,100", "3,1",
		"2,100,30", "3,4", "4,2,100",
		"2,300,10", "4,5,100", "3,3",
	}
	assert.Equal(t, expected, csvLines(sink.trades))

	assert.Equal(t, 0, ob.CountOrders(Buy))
	price, orders, ok := ob.Top(Sell)
	require.True(t, ok)
	assert.Equal(t, CentPrice(1000), price)
	assert.Equal(t, 1, orders)
	assert.Equal(t, Qty(100), ob.sides[Sell].byPrice[1000].front().Qty)
}

func TestScenarioB_SweepsMultipleLevels(t *testing.T) {
	sink := &recordingSink{}
	ob := newTestBook(sink)

	require.True(t, ob.MatchAddNewOrder(10, Sell, 10, 1050))
	require.True(t, ob.MatchAddNewOrder(11, Sell, 5, 1025))
	require.True(t, ob.MatchAddNewOrder(12, Buy, 8, 1050))
	checkInvariants(t, ob)

	require.Len(t, sink.trades, 2)
	assert.Equal(t, Qty(5), sink.trades[0].TradeQty)
	assert.Equal(t, CentPrice(1025), sink.trades[0].TradePrice)
	assert.True(t, sink.trades[0].RestingFill.IsFull)
	assert.Equal(t, OrderID(11), sink.trades[0].RestingFill.OrderID)

	assert.Equal(t, Qty(3), sink.trades[1].TradeQty)
	assert.Equal(t, CentPrice(1050), sink.trades[1].TradePrice)
	assert.True(t, sink.trades[1].AggressiveFill.IsFull)
	assert.Equal(t, OrderID(12), sink.trades[1].AggressiveFill.OrderID)
	assert.False(t, sink.trades[1].RestingFill.IsFull)
	assert.Equal(t, Qty(7), sink.trades[1].RestingFill.LeaveQty)
}

func TestScenarioC_DuplicateOrderID(t *testing.T) {
	sink := &recordingSink{}
	ob := newTestBook(sink)

	require.True(t, ob.MatchAddNewOrder(1, Buy, 100, 1000))
	ok := ob.MatchAddNewOrder(1, Sell, 50, 900)
	assert.False(t, ok)
	require.Len(t, sink.errs, 1)
	assert.Equal(t, ErrCodeDuplicateOrderID, sink.errs[0].code)
	assert.Equal(t, 1, ob.CountOrders(Buy))
	assert.Equal(t, 0, ob.CountOrders(Sell))
}

func TestScenarioD_UnknownCancel(t *testing.T) {
	sink := &recordingSink{}
	ob := newTestBook(sink)

	ok := ob.CancelOrder(999)
	assert.False(t, ok)
	require.Len(t, sink.errs, 1)
	assert.Equal(t, ErrCodeUnknownOrderID, sink.errs[0].code)
}

func TestScenarioE_PartialCancelPreservesPriority(t *testing.T) {
	sink := &recordingSink{}
	ob := newTestBook(sink)

	require.True(t, ob.MatchAddNewOrder(1, Buy, 100, 1000))
	require.True(t, ob.MatchAddNewOrder(2, Buy, 50, 1000))
	require.True(t, ob.PartialCancelOrder(1, 40))
	checkInvariants(t, ob)

	require.True(t, ob.MatchAddNewOrder(3, Sell, 60, 1000))
	checkInvariants(t, ob)

	require.Len(t, sink.trades, 1)
	trade := sink.trades[0]
	assert.Equal(t, Qty(60), trade.TradeQty)
	assert.True(t, trade.AggressiveFill.IsFull)
	assert.True(t, trade.RestingFill.IsFull)
	assert.Equal(t, OrderID(1), trade.RestingFill.OrderID)
	assert.Equal(t, 1, ob.CountOrders(Buy))
}

func TestScenarioF_LazyCleanupReusesLevel(t *testing.T) {
	sink := &recordingSink{}
	ob := newTestBook(sink)

	require.True(t, ob.MatchAddNewOrder(1, Buy, 100, 1000))
	require.True(t, ob.MatchAddNewOrder(2, Buy, 100, 900))
	require.True(t, ob.CancelOrder(2))
	checkInvariants(t, ob)

	require.True(t, ob.MatchAddNewOrder(3, Buy, 50, 900))
	checkInvariants(t, ob)

	price, _, ok := ob.Top(Buy)
	require.True(t, ok)
	assert.Equal(t, CentPrice(1000), price)
	assert.Equal(t, 2, ob.CountPriceLevels(Buy))
	assert.Equal(t, 1, ob.CountOrdersAtPrice(Buy, 900))
}

func TestPartialCancelToZeroBecomesFullCancel(t *testing.T) {
	sink := &recordingSink{}
	ob := newTestBook(sink)

	require.True(t, ob.MatchAddNewOrder(1, Buy, 50, 1000))
	require.True(t, ob.PartialCancelOrder(1, 50))
	assert.Equal(t, 0, ob.CountOrders(Buy))
	assert.False(t, ob.CancelOrder(1))
}

func TestPartialCancelQtyTooLarge(t *testing.T) {
	sink := &recordingSink{}
	ob := newTestBook(sink)

	require.True(t, ob.MatchAddNewOrder(1, Buy, 50, 1000))
	ok := ob.PartialCancelOrder(1, 51)
	assert.False(t, ok)
	require.Len(t, sink.errs, 1)
	assert.Equal(t, ErrCodeQtyTooLarge, sink.errs[0].code)
	assert.Equal(t, Qty(50), ob.sides[Buy].byPrice[1000].front().Qty)
}

func TestReplaceOrderLosesPriority(t *testing.T) {
	sink := &recordingSink{}
	ob := newTestBook(sink)

	require.True(t, ob.MatchAddNewOrder(1, Buy, 50, 1000))
	require.True(t, ob.MatchAddNewOrder(2, Buy, 50, 1000))
	require.True(t, ob.ReplaceOrder(1, 3, 50, 1000))
	checkInvariants(t, ob)

	require.True(t, ob.MatchAddNewOrder(4, Sell, 50, 1000))
	require.Len(t, sink.trades, 1)
	assert.Equal(t, OrderID(2), sink.trades[0].RestingFill.OrderID, "order 2 should trade first: order 3 lost priority by replacing order 1")
}

func TestReplaceDuplicateNewID(t *testing.T) {
	sink := &recordingSink{}
	ob := newTestBook(sink)

	require.True(t, ob.MatchAddNewOrder(1, Buy, 50, 1000))
	require.True(t, ob.MatchAddNewOrder(2, Buy, 50, 1000))
	ok := ob.ReplaceOrder(1, 2, 50, 1000)
	assert.False(t, ok)
	require.Len(t, sink.errs, 1)
	assert.Equal(t, ErrCodeDuplicateOrderID, sink.errs[0].code)
}

func TestReplaceUnknownOriginal(t *testing.T) {
	sink := &recordingSink{}
	ob := newTestBook(sink)

	ok := ob.ReplaceOrder(1, 2, 50, 1000)
	assert.False(t, ok)
	require.Len(t, sink.errs, 1)
	assert.Equal(t, ErrCodeUnknownOrderID, sink.errs[0].code)
	assert.Equal(t, RequestReplace, sink.errs[0].kind)
}

func TestAddZeroOrNegativeQtyRejected(t *testing.T) {
	sink := &recordingSink{}
	ob := newTestBook(sink)

	assert.False(t, ob.MatchAddNewOrder(1, Buy, 0, 1000))
	assert.False(t, ob.MatchAddNewOrder(2, Buy, -5, 1000))
	require.Len(t, sink.errs, 2)
	assert.Equal(t, ErrCodeQtyTooSmall, sink.errs[0].code)
	assert.Equal(t, ErrCodeQtyTooSmall, sink.errs[1].code)
}

func TestTimePriorityAcrossManyOrders(t *testing.T) {
	sink := &recordingSink{}
	ob := newTestBook(sink)

	for i := OrderID(1); i <= 5; i++ {
		require.True(t, ob.MatchAddNewOrder(i, Buy, 10, 1000))
	}
	require.True(t, ob.MatchAddNewOrder(100, Sell, 25, 1000))

	require.Len(t, sink.trades, 3)
	for i, wantResting := range []OrderID{1, 2, 3} {
		assert.Equal(t, wantResting, sink.trades[i].RestingFill.OrderID)
	}
}
