package reporting

import "github.com/jzeng/limitbook/pkg/core"

// ErrorEvent is one recorded OnError call.
type ErrorEvent struct {
	OrderID core.OrderID
	Kind    core.RequestKind
	Code    core.ErrCode
	Context string
}

// LogEvent is one recorded OnLog call.
type LogEvent struct {
	OrderID core.OrderID
	Kind    core.RequestKind
	Message string
}

// Collector is an in-memory EventSink that appends every callback's
// arguments, for assertions in tests and the load generator's post-run
// summary. Mirrors the teacher's no-op mock-sender idiom, except it keeps
// what it is handed instead of discarding it.
type Collector struct {
	Trades []core.TradeMsg
	Errors []ErrorEvent
	Logs   []LogEvent
}

func NewCollector() *Collector {
	return &Collector{}
}

func (c *Collector) OnTrade(msg core.TradeMsg) { c.Trades = append(c.Trades, msg) }

func (c *Collector) OnError(orderID core.OrderID, kind core.RequestKind, code core.ErrCode, context string) {
	c.Errors = append(c.Errors, ErrorEvent{orderID, kind, code, context})
}

func (c *Collector) OnLog(orderID core.OrderID, kind core.RequestKind, message string) {
	c.Logs = append(c.Logs, LogEvent{orderID, kind, message})
}

var _ core.EventSink = (*Collector)(nil)
