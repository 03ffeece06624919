package reporting

import (
	"fmt"
	"io"
	"text/tabwriter"

	"github.com/fatih/color"

	"github.com/jzeng/limitbook/pkg/core"
)

// ConsoleReporter prints human-readable, colorized trade/error/log lines,
// grounded on the original engine's EventDetailPrinter and the teacher's
// tabwriter-based CLI output.
type ConsoleReporter struct {
	tw       *tabwriter.Writer
	errOut   io.Writer
	tradeFmt *color.Color
	fillFmt  *color.Color
	errFmt   *color.Color
}

func NewConsoleReporter(out, errOut io.Writer) *ConsoleReporter {
	return &ConsoleReporter{
		tw:       tabwriter.NewWriter(out, 0, 4, 2, ' ', 0),
		errOut:   errOut,
		tradeFmt: color.New(color.FgGreen, color.Bold),
		fillFmt:  color.New(color.FgCyan),
		errFmt:   color.New(color.FgRed, color.Bold),
	}
}

func (r *ConsoleReporter) OnTrade(msg core.TradeMsg) {
	r.tradeFmt.Fprintf(r.tw, "TRADE\tqty=%d\tprice=%d\n", msg.TradeQty, msg.TradePrice)
	r.fillFmt.Fprintf(r.tw, "  aggressive\t%s\n", fillDetail(msg.AggressiveFill))
	r.fillFmt.Fprintf(r.tw, "  resting\t%s\n", fillDetail(msg.RestingFill))
	r.tw.Flush()
}

func fillDetail(f core.Fill) string {
	if f.IsFull {
		return fmt.Sprintf("order=%d full", f.OrderID)
	}
	return fmt.Sprintf("order=%d partial leave=%d", f.OrderID, f.LeaveQty)
}

func (r *ConsoleReporter) OnError(orderID core.OrderID, kind core.RequestKind, code core.ErrCode, context string) {
	msg := fmt.Sprintf("ERROR\torder=%d\trequest=%s\tcode=%s", orderID, kind, code)
	if context != "" {
		msg += "\t" + context
	}
	r.errFmt.Fprintln(r.errOut, msg)
}

func (r *ConsoleReporter) OnLog(orderID core.OrderID, kind core.RequestKind, message string) {
	fmt.Fprintf(r.tw, "LOG\torder=%d\trequest=%s\t%s\n", orderID, kind, message)
	r.tw.Flush()
}

var _ core.EventSink = (*ConsoleReporter)(nil)
