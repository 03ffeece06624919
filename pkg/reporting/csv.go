// Package reporting provides concrete EventSink implementations consuming
// the core package's public interface: a CSV wire-format reporter, a
// colorized console reporter, and an in-memory collector for tests and the
// load generator.
package reporting

import (
	"bufio"
	"fmt"
	"io"
	"strconv"

	"github.com/jzeng/limitbook/pkg/core"
)

// CSVReporter writes the §6 wire format to w: one "2,qty,price" trade line
// immediately followed by the aggressive fill line then the resting fill
// line, as an indivisible triple. Price is rendered back to the source
// feed's decimal unit (cents / 100) without trailing zeros: 3000 cents is
// written as 30, 3025 cents as 30.25.
type CSVReporter struct {
	w *bufio.Writer
}

func NewCSVReporter(w io.Writer) *CSVReporter {
	return &CSVReporter{w: bufio.NewWriter(w)}
}

func (r *CSVReporter) OnTrade(msg core.TradeMsg) {
	price := strconv.FormatFloat(float64(msg.TradePrice)/100, 'f', -1, 64)
	fmt.Fprintf(r.w, "2,%d,%s\n", msg.TradeQty, price)
	r.printFill(msg.AggressiveFill)
	r.printFill(msg.RestingFill)
	r.w.Flush()
}

func (r *CSVReporter) printFill(f core.Fill) {
	if f.IsFull {
		fmt.Fprintf(r.w, "3,%d\n", f.OrderID)
		return
	}
	fmt.Fprintf(r.w, "4,%d,%d\n", f.OrderID, f.LeaveQty)
}

func (r *CSVReporter) OnError(orderID core.OrderID, kind core.RequestKind, code core.ErrCode, context string) {
	// Errors are not part of the §6 trade/fill event stream; CSVReporter
	// discards them and does not forward them anywhere.
}

func (r *CSVReporter) OnLog(orderID core.OrderID, kind core.RequestKind, message string) {}

var _ core.EventSink = (*CSVReporter)(nil)
