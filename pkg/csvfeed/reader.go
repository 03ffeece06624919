// Package csvfeed parses the §6 CSV request wire format and replays it
// against a core.OrderBook, grounded on the original engine's
// StrUtil::split + main_func line parser.
package csvfeed

import (
	"bufio"
	"io"
	"math"
	"strconv"
	"strings"

	"github.com/jzeng/limitbook/pkg/core"
)

// AddRequest is a parsed "0,orderID,side,qty,price" line.
type AddRequest struct {
	OrderID core.OrderID
	Side    core.Side
	Qty     core.Qty
	Price   core.CentPrice
}

// CancelRequest is a parsed "1,orderID" line.
type CancelRequest struct {
	OrderID core.OrderID
}

// ParseLine parses one trimmed, comma-separated request line. It returns
// either an *AddRequest or a *CancelRequest, or a non-nil error (always
// wrapping core.ErrMalformedRequest) for anything else, including blank
// lines and unknown leading tokens.
func ParseLine(line string) (any, error) {
	fields := strings.Split(strings.TrimSpace(line), ",")
	if len(fields) == 0 || fields[0] == "" {
		return nil, core.ErrMalformedRequest
	}
	for i := range fields {
		fields[i] = strings.TrimSpace(fields[i])
	}

	msgType, err := strconv.Atoi(fields[0])
	if err != nil {
		return nil, core.ErrMalformedRequest
	}

	switch msgType {
	case 0:
		if len(fields) != 5 {
			return nil, core.ErrMalformedRequest
		}
		orderID, err1 := strconv.ParseUint(fields[1], 10, 64)
		sideInt, err2 := strconv.Atoi(fields[2])
		qty, err3 := strconv.Atoi(fields[3])
		price, err4 := strconv.ParseFloat(fields[4], 64)
		if err1 != nil || err2 != nil || err3 != nil || err4 != nil || (sideInt != 0 && sideInt != 1) || qty <= 0 {
			return nil, core.ErrMalformedRequest
		}
		side := core.Buy
		if sideInt == 1 {
			side = core.Sell
		}
		return &AddRequest{
			OrderID: core.OrderID(orderID),
			Side:    side,
			Qty:     core.Qty(qty),
			Price:   core.CentPrice(math.Round(price * 100)),
		}, nil
	case 1:
		if len(fields) != 2 {
			return nil, core.ErrMalformedRequest
		}
		orderID, err := strconv.ParseUint(fields[1], 10, 64)
		if err != nil {
			return nil, core.ErrMalformedRequest
		}
		return &CancelRequest{OrderID: core.OrderID(orderID)}, nil
	default:
		return nil, core.ErrMalformedRequest
	}
}

// OnMalformed is called with the offending line for every line ParseLine
// rejects. Run never stops processing because of a malformed line.
type OnMalformed func(line string)

// Run reads one request per line from r and applies each to ob, skipping
// and reporting malformed lines via onMalformed (which may be nil).
func Run(r io.Reader, ob *core.OrderBook, onMalformed OnMalformed) {
	scanner := bufio.NewScanner(r)
	for scanner.Scan() {
		line := scanner.Text()
		if strings.TrimSpace(line) == "" {
			continue
		}
		req, err := ParseLine(line)
		if err != nil {
			if onMalformed != nil {
				onMalformed(line)
			}
			continue
		}
		switch req := req.(type) {
		case *AddRequest:
			ob.MatchAddNewOrder(req.OrderID, req.Side, req.Qty, req.Price)
		case *CancelRequest:
			ob.CancelOrder(req.OrderID)
		}
	}
}
