// Command loadtest drives one in-process order book at a configurable rate
// and reports per-request latency percentiles, grounded on the teacher's
// rate-limited worker pool (reimplemented in-process since networking is
// out of scope here).
package main

import (
	"context"
	"flag"
	"fmt"
	"math/rand"
	"os"
	"os/signal"
	"sync"
	"sync/atomic"
	"time"

	"github.com/HdrHistogram/hdrhistogram-go"
	"github.com/fatih/color"
	"github.com/rs/zerolog/log"
	"golang.org/x/time/rate"

	"github.com/jzeng/limitbook/pkg/core"
	"github.com/jzeng/limitbook/pkg/reporting"
)

func main() {
	numWorkers := flag.Int("workers", 100, "concurrent workers submitting orders")
	ordersPerWorker := flag.Int("orders-per-worker", 1000, "orders each worker submits")
	ratePerSec := flag.Int("rate", 50000, "aggregate orders/sec rate limit")
	flag.Parse()

	ob := core.NewOrderBook(core.Config{
		ReserveOrders: *numWorkers * *ordersPerWorker,
		Sink:          reporting.NewCollector(),
	})

	limiter := rate.NewLimiter(rate.Limit(*ratePerSec), *ratePerSec)
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, os.Interrupt)
	go func() {
		<-sigCh
		log.Warn().Msg("interrupted, stopping load generator")
		cancel()
	}()

	hist := hdrhistogram.New(1, 10_000_000, 3)
	var nextID uint64

	// The core offers no thread safety (see core.OrderBook), so every worker
	// only generates requests; a single dispatcher goroutine is the sole
	// caller into ob, matching the single-threaded contract.
	type request struct {
		id    core.OrderID
		side  core.Side
		qty   core.Qty
		price core.CentPrice
	}
	requests := make(chan request, *numWorkers)

	var wg sync.WaitGroup
	start := time.Now()
	for w := 0; w < *numWorkers; w++ {
		wg.Add(1)
		go func(workerID int) {
			defer wg.Done()
			r := rand.New(rand.NewSource(int64(workerID) + 1))
			for i := 0; i < *ordersPerWorker; i++ {
				if err := limiter.Wait(ctx); err != nil {
					return
				}
				side := core.Buy
				if r.Float64() < 0.5 {
					side = core.Sell
				}
				requests <- request{
					id:    core.OrderID(atomic.AddUint64(&nextID, 1)),
					side:  side,
					qty:   core.Qty(1 + r.Intn(100)),
					price: core.CentPrice(10000 + r.Intn(21) - 10),
				}
			}
		}(w)
	}

	done := make(chan struct{})
	go func() {
		defer close(done)
		for req := range requests {
			reqStart := time.Now()
			ob.MatchAddNewOrder(req.id, req.side, req.qty, req.price)
			hist.RecordValue(time.Since(reqStart).Microseconds())
		}
	}()

	wg.Wait()
	close(requests)
	<-done
	duration := time.Since(start)

	total := *numWorkers * *ordersPerWorker
	throughput := float64(total) / duration.Seconds()

	bold := color.New(color.Bold)
	bold.Printf("load test complete: %d orders in %v (%.0f orders/sec)\n", total, duration, throughput)
	fmt.Printf("latency (us)  p50=%d  p90=%d  p99=%d  p99.9=%d  max=%d\n",
		hist.ValueAtQuantile(50),
		hist.ValueAtQuantile(90),
		hist.ValueAtQuantile(99),
		hist.ValueAtQuantile(99.9),
		hist.Max(),
	)
	fmt.Printf("final book: buy orders=%d sell orders=%d\n", ob.CountOrders(core.Buy), ob.CountOrders(core.Sell))
}
