package main

import (
	"fmt"
	"os"

	"github.com/jzeng/limitbook/pkg/core"
	"github.com/jzeng/limitbook/pkg/reporting"
)

func main() {
	sink := reporting.NewConsoleReporter(os.Stdout, os.Stderr)
	book := core.NewOrderBook(core.Config{Sink: sink})

	const sellOrderID, buyOrderID core.OrderID = 1, 2

	if ok := book.MatchAddNewOrder(sellOrderID, core.Sell, 10, 1000); ok {
		fmt.Printf("resting sell order %d: qty=10 price=1000\n", sellOrderID)
	}

	if ok := book.MatchAddNewOrder(buyOrderID, core.Buy, 5, 1000); ok {
		fmt.Printf("buy order %d matched against order %d\n", buyOrderID, sellOrderID)
	}

	price, orders, ok := book.Top(core.Sell)
	if ok {
		fmt.Printf("sell top: price=%d orders=%d remaining=%d\n", price, orders, book.CountOrdersAtPrice(core.Sell, price))
	}
}
