package core

// Order is a resting or in-flight order. Price duplicates the price of its
// containing Level; this is deliberate (see DESIGN.md) — it lets an Order be
// inspected without reaching into its level, at the cost of one int32.
type Order struct {
	OrderID OrderID
	Qty     Qty
	Price   CentPrice
	Side    Side
}
