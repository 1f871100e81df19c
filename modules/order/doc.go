// Package order places and tracks shop orders.
//
// Placing an order prices each line from the product catalog and reserves
// stock; cancelling it returns the stock. Owners read their own orders,
// admins read all of them and drive the status.
package order
