// Package cart keeps one shopping cart per user and prices it from the
// product catalog on every read.
package cart
