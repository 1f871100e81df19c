// Package review lets customers rate products. Every write recomputes the
// product's average rating and review count.
package review
