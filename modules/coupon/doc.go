// Package coupon manages percentage discount codes. Orders redeem them
// through Module.Redeem.
package coupon
