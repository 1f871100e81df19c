// Package newsletter manages newsletter subscriptions. Each subscription
// carries a random UUID token that unsubscribes it.
package newsletter
