// Package address manages the caller's saved shipping addresses. At most one
// address per user is the default.
package address
