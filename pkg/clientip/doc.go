// Package clientip resolves the address of the client behind reverse
// proxies: Cloudflare's CF-Connecting-IP first, then X-Forwarded-For,
// X-Real-IP and finally the TCP peer address.
//
// Only deploy behind proxies that overwrite these headers; a direct client
// can set any of them.
package clientip
