package clientip

import (
	"net"
	"net/http"
	"strings"
)

// Headers consulted by GetIP, in priority order. RemoteAddr is the fallback.
var Headers = []string{"CF-Connecting-IP", "X-Forwarded-For", "X-Real-IP"}

// GetIP returns the originating client address of r: the first valid IP in
// Headers (X-Forwarded-For may list several, the leftmost valid one wins),
// else the host of RemoteAddr. It returns "" when nothing parses.
func GetIP(r *http.Request) string {
	for _, h := range Headers {
		value := r.Header.Get(h)
		if value == "" {
			continue
		}
		for candidate := range strings.SplitSeq(value, ",") {
			if ip := parseIP(candidate); ip != "" {
				return ip
			}
		}
	}

	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return parseIP(r.RemoteAddr)
	}
	return parseIP(host)
}

func parseIP(s string) string {
	ip := net.ParseIP(strings.TrimSpace(s))
	if ip == nil {
		return ""
	}
	return ip.String()
}
