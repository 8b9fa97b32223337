// Package privacy masks viewer identifiers before they reach the logs.
package privacy

import (
	"net/netip"
)

// AnonymizeIP truncates an address to its network prefix: /24 for IPv4 and
// /48 for IPv6. IPv4-mapped IPv6 addresses are treated as IPv4.
//
// Returns "unknown" for empty input and "invalid" when ip does not parse.
func AnonymizeIP(ip string) string {
	if ip == "" || ip == "unknown" {
		return "unknown"
	}

	addr, err := netip.ParseAddr(ip)
	if err != nil {
		return "invalid"
	}
	addr = addr.Unmap()

	bits := 48
	if addr.Is4() {
		bits = 24
	}
	prefix, err := addr.WithZone("").Prefix(bits)
	if err != nil {
		return "invalid"
	}
	return prefix.Addr().String()
}
