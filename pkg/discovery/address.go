package discovery

import (
	"net/netip"
	"slices"
	"strconv"
)

// Address is an IP address together with the interface it was learned on.
type Address struct {
	// Interface is the index of the network interface (0 if unknown).
	Interface int

	// IP is the address.
	IP netip.Addr
}

// String returns the address, with the interface index as zone for
// link-local IPv6 addresses.
func (a Address) String() string {
	if a.IP.Is6() && a.IP.IsLinkLocalUnicast() && a.Interface != 0 && a.IP.Zone() == "" {
		return a.IP.String() + "%" + strconv.Itoa(a.Interface)
	}
	return a.IP.String()
}

// AddressList is an ordered list of at most MaxAddresses addresses.
//
// Additions beyond the bound and duplicates are dropped silently.
type AddressList struct {
	addrs []Address
}

// Add appends an address. It reports whether the address was stored.
func (l *AddressList) Add(addr Address) bool {
	if !addr.IP.IsValid() || len(l.addrs) >= MaxAddresses {
		return false
	}
	for _, a := range l.addrs {
		if a.IP == addr.IP && a.Interface == addr.Interface {
			return false
		}
	}
	l.addrs = append(l.addrs, addr)
	return true
}

// Len returns the number of stored addresses.
func (l *AddressList) Len() int {
	return len(l.addrs)
}

// All returns a copy of the stored addresses.
func (l *AddressList) All() []Address {
	return slices.Clone(l.addrs)
}

// IPs returns the stored IP addresses without interface information.
func (l *AddressList) IPs() []netip.Addr {
	ips := make([]netip.Addr, len(l.addrs))
	for i, a := range l.addrs {
		ips[i] = a.IP
	}
	return ips
}

// Sort orders the list by preference: non-link-local before link-local,
// then IPv6 before IPv4. Addresses that compare equal keep their order.
func (l *AddressList) Sort() {
	slices.SortStableFunc(l.addrs, CompareAddressPriority)
}

// CompareAddressPriority orders addresses for connection attempts.
// Negative means a is preferred over b.
func CompareAddressPriority(a, b Address) int {
	if la, lb := isLinkLocal(a.IP), isLinkLocal(b.IP); la != lb {
		if la {
			return 1
		}
		return -1
	}
	if a6, b6 := isIPv6(a.IP), isIPv6(b.IP); a6 != b6 {
		if a6 {
			return -1
		}
		return 1
	}
	return 0
}

func isLinkLocal(ip netip.Addr) bool {
	return ip.IsLinkLocalUnicast()
}

func isIPv6(ip netip.Addr) bool {
	return ip.Is6() && !ip.Is4In6()
}
