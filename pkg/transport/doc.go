// Package transport provides the UDP endpoint the resolver sends queries
// from and receives answers on.
//
// UDP opens one IPv4 and one IPv6 socket, wrapped in
// golang.org/x/net/ipv4 and ipv6 packet connections so the arrival
// interface of every datagram is known. Bound to the mDNS port, it joins
// the mDNS groups on each interface and sees every multicast answer on the
// link. Bound to an ephemeral port (the default) it acts as a one-shot
// querier: responders answer such queries by unicast to the source port.
//
// # Addresses
//
//	IPv4 group: 224.0.0.251:5353
//	IPv6 group: [ff02::fb]:5353
//
// Send with an invalid unicast address sends to both groups on every
// interface.
package transport
