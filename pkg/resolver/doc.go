// Package resolver turns node identifiers and discovery filters into
// addresses using mDNS/DNS-SD.
//
// The Resolver is single-threaded: every call, received datagram and timer
// callback must run on one goroutine. Hosts that cannot guarantee that use
// a Runner, which owns the goroutine and offers blocking and channel based
// APIs on top:
//
//	udp, _ := transport.NewUDP(transport.Config{})
//	runner := resolver.NewRunner(resolver.DefaultConfig(), udp)
//	go runner.Run(ctx)
//
//	node, err := runner.Resolve(ctx, discovery.PeerID{CompressedFabricID: cfid, NodeID: 0x1234})
//
// Each received datagram is reported on its own: an operational node is
// delivered when one datagram carries its SRV record and at least one
// address of the SRV target. Commissionable nodes and commissioners are
// delivered while their kind is being browsed.
package resolver
