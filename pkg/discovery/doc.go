// Package discovery defines the data model for Matter mDNS/DNS-SD discovery
// and advertises this node's services.
//
// Matter uses three DNS-SD service types:
//
// # Operational Discovery (_matter._tcp)
//
// Commissioned nodes advertise one instance per fabric. The instance name is
// <node-id>-<compressed-fabric-id>, both as 16 uppercase hex digits (see
// PeerID). The compressed fabric ID is derived from the fabric's root public
// key with HKDF-SHA256 (see CompressedFabricID). A _I<compressed-fabric-id>
// subtype lets a commissioner browse all nodes of one fabric.
//
// # Commissionable Discovery (_matterc._udp)
//
// Nodes advertise this service while a commissioning window is open. The
// instance name is 64 random bits in hex. Subtypes _S<short>, _L<long>,
// _V<vendor>, _T<device type> and _CM allow filtered browsing.
// TXT records include: D (discriminator), VP (vendor+product), CM
// (commissioning mode), and optionally DT, DN, RI, PH, PI.
//
// # Commissioner Discovery (_matterd._udp)
//
// Commissioners advertise this service so nodes can find them.
//
// All three carry the common TXT keys SII, SAI and SAT (reliability-layer
// intervals in milliseconds), T (TCP support) and ICD.
//
// # Results
//
// Resolving a PeerID yields a ResolvedOperationalNode; browsing yields
// DiscoveredNode values. Both keep at most MaxAddresses addresses, ordered
// with non-link-local before link-local and IPv6 before IPv4.
package discovery
