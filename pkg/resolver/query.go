package resolver

import (
	"fmt"

	"github.com/miekg/dns"
	"github.com/project-chip/connectedhomeip-sub057/pkg/discovery"
	"github.com/project-chip/connectedhomeip-sub057/pkg/scheduler"
)

// unicastResponseBit is the QU bit in the question class.
const unicastResponseBit = 0x8000

// ErrNameTooLong is returned when a query name exceeds DNS limits.
var ErrNameTooLong = fmt.Errorf("%w: query name too long", discovery.ErrResourceExhausted)

// question returns the name and type an attempt asks for.
func question(a scheduler.Attempt) (name string, qtype uint16) {
	switch {
	case a.Type == scheduler.TypeResolve:
		return discovery.InstanceServiceName(a.Peer.InstanceName(), discovery.KindOperational), dns.TypeSRV
	case a.Filter.Type == discovery.FilterInstanceName:
		return discovery.InstanceServiceName(a.Filter.InstanceName, a.Kind), dns.TypeANY
	case a.Filter.Subtype() != "":
		return discovery.SubtypeServiceName(a.Filter.Subtype(), a.Kind), dns.TypePTR
	default:
		return discovery.ServiceName(a.Kind), dns.TypePTR
	}
}

// buildQuery builds the query message for one send of an attempt.
func buildQuery(a scheduler.Attempt) (*dns.Msg, error) {
	name, qtype := question(a)
	fqdn := dns.Fqdn(name)
	if _, ok := dns.IsDomainName(fqdn); !ok {
		return nil, fmt.Errorf("%w: %q", ErrNameTooLong, name)
	}

	qclass := uint16(dns.ClassINET)
	if a.UnicastResponse() {
		qclass |= unicastResponseBit
	}

	m := new(dns.Msg)
	m.Question = []dns.Question{{Name: fqdn, Qtype: qtype, Qclass: qclass}}
	return m, nil
}

// packQuery builds and packs the query for an attempt.
func packQuery(a scheduler.Attempt) (*dns.Msg, []byte, error) {
	m, err := buildQuery(a)
	if err != nil {
		return nil, nil, err
	}
	packet, err := m.Pack()
	if err != nil {
		return nil, nil, fmt.Errorf("pack query: %w", err)
	}
	return m, packet, nil
}
