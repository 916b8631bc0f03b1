package resolver

import (
	"errors"
	"io"
	"strings"

	"github.com/project-chip/connectedhomeip-sub057/pkg/discovery"
	"github.com/project-chip/connectedhomeip-sub057/pkg/log"
	"github.com/project-chip/connectedhomeip-sub057/pkg/record"
	"github.com/project-chip/connectedhomeip-sub057/pkg/transport"
	"golang.org/x/net/dns/dnsmessage"
)

// candidate is the SRV record a datagram is reported for.
type candidate struct {
	kind     discovery.Kind
	owner    string // full SRV owner name
	instance string
	peer     discovery.PeerID
	target   string
	port     uint16
}

// ptrInstance is an instance named by a PTR record.
type ptrInstance struct {
	kind     discovery.Kind
	name     string // full instance name
	instance string
}

// reporter reports one datagram. It reads the records twice: the first pass
// picks the SRV record of interest, the second collects its TXT and address
// records.
type reporter struct {
	r        *Resolver
	datagram transport.Datagram

	cand *candidate

	// Lowercased owner names of SRV records seen in the datagram
	srvOwners map[string]bool
	ptrs      []ptrInstance

	addrs  discovery.AddressList
	common discovery.CommonResolutionData
	node   discovery.DiscoveredNode
	txt    map[string]string
}

func newReporter(r *Resolver, d transport.Datagram) *reporter {
	return &reporter{
		r:         r,
		datagram:  d,
		srvOwners: make(map[string]bool),
	}
}

func (p *reporter) report() {
	rd, err := record.NewReader(p.datagram.Data)
	if err != nil {
		p.malformed(err)
		return
	}
	h := rd.Header()
	if !h.Response {
		return
	}
	if h.Truncated {
		p.r.debugLog("resolver: truncated response", "source", p.datagram.Source)
	}

	p.scanServices(rd)
	if p.cand != nil {
		if rd, err = record.NewReader(p.datagram.Data); err == nil {
			p.collect(rd)
		}
		p.complete()
	}
	p.followUp()
}

// scanServices is the first pass over SRV and PTR records.
func (p *reporter) scanServices(rd *record.Reader) {
	for {
		rec, err := rd.Next()
		if errors.Is(err, io.EOF) {
			return
		}
		if err != nil {
			p.malformed(err)
			return
		}

		switch rec.Type {
		case dnsmessage.TypeSRV:
			p.onSRV(rd, rec)
		case dnsmessage.TypePTR:
			p.onPTR(rd, rec)
		}
	}
}

func (p *reporter) onSRV(rd *record.Reader, rec record.Record) {
	instance, kind, ok := discovery.SplitServiceName(rec.Name)
	if !ok {
		return
	}
	p.srvOwners[strings.ToLower(rec.Name)] = true
	if p.cand != nil {
		return
	}

	c := candidate{kind: kind, owner: rec.Name, instance: instance}
	switch kind {
	case discovery.KindOperational:
		peer, err := discovery.ParseInstanceName(instance)
		if err != nil {
			return
		}
		if !p.r.scheduler.HasResolve(peer) && !p.r.browsing[kind] {
			return
		}
		c.peer = peer
	default:
		if !p.r.browsing[kind] {
			return
		}
	}

	srv, err := rd.SRV()
	if err != nil {
		p.badRecord(rec, err)
		return
	}
	c.target = srv.Target
	c.port = srv.Port
	p.cand = &c
}

func (p *reporter) onPTR(rd *record.Reader, rec record.Record) {
	kind, ok := ptrKind(rec.Name)
	if !ok || !p.r.browsing[kind] {
		return
	}
	target, err := rd.PTR()
	if err != nil {
		p.badRecord(rec, err)
		return
	}
	instance, k, ok := discovery.SplitServiceName(target)
	if !ok || k != kind {
		return
	}
	p.ptrs = append(p.ptrs, ptrInstance{kind: kind, name: target, instance: instance})
}

// ptrKind maps a browsed service name, optionally with a subtype, to its kind.
func ptrKind(name string) (discovery.Kind, bool) {
	name = strings.ToLower(name)
	for _, k := range []discovery.Kind{discovery.KindOperational, discovery.KindCommissionableNode, discovery.KindCommissionerNode} {
		service := discovery.ServiceName(k)
		if name == service || strings.HasSuffix(name, "."+discovery.SubtypeLabel+"."+service) {
			return k, true
		}
	}
	return 0, false
}

// collect is the second pass over the candidate's TXT and address records.
func (p *reporter) collect(rd *record.Reader) {
	for {
		rec, err := rd.Next()
		if errors.Is(err, io.EOF) {
			return
		}
		if err != nil {
			p.malformed(err)
			return
		}

		switch rec.Type {
		case dnsmessage.TypeTXT:
			if strings.EqualFold(rec.Name, p.cand.owner) {
				p.onTXT(rd, rec)
			}
		case dnsmessage.TypeA:
			if strings.EqualFold(rec.Name, p.cand.target) {
				ip, err := rd.A()
				if err != nil {
					p.badRecord(rec, err)
					continue
				}
				p.addrs.Add(discovery.Address{Interface: p.datagram.Interface, IP: ip})
			}
		case dnsmessage.TypeAAAA:
			if strings.EqualFold(rec.Name, p.cand.target) {
				ip, err := rd.AAAA()
				if err != nil {
					p.badRecord(rec, err)
					continue
				}
				p.addrs.Add(discovery.Address{Interface: p.datagram.Interface, IP: ip})
			}
		}
	}
}

func (p *reporter) onTXT(rd *record.Reader, rec record.Record) {
	if p.txt == nil {
		p.txt = make(map[string]string)
	}
	err := rd.TXT(func(key, value string) {
		p.txt[key] = value
		var err error
		if p.cand.kind == discovery.KindOperational {
			err = discovery.FillCommonTXT(key, value, &p.common)
		} else {
			err = discovery.FillDiscoveredTXT(key, value, &p.node)
		}
		if err != nil {
			p.r.debugLog("resolver: ignoring TXT entry", "instance", p.cand.instance, "error", err)
		}
	})
	if err != nil {
		p.badRecord(rec, err)
	}
}

// complete delivers the candidate if the datagram carried enough of it.
func (p *reporter) complete() {
	c := p.cand
	p.addrs.Sort()

	// TXT fillers wrote into the result of the candidate's kind.
	common := &p.common
	if c.kind != discovery.KindOperational {
		common = &p.node.CommonResolutionData
	}
	common.Port = c.port
	common.Interface = p.datagram.Interface
	common.Addresses = p.addrs
	if host := hostName(c.target); len(host) <= discovery.MaxHostNameLen {
		common.HostName = host
	}

	if c.kind == discovery.KindOperational {
		p.completeOperational()
		p.node.CommonResolutionData = p.common
	}
	p.completeBrowse()
}

func (p *reporter) completeOperational() {
	node := discovery.ResolvedOperationalNode{
		Peer:                 p.cand.peer,
		CommonResolutionData: p.common,
	}
	if !node.IsValid() {
		return
	}
	if !p.r.scheduler.CompleteResolve(node.Peer) {
		// Late or duplicate answer, or a node only browsed for.
		return
	}

	p.r.debugLog("resolver: resolved", "peer", node.Peer, "port", node.Port, "addresses", node.Addresses.Len())
	p.logResult(node.Peer.InstanceName(), discovery.KindOperational, node.CommonResolutionData)
	p.r.notifyResolved(node)
}

func (p *reporter) completeBrowse() {
	c := p.cand
	node := p.node
	node.Kind = c.kind
	node.InstanceName = c.instance
	if len(node.InstanceName) > discovery.MaxInstanceNameLen || !node.IsValid() {
		return
	}

	p.r.scheduler.CompleteBrowse(c.kind, func(f discovery.Filter) bool {
		return f.Matches(&node)
	})
	if !p.r.browsing[c.kind] {
		return
	}

	p.r.debugLog("resolver: discovered", "kind", node.Kind, "instance", node.InstanceName, "addresses", node.Addresses.Len())
	p.logResult(node.InstanceName, node.Kind, node.CommonResolutionData)
	p.r.notifyDiscovered(node)
}

// followUp queries instances named by PTR records whose SRV record was not
// in the datagram.
func (p *reporter) followUp() {
	for _, ptr := range p.ptrs {
		if p.srvOwners[strings.ToLower(ptr.name)] {
			continue
		}
		filter := discovery.InstanceNameFilter(ptr.instance)
		if p.r.scheduler.HasBrowse(ptr.kind, filter) {
			continue
		}
		if err := p.r.scheduler.MarkPendingBrowse(ptr.kind, filter); err != nil {
			p.r.debugLog("resolver: follow-up query dropped", "instance", ptr.instance, "error", err)
			continue
		}
		p.r.debugLog("resolver: follow-up query", "kind", ptr.kind, "instance", ptr.instance)
	}
}

func (p *reporter) logResult(instance string, kind discovery.Kind, data discovery.CommonResolutionData) {
	addrs := make([]string, 0, data.Addresses.Len())
	for _, a := range data.Addresses.All() {
		addrs = append(addrs, a.String())
	}
	p.r.logEvent(log.Event{
		Direction:  log.DirectionIn,
		Layer:      log.LayerResolver,
		Category:   log.CategoryResult,
		RemoteAddr: p.datagram.Source.String(),
		Interface:  p.datagram.Interface,
		Instance:   instance,
		Result: &log.ResultEvent{
			Kind:      kind.String(),
			HostName:  data.HostName,
			Port:      data.Port,
			Addresses: addrs,
			TXT:       p.txt,
		},
	})
}

func (p *reporter) malformed(err error) {
	p.r.debugLog("resolver: malformed datagram", "source", p.datagram.Source, "error", err)
	p.r.logError(log.LayerRecord, err, "datagram from "+p.datagram.Source.String())
}

func (p *reporter) badRecord(rec record.Record, err error) {
	p.r.debugLog("resolver: skipping record", "name", rec.Name, "type", rec.Type, "error", err)
}

// hostName strips the domain from an SRV target.
func hostName(target string) string {
	target = record.TrimDot(target)
	if len(target) > len(discovery.Domain)+1 && strings.EqualFold(target[len(target)-len(discovery.Domain)-1:], "."+discovery.Domain) {
		return target[:len(target)-len(discovery.Domain)-1]
	}
	return target
}
