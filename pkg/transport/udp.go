package transport

import (
	"errors"
	"fmt"
	"log/slog"
	"net"
	"net/netip"
	"slices"
	"strconv"
	"sync"

	"github.com/project-chip/connectedhomeip-sub057/pkg/discovery"
	"golang.org/x/net/ipv4"
	"golang.org/x/net/ipv6"
	"golang.org/x/sync/errgroup"
)

// maxDatagramSize is the largest UDP payload read.
const maxDatagramSize = 9000

// Config configures a UDP transport.
type Config struct {
	// Interfaces names the interfaces to use.
	// Empty means every up, multicast capable, non-loopback interface.
	Interfaces []string

	// Port is the local port. Zero picks an ephemeral port;
	// discovery.MDNSPort also joins the mDNS groups.
	Port int

	// DisableIPv4 and DisableIPv6 skip one address family.
	DisableIPv4 bool
	DisableIPv6 bool

	// Logger for debug output (optional).
	Logger *slog.Logger
}

// UDP is an mDNS endpoint on IPv4 and IPv6 UDP sockets.
type UDP struct {
	config Config
	ifaces []net.Interface

	v4 *ipv4.PacketConn
	v6 *ipv6.PacketConn

	// Serializes sends, which switch the multicast interface.
	sendMu sync.Mutex

	mu        sync.Mutex
	listening bool
	closed    bool
	group     *errgroup.Group
}

// NewUDP opens the sockets. It fails only if no address family could be
// opened.
func NewUDP(config Config) (*UDP, error) {
	ifaces, err := selectInterfaces(config.Interfaces)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", discovery.ErrTransport, err)
	}

	u := &UDP{config: config, ifaces: ifaces}

	var err4, err6 error
	if config.DisableIPv4 {
		err4 = errors.New("IPv4 disabled")
	} else {
		u.v4, err4 = u.open4()
	}
	if config.DisableIPv6 {
		err6 = errors.New("IPv6 disabled")
	} else {
		u.v6, err6 = u.open6()
	}

	if u.v4 == nil && u.v6 == nil {
		return nil, fmt.Errorf("%w: no usable socket: %w", discovery.ErrTransport, errors.Join(err4, err6))
	}
	if err4 != nil {
		u.debugLog("transport: IPv4 unavailable", "error", err4)
	}
	if err6 != nil {
		u.debugLog("transport: IPv6 unavailable", "error", err6)
	}
	return u, nil
}

func (u *UDP) joinGroups() bool {
	return u.config.Port == discovery.MDNSPort
}

func (u *UDP) open4() (*ipv4.PacketConn, error) {
	c, err := net.ListenPacket("udp4", net.JoinHostPort("0.0.0.0", strconv.Itoa(u.config.Port)))
	if err != nil {
		return nil, err
	}
	p := ipv4.NewPacketConn(c)

	// Not supported everywhere; the interface is reported as 0 then.
	if err := p.SetControlMessage(ipv4.FlagInterface, true); err != nil {
		u.debugLog("transport: no IPv4 interface info", "error", err)
	}

	if u.joinGroups() {
		group := &net.UDPAddr{IP: GroupIPv4.AsSlice()}
		joined := 0
		for i := range u.ifaces {
			if err := p.JoinGroup(&u.ifaces[i], group); err != nil {
				u.debugLog("transport: join IPv4 group failed", "interface", u.ifaces[i].Name, "error", err)
				continue
			}
			joined++
		}
		if joined == 0 {
			_ = p.Close()
			return nil, errors.New("failed to join IPv4 group on any interface")
		}
	}
	return p, nil
}

func (u *UDP) open6() (*ipv6.PacketConn, error) {
	c, err := net.ListenPacket("udp6", net.JoinHostPort("::", strconv.Itoa(u.config.Port)))
	if err != nil {
		return nil, err
	}
	p := ipv6.NewPacketConn(c)

	if err := p.SetControlMessage(ipv6.FlagInterface, true); err != nil {
		u.debugLog("transport: no IPv6 interface info", "error", err)
	}

	if u.joinGroups() {
		group := &net.UDPAddr{IP: GroupIPv6.AsSlice()}
		joined := 0
		for i := range u.ifaces {
			if err := p.JoinGroup(&u.ifaces[i], group); err != nil {
				u.debugLog("transport: join IPv6 group failed", "interface", u.ifaces[i].Name, "error", err)
				continue
			}
			joined++
		}
		if joined == 0 {
			_ = p.Close()
			return nil, errors.New("failed to join IPv6 group on any interface")
		}
	}
	return p, nil
}

// LocalPort returns the bound local port.
func (u *UDP) LocalPort() int {
	var addr net.Addr
	if u.v4 != nil {
		addr = u.v4.LocalAddr()
	} else {
		addr = u.v6.LocalAddr()
	}
	return int(addrPortFromNet(addr).Port())
}

// Interfaces returns the interfaces used for multicast.
func (u *UDP) Interfaces() []net.Interface {
	return slices.Clone(u.ifaces)
}

// Listen starts the receive loops. A second call while listening is a no-op.
func (u *UDP) Listen(handler func(Datagram)) error {
	u.mu.Lock()
	defer u.mu.Unlock()

	if u.closed {
		return fmt.Errorf("%w: transport closed", discovery.ErrTransport)
	}
	if u.listening {
		return nil
	}

	u.group = new(errgroup.Group)
	if u.v4 != nil {
		u.group.Go(func() error {
			return u.receive("IPv4", u.read4, handler)
		})
	}
	if u.v6 != nil {
		u.group.Go(func() error {
			return u.receive("IPv6", u.read6, handler)
		})
	}
	u.listening = true
	return nil
}

// readFunc reads one datagram into buf and reports its length, arrival
// interface and source.
type readFunc func(buf []byte) (n, ifindex int, src net.Addr, err error)

func (u *UDP) read4(buf []byte) (int, int, net.Addr, error) {
	n, cm, src, err := u.v4.ReadFrom(buf)
	if cm == nil {
		return n, 0, src, err
	}
	return n, cm.IfIndex, src, err
}

func (u *UDP) read6(buf []byte) (int, int, net.Addr, error) {
	n, cm, src, err := u.v6.ReadFrom(buf)
	if cm == nil {
		return n, 0, src, err
	}
	return n, cm.IfIndex, src, err
}

// receive delivers datagrams until the socket is closed. Other read errors
// (ICMP unreachable, oversized datagrams) are logged and skipped.
func (u *UDP) receive(family string, read readFunc, handler func(Datagram)) error {
	buf := make([]byte, maxDatagramSize)
	for {
		n, ifindex, src, err := read(buf)
		if err != nil {
			if errors.Is(err, net.ErrClosed) || u.isClosed() {
				return nil
			}
			u.debugLog("transport: receive failed", "family", family, "error", err)
			continue
		}
		handler(Datagram{
			Data:      slices.Clone(buf[:n]),
			Source:    addrPortFromNet(src),
			Interface: ifindex,
		})
	}
}

// Send transmits packet. With a valid unicast address it goes to that
// address only; otherwise to both mDNS groups on every interface.
func (u *UDP) Send(packet []byte, port uint16, unicast netip.Addr) error {
	u.sendMu.Lock()
	defer u.sendMu.Unlock()

	if unicast.IsValid() {
		return u.sendUnicast(packet, port, unicast.Unmap())
	}
	return u.sendMulticast(packet, port)
}

func (u *UDP) sendUnicast(packet []byte, port uint16, addr netip.Addr) error {
	dst := udpAddr(addr, port)

	var err error
	switch {
	case addr.Is4() && u.v4 != nil:
		_, err = u.v4.WriteTo(packet, nil, dst)
	case addr.Is6() && u.v6 != nil:
		_, err = u.v6.WriteTo(packet, nil, dst)
	default:
		err = fmt.Errorf("no socket for %s", addr)
	}
	if err != nil {
		return fmt.Errorf("%w: send to %s: %v", discovery.ErrTransport, dst, err)
	}
	return nil
}

func (u *UDP) sendMulticast(packet []byte, port uint16) error {
	if len(u.ifaces) == 0 {
		return fmt.Errorf("%w: no multicast interface", discovery.ErrTransport)
	}

	var errs []error
	sent := 0
	for i := range u.ifaces {
		iface := &u.ifaces[i]
		if u.v4 != nil {
			err := u.v4.SetMulticastInterface(iface)
			if err == nil {
				_, err = u.v4.WriteTo(packet, nil, udpAddr(GroupIPv4, port))
			}
			if err != nil {
				errs = append(errs, fmt.Errorf("%s IPv4: %w", iface.Name, err))
			} else {
				sent++
			}
		}
		if u.v6 != nil {
			err := u.v6.SetMulticastInterface(iface)
			if err == nil {
				_, err = u.v6.WriteTo(packet, nil, udpAddr(GroupIPv6, port))
			}
			if err != nil {
				errs = append(errs, fmt.Errorf("%s IPv6: %w", iface.Name, err))
			} else {
				sent++
			}
		}
	}

	if sent == 0 {
		return fmt.Errorf("%w: multicast send failed: %w", discovery.ErrTransport, errors.Join(errs...))
	}
	for _, err := range errs {
		u.debugLog("transport: partial multicast failure", "error", err)
	}
	return nil
}

// Close stops the receive loops and closes the sockets.
func (u *UDP) Close() error {
	u.mu.Lock()
	if u.closed {
		u.mu.Unlock()
		return nil
	}
	u.closed = true
	group := u.group
	u.mu.Unlock()

	var errs []error
	if u.v4 != nil {
		errs = append(errs, u.v4.Close())
	}
	if u.v6 != nil {
		errs = append(errs, u.v6.Close())
	}
	if group != nil {
		errs = append(errs, group.Wait())
	}
	return errors.Join(errs...)
}

func (u *UDP) isClosed() bool {
	u.mu.Lock()
	defer u.mu.Unlock()
	return u.closed
}

func (u *UDP) debugLog(msg string, args ...any) {
	if u.config.Logger != nil {
		u.config.Logger.Debug(msg, args...)
	}
}

func selectInterfaces(names []string) ([]net.Interface, error) {
	if len(names) > 0 {
		ifaces := make([]net.Interface, 0, len(names))
		for _, name := range names {
			iface, err := net.InterfaceByName(name)
			if err != nil {
				return nil, fmt.Errorf("interface %q: %w", name, err)
			}
			ifaces = append(ifaces, *iface)
		}
		return ifaces, nil
	}

	all, err := net.Interfaces()
	if err != nil {
		return nil, err
	}
	return slices.DeleteFunc(all, func(iface net.Interface) bool {
		return iface.Flags&net.FlagUp == 0 ||
			iface.Flags&net.FlagMulticast == 0 ||
			iface.Flags&net.FlagLoopback != 0
	}), nil
}
