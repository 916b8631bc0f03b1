package transport

import "net"

// ReceiveWith runs the receive loop over read instead of a socket.
func (u *UDP) ReceiveWith(read func(buf []byte) (n, ifindex int, src net.Addr, err error), handler func(Datagram)) error {
	return u.receive("test", read, handler)
}
