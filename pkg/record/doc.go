// Package record walks the resource records of a received mDNS datagram and
// extracts typed values from them.
//
// Framing is parsed with golang.org/x/net/dns/dnsmessage. Compressed names
// are resolved against the whole datagram by that parser, which rejects
// pointers outside the datagram and pointer loops. On top of it the Reader
// checks each record's declared length against its type before a body is
// extracted, so a record body never spills into its neighbour.
//
// A Reader walks the answer, authority and additional sections in order:
//
//	r, err := record.NewReader(packet)
//	if err != nil {
//		return err
//	}
//	for {
//		rec, err := r.Next()
//		if err != nil {
//			break // io.EOF at the end
//		}
//		if rec.Type == dnsmessage.TypeAAAA {
//			addr, err := r.AAAA()
//			...
//		}
//	}
//
// Errors on a single record wrap ErrMalformedRecord and leave the walk
// usable; the next call to Next skips the record. Framing errors are sticky.
package record
