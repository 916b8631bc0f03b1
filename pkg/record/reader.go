package record

import (
	"errors"
	"fmt"
	"io"
	"net/netip"
	"strings"
	"time"

	"github.com/project-chip/connectedhomeip-sub057/pkg/discovery"
	"golang.org/x/net/dns/dnsmessage"
)

// cacheFlushBit is the mDNS cache-flush flag in a record's class field.
const cacheFlushBit = 0x8000

// Smallest SRV body: priority, weight, port and the root name.
const minSRVLength = 7

// Errors returned by the Reader.
var (
	// ErrMalformedRecord reports a record whose body does not match its
	// type or declared length.
	ErrMalformedRecord = fmt.Errorf("%w: invalid record", discovery.ErrMalformedPacket)

	// ErrTypeMismatch is returned when an extractor does not match the
	// current record's type, or no record is current.
	ErrTypeMismatch = errors.New("record type mismatch")
)

// Section identifies the message section a record came from.
type Section uint8

const (
	SectionAnswer Section = iota + 1
	SectionAuthority
	SectionAdditional
)

// String returns the section name.
func (s Section) String() string {
	switch s {
	case SectionAnswer:
		return "answer"
	case SectionAuthority:
		return "authority"
	case SectionAdditional:
		return "additional"
	default:
		return "unknown"
	}
}

// Record is the header of one resource record.
type Record struct {
	Section Section
	// Name is the owner name without the trailing dot.
	Name       string
	Type       dnsmessage.Type
	Class      dnsmessage.Class
	CacheFlush bool
	TTL        time.Duration
	// Length is the declared body length.
	Length uint16
}

// SRV is the body of an SRV record.
type SRV struct {
	Priority uint16
	Weight   uint16
	Port     uint16
	// Target is the host name without the trailing dot.
	Target string
}

// Reader walks the records of one DNS message.
type Reader struct {
	parser  dnsmessage.Parser
	header  dnsmessage.Header
	section Section
	current Record

	// pending is set while the current record's body is unread.
	pending bool
	err     error
}

// NewReader parses the message header and skips the question section.
func NewReader(packet []byte) (*Reader, error) {
	r := &Reader{section: SectionAnswer}

	h, err := r.parser.Start(packet)
	if err != nil {
		return nil, malformed(err)
	}
	r.header = h

	if err := r.parser.SkipAllQuestions(); err != nil {
		return nil, malformed(err)
	}
	return r, nil
}

// Header returns the message header.
func (r *Reader) Header() dnsmessage.Header {
	return r.header
}

// Next advances to the next record and returns its header.
// It returns io.EOF after the last record of the additional section.
func (r *Reader) Next() (Record, error) {
	if r.err != nil {
		return Record{}, r.err
	}

	if r.pending {
		r.pending = false
		if err := r.skip(); err != nil {
			r.err = malformed(err)
			return Record{}, r.err
		}
	}

	for {
		hdr, err := r.sectionHeader()
		if errors.Is(err, dnsmessage.ErrSectionDone) {
			if r.section == SectionAdditional {
				r.err = io.EOF
				return Record{}, io.EOF
			}
			r.section++
			continue
		}
		if err != nil {
			r.err = malformed(err)
			return Record{}, r.err
		}

		r.current = Record{
			Section:    r.section,
			Name:       TrimDot(hdr.Name.String()),
			Type:       hdr.Type,
			Class:      hdr.Class &^ cacheFlushBit,
			CacheFlush: hdr.Class&cacheFlushBit != 0,
			TTL:        time.Duration(hdr.TTL) * time.Second,
			Length:     hdr.Length,
		}
		r.pending = true
		return r.current, nil
	}
}

// A returns the address of the current A record.
func (r *Reader) A() (netip.Addr, error) {
	if err := r.expect(dnsmessage.TypeA); err != nil {
		return netip.Addr{}, err
	}
	if r.current.Length != 4 {
		return netip.Addr{}, r.badLength()
	}
	res, err := r.parser.AResource()
	if err != nil {
		return netip.Addr{}, malformedRecord(err)
	}
	r.pending = false
	return netip.AddrFrom4(res.A), nil
}

// AAAA returns the address of the current AAAA record.
func (r *Reader) AAAA() (netip.Addr, error) {
	if err := r.expect(dnsmessage.TypeAAAA); err != nil {
		return netip.Addr{}, err
	}
	if r.current.Length != 16 {
		return netip.Addr{}, r.badLength()
	}
	res, err := r.parser.AAAAResource()
	if err != nil {
		return netip.Addr{}, malformedRecord(err)
	}
	r.pending = false
	return netip.AddrFrom16(res.AAAA), nil
}

// SRV returns the body of the current SRV record.
func (r *Reader) SRV() (SRV, error) {
	if err := r.expect(dnsmessage.TypeSRV); err != nil {
		return SRV{}, err
	}
	if r.current.Length < minSRVLength {
		return SRV{}, r.badLength()
	}
	res, err := r.parser.SRVResource()
	if err != nil {
		return SRV{}, malformedRecord(err)
	}
	r.pending = false
	return SRV{
		Priority: res.Priority,
		Weight:   res.Weight,
		Port:     res.Port,
		Target:   TrimDot(res.Target.String()),
	}, nil
}

// PTR returns the name the current PTR record points to.
func (r *Reader) PTR() (string, error) {
	if err := r.expect(dnsmessage.TypePTR); err != nil {
		return "", err
	}
	if r.current.Length == 0 {
		return "", r.badLength()
	}
	res, err := r.parser.PTRResource()
	if err != nil {
		return "", malformedRecord(err)
	}
	r.pending = false
	return TrimDot(res.PTR.String()), nil
}

// TXT calls fn for each key/value entry of the current TXT record.
// Empty entries and entries without a key are skipped. The record is
// validated before fn is called for the first time.
func (r *Reader) TXT(fn func(key, value string)) error {
	if err := r.expect(dnsmessage.TypeTXT); err != nil {
		return err
	}
	res, err := r.parser.TXTResource()
	if err != nil {
		return malformedRecord(err)
	}
	r.pending = false

	for _, entry := range res.TXT {
		if key, value, ok := SplitTXT(entry); ok {
			fn(key, value)
		}
	}
	return nil
}

func (r *Reader) expect(t dnsmessage.Type) error {
	if !r.pending || r.current.Type != t {
		return fmt.Errorf("%w: want %s", ErrTypeMismatch, t)
	}
	return nil
}

func (r *Reader) badLength() error {
	return fmt.Errorf("%w: %s record with length %d", ErrMalformedRecord, r.current.Type, r.current.Length)
}

func (r *Reader) sectionHeader() (dnsmessage.ResourceHeader, error) {
	switch r.section {
	case SectionAnswer:
		return r.parser.AnswerHeader()
	case SectionAuthority:
		return r.parser.AuthorityHeader()
	default:
		return r.parser.AdditionalHeader()
	}
}

func (r *Reader) skip() error {
	switch r.section {
	case SectionAnswer:
		return r.parser.SkipAnswer()
	case SectionAuthority:
		return r.parser.SkipAuthority()
	default:
		return r.parser.SkipAdditional()
	}
}

func malformed(err error) error {
	return fmt.Errorf("%w: %v", discovery.ErrMalformedPacket, err)
}

func malformedRecord(err error) error {
	return fmt.Errorf("%w: %v", ErrMalformedRecord, err)
}

// SplitTXT splits a TXT entry at the first '='. An entry without '=' is a
// boolean attribute with an empty value. ok is false for an empty key.
func SplitTXT(entry string) (key, value string, ok bool) {
	key, value, _ = strings.Cut(entry, "=")
	return key, value, key != ""
}

// TrimDot removes a trailing dot from a fully qualified name.
func TrimDot(name string) string {
	return strings.TrimSuffix(name, ".")
}

// Labels splits a name into its labels. The root name has no labels.
func Labels(name string) []string {
	name = TrimDot(name)
	if name == "" {
		return nil
	}
	return strings.Split(name, ".")
}
