package log

import (
	"time"
)

// Event is one discovery log event.
// CBOR encoding uses integer keys for compactness.
type Event struct {
	// Timestamp when the event occurred (nanosecond precision).
	Timestamp time.Time `cbor:"1,keyasint"`

	// ResolverID identifies the resolver instance (UUID).
	ResolverID string `cbor:"2,keyasint"`

	// Direction indicates datagram flow.
	Direction Direction `cbor:"3,keyasint"`

	// Layer where the event was captured.
	Layer Layer `cbor:"4,keyasint"`

	// Category classifies the event type.
	Category Category `cbor:"5,keyasint"`

	// RemoteAddr is the peer address (IP:port), if any.
	RemoteAddr string `cbor:"6,keyasint,omitempty"`

	// Interface is the network interface index, if known.
	Interface int `cbor:"7,keyasint,omitempty"`

	// Instance is the DNS-SD instance name the event is about.
	Instance string `cbor:"8,keyasint,omitempty"`

	// Type-specific payload (one of these will be set).
	Packet      *PacketEvent      `cbor:"10,keyasint,omitempty"` // Raw datagram
	Query       *QueryEvent       `cbor:"11,keyasint,omitempty"` // Question sent
	Result      *ResultEvent      `cbor:"12,keyasint,omitempty"` // Delivered node
	StateChange *StateChangeEvent `cbor:"13,keyasint,omitempty"` // Attempt or resolver state
	Error       *ErrorEventData   `cbor:"14,keyasint,omitempty"` // Errors at any layer
}

// Direction indicates the direction of datagram flow.
type Direction uint8

const (
	// DirectionIn indicates a received datagram.
	DirectionIn Direction = 0
	// DirectionOut indicates a sent datagram.
	DirectionOut Direction = 1
)

// String returns the direction name.
func (d Direction) String() string {
	switch d {
	case DirectionIn:
		return "IN"
	case DirectionOut:
		return "OUT"
	default:
		return "UNKNOWN"
	}
}

// Layer indicates which layer captured the event.
type Layer uint8

const (
	// LayerTransport is the UDP layer (raw bytes).
	LayerTransport Layer = 0
	// LayerRecord is the DNS message layer (questions and records).
	LayerRecord Layer = 1
	// LayerResolver is the scheduling and result layer.
	LayerResolver Layer = 2
)

// String returns the layer name.
func (l Layer) String() string {
	switch l {
	case LayerTransport:
		return "TRANSPORT"
	case LayerRecord:
		return "RECORD"
	case LayerResolver:
		return "RESOLVER"
	default:
		return "UNKNOWN"
	}
}

// Category classifies the event type.
type Category uint8

const (
	// CategoryMessage indicates a query or response datagram.
	CategoryMessage Category = 0
	// CategoryResult indicates a resolved or discovered node.
	CategoryResult Category = 1
	// CategoryState indicates a state change.
	CategoryState Category = 2
	// CategoryError indicates an error event.
	CategoryError Category = 3
)

// String returns the category name.
func (c Category) String() string {
	switch c {
	case CategoryMessage:
		return "MESSAGE"
	case CategoryResult:
		return "RESULT"
	case CategoryState:
		return "STATE"
	case CategoryError:
		return "ERROR"
	default:
		return "UNKNOWN"
	}
}

// MaxCapture bounds the datagram bytes kept in a PacketEvent.
const MaxCapture = 512

// PacketEvent captures a raw datagram at the transport layer.
type PacketEvent struct {
	// Size is the datagram size in bytes.
	Size int `cbor:"1,keyasint"`

	// Data is the raw datagram (truncated to MaxCapture bytes).
	Data []byte `cbor:"2,keyasint,omitempty"`

	// Truncated indicates if Data was truncated.
	Truncated bool `cbor:"3,keyasint,omitempty"`
}

// NewPacketEvent captures data, copying at most MaxCapture bytes.
func NewPacketEvent(data []byte) *PacketEvent {
	n := min(len(data), MaxCapture)
	captured := make([]byte, n)
	copy(captured, data)
	return &PacketEvent{
		Size:      len(data),
		Data:      captured,
		Truncated: n < len(data),
	}
}

// QueryEvent captures one question that was sent.
type QueryEvent struct {
	// Name is the question name.
	Name string `cbor:"1,keyasint"`

	// Type is the question type (SRV, PTR, ANY).
	Type string `cbor:"2,keyasint"`

	// Unicast is set when a unicast answer was requested.
	Unicast bool `cbor:"3,keyasint,omitempty"`

	// Retry is the retry number, 0 for the first send.
	Retry int `cbor:"4,keyasint,omitempty"`
}

// ResultEvent captures a node delivered to the delegates.
type ResultEvent struct {
	// Kind is the discovery kind (OPERATIONAL, COMMISSIONABLE, COMMISSIONER).
	Kind string `cbor:"1,keyasint"`

	// HostName is the SRV target.
	HostName string `cbor:"2,keyasint,omitempty"`

	// Port is the SRV port.
	Port uint16 `cbor:"3,keyasint"`

	// Addresses lists the delivered addresses in order.
	Addresses []string `cbor:"4,keyasint,omitempty"`

	// TXT holds the TXT entries seen for the instance.
	TXT map[string]string `cbor:"5,keyasint,omitempty"`
}

// StateChangeEvent captures resolver and attempt lifecycle events.
type StateChangeEvent struct {
	// Entity being changed.
	Entity StateEntity `cbor:"1,keyasint"`

	// OldState is the previous state (may be empty).
	OldState string `cbor:"2,keyasint,omitempty"`

	// NewState is the new state.
	NewState string `cbor:"3,keyasint"`

	// Reason for the change (if available).
	Reason string `cbor:"4,keyasint,omitempty"`
}

// StateEntity indicates what entity changed state.
type StateEntity uint8

const (
	// StateEntityResolver indicates the resolver itself (init, shutdown).
	StateEntityResolver StateEntity = 0
	// StateEntityAttempt indicates a resolve or browse attempt.
	StateEntityAttempt StateEntity = 1
	// StateEntityAdvertiser indicates an advertised service.
	StateEntityAdvertiser StateEntity = 2
)

// String returns the state entity name.
func (s StateEntity) String() string {
	switch s {
	case StateEntityResolver:
		return "RESOLVER"
	case StateEntityAttempt:
		return "ATTEMPT"
	case StateEntityAdvertiser:
		return "ADVERTISER"
	default:
		return "UNKNOWN"
	}
}

// ErrorEventData captures errors at any layer.
type ErrorEventData struct {
	// Layer where the error occurred.
	Layer Layer `cbor:"1,keyasint"`

	// Message is the error message.
	Message string `cbor:"2,keyasint"`

	// Context describes what operation was being performed.
	Context string `cbor:"3,keyasint,omitempty"`
}
