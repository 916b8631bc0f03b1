package log

import (
	"context"
	"log/slog"
	"strings"
)

// SlogAdapter writes discovery events to an slog.Logger.
// Useful for development when you want to see events in the console.
type SlogAdapter struct {
	logger *slog.Logger
}

// NewSlogAdapter creates a new SlogAdapter that writes to the given slog.Logger.
func NewSlogAdapter(logger *slog.Logger) *SlogAdapter {
	return &SlogAdapter{logger: logger}
}

// Log writes the event to the slog logger at Debug level.
func (a *SlogAdapter) Log(event Event) {
	attrs := []slog.Attr{
		slog.String("resolver_id", event.ResolverID),
		slog.String("direction", event.Direction.String()),
		slog.String("layer", event.Layer.String()),
		slog.String("category", event.Category.String()),
	}

	if event.RemoteAddr != "" {
		attrs = append(attrs, slog.String("remote", event.RemoteAddr))
	}
	if event.Interface != 0 {
		attrs = append(attrs, slog.Int("interface", event.Interface))
	}
	if event.Instance != "" {
		attrs = append(attrs, slog.String("instance", event.Instance))
	}

	switch {
	case event.Packet != nil:
		attrs = append(attrs,
			slog.Int("size", event.Packet.Size),
			slog.Bool("truncated", event.Packet.Truncated),
		)
	case event.Query != nil:
		attrs = append(attrs,
			slog.String("qname", event.Query.Name),
			slog.String("qtype", event.Query.Type),
			slog.Bool("unicast", event.Query.Unicast),
			slog.Int("retry", event.Query.Retry),
		)
	case event.Result != nil:
		attrs = append(attrs,
			slog.String("kind", event.Result.Kind),
			slog.String("host", event.Result.HostName),
			slog.Int("port", int(event.Result.Port)),
			slog.String("addresses", strings.Join(event.Result.Addresses, ",")),
		)
	case event.StateChange != nil:
		attrs = append(attrs,
			slog.String("entity", event.StateChange.Entity.String()),
			slog.String("old_state", event.StateChange.OldState),
			slog.String("new_state", event.StateChange.NewState),
		)
		if event.StateChange.Reason != "" {
			attrs = append(attrs, slog.String("reason", event.StateChange.Reason))
		}
	case event.Error != nil:
		attrs = append(attrs,
			slog.String("error_layer", event.Error.Layer.String()),
			slog.String("error_msg", event.Error.Message),
			slog.String("error_context", event.Error.Context),
		)
	}

	a.logger.LogAttrs(context.Background(), slog.LevelDebug, "discovery", attrs...)
}

// Compile-time interface satisfaction check.
var _ Logger = (*SlogAdapter)(nil)
