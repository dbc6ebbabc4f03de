package log

import (
	"context"
	"log/slog"
	"strings"
)

// SlogAdapter mirrors protocol events into an slog.Logger. Errors are
// logged at Warn, timeouts at Info and everything else at Debug, so a
// console at the default level only shows what went wrong on the wire.
type SlogAdapter struct {
	logger *slog.Logger
}

// NewSlogAdapter creates an adapter writing to logger.
func NewSlogAdapter(logger *slog.Logger) *SlogAdapter {
	return &SlogAdapter{logger: logger}
}

func eventLevel(c Category) slog.Level {
	switch c {
	case CategoryError:
		return slog.LevelWarn
	case CategoryTimeout:
		return slog.LevelInfo
	default:
		return slog.LevelDebug
	}
}

// Log implements Logger.
func (a *SlogAdapter) Log(event Event) {
	level := eventLevel(event.Category)
	ctx := context.Background()
	if !a.logger.Enabled(ctx, level) {
		return
	}

	attrs := []slog.Attr{
		slog.String("session", event.SessionID),
		slog.Uint64("tick", uint64(event.Tick)),
	}
	if event.LocalRole != RoleUnspecified {
		attrs = append(attrs, slog.String("role", event.LocalRole.String()))
	}
	if event.EntityID != "" {
		attrs = append(attrs, slog.String("entity_id", event.EntityID))
	}
	if event.Frame != nil || event.Message != nil {
		attrs = append(attrs, slog.String("direction", event.Direction.String()))
	}
	if event.PeerMAC != "" {
		attrs = append(attrs, slog.String("peer", event.PeerMAC))
	}

	switch {
	case event.Frame != nil:
		attrs = append(attrs, slog.Int("frame_size", event.Frame.Size))
		if event.Frame.Truncated {
			attrs = append(attrs, slog.Bool("truncated", true))
		}
	case event.Message != nil:
		attrs = append(attrs, messageAttrs(event.Message)...)
	case event.StateChange != nil:
		sc := event.StateChange
		attrs = append(attrs,
			slog.String("machine", sc.Entity.String()),
			slog.String("transition", sc.OldState+" -> "+sc.NewState))
		if sc.Reason != "" {
			attrs = append(attrs, slog.String("reason", sc.Reason))
		}
	case event.Timeout != nil:
		to := event.Timeout
		attrs = append(attrs,
			slog.String("target", to.TargetID),
			slog.String("pdu", to.Name),
			slog.Uint64("seq", uint64(to.SequenceID)),
			slog.Uint64("elapsed_ms", uint64(to.ElapsedMs)))
		if to.Retried {
			attrs = append(attrs, slog.Bool("retried", true))
		}
	case event.Error != nil:
		attrs = append(attrs,
			slog.String("error", event.Error.Message),
			slog.String("context", event.Error.Context))
		if event.Error.Code != nil {
			attrs = append(attrs, slog.Int("code", *event.Error.Code))
		}
	}

	a.logger.LogAttrs(ctx, level, "avdecc "+strings.ToLower(event.Layer.String()), attrs...)
}

func messageAttrs(m *MessageEvent) []slog.Attr {
	attrs := []slog.Attr{
		slog.String("protocol", m.Protocol.String()),
		slog.String("pdu", m.Name),
		slog.Uint64("seq", uint64(m.SequenceID)),
	}
	if m.Response {
		attrs = append(attrs, slog.String("status", m.StatusName))
	}
	if m.Unsolicited {
		attrs = append(attrs, slog.Bool("unsolicited", true))
	}
	if m.Protocol == ProtocolACMP {
		if m.TalkerID != "" {
			attrs = append(attrs, slog.String("talker", m.TalkerID))
		}
		if m.ListenerID != "" {
			attrs = append(attrs, slog.String("listener", m.ListenerID))
		}
	} else if m.TargetID != "" {
		attrs = append(attrs, slog.String("target", m.TargetID))
	}
	return attrs
}

var _ Logger = (*SlogAdapter)(nil)
