package logger

import (
	"log/slog"
	"strconv"

	"github.com/google/uuid"
)

// Group creates a slog group attribute from the provided attributes.
func Group(name string, attrs ...slog.Attr) slog.Attr {
	return slog.Attr{Key: name, Value: slog.GroupValue(attrs...)}
}

// Errors groups the non-nil errors under "errors".
// If all errors are nil, it returns an empty Attr.
func Errors(errs ...error) slog.Attr {
	as := make([]slog.Attr, 0, len(errs))
	for i, err := range errs {
		if err != nil {
			as = append(as, slog.Any(strconv.Itoa(i), err))
		}
	}
	if len(as) == 0 {
		return slog.Attr{}
	}
	return slog.Attr{Key: "errors", Value: slog.GroupValue(as...)}
}

// Error records err under "error". A nil err yields an empty Attr.
func Error(err error) slog.Attr {
	if err == nil {
		return slog.Attr{}
	}
	return slog.Any("error", err)
}

// UserID records the bound user under "user_id".
func UserID(id int64) slog.Attr {
	return slog.Int64("user_id", id)
}

// RequestID records the request identifier under "request_id".
// An empty id yields an empty Attr.
func RequestID(id string) slog.Attr {
	if id == "" {
		return slog.Attr{}
	}
	return slog.String("request_id", id)
}

// ClientIP records the resolved client address under "client_ip".
func ClientIP(ip string) slog.Attr {
	if ip == "" {
		return slog.Attr{}
	}
	return slog.String("client_ip", ip)
}

// SessionType records the session type under "session_type".
func SessionType(t string) slog.Attr {
	return slog.String("session_type", t)
}

// Lineage records the rotation-independent session id under "lineage".
// Session identifiers themselves are credentials and are never logged.
func Lineage(id uuid.UUID) slog.Attr {
	if id == uuid.Nil {
		return slog.Attr{}
	}
	return slog.String("lineage", id.String())
}

// Score records a fingerprint challenge score under "score".
func Score(score float64) slog.Attr {
	return slog.Float64("score", score)
}

// Reason records why a session was rejected under "reason".
func Reason(reason string) slog.Attr {
	return slog.String("reason", reason)
}

// Store records the session store backend under "store".
func Store(name string) slog.Attr {
	return slog.String("store", name)
}

// Duration records a duration under "duration".
func Duration(d any) slog.Attr {
	return slog.Any("duration", d)
}

// Component records the component name under "component".
func Component(name string) slog.Attr {
	return slog.String("component", name)
}

// Event records the event name under "event".
func Event(name string) slog.Attr {
	return slog.String("event", name)
}

// Fingerprints groups the recorded and current fingerprint hashes under
// "fingerprint". Empty hashes are omitted.
func Fingerprints(recorded, current string) slog.Attr {
	as := make([]slog.Attr, 0, 2)
	if recorded != "" {
		as = append(as, slog.String("recorded", recorded))
	}
	if current != "" {
		as = append(as, slog.String("current", current))
	}
	if len(as) == 0 {
		return slog.Attr{}
	}
	return Group("fingerprint", as...)
}
