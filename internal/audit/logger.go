package audit

import (
	"net/http"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

type EventType string

const (
	EventLoginSuccess      EventType = "login_success"
	EventLoginFailure      EventType = "login_failure"
	EventLogout            EventType = "logout"
	EventSignup            EventType = "signup"
	EventInviteIssued      EventType = "invite_issued"
	EventInviteRevoked     EventType = "invite_revoked"
	EventInviteResent      EventType = "invite_resent"
	EventCodeValidated     EventType = "code_validated"
	EventCodeRejected      EventType = "code_rejected"
	EventAccessRequested   EventType = "access_requested"
	EventRateLimitExceeded EventType = "rate_limit_exceeded"
)

type Event struct {
	Type       EventType
	HostID     string
	PropertyID string
	InviteID   string
	IP         string
	UserAgent  string
	Details    map[string]interface{}
}

func Log(event Event) {
	logger := log.With().
		Str("audit", "security").
		Str("event_type", string(event.Type)).
		Time("timestamp", time.Now()).
		Logger()

	if event.HostID != "" {
		logger = logger.With().Str("host_id", event.HostID).Logger()
	}
	if event.PropertyID != "" {
		logger = logger.With().Str("property_id", event.PropertyID).Logger()
	}
	if event.InviteID != "" {
		logger = logger.With().Str("invite_id", event.InviteID).Logger()
	}
	if event.IP != "" {
		logger = logger.With().Str("ip", event.IP).Logger()
	}
	if event.UserAgent != "" {
		logger = logger.With().Str("user_agent", event.UserAgent).Logger()
	}

	logEvent := logger.Info()
	for k, v := range event.Details {
		logEvent = addField(logEvent, k, v)
	}
	logEvent.Msg("security audit event")
}

func addField(e *zerolog.Event, key string, value interface{}) *zerolog.Event {
	switch v := value.(type) {
	case string:
		return e.Str(key, v)
	case int:
		return e.Int(key, v)
	case int64:
		return e.Int64(key, v)
	case bool:
		return e.Bool(key, v)
	default:
		return e.Interface(key, v)
	}
}

func LogFromRequest(r *http.Request, event Event) {
	event.IP = getClientIP(r)
	event.UserAgent = r.UserAgent()
	Log(event)
}

func getClientIP(r *http.Request) string {
	if forwarded := r.Header.Get("X-Forwarded-For"); forwarded != "" {
		return forwarded
	}
	if realIP := r.Header.Get("X-Real-IP"); realIP != "" {
		return realIP
	}
	return r.RemoteAddr
}
