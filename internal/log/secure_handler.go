package log

import (
	"context"
	"io"
	"log/slog"
	"regexp"
	"strings"
)

// sensitiveKeys contains attribute keys whose values are always masked.
var sensitiveKeys = map[string]bool{
	// HTTP headers
	"authorization":       true,
	"proxy-authorization": true,
	"cookie":              true,
	"set-cookie":          true,
	"x-api-key":           true,

	// OAuth
	"token":         true,
	"access_token":  true,
	"refresh_token": true,
	"id_token":      true,
	"oauth_token":   true,
	"client_secret": true,
	"code_verifier": true,

	// Credentials
	"password":    true,
	"passwd":      true,
	"secret":      true,
	"api_key":     true,
	"apikey":      true,
	"credential":  true,
	"credentials": true,
}

// sensitiveKeywords mask any key containing them. Session IDs and
// generator seeds are logged in clear.
var sensitiveKeywords = []string{
	"password", "passwd", "secret", "token", "authorization", "credential", "cookie",
}

// sensitivePatterns match values that are masked regardless of their key.
var sensitivePatterns = []*regexp.Regexp{
	// JWT
	regexp.MustCompile(`^eyJ[A-Za-z0-9_-]*\.eyJ[A-Za-z0-9_-]*\.[A-Za-z0-9_-]*$`),

	// Authorization header values
	regexp.MustCompile(`(?i)^bearer\s+.+`),
	regexp.MustCompile(`(?i)^basic\s+[A-Za-z0-9+/=]+$`),

	// Tokens issued by the mock login
	regexp.MustCompile(`^mock_[0-9a-f]{8}-[0-9a-f]{4}-[0-9a-f]{4}-[0-9a-f]{4}-[0-9a-f]{12}$`),

	// Redis URLs carrying a password
	regexp.MustCompile(`^rediss?://[^/@]*:[^/@]+@`),
}

// MaskValue is the string used to replace sensitive values.
const MaskValue = "***REDACTED***"

// SecureHandler wraps an slog.Handler and masks sensitive attributes before
// the wrapped handler sees them.
type SecureHandler struct {
	handler slog.Handler
}

// NewSecureHandler creates a new SecureHandler wrapping the given handler.
// If handler is nil, slog.Default().Handler() is used.
func NewSecureHandler(handler slog.Handler) *SecureHandler {
	if handler == nil {
		handler = slog.Default().Handler()
	}
	return &SecureHandler{handler: handler}
}

// Enabled delegates to the wrapped handler.
func (h *SecureHandler) Enabled(ctx context.Context, level slog.Level) bool {
	return h.handler.Enabled(ctx, level)
}

// Handle masks the record's attributes and passes it on.
func (h *SecureHandler) Handle(ctx context.Context, r slog.Record) error {
	sanitized := slog.NewRecord(r.Time, r.Level, r.Message, r.PC)
	r.Attrs(func(a slog.Attr) bool {
		sanitized.AddAttrs(sanitizeAttr(a))
		return true
	})
	return h.handler.Handle(ctx, sanitized)
}

// WithAttrs returns a handler with the masked attributes added.
func (h *SecureHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	sanitized := make([]slog.Attr, len(attrs))
	for i, a := range attrs {
		sanitized[i] = sanitizeAttr(a)
	}
	return &SecureHandler{handler: h.handler.WithAttrs(sanitized)}
}

// WithGroup returns a handler with the given group name.
func (h *SecureHandler) WithGroup(name string) slog.Handler {
	return &SecureHandler{handler: h.handler.WithGroup(name)}
}

// sanitizeAttr masks a single attribute. LogValuers are resolved first so a
// value can not smuggle a token past the check, and groups are walked
// recursively.
func sanitizeAttr(a slog.Attr) slog.Attr {
	a.Value = a.Value.Resolve()

	if a.Value.Kind() == slog.KindGroup {
		attrs := a.Value.Group()
		sanitized := make([]slog.Attr, len(attrs))
		for i, groupAttr := range attrs {
			sanitized[i] = sanitizeAttr(groupAttr)
		}
		return slog.Attr{Key: a.Key, Value: slog.GroupValue(sanitized...)}
	}

	if isSensitiveKey(a.Key) {
		return slog.String(a.Key, MaskValue)
	}
	if a.Value.Kind() == slog.KindString && isSensitiveValue(a.Value.String()) {
		return slog.String(a.Key, MaskValue)
	}
	return a
}

// isSensitiveKey reports whether key names a credential.
func isSensitiveKey(key string) bool {
	key = strings.ToLower(key)
	if sensitiveKeys[key] {
		return true
	}
	for _, keyword := range sensitiveKeywords {
		if strings.Contains(key, keyword) {
			return true
		}
	}
	return false
}

// isSensitiveValue reports whether value looks like a credential.
func isSensitiveValue(value string) bool {
	for _, pattern := range sensitivePatterns {
		if pattern.MatchString(value) {
			return true
		}
	}
	return false
}

// NewSecureLogger returns a text logger writing to w that masks credentials.
// Level is Debug when verbose, Warn otherwise.
func NewSecureLogger(w io.Writer, verbose bool) *slog.Logger {
	return slog.New(NewSecureHandler(slog.NewTextHandler(w, handlerOptions(verbose))))
}

// NewSecureJSONLogger is NewSecureLogger with JSON output, used by the HTTP
// API server for log aggregation.
func NewSecureJSONLogger(w io.Writer, verbose bool) *slog.Logger {
	return slog.New(NewSecureHandler(slog.NewJSONHandler(w, handlerOptions(verbose))))
}

func handlerOptions(verbose bool) *slog.HandlerOptions {
	level := slog.LevelWarn
	if verbose {
		level = slog.LevelDebug
	}
	return &slog.HandlerOptions{Level: level}
}
