// Package log provides slog loggers that mask credentials before they are
// written.
//
// RealReach hands out OAuth style tokens at login and accepts them in HTTP
// headers. SecureHandler wraps any slog.Handler and replaces such values:
//   - attributes whose key names a credential (token, access_token,
//     authorization, cookie, client_secret, password, ...)
//   - string values that look like one (bearer and basic auth headers,
//     JWTs, mock login tokens)
//
// # Usage
//
//	logger := log.NewSecureLogger(os.Stderr, verbose)
//	slog.SetDefault(logger)
//
//	logger.Info("login complete", "token", user.Token) // token=***REDACTED***
package log
