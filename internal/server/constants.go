package server

import "time"

// HTTP error messages for middleware responses
const (
	ErrMsgUnauthorized    = "Unauthorized"
	ErrMsgTooManyRequests = "Too Many Requests"
)

// Security alert message templates
const (
	SecurityAlertFailedAuth = "SECURITY ALERT: Multiple failed authentication attempts"
	SecurityAlertHighRate   = "SECURITY ALERT: Blocking high request rate"
)

// Log messages for server lifecycle and request handling
const (
	LogMsgServerStarting   = "Server starting"
	LogMsgServerStopping   = "Server stopping"
	LogMsgRequestStarted   = "Request started"
	LogMsgRequestCompleted = "Request completed"
	LogMsgRequestHeaders   = "Request headers"
	LogMsgAuthFailed       = "Authentication failed"
	LogMsgBadTrustedProxy  = "Ignoring unparseable trusted proxy"
)

// HTTP header names
const (
	HeaderAPIKey        = "X-API-Key"
	HeaderAuthorization = "Authorization"
	HeaderForwardedFor  = "X-Forwarded-For"
	HeaderRequestID     = "X-Request-ID"
	HeaderRetryAfter    = "Retry-After"
)

// Label values for metrics.HTTPRejections
const (
	RejectReasonAuth      = "auth"
	RejectReasonRateLimit = "rate_limit"
)

// Rate limiting and abuse detection
const (
	DetectorWindow       = 5 * time.Minute
	MaxRequestsPerWindow = 1000
	MaxTrackedClients    = 10000
	FailedAuthAlertAt    = 5
	HighRateLogEvery     = 100
	MaxRequestBodyBytes  = 1 << 20
	ReadHeaderTimeout    = 5 * time.Second
	WriteTimeout         = 30 * time.Second
	IdleTimeout          = 2 * time.Minute
	APIPrefix            = "/api/v1"
	RedactedValue        = "[REDACTED]"
	SwaggerPathPrefix    = "/swagger/"
)

// PublicPaths bypass API key authentication
var PublicPaths = []string{
	SwaggerPathPrefix,
	"/healthz",
	"/readyz",
	"/metrics",
	"/version",
}

// quietPaths are served without request logging
var quietPaths = []string{
	"/healthz",
	"/readyz",
	"/metrics",
}
