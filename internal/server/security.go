package server

import (
	"crypto/subtle"
	"encoding/json"
	"net"
	"net/http"
	"net/netip"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/hashicorp/golang-lru/v2/expirable"

	"github.com/osse101/playcredits/internal/logger"
	"github.com/osse101/playcredits/internal/metrics"
)

func isPublicPath(path string) bool {
	for _, p := range PublicPaths {
		if strings.HasPrefix(path, p) {
			return true
		}
	}
	return false
}

// writeJSONError matches the handler package's {"error": "..."} body shape
func writeJSONError(w http.ResponseWriter, status int, message string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(map[string]string{"error": message})
}

// ClientIP resolves the address a request came from. X-Forwarded-For is
// honored only when the direct peer is inside one of the trusted ranges.
type ClientIP struct {
	trusted []netip.Prefix
}

// NewClientIP accepts single addresses ("10.0.0.1") or CIDR ranges
// ("10.0.0.0/8"). Entries that parse as neither are logged and ignored.
func NewClientIP(trustedProxies []string) *ClientIP {
	c := &ClientIP{}
	for _, raw := range trustedProxies {
		raw = strings.TrimSpace(raw)
		if raw == "" {
			continue
		}
		if p, err := netip.ParsePrefix(raw); err == nil {
			c.trusted = append(c.trusted, p.Masked())
			continue
		}
		if a, err := netip.ParseAddr(raw); err == nil {
			c.trusted = append(c.trusted, netip.PrefixFrom(a.Unmap(), a.Unmap().BitLen()))
			continue
		}
		logger.Warn(LogMsgBadTrustedProxy, "value", raw)
	}
	return c
}

func (c *ClientIP) isTrusted(addr string) bool {
	a, err := netip.ParseAddr(addr)
	if err != nil {
		return false
	}
	a = a.Unmap()
	for _, p := range c.trusted {
		if p.Contains(a) {
			return true
		}
	}
	return false
}

// Of returns the client address of r
func (c *ClientIP) Of(r *http.Request) string {
	peer, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		peer = r.RemoteAddr
	}
	if !c.isTrusted(peer) {
		return peer
	}
	// Rightmost entry is the hop that reached the trusted proxy
	if fwd := r.Header.Get(HeaderForwardedFor); fwd != "" {
		hops := strings.Split(fwd, ",")
		if last := strings.TrimSpace(hops[len(hops)-1]); last != "" {
			return last
		}
	}
	return peer
}

// clientWindow is one client's activity in the current window
type clientWindow struct {
	start      time.Time
	requests   int
	failedAuth int
}

// AbuseGuard counts requests and failed authentications per client address in
// fixed windows of DetectorWindow. Idle clients age out of a bounded LRU.
type AbuseGuard struct {
	mu          sync.Mutex
	clients     *expirable.LRU[string, *clientWindow]
	maxRequests int
	now         func() time.Time
}

// NewAbuseGuard allows maxRequests per client per window; zero or less means
// MaxRequestsPerWindow
func NewAbuseGuard(maxRequests int) *AbuseGuard {
	if maxRequests <= 0 {
		maxRequests = MaxRequestsPerWindow
	}
	return &AbuseGuard{
		clients:     expirable.NewLRU[string, *clientWindow](MaxTrackedClients, nil, DetectorWindow),
		maxRequests: maxRequests,
		now:         time.Now,
	}
}

// window returns ip's counters, starting a fresh window when the old one
// has passed. Caller holds g.mu.
func (g *AbuseGuard) window(ip string) *clientWindow {
	now := g.now()
	cw, ok := g.clients.Get(ip)
	if !ok || now.Sub(cw.start) >= DetectorWindow {
		cw = &clientWindow{start: now}
		g.clients.Add(ip, cw)
	}
	return cw
}

// Allow counts a request and reports whether ip is within its limit. When it
// is not, retryAfter is the time left in the window.
func (g *AbuseGuard) Allow(ip string) (ok bool, retryAfter time.Duration) {
	g.mu.Lock()
	defer g.mu.Unlock()

	cw := g.window(ip)
	cw.requests++
	if cw.requests <= g.maxRequests {
		return true, 0
	}
	if (cw.requests-g.maxRequests)%HighRateLogEvery == 1 {
		logger.Warn(SecurityAlertHighRate, "ip", ip, "count_in_window", cw.requests)
	}
	return false, cw.start.Add(DetectorWindow).Sub(g.now())
}

// FailedAuth records a rejected API key from ip
func (g *AbuseGuard) FailedAuth(ip string) {
	g.mu.Lock()
	defer g.mu.Unlock()

	cw := g.window(ip)
	cw.failedAuth++
	if cw.failedAuth >= FailedAuthAlertAt {
		logger.Warn(SecurityAlertFailedAuth, "ip", ip, "count", cw.failedAuth)
	}
}

func (g *AbuseGuard) counts(ip string) (requests, failedAuth int) {
	g.mu.Lock()
	defer g.mu.Unlock()
	if cw, ok := g.clients.Peek(ip); ok {
		return cw.requests, cw.failedAuth
	}
	return 0, 0
}

// AuthMiddleware requires a matching X-API-Key on every non-public path.
// An empty configured key rejects all protected requests.
func AuthMiddleware(apiKey string, clients *ClientIP, guard *AbuseGuard) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if isPublicPath(r.URL.Path) {
				next.ServeHTTP(w, r)
				return
			}

			provided := r.Header.Get(HeaderAPIKey)
			if apiKey != "" && subtle.ConstantTimeCompare([]byte(provided), []byte(apiKey)) == 1 {
				next.ServeHTTP(w, r)
				return
			}

			ip := clients.Of(r)
			guard.FailedAuth(ip)
			metrics.HTTPRejections.WithLabelValues(RejectReasonAuth).Inc()
			logger.FromContext(r.Context()).Warn(LogMsgAuthFailed,
				"path", r.URL.Path,
				"has_key", provided != "",
				"ip", ip)
			writeJSONError(w, http.StatusUnauthorized, ErrMsgUnauthorized)
		})
	}
}

// RateLimitMiddleware answers 429 with Retry-After once a client exceeds its
// window allowance
func RateLimitMiddleware(clients *ClientIP, guard *AbuseGuard) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ok, retryAfter := guard.Allow(clients.Of(r))
			if !ok {
				secs := int((retryAfter + time.Second - 1) / time.Second)
				w.Header().Set(HeaderRetryAfter, strconv.Itoa(max(secs, 1)))
				metrics.HTTPRejections.WithLabelValues(RejectReasonRateLimit).Inc()
				writeJSONError(w, http.StatusTooManyRequests, ErrMsgTooManyRequests)
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

// RequestSizeLimitMiddleware caps request bodies at maxBytes
func RequestSizeLimitMiddleware(maxBytes int64) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			r.Body = http.MaxBytesReader(w, r.Body, maxBytes)
			next.ServeHTTP(w, r)
		})
	}
}

// securityHeaders are set on every response
var securityHeaders = map[string]string{
	"X-Content-Type-Options": "nosniff",
	"X-Frame-Options":        "DENY",
	"X-XSS-Protection":       "1; mode=block",
	"Referrer-Policy":        "strict-origin-when-cross-origin",
	"Cache-Control":          "no-store",
}

func SecurityHeadersMiddleware() func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			for k, v := range securityHeaders {
				w.Header().Set(k, v)
			}
			next.ServeHTTP(w, r)
		})
	}
}
