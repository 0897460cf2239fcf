package security

import (
	"net/http"
	"net/url"
	"strings"
	"sync/atomic"

	applog "trashday/internal/log"
	"trashday/internal/metrics"
)

// Reasons a request can be flagged.
const (
	ReasonPath      = "path"
	ReasonQuery     = "query"
	ReasonUserAgent = "user_agent"
	ReasonMethod    = "method"
	ReasonLength    = "length"
)

const maxURLLength = 2048

var (
	suspiciousPatterns = []string{
		"../", "..\\", ".env", "wp-admin", "phpmyadmin",
		"admin.php", "config.php", ".git", ".ssh",
		"eval(", "javascript:", "<script", "union select",
		"etc/passwd", "cmd.exe",
	}

	suspiciousAgents = []string{
		"sqlmap", "nmap", "nikto", "gobuster", "dirb", "masscan",
	}

	unusualMethods = []string{"TRACE", "TRACK", "DEBUG", "CONNECT"}
)

// DetectionMetrics tracks security detection events
type DetectionMetrics struct {
	SuspiciousRequests int64
}

// Detector flags requests that look like vulnerability scans. It only
// observes: flagged requests are logged and counted, never rejected.
type Detector struct {
	logger  *applog.Logger
	metrics *DetectionMetrics
}

// NewDetector creates a new security detector
func NewDetector(logger *applog.Logger) *Detector {
	if logger == nil {
		logger = applog.New(applog.DefaultConfig())
	}
	return &Detector{
		logger:  logger.WithComponent(applog.ComponentSecurity),
		metrics: &DetectionMetrics{},
	}
}

// Inspect returns the reason a request is suspicious, or "" when it is not.
func (d *Detector) Inspect(r *http.Request) string {
	path := strings.ToLower(r.URL.Path)
	if containsAny(path, suspiciousPatterns) {
		return ReasonPath
	}

	query := r.URL.RawQuery
	if unescaped, err := url.QueryUnescape(query); err == nil {
		query = unescaped
	}
	query = strings.ToLower(query)
	if containsAny(query, suspiciousPatterns) {
		return ReasonQuery
	}

	userAgent := strings.ToLower(r.Header.Get("User-Agent"))
	if containsAny(userAgent, suspiciousAgents) {
		return ReasonUserAgent
	}

	for _, method := range unusualMethods {
		if r.Method == method {
			return ReasonMethod
		}
	}

	if len(r.URL.String()) > maxURLLength {
		return ReasonLength
	}

	return ""
}

// Middleware logs and counts suspicious requests, then serves them normally.
func (d *Detector) Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if reason := d.Inspect(r); reason != "" {
			atomic.AddInt64(&d.metrics.SuspiciousRequests, 1)
			metrics.RecordSuspiciousRequest(reason)
			d.logger.WarnContext(r.Context(), "Suspicious request",
				"reason", reason,
				applog.FieldMethod, r.Method,
				applog.FieldPath, r.URL.Path,
				applog.FieldClientIP, r.RemoteAddr,
				applog.FieldUserAgent, r.Header.Get("User-Agent"))
		}
		next.ServeHTTP(w, r)
	})
}

// GetMetrics returns current security metrics
func (d *Detector) GetMetrics() DetectionMetrics {
	return DetectionMetrics{
		SuspiciousRequests: atomic.LoadInt64(&d.metrics.SuspiciousRequests),
	}
}

func containsAny(s string, patterns []string) bool {
	for _, p := range patterns {
		if strings.Contains(s, p) {
			return true
		}
	}
	return false
}
