package server

import (
	"sync"
	"time"

	lru "github.com/hashicorp/golang-lru/v2"
	"golang.org/x/time/rate"

	"github.com/osse101/Credence_Go/internal/logger"
)

// DetectorConfig sets the per-IP thresholds of a SuspiciousActivityDetector.
// Zero fields take the package defaults.
type DetectorConfig struct {
	MaxRequests     int
	FailedAuthAlert int
	Window          time.Duration
	MaxTrackedIPs   int
}

func (c DetectorConfig) withDefaults() DetectorConfig {
	if c.MaxRequests <= 0 {
		c.MaxRequests = DefaultMaxRequests
	}
	if c.FailedAuthAlert <= 0 {
		c.FailedAuthAlert = DefaultFailedAuthAlert
	}
	if c.Window <= 0 {
		c.Window = DefaultDetectorWindow
	}
	if c.MaxTrackedIPs <= 0 {
		c.MaxTrackedIPs = DefaultMaxTrackedIPs
	}
	return c
}

// ipWindow is one client's state. Requests draw from a token bucket sized
// MaxRequests that refills over Window. Failed logins count in a fixed
// window opened at authStart.
type ipWindow struct {
	limiter    *rate.Limiter
	requests   int
	rejected   int
	authStart  time.Time
	failedAuth int
}

// SuspiciousActivityDetector rate-limits requests and counts failed admin
// logins per client IP. The least recently seen IPs are forgotten once
// MaxTrackedIPs is reached.
type SuspiciousActivityDetector struct {
	cfg DetectorConfig
	now func() time.Time

	mu      sync.Mutex
	windows *lru.Cache[string, *ipWindow]
}

func NewSuspiciousActivityDetector(cfg DetectorConfig) *SuspiciousActivityDetector {
	cfg = cfg.withDefaults()
	// lru.New only fails for a non-positive size, which withDefaults rules out
	windows, _ := lru.New[string, *ipWindow](cfg.MaxTrackedIPs)
	return &SuspiciousActivityDetector{cfg: cfg, now: time.Now, windows: windows}
}

// window returns ip's state, creating it on first sight. Caller holds s.mu.
func (s *SuspiciousActivityDetector) window(ip string, now time.Time) *ipWindow {
	if w, ok := s.windows.Get(ip); ok {
		return w
	}
	w := &ipWindow{
		limiter:   rate.NewLimiter(rate.Every(s.cfg.Window/time.Duration(s.cfg.MaxRequests)), s.cfg.MaxRequests),
		authStart: now,
	}
	s.windows.Add(ip, w)
	return w
}

// RecordFailedAuth counts a rejected admin key and alerts once ip crosses
// the threshold
func (s *SuspiciousActivityDetector) RecordFailedAuth(ip string) {
	now := s.now()
	s.mu.Lock()
	w := s.window(ip, now)
	if now.Sub(w.authStart) > s.cfg.Window {
		w.authStart, w.failedAuth = now, 0
	}
	w.failedAuth++
	n := w.failedAuth
	s.mu.Unlock()

	if n >= s.cfg.FailedAuthAlert {
		logger.Warn(SecurityAlertFailedAuth, "ip", ip, "count", n)
	}
}

// RecordRequest counts a request and returns false when ip's bucket is empty
func (s *SuspiciousActivityDetector) RecordRequest(ip string) bool {
	now := s.now()
	s.mu.Lock()
	w := s.window(ip, now)
	w.requests++
	if w.limiter.AllowN(now, 1) {
		s.mu.Unlock()
		return true
	}
	w.rejected++
	rejected := w.rejected
	s.mu.Unlock()

	// First rejection, then every HighRateLogEvery
	if rejected == 1 || rejected%HighRateLogEvery == 0 {
		logger.Warn(SecurityAlertHighRate, "ip", ip, "rejected", rejected, "window", s.cfg.Window)
	}
	return false
}

// counts reports the requests seen from ip and its failed logins in the
// current window
func (s *SuspiciousActivityDetector) counts(ip string) (requests, failedAuth int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if w, ok := s.windows.Peek(ip); ok {
		return w.requests, w.failedAuth
	}
	return 0, 0
}
