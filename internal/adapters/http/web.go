package web

import (
	"crypto/rand"
	"encoding/hex"
	"log"
	"net/http"
	"os"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/saren-devv/mexxus-arena-sub001/internal/adapters/blob"
	"github.com/saren-devv/mexxus-arena-sub001/internal/adapters/email"
	"github.com/saren-devv/mexxus-arena-sub001/internal/adapters/http/middleware"
	"github.com/saren-devv/mexxus-arena-sub001/internal/adapters/http/perf"
	academyStore "github.com/saren-devv/mexxus-arena-sub001/internal/adapters/storage/academy"
	accountStore "github.com/saren-devv/mexxus-arena-sub001/internal/adapters/storage/account"
	enrollmentStore "github.com/saren-devv/mexxus-arena-sub001/internal/adapters/storage/enrollment"
	eventStore "github.com/saren-devv/mexxus-arena-sub001/internal/adapters/storage/event"
	"github.com/saren-devv/mexxus-arena-sub001/internal/application/viewcache"
)

// Stores holds all storage dependencies.
type Stores struct {
	AccountStore    accountStore.Store
	AcademyStore    academyStore.Store
	EventStore      eventStore.Store
	EnrollmentStore enrollmentStore.Store
}

// Views holds the cached read models handlers serve from, plus the
// invalidator orchestrators use after writes.
type Views struct {
	Dashboard   *viewcache.DashboardManager
	Public      *viewcache.PublicManager
	Admin       *viewcache.AdminManager
	Invalidator *viewcache.Invalidator
}

// loadCSRFKey reads the CSRF secret from MEXXUS_CSRF_KEY (hex-encoded, 32 bytes).
// In production, the key MUST be set. In development, a random key is generated per startup.
func loadCSRFKey() []byte {
	if keyHex := os.Getenv("MEXXUS_CSRF_KEY"); keyHex != "" {
		key, err := hex.DecodeString(keyHex)
		if err != nil || len(key) != 32 {
			log.Fatal("MEXXUS_CSRF_KEY must be 64 hex characters (32 bytes)")
		}
		return key
	}
	if os.Getenv("MEXXUS_ENV") == "production" {
		log.Fatal("MEXXUS_CSRF_KEY is required in production")
	}
	key := make([]byte, 32)
	if _, err := rand.Read(key); err != nil {
		log.Fatalf("failed to generate CSRF key: %v", err)
	}
	log.Println("WARNING: using random CSRF key (sessions won't survive restart). Set MEXXUS_CSRF_KEY for production.")
	return key
}

// Global stores instance (set by NewMux)
var stores *Stores

// Global view managers (set by NewMux)
var views *Views

// Global session store instance
var sessions *middleware.SessionStore

// sessionMaxAge is the cookie Max-Age in seconds, derived from the session TTL.
var sessionMaxAge int

// RateLimitPerSecond controls the per-IP rate limit. Tests can increase this.
var RateLimitPerSecond = 10

// Global perf collector (set by NewMux)
var perfCollector *perf.Collector

// Global blob store for event posters (set by SetBlobStore)
var blobs blob.Store

// Global email sender instance (set by SetEmailSender)
var emailSender email.Sender

// Email configuration
var emailFromAddress string
var emailReplyTo string

// metricsHandler serves the Prometheus registry (set by SetMetricsRegistry).
var metricsHandler http.Handler

// SetEmailSender sets the global email sender for the application.
func SetEmailSender(sender email.Sender, from, replyTo string) {
	emailSender = sender
	emailFromAddress = from
	emailReplyTo = replyTo
}

// SetBlobStore sets the global blob store used for event posters.
func SetBlobStore(b blob.Store) {
	blobs = b
}

// SetMetricsRegistry exposes the given registry at /metrics.
func SetMetricsRegistry(reg *prometheus.Registry) {
	metricsHandler = promhttp.HandlerFor(reg, promhttp.HandlerOpts{})
}

// NewMux wires HTTP handlers for the app.
func NewMux(staticDir string, s *Stores, v *Views, collector *perf.Collector, sessionTTL time.Duration) http.Handler {
	stores = s
	views = v
	perfCollector = collector
	sessions = middleware.NewSessionStore(sessionTTL)
	sessionMaxAge = int(sessionTTL / time.Second)

	mux := http.NewServeMux()
	mux.Handle("/", http.FileServer(http.Dir(staticDir)))
	registerRoutes(mux)

	// CSRF key: 32-byte hex-encoded secret from env var
	csrfKey := loadCSRFKey()

	// Rate limiter: configurable requests per second per IP (OWASP A04)
	limiter := middleware.NewRateLimiter(RateLimitPerSecond, time.Second)

	// Apply middleware: Timing -> Auth -> CSRF -> SecurityHeaders -> RateLimit -> Mux
	return middleware.Chain(mux,
		middleware.SecurityHeaders,
		middleware.CSRF(csrfKey),
		middleware.Auth(sessions),
		middleware.RateLimit(limiter),
		middleware.Timing(collector),
	)
}
