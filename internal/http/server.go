// Package http exposes the JSON API over the in-memory stores.
package http

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"fmt"
	"net/http"
	"sync"
	"time"

	"rentbook/internal/cache"
	"rentbook/internal/log"
	"rentbook/internal/store"
)

type Server struct {
	http.Server

	expenses     *store.ExpenseStore
	transactions *store.TransactionStore
	rents        *store.RentStore
	properties   *store.PropertyStore
	hub          *store.Hub

	rateLimiter *rateLimiter
	// Dashboard aggregates are recomputed on demand and cached until
	// the next mutation.
	summaryCache *cache.LRUCache[dashboardSummary]

	logger       *log.Logger
	shutdownOnce sync.Once
}

// Stores bundles the collections the server serves.
type Stores struct {
	Expenses     *store.ExpenseStore
	Transactions *store.TransactionStore
	Rents        *store.RentStore
	Properties   *store.PropertyStore
	Hub          *store.Hub
}

// NewServer configures routes and returns a ready-to-run server.
func NewServer(addr string, stores Stores, logger *log.Logger) *Server {
	mux := http.NewServeMux()

	s := &Server{
		Server: http.Server{
			Addr:    addr,
			Handler: mux,
		},
		expenses:     stores.Expenses,
		transactions: stores.Transactions,
		rents:        stores.Rents,
		properties:   stores.Properties,
		hub:          stores.Hub,
		rateLimiter:  newRateLimiter(),
		summaryCache: cache.NewLRUCache[dashboardSummary](4, 5*time.Minute),
		logger:       logger.WithComponent(log.ComponentHTTP),
	}

	mux.HandleFunc("/healthz", handleHealth)
	mux.HandleFunc("/readyz", handleReady)

	mux.HandleFunc("/api/expenses", s.withSecurityHeaders(s.handleExpenses))
	mux.HandleFunc("/api/expenses/", s.withSecurityHeaders(s.handleExpenseByID))
	mux.HandleFunc("/api/transactions", s.withSecurityHeaders(s.handleTransactions))
	mux.HandleFunc("/api/transactions/", s.withSecurityHeaders(s.handleTransactionByID))
	mux.HandleFunc("/api/rent", s.withSecurityHeaders(s.handleRentPayments))
	mux.HandleFunc("/api/rent/", s.withSecurityHeaders(s.handleRentPaymentByID))
	mux.HandleFunc("/api/properties", s.withSecurityHeaders(s.handleProperties))
	mux.HandleFunc("/api/properties/", s.withSecurityHeaders(s.handlePropertySubtree))
	mux.HandleFunc("/api/dashboard/summary", s.withSecurityHeaders(s.handleDashboardSummary))
	mux.HandleFunc("/api/hub/tasks", s.withSecurityHeaders(s.handleHubTasks))
	mux.HandleFunc("/api/hub/tasks/", s.withSecurityHeaders(s.handleHubTaskByID))
	mux.HandleFunc("/api/hub/lists", s.withSecurityHeaders(s.handleHubLists))
	mux.HandleFunc("/api/hub/lists/", s.withSecurityHeaders(s.handleHubListSubtree))
	mux.HandleFunc("/api/hub/ideas", s.withSecurityHeaders(s.handleHubIdeas))
	mux.HandleFunc("/api/hub/ideas/", s.withSecurityHeaders(s.handleHubIdeaByID))

	return s
}

// Shutdown stops the server and its background cleanup.
func (s *Server) Shutdown(ctx context.Context) error {
	var shutdownErr error
	s.shutdownOnce.Do(func() {
		if s.rateLimiter != nil {
			s.rateLimiter.stop()
		}
		shutdownErr = s.Server.Shutdown(ctx)
	})
	return shutdownErr
}

func (s *Server) withSecurityHeaders(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()

		clientIP := r.Header.Get("X-Forwarded-For")
		if clientIP == "" {
			clientIP = r.Header.Get("X-Real-IP")
		}
		if clientIP == "" {
			clientIP = r.RemoteAddr
		}

		requestID := generateRequestID()
		ctx := context.WithValue(r.Context(), requestIDKey{}, requestID)
		r = r.WithContext(ctx)

		// Rate limit mutations only; reads are cheap.
		if isMutation(r.Method) && !s.rateLimiter.allow(clientIP) {
			s.logger.WarnContext(ctx, "rate limit exceeded",
				log.FieldClientIP, clientIP,
				log.FieldMethod, r.Method,
				log.FieldPath, r.URL.Path)
			w.Header().Set("Retry-After", "60")
			http.Error(w, "Rate limit exceeded. Please try again later.", http.StatusTooManyRequests)
			return
		}

		w.Header().Set("X-Content-Type-Options", "nosniff")
		w.Header().Set("X-Frame-Options", "DENY")
		w.Header().Set("Referrer-Policy", "strict-origin-when-cross-origin")

		rw := &responseWriter{ResponseWriter: w, statusCode: http.StatusOK}
		next(rw, r)

		s.logger.InfoContext(ctx, "request completed",
			log.FieldRequestID, requestID,
			log.FieldMethod, r.Method,
			log.FieldPath, r.URL.Path,
			log.FieldStatusCode, rw.statusCode,
			log.FieldDuration, time.Since(start).Milliseconds(),
			log.FieldClientIP, clientIP)
	}
}

type requestIDKey struct{}

func isMutation(method string) bool {
	switch method {
	case http.MethodPost, http.MethodPut, http.MethodPatch, http.MethodDelete:
		return true
	}
	return false
}

// responseWriter wraps http.ResponseWriter to capture the status code
type responseWriter struct {
	http.ResponseWriter
	statusCode int
}

func (rw *responseWriter) WriteHeader(code int) {
	rw.statusCode = code
	rw.ResponseWriter.WriteHeader(code)
}

func generateRequestID() string {
	bytes := make([]byte, 8)
	if _, err := rand.Read(bytes); err != nil {
		return fmt.Sprintf("req_%d", time.Now().UnixNano())
	}
	return "req_" + hex.EncodeToString(bytes)
}

func handleHealth(w http.ResponseWriter, r *http.Request) {
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte("ok"))
}

func handleReady(w http.ResponseWriter, r *http.Request) {
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte("ready"))
}

// Simple in-memory rate limiter
type rateLimiter struct {
	mu           sync.Mutex
	clients      map[string]*clientInfo
	stopCleanup  chan struct{}
	shutdownOnce sync.Once
}

type clientInfo struct {
	lastRequest time.Time
	requests    int
}

func newRateLimiter() *rateLimiter {
	rl := &rateLimiter{
		clients:     make(map[string]*clientInfo),
		stopCleanup: make(chan struct{}),
	}
	go rl.startCleanup()
	return rl
}

func (rl *rateLimiter) startCleanup() {
	ticker := time.NewTicker(5 * time.Minute)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			rl.cleanupStaleEntries()
		case <-rl.stopCleanup:
			return
		}
	}
}

// cleanupStaleEntries removes client entries older than 10 minutes
func (rl *rateLimiter) cleanupStaleEntries() {
	rl.mu.Lock()
	defer rl.mu.Unlock()

	cutoff := time.Now().Add(-10 * time.Minute)
	for ip, client := range rl.clients {
		if client.lastRequest.Before(cutoff) {
			delete(rl.clients, ip)
		}
	}
}

func (rl *rateLimiter) stop() {
	rl.shutdownOnce.Do(func() {
		if rl.stopCleanup != nil {
			close(rl.stopCleanup)
		}
	})
}

func (rl *rateLimiter) allow(clientIP string) bool {
	rl.mu.Lock()
	defer rl.mu.Unlock()

	now := time.Now()
	client, exists := rl.clients[clientIP]

	if !exists {
		rl.clients[clientIP] = &clientInfo{
			lastRequest: now,
			requests:    1,
		}
		return true
	}

	// Reset counter if more than 1 minute has passed
	if now.Sub(client.lastRequest) > time.Minute {
		client.requests = 1
		client.lastRequest = now
		return true
	}

	// Allow up to 60 requests per minute
	client.requests++
	client.lastRequest = now

	return client.requests <= 60
}
