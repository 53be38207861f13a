package mockapi

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"strings"
	"sync"
	"time"

	"vehicle-rental-admin/internal/domain"
	"vehicle-rental-admin/internal/logger"
	"vehicle-rental-admin/internal/normalize"
	"vehicle-rental-admin/internal/security"

	"github.com/gorilla/mux"
)

// Server serves a Backend over the rental API's routes.
type Server struct {
	backend *Backend
	tokens  security.TokenManager
	router  *mux.Router
	log     *slog.Logger

	mu     sync.Mutex
	hits   map[string]int
	faults map[string]*Error
	delays map[string]time.Duration
}

func NewServer(backend *Backend, tokens security.TokenManager) *Server {
	s := &Server{
		backend: backend,
		tokens:  tokens,
		router:  mux.NewRouter(),
		log:     logger.WithService("mockapi"),
		hits:    make(map[string]int),
		faults:  make(map[string]*Error),
		delays:  make(map[string]time.Duration),
	}
	s.routes()
	return s
}

// New returns a server over an empty backend signing tokens with secret.
func New(secret string) *Server {
	return NewServer(NewBackend(), security.NewTokenManager(secret, security.DefaultTokenTTL))
}

func (s *Server) Backend() *Backend {
	return s.backend
}

func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.router.ServeHTTP(w, r)
}

func (s *Server) routes() {
	r := s.router
	r.Use(s.instrument, s.authenticate)

	r.HandleFunc("/api/auth/login", s.handleLogin).Methods(http.MethodPost)
	r.HandleFunc("/api/auth/validate", s.handleValidate).Methods(http.MethodPost)

	r.HandleFunc("/api/users/register", s.handleRegister).Methods(http.MethodPost)
	r.HandleFunc("/api/users", s.handleListUsers).Methods(http.MethodGet)
	r.HandleFunc("/api/users/stats", s.handleUserStats).Methods(http.MethodGet)
	r.HandleFunc("/api/users/branch-admins", s.handleBranchAdmins).Methods(http.MethodGet)
	r.HandleFunc("/api/users/{id}/approve", s.handleUserStatus(domain.UserStatusApproved)).Methods(http.MethodPut)
	r.HandleFunc("/api/users/{id}/reject", s.handleUserStatus(domain.UserStatusRejected)).Methods(http.MethodPut)
	r.HandleFunc("/api/users/{id}/profile", s.handleUpdateProfile).Methods(http.MethodPut)

	r.HandleFunc("/api/vehicles", s.handleListVehicles(false)).Methods(http.MethodGet)
	r.HandleFunc("/api/vehicles/available", s.handleListVehicles(true)).Methods(http.MethodGet)
	r.HandleFunc("/api/vehicles/{id}", s.handleGetVehicle).Methods(http.MethodGet)
	r.HandleFunc("/api/vehicles", s.handleCreateVehicle).Methods(http.MethodPost)
	r.HandleFunc("/api/vehicles/{id}", s.handleUpdateVehicle).Methods(http.MethodPut)

	r.HandleFunc("/api/requests", s.handleListRequests).Methods(http.MethodGet)
	r.HandleFunc("/api/requests", s.handleCreateRequest).Methods(http.MethodPost)
	r.HandleFunc("/api/requests/{id}/approve", s.handleApproveRequest).Methods(http.MethodPut)
	r.HandleFunc("/api/requests/{id}/reject", s.handleRejectRequest).Methods(http.MethodPut)

	r.HandleFunc("/api/bookings", s.handleListBookings).Methods(http.MethodGet)
	r.HandleFunc("/api/bookings/customer/{id}", s.handleCustomerBookings).Methods(http.MethodGet)
	r.HandleFunc("/api/bookings/branch/{id}", s.handleBranchBookings).Methods(http.MethodGet)
	r.HandleFunc("/api/bookings", s.handleCreateBooking).Methods(http.MethodPost)
	r.HandleFunc("/api/bookings/{id}/approve", s.handleDecideBooking(domain.BookingStatusApproved)).Methods(http.MethodPut)
	r.HandleFunc("/api/bookings/{id}/reject", s.handleDecideBooking(domain.BookingStatusRejected)).Methods(http.MethodPut)
}

// routeKey is "METHOD template", the same key the security table uses.
func routeKey(r *http.Request) string {
	if route := mux.CurrentRoute(r); route != nil {
		if tmpl, err := route.GetPathTemplate(); err == nil {
			return r.Method + " " + tmpl
		}
	}
	return r.Method + " " + r.URL.Path
}

// instrument counts calls per route and applies injected faults and delays.
func (s *Server) instrument(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		key := routeKey(r)
		s.mu.Lock()
		s.hits[key]++
		fault := s.faults[key]
		delay := s.delays[key]
		s.mu.Unlock()

		s.log.Debug("Mock API request", "route", key, "request_id", r.Header.Get("X-Request-ID"))

		if delay > 0 {
			select {
			case <-time.After(delay):
			case <-r.Context().Done():
				return
			}
		}
		if fault != nil {
			writeError(w, fault)
			return
		}
		next.ServeHTTP(w, r)
	})
}

// Hits returns how many calls a route has received, e.g. Hits("GET /api/users").
func (s *Server) Hits(key string) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.hits[key]
}

// Fail makes a route answer with the given status until Heal is called.
func (s *Server) Fail(key string, status int, message string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.faults[key] = &Error{Status: status, Message: message}
}

func (s *Server) Heal(key string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.faults, key)
}

// Delay holds every call to a route for d before answering.
func (s *Server) Delay(key string, d time.Duration) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if d <= 0 {
		delete(s.delays, key)
		return
	}
	s.delays[key] = d
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		logger.Warn("Mock API response encoding failed", "error", err)
	}
}

func writeError(w http.ResponseWriter, err error) {
	e := asError(err)
	writeJSON(w, e.Status, map[string]any{"message": e.Message, "status": e.Status})
}

// serverEnum renders a canonical status the way the server spells it.
func serverEnum(s string) string {
	return strings.ToUpper(strings.ReplaceAll(s, "-", "_"))
}

func wireUser(u domain.User) domain.User {
	u.Role = domain.Role(normalize.ServerRole(u.Role))
	u.Status = domain.UserStatus(serverEnum(string(u.Status)))
	u.Profile = nil
	return u
}

func wireUsers(users []domain.User) []domain.User {
	out := make([]domain.User, 0, len(users))
	for _, u := range users {
		out = append(out, wireUser(u))
	}
	return out
}

func wireRequest(r domain.VehicleRequest) domain.VehicleRequest {
	r.Status = domain.RequestStatus(serverEnum(string(r.Status)))
	return r
}

func wireRequests(requests []domain.VehicleRequest) []domain.VehicleRequest {
	out := make([]domain.VehicleRequest, 0, len(requests))
	for _, r := range requests {
		out = append(out, wireRequest(r))
	}
	return out
}

func wireBooking(b domain.Booking) domain.Booking {
	b.Status = domain.BookingStatus(serverEnum(string(b.Status)))
	return b
}

func wireBookings(bookings []domain.Booking) []domain.Booking {
	out := make([]domain.Booking, 0, len(bookings))
	for _, b := range bookings {
		out = append(out, wireBooking(b))
	}
	return out
}

func emptyIfNil[T any](items []T) []T {
	if items == nil {
		return []T{}
	}
	return items
}
