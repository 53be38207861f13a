package mockapi

import (
	"encoding/json"
	"net/http"
	"strconv"

	"vehicle-rental-admin/internal/domain"
	"vehicle-rental-admin/internal/normalize"

	"github.com/gorilla/mux"
)

func pathID(r *http.Request) (int64, error) {
	id, err := strconv.ParseInt(mux.Vars(r)["id"], 10, 64)
	if err != nil {
		return 0, badRequest("invalid id: %s", mux.Vars(r)["id"])
	}
	return id, nil
}

func decode(r *http.Request, v any) error {
	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		return badRequest("invalid request body: %v", err)
	}
	return nil
}

func (s *Server) handleLogin(w http.ResponseWriter, r *http.Request) {
	var body struct {
		UserID   string `json:"userId"`
		Password string `json:"password"`
	}
	if err := decode(r, &body); err != nil {
		writeError(w, err)
		return
	}
	u, err := s.backend.Authenticate(body.UserID, body.Password)
	if err != nil {
		writeError(w, err)
		return
	}
	token, err := s.tokens.GenerateToken(u.ID, u.UserID, normalize.ServerRole(u.Role))
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"token":   token,
		"user":    wireUser(u),
		"message": "Login successful",
	})
}

func (s *Server) handleValidate(w http.ResponseWriter, r *http.Request) {
	claims := claimsFrom(r.Context())
	u, err := s.backend.UserByLogin(claims.Login)
	if err != nil {
		writeJSON(w, http.StatusOK, map[string]any{"valid": false})
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"valid": true, "user": wireUser(u)})
}

func (s *Server) handleRegister(w http.ResponseWriter, r *http.Request) {
	var body struct {
		UserID   string `json:"userId"`
		Password string `json:"password"`
		Role     string `json:"role"`
	}
	if err := decode(r, &body); err != nil {
		writeError(w, err)
		return
	}
	u, err := s.backend.Register(body.UserID, body.Password, body.Role)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, wireUser(u))
}

func (s *Server) handleListUsers(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, wireUsers(s.backend.Users()))
}

func (s *Server) handleUserStats(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, s.backend.UserStats())
}

func (s *Server) handleBranchAdmins(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, wireUsers(s.backend.BranchAdmins()))
}

func (s *Server) handleUserStatus(status domain.UserStatus) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := pathID(r)
		if err != nil {
			writeError(w, err)
			return
		}
		u, err := s.backend.SetUserStatus(id, status)
		if err != nil {
			writeError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, wireUser(u))
	}
}

func (s *Server) handleUpdateProfile(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		writeError(w, err)
		return
	}
	claims := claimsFrom(r.Context())
	if claims.Role != "ADMIN" && claims.UserID != id {
		writeError(w, &Error{Status: http.StatusForbidden, Message: "Access denied"})
		return
	}
	var body domain.ProfileUpdate
	if err := decode(r, &body); err != nil {
		writeError(w, err)
		return
	}
	u, err := s.backend.UpdateProfile(id, body)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, wireUser(u))
}

func (s *Server) handleListVehicles(availableOnly bool) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, emptyIfNil(s.backend.Vehicles(availableOnly)))
	}
}

func (s *Server) handleGetVehicle(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		writeError(w, err)
		return
	}
	v, err := s.backend.Vehicle(id)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, v)
}

func (s *Server) handleCreateVehicle(w http.ResponseWriter, r *http.Request) {
	var body domain.VehicleInput
	if err := decode(r, &body); err != nil {
		writeError(w, err)
		return
	}
	v, err := s.backend.CreateVehicle(body)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, v)
}

func (s *Server) handleUpdateVehicle(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		writeError(w, err)
		return
	}
	var body domain.VehicleInput
	if err := decode(r, &body); err != nil {
		writeError(w, err)
		return
	}
	v, err := s.backend.UpdateVehicle(id, body)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, v)
}

func (s *Server) handleListRequests(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, wireRequests(s.backend.Requests()))
}

func (s *Server) handleCreateRequest(w http.ResponseWriter, r *http.Request) {
	var body domain.VehicleRequestInput
	if err := decode(r, &body); err != nil {
		writeError(w, err)
		return
	}
	req, err := s.backend.CreateRequest(body)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, wireRequest(req))
}

func (s *Server) handleApproveRequest(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		writeError(w, err)
		return
	}
	var body domain.RequestDecision
	if err := decode(r, &body); err != nil {
		writeError(w, err)
		return
	}
	req, err := s.backend.ApproveRequest(id, body)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, wireRequest(req))
}

func (s *Server) handleRejectRequest(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		writeError(w, err)
		return
	}
	var body domain.RequestDecision
	if err := decode(r, &body); err != nil {
		writeError(w, err)
		return
	}
	req, err := s.backend.RejectRequest(id, body.AdminNotes)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, wireRequest(req))
}

func (s *Server) handleListBookings(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, wireBookings(s.backend.Bookings(nil)))
}

func (s *Server) handleCustomerBookings(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, wireBookings(s.backend.Bookings(func(b domain.Booking) bool { return b.CustomerID == id })))
}

func (s *Server) handleBranchBookings(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, wireBookings(s.backend.Bookings(func(b domain.Booking) bool { return b.BranchID == id })))
}

func (s *Server) handleCreateBooking(w http.ResponseWriter, r *http.Request) {
	var body domain.BookingInput
	if err := decode(r, &body); err != nil {
		writeError(w, err)
		return
	}
	b, err := s.backend.CreateBooking(body)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, wireBooking(b))
}

func (s *Server) handleDecideBooking(status domain.BookingStatus) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := pathID(r)
		if err != nil {
			writeError(w, err)
			return
		}
		var body domain.BookingDecision
		if err := decode(r, &body); err != nil {
			writeError(w, err)
			return
		}
		b, err := s.backend.DecideBooking(id, status, body)
		if err != nil {
			writeError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, wireBooking(b))
	}
}
