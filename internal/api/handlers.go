package api

import (
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/rs/zerolog/log"

	"github.com/wiblue/wiblue/internal/auth"
	"github.com/wiblue/wiblue/internal/models"
	"github.com/wiblue/wiblue/internal/storage"
)

// ========== Health ==========

// HandleHealth reports server liveness
func (s *RESTServer) HandleHealth(w http.ResponseWriter, r *http.Request) {
	s.respondJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// ========== Auth handlers ==========

func (s *RESTServer) authPayload(user *models.User) (map[string]interface{}, error) {
	token, err := s.tokens.Generate(user)
	if err != nil {
		return nil, err
	}
	return map[string]interface{}{
		"token": token,
		"user": map[string]string{
			"id":       user.ID.String(),
			"username": user.Username,
			"email":    user.Email,
		},
	}, nil
}

// HandleSignup registers a new account
func (s *RESTServer) HandleSignup(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Username string `json:"username" validate:"required,min=3,max=100"`
		Email    string `json:"email" validate:"required,email"`
		Password string `json:"password" validate:"required,min=8"`
	}

	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.respondError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	if err := s.validator.Validate(req); err != nil {
		s.respondError(w, http.StatusBadRequest, err.Error())
		return
	}

	hash, err := auth.HashPassword(req.Password)
	if err != nil {
		s.respondError(w, http.StatusInternalServerError, "failed to hash password")
		return
	}

	user := &models.User{
		Username:     req.Username,
		Email:        req.Email,
		PasswordHash: hash,
		IsActive:     true,
	}

	if err := s.store.CreateUser(r.Context(), user); err != nil {
		if errors.Is(err, storage.ErrDuplicateKey) {
			s.respondError(w, http.StatusConflict, "username or email already taken")
			return
		}
		s.respondError(w, http.StatusInternalServerError, err.Error())
		return
	}

	payload, err := s.authPayload(user)
	if err != nil {
		s.respondError(w, http.StatusInternalServerError, "failed to generate token")
		return
	}

	s.respondJSON(w, http.StatusCreated, payload)
}

func (s *RESTServer) login(w http.ResponseWriter, r *http.Request, lookup func() (*models.User, error), password string) {
	user, err := lookup()
	if err != nil {
		s.respondError(w, http.StatusUnauthorized, "invalid credentials")
		return
	}

	if !auth.VerifyPassword(password, user.PasswordHash) {
		s.respondError(w, http.StatusUnauthorized, "invalid credentials")
		return
	}

	if !user.IsActive {
		s.respondError(w, http.StatusForbidden, "account is disabled")
		return
	}

	now := time.Now()
	user.LastLoginAt = &now
	if err := s.store.UpdateUser(r.Context(), user); err != nil {
		log.Warn().Err(err).Msg("Failed to record login time")
	}

	payload, err := s.authPayload(user)
	if err != nil {
		s.respondError(w, http.StatusInternalServerError, "failed to generate token")
		return
	}

	s.respondJSON(w, http.StatusOK, payload)
}

// HandleLoginEmail authenticates by email
func (s *RESTServer) HandleLoginEmail(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Email    string `json:"email" validate:"required,email"`
		Password string `json:"password" validate:"required"`
	}

	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.respondError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	s.login(w, r, func() (*models.User, error) {
		return s.store.GetUserByEmail(r.Context(), req.Email)
	}, req.Password)
}

// HandleLoginUsername authenticates by username
func (s *RESTServer) HandleLoginUsername(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Username string `json:"username" validate:"required"`
		Password string `json:"password" validate:"required"`
	}

	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.respondError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	s.login(w, r, func() (*models.User, error) {
		return s.store.GetUserByUsername(r.Context(), req.Username)
	}, req.Password)
}

// HandleTestToken confirms the bearer token is valid. Reaching the handler
// means the auth middleware already accepted it.
func (s *RESTServer) HandleTestToken(w http.ResponseWriter, r *http.Request) {
	s.respondJSON(w, http.StatusOK, map[string]string{"message": "token valid"})
}

// HandleUserByToken resolves identity from a raw token in the body
func (s *RESTServer) HandleUserByToken(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Token string `json:"token" validate:"required"`
	}

	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.respondError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	claims, err := s.tokens.Validate(req.Token)
	if err != nil {
		s.respondError(w, http.StatusUnauthorized, "invalid token")
		return
	}

	user, err := s.store.GetUser(r.Context(), claims.UserID)
	if err != nil {
		s.respondError(w, http.StatusUnauthorized, "unknown user")
		return
	}

	s.respondJSON(w, http.StatusOK, map[string]interface{}{
		"message": map[string]interface{}{
			"user": map[string]string{
				"id":       user.ID.String(),
				"username": user.Username,
				"email":    user.Email,
			},
		},
	})
}

// ========== Account handlers ==========

// HandleChangeUsername updates the account's username
func (s *RESTServer) HandleChangeUsername(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Username string `json:"username" validate:"required,min=3,max=100"`
	}

	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.respondError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	if err := s.validator.Validate(req); err != nil {
		s.respondError(w, http.StatusBadRequest, err.Error())
		return
	}

	claims := claimsFrom(r)
	user, err := s.store.GetUser(r.Context(), claims.UserID)
	if err != nil {
		s.respondError(w, http.StatusUnauthorized, "unknown user")
		return
	}

	user.Username = req.Username
	if err := s.store.UpdateUser(r.Context(), user); err != nil {
		if errors.Is(err, storage.ErrDuplicateKey) {
			s.respondError(w, http.StatusConflict, "username already taken")
			return
		}
		s.respondError(w, http.StatusInternalServerError, err.Error())
		return
	}

	s.respondJSON(w, http.StatusOK, map[string]string{"message": "username changed"})
}

// HandleChangePassword updates the account's password
func (s *RESTServer) HandleChangePassword(w http.ResponseWriter, r *http.Request) {
	var req struct {
		OldPassword string `json:"old_password" validate:"required"`
		NewPassword string `json:"new_password" validate:"required,min=8"`
	}

	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.respondError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	if err := s.validator.Validate(req); err != nil {
		s.respondError(w, http.StatusBadRequest, err.Error())
		return
	}

	claims := claimsFrom(r)
	user, err := s.store.GetUser(r.Context(), claims.UserID)
	if err != nil {
		s.respondError(w, http.StatusUnauthorized, "unknown user")
		return
	}

	if !auth.VerifyPassword(req.OldPassword, user.PasswordHash) {
		s.respondError(w, http.StatusUnauthorized, "invalid credentials")
		return
	}

	hash, err := auth.HashPassword(req.NewPassword)
	if err != nil {
		s.respondError(w, http.StatusInternalServerError, "failed to hash password")
		return
	}

	user.PasswordHash = hash
	if err := s.store.UpdateUser(r.Context(), user); err != nil {
		s.respondError(w, http.StatusInternalServerError, err.Error())
		return
	}

	s.respondJSON(w, http.StatusOK, map[string]string{"message": "password changed"})
}

// ========== Stats handlers ==========

// HandleAddStats records one usage sample
func (s *RESTServer) HandleAddStats(w http.ResponseWriter, r *http.Request) {
	var req struct {
		UserID  string `json:"user_id" validate:"required"`
		SSID    string `json:"ssid" validate:"required"`
		RxBytes uint64 `json:"rx_bytes"`
		TxBytes uint64 `json:"tx_bytes"`
	}

	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.respondError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	if err := s.validator.Validate(req); err != nil {
		s.respondError(w, http.StatusBadRequest, err.Error())
		return
	}

	userID, err := uuid.Parse(req.UserID)
	if err != nil {
		s.respondError(w, http.StatusBadRequest, "invalid user id")
		return
	}

	claims := claimsFrom(r)
	if claims.UserID != userID {
		s.respondError(w, http.StatusForbidden, "user id does not match token")
		return
	}

	stat := &models.NetworkStat{
		UserID:  userID,
		SSID:    req.SSID,
		RxBytes: req.RxBytes,
		TxBytes: req.TxBytes,
	}

	if err := s.store.AddNetworkStat(r.Context(), stat); err != nil {
		s.respondError(w, http.StatusInternalServerError, err.Error())
		return
	}

	s.respondJSON(w, http.StatusCreated, map[string]string{"message": "stat recorded"})
}

// HandleGetStats returns aggregated usage rows for a user
func (s *RESTServer) HandleGetStats(w http.ResponseWriter, r *http.Request) {
	userID, err := uuid.Parse(chi.URLParam(r, "user_id"))
	if err != nil {
		s.respondError(w, http.StatusBadRequest, "invalid user id")
		return
	}

	claims := claimsFrom(r)
	if claims.UserID != userID {
		s.respondError(w, http.StatusForbidden, "user id does not match token")
		return
	}

	rows, err := s.store.GetAggregatedStats(r.Context(), userID)
	if err != nil {
		s.respondError(w, http.StatusInternalServerError, err.Error())
		return
	}

	if rows == nil {
		rows = []models.AggregatedStat{}
	}
	s.respondJSON(w, http.StatusOK, rows)
}

// ========== Seen network handlers ==========

// HandleAddSeenNetworks stores networks the client has observed
func (s *RESTServer) HandleAddSeenNetworks(w http.ResponseWriter, r *http.Request) {
	var req struct {
		UserID   string               `json:"user_id" validate:"required"`
		Networks []models.SeenNetwork `json:"networks"`
	}

	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.respondError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	userID, err := uuid.Parse(req.UserID)
	if err != nil {
		s.respondError(w, http.StatusBadRequest, "invalid user id")
		return
	}

	claims := claimsFrom(r)
	if claims.UserID != userID {
		s.respondError(w, http.StatusForbidden, "user id does not match token")
		return
	}

	if err := s.store.AddSeenNetworks(r.Context(), userID, req.Networks); err != nil {
		s.respondError(w, http.StatusInternalServerError, err.Error())
		return
	}

	s.respondJSON(w, http.StatusOK, map[string]string{"message": "networks recorded"})
}
