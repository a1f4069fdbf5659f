package client

import (
	"context"

	"github.com/wiblue/wiblue/internal/models"
)

// Endpoint paths on the WiBlue backend.
const (
	PathSignup         = "/signup"
	PathLoginEmail     = "/login_email/"
	PathLoginUsername  = "/login_username/"
	PathCheckToken     = "/test_token"
	PathUserByToken    = "/user_by_token"
	PathChangeUsername = "/change_username"
	PathChangePassword = "/change_password"
	PathAddStats       = "/add_stats"
	PathGetStats       = "/get_stats"
	PathSeenNetworks   = "/add_seen_networks"
)

// AuthResponse is the shape returned by signup and both login endpoints.
type AuthResponse struct {
	Token string       `json:"token"`
	User  UserResponse `json:"user"`
}

// UserResponse is the identity part of an auth response.
type UserResponse struct {
	ID       string `json:"id"`
	Username string `json:"username"`
	Email    string `json:"email"`
}

// UserByTokenResponse wraps the identity lookup; the backend nests it
// under a message envelope.
type UserByTokenResponse struct {
	Message struct {
		User UserResponse `json:"user"`
	} `json:"message"`
}

// StatRequest is one recorded usage sample.
type StatRequest struct {
	UserID  string `json:"user_id"`
	SSID    string `json:"ssid"`
	RxBytes uint64 `json:"rx_bytes"`
	TxBytes uint64 `json:"tx_bytes"`
}

func tokenHeader(token string) map[string]string {
	return map[string]string{"Authorization": "Token " + token}
}

// Signup registers a new account.
func (c *Client) Signup(ctx context.Context, username, email, password string) (*AuthResponse, error) {
	body := map[string]string{"username": username, "email": email, "password": password}
	var resp AuthResponse
	if err := c.Post(ctx, PathSignup, body, nil, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

// LoginEmail authenticates with email and password.
func (c *Client) LoginEmail(ctx context.Context, email, password string) (*AuthResponse, error) {
	body := map[string]string{"email": email, "password": password}
	var resp AuthResponse
	if err := c.Post(ctx, PathLoginEmail, body, nil, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

// LoginUsername authenticates with username and password.
func (c *Client) LoginUsername(ctx context.Context, username, password string) (*AuthResponse, error) {
	body := map[string]string{"username": username, "password": password}
	var resp AuthResponse
	if err := c.Post(ctx, PathLoginUsername, body, nil, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

// CheckToken asks the backend whether token is still valid. A nil error
// means valid; any non-2xx or transport failure means it is not provable.
func (c *Client) CheckToken(ctx context.Context, token string) error {
	return c.Post(ctx, PathCheckToken, nil, tokenHeader(token), nil)
}

// UserByToken resolves the identity behind a raw token.
func (c *Client) UserByToken(ctx context.Context, token string) (*UserResponse, error) {
	var resp UserByTokenResponse
	if err := c.Post(ctx, PathUserByToken, map[string]string{"token": token}, nil, &resp); err != nil {
		return nil, err
	}
	return &resp.Message.User, nil
}

// ChangeUsername updates the account's username.
func (c *Client) ChangeUsername(ctx context.Context, token, username string) error {
	return c.Post(ctx, PathChangeUsername, map[string]string{"username": username}, tokenHeader(token), nil)
}

// ChangePassword updates the account's password.
func (c *Client) ChangePassword(ctx context.Context, token, oldPassword, newPassword string) error {
	body := map[string]string{"old_password": oldPassword, "new_password": newPassword}
	return c.Post(ctx, PathChangePassword, body, tokenHeader(token), nil)
}

// AddStats records one usage sample for the user.
func (c *Client) AddStats(ctx context.Context, token string, stat StatRequest) error {
	return c.Post(ctx, PathAddStats, stat, tokenHeader(token), nil)
}

// GetStats fetches the aggregated per-network usage rows for the user.
func (c *Client) GetStats(ctx context.Context, token, userID string) ([]models.AggregatedStat, error) {
	var rows []models.AggregatedStat
	if err := c.Get(ctx, PathGetStats+"/"+userID, tokenHeader(token), &rows); err != nil {
		return nil, err
	}
	return rows, nil
}

// AddSeenNetworks uploads networks the client has observed.
func (c *Client) AddSeenNetworks(ctx context.Context, token, userID string, networks []models.SeenNetwork) error {
	body := map[string]interface{}{"user_id": userID, "networks": networks}
	return c.Post(ctx, PathSeenNetworks, body, tokenHeader(token), nil)
}
