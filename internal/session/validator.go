package session

import (
	"context"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/wiblue/wiblue/internal/client"
)

// Validator periodically proves the persisted token against the backend
// and drops the session when it cannot. The policy is fail-closed: a
// transport failure counts the same as an explicit rejection.
type Validator struct {
	api      *client.Client
	store    *Store
	tokens   *TokenFile
	interval time.Duration
	onLogout func(reason string)
}

// NewValidator creates a validator. onLogout may be nil; when set it is
// invoked after the session and persisted token have been cleared, so the
// caller can notify the user and redirect.
func NewValidator(api *client.Client, store *Store, tokens *TokenFile, interval time.Duration, onLogout func(reason string)) *Validator {
	if interval == 0 {
		interval = 10 * time.Minute
	}
	return &Validator{
		api:      api,
		store:    store,
		tokens:   tokens,
		interval: interval,
		onLogout: onLogout,
	}
}

// Run ticks until ctx is cancelled. Ticks while the session carries no
// identity are skipped entirely.
func (v *Validator) Run(ctx context.Context) error {
	ticker := time.NewTicker(v.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
			if !v.store.Snapshot().HasIdentity() {
				continue
			}
			v.Check(ctx)
		}
	}
}

// Check runs one validation round. Repeated checks with a valid token and
// complete identity are no-ops.
func (v *Validator) Check(ctx context.Context) {
	token, err := v.tokens.Load()
	if err != nil || token == "" {
		v.Logout("no persisted token")
		return
	}

	if err := v.api.CheckToken(ctx, token); err != nil {
		log.Warn().Err(err).Msg("Token check failed, dropping session")
		v.Logout("token rejected")
		return
	}

	snap := v.store.Snapshot()
	if snap.Authenticated() {
		return
	}

	user, err := v.api.UserByToken(ctx, token)
	if err != nil {
		log.Warn().Err(err).Msg("Identity lookup failed, dropping session")
		v.Logout("identity lookup failed")
		return
	}

	v.store.Dispatch(Action{Type: SetUsername, Value: user.Username})
	v.store.Dispatch(Action{Type: SetID, Value: user.ID})
	v.store.Dispatch(Action{Type: SetEmail, Value: user.Email})

	log.Info().Str("username", user.Username).Msg("Session identity restored from token")
}

// Logout clears the in-memory session and the persisted token, then
// notifies the caller.
func (v *Validator) Logout(reason string) {
	v.store.Reset()
	if err := v.tokens.Clear(); err != nil {
		log.Error().Err(err).Msg("Failed to clear persisted token")
	}

	log.Info().Str("reason", reason).Msg("Logged out")

	if v.onLogout != nil {
		v.onLogout(reason)
	}
}
