package session

import (
	"context"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/wiblue/wiblue/internal/client"
)

type fakeBackend struct {
	checkStatus int32
	checkCalls  int32
	lookupFails int32
	lookupCalls int32
}

func (f *fakeBackend) handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("/test_token", func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&f.checkCalls, 1)
		status := int(atomic.LoadInt32(&f.checkStatus))
		w.WriteHeader(status)
		if status == http.StatusOK {
			w.Write([]byte(`{"message":"token valid"}`))
		}
	})
	mux.HandleFunc("/user_by_token", func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&f.lookupCalls, 1)
		if atomic.LoadInt32(&f.lookupFails) == 1 {
			w.WriteHeader(http.StatusUnauthorized)
			return
		}
		w.Write([]byte(`{"message":{"user":{"id":"u1","username":"alice","email":"a@b.c"}}}`))
	})
	return mux
}

func newValidatorFixture(t *testing.T, f *fakeBackend) (*Validator, *Store, *TokenFile, *int32) {
	t.Helper()

	srv := httptest.NewServer(f.handler())
	t.Cleanup(srv.Close)

	store := NewStore()
	tokens := NewTokenFile(filepath.Join(t.TempDir(), "token"))

	var logouts int32
	v := NewValidator(client.New(srv.URL), store, tokens, 0, func(string) {
		atomic.AddInt32(&logouts, 1)
	})
	return v, store, tokens, &logouts
}

func TestCheckRejectionClearsSessionAndToken(t *testing.T) {
	f := &fakeBackend{checkStatus: http.StatusUnauthorized}
	v, store, tokens, logouts := newValidatorFixture(t, f)

	require.NoError(t, tokens.Save("stale"))
	store.Dispatch(Action{Type: SetUsername, Value: "alice"})
	store.Dispatch(Action{Type: SetID, Value: "u1"})
	store.Dispatch(Action{Type: SetEmail, Value: "a@b.c"})
	store.Dispatch(Action{Type: SetToken, Value: "stale"})

	v.Check(context.Background())

	assert.Equal(t, Session{Theme: ThemeLight}, store.Snapshot())
	token, err := tokens.Load()
	require.NoError(t, err)
	assert.Empty(t, token)
	assert.Equal(t, int32(1), atomic.LoadInt32(logouts))
}

func TestCheckValidCompleteIdentitySkipsLookup(t *testing.T) {
	f := &fakeBackend{checkStatus: http.StatusOK}
	v, store, tokens, logouts := newValidatorFixture(t, f)

	require.NoError(t, tokens.Save("good"))
	store.Dispatch(Action{Type: SetUsername, Value: "alice"})
	store.Dispatch(Action{Type: SetID, Value: "u1"})
	store.Dispatch(Action{Type: SetEmail, Value: "a@b.c"})

	before := store.Snapshot()
	v.Check(context.Background())
	v.Check(context.Background())

	assert.Equal(t, int32(0), atomic.LoadInt32(&f.lookupCalls), "no identity lookup when already complete")
	assert.Equal(t, before, store.Snapshot(), "repeated checks are no-ops")
	assert.Equal(t, int32(0), atomic.LoadInt32(logouts))
}

func TestCheckValidIncompleteIdentityPopulates(t *testing.T) {
	f := &fakeBackend{checkStatus: http.StatusOK}
	v, store, tokens, _ := newValidatorFixture(t, f)

	require.NoError(t, tokens.Save("good"))
	store.Dispatch(Action{Type: SetUsername, Value: "alice"})

	v.Check(context.Background())

	snap := store.Snapshot()
	assert.Equal(t, "alice", snap.Username)
	assert.Equal(t, "u1", snap.UserID)
	assert.Equal(t, "a@b.c", snap.Email)
	assert.True(t, snap.Authenticated())
}

func TestCheckLookupFailureLogsOut(t *testing.T) {
	f := &fakeBackend{checkStatus: http.StatusOK, lookupFails: 1}
	v, store, tokens, logouts := newValidatorFixture(t, f)

	require.NoError(t, tokens.Save("good"))
	store.Dispatch(Action{Type: SetUsername, Value: "alice"})

	v.Check(context.Background())

	assert.Equal(t, Session{Theme: ThemeLight}, store.Snapshot())
	token, _ := tokens.Load()
	assert.Empty(t, token)
	assert.Equal(t, int32(1), atomic.LoadInt32(logouts))
}

func TestCheckTransportFailureLogsOut(t *testing.T) {
	// Fail-closed policy: an unreachable backend counts as rejection.
	store := NewStore()
	tokens := NewTokenFile(filepath.Join(t.TempDir(), "token"))
	require.NoError(t, tokens.Save("good"))
	store.Dispatch(Action{Type: SetUsername, Value: "alice"})

	var logouts int32
	v := NewValidator(client.New("http://127.0.0.1:1"), store, tokens, 0, func(string) {
		atomic.AddInt32(&logouts, 1)
	})

	v.Check(context.Background())

	assert.Equal(t, Session{Theme: ThemeLight}, store.Snapshot())
	assert.Equal(t, int32(1), atomic.LoadInt32(&logouts))
}

func TestCheckMissingPersistedTokenLogsOut(t *testing.T) {
	f := &fakeBackend{checkStatus: http.StatusOK}
	v, store, _, logouts := newValidatorFixture(t, f)

	store.Dispatch(Action{Type: SetUsername, Value: "alice"})

	v.Check(context.Background())

	assert.Equal(t, int32(0), atomic.LoadInt32(&f.checkCalls), "no backend call without a token")
	assert.Equal(t, Session{Theme: ThemeLight}, store.Snapshot())
	assert.Equal(t, int32(1), atomic.LoadInt32(logouts))
}
