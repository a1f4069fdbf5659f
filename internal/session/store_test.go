package session

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/wiblue/wiblue/internal/models"
)

func TestDispatchTouchesExactlyOneField(t *testing.T) {
	cases := []struct {
		name   string
		action Action
		read   func(Session) interface{}
		want   interface{}
	}{
		{"username", Action{Type: SetUsername, Value: "alice"}, func(s Session) interface{} { return s.Username }, "alice"},
		{"id", Action{Type: SetID, Value: "u1"}, func(s Session) interface{} { return s.UserID }, "u1"},
		{"email", Action{Type: SetEmail, Value: "a@b.c"}, func(s Session) interface{} { return s.Email }, "a@b.c"},
		{"token", Action{Type: SetToken, Value: "t1"}, func(s Session) interface{} { return s.Token }, "t1"},
		{"interface", Action{Type: SetInterface, Value: "wlan0"}, func(s Session) interface{} { return s.Interface }, "wlan0"},
		{"theme", Action{Type: SetTheme, Theme: ThemeDark}, func(s Session) interface{} { return s.Theme }, ThemeDark},
		{"statsNetwork", Action{Type: SetStatsNetwork, Value: "home"}, func(s Session) interface{} { return s.StatsNetwork }, "home"},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			store := NewStore()
			before := store.Snapshot()

			store.Dispatch(tc.action)
			after := store.Snapshot()

			assert.Equal(t, tc.want, tc.read(after))

			// Writing the same value back to the target field must recover
			// the prior state exactly: nothing else moved.
			reverted := reduce(after, revert(tc.action, before))
			assert.Equal(t, before, reverted)
		})
	}
}

// revert builds the action that restores the target field to its value in prev.
func revert(a Action, prev Session) Action {
	switch a.Type {
	case SetUsername:
		return Action{Type: SetUsername, Value: prev.Username}
	case SetID:
		return Action{Type: SetID, Value: prev.UserID}
	case SetEmail:
		return Action{Type: SetEmail, Value: prev.Email}
	case SetToken:
		return Action{Type: SetToken, Value: prev.Token}
	case SetInterface:
		return Action{Type: SetInterface, Value: prev.Interface}
	case SetTheme:
		return Action{Type: SetTheme, Theme: prev.Theme}
	case SetStatsNetwork:
		return Action{Type: SetStatsNetwork, Value: prev.StatsNetwork}
	case SetSeenNetworks:
		return Action{Type: SetSeenNetworks, Networks: prev.SeenNetworks}
	}
	return a
}

func TestDispatchSeenNetworks(t *testing.T) {
	store := NewStore()
	networks := []models.SeenNetwork{{SSID: "home", BSSID: "aa:bb", Security: models.SecurityWPA2, Mode: models.ModeInfra}}

	store.Dispatch(Action{Type: SetSeenNetworks, Networks: networks})

	snap := store.Snapshot()
	require.Len(t, snap.SeenNetworks, 1)
	assert.Equal(t, "home", snap.SeenNetworks[0].SSID)
}

func TestDispatchUnknownActionIsNoOp(t *testing.T) {
	store := NewStore()
	store.Dispatch(Action{Type: SetUsername, Value: "alice"})
	before := store.Snapshot()

	store.Dispatch(Action{Type: ActionType("setWallet"), Value: "x"})

	assert.Equal(t, before, store.Snapshot())
}

func TestAuthenticatedRequiresFullIdentity(t *testing.T) {
	cases := []struct {
		name string
		s    Session
		want bool
	}{
		{"empty", Session{}, false},
		{"complete", Session{Username: "alice", UserID: "u1", Email: "a@b.c"}, true},
		{"missing username", Session{UserID: "u1", Email: "a@b.c"}, false},
		{"missing id", Session{Username: "alice", Email: "a@b.c"}, false},
		{"missing email", Session{Username: "alice", UserID: "u1"}, false},
		{"token only", Session{Token: "t1"}, false},
		{"token does not compensate", Session{Username: "alice", UserID: "u1", Token: "t1"}, false},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, tc.s.Authenticated())
		})
	}
}

func TestResetClearsEverything(t *testing.T) {
	store := NewStore()
	store.Dispatch(Action{Type: SetUsername, Value: "alice"})
	store.Dispatch(Action{Type: SetID, Value: "u1"})
	store.Dispatch(Action{Type: SetEmail, Value: "a@b.c"})
	store.Dispatch(Action{Type: SetToken, Value: "t1"})
	store.Dispatch(Action{Type: SetInterface, Value: "wlan0"})

	store.Reset()

	snap := store.Snapshot()
	assert.Equal(t, Session{Theme: ThemeLight}, snap)
	assert.False(t, snap.Authenticated())
}
