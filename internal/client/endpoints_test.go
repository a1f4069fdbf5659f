package client

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAddStatsWireFormat(t *testing.T) {
	var got map[string]interface{}
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, PathAddStats, r.URL.Path)
		assert.Equal(t, "Token t1", r.Header.Get("Authorization"))
		require.NoError(t, json.NewDecoder(r.Body).Decode(&got))
		w.Write([]byte(`{"message":"stat recorded"}`))
	}))
	defer srv.Close()

	err := New(srv.URL).AddStats(context.Background(), "t1", StatRequest{
		UserID:  "u1",
		SSID:    "wlan0",
		RxBytes: 500,
		TxBytes: 100,
	})

	require.NoError(t, err)
	assert.Equal(t, map[string]interface{}{
		"user_id":  "u1",
		"ssid":     "wlan0",
		"rx_bytes": float64(500),
		"tx_bytes": float64(100),
	}, got)
}

func TestUserByTokenUnwrapsEnvelope(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var body map[string]string
		require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		assert.Equal(t, "t1", body["token"])
		w.Write([]byte(`{"message":{"user":{"id":"u1","username":"alice","email":"a@b.c"}}}`))
	}))
	defer srv.Close()

	user, err := New(srv.URL).UserByToken(context.Background(), "t1")

	require.NoError(t, err)
	assert.Equal(t, "u1", user.ID)
	assert.Equal(t, "alice", user.Username)
	assert.Equal(t, "a@b.c", user.Email)
}

func TestGetStatsPathAndDecode(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/get_stats/u1", r.URL.Path)
		assert.Equal(t, "Token t1", r.Header.Get("Authorization"))
		w.Write([]byte(`[{"ssid":"home","total_bytes_up":100,"total_bytes_down":200}]`))
	}))
	defer srv.Close()

	rows, err := New(srv.URL).GetStats(context.Background(), "t1", "u1")

	require.NoError(t, err)
	require.Len(t, rows, 1)
	assert.Equal(t, "home", rows[0].SSID)
	assert.Equal(t, uint64(100), rows[0].TotalBytesUp)
	assert.Equal(t, uint64(200), rows[0].TotalBytesDown)
}

func TestCheckTokenSendsTokenScheme(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, PathCheckToken, r.URL.Path)
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "Token t1", r.Header.Get("Authorization"))
		w.Write([]byte(`{"message":"token valid"}`))
	}))
	defer srv.Close()

	require.NoError(t, New(srv.URL).CheckToken(context.Background(), "t1"))
}
