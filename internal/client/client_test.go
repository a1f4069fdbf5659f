package client

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPostDecodesSuccess(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "application/json", r.Header.Get("Content-Type"))
		w.Write([]byte(`{"message":"ok"}`))
	}))
	defer srv.Close()

	var out map[string]string
	err := New(srv.URL).Post(context.Background(), "/x", map[string]string{"a": "b"}, nil, &out)

	require.NoError(t, err)
	assert.Equal(t, "ok", out["message"])
}

func TestNon2xxYieldsAPIError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnprocessableEntity)
		w.Write([]byte("bad ssid"))
	}))
	defer srv.Close()

	err := New(srv.URL).Post(context.Background(), "/x", nil, nil, nil)

	var apiErr *APIError
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, http.StatusUnprocessableEntity, apiErr.Status)
	assert.Equal(t, "bad ssid", apiErr.Body)
	assert.False(t, errors.Is(err, ErrGatewayUnavailable))
}

func TestGatewayErrorIsDistinct(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
	}))
	defer srv.Close()

	err := New(srv.URL).Get(context.Background(), "/x", nil, nil)

	assert.True(t, errors.Is(err, ErrGatewayUnavailable))

	status, ok := IsHTTPError(err)
	require.True(t, ok)
	assert.Equal(t, http.StatusBadGateway, status)
}

func TestTransportErrorIsNotHTTPError(t *testing.T) {
	// Port 1 is never listening; the request gets no response at all.
	err := New("http://127.0.0.1:1").Get(context.Background(), "/x", nil, nil)

	var transportErr *TransportError
	require.ErrorAs(t, err, &transportErr)

	_, ok := IsHTTPError(err)
	assert.False(t, ok)
	assert.False(t, errors.Is(err, ErrGatewayUnavailable))
}

func TestHeaderOverride(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "Token t1", r.Header.Get("Authorization"))
		assert.Equal(t, "application/json", r.Header.Get("Content-Type"))
		w.Write([]byte(`{}`))
	}))
	defer srv.Close()

	err := New(srv.URL).Post(context.Background(), "/x", nil, map[string]string{"Authorization": "Token t1"}, nil)
	require.NoError(t, err)
}
