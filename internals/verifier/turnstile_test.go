package verifier

import (
	"context"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestVerifySuccess(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.NoError(t, r.ParseForm())
		assert.Equal(t, "test-secret", r.PostFormValue("secret"))
		assert.Equal(t, "valid-token", r.PostFormValue("response"))
		assert.Equal(t, "1.2.3.4", r.PostFormValue("remoteip"))

		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"success": true}`))
	}))
	defer srv.Close()

	v := NewTurnstileVerifier("test-secret", srv.URL, time.Second)
	assert.True(t, v.Verify(context.Background(), "valid-token", "1.2.3.4"))
}

func TestVerifyFailClosed(t *testing.T) {
	tests := []struct {
		name    string
		handler http.HandlerFunc
	}{
		{
			name: "upstream rejects token",
			handler: func(w http.ResponseWriter, r *http.Request) {
				w.Write([]byte(`{"success": false, "error-codes": ["invalid-input-response"]}`))
			},
		},
		{
			name: "non-2xx status",
			handler: func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(http.StatusInternalServerError)
			},
		},
		{
			name: "malformed body",
			handler: func(w http.ResponseWriter, r *http.Request) {
				w.Write([]byte(`not json at all`))
			},
		},
		{
			name: "empty body",
			handler: func(w http.ResponseWriter, r *http.Request) {
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			srv := httptest.NewServer(tt.handler)
			defer srv.Close()

			v := NewTurnstileVerifier("test-secret", srv.URL, time.Second)
			assert.False(t, v.Verify(context.Background(), "some-token", ""))
		})
	}
}

func TestVerifyEmptyTokenSkipsUpstream(t *testing.T) {
	var calls int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&calls, 1)
		w.Write([]byte(`{"success": true}`))
	}))
	defer srv.Close()

	v := NewTurnstileVerifier("test-secret", srv.URL, time.Second)
	assert.False(t, v.Verify(context.Background(), "", ""))
	assert.Equal(t, int32(0), atomic.LoadInt32(&calls))
}

func TestVerifyTimeoutIsFailure(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		time.Sleep(200 * time.Millisecond)
		w.Write([]byte(`{"success": true}`))
	}))
	defer srv.Close()

	v := NewTurnstileVerifier("test-secret", srv.URL, 20*time.Millisecond)
	assert.False(t, v.Verify(context.Background(), "slow-token", ""))
}

func TestVerifyUnreachableUpstream(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	srv.Close() // deliberately closed

	v := NewTurnstileVerifier("test-secret", srv.URL, time.Second)
	assert.False(t, v.Verify(context.Background(), "some-token", ""))
}
