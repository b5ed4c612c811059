package exac

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// requestLog records request paths served by a test server.
type requestLog struct {
	mu    sync.Mutex
	paths []string
}

func (l *requestLog) Paths() []string {
	l.mu.Lock()
	defer l.mu.Unlock()
	return append([]string(nil), l.paths...)
}

func newServer(t *testing.T, status int, body string) (*httptest.Server, *requestLog) {
	t.Helper()
	log := &requestLog{}
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		log.mu.Lock()
		log.paths = append(log.paths, r.URL.Path)
		log.mu.Unlock()
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(status)
		w.Write([]byte(body))
	}))
	t.Cleanup(srv.Close)
	return srv, log
}

func TestClient_AlleleFrequency(t *testing.T) {
	srv, paths := newServer(t, http.StatusOK, `{"allele_freq": 0.02, "variant_id": "1-12345-A-T"}`)

	freq, err := NewClient(srv.URL).AlleleFrequency(context.Background(), "1-12345-A-T")
	require.NoError(t, err)
	assert.Equal(t, 0.02, freq)
	assert.Equal(t, []string{"/rest/variant/variant/1-12345-A-T"}, paths.Paths())
}

func TestClient_Failures(t *testing.T) {
	tests := []struct {
		name   string
		status int
		body   string
		reason Reason
	}{
		{"not found", http.StatusNotFound, `{}`, ReasonStatus},
		{"server error", http.StatusInternalServerError, `oops`, ReasonStatus},
		{"not json", http.StatusOK, `<html>`, ReasonDecode},
		{"missing field", http.StatusOK, `{"variant_id": "1-12345-A-T"}`, ReasonMissing},
		{"null field", http.StatusOK, `{"allele_freq": null}`, ReasonMissing},
		{"string field", http.StatusOK, `{"allele_freq": "0.1"}`, ReasonMissing},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			srv, paths := newServer(t, tt.status, tt.body)

			_, err := NewClient(srv.URL).AlleleFrequency(context.Background(), "1-12345-A-T")

			var lookupErr *LookupError
			require.True(t, errors.As(err, &lookupErr))
			assert.Equal(t, tt.reason, lookupErr.Reason)
			assert.Equal(t, "1-12345-A-T", lookupErr.VariantID)
			assert.Len(t, paths.Paths(), 1, "single attempt, no retry")
		})
	}
}

func TestClient_Unreachable(t *testing.T) {
	srv := httptest.NewServer(http.NotFoundHandler())
	url := srv.URL
	srv.Close()

	_, err := NewClient(url).AlleleFrequency(context.Background(), "1-12345-A-T")

	var lookupErr *LookupError
	require.True(t, errors.As(err, &lookupErr))
	assert.Equal(t, ReasonRequest, lookupErr.Reason)
}

func TestClient_Cancelled(t *testing.T) {
	srv, _ := newServer(t, http.StatusOK, `{"allele_freq": 0.02}`)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := NewClient(srv.URL).AlleleFrequency(ctx, "1-12345-A-T")
	assert.ErrorIs(t, err, context.Canceled)
}

func TestClient_VariantURL(t *testing.T) {
	assert.Equal(t, "http://exac.hms.harvard.edu/rest/variant/variant/1-12345-A-T",
		NewClient("").VariantURL("1-12345-A-T"))
	assert.Equal(t, "http://localhost:8080/rest/variant/variant/X-1-A-G",
		NewClient("http://localhost:8080/").VariantURL("X-1-A-G"))
}

func TestLookupError(t *testing.T) {
	err := &LookupError{VariantID: "1-1-A-T", Reason: ReasonMissing}
	assert.Equal(t, "exac lookup 1-1-A-T: missing", err.Error())

	err = &LookupError{VariantID: "1-1-A-T", Reason: ReasonStatus, Err: errors.New("HTTP 503")}
	assert.Equal(t, "exac lookup 1-1-A-T: status: HTTP 503", err.Error())
}
