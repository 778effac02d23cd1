package server

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/alicebob/miniredis/v2"
	goredis "github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestIdempotencyRejectsReplay(t *testing.T) {
	mini := miniredis.RunT(t)
	f := newFixture(t)
	f.server.redis = goredis.NewClient(&goredis.Options{Addr: mini.Addr()})

	_, adm := f.seedAdmittedPatient(t, false)
	body := map[string]any{"admissionId": adm.ID.String(), "paymentMethod": "cash"}

	first := f.requestWithHeaders(t, http.MethodPost, "/billing/ipd/generate", adminKey, body, map[string]string{
		idempotencyHeader: "gen-1",
	})
	require.Equal(t, http.StatusCreated, first.Code, first.Body.String())

	replay := f.requestWithHeaders(t, http.MethodPost, "/billing/ipd/generate", adminKey, body, map[string]string{
		idempotencyHeader: "gen-1",
	})
	assert.Equal(t, http.StatusConflict, replay.Code)

	fresh := f.requestWithHeaders(t, http.MethodPost, "/billing/ipd/generate", adminKey, body, map[string]string{
		idempotencyHeader: "gen-2",
	})
	assert.Equal(t, http.StatusCreated, fresh.Code)
}

func TestIdempotencySkippedWithoutKeyOrRedis(t *testing.T) {
	f := newFixture(t)
	_, adm := f.seedAdmittedPatient(t, false)
	body := map[string]any{"admissionId": adm.ID.String(), "paymentMethod": "cash"}

	// No redis configured: repeated requests both succeed.
	first := f.request(t, http.MethodPost, "/billing/ipd/generate", adminKey, body)
	require.Equal(t, http.StatusCreated, first.Code)
	second := f.request(t, http.MethodPost, "/billing/ipd/generate", adminKey, body)
	assert.Equal(t, http.StatusCreated, second.Code)
}

func (f *fixture) requestWithHeaders(t *testing.T, method, path, apiKey string, body any, headers map[string]string) *httptest.ResponseRecorder {
	t.Helper()

	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	if apiKey != "" {
		req.Header.Set("X-API-Key", apiKey)
	}
	for k, v := range headers {
		req.Header.Set(k, v)
	}

	rec := httptest.NewRecorder()
	f.server.engine.ServeHTTP(rec, req)
	return rec
}
