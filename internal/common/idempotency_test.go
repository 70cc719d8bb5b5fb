package common_test

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	miniredis "github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/require"

	"github.com/arunahq/backend-estimate/internal/common"
)

func TestIdemMiddlewareRejectsReplay(t *testing.T) {
	mr, err := miniredis.Run()
	require.NoError(t, err)
	defer mr.Close()

	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	defer func() { _ = client.Close() }()

	var calls int
	handler := common.Idem{R: client, TTL: time.Minute}.Middleware(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls++
		w.WriteHeader(http.StatusCreated)
	}))

	first := httptest.NewRequest(http.MethodPost, "/api/v1/estimates", nil)
	first.Header.Set("Idempotency-Key", "abc-123")
	rr1 := httptest.NewRecorder()
	handler.ServeHTTP(rr1, first)
	require.Equal(t, http.StatusCreated, rr1.Code)

	replay := httptest.NewRequest(http.MethodPost, "/api/v1/estimates", nil)
	replay.Header.Set("Idempotency-Key", "abc-123")
	rr2 := httptest.NewRecorder()
	handler.ServeHTTP(rr2, replay)
	require.Equal(t, http.StatusConflict, rr2.Code)
	require.Equal(t, 1, calls)
}

func TestIdemMiddlewarePassesWithoutKey(t *testing.T) {
	handler := common.Idem{}.Middleware(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	}))
	rr := httptest.NewRecorder()
	handler.ServeHTTP(rr, httptest.NewRequest(http.MethodPost, "/api/v1/estimates", nil))
	require.Equal(t, http.StatusOK, rr.Code)
}
