package dashboard

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/require"
)

func fixed(n int) CountFunc {
	return func(context.Context) (int, error) { return n, nil }
}

func TestStatsHandler(t *testing.T) {
	r := chi.NewRouter()
	NewHandler(NewService(fixed(3), fixed(120), fixed(9))).
		RegisterRoutes(r, func(next http.Handler) http.Handler { return next })

	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/v1/dashboard/stats", nil))
	require.Equal(t, http.StatusOK, rec.Code)
	require.JSONEq(t, `{"stores":3,"products":120,"users":9}`, rec.Body.String())
}

func TestStatsPropagatesErrors(t *testing.T) {
	boom := errors.New("db down")
	svc := NewService(fixed(1), func(context.Context) (int, error) { return 0, boom }, fixed(1))

	_, err := svc.Stats(context.Background())
	require.ErrorIs(t, err, boom)
}
