package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

type observed struct {
	method   string
	endpoint string
	status   int
}

type fakeCollector struct {
	active   int
	observed []observed
}

func (c *fakeCollector) RequestStarted()  { c.active++ }
func (c *fakeCollector) RequestFinished() { c.active-- }

func (c *fakeCollector) ObserveRequest(method string, endpoint string, status int, _ time.Duration) {
	c.observed = append(c.observed, observed{method, endpoint, status})
}

func TestMetricsMiddleware(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("POST /items/{id}", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusAccepted)
	})

	c := &fakeCollector{}
	h := MetricsMiddleware(c)(mux)

	w := httptest.NewRecorder()
	h.ServeHTTP(w, httptest.NewRequest(http.MethodPost, "/items/1", nil))
	w = httptest.NewRecorder()
	h.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/missing", nil))

	require.Zero(t, c.active, "every started request has to be finished")
	require.Equal(t, []observed{
		{http.MethodPost, "POST /items/{id}", http.StatusAccepted},
		{http.MethodGet, "", http.StatusNotFound},
	}, c.observed)
}
