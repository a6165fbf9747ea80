package transport

import (
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
)

// capture records the requests a mock API receives.
type capture struct {
	mu       sync.Mutex
	paths    []string
	headers  []http.Header
	bodies   []map[string]any
	requests int
}

func (c *capture) record(t *testing.T, r *http.Request) {
	t.Helper()
	data, err := io.ReadAll(r.Body)
	if err != nil {
		t.Errorf("read body: %v", err)
	}
	var body map[string]any
	if err := json.Unmarshal(data, &body); err != nil {
		t.Errorf("decode body: %v", err)
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	c.requests++
	c.paths = append(c.paths, r.URL.Path)
	c.headers = append(c.headers, r.Header.Clone())
	c.bodies = append(c.bodies, body)
}

// mockAPI returns a server that records each request and answers with status
// and the JSON encoding of resp.
func mockAPI(t *testing.T, status int, resp any) (*httptest.Server, *capture) {
	t.Helper()
	c := &capture{}
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		c.record(t, r)
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(status)
		json.NewEncoder(w).Encode(resp) //nolint:errcheck
	}))
	t.Cleanup(srv.Close)
	return srv, c
}
