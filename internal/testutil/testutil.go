// Package testutil provides a scripted memglass web server for tests.
package testutil

import (
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
)

// Step describes one scripted response from the mock server.
type Step struct {
	Status int    // HTTP status; 0 means 200
	Body   string // response body
	Drop   bool   // close the connection without responding (connection error)
}

// Server simulates the memglass web API. It serves the scripted steps in
// order at /api/data, repeating the last step once the script is exhausted.
type Server struct {
	*httptest.Server

	mu       sync.Mutex
	steps    []Step
	index    int
	requests int
}

// NewServer starts a mock server with the given script. The server is shut
// down automatically when the test finishes.
func NewServer(t *testing.T, steps ...Step) *Server {
	t.Helper()

	if len(steps) == 0 {
		steps = []Step{{Body: SessionJSON(1, 1)}}
	}

	s := &Server{steps: steps}
	s.Server = httptest.NewServer(http.HandlerFunc(s.handle))
	t.Cleanup(s.Close)
	return s
}

func (s *Server) handle(w http.ResponseWriter, r *http.Request) {
	if r.URL.Path != "/api/data" {
		http.NotFound(w, r)
		return
	}

	s.mu.Lock()
	step := s.steps[s.index]
	if s.index < len(s.steps)-1 {
		s.index++
	}
	s.requests++
	s.mu.Unlock()

	if step.Drop {
		hj, ok := w.(http.Hijacker)
		if !ok {
			panic("testutil: response writer does not support hijacking")
		}
		conn, _, err := hj.Hijack()
		if err != nil {
			panic(fmt.Sprintf("testutil: hijack failed: %v", err))
		}
		conn.Close()
		return
	}

	status := step.Status
	if status == 0 {
		status = http.StatusOK
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	fmt.Fprint(w, step.Body)
}

// Requests returns how many times /api/data was hit.
func (s *Server) Requests() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.requests
}

// ClosedServerURL returns a URL that refuses connections: the address of a
// server that has already been shut down.
func ClosedServerURL(t *testing.T) string {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(http.ResponseWriter, *http.Request) {}))
	url := srv.URL
	srv.Close()
	return url
}

// SessionJSON builds a minimal wire payload with the given pid and sequence
// plus any pre-rendered object JSON fragments.
func SessionJSON(pid int, sequence uint64, objects ...string) string {
	return fmt.Sprintf(`{"pid": %d, "sequence": %d, "types": [], "objects": [%s]}`,
		pid, sequence, strings.Join(objects, ","))
}

// ObjectJSON builds one wire object with pre-rendered field fragments.
func ObjectJSON(label, typeName string, typeID int64, fields ...string) string {
	return fmt.Sprintf(`{"label": %q, "type_name": %q, "type_id": %d, "fields": [%s]}`,
		label, typeName, typeID, strings.Join(fields, ","))
}

// FieldJSON builds one wire field. Pass atomicity "" to omit the key.
func FieldJSON(name, rawValue, atomicity string) string {
	if atomicity == "" {
		return fmt.Sprintf(`{"name": %q, "value": %s}`, name, rawValue)
	}
	return fmt.Sprintf(`{"name": %q, "value": %s, "atomicity": %q}`, name, rawValue, atomicity)
}
