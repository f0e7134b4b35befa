package testutil

import (
	"io"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
)

// FeishuServer is an httptest server standing in for a Feishu bot webhook.
// It records every request body and answers with a configurable response.
type FeishuServer struct {
	*httptest.Server

	mu     sync.Mutex
	bodies []string
	status int
	reply  string
}

// NewFeishuServer starts a server that accepts every card with {"code":0}.
// It is closed when the test ends.
func NewFeishuServer(t *testing.T) *FeishuServer {
	t.Helper()

	s := &FeishuServer{status: http.StatusOK, reply: `{"code":0,"msg":"success"}`}
	s.Server = httptest.NewServer(http.HandlerFunc(s.handle))
	t.Cleanup(s.Close)
	return s
}

// Respond changes the status code and body returned for subsequent requests.
func (s *FeishuServer) Respond(status int, body string) *FeishuServer {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.status = status
	s.reply = body
	return s
}

func (s *FeishuServer) handle(w http.ResponseWriter, r *http.Request) {
	body, _ := io.ReadAll(r.Body)

	s.mu.Lock()
	s.bodies = append(s.bodies, string(body))
	status, reply := s.status, s.reply
	s.mu.Unlock()

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_, _ = io.WriteString(w, reply)
}

// Bodies returns the request bodies received so far.
func (s *FeishuServer) Bodies() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]string(nil), s.bodies...)
}

// RequestCount returns the number of requests received so far.
func (s *FeishuServer) RequestCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.bodies)
}
