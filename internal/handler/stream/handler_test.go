package stream

import (
	"bufio"
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/go-chi/chi/v5"

	chatservice "github.com/avelasco/cryptochat/backend/internal/service/chat"
	"github.com/avelasco/cryptochat/backend/internal/service/voice"
)

func setupServer(t *testing.T) (*httptest.Server, *chatservice.Service) {
	t.Helper()
	chatSvc := chatservice.NewService()
	hub := voice.NewHub()
	handler := New(chatSvc, hub)

	r := chi.NewRouter()
	r.Get("/stream/{sessionID}", func(w http.ResponseWriter, req *http.Request) {
		handler.HandleStream(w, req, chi.URLParam(req, "sessionID"))
	})

	srv := httptest.NewServer(r)
	t.Cleanup(srv.Close)
	return srv, chatSvc
}

func TestStreamUnknownSession(t *testing.T) {
	srv, _ := setupServer(t)

	resp, err := http.Get(srv.URL + "/stream/missing")
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusNotFound {
		t.Fatalf("expected 404, got %d", resp.StatusCode)
	}
}

func TestStreamEstablishes(t *testing.T) {
	srv, chatSvc := setupServer(t)
	session := chatSvc.CreateSession(context.Background())

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	req, _ := http.NewRequestWithContext(ctx, http.MethodGet, srv.URL+"/stream/"+session.ID, nil)
	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	defer resp.Body.Close()

	if got := resp.Header.Get("Content-Type"); got != "text/event-stream" {
		t.Fatalf("content type = %q", got)
	}

	line, err := bufio.NewReader(resp.Body).ReadString('\n')
	if err != nil {
		t.Fatalf("read: %v", err)
	}
	if !strings.Contains(line, "stream established") {
		t.Fatalf("first chunk = %q", line)
	}
}
