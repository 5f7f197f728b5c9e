package notification

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"homeserve_backend/platform/logger"
)

type chatTestConfig struct {
	url string
}

func (c chatTestConfig) GetChatWebhookURL() string     { return c.url }
func (c chatTestConfig) GetChatTimeout() time.Duration { return 2 * time.Second }

func TestChatClient_PostsTextPayload(t *testing.T) {
	var received chatMessage
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		body, _ := io.ReadAll(r.Body)
		if err := json.Unmarshal(body, &received); err != nil {
			t.Errorf("invalid payload: %v", err)
		}
		if ct := r.Header.Get("Content-Type"); ct != "application/json" {
			t.Errorf("unexpected content type %q", ct)
		}
		w.WriteHeader(http.StatusOK)
	}))
	defer server.Close()

	client := NewChatClient(chatTestConfig{}, logger.New("development"))
	if err := client.Send(context.Background(), server.URL, "2 pending requests"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if received.Text != "2 pending requests" {
		t.Fatalf("expected text to round-trip, got %q", received.Text)
	}
}

func TestChatClient_FallsBackToDefaultURL(t *testing.T) {
	called := false
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		called = true
	}))
	defer server.Close()

	client := NewChatClient(chatTestConfig{url: server.URL}, logger.New("development"))
	if err := client.Send(context.Background(), "", "hello"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !called {
		t.Fatal("expected default webhook to be called")
	}
}

func TestChatClient_NoURLIsNoop(t *testing.T) {
	client := NewChatClient(chatTestConfig{}, logger.New("development"))
	if err := client.Send(context.Background(), "", "hello"); err != nil {
		t.Fatalf("expected no-op, got %v", err)
	}
}

func TestChatClient_CanDeliver(t *testing.T) {
	withDefault := NewChatClient(chatTestConfig{url: "https://chat.example.com/hook"}, logger.New("development"))
	withoutDefault := NewChatClient(chatTestConfig{}, logger.New("development"))

	if !withDefault.CanDeliver("") {
		t.Fatal("expected default webhook to be deliverable")
	}
	if !withoutDefault.CanDeliver("https://chat.example.com/other") {
		t.Fatal("expected per-recipient webhook to be deliverable")
	}
	if withoutDefault.CanDeliver("  ") {
		t.Fatal("expected no webhook at all to be undeliverable")
	}
}

func TestChatClient_ErrorStatusIsError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "bad webhook", http.StatusForbidden)
	}))
	defer server.Close()

	client := NewChatClient(chatTestConfig{}, logger.New("development"))
	if err := client.Send(context.Background(), server.URL, "hello"); err == nil {
		t.Fatal("expected error for 403 response")
	}
}
