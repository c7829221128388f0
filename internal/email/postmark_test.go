package email

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
)

func TestSend(t *testing.T) {
	var got postmarkEmail
	var gotToken string

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/email" {
			t.Errorf("path = %q, want /email", r.URL.Path)
		}
		gotToken = r.Header.Get("X-Postmark-Server-Token")
		if err := json.NewDecoder(r.Body).Decode(&got); err != nil {
			t.Errorf("decode body: %v", err)
		}
		w.WriteHeader(http.StatusOK)
	}))
	defer server.Close()

	c := NewClient("token-123", "upkeep@example.com", WithAPIURL(server.URL))
	err := c.Send(context.Background(), "morgan@example.com", "Warranty expiring", "<p>hi</p>", "hi")
	if err != nil {
		t.Fatalf("send: %v", err)
	}

	if gotToken != "token-123" {
		t.Errorf("server token = %q", gotToken)
	}
	if got.From != "upkeep@example.com" || got.To != "morgan@example.com" {
		t.Errorf("addresses: %+v", got)
	}
	if got.Subject != "Warranty expiring" || got.HtmlBody != "<p>hi</p>" || got.TextBody != "hi" {
		t.Errorf("content: %+v", got)
	}
}

func TestSendAPIError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnprocessableEntity)
	}))
	defer server.Close()

	c := NewClient("token-123", "upkeep@example.com", WithAPIURL(server.URL))
	if err := c.Send(context.Background(), "morgan@example.com", "s", "h", "t"); err == nil {
		t.Fatal("expected error for 422 response")
	}
}

func TestSendUnconfigured(t *testing.T) {
	c := NewClient("", "upkeep@example.com")
	if c.Configured() {
		t.Error("client without token should not be configured")
	}
	if err := c.Send(context.Background(), "morgan@example.com", "s", "h", "t"); err == nil {
		t.Fatal("expected error from unconfigured client")
	}
}
