package sms

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
)

func TestSend(t *testing.T) {
	var gotPath, gotTo, gotFrom, gotBody string
	var gotUser, gotPass string

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		gotUser, gotPass, _ = r.BasicAuth()
		if err := r.ParseForm(); err != nil {
			t.Errorf("parse form: %v", err)
		}
		gotTo = r.PostForm.Get("To")
		gotFrom = r.PostForm.Get("From")
		gotBody = r.PostForm.Get("Body")
		w.WriteHeader(http.StatusCreated)
	}))
	defer server.Close()

	c := NewClient("AC123", "secret", "+15550009999", WithAPIURL(server.URL))
	err := c.Send(context.Background(), "+15551234567", "Warranty expiring soon")
	if err != nil {
		t.Fatalf("send: %v", err)
	}

	if gotPath != "/2010-04-01/Accounts/AC123/Messages.json" {
		t.Errorf("path = %q", gotPath)
	}
	if gotUser != "AC123" || gotPass != "secret" {
		t.Errorf("auth = %q / %q", gotUser, gotPass)
	}
	if gotTo != "+15551234567" || gotFrom != "+15550009999" {
		t.Errorf("numbers: to=%q from=%q", gotTo, gotFrom)
	}
	if gotBody != "Warranty expiring soon" {
		t.Errorf("body = %q", gotBody)
	}
}

func TestSendAPIError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadRequest)
	}))
	defer server.Close()

	c := NewClient("AC123", "secret", "+15550009999", WithAPIURL(server.URL))
	if err := c.Send(context.Background(), "+15551234567", "msg"); err == nil {
		t.Fatal("expected error for 400 response")
	}
}

func TestSendUnconfigured(t *testing.T) {
	c := NewClient("", "", "+15550009999")
	if c.Configured() {
		t.Error("client without credentials should not be configured")
	}
	if err := c.Send(context.Background(), "+15551234567", "msg"); err == nil {
		t.Fatal("expected error from unconfigured client")
	}
}
