package sms

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strings"
)

const defaultAPIURL = "https://api.twilio.com"

type Client struct {
	accountSID string
	authToken  string
	fromNumber string
	apiURL     string
	httpClient *http.Client
}

type Option func(*Client)

func WithHTTPClient(c *http.Client) Option {
	return func(cl *Client) {
		cl.httpClient = c
	}
}

func WithAPIURL(url string) Option {
	return func(cl *Client) {
		cl.apiURL = url
	}
}

func NewClient(accountSID, authToken, fromNumber string, opts ...Option) *Client {
	c := &Client{
		accountSID: accountSID,
		authToken:  authToken,
		fromNumber: fromNumber,
		apiURL:     defaultAPIURL,
		httpClient: http.DefaultClient,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Configured returns true if the account credentials are set.
func (c *Client) Configured() bool {
	return c.accountSID != "" && c.authToken != ""
}

// Send delivers one SMS through the Twilio Messages API.
func (c *Client) Send(ctx context.Context, phone, message string) error {
	if !c.Configured() {
		return fmt.Errorf("sms client not configured: missing account credentials")
	}

	form := url.Values{}
	form.Set("To", phone)
	form.Set("From", c.fromNumber)
	form.Set("Body", message)

	endpoint := fmt.Sprintf("%s/2010-04-01/Accounts/%s/Messages.json", c.apiURL, c.accountSID)
	req, err := http.NewRequestWithContext(ctx, "POST", endpoint, strings.NewReader(form.Encode()))
	if err != nil {
		return fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	req.SetBasicAuth(c.accountSID, c.authToken)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("send sms: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 400 {
		return fmt.Errorf("twilio API error: status %d", resp.StatusCode)
	}

	return nil
}
