// Package relay submits contact and quote messages to the web3forms relay.
// Every dispatch is a single attempt: no retry, no fallback transport.
package relay

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"
)

const (
	defaultEndpoint = "https://api.web3forms.com/submit"
	defaultTimeout  = 8 * time.Second
	defaultFromName = "Website Visitor"
)

// ErrInvalidEmail is returned before any network call when the submission
// lacks a plausible email address.
var ErrInvalidEmail = errors.New("relay: invalid email address")

// ErrRejected is returned when the relay answers without success.
var ErrRejected = errors.New("relay: submission rejected")

// Client posts JSON envelopes to the form relay.
type Client struct {
	endpoint  string
	accessKey string
	http      *http.Client
}

// Option customises the client.
type Option func(*Client)

// WithEndpoint overrides the relay endpoint (used by tests).
func WithEndpoint(endpoint string) Option {
	return func(c *Client) {
		c.endpoint = strings.TrimSpace(endpoint)
	}
}

// WithHTTPClient overrides the HTTP client.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) {
		c.http = hc
	}
}

// NewClient builds a relay client for the given access key.
func NewClient(accessKey string, opts ...Option) *Client {
	c := &Client{
		endpoint:  defaultEndpoint,
		accessKey: strings.TrimSpace(accessKey),
		http:      &http.Client{Timeout: defaultTimeout},
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Submission is one outbound message.
type Submission struct {
	Subject       string
	Name          string
	Email         string
	Message       string
	Phone         string
	Source        string
	TrafficSource string
	PageURL       string
}

// envelope mirrors the web3forms wire contract.
type envelope struct {
	AccessKey     string `json:"access_key"`
	Subject       string `json:"subject"`
	FromName      string `json:"from_name"`
	ReplyTo       string `json:"replyto"`
	Name          string `json:"name"`
	Email         string `json:"email"`
	Message       string `json:"message"`
	Phone         string `json:"phone"`
	Source        string `json:"source"`
	TrafficSource string `json:"traffic_source"`
	PageURL       string `json:"page_url"`
	Botcheck      string `json:"botcheck"`
}

// PlausibleEmail applies the same check the original forms used: the address
// must be non-empty and contain an @.
func PlausibleEmail(email string) bool {
	email = strings.TrimSpace(email)
	return email != "" && strings.Contains(email, "@")
}

// Submit validates and sends one submission. The email check runs before the
// request is built, so an implausible address never reaches the wire.
func (c *Client) Submit(ctx context.Context, sub Submission) error {
	if !PlausibleEmail(sub.Email) {
		return ErrInvalidEmail
	}

	fromName := strings.TrimSpace(sub.Name)
	if fromName == "" {
		fromName = defaultFromName
	}
	message := sub.Message
	if strings.TrimSpace(message) == "" {
		message = "(no message)"
	}

	payload, err := json.Marshal(envelope{
		AccessKey:     c.accessKey,
		Subject:       sub.Subject,
		FromName:      fromName,
		ReplyTo:       strings.TrimSpace(sub.Email),
		Name:          strings.TrimSpace(sub.Name),
		Email:         strings.TrimSpace(sub.Email),
		Message:       message,
		Phone:         strings.TrimSpace(sub.Phone),
		Source:        strings.TrimSpace(sub.Source),
		TrafficSource: sub.TrafficSource,
		PageURL:       sub.PageURL,
	})
	if err != nil {
		return err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.endpoint, bytes.NewReader(payload))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	var result struct {
		Success bool   `json:"success"`
		Message string `json:"message"`
	}
	if err := json.NewDecoder(io.LimitReader(resp.Body, 4096)).Decode(&result); err != nil {
		return fmt.Errorf("relay: decode response: %w", err)
	}
	if !result.Success {
		return fmt.Errorf("%w: %s", ErrRejected, strings.TrimSpace(result.Message))
	}
	return nil
}
