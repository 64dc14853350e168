package contact

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"
)

// Delivery hands a validated form to its destination.
type Delivery interface {
	Deliver(ctx context.Context, f Form) error
}

// RejectedError is returned when the upstream endpoint refused the submission and said why.
type RejectedError struct {
	Status   int
	Messages []string
}

func (e *RejectedError) Error() string {
	return strings.Join(e.Messages, ", ")
}

// TransportError covers every other failed delivery: network failures and non-2xx
// responses without a readable reason.
type TransportError struct {
	Status int
	Err    error
}

func (e *TransportError) Error() string {
	if e.Status != 0 {
		return fmt.Sprintf("contact relay returned status %d: %v", e.Status, e.Err)
	}
	return fmt.Sprintf("contact relay failed: %v", e.Err)
}

func (e *TransportError) Unwrap() error {
	return e.Err
}

// RelayClient posts submissions to a hosted form endpoint.
type RelayClient struct {
	endpoint   string
	httpClient *http.Client
}

// NewRelayClient returns a client for endpoint. A zero timeout leaves the request bound
// only by its context.
func NewRelayClient(endpoint string, timeout time.Duration) *RelayClient {
	return &RelayClient{
		endpoint:   endpoint,
		httpClient: &http.Client{Timeout: timeout},
	}
}

type upstreamErrors struct {
	Errors []struct {
		Message string `json:"message"`
	} `json:"errors"`
}

// Deliver posts the form once. It does not retry.
func (r *RelayClient) Deliver(ctx context.Context, f Form) error {
	values := url.Values{}
	values.Set("name", f.Name)
	values.Set("email", f.Email)
	if f.Subject != "" {
		values.Set("subject", f.Subject)
	}
	values.Set("message", f.Message)

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, r.endpoint, strings.NewReader(values.Encode()))
	if err != nil {
		return &TransportError{Err: err}
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	req.Header.Set("Accept", "application/json")

	resp, err := r.httpClient.Do(req)
	if err != nil {
		return &TransportError{Err: err}
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 200 && resp.StatusCode < 300 {
		_, _ = io.Copy(io.Discard, resp.Body)
		return nil
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, 64<<10))
	if err != nil {
		return &TransportError{Status: resp.StatusCode, Err: err}
	}

	var payload upstreamErrors
	if err := json.Unmarshal(body, &payload); err == nil && len(payload.Errors) > 0 {
		msgs := make([]string, 0, len(payload.Errors))
		for _, e := range payload.Errors {
			msgs = append(msgs, e.Message)
		}
		return &RejectedError{Status: resp.StatusCode, Messages: msgs}
	}

	return &TransportError{Status: resp.StatusCode, Err: fmt.Errorf("%s", http.StatusText(resp.StatusCode))}
}
