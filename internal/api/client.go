// Package api is the typed HTTP client for the tailor service. It owns
// serialization and error surfacing only; all language understanding and
// document editing happens server-side.
package api

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"github.com/rs/zerolog"

	"github.com/colonyops/tailor/internal/core/logging"
)

const (
	defaultTimeout = 30 * time.Second

	// Suggestion generation and batch application are documented as taking
	// up to a minute; those calls get a generous deadline instead.
	defaultLongTimeout = 3 * time.Minute

	maxErrorBodyBytes = 2048
)

// Client talks to a single configured service origin.
type Client struct {
	baseURL string
	http    *http.Client
	long    *http.Client
	logger  zerolog.Logger
}

// Options configures a Client. Zero values fall back to defaults.
type Options struct {
	Timeout     time.Duration
	LongTimeout time.Duration
}

// New creates a client for the given base URL, e.g. "http://localhost:3002".
func New(baseURL string, opts Options) *Client {
	if opts.Timeout == 0 {
		opts.Timeout = defaultTimeout
	}
	if opts.LongTimeout == 0 {
		opts.LongTimeout = defaultLongTimeout
	}

	return &Client{
		baseURL: baseURL,
		http:    &http.Client{Timeout: opts.Timeout},
		long:    &http.Client{Timeout: opts.LongTimeout},
		logger:  logging.Component("api"),
	}
}

// StartSession begins a new interview and returns the first question.
func (c *Client) StartSession(ctx context.Context, req StartSessionRequest) (StartSessionResponse, error) {
	var resp StartSessionResponse
	if err := c.postJSON(ctx, c.http, "start session", "/session/start", req, &resp); err != nil {
		return StartSessionResponse{}, err
	}
	if resp.SessionID == "" || resp.FirstQuestion == "" {
		return StartSessionResponse{}, fmt.Errorf("%w: start session missing session_id or first_question", ErrInvalidResponse)
	}
	return resp, nil
}

// AnswerQuestion submits an answer and returns the next question or completion.
func (c *Client) AnswerQuestion(ctx context.Context, req AnswerQuestionRequest) (AnswerQuestionResponse, error) {
	var resp AnswerQuestionResponse
	if err := c.postJSON(ctx, c.http, "answer question", "/session/answer", req, &resp); err != nil {
		return AnswerQuestionResponse{}, err
	}

	// Validate the completion contract at the boundary rather than trusting
	// the wire shape: incomplete answers must carry the next question.
	if !resp.IsComplete && resp.NextQuestion == "" {
		return AnswerQuestionResponse{}, fmt.Errorf("%w: answer not complete but next_question absent", ErrInvalidResponse)
	}
	if resp.IsComplete {
		resp.NextQuestion = ""
	}
	return resp, nil
}

// GetSessionStatus returns a read-only snapshot of the interview, used for
// resynchronization outside the primary flow.
func (c *Client) GetSessionStatus(ctx context.Context, sessionID string) (SessionStatusResponse, error) {
	var resp SessionStatusResponse
	err := c.getJSON(ctx, "session status", "/session/"+url.PathEscape(sessionID), &resp)
	return resp, err
}

// GetSuggestions requests suggestion generation for a completed interview.
// This call may take up to a minute; callers should show a waiting indicator.
func (c *Client) GetSuggestions(ctx context.Context, req GetSuggestionsRequest) (SuggestionsResponse, error) {
	var resp SuggestionsResponse
	err := c.postJSON(ctx, c.long, "get suggestions", "/session/suggestions", req, &resp)
	return resp, err
}

// ApplySuggestion applies exactly one suggestion server-side. The returned
// batch is the remaining suggestions after resolving the applied one.
func (c *Client) ApplySuggestion(ctx context.Context, req ApplySuggestionRequest) (ApplyResponse, error) {
	var resp ApplyResponse
	if err := c.postJSON(ctx, c.http, "apply suggestion", "/session/suggestions/apply", req, &resp); err != nil {
		return ApplyResponse{}, err
	}
	if resp.UpdatedResumeLatex == "" {
		return ApplyResponse{}, fmt.Errorf("%w: apply suggestion returned empty document", ErrInvalidResponse)
	}
	return resp, nil
}

// ApplySuggestions applies a batch of accepted suggestions against the given
// base document. An empty accepted set is a valid no-op call.
func (c *Client) ApplySuggestions(ctx context.Context, req ApplySuggestionsRequest) (ApplyResponse, error) {
	var resp ApplyResponse
	if err := c.postJSON(ctx, c.long, "apply suggestions", "/session/suggestions/apply-all", req, &resp); err != nil {
		return ApplyResponse{}, err
	}
	if resp.UpdatedResumeLatex == "" {
		return ApplyResponse{}, fmt.Errorf("%w: apply suggestions returned empty document", ErrInvalidResponse)
	}
	return resp, nil
}

// ExportPDF renders the document to PDF and returns the binary stream.
func (c *Client) ExportPDF(ctx context.Context, req ExportRequest) ([]byte, error) {
	body, err := json.Marshal(req)
	if err != nil {
		return nil, fmt.Errorf("encode export request: %w", err)
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/export/pdf", bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("create export request: %w", err)
	}
	httpReq.Header.Set("Content-Type", "application/json")

	resp, err := c.long.Do(httpReq)
	if err != nil {
		return nil, &ExportError{Body: err.Error()}
	}
	defer c.closeBody(resp.Body)

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, &ExportError{Status: resp.StatusCode, Body: readErrorBody(resp.Body)}
	}

	pdf, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, &ExportError{Status: resp.StatusCode, Body: err.Error()}
	}
	return pdf, nil
}

// DeleteSession removes a server-side session. Idempotent from the client's
// perspective: deleting an unknown session is not treated as an error.
func (c *Client) DeleteSession(ctx context.Context, sessionID string) (DeleteSessionResponse, error) {
	httpReq, err := http.NewRequestWithContext(ctx, http.MethodDelete, c.baseURL+"/session/"+url.PathEscape(sessionID), nil)
	if err != nil {
		return DeleteSessionResponse{}, fmt.Errorf("create delete request: %w", err)
	}

	resp, err := c.http.Do(httpReq)
	if err != nil {
		return DeleteSessionResponse{}, &TransportError{Op: "delete session", Err: err}
	}
	defer c.closeBody(resp.Body)

	if resp.StatusCode == http.StatusNotFound {
		return DeleteSessionResponse{Message: "session already deleted"}, nil
	}
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return DeleteSessionResponse{}, &TransportError{Op: "delete session", Status: resp.StatusCode, Body: readErrorBody(resp.Body)}
	}

	var out DeleteSessionResponse
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return DeleteSessionResponse{}, &TransportError{Op: "delete session", Status: resp.StatusCode, Err: err}
	}
	return out, nil
}

// Health pings the service liveness endpoint.
func (c *Client) Health(ctx context.Context) (HealthResponse, error) {
	var resp HealthResponse
	err := c.getJSON(ctx, "health check", "/health", &resp)
	return resp, err
}

func (c *Client) postJSON(ctx context.Context, hc *http.Client, op, path string, in, out any) error {
	body, err := json.Marshal(in)
	if err != nil {
		return fmt.Errorf("encode %s request: %w", op, err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+path, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("create %s request: %w", op, err)
	}
	req.Header.Set("Content-Type", "application/json")

	return c.do(hc, op, req, out)
}

func (c *Client) getJSON(ctx context.Context, op, path string, out any) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+path, nil)
	if err != nil {
		return fmt.Errorf("create %s request: %w", op, err)
	}
	return c.do(c.http, op, req, out)
}

func (c *Client) do(hc *http.Client, op string, req *http.Request, out any) error {
	start := time.Now()
	resp, err := hc.Do(req)
	if err != nil {
		return &TransportError{Op: op, Err: err}
	}
	defer c.closeBody(resp.Body)

	c.logger.Debug().
		Str("op", op).
		Int("status", resp.StatusCode).
		Dur("elapsed", time.Since(start)).
		Msg("service call")

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return &TransportError{Op: op, Status: resp.StatusCode, Body: readErrorBody(resp.Body)}
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return &TransportError{Op: op, Status: resp.StatusCode, Err: fmt.Errorf("decode response: %w", err)}
	}
	return nil
}

func (c *Client) closeBody(body io.ReadCloser) {
	if err := body.Close(); err != nil {
		c.logger.Debug().Err(err).Msg("close response body")
	}
}

func readErrorBody(r io.Reader) string {
	b, err := io.ReadAll(io.LimitReader(r, maxErrorBodyBytes))
	if err != nil {
		return ""
	}
	return string(bytes.TrimSpace(b))
}
