package assessment

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"
)

// maxResponseBytes bounds how much of a response body is read.
const maxResponseBytes = 4 << 20

// UserHeader carries the learner identity on every request.
const UserHeader = "X-User-ID"

// Config configures a Client.
type Config struct {
	// BaseURL is the service root, e.g. "http://localhost:5000".
	BaseURL string

	// UserID identifies the learner to the service.
	UserID string

	// Timeout bounds a single request. Zero means no timeout.
	Timeout time.Duration
}

// Client talks to the remote assessment service. It is safe for concurrent use.
type Client struct {
	baseURL    string
	userID     string
	httpClient *http.Client
}

// NewClient creates a Client from cfg.
func NewClient(cfg Config) *Client {
	return &Client{
		baseURL:    strings.TrimRight(cfg.BaseURL, "/"),
		userID:     cfg.UserID,
		httpClient: &http.Client{Timeout: cfg.Timeout},
	}
}

// UserID returns the learner identity sent with each request.
func (c *Client) UserID() string {
	return c.userID
}

// FetchQuestion asks for the question at req.QuestionIndex.
func (c *Client) FetchQuestion(ctx context.Context, req FetchRequest) (*Result, error) {
	req.Answer = ""
	if req.PreviousAnswers == nil {
		req.PreviousAnswers = []AnswerRecord{}
	}
	return c.diagnostic(ctx, req)
}

// SubmitAnswer submits the learner's selected option.
func (c *Client) SubmitAnswer(ctx context.Context, req SubmitRequest) (*Result, error) {
	if req.PreviousAnswers == nil {
		req.PreviousAnswers = []AnswerRecord{}
	}
	return c.diagnostic(ctx, req)
}

// SubmitText submits a free-text answer to the fallback question.
func (c *Client) SubmitText(ctx context.Context, req TextAnswerRequest) (*Result, error) {
	return c.diagnostic(ctx, req)
}

func (c *Client) diagnostic(ctx context.Context, body any) (*Result, error) {
	fields, err := c.do(ctx, http.MethodPost, "/api/diagnostic", nil, body)
	if err != nil {
		return nil, err
	}
	var res Result
	if err := decodeField(fields, "result", &res); err != nil {
		return nil, err
	}
	return &res, nil
}

// do sends a request and returns the top-level fields of a successful
// envelope. Any envelope without success=true is an *APIError.
func (c *Client) do(ctx context.Context, method, path string, query url.Values, body any) (map[string]json.RawMessage, error) {
	op := method + " " + path

	var reader io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return nil, fmt.Errorf("marshal %s request: %w", path, err)
		}
		reader = bytes.NewReader(data)
	}

	endpoint := c.baseURL + path
	if len(query) > 0 {
		endpoint += "?" + query.Encode()
	}

	req, err := http.NewRequestWithContext(ctx, method, endpoint, reader)
	if err != nil {
		return nil, fmt.Errorf("build %s request: %w", path, err)
	}
	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if c.userID != "" {
		req.Header.Set(UserHeader, c.userID)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, &TransportError{Op: op, Err: err}
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseBytes))
	if err != nil {
		return nil, &TransportError{Op: op, Err: fmt.Errorf("read body: %w", err)}
	}

	var fields map[string]json.RawMessage
	if err := json.Unmarshal(raw, &fields); err != nil {
		return nil, &DecodeError{StatusCode: resp.StatusCode, Err: err}
	}

	var success bool
	if v, ok := fields["success"]; ok {
		_ = json.Unmarshal(v, &success)
	}
	if !success {
		// Some failures carry only "message", e.g. "All modules completed!".
		var msg string
		decodeOptional(fields, map[string]any{"error": &msg})
		if msg == "" {
			decodeOptional(fields, map[string]any{"message": &msg})
		}
		return nil, &APIError{StatusCode: resp.StatusCode, Message: msg}
	}

	return fields, nil
}

// decodeField unmarshals one top-level envelope field into out.
func decodeField(fields map[string]json.RawMessage, name string, out any) error {
	raw, ok := fields[name]
	if !ok || string(raw) == "null" {
		return &PayloadError{Err: fmt.Errorf("missing %q", name)}
	}
	if err := json.Unmarshal(raw, out); err != nil {
		return &PayloadError{Err: fmt.Errorf("field %q: %w", name, err)}
	}
	return nil
}

// decodeOptional unmarshals the top-level fields that are present, leaving
// the rest at their zero values.
func decodeOptional(fields map[string]json.RawMessage, dst map[string]any) {
	for name, out := range dst {
		if raw, ok := fields[name]; ok {
			_ = json.Unmarshal(raw, out)
		}
	}
}
