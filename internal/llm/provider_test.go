package llm

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
)

var answerSchema = &Schema{
	Name: "test-answer",
	Definition: map[string]any{
		"type":     "object",
		"required": []any{"answer"},
		"properties": map[string]any{
			"answer": map[string]any{"type": "string"},
		},
	},
}

func jsonHandler(status int, body any) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(status)
		json.NewEncoder(w).Encode(body)
	}
}

func anthropicMessage(text string) map[string]any {
	return map[string]any{
		"id":          "msg_test",
		"type":        "message",
		"role":        "assistant",
		"content":     []map[string]any{{"type": "text", "text": text}},
		"model":       "claude-haiku-4-5",
		"stop_reason": "end_turn",
		"usage":       map[string]any{"input_tokens": 50, "output_tokens": 30},
	}
}

func openAICompletion(text, finish string) map[string]any {
	return map[string]any{
		"id":      "chatcmpl-test",
		"object":  "chat.completion",
		"created": 1234567890,
		"model":   "gpt-4o-mini",
		"choices": []map[string]any{{
			"index":         0,
			"message":       map[string]any{"role": "assistant", "content": text},
			"finish_reason": finish,
		}},
		"usage": map[string]any{"prompt_tokens": 40, "completion_tokens": 25, "total_tokens": 65},
	}
}

func TestAnthropicGenerate(t *testing.T) {
	var got map[string]any
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		json.NewDecoder(r.Body).Decode(&got)
		jsonHandler(http.StatusOK, anthropicMessage(`{"answer":"attention"}`))(w, r)
	}))
	defer srv.Close()

	p, err := NewAnthropic("test-key", "claude-haiku-4-5", srv.URL)
	if err != nil {
		t.Fatal(err)
	}
	resp, err := p.Generate(context.Background(), Request{
		System:    "You write quiz questions.",
		Prompt:    "One question please.",
		Schema:    answerSchema,
		MaxTokens: 256,
	})
	if err != nil {
		t.Fatalf("Generate: %v", err)
	}
	if string(resp.Content) != `{"answer":"attention"}` {
		t.Errorf("Content = %s", resp.Content)
	}
	if resp.Usage.InputTokens != 50 || resp.Usage.OutputTokens != 30 {
		t.Errorf("Usage = %+v", resp.Usage)
	}
	if got["model"] != "claude-haiku-4-5" {
		t.Errorf("request model = %v", got["model"])
	}
}

func TestAnthropicOutputMustMatchSchema(t *testing.T) {
	srv := httptest.NewServer(jsonHandler(http.StatusOK, anthropicMessage(`{"other":1}`)))
	defer srv.Close()

	p, _ := NewAnthropic("test-key", "claude-haiku-4-5", srv.URL)
	_, err := p.Generate(context.Background(), Request{Prompt: "x", Schema: answerSchema, MaxTokens: 64})

	var out *OutputError
	if !errors.As(err, &out) {
		t.Fatalf("err = %T (%v), want *OutputError", err, err)
	}
}

func TestOpenAIRateLimit(t *testing.T) {
	srv := httptest.NewServer(jsonHandler(http.StatusTooManyRequests, map[string]any{
		"error": map[string]any{"type": "tokens", "message": "slow down", "code": "rate_limit_exceeded"},
	}))
	defer srv.Close()

	p, _ := NewOpenAI("test-key", "gpt-4o-mini", srv.URL+"/v1")
	_, err := p.Generate(context.Background(), Request{Prompt: "x", MaxTokens: 64})

	var rl *RateLimitError
	if !errors.As(err, &rl) {
		t.Fatalf("err = %T (%v), want *RateLimitError", err, err)
	}
}

func TestOpenAIGenerate(t *testing.T) {
	var got map[string]any
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if !strings.HasSuffix(r.URL.Path, "/chat/completions") {
			t.Errorf("path = %s", r.URL.Path)
		}
		json.NewDecoder(r.Body).Decode(&got)
		jsonHandler(http.StatusOK, openAICompletion(`{"answer":"tokens"}`, "length"))(w, r)
	}))
	defer srv.Close()

	p, err := NewOpenAI("test-key", "gpt-4o-mini", srv.URL+"/v1")
	if err != nil {
		t.Fatal(err)
	}
	resp, err := p.Generate(context.Background(), Request{
		System:    "You write quiz questions.",
		Prompt:    "One question please.",
		Schema:    answerSchema,
		MaxTokens: 256,
	})
	if err != nil {
		t.Fatalf("Generate: %v", err)
	}
	if !resp.Truncated {
		t.Error("finish_reason length should mark the response truncated")
	}
	if resp.Usage.InputTokens != 40 || resp.Usage.OutputTokens != 25 {
		t.Errorf("Usage = %+v", resp.Usage)
	}

	msgs, _ := got["messages"].([]any)
	if len(msgs) != 2 {
		t.Fatalf("sent %d messages, want system and user", len(msgs))
	}
	rf, _ := got["response_format"].(map[string]any)
	if rf["type"] != "json_schema" {
		t.Errorf("response_format = %v", got["response_format"])
	}
}

func TestOpenAIServerError(t *testing.T) {
	srv := httptest.NewServer(jsonHandler(http.StatusInternalServerError, map[string]any{
		"error": map[string]any{"type": "server_error", "message": "boom"},
	}))
	defer srv.Close()

	p, _ := NewOpenAI("test-key", "gpt-4o-mini", srv.URL+"/v1")
	_, err := p.Generate(context.Background(), Request{Prompt: "x", MaxTokens: 64})

	var un *UnavailableError
	if !errors.As(err, &un) {
		t.Fatalf("err = %T (%v), want *UnavailableError", err, err)
	}
}

func TestNewRequiresKey(t *testing.T) {
	if _, err := NewAnthropic("", "m", ""); err == nil {
		t.Error("NewAnthropic without key should fail")
	}
	if _, err := NewOpenAI("", "m", ""); err == nil {
		t.Error("NewOpenAI without key should fail")
	}
	if _, err := NewGemini(context.Background(), "", "m"); err == nil {
		t.Error("NewGemini without key should fail")
	}
}

func TestGeminiSchema(t *testing.T) {
	s := geminiSchema(map[string]any{
		"type":     "object",
		"required": []any{"question", "options"},
		"properties": map[string]any{
			"question": map[string]any{"type": "string"},
			"options":  map[string]any{"type": "array", "items": map[string]any{"type": "string"}},
			"level":    map[string]any{"type": "string", "enum": []string{"a", "b"}},
		},
	})

	if s.Type != "OBJECT" {
		t.Errorf("Type = %s", s.Type)
	}
	if len(s.Required) != 2 {
		t.Errorf("Required = %v", s.Required)
	}
	if s.Properties["options"].Items.Type != "STRING" {
		t.Errorf("options items = %s", s.Properties["options"].Items.Type)
	}
	if len(s.Properties["level"].Enum) != 2 {
		t.Errorf("level enum = %v", s.Properties["level"].Enum)
	}
}
