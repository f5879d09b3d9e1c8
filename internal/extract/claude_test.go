package extract

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/dgallion1/steelbid/internal/drawing"
)

func newTestClaude(t *testing.T, h http.HandlerFunc) (*ClaudeClient, *LLMStats) {
	t.Helper()
	srv := httptest.NewServer(h)
	t.Cleanup(srv.Close)
	stats := NewLLMStats(time.Hour)
	return NewClaudeClient("test-key", "claude-test", srv.URL, stats), stats
}

func TestClaudeClient_ExtractMembersText(t *testing.T) {
	var got anthropicRequest
	c, stats := newTestClaude(t, func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/v1/messages" {
			t.Errorf("unexpected path %s", r.URL.Path)
		}
		if r.Header.Get("x-api-key") != "test-key" {
			t.Errorf("missing api key header")
		}
		if err := json.NewDecoder(r.Body).Decode(&got); err != nil {
			t.Errorf("decode request: %v", err)
		}
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"content":[{"type":"text","text":"` +
			"```json\\n[{\\\"mark\\\":\\\"B1\\\",\\\"section\\\":\\\"W8x31\\\",\\\"quantity\\\":2,\\\"length_ft\\\":20}]\\n```" +
			`"}]}`))
	})

	members, err := c.ExtractMembers(context.Background(), Request{
		Title: "S-201",
		Batch: drawing.Batch{Text: "B1 W8x31 (2) 20'-0\"", PageStart: 1, PageEnd: 1},
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(members) != 1 || members[0].Section != "W8x31" || members[0].Quantity.Value != 2 {
		t.Errorf("unexpected members %+v", members)
	}
	if got.Model != "claude-test" || len(got.Messages) != 1 {
		t.Fatalf("unexpected request %+v", got)
	}
	blocks := got.Messages[0].Content
	if len(blocks) != 1 || blocks[0].Type != "text" || !strings.Contains(blocks[0].Text, "B1 W8x31") {
		t.Errorf("expected a single text block with the batch, got %+v", blocks)
	}
	if snap := stats.Snapshot(); snap.Count != 1 || snap.Failures != 0 {
		t.Errorf("stats = %+v", snap)
	}
}

func TestClaudeClient_AttachmentBlocks(t *testing.T) {
	tests := []struct {
		mime     string
		wantType string
	}{
		{"application/pdf", "document"},
		{"image/png", "image"},
	}
	for _, tt := range tests {
		t.Run(tt.mime, func(t *testing.T) {
			var got anthropicRequest
			c, _ := newTestClaude(t, func(w http.ResponseWriter, r *http.Request) {
				json.NewDecoder(r.Body).Decode(&got)
				w.Write([]byte(`{"content":[{"type":"text","text":"[]"}]}`))
			})
			_, err := c.ExtractMembers(context.Background(), Request{
				Batch: drawing.Batch{Attachment: &drawing.Attachment{MIMEType: tt.mime, Data: []byte("abc")}},
			})
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			blocks := got.Messages[0].Content
			if len(blocks) != 2 {
				t.Fatalf("expected attachment and prompt blocks, got %d", len(blocks))
			}
			if blocks[0].Type != tt.wantType || blocks[0].Source == nil {
				t.Fatalf("unexpected attachment block %+v", blocks[0])
			}
			if blocks[0].Source.MediaType != tt.mime || blocks[0].Source.Data != "YWJj" {
				t.Errorf("unexpected source %+v", blocks[0].Source)
			}
			if !strings.Contains(blocks[1].Text, "The drawing is attached.") {
				t.Errorf("prompt should mention the attachment")
			}
		})
	}
}

func TestClaudeClient_RetryableStatus(t *testing.T) {
	for _, code := range []int{http.StatusTooManyRequests, http.StatusInternalServerError, 529} {
		c, stats := newTestClaude(t, func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(code)
			w.Write([]byte(`{"error":{"type":"overloaded_error","message":"busy"}}`))
		})
		_, err := c.ExtractMembers(context.Background(), Request{Batch: drawing.Batch{Text: "x"}})
		var re *RetryableError
		if !errors.As(err, &re) || re.StatusCode != code {
			t.Errorf("status %d: expected RetryableError, got %v", code, err)
		}
		if snap := stats.Snapshot(); snap.Failures != 1 {
			t.Errorf("status %d: expected failure recorded, got %+v", code, snap)
		}
	}
}

func TestClaudeClient_RetryAfterHeader(t *testing.T) {
	c, _ := newTestClaude(t, func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Retry-After", "12")
		w.WriteHeader(http.StatusTooManyRequests)
	})
	_, err := c.ExtractMembers(context.Background(), Request{Batch: drawing.Batch{Text: "x"}})
	var re *RetryableError
	if !errors.As(err, &re) {
		t.Fatalf("expected RetryableError, got %v", err)
	}
	if re.RetryAfter != 12*time.Second {
		t.Errorf("RetryAfter = %v", re.RetryAfter)
	}
}

func TestParseRetryAfter(t *testing.T) {
	tests := []struct {
		in   string
		want time.Duration
	}{
		{"", 0},
		{"3", 3 * time.Second},
		{" 10 ", 10 * time.Second},
		{"-1", 0},
		{"Wed, 21 Oct 2026 07:28:00 GMT", 0},
	}
	for _, tt := range tests {
		if got := parseRetryAfter(tt.in); got != tt.want {
			t.Errorf("parseRetryAfter(%q) = %v, want %v", tt.in, got, tt.want)
		}
	}
}

func TestClaudeClient_ClientErrorNotRetryable(t *testing.T) {
	c, _ := newTestClaude(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadRequest)
		w.Write([]byte(`{"error":{"type":"invalid_request_error","message":"bad"}}`))
	})
	_, err := c.ExtractMembers(context.Background(), Request{Batch: drawing.Batch{Text: "x"}})
	if err == nil {
		t.Fatal("expected error")
	}
	var re *RetryableError
	if errors.As(err, &re) {
		t.Errorf("400 should not be retryable: %v", err)
	}
}

func TestClaudeClient_EmptyContent(t *testing.T) {
	c, _ := newTestClaude(t, func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"content":[]}`))
	})
	if _, err := c.ExtractMembers(context.Background(), Request{Batch: drawing.Batch{Text: "x"}}); err == nil {
		t.Error("expected error for empty content")
	}
}

func TestClaudeClient_Model(t *testing.T) {
	c := NewClaudeClient("k", "claude-x", "", nil)
	if c.Model() != "claude-x" {
		t.Errorf("Model() = %q", c.Model())
	}
	if c.baseURL != defaultAnthropicURL {
		t.Errorf("baseURL = %q", c.baseURL)
	}
	c.Close()
}
