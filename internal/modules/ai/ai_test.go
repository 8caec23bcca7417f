package ai

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	appcfg "github.com/impactflow/core/internal/config"
	"github.com/impactflow/core/internal/pkg/taskqueue"
)

func TestGenerateDescriptionUnconfigured(t *testing.T) {
	svc := NewService(appcfg.AIConfig{}, taskqueue.NewService(nil), nil)

	got := svc.GenerateProjectDescription(context.Background(), "clean water")
	if got != fallbackNotConfigured {
		t.Fatalf("got %q, want the not-configured fallback", got)
	}
}

func newCompatServer(t *testing.T, reply string) *httptest.Server {
	t.Helper()
	return httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/v1/chat/completions" {
			t.Errorf("unexpected path %s", r.URL.Path)
			http.NotFound(w, r)
			return
		}
		var req struct {
			Messages []struct {
				Content string `json:"content"`
			} `json:"messages"`
		}
		_ = json.NewDecoder(r.Body).Decode(&req)

		_ = json.NewEncoder(w).Encode(map[string]interface{}{
			"choices": []map[string]interface{}{
				{"message": map[string]string{"content": reply}},
			},
		})
	}))
}

func compatConfig(endpoint string) appcfg.AIConfig {
	return appcfg.AIConfig{Providers: []appcfg.AIProvider{{
		ID:       "test",
		Type:     "openai-compatible",
		APIKey:   "test-key",
		Endpoint: endpoint,
		Enabled:  true,
	}}}
}

func TestGenerateDescriptionViaCompatibleProvider(t *testing.T) {
	srv := newCompatServer(t, "A moving description.")
	defer srv.Close()

	svc := NewService(compatConfig(srv.URL), taskqueue.NewService(nil), nil)
	got := svc.GenerateProjectDescription(context.Background(), "school supplies")
	if got != "A moving description." {
		t.Fatalf("got %q", got)
	}
}

func TestGenerateDescriptionProviderFailure(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "boom", http.StatusInternalServerError)
	}))
	defer srv.Close()

	svc := NewService(compatConfig(srv.URL), taskqueue.NewService(nil), nil)
	got := svc.GenerateProjectDescription(context.Background(), "anything")
	if got != fallbackGeneration {
		t.Fatalf("got %q, want the generation fallback", got)
	}
}

func waitForTask(t *testing.T, svc *Service, id string) *taskqueue.Task {
	t.Helper()
	deadline := time.Now().Add(5 * time.Second)
	for {
		task, err := svc.TaskByID(context.Background(), id)
		if err != nil {
			t.Fatalf("TaskByID: %v", err)
		}
		if task != nil && (task.Status == taskqueue.TaskCompleted || task.Status == taskqueue.TaskFailed) {
			return task
		}
		if time.Now().After(deadline) {
			t.Fatal("task did not finish")
		}
		time.Sleep(10 * time.Millisecond)
	}
}

func TestThankYouNoteGeneration(t *testing.T) {
	srv := newCompatServer(t, "Thank you, Jane! — The Team")
	defer srv.Close()

	svc := NewService(compatConfig(srv.URL), taskqueue.NewService(nil), nil)
	task, err := svc.EnqueueThankYouNote(context.Background(), "DON-1", "Jane", 50, "Clean Water")
	if err != nil {
		t.Fatalf("enqueue: %v", err)
	}

	done := waitForTask(t, svc, task.ID)
	if !strings.Contains(string(done.Result), "Thank you, Jane") {
		t.Fatalf("result = %s", done.Result)
	}
}

func TestThankYouNoteFallsBackWhenUnconfigured(t *testing.T) {
	svc := NewService(appcfg.AIConfig{}, taskqueue.NewService(nil), nil)

	task, err := svc.EnqueueThankYouNote(context.Background(), "DON-2", "", 25, "Relief")
	if err != nil {
		t.Fatalf("enqueue: %v", err)
	}
	done := waitForTask(t, svc, task.ID)
	if !strings.Contains(string(done.Result), fallbackThankYou) {
		t.Fatalf("result = %s, want fallback note", done.Result)
	}
}

func TestThankYouNoteDeduplicatesByDonation(t *testing.T) {
	svc := NewService(appcfg.AIConfig{}, taskqueue.NewService(nil), nil)

	first, err := svc.EnqueueThankYouNote(context.Background(), "DON-3", "A", 10, "X")
	if err != nil {
		t.Fatalf("enqueue: %v", err)
	}
	second, err := svc.EnqueueThankYouNote(context.Background(), "DON-3", "A", 10, "X")
	if err != nil {
		t.Fatalf("re-enqueue: %v", err)
	}
	if first.ID != second.ID {
		t.Fatalf("dedup failed: %s vs %s", first.ID, second.ID)
	}
}

func TestBuildPrompts(t *testing.T) {
	p := buildDescriptionPrompt("clean water")
	if !strings.Contains(p, "clean water") || !strings.Contains(p, "under 150 words") {
		t.Fatalf("description prompt malformed: %q", p)
	}

	ty := buildThankYouPrompt("Jane", 50, "Clean Water")
	if !strings.Contains(ty, "Jane") || !strings.Contains(ty, "$50.00") || !strings.Contains(ty, "Clean Water") {
		t.Fatalf("thank-you prompt malformed: %q", ty)
	}
}

func TestNormalizeCompatibleEndpoint(t *testing.T) {
	cases := []struct{ in, want string }{
		{"", "https://api.openai.com"},
		{"https://llm.local/v1", "https://llm.local"},
		{"https://llm.local/", "https://llm.local"},
		{"https://llm.local/api/v1", "https://llm.local/api"},
	}
	for _, tc := range cases {
		if got := normalizeOpenAICompatibleEndpoint(tc.in); got != tc.want {
			t.Errorf("normalize(%q) = %q, want %q", tc.in, got, tc.want)
		}
	}
}
