package api

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"

	"github.com/fentz26/papercheck/internal/models"
)

type staticToken string

func (s staticToken) Token() string { return string(s) }

func TestSubmitCheck(t *testing.T) {
	var calls int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&calls, 1)
		if r.Method != http.MethodPost || r.URL.Path != "/check/submit" {
			t.Errorf("unexpected request: %s %s", r.Method, r.URL.Path)
		}
		if got := r.Header.Get("Authorization"); got != "Bearer tok" {
			t.Errorf("Authorization = %q, want Bearer tok", got)
		}
		if r.Header.Get("X-Request-ID") == "" {
			t.Error("missing X-Request-ID header")
		}

		var cfg models.CheckConfiguration
		if err := json.NewDecoder(r.Body).Decode(&cfg); err != nil {
			t.Errorf("bad body: %v", err)
		}
		if cfg.PaperID != "p1" || cfg.TemplateID != "t1" || !cfg.CheckDuplicate {
			t.Errorf("unexpected config: %+v", cfg)
		}

		w.WriteHeader(http.StatusCreated)
		json.NewEncoder(w).Encode(map[string]string{"task_id": "tk1"})
	}))
	defer srv.Close()

	c := NewClient(srv.URL, staticToken("tok"))
	taskID, err := c.SubmitCheck(context.Background(), models.CheckConfiguration{
		PaperID:        "p1",
		TemplateID:     "t1",
		CheckDuplicate: true,
	})
	if err != nil {
		t.Fatalf("SubmitCheck failed: %v", err)
	}
	if taskID != "tk1" {
		t.Errorf("task id = %q, want tk1", taskID)
	}
	if atomic.LoadInt32(&calls) != 1 {
		t.Errorf("server saw %d submissions, want exactly 1", calls)
	}
}

func TestSubmitCheckValidatesLocally(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		t.Error("incomplete configuration must not reach the server")
	}))
	defer srv.Close()

	c := NewClient(srv.URL, staticToken(""))
	if _, err := c.SubmitCheck(context.Background(), models.CheckConfiguration{PaperID: "p1"}); !IsValidation(err) {
		t.Errorf("missing template_id: got %v, want validation error", err)
	}
	if _, err := c.SubmitCheck(context.Background(), models.CheckConfiguration{TemplateID: "t1"}); !IsValidation(err) {
		t.Errorf("missing paper_id: got %v, want validation error", err)
	}
}

func TestGetCheckStatus(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/check/status/tk1" {
			t.Errorf("path = %s", r.URL.Path)
		}
		json.NewEncoder(w).Encode(map[string]interface{}{
			"status":        "pending",
			"progress":      0,
			"current_stage": "排队中",
		})
	}))
	defer srv.Close()

	c := NewClient(srv.URL, staticToken("tok"))
	task, err := c.GetCheckStatus(context.Background(), "tk1")
	if err != nil {
		t.Fatalf("GetCheckStatus failed: %v", err)
	}
	if task.TaskID != "tk1" {
		t.Errorf("task id = %q, want tk1", task.TaskID)
	}
	if task.Status != models.CheckStatusPending || task.ProgressPercent != 0 {
		t.Errorf("got %+v, want pending at 0%%", task)
	}
	if task.CurrentStage != "排队中" {
		t.Errorf("stage = %q", task.CurrentStage)
	}
}

func TestErrorKindMapping(t *testing.T) {
	tests := []struct {
		status int
		detail string
		kind   Kind
	}{
		{http.StatusUnauthorized, "登录已过期", KindAuth},
		{http.StatusForbidden, "权限不足", KindForbidden},
		{http.StatusNotFound, "检查任务不存在", KindNotFound},
		{http.StatusUnprocessableEntity, "template_id required", KindValidation},
		{http.StatusBadRequest, "bad request", KindValidation},
		{http.StatusInternalServerError, "boom", KindTransient},
		{http.StatusBadGateway, "bad gateway", KindTransient},
	}

	for _, tt := range tests {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(tt.status)
			json.NewEncoder(w).Encode(map[string]string{"detail": tt.detail})
		}))

		c := NewClient(srv.URL, staticToken("tok"))
		_, err := c.GetCheckStatus(context.Background(), "tk1")
		srv.Close()

		if err == nil {
			t.Errorf("status %d: expected error", tt.status)
			continue
		}
		if !IsKind(err, tt.kind) {
			t.Errorf("status %d: got %v, want kind %s", tt.status, err, tt.kind)
		}
		var apiErr *Error
		if !errors.As(err, &apiErr) {
			t.Errorf("status %d: error is not *Error", tt.status)
			continue
		}
		if apiErr.Message != tt.detail {
			t.Errorf("status %d: message = %q, want %q", tt.status, apiErr.Message, tt.detail)
		}
	}
}

func TestNetworkFailureIsTransient(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	srv.Close() // nothing listening anymore

	c := NewClient(srv.URL, staticToken("tok"))
	_, err := c.GetCheckStatus(context.Background(), "tk1")
	if !IsKind(err, KindTransient) {
		t.Errorf("got %v, want transient", err)
	}
}

func TestCancelledContextIsNotAnAPIError(t *testing.T) {
	block := make(chan struct{})
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		<-block
	}))
	defer srv.Close()
	defer close(block)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	c := NewClient(srv.URL, staticToken("tok"))
	_, err := c.GetCheckStatus(ctx, "tk1")
	if err == nil {
		t.Fatal("expected error")
	}
	if IsKind(err, KindTransient) {
		t.Errorf("cancellation should surface as context error, got %v", err)
	}
	if !errors.Is(err, context.Canceled) {
		t.Errorf("got %v, want context.Canceled", err)
	}
}

func TestUnauthenticatedRequestOmitsHeader(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Header.Get("Authorization") != "" {
			t.Error("no token stored, but Authorization header sent")
		}
		w.WriteHeader(http.StatusUnauthorized)
		json.NewEncoder(w).Encode(map[string]string{"detail": "not logged in"})
	}))
	defer srv.Close()

	c := NewClient(srv.URL, staticToken(""))
	_, err := c.Me(context.Background())
	if !IsAuth(err) {
		t.Errorf("got %v, want auth error", err)
	}
}
