package api

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
)

func TestCreateParameterSendsZeroThresholds(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost || r.URL.Path != "/parameters" {
			t.Errorf("unexpected request: %s %s", r.Method, r.URL.Path)
		}
		var body map[string]interface{}
		if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
			t.Fatalf("bad body: %v", err)
		}
		// Zero is a real threshold value; it must reach the server.
		if v, ok := body["format_excellent_threshold"]; !ok || v.(float64) != 0 {
			t.Errorf("format_excellent_threshold = %v, want 0 present", v)
		}
		if body["name"] != "默认参数" {
			t.Errorf("name = %v", body["name"])
		}
		w.WriteHeader(http.StatusCreated)
		json.NewEncoder(w).Encode(map[string]interface{}{"id": "pm1", "name": "默认参数"})
	}))
	defer srv.Close()

	c := NewClient(srv.URL, staticToken("tok"))
	param, err := c.CreateParameter(context.Background(), ParameterSpec{
		Name:                   "默认参数",
		DuplicateRateThreshold: 15.0,
		FormatGoodThreshold:    3,
		ApplicationScope:       "global",
	})
	if err != nil {
		t.Fatalf("CreateParameter failed: %v", err)
	}
	if param.ID != "pm1" {
		t.Errorf("id = %q, want pm1", param.ID)
	}
}

func TestCreateParameterRequiresName(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		t.Error("unnamed parameter set must not reach the server")
	}))
	defer srv.Close()

	c := NewClient(srv.URL, staticToken("tok"))
	if _, err := c.CreateParameter(context.Background(), ParameterSpec{}); !IsValidation(err) {
		t.Errorf("got %v, want validation error", err)
	}
}

func TestLockAndUnlockParameter(t *testing.T) {
	var paths []string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost {
			t.Errorf("method = %s, want POST", r.Method)
		}
		paths = append(paths, r.URL.Path)
		json.NewEncoder(w).Encode(map[string]string{"message": "ok"})
	}))
	defer srv.Close()

	c := NewClient(srv.URL, staticToken("tok"))
	if err := c.LockParameter(context.Background(), "pm1"); err != nil {
		t.Fatalf("LockParameter failed: %v", err)
	}
	if err := c.UnlockParameter(context.Background(), "pm1"); err != nil {
		t.Fatalf("UnlockParameter failed: %v", err)
	}
	if len(paths) != 2 || paths[0] != "/parameters/pm1/lock" || paths[1] != "/parameters/pm1/unlock" {
		t.Errorf("paths = %v", paths)
	}
}

func TestUpdateLockedParameterIsForbidden(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusForbidden)
		json.NewEncoder(w).Encode(map[string]string{"detail": "参数已被锁定，无法修改"})
	}))
	defer srv.Close()

	c := NewClient(srv.URL, staticToken("tok"))
	name := "new name"
	_, err := c.UpdateParameter(context.Background(), "pm1", ParameterUpdate{Name: &name})
	if !IsKind(err, KindForbidden) {
		t.Errorf("got %v, want forbidden", err)
	}
}

func TestUpdateParameterOmitsUnsetFields(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var body map[string]interface{}
		if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
			t.Fatalf("bad body: %v", err)
		}
		if len(body) != 1 {
			t.Errorf("body = %v, want only duplicate_rate_threshold", body)
		}
		if body["duplicate_rate_threshold"] != 20.0 {
			t.Errorf("duplicate_rate_threshold = %v, want 20", body["duplicate_rate_threshold"])
		}
		json.NewEncoder(w).Encode(map[string]interface{}{"id": "pm1"})
	}))
	defer srv.Close()

	c := NewClient(srv.URL, staticToken("tok"))
	rate := 20.0
	if _, err := c.UpdateParameter(context.Background(), "pm1", ParameterUpdate{DuplicateRateThreshold: &rate}); err != nil {
		t.Fatalf("UpdateParameter failed: %v", err)
	}
}

func TestListPreviousPapersFilters(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/previous-papers" {
			t.Errorf("path = %s", r.URL.Path)
		}
		q := r.URL.Query()
		if q.Get("year") != "2024" || q.Get("department") != "计算机学院" {
			t.Errorf("query = %v", q)
		}
		json.NewEncoder(w).Encode(map[string]interface{}{
			"data": []map[string]interface{}{
				{"id": "pp1", "title": "基于深度学习的查重方法", "author": "张三", "year": 2024},
			},
			"total": 1,
		})
	}))
	defer srv.Close()

	c := NewClient(srv.URL, staticToken("tok"))
	list, err := c.ListPreviousPapers(context.Background(), 0, 2024, "计算机学院")
	if err != nil {
		t.Fatalf("ListPreviousPapers failed: %v", err)
	}
	if len(list.Data) != 1 || list.Data[0].Author != "张三" {
		t.Errorf("got %+v", list.Data)
	}
}

func TestUploadPreviousPaperValidatesLocally(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		t.Error("incomplete metadata must not reach the server")
	}))
	defer srv.Close()

	c := NewClient(srv.URL, staticToken("tok"))
	_, err := c.UploadPreviousPaper(context.Background(), "x.docx", PreviousPaperMeta{Title: "t"})
	if !IsValidation(err) {
		t.Errorf("got %v, want validation error", err)
	}
}

func TestOverviewStatistics(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/statistics/overview" {
			t.Errorf("path = %s", r.URL.Path)
		}
		json.NewEncoder(w).Encode(map[string]int{
			"total_papers":      12,
			"graduation_papers": 8,
			"course_papers":     4,
			"total_checks":      30,
			"total_users":       5,
		})
	}))
	defer srv.Close()

	c := NewClient(srv.URL, staticToken("tok"))
	stats, err := c.OverviewStatistics(context.Background())
	if err != nil {
		t.Fatalf("OverviewStatistics failed: %v", err)
	}
	if stats.TotalPapers != 12 || stats.GraduationPapers != 8 || stats.TotalChecks != 30 {
		t.Errorf("got %+v", stats)
	}
}
