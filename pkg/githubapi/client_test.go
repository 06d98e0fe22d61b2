package githubapi_test

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"dbt-change-tracker/pkg/githubapi"
)

func TestListPullRequestFiles_Pagination(t *testing.T) {
	var ts *httptest.Server

	mux := http.NewServeMux()
	mux.HandleFunc("/repos/acme/warehouse/pulls/42/files", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		switch r.URL.Query().Get("page") {
		case "", "1":
			w.Header().Set("Link", fmt.Sprintf(`<%s/repos/acme/warehouse/pulls/42/files?page=2>; rel="next"`, ts.URL))
			fmt.Fprint(w, `[
				{"filename": "models/marts/fact_sales.sql", "status": "modified"},
				{"filename": "README.md", "status": "modified"}
			]`)
		case "2":
			fmt.Fprint(w, `[{"filename": "models/staging/stg_orders.sql", "status": "added"}]`)
		default:
			w.WriteHeader(http.StatusNotFound)
		}
	})
	ts = httptest.NewServer(mux)
	defer ts.Close()

	client := githubapi.NewClient("test-token")
	if err := client.SetBaseURL(ts.URL); err != nil {
		t.Fatalf("SetBaseURL: %v", err)
	}

	files, err := client.ListPullRequestFiles(context.Background(), "acme", "warehouse", 42)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	want := []githubapi.ChangedFile{
		{Path: "models/marts/fact_sales.sql", Status: "modified"},
		{Path: "README.md", Status: "modified"},
		{Path: "models/staging/stg_orders.sql", Status: "added"},
	}
	if len(files) != len(want) {
		t.Fatalf("expected %d files, got %d: %+v", len(want), len(files), files)
	}
	for i, f := range files {
		if f != want[i] {
			t.Errorf("file %d: expected %+v, got %+v", i, want[i], f)
		}
	}
}

func TestListPullRequestFiles_Errors(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("/repos/acme/warehouse/pulls/404/files", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusNotFound)
		fmt.Fprint(w, `{"message": "Not Found"}`)
	})
	mux.HandleFunc("/repos/acme/warehouse/pulls/500/files", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusInternalServerError)
		fmt.Fprint(w, `{"message": "boom"}`)
	})
	ts := httptest.NewServer(mux)
	defer ts.Close()

	client := githubapi.NewClient("")
	if err := client.SetBaseURL(ts.URL); err != nil {
		t.Fatalf("SetBaseURL: %v", err)
	}
	ctx := context.Background()

	t.Run("404 is non-retryable", func(t *testing.T) {
		_, err := client.ListPullRequestFiles(ctx, "acme", "warehouse", 404)
		if err == nil {
			t.Fatal("expected error")
		}
		var apiErr *githubapi.APIError
		if !errors.As(err, &apiErr) {
			t.Fatalf("expected APIError, got %T: %v", err, err)
		}
		if apiErr.Status != http.StatusNotFound {
			t.Errorf("expected status 404, got %d", apiErr.Status)
		}
		if githubapi.IsRetryable(err) {
			t.Error("4xx must not be retryable")
		}
	})

	t.Run("500 is retryable", func(t *testing.T) {
		_, err := client.ListPullRequestFiles(ctx, "acme", "warehouse", 500)
		if err == nil {
			t.Fatal("expected error")
		}
		var apiErr *githubapi.APIError
		if !errors.As(err, &apiErr) {
			t.Fatalf("expected APIError, got %T: %v", err, err)
		}
		if apiErr.Status != http.StatusInternalServerError {
			t.Errorf("expected status 500, got %d", apiErr.Status)
		}
		if !githubapi.IsRetryable(err) {
			t.Error("5xx must be retryable")
		}
	})

	t.Run("network failure is retryable", func(t *testing.T) {
		down := githubapi.NewClient("")
		if err := down.SetBaseURL("http://127.0.0.1:1"); err != nil {
			t.Fatalf("SetBaseURL: %v", err)
		}
		_, err := down.ListPullRequestFiles(ctx, "acme", "warehouse", 1)
		if err == nil {
			t.Fatal("expected error")
		}
		if !githubapi.IsRetryable(err) {
			t.Error("network failure must be retryable")
		}
	})
}
