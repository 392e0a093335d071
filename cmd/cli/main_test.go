package main

import (
	"bytes"
	"io"
	"net/http"
	"net/http/httptest"
	"os"
	"strings"
	"testing"
)

func captureOutput(t *testing.T, fn func()) string {
	t.Helper()

	origStdout := os.Stdout
	r, w, err := os.Pipe()
	if err != nil {
		t.Fatalf("failed to create pipe: %v", err)
	}
	os.Stdout = w

	fn()

	_ = w.Close()
	os.Stdout = origStdout

	var buf bytes.Buffer
	if _, err := io.Copy(&buf, r); err != nil {
		t.Fatalf("failed to read stdout: %v", err)
	}
	return buf.String()
}

func TestPrintJSON(t *testing.T) {
	out := captureOutput(t, func() {
		printJSON(struct {
			A int `json:"a"`
		}{A: 1})
	})

	expected := "{\n  \"a\": 1\n}\n"
	if out != expected {
		t.Fatalf("unexpected json output:\n%s", out)
	}
}

func TestCheckConsistency(t *testing.T) {
	t.Run("consistent ledger", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if r.URL.Path != "/api/v1/ledger/consistency" {
				t.Errorf("unexpected path %s", r.URL.Path)
			}
			w.Header().Set("Content-Type", "application/json")
			_, _ = w.Write([]byte(`{"deposit_violations":0,"inspection_violations":0,"consistent":true}`))
		}))
		defer server.Close()

		baseURL = server.URL

		out := captureOutput(t, func() {
			if err := checkConsistency(); err != nil {
				t.Errorf("unexpected error: %v", err)
			}
		})

		if !strings.Contains(out, "PASSED") {
			t.Errorf("expected PASSED in output, got:\n%s", out)
		}
	})

	t.Run("inconsistent ledger", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.Header().Set("Content-Type", "application/json")
			w.WriteHeader(http.StatusConflict)
			_, _ = w.Write([]byte(`{"deposit_violations":2,"inspection_violations":0,"consistent":false}`))
		}))
		defer server.Close()

		baseURL = server.URL

		out := captureOutput(t, func() {
			if err := checkConsistency(); err == nil {
				t.Error("expected error for inconsistent ledger")
			}
		})

		if !strings.Contains(out, "FAILED") {
			t.Errorf("expected FAILED in output, got:\n%s", out)
		}
	})
}

func TestRefundProcessCmd(t *testing.T) {
	var gotBody string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/api/v1/refunds" {
			t.Errorf("unexpected path %s", r.URL.Path)
		}
		body, _ := io.ReadAll(r.Body)
		gotBody = string(body)
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"id":"dep-1","status":"fully_refunded"}`))
	}))
	defer server.Close()

	baseURL = server.URL

	cmd := refundCmd()
	cmd.SetArgs([]string{"process", "--tenant", "tenant-1", "--property", "property-1"})

	out := captureOutput(t, func() {
		if err := cmd.Execute(); err != nil {
			t.Fatalf("command failed: %v", err)
		}
	})

	if !strings.Contains(gotBody, `"tenant_id":"tenant-1"`) {
		t.Errorf("expected tenant in request body, got %s", gotBody)
	}
	if !strings.Contains(out, "fully_refunded") {
		t.Errorf("expected refund status in output, got:\n%s", out)
	}
}
