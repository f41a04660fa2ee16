package linkcheck

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
	"github.com/matsen/dhnet/internal/dataset"
)

func newTestServer(t *testing.T) *httptest.Server {
	t.Helper()
	mux := http.NewServeMux()
	mux.HandleFunc("/ok", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	})
	mux.HandleFunc("/missing", func(w http.ResponseWriter, r *http.Request) {
		http.NotFound(w, r)
	})
	mux.HandleFunc("/get-only", func(w http.ResponseWriter, r *http.Request) {
		if r.Method == http.MethodHead {
			w.WriteHeader(http.StatusMethodNotAllowed)
			return
		}
		w.Write([]byte("hello"))
	})
	srv := httptest.NewServer(mux)
	t.Cleanup(srv.Close)
	return srv
}

func TestCheck(t *testing.T) {
	srv := newTestServer(t)
	c := New(WithRate(1000), WithHTTPClient(srv.Client()))

	tests := []struct {
		name       string
		url        string
		wantOK     bool
		wantStatus int
	}{
		{"ok", srv.URL + "/ok", true, 200},
		{"not found", srv.URL + "/missing", false, 404},
		{"head rejected falls back to get", srv.URL + "/get-only", true, 200},
		{"relative url", "/ok", false, 0},
		{"mailto", "mailto:someone@example.org", false, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := c.Check(context.Background(), Link{OwnerID: "X", URL: tt.url})
			if r.OK() != tt.wantOK {
				t.Errorf("OK() = %v, want %v (result %+v)", r.OK(), tt.wantOK, r)
			}
			if r.StatusCode != tt.wantStatus {
				t.Errorf("StatusCode = %d, want %d", r.StatusCode, tt.wantStatus)
			}
		})
	}
}

func TestCheck_SetsUserAgent(t *testing.T) {
	var got atomic.Value
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		got.Store(r.UserAgent())
	}))
	defer srv.Close()

	c := New(WithRate(1000), WithHTTPClient(srv.Client()), WithUserAgent("landscape-bot"))
	c.Check(context.Background(), Link{URL: srv.URL})

	if ua, _ := got.Load().(string); ua != "landscape-bot" {
		t.Errorf("User-Agent = %q, want landscape-bot", ua)
	}
}

func TestWithTimeout_LeavesCallerClientUnchanged(t *testing.T) {
	shared := &http.Client{Timeout: time.Minute}

	for _, opts := range [][]Option{
		{WithHTTPClient(shared), WithTimeout(3 * time.Second)},
		{WithTimeout(3 * time.Second), WithHTTPClient(shared)},
	} {
		c := New(opts...)
		if c.httpClient.Timeout != 3*time.Second {
			t.Errorf("checker timeout = %v, want 3s", c.httpClient.Timeout)
		}
		if c.httpClient == shared {
			t.Error("checker uses the caller's client instead of a copy")
		}
	}
	if shared.Timeout != time.Minute {
		t.Errorf("shared client timeout = %v, want 1m", shared.Timeout)
	}
}

func TestNew_DefaultTimeout(t *testing.T) {
	if got := New().httpClient.Timeout; got != DefaultTimeout {
		t.Errorf("default timeout = %v, want %v", got, DefaultTimeout)
	}
}

func TestCheckAll_ReturnsOnlyBroken(t *testing.T) {
	srv := newTestServer(t)
	c := New(WithRate(1000), WithHTTPClient(srv.Client()))

	links := []Link{
		{OwnerID: "G1", URL: srv.URL + "/ok"},
		{OwnerID: "G2", URL: srv.URL + "/missing"},
	}
	broken, err := c.CheckAll(context.Background(), links)
	if err != nil {
		t.Fatalf("CheckAll() error = %v", err)
	}
	if len(broken) != 1 || broken[0].OwnerID != "G2" {
		t.Errorf("CheckAll() = %+v, want only G2", broken)
	}
}

func TestCheckAll_Cancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := New().CheckAll(ctx, []Link{{URL: "http://example.invalid"}})
	if !errors.Is(err, context.Canceled) {
		t.Errorf("CheckAll() error = %v, want context.Canceled", err)
	}
}

func TestCollect(t *testing.T) {
	ds := &dataset.Datasets{
		Groups:   []dataset.Group{{ID: "G1", URL: "https://lab.example.org"}, {ID: "G2"}},
		People:   []dataset.Person{{ID: "P1", ORCID: "0000-0001"}},
		Projects: []dataset.Project{{ID: "PR1", URL: "https://corpus.example.org"}},
	}
	want := []Link{
		{OwnerID: "G1", Field: "url", URL: "https://lab.example.org"},
		{OwnerID: "P1", Field: "orcid", URL: "https://orcid.org/0000-0001"},
		{OwnerID: "PR1", Field: "url", URL: "https://corpus.example.org"},
	}
	if diff := cmp.Diff(want, Collect(ds)); diff != "" {
		t.Errorf("Collect() mismatch (-want +got):\n%s", diff)
	}
}
