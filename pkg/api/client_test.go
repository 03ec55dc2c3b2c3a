package api

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/matzehuels/teamtree/pkg/cache"
	"github.com/matzehuels/teamtree/pkg/dendrogram"
	tterrors "github.com/matzehuels/teamtree/pkg/errors"
)

const payload = `{
  "icoord": [[5, 5, 15, 15]],
  "dcoord": [[0, 2, 2, 0]],
  "ivl": ["Inter", "Milan"],
  "leaves": [0, 1]
}`

func newTestClient(t *testing.T, h http.HandlerFunc, opts ...Option) *Client {
	t.Helper()
	srv := httptest.NewServer(h)
	t.Cleanup(srv.Close)

	c, err := NewClient(srv.URL+"/", append([]Option{WithHTTPClient(srv.Client())}, opts...)...)
	if err != nil {
		t.Fatalf("NewClient() error: %v", err)
	}
	return c
}

func TestFetchClustering(t *testing.T) {
	var gotQuery, gotAuth string
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodGet {
			t.Errorf("expected GET, got %s", r.Method)
		}
		if r.URL.Path != "/clustering" {
			t.Errorf("path = %q, want /clustering", r.URL.Path)
		}
		gotQuery = r.URL.RawQuery
		gotAuth = r.Header.Get("Authorization")
		w.Write([]byte(payload))
	}, WithToken("secret"))

	res, err := c.FetchClustering(context.Background(), ClusteringRequest{
		League: "serie-a", Season: "2024-25", Method: "average",
	})
	if err != nil {
		t.Fatalf("FetchClustering() error: %v", err)
	}
	if res.LeafCount() != 2 || res.LeafLabels[1] != "Milan" {
		t.Errorf("FetchClustering() = %+v", res)
	}
	if want := "league=serie-a&method=average&season=2024-25"; gotQuery != want {
		t.Errorf("query = %q, want %q", gotQuery, want)
	}
	if gotAuth != "Bearer secret" {
		t.Errorf("Authorization = %q, want Bearer secret", gotAuth)
	}
}

func TestFetchClusteringStatus(t *testing.T) {
	tests := []struct {
		name   string
		status int
		want   error
	}{
		{"not found", http.StatusNotFound, ErrNotFound},
		{"server error", http.StatusInternalServerError, ErrNetwork},
		{"bad gateway", http.StatusBadGateway, ErrNetwork},
		{"unauthorized", http.StatusUnauthorized, ErrNetwork},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var calls atomic.Int32
			c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
				calls.Add(1)
				w.WriteHeader(tt.status)
			})
			_, err := c.FetchClustering(context.Background(), ClusteringRequest{League: "EPL"})
			if !errors.Is(err, tt.want) {
				t.Errorf("FetchClustering() error = %v, want %v", err, tt.want)
			}
			if n := calls.Load(); n != 1 {
				t.Errorf("backend called %d times, want 1", n)
			}
		})
	}
}

func TestFetchClusteringMalformed(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"icoord": [[5, 5, 15]], "dcoord": [[0, 2, 2, 0]], "ivl": ["a", "b"], "leaves": [0, 1]}`))
	})
	_, err := c.FetchClustering(context.Background(), ClusteringRequest{League: "EPL"})
	if !errors.Is(err, dendrogram.ErrMalformedInput) {
		t.Errorf("FetchClustering() error = %v, want ErrMalformedInput", err)
	}
}

func TestFetchClusteringNetworkError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(http.ResponseWriter, *http.Request) {}))
	url := srv.URL
	srv.Close()

	c, err := NewClient(url, WithTimeout(time.Second))
	if err != nil {
		t.Fatalf("NewClient() error: %v", err)
	}
	if _, err := c.FetchClustering(context.Background(), ClusteringRequest{League: "EPL"}); !errors.Is(err, ErrNetwork) {
		t.Errorf("FetchClustering() error = %v, want ErrNetwork", err)
	}
}

func TestFetchClusteringCached(t *testing.T) {
	fc, err := cache.NewFileCache(t.TempDir())
	if err != nil {
		t.Fatalf("NewFileCache() error: %v", err)
	}
	defer fc.Close()

	var calls atomic.Int32
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		w.Write([]byte(payload))
	}, WithCache(fc, cache.NewDefaultKeyer()))

	ctx := context.Background()
	req := ClusteringRequest{League: "EPL", Season: "2024"}
	for i := 0; i < 3; i++ {
		if _, err := c.FetchClustering(ctx, req); err != nil {
			t.Fatalf("FetchClustering() #%d error: %v", i, err)
		}
	}
	if n := calls.Load(); n != 1 {
		t.Errorf("backend called %d times, want 1", n)
	}

	req.Refresh = true
	if _, err := c.FetchClustering(ctx, req); err != nil {
		t.Fatalf("FetchClustering(refresh) error: %v", err)
	}
	if n := calls.Load(); n != 2 {
		t.Errorf("backend called %d times after refresh, want 2", n)
	}
}

func TestClusteringRequestValidate(t *testing.T) {
	tests := []struct {
		name string
		req  ClusteringRequest
		code tterrors.Code
	}{
		{"empty league", ClusteringRequest{}, tterrors.ErrCodeInvalidInput},
		{"bad league", ClusteringRequest{League: "E P L"}, tterrors.ErrCodeInvalidInput},
		{"bad season", ClusteringRequest{League: "EPL", Season: "last"}, tterrors.ErrCodeInvalidInput},
		{"bad method", ClusteringRequest{League: "EPL", Method: "ward"}, tterrors.ErrCodeInvalidMethod},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.req.Validate()
			if !tterrors.Is(err, tt.code) {
				t.Errorf("Validate() error = %v, want code %s", err, tt.code)
			}
		})
	}
}

func TestNewClientInvalidURL(t *testing.T) {
	if _, err := NewClient("ftp://example.com"); err == nil {
		t.Error("NewClient() expected error for non-http URL")
	}
}
