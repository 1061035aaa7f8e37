package services

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/fernandodimas/myfoil-tui/internal/shared"
)

// failingTransport stands in for a dead network. The shared doubles in
// internal/testing cannot be used here: they import this package.
type failingTransport struct {
	err error
}

func (t failingTransport) RoundTrip(*http.Request) (*http.Response, error) {
	return nil, t.err
}

func TestNewClient(t *testing.T) {
	t.Run("With Custom BaseURL and Client", func(t *testing.T) {
		customClient := &http.Client{}
		c := NewClient(ClientOpts{BaseURL: "http://example.com/", HTTPClient: customClient})

		if c.baseURL != "http://example.com" {
			t.Errorf("expected trailing slash trimmed, got %s", c.baseURL)
		}
		if c.httpClient != customClient {
			t.Error("expected custom client to be used")
		}
	})

	t.Run("With Empty BaseURL", func(t *testing.T) {
		c := NewClient(ClientOpts{})

		if c.baseURL != "http://localhost:8465" {
			t.Errorf("expected default baseURL, got %s", c.baseURL)
		}
		if c.httpClient != http.DefaultClient {
			t.Error("expected http.DefaultClient to be used")
		}
	})

	t.Run("With Replayed Headers", func(t *testing.T) {
		c := NewClient(ClientOpts{Headers: &shared.CurlHeaders{
			Headers: map[string]string{"Authorization": "Bearer token"},
			Cookie:  "session=abc",
		}})

		if c.headers["Authorization"] != "Bearer token" {
			t.Error("expected auth header to be stored")
		}
		if c.cookie != "session=abc" {
			t.Error("expected cookie to be stored")
		}
	})
}

func TestClientRequests(t *testing.T) {
	t.Run("Get Replays Headers and Cookie", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if r.Method != http.MethodGet {
				t.Errorf("expected GET, got %s", r.Method)
			}
			if got := r.Header.Get("Authorization"); got != "Bearer token" {
				t.Errorf("Authorization = %q", got)
			}
			if got := r.Header.Get("Cookie"); got != "session=abc" {
				t.Errorf("Cookie = %q", got)
			}
			w.WriteHeader(http.StatusOK)
			w.Write([]byte(`{"ok":true}`))
		}))
		defer server.Close()

		c := NewClient(ClientOpts{
			BaseURL: server.URL,
			Headers: &shared.CurlHeaders{
				Headers: map[string]string{"Authorization": "Bearer token"},
				Cookie:  "session=abc",
			},
		})
		resp, err := c.Get(context.Background(), "/test")
		if err != nil {
			t.Fatalf("expected no error, got %v", err)
		}
		if !resp.OK() {
			t.Errorf("expected 2xx, got %d", resp.StatusCode)
		}
		if string(resp.Body) != `{"ok":true}` {
			t.Errorf("body = %s", resp.Body)
		}
	})

	t.Run("Post Sends JSON Body", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if r.Method != http.MethodPost {
				t.Errorf("expected POST, got %s", r.Method)
			}
			if ct := r.Header.Get("Content-Type"); ct != "application/json" {
				t.Errorf("Content-Type = %q", ct)
			}
			var body map[string]string
			if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
				t.Fatalf("decode body: %v", err)
			}
			if body["k"] != "v" {
				t.Errorf("body = %v", body)
			}
			w.WriteHeader(http.StatusOK)
		}))
		defer server.Close()

		c := NewClient(ClientOpts{BaseURL: server.URL})
		if _, err := c.Post(context.Background(), "/test", map[string]string{"k": "v"}); err != nil {
			t.Fatalf("expected no error, got %v", err)
		}
	})

	t.Run("Failed HTTP Request", func(t *testing.T) {
		c := NewClient(ClientOpts{
			BaseURL: "http://example.com",
			HTTPClient: &http.Client{
				Transport: failingTransport{err: errors.New("connection failed")},
			},
		})

		_, err := c.Get(context.Background(), "/test")
		if !errors.Is(err, shared.ErrAPIRequest) {
			t.Errorf("expected ErrAPIRequest, got %v", err)
		}
	})

	t.Run("Cancelled Context", func(t *testing.T) {
		ctx, cancel := context.WithCancel(context.Background())
		cancel()

		c := NewClient(ClientOpts{BaseURL: "http://example.com"})
		if _, err := c.Get(ctx, "/test"); err == nil {
			t.Error("expected error for cancelled context")
		}
	})
}

func TestDecodeEnvelope(t *testing.T) {
	type payload struct {
		Name string `json:"name"`
	}

	t.Run("Enveloped Payload", func(t *testing.T) {
		body := []byte(`{"code":200,"success":true,"data":{"name":"zelda"}}`)
		out, err := DecodeEnvelope[payload](body)
		if err != nil {
			t.Fatalf("expected no error, got %v", err)
		}
		if out.Name != "zelda" {
			t.Errorf("name = %q, want zelda", out.Name)
		}
	})

	t.Run("Raw Payload", func(t *testing.T) {
		body := []byte(`{"name":"mario"}`)
		out, err := DecodeEnvelope[payload](body)
		if err != nil {
			t.Fatalf("expected no error, got %v", err)
		}
		if out.Name != "mario" {
			t.Errorf("name = %q, want mario", out.Name)
		}
	})

	t.Run("Null Data Falls Through to Raw Decode", func(t *testing.T) {
		body := []byte(`{"code":200,"success":true,"data":null}`)
		out, err := DecodeEnvelope[payload](body)
		if err != nil {
			t.Fatalf("expected no error, got %v", err)
		}
		if out.Name != "" {
			t.Errorf("name = %q, want empty", out.Name)
		}
	})

	t.Run("Enveloped Array", func(t *testing.T) {
		body := []byte(`{"code":200,"success":true,"data":[1,2,3]}`)
		out, err := DecodeEnvelope[[]int](body)
		if err != nil {
			t.Fatalf("expected no error, got %v", err)
		}
		if len(out) != 3 {
			t.Errorf("len = %d, want 3", len(out))
		}
	})

	t.Run("Malformed Body", func(t *testing.T) {
		_, err := DecodeEnvelope[payload]([]byte(`not json`))
		if !errors.Is(err, shared.ErrDecodeResponse) {
			t.Errorf("expected ErrDecodeResponse, got %v", err)
		}
	})

	t.Run("Type Mismatch Reports Shape Error", func(t *testing.T) {
		_, err := DecodeEnvelope[[]payload]([]byte(`{"name":"x"}`))
		if err == nil || !strings.Contains(err.Error(), "unexpected response shape") {
			t.Errorf("expected shape error, got %v", err)
		}
	})
}
