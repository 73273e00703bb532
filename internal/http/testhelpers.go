package httpx

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"os"
	"strings"
	"time"

	"github.com/damedesign/portfolio/internal/testutil"
)

// RequireTemplateRenderer parses the real frontend templates for tests,
// skipping when the tree is not reachable from the package directory.
func RequireTemplateRenderer(t testutil.TestingTB) *TemplateRenderer {
	t.Helper()
	if _, err := os.Stat(TemplatePathFromTest); os.IsNotExist(err) {
		t.Skip("Templates not available, skipping")
		return nil
	}
	tr, err := NewTemplateRenderer(TemplateRendererConfig{
		TemplateFS: os.DirFS(TemplatePathFromTest),
	})
	if err != nil {
		t.Fatalf("parse templates: %v", err)
		return nil
	}
	return tr
}

// ContainsAll checks if a string contains all the given substrings.
func ContainsAll(s string, subs []string) bool {
	for _, sub := range subs {
		if !strings.Contains(s, sub) {
			return false
		}
	}
	return true
}

// JSONRequest encapsulates the parameters needed to execute a JSON HTTP request.
type JSONRequest struct {
	Method  string
	URL     string
	Payload any
}

// DoJSON sends req with a JSON body through client.
func DoJSON(t testutil.TestingTB, client *http.Client, req JSONRequest) *http.Response {
	t.Helper()
	if req.Method == "" || req.URL == "" {
		t.Fatalf("DoJSON requires Method and URL")
	}
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	var body bytes.Buffer
	if req.Payload != nil {
		if err := json.NewEncoder(&body).Encode(req.Payload); err != nil {
			t.Fatalf("marshal payload: %v", err)
		}
	}
	httpReq, err := http.NewRequestWithContext(ctx, req.Method, req.URL, &body)
	if err != nil {
		t.Fatalf("new request: %v", err)
	}
	if req.Payload != nil {
		httpReq.Header.Set("Content-Type", "application/json")
	}
	resp, err := client.Do(httpReq)
	if err != nil {
		t.Fatalf("do request: %v", err)
	}
	return resp
}
