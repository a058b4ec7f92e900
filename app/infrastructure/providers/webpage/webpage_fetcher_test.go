package webpage

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"leadgen.ai/leadgen-api/app/domain/common"
	"leadgen.ai/leadgen-api/app/domain/provider"
	"leadgen.ai/leadgen-api/app/utils/httpclients"
)

const page = `<html><head><title>Acme Corp</title><script>track()</script></head>
<body><nav>Home | About</nav><main><h2>Sustainability</h2><p>Acme published its <a href="/report.pdf">2023 report</a>.</p></main>
<footer>Copyright</footer></body></html>`

func newFetcher() *Fetcher {
	return New(provider.NewGate("webpage", provider.RetryPolicy{MaxAttempts: 1}, 0), httpclients.NewClient(clientName, 0))
}

func TestToMarkdownStripsChrome(t *testing.T) {
	md, err := newFetcher().ToMarkdown(page, "https://acme.test")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !strings.HasPrefix(md, "# Acme Corp") {
		t.Fatalf("expected title heading, got %q", md)
	}
	if !strings.Contains(md, "Sustainability") || !strings.Contains(md, "2023 report") {
		t.Fatalf("expected main content, got %q", md)
	}
	for _, noise := range []string{"track()", "Home | About", "Copyright"} {
		if strings.Contains(md, noise) {
			t.Fatalf("expected %q to be stripped, got %q", noise, md)
		}
	}
}

func TestFetchServesHTMLAndText(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path == "/notes.txt" {
			w.Header().Set("Content-Type", "text/plain")
			_, _ = w.Write([]byte("plain notes\n"))
			return
		}
		w.Header().Set("Content-Type", "text/html; charset=utf-8")
		_, _ = w.Write([]byte(page))
	}))
	defer server.Close()

	f := newFetcher()
	md, err := f.Fetch(context.Background(), server.URL+"/about")
	if err != nil || !strings.Contains(md, "Sustainability") {
		t.Fatalf("got %q, %v", md, err)
	}
	text, err := f.Fetch(context.Background(), server.URL+"/notes.txt")
	if err != nil || text != "plain notes" {
		t.Fatalf("got %q, %v", text, err)
	}
}

func TestFetchRejectsNonHTTP(t *testing.T) {
	_, err := newFetcher().Fetch(context.Background(), "ftp://acme.test")
	if common.KindOf(err) != common.KindValidation {
		t.Fatalf("expected validation error, got %v", err)
	}
}
