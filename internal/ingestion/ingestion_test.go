package ingestion

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const postingHTML = `<html>
<head><title>Job</title><script>trackEverything()</script></head>
<body>
  <nav>Home | Jobs | About</nav>
  <div class="job-description">
    <h1>Senior Go Engineer</h1>
    <p>We are hiring a backend engineer.</p>

    <p>You will build orchestration services in Go.</p>
  </div>
  <footer>Copyright Acme</footer>
</body>
</html>`

func TestExtractJobTextPrefersJobContainer(t *testing.T) {
	text, err := ExtractJobText(postingHTML)
	require.NoError(t, err)

	assert.Contains(t, text, "Senior Go Engineer")
	assert.Contains(t, text, "orchestration services in Go")
	assert.NotContains(t, text, "Home | Jobs", "navigation is stripped")
	assert.NotContains(t, text, "Copyright Acme", "footer is stripped")
	assert.NotContains(t, text, "trackEverything", "scripts are stripped")
	assert.NotContains(t, text, "\n\n", "empty lines are collapsed")
}

func TestExtractJobTextFallsBackToBody(t *testing.T) {
	text, err := ExtractJobText(`<html><body><p>Plain posting text.</p></body></html>`)
	require.NoError(t, err)
	assert.Equal(t, "Plain posting text.", text)
}

func TestFromURL(t *testing.T) {
	var gotUserAgent string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotUserAgent = r.Header.Get("User-Agent")
		_, _ = w.Write([]byte(postingHTML))
	}))
	defer srv.Close()

	text, err := FromURL(context.Background(), srv.URL, nil)
	require.NoError(t, err)
	assert.Contains(t, text, "Senior Go Engineer")
	assert.Equal(t, DefaultUserAgent, gotUserAgent)
}

func TestFromURLRejectsInvalidURL(t *testing.T) {
	_, err := FromURL(context.Background(), "not-a-url", nil)
	assert.Error(t, err)
}

func TestFromURLRejectsErrorStatus(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	}))
	defer srv.Close()

	_, err := FromURL(context.Background(), srv.URL, nil)
	assert.Error(t, err)
}

func TestFromURLRejectsEmptyPage(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte(`<html><body>   </body></html>`))
	}))
	defer srv.Close()

	_, err := FromURL(context.Background(), srv.URL, nil)
	assert.Error(t, err)
}

func TestFromURLRejectsEmptyPageWithBrowserFallback(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte(`<html><body><script>renderEverything()</script></body></html>`))
	}))
	defer srv.Close()

	opts := DefaultOptions()
	opts.UseBrowser = true
	opts.Timeout = 5 * time.Second

	text, err := FromURL(context.Background(), srv.URL, opts)
	assert.Error(t, err, "a posting with no extractable text must error even when the browser fallback cannot improve on it")
	assert.Empty(t, text)
}

func TestCleanWhitespace(t *testing.T) {
	got := cleanWhitespace("  first line  \n\n\n\tsecond line\n   \n")
	assert.Equal(t, "first line\nsecond line", got)
}
