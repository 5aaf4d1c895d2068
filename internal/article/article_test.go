package article

import (
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const page = `<!doctype html>
<html><head>
<title>Site | Tesla deliveries</title>
<meta property="og:title" content="Tesla beats delivery estimates">
<meta property="article:published_time" content="2025-12-24T13:05:00Z">
<style>.x{color:red}</style>
<script>var tracking = "ignore me";</script>
</head>
<body>
  <h1>Tesla beats   delivery estimates</h1>
  <p>Tesla delivered more vehicles
  than expected.</p><p>Shares rose premarket.</p>
  <noscript>enable js</noscript>
</body></html>`

func TestFromHTML(t *testing.T) {
	a, err := FromHTML(page, 0)
	require.NoError(t, err)
	assert.Equal(t, "Tesla beats delivery estimates", a.Title)
	assert.Equal(t, "2025-12-24T13:05:00Z", a.PublishedAt)
	assert.Equal(t, "Tesla beats delivery estimates Tesla delivered more vehicles than expected. Shares rose premarket.", a.Text)
	assert.NotContains(t, a.Text, "tracking")
	assert.NotContains(t, a.Text, "enable js")
}

func TestFromHTML_DateFallbacks(t *testing.T) {
	timeTag := `<html><body><time datetime="2025-11-03">Nov 3</time><p>Body text.</p></body></html>`
	a, err := FromHTML(timeTag, 0)
	require.NoError(t, err)
	assert.Equal(t, "2025-11-03", a.PublishedAt)

	ld := `<html><head><script type="application/ld+json">{"@graph":[{"@type":"WebPage"},{"@type":"NewsArticle","datePublished":"2025-10-01T08:00:00Z"}]}</script></head><body><p>Body.</p></body></html>`
	a, err = FromHTML(ld, 0)
	require.NoError(t, err)
	assert.Equal(t, "2025-10-01T08:00:00Z", a.PublishedAt)

	none := `<html><body><p>Body.</p></body></html>`
	a, err = FromHTML(none, 0)
	require.NoError(t, err)
	assert.Empty(t, a.PublishedAt)
}

func TestFromHTML_NoText(t *testing.T) {
	_, err := FromHTML(`<html><body><script>x()</script>   </body></html>`, 0)
	assert.True(t, errors.Is(err, ErrNoArticleText))
}

func TestFromText(t *testing.T) {
	a, err := FromText("  Fed   holds\n\trates. ", 0)
	require.NoError(t, err)
	assert.Equal(t, "Fed holds rates.", a.Text)

	_, err = FromText(" \n\t ", 0)
	assert.ErrorIs(t, err, ErrNoArticleText)
}

func TestTruncation(t *testing.T) {
	long := strings.Repeat("é", 9000)
	a, err := FromText(long, 0)
	require.NoError(t, err)
	assert.Equal(t, DefaultMaxChars, len([]rune(a.Text)))

	a, err = FromText("one two three", 7)
	require.NoError(t, err)
	assert.Equal(t, "one two", a.Text)
}
