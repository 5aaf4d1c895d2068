// Package article turns submitted page HTML or raw text into the article
// text and publication date an analysis needs.
package article

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/PuerkitoBio/goquery"
)

// DefaultMaxChars bounds the text sent to the predictor.
const DefaultMaxChars = 8000

var ErrNoArticleText = errors.New("no article text found")

type Article struct {
	Title       string `json:"title,omitempty"`
	Text        string `json:"text"`
	PublishedAt string `json:"publishedAt,omitempty"`
}

// FromText collapses whitespace and truncates raw article text.
func FromText(text string, maxChars int) (Article, error) {
	t := clean(text, maxChars)
	if t == "" {
		return Article{}, ErrNoArticleText
	}
	return Article{Text: t}, nil
}

// FromHTML extracts the visible body text, title and publication date of a
// page. The date is left empty when the page does not declare one.
func FromHTML(html string, maxChars int) (Article, error) {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	if err != nil {
		return Article{}, fmt.Errorf("parse html: %w", err)
	}

	a := Article{
		Title:       strings.TrimSpace(doc.Find("title").First().Text()),
		PublishedAt: publishedAt(doc),
	}
	if og, ok := doc.Find("meta[property='og:title']").Attr("content"); ok && strings.TrimSpace(og) != "" {
		a.Title = strings.TrimSpace(og)
	}

	doc.Find("script, style, noscript, template, svg").Remove()

	body := doc.Find("body")
	if body.Length() == 0 {
		body = doc.Selection
	}
	var sb strings.Builder
	collectText(body, &sb)

	a.Text = clean(sb.String(), maxChars)
	if a.Text == "" {
		return Article{}, ErrNoArticleText
	}
	return a, nil
}

func collectText(sel *goquery.Selection, sb *strings.Builder) {
	sel.Contents().Each(func(_ int, s *goquery.Selection) {
		if goquery.NodeName(s) == "#text" {
			sb.WriteString(s.Text())
			sb.WriteByte(' ')
			return
		}
		collectText(s, sb)
	})
}

var dateSelectors = []struct {
	selector string
	attr     string
}{
	{"meta[property='article:published_time']", "content"},
	{"meta[name='article:published_time']", "content"},
	{"meta[itemprop='datePublished']", "content"},
	{"meta[name='parsely-pub-date']", "content"},
	{"meta[name='pubdate']", "content"},
	{"meta[name='date']", "content"},
	{"time[datetime]", "datetime"},
}

func publishedAt(doc *goquery.Document) string {
	for _, ds := range dateSelectors {
		if v, ok := doc.Find(ds.selector).First().Attr(ds.attr); ok && strings.TrimSpace(v) != "" {
			return strings.TrimSpace(v)
		}
	}

	var found string
	doc.Find("script[type='application/ld+json']").EachWithBreak(func(_ int, s *goquery.Selection) bool {
		found = ldDatePublished(s.Text())
		return found == ""
	})
	return found
}

func ldDatePublished(raw string) string {
	var v any
	if err := json.Unmarshal([]byte(raw), &v); err != nil {
		return ""
	}
	return findDatePublished(v)
}

func findDatePublished(v any) string {
	switch n := v.(type) {
	case map[string]any:
		if d, ok := n["datePublished"].(string); ok && d != "" {
			return d
		}
		if g, ok := n["@graph"]; ok {
			return findDatePublished(g)
		}
	case []any:
		for _, item := range n {
			if d := findDatePublished(item); d != "" {
				return d
			}
		}
	}
	return ""
}

func clean(s string, maxChars int) string {
	if maxChars <= 0 {
		maxChars = DefaultMaxChars
	}
	s = strings.Join(strings.Fields(s), " ")
	if r := []rune(s); len(r) > maxChars {
		s = strings.TrimSpace(string(r[:maxChars]))
	}
	return s
}
