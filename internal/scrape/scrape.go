// Package scrape extracts the article of a legacy HTML page so it can be
// imported as a news draft.
package scrape

import (
	"errors"
	"fmt"
	"io"
	"net/url"
	"strings"
	"time"
	"unicode"

	"github.com/PuerkitoBio/goquery"
)

var ErrNoContent = errors.New("no article content found")

// Article is the result of scraping one page.
type Article struct {
	Title         string
	Lang          string // "en" or "ar"
	Excerpt       string
	Content       string // Markdown
	CoverImageURL string
	PublishedAt   *time.Time
}

// minParagraphRunes is the shortest text counted as a content paragraph.
const minParagraphRunes = 25

// Extract parses r and picks the most likely article body: an <article> or
// <main> element when present, otherwise the container holding the most
// paragraph text. Relative image URLs are resolved against base.
func Extract(r io.Reader, base *url.URL) (*Article, error) {
	doc, err := goquery.NewDocumentFromReader(r)
	if err != nil {
		return nil, fmt.Errorf("failed to parse html: %w", err)
	}
	doc.Find("script, style, noscript, nav, footer, aside, form, iframe").Remove()

	body := pickBody(doc)
	if body == nil {
		return nil, ErrNoContent
	}

	a := &Article{
		Title:         title(doc, body),
		CoverImageURL: resolve(base, meta(doc, "og:image")),
		PublishedAt:   published(doc),
	}
	a.Content = toMarkdown(body, base)
	if strings.TrimSpace(a.Content) == "" {
		return nil, ErrNoContent
	}
	if a.CoverImageURL == "" {
		if src, ok := body.Find("img").First().Attr("src"); ok {
			a.CoverImageURL = resolve(base, src)
		}
	}
	a.Excerpt = meta(doc, "og:description")
	if a.Excerpt == "" {
		a.Excerpt = meta(doc, "description")
	}
	if a.Excerpt == "" {
		a.Excerpt = firstParagraph(body)
	}
	a.Lang = language(doc, a.Title+" "+a.Excerpt)
	return a, nil
}

func pickBody(doc *goquery.Document) *goquery.Selection {
	for _, sel := range []string{"article", "main", "[role=main]", ".post-content", ".entry-content"} {
		if s := doc.Find(sel).First(); s.Length() > 0 && paragraphText(s) > 0 {
			return s
		}
	}

	var (
		best      *goquery.Selection
		bestScore int
	)
	doc.Find("div, section").Each(func(_ int, s *goquery.Selection) {
		score := 0
		s.ChildrenFiltered("p").Each(func(_ int, p *goquery.Selection) {
			if n := len([]rune(strings.TrimSpace(p.Text()))); n >= minParagraphRunes {
				score += n
			}
		})
		if score > bestScore {
			best, bestScore = s, score
		}
	})
	if best != nil {
		return best
	}
	if b := doc.Find("body"); paragraphText(b) > 0 {
		return b
	}
	return nil
}

func paragraphText(s *goquery.Selection) int {
	total := 0
	s.Find("p").Each(func(_ int, p *goquery.Selection) {
		total += len([]rune(strings.TrimSpace(p.Text())))
	})
	return total
}

func title(doc *goquery.Document, body *goquery.Selection) string {
	if t := meta(doc, "og:title"); t != "" {
		return t
	}
	if t := clean(body.Find("h1").First().Text()); t != "" {
		return t
	}
	if t := clean(doc.Find("h1").First().Text()); t != "" {
		return t
	}
	return clean(doc.Find("title").First().Text())
}

func meta(doc *goquery.Document, name string) string {
	sel := fmt.Sprintf(`meta[property=%q], meta[name=%q]`, name, name)
	v, _ := doc.Find(sel).First().Attr("content")
	return clean(v)
}

func published(doc *goquery.Document) *time.Time {
	candidates := []string{meta(doc, "article:published_time"), meta(doc, "date")}
	if dt, ok := doc.Find("time[datetime]").First().Attr("datetime"); ok {
		candidates = append(candidates, dt)
	}
	for _, c := range candidates {
		for _, layout := range []string{time.RFC3339, "2006-01-02T15:04:05", "2006-01-02"} {
			if t, err := time.Parse(layout, c); err == nil {
				return &t
			}
		}
	}
	return nil
}

func firstParagraph(body *goquery.Selection) string {
	var out string
	body.Find("p").EachWithBreak(func(_ int, p *goquery.Selection) bool {
		if t := clean(p.Text()); len([]rune(t)) >= minParagraphRunes {
			out = t
			return false
		}
		return true
	})
	return out
}

func toMarkdown(body *goquery.Selection, base *url.URL) string {
	var blocks []string
	body.Find("h1, h2, h3, h4, p, li, blockquote, img").Each(func(_ int, s *goquery.Selection) {
		switch goquery.NodeName(s) {
		case "h1":
			// The title is stored separately.
		case "h2", "h3", "h4":
			if t := clean(s.Text()); t != "" {
				blocks = append(blocks, "## "+t)
			}
		case "li":
			if t := clean(s.Text()); t != "" {
				blocks = append(blocks, "- "+t)
			}
		case "blockquote":
			if t := clean(s.Text()); t != "" {
				blocks = append(blocks, "> "+t)
			}
		case "img":
			if src, ok := s.Attr("src"); ok && src != "" {
				alt, _ := s.Attr("alt")
				blocks = append(blocks, fmt.Sprintf("![%s](%s)", clean(alt), resolve(base, src)))
			}
		default:
			if s.ParentsFiltered("li, blockquote").Length() > 0 {
				return
			}
			if t := clean(s.Text()); t != "" {
				blocks = append(blocks, t)
			}
		}
	})
	return strings.Join(blocks, "\n\n")
}

func language(doc *goquery.Document, sample string) string {
	if lang, ok := doc.Find("html").Attr("lang"); ok {
		if strings.HasPrefix(strings.ToLower(lang), "ar") {
			return "ar"
		}
		if strings.HasPrefix(strings.ToLower(lang), "en") {
			return "en"
		}
	}
	arabic, latin := 0, 0
	for _, r := range sample {
		switch {
		case unicode.Is(unicode.Arabic, r):
			arabic++
		case unicode.Is(unicode.Latin, r):
			latin++
		}
	}
	if arabic > latin {
		return "ar"
	}
	return "en"
}

func resolve(base *url.URL, ref string) string {
	ref = strings.TrimSpace(ref)
	if ref == "" || base == nil {
		return ref
	}
	u, err := url.Parse(ref)
	if err != nil {
		return ref
	}
	return base.ResolveReference(u).String()
}

func clean(s string) string {
	return strings.Join(strings.Fields(s), " ")
}
