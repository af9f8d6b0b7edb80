// Package render turns CMS markdown into sanitized HTML for detail responses.
package render

import (
	"bytes"
	"strings"
	"unicode/utf8"

	"github.com/PuerkitoBio/goquery"
	"github.com/microcosm-cc/bluemonday"
	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/extension"
	"github.com/yuin/goldmark/parser"
	"github.com/yuin/goldmark/renderer/html"
)

var (
	md = goldmark.New(
		goldmark.WithExtensions(extension.GFM),
		goldmark.WithParserOptions(
			parser.WithAutoHeadingID(),
		),
		goldmark.WithRendererOptions(
			html.WithHardWraps(),
			html.WithXHTML(),
		),
	)
	policy = newPolicy()
)

func newPolicy() *bluemonday.Policy {
	p := bluemonday.UGCPolicy()
	p.AllowImages()
	p.AllowAttrs("dir").Matching(bluemonday.Direction).Globally()
	p.AddTargetBlankToFullyQualifiedLinks(true)
	p.RequireNoReferrerOnLinks(true)
	return p
}

// Markdown converts source to sanitized HTML. Images are lazy loaded and
// block elements get dir="auto" so mixed Arabic and English text flows in
// the right direction.
func Markdown(source string) string {
	if strings.TrimSpace(source) == "" {
		return ""
	}

	var buf bytes.Buffer
	if err := md.Convert([]byte(source), &buf); err != nil {
		return policy.Sanitize(source)
	}
	return enhance(policy.SanitizeBytes(buf.Bytes()))
}

func enhance(sanitized []byte) string {
	doc, err := goquery.NewDocumentFromReader(bytes.NewReader(sanitized))
	if err != nil {
		return string(sanitized)
	}

	doc.Find("img").Each(func(_ int, s *goquery.Selection) {
		s.SetAttr("loading", "lazy")
		s.SetAttr("decoding", "async")
		s.SetAttr("referrerpolicy", "no-referrer")
	})
	doc.Find("p, li, h1, h2, h3, h4, h5, h6, blockquote").Each(func(_ int, s *goquery.Selection) {
		if _, ok := s.Attr("dir"); !ok {
			s.SetAttr("dir", "auto")
		}
	})

	out, err := doc.Find("body").Html()
	if err != nil || out == "" {
		return string(sanitized)
	}
	return out
}

// PlainText renders markdown and strips it to text, cut to at most n runes
// on a word boundary. n <= 0 means no limit.
func PlainText(source string, n int) string {
	rendered := Markdown(source)
	if rendered == "" {
		return ""
	}
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(rendered))
	if err != nil {
		return ""
	}
	text := strings.Join(strings.Fields(doc.Text()), " ")
	if n <= 0 || utf8.RuneCountInString(text) <= n {
		return text
	}
	cut := string([]rune(text)[:n])
	if i := strings.LastIndex(cut, " "); i > 0 {
		cut = cut[:i]
	}
	return cut + "…"
}
