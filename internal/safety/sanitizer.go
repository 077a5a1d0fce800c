package safety

import (
	"github.com/microcosm-cc/bluemonday"
	"regexp"
	"strings"
)

var richTextPolicy = newRichTextPolicy()

var plainTextPolicy = bluemonday.StrictPolicy()

// StrictPolicy encodes quotes; plain text fields keep them literal.
var plainTextUnescaper = strings.NewReplacer("&#39;", "'", "&#34;", `"`)

func newRichTextPolicy() *bluemonday.Policy {
	p := bluemonday.NewPolicy()

	p.AllowElements("p", "br", "strong", "em", "b", "i", "u", "ul", "ol", "li",
		"h1", "h2", "h3", "h4", "h5", "h6", "a", "span", "div")

	p.AllowAttrs("href").OnElements("a")
	p.AllowAttrs("target").Matching(regexp.MustCompile(`^_(blank|self|parent|top)$`)).OnElements("a")
	p.AllowAttrs("class").Matching(bluemonday.SpaceSeparatedTokens).Globally()

	p.AllowURLSchemes("http", "https", "mailto")
	p.AllowRelativeURLs(true)
	p.RequireParseableURLs(true)

	// rel is not allowed, so every link ends up with rel="noreferrer" only
	p.RequireNoReferrerOnLinks(true)

	return p
}

// SanitizeHTML keeps the rich-text allow-list and drops everything else.
func SanitizeHTML(input string) string {
	if input == "" {
		return ""
	}
	return richTextPolicy.Sanitize(input)
}

// SanitizePlainText strips every tag and trims the result.
func SanitizePlainText(input string) string {
	if input == "" {
		return ""
	}
	return strings.TrimSpace(plainTextUnescaper.Replace(plainTextPolicy.Sanitize(input)))
}
