package sitemap

import (
	"encoding/xml"
	"regexp"
	"strings"

	"golang.org/x/net/html"
)

// Parse turns sitemap XML text into URL records in document order. It never
// fails: the tiers below are tried in order and the first one that parses
// without error wins, even when it yields zero records. Completely degenerate
// input produces an empty list.
func Parse(xmlText string) []URL {
	if urls, err := parseLenient(xmlText); err == nil {
		return urls
	}
	if urls, err := parseStrict(xmlText); err == nil {
		return urls
	}
	return parseRegex(xmlText)
}

// parseLenient treats the document as markup, which tolerates unclosed tags
// and stray text the way the model sometimes emits them.
func parseLenient(xmlText string) ([]URL, error) {
	doc, err := html.Parse(strings.NewReader(xmlText))
	if err != nil {
		return nil, err
	}

	urls := []URL{}
	var walk func(*html.Node)
	walk = func(n *html.Node) {
		if n.Type == html.ElementNode && n.Data == "url" {
			if rec, ok := urlFromElement(n); ok {
				urls = append(urls, rec)
			}
			// Keep walking: markup recovery can nest a sibling entry
			// inside an unclosed one.
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}
	walk(doc)
	return urls, nil
}

// urlFromElement reads one <url> element. A missing <loc> child drops the
// whole element; missing optional children default to "".
func urlFromElement(n *html.Node) (URL, bool) {
	var rec URL
	hasLoc := false
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		if c.Type != html.ElementNode {
			continue
		}
		switch c.Data {
		case "loc":
			rec.Loc = strings.TrimSpace(textContent(c))
			hasLoc = true
		case "lastmod":
			rec.LastMod = strings.TrimSpace(textContent(c))
		case "changefreq":
			rec.ChangeFreq = strings.TrimSpace(textContent(c))
		case "priority":
			rec.Priority = strings.TrimSpace(textContent(c))
		}
	}
	return rec, hasLoc
}

func textContent(n *html.Node) string {
	var buf strings.Builder
	var extract func(*html.Node)
	extract = func(n *html.Node) {
		if n.Type == html.TextNode {
			buf.WriteString(n.Data)
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			extract(c)
		}
	}
	extract(n)
	return buf.String()
}

// nsURLSet matches the standard sitemap namespace strictly.
type nsURLSet struct {
	XMLName xml.Name `xml:"http://www.sitemaps.org/schemas/sitemap/0.9 urlset"`
	URLs    []nsURL  `xml:"http://www.sitemaps.org/schemas/sitemap/0.9 url"`
}

type nsURL struct {
	Loc        string `xml:"http://www.sitemaps.org/schemas/sitemap/0.9 loc"`
	LastMod    string `xml:"http://www.sitemaps.org/schemas/sitemap/0.9 lastmod"`
	ChangeFreq string `xml:"http://www.sitemaps.org/schemas/sitemap/0.9 changefreq"`
	Priority   string `xml:"http://www.sitemaps.org/schemas/sitemap/0.9 priority"`
}

func parseStrict(xmlText string) ([]URL, error) {
	var set nsURLSet
	if err := xml.Unmarshal([]byte(xmlText), &set); err != nil {
		return nil, err
	}
	urls := []URL{}
	for _, u := range set.URLs {
		loc := strings.TrimSpace(u.Loc)
		if loc == "" {
			continue
		}
		urls = append(urls, URL{
			Loc:        loc,
			LastMod:    strings.TrimSpace(u.LastMod),
			ChangeFreq: strings.TrimSpace(u.ChangeFreq),
			Priority:   strings.TrimSpace(u.Priority),
		})
	}
	return urls, nil
}

var locRe = regexp.MustCompile(`(?s)<loc>(.*?)</loc>`)

// parseRegex is the last-ditch tier: every <loc> pair becomes a record with
// empty optional fields.
func parseRegex(xmlText string) []URL {
	urls := []URL{}
	for _, m := range locRe.FindAllStringSubmatch(xmlText, -1) {
		urls = append(urls, URL{Loc: strings.TrimSpace(m[1])})
	}
	return urls
}
