package sitemap

import (
	"regexp"
	"strings"
)

const xmlDeclaration = `<?xml version="1.0" encoding="UTF-8"?>`

var (
	fencedXMLRe = regexp.MustCompile("(?s)```[ \t]*(?:xml|XML)[ \t]*\n(.*?)```")
	declSpanRe  = regexp.MustCompile(`(?is)<\?xml.*?</urlset\s*>`)
	urlsetRe    = regexp.MustCompile(`(?is)<urlset.*?</urlset\s*>`)
	fenceRe     = regexp.MustCompile("```[a-zA-Z]*")
)

// ExtractXML locates a sitemap XML document inside raw model output, which may
// mix prose, analysis and fenced code. It never fails: when no structured XML
// is found the input is returned unchanged and the downstream parser has to
// cope with it.
func ExtractXML(response string) string {
	// 1. An explicitly xml-fenced block.
	if m := fencedXMLRe.FindStringSubmatch(response); len(m) > 1 {
		return ensureDeclaration(strings.TrimSpace(m[1]))
	}

	// 2. The span from the first XML declaration through </urlset>.
	if m := declSpanRe.FindString(response); m != "" {
		return strings.TrimSpace(fenceRe.ReplaceAllString(m, ""))
	}

	// 3. A bare <urlset> element.
	if m := urlsetRe.FindString(response); m != "" {
		return ensureDeclaration(strings.TrimSpace(m))
	}

	return response
}

func ensureDeclaration(xmlText string) string {
	if strings.HasPrefix(strings.TrimSpace(xmlText), "<?xml") {
		return xmlText
	}
	return xmlDeclaration + "\n" + xmlText
}
