// Package prompt renders the sitemap-generation instructions sent to the model.
package prompt

import (
	"fmt"
	"strings"
	"time"

	"github.com/mkalinic/sitegen/internal/qa"
)

// MaxPairs caps how many QA pairs are embedded verbatim; the rest is summarized
// in a single note to stay inside model token limits.
const MaxPairs = 50

const promptHeader = `You are creating a WEBSITE SITEMAP based on a client questionnaire. Your task is to generate ONLY the actual pages that the client needs for their website, NOT every possible option or feature mentioned in the questionnaire.

CRITICAL INSTRUCTIONS:
1. Focus on REAL PAGES that will exist on the website - not metadata, not features, not internal processes
2. DO NOT create pages for questionnaire options, form fields, or technical features (like "multilingual-support", "crm-functionalities", "backend-data", "event-tracking", etc.)
3. DO NOT create separate pages for languages (no /en, /de, /ru, /sr pages - languages are handled via URL parameters or subdomains, not separate pages)
4. Create pages only for actual CONTENT PAGES that visitors will navigate to
5. Keep the sitemap focused and practical - typically 10-30 pages for most websites, not 50+
6. Group related content logically into categories

Questions and answers from client questionnaire:
`

const promptRules = `

Based on this questionnaire, generate a WEBSITE SITEMAP with ONLY the actual pages needed.

IMPORTANT - Single Pages for Categories:
If the questionnaire mentions content categories like news, blog, products, projects, properties, services, etc., you MUST include:
1. The category listing page (e.g., /news, /blog, /products, /projects)
2. A single/detail page template (e.g., /news/single-news, /blog/single-post, /products/single-product, /projects/single-project)

This applies to ANY dynamic content category mentioned. Examples:
- If "news" is mentioned -> include /news AND /news/single-news
- If "blog" is mentioned -> include /blog AND /blog/single-post
- If "products" is mentioned -> include /products AND /products/single-product
- If "projects" is mentioned -> include /projects AND /projects/single-project
- If "properties" is mentioned -> include /properties AND /properties/single-property
- If "services" is mentioned -> include /services AND /services/single-service

Examples of GOOD pages:
- /about-us
- /properties (category listing)
- /properties/apartments (subcategory)
- /properties/single-property (single page template)
- /news (category listing)
- /news/single-news (single page template)
- /contact
- /privacy-policy
- /blog (if blog is mentioned)
- /blog/single-post (if blog is mentioned)

Examples of BAD pages to avoid:
- /multilingual-support (this is a feature, not a page)
- /crm-functionalities (this is a feature, not a page)
- /backend-data (this is technical, not a page)
- /en, /de, /ru, /sr (languages are not separate pages)
- /website-features (this is metadata, not a page)
- /decision-criteria (this is questionnaire content, not a page)
- /website-design-goals (this is planning content, not a page)
- /evaluating-factors (this is questionnaire content, not a page)
- /customer-feedback (this is a feature/process, not a standalone page)
- /content-updates (this is a process, not a page)
- /broken-links (this is technical, not a page)
- /competitor-seo (this is analysis, not a page)
- /website-traffic (this is analytics, not a page)

IMPORTANT RULES:
1. If the questionnaire mentions things like "what are your goals" or "what features do you need", these are PLANNING QUESTIONS, not actual pages. Only create pages for actual content sections.
2. For ANY content category (news, blog, products, projects, properties, services, articles, events, etc.), always include BOTH the listing page AND a single/detail page template.
3. Always include the standard legal pages every business website needs: /privacy-policy and /terms-of-service (plus /cookie-policy if the site targets EU visitors).
4. Keep the sitemap practical and focused - typically 15-40 pages for most websites, depending on the complexity.
5. Use clear, SEO-friendly URL structures (lowercase, hyphens, descriptive names).

The sitemap format MUST be valid XML:
<?xml version="1.0" encoding="UTF-8"?>
<urlset xmlns="http://www.sitemaps.org/schemas/sitemap/0.9">
  <url>
    <loc>https://example.com/category/page</loc>
    <lastmod>2024-01-01</lastmod>
    <changefreq>monthly</changefreq>
    <priority>0.8</priority>
  </url>
  ...
</urlset>

Requirements:
- Use only valid XML format
- Each <url> element must have <loc>, <lastmod>, <changefreq>, and <priority>
- URLs should be clean, SEO-friendly, and organized by categories
- <lastmod> format: YYYY-MM-DD (use current date: %s); frequently updated sections (news, blog) may use the current date, stable pages may be dated up to a month back, legal pages up to a year back
- <changefreq> values: always, hourly, daily, weekly, monthly, yearly, never (homepage and listings: weekly/daily, content pages: monthly, legal pages: yearly)
- <priority> values: 0.0 to 1.0 (homepage: 1.0, main pages: 0.8, subpages: 0.6, less important: 0.4)

Generate a focused, practical sitemap with ONLY the actual website pages the client needs:`

// Build renders the full prompt for a set of QA pairs. Pure function of its
// inputs; the caller supplies the current date used for lastmod guidance and
// may override the pair cap (values <= 0 fall back to MaxPairs).
func Build(pairs []qa.Pair, maxPairs int, now time.Time) string {
	if maxPairs <= 0 {
		maxPairs = MaxPairs
	}

	var sb strings.Builder
	sb.WriteString(promptHeader)

	limit := len(pairs)
	if limit > maxPairs {
		limit = maxPairs
	}
	for i, pair := range pairs[:limit] {
		if i > 0 {
			sb.WriteString("\n\n")
		}
		fmt.Fprintf(&sb, "Question %d: %s\nAnswer: %s", pair.ID, pair.Question, pair.Answer)
	}
	if len(pairs) > maxPairs {
		fmt.Fprintf(&sb, "\n\n... and %d more question-answer pairs.", len(pairs)-maxPairs)
	}

	fmt.Fprintf(&sb, promptRules, now.Format("2006-01-02"))
	return sb.String()
}
