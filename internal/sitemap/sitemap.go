// Package sitemap recovers sitemap XML from free-form model output and parses
// it into URL records, degrading gracefully on malformed input.
package sitemap

import "encoding/xml"

// Namespace is the standard sitemap protocol namespace.
const Namespace = "http://www.sitemaps.org/schemas/sitemap/0.9"

// URL is one <url> entry. Optional fields stay "" when absent.
type URL struct {
	Loc        string `xml:"loc" json:"url"`
	LastMod    string `xml:"lastmod,omitempty" json:"lastmod"`
	ChangeFreq string `xml:"changefreq,omitempty" json:"changefreq"`
	Priority   string `xml:"priority,omitempty" json:"priority"`
}

// URLSet is a <urlset> document.
type URLSet struct {
	XMLName xml.Name `xml:"urlset"`
	Xmlns   string   `xml:"xmlns,attr"`
	URLs    []URL    `xml:"url"`
}
