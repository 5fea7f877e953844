package sitemap

import (
	"encoding/xml"
	"fmt"
)

// Marshal emits a normalized sitemap document for the given records.
func Marshal(urls []URL) ([]byte, error) {
	set := URLSet{
		Xmlns: Namespace,
		URLs:  urls,
	}
	body, err := xml.MarshalIndent(set, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("marshal sitemap: %w", err)
	}
	return append([]byte(xml.Header), append(body, '\n')...), nil
}
