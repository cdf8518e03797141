// Package inspect extracts structured signals from a fetched HTML body.
package inspect

import (
	"bytes"
	"database/sql"
	"strings"

	"github.com/PuerkitoBio/goquery"

	"pagewatch/internal/pagewatch"
)

// Inspect parses body as HTML and extracts the page signals. Parsing is
// best effort: malformed or non-HTML input never fails, it just yields
// absent fields. The three extractions are independent of each other.
func Inspect(body []byte) pagewatch.Signals {
	var signals pagewatch.Signals

	doc, err := goquery.NewDocumentFromReader(bytes.NewReader(body))
	if err != nil {
		return signals
	}

	if title := doc.Find("title").First(); title.Length() > 0 {
		signals.Title = sql.NullString{String: strings.TrimSpace(title.Text()), Valid: true}
	}
	if heading := doc.Find("h1").First(); heading.Length() > 0 {
		signals.Heading = sql.NullString{String: strings.TrimSpace(heading.Text()), Valid: true}
	}
	if meta := doc.Find(`meta[name="description"]`).First(); meta.Length() > 0 {
		// An empty content attribute is present-but-empty, not absent.
		if content, ok := meta.Attr("content"); ok {
			signals.Description = sql.NullString{String: content, Valid: true}
		}
	}

	return signals
}
