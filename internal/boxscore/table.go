package boxscore

import (
	"fmt"
	"strings"

	"github.com/PuerkitoBio/goquery"
)

// RawTable is the text of one HTML table: rows of td cell text in document order.
type RawTable [][]string

// ExtractTables returns every table in the document, in document order.
// Only td cells are collected; a row made entirely of th cells comes back empty.
func ExtractTables(html string) ([]RawTable, error) {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	if err != nil {
		return nil, fmt.Errorf("parsing HTML: %w", err)
	}

	tables := make([]RawTable, 0, 3)
	doc.Find("table").Each(func(_ int, t *goquery.Selection) {
		raw := make(RawTable, 0)
		t.Find("tr").Each(func(_ int, tr *goquery.Selection) {
			row := make([]string, 0)
			tr.Find("td").Each(func(_ int, td *goquery.Selection) {
				row = append(row, td.Text())
			})
			raw = append(raw, row)
		})
		tables = append(tables, raw)
	})

	if len(tables) < 3 {
		return nil, structuralf("found %d tables, want 3", len(tables))
	}
	return tables, nil
}
