package goodreturns

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"log/slog"

	"openfuel-backend/lib/htmlutil"

	"github.com/PuerkitoBio/goquery"
)

// ErrStructureChanged means the page no longer contains the fuel table
// markup at all. This is a different failure from a dirty row: the site
// changed shape and the extractor needs attention.
var ErrStructureChanged = errors.New("goodreturns: fuel table structure changed")

const (
	blockSelector = "div.gd-fuel-table-block"
	tableSelector = "table.gd-fuel-table-list"
)

// Record is one city/price pair exactly as it appears on the page,
// price still in its raw text form.
type Record struct {
	City  string
	Price string
}

// Extract pulls city/price rows out of the fuel table blocks. Rows that
// cannot be parsed are skipped and logged with their index and raw
// text; a page with no recognizable fuel tables fails with
// ErrStructureChanged.
func Extract(ctx context.Context, content []byte, kind string) ([]Record, error) {
	_, span := tracer.Start(ctx, "Extract")
	defer span.End()

	doc, err := goquery.NewDocumentFromReader(bytes.NewReader(content))
	if err != nil {
		return nil, err
	}

	var records []Record
	tablesFound := false

	doc.Find(blockSelector).Each(func(_ int, block *goquery.Selection) {
		table := block.Find(tableSelector)
		if table.Length() == 0 {
			return
		}
		tablesFound = true

		table.Find("tr").Each(func(row int, tr *goquery.Selection) {
			if tr.Find("th").Length() > 0 {
				return
			}

			cells := tr.Find("td")
			if cells.Length() < 2 {
				slog.Warn(
					"skipping unparsable row",
					"source", "goodreturns",
					"kind", kind,
					"row", row,
					"text", htmlutil.CleanText(tr.Text()),
				)
				return
			}

			city := htmlutil.CleanText(htmlutil.GetText(cells.Get(0)))
			price := htmlutil.CleanText(htmlutil.GetText(cells.Get(1)))
			if city == "" {
				slog.Warn(
					"skipping row with empty city cell",
					"source", "goodreturns",
					"kind", kind,
					"row", row,
					"text", htmlutil.CleanText(tr.Text()),
				)
				return
			}

			records = append(records, Record{City: city, Price: price})
		})
	})

	if len(records) == 0 {
		if !tablesFound {
			return nil, fmt.Errorf("%w: no fuel table blocks found on %s page", ErrStructureChanged, kind)
		}
		return nil, fmt.Errorf("%w: fuel tables present but no rows extracted from %s page", ErrStructureChanged, kind)
	}

	return records, nil
}
