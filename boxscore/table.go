package boxscore

import (
	"fmt"
	"math"
	"strconv"
	"strings"

	"github.com/PuerkitoBio/goquery"
)

// Table is an HTML table read as text: one header row and the body rows
// (tbody followed by tfoot), all padded to the header width.
type Table struct {
	ID     string
	Header []string
	Rows   [][]string
}

// ReadTable locates table#id and reads its header and rows. colspan cells
// are repeated across the columns they span.
func ReadTable(doc *goquery.Document, id string) (*Table, error) {
	sel := doc.Find(fmt.Sprintf(`table[id=%q]`, id)).First()
	if sel.Length() == 0 {
		return nil, fmt.Errorf("%w: %s", ErrTableNotFound, id)
	}

	var header []string
	var body []*goquery.Selection

	if headRows := sel.Find("thead tr"); headRows.Length() > 0 {
		header = rowCells(headRows.Last())
		sel.Find("tbody tr").Each(func(_ int, tr *goquery.Selection) {
			body = append(body, tr)
		})
	} else {
		// no thead: the first row is the header
		sel.Find("tbody tr").Each(func(i int, tr *goquery.Selection) {
			if i == 0 {
				header = rowCells(tr)
				return
			}
			body = append(body, tr)
		})
	}
	sel.Find("tfoot tr").Each(func(_ int, tr *goquery.Selection) {
		body = append(body, tr)
	})

	if len(header) == 0 {
		return nil, fmt.Errorf("%w: %s has no header row", ErrTableShape, id)
	}

	rows := make([][]string, 0, len(body))
	for i, tr := range body {
		cells := rowCells(tr)
		if len(cells) > len(header) {
			return nil, fmt.Errorf("%w: %s row %d has %d cells for %d columns",
				ErrTableShape, id, i, len(cells), len(header))
		}
		for len(cells) < len(header) {
			cells = append(cells, "")
		}
		rows = append(rows, cells)
	}
	if len(rows) == 0 {
		return nil, fmt.Errorf("%w: %s has no rows", ErrTableShape, id)
	}

	return &Table{ID: id, Header: header, Rows: rows}, nil
}

// Numeric coerces every column except indexCol to float64. Cells that are
// not numbers (e.g. "Did Not Play", "36:12") become NaN. It returns the
// remaining column names, the index labels and the value matrix.
func (t *Table) Numeric(indexCol int) (columns []string, index []string, values [][]float64) {
	for i, name := range t.Header {
		if i != indexCol {
			columns = append(columns, name)
		}
	}
	for _, row := range t.Rows {
		vals := make([]float64, 0, len(columns))
		for i, cell := range row {
			if i == indexCol {
				index = append(index, cell)
				continue
			}
			vals = append(vals, ParseNumber(cell))
		}
		values = append(values, vals)
	}
	return columns, index, values
}

// ParseNumber converts cell text to a float, NaN when it is not a number
func ParseNumber(s string) float64 {
	s = strings.TrimSpace(s)
	if s == "" {
		return math.NaN()
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return math.NaN()
	}
	return v
}

// rowCells returns the trimmed text of each th/td in a row, expanding colspan
func rowCells(tr *goquery.Selection) []string {
	var cells []string
	tr.ChildrenFiltered("th, td").Each(func(_ int, cell *goquery.Selection) {
		text := strings.TrimSpace(cell.Text())
		span := 1
		if v, ok := cell.Attr("colspan"); ok {
			if n, err := strconv.Atoi(strings.TrimSpace(v)); err == nil && n > 1 {
				span = n
			}
		}
		for i := 0; i < span; i++ {
			cells = append(cells, text)
		}
	})
	return cells
}
