package gsuite

import (
	"context"
	"fmt"
	"sort"

	"google.golang.org/api/sheets/v4"
)

// ValueOptions controls how cells are rendered on read. The revision
// list reads with FORMULA so =IMAGE(...) cells keep their URL.
type ValueOptions struct {
	ValueRender    string // FORMATTED_VALUE, UNFORMATTED_VALUE or FORMULA
	DateTimeRender string // SERIAL_NUMBER or FORMATTED_STRING
}

// Values reads a range and flattens the cells to strings. Rows keep
// their store order; trailing cells the API omits come back empty via
// the Cell helper.
func (c *Client) Values(ctx context.Context, spreadsheetID, rangeA1 string, opts *ValueOptions) ([][]string, error) {
	call := c.Sheets.Spreadsheets.Values.Get(spreadsheetID, rangeA1)
	if opts != nil {
		if opts.ValueRender != "" {
			call = call.ValueRenderOption(opts.ValueRender)
		}
		if opts.DateTimeRender != "" {
			call = call.DateTimeRenderOption(opts.DateTimeRender)
		}
	}
	res, err := call.Context(ctx).Do()
	if err != nil {
		return nil, fmt.Errorf("read range %q: %w", rangeA1, err)
	}

	rows := make([][]string, len(res.Values))
	for i, row := range res.Values {
		cells := make([]string, len(row))
		for j, cell := range row {
			cells[j] = fmt.Sprint(cell)
		}
		rows[i] = cells
	}
	return rows, nil
}

// Append inserts rows at the end of the range.
func (c *Client) Append(ctx context.Context, spreadsheetID, rangeA1 string, values [][]interface{}) error {
	_, err := c.Sheets.Spreadsheets.Values.Append(spreadsheetID, rangeA1, &sheets.ValueRange{
		Values: values,
	}).ValueInputOption("USER_ENTERED").InsertDataOption("INSERT_ROWS").Context(ctx).Do()
	if err != nil {
		return fmt.Errorf("append to %q: %w", rangeA1, err)
	}
	return nil
}

// UpdateRange overwrites a range in place.
func (c *Client) UpdateRange(ctx context.Context, spreadsheetID, rangeA1, valueInputOption string, values [][]interface{}) error {
	_, err := c.Sheets.Spreadsheets.Values.Update(spreadsheetID, rangeA1, &sheets.ValueRange{
		Values: values,
	}).ValueInputOption(valueInputOption).Context(ctx).Do()
	if err != nil {
		return fmt.Errorf("update range %q: %w", rangeA1, err)
	}
	return nil
}

// DeleteRows removes the given 1-based row positions in one batch. The
// requests are ordered highest-first inside the batch: the store applies
// them sequentially, and deleting a low row first would shift every
// higher target before its own request runs.
func (c *Client) DeleteRows(ctx context.Context, spreadsheetID string, worksheetTitle string, rowNumbers []int) error {
	if len(rowNumbers) == 0 {
		return nil
	}

	sheetID, err := c.WorksheetID(ctx, spreadsheetID, worksheetTitle)
	if err != nil {
		return err
	}

	ordered := make([]int, len(rowNumbers))
	copy(ordered, rowNumbers)
	sort.Sort(sort.Reverse(sort.IntSlice(ordered)))

	requests := make([]*sheets.Request, 0, len(ordered))
	for _, row := range ordered {
		requests = append(requests, &sheets.Request{
			DeleteDimension: &sheets.DeleteDimensionRequest{
				Range: &sheets.DimensionRange{
					SheetId:    sheetID,
					Dimension:  "ROWS",
					StartIndex: int64(row - 1),
					EndIndex:   int64(row),
				},
			},
		})
	}

	_, err = c.Sheets.Spreadsheets.BatchUpdate(spreadsheetID, &sheets.BatchUpdateSpreadsheetRequest{
		Requests: requests,
	}).Context(ctx).Do()
	if err != nil {
		return fmt.Errorf("delete %d rows: %w", len(ordered), err)
	}
	return nil
}

// Cell returns row[i] or "" when the API truncated the row.
func Cell(row []string, i int) string {
	if i < 0 || i >= len(row) {
		return ""
	}
	return row[i]
}

// IndexToA1Column converts a zero-based column index to its A1 letter.
func IndexToA1Column(index int) string {
	result := ""
	n := index + 1
	for n > 0 {
		mod := (n - 1) % 26
		result = string(rune('A'+mod)) + result
		n = (n - mod) / 26
	}
	return result
}
