package gsuite

import (
	"context"
	"fmt"
	"net/http"
	"strings"
	"sync"

	"google.golang.org/api/calendar/v3"
	"google.golang.org/api/drive/v3"
	"google.golang.org/api/option"
	"google.golang.org/api/sheets/v4"

	"github.com/Rafajb7/NutricionistWebPage/internal/config"
)

// Client wraps the sheets, drive and calendar services together with the
// in-process caches for resolved document and worksheet identifiers.
// Documents are configured by name, so every cold path starts with a
// drive search; the caches make that a one-time cost per process.
type Client struct {
	Sheets   *sheets.Service
	Drive    *drive.Service
	Calendar *calendar.Service
	// HTTP is the authenticated client behind the services, for the few
	// endpoints the typed clients do not cover (thumbnail links).
	HTTP *http.Client

	mu             sync.Mutex
	spreadsheetIDs map[string]string          // document name -> spreadsheet id
	firstSheets    map[string]string          // spreadsheet id -> first worksheet title
	sheetIDs       map[string]int64           // "spreadsheetID/title" -> numeric sheet id
	worksheetSets  map[string]map[string]bool // spreadsheet id -> known worksheet titles
}

func NewClient(ctx context.Context, cfg *config.Config) (*Client, error) {
	hc, err := httpClient(ctx, cfg)
	if err != nil {
		return nil, err
	}

	sheetsSvc, err := sheets.NewService(ctx, option.WithHTTPClient(hc))
	if err != nil {
		return nil, fmt.Errorf("sheets service: %w", err)
	}
	driveSvc, err := drive.NewService(ctx, option.WithHTTPClient(hc))
	if err != nil {
		return nil, fmt.Errorf("drive service: %w", err)
	}
	calendarSvc, err := calendar.NewService(ctx, option.WithHTTPClient(hc))
	if err != nil {
		return nil, fmt.Errorf("calendar service: %w", err)
	}

	return &Client{
		Sheets:         sheetsSvc,
		Drive:          driveSvc,
		Calendar:       calendarSvc,
		HTTP:           hc,
		spreadsheetIDs: make(map[string]string),
		firstSheets:    make(map[string]string),
		sheetIDs:       make(map[string]int64),
		worksheetSets:  make(map[string]map[string]bool),
	}, nil
}

func escapeQueryValue(value string) string {
	return strings.ReplaceAll(value, "'", `\'`)
}

// ResolveSpreadsheetID finds a spreadsheet by document name in drive.
func (c *Client) ResolveSpreadsheetID(ctx context.Context, name string) (string, error) {
	c.mu.Lock()
	if id, ok := c.spreadsheetIDs[name]; ok {
		c.mu.Unlock()
		return id, nil
	}
	c.mu.Unlock()

	query := fmt.Sprintf("name='%s' and mimeType='application/vnd.google-apps.spreadsheet' and trashed=false", escapeQueryValue(name))
	res, err := c.Drive.Files.List().
		Q(query).
		Fields("files(id,name,modifiedTime)").
		OrderBy("modifiedTime desc").
		PageSize(10).
		Context(ctx).Do()
	if err != nil {
		return "", fmt.Errorf("search spreadsheet %q: %w", name, err)
	}
	if len(res.Files) == 0 || res.Files[0].Id == "" {
		return "", fmt.Errorf("spreadsheet %q not found in drive", name)
	}

	id := res.Files[0].Id
	c.mu.Lock()
	c.spreadsheetIDs[name] = id
	c.mu.Unlock()
	return id, nil
}

// ResolveOrCreateSpreadsheet resolves by name and creates the document
// with the given worksheets when it does not exist yet (achievements
// bootstrap path).
func (c *Client) ResolveOrCreateSpreadsheet(ctx context.Context, name string, worksheetTitles []string) (string, error) {
	if id, err := c.ResolveSpreadsheetID(ctx, name); err == nil {
		return id, nil
	}

	var uniqueTitles []string
	seen := make(map[string]bool)
	for _, title := range worksheetTitles {
		title = strings.TrimSpace(title)
		if title == "" || seen[title] {
			continue
		}
		seen[title] = true
		uniqueTitles = append(uniqueTitles, title)
	}
	if len(uniqueTitles) == 0 {
		uniqueTitles = []string{"Marcas"}
	}

	doc := &sheets.Spreadsheet{
		Properties: &sheets.SpreadsheetProperties{Title: name},
	}
	for _, title := range uniqueTitles {
		doc.Sheets = append(doc.Sheets, &sheets.Sheet{
			Properties: &sheets.SheetProperties{Title: title},
		})
	}

	created, err := c.Sheets.Spreadsheets.Create(doc).Fields("spreadsheetId,sheets.properties.title").Context(ctx).Do()
	if err != nil {
		return "", fmt.Errorf("create spreadsheet %q: %w", name, err)
	}
	if created.SpreadsheetId == "" {
		return "", fmt.Errorf("create spreadsheet %q: missing id", name)
	}

	c.mu.Lock()
	c.spreadsheetIDs[name] = created.SpreadsheetId
	titleSet := make(map[string]bool, len(uniqueTitles))
	for _, title := range uniqueTitles {
		titleSet[title] = true
	}
	c.worksheetSets[created.SpreadsheetId] = titleSet
	c.mu.Unlock()
	return created.SpreadsheetId, nil
}

// FirstWorksheetTitle returns the title of the first worksheet, the
// default tab for documents configured without an explicit one.
func (c *Client) FirstWorksheetTitle(ctx context.Context, spreadsheetID string) (string, error) {
	c.mu.Lock()
	if title, ok := c.firstSheets[spreadsheetID]; ok {
		c.mu.Unlock()
		return title, nil
	}
	c.mu.Unlock()

	doc, err := c.Sheets.Spreadsheets.Get(spreadsheetID).Fields("sheets.properties.title").Context(ctx).Do()
	if err != nil {
		return "", fmt.Errorf("read spreadsheet %q: %w", spreadsheetID, err)
	}
	if len(doc.Sheets) == 0 || doc.Sheets[0].Properties == nil || doc.Sheets[0].Properties.Title == "" {
		return "", fmt.Errorf("spreadsheet %q has no worksheets", spreadsheetID)
	}

	title := doc.Sheets[0].Properties.Title
	c.mu.Lock()
	c.firstSheets[spreadsheetID] = title
	c.mu.Unlock()
	return title, nil
}

// WorksheetID resolves the numeric sheet id needed for row deletes.
func (c *Client) WorksheetID(ctx context.Context, spreadsheetID, title string) (int64, error) {
	cacheKey := spreadsheetID + "/" + title
	c.mu.Lock()
	if id, ok := c.sheetIDs[cacheKey]; ok {
		c.mu.Unlock()
		return id, nil
	}
	c.mu.Unlock()

	doc, err := c.Sheets.Spreadsheets.Get(spreadsheetID).Fields("sheets.properties(sheetId,title)").Context(ctx).Do()
	if err != nil {
		return 0, fmt.Errorf("read spreadsheet %q: %w", spreadsheetID, err)
	}
	for _, sheet := range doc.Sheets {
		if sheet.Properties != nil && sheet.Properties.Title == title {
			c.mu.Lock()
			c.sheetIDs[cacheKey] = sheet.Properties.SheetId
			c.mu.Unlock()
			return sheet.Properties.SheetId, nil
		}
	}
	return 0, fmt.Errorf("worksheet %q not found in spreadsheet %q", title, spreadsheetID)
}

// EnsureWorksheet adds the worksheet when the document does not have it.
func (c *Client) EnsureWorksheet(ctx context.Context, spreadsheetID, title string) error {
	title = strings.TrimSpace(title)
	if title == "" {
		return fmt.Errorf("worksheet title cannot be empty")
	}

	titles, err := c.worksheetTitles(ctx, spreadsheetID)
	if err != nil {
		return err
	}
	if titles[title] {
		return nil
	}

	_, err = c.Sheets.Spreadsheets.BatchUpdate(spreadsheetID, &sheets.BatchUpdateSpreadsheetRequest{
		Requests: []*sheets.Request{{
			AddSheet: &sheets.AddSheetRequest{
				Properties: &sheets.SheetProperties{Title: title},
			},
		}},
	}).Context(ctx).Do()
	if err != nil {
		return fmt.Errorf("add worksheet %q: %w", title, err)
	}

	c.mu.Lock()
	c.worksheetSets[spreadsheetID][title] = true
	c.mu.Unlock()
	return nil
}

func (c *Client) worksheetTitles(ctx context.Context, spreadsheetID string) (map[string]bool, error) {
	c.mu.Lock()
	if titles, ok := c.worksheetSets[spreadsheetID]; ok {
		c.mu.Unlock()
		return titles, nil
	}
	c.mu.Unlock()

	doc, err := c.Sheets.Spreadsheets.Get(spreadsheetID).Fields("sheets.properties.title").Context(ctx).Do()
	if err != nil {
		return nil, fmt.Errorf("read spreadsheet %q: %w", spreadsheetID, err)
	}
	titles := make(map[string]bool)
	for _, sheet := range doc.Sheets {
		if sheet.Properties != nil && sheet.Properties.Title != "" {
			titles[strings.TrimSpace(sheet.Properties.Title)] = true
		}
	}
	if len(titles) == 0 {
		return nil, fmt.Errorf("spreadsheet %q has no worksheets", spreadsheetID)
	}

	c.mu.Lock()
	c.worksheetSets[spreadsheetID] = titles
	c.mu.Unlock()
	return titles, nil
}

// EnsureHeaderRow writes the header row when the first row is empty.
func (c *Client) EnsureHeaderRow(ctx context.Context, spreadsheetID, worksheet string, headers []string) error {
	endCol := IndexToA1Column(len(headers) - 1)
	rangeA1 := fmt.Sprintf("'%s'!A1:%s1", worksheet, endCol)

	existing, err := c.Sheets.Spreadsheets.Values.Get(spreadsheetID, rangeA1).Context(ctx).Do()
	if err != nil {
		return fmt.Errorf("read header row: %w", err)
	}
	if len(existing.Values) > 0 {
		for _, cell := range existing.Values[0] {
			if strings.TrimSpace(fmt.Sprint(cell)) != "" {
				return nil
			}
		}
	}

	row := make([]interface{}, len(headers))
	for i, h := range headers {
		row[i] = h
	}
	_, err = c.Sheets.Spreadsheets.Values.Update(spreadsheetID, rangeA1, &sheets.ValueRange{
		Values: [][]interface{}{row},
	}).ValueInputOption("RAW").Context(ctx).Do()
	if err != nil {
		return fmt.Errorf("write header row: %w", err)
	}
	return nil
}
