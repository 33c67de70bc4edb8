package google

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"google.golang.org/api/option"
	gsheet "google.golang.org/api/sheets/v4"

	"taxiledger/internal/log"
	"taxiledger/internal/sheets"
)

const lastColumn = "G"

// Config selects the spreadsheet and the service-account credentials.
// CredentialsJSON wins over CredentialsFile.
type Config struct {
	SpreadsheetID   string
	SheetName       string
	CredentialsFile string
	CredentialsJSON string
	// BatchSize caps how many rows ReplaceAll sends per request.
	BatchSize int
}

type Client struct {
	svc           *gsheet.Service
	spreadsheetID string
	sheetName     string
	batchSize     int
	logger        *log.Logger
}

var _ sheets.ExpenseMirror = (*Client)(nil)

// New creates a Sheets client authenticated as a service account. Extra
// options are appended after the credential options.
func New(ctx context.Context, cfg Config, logger *log.Logger, opts ...option.ClientOption) (*Client, error) {
	if strings.TrimSpace(cfg.SpreadsheetID) == "" {
		return nil, errors.New("missing spreadsheet ID")
	}
	if strings.TrimSpace(cfg.SheetName) == "" {
		cfg.SheetName = "Expenses"
	}
	if cfg.BatchSize < 1 {
		cfg.BatchSize = 100
	}
	if logger == nil {
		logger = log.New(log.DefaultConfig())
	}

	var clientOpts []option.ClientOption
	switch {
	case cfg.CredentialsJSON != "":
		clientOpts = append(clientOpts, option.WithCredentialsJSON([]byte(cfg.CredentialsJSON)))
	case cfg.CredentialsFile != "":
		clientOpts = append(clientOpts, option.WithCredentialsFile(cfg.CredentialsFile))
	}
	clientOpts = append(clientOpts, option.WithScopes(gsheet.SpreadsheetsScope))
	clientOpts = append(clientOpts, opts...)

	svc, err := gsheet.NewService(ctx, clientOpts...)
	if err != nil {
		return nil, fmt.Errorf("create sheets service: %w", err)
	}

	return &Client{
		svc:           svc,
		spreadsheetID: cfg.SpreadsheetID,
		sheetName:     cfg.SheetName,
		batchSize:     cfg.BatchSize,
		logger:        logger.WithComponent(log.ComponentSheets),
	}, nil
}

func (c *Client) AppendExpense(ctx context.Context, r sheets.Row) error {
	vr := &gsheet.ValueRange{Values: [][]any{rowValues(r)}}
	_, err := c.svc.Spreadsheets.Values.Append(c.spreadsheetID, c.columns(), vr).
		ValueInputOption("RAW").
		InsertDataOption("INSERT_ROWS").
		Context(ctx).Do()
	if err != nil {
		return fmt.Errorf("append to sheet %s: %w", c.sheetName, err)
	}
	c.logger.DebugContext(ctx, "Row appended", log.FieldExpenseID, r.ID)
	return nil
}

// DeleteExpense clears the row whose column A equals id. The row itself is
// left in place so row numbers held by other writers stay valid.
func (c *Client) DeleteExpense(ctx context.Context, id string) error {
	rng := fmt.Sprintf("%s!A:A", c.sheetName)
	resp, err := c.svc.Spreadsheets.Values.Get(c.spreadsheetID, rng).Context(ctx).Do()
	if err != nil {
		return fmt.Errorf("read %s: %w", rng, err)
	}
	row := findRow(resp.Values, id)
	if row == 0 {
		c.logger.WarnContext(ctx, "No sheet row for deleted expense", log.FieldExpenseID, id)
		return nil
	}

	target := fmt.Sprintf("%s!A%d:%s%d", c.sheetName, row, lastColumn, row)
	if _, err := c.svc.Spreadsheets.Values.Clear(c.spreadsheetID, target, &gsheet.ClearValuesRequest{}).Context(ctx).Do(); err != nil {
		return fmt.Errorf("clear %s: %w", target, err)
	}
	c.logger.DebugContext(ctx, "Row cleared", log.FieldExpenseID, id, "range", target)
	return nil
}

// ReplaceAll clears the sheet and writes the header followed by rows, in
// chunks of the configured batch size.
func (c *Client) ReplaceAll(ctx context.Context, rows []sheets.Row) error {
	if _, err := c.svc.Spreadsheets.Values.Clear(c.spreadsheetID, c.columns(), &gsheet.ClearValuesRequest{}).Context(ctx).Do(); err != nil {
		return fmt.Errorf("clear sheet %s: %w", c.sheetName, err)
	}

	values := make([][]any, 0, len(rows)+1)
	header := make([]any, len(sheets.Header))
	for i, h := range sheets.Header {
		header[i] = h
	}
	values = append(values, header)
	for _, r := range rows {
		values = append(values, rowValues(r))
	}

	for start := 0; start < len(values); start += c.batchSize {
		end := min(start+c.batchSize, len(values))
		rng := fmt.Sprintf("%s!A%d:%s%d", c.sheetName, start+1, lastColumn, end)
		vr := &gsheet.ValueRange{Values: values[start:end]}
		if _, err := c.svc.Spreadsheets.Values.Update(c.spreadsheetID, rng, vr).ValueInputOption("RAW").Context(ctx).Do(); err != nil {
			return fmt.Errorf("write %s: %w", rng, err)
		}
	}
	c.logger.InfoContext(ctx, "Sheet rewritten", log.FieldOperation, log.OpSync, log.FieldCount, len(rows))
	return nil
}

func (c *Client) columns() string {
	return fmt.Sprintf("%s!A:%s", c.sheetName, lastColumn)
}

func rowValues(r sheets.Row) []any {
	odometer := ""
	if r.Odometer != nil {
		odometer = strconv.FormatInt(*r.Odometer, 10)
	}
	created := ""
	if !r.CreatedAt.IsZero() {
		created = r.CreatedAt.UTC().Format(time.RFC3339)
	}
	return []any{r.ID, r.Date, r.Category, r.Description, r.Amount, odometer, created}
}

// findRow returns the 1-based sheet row whose first cell equals id, or 0.
func findRow(values [][]any, id string) int {
	for i, row := range values {
		if len(row) == 0 {
			continue
		}
		if strings.TrimSpace(fmt.Sprint(row[0])) == id {
			return i + 1
		}
	}
	return 0
}
