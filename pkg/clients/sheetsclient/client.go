package sheetsclient

import (
	"context"
	"fmt"
	"strings"

	"google.golang.org/api/option"
	"google.golang.org/api/sheets/v4"

	"github.com/optcourse/allocation-portal/internal/config"
	"github.com/optcourse/allocation-portal/pkg/utils"
)

// Client wraps the Google Sheets API client used to publish allocation reports
type Client struct {
	service *sheets.Service
}

// NewClient creates a Sheets client, running the OAuth flow if no valid token is stored for env
func NewClient(ctx context.Context, oauthCfg *config.OAuthClientConfig, env string) (*Client, error) {
	oauthConfig, err := utils.GetOAuthConfig(oauthCfg)
	if err != nil {
		return nil, fmt.Errorf("failed to get oauth config: %w", err)
	}

	store, err := utils.DefaultTokenStore()
	if err != nil {
		return nil, err
	}

	token, err := utils.GetTokenWithFlow(ctx, oauthConfig, store, env)
	if err != nil {
		return nil, fmt.Errorf("failed to get oauth token: %w", err)
	}

	service, err := sheets.NewService(ctx, option.WithHTTPClient(oauthConfig.Client(ctx, token)))
	if err != nil {
		return nil, fmt.Errorf("failed to create sheets service: %w", err)
	}

	return &Client{service: service}, nil
}

// sheetID returns the id of the tab with the given title, or -1 if absent
func (c *Client) sheetID(spreadsheetID, title string) (int64, error) {
	spreadsheet, err := c.service.Spreadsheets.Get(spreadsheetID).Do()
	if err != nil {
		return 0, fmt.Errorf("failed to get spreadsheet metadata: %w", err)
	}

	for _, sheet := range spreadsheet.Sheets {
		if sheet.Properties.Title == title {
			return sheet.Properties.SheetId, nil
		}
	}
	return -1, nil
}

// CreateSheet creates a new tab in the spreadsheet
func (c *Client) CreateSheet(spreadsheetID, sheetTitle string) (int64, error) {
	req := &sheets.BatchUpdateSpreadsheetRequest{
		Requests: []*sheets.Request{{
			AddSheet: &sheets.AddSheetRequest{
				Properties: &sheets.SheetProperties{Title: sheetTitle},
			},
		}},
	}

	resp, err := c.service.Spreadsheets.BatchUpdate(spreadsheetID, req).Do()
	if err != nil {
		return 0, fmt.Errorf("failed to create sheet: %w", err)
	}

	if len(resp.Replies) == 0 || resp.Replies[0].AddSheet == nil {
		return 0, fmt.Errorf("unexpected response from create sheet")
	}

	return resp.Replies[0].AddSheet.Properties.SheetId, nil
}

// ClearSheet removes all values from a tab
func (c *Client) ClearSheet(spreadsheetID, sheetTitle string) error {
	_, err := c.service.Spreadsheets.Values.Clear(spreadsheetID, a1Range(sheetTitle, ""), &sheets.ClearValuesRequest{}).Do()
	if err != nil {
		return fmt.Errorf("failed to clear sheet %q: %w", sheetTitle, err)
	}
	return nil
}

// WriteRows overwrites a tab starting at A1
func (c *Client) WriteRows(spreadsheetID, sheetTitle string, values [][]interface{}) error {
	_, err := c.service.Spreadsheets.Values.Update(
		spreadsheetID,
		a1Range(sheetTitle, "A1"),
		&sheets.ValueRange{Values: values},
	).ValueInputOption("RAW").Do()
	if err != nil {
		return fmt.Errorf("failed to write rows to %q: %w", sheetTitle, err)
	}
	return nil
}

// a1Range builds an A1 range on a tab. The title is always quoted because report
// titles carry characters such as ':' that the API would otherwise misread.
// An empty cell addresses the whole tab.
func a1Range(sheetTitle, cell string) string {
	quoted := "'" + strings.ReplaceAll(sheetTitle, "'", "''") + "'"
	if cell == "" {
		return quoted
	}
	return quoted + "!" + cell
}
