// Package sheets implements the SheetSource port against the Google Sheets
// API. Only single-cell reads are performed; the core never writes back.
package sheets

import (
	"context"
	"fmt"
	"strings"

	"github.com/rs/zerolog"
	"google.golang.org/api/option"
	"google.golang.org/api/sheets/v4"

	"github.com/mtaahfunnels/safewebedit-backend-sub001/internal/ports"
)

// GoogleSheetSource reads cell values from Google Sheets using an API key.
type GoogleSheetSource struct {
	svc    *sheets.Service
	logger zerolog.Logger
}

// NewGoogleSheetSource builds a read-only sheets client from an API key.
func NewGoogleSheetSource(ctx context.Context, apiKey string, logger zerolog.Logger) (*GoogleSheetSource, error) {
	svc, err := sheets.NewService(ctx, option.WithAPIKey(apiKey))
	if err != nil {
		return nil, fmt.Errorf("failed to create sheets client: %w", err)
	}
	return &GoogleSheetSource{svc: svc, logger: logger}, nil
}

var _ ports.SheetSource = (*GoogleSheetSource)(nil)

// CellValue fetches the value at (column, rowIdentifier) in the given
// spreadsheet, e.g. column "B" row "5" reads B5. An empty cell yields "".
func (g *GoogleSheetSource) CellValue(ctx context.Context, sheetID, column, rowIdentifier string) (string, error) {
	cell := fmt.Sprintf("%s%s", strings.ToUpper(column), rowIdentifier)

	resp, err := g.svc.Spreadsheets.Values.Get(sheetID, cell).Context(ctx).Do()
	if err != nil {
		return "", fmt.Errorf("failed to read cell %s of sheet %s: %w", cell, sheetID, err)
	}
	if len(resp.Values) == 0 || len(resp.Values[0]) == 0 {
		return "", nil
	}
	value := fmt.Sprintf("%v", resp.Values[0][0])

	g.logger.Debug().Str("sheet_id", sheetID).Str("cell", cell).Msg("fetched sheet cell")
	return value, nil
}
