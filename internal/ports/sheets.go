package ports

import "context"

// SheetSource reads single cell values from the external spreadsheet
// provider. The core never writes back to the sheet.
type SheetSource interface {
	CellValue(ctx context.Context, sheetID, column, rowIdentifier string) (string, error)
}

// SyncStateStore tracks the last value synced for a slot so a sync pass can
// skip unchanged cells. GetLastValue returns ("", false, nil) when no value
// has been recorded yet.
type SyncStateStore interface {
	GetLastValue(ctx context.Context, slotID string) (string, bool, error)
	SetLastValue(ctx context.Context, slotID, value string) error
}
