package domain

import "time"

// ContentSlot maps a logical, named editable region of a site to an optional
// spreadsheet coordinate. The (site_id, slot_name) pair is unique. A slot
// without a sheet mapping is valid for manual editing but is skipped by
// sheet sync.
type ContentSlot struct {
	ID                 string    `json:"id" db:"id"`
	SiteID             string    `json:"site_id" db:"site_id"`
	SlotName           string    `json:"slot_name" db:"slot_name"`
	Label              string    `json:"label" db:"label"`
	SheetColumn        string    `json:"sheet_column,omitempty" db:"sheet_column"`
	SheetRowIdentifier string    `json:"sheet_row_identifier,omitempty" db:"sheet_row_identifier"`
	CreatedAt          time.Time `json:"created_at" db:"created_at"`
}

// Mapped reports whether the slot is bound to a spreadsheet coordinate and
// can participate in sheet sync.
func (s *ContentSlot) Mapped() bool {
	return s.SheetColumn != "" && s.SheetRowIdentifier != ""
}
