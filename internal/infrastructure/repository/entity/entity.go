// Package entity holds the flat row representations scanned from MySQL and
// their converters to and from the domain types.
package entity

import (
	"database/sql"
	"time"

	"github.com/mtaahfunnels/safewebedit-backend-sub001/internal/domain"
)

// SiteRow mirrors one row of the sites table.
type SiteRow struct {
	ID             string         `db:"id"`
	OrganizationID string         `db:"organization_id"`
	PlatformType   string         `db:"platform_type"`
	SiteURL        string         `db:"site_url"`
	WPUsername     sql.NullString `db:"wp_username"`
	WPAppPassword  sql.NullString `db:"wp_app_password"`
	SessionToken   sql.NullString `db:"session_token"`
	Status         string         `db:"status"`
	CreatedAt      time.Time      `db:"created_at"`
}

// ToDomain converts a row into the domain site.
func (r *SiteRow) ToDomain() *domain.Site {
	return &domain.Site{
		ID:             r.ID,
		OrganizationID: r.OrganizationID,
		PlatformType:   domain.PlatformType(r.PlatformType),
		SiteURL:        r.SiteURL,
		Credentials: domain.Credentials{
			WPUsername:    r.WPUsername.String,
			WPAppPassword: r.WPAppPassword.String,
			SessionToken:  r.SessionToken.String,
		},
		Status:    domain.SiteStatus(r.Status),
		CreatedAt: r.CreatedAt,
	}
}

// SiteRowFromDomain converts a domain site into its row form.
func SiteRowFromDomain(s *domain.Site) *SiteRow {
	return &SiteRow{
		ID:             s.ID,
		OrganizationID: s.OrganizationID,
		PlatformType:   string(s.PlatformType),
		SiteURL:        s.SiteURL,
		WPUsername:     nullable(s.Credentials.WPUsername),
		WPAppPassword:  nullable(s.Credentials.WPAppPassword),
		SessionToken:   nullable(s.Credentials.SessionToken),
		Status:         string(s.Status),
		CreatedAt:      s.CreatedAt,
	}
}

// SlotRow mirrors one row of the content_slots table.
type SlotRow struct {
	ID                 string         `db:"id"`
	SiteID             string         `db:"site_id"`
	SlotName           string         `db:"slot_name"`
	Label              string         `db:"label"`
	SheetColumn        sql.NullString `db:"sheet_column"`
	SheetRowIdentifier sql.NullString `db:"sheet_row_identifier"`
	CreatedAt          time.Time      `db:"created_at"`
}

// ToDomain converts a row into the domain slot.
func (r *SlotRow) ToDomain() *domain.ContentSlot {
	return &domain.ContentSlot{
		ID:                 r.ID,
		SiteID:             r.SiteID,
		SlotName:           r.SlotName,
		Label:              r.Label,
		SheetColumn:        r.SheetColumn.String,
		SheetRowIdentifier: r.SheetRowIdentifier.String,
		CreatedAt:          r.CreatedAt,
	}
}

// SlotRowFromDomain converts a domain slot into its row form.
func SlotRowFromDomain(s *domain.ContentSlot) *SlotRow {
	return &SlotRow{
		ID:                 s.ID,
		SiteID:             s.SiteID,
		SlotName:           s.SlotName,
		Label:              s.Label,
		SheetColumn:        nullable(s.SheetColumn),
		SheetRowIdentifier: nullable(s.SheetRowIdentifier),
		CreatedAt:          s.CreatedAt,
	}
}

// UpdateRow mirrors one row of the content_updates audit table.
type UpdateRow struct {
	ID               string         `db:"id"`
	OrganizationID   string         `db:"organization_id"`
	SiteID           string         `db:"site_id"`
	SlotID           sql.NullString `db:"slot_id"`
	Instructions     string         `db:"instructions"`
	GeneratedContent string         `db:"generated_content"`
	AppliedAt        time.Time      `db:"applied_at"`
}

// ToDomain converts a row into the domain audit record.
func (r *UpdateRow) ToDomain() *domain.ContentUpdateRecord {
	return &domain.ContentUpdateRecord{
		ID:               r.ID,
		OrganizationID:   r.OrganizationID,
		SiteID:           r.SiteID,
		SlotID:           r.SlotID.String,
		Instructions:     r.Instructions,
		GeneratedContent: r.GeneratedContent,
		AppliedAt:        r.AppliedAt,
	}
}

// UpdateRowFromDomain converts a domain audit record into its row form.
func UpdateRowFromDomain(u *domain.ContentUpdateRecord) *UpdateRow {
	return &UpdateRow{
		ID:               u.ID,
		OrganizationID:   u.OrganizationID,
		SiteID:           u.SiteID,
		SlotID:           nullable(u.SlotID),
		Instructions:     u.Instructions,
		GeneratedContent: u.GeneratedContent,
		AppliedAt:        u.AppliedAt,
	}
}

func nullable(s string) sql.NullString {
	return sql.NullString{String: s, Valid: s != ""}
}
