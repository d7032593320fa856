package domain

import "time"

// ContentUpdateRecord is one append-only audit entry written after every
// successful content write. Records are never mutated or deleted; they exist
// for history and debugging, not as a queryable source of truth.
type ContentUpdateRecord struct {
	ID               string    `json:"id" db:"id"`
	OrganizationID   string    `json:"organization_id" db:"organization_id"`
	SiteID           string    `json:"site_id" db:"site_id"`
	SlotID           string    `json:"slot_id,omitempty" db:"slot_id"`
	Instructions     string    `json:"instructions" db:"instructions"`
	GeneratedContent string    `json:"generated_content" db:"generated_content"`
	AppliedAt        time.Time `json:"applied_at" db:"applied_at"`
}

// UpdateContentInput targets a write either at a registered slot (SlotID) or
// directly at a platform region reference. SlotID wins when both are set.
type UpdateContentInput struct {
	SlotID       string `json:"slot_id,omitempty"`
	RegionRef    string `json:"region_ref,omitempty"`
	Content      string `json:"content"`
	Instructions string `json:"instructions,omitempty"`
}
