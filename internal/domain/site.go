package domain

import "time"

// PlatformType identifies which adapter manages a site. The set is closed;
// a site's platform never changes after creation, disconnect and reconnect
// is the only way to switch.
type PlatformType string

const (
	PlatformWordPress PlatformType = "wordpress"
	PlatformUniversal PlatformType = "universal"
)

// Valid reports whether t is one of the known platform types.
func (t PlatformType) Valid() bool {
	return t == PlatformWordPress || t == PlatformUniversal
}

// SiteStatus is the site lifecycle state. Only Active sites accept
// detect/read/write operations.
type SiteStatus string

const (
	SiteConnecting   SiteStatus = "connecting"
	SiteActive       SiteStatus = "active"
	SiteDisconnected SiteStatus = "disconnected"
)

// Credentials holds the platform-specific connection material. WordPress
// sites carry a username and application password; universal sites carry at
// most a session token.
type Credentials struct {
	WPUsername    string `json:"wp_username,omitempty" db:"wp_username"`
	WPAppPassword string `json:"-" db:"wp_app_password"`
	SessionToken  string `json:"-" db:"session_token"`
}

// Site is a connected external website owned by exactly one organization.
type Site struct {
	ID             string       `json:"id" db:"id"`
	OrganizationID string       `json:"organization_id" db:"organization_id"`
	PlatformType   PlatformType `json:"platform_type" db:"platform_type"`
	SiteURL        string       `json:"site_url" db:"site_url"`
	Credentials    Credentials  `json:"credentials"`
	Status         SiteStatus   `json:"status" db:"status"`
	CreatedAt      time.Time    `json:"created_at" db:"created_at"`
}

// ConnectSiteInput is the caller-supplied payload for connecting a site.
// Required fields beyond the tags depend on the platform and are checked by
// the site service before any remote call is attempted.
type ConnectSiteInput struct {
	PlatformType  string `json:"platform_type" validate:"required"`
	SiteURL       string `json:"site_url" validate:"required,url"`
	WPUsername    string `json:"wp_username"`
	WPAppPassword string `json:"wp_app_password"`
	SessionToken  string `json:"session_token"`
}

// SiteStats aggregates an organization's sites by platform and by status.
type SiteStats struct {
	Total      int            `json:"total"`
	ByPlatform map[string]int `json:"by_platform"`
	ByStatus   map[string]int `json:"by_status"`
}
