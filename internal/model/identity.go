package model

// Organization is a tenant owning companies and dashboards.
type Organization struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

// Company is a tracked company inside an organization.
type Company struct {
	ID             string `json:"id"`
	OrganizationID string `json:"organization_id"`
	Name           string `json:"name"`
	Ticker         string `json:"ticker,omitempty"`
}

// MemberRole is a user's role within an organization.
type MemberRole string

const (
	MemberRoleAdmin  MemberRole = "admin"
	MemberRoleEditor MemberRole = "editor"
	MemberRoleViewer MemberRole = "viewer"
)

// Membership links a user to an organization with a role.
type Membership struct {
	OrganizationID string     `json:"organization_id"`
	Role           MemberRole `json:"role"`
}

// User is the authenticated principal.
type User struct {
	ID          string       `json:"id"`
	Email       string       `json:"email"`
	Name        string       `json:"name"`
	Memberships []Membership `json:"memberships,omitempty"`
}
