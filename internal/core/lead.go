package core

// lead.go defines the tenant-owned lead record and its enumerations.

import (
	"fmt"
	"strings"
	"time"
)

// PropertyType is the kind of property a lead is interested in.
type PropertyType string

const (
	PropertyApartment  PropertyType = "apartment"
	PropertyHouse      PropertyType = "house"
	PropertyCommercial PropertyType = "commercial"
	PropertyLand       PropertyType = "land"
	PropertyOffice     PropertyType = "office"
)

// ListingType distinguishes buyers from renters.
type ListingType string

const (
	ListingSale ListingType = "sale"
	ListingRent ListingType = "rent"
)

// LeadSource records where a lead came from.
type LeadSource string

const (
	SourceWebsite  LeadSource = "website"
	SourceReferral LeadSource = "referral"
	SourceSocial   LeadSource = "social_media"
	SourceColdCall LeadSource = "cold_call"
	SourceWalkIn   LeadSource = "walk_in"
	SourcePartner  LeadSource = "partner"
	SourceImport   LeadSource = "import"
	SourceOther    LeadSource = "other"
)

// LeadStatus is the position of a lead in the sales funnel.
type LeadStatus string

const (
	StatusNew         LeadStatus = "new"
	StatusContacted   LeadStatus = "contacted"
	StatusQualified   LeadStatus = "qualified"
	StatusViewing     LeadStatus = "viewing"
	StatusNegotiation LeadStatus = "negotiation"
	StatusWon         LeadStatus = "won"
	StatusLost        LeadStatus = "lost"
)

// LeadPriority orders leads for follow-up.
type LeadPriority string

const (
	PriorityLow    LeadPriority = "low"
	PriorityMedium LeadPriority = "medium"
	PriorityHigh   LeadPriority = "high"
	PriorityUrgent LeadPriority = "urgent"
)

var (
	propertyTypes = []PropertyType{PropertyApartment, PropertyHouse, PropertyCommercial, PropertyLand, PropertyOffice}
	listingTypes  = []ListingType{ListingSale, ListingRent}
	leadSources   = []LeadSource{SourceWebsite, SourceReferral, SourceSocial, SourceColdCall, SourceWalkIn, SourcePartner, SourceImport, SourceOther}
	leadStatuses  = []LeadStatus{StatusNew, StatusContacted, StatusQualified, StatusViewing, StatusNegotiation, StatusWon, StatusLost}
	priorities    = []LeadPriority{PriorityLow, PriorityMedium, PriorityHigh, PriorityUrgent}
)

// LeadFields holds every mutable attribute of a lead. It is the payload for
// store creates and updates.
type LeadFields struct {
	FirstName    string       `json:"firstName"`
	LastName     string       `json:"lastName"`
	Phone        string       `json:"phone"`
	Email        string       `json:"email,omitempty"`
	Telegram     string       `json:"telegram,omitempty"`
	WhatsApp     string       `json:"whatsapp,omitempty"`
	PropertyType PropertyType `json:"propertyType,omitempty"`
	ListingType  ListingType  `json:"listingType,omitempty"`
	Budget       *float64     `json:"budget,omitempty"`
	Bedrooms     *int         `json:"bedrooms,omitempty"`
	Districts    []string     `json:"districts,omitempty"`
	Requirements string       `json:"requirements,omitempty"`
	Notes        string       `json:"notes,omitempty"`
	Source       LeadSource   `json:"source"`
	Status       LeadStatus   `json:"status"`
	Priority     LeadPriority `json:"priority"`
	AssigneeID   string       `json:"assigneeId,omitempty"`
	AssignedAt   *time.Time   `json:"assignedAt,omitempty"`
}

// Lead is a tenant-owned contact record.
type Lead struct {
	ID       string `json:"id"`
	TenantID string `json:"tenantId"`
	LeadFields

	// AssigneeName is resolved by the store for display and export.
	AssigneeName string    `json:"assigneeName,omitempty"`
	CreatedAt    time.Time `json:"createdAt"`
	UpdatedAt    time.Time `json:"updatedAt"`
}

// FullName returns "First Last".
func (l *Lead) FullName() string {
	return strings.TrimSpace(l.FirstName + " " + l.LastName)
}

// Member is an agent belonging to a tenant.
type Member struct {
	ID       string `json:"id"`
	TenantID string `json:"tenantId"`
	FullName string `json:"fullName"`
	Email    string `json:"email,omitempty"`
	IsActive bool   `json:"isActive"`
}

// ListFilter is the filter shape shared by lead listing and export.
// Empty fields do not filter.
type ListFilter struct {
	Status     LeadStatus
	Source     LeadSource
	Priority   LeadPriority
	AssigneeID string
	Search     string // case-insensitive match on name, phone, or email
}

// Validate rejects enumeration values the store would never match.
func (f ListFilter) Validate() error {
	if f.Status != "" && !contains(leadStatuses, f.Status) {
		return fmt.Errorf("%w: status %q", ErrInvalidFilter, f.Status)
	}
	if f.Source != "" && !contains(leadSources, f.Source) {
		return fmt.Errorf("%w: source %q", ErrInvalidFilter, f.Source)
	}
	if f.Priority != "" && !contains(priorities, f.Priority) {
		return fmt.Errorf("%w: priority %q", ErrInvalidFilter, f.Priority)
	}
	return nil
}

// parseEnum matches value against allowed case-insensitively, treating
// spaces and hyphens as underscores ("Cold Call" matches "cold_call").
func parseEnum[T ~string](value string, allowed []T) (T, bool) {
	v := strings.ToLower(strings.TrimSpace(value))
	v = strings.NewReplacer(" ", "_", "-", "_").Replace(v)
	for _, a := range allowed {
		if string(a) == v {
			return a, true
		}
	}
	return "", false
}

func contains[T comparable](list []T, v T) bool {
	for _, x := range list {
		if x == v {
			return true
		}
	}
	return false
}
