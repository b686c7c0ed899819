package domain

import "time"

// TicketStatus enumerates lifecycle states for tickets. NEW is the sole
// initial state; once created a ticket may move between any two statuses.
// DONE and REJECTED are conventional endpoints but not enforced as terminal.
type TicketStatus string

const (
	TicketStatusNew        TicketStatus = "NEW"
	TicketStatusInProgress TicketStatus = "IN_PROGRESS"
	TicketStatusOnHold     TicketStatus = "ON_HOLD"
	TicketStatusInTest     TicketStatus = "IN_TEST"
	TicketStatusDone       TicketStatus = "DONE"
	TicketStatusRejected   TicketStatus = "REJECTED"
)

// AllTicketStatuses lists statuses in workflow order for option lists.
var AllTicketStatuses = []TicketStatus{
	TicketStatusNew,
	TicketStatusInProgress,
	TicketStatusOnHold,
	TicketStatusInTest,
	TicketStatusDone,
	TicketStatusRejected,
}

// Valid reports whether the status is a known enumeration value.
func (s TicketStatus) Valid() bool {
	switch s {
	case TicketStatusNew, TicketStatusInProgress, TicketStatusOnHold,
		TicketStatusInTest, TicketStatusDone, TicketStatusRejected:
		return true
	}
	return false
}

// TicketPriority enumerates urgency levels.
type TicketPriority string

const (
	TicketPriorityCritical TicketPriority = "CRITICAL"
	TicketPriorityHigh     TicketPriority = "HIGH"
	TicketPriorityNormal   TicketPriority = "NORMAL"
	TicketPriorityLow      TicketPriority = "LOW"
)

// AllTicketPriorities lists priorities from most to least urgent.
var AllTicketPriorities = []TicketPriority{
	TicketPriorityCritical,
	TicketPriorityHigh,
	TicketPriorityNormal,
	TicketPriorityLow,
}

// Valid reports whether the priority is a known enumeration value.
func (p TicketPriority) Valid() bool {
	switch p {
	case TicketPriorityCritical, TicketPriorityHigh, TicketPriorityNormal, TicketPriorityLow:
		return true
	}
	return false
}

// TicketType enumerates the request catalog.
type TicketType string

const (
	TicketTypeWebIReport    TicketType = "WEBI_REPORT"
	TicketTypePowerBIReport TicketType = "POWERBI_REPORT"
	TicketTypeDashboard     TicketType = "DASHBOARD"
	TicketTypeDataAnalysis  TicketType = "DATA_ANALYSIS"
	TicketTypeBugFix        TicketType = "BUG_FIX"
	TicketTypeTraining      TicketType = "TRAINING"
	TicketTypeOther         TicketType = "OTHER"
)

// AllTicketTypes lists the request catalog for option lists.
var AllTicketTypes = []TicketType{
	TicketTypeWebIReport,
	TicketTypePowerBIReport,
	TicketTypeDashboard,
	TicketTypeDataAnalysis,
	TicketTypeBugFix,
	TicketTypeTraining,
	TicketTypeOther,
}

// Valid reports whether the type is a known enumeration value.
func (t TicketType) Valid() bool {
	switch t {
	case TicketTypeWebIReport, TicketTypePowerBIReport, TicketTypeDashboard,
		TicketTypeDataAnalysis, TicketTypeBugFix, TicketTypeTraining, TicketTypeOther:
		return true
	}
	return false
}

// TicketCategory enumerates the functional area a request belongs to.
type TicketCategory string

const (
	TicketCategoryOperational TicketCategory = "OPERATIONAL"
	TicketCategoryCommercial  TicketCategory = "COMMERCIAL"
	TicketCategorySecurity    TicketCategory = "SECURITY"
	TicketCategoryMaintenance TicketCategory = "MAINTENANCE"
	TicketCategoryHR          TicketCategory = "HR"
	TicketCategoryFinance     TicketCategory = "FINANCE"
	TicketCategoryOther       TicketCategory = "OTHER"
)

// AllTicketCategories lists categories for option lists.
var AllTicketCategories = []TicketCategory{
	TicketCategoryOperational,
	TicketCategoryCommercial,
	TicketCategorySecurity,
	TicketCategoryMaintenance,
	TicketCategoryHR,
	TicketCategoryFinance,
	TicketCategoryOther,
}

// Valid reports whether the category is a known enumeration value.
func (c TicketCategory) Valid() bool {
	switch c {
	case TicketCategoryOperational, TicketCategoryCommercial, TicketCategorySecurity,
		TicketCategoryMaintenance, TicketCategoryHR, TicketCategoryFinance, TicketCategoryOther:
		return true
	}
	return false
}

// Ticket is the aggregate for service requests. CreatedByID and AssignedToID
// are nullable back-references: deleting a user nulls them rather than
// cascading into the ticket.
type Ticket struct {
	ID                    int64
	Title                 string
	Description           string
	Type                  TicketType
	Category              TicketCategory
	Priority              TicketPriority
	Status                TicketStatus
	BusinessJustification string
	ExpectedDelivery      time.Time
	DataSources           string
	TechnicalRequirements string
	CreatedByID           *int64
	AssignedToID          *int64
	CreatedAt             time.Time
	UpdatedAt             time.Time
	EstimatedHours        *int32
	ActualHours           *int32

	// Display names resolved by the repository join; empty when the
	// referenced user has been deleted or no assignee is set.
	CreatedByName  string
	AssignedToName string
}

// CreatedBy reports whether the given user created the ticket.
func (t *Ticket) CreatedBy(userID int64) bool {
	return t.CreatedByID != nil && *t.CreatedByID == userID
}
