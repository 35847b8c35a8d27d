package domain

import "time"

// IssueStatus enumerates lifecycle states for reported issues.
type IssueStatus string

const (
	IssueStatusPending    IssueStatus = "pending"
	IssueStatusInProgress IssueStatus = "in_progress"
	IssueStatusResolved   IssueStatus = "resolved"
	IssueStatusClosed     IssueStatus = "closed"
)

// IssuePriority enumerates urgency levels.
type IssuePriority string

const (
	IssuePriorityLow    IssuePriority = "low"
	IssuePriorityMedium IssuePriority = "medium"
	IssuePriorityHigh   IssuePriority = "high"
	IssuePriorityUrgent IssuePriority = "urgent"
)

// Department enumerates academic departments an issue can belong to.
type Department string

const (
	DepartmentCSE          Department = "CSE"
	DepartmentEEE          Department = "EEE"
	DepartmentArchitecture Department = "ARCHITECTURE"
	DepartmentCivil        Department = "CIVIL"
	DepartmentBBA          Department = "BBA"
	DepartmentEnglish      Department = "ENGLISH"
	DepartmentLaw          Department = "LAW"
	DepartmentPharmacy     Department = "PHARMACY"
	DepartmentOthers       Department = "OTHERS"
)

// IssueCategory classifies the kind of problem reported.
type IssueCategory string

const (
	CategoryElectrical  IssueCategory = "electrical"
	CategoryPlumbing    IssueCategory = "plumbing"
	CategoryCleanliness IssueCategory = "cleanliness"
	CategoryIT          IssueCategory = "it"
	CategoryFurniture   IssueCategory = "furniture"
	CategorySafety      IssueCategory = "safety"
	CategoryLostFound   IssueCategory = "lost_found"
	CategorySuggestions IssueCategory = "suggestions"
	CategoryOthers      IssueCategory = "others"
)

// Building identifies the campus building an issue was reported in.
type Building string

const (
	BuildingAcademic  Building = "academic"
	BuildingLibrary   Building = "library"
	BuildingHostel    Building = "hostel"
	BuildingCafeteria Building = "cafeteria"
	BuildingSports    Building = "sports"
	BuildingAdmin     Building = "admin"
)

// Issue is the aggregate for a reported maintenance or lost-and-found item.
// TicketID is assigned once at creation and never recomputed.
type Issue struct {
	ID           string
	TicketID     string
	ReporterID   string
	Anonymous    bool
	ReporterRole UserRole
	Department   Department
	Category     IssueCategory
	Building     Building
	Location     string
	Description  string
	ImageKey     *string
	Priority     IssuePriority
	Status       IssueStatus
	AssigneeID   *string
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// IsEmergency reports whether the issue warrants the emergency marker in
// outbound notifications.
func (i *Issue) IsEmergency() bool {
	return i.Priority == IssuePriorityUrgent
}

// ValidStatus reports whether s is one of the four lifecycle states.
func ValidStatus(s IssueStatus) bool {
	switch s {
	case IssueStatusPending, IssueStatusInProgress, IssueStatusResolved, IssueStatusClosed:
		return true
	}
	return false
}

// ValidPriority reports whether p is a known priority.
func ValidPriority(p IssuePriority) bool {
	switch p {
	case IssuePriorityLow, IssuePriorityMedium, IssuePriorityHigh, IssuePriorityUrgent:
		return true
	}
	return false
}

// ValidDepartment reports whether d is a known department.
func ValidDepartment(d Department) bool {
	switch d {
	case DepartmentCSE, DepartmentEEE, DepartmentArchitecture, DepartmentCivil,
		DepartmentBBA, DepartmentEnglish, DepartmentLaw, DepartmentPharmacy, DepartmentOthers:
		return true
	}
	return false
}

// ValidCategory reports whether c is a known category.
func ValidCategory(c IssueCategory) bool {
	switch c {
	case CategoryElectrical, CategoryPlumbing, CategoryCleanliness, CategoryIT,
		CategoryFurniture, CategorySafety, CategoryLostFound, CategorySuggestions, CategoryOthers:
		return true
	}
	return false
}

// ValidBuilding reports whether b is a known building.
func ValidBuilding(b Building) bool {
	switch b {
	case BuildingAcademic, BuildingLibrary, BuildingHostel, BuildingCafeteria, BuildingSports, BuildingAdmin:
		return true
	}
	return false
}
