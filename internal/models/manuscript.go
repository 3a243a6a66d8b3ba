package models

import "time"

// ManuscriptStatus is the lifecycle state of a manuscript.
type ManuscriptStatus string

const (
	// StatusPending awaits the advertiser's decision. Initial state.
	StatusPending ManuscriptStatus = "pending"
	// StatusApproved was explicitly confirmed by the advertiser.
	StatusApproved ManuscriptStatus = "approved"
	// StatusRevision carries a revision request. Staff resend returns it to pending.
	StatusRevision ManuscriptStatus = "revision"
	// StatusCancelled was superseded by a template change. Staff-only.
	StatusCancelled ManuscriptStatus = "cancelled"
	// StatusAutoApproved was approved by the SLA sweep, not the advertiser.
	StatusAutoApproved ManuscriptStatus = "auto_approved"
)

// Statuses lists every manuscript status, in stats order.
var Statuses = []ManuscriptStatus{
	StatusPending, StatusApproved, StatusRevision, StatusCancelled, StatusAutoApproved,
}

// Valid reports whether s is a known status.
func (s ManuscriptStatus) Valid() bool {
	switch s {
	case StatusPending, StatusApproved, StatusRevision, StatusCancelled, StatusAutoApproved:
		return true
	}
	return false
}

// ManuscriptModel is one rendered piece of blog content sent to a client for
// confirmation. Manuscripts created in the same bulk batch for one client
// share a GroupID and are confirmable together through the group
// representative's token.
type ManuscriptModel struct {
	Base
	ClientID        string           `json:"client_id"        gorm:"type:char(36);index;not null"`
	TemplateID      *string          `json:"template_id"      gorm:"type:char(36);index"` // nil for custom manuscripts
	Title           string           `json:"title"            gorm:"not null"`
	Content         string           `json:"content"          gorm:"type:longtext;not null"`
	Status          ManuscriptStatus `json:"status"           gorm:"type:varchar(16);default:'pending';index"`
	RevisionRequest *string          `json:"revision_request" gorm:"type:longtext"`
	RevisionCount   int              `json:"revision_count"   gorm:"default:0"`
	ConfirmToken    string           `json:"confirm_token"    gorm:"type:char(36);uniqueIndex;not null"`
	GroupID         *string          `json:"group_id"         gorm:"type:char(36);index"`
	SentAt          time.Time        `json:"sent_at"          gorm:"index"`
	ConfirmedAt     *time.Time       `json:"confirmed_at"`
	RemindedAt      *time.Time       `json:"reminded_at"`

	Client   *ClientModel   `json:"client,omitempty"   gorm:"foreignKey:ClientID"`
	Template *TemplateModel `json:"template,omitempty" gorm:"foreignKey:TemplateID"`
}

func (ManuscriptModel) TableName() string { return "manuscripts" }
