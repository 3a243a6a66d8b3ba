package models

import "math"

// TemplateModel is a reusable manuscript skeleton tagged by business type,
// month and optional week. Title and content carry {{placeholder}} tokens
// substituted with client attributes at send time.
//
// SendCount and ApproveCount are maintained exclusively by the manuscript
// lifecycle engine and the bulk dispatcher, never by admin edits.
type TemplateModel struct {
	Base
	BusinessType string  `json:"business_type" gorm:"index;not null"`
	Month        int     `json:"month"         gorm:"index;not null"` // 1-12
	Week         *int    `json:"week"`                                // 1-5, nil = whole month
	Topic        *string `json:"topic"`
	Title        string  `json:"title"         gorm:"not null"`
	Content      string  `json:"content"       gorm:"type:longtext;not null"`
	SendCount    int     `json:"send_count"    gorm:"default:0"`
	ApproveCount int     `json:"approve_count" gorm:"default:0"`
	IsActive     bool    `json:"is_active"     gorm:"default:true;index"`
}

func (TemplateModel) TableName() string { return "templates" }

// ConfirmRate returns the approval percentage used to rank templates.
func (t TemplateModel) ConfirmRate() int {
	if t.SendCount == 0 {
		return 0
	}
	return int(math.Round(float64(t.ApproveCount) / float64(t.SendCount) * 100))
}
