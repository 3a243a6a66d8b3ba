package models

// NotificationLogModel records every outbound alimtalk send attempt, success
// or failure, so staff can audit and manually retry specific recipients.
type NotificationLogModel struct {
	Base
	ClientID     *string `json:"client_id"     gorm:"type:char(36);index"`
	ManuscriptID *string `json:"manuscript_id" gorm:"type:char(36);index"`
	TemplateCode string  `json:"template_code" gorm:"type:varchar(16);index;not null"`
	Phone        string  `json:"phone"         gorm:"not null"`
	Status       string  `json:"status"        gorm:"type:varchar(16);index"` // success | fail
	Response     string  `json:"response"      gorm:"type:longtext"`
	Variables    string  `json:"variables"     gorm:"type:longtext"`
}

func (NotificationLogModel) TableName() string { return "notification_logs" }
