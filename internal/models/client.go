package models

// ClientType distinguishes how a client receives manuscripts.
type ClientType string

const (
	// ClientTypeTemplate clients receive templated bulk sends.
	ClientTypeTemplate ClientType = "template"
	// ClientTypeCustom clients receive one-off AI-generated manuscripts.
	ClientTypeCustom ClientType = "custom"
)

// Managers is the staff roster assignable to a client.
var Managers = []string{"주미", "수빈", "현주"}

// BusinessTypes is the closed set of business categories used by clients
// and templates.
var BusinessTypes = []string{
	"수학학원", "영어학원", "국어학원", "종합학원", "태권도학원",
	"미술학원", "음악학원", "반찬가게", "식당", "카페",
	"에스테틱", "피부과", "헬스장", "필라테스", "안경원",
	"세탁소", "인테리어", "부동산", "마사지", "복싱체육관",
	"보험샵", "교정원", "테라피", "기타",
}

// ClientModel is an advertiser receiving blog manuscripts.
// "Deleting" a client only flips IsActive; records are retained.
type ClientModel struct {
	Base
	Name           string     `json:"name"            gorm:"not null"`
	Region         string     `json:"region"          gorm:"not null"`
	BusinessType   string     `json:"business_type"   gorm:"index;not null"`
	MainService    *string    `json:"main_service"`
	Differentiator *string    `json:"differentiator"`
	Contact        *string    `json:"contact"`
	Memo           *string    `json:"memo"            gorm:"type:longtext"`
	IsActive       bool       `json:"is_active"       gorm:"default:true;index"`
	ClientType     ClientType `json:"client_type"     gorm:"type:varchar(16);default:'template';index"`
	Manager        *string    `json:"manager"         gorm:"index"`
}

func (ClientModel) TableName() string { return "clients" }

// FieldOrEmpty dereferences an optional client attribute.
func FieldOrEmpty(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}
