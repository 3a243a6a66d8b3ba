// Package alimtalk sends KakaoTalk notification messages (알림톡) carrying
// manuscript confirmation links to advertisers.
package alimtalk

import (
	"context"
	"encoding/json"
	"errors"
	"regexp"
	"strings"
	"time"

	"github.com/wiztheplanning/blogflow/internal/models"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// Code identifies a registered alimtalk message template.
type Code string

const (
	// CodeConfirmRequest is the initial "manuscript ready" message.
	CodeConfirmRequest Code = "wiz1"
	// CodeRevisionDone notifies that requested revisions were applied.
	CodeRevisionDone Code = "wiz2"
	// CodeReminder nudges advertisers who have not responded.
	CodeReminder Code = "wiz3"
)

// Valid reports whether c is a registered template code.
func (c Code) Valid() bool {
	switch c {
	case CodeConfirmRequest, CodeRevisionDone, CodeReminder:
		return true
	}
	return false
}

// ErrNoPhone marks a recipient without a phone number. This is a local
// failure; no network call is attempted.
var ErrNoPhone = errors.New("no phone number")

// Message is one outbound notification.
type Message struct {
	Phone        string
	ClientName   string
	ConfirmURL   string
	Code         Code
	ClientID     string
	ManuscriptID string
}

// Result is the per-recipient outcome of a send.
type Result struct {
	Phone      string `json:"phone"`
	ClientName string `json:"client_name"`
	Success    bool   `json:"success"`
	MessageID  string `json:"message_id,omitempty"`
	Error      string `json:"error,omitempty"`
}

// Summary aggregates a bulk send. Individual failures never abort the batch.
type Summary struct {
	Total   int      `json:"total"`
	Success int      `json:"success"`
	Failed  int      `json:"failed"`
	Errors  []string `json:"errors"`
	Results []Result `json:"results,omitempty"`
}

// Gateway delivers one alimtalk through a provider. vars maps the provider
// template's substitution variables.
type Gateway interface {
	Send(ctx context.Context, code Code, phone string, vars map[string]string) (msgKey string, err error)
}

// Service wraps a Gateway with send logging and rate-limit pacing.
type Service struct {
	gw     Gateway
	db     *gorm.DB
	delay  time.Duration
	logger *zap.Logger
}

// NewService creates a notification service. delay is the pause between
// consecutive sends in a batch, protecting the provider's rate limit.
func NewService(gw Gateway, db *gorm.DB, delay time.Duration, logger *zap.Logger) *Service {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Service{gw: gw, db: db, delay: delay, logger: logger.Named("AlimtalkService")}
}

// SendOne sends a single message and records the attempt. A missing phone
// number fails locally without touching the gateway.
func (s *Service) SendOne(ctx context.Context, msg Message) Result {
	res := Result{Phone: msg.Phone, ClientName: msg.ClientName}

	if strings.TrimSpace(msg.Phone) == "" {
		s.logger.Warn("전화번호 없음 - 발송 스킵", zap.String("client", msg.ClientName))
		res.Error = ErrNoPhone.Error()
		s.writeLog(msg, res)
		return res
	}

	vars := map[string]string{
		"변수내용1": msg.ClientName,
		"변수내용2": msg.ConfirmURL,
	}

	msgKey, err := s.gw.Send(ctx, msg.Code, msg.Phone, vars)
	if err != nil {
		s.logger.Warn("알림톡 발송 실패",
			zap.String("client", msg.ClientName),
			zap.String("code", string(msg.Code)),
			zap.Error(err),
		)
		res.Error = err.Error()
	} else {
		res.Success = true
		res.MessageID = msgKey
	}

	s.writeLog(msg, res)
	return res
}

// SendBulk sends sequentially with a pause between recipients and aggregates
// per-recipient outcomes.
func (s *Service) SendBulk(ctx context.Context, msgs []Message) Summary {
	sum := Summary{Total: len(msgs), Errors: []string{}}
	for i, msg := range msgs {
		if i > 0 && s.delay > 0 {
			select {
			case <-ctx.Done():
			case <-time.After(s.delay):
			}
		}
		res := s.SendOne(ctx, msg)
		sum.Results = append(sum.Results, res)
		if res.Success {
			sum.Success++
		} else {
			sum.Failed++
			sum.Errors = append(sum.Errors, msg.ClientName+": "+res.Error)
		}
	}
	s.logger.Info("알림톡 대량발송 완료",
		zap.Int("total", sum.Total),
		zap.Int("success", sum.Success),
		zap.Int("failed", sum.Failed),
	)
	return sum
}

func (s *Service) writeLog(msg Message, res Result) {
	if s.db == nil {
		return
	}
	status := "fail"
	if res.Success {
		status = "success"
	}
	resJSON, _ := json.Marshal(res)
	varsJSON, _ := json.Marshal(map[string]string{
		"변수내용1": msg.ClientName,
		"변수내용2": msg.ConfirmURL,
	})

	log := models.NotificationLogModel{
		TemplateCode: string(msg.Code),
		Phone:        NormalizePhone(msg.Phone),
		Status:       status,
		Response:     string(resJSON),
		Variables:    string(varsJSON),
	}
	if msg.ClientID != "" {
		log.ClientID = &msg.ClientID
	}
	if msg.ManuscriptID != "" {
		log.ManuscriptID = &msg.ManuscriptID
	}
	if err := s.db.Create(&log).Error; err != nil {
		s.logger.Warn("발송 로그 저장 실패", zap.Error(err))
	}
}

var mobilePattern = regexp.MustCompile(`^01[0-9]{8,9}$`)

// NormalizePhone strips hyphens from a phone number.
func NormalizePhone(phone string) string {
	return strings.ReplaceAll(strings.TrimSpace(phone), "-", "")
}

// ValidMobile reports whether phone is a Korean mobile number.
func ValidMobile(phone string) bool {
	return mobilePattern.MatchString(NormalizePhone(phone))
}
