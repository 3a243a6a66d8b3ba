package alimtalk

import (
	"context"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// Console is a development gateway that logs sends instead of delivering
// them. Selected when no provider credentials are configured.
type Console struct {
	logger *zap.Logger
}

func NewConsole(logger *zap.Logger) *Console {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Console{logger: logger.Named("AlimtalkConsole")}
}

func (c *Console) Send(ctx context.Context, code Code, phone string, vars map[string]string) (string, error) {
	c.logger.Info("[알림톡 발송]",
		zap.String("template_code", string(code)),
		zap.String("phone", NormalizePhone(phone)),
		zap.String("업체명", vars["변수내용1"]),
		zap.String("확인링크", vars["변수내용2"]),
	)
	return "console-" + uuid.New().String(), nil
}
