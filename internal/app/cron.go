package app

import (
	"context"
	"time"

	pkgcron "github.com/wiztheplanning/blogflow/internal/pkg/cron"
	"go.uber.org/zap"
)

// registerCronJobs wires the SLA sweeps and the scheduled backup.
func (a *App) registerCronJobs() {
	logger := a.logger.Named("CronService")

	a.sched.Register(pkgcron.Job{
		Name:        "auto_approve_overdue",
		Description: "응답 기한이 지난 대기 원고 자동 승인",
		Interval:    time.Hour,
		Fn: func(ctx context.Context) error {
			n, err := a.manuscripts.AutoApproveOverdue(a.cfg.AutoApproveWindow())
			if err != nil {
				logger.Warn("자동 승인 실패", zap.Error(err))
				return err
			}
			if n > 0 {
				logger.Info("자동 승인 완료", zap.Int64("count", n))
			}
			return nil
		},
	})

	a.sched.Register(pkgcron.Job{
		Name:        "remind_unconfirmed",
		Description: "미확인 원고 리마인드 알림톡 발송",
		Interval:    time.Hour,
		Fn: func(ctx context.Context) error {
			sum, err := a.manuscripts.RemindUnconfirmed(ctx, a.cfg.ReminderWindow())
			if err != nil {
				logger.Warn("리마인드 발송 실패", zap.Error(err))
				return err
			}
			if sum.Total > 0 {
				logger.Info("리마인드 발송 완료",
					zap.Int("total", sum.Total),
					zap.Int("failed", sum.Failed),
				)
			}
			return nil
		},
	})

	if a.cfg.Backup.Enable {
		interval := time.Duration(a.cfg.Backup.IntervalHours) * time.Hour
		if interval <= 0 {
			interval = 24 * time.Hour
		}
		a.sched.Register(pkgcron.Job{
			Name:        "auto_backup",
			Description: "데이터베이스 자동 백업",
			Interval:    interval,
			Fn: func(ctx context.Context) error {
				_, err := a.backups.Create(ctx)
				return err
			},
		})
	}
}
