package jobs

import (
	"context"
	"time"

	"go.uber.org/zap"

	"stagetrack/config"
	"stagetrack/internal/dto"
)

// NotificationRunner 单次提醒执行，service.NotificationService 已实现
type NotificationRunner interface {
	Run(ctx context.Context) (*dto.NotificationRunResponse, error)
}

// StartNotificationJob 按固定间隔执行提醒调度，直到 ctx 结束
// 循环退出后关闭返回的 channel；任务未启用时返回 nil
func StartNotificationJob(ctx context.Context, cfg *config.NotificationConfig, runner NotificationRunner, logger *zap.Logger) <-chan struct{} {
	if !cfg.JobEnabled {
		return nil
	}
	if runner == nil {
		logger.Warn("notification job disabled: no runner configured")
		return nil
	}
	interval := cfg.Interval
	if interval <= 0 {
		interval = 5 * time.Minute
	}
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = 2 * time.Minute
	}

	logger.Info("notification job started", zap.Duration("interval", interval))

	done := make(chan struct{})
	ticker := time.NewTicker(interval)
	go func() {
		defer close(done)
		defer ticker.Stop()
		for {
			select {
			case <-ctx.Done():
				logger.Info("notification job stopped")
				return
			case <-ticker.C:
				tickCtx, cancel := context.WithTimeout(ctx, timeout)
				resp, err := runner.Run(tickCtx)
				cancel()
				if err != nil {
					logger.Error("notification job error", zap.Error(err))
					continue
				}
				if resp != nil && resp.Candidates > 0 {
					logger.Info("notification job pass",
						zap.Int("candidates", resp.Candidates),
						zap.Int("sent", resp.Sent),
						zap.Int("skipped", resp.Skipped),
						zap.Int("failed", resp.Failed),
						zap.Int("removed", resp.Removed),
					)
				}
			}
		}
	}()
	return done
}
