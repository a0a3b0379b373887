package service

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"stagetrack/internal/attendance"
	"stagetrack/internal/dto"
	"stagetrack/internal/model"
	"stagetrack/internal/repository"
	"stagetrack/pkg/webpush"
)

const (
	// notificationWindow 单次触发窗口宽度，与调度间隔一致
	notificationWindow = 5
	// reminderLead 开始前与结束后的提醒提前量（分钟）
	reminderLead = 15
	// statusChangeLookback 审批结果通知的回溯时长
	statusChangeLookback = 5 * time.Minute
)

// NotificationService 定时提醒与审批结果通知
// 每个（用户, 类型, 参考日期）最多发送一次
type NotificationService interface {
	Run(ctx context.Context) (*dto.NotificationRunResponse, error)
}

type notificationService struct {
	repo   *repository.Repository
	sender webpush.Sender
	clock  Clock
	logger *zap.Logger
}

// NewNotificationService 创建 NotificationService 实例
func NewNotificationService(repo *repository.Repository, sender webpush.Sender, clock Clock, logger *zap.Logger) NotificationService {
	return &notificationService{repo: repo, sender: sender, clock: clock, logger: logger}
}

// notification 一条待发送推送
type notification struct {
	userID        string
	notifyType    string
	referenceID   *string
	referenceDate time.Time
	payload       webpush.Payload
	// needsActiveCheckIn 仅在用户仍处于签到状态时发送
	needsActiveCheckIn bool
}

// ────────────────────── Run ──────────────────────

// Run 检查今日排班提醒窗口与近期审批结果
// 单个用户失败只记录日志，不中断整批
func (s *notificationService) Run(ctx context.Context) (*dto.NotificationRunResponse, error) {
	now := s.clock.Now()
	summary := &dto.NotificationRunResponse{RanAt: formatTimestamp(now)}

	reminders, err := s.shiftReminders(ctx, now)
	if err != nil {
		s.logger.Error("load shift reminders failed", zap.Error(err))
		return nil, err
	}
	decisions, err := s.decisionNotices(ctx, now)
	if err != nil {
		s.logger.Error("load review decisions failed", zap.Error(err))
		return nil, err
	}

	candidates := append(reminders, decisions...)
	summary.Candidates = len(candidates)

	for i := range candidates {
		if err := ctx.Err(); err != nil {
			s.logger.Warn("notification run interrupted", zap.Int("processed", i), zap.Error(err))
			return summary, err
		}
		s.dispatch(ctx, &candidates[i], now, summary)
	}

	s.logger.Info("notification run finished",
		zap.Int("candidates", summary.Candidates),
		zap.Int("sent", summary.Sent),
		zap.Int("skipped", summary.Skipped),
		zap.Int("failed", summary.Failed),
		zap.Int("removed_subscriptions", summary.Removed),
	)
	return summary, nil
}

// shiftReminders 窗口包含 now 的排班提醒
func (s *notificationService) shiftReminders(ctx context.Context, now time.Time) ([]notification, error) {
	today := attendance.DateOnly(now)
	rows, err := s.repo.Schedule.ListApprovedCovering(ctx, today, attendance.ISOWeekday(now))
	if err != nil {
		return nil, err
	}

	minute := now.Hour()*60 + now.Minute()
	var out []notification

	for i := range rows {
		row := &rows[i]
		start, err := attendance.ParseClock(row.StartTime)
		if err != nil {
			s.logger.Warn("skip schedule with bad start time", zap.String("schedule_id", row.ScheduleID), zap.Error(err))
			continue
		}
		end, err := attendance.ParseClock(row.EndTime)
		if err != nil {
			s.logger.Warn("skip schedule with bad end time", zap.String("schedule_id", row.ScheduleID), zap.Error(err))
			continue
		}

		ref := row.ScheduleID
		switch {
		case inWindow(minute, start.MinuteOfDay()-reminderLead):
			out = append(out, notification{
				userID: row.UserID, notifyType: model.NotifyScheduleReminder15,
				referenceID: &ref, referenceDate: today,
				payload: scheduleReminderPayload(start.String()),
			})
		case inWindow(minute, start.MinuteOfDay()):
			out = append(out, notification{
				userID: row.UserID, notifyType: model.NotifyCheckInReminder,
				referenceID: &ref, referenceDate: today,
				payload: checkInReminderPayload(start.String()),
			})
		case inWindow(minute, end.MinuteOfDay()+reminderLead):
			out = append(out, notification{
				userID: row.UserID, notifyType: model.NotifyCheckOutReminder,
				referenceID: &ref, referenceDate: today,
				payload:            checkOutReminderPayload(end.String()),
				needsActiveCheckIn: true,
			})
		}
	}
	return out, nil
}

// decisionNotices 回溯期内已审批的排班组与请假
func (s *notificationService) decisionNotices(ctx context.Context, now time.Time) ([]notification, error) {
	since := now.Add(-statusChangeLookback)

	schedules, err := s.repo.Schedule.ListStatusChangedSince(ctx, since)
	if err != nil {
		return nil, err
	}
	leaves, err := s.repo.Leave.ListStatusChangedSince(ctx, since)
	if err != nil {
		return nil, err
	}

	var out []notification
	seen := make(map[string]bool)
	for i := range schedules {
		row := &schedules[i]
		if seen[row.SubmissionGroup] {
			continue
		}
		seen[row.SubmissionGroup] = true

		group := row.SubmissionGroup
		notifyType, payload := scheduleDecisionPayload(row.Status, row.ValidFrom, row.ValidUntil)
		out = append(out, notification{
			userID: row.UserID, notifyType: notifyType,
			referenceID: &group, referenceDate: row.ValidFrom,
			payload: payload,
		})
	}

	for i := range leaves {
		leave := &leaves[i]
		id := leave.LeaveRequestID
		notifyType, payload := leaveDecisionPayload(leave.Status, leave.Date)
		out = append(out, notification{
			userID: leave.UserID, notifyType: notifyType,
			referenceID: &id, referenceDate: leave.Date,
			payload: payload,
		})
	}
	return out, nil
}

// dispatch 去重占位后投递到用户的全部订阅
func (s *notificationService) dispatch(ctx context.Context, n *notification, now time.Time, summary *dto.NotificationRunResponse) {
	log := s.logger.With(
		zap.String("user_id", n.userID),
		zap.String("type", n.notifyType),
		zap.String("reference_date", attendance.DateKey(n.referenceDate)),
	)

	exists, err := s.repo.NotificationLog.Exists(ctx, n.userID, n.notifyType, n.referenceDate)
	if err != nil {
		log.Error("dedup lookup failed", zap.Error(err))
		summary.Failed++
		return
	}
	if exists {
		summary.Skipped++
		return
	}

	if n.needsActiveCheckIn {
		if _, err := s.repo.CheckIn.GetActive(ctx, n.userID); err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				summary.Skipped++
				return
			}
			log.Error("active check-in lookup failed", zap.Error(err))
			summary.Failed++
			return
		}
	}

	entry := &model.NotificationLog{
		NotificationLogID: uuid.NewString(),
		UserID:            n.userID,
		NotificationType:  n.notifyType,
		ReferenceID:       n.referenceID,
		ReferenceDate:     attendance.DateOnly(n.referenceDate),
		SentAt:            now,
	}
	claimed, err := s.repo.NotificationLog.Claim(ctx, entry)
	if err != nil {
		log.Error("claim notification slot failed", zap.Error(err))
		summary.Failed++
		return
	}
	if !claimed {
		summary.Skipped++
		return
	}

	delivered, removed := s.deliver(ctx, n.userID, n.payload, log)
	summary.Removed += removed
	if !delivered {
		summary.Failed++
		return
	}

	summary.Sent++
	if err := s.repo.NotificationLog.MarkDelivered(ctx, entry.NotificationLogID); err != nil {
		log.Warn("mark notification delivered failed", zap.Error(err))
	}
}

// deliver 返回是否至少一个订阅接收成功，以及删除的失效订阅数
func (s *notificationService) deliver(ctx context.Context, userID string, payload webpush.Payload, log *zap.Logger) (bool, int) {
	subs, err := s.repo.PushSubscription.ListByUser(ctx, userID)
	if err != nil {
		log.Error("list push subscriptions failed", zap.Error(err))
		return false, 0
	}
	if len(subs) == 0 {
		log.Debug("no push subscriptions")
		return false, 0
	}

	delivered, removed := false, 0
	for _, sub := range subs {
		err := s.sender.Send(ctx, webpush.Subscription{
			Endpoint: sub.Endpoint,
			P256dh:   sub.P256dh,
			Auth:     sub.Auth,
		}, payload)

		switch {
		case err == nil:
			delivered = true
		case errors.Is(err, webpush.ErrSubscriptionGone):
			if err := s.repo.PushSubscription.DeleteByID(ctx, sub.PushSubscriptionID); err != nil {
				log.Warn("delete gone subscription failed", zap.String("subscription_id", sub.PushSubscriptionID), zap.Error(err))
				continue
			}
			removed++
		default:
			log.Warn("push delivery failed", zap.String("subscription_id", sub.PushSubscriptionID), zap.Error(err))
		}
	}
	return delivered, removed
}

// inWindow minute 是否位于 [target, target+notificationWindow)
func inWindow(minute, target int) bool {
	return minute >= target && minute < target+notificationWindow
}
