package service

import (
	"fmt"
	"time"

	"stagetrack/internal/model"
	"stagetrack/pkg/webpush"
)

var dutchMonths = [12]string{
	"januari", "februari", "maart", "april", "mei", "juni",
	"juli", "augustus", "september", "oktober", "november", "december",
}

var dutchMonthsShort = [12]string{
	"jan", "feb", "mrt", "apr", "mei", "jun",
	"jul", "aug", "sep", "okt", "nov", "dec",
}

// dutchDate 荷兰语日期 "5 februari"
func dutchDate(t time.Time) string {
	return fmt.Sprintf("%d %s", t.Day(), dutchMonths[t.Month()-1])
}

// dutchDateShort 荷兰语短日期 "5 feb"
func dutchDateShort(t time.Time) string {
	return fmt.Sprintf("%d %s", t.Day(), dutchMonthsShort[t.Month()-1])
}

const (
	urlCheckIn       = "/student/check-in"
	urlSchedule      = "/student/schedule"
	urlLeaveRequests = "/student/leave-requests"
)

func scheduleReminderPayload(start string) webpush.Payload {
	return webpush.Payload{
		Title: "Rooster herinnering",
		Body:  fmt.Sprintf("Je rooster begint over 15 minuten (%s)", start),
		URL:   urlCheckIn,
		Tag:   model.NotifyScheduleReminder15,
	}
}

func checkInReminderPayload(start string) webpush.Payload {
	return webpush.Payload{
		Title: "Inchecken",
		Body:  fmt.Sprintf("Vergeet niet in te checken! Je rooster is begonnen om %s", start),
		URL:   urlCheckIn,
		Tag:   model.NotifyCheckInReminder,
	}
}

func checkOutReminderPayload(end string) webpush.Payload {
	return webpush.Payload{
		Title: "Uitchecken",
		Body:  fmt.Sprintf("Vergeet niet uit te checken! Je rooster eindigde om %s", end),
		URL:   urlCheckIn,
		Tag:   model.NotifyCheckOutReminder,
	}
}

func scheduleDecisionPayload(status model.ApprovalStatus, from, until time.Time) (string, webpush.Payload) {
	notifyType, title, verb := model.NotifyScheduleRejected, "Rooster afgewezen", "afgewezen"
	if status == model.StatusApproved {
		notifyType, title, verb = model.NotifyScheduleApproved, "Rooster goedgekeurd", "goedgekeurd"
	}
	return notifyType, webpush.Payload{
		Title: title,
		Body:  fmt.Sprintf("Je rooster voor %s - %s is %s", dutchDateShort(from), dutchDateShort(until), verb),
		URL:   urlSchedule,
		Tag:   notifyType,
	}
}

func leaveDecisionPayload(status model.ApprovalStatus, date time.Time) (string, webpush.Payload) {
	notifyType, title, verb := model.NotifyLeaveRejected, "Verlof afgewezen", "afgewezen"
	if status == model.StatusApproved {
		notifyType, title, verb = model.NotifyLeaveApproved, "Verlof goedgekeurd", "goedgekeurd"
	}
	return notifyType, webpush.Payload{
		Title: title,
		Body:  fmt.Sprintf("Je verlofaanvraag voor %s is %s", dutchDate(date), verb),
		URL:   urlLeaveRequests,
		Tag:   notifyType,
	}
}
