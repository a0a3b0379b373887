package service

import (
	"sort"
	"time"

	"stagetrack/internal/attendance"
	"stagetrack/internal/dto"
	"stagetrack/internal/model"
)

func formatTimestamp(t time.Time) string {
	return t.UTC().Format(time.RFC3339)
}

func formatTimestampPtr(t *time.Time) *string {
	if t == nil {
		return nil
	}
	s := formatTimestamp(*t)
	return &s
}

func formatClockPtr(s *string) *string {
	if s == nil {
		return nil
	}
	v := attendance.FormatClock(*s)
	return &v
}

func toUserResponse(u *model.User) *dto.UserResponse {
	resp := &dto.UserResponse{
		ID:              u.UserID,
		Email:           u.Email,
		FullName:        u.FullName,
		Role:            string(u.Role),
		ProfilePhotoURL: u.ProfilePhotoURL,
		CreatedAt:       formatTimestamp(u.CreatedAt),
	}
	if u.Coach != nil {
		resp.Coach = &dto.CoachBrief{ID: u.Coach.CoachID, Name: u.Coach.Name}
	}
	return resp
}

func toUserBrief(u *model.User) *dto.UserBrief {
	if u == nil {
		return nil
	}
	return &dto.UserBrief{ID: u.UserID, FullName: u.FullName, Email: u.Email}
}

func toCheckInRecord(c *model.CheckIn) dto.CheckInRecord {
	rec := dto.CheckInRecord{
		ID:            c.CheckInID,
		UserID:        c.UserID,
		User:          toUserBrief(c.User),
		LocationID:    c.LocationID,
		CheckInTime:   formatTimestamp(c.CheckInTime),
		CheckOutTime:  formatTimestampPtr(c.CheckOutTime),
		ExpectedStart: formatClockPtr(c.ExpectedStart),
		ExpectedEnd:   formatClockPtr(c.ExpectedEnd),
		VerifiedBy:    string(c.VerifiedBy),
		Hours:         attendance.ActualHours(c.CheckInTime, c.CheckOutTime),
	}
	if c.Location != nil {
		rec.LocationName = c.Location.Name
	}
	return rec
}

func toLeaveResponse(l *model.LeaveRequest) dto.LeaveResponse {
	return dto.LeaveResponse{
		ID:          l.LeaveRequestID,
		UserID:      l.UserID,
		User:        toUserBrief(l.User),
		Date:        attendance.DateKey(l.Date),
		Reason:      string(l.Reason),
		Description: l.Description,
		Status:      string(l.Status),
		StartTime:   formatClockPtr(l.StartTime),
		EndTime:     formatClockPtr(l.EndTime),
		AdminNote:   l.AdminNote,
		ReviewedBy:  l.ReviewedBy,
		ReviewedAt:  formatTimestampPtr(l.ReviewedAt),
		CreatedAt:   formatTimestamp(l.CreatedAt),
	}
}

func toScheduleEntry(s *model.Schedule) dto.ScheduleEntryResponse {
	return dto.ScheduleEntryResponse{
		ID:        s.ScheduleID,
		DayOfWeek: s.DayOfWeek,
		StartTime: attendance.FormatClock(s.StartTime),
		EndTime:   attendance.FormatClock(s.EndTime),
		Hours:     attendance.ScheduledHours(s.StartTime, s.EndTime),
	}
}

func toShift(s *model.Schedule) attendance.Shift {
	return attendance.Shift{
		UserID:     s.UserID,
		DayOfWeek:  s.DayOfWeek,
		StartTime:  s.StartTime,
		EndTime:    s.EndTime,
		ValidFrom:  s.ValidFrom,
		ValidUntil: s.ValidUntil,
	}
}

func toShifts(rows []model.Schedule) []attendance.Shift {
	out := make([]attendance.Shift, 0, len(rows))
	for i := range rows {
		out = append(out, toShift(&rows[i]))
	}
	return out
}

func toSpans(rows []model.CheckIn) []attendance.Span {
	out := make([]attendance.Span, 0, len(rows))
	for _, c := range rows {
		out = append(out, attendance.Span{UserID: c.UserID, CheckIn: c.CheckInTime, CheckOut: c.CheckOutTime})
	}
	return out
}

// groupSchedules 按提交组合并排班行，保持首次出现的顺序
func groupSchedules(rows []model.Schedule) []dto.ScheduleGroupResponse {
	index := make(map[string]int)
	var groups []dto.ScheduleGroupResponse

	for i := range rows {
		row := &rows[i]
		idx, ok := index[row.SubmissionGroup]
		if !ok {
			idx = len(groups)
			index[row.SubmissionGroup] = idx
			groups = append(groups, dto.ScheduleGroupResponse{
				SubmissionGroup: row.SubmissionGroup,
				UserID:          row.UserID,
				User:            toUserBrief(row.User),
				Status:          string(row.Status),
				ValidFrom:       attendance.DateKey(row.ValidFrom),
				ValidUntil:      attendance.DateKey(row.ValidUntil),
				AdminNote:       row.AdminNote,
				SubmittedAt:     formatTimestamp(row.CreatedAt),
				UpdatedAt:       formatTimestamp(row.UpdatedAt),
			})
		}

		g := &groups[idx]
		entry := toScheduleEntry(row)
		g.Entries = append(g.Entries, entry)
		g.TotalHours += entry.Hours
	}

	for i := range groups {
		entries := groups[i].Entries
		sort.Slice(entries, func(a, b int) bool { return entries[a].DayOfWeek < entries[b].DayOfWeek })
	}
	return groups
}
