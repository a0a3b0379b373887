package service

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"testing"
	"time"

	"github.com/jackc/pgx/v5/pgconn"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"stagetrack/internal/attendance"
	"stagetrack/internal/model"
	"stagetrack/internal/repository"
	pkgerrors "stagetrack/pkg/errors"
)

// ── test fixtures ──

type testRepos struct {
	users     *mockUserRepo
	coaches   *mockCoachRepo
	locations *mockLocationRepo
	schedules *mockScheduleRepo
	checkIns  *mockCheckInRepo
	leave     *mockLeaveRepo
	settings  *mockSettingRepo
	subs      *mockPushSubscriptionRepo
	notifLog  *mockNotificationLogRepo
}

func newTestRepos() *testRepos {
	users := &mockUserRepo{users: make(map[string]*model.User)}
	return &testRepos{
		users:     users,
		coaches:   &mockCoachRepo{coaches: make(map[string]*model.Coach), users: users},
		locations: &mockLocationRepo{locations: make(map[string]*model.Location)},
		schedules: &mockScheduleRepo{},
		checkIns:  &mockCheckInRepo{rows: make(map[string]*model.CheckIn)},
		leave:     &mockLeaveRepo{rows: make(map[string]*model.LeaveRequest)},
		settings:  &mockSettingRepo{rows: make(map[string]*model.Setting)},
		subs:      &mockPushSubscriptionRepo{rows: make(map[string]*model.PushSubscription)},
		notifLog:  &mockNotificationLogRepo{rows: make(map[string]*model.NotificationLog)},
	}
}

func (r *testRepos) repository() *repository.Repository {
	return &repository.Repository{
		User:             r.users,
		Coach:            r.coaches,
		Location:         r.locations,
		Schedule:         r.schedules,
		CheckIn:          r.checkIns,
		Leave:            r.leave,
		Setting:          r.settings,
		PushSubscription: r.subs,
		NotificationLog:  r.notifLog,
	}
}

var amsterdam = func() *time.Location {
	loc, err := time.LoadLocation("Europe/Amsterdam")
	if err != nil {
		panic(err)
	}
	return loc
}()

// fixedClock 阿姆斯特丹本地时间 "2006-01-02 15:04"
func fixedClock(t *testing.T, civil string) Clock {
	t.Helper()
	now, err := time.ParseInLocation("2006-01-02 15:04", civil, amsterdam)
	if err != nil {
		t.Fatalf("parse clock %q: %v", civil, err)
	}
	return NewClock(amsterdam, func() time.Time { return now })
}

func testSettings(repos *testRepos) SettingService {
	return NewSettingService(repos.repository(), nil, zap.NewNop())
}

func strPtr(s string) *string { return &s }

func date(s string) time.Time {
	d, err := attendance.ParseDate(s)
	if err != nil {
		panic(err)
	}
	return d
}

func uniqueViolation(constraint string) error {
	return &pgconn.PgError{Code: "23505", ConstraintName: constraint}
}

// ── mock UserRepository ──

type mockUserRepo struct {
	users map[string]*model.User
	seq   int
}

func (m *mockUserRepo) Create(_ context.Context, user *model.User) error {
	for _, u := range m.users {
		if strings.EqualFold(u.Email, user.Email) {
			return uniqueViolation(usersEmailConstraint)
		}
	}
	if user.UserID == "" {
		m.seq++
		user.UserID = fmt.Sprintf("user-%d", m.seq)
	}
	user.CreatedAt = time.Now()
	m.users[user.UserID] = user
	return nil
}

func (m *mockUserRepo) CreateBatch(ctx context.Context, users []model.User) error {
	for i := range users {
		if err := m.Create(ctx, &users[i]); err != nil {
			return err
		}
	}
	return nil
}

func (m *mockUserRepo) GetByID(_ context.Context, id string) (*model.User, error) {
	if u, ok := m.users[id]; ok {
		return u, nil
	}
	return nil, gorm.ErrRecordNotFound
}

func (m *mockUserRepo) GetByEmail(_ context.Context, email string) (*model.User, error) {
	for _, u := range m.users {
		if strings.EqualFold(u.Email, email) {
			return u, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (m *mockUserRepo) Update(_ context.Context, user *model.User) error {
	m.users[user.UserID] = user
	return nil
}

func (m *mockUserRepo) Delete(_ context.Context, id string) error {
	delete(m.users, id)
	return nil
}

func (m *mockUserRepo) List(_ context.Context, filters *repository.UserListFilters, offset, limit int) ([]model.User, int64, error) {
	var all []model.User
	for _, u := range m.users {
		if filters != nil {
			if filters.Role != "" && u.Role != filters.Role {
				continue
			}
			if filters.CoachID != "" && (u.CoachID == nil || *u.CoachID != filters.CoachID) {
				continue
			}
			if filters.Keyword != "" && !strings.Contains(u.FullName, filters.Keyword) && !strings.Contains(u.Email, filters.Keyword) {
				continue
			}
		}
		all = append(all, *u)
	}
	sort.Slice(all, func(i, j int) bool { return all[i].FullName < all[j].FullName })
	total := int64(len(all))
	if offset >= len(all) {
		return nil, total, nil
	}
	end := offset + limit
	if end > len(all) {
		end = len(all)
	}
	return all[offset:end], total, nil
}

func (m *mockUserRepo) ListStudents(_ context.Context, coachID string) ([]model.User, error) {
	var out []model.User
	for _, u := range m.users {
		if u.Role != model.RoleStudent {
			continue
		}
		if coachID != "" && (u.CoachID == nil || *u.CoachID != coachID) {
			continue
		}
		out = append(out, *u)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].FullName < out[j].FullName })
	return out, nil
}

func (m *mockUserRepo) CountByRole(_ context.Context, role model.Role) (int64, error) {
	var n int64
	for _, u := range m.users {
		if u.Role == role {
			n++
		}
	}
	return n, nil
}

// ── mock CoachRepository ──

type mockCoachRepo struct {
	coaches map[string]*model.Coach
	users   *mockUserRepo
	seq     int
}

func (m *mockCoachRepo) Create(_ context.Context, coach *model.Coach) error {
	if coach.CoachID == "" {
		m.seq++
		coach.CoachID = fmt.Sprintf("coach-%d", m.seq)
	}
	m.coaches[coach.CoachID] = coach
	return nil
}

func (m *mockCoachRepo) GetByID(_ context.Context, id string) (*model.Coach, error) {
	if c, ok := m.coaches[id]; ok {
		return c, nil
	}
	return nil, gorm.ErrRecordNotFound
}

func (m *mockCoachRepo) List(_ context.Context, activeOnly bool) ([]model.Coach, error) {
	var out []model.Coach
	for _, c := range m.coaches {
		if activeOnly && !c.Active {
			continue
		}
		out = append(out, *c)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out, nil
}

func (m *mockCoachRepo) Update(_ context.Context, coach *model.Coach) error {
	m.coaches[coach.CoachID] = coach
	return nil
}

func (m *mockCoachRepo) Delete(_ context.Context, id string) error {
	delete(m.coaches, id)
	return nil
}

func (m *mockCoachRepo) StudentCounts(_ context.Context) (map[string]int64, error) {
	counts := make(map[string]int64)
	if m.users == nil {
		return counts, nil
	}
	for _, u := range m.users.users {
		if u.CoachID != nil {
			counts[*u.CoachID]++
		}
	}
	return counts, nil
}

func (m *mockCoachRepo) CountActive(_ context.Context) (int64, error) {
	var n int64
	for _, c := range m.coaches {
		if c.Active {
			n++
		}
	}
	return n, nil
}

// ── mock LocationRepository ──

type mockLocationRepo struct {
	locations map[string]*model.Location
	deleteErr error
	seq       int
}

func (m *mockLocationRepo) Create(_ context.Context, loc *model.Location) error {
	if loc.LocationID == "" {
		m.seq++
		loc.LocationID = fmt.Sprintf("loc-%d", m.seq)
	}
	m.locations[loc.LocationID] = loc
	return nil
}

func (m *mockLocationRepo) GetByID(_ context.Context, id string) (*model.Location, error) {
	if l, ok := m.locations[id]; ok {
		return l, nil
	}
	return nil, gorm.ErrRecordNotFound
}

func (m *mockLocationRepo) List(_ context.Context) ([]model.Location, error) {
	var out []model.Location
	for _, l := range m.locations {
		out = append(out, *l)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out, nil
}

func (m *mockLocationRepo) Update(_ context.Context, loc *model.Location) error {
	cur, ok := m.locations[loc.LocationID]
	if !ok {
		return gorm.ErrRecordNotFound
	}
	next := *loc
	next.QRCode = cur.QRCode
	m.locations[loc.LocationID] = &next
	return nil
}

func (m *mockLocationRepo) RotateQRCode(_ context.Context, id, code string) error {
	cur, ok := m.locations[id]
	if !ok {
		return gorm.ErrRecordNotFound
	}
	next := *cur
	next.QRCode = code
	m.locations[id] = &next
	return nil
}

func (m *mockLocationRepo) Delete(_ context.Context, id string) error {
	if m.deleteErr != nil {
		return m.deleteErr
	}
	delete(m.locations, id)
	return nil
}

func (m *mockLocationRepo) Count(_ context.Context) (int64, error) {
	return int64(len(m.locations)), nil
}

// ── mock ScheduleRepository ──

type mockScheduleRepo struct {
	rows []model.Schedule
}

func (m *mockScheduleRepo) hasPending(userID string) bool {
	for _, r := range m.rows {
		if r.UserID == userID && r.Status == model.StatusPending {
			return true
		}
	}
	return false
}

func (m *mockScheduleRepo) CreateGroupIfNoPending(_ context.Context, userID string, rows []model.Schedule) error {
	if m.hasPending(userID) {
		return repository.ErrPendingGroupExists
	}
	m.rows = append(m.rows, rows...)
	return nil
}

func (m *mockScheduleRepo) ReplaceGroup(_ context.Context, userID, group string, rows []model.Schedule) error {
	kept := m.rows[:0:0]
	removed := 0
	for _, r := range m.rows {
		if r.UserID == userID && r.SubmissionGroup == group && r.Status == model.StatusPending {
			removed++
			continue
		}
		kept = append(kept, r)
	}
	if removed == 0 {
		return pkgerrors.ErrStateChanged
	}
	m.rows = append(kept, rows...)
	return nil
}

func (m *mockScheduleRepo) DeletePendingGroup(_ context.Context, userID string) error {
	kept := m.rows[:0:0]
	for _, r := range m.rows {
		if r.UserID == userID && r.Status == model.StatusPending {
			continue
		}
		kept = append(kept, r)
	}
	if len(kept) == len(m.rows) {
		return pkgerrors.ErrStateChanged
	}
	m.rows = kept
	return nil
}

func (m *mockScheduleRepo) filter(keep func(r *model.Schedule) bool) []model.Schedule {
	var out []model.Schedule
	for i := range m.rows {
		if keep(&m.rows[i]) {
			out = append(out, m.rows[i])
		}
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].DayOfWeek < out[j].DayOfWeek })
	return out
}

func (m *mockScheduleRepo) GetPendingGroup(_ context.Context, userID string) ([]model.Schedule, error) {
	return m.filter(func(r *model.Schedule) bool { return r.UserID == userID && r.Status == model.StatusPending }), nil
}

func (m *mockScheduleRepo) GetGroup(_ context.Context, group string) ([]model.Schedule, error) {
	return m.filter(func(r *model.Schedule) bool { return r.SubmissionGroup == group }), nil
}

func (m *mockScheduleRepo) ListByUser(_ context.Context, userID string) ([]model.Schedule, error) {
	out := m.filter(func(r *model.Schedule) bool { return r.UserID == userID })
	sort.SliceStable(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	return out, nil
}

func (m *mockScheduleRepo) ListGroups(_ context.Context, filters *repository.ScheduleGroupFilters, _, _ int) ([]model.Schedule, int64, error) {
	out := m.filter(func(r *model.Schedule) bool {
		if filters == nil {
			return true
		}
		return (filters.Status == "" || r.Status == filters.Status) && (filters.UserID == "" || r.UserID == filters.UserID)
	})
	groups := make(map[string]bool)
	for _, r := range out {
		groups[r.SubmissionGroup] = true
	}
	return out, int64(len(groups)), nil
}

func (m *mockScheduleRepo) ApproveGroup(_ context.Context, group string, note *string, validFrom, validUntil time.Time) error {
	userID := ""
	for i := range m.rows {
		r := &m.rows[i]
		if r.SubmissionGroup == group && r.Status == model.StatusPending {
			r.Status = model.StatusApproved
			r.AdminNote = note
			r.ValidFrom, r.ValidUntil = validFrom, validUntil
			r.UpdatedAt = time.Now()
			userID = r.UserID
		}
	}
	if userID == "" {
		return pkgerrors.ErrStateChanged
	}
	for i := range m.rows {
		r := &m.rows[i]
		if r.UserID != userID || r.Status != model.StatusApproved || r.SubmissionGroup == group {
			continue
		}
		switch {
		case attendance.DateKey(r.ValidFrom) >= attendance.DateKey(validFrom):
			r.Status = model.StatusSuperseded
		case attendance.DateKey(r.ValidUntil) >= attendance.DateKey(validFrom):
			r.ValidUntil = validFrom.AddDate(0, 0, -1)
		}
	}
	return nil
}

func (m *mockScheduleRepo) RejectGroup(_ context.Context, group string, note *string) error {
	n := 0
	for i := range m.rows {
		r := &m.rows[i]
		if r.SubmissionGroup == group && r.Status == model.StatusPending {
			r.Status = model.StatusRejected
			r.AdminNote = note
			r.UpdatedAt = time.Now()
			n++
		}
	}
	if n == 0 {
		return pkgerrors.ErrStateChanged
	}
	return nil
}

func (m *mockScheduleRepo) ListApprovedCovering(_ context.Context, day time.Time, dayOfWeek int, userIDs ...string) ([]model.Schedule, error) {
	users := make(map[string]bool, len(userIDs))
	for _, id := range userIDs {
		users[id] = true
	}
	return m.filter(func(r *model.Schedule) bool {
		return r.Status == model.StatusApproved &&
			attendance.CoversDate(r.ValidFrom, r.ValidUntil, day) &&
			(dayOfWeek == 0 || r.DayOfWeek == dayOfWeek) &&
			(len(users) == 0 || users[r.UserID])
	}), nil
}

func (m *mockScheduleRepo) ListStatusChangedSince(_ context.Context, since time.Time) ([]model.Schedule, error) {
	return m.filter(func(r *model.Schedule) bool {
		return r.Status != model.StatusPending && !r.UpdatedAt.Before(since)
	}), nil
}

func (m *mockScheduleRepo) CountPendingGroups(_ context.Context) (int64, error) {
	groups := make(map[string]bool)
	for _, r := range m.rows {
		if r.Status == model.StatusPending {
			groups[r.SubmissionGroup] = true
		}
	}
	return int64(len(groups)), nil
}

// ── mock CheckInRepository ──

type mockCheckInRepo struct {
	rows map[string]*model.CheckIn
}

func (m *mockCheckInRepo) Create(_ context.Context, c *model.CheckIn) error {
	for _, r := range m.rows {
		if r.UserID == c.UserID && r.Active() {
			return uniqueViolation(repository.ActiveCheckInConstraint)
		}
	}
	m.rows[c.CheckInID] = c
	return nil
}

func (m *mockCheckInRepo) GetByID(_ context.Context, id string) (*model.CheckIn, error) {
	if c, ok := m.rows[id]; ok {
		return c, nil
	}
	return nil, gorm.ErrRecordNotFound
}

func (m *mockCheckInRepo) GetActive(_ context.Context, userID string) (*model.CheckIn, error) {
	for _, r := range m.rows {
		if r.UserID == userID && r.Active() {
			cp := *r
			return &cp, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (m *mockCheckInRepo) Close(_ context.Context, id string, at time.Time) error {
	r, ok := m.rows[id]
	if !ok || !r.Active() {
		return pkgerrors.ErrStateChanged
	}
	r.CheckOutTime = &at
	return nil
}

func (m *mockCheckInRepo) sorted(keep func(r *model.CheckIn) bool) []model.CheckIn {
	var out []model.CheckIn
	for _, r := range m.rows {
		if keep(r) {
			out = append(out, *r)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CheckInTime.After(out[j].CheckInTime) })
	return out
}

func (m *mockCheckInRepo) List(_ context.Context, filters *repository.CheckInListFilters, _, _ int) ([]model.CheckIn, int64, error) {
	out := m.sorted(func(r *model.CheckIn) bool {
		if filters == nil {
			return true
		}
		if filters.UserID != "" && r.UserID != filters.UserID {
			return false
		}
		if filters.LocationID != "" && r.LocationID != filters.LocationID {
			return false
		}
		if filters.From != nil && r.CheckInTime.Before(*filters.From) {
			return false
		}
		if filters.To != nil && !r.CheckInTime.Before(*filters.To) {
			return false
		}
		return !filters.ActiveOnly || r.Active()
	})
	return out, int64(len(out)), nil
}

func (m *mockCheckInRepo) ListSince(_ context.Context, since time.Time, userIDs ...string) ([]model.CheckIn, error) {
	users := make(map[string]bool, len(userIDs))
	for _, id := range userIDs {
		users[id] = true
	}
	return m.sorted(func(r *model.CheckIn) bool {
		return !r.CheckInTime.Before(since) && (len(users) == 0 || users[r.UserID])
	}), nil
}

func (m *mockCheckInRepo) ListActive(_ context.Context) ([]model.CheckIn, error) {
	return m.sorted(func(r *model.CheckIn) bool { return r.Active() }), nil
}

func (m *mockCheckInRepo) ListRecent(_ context.Context, userID string, limit int) ([]model.CheckIn, error) {
	out := m.sorted(func(r *model.CheckIn) bool { return r.UserID == userID })
	if len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

func (m *mockCheckInRepo) SumHoursSince(_ context.Context, userID string, since time.Time) (float64, error) {
	var total float64
	for _, r := range m.rows {
		if r.UserID == userID && r.CheckOutTime != nil && !r.CheckInTime.Before(since) {
			total += attendance.ActualHours(r.CheckInTime, r.CheckOutTime)
		}
	}
	return total, nil
}

func (m *mockCheckInRepo) CountActive(ctx context.Context) (int64, error) {
	active, _ := m.ListActive(ctx)
	return int64(len(active)), nil
}

// ── mock LeaveRequestRepository ──

type mockLeaveRepo struct {
	rows map[string]*model.LeaveRequest
}

func (m *mockLeaveRepo) Create(_ context.Context, req *model.LeaveRequest) error {
	req.CreatedAt = time.Now()
	req.UpdatedAt = req.CreatedAt
	m.rows[req.LeaveRequestID] = req
	return nil
}

func (m *mockLeaveRepo) GetByID(_ context.Context, id string) (*model.LeaveRequest, error) {
	if r, ok := m.rows[id]; ok {
		cp := *r
		return &cp, nil
	}
	return nil, gorm.ErrRecordNotFound
}

func (m *mockLeaveRepo) sorted(keep func(r *model.LeaveRequest) bool) []model.LeaveRequest {
	var out []model.LeaveRequest
	for _, r := range m.rows {
		if keep(r) {
			out = append(out, *r)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Date.Before(out[j].Date) })
	return out
}

func (m *mockLeaveRepo) ListByUser(_ context.Context, userID string) ([]model.LeaveRequest, error) {
	return m.sorted(func(r *model.LeaveRequest) bool { return r.UserID == userID }), nil
}

func (m *mockLeaveRepo) List(_ context.Context, filters *repository.LeaveListFilters, _, _ int) ([]model.LeaveRequest, int64, error) {
	out := m.sorted(func(r *model.LeaveRequest) bool {
		return filters == nil ||
			(filters.Status == "" || r.Status == filters.Status) && (filters.UserID == "" || r.UserID == filters.UserID)
	})
	return out, int64(len(out)), nil
}

func (m *mockLeaveRepo) Review(_ context.Context, id string, status model.ApprovalStatus, note *string, reviewerID string, at time.Time) error {
	r, ok := m.rows[id]
	if !ok || r.Status != model.StatusPending {
		return pkgerrors.ErrStateChanged
	}
	r.Status = status
	r.AdminNote = note
	r.ReviewedBy = &reviewerID
	r.ReviewedAt = &at
	r.UpdatedAt = time.Now()
	return nil
}

func (m *mockLeaveRepo) ListStatusChangedSince(_ context.Context, since time.Time) ([]model.LeaveRequest, error) {
	return m.sorted(func(r *model.LeaveRequest) bool {
		return r.Status != model.StatusPending && !r.UpdatedAt.Before(since)
	}), nil
}

func (m *mockLeaveRepo) CountPending(_ context.Context, userID string) (int64, error) {
	var n int64
	for _, r := range m.rows {
		if r.Status == model.StatusPending && (userID == "" || r.UserID == userID) {
			n++
		}
	}
	return n, nil
}

func (m *mockLeaveRepo) ListUpcoming(_ context.Context, userID string, from time.Time, limit int) ([]model.LeaveRequest, error) {
	out := m.sorted(func(r *model.LeaveRequest) bool {
		return r.UserID == userID && attendance.DateKey(r.Date) >= attendance.DateKey(from) && r.Status != model.StatusRejected
	})
	if len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

// ── mock SettingRepository ──

type mockSettingRepo struct {
	rows map[string]*model.Setting
}

func (m *mockSettingRepo) Get(_ context.Context, key string) (*model.Setting, error) {
	if s, ok := m.rows[key]; ok {
		return s, nil
	}
	return nil, gorm.ErrRecordNotFound
}

func (m *mockSettingRepo) List(_ context.Context) ([]model.Setting, error) {
	var out []model.Setting
	for _, s := range m.rows {
		out = append(out, *s)
	}
	return out, nil
}

func (m *mockSettingRepo) Upsert(_ context.Context, s *model.Setting) error {
	s.UpdatedAt = time.Now()
	m.rows[s.Key] = s
	return nil
}

// ── mock PushSubscriptionRepository ──

type mockPushSubscriptionRepo struct {
	rows map[string]*model.PushSubscription
}

func (m *mockPushSubscriptionRepo) Upsert(_ context.Context, sub *model.PushSubscription) error {
	for _, s := range m.rows {
		if s.Endpoint == sub.Endpoint {
			s.UserID, s.P256dh, s.Auth = sub.UserID, sub.P256dh, sub.Auth
			return nil
		}
	}
	m.rows[sub.PushSubscriptionID] = sub
	return nil
}

func (m *mockPushSubscriptionRepo) DeleteByEndpoint(_ context.Context, userID, endpoint string) (int64, error) {
	var n int64
	for id, s := range m.rows {
		if s.UserID == userID && s.Endpoint == endpoint {
			delete(m.rows, id)
			n++
		}
	}
	return n, nil
}

func (m *mockPushSubscriptionRepo) DeleteByID(_ context.Context, id string) error {
	delete(m.rows, id)
	return nil
}

func (m *mockPushSubscriptionRepo) ListByUser(_ context.Context, userID string) ([]model.PushSubscription, error) {
	var out []model.PushSubscription
	for _, s := range m.rows {
		if s.UserID == userID {
			out = append(out, *s)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Endpoint < out[j].Endpoint })
	return out, nil
}

// ── mock NotificationLogRepository ──

type mockNotificationLogRepo struct {
	rows map[string]*model.NotificationLog
}

func notificationKey(userID, notificationType string, referenceDate time.Time) string {
	return userID + "|" + notificationType + "|" + attendance.DateKey(referenceDate)
}

func (m *mockNotificationLogRepo) Exists(_ context.Context, userID, notificationType string, referenceDate time.Time) (bool, error) {
	_, ok := m.rows[notificationKey(userID, notificationType, referenceDate)]
	return ok, nil
}

func (m *mockNotificationLogRepo) Claim(_ context.Context, entry *model.NotificationLog) (bool, error) {
	key := notificationKey(entry.UserID, entry.NotificationType, entry.ReferenceDate)
	if _, ok := m.rows[key]; ok {
		return false, nil
	}
	m.rows[key] = entry
	return true, nil
}

func (m *mockNotificationLogRepo) MarkDelivered(_ context.Context, id string) error {
	for _, e := range m.rows {
		if e.NotificationLogID == id {
			e.Delivered = true
			return nil
		}
	}
	return gorm.ErrRecordNotFound
}
