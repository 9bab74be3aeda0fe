package service

import (
	"context"
	"strconv"
	"time"

	"taskboard/internal/cache"
	"taskboard/internal/domain"
	"taskboard/internal/repository"
)

const (
	DashboardActivityLimit = 10
	DashboardUpcomingLimit = 5
	UserStatsActivityLimit = 5
	UserStatsUpcomingLimit = 5
	UserStatsUpcomingDays  = 7
	ActiveUsersLimit       = 5
)

const dateLayout = "2006-01-02"

// StatsService builds dashboards and reports. Every aggregate is computed
// inside one read snapshot.
type StatsService struct {
	store repository.Store
	cache *cache.Cache
	now   func() time.Time
}

func NewStatsService(store repository.Store, c *cache.Cache) *StatsService {
	return &StatsService{store: store, cache: c, now: time.Now}
}

// WithClock replaces the time source.
func (s *StatsService) WithClock(now func() time.Time) *StatsService {
	s.now = now
	return s
}

func (s *StatsService) Dashboard(ctx context.Context, userID int64, period domain.Period) (*domain.Dashboard, error) {
	key := "dashboard:" + strconv.FormatInt(userID, 10) + ":" + string(period)
	return cache.Remember(ctx, s.cache, key, func(ctx context.Context) (*domain.Dashboard, error) {
		return s.dashboard(ctx, userID, period)
	})
}

func (s *StatsService) dashboard(ctx context.Context, userID int64, period domain.Period) (*domain.Dashboard, error) {
	now := s.now()
	window := repository.Window{From: period.Start(now), To: now}
	terminal := domain.TerminalStatusName()
	mine := repository.TaskFilter{MemberID: userID}

	d := &domain.Dashboard{}
	err := s.store.ReadSnapshot(ctx, func(q repository.Querier) error {
		var err error
		if d.TaskStats, err = q.CountTasksByStatus(ctx, repository.TaskFilter{MemberID: userID, Created: window}); err != nil {
			return err
		}
		if d.RecentActivities, err = q.ListActivities(ctx, repository.ActivityFilter{
			ActorOrAssigneeID: userID,
			Window:            window,
			Limit:             DashboardActivityLimit,
		}); err != nil {
			return err
		}
		if d.UpcomingTasks, err = q.ListTasks(ctx, repository.TaskFilter{
			MemberID:          userID,
			DueFrom:           now,
			ExcludeStatusName: terminal,
			OrderByDue:        true,
			Limit:             DashboardUpcomingLimit,
		}); err != nil {
			return err
		}
		if err := attachComments(ctx, q, d.UpcomingTasks); err != nil {
			return err
		}

		total, err := q.CountTasks(ctx, mine)
		if err != nil {
			return err
		}
		completed, err := q.CountTasks(ctx, repository.TaskFilter{MemberID: userID, StatusName: terminal})
		if err != nil {
			return err
		}
		overdue, err := q.CountTasks(ctx, repository.TaskFilter{
			MemberID:          userID,
			DueTo:             now,
			ExcludeStatusName: terminal,
		})
		if err != nil {
			return err
		}
		d.AdditionalStats = domain.AdditionalStats{
			OverdueTasks:   overdue,
			TotalTasks:     total,
			CompletedTasks: completed,
			CompletionRate: domain.CompletionRate(completed, total),
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return d, nil
}

func (s *StatsService) UserStats(ctx context.Context, userID int64) (*domain.UserStats, error) {
	now := s.now()
	st := &domain.UserStats{}
	err := s.store.ReadSnapshot(ctx, func(q repository.Querier) error {
		var err error
		if st.TasksByStatus, err = q.CountTasksByStatus(ctx, repository.TaskFilter{AssigneeID: userID}); err != nil {
			return err
		}
		if st.TotalActivities, err = q.CountActivities(ctx, repository.ActivityFilter{ActorID: userID}); err != nil {
			return err
		}
		if st.RecentActivities, err = q.ListActivities(ctx, repository.ActivityFilter{
			ActorID: userID,
			Limit:   UserStatsActivityLimit,
		}); err != nil {
			return err
		}
		st.UpcomingTasks, err = q.ListTasks(ctx, repository.TaskFilter{
			AssigneeID: userID,
			DueFrom:    now,
			DueTo:      now.AddDate(0, 0, UserStatsUpcomingDays),
			OrderByDue: true,
			Limit:      UserStatsUpcomingLimit,
		})
		return err
	})
	if err != nil {
		return nil, err
	}
	return st, nil
}

func (s *StatsService) SystemStats(ctx context.Context) (*domain.SystemStats, error) {
	return cache.Remember(ctx, s.cache, "system", s.systemStats)
}

func (s *StatsService) systemStats(ctx context.Context) (*domain.SystemStats, error) {
	st := &domain.SystemStats{}
	err := s.store.ReadSnapshot(ctx, func(q repository.Querier) error {
		var err error
		if st.TasksByStatus, err = q.CountTasksByStatus(ctx, repository.TaskFilter{}); err != nil {
			return err
		}
		if st.TotalUsers, err = q.CountUsers(ctx, repository.Window{}); err != nil {
			return err
		}
		if st.TotalActivities, err = q.CountActivities(ctx, repository.ActivityFilter{}); err != nil {
			return err
		}
		st.ActiveUsers, err = q.ListUserTaskCounts(ctx, repository.UserTaskFilter{Limit: ActiveUsersLimit})
		return err
	})
	if err != nil {
		return nil, err
	}
	return st, nil
}

func (s *StatsService) TaskReport(ctx context.Context, r domain.TimeRange) (*domain.TaskReport, error) {
	window := repository.Window{From: r.Start, To: r.End}
	rep := &domain.TaskReport{Period: r}
	err := s.store.ReadSnapshot(ctx, func(q repository.Querier) error {
		var err error
		if rep.Tasks, err = q.ListTasks(ctx, repository.TaskFilter{Created: window}); err != nil {
			return err
		}
		rep.TotalTasks = int64(len(rep.Tasks))
		rep.TasksByStatus, err = q.CountTasksByStatus(ctx, repository.TaskFilter{Created: window})
		return err
	})
	if err != nil {
		return nil, err
	}
	return rep, nil
}

func (s *StatsService) UserReport(ctx context.Context, r domain.TimeRange) (*domain.UserActivityReport, error) {
	window := repository.Window{From: r.Start, To: r.End}
	rep := &domain.UserActivityReport{Period: r}
	err := s.store.ReadSnapshot(ctx, func(q repository.Querier) error {
		var err error
		if rep.Activities, err = q.ListActivities(ctx, repository.ActivityFilter{Window: window}); err != nil {
			return err
		}
		rep.TotalActivities = int64(len(rep.Activities))
		rep.UserActivities, err = q.ListUserTaskCounts(ctx, repository.UserTaskFilter{
			Created:       window,
			OnlyWithTasks: true,
		})
		return err
	})
	if err != nil {
		return nil, err
	}
	return rep, nil
}

func (s *StatsService) SystemReport(ctx context.Context, r domain.TimeRange) (*domain.SystemReport, error) {
	if r.Start.IsZero() {
		r.Start = time.Unix(0, 0).UTC()
	}
	if r.End.IsZero() {
		r.End = s.now()
	}
	window := repository.Window{From: r.Start, To: r.End}

	rep := &domain.SystemReport{Period: r}
	err := s.store.ReadSnapshot(ctx, func(q repository.Querier) error {
		total, err := q.CountTasks(ctx, repository.TaskFilter{Created: window})
		if err != nil {
			return err
		}
		if rep.TaskDistribution, err = q.CountTasksByStatus(ctx, repository.TaskFilter{Created: window}); err != nil {
			return err
		}
		users, err := q.CountUsers(ctx, window)
		if err != nil {
			return err
		}
		activities, err := q.CountActivities(ctx, repository.ActivityFilter{Window: window})
		if err != nil {
			return err
		}
		if rep.ActivityDistribution, err = q.CountActivitiesByType(ctx, window); err != nil {
			return err
		}

		completed := domain.CompletedCount(rep.TaskDistribution)
		rep.Summary = domain.SystemSummary{
			TotalTasks:               total,
			CompletedTasks:           completed,
			CompletionRate:           domain.CompletionRate(completed, total),
			TotalUsers:               users,
			TotalActivities:          activities,
			AverageActivitiesPerUser: domain.AveragePerUser(activities, users),
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return rep, nil
}

// ParseRange reads report bounds given as RFC3339 or YYYY-MM-DD. A date-only
// end covers that whole day. When required, both bounds must be present.
func ParseRange(start, end string, required bool) (domain.TimeRange, error) {
	var r domain.TimeRange
	if required && (start == "" || end == "") {
		return r, domain.Validation("Las fechas de inicio y fin son requeridas")
	}

	var err error
	if start != "" {
		if r.Start, _, err = parseDate(start); err != nil {
			return r, err
		}
	}
	if end != "" {
		var dateOnly bool
		if r.End, dateOnly, err = parseDate(end); err != nil {
			return r, err
		}
		if dateOnly {
			r.End = r.End.AddDate(0, 0, 1).Add(-time.Nanosecond)
		}
	}
	if !r.Start.IsZero() && !r.End.IsZero() && r.End.Before(r.Start) {
		return r, domain.Validation("La fecha de inicio debe ser anterior a la fecha de fin")
	}
	return r, nil
}

func parseDate(s string) (time.Time, bool, error) {
	if t, err := time.Parse(time.RFC3339, s); err == nil {
		return t, false, nil
	}
	if t, err := time.Parse(dateLayout, s); err == nil {
		return t, true, nil
	}
	return time.Time{}, false, domain.Validation("Formato de fecha inválido")
}

func attachComments(ctx context.Context, q repository.Querier, tasks []domain.Task) error {
	if len(tasks) == 0 {
		return nil
	}
	ids := make([]int64, len(tasks))
	for i := range tasks {
		ids[i] = tasks[i].ID
	}
	comments, err := q.ListCommentsForTasks(ctx, ids)
	if err != nil {
		return err
	}
	for i := range tasks {
		tasks[i].Comments = comments[tasks[i].ID]
		if tasks[i].Comments == nil {
			tasks[i].Comments = []domain.Comment{}
		}
	}
	return nil
}
