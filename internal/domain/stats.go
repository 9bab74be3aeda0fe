package domain

import "time"

// StatusCount is one row of a tasks-by-status aggregation.
type StatusCount struct {
	ID    int64  `json:"id"`
	Name  string `json:"name"`
	Color string `json:"color"`
	Order int    `json:"order"`
	Count int64  `json:"count"`
}

type UserTaskCount struct {
	ID        int64  `json:"id"`
	Name      string `json:"name"`
	Email     string `json:"email"`
	TaskCount int64  `json:"taskCount"`
}

type ActivityTypeCount struct {
	Type  ActivityType `json:"type"`
	Count int64        `json:"count"`
}

// CompletionRate is completed/total*100, clamped to [0,100], and 0 when total is 0.
func CompletionRate(completed, total int64) float64 {
	if total <= 0 || completed <= 0 {
		return 0
	}
	if completed >= total {
		return 100
	}
	return float64(completed) / float64(total) * 100
}

// CompletedCount picks the terminal status count out of a by-status list.
func CompletedCount(counts []StatusCount) int64 {
	var n int64
	for _, c := range counts {
		if IsTerminalStatus(c.Name) {
			n += c.Count
		}
	}
	return n
}

type Period string

const (
	PeriodToday Period = "today"
	PeriodWeek  Period = "week"
	PeriodMonth Period = "month"
)

// ParsePeriod falls back to today for anything unrecognised.
func ParsePeriod(s string) Period {
	switch Period(s) {
	case PeriodWeek:
		return PeriodWeek
	case PeriodMonth:
		return PeriodMonth
	}
	return PeriodToday
}

// Start returns the beginning of the window ending at now.
func (p Period) Start(now time.Time) time.Time {
	switch p {
	case PeriodWeek:
		return now.AddDate(0, 0, -7)
	case PeriodMonth:
		return now.AddDate(0, -1, 0)
	}
	y, m, d := now.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, now.Location())
}

type TimeRange struct {
	Start time.Time `json:"startDate"`
	End   time.Time `json:"endDate"`
}

type AdditionalStats struct {
	OverdueTasks   int64   `json:"overdueTasks"`
	TotalTasks     int64   `json:"totalTasks"`
	CompletedTasks int64   `json:"completedTasks"`
	CompletionRate float64 `json:"completionRate"`
}

type Dashboard struct {
	TaskStats        []StatusCount   `json:"taskStats"`
	RecentActivities []Activity      `json:"recentActivities"`
	UpcomingTasks    []Task          `json:"upcomingTasks"`
	AdditionalStats  AdditionalStats `json:"additionalStats"`
}

type UserStats struct {
	TasksByStatus    []StatusCount `json:"tasksByStatus"`
	TotalActivities  int64         `json:"totalActivities"`
	RecentActivities []Activity    `json:"recentActivities"`
	UpcomingTasks    []Task        `json:"upcomingTasks"`
}

type SystemStats struct {
	TasksByStatus   []StatusCount   `json:"tasksByStatus"`
	TotalUsers      int64           `json:"totalUsers"`
	TotalActivities int64           `json:"totalActivities"`
	ActiveUsers     []UserTaskCount `json:"activeUsers"`
}

type TaskReport struct {
	Period        TimeRange     `json:"period"`
	TotalTasks    int64         `json:"totalTasks"`
	TasksByStatus []StatusCount `json:"tasksByStatus"`
	Tasks         []Task        `json:"tasks"`
}

type UserActivityReport struct {
	Period          TimeRange       `json:"period"`
	TotalActivities int64           `json:"totalActivities"`
	UserActivities  []UserTaskCount `json:"userActivities"`
	Activities      []Activity      `json:"activities"`
}

type SystemSummary struct {
	TotalTasks               int64   `json:"totalTasks"`
	CompletedTasks           int64   `json:"completedTasks"`
	CompletionRate           float64 `json:"completionRate"`
	TotalUsers               int64   `json:"totalUsers"`
	TotalActivities          int64   `json:"totalActivities"`
	AverageActivitiesPerUser float64 `json:"averageActivitiesPerUser"`
}

type SystemReport struct {
	Period               TimeRange           `json:"period"`
	Summary              SystemSummary       `json:"summary"`
	TaskDistribution     []StatusCount       `json:"taskDistribution"`
	ActivityDistribution []ActivityTypeCount `json:"activityDistribution"`
}

// AveragePerUser is 0 when there are no users.
func AveragePerUser(activities, users int64) float64 {
	if users <= 0 {
		return 0
	}
	return float64(activities) / float64(users)
}
