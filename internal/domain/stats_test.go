package domain

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestCompletionRate(t *testing.T) {
	tests := []struct {
		name      string
		completed int64
		total     int64
		want      float64
	}{
		{name: "no tasks", completed: 0, total: 0, want: 0},
		{name: "none completed", completed: 0, total: 4, want: 0},
		{name: "half", completed: 2, total: 4, want: 50},
		{name: "all", completed: 3, total: 3, want: 100},
		{name: "inconsistent counts clamp", completed: 5, total: 3, want: 100},
		{name: "negative total", completed: 1, total: -1, want: 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := CompletionRate(tt.completed, tt.total)
			assert.InDelta(t, tt.want, got, 0.0001)
			assert.GreaterOrEqual(t, got, 0.0)
			assert.LessOrEqual(t, got, 100.0)
		})
	}
}

func TestCompletionRateZeroOnlyWhenNoneCompleted(t *testing.T) {
	for total := int64(1); total <= 20; total++ {
		for completed := int64(1); completed <= total; completed++ {
			assert.Greater(t, CompletionRate(completed, total), 0.0, "completed=%d total=%d", completed, total)
		}
	}
}

func TestCompletedCount(t *testing.T) {
	counts := []StatusCount{
		{Name: StatusPending, Count: 4},
		{Name: StatusInProgress, Count: 2},
		{Name: StatusCompleted, Count: 3},
	}
	assert.Equal(t, int64(3), CompletedCount(counts))
	assert.Equal(t, int64(0), CompletedCount(nil))
}

func TestPeriodStart(t *testing.T) {
	now := time.Date(2024, 3, 15, 14, 30, 0, 0, time.UTC)

	assert.Equal(t, time.Date(2024, 3, 15, 0, 0, 0, 0, time.UTC), ParsePeriod("today").Start(now))
	assert.Equal(t, time.Date(2024, 3, 8, 14, 30, 0, 0, time.UTC), ParsePeriod("week").Start(now))
	assert.Equal(t, time.Date(2024, 2, 15, 14, 30, 0, 0, time.UTC), ParsePeriod("month").Start(now))
	assert.Equal(t, PeriodToday, ParsePeriod("yearly"))
	assert.Equal(t, PeriodToday, ParsePeriod(""))
}

func TestAveragePerUser(t *testing.T) {
	assert.Equal(t, 0.0, AveragePerUser(10, 0))
	assert.Equal(t, 2.5, AveragePerUser(10, 4))
}

func TestStatusPredicates(t *testing.T) {
	assert.True(t, IsProtectedStatus("Pendiente"))
	assert.True(t, IsProtectedStatus("En Progreso"))
	assert.True(t, IsProtectedStatus("Completada"))
	assert.False(t, IsProtectedStatus("Bloqueada"))

	assert.True(t, IsTerminalStatus(StatusCompleted))
	assert.False(t, IsTerminalStatus(StatusInProgress))
}

func TestActivityTypeValid(t *testing.T) {
	for _, at := range ActivityTypes {
		assert.True(t, at.Valid())
	}
	assert.False(t, ActivityType("Tarea Archivada").Valid())
}

func TestTaskCanDelete(t *testing.T) {
	assignee := int64(7)
	task := &Task{UserID: 3, AssigneeID: &assignee}

	assert.True(t, task.CanDelete(3))
	assert.True(t, task.CanDelete(7))
	assert.False(t, task.CanDelete(9))

	unassigned := &Task{UserID: 3}
	assert.False(t, unassigned.CanDelete(7))
}

func TestDescriptions(t *testing.T) {
	assert.Equal(t, `Tarea "Deploy" creada`, DescribeTaskCreated("Deploy"))
	assert.Equal(t, `Estado de la tarea "Deploy" cambiado a Completada`, DescribeStatusChanged("Deploy", "Completada"))
	assert.Equal(t, `Asignación de la tarea "Deploy" actualizada a nadie`, DescribeAssigneeChanged("Deploy", ""))
	assert.Equal(t, `Comentario agregado a la tarea "Deploy"`, DescribeCommentAdded("Deploy"))
	assert.Equal(t, `Tarea "Deploy" eliminada`, DescribeTaskDeleted("Deploy"))
}
