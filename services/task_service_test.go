package services

import (
	"testing"

	"taskflow/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func (f *boardFixture) createTask(t *testing.T, title string, columnID uint) *models.Task {
	t.Helper()

	task, err := NewTaskService(f.db).CreateTask(f.member.ID, TaskInput{
		Title:     title,
		ProjectID: f.project.ID,
		ColumnID:  columnID,
	})
	require.NoError(t, err)
	return task
}

func TestCreateTaskAppendsToColumn(t *testing.T) {
	fix := newBoardFixture(t)

	first := fix.createTask(t, "First", fix.columns[0].ID)
	second := fix.createTask(t, "Second", fix.columns[0].ID)
	elsewhere := fix.createTask(t, "Elsewhere", fix.columns[1].ID)

	assert.Equal(t, 0, first.Order)
	assert.Equal(t, 1, second.Order)
	assert.Equal(t, 0, elsewhere.Order, "ordering is per column")
	assert.Equal(t, fix.member.ID, first.ReporterID)
	assert.Equal(t, models.PriorityMedium, first.Priority)
}

func TestCreateTaskUnknownColumn(t *testing.T) {
	fix := newBoardFixture(t)
	tasks := NewTaskService(fix.db)

	_, err := tasks.CreateTask(fix.member.ID, TaskInput{
		Title:     "Lost",
		ProjectID: fix.project.ID,
		ColumnID:  9999,
	})
	assert.ErrorIs(t, err, ErrColumnNotFound)
}

func TestMoveTaskSetsExactPlacement(t *testing.T) {
	fix := newBoardFixture(t)
	tasks := NewTaskService(fix.db)

	task := fix.createTask(t, "Movable", fix.columns[0].ID)
	sibling := fix.createTask(t, "Sibling", fix.columns[0].ID)

	moved, err := tasks.MoveTask(task.ID, fix.member.ID, fix.columns[1].ID, 5)
	require.NoError(t, err)
	assert.Equal(t, fix.columns[1].ID, moved.ColumnID)
	assert.Equal(t, 5, moved.Order)

	// The sibling is never renumbered.
	kept, err := tasks.GetTask(sibling.ID, fix.member.ID)
	require.NoError(t, err)
	assert.Equal(t, fix.columns[0].ID, kept.ColumnID)
	assert.Equal(t, 1, kept.Order)
}

func TestMoveTaskToleratesDuplicateOrders(t *testing.T) {
	fix := newBoardFixture(t)
	tasks := NewTaskService(fix.db)

	a := fix.createTask(t, "A", fix.columns[0].ID)
	b := fix.createTask(t, "B", fix.columns[0].ID)

	// Move B onto A's order value. Both keep order 0; reads break the
	// tie by id, so the listing stays deterministic.
	_, err := tasks.MoveTask(b.ID, fix.member.ID, fix.columns[0].ID, 0)
	require.NoError(t, err)

	listed, err := tasks.ListTasks(fix.project.ID, fix.member.ID)
	require.NoError(t, err)
	require.Len(t, listed, 2)
	assert.Equal(t, a.ID, listed[0].ID)
	assert.Equal(t, b.ID, listed[1].ID)
	assert.Equal(t, listed[0].Order, listed[1].Order)
}

func TestMoveTaskUnknownColumn(t *testing.T) {
	fix := newBoardFixture(t)
	tasks := NewTaskService(fix.db)

	task := fix.createTask(t, "Stuck", fix.columns[0].ID)
	_, err := tasks.MoveTask(task.ID, fix.member.ID, 9999, 0)
	assert.ErrorIs(t, err, ErrColumnNotFound)
}

func TestMoveTaskRequiresMembership(t *testing.T) {
	fix := newBoardFixture(t)
	tasks := NewTaskService(fix.db)

	task := fix.createTask(t, "Guarded", fix.columns[0].ID)
	_, err := tasks.MoveTask(task.ID, fix.outsider.ID, fix.columns[1].ID, 0)
	assert.ErrorIs(t, err, ErrNotMember)
}

func TestReorderTasks(t *testing.T) {
	fix := newBoardFixture(t)
	tasks := NewTaskService(fix.db)

	a := fix.createTask(t, "A", fix.columns[0].ID)
	b := fix.createTask(t, "B", fix.columns[0].ID)

	projects, err := tasks.ReorderTasks(fix.member.ID, []TaskOrder{
		{ID: a.ID, Order: 1},
		{ID: b.ID, Order: 0, Column: fix.columns[2].ID},
	})
	require.NoError(t, err)
	assert.Equal(t, []uint{fix.project.ID}, projects)

	reloadedA, _ := tasks.GetTask(a.ID, fix.member.ID)
	reloadedB, _ := tasks.GetTask(b.ID, fix.member.ID)
	assert.Equal(t, 1, reloadedA.Order)
	assert.Equal(t, fix.columns[0].ID, reloadedA.ColumnID)
	assert.Equal(t, 0, reloadedB.Order)
	assert.Equal(t, fix.columns[2].ID, reloadedB.ColumnID)
}

func TestReorderTasksPartialFailure(t *testing.T) {
	fix := newBoardFixture(t)
	tasks := NewTaskService(fix.db)

	a := fix.createTask(t, "A", fix.columns[0].ID)

	projects, err := tasks.ReorderTasks(fix.member.ID, []TaskOrder{
		{ID: a.ID, Order: 7},
		{ID: 9999, Order: 0},
	})
	assert.ErrorIs(t, err, ErrTaskNotFound)

	// The first update stays applied and the touched project is still
	// reported so subscribers get refreshed.
	assert.Equal(t, []uint{fix.project.ID}, projects)
	reloaded, _ := tasks.GetTask(a.ID, fix.member.ID)
	assert.Equal(t, 7, reloaded.Order)
}

func TestUpdateTaskPartial(t *testing.T) {
	fix := newBoardFixture(t)
	tasks := NewTaskService(fix.db)

	task := fix.createTask(t, "Editable", fix.columns[0].ID)

	title := "Edited"
	high := models.PriorityHigh
	updated, err := tasks.UpdateTask(task.ID, fix.member.ID, TaskUpdate{
		Title:      &title,
		AssigneeID: &fix.admin.ID,
		Priority:   &high,
		Labels:     []string{"bug", "backend"},
	})
	require.NoError(t, err)
	assert.Equal(t, "Edited", updated.Title)
	require.NotNil(t, updated.AssigneeID)
	assert.Equal(t, fix.admin.ID, *updated.AssigneeID)
	assert.Equal(t, models.PriorityHigh, updated.Priority)
	assert.Equal(t, models.StringList{"bug", "backend"}, updated.Labels)

	cleared, err := tasks.UpdateTask(task.ID, fix.member.ID, TaskUpdate{ClearAssignee: true})
	require.NoError(t, err)
	assert.Nil(t, cleared.AssigneeID)
	assert.Equal(t, "Edited", cleared.Title, "untouched fields survive")
}

func TestGetTaskRequiresMembership(t *testing.T) {
	fix := newBoardFixture(t)
	tasks := NewTaskService(fix.db)

	task := fix.createTask(t, "Private", fix.columns[0].ID)
	_, err := tasks.GetTask(task.ID, fix.outsider.ID)
	assert.ErrorIs(t, err, ErrNotMember)
}

func TestDeleteTask(t *testing.T) {
	fix := newBoardFixture(t)
	tasks := NewTaskService(fix.db)

	task := fix.createTask(t, "Doomed", fix.columns[0].ID)
	_, err := tasks.DeleteTask(task.ID, fix.member.ID)
	require.NoError(t, err)

	_, err = tasks.GetTask(task.ID, fix.member.ID)
	assert.ErrorIs(t, err, ErrTaskNotFound)
}
