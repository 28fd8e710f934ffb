package services

import (
	"testing"

	"taskflow/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBuildProjectKey(t *testing.T) {
	cases := []struct {
		name string
		want string
	}{
		{"Mobile App", "MOBIL"},
		{"mobile", "MOBIL"},
		{"Go!", "GO"},
		{"API v2 Gateway", "APIVG"},
		{"99", "PRJ"},
		{"x", "PRJ"},
		{"", "PRJ"},
		{"  - 7a -  ", "PRJ"},
		{"Внутренний", "PRJ"},
	}

	for _, tc := range cases {
		assert.Equal(t, tc.want, buildProjectKey(tc.name), "name %q", tc.name)
	}
}

func TestCreateProjectAllocatesSuffixedKeys(t *testing.T) {
	fix := newBoardFixture(t)
	projects := NewProjectService(fix.db)

	first, err := projects.CreateProject(fix.owner.ID, fix.team.ID, "Mobile App", "")
	require.NoError(t, err)
	assert.Equal(t, "MOBIL", first.Key)

	second, err := projects.CreateProject(fix.owner.ID, fix.team.ID, "Mobile Auth", "")
	require.NoError(t, err)
	assert.Equal(t, "MOBIL1", second.Key)

	third, err := projects.CreateProject(fix.owner.ID, fix.team.ID, "Mobile Ads", "")
	require.NoError(t, err)
	assert.Equal(t, "MOBIL2", third.Key)
}

func TestCreateProjectKeyFallback(t *testing.T) {
	fix := newBoardFixture(t)
	projects := NewProjectService(fix.db)

	project, err := projects.CreateProject(fix.owner.ID, fix.team.ID, "42", "")
	require.NoError(t, err)
	assert.Equal(t, "PRJ", project.Key)

	again, err := projects.CreateProject(fix.owner.ID, fix.team.ID, "99", "")
	require.NoError(t, err)
	assert.Equal(t, "PRJ1", again.Key)
}

func TestProjectKeysScopedPerTeam(t *testing.T) {
	fix := newBoardFixture(t)
	teams := NewTeamService(fix.db)
	projects := NewProjectService(fix.db)

	other, err := teams.CreateTeam("Design", "", fix.owner.ID)
	require.NoError(t, err)

	a, err := projects.CreateProject(fix.owner.ID, fix.team.ID, "Website", "")
	require.NoError(t, err)
	b, err := projects.CreateProject(fix.owner.ID, other.ID, "Website", "")
	require.NoError(t, err)

	// Same key in different teams is fine; uniqueness is per team.
	assert.Equal(t, "WEBSI", a.Key)
	assert.Equal(t, "WEBSI", b.Key)
}

func TestCreateProjectBuildsDefaultBoard(t *testing.T) {
	fix := newBoardFixture(t)

	require.Len(t, fix.columns, 3)
	assert.Equal(t, "To Do", fix.columns[0].Name)
	assert.Equal(t, "In Progress", fix.columns[1].Name)
	assert.Equal(t, "Done", fix.columns[2].Name)
	for i, col := range fix.columns {
		assert.Equal(t, i, col.Order)
		assert.Equal(t, fix.project.ID, col.ProjectID)
	}
}

func TestCreateProjectRequiresMembership(t *testing.T) {
	fix := newBoardFixture(t)
	projects := NewProjectService(fix.db)

	_, err := projects.CreateProject(fix.outsider.ID, fix.team.ID, "Sneaky", "")
	assert.ErrorIs(t, err, ErrNotMember)
}

func TestListProjectsUnknownTeam(t *testing.T) {
	fix := newBoardFixture(t)
	projects := NewProjectService(fix.db)

	_, err := projects.ListProjects(9999, fix.owner.ID)
	assert.ErrorIs(t, err, ErrTeamNotFound)
}

func TestListProjectsRequiresMembership(t *testing.T) {
	fix := newBoardFixture(t)
	projects := NewProjectService(fix.db)

	_, err := projects.ListProjects(fix.team.ID, fix.outsider.ID)
	assert.ErrorIs(t, err, ErrNotMember)
}

func TestUpdateProjectRequiresAdmin(t *testing.T) {
	fix := newBoardFixture(t)
	projects := NewProjectService(fix.db)

	name := "Renamed"
	_, err := projects.UpdateProject(fix.project.ID, fix.member.ID, &name, nil)
	assert.ErrorIs(t, err, ErrNotAuthorized)

	updated, err := projects.UpdateProject(fix.project.ID, fix.admin.ID, &name, nil)
	require.NoError(t, err)
	assert.Equal(t, "Renamed", updated.Name)
	assert.Equal(t, fix.project.Key, updated.Key, "rename must not change the key")
}

func TestDeleteProjectCascades(t *testing.T) {
	fix := newBoardFixture(t)
	projects := NewProjectService(fix.db)
	tasks := NewTaskService(fix.db)

	_, err := tasks.CreateTask(fix.member.ID, TaskInput{
		Title:     "Orphan candidate",
		ProjectID: fix.project.ID,
		ColumnID:  fix.columns[0].ID,
	})
	require.NoError(t, err)

	assert.ErrorIs(t, projects.DeleteProject(fix.project.ID, fix.member.ID), ErrNotAuthorized)

	require.NoError(t, projects.DeleteProject(fix.project.ID, fix.admin.ID))

	var count int64
	fix.db.Model(&models.Task{}).Where("project_id = ?", fix.project.ID).Count(&count)
	assert.Zero(t, count)
	fix.db.Model(&models.Column{}).Where("project_id = ?", fix.project.ID).Count(&count)
	assert.Zero(t, count)

	_, err = projects.GetProjectByID(fix.project.ID)
	assert.ErrorIs(t, err, ErrProjectNotFound)
}
