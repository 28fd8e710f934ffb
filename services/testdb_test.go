// services/testdb_test.go - Shared test fixtures over in-memory SQLite
package services

import (
	"fmt"
	"testing"

	"taskflow/database"
	"taskflow/models"

	"github.com/google/uuid"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// newTestDB opens a private in-memory database with the production
// schema. cache=shared keeps the database alive across the pooled
// connections gorm opens; the random name isolates tests from each
// other.
func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", uuid.New().String())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger:         logger.Default.LogMode(logger.Silent),
		TranslateError: true,
	})
	if err != nil {
		t.Fatalf("failed to open test database: %v", err)
	}

	if err := database.Migrate(db); err != nil {
		t.Fatalf("failed to migrate test database: %v", err)
	}

	t.Cleanup(func() {
		if sqlDB, err := db.DB(); err == nil {
			sqlDB.Close()
		}
	})
	return db
}

func createUser(t *testing.T, db *gorm.DB, name, email string) *models.User {
	t.Helper()

	user := &models.User{Name: name, Email: email, Password: "hashed"}
	if err := db.Create(user).Error; err != nil {
		t.Fatalf("failed to create user %s: %v", email, err)
	}
	return user
}

// boardFixture is the standard scene: a team with owner, admin and
// member, a bystander outside the team, and one project with its
// default board.
type boardFixture struct {
	db       *gorm.DB
	owner    *models.User
	admin    *models.User
	member   *models.User
	outsider *models.User
	team     *models.Team
	project  *models.Project
	columns  []models.Column
}

func newBoardFixture(t *testing.T) *boardFixture {
	t.Helper()

	db := newTestDB(t)
	owner := createUser(t, db, "Olive Owner", "owner@example.com")
	admin := createUser(t, db, "Ada Admin", "admin@example.com")
	member := createUser(t, db, "Milo Member", "member@example.com")
	outsider := createUser(t, db, "Oscar Outsider", "outsider@example.com")

	teams := NewTeamService(db)
	team, err := teams.CreateTeam("Engineering", "", owner.ID)
	if err != nil {
		t.Fatalf("failed to create team: %v", err)
	}
	if _, err := teams.AddMember(team.ID, owner.ID, admin.Email, models.TeamRoleAdmin); err != nil {
		t.Fatalf("failed to add admin: %v", err)
	}
	if _, err := teams.AddMember(team.ID, owner.ID, member.Email, models.TeamRoleMember); err != nil {
		t.Fatalf("failed to add member: %v", err)
	}

	project, err := NewProjectService(db).CreateProject(owner.ID, team.ID, "Backlog", "")
	if err != nil {
		t.Fatalf("failed to create project: %v", err)
	}

	columns, err := NewBoardService(db).ListColumns(project.ID, owner.ID)
	if err != nil {
		t.Fatalf("failed to list columns: %v", err)
	}

	return &boardFixture{
		db:       db,
		owner:    owner,
		admin:    admin,
		member:   member,
		outsider: outsider,
		team:     team,
		project:  project,
		columns:  columns,
	}
}
