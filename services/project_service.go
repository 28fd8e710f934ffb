// services/project_service.go - Project CRUD and key allocation
package services

import (
	"errors"
	"fmt"
	"log"
	"strings"

	"taskflow/models"

	"gorm.io/gorm"
)

const (
	defaultProjectKey = "PRJ"
	maxKeyAttempts    = 5
)

// Default board created with every project.
var defaultColumns = []struct {
	Name  string
	Color string
}{
	{"To Do", "#94a3b8"},
	{"In Progress", "#3b82f6"},
	{"Done", "#22c55e"},
}

type ProjectService struct {
	db *gorm.DB
}

func NewProjectService(db *gorm.DB) *ProjectService {
	return &ProjectService{db: db}
}

// buildProjectKey derives the base key from a project name: ASCII
// letters only, first five, uppercased. Names with fewer than two
// usable letters fall back to "PRJ".
func buildProjectKey(name string) string {
	var b strings.Builder
	for _, r := range name {
		if r >= 'a' && r <= 'z' {
			b.WriteByte(byte(r - 'a' + 'A'))
		} else if r >= 'A' && r <= 'Z' {
			b.WriteByte(byte(r))
		}
		if b.Len() == 5 {
			break
		}
	}
	if b.Len() < 2 {
		return defaultProjectKey
	}
	return b.String()
}

// resolveKey finds the first free key in the team: baseKey, then
// baseKey1, baseKey2, ... Two teams may hold the same key; uniqueness
// is per team only.
func (s *ProjectService) resolveKey(teamID uint, baseKey string) (string, error) {
	key := baseKey
	for suffix := 1; ; suffix++ {
		var count int64
		err := s.db.Model(&models.Project{}).
			Where("team_id = ? AND key = ?", teamID, key).
			Count(&count).Error
		if err != nil {
			return "", err
		}
		if count == 0 {
			return key, nil
		}
		key = fmt.Sprintf("%s%d", baseKey, suffix)
	}
}

// CreateProject allocates a key and persists the project, then builds
// the default board. The existence check and the insert are separate
// round trips, so the (team_id, key) unique index is the arbiter:
// losing a concurrent race surfaces gorm.ErrDuplicatedKey, and the
// allocation is retried with a fresh suffix.
func (s *ProjectService) CreateProject(creatorID, teamID uint, name, description string) (*models.Project, error) {
	if err := requireMember(s.db, teamID, creatorID); err != nil {
		return nil, err
	}

	baseKey := buildProjectKey(name)

	for attempt := 0; attempt < maxKeyAttempts; attempt++ {
		key, err := s.resolveKey(teamID, baseKey)
		if err != nil {
			return nil, err
		}

		project := &models.Project{
			Name:        name,
			Description: description,
			Key:         key,
			TeamID:      teamID,
			CreatedByID: creatorID,
		}

		err = s.db.Create(project).Error
		if err == nil {
			s.createDefaultBoard(project.ID)
			return s.GetProjectByID(project.ID)
		}
		if !errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, err
		}
		// Lost the insert race on (team_id, key); re-resolve and retry.
	}

	return nil, ErrKeyExists
}

// createDefaultBoard creates the three standard columns. A failure
// here leaves the project in a valid but board-less state; that is
// accepted and logged, not rolled back.
func (s *ProjectService) createDefaultBoard(projectID uint) {
	for i, col := range defaultColumns {
		column := &models.Column{
			Name:      col.Name,
			Color:     col.Color,
			ProjectID: projectID,
			Order:     i,
		}
		if err := s.db.Create(column).Error; err != nil {
			log.Printf("Default column %q not created for project %d: %v", col.Name, projectID, err)
		}
	}
}

// GetProjectByID loads a project without authorization.
func (s *ProjectService) GetProjectByID(projectID uint) (*models.Project, error) {
	var project models.Project
	err := s.db.Preload("CreatedBy").Preload("Team").First(&project, projectID).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrProjectNotFound
		}
		return nil, err
	}
	return &project, nil
}

// GetProject loads a project for a requester, who must be a team member.
func (s *ProjectService) GetProject(projectID, userID uint) (*models.Project, error) {
	project, err := s.GetProjectByID(projectID)
	if err != nil {
		return nil, err
	}
	if err := requireMember(s.db, project.TeamID, userID); err != nil {
		return nil, notAuthorizedTo("view this project")
	}
	return project, nil
}

// ListProjects returns a team's projects, newest first (member only).
func (s *ProjectService) ListProjects(teamID, userID uint) ([]models.Project, error) {
	var count int64
	if err := s.db.Model(&models.Team{}).Where("id = ?", teamID).Count(&count).Error; err != nil {
		return nil, err
	}
	if count == 0 {
		return nil, ErrTeamNotFound
	}
	if err := requireMember(s.db, teamID, userID); err != nil {
		return nil, err
	}

	var projects []models.Project
	err := s.db.Where("team_id = ?", teamID).
		Preload("CreatedBy").
		Preload("Team").
		Order("created_at DESC").
		Find(&projects).Error
	return projects, err
}

// UpdateProject updates name/description (admin or owner only).
func (s *ProjectService) UpdateProject(projectID, userID uint, name, description *string) (*models.Project, error) {
	project, err := s.GetProjectByID(projectID)
	if err != nil {
		return nil, err
	}
	if err := requireRole(s.db, project.TeamID, userID, models.TeamRoleAdmin); err != nil {
		return nil, notAuthorizedTo("update this project")
	}

	updates := map[string]interface{}{}
	if name != nil && *name != "" {
		updates["name"] = *name
	}
	if description != nil {
		updates["description"] = *description
	}
	if len(updates) > 0 {
		if err := s.db.Model(&models.Project{}).Where("id = ?", projectID).Updates(updates).Error; err != nil {
			return nil, err
		}
	}

	return s.GetProjectByID(projectID)
}

// DeleteProject removes a project with its columns and tasks (admin
// or owner only).
func (s *ProjectService) DeleteProject(projectID, userID uint) error {
	project, err := s.GetProjectByID(projectID)
	if err != nil {
		return err
	}
	if err := requireRole(s.db, project.TeamID, userID, models.TeamRoleAdmin); err != nil {
		return notAuthorizedTo("delete this project")
	}

	return s.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("project_id = ?", projectID).Delete(&models.Task{}).Error; err != nil {
			return err
		}
		if err := tx.Where("project_id = ?", projectID).Delete(&models.Column{}).Error; err != nil {
			return err
		}
		return tx.Delete(&models.Project{}, projectID).Error
	})
}
