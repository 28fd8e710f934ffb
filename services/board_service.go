// services/board_service.go - Column CRUD and ordering
package services

import (
	"database/sql"
	"errors"

	"taskflow/models"

	"gorm.io/gorm"
)

type BoardService struct {
	db *gorm.DB
}

func NewBoardService(db *gorm.DB) *BoardService {
	return &BoardService{db: db}
}

// teamForProject resolves the owning team of a project.
func (s *BoardService) teamForProject(projectID uint) (uint, error) {
	var project models.Project
	err := s.db.Select("id", "team_id").First(&project, projectID).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return 0, ErrProjectNotFound
		}
		return 0, err
	}
	return project.TeamID, nil
}

// ListColumns returns a project's columns in display order. Ties on
// order are broken by id so the result is deterministic.
func (s *BoardService) ListColumns(projectID, userID uint) ([]models.Column, error) {
	teamID, err := s.teamForProject(projectID)
	if err != nil {
		return nil, err
	}
	if err := requireMember(s.db, teamID, userID); err != nil {
		return nil, err
	}

	var columns []models.Column
	err = s.db.Where("project_id = ?", projectID).
		Order("\"order\" ASC, id ASC").
		Find(&columns).Error
	return columns, err
}

// CreateColumn appends a column to the board: order = max existing
// order + 1, or 0 on an empty board. The read and the insert are not
// atomic; a concurrent tie is tolerated and resolved by the id
// tie-break at read time.
func (s *BoardService) CreateColumn(projectID, userID uint, name, color string) (*models.Column, error) {
	teamID, err := s.teamForProject(projectID)
	if err != nil {
		return nil, err
	}
	if err := requireMember(s.db, teamID, userID); err != nil {
		return nil, err
	}

	order, err := nextOrder(s.db.Model(&models.Column{}).Where("project_id = ?", projectID))
	if err != nil {
		return nil, err
	}

	column := &models.Column{
		Name:      name,
		Color:     color,
		ProjectID: projectID,
		Order:     order,
	}
	if column.Color == "" {
		column.Color = "#3b82f6"
	}
	if err := s.db.Create(column).Error; err != nil {
		return nil, err
	}
	return column, nil
}

// GetColumn loads a column for a requester, who must be a team member.
func (s *BoardService) GetColumn(columnID, userID uint) (*models.Column, error) {
	var column models.Column
	if err := s.db.First(&column, columnID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrColumnNotFound
		}
		return nil, err
	}

	teamID, err := s.teamForProject(column.ProjectID)
	if err != nil {
		return nil, err
	}
	if err := requireMember(s.db, teamID, userID); err != nil {
		return nil, err
	}
	return &column, nil
}

// UpdateColumn updates name/color.
func (s *BoardService) UpdateColumn(columnID, userID uint, name, color *string) (*models.Column, error) {
	column, err := s.GetColumn(columnID, userID)
	if err != nil {
		return nil, err
	}

	updates := map[string]interface{}{}
	if name != nil && *name != "" {
		updates["name"] = *name
	}
	if color != nil && *color != "" {
		updates["color"] = *color
	}
	if len(updates) > 0 {
		if err := s.db.Model(column).Updates(updates).Error; err != nil {
			return nil, err
		}
	}
	return column, nil
}

// DeleteColumn removes a column and its tasks.
func (s *BoardService) DeleteColumn(columnID, userID uint) (*models.Column, error) {
	column, err := s.GetColumn(columnID, userID)
	if err != nil {
		return nil, err
	}

	err = s.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("column_id = ?", columnID).Delete(&models.Task{}).Error; err != nil {
			return err
		}
		return tx.Delete(&models.Column{}, columnID).Error
	})
	if err != nil {
		return nil, err
	}
	return column, nil
}

type ColumnOrder struct {
	ID    uint `json:"id"`
	Order int  `json:"order"`
}

// ReorderColumns applies each {id, order} pair as an independent
// unconditional update. There is no combined transaction: a failure
// partway through leaves earlier updates in place and is reported,
// never masked as success. Returns the set of project ids touched.
func (s *BoardService) ReorderColumns(userID uint, items []ColumnOrder) ([]uint, error) {
	touched := map[uint]bool{}
	var projects []uint

	for _, item := range items {
		var column models.Column
		if err := s.db.Select("id", "project_id").First(&column, item.ID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return projects, ErrColumnNotFound
			}
			return projects, err
		}

		teamID, err := s.teamForProject(column.ProjectID)
		if err != nil {
			return projects, err
		}
		if err := requireMember(s.db, teamID, userID); err != nil {
			return projects, err
		}

		if err := s.db.Model(&models.Column{}).Where("id = ?", item.ID).
			Update("order", item.Order).Error; err != nil {
			return projects, err
		}
		if !touched[column.ProjectID] {
			touched[column.ProjectID] = true
			projects = append(projects, column.ProjectID)
		}
	}

	return projects, nil
}

// nextOrder computes the append position for a scope: max(order)+1,
// or 0 when the scope is empty.
func nextOrder(scope *gorm.DB) (int, error) {
	var max sql.NullInt64
	if err := scope.Select("MAX(\"order\")").Scan(&max).Error; err != nil {
		return 0, err
	}
	if !max.Valid {
		return 0, nil
	}
	return int(max.Int64) + 1, nil
}
