// services/task_service.go - Task CRUD, ordering and moves
package services

import (
	"errors"
	"time"

	"taskflow/models"

	"gorm.io/gorm"
)

type TaskService struct {
	db *gorm.DB
}

func NewTaskService(db *gorm.DB) *TaskService {
	return &TaskService{db: db}
}

func (s *TaskService) teamForProject(projectID uint) (uint, error) {
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

func (s *TaskService) loadTask(taskID uint) (*models.Task, error) {
	var task models.Task
	err := s.db.Preload("Assignee").Preload("Reporter").First(&task, taskID).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrTaskNotFound
		}
		return nil, err
	}
	return &task, nil
}

// ListTasks returns a project's tasks sorted by order with the id
// tie-break, so a client rendering columns gets a deterministic board.
func (s *TaskService) ListTasks(projectID, userID uint) ([]models.Task, error) {
	teamID, err := s.teamForProject(projectID)
	if err != nil {
		return nil, err
	}
	if err := requireMember(s.db, teamID, userID); err != nil {
		return nil, err
	}

	var tasks []models.Task
	err = s.db.Where("project_id = ?", projectID).
		Preload("Assignee").
		Preload("Reporter").
		Order("\"order\" ASC, id ASC").
		Find(&tasks).Error
	return tasks, err
}

// GetTask loads a single task for a team member.
func (s *TaskService) GetTask(taskID, userID uint) (*models.Task, error) {
	task, err := s.loadTask(taskID)
	if err != nil {
		return nil, err
	}
	teamID, err := s.teamForProject(task.ProjectID)
	if err != nil {
		return nil, err
	}
	if err := requireMember(s.db, teamID, userID); err != nil {
		return nil, err
	}
	return task, nil
}

type TaskInput struct {
	Title       string              `json:"title"`
	Description string              `json:"description"`
	ProjectID   uint                `json:"project"`
	ColumnID    uint                `json:"column"`
	AssigneeID  *uint               `json:"assignee"`
	Priority    models.TaskPriority `json:"priority"`
	Labels      []string            `json:"labels"`
	DueDate     *time.Time          `json:"dueDate"`
}

// CreateTask appends a task to its column: order = max(order in
// column)+1, or 0 when the column is empty. The reporter is always
// the creator.
func (s *TaskService) CreateTask(creatorID uint, input TaskInput) (*models.Task, error) {
	teamID, err := s.teamForProject(input.ProjectID)
	if err != nil {
		return nil, err
	}
	if err := requireMember(s.db, teamID, creatorID); err != nil {
		return nil, err
	}

	var column models.Column
	if err := s.db.Select("id", "project_id").First(&column, input.ColumnID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrColumnNotFound
		}
		return nil, err
	}

	priority := input.Priority
	if priority == "" {
		priority = models.PriorityMedium
	}

	order, err := nextOrder(s.db.Model(&models.Task{}).Where("column_id = ?", input.ColumnID))
	if err != nil {
		return nil, err
	}

	task := &models.Task{
		Title:       input.Title,
		Description: input.Description,
		ProjectID:   input.ProjectID,
		ColumnID:    input.ColumnID,
		AssigneeID:  input.AssigneeID,
		ReporterID:  creatorID,
		Priority:    priority,
		Order:       order,
		Labels:      input.Labels,
		DueDate:     input.DueDate,
	}
	if err := s.db.Create(task).Error; err != nil {
		return nil, err
	}
	return s.loadTask(task.ID)
}

type TaskUpdate struct {
	Title         *string              `json:"title"`
	Description   *string              `json:"description"`
	AssigneeID    *uint                `json:"assignee"`
	ClearAssignee bool                 `json:"clearAssignee"`
	Priority      *models.TaskPriority `json:"priority"`
	Labels        []string             `json:"labels"`
	DueDate       *time.Time           `json:"dueDate"`
	ClearDueDate  bool                 `json:"clearDueDate"`
}

// UpdateTask applies a partial update to task fields. Placement
// (column, order) is changed only through MoveTask / ReorderTasks.
func (s *TaskService) UpdateTask(taskID, userID uint, update TaskUpdate) (*models.Task, error) {
	task, err := s.GetTask(taskID, userID)
	if err != nil {
		return nil, err
	}

	updates := map[string]interface{}{}
	if update.Title != nil && *update.Title != "" {
		updates["title"] = *update.Title
	}
	if update.Description != nil {
		updates["description"] = *update.Description
	}
	if update.ClearAssignee {
		updates["assignee_id"] = nil
	} else if update.AssigneeID != nil {
		updates["assignee_id"] = *update.AssigneeID
	}
	if update.Priority != nil {
		if !update.Priority.Valid() {
			return nil, errors.New("Invalid priority")
		}
		updates["priority"] = *update.Priority
	}
	if update.Labels != nil {
		updates["labels"] = models.StringList(update.Labels)
	}
	if update.ClearDueDate {
		updates["due_date"] = nil
	} else if update.DueDate != nil {
		updates["due_date"] = *update.DueDate
	}

	if len(updates) > 0 {
		if err := s.db.Model(task).Updates(updates).Error; err != nil {
			return nil, err
		}
	}
	return s.loadTask(taskID)
}

// DeleteTask removes a single task.
func (s *TaskService) DeleteTask(taskID, userID uint) (*models.Task, error) {
	task, err := s.GetTask(taskID, userID)
	if err != nil {
		return nil, err
	}
	if err := s.db.Delete(&models.Task{}, taskID).Error; err != nil {
		return nil, err
	}
	return task, nil
}

// MoveTask sets the task's placement to exactly (columnID, order),
// unconditionally. Siblings are never renumbered; the client chooses
// an order value that sorts into the intended slot, and ties are
// resolved by the deterministic (order, id) sort on reads.
func (s *TaskService) MoveTask(taskID, userID, columnID uint, order int) (*models.Task, error) {
	task, err := s.GetTask(taskID, userID)
	if err != nil {
		return nil, err
	}

	var column models.Column
	if err := s.db.Select("id", "project_id").First(&column, columnID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrColumnNotFound
		}
		return nil, err
	}

	err = s.db.Model(task).Updates(map[string]interface{}{
		"column_id": columnID,
		"order":     order,
	}).Error
	if err != nil {
		return nil, err
	}
	return s.loadTask(taskID)
}

type TaskOrder struct {
	ID     uint `json:"id"`
	Order  int  `json:"order"`
	Column uint `json:"column"`
}

// ReorderTasks applies each {id, order, column} triple as an
// independent unconditional update; a failure partway through leaves
// earlier updates applied. Returns the project ids touched for event
// fanout.
func (s *TaskService) ReorderTasks(userID uint, items []TaskOrder) ([]uint, error) {
	touched := map[uint]bool{}
	var projects []uint

	for _, item := range items {
		var task models.Task
		if err := s.db.Select("id", "project_id").First(&task, item.ID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return projects, ErrTaskNotFound
			}
			return projects, err
		}

		teamID, err := s.teamForProject(task.ProjectID)
		if err != nil {
			return projects, err
		}
		if err := requireMember(s.db, teamID, userID); err != nil {
			return projects, err
		}

		updates := map[string]interface{}{"order": item.Order}
		if item.Column != 0 {
			updates["column_id"] = item.Column
		}
		if err := s.db.Model(&models.Task{}).Where("id = ?", item.ID).
			Updates(updates).Error; err != nil {
			return projects, err
		}
		if !touched[task.ProjectID] {
			touched[task.ProjectID] = true
			projects = append(projects, task.ProjectID)
		}
	}

	return projects, nil
}
