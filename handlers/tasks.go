// handlers/tasks.go - Task endpoints
package handlers

import (
	"taskflow/middleware"
	"taskflow/services"

	"github.com/gofiber/fiber/v2"
)

type MoveTaskRequest struct {
	ColumnID uint `json:"columnId"`
	Order    int  `json:"order"`
}

type ReorderTasksRequest struct {
	Tasks []services.TaskOrder `json:"tasks"`
}

// GetTasks lists a project's tasks sorted by order
// GET /api/projects/:projectId/tasks
func GetTasks(c *fiber.Ctx) error {
	userID, _ := middleware.GetUserID(c)
	projectID, ok := paramUint(c, "projectId")
	if !ok {
		return badRequest(c, "Invalid project ID")
	}

	tasks, err := taskService.ListTasks(projectID, userID)
	if err != nil {
		return serviceError(c, err)
	}
	return c.JSON(tasks)
}

// GetTask returns a single task
// GET /api/tasks/:id
func GetTask(c *fiber.Ctx) error {
	userID, _ := middleware.GetUserID(c)
	taskID, ok := paramUint(c, "id")
	if !ok {
		return badRequest(c, "Invalid task ID")
	}

	task, err := taskService.GetTask(taskID, userID)
	if err != nil {
		return serviceError(c, err)
	}
	return c.JSON(task)
}

// CreateTask creates a task at the bottom of its column
// POST /api/tasks
func CreateTask(c *fiber.Ctx) error {
	userID, _ := middleware.GetUserID(c)

	var input services.TaskInput
	if err := c.BodyParser(&input); err != nil {
		return badRequest(c, "Invalid request body")
	}
	if input.Title == "" {
		return badRequest(c, "Task title is required")
	}
	if input.ProjectID == 0 || input.ColumnID == 0 {
		return badRequest(c, "Project and column required")
	}
	if input.Priority != "" && !input.Priority.Valid() {
		return badRequest(c, "Invalid priority")
	}

	task, err := taskService.CreateTask(userID, input)
	if err != nil {
		return serviceError(c, err)
	}

	BroadcastBoardEvent(task.ProjectID, BoardEvent{Type: "task_created", Payload: task})
	return c.Status(201).JSON(task)
}

// UpdateTask applies a partial update (placement excluded)
// PUT /api/tasks/:id
func UpdateTask(c *fiber.Ctx) error {
	userID, _ := middleware.GetUserID(c)
	taskID, ok := paramUint(c, "id")
	if !ok {
		return badRequest(c, "Invalid task ID")
	}

	var update services.TaskUpdate
	if err := c.BodyParser(&update); err != nil {
		return badRequest(c, "Invalid request body")
	}

	task, err := taskService.UpdateTask(taskID, userID, update)
	if err != nil {
		return serviceError(c, err)
	}

	BroadcastBoardEvent(task.ProjectID, BoardEvent{Type: "task_updated", Payload: task})
	return c.JSON(task)
}

// DeleteTask removes a task
// DELETE /api/tasks/:id
func DeleteTask(c *fiber.Ctx) error {
	userID, _ := middleware.GetUserID(c)
	taskID, ok := paramUint(c, "id")
	if !ok {
		return badRequest(c, "Invalid task ID")
	}

	task, err := taskService.DeleteTask(taskID, userID)
	if err != nil {
		return serviceError(c, err)
	}

	BroadcastBoardEvent(task.ProjectID, BoardEvent{Type: "task_deleted", Payload: fiber.Map{"id": taskID}})
	return c.JSON(fiber.Map{"message": "Task removed"})
}

// MoveTask sets a task's placement to exactly (column, order)
// PUT /api/tasks/:id/move
func MoveTask(c *fiber.Ctx) error {
	userID, _ := middleware.GetUserID(c)
	taskID, ok := paramUint(c, "id")
	if !ok {
		return badRequest(c, "Invalid task ID")
	}

	var req MoveTaskRequest
	if err := c.BodyParser(&req); err != nil {
		return badRequest(c, "Invalid request body")
	}
	if req.ColumnID == 0 {
		return badRequest(c, "Column ID required")
	}

	task, err := taskService.MoveTask(taskID, userID, req.ColumnID, req.Order)
	if err != nil {
		return serviceError(c, err)
	}

	BroadcastBoardEvent(task.ProjectID, BoardEvent{Type: "task_moved", Payload: task})
	return c.JSON(task)
}

// ReorderTasks bulk-applies {id, order, column} triples, each
// independently; partial application is surfaced, not masked.
// PUT /api/tasks/reorder
func ReorderTasks(c *fiber.Ctx) error {
	userID, _ := middleware.GetUserID(c)

	var req ReorderTasksRequest
	if err := c.BodyParser(&req); err != nil {
		return badRequest(c, "Invalid request body")
	}
	if len(req.Tasks) == 0 {
		return badRequest(c, "No tasks to reorder")
	}

	projects, err := taskService.ReorderTasks(userID, req.Tasks)
	for _, projectID := range projects {
		BroadcastBoardEvent(projectID, BoardEvent{Type: "tasks_reordered", Payload: req.Tasks})
	}
	if err != nil {
		return serviceError(c, err)
	}
	return c.JSON(fiber.Map{"message": "Tasks reordered"})
}
