// handlers/columns.go - Column endpoints
package handlers

import (
	"taskflow/middleware"
	"taskflow/services"

	"github.com/gofiber/fiber/v2"
)

type CreateColumnRequest struct {
	Name  string `json:"name"`
	Color string `json:"color"`
}

type UpdateColumnRequest struct {
	Name  *string `json:"name"`
	Color *string `json:"color"`
}

type ReorderColumnsRequest struct {
	Columns []services.ColumnOrder `json:"columns"`
}

// GetColumns lists a project's columns in display order
// GET /api/projects/:projectId/columns
func GetColumns(c *fiber.Ctx) error {
	userID, _ := middleware.GetUserID(c)
	projectID, ok := paramUint(c, "projectId")
	if !ok {
		return badRequest(c, "Invalid project ID")
	}

	columns, err := boardService.ListColumns(projectID, userID)
	if err != nil {
		return serviceError(c, err)
	}
	return c.JSON(columns)
}

// CreateColumn appends a column to the board
// POST /api/projects/:projectId/columns
func CreateColumn(c *fiber.Ctx) error {
	userID, _ := middleware.GetUserID(c)
	projectID, ok := paramUint(c, "projectId")
	if !ok {
		return badRequest(c, "Invalid project ID")
	}

	var req CreateColumnRequest
	if err := c.BodyParser(&req); err != nil {
		return badRequest(c, "Invalid request body")
	}
	if req.Name == "" {
		return badRequest(c, "Column name is required")
	}

	column, err := boardService.CreateColumn(projectID, userID, req.Name, req.Color)
	if err != nil {
		return serviceError(c, err)
	}

	BroadcastBoardEvent(projectID, BoardEvent{Type: "column_created", Payload: column})
	return c.Status(201).JSON(column)
}

// UpdateColumn updates name/color
// PUT /api/columns/:id
func UpdateColumn(c *fiber.Ctx) error {
	userID, _ := middleware.GetUserID(c)
	columnID, ok := paramUint(c, "id")
	if !ok {
		return badRequest(c, "Invalid column ID")
	}

	var req UpdateColumnRequest
	if err := c.BodyParser(&req); err != nil {
		return badRequest(c, "Invalid request body")
	}

	column, err := boardService.UpdateColumn(columnID, userID, req.Name, req.Color)
	if err != nil {
		return serviceError(c, err)
	}

	BroadcastBoardEvent(column.ProjectID, BoardEvent{Type: "column_updated", Payload: column})
	return c.JSON(column)
}

// DeleteColumn removes a column and its tasks
// DELETE /api/columns/:id
func DeleteColumn(c *fiber.Ctx) error {
	userID, _ := middleware.GetUserID(c)
	columnID, ok := paramUint(c, "id")
	if !ok {
		return badRequest(c, "Invalid column ID")
	}

	column, err := boardService.DeleteColumn(columnID, userID)
	if err != nil {
		return serviceError(c, err)
	}

	BroadcastBoardEvent(column.ProjectID, BoardEvent{Type: "column_deleted", Payload: fiber.Map{"id": columnID}})
	return c.JSON(fiber.Map{"message": "Column removed"})
}

// ReorderColumns bulk-applies {id, order} pairs, each independently.
// Partial application is possible and surfaced as an error.
// PUT /api/columns/reorder
func ReorderColumns(c *fiber.Ctx) error {
	userID, _ := middleware.GetUserID(c)

	var req ReorderColumnsRequest
	if err := c.BodyParser(&req); err != nil {
		return badRequest(c, "Invalid request body")
	}
	if len(req.Columns) == 0 {
		return badRequest(c, "No columns to reorder")
	}

	projects, err := boardService.ReorderColumns(userID, req.Columns)
	for _, projectID := range projects {
		BroadcastBoardEvent(projectID, BoardEvent{Type: "columns_reordered", Payload: req.Columns})
	}
	if err != nil {
		return serviceError(c, err)
	}
	return c.JSON(fiber.Map{"message": "Columns reordered"})
}
