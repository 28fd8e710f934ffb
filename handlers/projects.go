// handlers/projects.go - Project endpoints
package handlers

import (
	"strconv"

	"taskflow/middleware"

	"github.com/gofiber/fiber/v2"
)

type CreateProjectRequest struct {
	Name        string `json:"name"`
	Description string `json:"description"`
	TeamID      uint   `json:"teamId"`
}

type UpdateProjectRequest struct {
	Name        *string `json:"name"`
	Description *string `json:"description"`
}

// GetProjects lists a team's projects
// GET /api/projects?teamId=xxx
func GetProjects(c *fiber.Ctx) error {
	userID, _ := middleware.GetUserID(c)

	teamID, err := strconv.ParseUint(c.Query("teamId"), 10, 32)
	if err != nil || teamID == 0 {
		return badRequest(c, "Team ID required")
	}

	projects, err := projectService.ListProjects(uint(teamID), userID)
	if err != nil {
		return serviceError(c, err)
	}
	return c.JSON(projects)
}

// GetProject returns one project (team members only)
// GET /api/projects/:id
func GetProject(c *fiber.Ctx) error {
	userID, _ := middleware.GetUserID(c)
	projectID, ok := paramUint(c, "id")
	if !ok {
		return badRequest(c, "Invalid project ID")
	}

	project, err := projectService.GetProject(projectID, userID)
	if err != nil {
		return serviceError(c, err)
	}
	return c.JSON(project)
}

// CreateProject creates a project with a server-allocated key and the
// default board
// POST /api/projects
func CreateProject(c *fiber.Ctx) error {
	userID, _ := middleware.GetUserID(c)

	var req CreateProjectRequest
	if err := c.BodyParser(&req); err != nil {
		return badRequest(c, "Invalid request body")
	}
	if req.Name == "" {
		return badRequest(c, "Project name is required")
	}
	if req.TeamID == 0 {
		return badRequest(c, "Team ID required")
	}

	project, err := projectService.CreateProject(userID, req.TeamID, req.Name, req.Description)
	if err != nil {
		return serviceError(c, err)
	}
	return c.Status(201).JSON(project)
}

// UpdateProject updates name/description (admin or owner)
// PUT /api/projects/:id
func UpdateProject(c *fiber.Ctx) error {
	userID, _ := middleware.GetUserID(c)
	projectID, ok := paramUint(c, "id")
	if !ok {
		return badRequest(c, "Invalid project ID")
	}

	var req UpdateProjectRequest
	if err := c.BodyParser(&req); err != nil {
		return badRequest(c, "Invalid request body")
	}

	project, err := projectService.UpdateProject(projectID, userID, req.Name, req.Description)
	if err != nil {
		return serviceError(c, err)
	}
	return c.JSON(project)
}

// DeleteProject removes a project with its columns and tasks
// DELETE /api/projects/:id
func DeleteProject(c *fiber.Ctx) error {
	userID, _ := middleware.GetUserID(c)
	projectID, ok := paramUint(c, "id")
	if !ok {
		return badRequest(c, "Invalid project ID")
	}

	if err := projectService.DeleteProject(projectID, userID); err != nil {
		return serviceError(c, err)
	}
	return c.JSON(fiber.Map{"message": "Project removed"})
}
