// handlers/teams.go - Team and membership endpoints
package handlers

import (
	"strconv"

	"taskflow/middleware"
	"taskflow/models"

	"github.com/gofiber/fiber/v2"
)

func paramUint(c *fiber.Ctx, name string) (uint, bool) {
	id, err := strconv.ParseUint(c.Params(name), 10, 32)
	if err != nil {
		return 0, false
	}
	return uint(id), true
}

type CreateTeamRequest struct {
	Name        string `json:"name"`
	Description string `json:"description"`
}

type UpdateTeamRequest struct {
	Name        *string `json:"name"`
	Description *string `json:"description"`
}

type AddMemberRequest struct {
	Email string          `json:"email"`
	Role  models.TeamRole `json:"role"`
}

type UpdateMemberRoleRequest struct {
	Role models.TeamRole `json:"role"`
}

// GetTeams lists the requester's teams
// GET /api/teams
func GetTeams(c *fiber.Ctx) error {
	userID, err := middleware.GetUserID(c)
	if err != nil {
		return c.Status(401).JSON(fiber.Map{"message": "User not authenticated"})
	}

	teams, err := teamService.GetUserTeams(userID)
	if err != nil {
		return serviceError(c, err)
	}
	return c.JSON(teams)
}

// GetTeam returns one team (members only)
// GET /api/teams/:id
func GetTeam(c *fiber.Ctx) error {
	userID, _ := middleware.GetUserID(c)
	teamID, ok := paramUint(c, "id")
	if !ok {
		return badRequest(c, "Invalid team ID")
	}

	team, err := teamService.GetTeam(teamID, userID)
	if err != nil {
		return serviceError(c, err)
	}
	return c.JSON(team)
}

// CreateTeam creates a team with the requester as owner
// POST /api/teams
func CreateTeam(c *fiber.Ctx) error {
	userID, err := middleware.GetUserID(c)
	if err != nil {
		return c.Status(401).JSON(fiber.Map{"message": "User not authenticated"})
	}

	var req CreateTeamRequest
	if err := c.BodyParser(&req); err != nil {
		return badRequest(c, "Invalid request body")
	}
	if req.Name == "" {
		return badRequest(c, "Team name is required")
	}

	team, err := teamService.CreateTeam(req.Name, req.Description, userID)
	if err != nil {
		return serviceError(c, err)
	}
	return c.Status(201).JSON(team)
}

// UpdateTeam updates team info (admin or owner)
// PUT /api/teams/:id
func UpdateTeam(c *fiber.Ctx) error {
	userID, _ := middleware.GetUserID(c)
	teamID, ok := paramUint(c, "id")
	if !ok {
		return badRequest(c, "Invalid team ID")
	}

	var req UpdateTeamRequest
	if err := c.BodyParser(&req); err != nil {
		return badRequest(c, "Invalid request body")
	}

	team, err := teamService.UpdateTeam(teamID, userID, req.Name, req.Description)
	if err != nil {
		return serviceError(c, err)
	}
	return c.JSON(team)
}

// DeleteTeam removes a team and everything in it (owner only)
// DELETE /api/teams/:id
func DeleteTeam(c *fiber.Ctx) error {
	userID, _ := middleware.GetUserID(c)
	teamID, ok := paramUint(c, "id")
	if !ok {
		return badRequest(c, "Invalid team ID")
	}

	if err := teamService.DeleteTeam(teamID, userID); err != nil {
		return serviceError(c, err)
	}
	return c.JSON(fiber.Map{"message": "Team removed"})
}

// AddMember adds an existing user to the team by email (admin or owner)
// POST /api/teams/:id/members
func AddMember(c *fiber.Ctx) error {
	userID, _ := middleware.GetUserID(c)
	teamID, ok := paramUint(c, "id")
	if !ok {
		return badRequest(c, "Invalid team ID")
	}

	var req AddMemberRequest
	if err := c.BodyParser(&req); err != nil {
		return badRequest(c, "Invalid request body")
	}
	if req.Email == "" {
		return badRequest(c, "Email is required")
	}

	team, err := teamService.AddMember(teamID, userID, req.Email, req.Role)
	if err != nil {
		return serviceError(c, err)
	}
	return c.JSON(team)
}

// RemoveMember removes a member (admin or owner; never the owner itself)
// DELETE /api/teams/:id/members/:userId
func RemoveMember(c *fiber.Ctx) error {
	userID, _ := middleware.GetUserID(c)
	teamID, ok := paramUint(c, "id")
	if !ok {
		return badRequest(c, "Invalid team ID")
	}
	targetID, ok := paramUint(c, "userId")
	if !ok {
		return badRequest(c, "Invalid user ID")
	}

	team, err := teamService.RemoveMember(teamID, userID, targetID)
	if err != nil {
		return serviceError(c, err)
	}
	return c.JSON(team)
}

// UpdateMemberRole changes a member's role (admin or owner; never the owner's)
// PATCH /api/teams/:id/members/:userId/role
func UpdateMemberRole(c *fiber.Ctx) error {
	userID, _ := middleware.GetUserID(c)
	teamID, ok := paramUint(c, "id")
	if !ok {
		return badRequest(c, "Invalid team ID")
	}
	targetID, ok := paramUint(c, "userId")
	if !ok {
		return badRequest(c, "Invalid user ID")
	}

	var req UpdateMemberRoleRequest
	if err := c.BodyParser(&req); err != nil {
		return badRequest(c, "Invalid request body")
	}

	team, err := teamService.UpdateMemberRole(teamID, userID, targetID, req.Role)
	if err != nil {
		return serviceError(c, err)
	}
	return c.JSON(team)
}
