// handlers/invites.go - Invitation endpoints
package handlers

import (
	"taskflow/middleware"
	"taskflow/models"

	"github.com/gofiber/fiber/v2"
)

type SendInviteRequest struct {
	Email  string          `json:"email"`
	TeamID uint            `json:"teamId"`
	Role   models.TeamRole `json:"role"`
}

// SendInvite creates a pending invitation (admin or owner)
// POST /api/invites
func SendInvite(c *fiber.Ctx) error {
	userID, _ := middleware.GetUserID(c)

	var req SendInviteRequest
	if err := c.BodyParser(&req); err != nil {
		return badRequest(c, "Invalid request body")
	}
	if req.Email == "" {
		return badRequest(c, "Email is required")
	}
	if req.TeamID == 0 {
		return badRequest(c, "Team ID required")
	}

	invite, err := inviteService.SendInvite(userID, req.Email, req.TeamID, req.Role)
	if err != nil {
		return serviceError(c, err)
	}
	return c.Status(201).JSON(invite)
}

// GetMyInvites lists pending invitations addressed to the requester
// GET /api/invites
func GetMyInvites(c *fiber.Ctx) error {
	user, err := middleware.CurrentUser(c)
	if err != nil {
		return c.Status(401).JSON(fiber.Map{"message": "User not authenticated"})
	}

	invites, err := inviteService.MyInvites(user.Email)
	if err != nil {
		return serviceError(c, err)
	}
	return c.JSON(invites)
}

// AcceptInvite joins the requester to the team at the invited role
// PUT /api/invites/:id/accept
func AcceptInvite(c *fiber.Ctx) error {
	user, err := middleware.CurrentUser(c)
	if err != nil {
		return c.Status(401).JSON(fiber.Map{"message": "User not authenticated"})
	}
	inviteID, ok := paramUint(c, "id")
	if !ok {
		return badRequest(c, "Invalid invitation ID")
	}

	teamID, err := inviteService.AcceptInvite(inviteID, user)
	if err != nil {
		return serviceError(c, err)
	}
	return c.JSON(fiber.Map{"message": "Invitation accepted", "teamId": teamID})
}

// RejectInvite marks the invitation rejected
// PUT /api/invites/:id/reject
func RejectInvite(c *fiber.Ctx) error {
	user, err := middleware.CurrentUser(c)
	if err != nil {
		return c.Status(401).JSON(fiber.Map{"message": "User not authenticated"})
	}
	inviteID, ok := paramUint(c, "id")
	if !ok {
		return badRequest(c, "Invalid invitation ID")
	}

	if err := inviteService.RejectInvite(inviteID, user); err != nil {
		return serviceError(c, err)
	}
	return c.JSON(fiber.Map{"message": "Invitation rejected"})
}
