// handlers/handlers.go - Service wiring and error mapping
package handlers

import (
	"errors"

	"taskflow/database"
	"taskflow/services"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"
)

var (
	teamService    *services.TeamService
	projectService *services.ProjectService
	boardService   *services.BoardService
	taskService    *services.TaskService
	inviteService  *services.InviteService
)

// Init wires the handler package to the active database. Must be
// called after database.InitDB (or database.SetDB in tests).
func Init() {
	db := database.GetDB()
	teamService = services.NewTeamService(db)
	projectService = services.NewProjectService(db)
	boardService = services.NewBoardService(db)
	taskService = services.NewTaskService(db)
	inviteService = services.NewInviteService(db)
}

// serviceError maps service sentinels onto one HTTP response:
// 404 missing resource, 403 membership/role failures, 400 validation
// and duplicates, 500 anything else with the underlying message.
func serviceError(c *fiber.Ctx, err error) error {
	switch {
	case errors.Is(err, services.ErrTeamNotFound),
		errors.Is(err, services.ErrProjectNotFound),
		errors.Is(err, services.ErrColumnNotFound),
		errors.Is(err, services.ErrTaskNotFound),
		errors.Is(err, services.ErrInviteNotFound),
		errors.Is(err, services.ErrUserNotFound),
		errors.Is(err, services.ErrMemberNotFound),
		errors.Is(err, gorm.ErrRecordNotFound):
		return c.Status(404).JSON(fiber.Map{"message": err.Error()})

	case errors.Is(err, services.ErrNotMember),
		errors.Is(err, services.ErrNotAuthorized),
		errors.Is(err, services.ErrOwnerRoleChange),
		errors.Is(err, services.ErrNotAddressee):
		return c.Status(403).JSON(fiber.Map{"message": err.Error()})

	case errors.Is(err, services.ErrInvalidRole),
		errors.Is(err, services.ErrAlreadyMember),
		errors.Is(err, services.ErrOwnerRemoval),
		errors.Is(err, services.ErrInviteExists),
		errors.Is(err, services.ErrInviteSettled),
		errors.Is(err, services.ErrKeyExists),
		errors.Is(err, gorm.ErrDuplicatedKey):
		return c.Status(400).JSON(fiber.Map{"message": err.Error()})
	}

	return c.Status(500).JSON(fiber.Map{"message": err.Error()})
}

func badRequest(c *fiber.Ctx, message string) error {
	return c.Status(400).JSON(fiber.Map{"message": message})
}
