// services/errors.go - Sentinel errors shared by all services.
// Handlers map these onto HTTP status codes with errors.Is.
package services

import "errors"

var (
	// Not-found family (404)
	ErrTeamNotFound    = errors.New("Team not found")
	ErrProjectNotFound = errors.New("Project not found")
	ErrColumnNotFound  = errors.New("Column not found")
	ErrTaskNotFound    = errors.New("Task not found")
	ErrInviteNotFound  = errors.New("Invitation not found")
	ErrUserNotFound    = errors.New("User not found")
	ErrMemberNotFound  = errors.New("Member not found in this team")

	// Authorization family (403)
	ErrNotMember       = errors.New("Not a team member")
	ErrNotAuthorized   = errors.New("Not authorized")
	ErrOwnerRoleChange = errors.New("Cannot change role of team owner")
	ErrNotAddressee    = errors.New("This invitation is not for you")

	// Validation / duplicate family (400)
	ErrInvalidRole   = errors.New("Invalid role")
	ErrAlreadyMember = errors.New("User is already a member")
	ErrOwnerRemoval  = errors.New("Cannot remove team owner")
	ErrInviteExists  = errors.New("Invitation already sent")
	ErrInviteSettled = errors.New("Invitation is not pending")
	ErrKeyExists     = errors.New("Project key already exists for this team")
)
