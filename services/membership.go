// services/membership.go - Team authorization checks.
//
// Every scoped operation re-runs these against the membership table;
// nothing is cached between requests.
package services

import (
	"errors"
	"fmt"

	"taskflow/models"

	"gorm.io/gorm"
)

// memberRole returns the requester's role in the team, or ErrNotMember.
func memberRole(db *gorm.DB, teamID, userID uint) (models.TeamRole, error) {
	var member models.TeamMember
	err := db.Where("team_id = ? AND user_id = ?", teamID, userID).First(&member).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return "", ErrNotMember
		}
		return "", err
	}
	return member.Role, nil
}

// requireRole rejects requesters below the minimum role. Membership
// absence wins over insufficient role so callers can distinguish the
// two failure modes.
func requireRole(db *gorm.DB, teamID, userID uint, min models.TeamRole) error {
	role, err := memberRole(db, teamID, userID)
	if err != nil {
		return err
	}
	if !role.AtLeast(min) {
		return ErrNotAuthorized
	}
	return nil
}

// requireMember is requireRole with the lowest bar.
func requireMember(db *gorm.DB, teamID, userID uint) error {
	return requireRole(db, teamID, userID, models.TeamRoleMember)
}

// notAuthorizedTo wraps ErrNotAuthorized with an action-specific
// message while keeping errors.Is matching intact.
func notAuthorizedTo(action string) error {
	return fmt.Errorf("%w to %s", ErrNotAuthorized, action)
}
