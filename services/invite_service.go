// services/invite_service.go - Invitation workflow
package services

import (
	"errors"
	"strings"
	"time"

	"taskflow/models"

	"gorm.io/gorm"
)

type InviteService struct {
	db *gorm.DB
}

func NewInviteService(db *gorm.DB) *InviteService {
	return &InviteService{db: db}
}

// SendInvite creates a pending invitation (admin or owner only).
// The application check for an existing pending invite is racy; the
// partial unique index on (email, team_id) where status='pending' is
// the backstop and its violation maps to the same error.
func (s *InviteService) SendInvite(actorID uint, email string, teamID uint, role models.TeamRole) (*models.Invitation, error) {
	email = strings.ToLower(strings.TrimSpace(email))

	var count int64
	if err := s.db.Model(&models.Team{}).Where("id = ?", teamID).Count(&count).Error; err != nil {
		return nil, err
	}
	if count == 0 {
		return nil, ErrTeamNotFound
	}

	if err := requireRole(s.db, teamID, actorID, models.TeamRoleAdmin); err != nil {
		if errors.Is(err, ErrNotAuthorized) {
			return nil, notAuthorizedTo("invite members")
		}
		return nil, err
	}

	if role == "" {
		role = models.TeamRoleMember
	}
	if role != models.TeamRoleAdmin && role != models.TeamRoleMember {
		return nil, ErrInvalidRole
	}

	// Already a member?
	var user models.User
	err := s.db.Where("email = ?", email).First(&user).Error
	if err == nil {
		if _, roleErr := memberRole(s.db, teamID, user.ID); roleErr == nil {
			return nil, ErrAlreadyMember
		} else if !errors.Is(roleErr, ErrNotMember) {
			return nil, roleErr
		}
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}

	var pending int64
	err = s.db.Model(&models.Invitation{}).
		Where("email = ? AND team_id = ? AND status = ?", email, teamID, models.InviteStatusPending).
		Count(&pending).Error
	if err != nil {
		return nil, err
	}
	if pending > 0 {
		return nil, ErrInviteExists
	}

	invite := &models.Invitation{
		Email:     email,
		TeamID:    teamID,
		InviterID: actorID,
		Role:      role,
		Status:    models.InviteStatusPending,
	}
	if err := s.db.Create(invite).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, ErrInviteExists
		}
		return nil, err
	}

	return s.GetInviteByID(invite.ID)
}

// GetInviteByID loads an invitation with team and inviter.
func (s *InviteService) GetInviteByID(inviteID uint) (*models.Invitation, error) {
	var invite models.Invitation
	err := s.db.Preload("Team").Preload("Inviter").First(&invite, inviteID).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrInviteNotFound
		}
		return nil, err
	}
	return &invite, nil
}

// MyInvites returns pending invitations addressed to the email.
func (s *InviteService) MyInvites(email string) ([]models.Invitation, error) {
	var invites []models.Invitation
	err := s.db.Where("email = ? AND status = ?", strings.ToLower(email), models.InviteStatusPending).
		Preload("Team").
		Preload("Inviter").
		Order("created_at DESC").
		Find(&invites).Error
	return invites, err
}

// AcceptInvite adds the addressee to the team at the invited role and
// marks the invitation accepted. Terminal: an accepted invitation can
// never be reused.
func (s *InviteService) AcceptInvite(inviteID uint, user *models.User) (uint, error) {
	invite, err := s.GetInviteByID(inviteID)
	if err != nil {
		return 0, err
	}
	if !strings.EqualFold(invite.Email, user.Email) {
		return 0, ErrNotAddressee
	}
	if invite.Status != models.InviteStatusPending {
		return 0, ErrInviteSettled
	}

	var count int64
	if err := s.db.Model(&models.Team{}).Where("id = ?", invite.TeamID).Count(&count).Error; err != nil {
		return 0, err
	}
	if count == 0 {
		return 0, ErrTeamNotFound
	}

	err = s.db.Transaction(func(tx *gorm.DB) error {
		member := &models.TeamMember{
			TeamID:   invite.TeamID,
			UserID:   user.ID,
			Role:     invite.Role,
			JoinedAt: time.Now(),
		}
		if err := tx.Create(member).Error; err != nil {
			if errors.Is(err, gorm.ErrDuplicatedKey) {
				return ErrAlreadyMember
			}
			return err
		}
		return tx.Model(&models.Invitation{}).Where("id = ?", invite.ID).
			Update("status", models.InviteStatusAccepted).Error
	})
	if err != nil {
		return 0, err
	}

	return invite.TeamID, nil
}

// RejectInvite marks the invitation rejected. Terminal.
func (s *InviteService) RejectInvite(inviteID uint, user *models.User) error {
	invite, err := s.GetInviteByID(inviteID)
	if err != nil {
		return err
	}
	if !strings.EqualFold(invite.Email, user.Email) {
		return ErrNotAddressee
	}
	if invite.Status != models.InviteStatusPending {
		return ErrInviteSettled
	}

	return s.db.Model(&models.Invitation{}).Where("id = ?", invite.ID).
		Update("status", models.InviteStatusRejected).Error
}
