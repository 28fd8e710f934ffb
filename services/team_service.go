// services/team_service.go - Team CRUD and membership business logic
package services

import (
	"errors"
	"time"

	"taskflow/models"

	"gorm.io/gorm"
)

type TeamService struct {
	db *gorm.DB
}

func NewTeamService(db *gorm.DB) *TeamService {
	return &TeamService{db: db}
}

// ================== TEAM CRUD OPERATIONS ==================

// CreateTeam creates a new team and inserts the creator into the
// membership list as owner. The owner entry is created here and never
// mutable through the membership endpoints.
func (s *TeamService) CreateTeam(name, description string, ownerID uint) (*models.Team, error) {
	team := &models.Team{
		Name:        name,
		Description: description,
		OwnerID:     ownerID,
	}

	err := s.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(team).Error; err != nil {
			return err
		}

		member := &models.TeamMember{
			TeamID:   team.ID,
			UserID:   ownerID,
			Role:     models.TeamRoleOwner,
			JoinedAt: time.Now(),
		}
		return tx.Create(member).Error
	})

	if err != nil {
		return nil, err
	}

	return s.GetTeamByID(team.ID)
}

// GetTeamByID loads a team with members, without authorization.
func (s *TeamService) GetTeamByID(teamID uint) (*models.Team, error) {
	var team models.Team
	err := s.db.Preload("Owner").
		Preload("Members").
		Preload("Members.User").
		First(&team, teamID).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrTeamNotFound
		}
		return nil, err
	}
	return &team, nil
}

// GetTeam loads a team for a requester, who must be a member.
func (s *TeamService) GetTeam(teamID, userID uint) (*models.Team, error) {
	team, err := s.GetTeamByID(teamID)
	if err != nil {
		return nil, err
	}
	if err := requireMember(s.db, teamID, userID); err != nil {
		return nil, notAuthorizedTo("view this team")
	}
	return team, nil
}

// GetUserTeams retrieves all teams the user belongs to, newest first.
func (s *TeamService) GetUserTeams(userID uint) ([]models.Team, error) {
	var teams []models.Team
	err := s.db.Joins("JOIN team_members ON team_members.team_id = teams.id").
		Where("team_members.user_id = ?", userID).
		Preload("Owner").
		Preload("Members").
		Preload("Members.User").
		Order("teams.created_at DESC").
		Find(&teams).Error
	return teams, err
}

// UpdateTeam updates name/description (admin or owner only).
func (s *TeamService) UpdateTeam(teamID, updaterID uint, name, description *string) (*models.Team, error) {
	if _, err := s.GetTeamByID(teamID); err != nil {
		return nil, err
	}
	if err := requireRole(s.db, teamID, updaterID, models.TeamRoleAdmin); err != nil {
		if errors.Is(err, ErrNotAuthorized) {
			return nil, notAuthorizedTo("update this team")
		}
		return nil, err
	}

	updates := map[string]interface{}{}
	if name != nil && *name != "" {
		updates["name"] = *name
	}
	if description != nil {
		updates["description"] = *description
	}
	if len(updates) > 0 {
		if err := s.db.Model(&models.Team{}).Where("id = ?", teamID).Updates(updates).Error; err != nil {
			return nil, err
		}
	}

	return s.GetTeamByID(teamID)
}

// DeleteTeam removes a team and everything scoped to it. Owner only.
func (s *TeamService) DeleteTeam(teamID, userID uint) error {
	team, err := s.GetTeamByID(teamID)
	if err != nil {
		return err
	}
	if team.OwnerID != userID {
		return notAuthorizedTo("delete this team")
	}

	return s.db.Transaction(func(tx *gorm.DB) error {
		var projectIDs []uint
		if err := tx.Model(&models.Project{}).Where("team_id = ?", teamID).
			Pluck("id", &projectIDs).Error; err != nil {
			return err
		}

		if len(projectIDs) > 0 {
			if err := tx.Where("project_id IN ?", projectIDs).Delete(&models.Task{}).Error; err != nil {
				return err
			}
			if err := tx.Where("project_id IN ?", projectIDs).Delete(&models.Column{}).Error; err != nil {
				return err
			}
			if err := tx.Where("team_id = ?", teamID).Delete(&models.Project{}).Error; err != nil {
				return err
			}
		}

		if err := tx.Where("team_id = ?", teamID).Delete(&models.Invitation{}).Error; err != nil {
			return err
		}
		if err := tx.Where("team_id = ?", teamID).Delete(&models.TeamMember{}).Error; err != nil {
			return err
		}
		return tx.Delete(&models.Team{}, teamID).Error
	})
}

// ================== TEAM MEMBERSHIP OPERATIONS ==================

// Role returns the requester's role in the team.
func (s *TeamService) Role(teamID, userID uint) (models.TeamRole, error) {
	return memberRole(s.db, teamID, userID)
}

// AddMember adds an existing user to the team by email (admin or
// owner only). Role may be admin or member; owner is assigned only at
// team creation.
func (s *TeamService) AddMember(teamID, actorID uint, email string, role models.TeamRole) (*models.Team, error) {
	if _, err := s.GetTeamByID(teamID); err != nil {
		return nil, err
	}
	if err := requireRole(s.db, teamID, actorID, models.TeamRoleAdmin); err != nil {
		if errors.Is(err, ErrNotAuthorized) {
			return nil, notAuthorizedTo("add members")
		}
		return nil, err
	}

	if role == "" {
		role = models.TeamRoleMember
	}
	if role != models.TeamRoleAdmin && role != models.TeamRoleMember {
		return nil, ErrInvalidRole
	}

	var user models.User
	if err := s.db.Where("email = ?", email).First(&user).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, err
	}

	if _, err := memberRole(s.db, teamID, user.ID); err == nil {
		return nil, ErrAlreadyMember
	} else if !errors.Is(err, ErrNotMember) {
		return nil, err
	}

	member := &models.TeamMember{
		TeamID:   teamID,
		UserID:   user.ID,
		Role:     role,
		JoinedAt: time.Now(),
	}
	if err := s.db.Create(member).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, ErrAlreadyMember
		}
		return nil, err
	}

	return s.GetTeamByID(teamID)
}

// RemoveMember removes a member (admin or owner only). The owner can
// never be removed.
func (s *TeamService) RemoveMember(teamID, actorID, targetUserID uint) (*models.Team, error) {
	team, err := s.GetTeamByID(teamID)
	if err != nil {
		return nil, err
	}
	if err := requireRole(s.db, teamID, actorID, models.TeamRoleAdmin); err != nil {
		if errors.Is(err, ErrNotAuthorized) {
			return nil, notAuthorizedTo("remove members")
		}
		return nil, err
	}

	if team.OwnerID == targetUserID {
		return nil, ErrOwnerRemoval
	}

	result := s.db.Where("team_id = ? AND user_id = ?", teamID, targetUserID).
		Delete(&models.TeamMember{})
	if result.Error != nil {
		return nil, result.Error
	}
	if result.RowsAffected == 0 {
		return nil, ErrMemberNotFound
	}

	return s.GetTeamByID(teamID)
}

// UpdateMemberRole changes a member's role between admin and member
// (admin or owner only). The owner's role is immutable.
func (s *TeamService) UpdateMemberRole(teamID, actorID, targetUserID uint, role models.TeamRole) (*models.Team, error) {
	if _, err := s.GetTeamByID(teamID); err != nil {
		return nil, err
	}
	if err := requireRole(s.db, teamID, actorID, models.TeamRoleAdmin); err != nil {
		if errors.Is(err, ErrNotAuthorized) {
			return nil, notAuthorizedTo("update member roles")
		}
		return nil, err
	}

	if role != models.TeamRoleAdmin && role != models.TeamRoleMember {
		return nil, ErrInvalidRole
	}

	var target models.TeamMember
	err := s.db.Where("team_id = ? AND user_id = ?", teamID, targetUserID).First(&target).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrMemberNotFound
		}
		return nil, err
	}

	if target.Role == models.TeamRoleOwner {
		return nil, ErrOwnerRoleChange
	}

	if err := s.db.Model(&target).Update("role", role).Error; err != nil {
		return nil, err
	}

	return s.GetTeamByID(teamID)
}
