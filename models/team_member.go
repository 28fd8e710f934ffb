// models/team_member.go
package models

import "time"

type TeamRole string

const (
	TeamRoleOwner  TeamRole = "owner"
	TeamRoleAdmin  TeamRole = "admin"
	TeamRoleMember TeamRole = "member"
)

// Rank makes the role hierarchy explicit: owner > admin > member.
func (r TeamRole) Rank() int {
	switch r {
	case TeamRoleOwner:
		return 3
	case TeamRoleAdmin:
		return 2
	case TeamRoleMember:
		return 1
	}
	return 0
}

// AtLeast reports whether r satisfies the given minimum role.
func (r TeamRole) AtLeast(min TeamRole) bool {
	return r.Rank() >= min.Rank()
}

func (r TeamRole) Valid() bool {
	return r == TeamRoleOwner || r == TeamRoleAdmin || r == TeamRoleMember
}

type TeamMember struct {
	ID       uint      `gorm:"primaryKey" json:"id"`
	TeamID   uint      `gorm:"not null;uniqueIndex:idx_team_user" json:"teamId"`
	Team     *Team     `gorm:"foreignKey:TeamID" json:"-"`
	UserID   uint      `gorm:"not null;uniqueIndex:idx_team_user" json:"user"`
	User     *User     `gorm:"foreignKey:UserID" json:"userInfo,omitempty"`
	Role     TeamRole  `gorm:"not null;default:'member'" json:"role"`
	JoinedAt time.Time `gorm:"not null" json:"joinedAt"`
}

func (TeamMember) TableName() string {
	return "team_members"
}
