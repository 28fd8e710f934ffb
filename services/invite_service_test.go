package services

import (
	"testing"
	"time"

	"taskflow/database"
	"taskflow/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSendInvite(t *testing.T) {
	fix := newBoardFixture(t)
	invites := NewInviteService(fix.db)

	invite, err := invites.SendInvite(fix.admin.ID, "Nina@Example.com", fix.team.ID, models.TeamRoleMember)
	require.NoError(t, err)
	assert.Equal(t, "nina@example.com", invite.Email, "email is normalized")
	assert.Equal(t, models.InviteStatusPending, invite.Status)
	assert.Equal(t, fix.admin.ID, invite.InviterID)
}

func TestSendInviteRequiresAdmin(t *testing.T) {
	fix := newBoardFixture(t)
	invites := NewInviteService(fix.db)

	_, err := invites.SendInvite(fix.member.ID, "nina@example.com", fix.team.ID, models.TeamRoleMember)
	assert.ErrorIs(t, err, ErrNotAuthorized)

	_, err = invites.SendInvite(fix.outsider.ID, "nina@example.com", fix.team.ID, models.TeamRoleMember)
	assert.ErrorIs(t, err, ErrNotMember)
}

func TestSendInviteSinglePending(t *testing.T) {
	fix := newBoardFixture(t)
	invites := NewInviteService(fix.db)

	_, err := invites.SendInvite(fix.admin.ID, "nina@example.com", fix.team.ID, models.TeamRoleMember)
	require.NoError(t, err)

	_, err = invites.SendInvite(fix.admin.ID, "nina@example.com", fix.team.ID, models.TeamRoleMember)
	assert.ErrorIs(t, err, ErrInviteExists)

	// Another team can invite the same address in parallel.
	teams := NewTeamService(fix.db)
	other, err := teams.CreateTeam("Design", "", fix.owner.ID)
	require.NoError(t, err)
	_, err = invites.SendInvite(fix.owner.ID, "nina@example.com", other.ID, models.TeamRoleMember)
	assert.NoError(t, err)
}

func TestSendInviteToExistingMember(t *testing.T) {
	fix := newBoardFixture(t)
	invites := NewInviteService(fix.db)

	_, err := invites.SendInvite(fix.admin.ID, fix.member.Email, fix.team.ID, models.TeamRoleMember)
	assert.ErrorIs(t, err, ErrAlreadyMember)
}

func TestSendInviteRejectsOwnerRole(t *testing.T) {
	fix := newBoardFixture(t)
	invites := NewInviteService(fix.db)

	_, err := invites.SendInvite(fix.owner.ID, "nina@example.com", fix.team.ID, models.TeamRoleOwner)
	assert.ErrorIs(t, err, ErrInvalidRole)
}

func TestAcceptInvite(t *testing.T) {
	fix := newBoardFixture(t)
	invites := NewInviteService(fix.db)
	nina := createUser(t, fix.db, "Nina New", "nina@example.com")

	invite, err := invites.SendInvite(fix.admin.ID, nina.Email, fix.team.ID, models.TeamRoleAdmin)
	require.NoError(t, err)

	teamID, err := invites.AcceptInvite(invite.ID, nina)
	require.NoError(t, err)
	assert.Equal(t, fix.team.ID, teamID)

	role, err := NewTeamService(fix.db).Role(fix.team.ID, nina.ID)
	require.NoError(t, err)
	assert.Equal(t, models.TeamRoleAdmin, role, "joins at the invited role")

	// Terminal: the settled invitation can't be replayed.
	_, err = invites.AcceptInvite(invite.ID, nina)
	assert.ErrorIs(t, err, ErrInviteSettled)
	assert.ErrorIs(t, invites.RejectInvite(invite.ID, nina), ErrInviteSettled)
}

func TestAcceptInviteWrongAddressee(t *testing.T) {
	fix := newBoardFixture(t)
	invites := NewInviteService(fix.db)

	invite, err := invites.SendInvite(fix.admin.ID, "nina@example.com", fix.team.ID, models.TeamRoleMember)
	require.NoError(t, err)

	_, err = invites.AcceptInvite(invite.ID, fix.outsider)
	assert.ErrorIs(t, err, ErrNotAddressee)
}

func TestRejectInvite(t *testing.T) {
	fix := newBoardFixture(t)
	invites := NewInviteService(fix.db)
	nina := createUser(t, fix.db, "Nina New", "nina@example.com")

	invite, err := invites.SendInvite(fix.admin.ID, nina.Email, fix.team.ID, models.TeamRoleMember)
	require.NoError(t, err)
	require.NoError(t, invites.RejectInvite(invite.ID, nina))

	_, err = NewTeamService(fix.db).Role(fix.team.ID, nina.ID)
	assert.ErrorIs(t, err, ErrNotMember)

	// A rejected invitation frees the pending slot.
	_, err = invites.SendInvite(fix.admin.ID, nina.Email, fix.team.ID, models.TeamRoleMember)
	assert.NoError(t, err)
}

func TestMyInvites(t *testing.T) {
	fix := newBoardFixture(t)
	invites := NewInviteService(fix.db)
	nina := createUser(t, fix.db, "Nina New", "nina@example.com")

	invite, err := invites.SendInvite(fix.admin.ID, nina.Email, fix.team.ID, models.TeamRoleMember)
	require.NoError(t, err)

	mine, err := invites.MyInvites("Nina@Example.com")
	require.NoError(t, err)
	require.Len(t, mine, 1)
	assert.Equal(t, invite.ID, mine[0].ID)

	require.NoError(t, invites.RejectInvite(invite.ID, nina))
	mine, err = invites.MyInvites(nina.Email)
	require.NoError(t, err)
	assert.Empty(t, mine, "settled invitations drop out of the inbox")
}

func TestCleanupSettledInvites(t *testing.T) {
	fix := newBoardFixture(t)
	database.SetDB(fix.db)

	invites := NewInviteService(fix.db)
	nina := createUser(t, fix.db, "Nina New", "nina@example.com")

	old, err := invites.SendInvite(fix.admin.ID, nina.Email, fix.team.ID, models.TeamRoleMember)
	require.NoError(t, err)
	require.NoError(t, invites.RejectInvite(old.ID, nina))

	pending, err := invites.SendInvite(fix.admin.ID, "pending@example.com", fix.team.ID, models.TeamRoleMember)
	require.NoError(t, err)

	// Age the settled invitation past the retention window.
	stale := time.Now().Add(-48 * time.Hour)
	require.NoError(t, fix.db.Model(&models.Invitation{}).Where("id = ?", old.ID).
		UpdateColumn("updated_at", stale).Error)

	svc := &CleanupService{retention: 24 * time.Hour}
	require.NoError(t, svc.CleanupSettledInvites())

	var count int64
	fix.db.Model(&models.Invitation{}).Where("id = ?", old.ID).Count(&count)
	assert.Zero(t, count, "settled and stale: deleted")
	fix.db.Model(&models.Invitation{}).Where("id = ?", pending.ID).Count(&count)
	assert.EqualValues(t, 1, count, "pending invitations are never touched")
}
