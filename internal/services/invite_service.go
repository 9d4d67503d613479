package services

import (
	"errors"
	"fmt"
	"time"

	"fittrack_backend/internal/database"
	"fittrack_backend/internal/models"
	"fittrack_backend/internal/repositories"
	"fittrack_backend/internal/services/dto"
	"fittrack_backend/pkg/apperrors"

	"gorm.io/gorm"
)

type InviteService interface {
	Create(inviterID, programID string, req *dto.CreateInviteRequest) (*dto.InviteResponse, error)
	Accept(memberID, inviteID string) (*dto.InviteResponse, error)
	Decline(memberID, inviteID string) (*dto.InviteResponse, error)
	ListMine(memberID string) ([]*dto.InviteResponse, error)
}

type inviteService struct {
	db               *gorm.DB
	inviteRepo       repositories.InviteRepository
	memberRepo       repositories.MemberRepository
	programRepo      repositories.ProgramRepository
	membershipRepo   repositories.MembershipRepository
	notificationsSvc NotificationService
}

func NewInviteService(
	db *gorm.DB,
	inviteRepo repositories.InviteRepository,
	memberRepo repositories.MemberRepository,
	programRepo repositories.ProgramRepository,
	membershipRepo repositories.MembershipRepository,
	notificationsSvc NotificationService,
) InviteService {
	return &inviteService{
		db:               db,
		inviteRepo:       inviteRepo,
		memberRepo:       memberRepo,
		programRepo:      programRepo,
		membershipRepo:   membershipRepo,
		notificationsSvc: notificationsSvc,
	}
}

func (s *inviteService) Create(inviterID, programID string, req *dto.CreateInviteRequest) (*dto.InviteResponse, error) {
	inviter, err := s.memberRepo.FindByID(inviterID)
	if err != nil {
		return nil, mapMemberError(err)
	}

	program, err := s.programRepo.FindByID(programID)
	if err != nil {
		return nil, mapProgramError(err)
	}
	if program.IsDeleted {
		return nil, apperrors.ErrNotFound(repositories.ErrProgramNotFound)
	}

	invitee, err := s.memberRepo.FindByUsername(req.Username)
	if err != nil {
		return nil, mapMemberError(err)
	}

	// Приглашать могут только админы программы (или глобальный админ)
	if inviter.Role != models.MemberRoleGlobalAdmin {
		membership, err := s.membershipRepo.FindActive(programID, inviterID)
		if err != nil {
			if errors.Is(err, repositories.ErrMembershipNotFound) {
				return nil, apperrors.ErrNotProgramAdmin
			}
			return nil, err
		}
		if membership.Role != models.MembershipRoleAdmin {
			return nil, apperrors.ErrNotProgramAdmin
		}
	}

	if _, err := s.membershipRepo.FindActive(programID, invitee.ID); err == nil {
		return nil, apperrors.NewConflictError("invite", "member is already in the program")
	} else if !errors.Is(err, repositories.ErrMembershipNotFound) {
		return nil, err
	}
	if _, err := s.inviteRepo.FindPending(programID, invitee.ID); err == nil {
		return nil, apperrors.NewConflictError("invite", "invite is already pending")
	} else if !errors.Is(err, repositories.ErrInviteNotFound) {
		return nil, err
	}

	invite := &models.ProgramInvite{
		ProgramID:       programID,
		InviterMemberID: inviterID,
		InviteeMemberID: invitee.ID,
		Status:          models.InviteStatusPending,
	}

	err = database.Transaction(s.db, func(tx *gorm.DB, hooks *database.AfterCommit) error {
		if err := s.inviteRepo.WithTx(tx).Create(invite); err != nil {
			return err
		}
		_, err := s.notificationsSvc.Dispatch(tx, hooks, DispatchInput{
			Type:          repositories.NotificationTypeInviteReceived,
			ProgramID:     &programID,
			ActorMemberID: &inviterID,
			Title:         "Program invitation",
			Body:          fmt.Sprintf("%s invited you to join %s", inviter.Username, program.Name),
			RecipientIDs:  []string{invitee.ID},
		})
		return err
	})
	if err != nil {
		return nil, err
	}

	return buildInviteResponse(invite), nil
}

func (s *inviteService) Accept(memberID, inviteID string) (*dto.InviteResponse, error) {
	var invite *models.ProgramInvite
	err := database.Transaction(s.db, func(tx *gorm.DB, hooks *database.AfterCommit) error {
		invites := s.inviteRepo.WithTx(tx)
		memberships := s.membershipRepo.WithTx(tx)

		var err error
		invite, err = invites.FindByID(inviteID)
		if err != nil {
			return mapInviteError(err)
		}
		if invite.InviteeMemberID != memberID {
			return apperrors.ErrNotFound(repositories.ErrInviteNotFound)
		}
		if invite.Status != models.InviteStatusPending {
			return apperrors.ErrInviteNotPending
		}

		program, err := s.programRepo.WithTx(tx).FindByID(invite.ProgramID)
		if err != nil {
			return mapProgramError(err)
		}
		if program.IsDeleted {
			return apperrors.ErrNotFound(repositories.ErrProgramNotFound)
		}

		if err := invites.UpdateStatus(invite.ID, models.InviteStatusAccepted); err != nil {
			return err
		}
		invite.Status = models.InviteStatusAccepted

		// Уникальный индекс (program_id, member_id): если участник уже выходил
		// из программы, строка членства реактивируется вместо вставки новой
		existing, err := memberships.Find(invite.ProgramID, memberID)
		if err == nil {
			if existing.Status == models.MembershipStatusActive {
				return nil
			}
			if err := memberships.UpdateStatus(existing.ID, models.MembershipStatusActive); err != nil {
				return err
			}
			return memberships.UpdateRole(existing.ID, models.MembershipRoleMember)
		}
		if !errors.Is(err, repositories.ErrMembershipNotFound) {
			return err
		}

		return memberships.Create(&models.ProgramMembership{
			ProgramID: invite.ProgramID,
			MemberID:  memberID,
			Role:      models.MembershipRoleMember,
			Status:    models.MembershipStatusActive,
			JoinedAt:  time.Now(),
		})
	})
	if err != nil {
		return nil, err
	}

	return buildInviteResponse(invite), nil
}

func (s *inviteService) Decline(memberID, inviteID string) (*dto.InviteResponse, error) {
	invite, err := s.inviteRepo.FindByID(inviteID)
	if err != nil {
		return nil, mapInviteError(err)
	}
	if invite.InviteeMemberID != memberID {
		return nil, apperrors.ErrNotFound(repositories.ErrInviteNotFound)
	}
	if invite.Status != models.InviteStatusPending {
		return nil, apperrors.ErrInviteNotPending
	}

	if err := s.inviteRepo.UpdateStatus(invite.ID, models.InviteStatusDeclined); err != nil {
		return nil, err
	}
	invite.Status = models.InviteStatusDeclined
	return buildInviteResponse(invite), nil
}

func (s *inviteService) ListMine(memberID string) ([]*dto.InviteResponse, error) {
	invites, err := s.inviteRepo.FindPendingForMember(memberID)
	if err != nil {
		return nil, err
	}
	responses := make([]*dto.InviteResponse, 0, len(invites))
	for i := range invites {
		responses = append(responses, buildInviteResponse(&invites[i]))
	}
	return responses, nil
}

func buildInviteResponse(inv *models.ProgramInvite) *dto.InviteResponse {
	return &dto.InviteResponse{
		ID:              inv.ID,
		ProgramID:       inv.ProgramID,
		InviterMemberID: inv.InviterMemberID,
		InviteeMemberID: inv.InviteeMemberID,
		Status:          string(inv.Status),
		CreatedAt:       inv.CreatedAt,
	}
}

func mapInviteError(err error) error {
	if errors.Is(err, repositories.ErrInviteNotFound) {
		return apperrors.ErrNotFound(err)
	}
	return err
}
