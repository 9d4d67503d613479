package services

import (
	"errors"

	"fittrack_backend/internal/database"
	"fittrack_backend/internal/models"
	"fittrack_backend/internal/repositories"
	"fittrack_backend/internal/services/dto"
	"fittrack_backend/pkg/apperrors"

	"gorm.io/gorm"
)

type MemberService interface {
	GetProfile(memberID string) (*dto.MemberResponse, error)
	UpdateProfile(memberID string, req *dto.UpdateMemberRequest) (*dto.MemberResponse, error)

	// DeleteAccount - полное удаление аккаунта: перед удалением строки
	// участник выводится из всех затронутых программ
	DeleteAccount(memberID string) error
}

type memberService struct {
	db               *gorm.DB
	memberRepo       repositories.MemberRepository
	programRepo      repositories.ProgramRepository
	membershipRepo   repositories.MembershipRepository
	inviteRepo       repositories.InviteRepository
	notificationRepo repositories.NotificationRepository
	exitSvc          MembershipExitService
	notificationsSvc NotificationService
}

func NewMemberService(
	db *gorm.DB,
	memberRepo repositories.MemberRepository,
	programRepo repositories.ProgramRepository,
	membershipRepo repositories.MembershipRepository,
	inviteRepo repositories.InviteRepository,
	notificationRepo repositories.NotificationRepository,
	exitSvc MembershipExitService,
	notificationsSvc NotificationService,
) MemberService {
	return &memberService{
		db:               db,
		memberRepo:       memberRepo,
		programRepo:      programRepo,
		membershipRepo:   membershipRepo,
		inviteRepo:       inviteRepo,
		notificationRepo: notificationRepo,
		exitSvc:          exitSvc,
		notificationsSvc: notificationsSvc,
	}
}

func (s *memberService) GetProfile(memberID string) (*dto.MemberResponse, error) {
	member, err := s.memberRepo.FindByID(memberID)
	if err != nil {
		return nil, mapMemberError(err)
	}
	return buildMemberResponse(member), nil
}

func (s *memberService) UpdateProfile(memberID string, req *dto.UpdateMemberRequest) (*dto.MemberResponse, error) {
	member, err := s.memberRepo.FindByID(memberID)
	if err != nil {
		return nil, mapMemberError(err)
	}

	if req.Email != nil {
		member.Email = req.Email
	}
	if err := s.memberRepo.Update(member); err != nil {
		return nil, err
	}
	return buildMemberResponse(member), nil
}

func (s *memberService) DeleteAccount(memberID string) error {
	member, err := s.memberRepo.FindByID(memberID)
	if err != nil {
		return mapMemberError(err)
	}
	// Глобального админа нельзя удалить через самообслуживание
	if member.Role == models.MemberRoleGlobalAdmin {
		return apperrors.ErrGlobalAdminDeletion
	}

	return database.Transaction(s.db, func(tx *gorm.DB, hooks *database.AfterCommit) error {
		if err := s.inviteRepo.WithTx(tx).DeleteByMember(memberID); err != nil {
			return err
		}
		// Уведомления, где удаляемый — актор, удаляются, чтобы не оставить
		// висячих ссылок; системные (actor = NULL) остаются
		if err := s.notificationRepo.WithTx(tx).DeleteByActor(memberID); err != nil {
			return err
		}

		programs, err := s.programRepo.WithTx(tx).FindTouchedByMember(memberID)
		if err != nil {
			return err
		}
		for i := range programs {
			if err := s.exitProgramForDeletion(tx, hooks, programs[i].ID, memberID); err != nil {
				return err
			}
		}

		return s.memberRepo.WithTx(tx).Delete(memberID)
	})
}

// exitProgramForDeletion выводит участника из одной программы в рамках
// удаления аккаунта. Actor у рассылаемых уведомлений нулевой: сам аккаунт
// исчезает, и уведомления не должны указывать на удалённую строку.
func (s *memberService) exitProgramForDeletion(tx *gorm.DB, hooks *database.AfterCommit, programID, memberID string) error {
	memberships := s.membershipRepo.WithTx(tx)

	membership, err := memberships.FindActive(programID, memberID)
	if err == nil {
		if err := memberships.UpdateStatus(membership.ID, models.MembershipStatusLeft); err != nil {
			return err
		}
	} else if !errors.Is(err, repositories.ErrMembershipNotFound) {
		return err
	}

	result, err := s.exitSvc.ResolveExit(tx, hooks, programID, memberID, ExitOptions{
		UpdateCreatedBy:      true,
		ActorMemberID:        nil,
		IncludeExitingMember: false,
	})
	if err != nil {
		return err
	}

	if result.Outcome == ExitOutcomeDeleted {
		return nil
	}
	remainingIDs, err := memberships.ActiveMemberIDs(programID, memberID)
	if err != nil {
		return err
	}
	_, err = s.notificationsSvc.Dispatch(tx, hooks, DispatchInput{
		Type:         repositories.NotificationTypeMemberLeft,
		ProgramID:    &programID,
		Title:        "A member left the program",
		Body:         "A member is no longer part of the program",
		RecipientIDs: remainingIDs,
	})
	return err
}

func buildMemberResponse(m *models.Member) *dto.MemberResponse {
	return &dto.MemberResponse{
		ID:        m.ID,
		Username:  m.Username,
		Email:     m.Email,
		Role:      string(m.Role),
		CreatedAt: m.CreatedAt,
	}
}
