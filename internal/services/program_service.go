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

type ProgramService interface {
	Create(creatorID string, req *dto.CreateProgramRequest) (*dto.ProgramResponse, error)
	Get(callerID, programID string) (*dto.ProgramResponse, error)
	ListMine(memberID string) (*dto.ProgramListResponse, error)
	ListMembers(callerID, programID string) ([]*dto.ProgramMemberResponse, error)

	// Leave - добровольный выход участника из программы
	Leave(memberID, programID string) (*dto.ExitResponse, error)
	// RemoveMember - исключение участника админом программы (или глобальным админом)
	RemoveMember(actorID, programID, targetMemberID string) (*dto.ExitResponse, error)
}

type programService struct {
	db               *gorm.DB
	programRepo      repositories.ProgramRepository
	membershipRepo   repositories.MembershipRepository
	memberRepo       repositories.MemberRepository
	exitSvc          MembershipExitService
	notificationsSvc NotificationService
}

func NewProgramService(
	db *gorm.DB,
	programRepo repositories.ProgramRepository,
	membershipRepo repositories.MembershipRepository,
	memberRepo repositories.MemberRepository,
	exitSvc MembershipExitService,
	notificationsSvc NotificationService,
) ProgramService {
	return &programService{
		db:               db,
		programRepo:      programRepo,
		membershipRepo:   membershipRepo,
		memberRepo:       memberRepo,
		exitSvc:          exitSvc,
		notificationsSvc: notificationsSvc,
	}
}

func (s *programService) Create(creatorID string, req *dto.CreateProgramRequest) (*dto.ProgramResponse, error) {
	status := models.ProgramStatus(req.Status)
	if status == "" {
		status = models.ProgramStatusActive
	}

	program := &models.Program{
		Name:        req.Name,
		Description: req.Description,
		StartDate:   req.StartDate,
		EndDate:     req.EndDate,
		Status:      status,
		CreatedBy:   &creatorID,
	}

	err := database.Transaction(s.db, func(tx *gorm.DB, hooks *database.AfterCommit) error {
		if err := s.programRepo.WithTx(tx).Create(program); err != nil {
			return err
		}
		// Создатель сразу получает активное админ-членство
		return s.membershipRepo.WithTx(tx).Create(&models.ProgramMembership{
			ProgramID: program.ID,
			MemberID:  creatorID,
			Role:      models.MembershipRoleAdmin,
			Status:    models.MembershipStatusActive,
			JoinedAt:  time.Now(),
		})
	})
	if err != nil {
		return nil, err
	}

	return buildProgramResponse(program), nil
}

func (s *programService) Get(callerID, programID string) (*dto.ProgramResponse, error) {
	program, err := s.programRepo.FindByID(programID)
	if err != nil {
		return nil, mapProgramError(err)
	}
	if program.IsDeleted {
		return nil, apperrors.ErrNotFound(repositories.ErrProgramNotFound)
	}

	if _, err := s.membershipRepo.FindActive(programID, callerID); err != nil {
		if errors.Is(err, repositories.ErrMembershipNotFound) {
			return nil, apperrors.ErrNotProgramMember
		}
		return nil, err
	}

	return buildProgramResponse(program), nil
}

func (s *programService) ListMine(memberID string) (*dto.ProgramListResponse, error) {
	programs, err := s.programRepo.FindActiveByMember(memberID)
	if err != nil {
		return nil, err
	}

	responses := make([]*dto.ProgramResponse, 0, len(programs))
	for i := range programs {
		responses = append(responses, buildProgramResponse(&programs[i]))
	}
	return &dto.ProgramListResponse{Programs: responses, Total: len(responses)}, nil
}

func (s *programService) ListMembers(callerID, programID string) ([]*dto.ProgramMemberResponse, error) {
	if _, err := s.membershipRepo.FindActive(programID, callerID); err != nil {
		if errors.Is(err, repositories.ErrMembershipNotFound) {
			return nil, apperrors.ErrNotProgramMember
		}
		return nil, err
	}

	memberIDs, err := s.membershipRepo.ActiveMemberIDs(programID)
	if err != nil {
		return nil, err
	}
	members, err := s.memberRepo.FindByIDs(memberIDs)
	if err != nil {
		return nil, err
	}
	usernames := make(map[string]string, len(members))
	for i := range members {
		usernames[members[i].ID] = members[i].Username
	}

	responses := make([]*dto.ProgramMemberResponse, 0, len(memberIDs))
	for _, memberID := range memberIDs {
		membership, err := s.membershipRepo.FindActive(programID, memberID)
		if err != nil {
			return nil, err
		}
		responses = append(responses, &dto.ProgramMemberResponse{
			MemberID: memberID,
			Username: usernames[memberID],
			Role:     string(membership.Role),
			JoinedAt: membership.JoinedAt,
		})
	}
	return responses, nil
}

func (s *programService) Leave(memberID, programID string) (*dto.ExitResponse, error) {
	member, err := s.memberRepo.FindByID(memberID)
	if err != nil {
		return nil, mapMemberError(err)
	}

	var result *ExitResult
	err = database.Transaction(s.db, func(tx *gorm.DB, hooks *database.AfterCommit) error {
		memberships := s.membershipRepo.WithTx(tx)

		membership, err := memberships.FindActive(programID, memberID)
		if err != nil {
			if errors.Is(err, repositories.ErrMembershipNotFound) {
				return apperrors.ErrNotProgramMember
			}
			return err
		}
		if err := memberships.UpdateStatus(membership.ID, models.MembershipStatusLeft); err != nil {
			return err
		}

		result, err = s.exitSvc.ResolveExit(tx, hooks, programID, memberID, ExitOptions{
			UpdateCreatedBy:      true,
			ActorMemberID:        &memberID,
			IncludeExitingMember: true,
		})
		if err != nil {
			return err
		}

		if result.Outcome != ExitOutcomeDeleted {
			return s.notifyMemberLeft(tx, hooks, programID, memberID, &memberID,
				fmt.Sprintf("%s left the program", member.Username))
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	return buildExitResponse(result), nil
}

func (s *programService) RemoveMember(actorID, programID, targetMemberID string) (*dto.ExitResponse, error) {
	if actorID == targetMemberID {
		return nil, apperrors.ErrCannotModifySelf
	}

	actor, err := s.memberRepo.FindByID(actorID)
	if err != nil {
		return nil, mapMemberError(err)
	}
	target, err := s.memberRepo.FindByID(targetMemberID)
	if err != nil {
		return nil, mapMemberError(err)
	}

	var result *ExitResult
	err = database.Transaction(s.db, func(tx *gorm.DB, hooks *database.AfterCommit) error {
		memberships := s.membershipRepo.WithTx(tx)

		if err := s.authorizeProgramAdmin(memberships, actor, programID); err != nil {
			return err
		}

		membership, err := memberships.FindActive(programID, targetMemberID)
		if err != nil {
			if errors.Is(err, repositories.ErrMembershipNotFound) {
				return apperrors.ErrNotProgramMember
			}
			return err
		}
		if err := memberships.UpdateStatus(membership.ID, models.MembershipStatusRemoved); err != nil {
			return err
		}

		result, err = s.exitSvc.ResolveExit(tx, hooks, programID, targetMemberID, ExitOptions{
			UpdateCreatedBy:      true,
			ActorMemberID:        &actorID,
			IncludeExitingMember: true,
		})
		if err != nil {
			return err
		}

		if result.Outcome != ExitOutcomeDeleted {
			return s.notifyMemberLeft(tx, hooks, programID, targetMemberID, &actorID,
				fmt.Sprintf("%s was removed from the program", target.Username))
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	return buildExitResponse(result), nil
}

// authorizeProgramAdmin: действие разрешено активному админу программы
// либо глобальному админу
func (s *programService) authorizeProgramAdmin(memberships repositories.MembershipRepository, actor *models.Member, programID string) error {
	if actor.Role == models.MemberRoleGlobalAdmin {
		return nil
	}

	membership, err := memberships.FindActive(programID, actor.ID)
	if err != nil {
		if errors.Is(err, repositories.ErrMembershipNotFound) {
			return apperrors.ErrNotProgramAdmin
		}
		return err
	}
	if membership.Role != models.MembershipRoleAdmin {
		return apperrors.ErrNotProgramAdmin
	}
	return nil
}

// notifyMemberLeft рассылает program.member_left оставшимся активным участникам
func (s *programService) notifyMemberLeft(tx *gorm.DB, hooks *database.AfterCommit, programID, exitedMemberID string, actorID *string, body string) error {
	remainingIDs, err := s.membershipRepo.WithTx(tx).ActiveMemberIDs(programID, exitedMemberID)
	if err != nil {
		return err
	}

	_, err = s.notificationsSvc.Dispatch(tx, hooks, DispatchInput{
		Type:          repositories.NotificationTypeMemberLeft,
		ProgramID:     &programID,
		ActorMemberID: actorID,
		Title:         "A member left the program",
		Body:          body,
		RecipientIDs:  remainingIDs,
	})
	return err
}

// ---------------- Helpers ----------------

func buildProgramResponse(p *models.Program) *dto.ProgramResponse {
	return &dto.ProgramResponse{
		ID:          p.ID,
		Name:        p.Name,
		Description: p.Description,
		StartDate:   p.StartDate,
		EndDate:     p.EndDate,
		Status:      string(p.Status),
		CreatedBy:   p.CreatedBy,
		CreatedAt:   p.CreatedAt,
	}
}

func buildExitResponse(r *ExitResult) *dto.ExitResponse {
	return &dto.ExitResponse{
		Outcome:          string(r.Outcome),
		NewAdminMemberID: r.NewAdminMemberID,
	}
}

func mapProgramError(err error) error {
	if errors.Is(err, repositories.ErrProgramNotFound) {
		return apperrors.ErrNotFound(err)
	}
	return err
}

func mapMemberError(err error) error {
	if errors.Is(err, repositories.ErrMemberNotFound) {
		return apperrors.ErrNotFound(err)
	}
	return err
}
