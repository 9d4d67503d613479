package services

import (
	"errors"
	"fmt"

	"fittrack_backend/internal/database"
	"fittrack_backend/internal/logger"
	"fittrack_backend/internal/models"
	"fittrack_backend/internal/repositories"

	"gorm.io/gorm"
)

// ExitOutcome - исход разрешения выхода участника из программы
type ExitOutcome string

const (
	// ExitOutcomeDeleted - программа осталась без активных участников и была soft-deleted
	ExitOutcomeDeleted ExitOutcome = "deleted"
	// ExitOutcomePromoted - последний админ вышел, админство передано другому участнику
	ExitOutcomePromoted ExitOutcome = "promoted"
	// ExitOutcomeUnchanged - выход не потребовал ни удаления, ни передачи админства
	ExitOutcomeUnchanged ExitOutcome = "unchanged"
)

type ExitResult struct {
	Outcome          ExitOutcome
	NewAdminMemberID string
}

type ExitOptions struct {
	// UpdateCreatedBy - обнулить created_by программы, если выходящий участник
	// является ее создателем
	UpdateCreatedBy bool
	// ActorMemberID - кто инициировал выход (nil для системных событий,
	// например каскада удаления аккаунта)
	ActorMemberID *string
	// IncludeExitingMember - включить выходящего участника в получатели
	// уведомления program.deleted
	IncludeExitingMember bool
}

// MembershipExitService решает судьбу программы при выходе участника:
// soft-delete пустой программы либо передача админства, плюс рассылка
// уведомлений затронутым участникам. Весь процесс идет в транзакции
// вызывающей стороны.
type MembershipExitService interface {
	ResolveExit(tx *gorm.DB, hooks *database.AfterCommit, programID, exitingMemberID string, opts ExitOptions) (*ExitResult, error)
}

type membershipExitService struct {
	programRepo      repositories.ProgramRepository
	membershipRepo   repositories.MembershipRepository
	notificationsSvc NotificationService
}

func NewMembershipExitService(
	programRepo repositories.ProgramRepository,
	membershipRepo repositories.MembershipRepository,
	notificationsSvc NotificationService,
) MembershipExitService {
	return &membershipExitService{
		programRepo:      programRepo,
		membershipRepo:   membershipRepo,
		notificationsSvc: notificationsSvc,
	}
}

// ResolveExit безопасно вызывать и для участника, который в программе не
// активен: все подсчеты явно исключают выходящего, поэтому повторный вызов
// для уже вышедшего участника - no-op.
func (s *membershipExitService) ResolveExit(tx *gorm.DB, hooks *database.AfterCommit, programID, exitingMemberID string, opts ExitOptions) (*ExitResult, error) {
	programs := s.programRepo.WithTx(tx)
	memberships := s.membershipRepo.WithTx(tx)

	// Блокировка строки программы сериализует конкурентные выходы:
	// два одновременных "последних участника" не проскочат мимо удаления
	program, err := programs.FindByIDForUpdate(programID)
	if err != nil {
		if errors.Is(err, repositories.ErrProgramNotFound) {
			return &ExitResult{Outcome: ExitOutcomeUnchanged}, nil
		}
		return nil, err
	}
	if program.IsDeleted {
		// Повторный exit-вызов по уже удаленной программе
		return &ExitResult{Outcome: ExitOutcomeUnchanged}, nil
	}

	remaining, err := memberships.CountActiveExcluding(programID, exitingMemberID)
	if err != nil {
		return nil, err
	}

	if remaining == 0 {
		return s.resolveEmptyProgram(tx, hooks, program, exitingMemberID, opts)
	}

	result := &ExitResult{Outcome: ExitOutcomeUnchanged}

	adminsLeft, err := memberships.CountActiveAdminsExcluding(programID, exitingMemberID)
	if err != nil {
		return nil, err
	}

	if adminsLeft == 0 {
		promotedID, err := s.promoteSuccessor(tx, hooks, program, exitingMemberID, opts)
		if err != nil {
			return nil, err
		}
		if promotedID != "" {
			result.Outcome = ExitOutcomePromoted
			result.NewAdminMemberID = promotedID
		}
	}

	if opts.UpdateCreatedBy && program.CreatedBy != nil && *program.CreatedBy == exitingMemberID {
		// Программа живет дальше без номинального владельца
		if err := programs.ClearCreatedBy(programID); err != nil {
			return nil, err
		}
	}

	return result, nil
}

// resolveEmptyProgram: активных участников не осталось - программа soft-deleted
func (s *membershipExitService) resolveEmptyProgram(tx *gorm.DB, hooks *database.AfterCommit, program *models.Program, exitingMemberID string, opts ExitOptions) (*ExitResult, error) {
	programs := s.programRepo.WithTx(tx)
	memberships := s.membershipRepo.WithTx(tx)

	if err := programs.SoftDelete(program.ID); err != nil {
		return nil, err
	}
	if opts.UpdateCreatedBy && program.CreatedBy != nil && *program.CreatedBy == exitingMemberID {
		if err := programs.ClearCreatedBy(program.ID); err != nil {
			return nil, err
		}
	}

	recipientIDs, err := memberships.ActiveMemberIDs(program.ID, exitingMemberID)
	if err != nil {
		return nil, err
	}
	if opts.IncludeExitingMember {
		recipientIDs = append(recipientIDs, exitingMemberID)
	}

	_, err = s.notificationsSvc.Dispatch(tx, hooks, DispatchInput{
		Type:          repositories.NotificationTypeProgramDeleted,
		ProgramID:     &program.ID,
		ActorMemberID: opts.ActorMemberID,
		Title:         "Program deleted",
		Body:          fmt.Sprintf("Program %q was deleted because it has no remaining members", program.Name),
		RecipientIDs:  recipientIDs,
	})
	if err != nil {
		return nil, err
	}

	logger.Info("program soft-deleted after last exit",
		"program_id", program.ID,
		"exiting_member_id", exitingMemberID,
	)

	return &ExitResult{Outcome: ExitOutcomeDeleted}, nil
}

// promoteSuccessor передает админство самому раннему активному членству.
// Выбор детерминирован (joined_at, затем member_id), поэтому повторный
// прогон по тем же данным всегда выбирает того же участника.
func (s *membershipExitService) promoteSuccessor(tx *gorm.DB, hooks *database.AfterCommit, program *models.Program, exitingMemberID string, opts ExitOptions) (string, error) {
	memberships := s.membershipRepo.WithTx(tx)

	candidate, err := memberships.FindPromotionCandidate(program.ID, exitingMemberID)
	if err != nil {
		if errors.Is(err, repositories.ErrMembershipNotFound) {
			return "", nil
		}
		return "", err
	}
	if candidate.Role == models.MembershipRoleAdmin {
		return "", nil
	}

	if err := memberships.UpdateRole(candidate.ID, models.MembershipRoleAdmin); err != nil {
		return "", err
	}

	_, err = s.notificationsSvc.Dispatch(tx, hooks, DispatchInput{
		Type:          repositories.NotificationTypeRoleChanged,
		ProgramID:     &program.ID,
		ActorMemberID: opts.ActorMemberID,
		Title:         "You are now a program admin",
		Body:          fmt.Sprintf("You have been promoted to admin of program %q", program.Name),
		RecipientIDs:  []string{candidate.MemberID},
	})
	if err != nil {
		return "", err
	}

	remainingIDs, err := memberships.ActiveMemberIDs(program.ID, exitingMemberID)
	if err != nil {
		return "", err
	}

	_, err = s.notificationsSvc.Dispatch(tx, hooks, DispatchInput{
		Type:          repositories.NotificationTypeAdminTransferred,
		ProgramID:     &program.ID,
		ActorMemberID: &candidate.MemberID,
		Title:         "Program admin changed",
		Body:          fmt.Sprintf("Admin of program %q has been transferred", program.Name),
		Data:          map[string]interface{}{"new_admin_member_id": candidate.MemberID},
		RecipientIDs:  remainingIDs,
	})
	if err != nil {
		return "", err
	}

	logger.Info("program admin transferred",
		"program_id", program.ID,
		"new_admin_member_id", candidate.MemberID,
		"exiting_member_id", exitingMemberID,
	)

	return candidate.MemberID, nil
}
