package services

// ServiceContainer содержит все сервисы приложения.
type ServiceContainer struct {
	MemberService       MemberService
	ProgramService      ProgramService
	InviteService       InviteService
	NotificationService NotificationService
	ExitService         MembershipExitService
	WorkoutService      WorkoutService
	HealthLogService    HealthLogService
}
