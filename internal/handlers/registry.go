package handlers

// AppHandlers содержит все хэндлеры приложения.
type AppHandlers struct {
	MemberHandler       *MemberHandler
	ProgramHandler      *ProgramHandler
	InviteHandler       *InviteHandler
	NotificationHandler *NotificationHandler
	WorkoutHandler      *WorkoutHandler
	HealthLogHandler    *HealthLogHandler
}
