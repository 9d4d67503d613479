package dto

import "time"

type CreateProgramRequest struct {
	Name        string    `json:"name" binding:"required" validate:"required,min=1,max=200"`
	Description string    `json:"description" validate:"max=2000"`
	StartDate   time.Time `json:"start_date" binding:"required" validate:"required"`
	EndDate     time.Time `json:"end_date" binding:"required" validate:"required"`
	Status      string    `json:"status" validate:"is-program-status"`
}

type ProgramResponse struct {
	ID          string    `json:"id"`
	Name        string    `json:"name"`
	Description string    `json:"description"`
	StartDate   time.Time `json:"start_date"`
	EndDate     time.Time `json:"end_date"`
	Status      string    `json:"status"`
	CreatedBy   *string   `json:"created_by"`
	CreatedAt   time.Time `json:"created_at"`
}

type ProgramMemberResponse struct {
	MemberID string    `json:"member_id"`
	Username string    `json:"username"`
	Role     string    `json:"role"`
	JoinedAt time.Time `json:"joined_at"`
}

type ProgramListResponse struct {
	Programs []*ProgramResponse `json:"programs"`
	Total    int                `json:"total"`
}

// ExitResponse - результат leave/remove операции
type ExitResponse struct {
	Outcome          string `json:"outcome"` // "deleted" | "promoted" | "unchanged"
	NewAdminMemberID string `json:"new_admin_member_id,omitempty"`
}
