package dto

import "time"

type MemberResponse struct {
	ID        string    `json:"id"`
	Username  string    `json:"username"`
	Email     *string   `json:"email"`
	Role      string    `json:"role"`
	CreatedAt time.Time `json:"created_at"`
}

type UpdateMemberRequest struct {
	Email *string `json:"email" validate:"omitempty,email"`
}
