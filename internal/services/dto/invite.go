package dto

import "time"

type CreateInviteRequest struct {
	Username string `json:"username" binding:"required" validate:"required"`
}

type InviteResponse struct {
	ID              string    `json:"id"`
	ProgramID       string    `json:"program_id"`
	InviterMemberID string    `json:"inviter_member_id"`
	InviteeMemberID string    `json:"invitee_member_id"`
	Status          string    `json:"status"`
	CreatedAt       time.Time `json:"created_at"`
}
