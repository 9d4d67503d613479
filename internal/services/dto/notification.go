package dto

import "time"

// NotificationPayload - wire-формат live push и элементов списка.
// Стабильный контракт, который читают клиенты.
type NotificationPayload struct {
	ID            string    `json:"id"`
	Type          string    `json:"type"`
	ProgramID     *string   `json:"program_id"`
	ActorMemberID *string   `json:"actor_member_id"`
	Title         string    `json:"title"`
	Body          string    `json:"body"`
	CreatedAt     time.Time `json:"created_at"`
}

type NotificationResponse struct {
	NotificationPayload
	Data           map[string]interface{} `json:"data,omitempty"`
	AcknowledgedAt *time.Time             `json:"acknowledged_at"`
}

type NotificationListResponse struct {
	Notifications []*NotificationResponse `json:"notifications"`
	Total         int64                   `json:"total"`
	Page          int                     `json:"page"`
	PageSize      int                     `json:"page_size"`
	TotalPages    int                     `json:"total_pages"`
}
