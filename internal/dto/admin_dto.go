package dto

import "time"

// ProcessCancelRequestRequest is the admin decision on one cancel request.
type ProcessCancelRequestRequest struct {
	Action     string `json:"action" validate:"required,oneof=approve reject"`
	AdminNotes string `json:"admin_notes"`
	Reason     string `json:"reason"`
}

type ProcessCancelRequestResponse struct {
	RequestId     string    `json:"request_id"`
	Status        string    `json:"status"`
	EffectiveDate time.Time `json:"effective_date"`
	ProcessedAt   time.Time `json:"processed_at"`
	Replayed      bool      `json:"replayed,omitempty"`
}

type CancelRequestListResponse struct {
	Id            string                  `json:"id"`
	Status        string                  `json:"status"`
	Reason        string                  `json:"reason"`
	EffectiveDate time.Time               `json:"effective_date"`
	CreatedAt     time.Time               `json:"created_at"`
	User          CancelRequestUserInfo   `json:"user"`
	Subscription  CancelRequestSubInfo    `json:"subscription"`
}

type CancelRequestUserInfo struct {
	Id       string `json:"id"`
	Email    string `json:"email"`
	FullName string `json:"full_name"`
}

type CancelRequestSubInfo struct {
	Id               string    `json:"id"`
	Plan             string    `json:"plan"`
	CurrentPeriodEnd time.Time `json:"current_period_end"`
}
