package entity

import (
	"time"

	"github.com/google/uuid"
)

// CancelRequestStatus represents the status of a cancellation request.
type CancelRequestStatus string

const (
	CancelRequestPending  CancelRequestStatus = "pending"
	CancelRequestApproved CancelRequestStatus = "approved"
	CancelRequestRejected CancelRequestStatus = "rejected"
)

// CancelRequest is a user-initiated subscription cancellation awaiting an
// administrative decision. Terminal once approved or rejected; the status
// field is the idempotency precondition for processing.
type CancelRequest struct {
	Id             uuid.UUID
	SubscriptionId uuid.UUID
	UserId         uuid.UUID
	Reason         string
	Status         CancelRequestStatus
	AdminNotes     string
	EffectiveDate  time.Time
	ProcessedBy    *uuid.UUID
	ProcessedAt    *time.Time
	CreatedAt      time.Time
	UpdatedAt      time.Time

	Subscription Subscription
	User         User
}

// IsTerminal reports whether the request has already been processed.
func (c *CancelRequest) IsTerminal() bool {
	return c.Status != CancelRequestPending
}
