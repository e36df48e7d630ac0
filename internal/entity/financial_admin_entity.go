package entity

import (
	"time"

	"github.com/google/uuid"
)

// FinancialAdminRecord grants a global, finance-scoped administrative view
// independent of tenant membership.
type FinancialAdminRecord struct {
	Id        uuid.UUID
	UserId    uuid.UUID
	IsActive  bool
	GrantedBy uuid.UUID
	CreatedAt time.Time
	UpdatedAt time.Time
}
