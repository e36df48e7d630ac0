package dto

// TransferAdminRequest moves tenant ownership between two users.
type TransferAdminRequest struct {
	FromUserId string `json:"from_user_id" validate:"required,uuid"`
	ToUserId   string `json:"to_user_id" validate:"required,uuid"`
}

type TenantOperationResponse struct {
	TenantId string `json:"tenant_id"`
	Status   string `json:"status"`
	Replayed bool   `json:"replayed,omitempty"`
}
