package dto

import "time"

// ResolveResponse is the exposed shape of one resolved entitlement.
type ResolveResponse struct {
	Role           string              `json:"role"`
	LifecycleState LifecycleStateDTO   `json:"lifecycle_state"`
	Permissions    map[string]bool     `json:"permissions"`
	HomePath       string              `json:"home_path"`
	TenantBinding  *TenantBindingDTO   `json:"tenant_binding,omitempty"`
}

type LifecycleStateDTO struct {
	Kind          string     `json:"kind"`
	DaysRemaining int        `json:"days_remaining,omitempty"`
	EffectiveAt   *time.Time `json:"effective_at,omitempty"`
}

type TenantBindingDTO struct {
	Kind     string `json:"kind"`
	TenantId string `json:"tenant_id"`
}

// CheckAccessResponse mirrors the routing engine decision.
type CheckAccessResponse struct {
	Decision   string `json:"decision"` // allow | redirect
	RedirectTo string `json:"redirect_to,omitempty"`
}
