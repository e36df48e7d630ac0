package controller

import (
	"tapcard-be/internal/dto"
	"tapcard-be/internal/entity"
	"tapcard-be/internal/pkg/serverutils"
	"tapcard-be/internal/service"
	"tapcard-be/pkg/entitlement/routing"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
)

type IEntitlementController interface {
	RegisterRoutes(r fiber.Router)
	Resolve(ctx *fiber.Ctx) error
	CheckAccess(ctx *fiber.Ctx) error
}

type entitlementController struct {
	service service.IEntitlementService
}

func NewEntitlementController(entitlementService service.IEntitlementService) IEntitlementController {
	return &entitlementController{service: entitlementService}
}

func (c *entitlementController) RegisterRoutes(r fiber.Router) {
	group := r.Group("/entitlement", serverutils.JwtMiddleware)
	group.Get("/resolve", c.Resolve)
	group.Get("/check", c.CheckAccess)
}

// Resolve returns the caller's full entitlement: role, lifecycle state,
// permission set, home path and validated tenant binding.
func (c *entitlementController) Resolve(ctx *fiber.Ctx) error {
	subjectId, err := subjectFromLocals(ctx)
	if err != nil {
		return err
	}

	ent, err := c.service.Resolve(ctx.Context(), subjectId)
	if err != nil {
		return err
	}

	return ctx.JSON(serverutils.SuccessResponse("entitlement resolved", toResolveResponse(ent)))
}

// CheckAccess evaluates the routing decision for ?path=.
func (c *entitlementController) CheckAccess(ctx *fiber.Ctx) error {
	subjectId, err := subjectFromLocals(ctx)
	if err != nil {
		return err
	}
	path := ctx.Query("path")
	if path == "" {
		return entity.NewDomainError(entity.ErrKindValidation, "path query parameter is required")
	}

	decision, err := c.service.CheckAccess(ctx.Context(), subjectId, path)
	if err != nil {
		return err
	}

	res := dto.CheckAccessResponse{Decision: string(decision.Kind)}
	if decision.Kind == routing.DecisionRedirect {
		res.RedirectTo = decision.Path
	}
	return ctx.JSON(serverutils.SuccessResponse("access checked", res))
}

func toResolveResponse(ent *entity.Entitlement) dto.ResolveResponse {
	res := dto.ResolveResponse{
		Role: string(ent.Role),
		LifecycleState: dto.LifecycleStateDTO{
			Kind:          string(ent.Lifecycle.Kind),
			DaysRemaining: ent.Lifecycle.DaysRemaining,
		},
		Permissions: permissionsToMap(ent.Permissions),
		HomePath:    ent.HomePath,
	}
	if !ent.Lifecycle.EffectiveAt.IsZero() {
		t := ent.Lifecycle.EffectiveAt
		res.LifecycleState.EffectiveAt = &t
	}
	if ent.Binding.Kind != entity.BindingNone {
		res.TenantBinding = &dto.TenantBindingDTO{
			Kind:     string(ent.Binding.Kind),
			TenantId: ent.Binding.TenantId.String(),
		}
	}
	return res
}

func permissionsToMap(p entity.PermissionSet) map[string]bool {
	caps := []entity.Capability{
		entity.CapManageUsers,
		entity.CapManageSubscriptions,
		entity.CapManageFinancialAdmins,
		entity.CapViewFinancialData,
		entity.CapManageFinancialData,
		entity.CapManageNotifications,
		entity.CapManageEmails,
		entity.CapViewProfiles,
		entity.CapAccessSystemInfo,
		entity.CapViewCancelRequests,
		entity.CapProcessCancelRequests,
		entity.CapExportUserData,
	}
	out := make(map[string]bool, len(caps))
	for _, c := range caps {
		out[string(c)] = p.Has(c)
	}
	return out
}

// subjectFromLocals reads the authenticated subject id stored by the JWT
// middleware.
func subjectFromLocals(ctx *fiber.Ctx) (uuid.UUID, error) {
	raw, ok := ctx.Locals("user_id").(string)
	if !ok {
		return uuid.Nil, entity.NewDomainError(entity.ErrKindUnauthenticated, "missing subject identity")
	}
	id, err := uuid.Parse(raw)
	if err != nil {
		return uuid.Nil, entity.NewDomainError(entity.ErrKindUnauthenticated, "malformed subject identity")
	}
	return id, nil
}
