package controller

import (
	"tapcard-be/internal/dto"
	"tapcard-be/internal/entity"
	"tapcard-be/internal/pkg/serverutils"
	"tapcard-be/internal/service"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
)

type ITenantController interface {
	RegisterRoutes(r fiber.Router)
	Reactivate(ctx *fiber.Ctx) error
	TransferAdmin(ctx *fiber.Ctx) error
	Delete(ctx *fiber.Ctx) error
}

type tenantController struct {
	service service.ITenantService
}

func NewTenantController(tenantService service.ITenantService) ITenantController {
	return &tenantController{service: tenantService}
}

func (c *tenantController) RegisterRoutes(r fiber.Router) {
	group := r.Group("/tenants", serverutils.JwtMiddleware)
	group.Post("/:id/reactivate", c.Reactivate)
	group.Post("/:id/transfer-admin", c.TransferAdmin)
	group.Delete("/:id", c.Delete)
}

func (c *tenantController) Reactivate(ctx *fiber.Ctx) error {
	actorId, err := subjectFromLocals(ctx)
	if err != nil {
		return err
	}
	tenantId, err := uuid.Parse(ctx.Params("id"))
	if err != nil {
		return entity.NewDomainError(entity.ErrKindValidation, "malformed tenant id")
	}

	res, err := c.service.ReactivateTenant(ctx.Context(), tenantId, actorId)
	if err != nil {
		return err
	}
	return ctx.JSON(serverutils.SuccessResponse("tenant reactivated", res))
}

func (c *tenantController) TransferAdmin(ctx *fiber.Ctx) error {
	actorId, err := subjectFromLocals(ctx)
	if err != nil {
		return err
	}
	tenantId, err := uuid.Parse(ctx.Params("id"))
	if err != nil {
		return entity.NewDomainError(entity.ErrKindValidation, "malformed tenant id")
	}

	var req dto.TransferAdminRequest
	if err := ctx.BodyParser(&req); err != nil {
		return entity.NewDomainError(entity.ErrKindValidation, "malformed request body")
	}
	if err := serverutils.ValidateRequest(&req); err != nil {
		return err
	}
	fromId, err := uuid.Parse(req.FromUserId)
	if err != nil {
		return entity.NewDomainError(entity.ErrKindValidation, "malformed from_user_id")
	}
	toId, err := uuid.Parse(req.ToUserId)
	if err != nil {
		return entity.NewDomainError(entity.ErrKindValidation, "malformed to_user_id")
	}

	res, err := c.service.TransferAdmin(ctx.Context(), tenantId, actorId, fromId, toId)
	if err != nil {
		return err
	}
	return ctx.JSON(serverutils.SuccessResponse("tenant admin transferred", res))
}

func (c *tenantController) Delete(ctx *fiber.Ctx) error {
	actorId, err := subjectFromLocals(ctx)
	if err != nil {
		return err
	}
	tenantId, err := uuid.Parse(ctx.Params("id"))
	if err != nil {
		return entity.NewDomainError(entity.ErrKindValidation, "malformed tenant id")
	}

	if err := c.service.DeleteTenant(ctx.Context(), tenantId, actorId); err != nil {
		return err
	}
	return ctx.JSON(serverutils.SuccessResponse("tenant deleted", nil))
}
