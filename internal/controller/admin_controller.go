package controller

import (
	"strconv"

	"tapcard-be/internal/dto"
	"tapcard-be/internal/entity"
	"tapcard-be/internal/pkg/serverutils"
	"tapcard-be/internal/service"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
)

type IAdminController interface {
	RegisterRoutes(r fiber.Router)
	GetCancellations(ctx *fiber.Ctx) error
	ProcessCancellation(ctx *fiber.Ctx) error
}

type adminController struct {
	cancellations service.ICancellationService
	entitlement   service.IEntitlementService
}

func NewAdminController(cancellationService service.ICancellationService, entitlementService service.IEntitlementService) IAdminController {
	return &adminController{
		cancellations: cancellationService,
		entitlement:   entitlementService,
	}
}

func (c *adminController) RegisterRoutes(r fiber.Router) {
	group := r.Group("/admin", serverutils.JwtMiddleware)
	group.Get("/cancellations", c.GetCancellations)
	group.Post("/cancellations/:id/process", c.ProcessCancellation)
}

func (c *adminController) GetCancellations(ctx *fiber.Ctx) error {
	actorId, err := subjectFromLocals(ctx)
	if err != nil {
		return err
	}
	if err := c.requireCapability(ctx, actorId, entity.CapViewCancelRequests); err != nil {
		return err
	}

	page, _ := strconv.Atoi(ctx.Query("page", "1"))
	limit, _ := strconv.Atoi(ctx.Query("limit", "20"))
	if page < 1 {
		page = 1
	}
	if limit < 1 || limit > 100 {
		limit = 20
	}

	requests, err := c.cancellations.ListCancelRequests(ctx.Context(), ctx.Query("status"), page, limit)
	if err != nil {
		return err
	}
	return ctx.JSON(serverutils.SuccessResponse("cancellation requests retrieved", requests))
}

func (c *adminController) ProcessCancellation(ctx *fiber.Ctx) error {
	actorId, err := subjectFromLocals(ctx)
	if err != nil {
		return err
	}
	requestId, err := uuid.Parse(ctx.Params("id"))
	if err != nil {
		return entity.NewDomainError(entity.ErrKindValidation, "malformed request id")
	}

	var req dto.ProcessCancelRequestRequest
	if err := ctx.BodyParser(&req); err != nil {
		return entity.NewDomainError(entity.ErrKindValidation, "malformed request body")
	}
	if err := serverutils.ValidateRequest(&req); err != nil {
		return err
	}

	var res *dto.ProcessCancelRequestResponse
	if req.Action == "approve" {
		res, err = c.cancellations.ApproveCancelRequest(ctx.Context(), requestId, actorId, req.AdminNotes)
	} else {
		res, err = c.cancellations.RejectCancelRequest(ctx.Context(), requestId, actorId, req.Reason)
	}
	if err != nil {
		return err
	}
	return ctx.JSON(serverutils.SuccessResponse("cancellation request processed", res))
}

func (c *adminController) requireCapability(ctx *fiber.Ctx, actorId uuid.UUID, cap entity.Capability) error {
	ent, err := c.entitlement.Resolve(ctx.Context(), actorId)
	if err != nil {
		return err
	}
	if !ent.Permissions.Has(cap) {
		return entity.NewDomainError(entity.ErrKindForbidden, "missing capability: "+string(cap))
	}
	return nil
}
