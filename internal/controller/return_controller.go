package controller

import (
	"shopflow-be/internal/dto"
	"shopflow-be/internal/pkg/serverutils"
	"shopflow-be/internal/service"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
)

type IReturnController interface {
	RegisterRoutes(r fiber.Router)
	RequestReturn(ctx *fiber.Ctx) error
	CsConfirm(ctx *fiber.Ctx) error
	Reject(ctx *fiber.Ctx) error
	StaffInspect(ctx *fiber.Ctx) error
	AdminConfirmRefund(ctx *fiber.Ctx) error
	Cancel(ctx *fiber.Ctx) error
}

type returnController struct {
	returnService service.IReturnService
}

func NewReturnController(returnService service.IReturnService) IReturnController {
	return &returnController{
		returnService: returnService,
	}
}

func (c *returnController) RegisterRoutes(r fiber.Router) {
	h := r.Group("/orders")
	h.Use(serverutils.JwtMiddleware)

	h.Post(":id/request-return", serverutils.RequireRole(serverutils.RoleCustomer), c.RequestReturn)
	h.Post(":id/cancel", serverutils.RequireRole(serverutils.RoleCustomer, serverutils.RoleStaff), c.Cancel)

	h.Post(":id/cs-confirm-refund", serverutils.RequireRole(serverutils.RoleCS), c.CsConfirm)
	h.Post(":id/reject-refund", serverutils.RequireRole(serverutils.RoleCS, serverutils.RoleStaff), c.Reject)
	h.Post(":id/staff-confirm-refund", serverutils.RequireRole(serverutils.RoleStaff), c.StaffInspect)
	h.Post(":id/confirm-refund", serverutils.RequireRole(serverutils.RoleAdmin), c.AdminConfirmRefund)
}

func (c *returnController) RequestReturn(ctx *fiber.Ctx) error {
	userIdStr, _ := ctx.Locals("user_id").(string)
	userId, _ := uuid.Parse(userIdStr)

	orderId, err := uuid.Parse(ctx.Params("id"))
	if err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "Invalid order id")
	}

	var req dto.RequestReturnRequest
	if err := ctx.BodyParser(&req); err != nil {
		return err
	}
	if err := serverutils.ValidateRequest(req); err != nil {
		return err
	}

	res, err := c.returnService.SubmitReturnRequest(ctx.Context(), orderId, userId, &req)
	if err != nil {
		return err
	}

	return ctx.JSON(serverutils.SuccessResponse("Return request submitted", res))
}

func (c *returnController) CsConfirm(ctx *fiber.Ctx) error {
	orderId, err := uuid.Parse(ctx.Params("id"))
	if err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "Invalid order id")
	}

	var req dto.CsConfirmRequest
	if err := ctx.BodyParser(&req); err != nil {
		return err
	}

	res, err := c.returnService.CsConfirm(ctx.Context(), orderId, &req)
	if err != nil {
		return err
	}

	return ctx.JSON(serverutils.SuccessResponse("Return request confirmed", res))
}

func (c *returnController) Reject(ctx *fiber.Ctx) error {
	orderId, err := uuid.Parse(ctx.Params("id"))
	if err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "Invalid order id")
	}

	var req dto.RejectRefundRequest
	if err := ctx.BodyParser(&req); err != nil {
		return err
	}
	if err := serverutils.ValidateRequest(req); err != nil {
		return err
	}

	res, err := c.returnService.Reject(ctx.Context(), orderId, &req)
	if err != nil {
		return err
	}

	return ctx.JSON(serverutils.SuccessResponse("Return request rejected", res))
}

func (c *returnController) StaffInspect(ctx *fiber.Ctx) error {
	orderId, err := uuid.Parse(ctx.Params("id"))
	if err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "Invalid order id")
	}

	var req dto.StaffInspectRequest
	if err := ctx.BodyParser(&req); err != nil {
		return err
	}
	if err := serverutils.ValidateRequest(req); err != nil {
		return err
	}

	res, err := c.returnService.StaffInspect(ctx.Context(), orderId, &req)
	if err != nil {
		return err
	}

	return ctx.JSON(serverutils.SuccessResponse("Inspection recorded", res))
}

func (c *returnController) AdminConfirmRefund(ctx *fiber.Ctx) error {
	orderId, err := uuid.Parse(ctx.Params("id"))
	if err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "Invalid order id")
	}

	var req dto.AdminConfirmRequest
	if err := ctx.BodyParser(&req); err != nil {
		return err
	}

	res, err := c.returnService.AdminConfirmRefund(ctx.Context(), orderId, &req)
	if err != nil {
		return err
	}

	return ctx.JSON(serverutils.SuccessResponse("Refund confirmed", res))
}

func (c *returnController) Cancel(ctx *fiber.Ctx) error {
	orderId, err := uuid.Parse(ctx.Params("id"))
	if err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "Invalid order id")
	}

	var req dto.CancelOrderRequest
	if err := ctx.BodyParser(&req); err != nil {
		return err
	}
	if err := serverutils.ValidateRequest(req); err != nil {
		return err
	}

	res, err := c.returnService.CancelOrder(ctx.Context(), orderId, &req)
	if err != nil {
		return err
	}

	return ctx.JSON(serverutils.SuccessResponse("Order cancelled", res))
}
