package controller

import (
	"shopflow-be/internal/dto"
	"shopflow-be/internal/pkg/serverutils"
	"shopflow-be/internal/service"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
)

type IOrderController interface {
	RegisterRoutes(r fiber.Router)
	Show(ctx *fiber.Ctx) error
	List(ctx *fiber.Ctx) error
	ReturnQueue(ctx *fiber.Ctx) error
}

type orderController struct {
	orderService service.IOrderService
}

func NewOrderController(orderService service.IOrderService) IOrderController {
	return &orderController{
		orderService: orderService,
	}
}

func (c *orderController) RegisterRoutes(r fiber.Router) {
	h := r.Group("/orders")
	h.Use(serverutils.JwtMiddleware)

	h.Get("", c.List)
	h.Get("return-queue", serverutils.RequireRole(serverutils.RoleCS, serverutils.RoleStaff), c.ReturnQueue)
	h.Get(":id", c.Show)
}

func (c *orderController) Show(ctx *fiber.Ctx) error {
	orderId, err := uuid.Parse(ctx.Params("id"))
	if err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "Invalid order id")
	}

	res, err := c.orderService.GetOrder(ctx.Context(), orderId)
	if err != nil {
		return err
	}

	return ctx.JSON(serverutils.SuccessResponse("Success show order", res))
}

// List returns the caller's own orders. Back-office roles may filter by any
// customer and status.
func (c *orderController) List(ctx *fiber.Ctx) error {
	query := dto.ListOrdersQuery{
		Status: ctx.Query("status"),
		Page:   ctx.QueryInt("page", 1),
		Limit:  ctx.QueryInt("limit", 20),
	}

	role, _ := ctx.Locals("role").(string)
	if role == serverutils.RoleCustomer {
		userIdStr, _ := ctx.Locals("user_id").(string)
		userId, err := uuid.Parse(userIdStr)
		if err != nil {
			return fiber.ErrUnauthorized
		}
		query.CustomerId = userId
	} else if raw := ctx.Query("customer_id"); raw != "" {
		customerId, err := uuid.Parse(raw)
		if err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "Invalid customer id")
		}
		query.CustomerId = customerId
	}

	res, err := c.orderService.ListOrders(ctx.Context(), &query)
	if err != nil {
		return err
	}

	return ctx.JSON(serverutils.SuccessResponse("Success list orders", res))
}

func (c *orderController) ReturnQueue(ctx *fiber.Ctx) error {
	res, err := c.orderService.ListReturnQueue(ctx.Context(), ctx.QueryInt("page", 1), ctx.QueryInt("limit", 20))
	if err != nil {
		return err
	}

	return ctx.JSON(serverutils.SuccessResponse("Success list return queue", res))
}
