package handlers

import (
	"dcpstore/internal/apperror"
	applog "dcpstore/internal/log"
	"dcpstore/internal/services"

	"github.com/gofiber/fiber/v2"
)

// CartHandler serves the durable cart API. All routes sit behind
// RequireUser, so a user is always attached to the context here.
type CartHandler struct {
	Cart *services.CartService
}

func (h *CartHandler) Get(c *fiber.Ctx) error {
	u := currentUser(c)
	lines, err := h.Cart.Lines(u.ID)
	if err != nil {
		applog.Error(c, "cart.get.fail", err, nil)
		return jsonError(c, err)
	}
	return c.JSON(fiber.Map{"cart": lines})
}

type cartLineReq struct {
	ProductID int  `json:"productId"`
	Quantity  *int `json:"quantity"`
}

func (h *CartHandler) Add(c *fiber.Ctx) error {
	u := currentUser(c)
	var req cartLineReq
	if err := c.BodyParser(&req); err != nil {
		return jsonError(c, apperror.Validation("invalid request body"))
	}
	qty := 1
	if req.Quantity != nil {
		qty = *req.Quantity
	}
	if err := h.Cart.Add(u.ID, req.ProductID, qty); err != nil {
		applog.Error(c, "cart.add.fail", err, map[string]any{"product_id": req.ProductID})
		return jsonError(c, err)
	}
	return c.JSON(fiber.Map{"success": true})
}

// Update replaces a line's quantity; zero or less deletes the line.
func (h *CartHandler) Update(c *fiber.Ctx) error {
	u := currentUser(c)
	var req cartLineReq
	if err := c.BodyParser(&req); err != nil {
		return jsonError(c, apperror.Validation("invalid request body"))
	}
	if req.Quantity == nil {
		return jsonError(c, apperror.Validation("product id and quantity are required"))
	}
	if err := h.Cart.Update(u.ID, req.ProductID, *req.Quantity); err != nil {
		applog.Error(c, "cart.update.fail", err, map[string]any{"product_id": req.ProductID})
		return jsonError(c, err)
	}
	return c.JSON(fiber.Map{"success": true})
}

func (h *CartHandler) Clear(c *fiber.Ctx) error {
	u := currentUser(c)
	if err := h.Cart.Clear(u.ID); err != nil {
		applog.Error(c, "cart.clear.fail", err, nil)
		return jsonError(c, err)
	}
	return c.JSON(fiber.Map{"success": true})
}
