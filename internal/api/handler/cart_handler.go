package handler

import (
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/digitalgoods/storefront/internal/core/domain"
	"github.com/digitalgoods/storefront/internal/core/ports"
)

// CartHandler serves the customer cart and orders.
type CartHandler struct {
	cart  ports.CartService
	badge ports.CartCounter
}

func NewCartHandler(cart ports.CartService, badge ports.CartCounter) *CartHandler {
	return &CartHandler{cart: cart, badge: badge}
}

// Get handles GET /api/cart.
func (h *CartHandler) Get(c echo.Context) error {
	cart, err := h.cart.Get(c.Request().Context())
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, cart)
}

// Count handles GET /api/cart/count, the header badge. It answers from the
// last refresh and never calls the API.
func (h *CartHandler) Count(c echo.Context) error {
	return c.JSON(http.StatusOK, cartCountResponse{Count: h.badge.Count()})
}

// AddItem handles POST /api/cart/items.
//
// @Summary      Add a product to the cart
// @Tags         cart
// @Accept       json
// @Produce      json
// @Param        body  body      addItemRequest  true  "Product and quantity"
// @Success      200   {object}  domain.Cart
// @Failure      400   {object}  errorResponse
// @Failure      401   {object}  errorResponse
// @Failure      404   {object}  errorResponse
// @Router       /api/cart/items [post]
func (h *CartHandler) AddItem(c echo.Context) error {
	var req addItemRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	if err := c.Validate(&req); err != nil {
		return invalidInput(err)
	}

	cart, err := h.cart.AddItem(c.Request().Context(), req.ProductID, req.Quantity)
	if err != nil {
		return quantityFailure(err)
	}
	return c.JSON(http.StatusOK, cart)
}

// UpdateItem handles PATCH /api/cart/items/:id.
func (h *CartHandler) UpdateItem(c echo.Context) error {
	var req updateItemRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	if err := c.Validate(&req); err != nil {
		return invalidInput(err)
	}

	cart, err := h.cart.UpdateItem(c.Request().Context(), c.Param("id"), req.Quantity)
	if err != nil {
		return quantityFailure(err)
	}
	return c.JSON(http.StatusOK, cart)
}

// RemoveItem handles DELETE /api/cart/items/:id.
func (h *CartHandler) RemoveItem(c echo.Context) error {
	cart, err := h.cart.RemoveItem(c.Request().Context(), c.Param("id"))
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, cart)
}

// Clear handles DELETE /api/cart.
func (h *CartHandler) Clear(c echo.Context) error {
	cart, err := h.cart.Clear(c.Request().Context())
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, cart)
}

// Orders handles GET /api/orders.
func (h *CartHandler) Orders(c echo.Context) error {
	orders, err := h.cart.Orders(c.Request().Context())
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, orders)
}

// Checkout handles POST /api/orders/checkout.
func (h *CartHandler) Checkout(c echo.Context) error {
	order, err := h.cart.Checkout(c.Request().Context())
	if err != nil {
		return err
	}
	return c.JSON(http.StatusCreated, order)
}

func quantityFailure(err error) error {
	if errors.Is(err, domain.ErrInvalidQuantity) {
		return invalidInput(err)
	}
	return err
}
