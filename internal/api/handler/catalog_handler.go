package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/digitalgoods/storefront/internal/core/ports"
)

// CatalogHandler serves the public product pages.
type CatalogHandler struct {
	products ports.ProductAPI
}

func NewCatalogHandler(products ports.ProductAPI) *CatalogHandler {
	return &CatalogHandler{products: products}
}

// List handles GET /api/products.
//
// @Summary      List products
// @Tags         catalog
// @Produce      json
// @Success      200  {array}   domain.Product
// @Failure      502  {object}  errorResponse
// @Router       /api/products [get]
func (h *CatalogHandler) List(c echo.Context) error {
	products, err := h.products.List(c.Request().Context())
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, products)
}

// Get handles GET /api/products/:id.
func (h *CatalogHandler) Get(c echo.Context) error {
	product, err := h.products.Get(c.Request().Context(), c.Param("id"))
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, product)
}
