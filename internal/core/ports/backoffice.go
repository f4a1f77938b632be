package ports

import (
	"context"

	"github.com/digitalgoods/storefront/internal/core/domain"
)

// BackOfficeService backs the admin pages.
type BackOfficeService interface {
	Dashboard(ctx context.Context) (domain.Dashboard, error)
	Users(ctx context.Context) ([]domain.RegularUser, error)
	CreateProduct(ctx context.Context, in CreateProductInput, image *FileUpload) (*domain.Product, error)
	UpdateProduct(ctx context.Context, id string, in UpdateProductInput, image *FileUpload) (*domain.Product, error)
	DeleteProduct(ctx context.Context, id string) error
	Orders(ctx context.Context, status domain.OrderStatus) ([]domain.Order, error)
	UpdateOrderStatus(ctx context.Context, orderID string, status domain.OrderStatus) (*domain.Order, error)
}

// CartCounter exposes the header cart badge.
type CartCounter interface {
	Count() int
}
