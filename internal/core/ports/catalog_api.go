package ports

import (
	"context"
	"io"

	"github.com/digitalgoods/storefront/internal/core/domain"
)

// FileUpload is an image attached to a product create/update. The content is
// forwarded to the API server untouched.
type FileUpload struct {
	Filename    string
	ContentType string
	Content     io.Reader
}

// CreateProductInput holds the fields of a new catalog entry.
type CreateProductInput struct {
	Name        string
	Description string
	Price       float64
}

// UpdateProductInput holds a partial product update.
type UpdateProductInput struct {
	Name        *string
	Description *string
	Price       *float64
}

// ProductAPI is the catalog surface. Reads are public; writes need an admin
// session.
type ProductAPI interface {
	List(ctx context.Context) ([]domain.Product, error)
	Get(ctx context.Context, id string) (*domain.Product, error)
	Create(ctx context.Context, in CreateProductInput, image *FileUpload) (*domain.Product, error)
	Update(ctx context.Context, id string, in UpdateProductInput, image *FileUpload) (*domain.Product, error)
	Delete(ctx context.Context, id string) error
}

// CartAPI is the customer cart surface. Every call returns the full snapshot.
type CartAPI interface {
	Get(ctx context.Context) (*domain.Cart, error)
	AddItem(ctx context.Context, productID string, quantity int) (*domain.Cart, error)
	UpdateItem(ctx context.Context, itemID string, quantity int) (*domain.Cart, error)
	RemoveItem(ctx context.Context, itemID string) (*domain.Cart, error)
	Clear(ctx context.Context) (*domain.Cart, error)
}

// OrderAPI is the customer order surface.
type OrderAPI interface {
	List(ctx context.Context) ([]domain.Order, error)
	Checkout(ctx context.Context) (*domain.Order, error)
}

// AdminOrderAPI is the back-office order surface. An empty status lists all.
type AdminOrderAPI interface {
	List(ctx context.Context, status domain.OrderStatus) ([]domain.Order, error)
	UpdateStatus(ctx context.Context, orderID string, status domain.OrderStatus) (*domain.Order, error)
}
