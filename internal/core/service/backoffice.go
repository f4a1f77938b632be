package service

import (
	"context"

	"github.com/rs/zerolog"

	"github.com/digitalgoods/storefront/internal/core/domain"
	"github.com/digitalgoods/storefront/internal/core/ports"
	"github.com/digitalgoods/storefront/internal/pkg/settle"
)

var _ ports.BackOfficeService = (*BackOffice)(nil)

// BackOffice serves the admin pages: users, catalog writes and order
// fulfilment. Any call rejected with 401 means the admin cookie is gone, so
// the admin identity is ended locally before the error is returned.
type BackOffice struct {
	admin    ports.AdminAPI
	products ports.ProductAPI
	orders   ports.AdminOrderAPI
	session  ports.SessionService
	log      zerolog.Logger
}

func NewBackOffice(admin ports.AdminAPI, products ports.ProductAPI, orders ports.AdminOrderAPI, session ports.SessionService, log zerolog.Logger) *BackOffice {
	return &BackOffice{
		admin:    admin,
		products: products,
		orders:   orders,
		session:  session,
		log:      log.With().Str("component", "backoffice").Logger(),
	}
}

// Dashboard counts products and users. The two lookups run concurrently and a
// failing one leaves its count at zero; only a 401 is reported.
func (b *BackOffice) Dashboard(ctx context.Context) (domain.Dashboard, error) {
	products, users := settle.Pair(ctx, b.products.List, b.admin.ListUsers)

	var out domain.Dashboard
	if products.Ok() {
		out.Products = len(products.Value)
	} else {
		b.log.Warn().Err(products.Err).Msg("dashboard: products unavailable")
	}
	if users.Ok() {
		out.Users = len(users.Value)
	} else if err := b.check(ctx, users.Err); domain.IsUnauthorized(err) {
		return domain.Dashboard{}, err
	} else {
		b.log.Warn().Err(users.Err).Msg("dashboard: users unavailable")
	}
	return out, nil
}

func (b *BackOffice) Users(ctx context.Context) ([]domain.RegularUser, error) {
	users, err := b.admin.ListUsers(ctx)
	return users, b.check(ctx, err)
}

func (b *BackOffice) CreateProduct(ctx context.Context, in ports.CreateProductInput, image *ports.FileUpload) (*domain.Product, error) {
	p, err := b.products.Create(ctx, in, image)
	if err != nil {
		return nil, b.check(ctx, err)
	}
	b.log.Info().Str("product_id", p.ID).Msg("product created")
	return p, nil
}

func (b *BackOffice) UpdateProduct(ctx context.Context, id string, in ports.UpdateProductInput, image *ports.FileUpload) (*domain.Product, error) {
	p, err := b.products.Update(ctx, id, in, image)
	if err != nil {
		return nil, b.check(ctx, err)
	}
	return p, nil
}

func (b *BackOffice) DeleteProduct(ctx context.Context, id string) error {
	if err := b.products.Delete(ctx, id); err != nil {
		return b.check(ctx, err)
	}
	b.log.Info().Str("product_id", id).Msg("product deleted")
	return nil
}

// Orders lists orders, optionally narrowed to one status.
func (b *BackOffice) Orders(ctx context.Context, status domain.OrderStatus) ([]domain.Order, error) {
	if status != "" && !status.Valid() {
		return nil, domain.ErrInvalidOrderStatus
	}
	orders, err := b.orders.List(ctx, status)
	return orders, b.check(ctx, err)
}

func (b *BackOffice) UpdateOrderStatus(ctx context.Context, orderID string, status domain.OrderStatus) (*domain.Order, error) {
	if !status.Valid() {
		return nil, domain.ErrInvalidOrderStatus
	}
	order, err := b.orders.UpdateStatus(ctx, orderID, status)
	if err != nil {
		return nil, b.check(ctx, err)
	}
	b.log.Info().Str("order_id", orderID).Str("status", string(status)).Msg("order status updated")
	return order, nil
}

func (b *BackOffice) check(ctx context.Context, err error) error {
	if err != nil && domain.IsUnauthorized(err) {
		b.session.Logout(ctx, domain.KindAdmin)
	}
	return err
}
