package service

import (
	"context"

	"github.com/rs/zerolog"

	"github.com/digitalgoods/storefront/internal/core/domain"
	"github.com/digitalgoods/storefront/internal/core/ports"
	"github.com/digitalgoods/storefront/internal/metrics"
	"github.com/digitalgoods/storefront/internal/pkg/notify"
)

var _ ports.CartService = (*CartService)(nil)

// CartService performs cart mutations against the API and announces each
// successful one on the cart-changed topic. Failed calls announce nothing.
type CartService struct {
	cart    ports.CartAPI
	orders  ports.OrderAPI
	changes *notify.Topic[domain.CartChanged]
	log     zerolog.Logger
}

func NewCartService(cart ports.CartAPI, orders ports.OrderAPI, changes *notify.Topic[domain.CartChanged], log zerolog.Logger) *CartService {
	return &CartService{
		cart:    cart,
		orders:  orders,
		changes: changes,
		log:     log.With().Str("component", "cart").Logger(),
	}
}

func (s *CartService) Get(ctx context.Context) (*domain.Cart, error) {
	return s.cart.Get(ctx)
}

func (s *CartService) AddItem(ctx context.Context, productID string, quantity int) (*domain.Cart, error) {
	if quantity < 1 {
		return nil, domain.ErrInvalidQuantity
	}
	return s.mutate(s.cart.AddItem(ctx, productID, quantity))
}

func (s *CartService) UpdateItem(ctx context.Context, itemID string, quantity int) (*domain.Cart, error) {
	if quantity < 1 {
		return nil, domain.ErrInvalidQuantity
	}
	return s.mutate(s.cart.UpdateItem(ctx, itemID, quantity))
}

func (s *CartService) RemoveItem(ctx context.Context, itemID string) (*domain.Cart, error) {
	return s.mutate(s.cart.RemoveItem(ctx, itemID))
}

func (s *CartService) Clear(ctx context.Context) (*domain.Cart, error) {
	return s.mutate(s.cart.Clear(ctx))
}

// Checkout places an order from the current cart. The server empties the cart
// as part of it, so listeners are told.
func (s *CartService) Checkout(ctx context.Context) (*domain.Order, error) {
	order, err := s.orders.Checkout(ctx)
	if err != nil {
		return nil, err
	}
	s.log.Info().Str("order_id", order.ID).Msg("order placed")
	s.announce()
	return order, nil
}

// Orders lists the signed-in customer's orders.
func (s *CartService) Orders(ctx context.Context) ([]domain.Order, error) {
	return s.orders.List(ctx)
}

func (s *CartService) mutate(cart *domain.Cart, err error) (*domain.Cart, error) {
	if err != nil {
		return nil, err
	}
	s.announce()
	return cart, nil
}

func (s *CartService) announce() {
	metrics.CartSignalsTotal.WithLabelValues("local").Inc()
	s.changes.Publish(domain.CartChanged{})
}
