package restapi

import (
	"context"
	"net/http"
	"net/url"

	"github.com/digitalgoods/storefront/internal/core/domain"
	"github.com/digitalgoods/storefront/internal/core/ports"
)

// OrderClient implements ports.OrderAPI.
type OrderClient struct {
	c *Client
}

var _ ports.OrderAPI = (*OrderClient)(nil)

func (o *OrderClient) List(ctx context.Context) ([]domain.Order, error) {
	var orders []domain.Order
	if err := o.c.do(ctx, call{method: http.MethodGet, route: "/orders", path: "/orders"}, &orders); err != nil {
		return nil, err
	}
	return orders, nil
}

func (o *OrderClient) Checkout(ctx context.Context) (*domain.Order, error) {
	var order domain.Order
	if err := o.c.do(ctx, call{method: http.MethodPost, route: "/orders/checkout", path: "/orders/checkout"}, &order); err != nil {
		return nil, err
	}
	return &order, nil
}

// AdminOrderClient implements ports.AdminOrderAPI.
type AdminOrderClient struct {
	c *Client
}

var _ ports.AdminOrderAPI = (*AdminOrderClient)(nil)

type updateStatusRequest struct {
	Status domain.OrderStatus `json:"status"`
}

func (o *AdminOrderClient) List(ctx context.Context, status domain.OrderStatus) ([]domain.Order, error) {
	cl := call{method: http.MethodGet, route: "/admin/orders", path: "/admin/orders"}
	if status != "" {
		cl.query = url.Values{"status": []string{string(status)}}
	}
	var orders []domain.Order
	if err := o.c.do(ctx, cl, &orders); err != nil {
		return nil, err
	}
	return orders, nil
}

func (o *AdminOrderClient) UpdateStatus(ctx context.Context, orderID string, status domain.OrderStatus) (*domain.Order, error) {
	var order domain.Order
	err := o.c.do(ctx, call{
		method: http.MethodPatch,
		route:  "/admin/orders/:id/status",
		path:   "/admin/orders/" + url.PathEscape(orderID) + "/status",
		body:   updateStatusRequest{Status: status},
	}, &order)
	if err != nil {
		return nil, err
	}
	return &order, nil
}
