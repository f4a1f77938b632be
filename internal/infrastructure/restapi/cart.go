package restapi

import (
	"context"
	"net/http"
	"net/url"

	"github.com/digitalgoods/storefront/internal/core/domain"
	"github.com/digitalgoods/storefront/internal/core/ports"
)

// CartClient implements ports.CartAPI.
type CartClient struct {
	c *Client
}

var _ ports.CartAPI = (*CartClient)(nil)

type addItemRequest struct {
	ProductID string `json:"productId"`
	Quantity  int    `json:"quantity"`
}

type updateItemRequest struct {
	Quantity int `json:"quantity"`
}

func (cc *CartClient) Get(ctx context.Context) (*domain.Cart, error) {
	return cc.snapshot(ctx, call{method: http.MethodGet, route: "/cart", path: "/cart"})
}

func (cc *CartClient) AddItem(ctx context.Context, productID string, quantity int) (*domain.Cart, error) {
	return cc.snapshot(ctx, call{
		method: http.MethodPost,
		route:  "/cart/items",
		path:   "/cart/items",
		body:   addItemRequest{ProductID: productID, Quantity: quantity},
	})
}

func (cc *CartClient) UpdateItem(ctx context.Context, itemID string, quantity int) (*domain.Cart, error) {
	return cc.snapshot(ctx, call{
		method: http.MethodPatch,
		route:  "/cart/items/:id",
		path:   "/cart/items/" + url.PathEscape(itemID),
		body:   updateItemRequest{Quantity: quantity},
	})
}

func (cc *CartClient) RemoveItem(ctx context.Context, itemID string) (*domain.Cart, error) {
	return cc.snapshot(ctx, call{
		method: http.MethodDelete,
		route:  "/cart/items/:id",
		path:   "/cart/items/" + url.PathEscape(itemID),
	})
}

func (cc *CartClient) Clear(ctx context.Context) (*domain.Cart, error) {
	return cc.snapshot(ctx, call{method: http.MethodDelete, route: "/cart", path: "/cart"})
}

func (cc *CartClient) snapshot(ctx context.Context, cl call) (*domain.Cart, error) {
	var cart domain.Cart
	if err := cc.c.do(ctx, cl, &cart); err != nil {
		return nil, err
	}
	if cart.Items == nil {
		cart.Items = []domain.CartItem{}
	}
	return &cart, nil
}
