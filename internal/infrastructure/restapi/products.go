package restapi

import (
	"context"
	"net/http"
	"net/url"
	"strconv"

	"github.com/digitalgoods/storefront/internal/core/domain"
	"github.com/digitalgoods/storefront/internal/core/ports"
)

// ProductClient implements ports.ProductAPI.
type ProductClient struct {
	c *Client
}

var _ ports.ProductAPI = (*ProductClient)(nil)

type createProductRequest struct {
	Name        string  `json:"name"`
	Description string  `json:"description,omitempty"`
	Price       float64 `json:"price"`
}

type updateProductRequest struct {
	Name        *string  `json:"name,omitempty"`
	Description *string  `json:"description,omitempty"`
	Price       *float64 `json:"price,omitempty"`
}

func (p *ProductClient) List(ctx context.Context) ([]domain.Product, error) {
	var products []domain.Product
	if err := p.c.do(ctx, call{method: http.MethodGet, route: "/products", path: "/products"}, &products); err != nil {
		return nil, err
	}
	return products, nil
}

func (p *ProductClient) Get(ctx context.Context, id string) (*domain.Product, error) {
	var product domain.Product
	err := p.c.do(ctx, call{
		method: http.MethodGet,
		route:  "/products/:id",
		path:   "/products/" + url.PathEscape(id),
	}, &product)
	if err != nil {
		return nil, err
	}
	return &product, nil
}

// Create adds a product. With a non-nil image the request is sent as
// multipart/form-data instead of JSON.
func (p *ProductClient) Create(ctx context.Context, in ports.CreateProductInput, image *ports.FileUpload) (*domain.Product, error) {
	cl := call{method: http.MethodPost, route: "/products", path: "/products"}
	if image != nil {
		form := &multipartForm{file: image}
		form.add("name", in.Name)
		if in.Description != "" {
			form.add("description", in.Description)
		}
		form.add("price", formatPrice(in.Price))
		cl.form = form
	} else {
		cl.body = createProductRequest{Name: in.Name, Description: in.Description, Price: in.Price}
	}

	var product domain.Product
	if err := p.c.do(ctx, cl, &product); err != nil {
		return nil, err
	}
	return &product, nil
}

// Update patches a product; see Create for the image behaviour.
func (p *ProductClient) Update(ctx context.Context, id string, in ports.UpdateProductInput, image *ports.FileUpload) (*domain.Product, error) {
	cl := call{method: http.MethodPatch, route: "/products/:id", path: "/products/" + url.PathEscape(id)}
	if image != nil {
		form := &multipartForm{file: image}
		if in.Name != nil {
			form.add("name", *in.Name)
		}
		if in.Description != nil {
			form.add("description", *in.Description)
		}
		if in.Price != nil {
			form.add("price", formatPrice(*in.Price))
		}
		cl.form = form
	} else {
		cl.body = updateProductRequest{Name: in.Name, Description: in.Description, Price: in.Price}
	}

	var product domain.Product
	if err := p.c.do(ctx, cl, &product); err != nil {
		return nil, err
	}
	return &product, nil
}

func (p *ProductClient) Delete(ctx context.Context, id string) error {
	var resp messageResponse
	return p.c.do(ctx, call{
		method: http.MethodDelete,
		route:  "/products/:id",
		path:   "/products/" + url.PathEscape(id),
	}, &resp)
}

func formatPrice(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}
