package handler

import "github.com/digitalgoods/storefront/internal/core/domain"

// errorResponse is the standard error envelope returned on all 4xx/5xx responses.
type errorResponse struct {
	Error string `json:"error"`
}

type messageResponse struct {
	Message string `json:"message"`
}

// --- Customer session ---

type signUpRequest struct {
	Email    string `json:"email"    validate:"required,email"`
	Password string `json:"password" validate:"required,min=6"`
	Name     string `json:"name"     validate:"omitempty,max=100"`
}

type signInRequest struct {
	Email    string `json:"email"    validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

type updateProfileRequest struct {
	Name        *string `json:"name"        validate:"omitempty,max=100"`
	Description *string `json:"description" validate:"omitempty,max=500"`
}

type logoutRequest struct {
	Kind domain.IdentityKind `json:"kind" validate:"omitempty,oneof=user admin"`
}

type sessionResponse struct {
	domain.SessionState
	Authenticated bool `json:"authenticated"`
	IsAdmin       bool `json:"isAdmin"`
}

func toSessionResponse(st domain.SessionState) sessionResponse {
	return sessionResponse{
		SessionState:  st,
		Authenticated: st.Authenticated(),
		IsAdmin:       st.IsAdmin(),
	}
}

// --- Admin session ---

type adminSignInRequest struct {
	Username string `json:"username" validate:"required"`
	Password string `json:"password" validate:"required"`
}

type adminLoginPageResponse struct {
	SignIn string `json:"signin"`
}

// --- Cart & orders ---

type addItemRequest struct {
	ProductID string `json:"productId" validate:"required"`
	Quantity  int    `json:"quantity"  validate:"required,gt=0"`
}

type updateItemRequest struct {
	Quantity int `json:"quantity" validate:"required,gt=0"`
}

type cartCountResponse struct {
	Count int `json:"count"`
}

type updateOrderStatusRequest struct {
	Status domain.OrderStatus `json:"status" validate:"required,oneof=PROCESSING ACCEPTED SHIPPED DELIVERED"`
}

// --- Products (JSON body, or multipart form with an image part) ---

type productRequest struct {
	Name        string  `json:"name"        validate:"required"`
	Description string  `json:"description"`
	Price       float64 `json:"price"       validate:"required,gt=0"`
}

type productPatchRequest struct {
	Name        *string  `json:"name"`
	Description *string  `json:"description"`
	Price       *float64 `json:"price"       validate:"omitempty,gt=0"`
}
