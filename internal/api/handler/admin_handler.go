package handler

import (
	"errors"
	"mime/multipart"
	"net/http"
	"strconv"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/digitalgoods/storefront/internal/core/domain"
	"github.com/digitalgoods/storefront/internal/core/ports"
)

// AdminHandler serves the admin session and the back-office pages.
type AdminHandler struct {
	session    ports.SessionService
	backoffice ports.BackOfficeService
	signInPath string
}

func NewAdminHandler(session ports.SessionService, backoffice ports.BackOfficeService, signInPath string) *AdminHandler {
	return &AdminHandler{session: session, backoffice: backoffice, signInPath: signInPath}
}

// LoginPage is the admin sign-in entry point. A signed-in admin is sent on to
// the dashboard.
func (h *AdminHandler) LoginPage(c echo.Context) error {
	switch domain.DecideAdminAccess(h.session.State()) {
	case domain.AccessPending:
		c.Response().Header().Set("Retry-After", "1")
		return c.JSON(http.StatusServiceUnavailable, map[string]string{"status": "loading"})
	case domain.AccessGranted:
		return c.Redirect(http.StatusSeeOther, "/api/admin/dashboard")
	default:
		return c.JSON(http.StatusOK, adminLoginPageResponse{SignIn: "/api/admin/signin"})
	}
}

// SignIn authenticates a back-office operator.
//
// @Summary      Admin sign in
// @Tags         admin
// @Accept       json
// @Produce      json
// @Param        body  body      adminSignInRequest  true  "Credentials"
// @Success      200   {object}  sessionResponse
// @Failure      400   {object}  errorResponse
// @Failure      401   {object}  errorResponse
// @Router       /api/admin/signin [post]
func (h *AdminHandler) SignIn(c echo.Context) error {
	var req adminSignInRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	if err := c.Validate(&req); err != nil {
		return invalidInput(err)
	}

	if err := h.session.LoginAdmin(c.Request().Context(), req.Username, req.Password); err != nil {
		return adminAuthFailure(err)
	}
	return c.JSON(http.StatusOK, toSessionResponse(h.session.State()))
}

// Logout ends the admin identity and returns to the sign-in entry point.
func (h *AdminHandler) Logout(c echo.Context) error {
	h.session.Logout(c.Request().Context(), domain.KindAdmin)
	return c.Redirect(http.StatusSeeOther, h.signInPath)
}

func (h *AdminHandler) Dashboard(c echo.Context) error {
	d, err := h.backoffice.Dashboard(c.Request().Context())
	if err != nil {
		return h.fail(c, err)
	}
	return c.JSON(http.StatusOK, d)
}

func (h *AdminHandler) Users(c echo.Context) error {
	users, err := h.backoffice.Users(c.Request().Context())
	if err != nil {
		return h.fail(c, err)
	}
	return c.JSON(http.StatusOK, users)
}

// CreateProduct accepts either a JSON body or a multipart form carrying an
// optional "image" file.
//
// @Summary      Create a product
// @Tags         admin
// @Accept       json,mpfd
// @Produce      json
// @Success      201  {object}  domain.Product
// @Failure      400  {object}  errorResponse
// @Router       /api/admin/products [post]
func (h *AdminHandler) CreateProduct(c echo.Context) error {
	var (
		req   productRequest
		image *ports.FileUpload
	)
	if isMultipart(c) {
		values, upload, closeFn, err := readProductForm(c)
		if err != nil {
			return invalidInput(err)
		}
		defer closeFn()
		image = upload
		req.Name = values.get("name")
		req.Description = values.get("description")
		if req.Price, err = values.float("price"); err != nil {
			return invalidInput(err)
		}
	} else if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	if err := c.Validate(&req); err != nil {
		return invalidInput(err)
	}

	in := ports.CreateProductInput{Name: req.Name, Description: req.Description, Price: req.Price}
	product, err := h.backoffice.CreateProduct(c.Request().Context(), in, image)
	if err != nil {
		return h.fail(c, err)
	}
	return c.JSON(http.StatusCreated, product)
}

func (h *AdminHandler) UpdateProduct(c echo.Context) error {
	var (
		req   productPatchRequest
		image *ports.FileUpload
	)
	if isMultipart(c) {
		values, upload, closeFn, err := readProductForm(c)
		if err != nil {
			return invalidInput(err)
		}
		defer closeFn()
		image = upload
		req.Name = values.optional("name")
		req.Description = values.optional("description")
		if values.has("price") {
			price, err := values.float("price")
			if err != nil {
				return invalidInput(err)
			}
			req.Price = &price
		}
	} else if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	if err := c.Validate(&req); err != nil {
		return invalidInput(err)
	}

	in := ports.UpdateProductInput{Name: req.Name, Description: req.Description, Price: req.Price}
	product, err := h.backoffice.UpdateProduct(c.Request().Context(), c.Param("id"), in, image)
	if err != nil {
		return h.fail(c, err)
	}
	return c.JSON(http.StatusOK, product)
}

func (h *AdminHandler) DeleteProduct(c echo.Context) error {
	if err := h.backoffice.DeleteProduct(c.Request().Context(), c.Param("id")); err != nil {
		return h.fail(c, err)
	}
	return c.JSON(http.StatusOK, messageResponse{Message: "Product deleted"})
}

// Orders lists orders; ?status= narrows to one status.
func (h *AdminHandler) Orders(c echo.Context) error {
	status := domain.OrderStatus(strings.ToUpper(c.QueryParam("status")))
	orders, err := h.backoffice.Orders(c.Request().Context(), status)
	if err != nil {
		if errors.Is(err, domain.ErrInvalidOrderStatus) {
			return invalidInput(err)
		}
		return h.fail(c, err)
	}
	return c.JSON(http.StatusOK, orders)
}

func (h *AdminHandler) UpdateOrderStatus(c echo.Context) error {
	var req updateOrderStatusRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	if err := c.Validate(&req); err != nil {
		return invalidInput(err)
	}

	order, err := h.backoffice.UpdateOrderStatus(c.Request().Context(), c.Param("id"), req.Status)
	if err != nil {
		return h.fail(c, err)
	}
	return c.JSON(http.StatusOK, order)
}

// fail answers a back-office error. A 401 means the admin session expired;
// the back office has already ended it locally, so the caller is sent to the
// sign-in entry point.
func (h *AdminHandler) fail(c echo.Context, err error) error {
	if domain.IsUnauthorized(err) {
		return c.Redirect(http.StatusSeeOther, h.signInPath)
	}
	return err
}

func isMultipart(c echo.Context) bool {
	return strings.HasPrefix(c.Request().Header.Get(echo.HeaderContentType), echo.MIMEMultipartForm)
}

type formValues map[string][]string

func (v formValues) has(name string) bool {
	_, ok := v[name]
	return ok
}

func (v formValues) get(name string) string {
	if vs := v[name]; len(vs) > 0 {
		return vs[0]
	}
	return ""
}

func (v formValues) optional(name string) *string {
	if !v.has(name) {
		return nil
	}
	s := v.get(name)
	return &s
}

func (v formValues) float(name string) (float64, error) {
	raw := strings.TrimSpace(v.get(name))
	if raw == "" {
		return 0, nil
	}
	f, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		return 0, errors.New(name + " must be a number")
	}
	return f, nil
}

// readProductForm parses a multipart product form. The returned close func
// releases the image part and must be called once the upload is forwarded.
func readProductForm(c echo.Context) (formValues, *ports.FileUpload, func(), error) {
	form, err := c.MultipartForm()
	if err != nil {
		return nil, nil, nil, errors.New("invalid multipart form")
	}

	noop := func() {}
	files := form.File["image"]
	if len(files) == 0 {
		return formValues(form.Value), nil, noop, nil
	}

	fh := files[0]
	f, err := fh.Open()
	if err != nil {
		return nil, nil, nil, errors.New("unreadable image")
	}
	return formValues(form.Value), toUpload(fh, f), func() { _ = f.Close() }, nil
}

func toUpload(fh *multipart.FileHeader, f multipart.File) *ports.FileUpload {
	return &ports.FileUpload{
		Filename:    fh.Filename,
		ContentType: fh.Header.Get(echo.HeaderContentType),
		Content:     f,
	}
}
