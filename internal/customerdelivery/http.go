// Package customerdelivery manages delivery layer of customers.
package customerdelivery

import (
	"context"
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
	"github.com/rs/zerolog"

	"github.com/bankops/backoffice/internal/domain"
	"github.com/bankops/backoffice/pkg/errorspkg"
	"github.com/bankops/backoffice/pkg/web"
)

// Service provides service layer interface needed by customer delivery layer.
type Service interface {
	Create(ctx context.Context, name, email string, age int) (domain.CustomerView, error)
	Get(ctx context.Context, id string) (domain.CustomerView, error)
	Update(ctx context.Context, id, name, email string, age int) (domain.CustomerView, error)
	Delete(ctx context.Context, id string) error
	List(ctx context.Context) ([]domain.CustomerView, error)
	AddAccount(ctx context.Context, customerID, currency string) (domain.AccountView, error)
}

// Handler facilitates customer delivery layer logic.
type Handler struct {
	service Service
}

// NewHandler returns customer handler.
func NewHandler(cs Service) Handler {
	return Handler{service: cs}
}

func bindingErrorMsg(err error) string {
	var ve validator.ValidationErrors
	if errors.As(err, &ve) {
		field := ve[0]
		return field.Field() + web.GetErrorMsg(field)
	}

	return "invalid request"
}

func statusFromError(err error) int {
	switch {
	case errors.Is(err, domain.ErrCustomerNotFound), errors.Is(err, domain.ErrAccountNotFound):
		return http.StatusNotFound
	case errors.Is(err, domain.ErrInvalidAge),
		errors.Is(err, domain.ErrInvalidProfile),
		errors.Is(err, domain.ErrUnsupportedCurrency):
		return http.StatusBadRequest
	}

	return 0
}

type data struct {
	Customer domain.CustomerView `json:"customer"`
}

type response struct {
	Data data `json:"data,omitempty"`
}

type createRequest struct {
	Name  string `json:"name" binding:"required"`
	Email string `json:"email" binding:"required,email"`
	Age   int    `json:"age" binding:"required"`
}

// Create handles http request to create a customer.
func (h *Handler) Create(gctx *gin.Context) {
	ctx := gctx.Request.Context()
	l := zerolog.Ctx(ctx)

	var req createRequest
	if err := gctx.ShouldBindJSON(&req); err != nil {
		l.Info().Err(err).Send()
		gctx.JSON(http.StatusBadRequest, web.Response{Error: web.JSONError{Error: bindingErrorMsg(err)}})

		return
	}

	customer, err := h.service.Create(ctx, req.Name, req.Email, req.Age)
	if err != nil {
		if status := statusFromError(err); status != 0 {
			gctx.JSON(status, web.Error(err))
			return
		}

		gctx.JSON(http.StatusInternalServerError, web.Error(errorspkg.ErrInternal))

		return
	}

	gctx.JSON(http.StatusCreated, response{Data: data{customer}})
}

type idRequest struct {
	ID string `uri:"id" binding:"required"`
}

// Get handles http request to get one customer.
func (h *Handler) Get(gctx *gin.Context) {
	ctx := gctx.Request.Context()
	l := zerolog.Ctx(ctx)

	var req idRequest
	if err := gctx.ShouldBindUri(&req); err != nil {
		l.Info().Err(err).Send()
		gctx.JSON(http.StatusBadRequest, web.Response{Error: web.JSONError{Error: bindingErrorMsg(err)}})

		return
	}

	customer, err := h.service.Get(ctx, req.ID)
	if err != nil {
		if status := statusFromError(err); status != 0 {
			gctx.JSON(status, web.Error(err))
			return
		}

		gctx.JSON(http.StatusInternalServerError, web.Error(errorspkg.ErrInternal))

		return
	}

	gctx.JSON(http.StatusOK, response{Data: data{customer}})
}

type updateRequest struct {
	Name  string `json:"name" binding:"required"`
	Email string `json:"email" binding:"required,email"`
	Age   int    `json:"age" binding:"required"`
}

// Update handles http request to replace a customer profile.
func (h *Handler) Update(gctx *gin.Context) {
	ctx := gctx.Request.Context()
	l := zerolog.Ctx(ctx)

	var uri idRequest
	if err := gctx.ShouldBindUri(&uri); err != nil {
		l.Info().Err(err).Send()
		gctx.JSON(http.StatusBadRequest, web.Response{Error: web.JSONError{Error: bindingErrorMsg(err)}})

		return
	}

	var req updateRequest
	if err := gctx.ShouldBindJSON(&req); err != nil {
		l.Info().Err(err).Send()
		gctx.JSON(http.StatusBadRequest, web.Response{Error: web.JSONError{Error: bindingErrorMsg(err)}})

		return
	}

	customer, err := h.service.Update(ctx, uri.ID, req.Name, req.Email, req.Age)
	if err != nil {
		if status := statusFromError(err); status != 0 {
			gctx.JSON(status, web.Error(err))
			return
		}

		gctx.JSON(http.StatusInternalServerError, web.Error(errorspkg.ErrInternal))

		return
	}

	gctx.JSON(http.StatusOK, response{Data: data{customer}})
}

// Delete handles http request to delete a customer and its accounts.
func (h *Handler) Delete(gctx *gin.Context) {
	ctx := gctx.Request.Context()
	l := zerolog.Ctx(ctx)

	var req idRequest
	if err := gctx.ShouldBindUri(&req); err != nil {
		l.Info().Err(err).Send()
		gctx.JSON(http.StatusBadRequest, web.Response{Error: web.JSONError{Error: bindingErrorMsg(err)}})

		return
	}

	if err := h.service.Delete(ctx, req.ID); err != nil {
		if status := statusFromError(err); status != 0 {
			gctx.JSON(status, web.Error(err))
			return
		}

		gctx.JSON(http.StatusInternalServerError, web.Error(errorspkg.ErrInternal))

		return
	}

	gctx.Status(http.StatusNoContent)
}

type dataCustomers struct {
	Customers []domain.CustomerView `json:"customers"`
}

type responseCustomers struct {
	Data dataCustomers `json:"data,omitempty"`
}

// List handles http request to list all customers with nested accounts.
func (h *Handler) List(gctx *gin.Context) {
	ctx := gctx.Request.Context()

	customers, err := h.service.List(ctx)
	if err != nil {
		gctx.JSON(http.StatusInternalServerError, web.Error(errorspkg.ErrInternal))
		return
	}

	gctx.JSON(http.StatusOK, responseCustomers{Data: dataCustomers{customers}})
}

type addAccountRequest struct {
	Currency string `json:"currency" binding:"required,currency"`
}

type dataAccount struct {
	Account domain.AccountView `json:"account"`
}

type responseAccount struct {
	Data dataAccount `json:"data,omitempty"`
}

// AddAccount handles http request to open an account for a customer.
func (h *Handler) AddAccount(gctx *gin.Context) {
	ctx := gctx.Request.Context()
	l := zerolog.Ctx(ctx)

	var uri idRequest
	if err := gctx.ShouldBindUri(&uri); err != nil {
		l.Info().Err(err).Send()
		gctx.JSON(http.StatusBadRequest, web.Response{Error: web.JSONError{Error: bindingErrorMsg(err)}})

		return
	}

	var req addAccountRequest
	if err := gctx.ShouldBindJSON(&req); err != nil {
		l.Info().Err(err).Send()
		gctx.JSON(http.StatusBadRequest, web.Response{Error: web.JSONError{Error: bindingErrorMsg(err)}})

		return
	}

	account, err := h.service.AddAccount(ctx, uri.ID, req.Currency)
	if err != nil {
		if status := statusFromError(err); status != 0 {
			gctx.JSON(status, web.Error(err))
			return
		}

		gctx.JSON(http.StatusInternalServerError, web.Error(errorspkg.ErrInternal))

		return
	}

	gctx.JSON(http.StatusCreated, responseAccount{Data: dataAccount{account}})
}
