// Package ledgerdelivery manages delivery layer of balance operations.
package ledgerdelivery

import (
	"context"
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
	"github.com/rs/zerolog"

	"github.com/bankops/backoffice/internal/domain"
	"github.com/bankops/backoffice/internal/ledgerservice"
	"github.com/bankops/backoffice/pkg/errorspkg"
	"github.com/bankops/backoffice/pkg/web"
)

// Service provides service layer interface needed by ledger delivery layer.
type Service interface {
	Deposit(ctx context.Context, number, amount string) (domain.AccountView, error)
	Withdraw(ctx context.Context, number, amount string) (domain.AccountView, error)
	Transfer(ctx context.Context, fromNumber, toNumber, amount string) (ledgerservice.TransferResult, error)
}

// Handler facilitates ledger delivery layer logic.
type Handler struct {
	service Service
}

// NewHandler returns ledger handler.
func NewHandler(ls Service) Handler {
	return Handler{service: ls}
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
	case errors.Is(err, domain.ErrAccountNotFound):
		return http.StatusNotFound
	case errors.Is(err, domain.ErrInvalidAmount), errors.Is(err, domain.ErrSameAccount):
		return http.StatusBadRequest
	case errors.Is(err, domain.ErrInsufficientFunds), errors.Is(err, domain.ErrCurrencyMismatch):
		return http.StatusUnprocessableEntity
	}

	return 0
}

type numberRequest struct {
	Number string `uri:"number" binding:"required"`
}

type amountRequest struct {
	Amount string `json:"amount" binding:"required"`
}

type data struct {
	Account domain.AccountView `json:"account"`
}

type response struct {
	Data data `json:"data,omitempty"`
}

// Deposit handles http request to deposit an amount to an account.
func (h *Handler) Deposit(gctx *gin.Context) {
	h.mutateBalance(gctx, h.service.Deposit)
}

// Withdraw handles http request to withdraw an amount from an account.
func (h *Handler) Withdraw(gctx *gin.Context) {
	h.mutateBalance(gctx, h.service.Withdraw)
}

func (h *Handler) mutateBalance(gctx *gin.Context, op func(ctx context.Context, number, amount string) (domain.AccountView, error)) {
	ctx := gctx.Request.Context()
	l := zerolog.Ctx(ctx)

	var uri numberRequest
	if err := gctx.ShouldBindUri(&uri); err != nil {
		l.Info().Err(err).Send()
		gctx.JSON(http.StatusBadRequest, web.Response{Error: web.JSONError{Error: bindingErrorMsg(err)}})

		return
	}

	var req amountRequest
	if err := gctx.ShouldBindJSON(&req); err != nil {
		l.Info().Err(err).Send()
		gctx.JSON(http.StatusBadRequest, web.Response{Error: web.JSONError{Error: bindingErrorMsg(err)}})

		return
	}

	account, err := op(ctx, uri.Number, req.Amount)
	if err != nil {
		if status := statusFromError(err); status != 0 {
			gctx.JSON(status, web.Error(err))
			return
		}

		gctx.JSON(http.StatusInternalServerError, web.Error(errorspkg.ErrInternal))

		return
	}

	gctx.JSON(http.StatusOK, response{Data: data{account}})
}

type transferRequest struct {
	FromAccountNumber string `json:"from_account_number" binding:"required"`
	ToAccountNumber   string `json:"to_account_number" binding:"required"`
	Amount            string `json:"amount" binding:"required"`
}

type dataTransfer struct {
	Transfer ledgerservice.TransferResult `json:"transfer"`
}

type responseTransfer struct {
	Data dataTransfer `json:"data,omitempty"`
}

// Transfer handles http request to move an amount between two accounts.
func (h *Handler) Transfer(gctx *gin.Context) {
	ctx := gctx.Request.Context()
	l := zerolog.Ctx(ctx)

	var req transferRequest
	if err := gctx.ShouldBindJSON(&req); err != nil {
		l.Info().Err(err).Send()
		gctx.JSON(http.StatusBadRequest, web.Response{Error: web.JSONError{Error: bindingErrorMsg(err)}})

		return
	}

	result, err := h.service.Transfer(ctx, req.FromAccountNumber, req.ToAccountNumber, req.Amount)
	if err != nil {
		if status := statusFromError(err); status != 0 {
			gctx.JSON(status, web.Error(err))
			return
		}

		gctx.JSON(http.StatusInternalServerError, web.Error(errorspkg.ErrInternal))

		return
	}

	gctx.JSON(http.StatusOK, responseTransfer{Data: dataTransfer{result}})
}
