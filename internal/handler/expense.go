package handler

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"math"
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"
	"github.com/shopspring/decimal"

	"github.com/deppfellow/personal-dashboard/internal/errs"
	"github.com/deppfellow/personal-dashboard/internal/middleware"
	"github.com/deppfellow/personal-dashboard/internal/model"
	"github.com/deppfellow/personal-dashboard/internal/server"
	"github.com/deppfellow/personal-dashboard/internal/service"
	"github.com/deppfellow/personal-dashboard/internal/validation"
)

// Header sets of the expense endpoint. Reads and rejected methods
// advertise every method; writes advertise the three the endpoint serves.
var (
	expenseReadCORS = middleware.CORSPolicy{
		AllowOrigin:  "*",
		AllowHeaders: middleware.AllowHeadersGateway,
		AllowMethods: "OPTIONS,GET,POST,DELETE,PATCH",
	}
	expenseWriteCORS = middleware.CORSPolicy{
		AllowOrigin:  "*",
		AllowHeaders: middleware.AllowHeadersGateway,
		AllowMethods: "GET, POST, DELETE",
	}
)

const (
	msgBodyMissing      = "Invalid request: Body is missing."
	msgInvalidJSON      = "Invalid JSON format."
	msgMissingID        = "Missing expenseId path parameter."
	msgInvalidID        = "Invalid expenseId. It must be a number."
	msgMissingCategory  = "Category path parameter is missing."
	msgCreateFailed     = "Internal Server Error"
	msgFetchFailed      = "Error fetching expenses"
	msgDeleteFailed     = "Error deleting expense"
	msgUpdateFailed     = "Error updating expense"
	paramExpenseID      = "expenseId"
	paramCategory       = "category"
	queryCategory       = "category"
	expenseWriteSuccess = "Expense with ID %s %s successfully!"
)

// ExpenseHandler serves the expense endpoint. One route takes every
// method and dispatches on it.
type ExpenseHandler struct {
	Handler
	expenses *service.ExpenseService

	legacy bool

	create, list, remove, update, byCategory echo.HandlerFunc
}

func NewExpenseHandler(s *server.Server, expenses *service.ExpenseService) *ExpenseHandler {
	h := &ExpenseHandler{
		Handler:  NewHandler(s),
		expenses: expenses,
		legacy:   s.Config.Expense.LegacyRoutes,
	}

	h.create = Handle(h.Handler, expenseWriteCORS, bindCreateExpense, h.Create, http.StatusCreated)
	h.list = Handle(h.Handler, expenseReadCORS, bindListExpenses, h.List, http.StatusOK)
	h.remove = Handle(h.Handler, expenseWriteCORS, bindExpenseID, h.Delete, http.StatusOK)
	h.update = Handle(h.Handler, expenseWriteCORS, bindUpdateExpense, h.Update, http.StatusOK)
	h.byCategory = Handle(h.Handler, expenseReadCORS, bindCategory, h.ListByCategory, http.StatusOK)

	return h
}

// Dispatch routes a request by method. PATCH is only served when legacy
// routes are enabled; everything else unsupported answers 405.
func (h *ExpenseHandler) Dispatch(c echo.Context) error {
	switch c.Request().Method {
	case http.MethodPost:
		return h.create(c)
	case http.MethodGet:
		return h.list(c)
	case http.MethodDelete:
		return h.remove(c)
	case http.MethodPatch:
		if h.legacy {
			return h.update(c)
		}
	}

	expenseReadCORS.Apply(c)
	return errs.NewMethodNotAllowedError(errs.FormatMessage)
}

// ByCategory serves the legacy category-index read.
func (h *ExpenseHandler) ByCategory(c echo.Context) error {
	return h.byCategory(c)
}

func (h *ExpenseHandler) Create(c echo.Context, req *model.CreateExpenseRequest) (*model.MessageResponse, error) {
	if _, err := h.expenses.Create(c.Request().Context(), req); err != nil {
		return nil, errs.NewInternalServerError(msgCreateFailed, errs.FormatMessage, err)
	}

	return &model.MessageResponse{Message: "Expense added successfully!"}, nil
}

func (h *ExpenseHandler) List(c echo.Context, req *model.ListExpensesRequest) (*model.ExpensesResponse, error) {
	expenses, err := h.expenses.List(c.Request().Context(), req.Category)
	if err != nil {
		return nil, errs.NewInternalServerError(msgFetchFailed, errs.FormatMessage, err)
	}

	return &model.ExpensesResponse{Expenses: views(expenses)}, nil
}

func (h *ExpenseHandler) Delete(c echo.Context, req *model.ExpenseIDRequest) (*model.MessageResponse, error) {
	if err := h.expenses.Delete(c.Request().Context(), req.ExpenseID); err != nil {
		return nil, errs.NewInternalServerError(msgDeleteFailed, errs.FormatMessage, err)
	}

	return &model.MessageResponse{Message: fmt.Sprintf(expenseWriteSuccess, req.Raw, "deleted")}, nil
}

func (h *ExpenseHandler) Update(c echo.Context, req *model.UpdateExpenseRequest) (*model.MessageResponse, error) {
	if err := h.expenses.Update(c.Request().Context(), req.ExpenseID, req.Update); err != nil {
		return nil, errs.NewInternalServerError(msgUpdateFailed, errs.FormatMessage, err)
	}

	return &model.MessageResponse{Message: fmt.Sprintf(expenseWriteSuccess, req.Raw, "updated")}, nil
}

// ListByCategory answers with a bare array rather than an object.
func (h *ExpenseHandler) ListByCategory(c echo.Context, req *model.CategoryRequest) ([]model.ExpenseView, error) {
	expenses, err := h.expenses.ListByCategory(c.Request().Context(), req.Category)
	if err != nil {
		return nil, errs.NewInternalServerError(msgFetchFailed, errs.FormatMessage, err)
	}

	return views(expenses), nil
}

func views(expenses []model.Expense) []model.ExpenseView {
	out := make([]model.ExpenseView, 0, len(expenses))
	for i := range expenses {
		out = append(out, expenses[i].View())
	}
	return out
}

// --- binders ----------------------------------------------------------------

func badRequest(message string) error {
	return errs.NewBadRequestError(message, errs.FormatMessage)
}

func readBody(c echo.Context) ([]byte, error) {
	if c.Request().Body == nil {
		return nil, nil
	}
	return io.ReadAll(c.Request().Body)
}

// bindCreateExpense checks presence of every field first, then types, each
// in declaration order, and reports only the first problem.
func bindCreateExpense(c echo.Context) (*model.CreateExpenseRequest, error) {
	body, err := readBody(c)
	if err != nil {
		return nil, badRequest(msgBodyMissing)
	}

	obj, err := validation.DecodeObject(body)
	switch {
	case errors.Is(err, validation.ErrEmptyBody):
		return nil, badRequest(msgBodyMissing)
	case err != nil:
		return nil, badRequest(msgInvalidJSON)
	}

	if field, missing := validation.FirstMissing(obj,
		model.FieldDescription, model.FieldAmount, model.FieldCategory, model.FieldDate,
	); missing {
		return nil, badRequest(fmt.Sprintf("Validation Error: Missing field %q.", field))
	}

	req := &model.CreateExpenseRequest{}

	description, ok := obj[model.FieldDescription].(string)
	if !ok || description == "" {
		return nil, badRequest(`Validation Error: "description" must be a non-empty string.`)
	}
	req.Description = description

	// json.Number keeps the literal text, so the decimal is exact.
	number, ok := obj[model.FieldAmount].(json.Number)
	if !ok {
		return nil, badRequest(`Validation Error: "amount" must be a number.`)
	}
	if req.Amount, err = decimal.NewFromString(number.String()); err != nil {
		return nil, badRequest(`Validation Error: "amount" must be a number.`)
	}
	// Amounts are served as JSON numbers, so they must fit a float64.
	if math.IsInf(req.Amount.InexactFloat64(), 0) {
		return nil, badRequest(`Validation Error: "amount" must be a number.`)
	}

	if req.Category, ok = obj[model.FieldCategory].(string); !ok {
		return nil, badRequest(`Validation Error: "category" must be a string.`)
	}
	if req.Date, ok = obj[model.FieldDate].(string); !ok {
		return nil, badRequest(`Validation Error: "date" must be a string.`)
	}

	return req, nil
}

// bindListExpenses treats a present but empty category as a filter.
func bindListExpenses(c echo.Context) (*model.ListExpensesRequest, error) {
	req := &model.ListExpensesRequest{}

	if values, ok := c.QueryParams()[queryCategory]; ok {
		category := ""
		if len(values) > 0 {
			category = values[0]
		}
		req.Category = &category
	}

	return req, nil
}

func bindExpenseID(c echo.Context) (*model.ExpenseIDRequest, error) {
	raw := strings.TrimSpace(c.Param(paramExpenseID))
	if raw == "" {
		return nil, badRequest(msgMissingID)
	}

	id, err := decimal.NewFromString(raw)
	if err != nil {
		return nil, badRequest(msgInvalidID)
	}

	return &model.ExpenseIDRequest{ExpenseID: id, Raw: raw}, nil
}

// bindUpdateExpense collects the updatable fields present in the body. A
// body that cannot be read as an object fails the update like a store error.
func bindUpdateExpense(c echo.Context) (*model.UpdateExpenseRequest, error) {
	idReq, err := bindExpenseID(c)
	if err != nil {
		return nil, err
	}

	body, err := readBody(c)
	if err != nil {
		return nil, errs.NewInternalServerError(msgUpdateFailed, errs.FormatMessage, err)
	}

	obj, err := validation.DecodeObject(body)
	if err != nil {
		return nil, errs.NewInternalServerError(msgUpdateFailed, errs.FormatMessage, err)
	}

	update := model.ExpenseUpdate{}
	for _, field := range model.UpdatableFields {
		v, ok := obj[field]
		if !ok {
			continue
		}

		if field == model.FieldAmount {
			d, err := decimal.NewFromString(fmt.Sprint(v))
			if err != nil {
				return nil, errs.NewInternalServerError(msgUpdateFailed, errs.FormatMessage, err)
			}
			v = d
		}
		update[field] = v
	}

	return &model.UpdateExpenseRequest{ExpenseIDRequest: *idReq, Update: update}, nil
}

func bindCategory(c echo.Context) (*model.CategoryRequest, error) {
	category := c.Param(paramCategory)
	if category == "" {
		return nil, badRequest(msgMissingCategory)
	}

	return &model.CategoryRequest{Category: category}, nil
}
