package handler

import (
	"context"
	"net/http"

	customerapp "github.com/custreg/backend/internal/application/customer"
	"github.com/custreg/backend/internal/interfaces/http/dto"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// CustomerService is the registration API the customer handler calls
type CustomerService interface {
	ListAll(ctx context.Context) ([]customerapp.CustomerResponse, error)
	GetByID(ctx context.Context, id uuid.UUID) (*customerapp.CustomerResponse, error)
	SearchByName(ctx context.Context, substring string) ([]customerapp.CustomerResponse, error)
	SearchByPostalCode(ctx context.Context, postalCode string) ([]customerapp.CustomerResponse, error)
	Insert(ctx context.Context, req customerapp.CustomerRequest) (*customerapp.CustomerResponse, error)
	Update(ctx context.Context, id uuid.UUID, req customerapp.CustomerRequest) (*customerapp.CustomerResponse, bool, error)
	Delete(ctx context.Context, id uuid.UUID) error
}

var _ CustomerService = (*customerapp.Service)(nil)

// CustomerHandler handles customer-related API endpoints
type CustomerHandler struct {
	BaseHandler
	service CustomerService
}

// NewCustomerHandler creates a new CustomerHandler
func NewCustomerHandler(service CustomerService) *CustomerHandler {
	return &CustomerHandler{
		service: service,
	}
}

// CustomerListQuery selects which customers List returns.
// name takes precedence over postal_code; with neither, every customer is listed.
type CustomerListQuery struct {
	Name       string `form:"name" binding:"max=200"`
	PostalCode string `form:"postal_code" binding:"max=20"`
}

// List godoc
// @ID           listCustomers
// @Summary      List customers
// @Description  List every customer, or filter by a case-insensitive name substring or by postal code. name takes precedence over postal_code.
// @Tags         customers
// @Produce      json
// @Param        name query string false "Name substring" maxlength(200)
// @Param        postal_code query string false "Postal code, with or without hyphen" maxlength(20)
// @Success      200 {object} dto.Response{data=[]customerapp.CustomerResponse}
// @Failure      400 {object} dto.Response
// @Failure      500 {object} dto.Response
// @Router       /customers [get]
func (h *CustomerHandler) List(c *gin.Context) {
	var query CustomerListQuery
	if err := c.ShouldBindQuery(&query); err != nil {
		h.HandleBindError(c, err)
		return
	}

	var (
		customers []customerapp.CustomerResponse
		err       error
	)
	switch {
	case query.Name != "":
		customers, err = h.service.SearchByName(c.Request.Context(), query.Name)
	case query.PostalCode != "":
		customers, err = h.service.SearchByPostalCode(c.Request.Context(), query.PostalCode)
	default:
		customers, err = h.service.ListAll(c.Request.Context())
	}
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.NewListResponse(customers))
}

// GetByID godoc
// @ID           getCustomerById
// @Summary      Get customer by ID
// @Description  Retrieve a customer with its address, profile and contact
// @Tags         customers
// @Produce      json
// @Param        id path string true "Customer ID" format(uuid)
// @Success      200 {object} dto.Response{data=customerapp.CustomerResponse}
// @Failure      400 {object} dto.Response
// @Failure      404 {object} dto.Response
// @Failure      500 {object} dto.Response
// @Router       /customers/{id} [get]
func (h *CustomerHandler) GetByID(c *gin.Context) {
	id, ok := h.parseID(c)
	if !ok {
		return
	}

	customer, err := h.service.GetByID(c.Request.Context(), id)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}

	h.Success(c, customer)
}

// Create godoc
// @ID           createCustomer
// @Summary      Register a customer
// @Description  Register a new customer. The address is read from the store by postal code or, on a miss, fetched from the postal code service and stored.
// @Tags         customers
// @Accept       json
// @Produce      json
// @Param        request body customerapp.CustomerRequest true "Customer registration request"
// @Success      201 {object} dto.Response{data=customerapp.CustomerResponse}
// @Failure      400 {object} dto.Response
// @Failure      413 {object} dto.Response
// @Failure      422 {object} dto.Response
// @Failure      500 {object} dto.Response
// @Failure      502 {object} dto.Response
// @Router       /customers [post]
func (h *CustomerHandler) Create(c *gin.Context) {
	var req customerapp.CustomerRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.HandleBindError(c, err)
		return
	}

	customer, err := h.service.Insert(c.Request.Context(), req)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}

	h.Created(c, customer)
}

// Update godoc
// @ID           updateCustomer
// @Summary      Update a customer
// @Description  Overwrite an existing customer. An unknown id is not an error: nothing is stored and 204 is returned.
// @Tags         customers
// @Accept       json
// @Produce      json
// @Param        id path string true "Customer ID" format(uuid)
// @Param        request body customerapp.CustomerRequest true "Customer update request"
// @Success      200 {object} dto.Response{data=customerapp.CustomerResponse}
// @Success      204
// @Failure      400 {object} dto.Response
// @Failure      422 {object} dto.Response
// @Failure      500 {object} dto.Response
// @Failure      502 {object} dto.Response
// @Router       /customers/{id} [put]
func (h *CustomerHandler) Update(c *gin.Context) {
	id, ok := h.parseID(c)
	if !ok {
		return
	}

	var req customerapp.CustomerRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.HandleBindError(c, err)
		return
	}

	customer, updated, err := h.service.Update(c.Request.Context(), id, req)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}
	if !updated {
		h.NoContent(c)
		return
	}

	h.Success(c, customer)
}

// Delete godoc
// @ID           deleteCustomer
// @Summary      Delete a customer
// @Description  Delete a customer by ID. Its address, profile and contact remain stored.
// @Tags         customers
// @Produce      json
// @Param        id path string true "Customer ID" format(uuid)
// @Success      204
// @Failure      400 {object} dto.Response
// @Failure      404 {object} dto.Response
// @Failure      500 {object} dto.Response
// @Router       /customers/{id} [delete]
func (h *CustomerHandler) Delete(c *gin.Context) {
	id, ok := h.parseID(c)
	if !ok {
		return
	}

	if err := h.service.Delete(c.Request.Context(), id); err != nil {
		h.HandleDomainError(c, err)
		return
	}

	h.NoContent(c)
}

func (h *CustomerHandler) parseID(c *gin.Context) (uuid.UUID, bool) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		h.BadRequest(c, "Invalid customer ID")
		return uuid.Nil, false
	}
	return id, true
}
