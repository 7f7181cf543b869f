package customer

import (
	"time"

	"github.com/custreg/backend/internal/domain/customer"
	"github.com/google/uuid"
)

// =============================================================================
// Request DTOs
// =============================================================================

// CustomerRequest is the payload for inserting or updating a customer
type CustomerRequest struct {
	Name       string         `json:"name" binding:"required,min=1,max=200" example:"Ana Souza"`
	PostalCode string         `json:"postal_code" binding:"required,min=1,max=20" example:"01001-000"`
	Profile    ProfileRequest `json:"profile"`
	Contact    ContactRequest `json:"contact"`
}

// ProfileRequest names the profile the customer belongs to.
// Saving a customer overwrites the description of an existing profile with the same name.
type ProfileRequest struct {
	Name        string `json:"name" binding:"required,min=1,max=100" example:"standard"`
	Description string `json:"description" binding:"max=500" example:"Standard customer"`
}

// ContactRequest carries the customer's phone contact.
// ID is optional; when set, the contact with that id is overwritten.
type ContactRequest struct {
	ID          *uuid.UUID `json:"id" example:"3f1b6c2e-8d4a-4c1e-9a55-2b7d0e6f4a10"`
	PhoneNumber string     `json:"phone_number" binding:"required,min=1,max=50" example:"+55 11 99999-0000"`
	PhoneType   string     `json:"phone_type" binding:"omitempty,oneof=mobile landline work other" example:"mobile" enums:"mobile,landline,work,other"`
}

// ToDomain builds an unsaved customer from the request
func (r CustomerRequest) ToDomain() (*customer.Customer, error) {
	profile, err := customer.NewProfile(r.Profile.Name, r.Profile.Description)
	if err != nil {
		return nil, err
	}
	contact, err := customer.NewContact(r.Contact.PhoneNumber, customer.PhoneType(r.Contact.PhoneType))
	if err != nil {
		return nil, err
	}
	if r.Contact.ID != nil {
		contact.ID = *r.Contact.ID
	}
	return customer.NewCustomer(r.Name, r.PostalCode, profile, contact)
}

// =============================================================================
// Response DTOs
// =============================================================================

// CustomerResponse represents a customer in API responses
type CustomerResponse struct {
	ID        uuid.UUID       `json:"id" example:"8a6e0804-2bd0-4672-b79d-d97027f9071a"`
	Name      string          `json:"name" example:"Ana Souza"`
	Address   AddressResponse `json:"address"`
	Profile   ProfileResponse `json:"profile"`
	Contact   ContactResponse `json:"contact"`
	CreatedAt time.Time       `json:"created_at" example:"2026-10-16T12:00:00Z"`
	UpdatedAt time.Time       `json:"updated_at" example:"2026-10-16T12:00:00Z"`
}

// AddressResponse represents a resolved address
type AddressResponse struct {
	PostalCode string `json:"postal_code" example:"01001000"`
	Street     string `json:"street" example:"Praça da Sé"`
	Complement string `json:"complement" example:"lado ímpar"`
	District   string `json:"district" example:"Sé"`
	City       string `json:"city" example:"São Paulo"`
	State      string `json:"state" example:"SP"`
	IBGECode   string `json:"ibge_code" example:"3550308"`
	GIACode    string `json:"gia_code" example:"1004"`
	AreaCode   string `json:"area_code" example:"11"`
	SIAFICode  string `json:"siafi_code" example:"7107"`
}

// ProfileResponse represents a customer profile
type ProfileResponse struct {
	Name        string `json:"name" example:"standard"`
	Description string `json:"description" example:"Standard customer"`
}

// ContactResponse represents a customer contact
type ContactResponse struct {
	ID          uuid.UUID `json:"id" example:"3f1b6c2e-8d4a-4c1e-9a55-2b7d0e6f4a10"`
	PhoneNumber string    `json:"phone_number" example:"+55 11 99999-0000"`
	PhoneType   string    `json:"phone_type" example:"mobile"`
}

// ToCustomerResponse converts a domain customer to a response DTO
func ToCustomerResponse(c *customer.Customer) CustomerResponse {
	resp := CustomerResponse{
		ID:        c.ID,
		Name:      c.Name,
		CreatedAt: c.CreatedAt,
		UpdatedAt: c.UpdatedAt,
	}
	if c.Address != nil {
		resp.Address = AddressResponse{
			PostalCode: c.Address.PostalCode,
			Street:     c.Address.Street,
			Complement: c.Address.Complement,
			District:   c.Address.District,
			City:       c.Address.City,
			State:      c.Address.State,
			IBGECode:   c.Address.IBGECode,
			GIACode:    c.Address.GIACode,
			AreaCode:   c.Address.AreaCode,
			SIAFICode:  c.Address.SIAFICode,
		}
	}
	if c.Profile != nil {
		resp.Profile = ProfileResponse{
			Name:        c.Profile.Name,
			Description: c.Profile.Description,
		}
	}
	if c.Contact != nil {
		resp.Contact = ContactResponse{
			ID:          c.Contact.ID,
			PhoneNumber: c.Contact.PhoneNumber,
			PhoneType:   string(c.Contact.PhoneType),
		}
	}
	return resp
}

// ToCustomerResponses converts a slice of domain customers to response DTOs
func ToCustomerResponses(customers []customer.Customer) []CustomerResponse {
	responses := make([]CustomerResponse, len(customers))
	for i := range customers {
		responses[i] = ToCustomerResponse(&customers[i])
	}
	return responses
}
