package models

import (
	"github.com/custreg/backend/internal/domain/customer"
	"github.com/google/uuid"
	"golang.org/x/text/cases"
)

// AddressModel is the persistence model for the Address domain entity.
// The postal code is the primary key.
type AddressModel struct {
	TimestampsModel
	PostalCode string `gorm:"type:varchar(20);primaryKey"`
	Street     string `gorm:"type:varchar(200)"`
	Complement string `gorm:"type:varchar(200)"`
	District   string `gorm:"type:varchar(100)"`
	City       string `gorm:"type:varchar(100)"`
	State      string `gorm:"type:varchar(2)"`
	IBGECode   string `gorm:"column:ibge_code;type:varchar(10)"`
	GIACode    string `gorm:"column:gia_code;type:varchar(10)"`
	AreaCode   string `gorm:"type:varchar(5)"`
	SIAFICode  string `gorm:"column:siafi_code;type:varchar(10)"`
}

// TableName returns the table name for GORM
func (AddressModel) TableName() string {
	return "addresses"
}

// ToDomain converts the persistence model to a domain Address
func (m *AddressModel) ToDomain() *customer.Address {
	return &customer.Address{
		Timestamps: m.TimestampsModel.ToDomain(),
		PostalCode: m.PostalCode,
		Street:     m.Street,
		Complement: m.Complement,
		District:   m.District,
		City:       m.City,
		State:      m.State,
		IBGECode:   m.IBGECode,
		GIACode:    m.GIACode,
		AreaCode:   m.AreaCode,
		SIAFICode:  m.SIAFICode,
	}
}

// FromDomain populates the persistence model from a domain Address
func (m *AddressModel) FromDomain(a *customer.Address) {
	m.FromDomainTimestamps(a.Timestamps)
	m.PostalCode = a.PostalCode
	m.Street = a.Street
	m.Complement = a.Complement
	m.District = a.District
	m.City = a.City
	m.State = a.State
	m.IBGECode = a.IBGECode
	m.GIACode = a.GIACode
	m.AreaCode = a.AreaCode
	m.SIAFICode = a.SIAFICode
}

// AddressModelFromDomain creates a new persistence model from a domain Address
func AddressModelFromDomain(a *customer.Address) *AddressModel {
	m := &AddressModel{}
	m.FromDomain(a)
	return m
}

// ProfileModel is the persistence model for the Profile domain entity.
// The profile name is the primary key.
type ProfileModel struct {
	TimestampsModel
	Name        string `gorm:"type:varchar(100);primaryKey"`
	Description string `gorm:"type:varchar(500)"`
}

// TableName returns the table name for GORM
func (ProfileModel) TableName() string {
	return "customer_profiles"
}

// ToDomain converts the persistence model to a domain Profile
func (m *ProfileModel) ToDomain() *customer.Profile {
	return &customer.Profile{
		Timestamps:  m.TimestampsModel.ToDomain(),
		Name:        m.Name,
		Description: m.Description,
	}
}

// FromDomain populates the persistence model from a domain Profile
func (m *ProfileModel) FromDomain(p *customer.Profile) {
	m.FromDomainTimestamps(p.Timestamps)
	m.Name = p.Name
	m.Description = p.Description
}

// ProfileModelFromDomain creates a new persistence model from a domain Profile
func ProfileModelFromDomain(p *customer.Profile) *ProfileModel {
	m := &ProfileModel{}
	m.FromDomain(p)
	return m
}

// ContactModel is the persistence model for the Contact domain entity.
type ContactModel struct {
	BaseModel
	PhoneNumber string             `gorm:"type:varchar(50);not null"`
	PhoneType   customer.PhoneType `gorm:"type:varchar(20);not null"`
}

// TableName returns the table name for GORM
func (ContactModel) TableName() string {
	return "contacts"
}

// ToDomain converts the persistence model to a domain Contact
func (m *ContactModel) ToDomain() *customer.Contact {
	return &customer.Contact{
		ID:          m.ID,
		PhoneNumber: m.PhoneNumber,
		PhoneType:   m.PhoneType,
		CreatedAt:   m.CreatedAt,
		UpdatedAt:   m.UpdatedAt,
	}
}

// FromDomain populates the persistence model from a domain Contact
func (m *ContactModel) FromDomain(c *customer.Contact) {
	m.ID = c.ID
	m.CreatedAt = c.CreatedAt
	m.UpdatedAt = c.UpdatedAt
	m.PhoneNumber = c.PhoneNumber
	m.PhoneType = c.PhoneType
}

// ContactModelFromDomain creates a new persistence model from a domain Contact
func ContactModelFromDomain(c *customer.Contact) *ContactModel {
	m := &ContactModel{}
	m.FromDomain(c)
	return m
}

// CustomerModel is the persistence model for the Customer domain entity.
// Address and Profile are referenced by natural key and Contact by id;
// the associations are loaded with Preload and never written through a customer.
type CustomerModel struct {
	BaseModel
	Name              string        `gorm:"type:varchar(200);not null"`
	SearchName        string        `gorm:"type:varchar(200);not null"` // case-folded Name
	AddressPostalCode string        `gorm:"type:varchar(20);not null"`
	ProfileName       string        `gorm:"type:varchar(100);not null"`
	ContactID         uuid.UUID     `gorm:"type:uuid;not null"`
	Address           *AddressModel `gorm:"foreignKey:AddressPostalCode;references:PostalCode"`
	Profile           *ProfileModel `gorm:"foreignKey:ProfileName;references:Name"`
	Contact           *ContactModel `gorm:"foreignKey:ContactID;references:ID"`
}

// TableName returns the table name for GORM
func (CustomerModel) TableName() string {
	return "customers"
}

// ToDomain converts the persistence model to a domain Customer.
// Associations are converted only when they were loaded.
func (m *CustomerModel) ToDomain() *customer.Customer {
	c := &customer.Customer{
		BaseEntity: m.BaseModel.ToDomain(),
		Name:       m.Name,
		Address:    &customer.Address{PostalCode: m.AddressPostalCode},
		Profile:    &customer.Profile{Name: m.ProfileName},
		Contact:    &customer.Contact{ID: m.ContactID},
	}
	if m.Address != nil {
		c.Address = m.Address.ToDomain()
	}
	if m.Profile != nil {
		c.Profile = m.Profile.ToDomain()
	}
	if m.Contact != nil {
		c.Contact = m.Contact.ToDomain()
	}
	return c
}

// FromDomain populates the persistence model from a domain Customer.
// Only the keys of the associations are copied.
func (m *CustomerModel) FromDomain(c *customer.Customer) {
	m.FromDomainBaseEntity(c.BaseEntity)
	m.Name = c.Name
	m.SearchName = FoldName(c.Name)
	if c.Address != nil {
		m.AddressPostalCode = c.Address.PostalCode
	}
	if c.Profile != nil {
		m.ProfileName = c.Profile.Name
	}
	if c.Contact != nil {
		m.ContactID = c.Contact.ID
	}
}

// CustomerModelFromDomain creates a new persistence model from a domain Customer
func CustomerModelFromDomain(c *customer.Customer) *CustomerModel {
	m := &CustomerModel{}
	m.FromDomain(c)
	return m
}

// FoldName returns the Unicode case-folded form used for case-insensitive name search
func FoldName(name string) string {
	// A Caser is stateful, so each call gets its own
	return cases.Fold().String(name)
}

// AllModels returns every model managed by this package, in dependency order
func AllModels() []any {
	return []any{
		&AddressModel{},
		&ProfileModel{},
		&ContactModel{},
		&CustomerModel{},
	}
}
