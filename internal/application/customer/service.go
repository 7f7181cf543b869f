// Package customer implements customer registration: customers are saved
// together with their profile and contact, and their address is resolved by
// postal code from the local store or, on a miss, from the lookup service.
package customer

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/custreg/backend/internal/domain/customer"
	"github.com/custreg/backend/internal/domain/shared"
	"github.com/custreg/backend/internal/infrastructure/logger"
	"github.com/custreg/backend/internal/infrastructure/telemetry"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

const serviceName = "customer"

// Service handles customer registration business logic
type Service struct {
	customers customer.CustomerRepository
	addresses customer.AddressRepository
	profiles  customer.ProfileRepository
	contacts  customer.ContactRepository
	lookup    customer.AddressLookup
	logger    *zap.Logger
	metrics   *telemetry.RegistrationMetrics
}

// Option configures a Service
type Option func(*Service)

// WithLogger sets the fallback logger used when the context carries none
func WithLogger(l *zap.Logger) Option {
	return func(s *Service) {
		s.logger = l
	}
}

// WithMetrics sets the registration metrics
func WithMetrics(m *telemetry.RegistrationMetrics) Option {
	return func(s *Service) {
		s.metrics = m
	}
}

// NewService creates a new customer service
func NewService(
	customers customer.CustomerRepository,
	addresses customer.AddressRepository,
	profiles customer.ProfileRepository,
	contacts customer.ContactRepository,
	lookup customer.AddressLookup,
	opts ...Option,
) *Service {
	s := &Service{
		customers: customers,
		addresses: addresses,
		profiles:  profiles,
		contacts:  contacts,
		lookup:    lookup,
		logger:    zap.NewNop(),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// ListAll returns every customer
func (s *Service) ListAll(ctx context.Context) ([]CustomerResponse, error) {
	ctx, span := telemetry.StartServiceSpan(ctx, serviceName, "list_all")
	defer span.End()

	customers, err := s.customers.FindAll(ctx)
	if err != nil {
		telemetry.RecordError(span, err)
		return nil, fmt.Errorf("failed to list customers: %w", err)
	}

	telemetry.SetAttributes(span, telemetry.SpanAttrResultCount, len(customers))
	return ToCustomerResponses(customers), nil
}

// GetByID returns a customer by id
func (s *Service) GetByID(ctx context.Context, id uuid.UUID) (*CustomerResponse, error) {
	ctx, span := telemetry.StartServiceSpan(ctx, serviceName, "get_by_id")
	defer span.End()
	telemetry.SetAttributes(span, telemetry.SpanAttrCustomerID, id.String())

	c, err := s.customers.FindByID(ctx, id)
	if err != nil {
		telemetry.RecordError(span, err)
		return nil, err
	}

	resp := ToCustomerResponse(c)
	return &resp, nil
}

// SearchByName returns customers whose name contains substring, ignoring case
func (s *Service) SearchByName(ctx context.Context, substring string) ([]CustomerResponse, error) {
	ctx, span := telemetry.StartServiceSpan(ctx, serviceName, "search_by_name")
	defer span.End()
	telemetry.SetAttributes(span, telemetry.SpanAttrCustomerName, substring)

	customers, err := s.customers.FindByNameContaining(ctx, substring)
	if err != nil {
		telemetry.RecordError(span, err)
		return nil, fmt.Errorf("failed to search customers by name: %w", err)
	}

	telemetry.SetAttributes(span, telemetry.SpanAttrResultCount, len(customers))
	return ToCustomerResponses(customers), nil
}

// SearchByPostalCode returns customers whose address has the given postal code
func (s *Service) SearchByPostalCode(ctx context.Context, postalCode string) ([]CustomerResponse, error) {
	ctx, span := telemetry.StartServiceSpan(ctx, serviceName, "search_by_postal_code")
	defer span.End()

	code := customer.NormalizePostalCode(postalCode)
	telemetry.SetAttributes(span, telemetry.SpanAttrPostalCode, code)
	if code == "" {
		err := shared.NewDomainError("INVALID_POSTAL_CODE", "Postal code cannot be empty")
		telemetry.RecordError(span, err)
		return nil, err
	}

	customers, err := s.customers.FindByPostalCode(ctx, code)
	if err != nil {
		telemetry.RecordError(span, err)
		return nil, fmt.Errorf("failed to search customers by postal code: %w", err)
	}

	telemetry.SetAttributes(span, telemetry.SpanAttrResultCount, len(customers))
	return ToCustomerResponses(customers), nil
}

// Insert saves a customer with a new identity
func (s *Service) Insert(ctx context.Context, req CustomerRequest) (*CustomerResponse, error) {
	ctx, span := telemetry.StartServiceSpan(ctx, serviceName, "insert")
	defer span.End()

	c, err := req.ToDomain()
	if err != nil {
		telemetry.RecordError(span, err)
		return nil, err
	}
	telemetry.SetAttributes(span, telemetry.SpanAttrCustomerID, c.ID.String())

	if err := s.upsert(ctx, c); err != nil {
		telemetry.RecordError(span, err)
		return nil, err
	}
	s.metrics.RecordCustomerSaved(ctx, telemetry.OperationInsert)

	logger.For(ctx, s.logger).Info("Customer inserted",
		zap.String("customer_id", c.ID.String()),
		zap.String("postal_code", c.PostalCode()),
	)
	telemetry.AddEvent(span, "customer_inserted", telemetry.SpanAttrCustomerID, c.ID.String())

	resp := ToCustomerResponse(c)
	return &resp, nil
}

// Update overwrites the customer with the given id.
// When no such customer exists nothing is written and the returned bool is false.
func (s *Service) Update(ctx context.Context, id uuid.UUID, req CustomerRequest) (*CustomerResponse, bool, error) {
	ctx, span := telemetry.StartServiceSpan(ctx, serviceName, "update")
	defer span.End()
	telemetry.SetAttributes(span, telemetry.SpanAttrCustomerID, id.String())

	c, err := req.ToDomain()
	if err != nil {
		telemetry.RecordError(span, err)
		return nil, false, err
	}

	exists, err := s.customers.ExistsByID(ctx, id)
	if err != nil {
		telemetry.RecordError(span, err)
		return nil, false, fmt.Errorf("failed to check customer existence: %w", err)
	}
	if !exists {
		logger.For(ctx, s.logger).Debug("Customer not found, update skipped", zap.String("customer_id", id.String()))
		telemetry.AddEvent(span, "update_skipped")
		return nil, false, nil
	}

	c.AssignID(id)
	if err := s.upsert(ctx, c); err != nil {
		telemetry.RecordError(span, err)
		return nil, true, err
	}
	s.metrics.RecordCustomerSaved(ctx, telemetry.OperationUpdate)

	logger.For(ctx, s.logger).Info("Customer updated", zap.String("customer_id", id.String()))

	// created_at is never overwritten, so answer with the stored row
	stored, err := s.customers.FindByID(ctx, id)
	if err != nil {
		telemetry.RecordError(span, err)
		return nil, true, fmt.Errorf("failed to reload updated customer: %w", err)
	}

	resp := ToCustomerResponse(stored)
	return &resp, true, nil
}

// Delete removes a customer. Its address, profile and contact are kept.
func (s *Service) Delete(ctx context.Context, id uuid.UUID) error {
	ctx, span := telemetry.StartServiceSpan(ctx, serviceName, "delete")
	defer span.End()
	telemetry.SetAttributes(span, telemetry.SpanAttrCustomerID, id.String())

	if err := s.customers.Delete(ctx, id); err != nil {
		telemetry.RecordError(span, err)
		return err
	}

	logger.For(ctx, s.logger).Info("Customer deleted", zap.String("customer_id", id.String()))
	return nil
}

// upsert resolves the address, saves profile and contact, then saves the customer.
// Each step's failure is returned as is; earlier writes are not undone.
func (s *Service) upsert(ctx context.Context, c *customer.Customer) error {
	address, err := s.resolveAddress(ctx, c.PostalCode())
	if err != nil {
		return err
	}
	c.BindAddress(address)

	profile, err := s.saveProfile(ctx, c.Profile)
	if err != nil {
		return err
	}
	c.BindProfile(profile)

	contact, err := s.saveContact(ctx, c.Contact)
	if err != nil {
		return err
	}
	c.BindContact(contact)

	if err := s.customers.Save(ctx, c); err != nil {
		return fmt.Errorf("failed to save customer: %w", err)
	}
	return nil
}

// resolveAddress returns the stored address for postalCode, fetching and
// storing it first when the store has none
func (s *Service) resolveAddress(ctx context.Context, postalCode string) (*customer.Address, error) {
	address, err := s.addresses.FindByPostalCode(ctx, postalCode)
	if err == nil {
		s.metrics.RecordAddressResolved(ctx, telemetry.AddressSourceStore)
		return address, nil
	}
	if !errors.Is(err, shared.ErrNotFound) {
		return nil, fmt.Errorf("failed to find address: %w", err)
	}

	start := time.Now()
	address, err = s.lookup.Lookup(ctx, postalCode)
	s.metrics.RecordLookup(ctx, time.Since(start), err)
	if err != nil {
		return nil, err
	}

	// Stored under the requested code so the next read hits
	address.PostalCode = postalCode
	if err := s.addresses.Save(ctx, address); err != nil {
		return nil, fmt.Errorf("failed to save address: %w", err)
	}
	s.metrics.RecordAddressResolved(ctx, telemetry.AddressSourceLookup)

	logger.For(ctx, s.logger).Info("Address resolved from lookup service",
		zap.String("postal_code", postalCode),
		zap.String("city", address.City),
	)
	return address, nil
}

func (s *Service) saveProfile(ctx context.Context, profile *customer.Profile) (*customer.Profile, error) {
	if err := s.profiles.Save(ctx, profile); err != nil {
		return nil, fmt.Errorf("failed to save profile: %w", err)
	}
	stored, err := s.profiles.FindByName(ctx, profile.Name)
	if errors.Is(err, shared.ErrNotFound) {
		return nil, fmt.Errorf("%w: %s", customer.ErrProfileMissing, profile.Name)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to reload profile: %w", err)
	}
	return stored, nil
}

func (s *Service) saveContact(ctx context.Context, contact *customer.Contact) (*customer.Contact, error) {
	if err := s.contacts.Save(ctx, contact); err != nil {
		return nil, fmt.Errorf("failed to save contact: %w", err)
	}
	stored, err := s.contacts.FindByID(ctx, contact.ID)
	if errors.Is(err, shared.ErrNotFound) {
		return nil, fmt.Errorf("%w: %s", customer.ErrContactMissing, contact.ID)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to reload contact: %w", err)
	}
	return stored, nil
}
