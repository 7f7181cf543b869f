package customer

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/custreg/backend/internal/domain/customer"
	"github.com/custreg/backend/internal/domain/shared"
	"github.com/custreg/backend/internal/infrastructure/telemetry"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	sdkmetric "go.opentelemetry.io/otel/sdk/metric"
	"go.opentelemetry.io/otel/sdk/metric/metricdata"
	"go.uber.org/zap/zaptest"
)

// =============================================================================
// Mock Repositories
// =============================================================================

type MockCustomerRepository struct {
	mock.Mock
}

func (m *MockCustomerRepository) FindAll(ctx context.Context) ([]customer.Customer, error) {
	args := m.Called(ctx)
	return args.Get(0).([]customer.Customer), args.Error(1)
}

func (m *MockCustomerRepository) Save(ctx context.Context, c *customer.Customer) error {
	args := m.Called(ctx, c)
	return args.Error(0)
}

func (m *MockCustomerRepository) Delete(ctx context.Context, id uuid.UUID) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func (m *MockCustomerRepository) FindByID(ctx context.Context, id uuid.UUID) (*customer.Customer, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*customer.Customer), args.Error(1)
}

func (m *MockCustomerRepository) FindByNameContaining(ctx context.Context, substring string) ([]customer.Customer, error) {
	args := m.Called(ctx, substring)
	return args.Get(0).([]customer.Customer), args.Error(1)
}

func (m *MockCustomerRepository) FindByPostalCode(ctx context.Context, postalCode string) ([]customer.Customer, error) {
	args := m.Called(ctx, postalCode)
	return args.Get(0).([]customer.Customer), args.Error(1)
}

func (m *MockCustomerRepository) ExistsByID(ctx context.Context, id uuid.UUID) (bool, error) {
	args := m.Called(ctx, id)
	return args.Bool(0), args.Error(1)
}

type MockAddressRepository struct {
	mock.Mock
}

func (m *MockAddressRepository) FindAll(ctx context.Context) ([]customer.Address, error) {
	args := m.Called(ctx)
	return args.Get(0).([]customer.Address), args.Error(1)
}

func (m *MockAddressRepository) Save(ctx context.Context, a *customer.Address) error {
	args := m.Called(ctx, a)
	return args.Error(0)
}

func (m *MockAddressRepository) Delete(ctx context.Context, postalCode string) error {
	args := m.Called(ctx, postalCode)
	return args.Error(0)
}

func (m *MockAddressRepository) FindByPostalCode(ctx context.Context, postalCode string) (*customer.Address, error) {
	args := m.Called(ctx, postalCode)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*customer.Address), args.Error(1)
}

type MockProfileRepository struct {
	mock.Mock
}

func (m *MockProfileRepository) FindAll(ctx context.Context) ([]customer.Profile, error) {
	args := m.Called(ctx)
	return args.Get(0).([]customer.Profile), args.Error(1)
}

func (m *MockProfileRepository) Save(ctx context.Context, p *customer.Profile) error {
	args := m.Called(ctx, p)
	return args.Error(0)
}

func (m *MockProfileRepository) Delete(ctx context.Context, name string) error {
	args := m.Called(ctx, name)
	return args.Error(0)
}

func (m *MockProfileRepository) FindByName(ctx context.Context, name string) (*customer.Profile, error) {
	args := m.Called(ctx, name)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*customer.Profile), args.Error(1)
}

type MockContactRepository struct {
	mock.Mock
}

func (m *MockContactRepository) FindAll(ctx context.Context) ([]customer.Contact, error) {
	args := m.Called(ctx)
	return args.Get(0).([]customer.Contact), args.Error(1)
}

func (m *MockContactRepository) Save(ctx context.Context, c *customer.Contact) error {
	args := m.Called(ctx, c)
	return args.Error(0)
}

func (m *MockContactRepository) Delete(ctx context.Context, id uuid.UUID) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func (m *MockContactRepository) FindByID(ctx context.Context, id uuid.UUID) (*customer.Contact, error) {
	args := m.Called(ctx, id)
	if fn, ok := args.Get(0).(func(uuid.UUID) *customer.Contact); ok {
		return fn(id), args.Error(1)
	}
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*customer.Contact), args.Error(1)
}

type MockAddressLookup struct {
	mock.Mock
}

func (m *MockAddressLookup) Lookup(ctx context.Context, postalCode string) (*customer.Address, error) {
	args := m.Called(ctx, postalCode)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*customer.Address), args.Error(1)
}

// =============================================================================
// Fixtures
// =============================================================================

type serviceMocks struct {
	customers *MockCustomerRepository
	addresses *MockAddressRepository
	profiles  *MockProfileRepository
	contacts  *MockContactRepository
	lookup    *MockAddressLookup
}

func (m *serviceMocks) assertExpectations(t *testing.T) {
	m.customers.AssertExpectations(t)
	m.addresses.AssertExpectations(t)
	m.profiles.AssertExpectations(t)
	m.contacts.AssertExpectations(t)
	m.lookup.AssertExpectations(t)
}

func newTestService(t *testing.T, opts ...Option) (*Service, *serviceMocks) {
	t.Helper()
	m := &serviceMocks{
		customers: new(MockCustomerRepository),
		addresses: new(MockAddressRepository),
		profiles:  new(MockProfileRepository),
		contacts:  new(MockContactRepository),
		lookup:    new(MockAddressLookup),
	}
	opts = append([]Option{WithLogger(zaptest.NewLogger(t))}, opts...)
	return NewService(m.customers, m.addresses, m.profiles, m.contacts, m.lookup, opts...), m
}

func anaRequest() CustomerRequest {
	return CustomerRequest{
		Name:       "Ana",
		PostalCode: "01001000",
		Profile:    ProfileRequest{Name: "standard", Description: "Standard customer"},
		Contact:    ContactRequest{PhoneNumber: "+55 11 99999-0000", PhoneType: "mobile"},
	}
}

func seAddress() *customer.Address {
	return &customer.Address{
		PostalCode: "01001000",
		Street:     "Praça da Sé",
		District:   "Sé",
		City:       "São Paulo",
		State:      "SP",
	}
}

// expectProfileAndContact sets up the save-then-reload calls for profile and contact.
// The contact save assigns an id the way the store does.
func expectProfileAndContact(m *serviceMocks) {
	m.profiles.On("Save", mock.Anything, mock.AnythingOfType("*customer.Profile")).Return(nil)
	m.profiles.On("FindByName", mock.Anything, "standard").
		Return(&customer.Profile{Name: "standard", Description: "Standard customer"}, nil)

	var saved *customer.Contact
	m.contacts.On("Save", mock.Anything, mock.AnythingOfType("*customer.Contact")).
		Run(func(args mock.Arguments) {
			saved = args.Get(1).(*customer.Contact)
			saved.EnsureID()
		}).
		Return(nil)
	m.contacts.On("FindByID", mock.Anything, mock.AnythingOfType("uuid.UUID")).
		Return(func(id uuid.UUID) *customer.Contact {
			c := *saved
			c.ID = id
			return &c
		}, nil)
}

// =============================================================================
// Insert
// =============================================================================

func TestService_Insert_NewPostalCodeLooksUpOnce(t *testing.T) {
	svc, m := newTestService(t)
	ctx := context.Background()

	m.addresses.On("FindByPostalCode", mock.Anything, "01001000").Return(nil, shared.ErrNotFound).Once()
	m.lookup.On("Lookup", mock.Anything, "01001000").Return(seAddress(), nil).Once()
	m.addresses.On("Save", mock.Anything, mock.AnythingOfType("*customer.Address")).Return(nil).Once()
	expectProfileAndContact(m)
	m.customers.On("Save", mock.Anything, mock.AnythingOfType("*customer.Customer")).Return(nil)

	result, err := svc.Insert(ctx, anaRequest())

	require.NoError(t, err)
	assert.NotEqual(t, uuid.Nil, result.ID)
	assert.Equal(t, "Ana", result.Name)
	assert.Equal(t, "01001000", result.Address.PostalCode)
	assert.Equal(t, "São Paulo", result.Address.City)
	assert.Equal(t, "standard", result.Profile.Name)
	assert.NotEqual(t, uuid.Nil, result.Contact.ID)
	m.lookup.AssertNumberOfCalls(t, "Lookup", 1)
	m.assertExpectations(t)
}

func TestService_Insert_KnownPostalCodeSkipsLookup(t *testing.T) {
	svc, m := newTestService(t)
	ctx := context.Background()

	m.addresses.On("FindByPostalCode", mock.Anything, "01001000").Return(seAddress(), nil)
	expectProfileAndContact(m)
	m.customers.On("Save", mock.Anything, mock.AnythingOfType("*customer.Customer")).Return(nil)

	result, err := svc.Insert(ctx, anaRequest())

	require.NoError(t, err)
	assert.Equal(t, "Praça da Sé", result.Address.Street)
	m.lookup.AssertNotCalled(t, "Lookup", mock.Anything, mock.Anything)
	m.addresses.AssertNotCalled(t, "Save", mock.Anything, mock.Anything)
	m.assertExpectations(t)
}

func TestService_Insert_StoresAddressUnderRequestedCode(t *testing.T) {
	svc, m := newTestService(t)

	looked := seAddress()
	looked.PostalCode = "01001-000"
	m.addresses.On("FindByPostalCode", mock.Anything, "01001000").Return(nil, shared.ErrNotFound)
	m.lookup.On("Lookup", mock.Anything, "01001000").Return(looked, nil)
	m.addresses.On("Save", mock.Anything, mock.MatchedBy(func(a *customer.Address) bool {
		return a.PostalCode == "01001000"
	})).Return(nil)
	expectProfileAndContact(m)
	m.customers.On("Save", mock.Anything, mock.Anything).Return(nil)

	_, err := svc.Insert(context.Background(), anaRequest())

	require.NoError(t, err)
	m.assertExpectations(t)
}

func TestService_Insert_KeepsRequestedContactID(t *testing.T) {
	svc, m := newTestService(t)
	contactID := uuid.New()
	req := anaRequest()
	req.Contact.ID = &contactID

	m.addresses.On("FindByPostalCode", mock.Anything, "01001000").Return(seAddress(), nil)
	expectProfileAndContact(m)
	m.customers.On("Save", mock.Anything, mock.Anything).Return(nil)

	result, err := svc.Insert(context.Background(), req)

	require.NoError(t, err)
	assert.Equal(t, contactID, result.Contact.ID)
}

func TestService_Insert_ValidationError(t *testing.T) {
	svc, m := newTestService(t)
	req := anaRequest()
	req.Contact.PhoneNumber = "call me"

	_, err := svc.Insert(context.Background(), req)

	var domainErr *shared.DomainError
	require.True(t, errors.As(err, &domainErr))
	assert.Equal(t, "INVALID_PHONE", domainErr.Code)
	m.addresses.AssertNotCalled(t, "FindByPostalCode", mock.Anything, mock.Anything)
}

func TestService_Insert_LookupFailureStopsUpsert(t *testing.T) {
	svc, m := newTestService(t)
	lookupErr := errors.Join(customer.ErrAddressLookupFailed, errors.New("connection refused"))

	m.addresses.On("FindByPostalCode", mock.Anything, "01001000").Return(nil, shared.ErrNotFound)
	m.lookup.On("Lookup", mock.Anything, "01001000").Return(nil, lookupErr)

	_, err := svc.Insert(context.Background(), anaRequest())

	assert.ErrorIs(t, err, customer.ErrAddressLookupFailed)
	m.addresses.AssertNotCalled(t, "Save", mock.Anything, mock.Anything)
	m.profiles.AssertNotCalled(t, "Save", mock.Anything, mock.Anything)
	m.customers.AssertNotCalled(t, "Save", mock.Anything, mock.Anything)
}

func TestService_Insert_AddressStoreFailure(t *testing.T) {
	svc, m := newTestService(t)
	dbErr := errors.New("database is locked")

	m.addresses.On("FindByPostalCode", mock.Anything, "01001000").Return(nil, dbErr)

	_, err := svc.Insert(context.Background(), anaRequest())

	assert.ErrorIs(t, err, dbErr)
	m.lookup.AssertNotCalled(t, "Lookup", mock.Anything, mock.Anything)
}

func TestService_Insert_ProfileMissingAfterSave(t *testing.T) {
	svc, m := newTestService(t)

	m.addresses.On("FindByPostalCode", mock.Anything, "01001000").Return(seAddress(), nil)
	m.profiles.On("Save", mock.Anything, mock.Anything).Return(nil)
	m.profiles.On("FindByName", mock.Anything, "standard").Return(nil, shared.ErrNotFound)

	_, err := svc.Insert(context.Background(), anaRequest())

	assert.ErrorIs(t, err, customer.ErrProfileMissing)
	assert.Contains(t, err.Error(), "standard")
	m.contacts.AssertNotCalled(t, "Save", mock.Anything, mock.Anything)
	m.customers.AssertNotCalled(t, "Save", mock.Anything, mock.Anything)
}

func TestService_Insert_ContactMissingAfterSave(t *testing.T) {
	svc, m := newTestService(t)

	m.addresses.On("FindByPostalCode", mock.Anything, "01001000").Return(seAddress(), nil)
	m.profiles.On("Save", mock.Anything, mock.Anything).Return(nil)
	m.profiles.On("FindByName", mock.Anything, "standard").Return(&customer.Profile{Name: "standard"}, nil)
	m.contacts.On("Save", mock.Anything, mock.Anything).
		Run(func(args mock.Arguments) { args.Get(1).(*customer.Contact).EnsureID() }).
		Return(nil)
	m.contacts.On("FindByID", mock.Anything, mock.Anything).Return(nil, shared.ErrNotFound)

	_, err := svc.Insert(context.Background(), anaRequest())

	assert.ErrorIs(t, err, customer.ErrContactMissing)
	m.customers.AssertNotCalled(t, "Save", mock.Anything, mock.Anything)
}

func TestService_Insert_CustomerSaveFailure(t *testing.T) {
	svc, m := newTestService(t)
	dbErr := errors.New("disk full")

	m.addresses.On("FindByPostalCode", mock.Anything, "01001000").Return(seAddress(), nil)
	expectProfileAndContact(m)
	m.customers.On("Save", mock.Anything, mock.Anything).Return(dbErr)

	_, err := svc.Insert(context.Background(), anaRequest())

	assert.ErrorIs(t, err, dbErr)
}

// =============================================================================
// Update
// =============================================================================

func TestService_Update_MissingIDDoesNothing(t *testing.T) {
	svc, m := newTestService(t)
	id := uuid.New()

	m.customers.On("ExistsByID", mock.Anything, id).Return(false, nil)

	result, updated, err := svc.Update(context.Background(), id, anaRequest())

	require.NoError(t, err)
	assert.False(t, updated)
	assert.Nil(t, result)
	m.addresses.AssertNotCalled(t, "FindByPostalCode", mock.Anything, mock.Anything)
	m.lookup.AssertNotCalled(t, "Lookup", mock.Anything, mock.Anything)
	m.profiles.AssertNotCalled(t, "Save", mock.Anything, mock.Anything)
	m.contacts.AssertNotCalled(t, "Save", mock.Anything, mock.Anything)
	m.customers.AssertNotCalled(t, "Save", mock.Anything, mock.Anything)
	m.assertExpectations(t)
}

func TestService_Update_OverwritesExistingCustomer(t *testing.T) {
	svc, m := newTestService(t)
	id := uuid.New()
	req := anaRequest()
	req.Name = "Ana Maria"

	m.customers.On("ExistsByID", mock.Anything, id).Return(true, nil)
	m.addresses.On("FindByPostalCode", mock.Anything, "01001000").Return(seAddress(), nil)
	expectProfileAndContact(m)
	m.customers.On("Save", mock.Anything, mock.MatchedBy(func(c *customer.Customer) bool {
		return c.ID == id && c.Name == "Ana Maria" && c.IsBound()
	})).Return(nil)

	registeredAt := time.Date(2026, 3, 2, 10, 0, 0, 0, time.UTC)
	m.customers.On("FindByID", mock.Anything, id).Return(&customer.Customer{
		BaseEntity: shared.BaseEntity{ID: id, CreatedAt: registeredAt, UpdatedAt: time.Now()},
		Name:       "Ana Maria",
		Address:    seAddress(),
		Profile:    &customer.Profile{Name: "standard", Description: "Standard customer"},
		Contact:    &customer.Contact{ID: uuid.New(), PhoneNumber: "+55 11 99999-0000", PhoneType: "mobile"},
	}, nil)

	result, updated, err := svc.Update(context.Background(), id, req)

	require.NoError(t, err)
	assert.True(t, updated)
	assert.Equal(t, id, result.ID)
	assert.Equal(t, "Ana Maria", result.Name)
	assert.True(t, registeredAt.Equal(result.CreatedAt), "update must report the stored creation time")
	m.assertExpectations(t)
}

func TestService_Update_ReloadFails(t *testing.T) {
	svc, m := newTestService(t)
	id := uuid.New()
	dbErr := errors.New("connection reset")

	m.customers.On("ExistsByID", mock.Anything, id).Return(true, nil)
	m.addresses.On("FindByPostalCode", mock.Anything, "01001000").Return(seAddress(), nil)
	expectProfileAndContact(m)
	m.customers.On("Save", mock.Anything, mock.AnythingOfType("*customer.Customer")).Return(nil)
	m.customers.On("FindByID", mock.Anything, id).Return(nil, dbErr)

	result, updated, err := svc.Update(context.Background(), id, anaRequest())

	assert.ErrorIs(t, err, dbErr)
	assert.True(t, updated)
	assert.Nil(t, result)
}

func TestService_Update_ExistenceCheckFails(t *testing.T) {
	svc, m := newTestService(t)
	id := uuid.New()
	dbErr := errors.New("connection reset")

	m.customers.On("ExistsByID", mock.Anything, id).Return(false, dbErr)

	_, updated, err := svc.Update(context.Background(), id, anaRequest())

	assert.ErrorIs(t, err, dbErr)
	assert.False(t, updated)
}

// =============================================================================
// Queries and Delete
// =============================================================================

func TestService_GetByID(t *testing.T) {
	t.Run("found", func(t *testing.T) {
		svc, m := newTestService(t)
		id := uuid.New()
		m.customers.On("FindByID", mock.Anything, id).Return(&customer.Customer{
			BaseEntity: shared.BaseEntity{ID: id},
			Name:       "Ana",
			Address:    seAddress(),
			Profile:    &customer.Profile{Name: "standard"},
			Contact:    &customer.Contact{ID: uuid.New(), PhoneNumber: "1199999", PhoneType: customer.PhoneTypeWork},
		}, nil)

		result, err := svc.GetByID(context.Background(), id)

		require.NoError(t, err)
		assert.Equal(t, "Sé", result.Address.District)
		assert.Equal(t, "standard", result.Profile.Name)
		assert.Equal(t, "work", result.Contact.PhoneType)
	})

	t.Run("not found", func(t *testing.T) {
		svc, m := newTestService(t)
		id := uuid.New()
		m.customers.On("FindByID", mock.Anything, id).Return(nil, shared.ErrNotFound)

		_, err := svc.GetByID(context.Background(), id)

		assert.ErrorIs(t, err, shared.ErrNotFound)
	})
}

func TestService_ListAll(t *testing.T) {
	svc, m := newTestService(t)
	m.customers.On("FindAll", mock.Anything).Return([]customer.Customer{{Name: "Ana"}, {Name: "Bruno"}}, nil)

	result, err := svc.ListAll(context.Background())

	require.NoError(t, err)
	require.Len(t, result, 2)
	assert.Equal(t, "Bruno", result[1].Name)
}

func TestService_SearchByName(t *testing.T) {
	svc, m := newTestService(t)
	m.customers.On("FindByNameContaining", mock.Anything, "ana").
		Return([]customer.Customer{{Name: "Ana"}, {Name: "ANA"}, {Name: "Mariana"}}, nil)

	result, err := svc.SearchByName(context.Background(), "ana")

	require.NoError(t, err)
	assert.Len(t, result, 3)
}

func TestService_SearchByPostalCode(t *testing.T) {
	t.Run("normalizes the code", func(t *testing.T) {
		svc, m := newTestService(t)
		m.customers.On("FindByPostalCode", mock.Anything, "01001000").
			Return([]customer.Customer{{Name: "Ana", Address: seAddress()}}, nil)

		result, err := svc.SearchByPostalCode(context.Background(), " 01001-000 ")

		require.NoError(t, err)
		require.Len(t, result, 1)
		assert.Equal(t, "01001000", result[0].Address.PostalCode)
	})

	t.Run("rejects empty code", func(t *testing.T) {
		svc, m := newTestService(t)

		_, err := svc.SearchByPostalCode(context.Background(), " - ")

		var domainErr *shared.DomainError
		require.True(t, errors.As(err, &domainErr))
		assert.Equal(t, "INVALID_POSTAL_CODE", domainErr.Code)
		m.customers.AssertNotCalled(t, "FindByPostalCode", mock.Anything, mock.Anything)
	})
}

func TestService_Delete(t *testing.T) {
	t.Run("removes only the customer", func(t *testing.T) {
		svc, m := newTestService(t)
		id := uuid.New()
		m.customers.On("Delete", mock.Anything, id).Return(nil)

		require.NoError(t, svc.Delete(context.Background(), id))
		m.addresses.AssertNotCalled(t, "Delete", mock.Anything, mock.Anything)
		m.profiles.AssertNotCalled(t, "Delete", mock.Anything, mock.Anything)
		m.contacts.AssertNotCalled(t, "Delete", mock.Anything, mock.Anything)
	})

	t.Run("not found", func(t *testing.T) {
		svc, m := newTestService(t)
		id := uuid.New()
		m.customers.On("Delete", mock.Anything, id).Return(shared.ErrNotFound)

		assert.ErrorIs(t, svc.Delete(context.Background(), id), shared.ErrNotFound)
	})
}

// =============================================================================
// Metrics
// =============================================================================

func TestService_RecordsAddressSources(t *testing.T) {
	reader := sdkmetric.NewManualReader()
	provider := sdkmetric.NewMeterProvider(sdkmetric.WithReader(reader))
	t.Cleanup(func() { _ = provider.Shutdown(context.Background()) })

	metrics, err := telemetry.NewRegistrationMetrics(provider.Meter("test"))
	require.NoError(t, err)
	svc, m := newTestService(t, WithMetrics(metrics))

	m.addresses.On("FindByPostalCode", mock.Anything, "01001000").Return(nil, shared.ErrNotFound).Once()
	m.lookup.On("Lookup", mock.Anything, "01001000").Return(seAddress(), nil).Once()
	m.addresses.On("Save", mock.Anything, mock.Anything).Return(nil).Once()
	m.addresses.On("FindByPostalCode", mock.Anything, "01001000").Return(seAddress(), nil).Once()
	expectProfileAndContact(m)
	m.customers.On("Save", mock.Anything, mock.Anything).Return(nil)

	_, err = svc.Insert(context.Background(), anaRequest())
	require.NoError(t, err)
	_, err = svc.Insert(context.Background(), anaRequest())
	require.NoError(t, err)

	var rm metricdata.ResourceMetrics
	require.NoError(t, reader.Collect(context.Background(), &rm))

	bySource := map[string]int64{}
	var saved int64
	for _, sm := range rm.ScopeMetrics {
		for _, metric := range sm.Metrics {
			sum, ok := metric.Data.(metricdata.Sum[int64])
			if !ok {
				continue
			}
			for _, dp := range sum.DataPoints {
				switch metric.Name {
				case "custreg_address_resolutions_total":
					source, _ := dp.Attributes.Value(telemetry.AttrSource)
					bySource[source.AsString()] += dp.Value
				case "custreg_customers_saved_total":
					saved += dp.Value
				}
			}
		}
	}

	assert.Equal(t, int64(1), bySource["lookup"])
	assert.Equal(t, int64(1), bySource["store"])
	assert.Equal(t, int64(2), saved)
}
