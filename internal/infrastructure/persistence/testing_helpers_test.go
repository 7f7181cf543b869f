package persistence

import (
	"context"
	"testing"

	"github.com/custreg/backend/internal/domain/customer"
	"github.com/custreg/backend/internal/infrastructure/config"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm/logger"
)

// newSQLiteDatabase opens a migrated in-memory database private to the test
func newSQLiteDatabase(t *testing.T) *Database {
	t.Helper()

	db, err := NewDatabaseWithLogger(&config.DatabaseConfig{
		Driver: config.DriverSQLite,
		Path:   ":memory:",
	}, logger.Silent)
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(context.Background()))

	t.Cleanup(func() { _ = db.Close() })
	return db
}

type repositories struct {
	customers *GormCustomerRepository
	addresses *GormAddressRepository
	profiles  *GormProfileRepository
	contacts  *GormContactRepository
}

func newRepositories(t *testing.T) repositories {
	t.Helper()
	db := newSQLiteDatabase(t)
	return repositories{
		customers: NewGormCustomerRepository(db.DB),
		addresses: NewGormAddressRepository(db.DB),
		profiles:  NewGormProfileRepository(db.DB),
		contacts:  NewGormContactRepository(db.DB),
	}
}

func testAddress(postalCode, city string) *customer.Address {
	return &customer.Address{
		PostalCode: postalCode,
		Street:     "Praça da Sé",
		Complement: "lado ímpar",
		District:   "Sé",
		City:       city,
		State:      "SP",
		IBGECode:   "3550308",
		GIACode:    "1004",
		AreaCode:   "11",
		SIAFICode:  "7107",
	}
}

// storeCustomer persists a customer together with its address, profile and contact
func storeCustomer(t *testing.T, repos repositories, name, postalCode, profileName string) *customer.Customer {
	t.Helper()
	ctx := context.Background()

	profile, err := customer.NewProfile(profileName, profileName+" customers")
	require.NoError(t, err)
	contact, err := customer.NewContact("+55 11 98888-7777", customer.PhoneTypeMobile)
	require.NoError(t, err)
	c, err := customer.NewCustomer(name, postalCode, profile, contact)
	require.NoError(t, err)

	address := testAddress(c.PostalCode(), "São Paulo")
	require.NoError(t, repos.addresses.Save(ctx, address))
	require.NoError(t, repos.profiles.Save(ctx, profile))
	require.NoError(t, repos.contacts.Save(ctx, contact))
	c.BindAddress(address)
	require.NoError(t, repos.customers.Save(ctx, c))
	return c
}
