package testutil

import (
	"testing"

	"github.com/glanzwerk/crm/internal/database"
	"github.com/glanzwerk/crm/internal/domain"
	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

// SetupTestDB opens a private in-memory SQLite database with the full schema
func SetupTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	dsn := "file:" + uuid.NewString() + "?mode=memory&cache=shared"
	db, err := database.Open(sqlite.Open(dsn))
	require.NoError(t, err)

	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { _ = sqlDB.Close() })

	require.NoError(t, database.AutoMigrate(db))
	return db
}

// CreateTestCustomer inserts a customer with the given email
func CreateTestCustomer(t *testing.T, db *gorm.DB, firstName, lastName, email string) *domain.Customer {
	t.Helper()

	customer := &domain.Customer{
		CustomerNumber:         "CUST-TEST-" + uuid.NewString()[:8],
		FirstName:              firstName,
		LastName:               lastName,
		Email:                  email,
		City:                   "Berlin",
		CustomerType:           domain.CustomerTypePrivate,
		PreferredContactMethod: domain.ContactMethodEmail,
		IsActive:               true,
	}
	require.NoError(t, db.Create(customer).Error)
	return customer
}

// CreateTestUser inserts a staff account
func CreateTestUser(t *testing.T, db *gorm.DB, email string, role domain.UserRole) *domain.User {
	t.Helper()

	user := &domain.User{
		Email:       email,
		DisplayName: "Test " + string(role),
		Role:        role,
		IsActive:    true,
	}
	require.NoError(t, db.Create(user).Error)
	return user
}
