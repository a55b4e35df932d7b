package service

import (
	"testing"

	"go-stock-ledger/internal/model"
	"go-stock-ledger/internal/repository/mocks"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func TestAuthService_Register(t *testing.T) {
	t.Run("creates user and issues token", func(t *testing.T) {
		mockUsers := new(mocks.MockUserRepository)
		svc := NewAuthService(mockUsers)

		mockUsers.On("FindByEmail", "new@example.com").Return(nil, gorm.ErrRecordNotFound).Once()
		mockUsers.On("Create", mock.MatchedBy(func(u *model.User) bool {
			// stored hashed, never plaintext
			return u.Email == "new@example.com" && u.Password != "password123" && u.Password != ""
		})).Return(nil).Once()

		resp, err := svc.Register(RegisterInput{
			Email:    "new@example.com",
			Password: "password123",
			Name:     "New User",
		})
		require.NoError(t, err)
		assert.NotEmpty(t, resp.Token)
		assert.Equal(t, "new@example.com", resp.User.Email)
		mockUsers.AssertExpectations(t)
	})

	t.Run("duplicate email", func(t *testing.T) {
		mockUsers := new(mocks.MockUserRepository)
		svc := NewAuthService(mockUsers)

		existing := &model.User{Email: "taken@example.com"}
		mockUsers.On("FindByEmail", "taken@example.com").Return(existing, nil).Once()

		_, err := svc.Register(RegisterInput{
			Email:    "taken@example.com",
			Password: "password123",
			Name:     "Someone",
		})
		assert.ErrorIs(t, err, ErrEmailTaken)
		mockUsers.AssertNotCalled(t, "Create", mock.Anything)
	})

	t.Run("short password is a field error", func(t *testing.T) {
		mockUsers := new(mocks.MockUserRepository)
		svc := NewAuthService(mockUsers)

		_, err := svc.Register(RegisterInput{
			Email:    "new@example.com",
			Password: "short",
			Name:     "New User",
		})
		fields := fieldErrors(t, err)
		assert.Contains(t, fields, "password")
	})
}

func TestAuthService_Login(t *testing.T) {
	withPassword := func(password string) *model.User {
		u := &model.User{Email: "user@example.com", Name: "User"}
		require.NoError(t, u.SetPassword(password))
		return u
	}

	t.Run("valid credentials", func(t *testing.T) {
		mockUsers := new(mocks.MockUserRepository)
		svc := NewAuthService(mockUsers)

		mockUsers.On("FindByEmail", "user@example.com").Return(withPassword("correct-horse"), nil).Once()

		resp, err := svc.Login("user@example.com", "correct-horse")
		require.NoError(t, err)
		assert.NotEmpty(t, resp.Token)
	})

	t.Run("wrong password", func(t *testing.T) {
		mockUsers := new(mocks.MockUserRepository)
		svc := NewAuthService(mockUsers)

		mockUsers.On("FindByEmail", "user@example.com").Return(withPassword("correct-horse"), nil).Once()

		_, err := svc.Login("user@example.com", "battery-staple")
		assert.ErrorIs(t, err, ErrInvalidCredentials)
	})

	t.Run("unknown email", func(t *testing.T) {
		mockUsers := new(mocks.MockUserRepository)
		svc := NewAuthService(mockUsers)

		mockUsers.On("FindByEmail", "ghost@example.com").Return(nil, gorm.ErrRecordNotFound).Once()

		_, err := svc.Login("ghost@example.com", "whatever")
		assert.ErrorIs(t, err, ErrInvalidCredentials)
	})

	t.Run("provider-provisioned account has no local password", func(t *testing.T) {
		mockUsers := new(mocks.MockUserRepository)
		svc := NewAuthService(mockUsers)

		provisioned := &model.User{Email: "oauth@example.com", EmailVerified: true}
		mockUsers.On("FindByEmail", "oauth@example.com").Return(provisioned, nil).Once()

		_, err := svc.Login("oauth@example.com", "anything")
		assert.ErrorIs(t, err, ErrInvalidCredentials)
	})
}
