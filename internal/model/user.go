package model

import (
	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
)

// User represents an account that owns products and transactions.
// A row is created either by explicit registration or provisioned on the
// first successful sign-in with a token from an external identity provider.
type User struct {
	BaseModel
	Email         string  `gorm:"type:varchar(255);uniqueIndex;not null" json:"email" validate:"required,email"`
	Password      string  `gorm:"type:varchar(255)" json:"-"` // empty for provider-provisioned accounts
	Name          string  `gorm:"type:varchar(255)" json:"name"`
	EmailVerified bool    `gorm:"default:false" json:"email_verified"`
	Image         *string `gorm:"type:text" json:"image,omitempty"`

	Products     []Product     `json:"products,omitempty"`
	Transactions []Transaction `json:"transactions,omitempty"`
}

// SetPassword hashes and sets the user's password
func (u *User) SetPassword(password string) error {
	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return err
	}
	u.Password = string(hashedPassword)
	return nil
}

// CheckPassword verifies if the provided password matches the stored hash
func (u *User) CheckPassword(password string) bool {
	err := bcrypt.CompareHashAndPassword([]byte(u.Password), []byte(password))
	return err == nil
}

// UserResponse is used for API responses (without sensitive data)
type UserResponse struct {
	ID            uuid.UUID `json:"id"`
	Email         string    `json:"email"`
	Name          string    `json:"name"`
	EmailVerified bool      `json:"email_verified"`
	Image         *string   `json:"image,omitempty"`
}

// ToResponse converts User to UserResponse
func (u *User) ToResponse() UserResponse {
	return UserResponse{
		ID:            u.ID,
		Email:         u.Email,
		Name:          u.Name,
		EmailVerified: u.EmailVerified,
		Image:         u.Image,
	}
}

// AuthUser is the authenticated-user context resolved by the auth middleware
// and carried through every service call. Services never re-derive identity
// from a bare email string.
type AuthUser struct {
	ID    uuid.UUID
	Email string
	Name  string
}
