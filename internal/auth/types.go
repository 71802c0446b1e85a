package auth

import (
	"errors"
	"regexp"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"golang.org/x/crypto/bcrypt"
)

// Role names stored on users and carried in tokens.
const (
	RoleUser  = "user"
	RoleAdmin = "admin"
)

const tokenIssuer = "wikistars5"

var (
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrUserDisabled       = errors.New("user account is disabled")
	ErrUserNotFound       = errors.New("user not found")
	ErrUsernameTaken      = errors.New("username is already taken")
	ErrInvalidUsername    = errors.New("username must be 3-30 characters of letters, digits, '_' or '.'")
	ErrPasswordTooShort   = errors.New("password must be at least 6 characters")
	ErrInvalidRole        = errors.New("invalid role")
	ErrInvalidToken       = errors.New("invalid token")
	ErrTokenExpired       = errors.New("token has expired")
	ErrLastAdmin          = errors.New("cannot remove the last enabled admin")
)

var usernamePattern = regexp.MustCompile(`^[a-zA-Z0-9_.]{3,30}$`)

const minPasswordLength = 6

// CanonicalUsername folds a username the way the users table compares it:
// surrounding space is ignored and case does not matter.
func CanonicalUsername(username string) string {
	return strings.ToLower(strings.TrimSpace(username))
}

// Claims are the JWT claims issued at login.
type Claims struct {
	UserID   int64  `json:"uid"`
	Username string `json:"username"`
	Role     string `json:"role"`
	jwt.RegisteredClaims
}

// IsAdmin reports whether the token carries the admin role.
func (c *Claims) IsAdmin() bool {
	return c != nil && c.Role == RoleAdmin
}

// User is the public view of an account.
type User struct {
	ID          int64     `json:"id"`
	Username    string    `json:"username"`
	Email       string    `json:"email,omitempty"`
	DisplayName string    `json:"displayName"`
	Country     string    `json:"country,omitempty"`
	Role        string    `json:"role"`
	Enabled     bool      `json:"enabled"`
	CreatedAt   time.Time `json:"createdAt"`
}

// RegisterInput is the payload for creating an account.
type RegisterInput struct {
	Username    string `json:"username"`
	Email       string `json:"email,omitempty"`
	Password    string `json:"password"`
	DisplayName string `json:"displayName,omitempty"`
	Country     string `json:"country,omitempty"`
}

// UpdateProfileInput holds optional profile changes.
type UpdateProfileInput struct {
	Email       *string `json:"email,omitempty"`
	DisplayName *string `json:"displayName,omitempty"`
	Country     *string `json:"country,omitempty"`
	Password    *string `json:"password,omitempty"`
}

// LoginResponse is returned by login and register.
type LoginResponse struct {
	Token     string    `json:"token"`
	ExpiresAt time.Time `json:"expiresAt"`
	User      *User     `json:"user"`
}

// UserListResponse is a page of users.
type UserListResponse struct {
	Items      []*User `json:"items"`
	Page       int     `json:"page"`
	PageSize   int     `json:"pageSize"`
	TotalCount int64   `json:"totalCount"`
}

// HashPassword hashes a password with bcrypt.
func HashPassword(password string) (string, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return "", err
	}
	return string(hash), nil
}

// ValidatePassword compares a bcrypt hash against a password.
func ValidatePassword(hash, password string) bool {
	return bcrypt.CompareHashAndPassword([]byte(hash), []byte(password)) == nil
}

// ValidRole reports whether role is a known role.
func ValidRole(role string) bool {
	return role == RoleUser || role == RoleAdmin
}
