package auth

import (
	"context"
	"crypto/rand"
	"database/sql"
	"encoding/hex"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/wikistars5/wikistars5/internal/database"
	"github.com/wikistars5/wikistars5/internal/database/sqlc"
)

//nolint:gosec // variable name, not a credential
const jwtSecretSettingKey = "jwt_secret"

const defaultTokenTTL = 30 * 24 * time.Hour

// Service manages accounts and issues tokens.
type Service struct {
	queries   *sqlc.Queries
	jwtSecret []byte
	tokenTTL  time.Duration
	logger    zerolog.Logger
}

// NewService creates the auth service. An empty jwtSecret is loaded from, or
// generated into, the settings table so tokens survive restarts.
func NewService(db *sql.DB, jwtSecret string, tokenTTL time.Duration, logger zerolog.Logger) (*Service, error) {
	queries := sqlc.New(db)
	secret := []byte(jwtSecret)

	if len(secret) == 0 {
		var err error
		secret, err = loadOrGenerateSecret(queries)
		if err != nil {
			return nil, err
		}
	}

	if tokenTTL <= 0 {
		tokenTTL = defaultTokenTTL
	}

	return &Service{
		queries:   queries,
		jwtSecret: secret,
		tokenTTL:  tokenTTL,
		logger:    logger.With().Str("component", "auth").Logger(),
	}, nil
}

func loadOrGenerateSecret(queries *sqlc.Queries) ([]byte, error) {
	ctx := context.Background()
	setting, err := queries.GetSetting(ctx, jwtSecretSettingKey)

	switch {
	case err == nil && setting.Value != "":
		secret, decErr := hex.DecodeString(setting.Value)
		if decErr != nil {
			return nil, fmt.Errorf("failed to decode stored JWT secret: %w", decErr)
		}
		return secret, nil

	case errors.Is(err, sql.ErrNoRows) || (err == nil && setting.Value == ""):
		secret := make([]byte, 32)
		if _, err := rand.Read(secret); err != nil {
			return nil, fmt.Errorf("failed to generate JWT secret: %w", err)
		}
		if err := queries.SetSetting(ctx, sqlc.SetSettingParams{
			Key:   jwtSecretSettingKey,
			Value: hex.EncodeToString(secret),
		}); err != nil {
			return nil, fmt.Errorf("failed to persist JWT secret: %w", err)
		}
		return secret, nil

	default:
		return nil, fmt.Errorf("failed to load JWT secret from database: %w", err)
	}
}

// Secret returns the signing secret. Other packages derive sealing keys from it.
func (s *Service) Secret() []byte {
	return s.jwtSecret
}

// Register creates a regular user account and logs it in.
func (s *Service) Register(ctx context.Context, input RegisterInput) (*LoginResponse, error) {
	user, err := s.createUser(ctx, input, RoleUser)
	if err != nil {
		return nil, err
	}
	s.logger.Info().Int64("userId", user.ID).Str("username", user.Username).Msg("user registered")
	return s.issue(user)
}

func (s *Service) createUser(ctx context.Context, input RegisterInput, role string) (*sqlc.User, error) {
	username := strings.TrimSpace(input.Username)
	if !usernamePattern.MatchString(username) {
		return nil, ErrInvalidUsername
	}
	if len(input.Password) < minPasswordLength {
		return nil, ErrPasswordTooShort
	}

	hash, err := HashPassword(input.Password)
	if err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}

	displayName := strings.TrimSpace(input.DisplayName)
	if displayName == "" {
		displayName = username
	}

	user, err := s.queries.CreateUser(ctx, sqlc.CreateUserParams{
		Username:     username,
		Email:        nullString(strings.TrimSpace(input.Email)),
		PasswordHash: hash,
		DisplayName:  displayName,
		Country:      strings.TrimSpace(input.Country),
		Role:         role,
	})
	if err != nil {
		if database.IsUniqueViolation(err) {
			return nil, ErrUsernameTaken
		}
		return nil, fmt.Errorf("failed to create user: %w", err)
	}
	return user, nil
}

// Login checks credentials and returns a signed token.
func (s *Service) Login(ctx context.Context, username, password string) (*LoginResponse, error) {
	user, err := s.queries.GetUserByUsername(ctx, strings.TrimSpace(username))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrInvalidCredentials
		}
		return nil, fmt.Errorf("failed to load user: %w", err)
	}

	if !ValidatePassword(user.PasswordHash, password) {
		return nil, ErrInvalidCredentials
	}
	if !user.Enabled {
		return nil, ErrUserDisabled
	}

	return s.issue(user)
}

func (s *Service) issue(user *sqlc.User) (*LoginResponse, error) {
	token, expiresAt, err := s.GenerateToken(user.ID, user.Username, user.Role)
	if err != nil {
		return nil, err
	}
	return &LoginResponse{Token: token, ExpiresAt: expiresAt, User: toUser(user)}, nil
}

// GenerateToken signs an HS256 token for the given user.
func (s *Service) GenerateToken(userID int64, username, role string) (string, time.Time, error) {
	now := time.Now()
	expiresAt := now.Add(s.tokenTTL)

	claims := &Claims{
		UserID:   userID,
		Username: username,
		Role:     role,
		RegisteredClaims: jwt.RegisteredClaims{
			ID:        uuid.NewString(),
			ExpiresAt: jwt.NewNumericDate(expiresAt),
			IssuedAt:  jwt.NewNumericDate(now),
			Issuer:    tokenIssuer,
			Subject:   strconv.FormatInt(userID, 10),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString(s.jwtSecret)
	if err != nil {
		return "", time.Time{}, fmt.Errorf("failed to sign token: %w", err)
	}
	return signed, expiresAt, nil
}

// ValidateToken parses and verifies a token.
func (s *Service) ValidateToken(tokenString string) (*Claims, error) {
	token, err := jwt.ParseWithClaims(tokenString, &Claims{}, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return s.jwtSecret, nil
	}, jwt.WithIssuer(tokenIssuer))

	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return nil, ErrTokenExpired
		}
		return nil, ErrInvalidToken
	}

	claims, ok := token.Claims.(*Claims)
	if !ok || !token.Valid {
		return nil, ErrInvalidToken
	}

	return claims, nil
}

// Authenticate validates a token and checks it against the account as it is
// now. Disabled accounts are rejected and the role is taken from the database,
// so a demotion applies to tokens issued before it.
func (s *Service) Authenticate(ctx context.Context, tokenString string) (*Claims, error) {
	claims, err := s.ValidateToken(tokenString)
	if err != nil {
		return nil, err
	}

	user, err := s.queries.GetUser(ctx, claims.UserID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrInvalidToken
		}
		return nil, fmt.Errorf("failed to load user: %w", err)
	}
	if !user.Enabled {
		return nil, ErrUserDisabled
	}

	claims.Username = user.Username
	claims.Role = user.Role
	return claims, nil
}

// GetUser returns a user by ID.
func (s *Service) GetUser(ctx context.Context, id int64) (*User, error) {
	user, err := s.queries.GetUser(ctx, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrUserNotFound
		}
		return nil, fmt.Errorf("failed to load user: %w", err)
	}
	return toUser(user), nil
}

// UpdateProfile applies the non-nil fields of input.
func (s *Service) UpdateProfile(ctx context.Context, id int64, input UpdateProfileInput) (*User, error) {
	current, err := s.queries.GetUser(ctx, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrUserNotFound
		}
		return nil, fmt.Errorf("failed to load user: %w", err)
	}

	params := sqlc.UpdateUserProfileParams{
		ID:          id,
		Email:       current.Email,
		DisplayName: current.DisplayName,
		Country:     current.Country,
	}
	if input.Email != nil {
		params.Email = nullString(strings.TrimSpace(*input.Email))
	}
	if input.DisplayName != nil {
		if name := strings.TrimSpace(*input.DisplayName); name != "" {
			params.DisplayName = name
		}
	}
	if input.Country != nil {
		params.Country = strings.TrimSpace(*input.Country)
	}

	if input.Password != nil {
		if len(*input.Password) < minPasswordLength {
			return nil, ErrPasswordTooShort
		}
		hash, err := HashPassword(*input.Password)
		if err != nil {
			return nil, fmt.Errorf("failed to hash password: %w", err)
		}
		if err := s.queries.UpdateUserPassword(ctx, sqlc.UpdateUserPasswordParams{PasswordHash: hash, ID: id}); err != nil {
			return nil, fmt.Errorf("failed to update password: %w", err)
		}
	}

	user, err := s.queries.UpdateUserProfile(ctx, params)
	if err != nil {
		if database.IsUniqueViolation(err) {
			return nil, fmt.Errorf("email already in use: %w", ErrUsernameTaken)
		}
		return nil, fmt.Errorf("failed to update profile: %w", err)
	}
	return toUser(user), nil
}

// ListUsers returns a page of users ordered by ID.
func (s *Service) ListUsers(ctx context.Context, page, pageSize int) (*UserListResponse, error) {
	if page < 1 {
		page = 1
	}
	if pageSize < 1 {
		pageSize = 50
	}
	if pageSize > 100 {
		pageSize = 100
	}

	rows, err := s.queries.ListUsers(ctx, sqlc.ListUsersParams{
		Limit:  int64(pageSize),
		Offset: int64((page - 1) * pageSize),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to list users: %w", err)
	}
	total, err := s.queries.CountUsers(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to count users: %w", err)
	}

	items := make([]*User, 0, len(rows))
	for _, row := range rows {
		items = append(items, toUser(row))
	}
	return &UserListResponse{Items: items, Page: page, PageSize: pageSize, TotalCount: total}, nil
}

// SetRole changes a user's role. The last enabled admin cannot be demoted.
func (s *Service) SetRole(ctx context.Context, id int64, role string) (*User, error) {
	if !ValidRole(role) {
		return nil, ErrInvalidRole
	}

	current, err := s.queries.GetUser(ctx, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrUserNotFound
		}
		return nil, fmt.Errorf("failed to load user: %w", err)
	}
	if current.Role == RoleAdmin && role != RoleAdmin && current.Enabled {
		if err := s.ensureOtherAdmin(ctx); err != nil {
			return nil, err
		}
	}

	user, err := s.queries.SetUserRole(ctx, sqlc.SetUserRoleParams{Role: role, ID: id})
	if err != nil {
		return nil, fmt.Errorf("failed to set role: %w", err)
	}
	s.logger.Info().Int64("userId", id).Str("role", role).Msg("user role changed")
	return toUser(user), nil
}

// SetEnabled enables or disables a user. The last enabled admin cannot be disabled.
func (s *Service) SetEnabled(ctx context.Context, id int64, enabled bool) (*User, error) {
	current, err := s.queries.GetUser(ctx, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrUserNotFound
		}
		return nil, fmt.Errorf("failed to load user: %w", err)
	}
	if !enabled && current.Enabled && current.Role == RoleAdmin {
		if err := s.ensureOtherAdmin(ctx); err != nil {
			return nil, err
		}
	}

	user, err := s.queries.SetUserEnabled(ctx, sqlc.SetUserEnabledParams{Enabled: enabled, ID: id})
	if err != nil {
		return nil, fmt.Errorf("failed to set enabled: %w", err)
	}
	s.logger.Info().Int64("userId", id).Bool("enabled", enabled).Msg("user enabled state changed")
	return toUser(user), nil
}

func (s *Service) ensureOtherAdmin(ctx context.Context) error {
	admins, err := s.queries.CountAdmins(ctx)
	if err != nil {
		return fmt.Errorf("failed to count admins: %w", err)
	}
	if admins <= 1 {
		return ErrLastAdmin
	}
	return nil
}

// EnsureAdmin creates an admin account when no enabled admin exists.
// It returns true when an account was created.
func (s *Service) EnsureAdmin(ctx context.Context, username, password string) (bool, error) {
	if username == "" {
		return false, nil
	}

	admins, err := s.queries.CountAdmins(ctx)
	if err != nil {
		return false, fmt.Errorf("failed to count admins: %w", err)
	}
	if admins > 0 {
		return false, nil
	}

	if _, err := s.CreateAdmin(ctx, username, password); err != nil {
		return false, err
	}
	return true, nil
}

// CreateAdmin creates an admin account, or promotes an existing one after
// checking its password.
func (s *Service) CreateAdmin(ctx context.Context, username, password string) (*User, error) {
	existing, err := s.queries.GetUserByUsername(ctx, username)
	switch {
	case err == nil:
		if !ValidatePassword(existing.PasswordHash, password) {
			return nil, ErrInvalidCredentials
		}
		if _, err := s.queries.SetUserEnabled(ctx, sqlc.SetUserEnabledParams{Enabled: true, ID: existing.ID}); err != nil {
			return nil, fmt.Errorf("failed to enable admin: %w", err)
		}
		user, err := s.queries.SetUserRole(ctx, sqlc.SetUserRoleParams{Role: RoleAdmin, ID: existing.ID})
		if err != nil {
			return nil, fmt.Errorf("failed to promote admin: %w", err)
		}
		s.logger.Info().Str("username", username).Msg("existing user promoted to admin")
		return toUser(user), nil
	case errors.Is(err, sql.ErrNoRows):
		user, err := s.createUser(ctx, RegisterInput{Username: username, Password: password}, RoleAdmin)
		if err != nil {
			return nil, err
		}
		s.logger.Info().Str("username", username).Msg("admin account created")
		return toUser(user), nil
	default:
		return nil, fmt.Errorf("failed to load user: %w", err)
	}
}

func toUser(row *sqlc.User) *User {
	u := &User{
		ID:          row.ID,
		Username:    row.Username,
		DisplayName: row.DisplayName,
		Country:     row.Country,
		Role:        row.Role,
		Enabled:     row.Enabled,
	}
	if row.Email.Valid {
		u.Email = row.Email.String
	}
	if row.CreatedAt.Valid {
		u.CreatedAt = row.CreatedAt.Time
	}
	return u
}

func nullString(s string) sql.NullString {
	return sql.NullString{String: s, Valid: s != ""}
}
