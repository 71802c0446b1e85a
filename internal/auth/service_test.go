package auth

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/wikistars5/wikistars5/internal/testutil"
)

func newTestService(t *testing.T, tdb *testutil.TestDB) *Service {
	t.Helper()
	svc, err := NewService(tdb.Conn, "", time.Hour, tdb.Logger)
	require.NoError(t, err)
	return svc
}

func TestRegisterAndLogin(t *testing.T) {
	tdb := testutil.NewTestDB(t)
	defer tdb.Close()
	svc := newTestService(t, tdb)
	ctx := context.Background()

	resp, err := svc.Register(ctx, RegisterInput{Username: "ana.b", Password: "secret1", Country: "AR"})
	require.NoError(t, err)
	assert.NotEmpty(t, resp.Token)
	assert.Equal(t, "ana.b", resp.User.DisplayName)
	assert.Equal(t, RoleUser, resp.User.Role)

	claims, err := svc.ValidateToken(resp.Token)
	require.NoError(t, err)
	assert.Equal(t, resp.User.ID, claims.UserID)
	assert.Equal(t, "wikistars5", claims.Issuer)
	assert.NotEmpty(t, claims.ID)

	_, err = svc.Login(ctx, "ana.b", "wrong-pass")
	assert.ErrorIs(t, err, ErrInvalidCredentials)

	_, err = svc.Login(ctx, "nobody", "secret1")
	assert.ErrorIs(t, err, ErrInvalidCredentials)

	login, err := svc.Login(ctx, "ANA.B", "secret1")
	require.NoError(t, err)
	assert.Equal(t, resp.User.ID, login.User.ID)
}

func TestRegister_Validation(t *testing.T) {
	tdb := testutil.NewTestDB(t)
	defer tdb.Close()
	svc := newTestService(t, tdb)
	ctx := context.Background()

	_, err := svc.Register(ctx, RegisterInput{Username: "ab", Password: "secret1"})
	assert.ErrorIs(t, err, ErrInvalidUsername)

	_, err = svc.Register(ctx, RegisterInput{Username: "bad name", Password: "secret1"})
	assert.ErrorIs(t, err, ErrInvalidUsername)

	_, err = svc.Register(ctx, RegisterInput{Username: "carla", Password: "123"})
	assert.ErrorIs(t, err, ErrPasswordTooShort)

	_, err = svc.Register(ctx, RegisterInput{Username: "carla", Password: "secret1"})
	require.NoError(t, err)
	_, err = svc.Register(ctx, RegisterInput{Username: "Carla", Password: "secret1"})
	assert.ErrorIs(t, err, ErrUsernameTaken)
}

func TestLogin_DisabledUser(t *testing.T) {
	tdb := testutil.NewTestDB(t)
	defer tdb.Close()
	svc := newTestService(t, tdb)
	ctx := context.Background()

	resp, err := svc.Register(ctx, RegisterInput{Username: "dora", Password: "secret1"})
	require.NoError(t, err)

	_, err = svc.SetEnabled(ctx, resp.User.ID, false)
	require.NoError(t, err)

	_, err = svc.Login(ctx, "dora", "secret1")
	assert.ErrorIs(t, err, ErrUserDisabled)
}

func TestSecretPersistsAcrossInstances(t *testing.T) {
	tdb := testutil.NewTestDB(t)
	defer tdb.Close()

	first := newTestService(t, tdb)
	second := newTestService(t, tdb)
	assert.Equal(t, first.Secret(), second.Secret())

	token, _, err := first.GenerateToken(1, "x", RoleUser)
	require.NoError(t, err)
	_, err = second.ValidateToken(token)
	assert.NoError(t, err)
}

func TestValidateToken_Expired(t *testing.T) {
	tdb := testutil.NewTestDB(t)
	defer tdb.Close()

	svc, err := NewService(tdb.Conn, "fixed-secret", time.Hour, tdb.Logger)
	require.NoError(t, err)
	svc.tokenTTL = -time.Minute

	token, _, err := svc.GenerateToken(1, "x", RoleUser)
	require.NoError(t, err)

	_, err = svc.ValidateToken(token)
	assert.ErrorIs(t, err, ErrTokenExpired)

	_, err = svc.ValidateToken("garbage")
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestUpdateProfile(t *testing.T) {
	tdb := testutil.NewTestDB(t)
	defer tdb.Close()
	svc := newTestService(t, tdb)
	ctx := context.Background()

	resp, err := svc.Register(ctx, RegisterInput{Username: "eva", Password: "secret1"})
	require.NoError(t, err)

	user, err := svc.UpdateProfile(ctx, resp.User.ID, UpdateProfileInput{
		DisplayName: testutil.StringPtr("Eva G"),
		Email:       testutil.StringPtr("eva@example.com"),
		Password:    testutil.StringPtr("newsecret"),
	})
	require.NoError(t, err)
	assert.Equal(t, "Eva G", user.DisplayName)
	assert.Equal(t, "eva@example.com", user.Email)

	_, err = svc.Login(ctx, "eva", "newsecret")
	assert.NoError(t, err)

	_, err = svc.UpdateProfile(ctx, resp.User.ID, UpdateProfileInput{Password: testutil.StringPtr("x")})
	assert.ErrorIs(t, err, ErrPasswordTooShort)
}

func TestEnsureAdminAndLastAdminGuard(t *testing.T) {
	tdb := testutil.NewTestDB(t)
	defer tdb.Close()
	svc := newTestService(t, tdb)
	ctx := context.Background()

	created, err := svc.EnsureAdmin(ctx, "root", "rootpass")
	require.NoError(t, err)
	assert.True(t, created)

	created, err = svc.EnsureAdmin(ctx, "other", "rootpass")
	require.NoError(t, err)
	assert.False(t, created)

	login, err := svc.Login(ctx, "root", "rootpass")
	require.NoError(t, err)
	assert.Equal(t, RoleAdmin, login.User.Role)

	_, err = svc.SetRole(ctx, login.User.ID, RoleUser)
	assert.ErrorIs(t, err, ErrLastAdmin)
	_, err = svc.SetEnabled(ctx, login.User.ID, false)
	assert.ErrorIs(t, err, ErrLastAdmin)

	_, err = svc.SetRole(ctx, login.User.ID, "superuser")
	assert.ErrorIs(t, err, ErrInvalidRole)
}

func TestCreateAdmin_PromotesExistingUser(t *testing.T) {
	tdb := testutil.NewTestDB(t)
	defer tdb.Close()
	svc := newTestService(t, tdb)
	ctx := context.Background()

	_, err := svc.Register(ctx, RegisterInput{Username: "fabi", Password: "secret1"})
	require.NoError(t, err)

	_, err = svc.CreateAdmin(ctx, "fabi", "wrong")
	assert.ErrorIs(t, err, ErrInvalidCredentials)

	user, err := svc.CreateAdmin(ctx, "fabi", "secret1")
	require.NoError(t, err)
	assert.Equal(t, RoleAdmin, user.Role)
}

func TestListUsers(t *testing.T) {
	tdb := testutil.NewTestDB(t)
	defer tdb.Close()
	svc := newTestService(t, tdb)
	ctx := context.Background()

	for _, name := range []string{"gina", "hugo", "ines"} {
		_, err := svc.Register(ctx, RegisterInput{Username: name, Password: "secret1"})
		require.NoError(t, err)
	}

	page, err := svc.ListUsers(ctx, 1, 2)
	require.NoError(t, err)
	assert.Len(t, page.Items, 2)
	assert.Equal(t, int64(3), page.TotalCount)
	assert.Equal(t, "gina", page.Items[0].Username)
}

func TestAuthenticate_UsesCurrentAccountState(t *testing.T) {
	tdb := testutil.NewTestDB(t)
	defer tdb.Close()
	svc := newTestService(t, tdb)
	ctx := context.Background()

	resp, err := svc.Register(ctx, RegisterInput{Username: "Dario", Password: "secret1"})
	require.NoError(t, err)
	uid := resp.User.ID

	claims, err := svc.Authenticate(ctx, resp.Token)
	require.NoError(t, err)
	assert.Equal(t, uid, claims.UserID)
	assert.Equal(t, RoleUser, claims.Role)

	tdb.SeedUser(t, "root", RoleAdmin)
	_, err = svc.SetRole(ctx, uid, RoleAdmin)
	require.NoError(t, err)
	claims, err = svc.Authenticate(ctx, resp.Token)
	require.NoError(t, err)
	assert.True(t, claims.IsAdmin())

	_, err = svc.SetEnabled(ctx, uid, false)
	require.NoError(t, err)
	_, err = svc.Authenticate(ctx, resp.Token)
	assert.ErrorIs(t, err, ErrUserDisabled)

	_, err = svc.Authenticate(ctx, "garbage")
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestCanonicalUsername(t *testing.T) {
	assert.Equal(t, "alice", CanonicalUsername("  ALICE "))
	assert.Equal(t, "ana.b", CanonicalUsername("Ana.B"))
}
