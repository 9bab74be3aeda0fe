package service

import (
	"context"
	"testing"
	"time"

	"taskboard/internal/domain"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

func newAuth(t *testing.T, f *fixture) (*AuthService, *TokenManager) {
	t.Helper()
	tm, err := NewTokenManager("test-secret", time.Hour)
	require.NoError(t, err)
	return NewAuthService(f.store, tm).WithHashCost(bcrypt.MinCost).WithStats(f.inv), tm
}

func TestRegisterHashesAndIssuesToken(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	auth, tm := newAuth(t, f)

	f.store.On("GetUserByEmail", ctx, "ana@example.com").Return(nil, domain.NotFound("Usuario no encontrado"))
	f.store.On("CreateUser", ctx, mock.AnythingOfType("*domain.User")).
		Run(func(args mock.Arguments) { args.Get(1).(*domain.User).ID = 1 }).
		Return(nil)

	res, err := auth.Register(ctx, RegisterInput{Name: " Ana ", Email: "Ana@Example.com", Password: "secret1"})
	require.NoError(t, err)

	assert.Equal(t, "Ana", res.User.Name)
	assert.Equal(t, "ana@example.com", res.User.Email)
	assert.NotEqual(t, "secret1", res.User.PasswordHash)
	assert.NoError(t, bcrypt.CompareHashAndPassword([]byte(res.User.PasswordHash), []byte("secret1")))

	id, err := tm.ParseToken(res.Token)
	require.NoError(t, err)
	assert.Equal(t, int64(1), id)
	assert.Equal(t, 1, f.inv.count())
}

func TestRegisterDuplicateEmail(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	auth, _ := newAuth(t, f)
	f.store.On("GetUserByEmail", ctx, "ana@example.com").Return(ana, nil)

	_, err := auth.Register(ctx, RegisterInput{Name: "Ana", Email: "ana@example.com", Password: "secret1"})
	require.ErrorIs(t, err, domain.ErrConflict)
	assert.Equal(t, "El email ya está registrado", domain.Message(err))
	f.store.AssertNotCalled(t, "CreateUser", mock.Anything, mock.Anything)
	assert.Zero(t, f.inv.count())
}

func TestRegisterRequiresFields(t *testing.T) {
	f := newFixture(t)
	auth, _ := newAuth(t, f)

	_, err := auth.Register(context.Background(), RegisterInput{Name: "  ", Email: "a@b.c", Password: "x"})
	assert.ErrorIs(t, err, domain.ErrValidation)
}

func TestLogin(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	auth, tm := newAuth(t, f)

	hash, err := bcrypt.GenerateFromPassword([]byte("secret1"), bcrypt.MinCost)
	require.NoError(t, err)
	stored := &domain.User{ID: 5, Name: "Ana", Email: "ana@example.com", PasswordHash: string(hash)}
	f.store.On("GetUserByEmail", ctx, "ana@example.com").Return(stored, nil)
	f.store.On("GetUserByEmail", ctx, "nadie@example.com").Return(nil, domain.NotFound("Usuario no encontrado"))

	_, err = auth.Login(ctx, LoginInput{Email: "ana@example.com", Password: "wrong"})
	require.ErrorIs(t, err, domain.ErrUnauthorized)
	assert.Equal(t, "Credenciales inválidas", domain.Message(err))

	_, err = auth.Login(ctx, LoginInput{Email: "nadie@example.com", Password: "secret1"})
	require.ErrorIs(t, err, domain.ErrUnauthorized)

	_, err = auth.Login(ctx, LoginInput{Email: "", Password: "secret1"})
	require.ErrorIs(t, err, domain.ErrValidation)

	res, err := auth.Login(ctx, LoginInput{Email: " ANA@example.com", Password: "secret1"})
	require.NoError(t, err)
	id, err := tm.ParseToken(res.Token)
	require.NoError(t, err)
	assert.Equal(t, int64(5), id)
}

func TestAuthenticateDeletedUser(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	auth, tm := newAuth(t, f)

	token, err := tm.Generate(9)
	require.NoError(t, err)
	f.store.On("GetUserByID", ctx, int64(9)).Return(nil, domain.NotFound("Usuario no encontrado"))

	_, err = auth.Authenticate(ctx, token)
	assert.ErrorIs(t, err, domain.ErrUnauthorized)
}

func TestTokenRejections(t *testing.T) {
	tm, err := NewTokenManager("test-secret", time.Hour)
	require.NoError(t, err)

	other, err := NewTokenManager("other-secret", time.Hour)
	require.NoError(t, err)
	foreign, err := other.Generate(1)
	require.NoError(t, err)

	none, err := jwt.NewWithClaims(jwt.SigningMethodNone, jwt.MapClaims{
		"user_id": 1,
		"exp":     time.Now().Add(time.Hour).Unix(),
	}).SignedString(jwt.UnsafeAllowNoneSignatureType)
	require.NoError(t, err)

	noExp, err := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{"user_id": 1}).
		SignedString([]byte("test-secret"))
	require.NoError(t, err)

	for name, token := range map[string]string{
		"garbage": "not-a-token",
		"foreign": foreign,
		"none":    none,
		"no exp":  noExp,
	} {
		_, err := tm.ParseToken(token)
		assert.ErrorIs(t, err, domain.ErrUnauthorized, name)
	}

	past := time.Now().Add(-2 * time.Hour)
	tm.now = func() time.Time { return past }
	expired, err := tm.Generate(1)
	require.NoError(t, err)
	tm.now = time.Now
	_, err = tm.ParseToken(expired)
	assert.ErrorIs(t, err, domain.ErrUnauthorized)

	_, err = NewTokenManager("", time.Hour)
	assert.Error(t, err)
}

func TestUpdateUser(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	svc := NewUserService(f.store)

	_, err := svc.Update(ctx, ana.ID, bruno.ID, UpdateUserInput{Name: ptr("X")})
	require.ErrorIs(t, err, domain.ErrForbidden)

	u := *ana
	f.store.On("GetUserByID", ctx, ana.ID).Return(&u, nil)
	_, err = svc.Update(ctx, ana.ID, ana.ID, UpdateUserInput{Name: ptr("  ")})
	require.ErrorIs(t, err, domain.ErrValidation)

	f.store.On("UpdateUser", ctx, mock.MatchedBy(func(u *domain.User) bool { return u.Name == "Ana María" })).Return(nil)
	got, err := svc.Update(ctx, ana.ID, ana.ID, UpdateUserInput{Name: ptr("Ana María")})
	require.NoError(t, err)
	assert.Equal(t, "Ana María", got.Name)
	assert.Equal(t, ana.Email, got.Email)
}

func TestListUsersHidesHashes(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	f.store.On("ListUsers", ctx).Return([]domain.User{{ID: 1, Name: "Ana", Email: "a@x", PasswordHash: "h"}}, nil)

	users, err := NewUserService(f.store).List(ctx)
	require.NoError(t, err)
	require.Len(t, users, 1)
	assert.Equal(t, "Ana", users[0].Name)
}
