package services

import (
	"context"
	"testing"
	"time"

	"busreservation/internal/domain"
	"busreservation/internal/repositories"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newAuth(now time.Time) AuthService {
	return AuthService{
		Users:  repositories.NewMemoryStore(),
		Secret: []byte("test-secret-0123456789"),
		TTL:    time.Hour,
		Now:    func() time.Time { return now },
	}
}

func TestAuth_RegisterLoginParse(t *testing.T) {
	svc := newAuth(time.Now())
	ctx := context.Background()

	u, err := svc.Register(ctx, RegisterInput{Name: " NB  Express ", Email: "Ops@NB.lk", Password: "secret1", Role: domain.RoleOperator})
	require.NoError(t, err)
	assert.Equal(t, "NB Express", u.Name)
	assert.Equal(t, "ops@nb.lk", u.Email)
	assert.NotEqual(t, "secret1", u.PasswordHash)

	token, logged, err := svc.Login(ctx, "ops@nb.lk", "secret1")
	require.NoError(t, err)
	assert.Equal(t, u.ID, logged.ID)

	p, err := svc.ParseToken(token)
	require.NoError(t, err)
	assert.Equal(t, domain.Principal{ID: u.ID, Name: "NB Express", Role: domain.RoleOperator}, p)

	profile, err := svc.Profile(ctx, p.ID)
	require.NoError(t, err)
	assert.Equal(t, "ops@nb.lk", profile.Email)
}

func TestAuth_RegisterDefaultsAndConflicts(t *testing.T) {
	svc := newAuth(time.Now())
	ctx := context.Background()

	u, err := svc.Register(ctx, RegisterInput{Name: "Nimal", Email: "nimal@example.com", Password: "secret1"})
	require.NoError(t, err)
	assert.Equal(t, domain.RoleCommuter, u.Role)

	_, err = svc.Register(ctx, RegisterInput{Name: "Nimal 2", Email: "NIMAL@example.com", Password: "secret1"})
	assert.True(t, domain.IsConflict(err))

	for _, in := range []RegisterInput{
		{Email: "a@b.lk", Password: "secret1"},
		{Name: "x", Email: "not-an-email", Password: "secret1"},
		{Name: "x", Email: "a@b.lk", Password: "123"},
		{Name: "x", Email: "a@b.lk", Password: "secret1", Role: "Driver"},
	} {
		_, err := svc.Register(ctx, in)
		assert.True(t, domain.IsValidation(err), "%+v: %v", in, err)
	}
}

func TestAuth_BadCredentialsAndTokens(t *testing.T) {
	svc := newAuth(time.Now())
	ctx := context.Background()
	_, err := svc.Register(ctx, RegisterInput{Name: "Nimal", Email: "nimal@example.com", Password: "secret1"})
	require.NoError(t, err)

	_, _, err = svc.Login(ctx, "nimal@example.com", "wrong-pass")
	assert.True(t, domain.IsAuthentication(err))
	_, _, err = svc.Login(ctx, "ghost@example.com", "secret1")
	assert.True(t, domain.IsAuthentication(err))

	_, err = svc.ParseToken("not.a.jwt")
	assert.True(t, domain.IsAuthentication(err))

	other := svc
	other.Secret = []byte("another-secret-0123456789")
	token, _, err := other.Login(ctx, "nimal@example.com", "secret1")
	require.NoError(t, err)
	_, err = svc.ParseToken(token)
	assert.True(t, domain.IsAuthentication(err), "foreign signature must fail")
}

func TestAuth_ExpiredToken(t *testing.T) {
	issued := time.Now().Add(-2 * time.Hour)
	svc := newAuth(issued)
	u, err := svc.Register(context.Background(), RegisterInput{Name: "Nimal", Email: "nimal@example.com", Password: "secret1"})
	require.NoError(t, err)
	token, err := svc.IssueToken(u)
	require.NoError(t, err)

	svc.Now = time.Now
	_, err = svc.ParseToken(token)
	require.True(t, domain.IsAuthentication(err))
	assert.Contains(t, err.Error(), "expired")
}
