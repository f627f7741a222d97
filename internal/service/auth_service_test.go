package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/spec-kit/band-site/internal/config"
	"github.com/spec-kit/band-site/internal/domain"
	"github.com/spec-kit/band-site/internal/events"
	"github.com/spec-kit/band-site/internal/repository/repotest"
)

func newAuthService(users *repotest.Users, d events.Dispatcher) *AuthService {
	return NewAuthService(config.AuthConfig{JWTSecret: "test-secret", AccessTokenTTLMinutes: 60, BcryptCost: 4},
		AuthDependencies{UserRepo: users, Dispatcher: d})
}

func TestRegisterCreatesUserAndToken(t *testing.T) {
	users := repotest.NewUsers()
	d := &recordingDispatcher{}
	svc := newAuthService(users, d)

	res, err := svc.Register(context.Background(), RegisterInput{
		Name:     " <b>Camille</b> ",
		Email:    " Camille@Example.COM ",
		Password: "s3cretpass",
	})
	require.NoError(t, err)

	assert.Equal(t, "Camille", res.User.Name)
	assert.Equal(t, "camille@example.com", res.User.Email)
	assert.Equal(t, domain.RoleUser, res.User.Role)
	assert.NotEqual(t, "s3cretpass", res.User.PasswordHash)
	assert.NotEmpty(t, res.Token)

	claims, err := svc.TokenManager().Verify(res.Token)
	require.NoError(t, err)
	assert.Equal(t, res.User.ID, claims.ID)
	assert.Equal(t, []events.EventType{events.EventUserRegistered}, d.types())
}

func TestRegisterDuplicateEmail(t *testing.T) {
	users := repotest.NewUsers()
	svc := newAuthService(users, nil)
	ctx := context.Background()

	_, err := svc.Register(ctx, RegisterInput{Name: "A", Email: "a@example.com", Password: "password1"})
	require.NoError(t, err)

	_, err = svc.Register(ctx, RegisterInput{Name: "B", Email: "A@example.com", Password: "password2"})
	requireStatus(t, err, statusBadRequest, MsgEmailTaken)
}

func TestLogin(t *testing.T) {
	users := repotest.NewUsers()
	svc := newAuthService(users, nil)
	ctx := context.Background()

	_, err := svc.Register(ctx, RegisterInput{Name: "A", Email: "a@example.com", Password: "password1"})
	require.NoError(t, err)

	res, err := svc.Login(ctx, "A@example.com", "password1")
	require.NoError(t, err)
	assert.Equal(t, "a@example.com", res.User.Email)

	_, err = svc.Login(ctx, "a@example.com", "wrong")
	requireStatus(t, err, statusUnauthorized, MsgInvalidCredentials)

	_, err = svc.Login(ctx, "nobody@example.com", "password1")
	requireStatus(t, err, statusUnauthorized, MsgInvalidCredentials)
}

func TestMe(t *testing.T) {
	users := repotest.NewUsers()
	svc := newAuthService(users, nil)
	ctx := context.Background()

	res, err := svc.Register(ctx, RegisterInput{Name: "A", Email: "a@example.com", Password: "password1"})
	require.NoError(t, err)

	me, err := svc.Me(ctx, &domain.Identity{ID: res.User.ID, Role: domain.RoleUser})
	require.NoError(t, err)
	assert.Equal(t, res.User.ID, me.ID)

	_, err = svc.Me(ctx, nil)
	requireStatus(t, err, statusUnauthorized, "")

	_, err = svc.Me(ctx, ident(domain.RoleUser))
	requireStatus(t, err, statusNotFound, MsgUserNotFound)
}

func TestUpdateRole(t *testing.T) {
	users := repotest.NewUsers()
	d := &recordingDispatcher{}
	svc := NewUserService(users, d)
	ctx := context.Background()

	admin := ident(domain.RoleAdmin)
	u := users.Seed(domain.User{Name: "Fan", Email: "fan@example.com", Role: domain.RoleUser})

	updated, err := svc.UpdateRole(ctx, admin, u.ID, domain.RoleArtist)
	require.NoError(t, err)
	assert.Equal(t, domain.RoleArtist, updated.Role)
	assert.Equal(t, []events.EventType{events.EventUserRoleChanged}, d.types())

	_, err = svc.UpdateRole(ctx, admin, u.ID, domain.Role("ROOT"))
	requireStatus(t, err, statusBadRequest, "")

	_, err = svc.UpdateRole(ctx, admin, admin.ID, domain.RoleUser)
	requireStatus(t, err, statusBadRequest, MsgOwnRoleChange)

	_, err = svc.UpdateRole(ctx, admin, "not-a-uuid", domain.RoleUser)
	requireStatus(t, err, statusNotFound, MsgUserNotFound)
}

func TestListUsersPaginates(t *testing.T) {
	users := repotest.NewUsers()
	for _, e := range []string{"a@x.io", "b@x.io", "c@x.io"} {
		users.Seed(domain.User{Email: e, Role: domain.RoleUser})
	}
	svc := NewUserService(users, nil)

	list, info, err := svc.List(context.Background(), PageRequest{Page: 2, PageSize: 2})
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.Equal(t, "c@x.io", list[0].Email)
	assert.Equal(t, PageInfo{Page: 2, PageSize: 2, Total: 3}, info)
}

func TestPageRequestNormalize(t *testing.T) {
	assert.Equal(t, PageRequest{Page: 1, PageSize: DefaultPageSize}, PageRequest{}.Normalize())
	assert.Equal(t, PageRequest{Page: 3, PageSize: MaxPageSize}, PageRequest{Page: 3, PageSize: 1000}.Normalize())
}
