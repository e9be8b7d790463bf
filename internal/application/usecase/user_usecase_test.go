package usecase

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dulceria-lilis/erp-api/internal/application/dto"
	"github.com/dulceria-lilis/erp-api/internal/domain"
	"github.com/dulceria-lilis/erp-api/internal/domain/authz"
	"github.com/dulceria-lilis/erp-api/internal/domain/entity"
	"github.com/dulceria-lilis/erp-api/pkg/logger"
)

func newUserUC() (*UserUseCase, *fakeUserRepo, *fakeMailer) {
	repo := &fakeUserRepo{}
	mailer := &fakeMailer{}
	tx := &fakeTx{users: repo}
	return NewUserUseCase(repo, &fakeTxRunner{tx: tx}, mailer, logger.Nop()), repo, mailer
}

func validUser() dto.CreateUserRequest {
	return dto.CreateUserRequest{
		Username:  "jperez",
		Email:     "jperez@lilis.cl",
		Nombres:   "Juana",
		Apellidos: "Pérez",
		Telefono:  "+56 9 1234 5678",
		Rol:       entity.RoleVentas,
	}
}

var admin = authz.Principal{ID: 100, Username: "admin", Role: entity.RoleAdmin}
var superuser = authz.Principal{ID: 101, Username: "root", IsSuperuser: true}

func TestUserCreateSendsInvite(t *testing.T) {
	uc, repo, mailer := newUserUC()

	out, err := uc.Create(context.Background(), validUser())
	require.NoError(t, err)
	assert.Equal(t, entity.StatusActive, out.Estado)

	require.Len(t, repo.items, 1)
	u := repo.items[0]
	assert.True(t, u.MustChangePassword)
	assert.Len(t, u.InviteCode, 8)
	assert.NotEmpty(t, u.PasswordHash)

	require.Len(t, mailer.invites, 1)
	inv := mailer.invites[0]
	assert.Equal(t, "jperez@lilis.cl", inv.To)
	assert.Equal(t, u.InviteCode, inv.InviteCode)
	assert.NotEmpty(t, inv.TempPassword)
	// La temporal nunca se guarda en claro.
	assert.NotEqual(t, inv.TempPassword, u.PasswordHash)
}

func TestUserCreateMailFailureRollsBack(t *testing.T) {
	uc, repo, mailer := newUserUC()
	mailer.failInvite = true

	_, err := uc.Create(context.Background(), validUser())
	require.Error(t, err)
	assert.ErrorIs(t, err, domain.ErrMailDispatch)
	assert.Empty(t, repo.items)
}

func TestUserCreateCollectsAllErrors(t *testing.T) {
	uc, _, _ := newUserUC()

	_, err := uc.Create(context.Background(), dto.CreateUserRequest{
		Email: "no-es-email",
		Rol:   "GERENTE",
	})
	verr, ok := domain.AsValidation(err)
	require.True(t, ok)
	assert.Contains(t, verr, "username")
	assert.Contains(t, verr, "email")
	assert.Contains(t, verr, "first_name")
	assert.Contains(t, verr, "last_name")
	assert.Contains(t, verr, "telefono")
	assert.Contains(t, verr, "rol")
}

func TestUserCreateDuplicates(t *testing.T) {
	uc, _, _ := newUserUC()

	_, err := uc.Create(context.Background(), validUser())
	require.NoError(t, err)

	in := validUser()
	_, err = uc.Create(context.Background(), in)
	verr, ok := domain.AsValidation(err)
	require.True(t, ok)
	assert.Contains(t, verr, "username")
	assert.Contains(t, verr, "email")
	assert.Contains(t, verr, "telefono")
}

func TestUserUpdateWeakPassword(t *testing.T) {
	uc, _, _ := newUserUC()

	created, err := uc.Create(context.Background(), validUser())
	require.NoError(t, err)

	weak := "corta1!"
	_, err = uc.Update(context.Background(), created.ID, dto.UpdateUserRequest{Password: &weak})
	verr, ok := domain.AsValidation(err)
	require.True(t, ok)
	assert.Contains(t, verr, "password")
}

func TestUserDeleteSelf(t *testing.T) {
	uc, _, _ := newUserUC()

	created, err := uc.Create(context.Background(), validUser())
	require.NoError(t, err)

	actor := authz.Principal{ID: created.ID, Role: entity.RoleAdmin}
	assert.ErrorIs(t, uc.Delete(context.Background(), actor, created.ID), domain.ErrSelfAction)
}

func TestUserDeleteProtected(t *testing.T) {
	uc, repo, _ := newUserUC()

	in := validUser()
	in.Rol = entity.RoleAdmin
	created, err := uc.Create(context.Background(), in)
	require.NoError(t, err)

	// Un admin común no toca a otro admin; un superusuario sí.
	assert.ErrorIs(t, uc.Delete(context.Background(), admin, created.ID), domain.ErrProtectedUser)
	require.NoError(t, uc.Delete(context.Background(), superuser, created.ID))
	assert.Empty(t, repo.items)
}

func TestUserStatusTransitions(t *testing.T) {
	uc, repo, _ := newUserUC()

	created, err := uc.Create(context.Background(), validUser())
	require.NoError(t, err)

	require.NoError(t, uc.Deactivate(context.Background(), admin, created.ID))
	assert.Equal(t, entity.StatusInactive, repo.items[0].Status)

	require.NoError(t, uc.Block(context.Background(), admin, created.ID))
	assert.Equal(t, entity.StatusBlocked, repo.items[0].Status)

	require.NoError(t, uc.Reactivate(context.Background(), admin, created.ID))
	assert.Equal(t, entity.StatusActive, repo.items[0].Status)
}

func TestUserStatusSelf(t *testing.T) {
	uc, _, _ := newUserUC()

	created, err := uc.Create(context.Background(), validUser())
	require.NoError(t, err)

	actor := authz.Principal{ID: created.ID, Role: entity.RoleAdmin}
	assert.ErrorIs(t, uc.Deactivate(context.Background(), actor, created.ID), domain.ErrSelfAction)
	assert.ErrorIs(t, uc.Block(context.Background(), actor, created.ID), domain.ErrSelfAction)
}

func TestUserDeleteNotFound(t *testing.T) {
	uc, _, _ := newUserUC()
	assert.ErrorIs(t, uc.Delete(context.Background(), admin, 99), domain.ErrUserNotFound)
}
