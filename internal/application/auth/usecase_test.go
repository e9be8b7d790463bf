package auth

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dulceria-lilis/erp-api/internal/application/dto"
	"github.com/dulceria-lilis/erp-api/internal/domain"
	"github.com/dulceria-lilis/erp-api/internal/domain/entity"
	"github.com/dulceria-lilis/erp-api/internal/domain/repository"
	"github.com/dulceria-lilis/erp-api/internal/domain/search"
	"github.com/dulceria-lilis/erp-api/pkg/config"
	"github.com/dulceria-lilis/erp-api/pkg/jwt"
	"github.com/dulceria-lilis/erp-api/pkg/logger"
	"github.com/dulceria-lilis/erp-api/pkg/password"
)

type memUserRepo struct {
	items  []entity.User
	tokens map[string]int64
}

func (f *memUserRepo) Create(_ context.Context, u *entity.User) (int64, error) {
	u.ID = int64(len(f.items) + 1)
	f.items = append(f.items, *u)
	return u.ID, nil
}

func (f *memUserRepo) GetByID(_ context.Context, id int64) (*entity.User, error) {
	for i := range f.items {
		if f.items[i].ID == id {
			u := f.items[i]
			return &u, nil
		}
	}
	return nil, nil
}

func (f *memUserRepo) GetByUsername(_ context.Context, username string) (*entity.User, error) {
	for i := range f.items {
		if f.items[i].Username == username {
			u := f.items[i]
			return &u, nil
		}
	}
	return nil, nil
}

func (f *memUserRepo) GetByEmail(_ context.Context, email string) (*entity.User, error) {
	for i := range f.items {
		if strings.EqualFold(f.items[i].Email, email) {
			u := f.items[i]
			return &u, nil
		}
	}
	return nil, nil
}

func (f *memUserRepo) ExistsUsername(_ context.Context, _ string, _ int64) (bool, error) {
	return false, nil
}
func (f *memUserRepo) ExistsEmail(_ context.Context, _ string, _ int64) (bool, error) {
	return false, nil
}
func (f *memUserRepo) ExistsPhone(_ context.Context, _ string, _ int64) (bool, error) {
	return false, nil
}

func (f *memUserRepo) Update(_ context.Context, u *entity.User) error {
	for i := range f.items {
		if f.items[i].ID == u.ID {
			f.items[i] = *u
			return nil
		}
	}
	return nil
}

func (f *memUserRepo) Delete(_ context.Context, _ int64) error { return nil }

func (f *memUserRepo) Search(_ context.Context, _ search.Filter, _ search.Order, _, _ int) ([]entity.User, error) {
	return f.items, nil
}

func (f *memUserRepo) Count(_ context.Context, _ search.Filter) (int64, error) {
	return int64(len(f.items)), nil
}

func (f *memUserRepo) CreateResetToken(_ context.Context, userID int64, token string, _ time.Time) error {
	if f.tokens == nil {
		f.tokens = map[string]int64{}
	}
	f.tokens[token] = userID
	return nil
}

func (f *memUserRepo) ConsumeResetToken(_ context.Context, token string) (int64, error) {
	id, ok := f.tokens[token]
	if !ok {
		return 0, domain.ErrNotFound
	}
	delete(f.tokens, token)
	return id, nil
}

type memTx struct{ users *memUserRepo }

func (t *memTx) Products() repository.ProductRepository   { return nil }
func (t *memTx) Suppliers() repository.SupplierRepository { return nil }
func (t *memTx) Relations() repository.RelationRepository { return nil }
func (t *memTx) Movements() repository.MovementRepository { return nil }
func (t *memTx) Users() repository.UserRepository         { return t.users }

type memTxRunner struct{ tx *memTx }

func (r *memTxRunner) Run(_ context.Context, fn func(tx repository.Tx) error) error {
	snapshot := append([]entity.User(nil), r.tx.users.items...)
	tokens := map[string]int64{}
	for k, v := range r.tx.users.tokens {
		tokens[k] = v
	}
	err := fn(r.tx)
	if err != nil {
		r.tx.users.items = snapshot
		r.tx.users.tokens = tokens
	}
	return err
}

type memMailer struct {
	resets    []string
	failReset bool
}

func (m *memMailer) SendInvite(_ context.Context, _, _, _, _, _ string) error { return nil }

func (m *memMailer) SendPasswordReset(_ context.Context, to, _, token string) error {
	if m.failReset {
		return errors.New("smtp caído")
	}
	m.resets = append(m.resets, to+":"+token)
	return nil
}

const goodPassword = "Caramelo#2026ok"

func newAuthUC(t *testing.T, users ...entity.User) (*UseCase, *memUserRepo, *memMailer) {
	t.Helper()
	repo := &memUserRepo{items: users}
	mailer := &memMailer{}
	cfg := config.JWTConfig{Secret: "clave-de-prueba-bien-larga", Expiration: 60, Issuer: "test"}
	return NewUseCase(repo, &memTxRunner{tx: &memTx{users: repo}}, mailer, cfg, logger.Nop()), repo, mailer
}

func seedUser(t *testing.T, pass string, mutate func(*entity.User)) entity.User {
	t.Helper()
	hash, err := password.Hash(pass)
	require.NoError(t, err)
	u := entity.User{
		ID:           1,
		Username:     "jperez",
		Email:        "jperez@lilis.cl",
		FirstName:    "Juana",
		LastName:     "Pérez",
		PasswordHash: hash,
		Role:         entity.RoleVentas,
		Status:       entity.StatusActive,
	}
	if mutate != nil {
		mutate(&u)
	}
	return u
}

func TestLogin(t *testing.T) {
	uc, repo, _ := newAuthUC(t, seedUser(t, goodPassword, nil))

	out, err := uc.Login(context.Background(), dto.LoginRequest{Username: "jperez", Password: goodPassword})
	require.NoError(t, err)
	assert.NotEmpty(t, out.Token)
	assert.False(t, out.MustChangePassword)
	assert.Equal(t, "jperez", out.User.Username)

	// El token lleva la identidad completa para la puerta de roles.
	sess, err := jwt.Parse("clave-de-prueba-bien-larga", out.Token)
	require.NoError(t, err)
	assert.Equal(t, int64(1), sess.UserID)
	assert.Equal(t, entity.RoleVentas, sess.Role)

	require.NotNil(t, repo.items[0].LastLogin)
}

func TestLoginBadCredentials(t *testing.T) {
	uc, _, _ := newAuthUC(t, seedUser(t, goodPassword, nil))

	_, err := uc.Login(context.Background(), dto.LoginRequest{Username: "jperez", Password: "mala"})
	assert.ErrorIs(t, err, domain.ErrUnauthorized)

	// Usuario inexistente responde igual que credencial mala.
	_, err = uc.Login(context.Background(), dto.LoginRequest{Username: "nadie", Password: goodPassword})
	assert.ErrorIs(t, err, domain.ErrUnauthorized)
}

func TestLoginInactive(t *testing.T) {
	for _, status := range []string{entity.StatusInactive, entity.StatusBlocked} {
		uc, _, _ := newAuthUC(t, seedUser(t, goodPassword, func(u *entity.User) { u.Status = status }))
		_, err := uc.Login(context.Background(), dto.LoginRequest{Username: "jperez", Password: goodPassword})
		assert.ErrorIs(t, err, domain.ErrInactiveUser, status)
	}
}

func TestLoginFirstAccessFlag(t *testing.T) {
	uc, _, _ := newAuthUC(t, seedUser(t, goodPassword, func(u *entity.User) {
		u.MustChangePassword = true
		u.InviteCode = "A1B2C3D4"
	}))

	out, err := uc.Login(context.Background(), dto.LoginRequest{Username: "jperez", Password: goodPassword})
	require.NoError(t, err)
	assert.True(t, out.MustChangePassword)
}

func TestChangePassword(t *testing.T) {
	uc, repo, _ := newAuthUC(t, seedUser(t, goodPassword, nil))

	err := uc.ChangePassword(context.Background(), 1, dto.ChangePasswordRequest{
		OldPassword: goodPassword,
		NewPassword: "OtraClave#2026x",
	})
	require.NoError(t, err)
	assert.True(t, password.Compare(repo.items[0].PasswordHash, "OtraClave#2026x"))
}

func TestChangePasswordWrongOld(t *testing.T) {
	uc, _, _ := newAuthUC(t, seedUser(t, goodPassword, nil))

	err := uc.ChangePassword(context.Background(), 1, dto.ChangePasswordRequest{
		OldPassword: "equivocada",
		NewPassword: "OtraClave#2026x",
	})
	verr, ok := domain.AsValidation(err)
	require.True(t, ok)
	assert.Contains(t, verr, "old_password")
}

func TestChangePasswordWeak(t *testing.T) {
	uc, _, _ := newAuthUC(t, seedUser(t, goodPassword, nil))

	err := uc.ChangePassword(context.Background(), 1, dto.ChangePasswordRequest{
		OldPassword: goodPassword,
		NewPassword: "corta1!",
	})
	verr, ok := domain.AsValidation(err)
	require.True(t, ok)
	assert.Contains(t, verr, "new_password")
}

func TestChangePasswordFirstAccessCode(t *testing.T) {
	uc, repo, _ := newAuthUC(t, seedUser(t, goodPassword, func(u *entity.User) {
		u.MustChangePassword = true
		u.InviteCode = "A1B2C3D4"
	}))

	// Sin código o con código equivocado no pasa.
	err := uc.ChangePassword(context.Background(), 1, dto.ChangePasswordRequest{
		OldPassword: goodPassword, NewPassword: "OtraClave#2026x",
	})
	assert.ErrorIs(t, err, domain.ErrInvalidInviteCode)

	err = uc.ChangePassword(context.Background(), 1, dto.ChangePasswordRequest{
		OldPassword: goodPassword, NewPassword: "OtraClave#2026x", InviteCode: "XXXXXXXX",
	})
	assert.ErrorIs(t, err, domain.ErrInvalidInviteCode)

	// El código es case-insensitive y el cambio consume flag y código.
	err = uc.ChangePassword(context.Background(), 1, dto.ChangePasswordRequest{
		OldPassword: goodPassword, NewPassword: "OtraClave#2026x", InviteCode: "a1b2c3d4",
	})
	require.NoError(t, err)
	assert.False(t, repo.items[0].MustChangePassword)
	assert.Empty(t, repo.items[0].InviteCode)
}

func TestRequestReset(t *testing.T) {
	uc, repo, mailer := newAuthUC(t, seedUser(t, goodPassword, nil))

	require.NoError(t, uc.RequestReset(context.Background(), dto.PasswordResetRequest{Email: "jperez@lilis.cl"}))
	require.Len(t, mailer.resets, 1)
	require.Len(t, repo.tokens, 1)
}

func TestRequestResetUnknownEmail(t *testing.T) {
	uc, repo, mailer := newAuthUC(t, seedUser(t, goodPassword, nil))

	// Sin revelar si el email existe: misma respuesta, ningún despacho.
	require.NoError(t, uc.RequestReset(context.Background(), dto.PasswordResetRequest{Email: "nadie@lilis.cl"}))
	assert.Empty(t, mailer.resets)
	assert.Empty(t, repo.tokens)
}

func TestRequestResetMailFailureRollsBack(t *testing.T) {
	uc, repo, mailer := newAuthUC(t, seedUser(t, goodPassword, nil))
	mailer.failReset = true

	err := uc.RequestReset(context.Background(), dto.PasswordResetRequest{Email: "jperez@lilis.cl"})
	assert.ErrorIs(t, err, domain.ErrMailDispatch)
	assert.Empty(t, repo.tokens)
}

func TestConfirmReset(t *testing.T) {
	uc, repo, mailer := newAuthUC(t, seedUser(t, goodPassword, nil))

	require.NoError(t, uc.RequestReset(context.Background(), dto.PasswordResetRequest{Email: "jperez@lilis.cl"}))
	require.Len(t, mailer.resets, 1)
	token := strings.SplitN(mailer.resets[0], ":", 2)[1]

	err := uc.ConfirmReset(context.Background(), dto.PasswordResetConfirm{
		Token: token, NewPassword: "OtraClave#2026x",
	})
	require.NoError(t, err)
	assert.True(t, password.Compare(repo.items[0].PasswordHash, "OtraClave#2026x"))

	// El token es de un solo uso.
	err = uc.ConfirmReset(context.Background(), dto.PasswordResetConfirm{
		Token: token, NewPassword: "OtraClave#2026x",
	})
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestConfirmResetBadToken(t *testing.T) {
	uc, _, _ := newAuthUC(t, seedUser(t, goodPassword, nil))

	err := uc.ConfirmReset(context.Background(), dto.PasswordResetConfirm{
		Token: "no-existe", NewPassword: "OtraClave#2026x",
	})
	assert.ErrorIs(t, err, domain.ErrNotFound)
}
