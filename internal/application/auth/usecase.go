// Package auth implementa autenticación: login con JWT, cambio de contraseña
// con verificación del primer acceso y restablecimiento por token de un solo uso.
package auth

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/dulceria-lilis/erp-api/internal/application/dto"
	"github.com/dulceria-lilis/erp-api/internal/application/ports"
	"github.com/dulceria-lilis/erp-api/internal/domain"
	"github.com/dulceria-lilis/erp-api/internal/domain/entity"
	"github.com/dulceria-lilis/erp-api/internal/domain/repository"
	"github.com/dulceria-lilis/erp-api/pkg/config"
	"github.com/dulceria-lilis/erp-api/pkg/jwt"
	"github.com/dulceria-lilis/erp-api/pkg/logger"
	"github.com/dulceria-lilis/erp-api/pkg/password"
)

// resetTokenTTL vigencia del token de restablecimiento.
const resetTokenTTL = 30 * time.Minute

// UseCase casos de uso de autenticación.
type UseCase struct {
	users    repository.UserRepository
	txRunner repository.TxRunner
	mailer   ports.Mailer
	jwtCfg   config.JWTConfig
	log      *logger.Logger
}

// NewUseCase construye el caso de uso.
func NewUseCase(users repository.UserRepository, txRunner repository.TxRunner, mailer ports.Mailer, jwtCfg config.JWTConfig, log *logger.Logger) *UseCase {
	return &UseCase{users: users, txRunner: txRunner, mailer: mailer, jwtCfg: jwtCfg, log: log}
}

// Login valida credenciales y emite el token. Cuentas inactivas o bloqueadas
// no entran aunque la contraseña sea correcta. Credencial mala y usuario
// inexistente responden igual, sin revelar cuál de los dos falló.
func (uc *UseCase) Login(ctx context.Context, in dto.LoginRequest) (*dto.LoginResponse, error) {
	u, err := uc.users.GetByUsername(ctx, strings.TrimSpace(in.Username))
	if err != nil {
		return nil, err
	}
	if u == nil || !password.Compare(u.PasswordHash, in.Password) {
		return nil, domain.ErrUnauthorized
	}
	if u.Status != entity.StatusActive {
		return nil, domain.ErrInactiveUser
	}

	now := time.Now()
	u.LastLogin = &now
	err = uc.txRunner.Run(ctx, func(tx repository.Tx) error {
		return tx.Users().Update(ctx, u)
	})
	if err != nil {
		// El acceso no se cae por no poder asentar el último login.
		uc.log.Warn().Err(err).Str("username", u.Username).Msg("auth: no se pudo registrar el último acceso")
	}

	token, err := jwt.Generate(uc.jwtCfg.Secret, u.ID, u.Username, u.Role, u.IsSuperuser, uc.jwtCfg.Issuer, uc.jwtCfg.Expiration)
	if err != nil {
		return nil, err
	}
	return &dto.LoginResponse{
		Token:              token,
		User:               *toUserResponse(u),
		MustChangePassword: u.MustChangePassword,
	}, nil
}

// ChangePassword cambio autenticado. En el primer acceso forzado exige además
// el código de verificación enviado en la invitación; el cambio exitoso
// levanta el flag y consume el código.
func (uc *UseCase) ChangePassword(ctx context.Context, userID int64, in dto.ChangePasswordRequest) error {
	u, err := uc.users.GetByID(ctx, userID)
	if err != nil {
		return err
	}
	if u == nil {
		return domain.ErrUserNotFound
	}
	if !password.Compare(u.PasswordHash, in.OldPassword) {
		return domain.ValidationError{"old_password": "La contraseña actual no coincide."}
	}
	if u.MustChangePassword {
		if in.InviteCode == "" || !strings.EqualFold(in.InviteCode, u.InviteCode) {
			return domain.ErrInvalidInviteCode
		}
	}
	if msgs := password.Validate(in.NewPassword); len(msgs) > 0 {
		return domain.ValidationError{"new_password": strings.Join(msgs, " ")}
	}

	hash, err := password.Hash(in.NewPassword)
	if err != nil {
		return err
	}
	u.PasswordHash = hash
	u.MustChangePassword = false
	u.InviteCode = ""
	u.UpdatedAt = time.Now()
	return uc.txRunner.Run(ctx, func(tx repository.Tx) error {
		return tx.Users().Update(ctx, u)
	})
}

// RequestReset emite un token de restablecimiento y lo despacha por correo.
// Responde igual exista o no la cuenta, para no revelar qué emails están
// registrados; si el correo no sale, eso sí es un error visible.
func (uc *UseCase) RequestReset(ctx context.Context, in dto.PasswordResetRequest) error {
	u, err := uc.users.GetByEmail(ctx, strings.TrimSpace(in.Email))
	if err != nil {
		return err
	}
	if u == nil {
		uc.log.Info().Str("email", in.Email).Msg("auth: reset solicitado para email no registrado")
		return nil
	}

	token := uuid.NewString()
	return uc.txRunner.Run(ctx, func(tx repository.Tx) error {
		if err := tx.Users().CreateResetToken(ctx, u.ID, token, time.Now().Add(resetTokenTTL)); err != nil {
			return err
		}
		if err := uc.mailer.SendPasswordReset(ctx, u.Email, u.FullName(), token); err != nil {
			return fmt.Errorf("%w: %v", domain.ErrMailDispatch, err)
		}
		return nil
	})
}

// ConfirmReset canjea un token vigente por una contraseña nueva. La política
// se valida antes de consumir el token, que es de un solo uso.
func (uc *UseCase) ConfirmReset(ctx context.Context, in dto.PasswordResetConfirm) error {
	if msgs := password.Validate(in.NewPassword); len(msgs) > 0 {
		return domain.ValidationError{"new_password": strings.Join(msgs, " ")}
	}
	hash, err := password.Hash(in.NewPassword)
	if err != nil {
		return err
	}
	return uc.txRunner.Run(ctx, func(tx repository.Tx) error {
		userID, err := tx.Users().ConsumeResetToken(ctx, in.Token)
		if err != nil {
			return err
		}
		u, err := tx.Users().GetByID(ctx, userID)
		if err != nil {
			return err
		}
		if u == nil {
			return domain.ErrUserNotFound
		}
		u.PasswordHash = hash
		u.MustChangePassword = false
		u.InviteCode = ""
		u.UpdatedAt = time.Now()
		return tx.Users().Update(ctx, u)
	})
}

// Me devuelve el perfil del usuario autenticado.
func (uc *UseCase) Me(ctx context.Context, userID int64) (*dto.UserResponse, error) {
	u, err := uc.users.GetByID(ctx, userID)
	if err != nil {
		return nil, err
	}
	if u == nil {
		return nil, domain.ErrUserNotFound
	}
	return toUserResponse(u), nil
}

func toUserResponse(u *entity.User) *dto.UserResponse {
	return &dto.UserResponse{
		ID:            u.ID,
		Username:      u.Username,
		Email:         u.Email,
		Nombres:       u.FirstName,
		Apellidos:     u.LastName,
		Telefono:      u.Phone,
		Rol:           u.Role,
		Estado:        u.Status,
		Superusuario:  u.IsSuperuser,
		MFAHabilitado: u.MFAEnabled,
		UltimoAcceso:  u.LastLogin,
		CreatedAt:     u.CreatedAt,
	}
}
