package usecase

import (
	"bytes"
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/dulceria-lilis/erp-api/internal/application/dto"
	"github.com/dulceria-lilis/erp-api/internal/application/export"
	"github.com/dulceria-lilis/erp-api/internal/application/listing"
	"github.com/dulceria-lilis/erp-api/internal/application/ports"
	"github.com/dulceria-lilis/erp-api/internal/domain"
	"github.com/dulceria-lilis/erp-api/internal/domain/authz"
	"github.com/dulceria-lilis/erp-api/internal/domain/entity"
	"github.com/dulceria-lilis/erp-api/internal/domain/repository"
	"github.com/dulceria-lilis/erp-api/internal/domain/search"
	"github.com/dulceria-lilis/erp-api/internal/domain/validate"
	"github.com/dulceria-lilis/erp-api/pkg/logger"
	"github.com/dulceria-lilis/erp-api/pkg/password"
)

// UserFilters filtros propios del listado de usuarios.
type UserFilters struct {
	Rol    string
	Estado string // activo | inactivo | bloqueado
}

// UserUseCase gestión de cuentas. Todas las operaciones asumen que el actor
// ya pasó la puerta de administración; acá solo quedan las protecciones
// contra la propia cuenta y contra cuentas privilegiadas.
type UserUseCase struct {
	repo     repository.UserRepository
	txRunner repository.TxRunner
	mailer   ports.Mailer
	log      *logger.Logger
}

// NewUserUseCase construye el caso de uso.
func NewUserUseCase(repo repository.UserRepository, txRunner repository.TxRunner, mailer ports.Mailer, log *logger.Logger) *UserUseCase {
	return &UserUseCase{repo: repo, txRunner: txRunner, mailer: mailer, log: log}
}

// Create provisiona una cuenta nueva: genera contraseña temporal y código de
// verificación, los despacha por correo y fuerza el cambio al primer acceso.
// El despacho ocurre dentro de la transacción: si el correo no sale, el alta
// no queda.
func (uc *UserUseCase) Create(ctx context.Context, in dto.CreateUserRequest) (*dto.UserResponse, error) {
	errs := domain.ValidationError{}

	username := strings.TrimSpace(in.Username)
	if username == "" {
		errs.Add("username", "Username obligatorio.")
	}
	if in.Email == "" {
		errs.Add("email", "Email obligatorio.")
	} else if !validate.Email(in.Email) {
		errs.Add("email", "Email con formato inválido.")
	}
	if strings.TrimSpace(in.Nombres) == "" {
		errs.Add("first_name", "Nombres obligatorios.")
	}
	if strings.TrimSpace(in.Apellidos) == "" {
		errs.Add("last_name", "Apellidos obligatorios.")
	}
	if in.Telefono == "" {
		errs.Add("telefono", "Teléfono obligatorio.")
	} else if !validate.Phone(in.Telefono) {
		errs.Add("telefono", "Teléfono con formato inválido.")
	}
	if !entity.ValidRole(in.Rol) {
		errs.Add("rol", "Rol inválido.")
	}
	if err := uc.checkUniqueness(ctx, errs, username, in.Email, in.Telefono, 0); err != nil {
		return nil, err
	}
	if len(errs) > 0 {
		return nil, errs
	}

	tempPass, err := password.Temporary()
	if err != nil {
		return nil, err
	}
	code, err := password.InviteCode()
	if err != nil {
		return nil, err
	}
	hash, err := password.Hash(tempPass)
	if err != nil {
		return nil, err
	}

	now := time.Now()
	u := &entity.User{
		Username:           username,
		Email:              in.Email,
		FirstName:          strings.TrimSpace(in.Nombres),
		LastName:           strings.TrimSpace(in.Apellidos),
		Phone:              in.Telefono,
		PasswordHash:       hash,
		Role:               in.Rol,
		Status:             entity.StatusActive,
		MFAEnabled:         in.MFAHabilitado,
		MustChangePassword: true,
		InviteCode:         code,
		CreatedAt:          now,
		UpdatedAt:          now,
	}
	err = uc.txRunner.Run(ctx, func(tx repository.Tx) error {
		id, err := tx.Users().Create(ctx, u)
		if err != nil {
			return err
		}
		u.ID = id
		if err := uc.mailer.SendInvite(ctx, u.Email, u.FullName(), u.Username, tempPass, code); err != nil {
			uc.log.Error().Err(err).Str("email", u.Email).Msg("usuarios: falló el correo de invitación, se revierte el alta")
			return fmt.Errorf("%w: %v", domain.ErrMailDispatch, err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return toUserResponse(u), nil
}

// GetByID obtiene un usuario.
func (uc *UserUseCase) GetByID(ctx context.Context, id int64) (*dto.UserResponse, error) {
	u, err := uc.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if u == nil {
		return nil, domain.ErrUserNotFound
	}
	return toUserResponse(u), nil
}

// Update edición de usuario. Si trae contraseña, queda sujeta a la política
// fuerte y su cambio levanta el flag de cambio forzado.
func (uc *UserUseCase) Update(ctx context.Context, id int64, in dto.UpdateUserRequest) (*dto.UserResponse, error) {
	u, err := uc.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if u == nil {
		return nil, domain.ErrUserNotFound
	}

	errs := domain.ValidationError{}
	if in.Username != nil {
		if strings.TrimSpace(*in.Username) == "" {
			errs.Add("username", "Username obligatorio.")
		} else {
			u.Username = strings.TrimSpace(*in.Username)
		}
	}
	if in.Email != nil {
		if !validate.Email(*in.Email) {
			errs.Add("email", "Email con formato inválido.")
		} else {
			u.Email = *in.Email
		}
	}
	if in.Nombres != nil {
		u.FirstName = strings.TrimSpace(*in.Nombres)
	}
	if in.Apellidos != nil {
		u.LastName = strings.TrimSpace(*in.Apellidos)
	}
	if in.Telefono != nil {
		if !validate.Phone(*in.Telefono) {
			errs.Add("telefono", "Teléfono con formato inválido.")
		} else {
			u.Phone = *in.Telefono
		}
	}
	if in.Rol != nil {
		if !entity.ValidRole(*in.Rol) {
			errs.Add("rol", "Rol inválido.")
		} else {
			u.Role = *in.Rol
		}
	}
	if in.MFAHabilitado != nil {
		u.MFAEnabled = *in.MFAHabilitado
	}
	if in.Password != nil {
		if msgs := password.Validate(*in.Password); len(msgs) > 0 {
			errs.Add("password", strings.Join(msgs, " "))
		} else {
			hash, err := password.Hash(*in.Password)
			if err != nil {
				return nil, err
			}
			u.PasswordHash = hash
			u.MustChangePassword = false
			u.InviteCode = ""
		}
	}
	if err := uc.checkUniqueness(ctx, errs, u.Username, u.Email, u.Phone, id); err != nil {
		return nil, err
	}
	if len(errs) > 0 {
		return nil, errs
	}

	u.UpdatedAt = time.Now()
	err = uc.txRunner.Run(ctx, func(tx repository.Tx) error {
		return tx.Users().Update(ctx, u)
	})
	if err != nil {
		return nil, err
	}
	return toUserResponse(u), nil
}

// Delete elimina una cuenta. Nadie se elimina a sí mismo, y a un
// administrador o superusuario solo lo elimina un superusuario.
func (uc *UserUseCase) Delete(ctx context.Context, actor authz.Principal, id int64) error {
	u, err := uc.guardTarget(ctx, actor, id)
	if err != nil {
		return err
	}
	return uc.txRunner.Run(ctx, func(tx repository.Tx) error {
		return tx.Users().Delete(ctx, u.ID)
	})
}

// Deactivate pasa la cuenta a estado inactivo.
func (uc *UserUseCase) Deactivate(ctx context.Context, actor authz.Principal, id int64) error {
	return uc.setStatus(ctx, actor, id, entity.StatusInactive)
}

// Reactivate vuelve la cuenta a estado activo.
func (uc *UserUseCase) Reactivate(ctx context.Context, actor authz.Principal, id int64) error {
	return uc.setStatus(ctx, actor, id, entity.StatusActive)
}

// Block pasa la cuenta a estado bloqueado.
func (uc *UserUseCase) Block(ctx context.Context, actor authz.Principal, id int64) error {
	return uc.setStatus(ctx, actor, id, entity.StatusBlocked)
}

// List búsqueda + orden + paginación de usuarios.
func (uc *UserUseCase) List(ctx context.Context, p listing.Params, f UserFilters) *dto.UserListResponse {
	res := listing.Run(ctx, uc.log, search.Users, p, uc.filter(p.Query, f), uc.source())
	items := make([]dto.UserResponse, 0, len(res.Items))
	for i := range res.Items {
		items = append(items, *toUserResponse(&res.Items[i]))
	}
	return &dto.UserListResponse{Items: items, Page: dto.PageMeta(res.Meta)}
}

// ExportXLSX planilla con el conjunto completo de usuarios filtrado.
func (uc *UserUseCase) ExportXLSX(ctx context.Context, p listing.Params, f UserFilters) (*bytes.Buffer, string, error) {
	rows, err := listing.Export(ctx, uc.log, search.Users, p.Sort, uc.filter(p.Query, f), uc.source())
	if err != nil {
		return nil, "", err
	}
	headers := []string{"ID", "Username", "Email", "Nombres", "Apellidos", "Teléfono", "Rol", "Estado", "Superusuario", "MFA", "Último acceso"}
	data := make([][]any, 0, len(rows))
	for i := range rows {
		u := &rows[i]
		last := ""
		if u.LastLogin != nil {
			last = u.LastLogin.Format("2006-01-02 15:04")
		}
		data = append(data, []any{
			u.ID, u.Username, u.Email, u.FirstName, u.LastName, u.Phone,
			u.Role, u.Status, boolSiNo(u.IsSuperuser), boolSiNo(u.MFAEnabled), last,
		})
	}
	buf, err := export.Workbook(search.Users.Entity, headers, data)
	if err != nil {
		return nil, "", err
	}
	return buf, export.Filename("usuarios", time.Now()), nil
}

func (uc *UserUseCase) setStatus(ctx context.Context, actor authz.Principal, id int64, status string) error {
	u, err := uc.guardTarget(ctx, actor, id)
	if err != nil {
		return err
	}
	u.Status = status
	u.UpdatedAt = time.Now()
	return uc.txRunner.Run(ctx, func(tx repository.Tx) error {
		return tx.Users().Update(ctx, u)
	})
}

// guardTarget carga el objetivo y aplica las protecciones: nunca sobre la
// propia cuenta, y las cuentas admin/superusuario solo las toca un
// superusuario.
func (uc *UserUseCase) guardTarget(ctx context.Context, actor authz.Principal, id int64) (*entity.User, error) {
	if actor.ID == id {
		return nil, domain.ErrSelfAction
	}
	u, err := uc.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if u == nil {
		return nil, domain.ErrUserNotFound
	}
	if (u.IsSuperuser || u.Role == entity.RoleAdmin) && !actor.IsSuperuser {
		return nil, domain.ErrProtectedUser
	}
	return u, nil
}

func (uc *UserUseCase) checkUniqueness(ctx context.Context, errs domain.ValidationError, username, email, phone string, excludeID int64) error {
	if username != "" {
		taken, err := uc.repo.ExistsUsername(ctx, username, excludeID)
		if err != nil {
			return err
		}
		if taken {
			errs.Add("username", "Ese username ya está en uso.")
		}
	}
	if email != "" {
		taken, err := uc.repo.ExistsEmail(ctx, email, excludeID)
		if err != nil {
			return err
		}
		if taken {
			errs.Add("email", "Ese email ya está registrado.")
		}
	}
	if phone != "" {
		taken, err := uc.repo.ExistsPhone(ctx, phone, excludeID)
		if err != nil {
			return err
		}
		if taken {
			errs.Add("telefono", "Ese teléfono ya está registrado.")
		}
	}
	return nil
}

func (uc *UserUseCase) filter(q string, f UserFilters) search.Filter {
	flt := search.BuildPredicate(search.Users, q)
	if entity.ValidRole(f.Rol) {
		flt.And("u.rol = ?", f.Rol)
	}
	switch f.Estado {
	case entity.StatusActive, entity.StatusInactive, entity.StatusBlocked:
		flt.And("u.estado = ?", f.Estado)
	}
	return flt
}

func (uc *UserUseCase) source() listing.Source[entity.User] {
	return listing.Source[entity.User]{Search: uc.repo.Search, Count: uc.repo.Count}
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
