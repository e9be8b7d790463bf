package postgres

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"

	"github.com/dulceria-lilis/erp-api/internal/domain"
	"github.com/dulceria-lilis/erp-api/internal/domain/entity"
	"github.com/dulceria-lilis/erp-api/internal/domain/repository"
	"github.com/dulceria-lilis/erp-api/internal/domain/search"
)

var _ repository.UserRepository = (*UserRepo)(nil)

// El alias u es parte del contrato con search.Users.
const userSelect = `
	SELECT u.id, u.username, u.email, u.first_name, u.last_name, u.telefono,
	       u.password_hash, u.rol, u.is_superuser, u.estado, u.mfa_habilitado,
	       u.must_change_password, u.invite_code, u.last_login, u.created_at, u.updated_at
	FROM usuarios u`

const userCount = `SELECT COUNT(*) FROM usuarios u`

// UserRepo implementación del puerto UserRepository sobre PostgreSQL (usable con pool o tx).
type UserRepo struct {
	q Querier
}

// NewUserRepository construye el adaptador. Pasar pool o tx (Querier).
func NewUserRepository(q Querier) *UserRepo {
	return &UserRepo{q: q}
}

// Create persiste un usuario nuevo y devuelve el id asignado.
func (r *UserRepo) Create(ctx context.Context, u *entity.User) (int64, error) {
	query := `
		INSERT INTO usuarios (username, email, first_name, last_name, telefono, password_hash,
			rol, is_superuser, estado, mfa_habilitado, must_change_password, invite_code,
			last_login, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15)
		RETURNING id`
	var id int64
	err := r.q.QueryRow(ctx, query,
		u.Username, u.Email, u.FirstName, u.LastName, u.Phone, u.PasswordHash,
		u.Role, u.IsSuperuser, u.Status, u.MFAEnabled, u.MustChangePassword, u.InviteCode,
		u.LastLogin, u.CreatedAt, u.UpdatedAt,
	).Scan(&id)
	if err != nil {
		if isUniqueViolation(err) {
			return 0, domain.ErrDuplicate
		}
		return 0, fmt.Errorf("insert usuario: %w", err)
	}
	return id, nil
}

// GetByID obtiene un usuario por ID.
func (r *UserRepo) GetByID(ctx context.Context, id int64) (*entity.User, error) {
	return r.getOne(ctx, userSelect+" WHERE u.id = $1", id)
}

// GetByUsername obtiene un usuario por username exacto.
func (r *UserRepo) GetByUsername(ctx context.Context, username string) (*entity.User, error) {
	return r.getOne(ctx, userSelect+" WHERE u.username = $1", username)
}

// GetByEmail obtiene un usuario por email (case-insensitive).
func (r *UserRepo) GetByEmail(ctx context.Context, email string) (*entity.User, error) {
	return r.getOne(ctx, userSelect+" WHERE LOWER(u.email) = LOWER($1)", email)
}

// ExistsUsername indica si el username ya está tomado por otro usuario.
func (r *UserRepo) ExistsUsername(ctx context.Context, username string, excludeID int64) (bool, error) {
	return r.exists(ctx, `SELECT EXISTS (SELECT 1 FROM usuarios WHERE username = $1 AND id <> $2)`, username, excludeID)
}

// ExistsEmail indica si el email ya está registrado por otro usuario.
func (r *UserRepo) ExistsEmail(ctx context.Context, email string, excludeID int64) (bool, error) {
	return r.exists(ctx, `SELECT EXISTS (SELECT 1 FROM usuarios WHERE LOWER(email) = LOWER($1) AND id <> $2)`, email, excludeID)
}

// ExistsPhone indica si el teléfono ya está registrado por otro usuario.
func (r *UserRepo) ExistsPhone(ctx context.Context, phone string, excludeID int64) (bool, error) {
	return r.exists(ctx, `SELECT EXISTS (SELECT 1 FROM usuarios WHERE telefono = $1 AND id <> $2)`, phone, excludeID)
}

// Update actualiza un usuario existente.
func (r *UserRepo) Update(ctx context.Context, u *entity.User) error {
	query := `
		UPDATE usuarios SET username = $2, email = $3, first_name = $4, last_name = $5,
			telefono = $6, password_hash = $7, rol = $8, is_superuser = $9, estado = $10,
			mfa_habilitado = $11, must_change_password = $12, invite_code = $13,
			last_login = $14, updated_at = $15
		WHERE id = $1`
	cmd, err := r.q.Exec(ctx, query,
		u.ID, u.Username, u.Email, u.FirstName, u.LastName, u.Phone, u.PasswordHash,
		u.Role, u.IsSuperuser, u.Status, u.MFAEnabled, u.MustChangePassword, u.InviteCode,
		u.LastLogin, u.UpdatedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return domain.ErrDuplicate
		}
		return fmt.Errorf("update usuario: %w", err)
	}
	if cmd.RowsAffected() == 0 {
		return domain.ErrUserNotFound
	}
	return nil
}

// Delete elimina un usuario por ID.
func (r *UserRepo) Delete(ctx context.Context, id int64) error {
	cmd, err := r.q.Exec(ctx, `DELETE FROM usuarios WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete usuario: %w", err)
	}
	if cmd.RowsAffected() == 0 {
		return domain.ErrUserNotFound
	}
	return nil
}

// Search lista usuarios según el predicado y el orden ya validados.
func (r *UserRepo) Search(ctx context.Context, flt search.Filter, order search.Order, limit, offset int) ([]entity.User, error) {
	query, args := searchQuery(userSelect, flt, order, limit, offset)
	rows, err := r.q.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("search usuarios: %w", err)
	}
	defer rows.Close()

	var out []entity.User
	for rows.Next() {
		u, err := scanUser(rows)
		if err != nil {
			return nil, fmt.Errorf("scan usuario: %w", err)
		}
		out = append(out, *u)
	}
	return out, rows.Err()
}

// Count cuenta los usuarios que satisfacen el predicado.
func (r *UserRepo) Count(ctx context.Context, flt search.Filter) (int64, error) {
	query, args := countQuery(userCount, flt)
	var n int64
	if err := r.q.QueryRow(ctx, query, args...).Scan(&n); err != nil {
		return 0, fmt.Errorf("count usuarios: %w", err)
	}
	return n, nil
}

// CreateResetToken registra un token de restablecimiento con su vencimiento.
func (r *UserRepo) CreateResetToken(ctx context.Context, userID int64, token string, expires time.Time) error {
	_, err := r.q.Exec(ctx,
		`INSERT INTO password_resets (token, usuario_id, expires_at) VALUES ($1, $2, $3)`,
		token, userID, expires,
	)
	if err != nil {
		return fmt.Errorf("insert reset token: %w", err)
	}
	return nil
}

// ConsumeResetToken borra el token si está vigente y devuelve el usuario
// asociado. El DELETE condicionado lo hace de un solo uso sin carreras.
func (r *UserRepo) ConsumeResetToken(ctx context.Context, token string) (int64, error) {
	var userID int64
	err := r.q.QueryRow(ctx,
		`DELETE FROM password_resets WHERE token = $1 AND expires_at > now() RETURNING usuario_id`,
		token,
	).Scan(&userID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return 0, domain.ErrNotFound
		}
		return 0, fmt.Errorf("consume reset token: %w", err)
	}
	return userID, nil
}

func (r *UserRepo) getOne(ctx context.Context, query string, arg any) (*entity.User, error) {
	row := r.q.QueryRow(ctx, query, arg)
	u, err := scanUser(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get usuario: %w", err)
	}
	return u, nil
}

func (r *UserRepo) exists(ctx context.Context, query string, args ...any) (bool, error) {
	var ok bool
	if err := r.q.QueryRow(ctx, query, args...).Scan(&ok); err != nil {
		return false, fmt.Errorf("exists usuario: %w", err)
	}
	return ok, nil
}

func scanUser(row pgx.Row) (*entity.User, error) {
	var u entity.User
	err := row.Scan(
		&u.ID, &u.Username, &u.Email, &u.FirstName, &u.LastName, &u.Phone,
		&u.PasswordHash, &u.Role, &u.IsSuperuser, &u.Status, &u.MFAEnabled,
		&u.MustChangePassword, &u.InviteCode, &u.LastLogin, &u.CreatedAt, &u.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &u, nil
}
