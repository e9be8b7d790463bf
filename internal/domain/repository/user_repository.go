package repository

import (
	"context"
	"time"

	"github.com/dulceria-lilis/erp-api/internal/domain/entity"
	"github.com/dulceria-lilis/erp-api/internal/domain/search"
)

// UserRepository puerto de persistencia para User.
// Los Exists* excluyen excludeID (0 = sin exclusión) para validar unicidad en
// updates sin chocar con el propio registro.
type UserRepository interface {
	Create(ctx context.Context, u *entity.User) (int64, error)
	GetByID(ctx context.Context, id int64) (*entity.User, error)
	GetByUsername(ctx context.Context, username string) (*entity.User, error)
	GetByEmail(ctx context.Context, email string) (*entity.User, error)
	ExistsUsername(ctx context.Context, username string, excludeID int64) (bool, error)
	ExistsEmail(ctx context.Context, email string, excludeID int64) (bool, error)
	ExistsPhone(ctx context.Context, phone string, excludeID int64) (bool, error)
	Update(ctx context.Context, u *entity.User) error
	Delete(ctx context.Context, id int64) error
	Search(ctx context.Context, flt search.Filter, order search.Order, limit, offset int) ([]entity.User, error)
	Count(ctx context.Context, flt search.Filter) (int64, error)

	// Tokens de reset de contraseña, de un solo uso.
	CreateResetToken(ctx context.Context, userID int64, token string, expires time.Time) error
	ConsumeResetToken(ctx context.Context, token string) (int64, error)
}
