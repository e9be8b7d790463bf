package usecase

import (
	"context"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"github.com/dulceria-lilis/erp-api/internal/domain/entity"
	"github.com/dulceria-lilis/erp-api/internal/domain/repository"
	"github.com/dulceria-lilis/erp-api/internal/domain/search"
)

// Fakes en memoria para los casos de uso. No interpretan SQL: Search devuelve
// lo almacenado respetando limit/offset, el comportamiento del predicado y el
// orden se prueba en los paquetes search y listing.

type fakeProductRepo struct {
	items  []entity.Product
	nextID int64
}

func (f *fakeProductRepo) Create(_ context.Context, p *entity.Product) (int64, error) {
	f.nextID++
	p.ID = f.nextID
	f.items = append(f.items, *p)
	return p.ID, nil
}

func (f *fakeProductRepo) GetByID(_ context.Context, id int64) (*entity.Product, error) {
	for i := range f.items {
		if f.items[i].ID == id {
			p := f.items[i]
			return &p, nil
		}
	}
	return nil, nil
}

func (f *fakeProductRepo) GetBySKU(_ context.Context, sku string) (*entity.Product, error) {
	for i := range f.items {
		if f.items[i].SKU == sku {
			p := f.items[i]
			return &p, nil
		}
	}
	return nil, nil
}

func (f *fakeProductRepo) Update(_ context.Context, p *entity.Product) error {
	for i := range f.items {
		if f.items[i].ID == p.ID {
			f.items[i] = *p
			return nil
		}
	}
	return nil
}

func (f *fakeProductRepo) Delete(_ context.Context, id int64) error {
	for i := range f.items {
		if f.items[i].ID == id {
			f.items = append(f.items[:i], f.items[i+1:]...)
			return nil
		}
	}
	return nil
}

func (f *fakeProductRepo) Search(_ context.Context, _ search.Filter, _ search.Order, limit, offset int) ([]entity.Product, error) {
	return page(f.items, limit, offset), nil
}

func (f *fakeProductRepo) Count(_ context.Context, _ search.Filter) (int64, error) {
	return int64(len(f.items)), nil
}

type fakeCategoryRepo struct {
	items []entity.Category
}

func (f *fakeCategoryRepo) GetByID(_ context.Context, id int64) (*entity.Category, error) {
	for i := range f.items {
		if f.items[i].ID == id {
			c := f.items[i]
			return &c, nil
		}
	}
	return nil, nil
}

func (f *fakeCategoryRepo) List(_ context.Context) ([]entity.Category, error) {
	return f.items, nil
}

type fakeSupplierRepo struct {
	items  []entity.Supplier
	nextID int64
}

func (f *fakeSupplierRepo) Create(_ context.Context, s *entity.Supplier) (int64, error) {
	f.nextID++
	s.ID = f.nextID
	f.items = append(f.items, *s)
	return s.ID, nil
}

func (f *fakeSupplierRepo) GetByID(_ context.Context, id int64) (*entity.Supplier, error) {
	for i := range f.items {
		if f.items[i].ID == id {
			s := f.items[i]
			return &s, nil
		}
	}
	return nil, nil
}

func (f *fakeSupplierRepo) GetByRUT(_ context.Context, rut string) (*entity.Supplier, error) {
	for i := range f.items {
		if f.items[i].RUT == rut {
			s := f.items[i]
			return &s, nil
		}
	}
	return nil, nil
}

func (f *fakeSupplierRepo) Update(_ context.Context, s *entity.Supplier) error {
	for i := range f.items {
		if f.items[i].ID == s.ID {
			f.items[i] = *s
			return nil
		}
	}
	return nil
}

func (f *fakeSupplierRepo) Delete(_ context.Context, id int64) error {
	for i := range f.items {
		if f.items[i].ID == id {
			f.items = append(f.items[:i], f.items[i+1:]...)
			return nil
		}
	}
	return nil
}

func (f *fakeSupplierRepo) Search(_ context.Context, _ search.Filter, _ search.Order, limit, offset int) ([]entity.Supplier, error) {
	return page(f.items, limit, offset), nil
}

func (f *fakeSupplierRepo) Count(_ context.Context, _ search.Filter) (int64, error) {
	return int64(len(f.items)), nil
}

type fakeRelationRepo struct {
	items  []entity.SupplierProduct
	nextID int64
}

func (f *fakeRelationRepo) Upsert(_ context.Context, rel *entity.SupplierProduct) (int64, error) {
	for i := range f.items {
		if f.items[i].SupplierID == rel.SupplierID && f.items[i].ProductID == rel.ProductID {
			rel.ID = f.items[i].ID
			f.items[i] = *rel
			return rel.ID, nil
		}
	}
	f.nextID++
	rel.ID = f.nextID
	f.items = append(f.items, *rel)
	return rel.ID, nil
}

func (f *fakeRelationRepo) Search(_ context.Context, _ search.Filter, _ search.Order, limit, offset int) ([]entity.SupplierProduct, error) {
	return page(f.items, limit, offset), nil
}

func (f *fakeRelationRepo) Count(_ context.Context, _ search.Filter) (int64, error) {
	return int64(len(f.items)), nil
}

type fakeMovementRepo struct {
	items  []entity.Movement
	nextID int64
}

func (f *fakeMovementRepo) Create(_ context.Context, m *entity.Movement) (int64, error) {
	f.nextID++
	m.ID = f.nextID
	f.items = append(f.items, *m)
	return m.ID, nil
}

func (f *fakeMovementRepo) GetByID(_ context.Context, id int64) (*entity.Movement, error) {
	for i := range f.items {
		if f.items[i].ID == id {
			m := f.items[i]
			return &m, nil
		}
	}
	return nil, nil
}

func (f *fakeMovementRepo) UpdateTypeAndQuantity(_ context.Context, id int64, movType string, qty decimal.Decimal) error {
	for i := range f.items {
		if f.items[i].ID == id {
			f.items[i].Type = movType
			f.items[i].Quantity = qty
			return nil
		}
	}
	return nil
}

func (f *fakeMovementRepo) Delete(_ context.Context, id int64) error {
	for i := range f.items {
		if f.items[i].ID == id {
			f.items = append(f.items[:i], f.items[i+1:]...)
			return nil
		}
	}
	return nil
}

func (f *fakeMovementRepo) Search(_ context.Context, _ search.Filter, _ search.Order, limit, offset int) ([]entity.Movement, error) {
	return page(f.items, limit, offset), nil
}

func (f *fakeMovementRepo) Count(_ context.Context, _ search.Filter) (int64, error) {
	return int64(len(f.items)), nil
}

func (f *fakeMovementRepo) StockTotal(_ context.Context, productID int64) (decimal.Decimal, error) {
	total := decimal.Zero
	for i := range f.items {
		if f.items[i].ProductID == productID {
			total = total.Add(entity.StockEffect(f.items[i].Type, f.items[i].Quantity))
		}
	}
	return total, nil
}

type fakeWarehouseRepo struct {
	items []entity.Warehouse
}

func (f *fakeWarehouseRepo) GetByID(_ context.Context, id int64) (*entity.Warehouse, error) {
	for i := range f.items {
		if f.items[i].ID == id {
			w := f.items[i]
			return &w, nil
		}
	}
	return nil, nil
}

func (f *fakeWarehouseRepo) List(_ context.Context) ([]entity.Warehouse, error) {
	return f.items, nil
}

type fakeUserRepo struct {
	items       []entity.User
	nextID      int64
	resetTokens map[string]int64
}

func (f *fakeUserRepo) Create(_ context.Context, u *entity.User) (int64, error) {
	f.nextID++
	u.ID = f.nextID
	f.items = append(f.items, *u)
	return u.ID, nil
}

func (f *fakeUserRepo) GetByID(_ context.Context, id int64) (*entity.User, error) {
	for i := range f.items {
		if f.items[i].ID == id {
			u := f.items[i]
			return &u, nil
		}
	}
	return nil, nil
}

func (f *fakeUserRepo) GetByUsername(_ context.Context, username string) (*entity.User, error) {
	for i := range f.items {
		if f.items[i].Username == username {
			u := f.items[i]
			return &u, nil
		}
	}
	return nil, nil
}

func (f *fakeUserRepo) GetByEmail(_ context.Context, email string) (*entity.User, error) {
	for i := range f.items {
		if strings.EqualFold(f.items[i].Email, email) {
			u := f.items[i]
			return &u, nil
		}
	}
	return nil, nil
}

func (f *fakeUserRepo) ExistsUsername(_ context.Context, username string, excludeID int64) (bool, error) {
	for i := range f.items {
		if f.items[i].Username == username && f.items[i].ID != excludeID {
			return true, nil
		}
	}
	return false, nil
}

func (f *fakeUserRepo) ExistsEmail(_ context.Context, email string, excludeID int64) (bool, error) {
	for i := range f.items {
		if strings.EqualFold(f.items[i].Email, email) && f.items[i].ID != excludeID {
			return true, nil
		}
	}
	return false, nil
}

func (f *fakeUserRepo) ExistsPhone(_ context.Context, phone string, excludeID int64) (bool, error) {
	for i := range f.items {
		if f.items[i].Phone == phone && f.items[i].ID != excludeID {
			return true, nil
		}
	}
	return false, nil
}

func (f *fakeUserRepo) Update(_ context.Context, u *entity.User) error {
	for i := range f.items {
		if f.items[i].ID == u.ID {
			f.items[i] = *u
			return nil
		}
	}
	return nil
}

func (f *fakeUserRepo) Delete(_ context.Context, id int64) error {
	for i := range f.items {
		if f.items[i].ID == id {
			f.items = append(f.items[:i], f.items[i+1:]...)
			return nil
		}
	}
	return nil
}

func (f *fakeUserRepo) Search(_ context.Context, _ search.Filter, _ search.Order, limit, offset int) ([]entity.User, error) {
	return page(f.items, limit, offset), nil
}

func (f *fakeUserRepo) Count(_ context.Context, _ search.Filter) (int64, error) {
	return int64(len(f.items)), nil
}

func (f *fakeUserRepo) CreateResetToken(_ context.Context, userID int64, token string, _ time.Time) error {
	if f.resetTokens == nil {
		f.resetTokens = map[string]int64{}
	}
	f.resetTokens[token] = userID
	return nil
}

func (f *fakeUserRepo) ConsumeResetToken(_ context.Context, token string) (int64, error) {
	id, ok := f.resetTokens[token]
	if !ok {
		return 0, errNoToken
	}
	delete(f.resetTokens, token)
	return id, nil
}

var errNoToken = errTokenNotFound{}

type errTokenNotFound struct{}

func (errTokenNotFound) Error() string { return "token no encontrado" }

// fakeTx entrega los mismos fakes dentro y fuera de la "transacción".
type fakeTx struct {
	products  *fakeProductRepo
	suppliers *fakeSupplierRepo
	relations *fakeRelationRepo
	movements *fakeMovementRepo
	users     *fakeUserRepo
}

func (t *fakeTx) Products() repository.ProductRepository   { return t.products }
func (t *fakeTx) Suppliers() repository.SupplierRepository { return t.suppliers }
func (t *fakeTx) Relations() repository.RelationRepository { return t.relations }
func (t *fakeTx) Movements() repository.MovementRepository { return t.movements }
func (t *fakeTx) Users() repository.UserRepository         { return t.users }

// fakeTxRunner simula el rollback restaurando el estado previo cuando fn falla.
type fakeTxRunner struct {
	tx *fakeTx
}

func (r *fakeTxRunner) Run(_ context.Context, fn func(tx repository.Tx) error) error {
	var products []entity.Product
	var suppliers []entity.Supplier
	var relations []entity.SupplierProduct
	var movements []entity.Movement
	var users []entity.User
	if r.tx.products != nil {
		products = append(products, r.tx.products.items...)
	}
	if r.tx.suppliers != nil {
		suppliers = append(suppliers, r.tx.suppliers.items...)
	}
	if r.tx.relations != nil {
		relations = append(relations, r.tx.relations.items...)
	}
	if r.tx.movements != nil {
		movements = append(movements, r.tx.movements.items...)
	}
	if r.tx.users != nil {
		users = append(users, r.tx.users.items...)
	}

	err := fn(r.tx)
	if err != nil {
		if r.tx.products != nil {
			r.tx.products.items = products
		}
		if r.tx.suppliers != nil {
			r.tx.suppliers.items = suppliers
		}
		if r.tx.relations != nil {
			r.tx.relations.items = relations
		}
		if r.tx.movements != nil {
			r.tx.movements.items = movements
		}
		if r.tx.users != nil {
			r.tx.users.items = users
		}
	}
	return err
}

type sentInvite struct {
	To           string
	Username     string
	TempPassword string
	InviteCode   string
}

type fakeMailer struct {
	invites    []sentInvite
	resets     []string
	failInvite bool
}

func (m *fakeMailer) SendInvite(_ context.Context, to, _, username, tempPassword, inviteCode string) error {
	if m.failInvite {
		return errSMTPDown
	}
	m.invites = append(m.invites, sentInvite{To: to, Username: username, TempPassword: tempPassword, InviteCode: inviteCode})
	return nil
}

func (m *fakeMailer) SendPasswordReset(_ context.Context, to, _, token string) error {
	m.resets = append(m.resets, to+":"+token)
	return nil
}

var errSMTPDown = errSMTP{}

type errSMTP struct{}

func (errSMTP) Error() string { return "smtp caído" }

func page[T any](items []T, limit, offset int) []T {
	if offset >= len(items) {
		return []T{}
	}
	out := items[offset:]
	if limit > 0 && limit < len(out) {
		out = out[:limit]
	}
	cp := make([]T, len(out))
	copy(cp, out)
	return cp
}
