package usecase

import (
	"context"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dulceria-lilis/erp-api/internal/application/dto"
	"github.com/dulceria-lilis/erp-api/internal/domain"
	"github.com/dulceria-lilis/erp-api/internal/domain/authz"
	"github.com/dulceria-lilis/erp-api/internal/domain/entity"
	"github.com/dulceria-lilis/erp-api/pkg/logger"
)

func newMovementUC() (*MovementUseCase, *fakeMovementRepo) {
	repo := &fakeMovementRepo{}
	prods := &fakeProductRepo{items: []entity.Product{{ID: 1, SKU: "CHO-001", Name: "Chocolate"}}, nextID: 1}
	sups := &fakeSupplierRepo{items: []entity.Supplier{{ID: 1, RUT: "76.123.456-7"}}, nextID: 1}
	whs := &fakeWarehouseRepo{items: []entity.Warehouse{{ID: 1, Name: "Central"}, {ID: 2, Name: "Sucursal"}}}
	tx := &fakeTx{movements: repo, products: prods, suppliers: sups}
	return NewMovementUseCase(repo, prods, sups, whs, &fakeTxRunner{tx: tx}, logger.Nop()), repo
}

var operador = authz.Principal{ID: 7, Username: "operador", Role: entity.RoleInventario}

func TestMovementCreate(t *testing.T) {
	uc, repo := newMovementUC()

	out, err := uc.Create(context.Background(), operador, dto.CreateMovementRequest{
		Fecha:      "2026-08-30",
		Tipo:       entity.MovementIngreso,
		ProductoID: 1,
		Cantidad:   decimal.NewFromInt(10),
	})
	require.NoError(t, err)
	assert.Equal(t, entity.MovementIngreso, out.Tipo)
	assert.Equal(t, "Ingreso", out.TipoNombre)
	require.Len(t, repo.items, 1)
	assert.Equal(t, int64(7), repo.items[0].CreatedBy)
}

func TestMovementCreateCollectsErrors(t *testing.T) {
	uc, _ := newMovementUC()

	_, err := uc.Create(context.Background(), operador, dto.CreateMovementRequest{
		Fecha: "30/08/2026",
		Tipo:  "REGALO",
	})
	verr, ok := domain.AsValidation(err)
	require.True(t, ok)
	assert.Contains(t, verr, "tipo")
	assert.Contains(t, verr, "fecha")
	assert.Contains(t, verr, "cantidad")
}

func TestMovementCreateNegativeQuantity(t *testing.T) {
	uc, _ := newMovementUC()

	_, err := uc.Create(context.Background(), operador, dto.CreateMovementRequest{
		Tipo:       entity.MovementIngreso,
		ProductoID: 1,
		Cantidad:   decimal.NewFromInt(-5),
	})
	verr, ok := domain.AsValidation(err)
	require.True(t, ok)
	assert.Contains(t, verr, "cantidad")

	// AJUSTE sí admite cantidad con signo.
	out, err := uc.Create(context.Background(), operador, dto.CreateMovementRequest{
		Tipo:       entity.MovementAjuste,
		ProductoID: 1,
		Cantidad:   decimal.NewFromInt(-5),
	})
	require.NoError(t, err)
	assert.True(t, out.Cantidad.Equal(decimal.NewFromInt(-5)))
}

func TestMovementCreateTransferSameWarehouse(t *testing.T) {
	uc, _ := newMovementUC()

	one := int64(1)
	_, err := uc.Create(context.Background(), operador, dto.CreateMovementRequest{
		Tipo:            entity.MovementTransferencia,
		ProductoID:      1,
		Cantidad:        decimal.NewFromInt(3),
		BodegaOrigenID:  &one,
		BodegaDestinoID: &one,
	})
	verr, ok := domain.AsValidation(err)
	require.True(t, ok)
	assert.Contains(t, verr, "bodega_destino_id")
}

func TestMovementCreateUnknownProduct(t *testing.T) {
	uc, _ := newMovementUC()

	_, err := uc.Create(context.Background(), operador, dto.CreateMovementRequest{
		Tipo:       entity.MovementIngreso,
		ProductoID: 99,
		Cantidad:   decimal.NewFromInt(1),
	})
	verr, ok := domain.AsValidation(err)
	require.True(t, ok)
	assert.Contains(t, verr, "producto_id")
}

func TestMovementUpdateTypeAndQuantity(t *testing.T) {
	uc, repo := newMovementUC()

	created, err := uc.Create(context.Background(), operador, dto.CreateMovementRequest{
		Tipo:       entity.MovementIngreso,
		ProductoID: 1,
		Cantidad:   decimal.NewFromInt(10),
	})
	require.NoError(t, err)

	tipo := entity.MovementSalida
	qty := decimal.NewFromInt(4)
	out, err := uc.Update(context.Background(), created.ID, dto.UpdateMovementRequest{Tipo: &tipo, Cantidad: &qty})
	require.NoError(t, err)
	assert.Equal(t, entity.MovementSalida, out.Tipo)
	assert.True(t, repo.items[0].Quantity.Equal(qty))
}

func TestMovementUpdateNotFound(t *testing.T) {
	uc, _ := newMovementUC()

	tipo := entity.MovementSalida
	_, err := uc.Update(context.Background(), 99, dto.UpdateMovementRequest{Tipo: &tipo})
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestMovementDelete(t *testing.T) {
	uc, repo := newMovementUC()

	created, err := uc.Create(context.Background(), operador, dto.CreateMovementRequest{
		Tipo:       entity.MovementIngreso,
		ProductoID: 1,
		Cantidad:   decimal.NewFromInt(10),
	})
	require.NoError(t, err)

	require.NoError(t, uc.Delete(context.Background(), created.ID))
	assert.Empty(t, repo.items)
}

func TestStockEffectSigns(t *testing.T) {
	qty := decimal.NewFromInt(10)
	assert.True(t, entity.StockEffect(entity.MovementIngreso, qty).Equal(qty))
	assert.True(t, entity.StockEffect(entity.MovementDevolucion, qty).Equal(qty))
	assert.True(t, entity.StockEffect(entity.MovementSalida, qty).Equal(qty.Neg()))
	assert.True(t, entity.StockEffect(entity.MovementTransferencia, qty).IsZero())
	neg := decimal.NewFromInt(-3)
	assert.True(t, entity.StockEffect(entity.MovementAjuste, neg).Equal(neg))
}
