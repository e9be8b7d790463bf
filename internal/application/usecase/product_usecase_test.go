package usecase

import (
	"context"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dulceria-lilis/erp-api/internal/application/dto"
	"github.com/dulceria-lilis/erp-api/internal/application/listing"
	"github.com/dulceria-lilis/erp-api/internal/domain"
	"github.com/dulceria-lilis/erp-api/internal/domain/entity"
	"github.com/dulceria-lilis/erp-api/pkg/logger"
)

func newProductUC() (*ProductUseCase, *fakeProductRepo) {
	repo := &fakeProductRepo{}
	cats := &fakeCategoryRepo{items: []entity.Category{{ID: 1, Name: "Chocolates"}}}
	tx := &fakeTx{products: repo}
	return NewProductUseCase(repo, cats, &fakeTxRunner{tx: tx}, logger.Nop()), repo
}

func TestProductCreate(t *testing.T) {
	uc, repo := newProductUC()

	out, err := uc.Create(context.Background(), dto.CreateProductRequest{
		SKU:           "  cho-001 ",
		Nombre:        "Chocolate 70%",
		CategoriaID:   1,
		CostoEstandar: decimal.NewFromInt(1000),
		PrecioVenta:   decimal.NewFromInt(1500),
	})
	require.NoError(t, err)
	assert.Equal(t, "CHO-001", out.SKU)
	assert.True(t, out.Activo)
	assert.Len(t, repo.items, 1)
}

func TestProductCreateDuplicateSKU(t *testing.T) {
	uc, _ := newProductUC()

	_, err := uc.Create(context.Background(), dto.CreateProductRequest{
		SKU: "CHO-001", Nombre: "Chocolate", CategoriaID: 1,
	})
	require.NoError(t, err)

	_, err = uc.Create(context.Background(), dto.CreateProductRequest{
		SKU: "cho-001", Nombre: "Otro", CategoriaID: 1,
	})
	verr, ok := domain.AsValidation(err)
	require.True(t, ok)
	assert.Contains(t, verr, "sku")
}

func TestProductCreateCollectsAllErrors(t *testing.T) {
	uc, _ := newProductUC()

	_, err := uc.Create(context.Background(), dto.CreateProductRequest{})
	verr, ok := domain.AsValidation(err)
	require.True(t, ok)
	assert.Contains(t, verr, "sku")
	assert.Contains(t, verr, "nombre")
	assert.Contains(t, verr, "categoria_id")
}

func TestProductCreatePriceBelowCost(t *testing.T) {
	uc, _ := newProductUC()

	_, err := uc.Create(context.Background(), dto.CreateProductRequest{
		SKU: "CHO-001", Nombre: "Chocolate", CategoriaID: 1,
		CostoEstandar: decimal.NewFromInt(2000),
		PrecioVenta:   decimal.NewFromInt(1500),
	})
	verr, ok := domain.AsValidation(err)
	require.True(t, ok)
	assert.Contains(t, verr, "precio_venta")
}

func TestProductCreateUnknownCategory(t *testing.T) {
	uc, _ := newProductUC()

	_, err := uc.Create(context.Background(), dto.CreateProductRequest{
		SKU: "CHO-001", Nombre: "Chocolate", CategoriaID: 99,
	})
	verr, ok := domain.AsValidation(err)
	require.True(t, ok)
	assert.Contains(t, verr, "categoria_id")
}

func TestProductUpdate(t *testing.T) {
	uc, repo := newProductUC()

	created, err := uc.Create(context.Background(), dto.CreateProductRequest{
		SKU: "CHO-001", Nombre: "Chocolate", CategoriaID: 1,
	})
	require.NoError(t, err)

	nombre := "Chocolate amargo"
	out, err := uc.Update(context.Background(), created.ID, dto.UpdateProductRequest{Nombre: &nombre})
	require.NoError(t, err)
	assert.Equal(t, "Chocolate amargo", out.Nombre)
	assert.Equal(t, "CHO-001", out.SKU)
	assert.Equal(t, "Chocolate amargo", repo.items[0].Name)
}

func TestProductUpdateNotFound(t *testing.T) {
	uc, _ := newProductUC()

	nombre := "x"
	_, err := uc.Update(context.Background(), 99, dto.UpdateProductRequest{Nombre: &nombre})
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestProductDelete(t *testing.T) {
	uc, repo := newProductUC()

	created, err := uc.Create(context.Background(), dto.CreateProductRequest{
		SKU: "CHO-001", Nombre: "Chocolate", CategoriaID: 1,
	})
	require.NoError(t, err)

	require.NoError(t, uc.Delete(context.Background(), created.ID))
	assert.Empty(t, repo.items)
	assert.ErrorIs(t, uc.Delete(context.Background(), created.ID), domain.ErrNotFound)
}

func TestProductList(t *testing.T) {
	uc, _ := newProductUC()
	for _, sku := range []string{"A-1", "A-2", "A-3"} {
		_, err := uc.Create(context.Background(), dto.CreateProductRequest{
			SKU: sku, Nombre: "Producto " + sku, CategoriaID: 1,
		})
		require.NoError(t, err)
	}

	out := uc.List(context.Background(), listing.Params{Page: 1}, ProductFilters{})
	assert.Len(t, out.Items, 3)
	assert.Equal(t, int64(3), out.Page.Total)
	assert.Equal(t, 1, out.Page.TotalPages)
}

func TestProductSearchTopCap(t *testing.T) {
	uc, repo := newProductUC()
	for i := 0; i < 15; i++ {
		repo.nextID++
		repo.items = append(repo.items, entity.Product{ID: repo.nextID, SKU: "S", Name: "P"})
	}

	items, err := uc.SearchTop(context.Background(), "p")
	require.NoError(t, err)
	assert.Len(t, items, 10)
}
