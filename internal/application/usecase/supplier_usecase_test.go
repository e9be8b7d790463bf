package usecase

import (
	"context"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dulceria-lilis/erp-api/internal/application/dto"
	"github.com/dulceria-lilis/erp-api/internal/domain"
	"github.com/dulceria-lilis/erp-api/internal/domain/entity"
	"github.com/dulceria-lilis/erp-api/pkg/logger"
)

func newSupplierUC() (*SupplierUseCase, *fakeSupplierRepo, *fakeRelationRepo, *fakeProductRepo) {
	repo := &fakeSupplierRepo{}
	rels := &fakeRelationRepo{}
	prods := &fakeProductRepo{}
	tx := &fakeTx{suppliers: repo, relations: rels, products: prods}
	return NewSupplierUseCase(repo, rels, prods, &fakeTxRunner{tx: tx}, logger.Nop()), repo, rels, prods
}

func validSupplier() dto.SupplierRequest {
	return dto.SupplierRequest{
		RutNif:      "76.123.456-7",
		RazonSocial: "Dulces del Sur SpA",
		Email:       "contacto@dulcesdelsur.cl",
	}
}

func TestSupplierCreate(t *testing.T) {
	uc, repo, _, _ := newSupplierUC()

	out, err := uc.Create(context.Background(), validSupplier())
	require.NoError(t, err)
	assert.Equal(t, "activo", out.Estado)
	assert.Equal(t, "CLP", out.Moneda)
	assert.Len(t, repo.items, 1)
}

func TestSupplierCreateDuplicateRUT(t *testing.T) {
	uc, _, _, _ := newSupplierUC()

	_, err := uc.Create(context.Background(), validSupplier())
	require.NoError(t, err)

	_, err = uc.Create(context.Background(), validSupplier())
	verr, ok := domain.AsValidation(err)
	require.True(t, ok)
	assert.Contains(t, verr, "rut_nif")
}

func TestSupplierCreateInvalidFields(t *testing.T) {
	uc, _, _, _ := newSupplierUC()

	_, err := uc.Create(context.Background(), dto.SupplierRequest{
		RutNif:              "@@invalid@@",
		Email:               "no-es-email",
		SitioWeb:            "ftp://archivo",
		PlazosPagoDias:      500,
		DescuentoPorcentaje: decimal.NewFromInt(120),
	})
	verr, ok := domain.AsValidation(err)
	require.True(t, ok)
	assert.Contains(t, verr, "rut_nif")
	assert.Contains(t, verr, "razon_social")
	assert.Contains(t, verr, "email")
	assert.Contains(t, verr, "sitio_web")
	assert.Contains(t, verr, "plazos_pago_dias")
	assert.Contains(t, verr, "descuento_porcentaje")
}

func TestSupplierUpdateKeepsOwnRUT(t *testing.T) {
	uc, _, _, _ := newSupplierUC()

	created, err := uc.Create(context.Background(), validSupplier())
	require.NoError(t, err)

	in := validSupplier()
	in.RazonSocial = "Dulces del Sur Limitada"
	out, err := uc.Update(context.Background(), created.ID, in)
	require.NoError(t, err)
	assert.Equal(t, "Dulces del Sur Limitada", out.RazonSocial)
}

func TestRelationUpsertBySKU(t *testing.T) {
	uc, _, rels, prods := newSupplierUC()

	_, err := uc.Create(context.Background(), validSupplier())
	require.NoError(t, err)
	prods.nextID++
	prods.items = append(prods.items, entity.Product{ID: prods.nextID, SKU: "CHO-001", Name: "Chocolate"})

	in := dto.RelationRequest{
		RutNif:    "76.123.456-7",
		SkuOrName: "cho-001",
		Costo:     decimal.NewFromInt(900),
	}
	out, err := uc.UpsertRelation(context.Background(), in)
	require.NoError(t, err)
	assert.Equal(t, "CHO-001", out.SKU)
	assert.Len(t, rels.items, 1)

	// Mismo par: actualiza, no duplica.
	in.Costo = decimal.NewFromInt(850)
	out2, err := uc.UpsertRelation(context.Background(), in)
	require.NoError(t, err)
	assert.Equal(t, out.ID, out2.ID)
	assert.Len(t, rels.items, 1)
	assert.True(t, rels.items[0].Cost.Equal(decimal.NewFromInt(850)))
}

func TestRelationUpsertByNameSubstring(t *testing.T) {
	uc, _, _, prods := newSupplierUC()

	_, err := uc.Create(context.Background(), validSupplier())
	require.NoError(t, err)
	prods.nextID++
	prods.items = append(prods.items, entity.Product{ID: prods.nextID, SKU: "GOM-001", Name: "Gomitas ácidas"})

	out, err := uc.UpsertRelation(context.Background(), dto.RelationRequest{
		RutNif:    "76.123.456-7",
		SkuOrName: "Gomitas",
	})
	require.NoError(t, err)
	assert.Equal(t, "GOM-001", out.SKU)
}

func TestRelationUpsertUnknownSupplier(t *testing.T) {
	uc, _, _, _ := newSupplierUC()

	_, err := uc.UpsertRelation(context.Background(), dto.RelationRequest{
		RutNif:    "11.111.111-1",
		SkuOrName: "CHO-001",
	})
	verr, ok := domain.AsValidation(err)
	require.True(t, ok)
	assert.Contains(t, verr, "rut_nif")
}

func TestRelationUpsertUnknownProduct(t *testing.T) {
	uc, _, _, _ := newSupplierUC()

	_, err := uc.Create(context.Background(), validSupplier())
	require.NoError(t, err)

	_, err = uc.UpsertRelation(context.Background(), dto.RelationRequest{
		RutNif:    "76.123.456-7",
		SkuOrName: "NO-EXISTE",
	})
	verr, ok := domain.AsValidation(err)
	require.True(t, ok)
	assert.Contains(t, verr, "sku_or_name")
}
