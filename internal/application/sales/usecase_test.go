package sales_test

import (
	"context"
	"encoding/json"
	"errors"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tu-usuario/pos-admin/internal/application/cache"
	"github.com/tu-usuario/pos-admin/internal/application/dto"
	"github.com/tu-usuario/pos-admin/internal/application/sales"
	"github.com/tu-usuario/pos-admin/internal/application/stock"
	"github.com/tu-usuario/pos-admin/internal/domain"
	"github.com/tu-usuario/pos-admin/internal/domain/entity"
	"github.com/tu-usuario/pos-admin/internal/domain/repository"
)

// ──────────────────────────────────────────────────────────────────────────────
// Fakes
// ──────────────────────────────────────────────────────────────────────────────

type fakeSaleRepo struct {
	created []entity.Sale
	updated []entity.Sale
	byID    map[string]*entity.Sale
}

func (f *fakeSaleRepo) List(ctx context.Context, filters repository.SaleFilters) ([]entity.Sale, error) {
	return f.created, nil
}

func (f *fakeSaleRepo) GetByID(ctx context.Context, id string) (*entity.Sale, error) {
	if s, ok := f.byID[id]; ok {
		c := *s
		return &c, nil
	}
	return nil, nil
}

func (f *fakeSaleRepo) Create(ctx context.Context, s *entity.Sale) error {
	f.created = append(f.created, *s)
	return nil
}

func (f *fakeSaleRepo) Update(ctx context.Context, s *entity.Sale) error {
	f.updated = append(f.updated, *s)
	return nil
}

type fakeItemRepo struct {
	items map[string]*entity.Item
}

func (f *fakeItemRepo) GetByID(ctx context.Context, id string) (*entity.Item, error) {
	if it, ok := f.items[id]; ok {
		c := *it
		return &c, nil
	}
	return nil, nil
}
func (f *fakeItemRepo) List(ctx context.Context, filters repository.ItemFilters) ([]entity.Item, error) {
	return nil, nil
}
func (f *fakeItemRepo) Create(ctx context.Context, i *entity.Item) error { return nil }
func (f *fakeItemRepo) Update(ctx context.Context, i *entity.Item) error { return nil }
func (f *fakeItemRepo) Delete(ctx context.Context, id string) error      { return nil }
func (f *fakeItemRepo) GetStockInfo(ctx context.Context, id string) (*entity.StockInfo, error) {
	return nil, nil
}
func (f *fakeItemRepo) AtomicDecrementStock(ctx context.Context, id string, qty int) (int, error) {
	return 0, nil
}
func (f *fakeItemRepo) ConditionalUpdateStock(ctx context.Context, id string, expected, newStock int) (int64, error) {
	return 0, nil
}

// fakeDecrementer registra los decrementos y puede fallar a partir de cierta llamada.
type fakeDecrementer struct {
	calls   []string // item IDs en orden
	failOn  string   // item que debe fallar ("" = nunca)
	failErr error
}

func (f *fakeDecrementer) Decrement(ctx context.Context, itemID string, qty int) (*stock.Result, error) {
	f.calls = append(f.calls, itemID)
	if f.failOn == itemID {
		return nil, f.failErr
	}
	return &stock.Result{ItemID: itemID, NewStock: 1}, nil
}

type fakeSettings struct {
	stockEnabled bool
	minSale      decimal.Decimal
}

func (f *fakeSettings) StockManagementEnabled(ctx context.Context) bool  { return f.stockEnabled }
func (f *fakeSettings) MinSaleAmount(ctx context.Context) decimal.Decimal { return f.minSale }

func newFixture(stockEnabled bool) (*sales.UseCase, *fakeSaleRepo, *fakeDecrementer, *cache.Store) {
	saleRepo := &fakeSaleRepo{byID: map[string]*entity.Sale{}}
	itemRepo := &fakeItemRepo{items: map[string]*entity.Item{
		"i1": {ID: "i1", Name: "Café molido", Price: decimal.NewFromInt(12), Stock: 10},
		"i2": {ID: "i2", Name: "Azúcar", Price: decimal.NewFromInt(3), Stock: 2},
	}}
	dec := &fakeDecrementer{}
	settings := &fakeSettings{stockEnabled: stockEnabled}
	store := cache.New(cache.Deps{Sales: saleRepo, Items: itemRepo}, cache.Options{Policy: cache.PolicyManual, SurfaceErrors: true}, nil)
	uc := sales.NewUseCase(saleRepo, itemRepo, dec, settings, store, nil)
	return uc, saleRepo, dec, store
}

// ──────────────────────────────────────────────────────────────────────────────
// Create
// ──────────────────────────────────────────────────────────────────────────────

func TestCreate_CopiaNombreYPrecioDelCatalogo(t *testing.T) {
	uc, repo, dec, store := newFixture(true)
	ctx := context.Background()

	// caliento la caché de ventas para comprobar la invalidación
	_, err := store.Sales(ctx, repository.SaleFilters{}, false)
	require.NoError(t, err)

	out, err := uc.Create(ctx, "emp-1", dto.CreateSaleRequest{Lines: []dto.SaleLineRequest{
		{ItemID: "i1", Quantity: 2},
		{ItemID: "i2", Quantity: 1},
	}})
	require.NoError(t, err)

	require.Len(t, repo.created, 1)
	sale := repo.created[0]
	assert.Equal(t, "emp-1", sale.EmployeeID)
	require.Len(t, sale.Lines, 2)
	assert.Equal(t, "Café molido", sale.Lines[0].Name, "el nombre se copia del catálogo")
	assert.True(t, sale.Lines[0].Price.Equal(decimal.NewFromInt(12)), "el precio se copia del catálogo")
	assert.True(t, sale.Total.Equal(decimal.NewFromInt(27)), "total = 2*12 + 1*3")
	assert.True(t, out.Total.Equal(sale.Total))

	assert.Equal(t, []string{"i1", "i2"}, dec.calls, "cada línea descuenta stock en orden")
	assert.True(t, store.LastFetchedAt(cache.KeySales).IsZero(), "crear una venta invalida la colección de ventas")
}

func TestCreate_ControlDeStockApagadoNoDescuenta(t *testing.T) {
	uc, repo, dec, _ := newFixture(false)

	_, err := uc.Create(context.Background(), "emp-1", dto.CreateSaleRequest{Lines: []dto.SaleLineRequest{
		{ItemID: "i1", Quantity: 2},
	}})
	require.NoError(t, err)
	assert.Len(t, repo.created, 1)
	assert.Empty(t, dec.calls, "con el control apagado no se toca el stock")
}

func TestCreate_LineaQueFallaAbortaLaVenta(t *testing.T) {
	uc, repo, dec, _ := newFixture(true)
	dec.failOn = "i2"
	dec.failErr = &stock.InsufficientStockError{ItemName: "Azúcar", Requested: 5, Available: 2}

	_, err := uc.Create(context.Background(), "emp-1", dto.CreateSaleRequest{Lines: []dto.SaleLineRequest{
		{ItemID: "i1", Quantity: 1},
		{ItemID: "i2", Quantity: 5},
	}})
	require.Error(t, err)
	assert.ErrorIs(t, err, domain.ErrInsufficientStock, "el error de la línea sube tal cual")
	assert.Empty(t, repo.created, "la venta no debe registrarse")
	// La primera línea ya descontó: no hay compensación, el cajero corrige y reenvía
	assert.Equal(t, []string{"i1", "i2"}, dec.calls)
}

func TestCreate_TotalMenorAlMinimoDeVenta(t *testing.T) {
	uc, repo, _, _ := newFixture(true)
	settings := &fakeSettings{stockEnabled: true, minSale: decimal.NewFromInt(100)}
	uc = sales.NewUseCase(repo, &fakeItemRepo{items: map[string]*entity.Item{
		"i1": {ID: "i1", Name: "Café molido", Price: decimal.NewFromInt(12)},
	}}, &fakeDecrementer{}, settings, cache.New(cache.Deps{}, cache.Options{}, nil), nil)

	_, err := uc.Create(context.Background(), "emp-1", dto.CreateSaleRequest{Lines: []dto.SaleLineRequest{
		{ItemID: "i1", Quantity: 1},
	}})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
	assert.Empty(t, repo.created)
}

func TestCreate_EntradasInvalidas(t *testing.T) {
	uc, _, _, _ := newFixture(true)
	ctx := context.Background()

	_, err := uc.Create(ctx, "emp-1", dto.CreateSaleRequest{})
	assert.ErrorIs(t, err, domain.ErrInvalidInput, "sin líneas")

	_, err = uc.Create(ctx, "", dto.CreateSaleRequest{Lines: []dto.SaleLineRequest{{ItemID: "i1", Quantity: 1}}})
	assert.ErrorIs(t, err, domain.ErrInvalidInput, "sin empleado")

	_, err = uc.Create(ctx, "emp-1", dto.CreateSaleRequest{Lines: []dto.SaleLineRequest{{ItemID: "i1", Quantity: 0}}})
	assert.ErrorIs(t, err, domain.ErrInvalidInput, "cantidad cero")

	_, err = uc.Create(ctx, "emp-1", dto.CreateSaleRequest{Lines: []dto.SaleLineRequest{{ItemID: "no-existe", Quantity: 1}}})
	assert.ErrorIs(t, err, domain.ErrItemNotFound)
}

// ──────────────────────────────────────────────────────────────────────────────
// Update / Delete: rastro en edit_log
// ──────────────────────────────────────────────────────────────────────────────

func TestUpdate_DejaRastroEnEditLog(t *testing.T) {
	uc, repo, _, _ := newFixture(true)
	repo.byID["v1"] = &entity.Sale{ID: "v1", EmployeeID: "emp-1", Total: decimal.NewFromInt(50)}

	out, err := uc.Update(context.Background(), "v1", "admin-1", true, dto.UpdateSaleRequest{Total: decimal.NewFromInt(45)})
	require.NoError(t, err)
	assert.True(t, out.Total.Equal(decimal.NewFromInt(45)))
	assert.True(t, out.EditedByAdmin)

	require.Len(t, repo.updated, 1)
	var log map[string]entity.EditLogEntry
	require.NoError(t, json.Unmarshal(repo.updated[0].EditLog, &log))
	require.Len(t, log, 1, "una edición, una entrada keyed por timestamp")
	for _, entry := range log {
		assert.True(t, entry.PreviousTotal.Equal(decimal.NewFromInt(50)))
		assert.True(t, entry.NewTotal.Equal(decimal.NewFromInt(45)))
		assert.Equal(t, "admin-1", entry.EditedBy)
		assert.True(t, entry.IsAdmin)
	}
}

func TestUpdate_VentaInexistente(t *testing.T) {
	uc, _, _, _ := newFixture(true)
	_, err := uc.Update(context.Background(), "no-existe", "admin-1", true, dto.UpdateSaleRequest{Total: decimal.NewFromInt(1)})
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestDelete_EsSoftDeleteConRastro(t *testing.T) {
	uc, repo, _, store := newFixture(true)
	repo.byID["v1"] = &entity.Sale{ID: "v1", EmployeeID: "emp-1", Total: decimal.NewFromInt(50)}

	_, err := store.Sales(context.Background(), repository.SaleFilters{}, false)
	require.NoError(t, err)

	require.NoError(t, uc.Delete(context.Background(), "v1", "admin-1", true))

	require.Len(t, repo.updated, 1, "borrar es un Update, nunca un DELETE físico")
	deleted := repo.updated[0]
	assert.True(t, deleted.IsDeleted)
	require.NotNil(t, deleted.DeletedAt)

	var log map[string]entity.EditLogEntry
	require.NoError(t, json.Unmarshal(deleted.EditLog, &log))
	for _, entry := range log {
		assert.Equal(t, "deleted", entry.Action)
		assert.Equal(t, "admin-1", entry.DeletedBy)
	}
	assert.True(t, store.LastFetchedAt(cache.KeySales).IsZero(), "borrar invalida la colección de ventas")
}

func TestUpdate_EditLogCorruptoSeReinicia(t *testing.T) {
	uc, repo, _, _ := newFixture(true)
	repo.byID["v1"] = &entity.Sale{ID: "v1", Total: decimal.NewFromInt(10), EditLog: json.RawMessage(`{truncado`)}

	_, err := uc.Update(context.Background(), "v1", "emp-1", false, dto.UpdateSaleRequest{Total: decimal.NewFromInt(8)})
	require.NoError(t, err, "un historial ilegible no debe bloquear la edición")

	var log map[string]entity.EditLogEntry
	require.NoError(t, json.Unmarshal(repo.updated[0].EditLog, &log))
	assert.Len(t, log, 1)
}

var errRed = errors.New("red caída")

func TestCreate_ErrorDeCatalogoNoRegistraVenta(t *testing.T) {
	saleRepo := &fakeSaleRepo{byID: map[string]*entity.Sale{}}
	uc := sales.NewUseCase(saleRepo, &failingItemRepo{}, &fakeDecrementer{}, &fakeSettings{},
		cache.New(cache.Deps{}, cache.Options{}, nil), nil)

	_, err := uc.Create(context.Background(), "emp-1", dto.CreateSaleRequest{Lines: []dto.SaleLineRequest{
		{ItemID: "i1", Quantity: 1},
	}})
	assert.ErrorIs(t, err, errRed)
	assert.Empty(t, saleRepo.created)
}

type failingItemRepo struct{ fakeItemRepo }

func (f *failingItemRepo) GetByID(ctx context.Context, id string) (*entity.Item, error) {
	return nil, errRed
}
