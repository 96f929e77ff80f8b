package cache

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tu-usuario/pos-admin/internal/domain/entity"
	"github.com/tu-usuario/pos-admin/internal/domain/repository"
)

// ──────────────────────────────────────────────────────────────────────────────
// Fakes que cuentan llamadas (para verificar hits y bypasses de caché)
// ──────────────────────────────────────────────────────────────────────────────

type fakeItemRepo struct {
	calls atomic.Int64
	items []entity.Item
	err   error
}

func (f *fakeItemRepo) List(ctx context.Context, filters repository.ItemFilters) ([]entity.Item, error) {
	f.calls.Add(1)
	if f.err != nil {
		return nil, f.err
	}
	return f.items, nil
}
func (f *fakeItemRepo) GetByID(ctx context.Context, id string) (*entity.Item, error) { return nil, nil }
func (f *fakeItemRepo) Create(ctx context.Context, item *entity.Item) error          { return nil }
func (f *fakeItemRepo) Update(ctx context.Context, item *entity.Item) error          { return nil }
func (f *fakeItemRepo) Delete(ctx context.Context, id string) error                  { return nil }
func (f *fakeItemRepo) GetStockInfo(ctx context.Context, id string) (*entity.StockInfo, error) {
	return nil, nil
}
func (f *fakeItemRepo) AtomicDecrementStock(ctx context.Context, id string, qty int) (int, error) {
	return 0, nil
}
func (f *fakeItemRepo) ConditionalUpdateStock(ctx context.Context, id string, expected, newStock int) (int64, error) {
	return 0, nil
}

type fakeCategoryRepo struct {
	calls atomic.Int64
	cats  []entity.Category
	err   error
}

func (f *fakeCategoryRepo) List(ctx context.Context) ([]entity.Category, error) {
	f.calls.Add(1)
	if f.err != nil {
		return nil, f.err
	}
	return f.cats, nil
}
func (f *fakeCategoryRepo) GetByID(ctx context.Context, id string) (*entity.Category, error) {
	return nil, nil
}
func (f *fakeCategoryRepo) Create(ctx context.Context, c *entity.Category) error { return nil }
func (f *fakeCategoryRepo) Update(ctx context.Context, c *entity.Category) error { return nil }
func (f *fakeCategoryRepo) Delete(ctx context.Context, id string) error          { return nil }

type fakeSaleRepo struct {
	calls atomic.Int64
	sales []entity.Sale
}

func (f *fakeSaleRepo) List(ctx context.Context, filters repository.SaleFilters) ([]entity.Sale, error) {
	f.calls.Add(1)
	return f.sales, nil
}
func (f *fakeSaleRepo) GetByID(ctx context.Context, id string) (*entity.Sale, error) {
	return nil, nil
}
func (f *fakeSaleRepo) Create(ctx context.Context, s *entity.Sale) error { return nil }
func (f *fakeSaleRepo) Update(ctx context.Context, s *entity.Sale) error { return nil }

type fakeUserRepo struct {
	calls atomic.Int64
	users []entity.User
}

func (f *fakeUserRepo) List(ctx context.Context, role string) ([]entity.User, error) {
	f.calls.Add(1)
	if role != "" {
		var out []entity.User
		for _, u := range f.users {
			if u.Role == role {
				out = append(out, u)
			}
		}
		return out, nil
	}
	return f.users, nil
}
func (f *fakeUserRepo) GetByID(ctx context.Context, id string) (*entity.User, error) {
	return nil, nil
}
func (f *fakeUserRepo) FindByEmail(ctx context.Context, email string) (*entity.User, error) {
	return nil, nil
}
func (f *fakeUserRepo) Create(ctx context.Context, u *entity.User) error { return nil }
func (f *fakeUserRepo) Update(ctx context.Context, u *entity.User) error { return nil }

type fakeSettingRepo struct {
	calls    atomic.Int64
	settings []entity.Setting
	err      error
}

func (f *fakeSettingRepo) List(ctx context.Context) ([]entity.Setting, error) {
	f.calls.Add(1)
	if f.err != nil {
		return nil, f.err
	}
	return f.settings, nil
}
func (f *fakeSettingRepo) Get(ctx context.Context, key string) (*entity.Setting, error) {
	return nil, nil
}
func (f *fakeSettingRepo) Upsert(ctx context.Context, s *entity.Setting) error { return nil }

// newTestStore arma un Store con fakes y reloj controlable.
func newTestStore(opts Options) (*Store, *fakeItemRepo, *fakeCategoryRepo, *fakeSaleRepo, *fakeUserRepo, *fakeSettingRepo, *time.Time) {
	items := &fakeItemRepo{items: []entity.Item{
		{ID: "i1", Name: "Café molido", Price: decimal.NewFromInt(12), Stock: 10},
		{ID: "i2", Name: "Azúcar", Price: decimal.NewFromInt(3), Stock: 50},
	}}
	cats := &fakeCategoryRepo{cats: []entity.Category{{ID: "c1", Name: "Abarrotes"}}}
	sales := &fakeSaleRepo{sales: []entity.Sale{{ID: "s1", Total: decimal.NewFromInt(15)}}}
	users := &fakeUserRepo{users: []entity.User{
		{ID: "u1", Email: "admin@pos.test", Role: "admin"},
		{ID: "u2", Email: "caja@pos.test", Role: "employee"},
	}}
	settings := &fakeSettingRepo{settings: []entity.Setting{{Key: "stock_management_enabled", Value: []byte(`{"enabled":true}`)}}}

	s := New(Deps{Items: items, Categories: cats, Sales: sales, Users: users, Settings: settings}, opts, nil)

	now := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	clock := &now
	s.clock = func() time.Time { return *clock }
	return s, items, cats, sales, users, settings, clock
}

// ──────────────────────────────────────────────────────────────────────────────
// Hit de caché: una lectura fresca no vuelve a la red
// ──────────────────────────────────────────────────────────────────────────────

func TestItems_SegundaLecturaNoVaALaRed(t *testing.T) {
	s, items, _, _, _, _, _ := newTestStore(Options{Policy: PolicyTTL, SurfaceErrors: true})
	ctx := context.Background()

	first, err := s.Items(ctx, repository.ItemFilters{}, false)
	require.NoError(t, err)
	require.Len(t, first, 2)
	assert.EqualValues(t, 1, items.calls.Load())

	second, err := s.Items(ctx, repository.ItemFilters{}, false)
	require.NoError(t, err)
	assert.Equal(t, first, second)
	assert.EqualValues(t, 1, items.calls.Load(), "la segunda lectura debe salir de la caché")
}

func TestItems_ForceIgnoraLaCache(t *testing.T) {
	s, items, _, _, _, _, _ := newTestStore(Options{Policy: PolicyTTL, SurfaceErrors: true})
	ctx := context.Background()

	_, err := s.Items(ctx, repository.ItemFilters{}, false)
	require.NoError(t, err)
	_, err = s.Items(ctx, repository.ItemFilters{}, true)
	require.NoError(t, err)
	assert.EqualValues(t, 2, items.calls.Load(), "force debe ir a la red aunque la caché esté fresca")
}

// ──────────────────────────────────────────────────────────────────────────────
// Fetch filtrado: siempre bypass, nunca contamina la caché
// ──────────────────────────────────────────────────────────────────────────────

func TestItems_FiltroSiempreVaALaRedYNoCachea(t *testing.T) {
	s, items, _, _, _, _, _ := newTestStore(Options{Policy: PolicyTTL, SurfaceErrors: true})
	ctx := context.Background()

	// Dos lecturas filtradas consecutivas: dos viajes
	_, err := s.Items(ctx, repository.ItemFilters{Search: "café"}, false)
	require.NoError(t, err)
	_, err = s.Items(ctx, repository.ItemFilters{Search: "café"}, false)
	require.NoError(t, err)
	assert.EqualValues(t, 2, items.calls.Load())

	// El fetch filtrado no dejó nada cacheado: el listado canónico también viaja
	_, err = s.Items(ctx, repository.ItemFilters{}, false)
	require.NoError(t, err)
	assert.EqualValues(t, 3, items.calls.Load(), "un fetch filtrado no debe poblar la caché")
	assert.True(t, s.LastFetchedAt(KeyItems).Equal(s.clock()), "solo el listado canónico actualiza el timestamp")
}

func TestUsers_FiltroDeRolEsBypass(t *testing.T) {
	s, _, _, _, users, _, _ := newTestStore(Options{Policy: PolicyTTL, SurfaceErrors: true})
	ctx := context.Background()

	_, err := s.Users(ctx, "", false)
	require.NoError(t, err)
	assert.EqualValues(t, 1, users.calls.Load())

	empleados, err := s.Users(ctx, "employee", false)
	require.NoError(t, err)
	require.Len(t, empleados, 1)
	assert.Equal(t, "caja@pos.test", empleados[0].Email)
	assert.EqualValues(t, 2, users.calls.Load(), "el filtro por rol debe ir directo a la base")
}

// ──────────────────────────────────────────────────────────────────────────────
// Invalidate: borra frescura, no datos
// ──────────────────────────────────────────────────────────────────────────────

func TestInvalidate_FuerzaRefetchSinBorrarDatos(t *testing.T) {
	s, items, _, _, _, _, _ := newTestStore(Options{Policy: PolicyTTL, SurfaceErrors: true})
	ctx := context.Background()

	_, err := s.Items(ctx, repository.ItemFilters{}, false)
	require.NoError(t, err)

	s.Invalidate(KeyItems)
	assert.True(t, s.LastFetchedAt(KeyItems).IsZero())
	assert.Len(t, s.items, 2, "invalidar no debe vaciar los datos")

	_, err = s.Items(ctx, repository.ItemFilters{}, false)
	require.NoError(t, err)
	assert.EqualValues(t, 2, items.calls.Load(), "tras invalidar, la lectura debe volver a la red")
}

func TestInvalidate_SinClavesInvalidaTodo(t *testing.T) {
	s, _, _, _, _, _, _ := newTestStore(Options{Policy: PolicyTTL, SurfaceErrors: true})
	ctx := context.Background()

	require.NoError(t, s.FetchAll(ctx))
	for _, k := range AllKeys() {
		if k == KeySales {
			continue // sales no participa de FetchAll
		}
		require.False(t, s.LastFetchedAt(k).IsZero())
	}

	s.Invalidate()
	for _, k := range AllKeys() {
		assert.True(t, s.LastFetchedAt(k).IsZero(), "clave %s debe quedar invalidada", k)
	}
}

// ──────────────────────────────────────────────────────────────────────────────
// Políticas de frescura
// ──────────────────────────────────────────────────────────────────────────────

func TestPolicyTTL_ExpiraSola(t *testing.T) {
	s, items, _, _, _, _, clock := newTestStore(Options{Policy: PolicyTTL, TTL: 5 * time.Minute, SurfaceErrors: true})
	ctx := context.Background()

	_, err := s.Items(ctx, repository.ItemFilters{}, false)
	require.NoError(t, err)

	// Dentro del TTL: hit
	*clock = clock.Add(4 * time.Minute)
	_, err = s.Items(ctx, repository.ItemFilters{}, false)
	require.NoError(t, err)
	assert.EqualValues(t, 1, items.calls.Load())

	// Pasado el TTL: expira y refetchea
	*clock = clock.Add(2 * time.Minute)
	_, err = s.Items(ctx, repository.ItemFilters{}, false)
	require.NoError(t, err)
	assert.EqualValues(t, 2, items.calls.Load(), "pasado el TTL la entrada debe expirar")
}

func TestPolicyManual_NoExpiraSola(t *testing.T) {
	s, items, _, _, _, _, clock := newTestStore(Options{Policy: PolicyManual, SurfaceErrors: true})
	ctx := context.Background()

	_, err := s.Items(ctx, repository.ItemFilters{}, false)
	require.NoError(t, err)

	// Con política manual el paso del tiempo no invalida nada
	*clock = clock.Add(24 * time.Hour)
	_, err = s.Items(ctx, repository.ItemFilters{}, false)
	require.NoError(t, err)
	assert.EqualValues(t, 1, items.calls.Load(), "manual: fresca hasta que alguien invalide")

	// Solo Invalidate la desfresca
	s.Invalidate(KeyItems)
	_, err = s.Items(ctx, repository.ItemFilters{}, false)
	require.NoError(t, err)
	assert.EqualValues(t, 2, items.calls.Load())
}

// ──────────────────────────────────────────────────────────────────────────────
// Política de errores de fetch
// ──────────────────────────────────────────────────────────────────────────────

func TestFetchFallido_SurfaceErrors_PropagaYConservaLoCacheado(t *testing.T) {
	s, items, _, _, _, _, _ := newTestStore(Options{Policy: PolicyManual, SurfaceErrors: true})
	ctx := context.Background()

	_, err := s.Items(ctx, repository.ItemFilters{}, false)
	require.NoError(t, err)

	s.Invalidate(KeyItems)
	items.err = errors.New("timeout de red")

	_, err = s.Items(ctx, repository.ItemFilters{}, false)
	require.Error(t, err, "con SurfaceErrors el fallo sube al caller")

	// Los datos anteriores siguen ahí: al sanar la red la colección vuelve
	items.err = nil
	list, err := s.Items(ctx, repository.ItemFilters{}, false)
	require.NoError(t, err)
	assert.Len(t, list, 2)
}

func TestFetchFallido_SinSurfaceErrors_SirveLaCopiaVieja(t *testing.T) {
	s, items, _, _, _, _, _ := newTestStore(Options{Policy: PolicyManual, SurfaceErrors: false})
	ctx := context.Background()

	_, err := s.Items(ctx, repository.ItemFilters{}, false)
	require.NoError(t, err)

	s.Invalidate(KeyItems)
	items.err = errors.New("timeout de red")

	list, err := s.Items(ctx, repository.ItemFilters{}, false)
	require.NoError(t, err, "en degradación silenciosa se sirve lo viejo")
	assert.Len(t, list, 2)
}

func TestFetchFallido_SinDatosPrevios_NuncaDisfrazaElError(t *testing.T) {
	s, items, _, _, _, _, _ := newTestStore(Options{Policy: PolicyManual, SurfaceErrors: false})
	items.err = errors.New("timeout de red")

	list, err := s.Items(context.Background(), repository.ItemFilters{}, false)
	require.Error(t, err, "sin fetch previo no hay nada viejo que servir")
	assert.Nil(t, list, "el fallo no debe verse como colección vacía")
}

// ──────────────────────────────────────────────────────────────────────────────
// FetchAll / RefreshAll
// ──────────────────────────────────────────────────────────────────────────────

func TestFetchAll_CompromisosIndependientes(t *testing.T) {
	s, items, cats, _, users, settings, _ := newTestStore(Options{Policy: PolicyManual, SurfaceErrors: true})
	settings.err = errors.New("tabla settings caída")

	err := s.FetchAll(context.Background())
	require.Error(t, err, "el primer error encontrado debe reportarse")

	// Las colecciones sanas quedaron comprometidas a pesar del fallo de settings
	assert.False(t, s.LastFetchedAt(KeyItems).IsZero())
	assert.False(t, s.LastFetchedAt(KeyCategories).IsZero())
	assert.False(t, s.LastFetchedAt(KeyUsers).IsZero())
	assert.True(t, s.LastFetchedAt(KeySettings).IsZero())
	assert.EqualValues(t, 1, items.calls.Load())
	assert.EqualValues(t, 1, cats.calls.Load())
	assert.EqualValues(t, 1, users.calls.Load())
}

func TestRefreshAll_InvalidaYRefetchea(t *testing.T) {
	s, items, cats, _, users, settings, _ := newTestStore(Options{Policy: PolicyManual, SurfaceErrors: true})
	ctx := context.Background()

	require.NoError(t, s.FetchAll(ctx))
	require.NoError(t, s.RefreshAll(ctx, false))

	// Cada colección viajó dos veces: RefreshAll nunca sirve de caché
	assert.EqualValues(t, 2, items.calls.Load())
	assert.EqualValues(t, 2, cats.calls.Load())
	assert.EqualValues(t, 2, users.calls.Load())
	assert.EqualValues(t, 2, settings.calls.Load())
}

// ──────────────────────────────────────────────────────────────────────────────
// Sanitización de artículos
// ──────────────────────────────────────────────────────────────────────────────

func TestItems_SanitizacionEsIdempotenteYUniforme(t *testing.T) {
	s, items, _, _, _, _, _ := newTestStore(Options{Policy: PolicyManual, SurfaceErrors: true})
	items.items = []entity.Item{
		{ID: "i1", Name: "Dato heredado", Price: decimal.NewFromInt(-5), Stock: -3},
		{ID: "i2", Name: "Sano", Price: decimal.NewFromInt(7), Stock: 4},
	}
	ctx := context.Background()

	fresh, err := s.Items(ctx, repository.ItemFilters{}, false)
	require.NoError(t, err)
	assert.True(t, fresh[0].Price.IsZero(), "precio negativo colapsa a 0")
	assert.Equal(t, 0, fresh[0].Stock, "stock negativo colapsa a 0")
	assert.True(t, fresh[1].Price.Equal(decimal.NewFromInt(7)))

	// La lectura cacheada pasa por la misma sanitización: mismo resultado
	cached, err := s.Items(ctx, repository.ItemFilters{}, false)
	require.NoError(t, err)
	assert.Equal(t, fresh, cached, "cacheado y fresco deben verse idénticos")
	assert.EqualValues(t, 1, items.calls.Load())
}

func TestItems_LaCopiaDevueltaNoComparteBackingArray(t *testing.T) {
	s, _, _, _, _, _, _ := newTestStore(Options{Policy: PolicyManual, SurfaceErrors: true})
	ctx := context.Background()

	first, err := s.Items(ctx, repository.ItemFilters{}, false)
	require.NoError(t, err)
	first[0].Name = "mutado por el caller"

	second, err := s.Items(ctx, repository.ItemFilters{}, false)
	require.NoError(t, err)
	assert.Equal(t, "Café molido", second[0].Name, "mutar lo devuelto no debe tocar la caché")
}
