package cache

import (
	"context"
	"sync"
	"time"

	"github.com/tu-usuario/pos-admin/internal/domain/entity"
	"github.com/tu-usuario/pos-admin/internal/domain/repository"
	"github.com/tu-usuario/pos-admin/pkg/logger"
)

// Key identifica una colección cacheada.
type Key string

// Colecciones que administra el Store.
const (
	KeyItems      Key = "items"
	KeyCategories Key = "categories"
	KeySales      Key = "sales"
	KeyUsers      Key = "users"
	KeySettings   Key = "settings"
)

// AllKeys devuelve todas las claves de colección conocidas.
func AllKeys() []Key {
	return []Key{KeyItems, KeyCategories, KeySales, KeyUsers, KeySettings}
}

// Políticas de frescura. Con PolicyTTL una entrada expira sola pasado Options.TTL;
// con PolicyManual es fresca hasta que una escritura llame a Invalidate. Las dos no
// son equivalentes: manual puede envejecer sin límite si nadie invalida, y TTL puede
// servir datos viejos hasta TTL después de un write que no invalide.
const (
	PolicyTTL    = "ttl"
	PolicyManual = "manual"
)

// DefaultTTL frescura por defecto para PolicyTTL.
const DefaultTTL = 5 * time.Minute

// Options configuración del Store.
// SurfaceErrors true: un fetch fallido se propaga al caller (conservando lo cacheado);
// false: se loguea y se sirve la copia vieja, como degradaba el cliente original.
// En ambos casos un fetch fallido nunca toca los datos ni el timestamp previos.
type Options struct {
	Policy        string
	TTL           time.Duration
	SurfaceErrors bool
}

// Deps fuentes remotas de cada colección.
type Deps struct {
	Items      repository.ItemRepository
	Categories repository.CategoryRepository
	Sales      repository.SaleRepository
	Users      repository.UserRepository
	Settings   repository.SettingRepository
}

// entryMeta estado de frescura de una colección. Los datos viven en campos tipados
// del Store (sin reflexión ni interface{}): una caja por colección.
type entryMeta struct {
	lastFetchedAt time.Time
	fresh         bool
	everFetched   bool // sobrevive a Invalidate: hay datos viejos servibles
}

// Store caché en memoria de las colecciones del POS, delante de los repositorios.
// Es un objeto con dueño explícito (se inyecta, no hay estado global) y es seguro
// para goroutines concurrentes: toda mutación pasa por el RWMutex.
//
// Contrato de lectura: un fetch con filtros SIEMPRE va a la red y su resultado no
// se cachea; solo el listado canónico sin filtros se memoriza. Invalidate borra la
// señal de frescura pero no los datos: lo viejo sigue visible hasta el próximo
// fetch exitoso.
type Store struct {
	mu    sync.RWMutex
	deps  Deps
	opts  Options
	log   *logger.Logger
	clock func() time.Time

	meta       map[Key]*entryMeta
	items      []entity.Item
	categories []entity.Category
	sales      []entity.Sale
	users      []entity.User
	settings   []entity.Setting
}

// New construye el Store. Con Options vacío aplica PolicyTTL con DefaultTTL y
// propagación de errores al caller.
func New(deps Deps, opts Options, log *logger.Logger) *Store {
	if opts.Policy == "" {
		opts.Policy = PolicyTTL
	}
	if opts.TTL <= 0 {
		opts.TTL = DefaultTTL
	}
	if log == nil {
		log = logger.Noop()
	}
	meta := make(map[Key]*entryMeta, len(AllKeys()))
	for _, k := range AllKeys() {
		meta[k] = &entryMeta{}
	}
	return &Store{
		deps:  deps,
		opts:  opts,
		log:   log,
		clock: time.Now,
		meta:  meta,
	}
}

// isFresh evalúa la política de frescura. Caller debe tener el lock (read o write).
func (s *Store) isFresh(k Key) bool {
	m := s.meta[k]
	if m.lastFetchedAt.IsZero() {
		return false
	}
	if s.opts.Policy == PolicyManual {
		return m.fresh
	}
	return s.clock().Sub(m.lastFetchedAt) < s.opts.TTL
}

// commit marca una colección como recién traída. Caller debe tener el write lock.
func (s *Store) commit(k Key) {
	m := s.meta[k]
	m.lastFetchedAt = s.clock()
	m.fresh = true
	m.everFetched = true
}

// Invalidate borra la señal de frescura de las claves dadas (o de todas si no se
// pasa ninguna). El próximo fetch sin filtros irá a la red aunque force sea false.
func (s *Store) Invalidate(keys ...Key) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if len(keys) == 0 {
		keys = AllKeys()
	}
	for _, k := range keys {
		if m, ok := s.meta[k]; ok {
			m.lastFetchedAt = time.Time{}
			m.fresh = false
		}
	}
}

// LastFetchedAt devuelve cuándo se trajo por última vez la colección (zero = nunca).
func (s *Store) LastFetchedAt(k Key) time.Time {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if m, ok := s.meta[k]; ok {
		return m.lastFetchedAt
	}
	return time.Time{}
}

// Items devuelve artículos. Con filtros no vacíos va siempre a la red sin tocar la
// caché. Siempre aplica la sanitización de price/stock, venga de donde venga.
func (s *Store) Items(ctx context.Context, filters repository.ItemFilters, force bool) ([]entity.Item, error) {
	if !filters.Empty() {
		list, err := s.deps.Items.List(ctx, filters)
		if err != nil {
			return nil, err
		}
		return sanitizeItems(list), nil
	}

	if !force {
		s.mu.RLock()
		if s.isFresh(KeyItems) {
			cached := sanitizeItems(copySlice(s.items))
			s.mu.RUnlock()
			return cached, nil
		}
		s.mu.RUnlock()
	}

	list, err := s.deps.Items.List(ctx, repository.ItemFilters{})
	if err != nil {
		return staleOrError(s, KeyItems, err, func() []entity.Item { return sanitizeItems(copySlice(s.items)) })
	}
	list = sanitizeItems(list)

	s.mu.Lock()
	s.items = list
	s.commit(KeyItems)
	s.mu.Unlock()
	return copySlice(list), nil
}

// Categories devuelve categorías, cacheadas al no haber filtros posibles.
func (s *Store) Categories(ctx context.Context, force bool) ([]entity.Category, error) {
	if !force {
		s.mu.RLock()
		if s.isFresh(KeyCategories) {
			cached := copySlice(s.categories)
			s.mu.RUnlock()
			return cached, nil
		}
		s.mu.RUnlock()
	}

	list, err := s.deps.Categories.List(ctx)
	if err != nil {
		return staleOrError(s, KeyCategories, err, func() []entity.Category { return copySlice(s.categories) })
	}

	s.mu.Lock()
	s.categories = list
	s.commit(KeyCategories)
	s.mu.Unlock()
	return copySlice(list), nil
}

// Sales devuelve ventas. Con filtros no vacíos va siempre a la red sin tocar la caché.
func (s *Store) Sales(ctx context.Context, filters repository.SaleFilters, force bool) ([]entity.Sale, error) {
	if !filters.Empty() {
		return s.deps.Sales.List(ctx, filters)
	}

	if !force {
		s.mu.RLock()
		if s.isFresh(KeySales) {
			cached := copySlice(s.sales)
			s.mu.RUnlock()
			return cached, nil
		}
		s.mu.RUnlock()
	}

	list, err := s.deps.Sales.List(ctx, repository.SaleFilters{})
	if err != nil {
		return staleOrError(s, KeySales, err, func() []entity.Sale { return copySlice(s.sales) })
	}

	s.mu.Lock()
	s.sales = list
	s.commit(KeySales)
	s.mu.Unlock()
	return copySlice(list), nil
}

// Users devuelve usuarios. Un filtro de rol es un fetch filtrado: bypass de caché
// (los "empleados" del POS son Users(role=employee)).
func (s *Store) Users(ctx context.Context, role string, force bool) ([]entity.User, error) {
	if role != "" {
		return s.deps.Users.List(ctx, role)
	}

	if !force {
		s.mu.RLock()
		if s.isFresh(KeyUsers) {
			cached := copySlice(s.users)
			s.mu.RUnlock()
			return cached, nil
		}
		s.mu.RUnlock()
	}

	list, err := s.deps.Users.List(ctx, "")
	if err != nil {
		return staleOrError(s, KeyUsers, err, func() []entity.User { return copySlice(s.users) })
	}

	s.mu.Lock()
	s.users = list
	s.commit(KeyUsers)
	s.mu.Unlock()
	return copySlice(list), nil
}

// Settings devuelve las filas de configuración.
func (s *Store) Settings(ctx context.Context, force bool) ([]entity.Setting, error) {
	if !force {
		s.mu.RLock()
		if s.isFresh(KeySettings) {
			cached := copySlice(s.settings)
			s.mu.RUnlock()
			return cached, nil
		}
		s.mu.RUnlock()
	}

	list, err := s.deps.Settings.List(ctx)
	if err != nil {
		return staleOrError(s, KeySettings, err, func() []entity.Setting { return copySlice(s.settings) })
	}

	s.mu.Lock()
	s.settings = list
	s.commit(KeySettings)
	s.mu.Unlock()
	return copySlice(list), nil
}

// FetchAll trae categorías, usuarios, artículos y settings en paralelo. Cada fetch
// se compromete de forma independiente: un fallo en una colección no deshace a sus
// hermanas; se devuelve el primer error encontrado.
func (s *Store) FetchAll(ctx context.Context) error {
	return s.fetchAll(ctx, false)
}

// RefreshAll invalida todas las claves y vuelve a traer todo, garantizando que
// cada lectura posterior salió a la red.
func (s *Store) RefreshAll(ctx context.Context, force bool) error {
	s.Invalidate()
	return s.fetchAll(ctx, force)
}

func (s *Store) fetchAll(ctx context.Context, force bool) error {
	var wg sync.WaitGroup
	errs := make([]error, 4)

	wg.Add(4)
	go func() {
		defer wg.Done()
		_, errs[0] = s.Categories(ctx, force)
	}()
	go func() {
		defer wg.Done()
		_, errs[1] = s.Users(ctx, "", force)
	}()
	go func() {
		defer wg.Done()
		_, errs[2] = s.Items(ctx, repository.ItemFilters{}, force)
	}()
	go func() {
		defer wg.Done()
		_, errs[3] = s.Settings(ctx, force)
	}()
	wg.Wait()

	for _, err := range errs {
		if err != nil {
			return err
		}
	}
	return nil
}

// staleOrError aplica la política de errores de fetch: con SurfaceErrors el error
// sube al caller; si no, se loguea y se sirve la copia vieja. Si nunca hubo un
// fetch exitoso no hay nada viejo que servir y el error sube igual — la caché
// jamás disfraza un fallo de red como colección vacía.
func staleOrError[T any](s *Store, k Key, err error, cached func() []T) ([]T, error) {
	s.log.Error().Err(err).Str("collection", string(k)).Msg("fetch de colección falló")
	if s.opts.SurfaceErrors {
		return nil, err
	}
	s.mu.RLock()
	defer s.mu.RUnlock()
	if !s.meta[k].everFetched {
		return nil, err
	}
	return cached(), nil
}

// copySlice copia defensiva: los callers no deben compartir el backing array con la caché.
func copySlice[T any](in []T) []T {
	if in == nil {
		return nil
	}
	out := make([]T, len(in))
	copy(out, in)
	return out
}
