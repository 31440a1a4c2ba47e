package httpapi

import (
	"context"
	"net/http"
	"sort"
	"strconv"
	"sync"
	"time"

	"paperless/internal/auth"
	"paperless/internal/config"
	"paperless/internal/models"
	"paperless/internal/storage"
)

// fakeUserStore is an in-memory storage.UserStore.
type fakeUserStore struct {
	mu     sync.Mutex
	nextID int64
	users  map[int64]models.User
}

func newFakeUserStore() *fakeUserStore {
	return &fakeUserStore{nextID: 1, users: make(map[int64]models.User)}
}

func (s *fakeUserStore) CreateUser(_ context.Context, user models.User) (models.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, u := range s.users {
		if u.Email == user.Email {
			return models.User{}, storage.ErrAlreadyExists
		}
		if user.GoogleID != "" && u.GoogleID == user.GoogleID {
			return models.User{}, storage.ErrAlreadyExists
		}
	}
	user.ID = s.nextID
	s.nextID++
	user.CreatedAt = time.Now().UTC()
	s.users[user.ID] = user
	return user, nil
}

func (s *fakeUserStore) GetUserByID(_ context.Context, id int64) (models.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	u, ok := s.users[id]
	if !ok {
		return models.User{}, storage.ErrNotFound
	}
	return u, nil
}

func (s *fakeUserStore) GetUserByEmail(_ context.Context, email string) (models.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, u := range s.users {
		if u.Email == email {
			return u, nil
		}
	}
	return models.User{}, storage.ErrNotFound
}

func (s *fakeUserStore) GetUserByGoogleID(_ context.Context, googleID string) (models.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, u := range s.users {
		if u.GoogleID != "" && u.GoogleID == googleID {
			return u, nil
		}
	}
	return models.User{}, storage.ErrNotFound
}

func (s *fakeUserStore) TouchLastLogin(_ context.Context, id int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	u, ok := s.users[id]
	if !ok {
		return storage.ErrNotFound
	}
	u.LastLogin = time.Now().UTC()
	s.users[id] = u
	return nil
}

// fakeCategoryStore is an in-memory storage.CategoryStore with the
// same seed-on-list behavior as the real repository.
type fakeCategoryStore struct {
	mu         sync.Mutex
	nextID     int64
	categories map[int64]models.Category
	entries    *fakeEntryStore
}

func newFakeCategoryStore(entries *fakeEntryStore) *fakeCategoryStore {
	return &fakeCategoryStore{nextID: 1, categories: make(map[int64]models.Category), entries: entries}
}

func (s *fakeCategoryStore) Create(_ context.Context, category models.Category) (models.Category, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.create(category), nil
}

func (s *fakeCategoryStore) create(category models.Category) models.Category {
	if category.Type == "" {
		category.Type = models.CategoryTypeGeneral
	}
	category.ID = s.nextID
	s.nextID++
	category.CreatedAt = time.Now().UTC()
	s.categories[category.ID] = category
	return category
}

func (s *fakeCategoryStore) List(_ context.Context, userID int64, filter storage.CategoryFilter) ([]models.Category, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	var existing []models.Category
	for _, c := range s.categories {
		if c.UserID == userID {
			existing = append(existing, c)
		}
	}
	for _, d := range models.SeedPlan(existing) {
		s.create(models.Category{
			UserID:         userID,
			ParentCategory: d.ParentCategory,
			Name:           d.Name,
			Type:           d.Type,
		})
	}

	excluded := make(map[string]bool, len(filter.ExcludeParents))
	for _, p := range filter.ExcludeParents {
		excluded[p] = true
	}

	var out []models.Category
	for id := int64(1); id < s.nextID; id++ {
		c, ok := s.categories[id]
		if !ok || c.UserID != userID {
			continue
		}
		if filter.Parent != "" && c.ParentCategory != filter.Parent {
			continue
		}
		if excluded[c.ParentCategory] {
			continue
		}
		out = append(out, c)
	}
	return out, nil
}

func (s *fakeCategoryStore) Rename(_ context.Context, userID, categoryID int64, name string) (models.Category, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	c, ok := s.categories[categoryID]
	if !ok || c.UserID != userID {
		return models.Category{}, storage.ErrNotFound
	}
	c.Name = name
	s.categories[categoryID] = c
	return c, nil
}

func (s *fakeCategoryStore) Delete(_ context.Context, userID, categoryID int64) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	c, ok := s.categories[categoryID]
	if !ok || c.UserID != userID {
		return 0, storage.ErrNotFound
	}
	delete(s.categories, categoryID)
	return s.entries.deleteByCategory(userID, categoryID), nil
}

func (s *fakeCategoryStore) FindMilk(_ context.Context, userID int64) (models.Category, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for id := int64(1); id < s.nextID; id++ {
		c, ok := s.categories[id]
		if ok && c.UserID == userID && c.Type == models.CategoryTypeMilk {
			return c, nil
		}
	}
	return models.Category{}, storage.ErrNotFound
}

// fakeEntryStore is an in-memory storage.EntryStore.
type fakeEntryStore struct {
	mu         sync.Mutex
	nextID     int64
	entries    map[int64]models.Entry
	categories *fakeCategoryStore
}

func newFakeEntryStore() *fakeEntryStore {
	return &fakeEntryStore{nextID: 1, entries: make(map[int64]models.Entry)}
}

func (s *fakeEntryStore) Create(_ context.Context, entry models.Entry) (models.Entry, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.categories != nil {
		c, ok := s.categories.categories[entry.CategoryID]
		if !ok || c.UserID != entry.UserID {
			return models.Entry{}, storage.ErrNotFound
		}
	}
	if entry.PaymentMode == "" {
		entry.PaymentMode = models.DefaultPaymentMode
	}
	entry.ID = s.nextID
	s.nextID++
	now := time.Now().UTC()
	entry.CreatedAt, entry.UpdatedAt = now, now
	s.entries[entry.ID] = entry
	return entry, nil
}

func (s *fakeEntryStore) Update(_ context.Context, userID, entryID int64, upd storage.EntryUpdate) (models.Entry, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	e, ok := s.entries[entryID]
	if !ok || e.UserID != userID {
		return models.Entry{}, storage.ErrNotFound
	}
	if upd.Amount != nil {
		e.Amount = *upd.Amount
	}
	if upd.Date != nil {
		e.Date = *upd.Date
	}
	if upd.ItemName != nil {
		e.ItemName = *upd.ItemName
	}
	if upd.Notes != nil {
		e.Notes = *upd.Notes
	}
	if upd.Quantity != nil {
		e.Quantity = upd.Quantity
	}
	if upd.PricePerLitre != nil {
		e.PricePerLitre = upd.PricePerLitre
	}
	if upd.MorningLitres != nil {
		e.MorningLitres = upd.MorningLitres
	}
	if upd.NightLitres != nil {
		e.NightLitres = upd.NightLitres
	}
	if upd.Metadata != nil {
		e.Metadata = upd.Metadata
	}
	if upd.PaymentMode != nil {
		e.PaymentMode = *upd.PaymentMode
	}
	e.UpdatedAt = time.Now().UTC()
	s.entries[entryID] = e
	return e, nil
}

func (s *fakeEntryStore) Delete(_ context.Context, userID, entryID int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	e, ok := s.entries[entryID]
	if !ok || e.UserID != userID {
		return storage.ErrNotFound
	}
	delete(s.entries, entryID)
	return nil
}

func (s *fakeEntryStore) deleteByCategory(userID, categoryID int64) int64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	var removed int64
	for id, e := range s.entries {
		if e.UserID == userID && e.CategoryID == categoryID {
			delete(s.entries, id)
			removed++
		}
	}
	return removed
}

func (s *fakeEntryStore) ListByCategory(_ context.Context, userID, categoryID int64, limit int) ([]models.Entry, error) {
	all := s.matching(func(e models.Entry) bool {
		return e.UserID == userID && e.CategoryID == categoryID
	}, true)
	if len(all) > limit {
		all = all[:limit]
	}
	return all, nil
}

func (s *fakeEntryStore) ListByCategoryRange(_ context.Context, userID, categoryID int64, from, to *time.Time) ([]models.Entry, error) {
	return s.matching(func(e models.Entry) bool {
		return e.UserID == userID && e.CategoryID == categoryID && inRange(e.Date, from, to)
	}, false), nil
}

func (s *fakeEntryStore) ListByParent(_ context.Context, userID int64, parent string, from, to *time.Time) ([]models.Entry, error) {
	ids := make(map[int64]bool)
	if s.categories != nil {
		for id, c := range s.categories.categories {
			if c.UserID == userID && c.ParentCategory == parent {
				ids[id] = true
			}
		}
	}
	return s.matching(func(e models.Entry) bool {
		return e.UserID == userID && ids[e.CategoryID] && inRange(e.Date, from, to)
	}, true), nil
}

func (s *fakeEntryStore) ListByRange(_ context.Context, userID int64, from, to *time.Time) ([]models.Entry, error) {
	return s.matching(func(e models.Entry) bool {
		return e.UserID == userID && inRange(e.Date, from, to)
	}, true), nil
}

func (s *fakeEntryStore) matching(keep func(models.Entry) bool, descending bool) []models.Entry {
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []models.Entry
	for id := int64(1); id < s.nextID; id++ {
		e, ok := s.entries[id]
		if ok && keep(e) {
			out = append(out, e)
		}
	}
	sort.SliceStable(out, func(i, j int) bool {
		if descending {
			return out[i].Date.After(out[j].Date)
		}
		return out[i].Date.Before(out[j].Date)
	})
	return out
}

func inRange(t time.Time, from, to *time.Time) bool {
	if from != nil && t.Before(*from) {
		return false
	}
	if to != nil && !t.Before(*to) {
		return false
	}
	return true
}

// testEnv bundles a routed mux with its fakes and a token manager.
type testEnv struct {
	mux        *http.ServeMux
	cfg        *config.Config
	tokens     *auth.TokenManager
	users      *fakeUserStore
	categories *fakeCategoryStore
	entries    *fakeEntryStore
}

func newTestEnv() *testEnv {
	users := newFakeUserStore()
	entries := newFakeEntryStore()
	categories := newFakeCategoryStore(entries)
	entries.categories = categories

	cfg := &config.Config{ClientURL: "http://client.test"}
	tokens := auth.NewTokenManager("test-secret", time.Hour)
	guard := NewAuthMiddleware(tokens, users).RequireAuth

	mux := http.NewServeMux()
	NewAuthHandler(users, tokens, nil, cfg).Register(mux)
	NewCategoryHandler(categories).Register(mux, guard)
	NewEntryHandler(entries, categories).Register(mux, guard)
	NewChartHandler(entries, categories).Register(mux, guard)
	NewUserHandler().Register(mux, guard)

	return &testEnv{mux: mux, cfg: cfg, tokens: tokens, users: users, categories: categories, entries: entries}
}

func itoa(id int64) string {
	return strconv.FormatInt(id, 10)
}

// login creates a user and returns a bearer token for it.
func (e *testEnv) login(name, email string) (models.User, string) {
	user, err := e.users.CreateUser(context.Background(), models.User{
		Name:         name,
		Email:        email,
		PasswordHash: "x",
	})
	if err != nil {
		panic(err)
	}
	token, err := e.tokens.Generate(user.ID, user.Email)
	if err != nil {
		panic(err)
	}
	return user, token
}
