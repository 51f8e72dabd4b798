package app_test

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"
	"sync"

	"hotel_booking/internal/domain"
)

// ---- fakes ----

type fakeHotels struct {
	mu     sync.Mutex
	byID   map[string]domain.Hotel
	order  []string
	seq    int
	writes int

	sampleErr  error
	countryErr error
	distincts  int
}

func newFakeHotels(hs ...domain.Hotel) *fakeHotels {
	f := &fakeHotels{byID: map[string]domain.Hotel{}}
	for _, h := range hs {
		_, _ = f.CreateHotel(context.Background(), h)
	}
	f.writes = 0
	return f
}

func (f *fakeHotels) CreateHotel(ctx context.Context, h domain.Hotel) (domain.Hotel, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.seq++
	h.ID = fmt.Sprintf("h%d", f.seq)
	f.byID[h.ID] = h
	f.order = append(f.order, h.ID)
	f.writes++
	return h, nil
}

func (f *fakeHotels) UpdateHotel(ctx context.Context, h domain.Hotel) (domain.Hotel, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	old, ok := f.byID[h.ID]
	if !ok {
		return domain.Hotel{}, domain.ErrNotFound
	}
	if h.Image == "" {
		h.Image = old.Image
	}
	f.byID[h.ID] = h
	f.writes++
	return h, nil
}

func (f *fakeHotels) DeleteHotel(ctx context.Context, id string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if _, ok := f.byID[id]; !ok {
		return domain.ErrNotFound
	}
	delete(f.byID, id)
	f.writes++
	return nil
}

func (f *fakeHotels) GetHotel(ctx context.Context, id string) (domain.Hotel, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	h, ok := f.byID[id]
	if !ok {
		return domain.Hotel{}, domain.ErrNotFound
	}
	return h, nil
}

func (f *fakeHotels) all() []domain.Hotel {
	var out []domain.Hotel
	for _, id := range f.order {
		if h, ok := f.byID[id]; ok {
			out = append(out, h)
		}
	}
	return out
}

func (f *fakeHotels) ListAvailable(ctx context.Context) ([]domain.Hotel, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []domain.Hotel
	for _, h := range f.all() {
		if h.Available {
			out = append(out, h)
		}
	}
	return out, nil
}

func (f *fakeHotels) ListByCountry(ctx context.Context, country string) ([]domain.Hotel, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []domain.Hotel
	for _, h := range f.all() {
		if h.Country == country {
			out = append(out, h)
		}
	}
	return out, nil
}

func (f *fakeHotels) DistinctCountries(ctx context.Context) ([]string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.distincts++
	seen := map[string]bool{}
	var out []string
	for _, h := range f.all() {
		if !seen[h.Country] {
			seen[h.Country] = true
			out = append(out, h.Country)
		}
	}
	return out, nil
}

func (f *fakeHotels) SampleAvailable(ctx context.Context, n int) ([]domain.Hotel, error) {
	if f.sampleErr != nil {
		return nil, f.sampleErr
	}
	hs, _ := f.ListAvailable(ctx)
	if len(hs) > n {
		hs = hs[:n]
	}
	return hs, nil
}

func (f *fakeHotels) SampleCountries(ctx context.Context, n int) ([]string, error) {
	if f.countryErr != nil {
		return nil, f.countryErr
	}
	cs, _ := f.DistinctCountries(ctx)
	if len(cs) > n {
		cs = cs[:n]
	}
	return cs, nil
}

// Search mimics an exact-phrase text match on name and country.
func (f *fakeHotels) Search(ctx context.Context, q domain.SearchQuery) ([]domain.Hotel, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	phrase := strings.ToLower(q.Destination)
	var out []domain.Hotel
	for _, h := range f.all() {
		text := strings.ToLower(h.Name + " " + h.Country)
		if strings.Contains(text, phrase) && h.Available && h.StarRating >= q.MinStars {
			out = append(out, h)
		}
	}
	sort.SliceStable(out, func(i, j int) bool {
		if q.Sort == domain.SortDescending {
			return out[i].CostPerNight > out[j].CostPerNight
		}
		return out[i].CostPerNight < out[j].CostPerNight
	})
	return out, nil
}

func (f *fakeHotels) FindByIDOrName(ctx context.Context, id, name string) ([]domain.Hotel, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []domain.Hotel
	for _, h := range f.all() {
		if h.ID == id || (name != "" && strings.EqualFold(h.Name, name)) {
			out = append(out, h)
		}
	}
	return out, nil
}

type fakeOrders struct {
	hotels *fakeHotels
	orders []domain.Order
}

func (f *fakeOrders) CreateOrder(ctx context.Context, o domain.Order) (domain.Order, error) {
	o.ID = fmt.Sprintf("o%d", len(f.orders)+1)
	f.orders = append(f.orders, o)
	return o, nil
}

func (f *fakeOrders) ListOrders(ctx context.Context, userID string) ([]domain.OrderView, error) {
	var out []domain.OrderView
	for _, o := range f.orders {
		if userID != "" && o.UserID != userID {
			continue
		}
		v := domain.OrderView{Order: o, Hotels: []domain.Hotel{}}
		if h, err := f.hotels.GetHotel(ctx, o.HotelID); err == nil {
			v.Hotels = append(v.Hotels, h)
		}
		out = append(out, v)
	}
	return out, nil
}

type fakeUsers struct {
	byEmail map[string]domain.User
	creates int
}

func newFakeUsers() *fakeUsers { return &fakeUsers{byEmail: map[string]domain.User{}} }

func (f *fakeUsers) CreateUser(ctx context.Context, u domain.User) (domain.User, error) {
	if _, ok := f.byEmail[u.Email]; ok {
		return domain.User{}, domain.ErrDuplicateEmail
	}
	f.creates++
	u.ID = fmt.Sprintf("u%d", f.creates)
	f.byEmail[u.Email] = u
	return u, nil
}

func (f *fakeUsers) GetUser(ctx context.Context, id string) (domain.User, error) {
	for _, u := range f.byEmail {
		if u.ID == id {
			return u, nil
		}
	}
	return domain.User{}, domain.ErrNotFound
}

func (f *fakeUsers) GetUserByEmail(ctx context.Context, email string) (domain.User, error) {
	u, ok := f.byEmail[email]
	if !ok {
		return domain.User{}, domain.ErrNotFound
	}
	return u, nil
}

type fakeCache struct {
	store map[string][]string
	dels  int
}

func (c *fakeCache) Get(ctx context.Context, key string, dst any) (bool, error) {
	v, ok := c.store[key]
	if !ok {
		return false, nil
	}
	*(dst.(*[]string)) = append([]string(nil), v...)
	return true, nil
}

func (c *fakeCache) Set(ctx context.Context, key string, v any, ttlSec int) error {
	if c.store == nil {
		c.store = map[string][]string{}
	}
	c.store[key] = v.([]string)
	return nil
}

func (c *fakeCache) Del(ctx context.Context, key string) error {
	c.dels++
	delete(c.store, key)
	return nil
}

type fakeUploader struct {
	ref   string
	err   error
	calls int
}

func (u *fakeUploader) Upload(ctx context.Context, img domain.ImageFile) (string, error) {
	u.calls++
	if u.err != nil {
		return "", u.err
	}
	return u.ref, nil
}

// plain "hasher" so tests don't pay for bcrypt
type fakeHasher struct{}

func (fakeHasher) Hash(plain string) (string, error) { return "hashed:" + plain, nil }
func (fakeHasher) Verify(hash, plain string) bool   { return hash == "hashed:"+plain }

var errBoom = errors.New("boom")

func names(hs []domain.Hotel) []string {
	out := make([]string, 0, len(hs))
	for _, h := range hs {
		out = append(out, h.Name)
	}
	return out
}
