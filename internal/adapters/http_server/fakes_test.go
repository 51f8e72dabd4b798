package httpserver_test

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/http/cookiejar"
	"net/http/httptest"
	"net/url"
	"sort"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"

	httpserver "hotel_booking/internal/adapters/http_server"
	"hotel_booking/internal/adapters/session"
	"hotel_booking/internal/app"
	"hotel_booking/internal/domain"
)

// ---- in-memory repositories ----

type memHotels struct {
	mu     sync.Mutex
	byID   map[string]domain.Hotel
	order  []string
	seq    int
	writes int
}

func (m *memHotels) CreateHotel(ctx context.Context, h domain.Hotel) (domain.Hotel, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.seq++
	h.ID = fmt.Sprintf("h%d", m.seq)
	m.byID[h.ID] = h
	m.order = append(m.order, h.ID)
	m.writes++
	return h, nil
}

func (m *memHotels) UpdateHotel(ctx context.Context, h domain.Hotel) (domain.Hotel, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	old, ok := m.byID[h.ID]
	if !ok {
		return domain.Hotel{}, domain.ErrNotFound
	}
	if h.Image == "" {
		h.Image = old.Image
	}
	m.byID[h.ID] = h
	m.writes++
	return h, nil
}

func (m *memHotels) DeleteHotel(ctx context.Context, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.byID[id]; !ok {
		return domain.ErrNotFound
	}
	delete(m.byID, id)
	m.writes++
	return nil
}

func (m *memHotels) GetHotel(ctx context.Context, id string) (domain.Hotel, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	h, ok := m.byID[id]
	if !ok {
		return domain.Hotel{}, domain.ErrNotFound
	}
	return h, nil
}

func (m *memHotels) all(keep func(domain.Hotel) bool) []domain.Hotel {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := []domain.Hotel{}
	for _, id := range m.order {
		if h, ok := m.byID[id]; ok && keep(h) {
			out = append(out, h)
		}
	}
	return out
}

func (m *memHotels) ListAvailable(ctx context.Context) ([]domain.Hotel, error) {
	return m.all(func(h domain.Hotel) bool { return h.Available }), nil
}

func (m *memHotels) ListByCountry(ctx context.Context, c string) ([]domain.Hotel, error) {
	return m.all(func(h domain.Hotel) bool { return h.Country == c }), nil
}

func (m *memHotels) DistinctCountries(ctx context.Context) ([]string, error) {
	seen := map[string]bool{}
	var out []string
	for _, h := range m.all(func(domain.Hotel) bool { return true }) {
		if !seen[h.Country] {
			seen[h.Country] = true
			out = append(out, h.Country)
		}
	}
	return out, nil
}

func (m *memHotels) SampleAvailable(ctx context.Context, n int) ([]domain.Hotel, error) {
	hs, _ := m.ListAvailable(ctx)
	if len(hs) > n {
		hs = hs[:n]
	}
	return hs, nil
}

func (m *memHotels) SampleCountries(ctx context.Context, n int) ([]string, error) {
	cs, _ := m.DistinctCountries(ctx)
	if len(cs) > n {
		cs = cs[:n]
	}
	return cs, nil
}

func (m *memHotels) Search(ctx context.Context, q domain.SearchQuery) ([]domain.Hotel, error) {
	hs := m.all(func(h domain.Hotel) bool {
		phrase := strings.ToLower(q.Destination)
		match := strings.Contains(strings.ToLower(h.Name), phrase) || strings.Contains(strings.ToLower(h.Country), phrase)
		return match && h.Available && h.StarRating >= q.MinStars
	})
	sort.SliceStable(hs, func(i, j int) bool {
		if q.Sort == domain.SortDescending {
			return hs[i].CostPerNight > hs[j].CostPerNight
		}
		return hs[i].CostPerNight < hs[j].CostPerNight
	})
	return hs, nil
}

func (m *memHotels) FindByIDOrName(ctx context.Context, id, name string) ([]domain.Hotel, error) {
	return m.all(func(h domain.Hotel) bool {
		return h.ID == id || (name != "" && strings.EqualFold(h.Name, name))
	}), nil
}

type memUsers struct {
	mu   sync.Mutex
	byID map[string]domain.User
	seq  int
}

func (m *memUsers) CreateUser(ctx context.Context, u domain.User) (domain.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, x := range m.byID {
		if x.Email == u.Email {
			return domain.User{}, domain.ErrDuplicateEmail
		}
	}
	m.seq++
	u.ID = fmt.Sprintf("u%d", m.seq)
	m.byID[u.ID] = u
	return u, nil
}

func (m *memUsers) GetUser(ctx context.Context, id string) (domain.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	u, ok := m.byID[id]
	if !ok {
		return domain.User{}, domain.ErrNotFound
	}
	return u, nil
}

func (m *memUsers) GetUserByEmail(ctx context.Context, email string) (domain.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, u := range m.byID {
		if u.Email == email {
			return u, nil
		}
	}
	return domain.User{}, domain.ErrNotFound
}

func (m *memUsers) count() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.byID)
}

type memOrders struct {
	mu     sync.Mutex
	orders []domain.Order
	hotels *memHotels
}

func (m *memOrders) CreateOrder(ctx context.Context, o domain.Order) (domain.Order, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	o.ID = fmt.Sprintf("o%d", len(m.orders)+1)
	m.orders = append(m.orders, o)
	return o, nil
}

func (m *memOrders) ListOrders(ctx context.Context, userID string) ([]domain.OrderView, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := []domain.OrderView{}
	for _, o := range m.orders {
		if userID != "" && o.UserID != userID {
			continue
		}
		v := domain.OrderView{Order: o, Hotels: []domain.Hotel{}}
		if h, err := m.hotels.GetHotel(ctx, o.HotelID); err == nil {
			v.Hotels = append(v.Hotels, h)
		}
		out = append(out, v)
	}
	return out, nil
}

type fakeHasher struct{}

func (fakeHasher) Hash(p string) (string, error) { return "hashed:" + p, nil }
func (fakeHasher) Verify(h, p string) bool       { return h == "hashed:"+p }

type fakeUploader struct {
	err   error
	calls int
	last  string
}

func (f *fakeUploader) Upload(ctx context.Context, img domain.ImageFile) (string, error) {
	f.calls++
	b, _ := io.ReadAll(img.Body)
	f.last = string(b)
	if f.err != nil {
		return "", f.err
	}
	return "ref-" + img.Name, nil
}

// fakeViews records what would have been rendered.
type fakeViews struct {
	mu    sync.Mutex
	names []string
	views []httpserver.View
}

func (f *fakeViews) Render(w io.Writer, name string, v httpserver.View) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.names = append(f.names, name)
	f.views = append(f.views, v)
	_, err := io.WriteString(w, "<page "+name+">")
	return err
}

func (f *fakeViews) last(t *testing.T) (string, httpserver.View) {
	t.Helper()
	f.mu.Lock()
	defer f.mu.Unlock()
	if len(f.names) == 0 {
		t.Fatalf("nothing rendered")
	}
	return f.names[len(f.names)-1], f.views[len(f.views)-1]
}

func (f *fakeViews) count() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.names)
}

// ---- test server ----

type env struct {
	t        *testing.T
	ts       *httptest.Server
	hotels   *memHotels
	users    *memUsers
	orders   *memOrders
	uploader *fakeUploader
	views    *fakeViews
	client   *http.Client
}

var errBoom = errors.New("boom")

func newEnv(t *testing.T, production bool) *env {
	t.Helper()
	mr := miniredis.RunT(t)
	rc := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = rc.Close() })

	e := &env{
		t:        t,
		hotels:   &memHotels{byID: map[string]domain.Hotel{}},
		users:    &memUsers{byID: map[string]domain.User{}},
		uploader: &fakeUploader{},
		views:    &fakeViews{},
	}
	e.orders = &memOrders{hotels: e.hotels}

	// one admin, one regular user
	_, _ = e.users.CreateUser(context.Background(), domain.User{FirstName: "Ada", Email: "admin@example.com", PasswordHash: "hashed:secret1", IsAdmin: true})
	_, _ = e.users.CreateUser(context.Background(), domain.User{FirstName: "Bob", Email: "bob@example.com", PasswordHash: "hashed:secret2"})

	sessions := session.NewManager(session.NewRedisStore(rc), "test-secret", time.Hour)
	srv := httpserver.New(sessions.Middleware)
	srv.MountHandlers(&httpserver.Handlers{
		Q:          app.NewQueryService(e.hotels, e.orders, nil, time.Minute),
		Hotels:     app.NewHotelService(e.hotels, e.uploader, nil),
		Auth:       app.NewAuthService(e.users, fakeHasher{}),
		Booking:    app.NewBookingService(e.hotels, e.orders),
		Views:      e.views,
		Production: production,
	})
	e.ts = httptest.NewServer(srv.Mux())
	t.Cleanup(e.ts.Close)
	e.client = e.newClient()
	return e
}

// newClient returns a browser-like client that keeps cookies and does not
// follow redirects.
func (e *env) newClient() *http.Client {
	jar, _ := cookiejar.New(nil)
	return &http.Client{
		Jar: jar,
		CheckRedirect: func(*http.Request, []*http.Request) error {
			return http.ErrUseLastResponse
		},
	}
}

func (e *env) get(c *http.Client, path string) *http.Response {
	e.t.Helper()
	resp, err := c.Get(e.ts.URL + path)
	if err != nil {
		e.t.Fatalf("GET %s: %v", path, err)
	}
	_, _ = io.Copy(io.Discard, resp.Body)
	resp.Body.Close()
	return resp
}

func (e *env) post(c *http.Client, path string, form url.Values) *http.Response {
	e.t.Helper()
	resp, err := c.PostForm(e.ts.URL+path, form)
	if err != nil {
		e.t.Fatalf("POST %s: %v", path, err)
	}
	_, _ = io.Copy(io.Discard, resp.Body)
	resp.Body.Close()
	return resp
}

func (e *env) login(c *http.Client, email, password string) {
	e.t.Helper()
	resp := e.post(c, "/login", url.Values{"email": {email}, "password": {password}})
	if resp.StatusCode != http.StatusFound || resp.Header.Get("Location") != "/" {
		e.t.Fatalf("login %s: status %d location %q", email, resp.StatusCode, resp.Header.Get("Location"))
	}
}

func expectRedirect(t *testing.T, resp *http.Response, to string) {
	t.Helper()
	if resp.StatusCode != http.StatusFound {
		t.Fatalf("expected 302, got %d", resp.StatusCode)
	}
	if got := resp.Header.Get("Location"); got != to {
		t.Fatalf("expected redirect to %q, got %q", to, got)
	}
}
