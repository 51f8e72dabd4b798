package httpserver

import (
	"errors"
	"net/http"
	"net/url"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog/log"

	"hotel_booking/internal/adapters/observability"
	"hotel_booking/internal/adapters/session"
	"hotel_booking/internal/app"
	"hotel_booking/internal/domain"
	"hotel_booking/internal/validation"
)

type Handlers struct {
	Q       *app.QueryService
	Hotels  *app.HotelService
	Auth    *app.AuthService
	Booking *app.BookingService
	Views   Renderer

	Production     bool
	MaxUploadBytes int64
	// Health reports dependency readiness for /healthz; nil means always ready.
	Health func(r *http.Request) error
}

func (s *Server) MountHandlers(h *Handlers) {
	if h.MaxUploadBytes <= 0 {
		h.MaxUploadBytes = 10 << 20
	}
	s.mux.Use(h.CurrentUser)
	s.mux.NotFound(h.notFound)

	s.mux.Get("/healthz", h.healthz)

	s.mux.Get("/", h.home)
	s.mux.Get("/all", h.allHotels)
	s.mux.Get("/all/{hotel}", h.hotelDetail)
	s.mux.Get("/countries", h.allCountries)
	s.mux.Get("/countries/{country}", h.countryHotels)
	s.mux.Post("/results", h.search)

	s.mux.Get("/sign-up", h.signUpGet)
	s.mux.Post("/sign-up", h.signUpPost)
	s.mux.Get("/login", h.loginGet)
	s.mux.Post("/login", h.loginPost)
	s.mux.Get("/logout", h.logout)

	s.mux.Get("/book", h.book)
	s.mux.Get("/confirmation/{data}", h.confirmation)
	s.mux.With(RequireLogin).Get("/order-placed/{data}", h.orderPlaced)
	s.mux.With(RequireLogin).Get("/my-account", h.myAccount)

	s.mux.Route("/admin", func(r chi.Router) {
		r.Use(RequireAdmin)
		r.Get("/", h.admin)
		r.Get("/add", h.addHotelGet)
		r.Post("/add", h.addHotelPost)
		r.Get("/edit-remove", h.editRemoveGet)
		r.Post("/edit-remove", h.editRemovePost)
		r.Get("/orders", h.allOrders)
		r.Get("/{hotelId}/update", h.updateHotelGet)
		r.Post("/{hotelId}/update", h.updateHotelPost)
		r.Get("/{hotelId}/delete", h.deleteHotelGet)
		r.Post("/{hotelId}/delete", h.deleteHotelPost)
		r.NotFound(h.notFound)
	})
}

func (h *Handlers) healthz(w http.ResponseWriter, r *http.Request) {
	if h.Health != nil {
		if err := h.Health(r); err != nil {
			log.Warn().Err(err).Msg("health check failed")
			http.Error(w, "unavailable", http.StatusServiceUnavailable)
			return
		}
	}
	w.WriteHeader(200)
	_, _ = w.Write([]byte("ok"))
}

func flash(r *http.Request, kind session.FlashKind, msg string) {
	if s := session.FromContext(r.Context()); s != nil {
		s.AddFlash(kind, msg)
	}
}

// ---- browsing ----

func (h *Handlers) home(w http.ResponseWriter, r *http.Request) {
	hl, err := h.Q.Highlights(r.Context())
	if err != nil {
		h.fail(w, r, err)
		return
	}
	v := h.view(r, "Lets Travel")
	v.Data = hl
	h.render(w, r, "index", v)
}

func (h *Handlers) allHotels(w http.ResponseWriter, r *http.Request) {
	hotels, err := h.Q.AvailableHotels(r.Context())
	if err != nil {
		h.fail(w, r, err)
		return
	}
	v := h.view(r, "All Hotels")
	v.Data = hotels
	h.render(w, r, "all_hotels", v)
}

func (h *Handlers) hotelDetail(w http.ResponseWriter, r *http.Request) {
	hotel, err := h.Q.Hotel(r.Context(), chi.URLParam(r, "hotel"))
	if err != nil {
		h.fail(w, r, err)
		return
	}
	v := h.view(r, hotel.Name)
	v.Data = hotel
	h.render(w, r, "hotel", v)
}

func (h *Handlers) allCountries(w http.ResponseWriter, r *http.Request) {
	countries, err := h.Q.Countries(r.Context())
	if err != nil {
		h.fail(w, r, err)
		return
	}
	v := h.view(r, "Browse by country")
	v.Data = countries
	h.render(w, r, "all_countries", v)
}

func (h *Handlers) countryHotels(w http.ResponseWriter, r *http.Request) {
	country := chi.URLParam(r, "country")
	// stored countries are escaped
	stored := validation.Sanitize(validation.Form{validation.Country: country})[validation.Country]
	hotels, err := h.Q.HotelsInCountry(r.Context(), stored)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	v := h.view(r, "Hotels in "+country)
	v.Data = hotels
	h.render(w, r, "all_hotels", v)
}

func (h *Handlers) search(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		h.fail(w, r, badRequest("malformed form"))
		return
	}
	f := validation.FormFrom(r.PostForm)
	v := h.view(r, "Search results")
	if errs := validation.Run(f, validation.SearchRules...); len(errs) > 0 {
		v.Errors = errs.Messages()
		v.Form = f
		h.render(w, r, "search_results", v)
		return
	}
	f = validation.Sanitize(f)
	q, err := validation.SearchFromForm(f)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	hotels, err := h.Q.Search(r.Context(), q)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	v.Form = f
	v.Data = hotels
	h.render(w, r, "search_results", v)
}

// ---- accounts ----

func (h *Handlers) signUpGet(w http.ResponseWriter, r *http.Request) {
	h.render(w, r, "sign_up", h.view(r, "Sign up"))
}

// signUpPost: validate, sanitize, persist, then log in with the same
// credentials.
func (h *Handlers) signUpPost(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		h.fail(w, r, badRequest("malformed form"))
		return
	}
	f := validation.FormFrom(r.PostForm)
	if errs := validation.Run(f, validation.SignUpRules...); len(errs) > 0 {
		v := h.view(r, "Sign up")
		v.Errors = errs.Messages()
		v.Form = withoutSecrets(f)
		h.render(w, r, "sign_up", v)
		return
	}
	f = validation.Sanitize(f, validation.SecretFields...)
	in := validation.SignUpFromForm(f)
	if _, err := h.Auth.SignUp(r.Context(), in); err != nil {
		h.fail(w, r, err)
		return
	}
	observability.ObserveAuth("signup")
	h.authenticate(w, r, in.Email, in.Password)
}

func withoutSecrets(f validation.Form) validation.Form {
	out := make(validation.Form, len(f))
	for k, v := range f {
		out[k] = v
	}
	for _, k := range validation.SecretFields {
		delete(out, k)
	}
	return out
}

func (h *Handlers) loginGet(w http.ResponseWriter, r *http.Request) {
	h.render(w, r, "login", h.view(r, "Log in"))
}

func (h *Handlers) loginPost(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		h.fail(w, r, badRequest("malformed form"))
		return
	}
	// same cleaning as sign-up so stored and submitted emails compare equal
	f := validation.Sanitize(validation.FormFrom(r.PostForm), validation.SecretFields...)
	h.authenticate(w, r, f[validation.Email], f[validation.Password])
}

func (h *Handlers) authenticate(w http.ResponseWriter, r *http.Request, email, password string) {
	sess := session.FromContext(r.Context())
	u, err := h.Auth.VerifyCredentials(r.Context(), email, password)
	if err != nil {
		if !errors.Is(err, domain.ErrAuthFailed) {
			h.fail(w, r, err)
			return
		}
		observability.ObserveAuth("login_failed")
		log.Info().Str("email", domain.NormalizeEmail(email)).Msg("login failed")
		flash(r, session.FlashError, "Incorrect email or password")
		http.Redirect(w, r, "/login", http.StatusFound)
		return
	}
	if sess != nil {
		sess.Login(u.ID)
	}
	observability.ObserveAuth("login_ok")
	log.Info().Str("user_id", u.ID).Msg("login")
	flash(r, session.FlashSuccess, "You are now logged in")
	http.Redirect(w, r, "/", http.StatusFound)
}

func (h *Handlers) logout(w http.ResponseWriter, r *http.Request) {
	if sess := session.FromContext(r.Context()); sess != nil {
		if sess.Authenticated() {
			log.Info().Str("user_id", sess.UserID()).Msg("logout")
		}
		sess.Logout()
		sess.AddFlash(session.FlashInfo, "You are now logged out")
	}
	observability.ObserveAuth("logout")
	http.Redirect(w, r, "/", http.StatusFound)
}

// ---- booking ----

// book turns the hotel page form into a confirmation URL.
func (h *Handlers) book(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	blob := url.Values{}
	for _, k := range []string{"id", "duration", "dateOfDeparture", "numberOfGuests"} {
		blob.Set(k, q.Get(k))
	}
	http.Redirect(w, r, "/confirmation/"+url.PathEscape(blob.Encode()), http.StatusFound)
}

func (h *Handlers) confirmation(w http.ResponseWriter, r *http.Request) {
	data := chi.URLParam(r, "data")
	b, err := app.ParseBooking(data)
	if err != nil {
		h.fail(w, r, badRequest(err.Error()))
		return
	}
	c, err := h.Booking.Confirm(r.Context(), b)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	v := h.view(r, "Confirm your booking")
	v.Data = c
	v.Form = validation.Form{"data": data}
	h.render(w, r, "confirmation", v)
}

func (h *Handlers) orderPlaced(w http.ResponseWriter, r *http.Request) {
	b, err := app.ParseBooking(chi.URLParam(r, "data"))
	if err != nil {
		h.fail(w, r, badRequest(err.Error()))
		return
	}
	u := UserFrom(r.Context())
	if _, err := h.Booking.Place(r.Context(), u.ID, b); err != nil {
		h.fail(w, r, err)
		return
	}
	flash(r, session.FlashSuccess, "Thank you for your order, we look forward to seeing you")
	http.Redirect(w, r, "/my-account", http.StatusFound)
}

func (h *Handlers) myAccount(w http.ResponseWriter, r *http.Request) {
	orders, err := h.Q.OrdersFor(r.Context(), UserFrom(r.Context()).ID)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	v := h.view(r, "My account")
	v.Data = orders
	h.render(w, r, "my_account", v)
}
