package httpserver

import (
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog/log"

	"hotel_booking/internal/adapters/session"
	"hotel_booking/internal/domain"
	"hotel_booking/internal/validation"
)

const imageField = "image"

func (h *Handlers) admin(w http.ResponseWriter, r *http.Request) {
	h.render(w, r, "admin", h.view(r, "Admin"))
}

func (h *Handlers) allOrders(w http.ResponseWriter, r *http.Request) {
	orders, err := h.Q.AllOrders(r.Context())
	if err != nil {
		h.fail(w, r, err)
		return
	}
	v := h.view(r, "All orders")
	v.Data = orders
	h.render(w, r, "orders", v)
}

func (h *Handlers) addHotelGet(w http.ResponseWriter, r *http.Request) {
	h.render(w, r, "add_hotel", h.view(r, "Add new hotel"))
}

func (h *Handlers) addHotelPost(w http.ResponseWriter, r *http.Request) {
	h.saveHotel(w, r, "")
}

func (h *Handlers) updateHotelGet(w http.ResponseWriter, r *http.Request) {
	hotel, err := h.Hotels.Find(r.Context(), chi.URLParam(r, "hotelId"))
	if err != nil {
		h.fail(w, r, err)
		return
	}
	v := h.view(r, "Update hotel")
	v.Data = hotel
	h.render(w, r, "add_hotel", v)
}

func (h *Handlers) updateHotelPost(w http.ResponseWriter, r *http.Request) {
	h.saveHotel(w, r, chi.URLParam(r, "hotelId"))
}

// saveHotel creates (id == "") or updates a hotel: read at most one file,
// validate, upload, persist, then show the hotel.
func (h *Handlers) saveHotel(w http.ResponseWriter, r *http.Request, id string) {
	formURL := "/admin/add"
	title := "Add new hotel"
	if id != "" {
		formURL = "/admin/" + id + "/update"
		title = "Update hotel"
	}

	f, img, cleanup, err := h.readHotelForm(w, r)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	defer cleanup()

	if errs := validation.Run(f, validation.HotelRules...); len(errs) > 0 {
		v := h.view(r, title)
		v.Errors = errs.Messages()
		v.Form = f
		h.render(w, r, "add_hotel", v)
		return
	}
	hotel, err := validation.HotelFromForm(validation.Sanitize(f))
	if err != nil {
		h.fail(w, r, err)
		return
	}

	var saved domain.Hotel
	if id == "" {
		saved, err = h.Hotels.Create(r.Context(), hotel, img)
	} else {
		saved, err = h.Hotels.Update(r.Context(), id, hotel, img)
	}
	switch {
	case errors.Is(err, domain.ErrUploadFailed):
		flash(r, session.FlashError, "Image upload failed, please try again")
		http.Redirect(w, r, formURL, http.StatusFound)
		return
	case err != nil:
		h.fail(w, r, err)
		return
	}
	log.Info().Str("hotel_id", saved.ID).Bool("created", id == "").Msg("hotel saved")
	http.Redirect(w, r, "/all/"+saved.ID, http.StatusFound)
}

// readHotelForm parses the submission and returns its single optional file.
// More than one file is a bad request.
func (h *Handlers) readHotelForm(w http.ResponseWriter, r *http.Request) (validation.Form, *domain.ImageFile, func(), error) {
	noop := func() {}
	r.Body = http.MaxBytesReader(w, r.Body, h.MaxUploadBytes)
	if err := r.ParseMultipartForm(h.MaxUploadBytes); err != nil {
		if !errors.Is(err, http.ErrNotMultipart) {
			var tooBig *http.MaxBytesError
			if errors.As(err, &tooBig) {
				return nil, nil, noop, &HTTPError{Status: http.StatusRequestEntityTooLarge, Message: "upload too large"}
			}
			return nil, nil, noop, badRequest("malformed form")
		}
		if err := r.ParseForm(); err != nil {
			return nil, nil, noop, badRequest("malformed form")
		}
	}
	f := validation.FormFrom(r.PostForm)
	if r.MultipartForm == nil {
		return f, nil, noop, nil
	}
	cleanup := func() { _ = r.MultipartForm.RemoveAll() }

	var files int
	for _, fhs := range r.MultipartForm.File {
		files += len(fhs)
	}
	if files > 1 {
		cleanup()
		return nil, nil, noop, badRequest("only one image may be uploaded")
	}
	fhs := r.MultipartForm.File[imageField]
	if len(fhs) == 0 || fhs[0].Size == 0 {
		return f, nil, cleanup, nil
	}
	fh := fhs[0]
	file, err := fh.Open()
	if err != nil {
		cleanup()
		return nil, nil, noop, badRequest("unreadable upload")
	}
	img := &domain.ImageFile{
		Name:        fh.Filename,
		ContentType: fh.Header.Get("Content-Type"),
		Size:        fh.Size,
		Body:        file,
	}
	return f, img, func() { _ = file.Close(); cleanup() }, nil
}

func (h *Handlers) editRemoveGet(w http.ResponseWriter, r *http.Request) {
	h.render(w, r, "edit_remove", h.view(r, "Search for hotel to edit or remove"))
}

// editRemovePost looks a hotel up by id or case-insensitive name. No match
// sends the admin back to the search form.
func (h *Handlers) editRemovePost(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		h.fail(w, r, badRequest("malformed form"))
		return
	}
	f := validation.Sanitize(validation.FormFrom(r.PostForm))
	hotels, err := h.Hotels.Lookup(r.Context(), f[validation.HotelID], f[validation.HotelName])
	if err != nil {
		h.fail(w, r, err)
		return
	}
	if len(hotels) == 0 {
		flash(r, session.FlashInfo, "No hotel matched your search")
		http.Redirect(w, r, "/admin/edit-remove", http.StatusFound)
		return
	}
	v := h.view(r, "Edit or remove hotel")
	v.Data = hotels
	h.render(w, r, "edit_remove", v)
}

func (h *Handlers) deleteHotelGet(w http.ResponseWriter, r *http.Request) {
	hotel, err := h.Hotels.Find(r.Context(), chi.URLParam(r, "hotelId"))
	if err != nil {
		h.fail(w, r, err)
		return
	}
	v := h.view(r, "Delete hotel")
	v.Data = hotel
	h.render(w, r, "delete_hotel", v)
}

func (h *Handlers) deleteHotelPost(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "hotelId")
	if err := h.Hotels.Delete(r.Context(), id); err != nil {
		h.fail(w, r, err)
		return
	}
	log.Info().Str("hotel_id", id).Msg("hotel deleted")
	flash(r, session.FlashInfo, "Hotel deleted")
	http.Redirect(w, r, "/", http.StatusFound)
}
