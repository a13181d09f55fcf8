// internal/adapters/http_server/handlers.go
package httpserver

import (
	"crypto/sha1"
	"encoding/hex"
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog/log"

	"labbaik_intel/internal/app"
	"labbaik_intel/internal/domain"
	"labbaik_intel/internal/intel/itinerary"
)

type Handlers struct {
	Q *app.QueryService
	C *app.ResolutionService
}

type problem struct {
	Type   string `json:"type"`
	Title  string `json:"title"`
	Status int    `json:"status"`
	Detail string `json:"detail,omitempty"`
}

func (s *Server) MountHandlers(h *Handlers) {
	s.mux.Get("/healthz", func(w http.ResponseWriter, r *http.Request) { w.WriteHeader(200); _, _ = w.Write([]byte("ok")) })
	s.mux.Get("/v1/cities/{city}/clusters", h.listClusters)
	s.mux.Get("/v1/hotels/{id}", h.getHotel)
	s.mux.Get("/v1/hotels/{id}/risk", h.hotelRisk)
	s.mux.Get("/v1/hotels/{id}/amenities", h.hotelAmenities)
	s.mux.Post("/v1/snapshots", h.pushSnapshot)
	s.mux.Get("/v1/convert", h.convert)
	s.mux.Get("/v1/itinerary", h.itinerary)
	s.mux.Get("/v1/itinerary/options", h.itineraryOptions)
	s.mux.Get("/v1/seasons/advice", h.seasonAdvice)
}

func writeProblem(w http.ResponseWriter, status int, title, detail string) {
	w.Header().Set("Content-Type", "application/problem+json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(problem{Type: "about:blank", Title: title, Status: status, Detail: detail}); err != nil {
		log.Error().Err(err).Msg("write JSON problem response failed")
	}
}

// calcETagAndBody marshals once and hashes once, returning both ETag and body.
func calcETagAndBody(v any) (string, []byte) {
	body, err := json.Marshal(v)
	if err != nil {
		// Log but don't fail the whole response; return empty ETag and best-effort body.
		log.Error().Err(err).Msg("failed to marshal object for ETag/body")
		return "", nil
	}
	sum := sha1.Sum(body)
	etag := `W/"` + hex.EncodeToString(sum[:]) + `"`
	return etag, body
}

// writeCacheable sends a JSON body with an ETag, honoring If-None-Match.
func writeCacheable(w http.ResponseWriter, r *http.Request, v any) {
	etag, body := calcETagAndBody(v)
	if inm := r.Header.Get("If-None-Match"); inm != "" && inm == etag {
		w.Header().Set("ETag", etag) // include ETag on 304
		w.WriteHeader(http.StatusNotModified)
		return
	}
	w.Header().Set("ETag", etag)
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	if _, err := w.Write(body); err != nil {
		log.Error().Err(err).Msg("failed to write response body")
	}
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		log.Error().Err(err).Msg("write JSON response failed")
	}
}

func (h *Handlers) listClusters(w http.ResponseWriter, r *http.Request) {
	city := chi.URLParam(r, "city")
	out, err := h.Q.ListClusterSummaries(r.Context(), city)
	if err != nil {
		writeProblem(w, http.StatusInternalServerError, "Internal Error", "failed to list clusters")
		return
	}
	writeCacheable(w, r, out)
}

func (h *Handlers) getHotel(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	resp, err := h.Q.GetEntity(r.Context(), id)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			writeProblem(w, http.StatusNotFound, "Not Found", "hotel not found")
			return
		}
		writeProblem(w, http.StatusInternalServerError, "Internal Error", "failed to load hotel")
		return
	}
	writeCacheable(w, r, resp)
}

func (h *Handlers) hotelRisk(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	city := r.URL.Query().Get("city")

	checkinStr := r.URL.Query().Get("checkin")
	checkin, err := time.Parse("2006-01-02", checkinStr)
	if err != nil {
		writeProblem(w, http.StatusBadRequest, "Invalid checkin", "checkin must be YYYY-MM-DD")
		return
	}
	var checkout *time.Time
	if cs := r.URL.Query().Get("checkout"); cs != "" {
		t, err := time.Parse("2006-01-02", cs)
		if err != nil {
			writeProblem(w, http.StatusBadRequest, "Invalid checkout", "checkout must be YYYY-MM-DD")
			return
		}
		checkout = &t
	}

	out, err := h.Q.HotelRisk(r.Context(), id, city, checkin, checkout)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			writeProblem(w, http.StatusNotFound, "Not Found", "hotel not found")
			return
		}
		writeProblem(w, http.StatusInternalServerError, "Internal Error", "failed to score risk")
		return
	}
	writeJSON(w, http.StatusOK, out)
}

func (h *Handlers) hotelAmenities(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	out, err := h.Q.HotelAmenities(r.Context(), id)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			writeProblem(w, http.StatusNotFound, "Not Found", "hotel not found")
			return
		}
		writeProblem(w, http.StatusInternalServerError, "Internal Error", "failed to load amenities")
		return
	}
	writeCacheable(w, r, out)
}

func (h *Handlers) pushSnapshot(w http.ResponseWriter, r *http.Request) {
	var snap domain.AvailabilitySnapshot
	if err := json.NewDecoder(r.Body).Decode(&snap); err != nil {
		writeProblem(w, http.StatusBadRequest, "Invalid body", "body must be a snapshot JSON object")
		return
	}
	snap.Status = domain.ParseStatus(string(snap.Status))

	if err := h.C.PushSnapshot(r.Context(), snap); err != nil {
		if errors.Is(err, domain.ErrInvalidInput) {
			writeProblem(w, http.StatusBadRequest, "Invalid snapshot", err.Error())
			return
		}
		writeProblem(w, http.StatusInternalServerError, "Internal Error", "failed to store snapshot")
		return
	}
	writeJSON(w, http.StatusAccepted, map[string]string{"status": "accepted"})
}

func (h *Handlers) convert(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	amount, err := strconv.ParseFloat(q.Get("amount"), 64)
	if err != nil {
		writeProblem(w, http.StatusBadRequest, "Invalid amount", "amount must be a number")
		return
	}
	from, to := q.Get("from"), q.Get("to")
	if from == "" || to == "" {
		writeProblem(w, http.StatusBadRequest, "Missing currency", "from and to are required")
		return
	}

	out, err := h.Q.Convert(amount, from, to)
	if err != nil {
		if errors.Is(err, domain.ErrCurrencyNotAvailable) {
			writeProblem(w, http.StatusNotFound, "Currency not available", err.Error())
			return
		}
		writeProblem(w, http.StatusInternalServerError, "Internal Error", "conversion failed")
		return
	}
	writeJSON(w, http.StatusOK, out)
}

func parseRoute(r *http.Request) (itinerary.City, itinerary.City, time.Time, error) {
	q := r.URL.Query()
	from, err := itinerary.ParseCity(q.Get("from"))
	if err != nil {
		return "", "", time.Time{}, err
	}
	to, err := itinerary.ParseCity(q.Get("to"))
	if err != nil {
		return "", "", time.Time{}, err
	}
	date := time.Now().UTC()
	if ds := q.Get("date"); ds != "" {
		t, err := time.Parse("2006-01-02", ds)
		if err != nil {
			return "", "", time.Time{}, errors.New("date must be YYYY-MM-DD")
		}
		date = t
	}
	return from, to, date, nil
}

func (h *Handlers) itinerary(w http.ResponseWriter, r *http.Request) {
	from, to, date, err := parseRoute(r)
	if err != nil {
		writeProblem(w, http.StatusBadRequest, "Invalid route", err.Error())
		return
	}
	mode := itinerary.ModeTrain
	if ms := r.URL.Query().Get("mode"); ms != "" {
		m, err := itinerary.ParseMode(ms)
		if err != nil {
			writeProblem(w, http.StatusBadRequest, "Invalid mode", err.Error())
			return
		}
		mode = m
	}

	out, err := h.Q.Itinerary(from, to, mode, date)
	if err != nil {
		writeProblem(w, http.StatusNotFound, "No route", err.Error())
		return
	}
	writeJSON(w, http.StatusOK, out)
}

func (h *Handlers) itineraryOptions(w http.ResponseWriter, r *http.Request) {
	from, to, date, err := parseRoute(r)
	if err != nil {
		writeProblem(w, http.StatusBadRequest, "Invalid route", err.Error())
		return
	}
	writeJSON(w, http.StatusOK, h.Q.CompareTransport(from, to, date))
}

func (h *Handlers) seasonAdvice(w http.ResponseWriter, r *http.Request) {
	date := time.Now().UTC()
	if ds := r.URL.Query().Get("date"); ds != "" {
		t, err := time.Parse("2006-01-02", ds)
		if err != nil {
			writeProblem(w, http.StatusBadRequest, "Invalid date", "date must be YYYY-MM-DD")
			return
		}
		date = t
	}
	writeJSON(w, http.StatusOK, h.Q.BookingAdvice(date))
}
