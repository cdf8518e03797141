package api

import (
	"database/sql"
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"pagewatch/internal/check"
	"pagewatch/internal/normalize"
	"pagewatch/internal/pagewatch"
)

type registerRequest struct {
	URL string `json:"url"`
}

type addressJSON struct {
	ID        int64     `json:"id"`
	Name      string    `json:"name"`
	CreatedAt time.Time `json:"created_at"`
}

type checkJSON struct {
	ID          int64     `json:"id"`
	AddressID   int64     `json:"address_id"`
	StatusCode  int       `json:"status_code"`
	Title       *string   `json:"title"`
	Heading     *string   `json:"h1"`
	Description *string   `json:"description"`
	CreatedAt   time.Time `json:"created_at"`
}

type listingJSON struct {
	Address     addressJSON `json:"address"`
	LatestCheck *checkJSON  `json:"latest_check,omitempty"`
}

type showJSON struct {
	Address addressJSON `json:"address"`
	Checks  []checkJSON `json:"checks"`
}

func (s *Server) registerAddress(w http.ResponseWriter, r *http.Request) {
	var req registerRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON")
		return
	}

	address, err := s.sites.Register(r.Context(), req.URL)
	switch {
	case err == nil:
		writeJSON(w, http.StatusCreated, toAddressJSON(address))
	case errors.Is(err, normalize.ErrEmpty),
		errors.Is(err, normalize.ErrMalformed),
		errors.Is(err, normalize.ErrNotAbsolute),
		errors.Is(err, normalize.ErrUnsupportedScheme):
		writeError(w, http.StatusUnprocessableEntity, err.Error())
	case errors.Is(err, pagewatch.ErrDuplicate):
		writeError(w, http.StatusConflict, "address already registered")
	default:
		s.logger.Error("register failed", zap.Error(err))
		writeError(w, http.StatusInternalServerError, "internal error")
	}
}

func (s *Server) listAddresses(w http.ResponseWriter, r *http.Request) {
	listings, err := s.sites.List(r.Context(), r.URL.Query().Get("term"))
	if err != nil {
		s.logger.Error("list failed", zap.Error(err))
		writeError(w, http.StatusInternalServerError, "internal error")
		return
	}
	out := make([]listingJSON, len(listings))
	for i, listing := range listings {
		out[i] = listingJSON{Address: toAddressJSON(listing.Address)}
		if listing.Latest != nil {
			c := toCheckJSON(*listing.Latest)
			out[i].LatestCheck = &c
		}
	}
	writeJSON(w, http.StatusOK, out)
}

func (s *Server) showAddress(w http.ResponseWriter, r *http.Request) {
	id, ok := addressID(w, r)
	if !ok {
		return
	}
	address, checks, err := s.sites.Show(r.Context(), id)
	if err != nil {
		if errors.Is(err, pagewatch.ErrNotFound) {
			writeError(w, http.StatusNotFound, "address not found")
			return
		}
		s.logger.Error("show failed", zap.Int64("id", id), zap.Error(err))
		writeError(w, http.StatusInternalServerError, "internal error")
		return
	}
	out := showJSON{Address: toAddressJSON(address), Checks: make([]checkJSON, len(checks))}
	for i, c := range checks {
		out.Checks[i] = toCheckJSON(c)
	}
	writeJSON(w, http.StatusOK, out)
}

func (s *Server) runCheck(w http.ResponseWriter, r *http.Request) {
	id, ok := addressID(w, r)
	if !ok {
		return
	}
	result, err := s.pipeline.Run(r.Context(), id)
	if err != nil {
		s.logger.Error("check failed to persist", zap.Int64("id", id), zap.Error(err))
		writeError(w, http.StatusInternalServerError, "internal error")
		return
	}
	switch result.Outcome {
	case check.OutcomeRecorded:
		writeJSON(w, http.StatusCreated, toCheckJSON(result.Check))
	case check.OutcomeAddressNotFound:
		writeError(w, http.StatusNotFound, "address not found")
	case check.OutcomeCheckFailed:
		writeError(w, http.StatusBadGateway, "could not reach address")
	default:
		writeError(w, http.StatusInternalServerError, "internal error")
	}
}

func addressID(w http.ResponseWriter, r *http.Request) (int64, bool) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid address id")
		return 0, false
	}
	return id, true
}

func toAddressJSON(address pagewatch.Address) addressJSON {
	return addressJSON{ID: address.ID, Name: address.Name, CreatedAt: address.CreatedAt}
}

func toCheckJSON(c pagewatch.Check) checkJSON {
	return checkJSON{
		ID:          c.ID,
		AddressID:   c.AddressID,
		StatusCode:  c.StatusCode,
		Title:       nullableString(c.Title),
		Heading:     nullableString(c.Heading),
		Description: nullableString(c.Description),
		CreatedAt:   c.CreatedAt,
	}
}

func nullableString(ns sql.NullString) *string {
	if !ns.Valid {
		return nil
	}
	s := ns.String
	return &s
}

func writeJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(payload)
}

func writeError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, map[string]string{"error": message})
}
