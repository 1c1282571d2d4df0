package main

import (
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/Simplici0/printdesk/internal/inventory"
)

type adjustStockRequest struct {
	Delta float64 `json:"delta"`
}

func kindParam(r *http.Request) (inventory.Kind, error) {
	return inventory.ParseKind(chi.URLParam(r, "kind"))
}

func (s *server) handleInventoryList(w http.ResponseWriter, r *http.Request) {
	kind, err := kindParam(r)
	if err != nil {
		s.respondError(w, r, err)
		return
	}
	activeOnly, _ := strconv.ParseBool(r.URL.Query().Get("active"))

	if kind == inventory.KindFilament {
		filaments, err := s.inventory.ListFilaments(r.Context(), activeOnly)
		if err != nil {
			s.respondError(w, r, err)
			return
		}
		respondJSON(w, http.StatusOK, filaments)
		return
	}

	items, err := s.inventory.ListItems(r.Context(), kind, activeOnly)
	if err != nil {
		s.respondError(w, r, err)
		return
	}
	respondJSON(w, http.StatusOK, items)
}

func (s *server) handleInventoryCreate(w http.ResponseWriter, r *http.Request) {
	kind, err := kindParam(r)
	if err != nil {
		s.respondError(w, r, err)
		return
	}

	if kind == inventory.KindFilament {
		var f inventory.Filament
		if err := decodeJSON(w, r, &f); err != nil {
			s.respondError(w, r, err)
			return
		}
		created, err := s.inventory.CreateFilament(r.Context(), f)
		if err != nil {
			s.respondError(w, r, err)
			return
		}
		respondJSON(w, http.StatusCreated, created)
		return
	}

	var it inventory.Item
	if err := decodeJSON(w, r, &it); err != nil {
		s.respondError(w, r, err)
		return
	}
	created, err := s.inventory.CreateItem(r.Context(), kind, it)
	if err != nil {
		s.respondError(w, r, err)
		return
	}
	respondJSON(w, http.StatusCreated, created)
}

func (s *server) handleInventoryUpdate(w http.ResponseWriter, r *http.Request) {
	kind, err := kindParam(r)
	if err != nil {
		s.respondError(w, r, err)
		return
	}
	id, err := idParam(r)
	if err != nil {
		s.respondError(w, r, err)
		return
	}

	if kind == inventory.KindFilament {
		var f inventory.Filament
		if err := decodeJSON(w, r, &f); err != nil {
			s.respondError(w, r, err)
			return
		}
		f.ID = id
		updated, err := s.inventory.UpdateFilament(r.Context(), f)
		if err != nil {
			s.respondError(w, r, err)
			return
		}
		respondJSON(w, http.StatusOK, updated)
		return
	}

	var it inventory.Item
	if err := decodeJSON(w, r, &it); err != nil {
		s.respondError(w, r, err)
		return
	}
	it.ID = id
	updated, err := s.inventory.UpdateItem(r.Context(), kind, it)
	if err != nil {
		s.respondError(w, r, err)
		return
	}
	respondJSON(w, http.StatusOK, updated)
}

func (s *server) handleInventoryAdjust(w http.ResponseWriter, r *http.Request) {
	kind, err := kindParam(r)
	if err != nil {
		s.respondError(w, r, err)
		return
	}
	id, err := idParam(r)
	if err != nil {
		s.respondError(w, r, err)
		return
	}
	var req adjustStockRequest
	if err := decodeJSON(w, r, &req); err != nil {
		s.respondError(w, r, err)
		return
	}

	if err := s.inventory.AdjustStock(r.Context(), kind, id, req.Delta); err != nil {
		s.respondError(w, r, err)
		return
	}

	if kind == inventory.KindFilament {
		f, err := s.inventory.GetFilament(r.Context(), id)
		if err != nil {
			s.respondError(w, r, err)
			return
		}
		respondJSON(w, http.StatusOK, f)
		return
	}
	it, err := s.inventory.GetItem(r.Context(), kind, id)
	if err != nil {
		s.respondError(w, r, err)
		return
	}
	respondJSON(w, http.StatusOK, it)
}
