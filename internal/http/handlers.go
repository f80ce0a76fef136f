package http

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"saldo/internal/catalog"
	"saldo/internal/core"
	"saldo/internal/log"
)

func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (s *Server) handleReady(w http.ResponseWriter, r *http.Request) {
	if s.ready != nil {
		if err := s.ready(r.Context()); err != nil {
			log.FromContext(r.Context()).WarnContext(r.Context(), "Readiness check failed", log.FieldError, err.Error())
			writeError(w, http.StatusServiceUnavailable, "not ready")
			return
		}
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": "ready"})
}

func (s *Server) handleCategories(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, categoriesDTO{
		Expense: catalog.ForKind(core.Expense),
		Income:  catalog.ForKind(core.Income),
	})
}

func (s *Server) handleMonth(w http.ResponseWriter, r *http.Request) {
	month, err := core.ParseMonth(chi.URLParam(r, "month"))
	if err != nil {
		writeServiceError(w, r, err, log.OpProject)
		return
	}
	v, err := s.ledger.MonthView(r.Context(), month)
	if err != nil {
		writeServiceError(w, r, err, log.OpProject)
		return
	}
	writeJSON(w, http.StatusOK, toMonthViewDTO(v))
}

func (s *Server) handleSelectedMonth(w http.ResponseWriter, r *http.Request) {
	v, err := s.ledger.SelectedMonthView(r.Context())
	if err != nil {
		writeServiceError(w, r, err, log.OpProject)
		return
	}
	writeJSON(w, http.StatusOK, toMonthViewDTO(v))
}

func (s *Server) handleShiftMonth(w http.ResponseWriter, r *http.Request) {
	offset, err := parseOffset(r.URL.Query().Get("offset"))
	if err != nil {
		writeServiceError(w, r, err, log.OpProject)
		return
	}
	m := s.ledger.SelectMonth(offset)
	writeJSON(w, http.StatusOK, selectedMonthDTO{Month: m.Key()})
}

func (s *Server) handleDay(w http.ResponseWriter, r *http.Request) {
	date, err := core.ParseDate(chi.URLParam(r, "date"))
	if err != nil {
		writeServiceError(w, r, err, log.OpProject)
		return
	}
	occ, err := s.ledger.DayView(r.Context(), date)
	if err != nil {
		writeServiceError(w, r, err, log.OpProject)
		return
	}
	writeJSON(w, http.StatusOK, dayViewDTO{Date: date.Key(), Occurrences: toOccurrenceDTOs(occ)})
}

func (s *Server) handleListTemplates(w http.ResponseWriter, _ *http.Request) {
	templates := s.ledger.Templates()
	out := make([]templateDTO, 0, len(templates))
	for _, t := range templates {
		out = append(out, toTemplateDTO(t))
	}
	writeJSON(w, http.StatusOK, out)
}

func (s *Server) handleCreateTemplate(w http.ResponseWriter, r *http.Request) {
	p := NewRequestBodyParser(w, r)
	if err := p.Parse(); err != nil {
		writeError(w, http.StatusBadRequest, "malformed request body")
		return
	}

	t, err := s.ledger.CreateTemplate(r.Context(), p.TemplateFields())
	if err != nil {
		writeServiceError(w, r, err, log.OpCreate)
		return
	}
	writeJSON(w, http.StatusCreated, toTemplateDTO(t))
}

// handleDeleteTemplate applies a deletion intent. Deleting an unknown
// template succeeds.
func (s *Server) handleDeleteTemplate(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	date, err := core.ParseDate(q.Get("date"))
	if err != nil {
		writeServiceError(w, r, err, log.OpDelete)
		return
	}
	mode, err := core.ParseDeleteMode(q.Get("mode"))
	if err != nil {
		writeServiceError(w, r, err, log.OpDelete)
		return
	}

	if err := s.ledger.DeleteTemplate(r.Context(), chi.URLParam(r, "id"), date, mode); err != nil {
		writeServiceError(w, r, err, log.OpDelete)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
