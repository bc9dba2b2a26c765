// SPDX-License-Identifier: MIT

package api

import (
	"errors"
	"io"
	"net/http"
	"time"

	"github.com/chrootRISCassembler/GameInfo/internal/game"
	gilog "github.com/chrootRISCassembler/GameInfo/internal/log"
	"github.com/chrootRISCassembler/GameInfo/internal/metrics"
	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
)

// maxPredicateBytes bounds query request bodies.
const maxPredicateBytes = 64 << 10

// Query forms, used as metric labels.
const (
	queryFormFields    = "fields"
	queryFormPredicate = "predicate"
)

func (s *Server) handleListGames(w http.ResponseWriter, r *http.Request) {
	records := s.live.Records()
	out := make([]*game.Object, len(records))
	for i, rec := range records {
		out[i] = game.Encode(rec)
	}
	writeJSON(w, http.StatusOK, out)
}

// recordFromPath resolves the {uuid} URL parameter, writing the error
// response itself when it fails.
func (s *Server) recordFromPath(w http.ResponseWriter, r *http.Request) (*game.Record, bool) {
	raw := chi.URLParam(r, "uuid")
	id, err := uuid.Parse(raw)
	if err != nil || len(raw) != 36 {
		writeError(w, http.StatusBadRequest, codeInvalidUUID, "not a UUID: "+raw)
		return nil, false
	}
	rec, ok := s.live.Find(id)
	if !ok {
		writeError(w, http.StatusNotFound, codeNotFound, "no game with UUID "+id.String())
		return nil, false
	}
	return rec, true
}

func (s *Server) handleGetGame(w http.ResponseWriter, r *http.Request) {
	rec, ok := s.recordFromPath(w, r)
	if !ok {
		return
	}
	if !r.URL.Query().Has("fields") {
		writeJSON(w, http.StatusOK, game.Encode(rec))
		return
	}

	set, err := game.ParseFieldList(r.URL.Query().Get("fields"))
	metrics.RecordQuery(queryFormFields, err)
	if err != nil {
		writeError(w, http.StatusBadRequest, codeInvalidQuery, err.Error())
		return
	}
	writeJSON(w, http.StatusOK, game.Query(rec, set))
}

func (s *Server) handleQueryGame(w http.ResponseWriter, r *http.Request) {
	rec, ok := s.recordFromPath(w, r)
	if !ok {
		return
	}

	body, err := io.ReadAll(http.MaxBytesReader(w, r.Body, maxPredicateBytes))
	if err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			writeError(w, http.StatusRequestEntityTooLarge, codeBodyTooLarge, err.Error())
			return
		}
		writeError(w, http.StatusBadRequest, codeInvalidQuery, err.Error())
		return
	}

	projection, err := game.QueryJSON(rec, string(body))
	metrics.RecordQuery(queryFormPredicate, err)
	if err != nil {
		writeError(w, http.StatusBadRequest, codeInvalidQuery, err.Error())
		return
	}
	writeJSON(w, http.StatusOK, projection)
}

type diagnosticResponse struct {
	Position int    `json:"position"`
	Field    string `json:"field"`
	Kind     string `json:"kind"`
	Index    *int   `json:"index,omitempty"`
	Detail   string `json:"detail"`
	Message  string `json:"message"`
}

func (s *Server) handleDiagnostics(w http.ResponseWriter, r *http.Request) {
	diags := s.live.Diagnostics()
	out := make([]diagnosticResponse, len(diags))
	for i, d := range diags {
		resp := diagnosticResponse{
			Position: d.Position,
			Field:    d.Field.Key(),
			Kind:     string(d.Kind),
			Detail:   d.Detail,
			Message:  d.String(),
		}
		if d.Index >= 0 {
			idx := d.Index
			resp.Index = &idx
		}
		out[i] = resp
	}
	writeJSON(w, http.StatusOK, out)
}

type reloadResponse struct {
	Status   string `json:"status"`
	Records  int    `json:"records"`
	LoadedAt string `json:"loadedAt"`
}

func (s *Server) handleReload(w http.ResponseWriter, r *http.Request) {
	if err := s.live.Reload(r.Context()); err != nil {
		logger := gilog.WithComponentFromContext(r.Context(), "api")
		logger.Error().Err(err).Str(gilog.FieldEvent, "catalog.reload_failed").Msg("manual reload failed")
		writeError(w, http.StatusInternalServerError, codeReloadFailed, err.Error())
		return
	}
	writeJSON(w, http.StatusOK, reloadResponse{
		Status:   "reloaded",
		Records:  len(s.live.Records()),
		LoadedAt: s.live.LoadedAt().UTC().Format(time.RFC3339),
	})
}
