package handler

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/parisxmas/partnerhub/internal/qconfig"
)

type ConfigHandler struct {
	loader *qconfig.Loader
}

func NewConfigHandler(loader *qconfig.Loader) *ConfigHandler {
	return &ConfigHandler{loader: loader}
}

// Get serves a config document by key, e.g. questionnaires/gate-1 or
// gates/definitions.
func (h *ConfigHandler) Get(w http.ResponseWriter, r *http.Request) {
	key := chi.URLParam(r, "*")
	doc, err := h.loader.Get(r.Context(), key)
	if err != nil {
		writeError(w, http.StatusNotFound, err.Error())
		return
	}
	writeJSON(w, http.StatusOK, doc)
}

// Invalidate drops a config key from the cache.
func (h *ConfigHandler) Invalidate(w http.ResponseWriter, r *http.Request) {
	key := chi.URLParam(r, "*")
	h.loader.Invalidate(key)
	writeJSON(w, http.StatusOK, map[string]string{"invalidated": key})
}

// Mapping serves the template-to-config field mapping for one
// questionnaire template.
func (h *ConfigHandler) Mapping(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "questionnaireId")
	tpl, err := h.loader.GetTemplate(r.Context(), "questionnaires/"+id)
	if err != nil {
		writeError(w, http.StatusNotFound, err.Error())
		return
	}
	writeJSON(w, http.StatusOK, qconfig.MapFields(tpl))
}
