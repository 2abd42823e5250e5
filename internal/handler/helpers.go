package handler

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/parisxmas/partnerhub/internal/repository"
	"github.com/parisxmas/partnerhub/internal/service"
)

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]string{"error": msg})
}

func readJSON(r *http.Request, v any) error {
	defer r.Body.Close()
	dec := json.NewDecoder(r.Body)
	return dec.Decode(v)
}

// writeServiceError maps service and repository errors to HTTP
// responses, exposing the taxonomy code when one is present.
func writeServiceError(w http.ResponseWriter, err error) {
	if errors.Is(err, service.ErrNotFound) {
		writeError(w, http.StatusNotFound, err.Error())
		return
	}
	var repoErr *repository.Error
	if errors.As(err, &repoErr) {
		status := http.StatusBadGateway
		if repoErr.Code == repository.CodeDeserialization {
			status = http.StatusInternalServerError
		}
		writeJSON(w, status, map[string]string{
			"error": repoErr.Message,
			"code":  string(repoErr.Code),
		})
		return
	}
	writeError(w, http.StatusBadRequest, err.Error())
}
