package server

import (
	"encoding/json"
	"net/http"

	nuts "github.com/vaudience/go-nuts"
)

func writeJSON(w http.ResponseWriter, code int, payload interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	if err := json.NewEncoder(w).Encode(payload); err != nil {
		nuts.L.Warnf("[Server] Failed to write response: %v", err)
	}
}
