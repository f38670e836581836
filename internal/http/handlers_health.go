package httpx

import "net/http"

// healthHandler reports process liveness. It requires no credential and no
// allowed origin.
func healthHandler(w http.ResponseWriter, _ *http.Request) {
	WriteJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}
