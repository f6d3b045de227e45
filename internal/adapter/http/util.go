package adapthttp

import (
	"encoding/json"
	"net/http"
	"os"
)

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func withNoCache(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Cache-Control", "no-store")
		next.ServeHTTP(w, r)
	})
}

func isHTMX(r *http.Request) bool {
	return r.Header.Get("HX-Request") == "true"
}

// redirect sends the client to target. htmx requests get an HX-Redirect
// header so the browser performs a full navigation instead of swapping the
// response into the page.
func redirect(w http.ResponseWriter, r *http.Request, target string) {
	if isHTMX(r) {
		w.Header().Set("HX-Redirect", target)
		w.WriteHeader(http.StatusOK)
		return
	}
	http.Redirect(w, r, target, http.StatusSeeOther)
}

func writeForbidden(w http.ResponseWriter) {
	http.Error(w, "forbidden", http.StatusForbidden)
}

// staticFiles serves dir, answering 404 for everything when dir is missing.
func staticFiles(dir string) http.Handler {
	if dir == "" {
		return http.NotFoundHandler()
	}
	if info, err := os.Stat(dir); err != nil || !info.IsDir() {
		return http.NotFoundHandler()
	}
	return http.FileServer(http.Dir(dir))
}
