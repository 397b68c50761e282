package middleware

import (
	"net/http"
	"strings"

	"github.com/go-chi/cors"
)

var corsMethods = []string{
	http.MethodGet,
	http.MethodHead,
	http.MethodPost,
	http.MethodPut,
	http.MethodPatch,
	http.MethodDelete,
	http.MethodOptions,
}

// CORS allows every origin on every route. Preflights are answered by
// go-chi/cors; any other OPTIONS request gets 204 without reaching the routes.
func CORS() func(http.Handler) http.Handler {
	handler := cors.Handler(cors.Options{
		AllowedOrigins:     []string{"*"},
		AllowedMethods:     corsMethods,
		AllowedHeaders:     []string{"*"},
		ExposedHeaders:     []string{RequestIDHeader},
		OptionsPassthrough: false,
		MaxAge:             300,
	})
	return func(next http.Handler) http.Handler {
		return handler(answerOptions(next))
	}
}

func answerOptions(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodOptions {
			next.ServeHTTP(w, r)
			return
		}
		h := w.Header()
		if h.Get("Access-Control-Allow-Origin") == "" {
			h.Set("Access-Control-Allow-Origin", "*")
		}
		h.Set("Access-Control-Allow-Methods", strings.Join(corsMethods, ","))
		w.WriteHeader(http.StatusNoContent)
	})
}
