package middleware

import (
	"net/http"
	"strings"
)

// Headers a browser dashboard may send and read. Tokens ride in the path or
// as a Bearer header, so credentials mode is never enabled.
const (
	corsAllowHeaders  = "Authorization, Content-Type, " + RequestIDHeader
	corsExposeHeaders = RequestIDHeader
	corsAllowMethods  = "GET, POST, PUT, PATCH, DELETE"
	corsMaxAge        = "600"
)

type originList struct {
	any     bool
	origins map[string]struct{}
}

func newOriginList(allowed []string) originList {
	l := originList{origins: map[string]struct{}{}}
	for _, origin := range allowed {
		origin = strings.TrimRight(strings.TrimSpace(origin), "/")
		switch origin {
		case "":
		case "*":
			l.any = true
		default:
			l.origins[origin] = struct{}{}
		}
	}
	return l
}

func (l originList) allows(origin string) bool {
	if l.any {
		return true
	}
	_, ok := l.origins[origin]
	return ok
}

// CORS lets the dashboard call the clinic API from the listed origins; "*"
// echoes any origin. Preflights never reach next: allowed origins get 204,
// others 403. Every answer to an allowed origin exposes X-Request-ID so the
// client can correlate its logs with the server's.
func CORS(allowedOrigins []string) func(http.Handler) http.Handler {
	list := newOriginList(allowedOrigins)
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			origin := strings.TrimSpace(r.Header.Get("Origin"))
			if origin == "" {
				next.ServeHTTP(w, r)
				return
			}
			h := w.Header()
			h.Add("Vary", "Origin")
			allowed := list.allows(origin)
			if allowed {
				h.Set("Access-Control-Allow-Origin", origin)
				h.Set("Access-Control-Expose-Headers", corsExposeHeaders)
			}

			if r.Method == http.MethodOptions && r.Header.Get("Access-Control-Request-Method") != "" {
				h.Add("Vary", "Access-Control-Request-Method")
				h.Add("Vary", "Access-Control-Request-Headers")
				if !allowed {
					w.WriteHeader(http.StatusForbidden)
					return
				}
				h.Set("Access-Control-Allow-Headers", corsAllowHeaders)
				h.Set("Access-Control-Allow-Methods", corsAllowMethods)
				h.Set("Access-Control-Max-Age", corsMaxAge)
				w.WriteHeader(http.StatusNoContent)
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}
