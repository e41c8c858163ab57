package middleware

import (
	"net/http"
	"strconv"
	"strings"
)

// CORSConfig lists the browser origins allowed to read the marker API.
// An empty AllowedOrigins disables CORS; "*" admits any origin.
type CORSConfig struct {
	AllowedOrigins   []string
	AllowedMethods   []string
	AllowedHeaders   []string
	AllowCredentials bool
	// MaxAge is the preflight cache lifetime in seconds.
	MaxAge int
}

// DefaultCORSConfig returns a CORS configuration for the marker API: GET and
// POST only, no origins until configured.
func DefaultCORSConfig() *CORSConfig {
	return &CORSConfig{
		AllowedMethods: []string{http.MethodGet, http.MethodPost, http.MethodOptions},
		AllowedHeaders: []string{"Content-Type", RequestIDHeader},
		MaxAge:         86400,
	}
}

// corsPolicy is a CORSConfig compiled once per middleware instance.
type corsPolicy struct {
	anyOrigin   bool
	origins     map[string]struct{}
	methods     string
	headers     string
	credentials bool
	maxAge      string
}

func compileCORS(c *CORSConfig) corsPolicy {
	if c == nil {
		c = &CORSConfig{}
	}
	p := corsPolicy{
		origins:     make(map[string]struct{}, len(c.AllowedOrigins)),
		methods:     "GET, POST, OPTIONS",
		headers:     "Content-Type, " + RequestIDHeader,
		credentials: c.AllowCredentials,
	}
	for _, o := range c.AllowedOrigins {
		if o == "*" {
			p.anyOrigin = true
		}
		p.origins[o] = struct{}{}
	}
	if len(c.AllowedMethods) > 0 {
		p.methods = strings.Join(c.AllowedMethods, ", ")
	}
	if len(c.AllowedHeaders) > 0 {
		p.headers = strings.Join(c.AllowedHeaders, ", ")
	}
	if c.MaxAge > 0 {
		p.maxAge = strconv.Itoa(c.MaxAge)
	}
	return p
}

func (p corsPolicy) allows(origin string) bool {
	if origin == "" {
		return false
	}
	if p.anyOrigin {
		return true
	}
	_, ok := p.origins[origin]
	return ok
}

// CORS answers preflight requests and decorates responses for allowed
// origins. The matching origin is echoed back, never "*".
func CORS(config *CORSConfig) func(http.Handler) http.Handler {
	policy := compileCORS(config)

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			origin := r.Header.Get("Origin")
			allowed := policy.allows(origin)

			if allowed {
				h := w.Header()
				h.Set("Access-Control-Allow-Origin", origin)
				h.Add("Vary", "Origin")
				h.Set("Access-Control-Allow-Methods", policy.methods)
				h.Set("Access-Control-Allow-Headers", policy.headers)
				if policy.credentials {
					h.Set("Access-Control-Allow-Credentials", "true")
				}
				if policy.maxAge != "" {
					h.Set("Access-Control-Max-Age", policy.maxAge)
				}
			}

			preflight := r.Method == http.MethodOptions && r.Header.Get("Access-Control-Request-Method") != ""
			if !preflight {
				next.ServeHTTP(w, r)
				return
			}
			if allowed {
				w.WriteHeader(http.StatusNoContent)
				return
			}
			w.WriteHeader(http.StatusForbidden)
		})
	}
}
