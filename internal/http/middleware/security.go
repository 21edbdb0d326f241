package middleware

import (
	"net/http"

	"github.com/glanzwerk/crm/internal/config"
	"github.com/unrolled/secure"
	"go.uber.org/zap"
)

// SecurityHeaders returns a middleware that adds security headers to responses
func SecurityHeaders(cfg *config.SecurityConfig, environment string, logger *zap.Logger) func(http.Handler) http.Handler {
	options := secure.Options{
		ContentTypeNosniff:    cfg.ContentTypeNosniff,
		BrowserXssFilter:      cfg.XSSProtection,
		ContentSecurityPolicy: cfg.ContentSecurityPolicy,
		ReferrerPolicy:        cfg.ReferrerPolicy,
		PermissionsPolicy:     cfg.PermissionsPolicy,
		SSLProxyHeaders:       map[string]string{"X-Forwarded-Proto": "https"},
		IsDevelopment:         environment == "development" || environment == "local",
	}

	switch cfg.FrameOptions {
	case "DENY":
		options.FrameDeny = true
	case "":
	default:
		options.CustomFrameOptionsValue = cfg.FrameOptions
	}

	if cfg.EnableHSTS {
		options.STSSeconds = int64(cfg.HSTSMaxAge)
		options.STSIncludeSubdomains = cfg.HSTSIncludeSubdomains
		options.STSPreload = cfg.HSTSPreload
		// the API runs behind a TLS terminating proxy
		options.ForceSTSHeader = true
	}

	sm := secure.New(options)

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if err := sm.Process(w, r); err != nil {
				logger.Warn("secure headers blocked request",
					zap.String("path", r.URL.Path),
					zap.String("host", r.Host),
					zap.Error(err),
				)
				http.Error(w, http.StatusText(http.StatusBadRequest), http.StatusBadRequest)
				return
			}

			// Remove headers that leak server information
			w.Header().Del("X-Powered-By")
			w.Header().Del("Server")

			next.ServeHTTP(w, r)
		})
	}
}
