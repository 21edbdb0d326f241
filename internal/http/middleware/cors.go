package middleware

import (
	"net/http"
	"slices"

	"github.com/glanzwerk/crm/internal/config"
	"github.com/go-chi/cors"
	"go.uber.org/zap"
)

// exposedAlways are readable by the office front end and the customer portal
// regardless of configuration: the request ID for support tickets, Location
// after creates and Content-Disposition on workbook exports.
var exposedAlways = []string{RequestIDHeader, "Location", "Content-Disposition"}

// CORS builds the cross-origin policy. An explicit origin list wins; "*" or an
// empty list in a local environment admits any origin, and an empty list
// anywhere else admits none.
func CORS(cfg *config.CORSConfig, environment string, logger *zap.Logger) func(http.Handler) http.Handler {
	exposed := slices.Clone(cfg.ExposedHeaders)
	for _, h := range exposedAlways {
		if !slices.Contains(exposed, h) {
			exposed = append(exposed, h)
		}
	}

	options := cors.Options{
		AllowedMethods:   cfg.AllowedMethods,
		AllowedHeaders:   cfg.AllowedHeaders,
		ExposedHeaders:   exposed,
		AllowCredentials: cfg.AllowCredentials,
		MaxAge:           cfg.MaxAge,
	}

	local := isLocal(environment)
	switch {
	case slices.Contains(cfg.AllowedOrigins, "*"):
		if !local {
			logger.Warn("cors: wildcard origin outside a local environment", zap.String("environment", environment))
		}
		options.AllowOriginFunc = anyOrigin
	case len(cfg.AllowedOrigins) > 0:
		// go-chi/cors treats an empty list as "*", so the list is only set here
		options.AllowedOrigins = cfg.AllowedOrigins
		logger.Info("cors: explicit origins", zap.Strings("origins", cfg.AllowedOrigins))
	case local:
		options.AllowOriginFunc = anyOrigin
		logger.Info("cors: no origins configured, admitting all in local environment")
	default:
		options.AllowOriginFunc = func(*http.Request, string) bool { return false }
		logger.Warn("cors: no origins configured, cross-origin requests are denied", zap.String("environment", environment))
	}

	return cors.Handler(options)
}

func anyOrigin(_ *http.Request, origin string) bool {
	return origin != ""
}

func isLocal(environment string) bool {
	switch environment {
	case "", "development", "local":
		return true
	}
	return false
}
