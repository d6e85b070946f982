package handlers

import (
	"embed"
	"html/template"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/gedex/inflector"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"locallibrary/internal/config"
	"locallibrary/internal/models"
	"locallibrary/internal/services"
)

//go:embed templates/*.html
var templateFS embed.FS

var templateFuncs = template.FuncMap{
	"comma": humanize.Comma,
	"ago": func(t time.Time) string {
		return humanize.Time(t)
	},
	"plural": func(n int, word string) string {
		if n == 1 {
			return "1 " + word
		}
		return humanize.Comma(int64(n)) + " " + inflector.Pluralize(word)
	},
	"collectionURL": models.CollectionURL,
}

// LoadTemplates parses the embedded page templates.
func LoadTemplates() (*template.Template, error) {
	return template.New("").Funcs(templateFuncs).ParseFS(templateFS, "templates/*.html")
}

// NewRouter builds the engine with templates, middleware and every catalog route.
func NewRouter(cfg *config.Config, lib *services.Library, logger *zap.Logger) (*gin.Engine, error) {
	gin.SetMode(cfg.Server.Mode)

	tmpl, err := LoadTemplates()
	if err != nil {
		return nil, err
	}

	r := gin.New()
	r.SetHTMLTemplate(tmpl)
	r.Use(requestLogger(logger), recovery(logger))
	if cfg.RateLimit.Enabled {
		r.Use(newRateLimiter(cfg.RateLimit.RPS, cfg.RateLimit.Burst).middleware())
	}

	RegisterRoutes(r, lib, logger)
	return r, nil
}
