package frontend

import (
	"html/template"
	"io/fs"
	"log/slog"
	"net/http"
	"strings"

	"github.com/Muhammadkaif97/cpn-calculator/internal/catalog"
	"github.com/Muhammadkaif97/cpn-calculator/internal/security"
	"github.com/gin-gonic/gin"
)

// DefaultFields is the stream selector in display order.
var DefaultFields = []FieldOption{
	{Value: string(catalog.FieldPreEngineering), Label: "Pre-Engineering"},
	{Value: string(catalog.FieldPreMedical), Label: "Pre-Medical"},
	{Value: string(catalog.FieldGeneral), Label: "General"},
}

// NewSPAHandler serves static assets from distFS and renders the page for everything else.
// Unknown /api/ paths get a JSON 404 instead of the page.
func NewSPAHandler(distFS fs.FS, indexTemplate *template.Template, version string) gin.HandlerFunc {
	fileServer := http.FileServer(http.FS(distFS))

	return func(c *gin.Context) {
		path := c.Request.URL.Path

		if strings.HasPrefix(path, "/api/") {
			c.JSON(http.StatusNotFound, gin.H{"error": "Not found", "category": "validation"})
			return
		}

		if c.Request.Method != http.MethodGet && c.Request.Method != http.MethodHead {
			c.JSON(http.StatusMethodNotAllowed, gin.H{"error": "Method not allowed", "category": "validation"})
			return
		}

		if strings.HasPrefix(path, "/assets/") {
			c.Header("Cache-Control", "public, max-age=31536000, immutable")
			fileServer.ServeHTTP(c.Writer, c.Request)
			return
		}

		// index.html itself always goes through the template.
		cleanPath := strings.TrimPrefix(path, "/")
		if cleanPath != "" && cleanPath != "index.html" {
			if info, err := fs.Stat(distFS, cleanPath); err == nil && !info.IsDir() {
				c.Header("Cache-Control", "public, max-age=3600")
				fileServer.ServeHTTP(c.Writer, c.Request)
				return
			}
		}

		nonce := security.GetNonce(c)
		if nonce == "" {
			slog.Warn("CSP nonce not found in context, generating new one")
			var err error
			nonce, err = security.GenerateNonce()
			if err != nil {
				slog.Error("Failed to generate nonce", "error", err)
				c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"error": "Internal server error", "category": "internal"})
				return
			}
		}

		data := PageData{Nonce: nonce, Fields: DefaultFields, Version: version}
		if err := RenderIndex(c, indexTemplate, data); err != nil {
			slog.Error("Failed to render index.html", "error", err, "path", path)
			c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"error": "Failed to render page", "category": "internal"})
			return
		}
	}
}
