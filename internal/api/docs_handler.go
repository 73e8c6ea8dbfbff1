package api

import (
	"net/http"

	"github.com/getkin/kin-openapi/openapi3"
	"github.com/gin-gonic/gin"
)

const (
	docsPath    = "/docs"
	openAPIPath = "/openapi.json"
)

const swaggerUIPage = `<!DOCTYPE html>
<html lang="en">
<head>
  <meta charset="utf-8">
  <title>Form Check API - Docs</title>
  <link rel="stylesheet" href="https://cdn.jsdelivr.net/npm/swagger-ui-dist@5/swagger-ui.css">
</head>
<body>
  <div id="swagger-ui"></div>
  <script src="https://cdn.jsdelivr.net/npm/swagger-ui-dist@5/swagger-ui-bundle.js"></script>
  <script>
    window.ui = SwaggerUIBundle({ url: "` + openAPIPath + `", dom_id: "#swagger-ui" });
  </script>
</body>
</html>`

// DocsHandler serves the OpenAPI document and an interactive viewer for it.
type DocsHandler struct {
	spec *openapi3.T
}

// NewDocsHandler creates a new DocsHandler.
func NewDocsHandler(spec *openapi3.T) *DocsHandler {
	return &DocsHandler{spec: spec}
}

func (h *DocsHandler) OpenAPI(c *gin.Context) {
	c.JSON(http.StatusOK, h.spec)
}

func (h *DocsHandler) UI(c *gin.Context) {
	c.Data(http.StatusOK, "text/html; charset=utf-8", []byte(swaggerUIPage))
}
