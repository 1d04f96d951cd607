package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// RegisterSwagger registers minimal Swagger/OpenAPI endpoints for the dispatcher.
// - GET /swagger/index.html  -> a small HTML page that loads the OpenAPI JSON
// - GET /swagger/doc.json    -> machine-readable OpenAPI JSON
func RegisterSwagger(rg gin.IRouter) {
	rg.GET("/swagger/index.html", func(c *gin.Context) {
		c.Header("Content-Type", "text/html; charset=utf-8")
		c.String(http.StatusOK, swaggerHTML)
	})

	rg.GET("/swagger/doc.json", func(c *gin.Context) {
		c.Data(http.StatusOK, "application/json; charset=utf-8", []byte(swaggerJSON))
	})
}

const swaggerHTML = `<!doctype html>
<html>
  <head>
    <meta charset="utf-8" />
    <title>document-finder - Swagger</title>
    <link rel="stylesheet" href="https://unpkg.com/swagger-ui-dist@4/swagger-ui.css" />
  </head>
  <body>
    <div id="swagger-ui"></div>
    <script src="https://unpkg.com/swagger-ui-dist@4/swagger-ui-bundle.js"></script>
    <script>
      window.ui = SwaggerUIBundle({
        url: '/swagger/doc.json',
        dom_id: '#swagger-ui',
      })
    </script>
  </body>
</html>`

const swaggerJSON = `{
  "openapi": "3.0.0",
  "info": { "title": "document-finder", "version": "v0.1.0" },
  "paths": {
    "/api": {
      "post": {
        "summary": "Dispatch saveDocument or searchDocuments",
        "requestBody": { "content": { "application/json": { "schema": {
          "type": "object",
          "required": ["action"],
          "properties": {
            "action": { "type": "string", "enum": ["saveDocument", "searchDocuments"] },
            "data": { "oneOf": [
              { "type": "object", "required": ["url","title","content"], "properties": { "url": {"type":"string"}, "title": {"type":"string"}, "content": {"type":"string"} } },
              { "type": "object", "required": ["query"], "properties": { "query": {"type":"string"} } }
            ] }
          }
        } } } },
        "responses": {
          "200": { "description": "status=success with tags (saveDocument) or results (searchDocuments, at most 50)" },
          "400": { "description": "status=error, invalid action" },
          "500": { "description": "status=error, extraction, storage or payload failure" }
        }
      },
      "options": { "summary": "CORS pre-flight", "responses": { "200": { "description": "empty body" } } }
    },
    "/health": { "get": { "summary": "Liveness check", "responses": { "200": { "description": "healthy" } } } },
    "/ready": { "get": { "summary": "Readiness check", "responses": { "200": { "description": "ready" }, "503": { "description": "not ready" } } } },
    "/metrics": { "get": { "summary": "Prometheus metrics", "responses": { "200": { "description": "exposition format" } } } }
  }
}`
