package api

import (
	"alcyxob/form-check/internal/openapi"
	"alcyxob/form-check/internal/service"
	"log"

	"github.com/gin-gonic/gin"
)

// RouterOptions carries the environment-dependent parts of the HTTP setup.
type RouterOptions struct {
	AllowedOrigins []string
	Production     bool
}

func SetupRoutes(
	router *gin.Engine,
	opts RouterOptions,
	analysisService service.AnalysisService,
) {
	useJSONFieldNames()

	analysisHandler := NewAnalysisHandler(analysisService)

	router.Use(RequestIDMiddleware())
	router.Use(SecurityHeadersMiddleware(opts.Production))
	if len(opts.AllowedOrigins) > 0 {
		router.Use(CORSMiddleware(opts.AllowedOrigins))
	} else {
		log.Println("WARN: No CORS origins configured; cross-origin requests will be rejected by browsers")
	}
	router.NoRoute(notFound)

	router.GET("/", Root)
	router.GET("/health", Health)

	// Interactive documentation is only exposed outside production.
	if !opts.Production {
		spec, err := openapi.Generate(openapi.Info{
			Title:       ServiceName,
			Version:     ServiceVersion,
			Description: "Backend service for analyzing weightlifting form from biomechanics data",
		})
		if err != nil {
			log.Printf("ERROR: Failed to generate OpenAPI document, docs disabled: %v", err)
		} else {
			docsHandler := NewDocsHandler(spec)
			router.GET(docsPath, docsHandler.UI)
			router.GET(openAPIPath, docsHandler.OpenAPI)
		}
	}

	apiGroup := router.Group("/api")
	{
		// POST /api/analyze-form
		apiGroup.POST("/analyze-form", analysisHandler.AnalyzeForm)
	}
}
