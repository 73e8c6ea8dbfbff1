// Package openapi describes the HTTP API as an OpenAPI 3 document for the
// interactive documentation routes.
package openapi

import (
	"fmt"
	"net/http"
	"strconv"

	"github.com/getkin/kin-openapi/openapi3"
	"github.com/getkin/kin-openapi/openapi3gen"

	"alcyxob/form-check/internal/domain"
)

// Info identifies the API in the generated document.
type Info struct {
	Title       string
	Version     string
	Description string
}

type serviceInfo struct {
	Name    string `json:"name"`
	Version string `json:"version"`
	Status  string `json:"status"`
}

type healthStatus struct {
	Status  string `json:"status"`
	Message string `json:"message"`
}

type fieldError struct {
	Field      string `json:"field"`
	Message    string `json:"message"`
	Constraint string `json:"constraint"`
}

type validationDetail struct {
	Detail []fieldError `json:"detail"`
}

type errorDetail struct {
	Detail string `json:"detail"`
}

// Generate builds the document for the form analysis API.
func Generate(info Info) (*openapi3.T, error) {
	schemas := make(openapi3.Schemas)

	request, err := schemaFor(&domain.AnalysisRequest{}, schemas)
	if err != nil {
		return nil, err
	}
	response, err := schemaFor(&domain.AnalysisResponse{}, schemas)
	if err != nil {
		return nil, err
	}
	root, err := schemaFor(&serviceInfo{}, schemas)
	if err != nil {
		return nil, err
	}
	health, err := schemaFor(&healthStatus{}, schemas)
	if err != nil {
		return nil, err
	}
	invalid, err := schemaFor(&validationDetail{}, schemas)
	if err != nil {
		return nil, err
	}
	failed, err := schemaFor(&errorDetail{}, schemas)
	if err != nil {
		return nil, err
	}

	spec := &openapi3.T{
		OpenAPI: "3.0.3",
		Info: &openapi3.Info{
			Title:       info.Title,
			Version:     info.Version,
			Description: info.Description,
		},
		Paths: &openapi3.Paths{},
		Components: &openapi3.Components{
			Schemas: schemas,
		},
	}

	analyze := &openapi3.Operation{
		OperationID: "analyzeForm",
		Summary:     "Analyze lifting form from biomechanics data",
		Tags:        []string{"form-analysis"},
		RequestBody: &openapi3.RequestBodyRef{
			Value: &openapi3.RequestBody{
				Required: true,
				Content:  openapi3.NewContentWithJSONSchemaRef(request),
			},
		},
		Responses: &openapi3.Responses{},
	}
	setResponse(analyze, http.StatusOK, "Form analysis", response)
	setResponse(analyze, http.StatusUnprocessableEntity, "Validation error", invalid)
	setResponse(analyze, http.StatusInternalServerError, "Configuration or upstream model failure", failed)
	spec.Paths.Set("/api/analyze-form", &openapi3.PathItem{Post: analyze})

	rootOp := &openapi3.Operation{OperationID: "root", Summary: "API information", Responses: &openapi3.Responses{}}
	setResponse(rootOp, http.StatusOK, "API information", root)
	spec.Paths.Set("/", &openapi3.PathItem{Get: rootOp})

	healthOp := &openapi3.Operation{OperationID: "health", Summary: "Health check", Responses: &openapi3.Responses{}}
	setResponse(healthOp, http.StatusOK, "Service is healthy", health)
	spec.Paths.Set("/health", &openapi3.PathItem{Get: healthOp})

	return spec, nil
}

func schemaFor(value any, schemas openapi3.Schemas) (*openapi3.SchemaRef, error) {
	ref, err := openapi3gen.NewSchemaRefForValue(value, schemas)
	if err != nil {
		return nil, fmt.Errorf("generate schema for %T: %w", value, err)
	}
	return ref, nil
}

func setResponse(op *openapi3.Operation, status int, description string, schema *openapi3.SchemaRef) {
	desc := description
	op.Responses.Set(strconv.Itoa(status), &openapi3.ResponseRef{
		Value: &openapi3.Response{
			Description: &desc,
			Content:     openapi3.NewContentWithJSONSchemaRef(schema),
		},
	})
}
