package api

import (
	"alcyxob/form-check/internal/domain"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log"
	"math"
	"net/http"
	"reflect"
	"strings"
	"sync"
	"unicode"

	"github.com/gin-gonic/gin"
	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"
)

// Prefixes of the 500 detail messages, one per failure kind.
const (
	prefixConfiguration  = "Service configuration error: "
	prefixUpstreamFormat = "Invalid response format from AI service: "
	prefixUnknown        = "Failed to analyze form: "
)

// FieldError describes one violated constraint of the request body.
type FieldError struct {
	Field      string `json:"field"`
	Message    string `json:"message"`
	Constraint string `json:"constraint"`
}

var registerTagNames sync.Once

// useJSONFieldNames makes validation errors report JSON names instead of Go names.
func useJSONFieldNames() {
	registerTagNames.Do(func() {
		v, ok := binding.Validator.Engine().(*validator.Validate)
		if !ok {
			return
		}
		v.RegisterTagNameFunc(func(fld reflect.StructField) string {
			name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
			if name == "-" {
				return ""
			}
			return name
		})
	})
}

// bindingErrors converts a ShouldBindJSON error into field errors.
func bindingErrors(err error) []FieldError {
	var (
		verrs     validator.ValidationErrors
		typeErr   *json.UnmarshalTypeError
		syntaxErr *json.SyntaxError
	)
	switch {
	case errors.As(err, &verrs):
		out := make([]FieldError, 0, len(verrs))
		for _, fe := range verrs {
			out = append(out, FieldError{
				Field:      fieldPath(fe.Namespace()),
				Message:    constraintMessage(fe),
				Constraint: fe.Tag(),
			})
		}
		return out
	case errors.As(err, &typeErr):
		return []FieldError{{
			Field:      typeErr.Field,
			Message:    fmt.Sprintf("expected %s, got %s", typeErr.Type.String(), typeErr.Value),
			Constraint: "type",
		}}
	case errors.As(err, &syntaxErr):
		return []FieldError{{Field: "body", Message: fmt.Sprintf("invalid JSON at offset %d: %v", syntaxErr.Offset, syntaxErr), Constraint: "json"}}
	case errors.Is(err, io.EOF):
		return []FieldError{{Field: "body", Message: "request body is required", Constraint: "required"}}
	default:
		return []FieldError{{Field: "body", Message: err.Error(), Constraint: "invalid"}}
	}
}

// requestErrors lists every problem with a request body. A JSON type mismatch
// does not stop decoding, so the remaining constraints are still checked on
// the partly decoded req; errors at or below a mistyped field are dropped.
func requestErrors(body []byte, req any, err error) []FieldError {
	var typeErr *json.UnmarshalTypeError
	if !errors.As(err, &typeErr) {
		return bindingErrors(err)
	}

	var doc any
	if json.Unmarshal(body, &doc) != nil {
		return bindingErrors(err)
	}
	out := typeMismatches(doc, reflect.TypeOf(req), "")
	if len(out) == 0 {
		out = bindingErrors(err)
	}

	verr := binding.Validator.ValidateStruct(req)
	if verr == nil {
		return out
	}
	mistyped := out
	for _, fe := range bindingErrors(verr) {
		if !coveredBy(fe.Field, mistyped) {
			out = append(out, fe)
		}
	}
	return out
}

func coveredBy(field string, mistyped []FieldError) bool {
	for _, m := range mistyped {
		if field == m.Field || strings.HasPrefix(field, m.Field+".") || strings.HasPrefix(field, m.Field+"[") {
			return true
		}
	}
	return false
}

// typeMismatches walks a decoded JSON document alongside the Go type it is
// bound to and reports every value of the wrong JSON kind.
func typeMismatches(v any, t reflect.Type, path string) []FieldError {
	for t.Kind() == reflect.Ptr {
		t = t.Elem()
	}
	if v == nil {
		return nil
	}

	switch t.Kind() {
	case reflect.Struct:
		obj, ok := v.(map[string]any)
		if !ok {
			return []FieldError{typeMismatch(path, "object", v)}
		}
		var out []FieldError
		for _, f := range jsonFields(t) {
			if val, ok := obj[f.name]; ok {
				out = append(out, typeMismatches(val, f.typ, joinPath(path, f.name))...)
			}
		}
		return out
	case reflect.Slice, reflect.Array:
		arr, ok := v.([]any)
		if !ok {
			return []FieldError{typeMismatch(path, "array", v)}
		}
		var out []FieldError
		for i, el := range arr {
			out = append(out, typeMismatches(el, t.Elem(), fmt.Sprintf("%s[%d]", path, i))...)
		}
		return out
	case reflect.String:
		if _, ok := v.(string); !ok {
			return []FieldError{typeMismatch(path, "string", v)}
		}
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64,
		reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		if n, ok := v.(float64); !ok || n != math.Trunc(n) {
			return []FieldError{typeMismatch(path, "integer", v)}
		}
	case reflect.Float32, reflect.Float64:
		if _, ok := v.(float64); !ok {
			return []FieldError{typeMismatch(path, "number", v)}
		}
	case reflect.Bool:
		if _, ok := v.(bool); !ok {
			return []FieldError{typeMismatch(path, "boolean", v)}
		}
	}
	return nil
}

type jsonField struct {
	name string
	typ  reflect.Type
}

// jsonFields lists the JSON-visible fields of t, flattening untagged embedded structs.
func jsonFields(t reflect.Type) []jsonField {
	var out []jsonField
	for i := 0; i < t.NumField(); i++ {
		f := t.Field(i)
		name := strings.SplitN(f.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			continue
		}
		if f.Anonymous && name == "" {
			et := f.Type
			if et.Kind() == reflect.Ptr {
				et = et.Elem()
			}
			if et.Kind() == reflect.Struct {
				out = append(out, jsonFields(et)...)
				continue
			}
		}
		if !f.IsExported() {
			continue
		}
		if name == "" {
			name = f.Name
		}
		out = append(out, jsonField{name: name, typ: f.Type})
	}
	return out
}

func typeMismatch(path, want string, got any) FieldError {
	if path == "" {
		path = "body"
	}
	return FieldError{
		Field:      path,
		Message:    fmt.Sprintf("expected %s, got %s", want, jsonKind(got)),
		Constraint: "type",
	}
}

func jsonKind(v any) string {
	switch n := v.(type) {
	case string:
		return "string"
	case float64:
		if n == math.Trunc(n) {
			return "integer"
		}
		return "number"
	case bool:
		return "boolean"
	case []any:
		return "array"
	case map[string]any:
		return "object"
	default:
		return "null"
	}
}

func joinPath(base, name string) string {
	if base == "" {
		return name
	}
	return base + "." + name
}

// fieldPath drops the root struct and embedded struct names from a validator
// namespace, leaving the JSON path (e.g. keyPositions.setup.hipAngle).
func fieldPath(ns string) string {
	parts := strings.Split(ns, ".")
	kept := parts[:0]
	for i, p := range parts {
		if i == 0 || p == "" {
			continue
		}
		if r := []rune(p)[0]; unicode.IsUpper(r) {
			continue
		}
		kept = append(kept, p)
	}
	return strings.Join(kept, ".")
}

func constraintMessage(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return "field required"
	case "gte":
		return "must be greater than or equal to " + fe.Param()
	case "lte":
		return "must be less than or equal to " + fe.Param()
	case "oneof":
		return "must be one of: " + strings.ReplaceAll(fe.Param(), " ", ", ")
	case "max":
		if fe.Kind() == reflect.Slice {
			return "must contain at most " + fe.Param() + " items"
		}
		return "must be at most " + fe.Param() + " characters"
	default:
		return fmt.Sprintf("failed %q validation", fe.Tag())
	}
}

// respondWithAnalysisError maps a pipeline error to its HTTP outcome.
func respondWithAnalysisError(c *gin.Context, err error) {
	requestID := getRequestID(c)
	switch domain.KindOf(err) {
	case domain.KindValidation:
		abortWithDetail(c, http.StatusUnprocessableEntity, []FieldError{{Field: "body", Message: err.Error(), Constraint: "invalid"}})
	case domain.KindConfiguration:
		log.Printf("ERROR: [%s] configuration error: %v", requestID, err)
		abortWithDetail(c, http.StatusInternalServerError, prefixConfiguration+err.Error())
	case domain.KindUpstreamFormat:
		log.Printf("ERROR: [%s] invalid model response: %v", requestID, err)
		abortWithDetail(c, http.StatusInternalServerError, prefixUpstreamFormat+err.Error())
	default:
		log.Printf("ERROR: [%s] form analysis failed: %v", requestID, err)
		abortWithDetail(c, http.StatusInternalServerError, prefixUnknown+err.Error())
	}
}
