// Package openapi builds the OpenAPI 3 document of the HTTP API from the
// same route table that registers the handlers, and serves it together with
// a Swagger UI page.
package openapi

import (
	"encoding/json"
	"fmt"
	"net/http"
	"regexp"
	"sort"
	"strings"

	"github.com/getkin/kin-openapi/openapi3"
	"github.com/getkin/kin-openapi/openapi3gen"
)

// SecuritySchemeName is the name of the bearer token scheme in the document.
const SecuritySchemeName = "bearerAuth"

const errorSchemaName = "Error"

// Param describes a query string parameter.
type Param struct {
	Name        string
	Description string
	// Type is an OpenAPI primitive type: "string" or "integer".
	Type string
}

// Operation describes one documented endpoint. Request and Response are
// sample values whose types are reflected into schemas; either may be nil.
type Operation struct {
	Method  string
	Path    string
	Summary string
	Tag     string
	Secured bool

	Request  interface{}
	Response interface{}

	// Multipart adds a multipart/form-data body built from Request with the
	// named file field. With a nil Request the body holds only the file.
	Multipart string

	// WithToken marks responses that carry a token next to the data.
	WithToken bool

	Query []Param
}

// Info carries the document metadata.
type Info struct {
	Title       string
	Version     string
	Description string
	// ServerURL is the base path the documented paths are relative to.
	ServerURL string
}

var pathParamPattern = regexp.MustCompile(`\{([^}/]+)\}`)

// Build assembles the document for the given operations.
func Build(info Info, ops []Operation) (*openapi3.T, error) {
	doc := &openapi3.T{
		OpenAPI: "3.0.3",
		Info: &openapi3.Info{
			Title:       info.Title,
			Version:     info.Version,
			Description: info.Description,
		},
		Paths: openapi3.NewPaths(),
		Components: &openapi3.Components{
			Schemas: openapi3.Schemas{
				errorSchemaName: openapi3.NewSchemaRef("", errorSchema()),
			},
			SecuritySchemes: openapi3.SecuritySchemes{
				SecuritySchemeName: &openapi3.SecuritySchemeRef{Value: openapi3.NewJWTSecurityScheme()},
			},
		},
	}
	if info.ServerURL != "" {
		doc.Servers = openapi3.Servers{&openapi3.Server{URL: info.ServerURL}}
	}

	tags := map[string]bool{}
	for _, op := range ops {
		operation, err := buildOperation(op)
		if err != nil {
			return nil, fmt.Errorf("%s %s: %w", op.Method, op.Path, err)
		}
		doc.AddOperation(op.Path, strings.ToUpper(op.Method), operation)
		if op.Tag != "" {
			tags[op.Tag] = true
		}
	}

	names := make([]string, 0, len(tags))
	for name := range tags {
		names = append(names, name)
	}
	sort.Strings(names)
	for _, name := range names {
		doc.Tags = append(doc.Tags, &openapi3.Tag{Name: name})
	}

	return doc, nil
}

func buildOperation(op Operation) (*openapi3.Operation, error) {
	operation := openapi3.NewOperation()
	operation.Summary = op.Summary
	if op.Tag != "" {
		operation.Tags = []string{op.Tag}
	}

	hasPathParams := false
	for _, match := range pathParamPattern.FindAllStringSubmatch(op.Path, -1) {
		hasPathParams = true
		operation.AddParameter(openapi3.NewPathParameter(match[1]).
			WithSchema(openapi3.NewInt64Schema().WithMin(1)))
	}
	for _, q := range op.Query {
		operation.AddParameter(openapi3.NewQueryParameter(q.Name).
			WithDescription(q.Description).
			WithSchema(primitiveSchema(q.Type)))
	}

	body, err := requestBody(op)
	if err != nil {
		return nil, err
	}
	if body != nil {
		operation.RequestBody = &openapi3.RequestBodyRef{Value: body}
	}

	data, err := schemaFor(op.Response)
	if err != nil {
		return nil, err
	}
	options := []openapi3.NewResponsesOption{
		openapi3.WithStatus(http.StatusOK, &openapi3.ResponseRef{
			Value: openapi3.NewResponse().
				WithDescription("Success").
				WithJSONSchema(envelopeSchema(data, op.WithToken)),
		}),
		openapi3.WithStatus(http.StatusInternalServerError, errorResponse("Internal server error")),
	}
	if body != nil || len(op.Query) > 0 || hasPathParams {
		options = append(options, openapi3.WithStatus(http.StatusBadRequest, errorResponse("Invalid request")))
	}
	if op.Secured {
		options = append(options, openapi3.WithStatus(http.StatusUnauthorized, errorResponse("Missing or invalid token")))
		operation.Security = openapi3.NewSecurityRequirements().
			With(openapi3.NewSecurityRequirement().Authenticate(SecuritySchemeName))
	}
	if hasPathParams {
		options = append(options, openapi3.WithStatus(http.StatusNotFound, errorResponse("Not found")))
	}
	operation.Responses = openapi3.NewResponses(options...)

	return operation, nil
}

func requestBody(op Operation) (*openapi3.RequestBody, error) {
	if op.Request == nil && op.Multipart == "" {
		return nil, nil
	}

	content := openapi3.Content{}
	if op.Request != nil {
		ref, err := schemaFor(op.Request)
		if err != nil {
			return nil, err
		}
		content["application/json"] = openapi3.NewMediaType().WithSchemaRef(ref)
	}
	if op.Multipart != "" {
		form := openapi3.NewObjectSchema()
		if op.Request != nil {
			ref, err := schemaFor(op.Request)
			if err != nil {
				return nil, err
			}
			form = ref.Value
		}
		form.WithProperty(op.Multipart, openapi3.NewStringSchema().WithFormat("binary"))
		content["multipart/form-data"] = openapi3.NewMediaType().WithSchema(form)
	}

	body := openapi3.NewRequestBody().WithRequired(true)
	body.Content = content
	return body, nil
}

// schemaFor reflects a sample value into an inline schema.
func schemaFor(value interface{}) (*openapi3.SchemaRef, error) {
	if value == nil {
		return openapi3.NewSchemaRef("", openapi3.NewObjectSchema()), nil
	}
	ref, err := openapi3gen.NewSchemaRefForValue(value, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to generate schema for %T: %w", value, err)
	}
	return ref, nil
}

func envelopeSchema(data *openapi3.SchemaRef, withToken bool) *openapi3.Schema {
	schema := openapi3.NewObjectSchema().
		WithProperty("message", openapi3.NewStringSchema()).
		WithPropertyRef("data", data)
	schema.Required = []string{"message", "data"}
	if withToken {
		schema.WithProperty("token", openapi3.NewStringSchema())
	}
	return schema
}

func errorSchema() *openapi3.Schema {
	schema := openapi3.NewObjectSchema().
		WithProperty("message", openapi3.NewStringSchema()).
		WithProperty("trace_id", openapi3.NewStringSchema())
	schema.Required = []string{"message"}
	return schema
}

func errorResponse(description string) *openapi3.ResponseRef {
	ref := openapi3.NewSchemaRef("#/components/schemas/"+errorSchemaName, errorSchema())
	return &openapi3.ResponseRef{
		Value: openapi3.NewResponse().WithDescription(description).WithJSONSchemaRef(ref),
	}
}

func primitiveSchema(typ string) *openapi3.Schema {
	if typ == "integer" {
		return openapi3.NewInt64Schema()
	}
	return openapi3.NewStringSchema()
}

// Handler serves the document as JSON. The encoding is done once.
func Handler(doc *openapi3.T) (http.Handler, error) {
	payload, err := json.Marshal(doc)
	if err != nil {
		return nil, fmt.Errorf("failed to encode OpenAPI document: %w", err)
	}
	return http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "application/json; charset=utf-8")
		_, _ = w.Write(payload)
	}), nil
}
