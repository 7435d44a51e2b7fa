// SPDX-FileCopyrightText: 2026 apisynth
// SPDX-License-Identifier: FSL-1.1-MIT

package types

import "strings"

// OpenAPI represents a complete OpenAPI 3.0 document.
type OpenAPI struct {
	// OpenAPI is the OpenAPI specification version
	OpenAPI string `json:"openapi" yaml:"openapi"`

	// Info provides metadata about the API
	Info Info `json:"info" yaml:"info"`

	// Components holds reusable objects
	Components *Components `json:"components,omitempty" yaml:"components,omitempty"`

	// Paths maps normalized URL patterns to path items in route table order
	Paths *OrderedMap[*PathItem] `json:"paths" yaml:"paths"`

	// Tags is the list of tags referenced by operations
	Tags []Tag `json:"tags" yaml:"tags"`
}

// Info provides metadata about the API.
type Info struct {
	Title       string `json:"title" yaml:"title"`
	Description string `json:"description,omitempty" yaml:"description,omitempty"`
	Version     string `json:"version" yaml:"version"`
}

// PathItem holds the operations of one URL pattern.
type PathItem struct {
	Get     *Operation `json:"get,omitempty" yaml:"get,omitempty"`
	Put     *Operation `json:"put,omitempty" yaml:"put,omitempty"`
	Post    *Operation `json:"post,omitempty" yaml:"post,omitempty"`
	Delete  *Operation `json:"delete,omitempty" yaml:"delete,omitempty"`
	Options *Operation `json:"options,omitempty" yaml:"options,omitempty"`
	Head    *Operation `json:"head,omitempty" yaml:"head,omitempty"`
	Patch   *Operation `json:"patch,omitempty" yaml:"patch,omitempty"`
	Trace   *Operation `json:"trace,omitempty" yaml:"trace,omitempty"`
}

// SetOperation stores op under the given HTTP method and reports whether
// the method is known.
func (p *PathItem) SetOperation(method string, op *Operation) bool {
	switch strings.ToUpper(method) {
	case "GET":
		p.Get = op
	case "PUT":
		p.Put = op
	case "POST":
		p.Post = op
	case "DELETE":
		p.Delete = op
	case "OPTIONS":
		p.Options = op
	case "HEAD":
		p.Head = op
	case "PATCH":
		p.Patch = op
	case "TRACE":
		p.Trace = op
	default:
		return false
	}
	return true
}

// Operations returns the operations keyed by lowercase method.
func (p *PathItem) Operations() map[string]*Operation {
	ops := make(map[string]*Operation)
	for method, op := range map[string]*Operation{
		"get": p.Get, "put": p.Put, "post": p.Post, "delete": p.Delete,
		"options": p.Options, "head": p.Head, "patch": p.Patch, "trace": p.Trace,
	} {
		if op != nil {
			ops[method] = op
		}
	}
	return ops
}

// Operation represents an API operation.
type Operation struct {
	Tags        []string              `json:"tags,omitempty" yaml:"tags,omitempty"`
	Summary     string                `json:"summary,omitempty" yaml:"summary,omitempty"`
	Description string                `json:"description,omitempty" yaml:"description,omitempty"`
	OperationID string                `json:"operationId,omitempty" yaml:"operationId,omitempty"`
	Parameters  []Parameter           `json:"parameters,omitempty" yaml:"parameters,omitempty"`
	RequestBody *RequestBody          `json:"requestBody,omitempty" yaml:"requestBody,omitempty"`
	Responses   map[string]*Response  `json:"responses" yaml:"responses"`
	Security    []map[string][]string `json:"security,omitempty" yaml:"security,omitempty"`
}

// Parameter represents an OpenAPI parameter.
type Parameter struct {
	// Name is the parameter name
	Name string `json:"name" yaml:"name" mapstructure:"name"`

	// In is the location of the parameter (path, query, header, cookie)
	In string `json:"in" yaml:"in" mapstructure:"in"`

	// Description is a brief description of the parameter
	Description string `json:"description,omitempty" yaml:"description,omitempty" mapstructure:"description"`

	// Required indicates if the parameter is required
	Required bool `json:"required" yaml:"required" mapstructure:"required"`

	// Schema defines the type of the parameter
	Schema *Schema `json:"schema,omitempty" yaml:"schema,omitempty" mapstructure:"schema"`
}

// RequestBody represents an OpenAPI request body.
type RequestBody struct {
	Description string               `json:"description,omitempty" yaml:"description,omitempty"`
	Required    bool                 `json:"required,omitempty" yaml:"required,omitempty"`
	Content     map[string]MediaType `json:"content" yaml:"content"`
}

// Response represents an OpenAPI response.
type Response struct {
	// Description is a brief description of the response
	Description string `json:"description" yaml:"description"`

	// Headers maps header names to header definitions
	Headers map[string]Header `json:"headers,omitempty" yaml:"headers,omitempty"`

	// Content maps media types to their schemas
	Content map[string]MediaType `json:"content,omitempty" yaml:"content,omitempty"`

	// Summary is an operation summary carried by a response; the compiler
	// moves it onto the operation and it is never rendered.
	Summary string `json:"-" yaml:"-"`
}

// Header represents an OpenAPI header.
type Header struct {
	Description string  `json:"description,omitempty" yaml:"description,omitempty" mapstructure:"description"`
	Required    bool    `json:"required,omitempty" yaml:"required,omitempty" mapstructure:"required"`
	Schema      *Schema `json:"schema,omitempty" yaml:"schema,omitempty" mapstructure:"schema"`
}

// MediaType represents an OpenAPI media type.
type MediaType struct {
	Schema  *Schema     `json:"schema,omitempty" yaml:"schema,omitempty"`
	Example interface{} `json:"example,omitempty" yaml:"example,omitempty"`
}

// Components holds reusable objects.
type Components struct {
	Responses       map[string]Response       `json:"responses,omitempty" yaml:"responses,omitempty"`
	SecuritySchemes map[string]SecurityScheme `json:"securitySchemes,omitempty" yaml:"securitySchemes,omitempty"`
	Schemas         *OrderedMap[*Schema]      `json:"schemas,omitempty" yaml:"schemas,omitempty"`
}

// SecurityScheme represents a security scheme.
type SecurityScheme struct {
	Type             string `json:"type" yaml:"type" mapstructure:"type"`
	Description      string `json:"description,omitempty" yaml:"description,omitempty" mapstructure:"description"`
	Name             string `json:"name,omitempty" yaml:"name,omitempty" mapstructure:"name"`
	In               string `json:"in,omitempty" yaml:"in,omitempty" mapstructure:"in"`
	Scheme           string `json:"scheme,omitempty" yaml:"scheme,omitempty" mapstructure:"scheme"`
	BearerFormat     string `json:"bearerFormat,omitempty" yaml:"bearerFormat,omitempty" mapstructure:"bearerFormat"`
	OpenIDConnectURL string `json:"openIdConnectUrl,omitempty" yaml:"openIdConnectUrl,omitempty" mapstructure:"openIdConnectUrl"`
}

// Tag represents a tag object.
type Tag struct {
	Name        string `json:"name" yaml:"name"`
	Description string `json:"description,omitempty" yaml:"description,omitempty"`
}
