// Package docs registers the OpenAPI description served by /swagger.
// Regenerate with `swag init -g cmd/api/main.go` after changing handler annotations.
package docs

import "github.com/swaggo/swag"

const docTemplate = `{
    "schemes": {{ marshal .Schemes }},
    "swagger": "2.0",
    "info": {
        "description": "{{escape .Description}}",
        "title": "{{.Title}}",
        "version": "{{.Version}}"
    },
    "host": "{{.Host}}",
    "basePath": "{{.BasePath}}",
    "paths": {
        "/health": {"get": {"tags": ["health"], "summary": "Readiness check", "responses": {"200": {"description": "OK"}, "503": {"description": "Service Unavailable"}}}},
        "/healthz": {"get": {"tags": ["health"], "summary": "Liveness probe", "responses": {"200": {"description": "OK"}}}},
        "/api/invoices": {
            "get": {"tags": ["invoices"], "summary": "List invoices", "parameters": [{"$ref": "#/parameters/limit"}, {"$ref": "#/parameters/offset"}, {"$ref": "#/parameters/search"}, {"$ref": "#/parameters/ordering"}, {"$ref": "#/parameters/student"}], "responses": {"200": {"description": "OK"}}},
            "post": {"tags": ["invoices"], "summary": "Issue invoice", "consumes": ["application/json"], "responses": {"201": {"description": "Created"}, "400": {"$ref": "#/responses/error"}, "503": {"$ref": "#/responses/error"}}}
        },
        "/api/invoices/{id}": {
            "get": {"tags": ["invoices"], "summary": "Get invoice", "parameters": [{"$ref": "#/parameters/id"}], "responses": {"200": {"description": "OK"}, "404": {"$ref": "#/responses/error"}}},
            "delete": {"tags": ["invoices"], "summary": "Delete invoice", "parameters": [{"$ref": "#/parameters/id"}], "responses": {"204": {"description": "No Content"}}}
        },
        "/api/invoices/{id}/download": {
            "get": {"tags": ["invoices"], "summary": "Download invoice PDF", "produces": ["application/pdf"], "parameters": [{"$ref": "#/parameters/id"}], "responses": {"200": {"description": "PDF"}, "404": {"$ref": "#/responses/error"}}}
        },
        "/api/invoices/custom": {
            "get": {"tags": ["custom-invoices"], "summary": "List custom invoices", "parameters": [{"$ref": "#/parameters/limit"}, {"$ref": "#/parameters/offset"}, {"$ref": "#/parameters/search"}, {"$ref": "#/parameters/ordering"}], "responses": {"200": {"description": "OK"}}},
            "post": {"tags": ["custom-invoices"], "summary": "Issue custom invoice", "consumes": ["application/json"], "responses": {"201": {"description": "Created"}, "400": {"$ref": "#/responses/error"}}}
        },
        "/api/invoices/custom/{id}": {
            "get": {"tags": ["custom-invoices"], "summary": "Get custom invoice", "parameters": [{"$ref": "#/parameters/id"}], "responses": {"200": {"description": "OK"}}},
            "put": {"tags": ["custom-invoices"], "summary": "Update custom invoice", "parameters": [{"$ref": "#/parameters/id"}], "responses": {"200": {"description": "OK"}, "400": {"$ref": "#/responses/error"}}},
            "delete": {"tags": ["custom-invoices"], "summary": "Delete custom invoice", "parameters": [{"$ref": "#/parameters/id"}], "responses": {"204": {"description": "No Content"}}}
        },
        "/api/invoices/custom/{id}/download": {
            "get": {"tags": ["custom-invoices"], "summary": "Download custom invoice PDF", "produces": ["application/pdf"], "parameters": [{"$ref": "#/parameters/id"}], "responses": {"200": {"description": "PDF"}}}
        },
        "/api/certificates": {
            "get": {"tags": ["certificates"], "summary": "List certificates", "parameters": [{"$ref": "#/parameters/limit"}, {"$ref": "#/parameters/offset"}, {"$ref": "#/parameters/search"}, {"$ref": "#/parameters/ordering"}, {"$ref": "#/parameters/student"}], "responses": {"200": {"description": "OK"}}},
            "post": {"tags": ["certificates"], "summary": "Issue certificate", "consumes": ["application/json"], "responses": {"201": {"description": "Created"}, "400": {"$ref": "#/responses/error"}}}
        },
        "/api/certificates/verify": {
            "get": {"tags": ["certificates"], "summary": "Verify certificate", "parameters": [{"name": "certificate_id", "in": "query", "required": true, "type": "string"}], "responses": {"200": {"description": "OK"}, "400": {"$ref": "#/responses/error"}, "404": {"$ref": "#/responses/error"}}}
        },
        "/api/certificates/{id}": {
            "get": {"tags": ["certificates"], "summary": "Get certificate", "parameters": [{"$ref": "#/parameters/id"}], "responses": {"200": {"description": "OK"}}},
            "delete": {"tags": ["certificates"], "summary": "Delete certificate", "parameters": [{"$ref": "#/parameters/id"}], "responses": {"204": {"description": "No Content"}}}
        },
        "/api/certificates/{id}/download": {
            "get": {"tags": ["certificates"], "summary": "Download certificate PDF", "produces": ["application/pdf"], "parameters": [{"$ref": "#/parameters/id"}], "responses": {"200": {"description": "PDF"}}}
        }
    },
    "parameters": {
        "id": {"name": "id", "in": "path", "required": true, "type": "string", "format": "uuid"},
        "limit": {"name": "limit", "in": "query", "type": "integer", "default": 10, "maximum": 100},
        "offset": {"name": "offset", "in": "query", "type": "integer", "default": 0},
        "search": {"name": "search", "in": "query", "type": "string", "description": "substring of the number or display names"},
        "ordering": {"name": "ordering", "in": "query", "type": "string", "description": "field name, '-' prefix for descending"},
        "student": {"name": "student", "in": "query", "type": "integer"}
    },
    "responses": {
        "error": {"description": "Error envelope", "schema": {"type": "object", "properties": {
            "request_id": {"type": "string"},
            "error": {"type": "object", "properties": {"code": {"type": "string"}, "message": {"type": "string"}, "field": {"type": "string"}}}
        }}}
    }
}`

// SwaggerInfo holds exported Swagger Info so clients can modify it
var SwaggerInfo = &swag.Spec{
	Version:          "1.0",
	Host:             "",
	BasePath:         "/",
	Schemes:          []string{},
	Title:            "Document Issuer API",
	Description:      "Sequential document numbering and PDF issuance for invoices and certificates.",
	InfoInstanceName: "swagger",
	SwaggerTemplate:  docTemplate,
	LeftDelim:        "{{",
	RightDelim:       "}}",
}

func init() {
	swag.Register(SwaggerInfo.InstanceName(), SwaggerInfo)
}
