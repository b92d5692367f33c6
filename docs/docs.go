// Package docs registers the OpenAPI document served at /api/docs.
// Regenerate with: swag init -g cmd/portal/main.go -o docs
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
    "securityDefinitions": {
        "BearerAuth": {"type": "apiKey", "name": "Authorization", "in": "header"}
    },
    "tags": [
        {"name": "auth", "description": "Registration, login and sessions"},
        {"name": "users", "description": "Identity administration"},
        {"name": "contents", "description": "Pages, news, articles and announcements"},
        {"name": "legislators", "description": "Chamber members"},
        {"name": "tabs", "description": "Public navigation tree"},
        {"name": "tabs-admin", "description": "Navigation CMS"},
        {"name": "health", "description": "Probes"}
    ],
    "paths": {
        "/api/health": {"get": {"tags": ["health"], "summary": "Liveness probe", "responses": {"200": {"description": "OK"}}}},
        "/api/health/ready": {"get": {"tags": ["health"], "summary": "Readiness probe", "responses": {"200": {"description": "Ready"}, "503": {"description": "Degraded"}}}},
        "/api/auth/register": {"post": {"tags": ["auth"], "summary": "Register a citizen account",
            "parameters": [{"name": "body", "in": "body", "required": true, "schema": {"$ref": "#/definitions/RegisterRequest"}}],
            "responses": {"201": {"description": "Created", "schema": {"$ref": "#/definitions/Envelope"}}, "400": {"description": "Validation error"}, "409": {"description": "Email already registered"}, "429": {"description": "Rate limited"}}}},
        "/api/auth/login": {"post": {"tags": ["auth"], "summary": "Login",
            "parameters": [{"name": "body", "in": "body", "required": true, "schema": {"$ref": "#/definitions/LoginRequest"}}],
            "responses": {"200": {"description": "OK", "schema": {"$ref": "#/definitions/Envelope"}}, "401": {"description": "Invalid credentials, locked or inactive"}, "429": {"description": "Rate limited"}}}},
        "/api/auth/refresh": {"post": {"tags": ["auth"], "summary": "Refresh the access token",
            "parameters": [{"name": "body", "in": "body", "required": true, "schema": {"type": "object", "properties": {"refresh_token": {"type": "string"}}}}],
            "responses": {"200": {"description": "OK"}, "401": {"description": "Invalid, expired or revoked token"}}}},
        "/api/auth/logout": {"post": {"tags": ["auth"], "summary": "Logout", "security": [{"BearerAuth": []}], "responses": {"200": {"description": "OK"}}}},
        "/api/auth/me": {"get": {"tags": ["auth"], "summary": "Current identity", "security": [{"BearerAuth": []}], "responses": {"200": {"description": "OK"}}}},
        "/api/auth/validate": {"post": {"tags": ["auth"], "summary": "Validate an access token", "responses": {"200": {"description": "Always 200 with valid true or false"}}}},
        "/api/auth/change-password": {"post": {"tags": ["auth"], "summary": "Change password", "security": [{"BearerAuth": []}], "responses": {"200": {"description": "OK"}, "400": {"description": "Weak or recently used password"}}}},
        "/api/users": {
            "get": {"tags": ["users"], "summary": "List users", "security": [{"BearerAuth": []}], "parameters": [{"$ref": "#/parameters/page"}, {"$ref": "#/parameters/limit"}, {"name": "role", "in": "query", "type": "string"}, {"name": "status", "in": "query", "type": "string"}, {"name": "search", "in": "query", "type": "string"}], "responses": {"200": {"description": "OK"}}},
            "post": {"tags": ["users"], "summary": "Create a user", "security": [{"BearerAuth": []}], "responses": {"201": {"description": "Created"}, "403": {"description": "Forbidden"}, "409": {"description": "Duplicate email"}}}
        },
        "/api/users/{id}": {
            "get": {"tags": ["users"], "summary": "Get a user", "security": [{"BearerAuth": []}], "parameters": [{"$ref": "#/parameters/id"}], "responses": {"200": {"description": "OK"}, "404": {"description": "Not found"}}},
            "put": {"tags": ["users"], "summary": "Update a user", "security": [{"BearerAuth": []}], "parameters": [{"$ref": "#/parameters/id"}], "responses": {"200": {"description": "OK"}}},
            "delete": {"tags": ["users"], "summary": "Delete a user", "security": [{"BearerAuth": []}], "parameters": [{"$ref": "#/parameters/id"}], "responses": {"200": {"description": "OK"}}}
        },
        "/api/contents": {
            "get": {"tags": ["contents"], "summary": "List content", "parameters": [{"$ref": "#/parameters/page"}, {"$ref": "#/parameters/limit"}, {"name": "type", "in": "query", "type": "string"}, {"name": "category", "in": "query", "type": "string"}, {"name": "status", "in": "query", "type": "string"}, {"name": "language", "in": "query", "type": "string"}, {"name": "tag", "in": "query", "type": "string"}, {"name": "search", "in": "query", "type": "string"}, {"name": "from", "in": "query", "type": "string"}, {"name": "to", "in": "query", "type": "string"}, {"name": "include_drafts", "in": "query", "type": "boolean"}], "responses": {"200": {"description": "OK"}}},
            "post": {"tags": ["contents"], "summary": "Create content", "security": [{"BearerAuth": []}], "responses": {"201": {"description": "Created"}, "409": {"description": "Slug taken"}}}
        },
        "/api/contents/types": {"get": {"tags": ["contents"], "summary": "Content types", "responses": {"200": {"description": "OK"}}}},
        "/api/contents/categories": {"get": {"tags": ["contents"], "summary": "Content categories", "responses": {"200": {"description": "OK"}}}},
        "/api/contents/search": {"get": {"tags": ["contents"], "summary": "Search content", "parameters": [{"name": "q", "in": "query", "type": "string", "required": true}, {"name": "limit", "in": "query", "type": "integer"}], "responses": {"200": {"description": "OK"}}}},
        "/api/contents/stats": {"get": {"tags": ["contents"], "summary": "Content statistics", "security": [{"BearerAuth": []}], "responses": {"200": {"description": "OK"}}}},
        "/api/contents/slug/{slug}": {"get": {"tags": ["contents"], "summary": "Get content by slug", "parameters": [{"name": "slug", "in": "path", "type": "string", "required": true}], "responses": {"200": {"description": "OK"}, "404": {"description": "Not found"}}}},
        "/api/contents/{id}": {
            "get": {"tags": ["contents"], "summary": "Get content", "parameters": [{"$ref": "#/parameters/id"}], "responses": {"200": {"description": "OK"}}},
            "put": {"tags": ["contents"], "summary": "Update content", "security": [{"BearerAuth": []}], "parameters": [{"$ref": "#/parameters/id"}], "responses": {"200": {"description": "OK"}}},
            "delete": {"tags": ["contents"], "summary": "Delete content", "security": [{"BearerAuth": []}], "parameters": [{"$ref": "#/parameters/id"}], "responses": {"200": {"description": "OK"}}}
        },
        "/api/contents/{id}/related": {"get": {"tags": ["contents"], "summary": "Related content", "parameters": [{"$ref": "#/parameters/id"}], "responses": {"200": {"description": "OK"}}}},
        "/api/contents/{id}/status": {"patch": {"tags": ["contents"], "summary": "Change content status", "security": [{"BearerAuth": []}], "parameters": [{"$ref": "#/parameters/id"}], "responses": {"200": {"description": "OK"}}}},
        "/api/legislators": {
            "get": {"tags": ["legislators"], "summary": "List legislators", "parameters": [{"$ref": "#/parameters/page"}, {"$ref": "#/parameters/limit"}, {"name": "party", "in": "query", "type": "string"}, {"name": "caucus", "in": "query", "type": "string"}, {"name": "position", "in": "query", "type": "string"}, {"name": "status", "in": "query", "type": "string"}, {"name": "department", "in": "query", "type": "string"}, {"name": "commission", "in": "query", "type": "string"}, {"name": "search", "in": "query", "type": "string"}], "responses": {"200": {"description": "OK"}}},
            "post": {"tags": ["legislators"], "summary": "Create legislator", "security": [{"BearerAuth": []}], "responses": {"201": {"description": "Created"}, "409": {"description": "CI taken"}}}
        },
        "/api/legislators/positions": {"get": {"tags": ["legislators"], "summary": "Positions", "responses": {"200": {"description": "OK"}}}},
        "/api/legislators/statuses": {"get": {"tags": ["legislators"], "summary": "Statuses", "responses": {"200": {"description": "OK"}}}},
        "/api/legislators/distribution/party": {"get": {"tags": ["legislators"], "summary": "Distribution by party", "responses": {"200": {"description": "OK"}}}},
        "/api/legislators/distribution/department": {"get": {"tags": ["legislators"], "summary": "Distribution by department", "responses": {"200": {"description": "OK"}}}},
        "/api/legislators/commissions": {"get": {"tags": ["legislators"], "summary": "Active commissions", "responses": {"200": {"description": "OK"}}}},
        "/api/legislators/search": {"get": {"tags": ["legislators"], "summary": "Search legislators", "parameters": [{"name": "q", "in": "query", "type": "string", "required": true}], "responses": {"200": {"description": "OK"}}}},
        "/api/legislators/stats": {"get": {"tags": ["legislators"], "summary": "Legislator statistics", "security": [{"BearerAuth": []}], "responses": {"200": {"description": "OK"}}}},
        "/api/legislators/ci/{ci}": {"get": {"tags": ["legislators"], "summary": "Get legislator by CI", "parameters": [{"name": "ci", "in": "path", "type": "string", "required": true}], "responses": {"200": {"description": "OK"}, "404": {"description": "Not found"}}}},
        "/api/legislators/{id}": {
            "get": {"tags": ["legislators"], "summary": "Get legislator", "parameters": [{"$ref": "#/parameters/id"}], "responses": {"200": {"description": "OK"}}},
            "put": {"tags": ["legislators"], "summary": "Update legislator", "security": [{"BearerAuth": []}], "parameters": [{"$ref": "#/parameters/id"}], "responses": {"200": {"description": "OK"}}},
            "delete": {"tags": ["legislators"], "summary": "Delete legislator", "security": [{"BearerAuth": []}], "parameters": [{"$ref": "#/parameters/id"}], "responses": {"200": {"description": "OK"}}}
        },
        "/api/tabs": {"get": {"tags": ["tabs"], "summary": "Navigation tree", "responses": {"200": {"description": "OK"}}}},
        "/api/tabs/icons": {"get": {"tags": ["tabs"], "summary": "Icon gallery", "responses": {"200": {"description": "OK"}}}},
        "/api/tabs/{categoryId}/links": {"get": {"tags": ["tabs"], "summary": "Links of a category", "parameters": [{"name": "categoryId", "in": "path", "type": "string", "required": true}], "responses": {"200": {"description": "OK"}, "404": {"description": "Not found"}}}},
        "/api/tabs/admin/categories": {
            "get": {"tags": ["tabs-admin"], "summary": "List tab categories", "security": [{"BearerAuth": []}], "parameters": [{"name": "include_inactive", "in": "query", "type": "boolean"}], "responses": {"200": {"description": "OK"}}},
            "post": {"tags": ["tabs-admin"], "summary": "Create tab category", "security": [{"BearerAuth": []}], "responses": {"201": {"description": "Created"}, "409": {"description": "category_id taken"}}}
        },
        "/api/tabs/admin/categories/{id}": {
            "get": {"tags": ["tabs-admin"], "summary": "Get tab category", "security": [{"BearerAuth": []}], "parameters": [{"$ref": "#/parameters/id"}], "responses": {"200": {"description": "OK"}}},
            "put": {"tags": ["tabs-admin"], "summary": "Update tab category", "security": [{"BearerAuth": []}], "parameters": [{"$ref": "#/parameters/id"}], "responses": {"200": {"description": "OK"}}},
            "delete": {"tags": ["tabs-admin"], "summary": "Delete or deactivate tab category", "security": [{"BearerAuth": []}], "parameters": [{"$ref": "#/parameters/id"}], "responses": {"200": {"description": "OK"}}}
        },
        "/api/tabs/admin/links": {
            "get": {"tags": ["tabs-admin"], "summary": "List tab links", "security": [{"BearerAuth": []}], "parameters": [{"$ref": "#/parameters/page"}, {"$ref": "#/parameters/limit"}, {"name": "category_id", "in": "query", "type": "string"}, {"name": "is_active", "in": "query", "type": "boolean"}, {"name": "search", "in": "query", "type": "string"}], "responses": {"200": {"description": "OK"}}},
            "post": {"tags": ["tabs-admin"], "summary": "Create tab link", "security": [{"BearerAuth": []}], "responses": {"201": {"description": "Created"}}}
        },
        "/api/tabs/admin/links/reorder": {"put": {"tags": ["tabs-admin"], "summary": "Reorder tab links", "security": [{"BearerAuth": []}], "responses": {"200": {"description": "OK"}}}},
        "/api/tabs/admin/links/{id}": {
            "get": {"tags": ["tabs-admin"], "summary": "Get tab link", "security": [{"BearerAuth": []}], "parameters": [{"$ref": "#/parameters/id"}], "responses": {"200": {"description": "OK"}}},
            "put": {"tags": ["tabs-admin"], "summary": "Update tab link", "security": [{"BearerAuth": []}], "parameters": [{"$ref": "#/parameters/id"}], "responses": {"200": {"description": "OK"}}},
            "delete": {"tags": ["tabs-admin"], "summary": "Delete tab link", "security": [{"BearerAuth": []}], "parameters": [{"$ref": "#/parameters/id"}], "responses": {"200": {"description": "OK"}}}
        }
    },
    "parameters": {
        "id": {"name": "id", "in": "path", "type": "string", "required": true},
        "page": {"name": "page", "in": "query", "type": "integer", "minimum": 1},
        "limit": {"name": "limit", "in": "query", "type": "integer", "minimum": 1, "maximum": 100}
    },
    "definitions": {
        "FieldError": {"type": "object", "properties": {"field": {"type": "string"}, "message": {"type": "string"}}},
        "Envelope": {"type": "object", "properties": {
            "success": {"type": "boolean"},
            "data": {"type": "object"},
            "message": {"type": "string"},
            "code": {"type": "string"},
            "errors": {"type": "array", "items": {"$ref": "#/definitions/FieldError"}}
        }},
        "RegisterRequest": {"type": "object", "required": ["email", "password", "first_name", "last_name"], "properties": {
            "email": {"type": "string"}, "password": {"type": "string"}, "first_name": {"type": "string"},
            "last_name": {"type": "string"}, "ci": {"type": "string"}, "phone": {"type": "string"}
        }},
        "LoginRequest": {"type": "object", "required": ["email", "password"], "properties": {
            "email": {"type": "string"}, "password": {"type": "string"}
        }}
    }
}`

// SwaggerInfo holds exported Swagger Info so clients can modify it
var SwaggerInfo = &swag.Spec{
	Version:          "1.0",
	Host:             "",
	BasePath:         "/",
	Schemes:          []string{},
	Title:            "Senado Portal API",
	Description:      "Institutional portal backend: identities, content, legislators and navigation.",
	InfoInstanceName: "swagger",
	SwaggerTemplate:  docTemplate,
	LeftDelim:        "{{",
	RightDelim:       "}}",
}

func init() {
	swag.Register(SwaggerInfo.InstanceName(), SwaggerInfo)
}
