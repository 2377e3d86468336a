// Package swagger registers a hand-maintained OpenAPI document, kept to path
// summaries, for the Swagger UI route. Run swag init to regenerate it with
// full request and response schemas from the handler annotations.
package swagger

import "github.com/swaggo/swag"

const docTemplate = `{
    "schemes": {{ marshal .Schemes }},
    "swagger": "2.0",
    "info": {
        "description": "{{escape .Description}}",
        "title": "{{.Title}}",
        "contact": {},
        "version": "{{.Version}}"
    },
    "host": "{{.Host}}",
    "basePath": "{{.BasePath}}",
    "paths": {
        "/auth/register": {
            "post": {"tags": ["Auth"], "summary": "Register a farmer account"}
        },
        "/auth/login": {
            "post": {"tags": ["Auth"], "summary": "Log in"}
        },
        "/auth/logout": {
            "post": {"tags": ["Auth"], "summary": "Log out"}
        },
        "/auth/me": {
            "get": {"tags": ["Auth"], "summary": "Current principal"}
        },
        "/crops": {
            "get": {"tags": ["Crops"], "summary": "List crops"},
            "post": {"tags": ["Crops"], "summary": "Create a crop"}
        },
        "/crops/stats": {
            "get": {"tags": ["Crops"], "summary": "Crop statistics"}
        },
        "/crops/{id}": {
            "get": {"tags": ["Crops"], "summary": "Get a crop"},
            "put": {"tags": ["Crops"], "summary": "Update a crop"},
            "delete": {"tags": ["Crops"], "summary": "Delete a crop"}
        },
        "/profile/me": {
            "get": {"tags": ["Profile"], "summary": "Own profile"},
            "put": {"tags": ["Profile"], "summary": "Update own profile"}
        },
        "/profile/me/stats": {
            "get": {"tags": ["Profile"], "summary": "Own crop statistics"}
        },
        "/users": {
            "get": {"tags": ["Users"], "summary": "List users (admin)"},
            "post": {"tags": ["Users"], "summary": "Create a farmer (admin)"}
        },
        "/users/stats": {
            "get": {"tags": ["Users"], "summary": "User statistics (admin)"}
        },
        "/users/{id}": {
            "get": {"tags": ["Users"], "summary": "Get a user (admin)"},
            "put": {"tags": ["Users"], "summary": "Update a user (admin)"},
            "delete": {"tags": ["Users"], "summary": "Delete a user (admin)"}
        },
        "/dashboard/summary": {
            "get": {"tags": ["Dashboard"], "summary": "Dashboard totals and growth (admin)"}
        },
        "/dashboard/distribution": {
            "get": {"tags": ["Dashboard"], "summary": "Crop distribution (admin)"}
        },
        "/dashboard/activity": {
            "get": {"tags": ["Dashboard"], "summary": "Recent activity feed (admin)"}
        }
    }
}`

// SwaggerInfo holds exported Swagger Info so clients can modify it.
var SwaggerInfo = &swag.Spec{
	Version:          "1.0",
	Host:             "",
	BasePath:         "/api/v1",
	Schemes:          []string{},
	Title:            "Mazao ERP API",
	Description:      "CRUD backend for managing farmers and their crops. Authenticate via the session cookie set by /auth/login.",
	InfoInstanceName: "swagger",
	SwaggerTemplate:  docTemplate,
	LeftDelim:        "{{",
	RightDelim:       "}}",
}

func init() {
	swag.Register(SwaggerInfo.InstanceName(), SwaggerInfo)
}
