// Package docs is the swagger document served at /swagger. Regenerate with
// `go generate ./cmd/server` after changing handler annotations.
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
        "/api/v1/predict": {
            "post": {
                "consumes": ["application/json"],
                "produces": ["application/json"],
                "tags": ["predict"],
                "summary": "Score one loan application",
                "responses": {
                    "200": {"description": "OK"},
                    "400": {"description": "Bad Request"},
                    "503": {"description": "Service Unavailable"}
                }
            }
        },
        "/api/v1/predict/batch": {
            "post": {
                "consumes": ["application/json"],
                "produces": ["application/json"],
                "tags": ["predict"],
                "summary": "Score a batch of loan applications",
                "responses": {
                    "200": {"description": "OK"},
                    "400": {"description": "Bad Request"},
                    "503": {"description": "Service Unavailable"}
                }
            }
        },
        "/api/v1/predictions": {
            "get": {
                "produces": ["application/json"],
                "tags": ["ledger"],
                "summary": "List recent predictions",
                "responses": {"200": {"description": "OK"}}
            }
        },
        "/api/v1/alerts": {
            "get": {
                "produces": ["application/json"],
                "tags": ["ledger"],
                "summary": "List recent risk alerts",
                "responses": {"200": {"description": "OK"}}
            }
        },
        "/api/v1/stats": {
            "get": {
                "produces": ["application/json"],
                "tags": ["stats"],
                "summary": "Ledger aggregate stats",
                "responses": {"200": {"description": "OK"}}
            }
        },
        "/api/v1/stats/daily": {
            "get": {
                "produces": ["application/json"],
                "tags": ["stats"],
                "summary": "Per-day prediction snapshots",
                "responses": {"200": {"description": "OK"}}
            }
        },
        "/api/v1/admin/model": {
            "get": {
                "produces": ["application/json"],
                "tags": ["admin"],
                "summary": "Current scoring model status",
                "responses": {"200": {"description": "OK"}}
            }
        },
        "/api/v1/admin/model/reload": {
            "post": {
                "produces": ["application/json"],
                "tags": ["admin"],
                "summary": "Reload the scoring model from disk",
                "responses": {
                    "200": {"description": "OK"},
                    "502": {"description": "Bad Gateway"}
                }
            }
        },
        "/healthz": {
            "get": {
                "tags": ["health"],
                "summary": "Health check",
                "responses": {"200": {"description": "OK"}}
            }
        },
        "/readyz": {
            "get": {
                "tags": ["health"],
                "summary": "Readiness check",
                "responses": {"200": {"description": "OK"}}
            }
        }
    }
}`

var SwaggerInfo = &swag.Spec{
	Version:          "0.1.0",
	Host:             "localhost:8080",
	BasePath:         "/",
	Schemes:          []string{"http"},
	Title:            "Loan Default Risk API",
	Description:      "Loan application scoring, lending decisions, and the prediction ledger.",
	InfoInstanceName: "swagger",
	SwaggerTemplate:  docTemplate,
}

func init() {
	swag.Register(SwaggerInfo.InstanceName(), SwaggerInfo)
}
