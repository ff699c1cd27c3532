// Package docs holds the OpenAPI document served under /docs.
// Regenerate with: swag init -g cmd/server/main.go -o docs
package docs

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
        "/api/users": {
            "get": {
                "produces": ["application/json"],
                "tags": ["users"],
                "summary": "List users",
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/common.Response"}},
                    "500": {"description": "Internal Server Error", "schema": {"$ref": "#/definitions/common.ProblemDetails"}}
                }
            },
            "post": {
                "description": "Create a user with a name and a unique email address",
                "consumes": ["application/json"],
                "produces": ["application/json"],
                "tags": ["users"],
                "summary": "Create a new user",
                "parameters": [
                    {"description": "User creation data", "name": "request", "in": "body", "required": true, "schema": {"$ref": "#/definitions/user.NewUser"}}
                ],
                "responses": {
                    "201": {"description": "Created", "schema": {"$ref": "#/definitions/common.Response"}},
                    "400": {"description": "Bad Request", "schema": {"$ref": "#/definitions/common.ProblemDetails"}},
                    "409": {"description": "Conflict", "schema": {"$ref": "#/definitions/common.ProblemDetails"}}
                }
            }
        },
        "/api/users/{id}": {
            "get": {
                "produces": ["application/json"],
                "tags": ["users"],
                "summary": "Get user by ID",
                "parameters": [
                    {"type": "integer", "description": "User ID", "name": "id", "in": "path", "required": true}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/common.Response"}},
                    "400": {"description": "Bad Request", "schema": {"$ref": "#/definitions/common.ProblemDetails"}},
                    "404": {"description": "Not Found", "schema": {"$ref": "#/definitions/common.ProblemDetails"}}
                }
            }
        },
        "/api/transactions": {
            "get": {
                "produces": ["application/json"],
                "tags": ["transactions"],
                "summary": "List transactions",
                "parameters": [
                    {"type": "integer", "description": "Only this user's transactions", "name": "user_id", "in": "query"}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/common.Response"}},
                    "400": {"description": "Bad Request", "schema": {"$ref": "#/definitions/common.ProblemDetails"}}
                }
            },
            "post": {
                "description": "Trades require asset_symbol, shares and price_at_trade. The amount is stored as given.",
                "consumes": ["application/json"],
                "produces": ["application/json"],
                "tags": ["transactions"],
                "summary": "Create a transaction",
                "parameters": [
                    {"description": "Transaction data", "name": "request", "in": "body", "required": true, "schema": {"$ref": "#/definitions/transaction.NewTransaction"}}
                ],
                "responses": {
                    "201": {"description": "Created", "schema": {"$ref": "#/definitions/common.Response"}},
                    "400": {"description": "Bad Request", "schema": {"$ref": "#/definitions/common.ProblemDetails"}},
                    "422": {"description": "Unprocessable Entity", "schema": {"$ref": "#/definitions/common.ProblemDetails"}}
                }
            }
        },
        "/api/transactions/{id}": {
            "get": {
                "produces": ["application/json"],
                "tags": ["transactions"],
                "summary": "Get transaction by ID",
                "parameters": [
                    {"type": "integer", "description": "Transaction ID", "name": "id", "in": "path", "required": true}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/common.Response"}},
                    "404": {"description": "Not Found", "schema": {"$ref": "#/definitions/common.ProblemDetails"}}
                }
            }
        },
        "/api/cashflow": {
            "get": {
                "produces": ["application/json"],
                "tags": ["analytics"],
                "summary": "Monthly cashflow",
                "parameters": [
                    {"type": "integer", "description": "User ID", "name": "user_id", "in": "query", "required": true}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/common.Response"}},
                    "404": {"description": "Not Found", "schema": {"$ref": "#/definitions/common.ProblemDetails"}}
                }
            }
        },
        "/api/portfolio/value": {
            "get": {
                "produces": ["application/json"],
                "tags": ["analytics"],
                "summary": "Portfolio value series",
                "parameters": [
                    {"type": "integer", "description": "User ID", "name": "user_id", "in": "query", "required": true},
                    {"type": "string", "description": "Last day of the series (YYYY-MM-DD), default today", "name": "as_of", "in": "query"}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/common.Response"}},
                    "404": {"description": "Not Found", "schema": {"$ref": "#/definitions/common.ProblemDetails"}}
                }
            }
        },
        "/api/networth": {
            "get": {
                "produces": ["application/json"],
                "tags": ["analytics"],
                "summary": "Net worth series",
                "parameters": [
                    {"type": "integer", "description": "User ID", "name": "user_id", "in": "query", "required": true},
                    {"type": "string", "description": "Last day of the series (YYYY-MM-DD), default today", "name": "as_of", "in": "query"}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/common.Response"}},
                    "404": {"description": "Not Found", "schema": {"$ref": "#/definitions/common.ProblemDetails"}}
                }
            }
        },
        "/api/allocation": {
            "get": {
                "produces": ["application/json"],
                "tags": ["analytics"],
                "summary": "Asset allocation",
                "parameters": [
                    {"type": "integer", "description": "User ID", "name": "user_id", "in": "query", "required": true},
                    {"type": "string", "description": "Valuation day (YYYY-MM-DD), default today", "name": "as_of", "in": "query"}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/common.Response"}},
                    "404": {"description": "Not Found", "schema": {"$ref": "#/definitions/common.ProblemDetails"}}
                }
            }
        },
        "/api/montecarlo": {
            "post": {
                "consumes": ["application/json"],
                "produces": ["application/json"],
                "tags": ["analytics"],
                "summary": "Monte Carlo projection",
                "parameters": [
                    {"description": "Simulation parameters", "name": "request", "in": "body", "required": true, "schema": {"$ref": "#/definitions/analytics.MonteCarloRequest"}}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/common.Response"}},
                    "400": {"description": "Bad Request", "schema": {"$ref": "#/definitions/common.ProblemDetails"}},
                    "404": {"description": "Not Found", "schema": {"$ref": "#/definitions/common.ProblemDetails"}}
                }
            }
        },
        "/api/demo/seed": {
            "post": {
                "produces": ["application/json"],
                "tags": ["demo"],
                "summary": "Seed demo data",
                "responses": {
                    "201": {"description": "Created", "schema": {"$ref": "#/definitions/common.Response"}}
                }
            }
        }
    },
    "definitions": {
        "common.Response": {
            "type": "object",
            "properties": {
                "status": {"type": "integer"},
                "message": {"type": "string"},
                "data": {}
            }
        },
        "common.ProblemDetails": {
            "type": "object",
            "properties": {
                "type": {"type": "string"},
                "title": {"type": "string"},
                "status": {"type": "integer"},
                "detail": {"type": "string"},
                "instance": {"type": "string"},
                "errors": {}
            }
        },
        "user.NewUser": {
            "type": "object",
            "required": ["name", "email"],
            "properties": {
                "name": {"type": "string", "maxLength": 100},
                "email": {"type": "string", "maxLength": 255}
            }
        },
        "transaction.NewTransaction": {
            "type": "object",
            "required": ["user_id", "date", "type", "amount"],
            "properties": {
                "user_id": {"type": "integer"},
                "date": {"type": "string", "example": "2025-01-31"},
                "type": {"type": "string", "enum": ["income", "expense", "trade"]},
                "category": {"type": "string", "maxLength": 50},
                "amount": {"type": "number"},
                "asset_symbol": {"type": "string", "maxLength": 20},
                "shares": {"type": "number"},
                "price_at_trade": {"type": "number"}
            }
        },
        "analytics.MonteCarloRequest": {
            "type": "object",
            "required": ["user_id"],
            "properties": {
                "user_id": {"type": "integer"},
                "initial_value": {"type": "number"},
                "expected_return": {"type": "number", "default": 0.07},
                "volatility": {"type": "number", "default": 0.15},
                "periods": {"type": "integer", "default": 120, "maximum": 600},
                "simulations": {"type": "integer", "default": 500, "maximum": 10000}
            }
        }
    }
}`

// SwaggerInfo holds exported Swagger Info so clients can modify it
var SwaggerInfo = &swag.Spec{
	Version:          "1.0",
	Host:             "",
	BasePath:         "/",
	Schemes:          []string{},
	Title:            "Finance Dashboard API",
	Description:      "Users, transactions and portfolio analytics.",
	InfoInstanceName: "swagger",
	SwaggerTemplate:  docTemplate,
	LeftDelim:        "{{",
	RightDelim:       "}}",
}

func init() {
	swag.Register(SwaggerInfo.InstanceName(), SwaggerInfo)
}
