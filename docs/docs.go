// Package docs registers the budgetbuddy OpenAPI description with swag.
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
        "/auth/register": {
            "post": {
                "consumes": ["application/json"],
                "produces": ["application/json"],
                "tags": ["auth"],
                "summary": "Register a student account",
                "parameters": [
                    {"description": "Account details", "name": "request", "in": "body", "required": true, "schema": {"$ref": "#/definitions/handler.RegisterRequest"}}
                ],
                "responses": {
                    "201": {"description": "Created", "schema": {"$ref": "#/definitions/handler.Response"}},
                    "400": {"description": "Invalid request", "schema": {"$ref": "#/definitions/handler.ErrorResponseBody"}},
                    "409": {"description": "Email already registered", "schema": {"$ref": "#/definitions/handler.ErrorResponseBody"}}
                }
            }
        },
        "/auth/login": {
            "post": {
                "consumes": ["application/json"],
                "produces": ["application/json"],
                "tags": ["auth"],
                "summary": "Log in",
                "parameters": [
                    {"description": "Credentials", "name": "request", "in": "body", "required": true, "schema": {"$ref": "#/definitions/handler.LoginRequest"}}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/handler.Response"}},
                    "401": {"description": "Invalid credentials", "schema": {"$ref": "#/definitions/handler.ErrorResponseBody"}}
                }
            }
        },
        "/auth/refresh": {
            "post": {
                "consumes": ["application/json"],
                "produces": ["application/json"],
                "tags": ["auth"],
                "summary": "Refresh tokens",
                "parameters": [
                    {"description": "Refresh token", "name": "request", "in": "body", "required": true, "schema": {"$ref": "#/definitions/handler.RefreshRequest"}}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/handler.Response"}},
                    "401": {"description": "Invalid refresh token", "schema": {"$ref": "#/definitions/handler.ErrorResponseBody"}}
                }
            }
        },
        "/chat/turns": {
            "post": {
                "security": [{"BearerAuth": []}],
                "description": "Extracts an expense from free text. Returns either a complete expense or one follow-up question.",
                "consumes": ["application/json"],
                "produces": ["application/json"],
                "tags": ["chat"],
                "summary": "Start or continue describing an expense",
                "parameters": [
                    {"description": "User message", "name": "request", "in": "body", "required": true, "schema": {"$ref": "#/definitions/handler.ChatTurnRequest"}}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/handler.Response"}},
                    "400": {"description": "Invalid request", "schema": {"$ref": "#/definitions/handler.ErrorResponseBody"}},
                    "401": {"description": "Unauthorized", "schema": {"$ref": "#/definitions/handler.ErrorResponseBody"}}
                }
            }
        },
        "/chat/turns/continue": {
            "post": {
                "security": [{"BearerAuth": []}],
                "description": "Merges the answer into the pending expense carried in context.",
                "consumes": ["application/json"],
                "produces": ["application/json"],
                "tags": ["chat"],
                "summary": "Answer the last follow-up question",
                "parameters": [
                    {"description": "Answer plus the previous next_context", "name": "request", "in": "body", "required": true, "schema": {"$ref": "#/definitions/handler.ChatTurnRequest"}}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/handler.Response"}},
                    "400": {"description": "Invalid request", "schema": {"$ref": "#/definitions/handler.ErrorResponseBody"}},
                    "401": {"description": "Unauthorized", "schema": {"$ref": "#/definitions/handler.ErrorResponseBody"}}
                }
            }
        },
        "/expenses": {
            "get": {
                "security": [{"BearerAuth": []}],
                "produces": ["application/json"],
                "tags": ["expenses"],
                "summary": "List expenses",
                "parameters": [
                    {"type": "string", "description": "Earliest date (YYYY-MM-DD)", "name": "from", "in": "query"},
                    {"type": "string", "description": "Latest date (YYYY-MM-DD)", "name": "to", "in": "query"},
                    {"type": "string", "description": "Category", "name": "category", "in": "query"},
                    {"type": "integer", "default": 0, "description": "Offset", "name": "offset", "in": "query"},
                    {"type": "integer", "default": 20, "description": "Limit", "name": "limit", "in": "query"}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/handler.Response"}},
                    "400": {"description": "Invalid filter", "schema": {"$ref": "#/definitions/handler.ErrorResponseBody"}}
                }
            },
            "post": {
                "security": [{"BearerAuth": []}],
                "consumes": ["application/json"],
                "produces": ["application/json"],
                "tags": ["expenses"],
                "summary": "Record an expense manually",
                "parameters": [
                    {"description": "Expense", "name": "request", "in": "body", "required": true, "schema": {"$ref": "#/definitions/handler.CreateExpenseRequest"}}
                ],
                "responses": {
                    "201": {"description": "Created", "schema": {"$ref": "#/definitions/handler.Response"}},
                    "400": {"description": "Invalid request", "schema": {"$ref": "#/definitions/handler.ErrorResponseBody"}}
                }
            }
        },
        "/expenses/summary": {
            "get": {
                "security": [{"BearerAuth": []}],
                "produces": ["application/json"],
                "tags": ["expenses"],
                "summary": "Spending totals by category",
                "parameters": [
                    {"type": "string", "description": "Earliest date (YYYY-MM-DD)", "name": "from", "in": "query"},
                    {"type": "string", "description": "Latest date (YYYY-MM-DD)", "name": "to", "in": "query"}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/handler.Response"}}
                }
            }
        },
        "/expenses/export": {
            "get": {
                "security": [{"BearerAuth": []}],
                "produces": ["text/csv", "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"],
                "tags": ["expenses"],
                "summary": "Download expenses as CSV or XLSX",
                "parameters": [
                    {"type": "string", "default": "csv", "description": "csv or xlsx", "name": "format", "in": "query"}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"type": "file"}},
                    "400": {"description": "Invalid format or filter", "schema": {"$ref": "#/definitions/handler.ErrorResponseBody"}}
                }
            }
        },
        "/expenses/export/link": {
            "post": {
                "security": [{"BearerAuth": []}],
                "produces": ["application/json"],
                "tags": ["expenses"],
                "summary": "Upload an export and return a temporary download link",
                "parameters": [
                    {"type": "string", "default": "csv", "description": "csv or xlsx", "name": "format", "in": "query"}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/handler.Response"}},
                    "503": {"description": "Export storage disabled", "schema": {"$ref": "#/definitions/handler.ErrorResponseBody"}}
                }
            }
        },
        "/expenses/{id}": {
            "get": {
                "security": [{"BearerAuth": []}],
                "produces": ["application/json"],
                "tags": ["expenses"],
                "summary": "Get an expense",
                "parameters": [
                    {"type": "string", "description": "Expense ID (UUID)", "name": "id", "in": "path", "required": true}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/handler.Response"}},
                    "404": {"description": "Expense not found", "schema": {"$ref": "#/definitions/handler.ErrorResponseBody"}}
                }
            },
            "delete": {
                "security": [{"BearerAuth": []}],
                "produces": ["application/json"],
                "tags": ["expenses"],
                "summary": "Delete an expense",
                "parameters": [
                    {"type": "string", "description": "Expense ID (UUID)", "name": "id", "in": "path", "required": true}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/handler.Response"}},
                    "404": {"description": "Expense not found", "schema": {"$ref": "#/definitions/handler.ErrorResponseBody"}}
                }
            }
        }
    },
    "definitions": {
        "handler.APIError": {
            "type": "object",
            "properties": {
                "code": {"type": "string"},
                "message": {"type": "string"}
            }
        },
        "handler.ChatTurnRequest": {
            "type": "object",
            "properties": {
                "text": {"type": "string", "example": "I spent $10.88 on a sandwich at Subway today"},
                "context": {"type": "object"},
                "current_date": {"type": "string", "example": "2024-03-15"},
                "auto_save": {"type": "boolean"}
            }
        },
        "handler.CreateExpenseRequest": {
            "type": "object",
            "required": ["amount", "category", "description"],
            "properties": {
                "amount": {"type": "number", "example": 10.88},
                "category": {"type": "string", "example": "Food & Dining"},
                "date": {"type": "string", "example": "2024-03-15"},
                "description": {"type": "string", "example": "Sandwich at Subway"},
                "vendor": {"type": "string", "example": "Subway"}
            }
        },
        "handler.ErrorResponseBody": {
            "type": "object",
            "properties": {
                "error": {"$ref": "#/definitions/handler.APIError"},
                "success": {"type": "boolean", "example": false}
            }
        },
        "handler.LoginRequest": {
            "type": "object",
            "required": ["email", "password"],
            "properties": {
                "email": {"type": "string", "example": "alex@campus.edu"},
                "password": {"type": "string", "example": "securepassword123"}
            }
        },
        "handler.RefreshRequest": {
            "type": "object",
            "required": ["refresh_token"],
            "properties": {
                "refresh_token": {"type": "string"}
            }
        },
        "handler.RegisterRequest": {
            "type": "object",
            "required": ["email", "full_name", "password"],
            "properties": {
                "email": {"type": "string", "example": "alex@campus.edu"},
                "full_name": {"type": "string", "example": "Alex Doe"},
                "password": {"type": "string", "example": "securepassword123"}
            }
        },
        "handler.Response": {
            "type": "object",
            "properties": {
                "data": {},
                "success": {"type": "boolean", "example": true}
            }
        }
    },
    "securityDefinitions": {
        "BearerAuth": {
            "type": "apiKey",
            "name": "Authorization",
            "in": "header"
        }
    }
}`

// SwaggerInfo holds exported Swagger Info so clients can modify it
var SwaggerInfo = &swag.Spec{
	Version:          "1.0",
	Host:             "",
	BasePath:         "/api/v1",
	Schemes:          []string{},
	Title:            "budgetbuddy API",
	Description:      "Conversational expense tracking for students.",
	InfoInstanceName: "swagger",
	SwaggerTemplate:  docTemplate,
	LeftDelim:        "{{",
	RightDelim:       "}}",
}

func init() {
	swag.Register(SwaggerInfo.InstanceName(), SwaggerInfo)
}
