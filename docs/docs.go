// Package docs registers the OpenAPI document served by gin-swagger.
// Regenerate with `swag init` after changing handler annotations.
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
        "/api/v1/identity-hub/auth/telegram": {
            "post": {
                "consumes": ["application/json"],
                "produces": ["application/json"],
                "tags": ["auth"],
                "summary": "Telegram mini-app login",
                "parameters": [{"name": "body", "in": "body", "required": true, "schema": {"$ref": "#/definitions/dto.TelegramAuthData"}}],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/vo.TelegramLoginResponse"}},
                    "400": {"description": "Malformed payload or phone number bound to another account", "schema": {"$ref": "#/definitions/vo.ErrorResponse"}},
                    "401": {"description": "Invalid or stale signature", "schema": {"$ref": "#/definitions/vo.ErrorResponse"}},
                    "500": {"description": "Internal Server Error", "schema": {"$ref": "#/definitions/vo.ErrorResponse"}}
                }
            }
        },
        "/api/v1/identity-hub/auth/register": {
            "post": {
                "consumes": ["application/json"],
                "produces": ["application/json"],
                "tags": ["auth"],
                "summary": "Register with email and password",
                "parameters": [{"name": "body", "in": "body", "required": true, "schema": {"$ref": "#/definitions/dto.RegisterData"}}],
                "responses": {
                    "201": {"description": "Created", "schema": {"$ref": "#/definitions/vo.LoginResponse"}},
                    "400": {"description": "Bad Request", "schema": {"$ref": "#/definitions/vo.ErrorResponse"}}
                }
            }
        },
        "/api/v1/identity-hub/auth/login": {
            "post": {
                "consumes": ["application/json"],
                "produces": ["application/json"],
                "tags": ["auth"],
                "summary": "Log in with email and password",
                "parameters": [{"name": "body", "in": "body", "required": true, "schema": {"$ref": "#/definitions/dto.LoginData"}}],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/vo.LoginResponse"}},
                    "401": {"description": "Unauthorized", "schema": {"$ref": "#/definitions/vo.ErrorResponse"}},
                    "429": {"description": "Too Many Requests", "schema": {"$ref": "#/definitions/vo.ErrorResponse"}}
                }
            }
        },
        "/api/v1/identity-hub/auth/verify": {
            "post": {
                "tags": ["auth"],
                "summary": "Verify an access token",
                "parameters": [{"name": "body", "in": "body", "required": true, "schema": {"$ref": "#/definitions/dto.VerifyData"}}],
                "responses": {"200": {"description": "OK"}, "401": {"description": "Unauthorized", "schema": {"$ref": "#/definitions/vo.ErrorResponse"}}}
            }
        },
        "/api/v1/identity-hub/auth/refresh": {
            "post": {
                "tags": ["auth"],
                "summary": "Refresh the token pair",
                "parameters": [{"name": "body", "in": "body", "schema": {"$ref": "#/definitions/dto.RefreshData"}}],
                "responses": {"200": {"description": "OK", "schema": {"$ref": "#/definitions/vo.TokenPair"}}, "401": {"description": "Unauthorized", "schema": {"$ref": "#/definitions/vo.ErrorResponse"}}}
            }
        },
        "/api/v1/identity-hub/auth/logout": {
            "post": {
                "tags": ["auth"],
                "summary": "Log out",
                "parameters": [{"name": "body", "in": "body", "schema": {"$ref": "#/definitions/dto.RefreshData"}}],
                "responses": {"200": {"description": "OK"}}
            }
        },
        "/api/v1/identity-hub/profile": {
            "get": {"security": [{"BearerAuth": []}], "tags": ["profile"], "summary": "Get my profile", "responses": {"200": {"description": "OK", "schema": {"$ref": "#/definitions/vo.IdentityProfile"}}}},
            "patch": {"security": [{"BearerAuth": []}], "tags": ["profile"], "summary": "Update my profile", "responses": {"200": {"description": "OK", "schema": {"$ref": "#/definitions/vo.IdentityProfile"}}}},
            "delete": {"security": [{"BearerAuth": []}], "tags": ["profile"], "summary": "Delete my account", "responses": {"200": {"description": "OK"}}}
        },
        "/api/v1/identity-hub/profile/change-password": {
            "post": {"security": [{"BearerAuth": []}], "tags": ["profile"], "summary": "Change my password", "responses": {"200": {"description": "OK"}}}
        },
        "/api/v1/identity-hub/profile/login-history": {
            "get": {"security": [{"BearerAuth": []}], "tags": ["profile"], "summary": "My login history", "responses": {"200": {"description": "OK"}}}
        }
    },
    "definitions": {
        "dto.TelegramAuthData": {
            "type": "object",
            "required": ["id", "phone_number", "auth_date", "hash"],
            "properties": {
                "id": {"type": "integer", "example": 123456789},
                "first_name": {"type": "string", "example": "Ali"},
                "last_name": {"type": "string"},
                "username": {"type": "string", "example": "ali_b"},
                "photo_url": {"type": "string"},
                "phone_number": {"type": "string", "example": "998901234567"},
                "auth_date": {"type": "integer", "example": 1717000000},
                "hash": {"type": "string"}
            }
        },
        "dto.RegisterData": {
            "type": "object",
            "required": ["name", "email", "password"],
            "properties": {
                "name": {"type": "string"},
                "email": {"type": "string"},
                "phone_number": {"type": "string"},
                "role": {"type": "string", "enum": ["seller", "client"]},
                "password": {"type": "string"}
            }
        },
        "dto.LoginData": {
            "type": "object",
            "required": ["email", "password"],
            "properties": {"email": {"type": "string"}, "password": {"type": "string"}}
        },
        "dto.VerifyData": {"type": "object", "required": ["token"], "properties": {"token": {"type": "string"}}},
        "dto.RefreshData": {"type": "object", "properties": {"refresh": {"type": "string"}}},
        "vo.TokenPair": {"type": "object", "properties": {"access": {"type": "string"}, "refresh": {"type": "string"}}},
        "vo.ErrorResponse": {"type": "object", "properties": {"error": {"type": "string"}, "details": {"type": "string"}}},
        "vo.IdentityProfile": {
            "type": "object",
            "properties": {
                "id": {"type": "string"},
                "name": {"type": "string"},
                "username": {"type": "string"},
                "phone_number": {"type": "string"},
                "email": {"type": "string"},
                "photo": {"type": "string"},
                "role": {"type": "string"},
                "is_active": {"type": "boolean"},
                "last_login_at": {"type": "string"},
                "created_at": {"type": "string"}
            }
        },
        "vo.TelegramLoginResponse": {
            "type": "object",
            "properties": {
                "success": {"type": "boolean"},
                "created": {"type": "boolean"},
                "user": {"$ref": "#/definitions/vo.IdentityProfile"},
                "tokens": {"$ref": "#/definitions/vo.TokenPair"}
            }
        },
        "vo.LoginResponse": {
            "type": "object",
            "properties": {
                "success": {"type": "boolean"},
                "user": {"$ref": "#/definitions/vo.IdentityProfile"},
                "tokens": {"$ref": "#/definitions/vo.TokenPair"}
            }
        }
    },
    "securityDefinitions": {
        "BearerAuth": {"type": "apiKey", "name": "Authorization", "in": "header"}
    }
}`

// SwaggerInfo holds exported Swagger Info so clients can modify it
var SwaggerInfo = &swag.Spec{
	Version:          "1.0",
	Host:             "localhost:8081",
	BasePath:         "",
	Schemes:          []string{"http", "https"},
	Title:            "Identity Hub API",
	Description:      "Telegram mini-app and email/password login, session issuance and self-service profile.",
	InfoInstanceName: "swagger",
	SwaggerTemplate:  docTemplate,
	LeftDelim:        "{{",
	RightDelim:       "}}",
}

func init() {
	swag.Register(SwaggerInfo.InstanceName(), SwaggerInfo)
}
