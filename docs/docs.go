// Package docs registers the OpenAPI document served at /swagger/. Regenerate with swag init -g cmd/eventreg/main.go.
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
        "/health": {
            "get": {
                "produces": ["application/json"],
                "tags": ["health"],
                "summary": "Liveness and database check",
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/controllers.HealthResponse"}},
                    "503": {"description": "database unreachable", "schema": {"$ref": "#/definitions/helpers.APIError"}}
                }
            }
        },
        "/events/{eventID}/pricing": {
            "get": {
                "produces": ["application/json"],
                "tags": ["registrations"],
                "summary": "List pricing options",
                "parameters": [{"type": "string", "description": "Event ID", "name": "eventID", "in": "path", "required": true}],
                "responses": {
                    "200": {"description": "OK", "schema": {"type": "array", "items": {"$ref": "#/definitions/controllers.PricingOptionResponse"}}},
                    "404": {"description": "not_found", "schema": {"$ref": "#/definitions/helpers.APIError"}}
                }
            }
        },
        "/events/{eventID}/registrations": {
            "post": {
                "consumes": ["application/json"],
                "produces": ["application/json"],
                "tags": ["registrations"],
                "summary": "Register for an event",
                "parameters": [
                    {"type": "string", "description": "Event ID", "name": "eventID", "in": "path", "required": true},
                    {"description": "Registration form", "name": "body", "in": "body", "required": true, "schema": {"$ref": "#/definitions/controllers.CreateRegistrationRequest"}}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/controllers.CreateRegistrationResponse"}},
                    "400": {"description": "validation_error, registration_closed or pricing_not_found", "schema": {"$ref": "#/definitions/helpers.APIError"}},
                    "404": {"description": "not_found", "schema": {"$ref": "#/definitions/helpers.APIError"}},
                    "409": {"description": "duplicate_registration", "schema": {"$ref": "#/definitions/helpers.APIError"}},
                    "429": {"description": "rate_limited", "schema": {"$ref": "#/definitions/helpers.APIError"}},
                    "500": {"description": "payment_init_failed or internal_error", "schema": {"$ref": "#/definitions/helpers.APIError"}}
                }
            }
        },
        "/payments/verify": {
            "get": {
                "produces": ["application/json"],
                "tags": ["payments"],
                "summary": "Verify a payment from the gateway redirect",
                "parameters": [{"type": "string", "description": "Payment reference", "name": "reference", "in": "query", "required": true}],
                "responses": {
                    "200": {"description": "payment completed", "schema": {"$ref": "#/definitions/controllers.VerifyPaymentResponse"}},
                    "202": {"description": "gateway has not settled yet", "schema": {"$ref": "#/definitions/controllers.VerifyPaymentResponse"}},
                    "400": {"description": "payment failed", "schema": {"$ref": "#/definitions/controllers.VerifyPaymentResponse"}},
                    "404": {"description": "not_found", "schema": {"$ref": "#/definitions/helpers.APIError"}},
                    "503": {"description": "gateway_unavailable", "schema": {"$ref": "#/definitions/helpers.APIError"}}
                }
            },
            "post": {
                "consumes": ["application/json"],
                "produces": ["application/json"],
                "tags": ["payments"],
                "summary": "Verify a payment",
                "parameters": [{"description": "Payment reference", "name": "body", "in": "body", "required": true, "schema": {"$ref": "#/definitions/controllers.VerifyPaymentRequest"}}],
                "responses": {
                    "200": {"description": "payment completed", "schema": {"$ref": "#/definitions/controllers.VerifyPaymentResponse"}},
                    "202": {"description": "gateway has not settled yet", "schema": {"$ref": "#/definitions/controllers.VerifyPaymentResponse"}},
                    "400": {"description": "payment failed", "schema": {"$ref": "#/definitions/controllers.VerifyPaymentResponse"}},
                    "404": {"description": "not_found", "schema": {"$ref": "#/definitions/helpers.APIError"}},
                    "503": {"description": "gateway_unavailable", "schema": {"$ref": "#/definitions/helpers.APIError"}}
                }
            }
        },
        "/payments/webhook": {
            "post": {
                "consumes": ["application/json"],
                "produces": ["application/json"],
                "tags": ["payments"],
                "summary": "Gateway webhook",
                "parameters": [{"type": "string", "description": "HMAC-SHA512 of the raw body", "name": "x-paystack-signature", "in": "header", "required": true}],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/controllers.WebhookResponse"}},
                    "401": {"description": "unauthorized", "schema": {"$ref": "#/definitions/helpers.APIError"}},
                    "503": {"description": "gateway_unavailable", "schema": {"$ref": "#/definitions/helpers.APIError"}}
                }
            }
        },
        "/admin/login": {
            "post": {
                "consumes": ["application/json"],
                "produces": ["application/json"],
                "tags": ["admin"],
                "summary": "Admin login",
                "parameters": [{"description": "Credentials", "name": "body", "in": "body", "required": true, "schema": {"$ref": "#/definitions/controllers.LoginRequest"}}],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/controllers.LoginResponse"}},
                    "401": {"description": "unauthorized", "schema": {"$ref": "#/definitions/helpers.APIError"}}
                }
            }
        },
        "/admin/events/{eventID}/registrations": {
            "get": {
                "security": [{"BearerAuth": []}],
                "produces": ["application/json"],
                "tags": ["admin"],
                "summary": "List registrations for an event",
                "parameters": [
                    {"type": "string", "description": "Event ID", "name": "eventID", "in": "path", "required": true},
                    {"type": "string", "description": "pending, completed or failed", "name": "status", "in": "query"},
                    {"type": "integer", "description": "Page (default 1)", "name": "page", "in": "query"},
                    {"type": "integer", "description": "Page size (default 20, max 100)", "name": "page_size", "in": "query"}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/controllers.ListRegistrationsResponse"}},
                    "401": {"description": "unauthorized", "schema": {"$ref": "#/definitions/helpers.APIError"}}
                }
            }
        },
        "/admin/checkin": {
            "post": {
                "security": [{"BearerAuth": []}],
                "consumes": ["application/json"],
                "produces": ["application/json"],
                "tags": ["admin"],
                "summary": "Check in by QR code",
                "parameters": [{"description": "Scanned QR content", "name": "body", "in": "body", "required": true, "schema": {"$ref": "#/definitions/controllers.CheckInRequest"}}],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/controllers.RegistrationResponse"}},
                    "404": {"description": "not_found", "schema": {"$ref": "#/definitions/helpers.APIError"}},
                    "409": {"description": "conflict", "schema": {"$ref": "#/definitions/helpers.APIError"}}
                }
            }
        }
    },
    "definitions": {
        "helpers.APIError": {
            "type": "object",
            "properties": {
                "code": {"type": "string"},
                "details": {"type": "array", "items": {"type": "string"}},
                "error": {"type": "string"}
            }
        },
        "helpers.PaginationMeta": {
            "type": "object",
            "properties": {
                "page": {"type": "integer"},
                "page_size": {"type": "integer"},
                "total": {"type": "integer"},
                "total_pages": {"type": "integer"}
            }
        },
        "controllers.HealthResponse": {
            "type": "object",
            "properties": {"status": {"type": "string"}}
        },
        "controllers.PricingOptionResponse": {
            "type": "object",
            "properties": {
                "id": {"type": "string"},
                "participation_type": {"type": "string"},
                "price": {"type": "number"},
                "display_order": {"type": "integer"}
            }
        },
        "controllers.CreateRegistrationRequest": {
            "type": "object",
            "properties": {
                "full_name": {"type": "string"},
                "organization": {"type": "string"},
                "designation": {"type": "string"},
                "email": {"type": "string"},
                "phone": {"type": "string"},
                "participation_type": {"type": "string"},
                "participation_type_other": {"type": "string"},
                "interest_areas": {"type": "array", "items": {"type": "string"}},
                "interest_areas_other": {"type": "string"}
            }
        },
        "controllers.CreateRegistrationResponse": {
            "type": "object",
            "properties": {
                "registrationId": {"type": "string"},
                "paymentUrl": {"type": "string"},
                "amount": {"type": "number"},
                "reference": {"type": "string"}
            }
        },
        "controllers.VerifyPaymentRequest": {
            "type": "object",
            "properties": {"reference": {"type": "string"}}
        },
        "controllers.VerifyPaymentResponse": {
            "type": "object",
            "properties": {
                "success": {"type": "boolean"},
                "status": {"type": "string"},
                "registration": {"$ref": "#/definitions/controllers.RegistrationResponse"},
                "event": {"type": "object"},
                "qrCodeUrl": {"type": "string"},
                "error": {"type": "string"}
            }
        },
        "controllers.WebhookResponse": {
            "type": "object",
            "properties": {"status": {"type": "string"}}
        },
        "controllers.LoginRequest": {
            "type": "object",
            "properties": {"email": {"type": "string"}, "password": {"type": "string"}}
        },
        "controllers.LoginResponse": {
            "type": "object",
            "properties": {"token": {"type": "string"}, "token_type": {"type": "string"}}
        },
        "controllers.CheckInRequest": {
            "type": "object",
            "properties": {"qr_data": {"type": "string"}}
        },
        "controllers.ListRegistrationsResponse": {
            "type": "object",
            "properties": {
                "items": {"type": "array", "items": {"$ref": "#/definitions/controllers.RegistrationResponse"}},
                "meta": {"$ref": "#/definitions/helpers.PaginationMeta"}
            }
        },
        "controllers.RegistrationResponse": {
            "type": "object",
            "properties": {
                "id": {"type": "string"},
                "event_id": {"type": "string"},
                "full_name": {"type": "string"},
                "email": {"type": "string"},
                "phone": {"type": "string"},
                "participation_type": {"type": "string"},
                "interest_areas": {"type": "array", "items": {"type": "string"}},
                "price_amount": {"type": "number"},
                "payment_status": {"type": "string"},
                "payment_reference": {"type": "string"},
                "payment_date": {"type": "string"},
                "qr_code_url": {"type": "string"},
                "email_sent": {"type": "boolean"},
                "checked_in_at": {"type": "string"},
                "created_at": {"type": "string"}
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
	Host:             "",
	BasePath:         "/",
	Schemes:          []string{},
	Title:            "Event Registration API",
	Description:      "Event registration with hosted payment, idempotent verification and QR check-in.",
	InfoInstanceName: "swagger",
	SwaggerTemplate:  docTemplate,
	LeftDelim:        "{{",
	RightDelim:       "}}",
}

func init() {
	swag.Register(SwaggerInfo.InstanceName(), SwaggerInfo)
}
