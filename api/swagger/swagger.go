package swagger

import "github.com/swaggo/swag"

const docTemplate = `{
    "swagger": "2.0",
    "info": {
        "title": "Inventory & Orders Allocation API",
        "description": "Inventory-to-order allocation tracker with shipment milestones and customer notifications",
        "version": "1.0.0"
    },
    "basePath": "/",
    "schemes": [
        "http"
    ],
    "tags": [
        {"name": "Inventory", "description": "Inventory lots and exports"},
        {"name": "Orders", "description": "Sales-order reference data"},
        {"name": "Allocations", "description": "Allocation lifecycle, milestones and notifications"},
        {"name": "Tracking", "description": "Public tracking surface"},
        {"name": "Dashboard", "description": "Operator aggregates"}
    ],
    "paths": {
        "/health": {
            "get": {
                "summary": "Health check",
                "responses": {
                    "200": {"description": "OK"}
                }
            }
        },
        "/ready": {
            "get": {
                "summary": "Readiness check",
                "responses": {
                    "200": {"description": "Ready"}
                }
            }
        },
        "/track/{token}": {
            "get": {
                "tags": ["Tracking"],
                "summary": "Public tracking view for one allocation",
                "parameters": [
                    {"name": "token", "in": "path", "required": true, "type": "string"}
                ],
                "responses": {
                    "200": {"description": "Tracking view (demo fallback for unknown tokens)"}
                }
            }
        },
        "/api/v1/inventory": {
            "get": {
                "tags": ["Inventory"],
                "summary": "List inventory lots",
                "parameters": [
                    {"name": "search", "in": "query", "type": "string"},
                    {"name": "includeClosed", "in": "query", "type": "boolean"}
                ],
                "responses": {
                    "200": {"description": "Lot list"}
                }
            }
        },
        "/api/v1/inventory/export": {
            "get": {
                "tags": ["Inventory"],
                "summary": "Export active inventory",
                "parameters": [
                    {"name": "format", "in": "query", "type": "string", "enum": ["csv", "xlsx", "pdf"]}
                ],
                "responses": {
                    "200": {"description": "Export file"}
                }
            }
        },
        "/api/v1/orders": {
            "get": {
                "tags": ["Orders"],
                "summary": "List sales orders with assigned box counts",
                "responses": {
                    "200": {"description": "Order list"}
                }
            }
        },
        "/api/v1/allocations": {
            "get": {
                "tags": ["Allocations"],
                "summary": "List allocations, newest first",
                "responses": {
                    "200": {"description": "Allocation list"}
                }
            },
            "post": {
                "tags": ["Allocations"],
                "summary": "Create an ORDER or SPOT allocation",
                "responses": {
                    "201": {"description": "Created"},
                    "400": {"description": "Validation failure"},
                    "404": {"description": "Sales order not found"},
                    "409": {"description": "Insufficient stock"}
                }
            }
        },
        "/api/v1/allocations/{id}": {
            "get": {
                "tags": ["Allocations"],
                "summary": "Get one allocation",
                "parameters": [
                    {"name": "id", "in": "path", "required": true, "type": "string"}
                ],
                "responses": {
                    "200": {"description": "Allocation"},
                    "404": {"description": "Not found"}
                }
            },
            "delete": {
                "tags": ["Allocations"],
                "summary": "Cancel an allocation",
                "parameters": [
                    {"name": "id", "in": "path", "required": true, "type": "string"}
                ],
                "responses": {
                    "204": {"description": "Cancelled (idempotent)"},
                    "404": {"description": "Not found"}
                }
            }
        },
        "/api/v1/allocations/{id}/milestone": {
            "put": {
                "tags": ["Allocations"],
                "summary": "Set the shipment milestone",
                "parameters": [
                    {"name": "id", "in": "path", "required": true, "type": "string"}
                ],
                "responses": {
                    "200": {"description": "Updated allocation"},
                    "404": {"description": "Not found"}
                }
            }
        },
        "/api/v1/allocations/{id}/notify-rule": {
            "put": {
                "tags": ["Allocations"],
                "summary": "Update the notification policy",
                "parameters": [
                    {"name": "id", "in": "path", "required": true, "type": "string"}
                ],
                "responses": {
                    "200": {"description": "Updated allocation"},
                    "404": {"description": "Not found"}
                }
            }
        },
        "/api/v1/allocations/{id}/notify": {
            "post": {
                "tags": ["Allocations"],
                "summary": "Send the current status notification now",
                "parameters": [
                    {"name": "id", "in": "path", "required": true, "type": "string"}
                ],
                "responses": {
                    "200": {"description": "Dispatch result"},
                    "404": {"description": "Not found"}
                }
            }
        },
        "/api/v1/dashboard": {
            "get": {
                "tags": ["Dashboard"],
                "summary": "Inventory and allocation aggregates",
                "responses": {
                    "200": {"description": "Dashboard payload"}
                }
            }
        }
    },
    "definitions": {
        "APIError": {
            "type": "object",
            "properties": {
                "code": {"type": "string"},
                "message": {"type": "string"},
                "status": {"type": "integer"}
            }
        },
        "ResponseEnvelope": {
            "type": "object",
            "properties": {
                "data": {"type": "object"},
                "error": {"$ref": "#/definitions/APIError"},
                "meta": {"type": "object"}
            }
        }
    }
}`

type swaggerDoc struct{}

// ReadDoc returns the Swagger document.
func (s *swaggerDoc) ReadDoc() string {
	return docTemplate
}

func init() {
	swag.Register(swag.Name, &swaggerDoc{})
}
