package swagger

import "github.com/swaggo/swag"

const docTemplate = `{
    "swagger": "2.0",
    "info": {
        "title": "Student Agreement API",
        "description": "Digital student agreement intake, admin review and approval",
        "version": "1.0.0"
    },
    "basePath": "/api/v1",
    "schemes": [
        "http"
    ],
    "tags": [
        {"name": "Submissions", "description": "Student agreement intake"},
        {"name": "Admin", "description": "Admin review and approval"}
    ],
    "paths": {
        "/submit": {
            "post": {
                "tags": ["Submissions"],
                "summary": "Submit a signed agreement",
                "parameters": [
                    {"name": "payload", "in": "body", "required": true, "schema": {"$ref": "#/definitions/SubmitRequest"}}
                ],
                "responses": {
                    "200": {"description": "Submission stored", "schema": {"$ref": "#/definitions/ResponseEnvelope"}},
                    "400": {"description": "Invalid payload", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        },
        "/admin/login": {
            "post": {
                "tags": ["Admin"],
                "summary": "Admin login",
                "parameters": [
                    {"name": "payload", "in": "body", "required": true, "schema": {"$ref": "#/definitions/LoginRequest"}}
                ],
                "responses": {
                    "200": {"description": "Session issued", "schema": {"$ref": "#/definitions/ResponseEnvelope"}},
                    "401": {"description": "Invalid password", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        },
        "/admin/logout": {
            "post": {
                "tags": ["Admin"],
                "summary": "Admin logout",
                "responses": {
                    "200": {"description": "Session cleared", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        },
        "/admin/submissions": {
            "get": {
                "tags": ["Admin"],
                "summary": "List submissions, newest first",
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}},
                    "401": {"description": "Session required", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        },
        "/admin/submissions/{id}": {
            "get": {
                "tags": ["Admin"],
                "summary": "Get one submission with signature payloads",
                "parameters": [
                    {"name": "id", "in": "path", "required": true, "type": "string"}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}},
                    "404": {"description": "Not found", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        },
        "/admin/submissions/{id}/approve": {
            "post": {
                "tags": ["Admin"],
                "summary": "Approve and countersign a submission",
                "parameters": [
                    {"name": "id", "in": "path", "required": true, "type": "string"},
                    {"name": "payload", "in": "body", "required": true, "schema": {"$ref": "#/definitions/ApproveRequest"}}
                ],
                "responses": {
                    "200": {"description": "Approved", "schema": {"$ref": "#/definitions/ResponseEnvelope"}},
                    "400": {"description": "Missing admin name or signature", "schema": {"$ref": "#/definitions/ResponseEnvelope"}},
                    "404": {"description": "Not found", "schema": {"$ref": "#/definitions/ResponseEnvelope"}},
                    "409": {"description": "Already approved", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        }
    },
    "definitions": {
        "SubmitRequest": {
            "type": "object",
            "properties": {
                "formData": {
                    "type": "object",
                    "additionalProperties": {"type": "string"}
                },
                "signatureDataUrl": {"type": "string"}
            },
            "required": ["formData", "signatureDataUrl"]
        },
        "LoginRequest": {
            "type": "object",
            "properties": {
                "password": {"type": "string"}
            },
            "required": ["password"]
        },
        "ApproveRequest": {
            "type": "object",
            "properties": {
                "adminData": {"$ref": "#/definitions/AdminData"},
                "adminSignatureDataUrl": {"type": "string"}
            },
            "required": ["adminData", "adminSignatureDataUrl"]
        },
        "AdminData": {
            "type": "object",
            "properties": {
                "adminName": {"type": "string"},
                "notes": {"type": "string"}
            },
            "required": ["adminName"]
        },
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
                "error": {"$ref": "#/definitions/APIError"}
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
