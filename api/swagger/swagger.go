package swagger

import "github.com/swaggo/swag"

const docTemplate = `{
    "swagger": "2.0",
    "info": {
        "title": "CCAP Synod API",
        "description": "Remote service consumed by the synod admin sync client",
        "version": "1.0.0"
    },
    "basePath": "/api",
    "schemes": [
        "http"
    ],
    "tags": [
        {"name": "Authentication", "description": "Self-registration and login"},
        {"name": "Users", "description": "Account approval lifecycle"},
        {"name": "Announcements", "description": "Departmental announcements"},
        {"name": "Locations", "description": "Church locations per district"}
    ],
    "paths": {
        "/register": {
            "post": {
                "tags": ["Authentication"],
                "summary": "Self-register",
                "description": "Creates a pending account. Status in the payload is ignored.",
                "parameters": [
                    {"name": "payload", "in": "body", "required": true, "schema": {"$ref": "#/definitions/RegisterRequest"}}
                ],
                "responses": {
                    "200": {"description": "Registered", "schema": {"$ref": "#/definitions/Ack"}},
                    "400": {"description": "Invalid payload", "schema": {"$ref": "#/definitions/ErrorBody"}},
                    "409": {"description": "DUPLICATE_EMAIL", "schema": {"$ref": "#/definitions/ErrorBody"}}
                }
            }
        },
        "/login": {
            "post": {
                "tags": ["Authentication"],
                "summary": "Authenticate account",
                "parameters": [
                    {"name": "payload", "in": "body", "required": true, "schema": {"$ref": "#/definitions/LoginRequest"}}
                ],
                "responses": {
                    "200": {"description": "Authenticated", "schema": {"$ref": "#/definitions/LoginResponse"}},
                    "401": {"description": "INVALID_CREDENTIALS", "schema": {"$ref": "#/definitions/ErrorBody"}},
                    "403": {"description": "ACCOUNT_PENDING or ACCOUNT_REJECTED", "schema": {"$ref": "#/definitions/ErrorBody"}}
                }
            }
        },
        "/users": {
            "get": {
                "tags": ["Users"],
                "summary": "List accounts",
                "responses": {
                    "200": {"description": "Accounts without passwords", "schema": {"type": "array", "items": {"$ref": "#/definitions/User"}}}
                }
            }
        },
        "/users/export": {
            "get": {
                "tags": ["Users"],
                "summary": "Export member directory",
                "produces": ["text/csv", "application/pdf", "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"],
                "parameters": [
                    {"name": "format", "in": "query", "type": "string", "enum": ["csv", "pdf", "xlsx"], "default": "csv"},
                    {"name": "district", "in": "query", "type": "string"}
                ],
                "responses": {
                    "200": {"description": "Rendered directory of active accounts", "schema": {"type": "file"}},
                    "400": {"description": "Unsupported format", "schema": {"$ref": "#/definitions/ErrorBody"}}
                }
            }
        },
        "/users/{id}/approve": {
            "put": {
                "tags": ["Users"],
                "summary": "Approve account",
                "parameters": [
                    {"name": "id", "in": "path", "required": true, "type": "string"},
                    {"name": "payload", "in": "body", "required": true, "schema": {"$ref": "#/definitions/ApproveRequest"}}
                ],
                "responses": {
                    "200": {"description": "Approved", "schema": {"$ref": "#/definitions/Ack"}},
                    "404": {"description": "Unknown account", "schema": {"$ref": "#/definitions/ErrorBody"}}
                }
            }
        },
        "/users/{id}/reject": {
            "put": {
                "tags": ["Users"],
                "summary": "Reject account",
                "parameters": [
                    {"name": "id", "in": "path", "required": true, "type": "string"}
                ],
                "responses": {
                    "200": {"description": "Rejected", "schema": {"$ref": "#/definitions/Ack"}},
                    "400": {"description": "Account is not pending", "schema": {"$ref": "#/definitions/ErrorBody"}},
                    "404": {"description": "Unknown account", "schema": {"$ref": "#/definitions/ErrorBody"}}
                }
            }
        },
        "/users/{id}": {
            "delete": {
                "tags": ["Users"],
                "summary": "Delete account",
                "parameters": [
                    {"name": "id", "in": "path", "required": true, "type": "string"}
                ],
                "responses": {
                    "200": {"description": "Deleted", "schema": {"$ref": "#/definitions/Ack"}},
                    "404": {"description": "Unknown account", "schema": {"$ref": "#/definitions/ErrorBody"}}
                }
            }
        },
        "/announcements": {
            "get": {
                "tags": ["Announcements"],
                "summary": "List announcements",
                "responses": {
                    "200": {"description": "Newest first", "schema": {"type": "array", "items": {"$ref": "#/definitions/Announcement"}}}
                }
            },
            "post": {
                "tags": ["Announcements"],
                "summary": "Publish announcement",
                "parameters": [
                    {"name": "payload", "in": "body", "required": true, "schema": {"$ref": "#/definitions/Announcement"}}
                ],
                "responses": {
                    "200": {"description": "Created", "schema": {"$ref": "#/definitions/Ack"}},
                    "400": {"description": "Invalid payload", "schema": {"$ref": "#/definitions/ErrorBody"}}
                }
            }
        },
        "/announcements/{id}": {
            "delete": {
                "tags": ["Announcements"],
                "summary": "Delete announcement",
                "parameters": [
                    {"name": "id", "in": "path", "required": true, "type": "string"}
                ],
                "responses": {
                    "200": {"description": "Deleted", "schema": {"$ref": "#/definitions/Ack"}},
                    "404": {"description": "Unknown announcement", "schema": {"$ref": "#/definitions/ErrorBody"}}
                }
            }
        },
        "/locations": {
            "get": {
                "tags": ["Locations"],
                "summary": "List church locations",
                "responses": {
                    "200": {"description": "Locations", "schema": {"type": "array", "items": {"$ref": "#/definitions/ChurchLocation"}}}
                }
            },
            "post": {
                "tags": ["Locations"],
                "summary": "Register church location",
                "parameters": [
                    {"name": "payload", "in": "body", "required": true, "schema": {"$ref": "#/definitions/ChurchLocation"}}
                ],
                "responses": {
                    "200": {"description": "Created", "schema": {"$ref": "#/definitions/Ack"}},
                    "400": {"description": "Invalid payload", "schema": {"$ref": "#/definitions/ErrorBody"}}
                }
            }
        }
    },
    "definitions": {
        "User": {
            "type": "object",
            "properties": {
                "id": {"type": "string"},
                "name": {"type": "string"},
                "email": {"type": "string"},
                "phone": {"type": "string"},
                "role": {"type": "string", "enum": ["SUPER_ADMIN", "DISTRICT_ADMIN", "LOCAL_ADMIN", "PASTOR", "STAFF"]},
                "status": {"type": "string", "enum": ["pending", "active", "rejected"]},
                "department": {"type": "string"},
                "district": {"type": "string"},
                "location": {"type": "string"},
                "avatar": {"type": "string"},
                "position": {"type": "string"},
                "meetingTime": {"type": "string"},
                "lastLogin": {"type": "string", "format": "date-time"},
                "rejectionDate": {"type": "string", "format": "date-time"}
            }
        },
        "RegisterRequest": {
            "type": "object",
            "required": ["name", "email", "password"],
            "properties": {
                "id": {"type": "string"},
                "name": {"type": "string"},
                "email": {"type": "string"},
                "password": {"type": "string"},
                "phone": {"type": "string"},
                "role": {"type": "string"}
            }
        },
        "LoginRequest": {
            "type": "object",
            "required": ["email", "password"],
            "properties": {
                "email": {"type": "string"},
                "password": {"type": "string"}
            }
        },
        "LoginResponse": {
            "type": "object",
            "properties": {
                "user": {"$ref": "#/definitions/User"}
            }
        },
        "ApproveRequest": {
            "type": "object",
            "required": ["role"],
            "properties": {
                "role": {"type": "string"},
                "district": {"type": "string"}
            }
        },
        "Announcement": {
            "type": "object",
            "required": ["title"],
            "properties": {
                "id": {"type": "string"},
                "departmentId": {"type": "string"},
                "title": {"type": "string"},
                "message": {"type": "string"},
                "meetingTime": {"type": "string"},
                "author": {"type": "string"},
                "date": {"type": "string", "format": "date"}
            }
        },
        "ChurchLocation": {
            "type": "object",
            "required": ["name"],
            "properties": {
                "id": {"type": "string"},
                "name": {"type": "string"},
                "district": {"type": "string"},
                "adminId": {"type": "string"},
                "address": {"type": "string"}
            }
        },
        "Ack": {
            "type": "object",
            "properties": {
                "success": {"type": "boolean"}
            }
        },
        "APIError": {
            "type": "object",
            "properties": {
                "code": {"type": "string"},
                "message": {"type": "string"},
                "status": {"type": "integer"}
            }
        },
        "ErrorBody": {
            "type": "object",
            "properties": {
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
