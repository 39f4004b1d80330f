package swagger

import "github.com/swaggo/swag"

const docTemplate = `{
    "swagger": "2.0",
    "info": {
        "title": "Clubs API",
        "description": "Club enrollment for school sedes",
        "version": "1.0.0"
    },
    "basePath": "/api",
    "schemes": [
        "http"
    ],
    "securityDefinitions": {
        "AdminAuth": {"type": "apiKey", "in": "header", "name": "Authorization", "description": "Bearer <token> or Bearer <admin code>"},
        "AdminCode": {"type": "apiKey", "in": "header", "name": "X-Admin-Code"}
    },
    "tags": [
        {"name": "Catalogue", "description": "Sedes and clubs with availability"},
        {"name": "Enrollments", "description": "Self-registration and admin enrollment changes"},
        {"name": "Students", "description": "Student roster and CSV import"},
        {"name": "Configuration", "description": "Runtime flags"},
        {"name": "Reports", "description": "Occupancy reports"},
        {"name": "Admin", "description": "Admin session"}
    ],
    "paths": {
        "/sedes": {
            "get": {
                "tags": ["Catalogue"],
                "summary": "List sedes",
                "responses": {"200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}}
            }
        },
        "/sedes/{slug}/clubs": {
            "get": {
                "tags": ["Catalogue"],
                "summary": "List the clubs of a sede with availability",
                "parameters": [{"name": "slug", "in": "path", "required": true, "type": "string"}],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}},
                    "404": {"description": "Sede not found", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        },
        "/clubs/{id}": {
            "get": {
                "tags": ["Catalogue"],
                "summary": "Get a club",
                "parameters": [{"name": "id", "in": "path", "required": true, "type": "string"}],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}},
                    "404": {"description": "Club not found", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        },
        "/inscripciones": {
            "post": {
                "tags": ["Enrollments"],
                "summary": "Register a student into a club",
                "parameters": [{"name": "payload", "in": "body", "required": true, "schema": {"$ref": "#/definitions/RegisterRequest"}}],
                "responses": {
                    "201": {"description": "Created", "schema": {"$ref": "#/definitions/ResponseEnvelope"}},
                    "400": {"description": "Missing fields or warning not accepted"},
                    "403": {"description": "Enrollments closed"},
                    "404": {"description": "Student or club not found"},
                    "409": {"description": "Club full, already enrolled or sede mismatch"}
                }
            }
        },
        "/inscripciones/consulta": {
            "post": {
                "tags": ["Enrollments"],
                "summary": "Check the enrollment status of a document",
                "parameters": [{"name": "payload", "in": "body", "required": true, "schema": {"$ref": "#/definitions/DocumentRequest"}}],
                "responses": {"200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}}
            }
        },
        "/configuracion/inscripciones-habilitadas": {
            "get": {
                "tags": ["Configuration"],
                "summary": "Whether self-registration is open",
                "responses": {"200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}}
            }
        },
        "/configuracion": {
            "get": {
                "tags": ["Configuration"],
                "summary": "List runtime flags",
                "security": [{"AdminAuth": []}, {"AdminCode": []}],
                "responses": {"200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}}
            }
        },
        "/configuracion/inscripciones": {
            "patch": {
                "tags": ["Configuration"],
                "summary": "Open or close self-registration",
                "security": [{"AdminAuth": []}, {"AdminCode": []}],
                "parameters": [{"name": "payload", "in": "body", "required": true, "schema": {"$ref": "#/definitions/ToggleRequest"}}],
                "responses": {"200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}}
            }
        },
        "/reportes/inscripciones": {
            "get": {
                "tags": ["Reports"],
                "summary": "Enrollment report per club",
                "produces": ["application/json", "text/csv", "application/pdf"],
                "security": [{"AdminAuth": []}, {"AdminCode": []}],
                "parameters": [
                    {"name": "sede", "in": "query", "type": "string"},
                    {"name": "group", "in": "query", "type": "string"},
                    {"name": "clubId", "in": "query", "type": "string"},
                    {"name": "format", "in": "query", "type": "string", "enum": ["json", "csv", "pdf"]}
                ],
                "responses": {
                    "200": {"description": "OK"},
                    "404": {"description": "Sede not found"}
                }
            }
        },
        "/admin/login": {
            "post": {
                "tags": ["Admin"],
                "summary": "Exchange the admin code for a session token",
                "parameters": [{"name": "payload", "in": "body", "required": true, "schema": {"$ref": "#/definitions/LoginRequest"}}],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}},
                    "401": {"description": "Invalid code"}
                }
            }
        },
        "/admin/ping": {
            "get": {
                "tags": ["Admin"],
                "summary": "Verify admin credentials",
                "security": [{"AdminAuth": []}, {"AdminCode": []}],
                "responses": {"200": {"description": "OK"}, "401": {"description": "Unauthorized"}}
            }
        },
        "/admin/clubs": {
            "post": {
                "tags": ["Catalogue"],
                "summary": "Create a club",
                "security": [{"AdminAuth": []}, {"AdminCode": []}],
                "parameters": [{"name": "payload", "in": "body", "required": true, "schema": {"$ref": "#/definitions/ClubRequest"}}],
                "responses": {"201": {"description": "Created", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}}
            }
        },
        "/admin/clubs/{id}": {
            "put": {
                "tags": ["Catalogue"],
                "summary": "Update a club",
                "security": [{"AdminAuth": []}, {"AdminCode": []}],
                "parameters": [
                    {"name": "id", "in": "path", "required": true, "type": "string"},
                    {"name": "payload", "in": "body", "required": true, "schema": {"$ref": "#/definitions/ClubRequest"}}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}},
                    "409": {"description": "Capacity below occupancy"}
                }
            },
            "delete": {
                "tags": ["Catalogue"],
                "summary": "Delete a club without active enrollments",
                "security": [{"AdminAuth": []}, {"AdminCode": []}],
                "parameters": [{"name": "id", "in": "path", "required": true, "type": "string"}],
                "responses": {"204": {"description": "Deleted"}, "409": {"description": "Club has active enrollments"}}
            }
        },
        "/admin/clubs/{id}/capacity": {
            "patch": {
                "tags": ["Catalogue"],
                "summary": "Change a club capacity",
                "security": [{"AdminAuth": []}, {"AdminCode": []}],
                "parameters": [
                    {"name": "id", "in": "path", "required": true, "type": "string"},
                    {"name": "payload", "in": "body", "required": true, "schema": {"$ref": "#/definitions/CapacityRequest"}}
                ],
                "responses": {"200": {"description": "OK"}, "409": {"description": "Capacity below occupancy"}}
            }
        },
        "/admin/estudiantes": {
            "get": {
                "tags": ["Students"],
                "summary": "List students",
                "security": [{"AdminAuth": []}, {"AdminCode": []}],
                "parameters": [
                    {"name": "sede", "in": "query", "type": "string"},
                    {"name": "group", "in": "query", "type": "string"},
                    {"name": "search", "in": "query", "type": "string"}
                ],
                "responses": {"200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}}
            }
        },
        "/admin/estudiantes/importar": {
            "post": {
                "tags": ["Students"],
                "summary": "Import students from CSV",
                "consumes": ["multipart/form-data"],
                "security": [{"AdminAuth": []}, {"AdminCode": []}],
                "parameters": [{"name": "archivo", "in": "formData", "required": true, "type": "file"}],
                "responses": {"200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}, "400": {"description": "Missing or invalid file"}}
            }
        },
        "/admin/inscripciones": {
            "post": {
                "tags": ["Enrollments"],
                "summary": "Assign a student to a club regardless of the self-registration flag",
                "security": [{"AdminAuth": []}, {"AdminCode": []}],
                "parameters": [{"name": "payload", "in": "body", "required": true, "schema": {"$ref": "#/definitions/AssignRequest"}}],
                "responses": {"201": {"description": "Created"}, "409": {"description": "Club full, already enrolled or sede mismatch"}}
            }
        },
        "/admin/inscripciones/{id}/mover": {
            "patch": {
                "tags": ["Enrollments"],
                "summary": "Move an active enrollment to another club of the same sede",
                "security": [{"AdminAuth": []}, {"AdminCode": []}],
                "parameters": [
                    {"name": "id", "in": "path", "required": true, "type": "string"},
                    {"name": "payload", "in": "body", "required": true, "schema": {"$ref": "#/definitions/MoveRequest"}}
                ],
                "responses": {"200": {"description": "OK"}, "409": {"description": "Destination full, same club or different sede"}}
            }
        },
        "/admin/inscripciones/{id}": {
            "delete": {
                "tags": ["Enrollments"],
                "summary": "Cancel an enrollment",
                "security": [{"AdminAuth": []}, {"AdminCode": []}],
                "parameters": [{"name": "id", "in": "path", "required": true, "type": "string"}],
                "responses": {"200": {"description": "OK"}, "404": {"description": "Enrollment not found"}}
            }
        }
    },
    "definitions": {
        "RegisterRequest": {
            "type": "object",
            "required": ["document", "clubId", "acceptWarning"],
            "properties": {
                "document": {"type": "string"},
                "clubId": {"type": "string"},
                "acceptWarning": {"type": "boolean"}
            }
        },
        "AssignRequest": {
            "type": "object",
            "required": ["document", "clubId"],
            "properties": {
                "document": {"type": "string"},
                "clubId": {"type": "string"}
            }
        },
        "MoveRequest": {
            "type": "object",
            "required": ["newClubId"],
            "properties": {"newClubId": {"type": "string"}}
        },
        "DocumentRequest": {
            "type": "object",
            "required": ["document"],
            "properties": {"document": {"type": "string"}}
        },
        "ToggleRequest": {
            "type": "object",
            "required": ["enabled"],
            "properties": {"enabled": {"type": "boolean"}}
        },
        "LoginRequest": {
            "type": "object",
            "required": ["code"],
            "properties": {"code": {"type": "string"}}
        },
        "ClubRequest": {
            "type": "object",
            "required": ["name", "responsible", "capacity"],
            "properties": {
                "sedeSlug": {"type": "string"},
                "name": {"type": "string"},
                "description": {"type": "string"},
                "responsible": {"type": "string"},
                "capacity": {"type": "integer", "minimum": 0},
                "imageUrl": {"type": "string"}
            }
        },
        "CapacityRequest": {
            "type": "object",
            "required": ["capacity"],
            "properties": {"capacity": {"type": "integer", "minimum": 0}}
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
