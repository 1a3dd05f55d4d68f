package swagger

import "github.com/swaggo/swag"

const docTemplate = `{
    "swagger": "2.0",
    "info": {
        "title": "Department Routine API",
        "description": "Generates, edits and serves weekly class routines for university departments.",
        "version": "1.0.0"
    },
    "basePath": "/api/v1",
    "schemes": [
        "http"
    ],
    "securityDefinitions": {
        "BearerAuth": {"type": "apiKey", "name": "Authorization", "in": "header"}
    },
    "security": [{"BearerAuth": []}],
    "tags": [
        {"name": "Routines", "description": "Generation, preview editing, commit and read views"},
        {"name": "Schedule Entries", "description": "Single entry edits on the committed routine"},
        {"name": "Course Teachers", "description": "Semester course assignments that feed the generator"},
        {"name": "Observability", "description": "Service counters"}
    ],
    "paths": {
        "/routines/preview": {
            "post": {
                "tags": ["Routines"],
                "summary": "Generate a routine preview",
                "parameters": [
                    {"name": "payload", "in": "body", "required": true, "schema": {"$ref": "#/definitions/GeneratePreviewRequest"}}
                ],
                "responses": {
                    "200": {"description": "Preview", "schema": {"$ref": "#/definitions/ResponseEnvelope"}},
                    "403": {"description": "Department not managed by caller", "schema": {"$ref": "#/definitions/ResponseEnvelope"}},
                    "412": {"description": "NO_QUALIFYING_ASSIGNMENTS or NO_AVAILABLE_RESOURCES", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        },
        "/routines/previews/{id}": {
            "get": {
                "tags": ["Routines"],
                "summary": "Get a stored preview",
                "parameters": [
                    {"name": "id", "in": "path", "required": true, "type": "string"}
                ],
                "responses": {
                    "200": {"description": "Preview", "schema": {"$ref": "#/definitions/ResponseEnvelope"}},
                    "404": {"description": "Unknown or expired preview", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        },
        "/routines/previews/{id}/entries/{key}": {
            "patch": {
                "tags": ["Routines"],
                "summary": "Move a preview entry to another slot",
                "parameters": [
                    {"name": "id", "in": "path", "required": true, "type": "string"},
                    {"name": "key", "in": "path", "required": true, "type": "string"},
                    {"name": "payload", "in": "body", "required": true, "schema": {"$ref": "#/definitions/MovePreviewEntryRequest"}}
                ],
                "responses": {
                    "200": {"description": "Updated preview", "schema": {"$ref": "#/definitions/ResponseEnvelope"}},
                    "409": {"description": "SCHEDULE_CONFLICT", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        },
        "/routines/commit": {
            "post": {
                "tags": ["Routines"],
                "summary": "Replace the routine of department semesters",
                "parameters": [
                    {"name": "payload", "in": "body", "required": true, "schema": {"$ref": "#/definitions/CommitRoutineRequest"}}
                ],
                "responses": {
                    "201": {"description": "Saved", "schema": {"$ref": "#/definitions/ResponseEnvelope"}},
                    "409": {"description": "SCHEDULE_CONFLICT", "schema": {"$ref": "#/definitions/ResponseEnvelope"}},
                    "500": {"description": "ROUTINE_SAVE_FAILED, previous routine unchanged", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        },
        "/routines/{kind}/{id}": {
            "get": {
                "tags": ["Routines"],
                "summary": "Read a committed routine",
                "parameters": [
                    {"name": "kind", "in": "path", "required": true, "type": "string", "enum": ["departments", "semesters", "teachers", "rooms", "labs", "courses", "students"]},
                    {"name": "id", "in": "path", "required": true, "type": "integer"}
                ],
                "responses": {
                    "200": {"description": "Entries ordered by day and start time", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        },
        "/routines/export": {
            "get": {
                "tags": ["Routines"],
                "summary": "Download a department or semester routine",
                "produces": ["text/csv", "application/pdf"],
                "parameters": [
                    {"name": "departmentId", "in": "query", "required": true, "type": "integer"},
                    {"name": "semesterId", "in": "query", "type": "integer"},
                    {"name": "format", "in": "query", "type": "string", "enum": ["csv", "pdf"]}
                ],
                "responses": {
                    "200": {"description": "File", "schema": {"type": "file"}}
                }
            }
        },
        "/schedule-entries": {
            "post": {
                "tags": ["Schedule Entries"],
                "summary": "Add a class or break",
                "parameters": [
                    {"name": "payload", "in": "body", "required": true, "schema": {"$ref": "#/definitions/CreateScheduleEntryRequest"}}
                ],
                "responses": {
                    "201": {"description": "Created", "schema": {"$ref": "#/definitions/ResponseEnvelope"}},
                    "409": {"description": "SCHEDULE_CONFLICT", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        },
        "/schedule-entries/{id}": {
            "delete": {
                "tags": ["Schedule Entries"],
                "summary": "Delete an entry",
                "parameters": [
                    {"name": "id", "in": "path", "required": true, "type": "integer"}
                ],
                "responses": {
                    "204": {"description": "Deleted"},
                    "404": {"description": "Not found", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        },
        "/schedule-entries/{id}/cancellation": {
            "patch": {
                "tags": ["Schedule Entries"],
                "summary": "Cancel or restore a class",
                "parameters": [
                    {"name": "id", "in": "path", "required": true, "type": "integer"},
                    {"name": "payload", "in": "body", "required": true, "schema": {"$ref": "#/definitions/ToggleCancellationRequest"}}
                ],
                "responses": {
                    "200": {"description": "Updated", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        },
        "/semesters/{id}/course-teachers": {
            "get": {
                "tags": ["Course Teachers"],
                "summary": "List course teachers of a semester",
                "parameters": [
                    {"name": "id", "in": "path", "required": true, "type": "integer"}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            },
            "put": {
                "tags": ["Course Teachers"],
                "summary": "Assign or replace the teacher of a course",
                "parameters": [
                    {"name": "id", "in": "path", "required": true, "type": "integer"},
                    {"name": "payload", "in": "body", "required": true, "schema": {"$ref": "#/definitions/AssignCourseTeacherRequest"}}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        },
        "/metrics/summary": {
            "get": {
                "tags": ["Observability"],
                "summary": "Routine service counters",
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        }
    },
    "definitions": {
        "GeneratePreviewRequest": {
            "type": "object",
            "required": ["departmentId", "semesterIds"],
            "properties": {
                "departmentId": {"type": "integer"},
                "semesterIds": {"type": "array", "items": {"type": "integer"}},
                "seed": {"type": "integer"}
            }
        },
        "MovePreviewEntryRequest": {
            "type": "object",
            "required": ["dayOfWeek", "startTime"],
            "properties": {
                "dayOfWeek": {"type": "string", "example": "MONDAY"},
                "startTime": {"type": "string", "example": "09:00"}
            }
        },
        "ScheduleEntryInput": {
            "type": "object",
            "required": ["semesterId", "dayOfWeek", "startTime"],
            "properties": {
                "semesterId": {"type": "integer"},
                "dayOfWeek": {"type": "string"},
                "startTime": {"type": "string"},
                "courseId": {"type": "integer"},
                "teacherId": {"type": "integer"},
                "roomId": {"type": "integer"},
                "labId": {"type": "integer"},
                "isBreak": {"type": "boolean"},
                "breakName": {"type": "string"},
                "isCancelled": {"type": "boolean"}
            }
        },
        "CommitRoutineRequest": {
            "type": "object",
            "required": ["departmentId", "semesterIds"],
            "properties": {
                "departmentId": {"type": "integer"},
                "semesterIds": {"type": "array", "items": {"type": "integer"}},
                "previewId": {"type": "string", "format": "uuid"},
                "entries": {"type": "array", "items": {"$ref": "#/definitions/ScheduleEntryInput"}}
            }
        },
        "CreateScheduleEntryRequest": {
            "allOf": [
                {"$ref": "#/definitions/ScheduleEntryInput"},
                {"type": "object", "required": ["departmentId"], "properties": {"departmentId": {"type": "integer"}}}
            ]
        },
        "ToggleCancellationRequest": {
            "type": "object",
            "required": ["isCancelled"],
            "properties": {
                "isCancelled": {"type": "boolean"}
            }
        },
        "AssignCourseTeacherRequest": {
            "type": "object",
            "required": ["courseId", "teacherId"],
            "properties": {
                "courseId": {"type": "integer"},
                "teacherId": {"type": "integer"}
            }
        },
        "APIError": {
            "type": "object",
            "properties": {
                "code": {"type": "string"},
                "message": {"type": "string"},
                "status": {"type": "integer"},
                "details": {"type": "object"}
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
