package swagger

import "github.com/swaggo/swag"

const docTemplate = `{
    "swagger": "2.0",
    "info": {
        "title": "LessonGrid API",
        "description": "Weekly lesson availability and scheduling service",
        "version": "0.1.0"
    },
    "basePath": "/",
    "schemes": [
        "http"
    ],
    "tags": [
        {"name": "Authentication", "description": "Owner accounts and tokens"},
        {"name": "Participants", "description": "Student roster"},
        {"name": "Availability", "description": "Weekly availability and drop zones"},
        {"name": "Assignments", "description": "Solver and committed placements"},
        {"name": "Placement", "description": "Drag and drop interaction sessions"},
        {"name": "Analysis", "description": "Conflicts and utilization"},
        {"name": "Export", "description": "Calendar and document downloads"}
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
        "/auth/login": {
            "post": {
                "tags": ["Authentication"],
                "summary": "Authenticate owner",
                "responses": {
                    "200": {"description": "Token pair issued"},
                    "401": {"description": "Invalid credentials"}
                }
            }
        },
        "/availability/owner": {
            "get": {
                "tags": ["Availability"],
                "summary": "Get owner availability",
                "responses": {
                    "200": {"description": "Weekly blocks"}
                }
            },
            "put": {
                "tags": ["Availability"],
                "summary": "Replace owner availability",
                "responses": {
                    "200": {"description": "Stored week plus removed assignments"},
                    "400": {"description": "Validation issues"}
                }
            }
        },
        "/assignments/solve": {
            "post": {
                "tags": ["Assignments"],
                "summary": "Place one participant",
                "responses": {
                    "201": {"description": "Assignment created"},
                    "409": {"description": "No available slot"}
                }
            }
        },
        "/placement/drop": {
            "post": {
                "tags": ["Placement"],
                "summary": "Commit an in-flight drag",
                "responses": {
                    "200": {"description": "Accepted or rejected drop"}
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
                "pagination": {"$ref": "#/definitions/Pagination"},
                "meta": {"type": "object"}
            }
        },
        "Pagination": {
            "type": "object",
            "properties": {
                "page": {"type": "integer"},
                "page_size": {"type": "integer"},
                "total_count": {"type": "integer"}
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
