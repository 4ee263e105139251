package swagger

import "github.com/swaggo/swag"

const docTemplate = `{
    "swagger": "2.0",
    "info": {
        "title": "Timetable Scheduling API",
        "description": "Weekly academic timetable generator: submit a Faculty Plan, get back workbooks.",
        "version": "1.0.0"
    },
    "basePath": "/",
    "schemes": [
        "http"
    ],
    "paths": {
        "/": {
            "get": {
                "summary": "Form page descriptor",
                "description": "Returns the Faculty Plan JSON schema the builder UI should collect",
                "tags": ["Scheduler"],
                "produces": ["application/json"],
                "responses": {
                    "200": {
                        "description": "OK",
                        "schema": {"$ref": "#/definitions/response.Envelope"}
                    }
                }
            }
        },
        "/builder": {
            "get": {
                "summary": "JSON-building UI descriptor",
                "description": "Describes the Faculty Plan shape for a JSON-building client",
                "tags": ["Scheduler"],
                "produces": ["application/json"],
                "responses": {
                    "200": {
                        "description": "OK",
                        "schema": {"$ref": "#/definitions/response.Envelope"}
                    }
                }
            }
        },
        "/generate": {
            "post": {
                "summary": "Generate a weekly timetable",
                "description": "Runs the engine against a Faculty Plan and writes workbooks",
                "tags": ["Scheduler"],
                "consumes": ["application/json"],
                "produces": ["application/json"],
                "parameters": [
                    {
                        "name": "payload",
                        "in": "body",
                        "required": true,
                        "schema": {"$ref": "#/definitions/dto.FacultyPlanRequest"}
                    },
                    {
                        "name": "seed",
                        "in": "query",
                        "required": false,
                        "type": "integer",
                        "description": "PRNG seed override"
                    }
                ],
                "responses": {
                    "200": {
                        "description": "OK",
                        "schema": {"$ref": "#/definitions/response.Envelope"}
                    },
                    "400": {
                        "description": "Bad Request",
                        "schema": {"$ref": "#/definitions/response.Envelope"}
                    },
                    "500": {
                        "description": "Internal Server Error",
                        "schema": {"$ref": "#/definitions/response.Envelope"}
                    }
                }
            }
        },
        "/success": {
            "get": {
                "summary": "List generated files for a run, or recent runs",
                "tags": ["Scheduler"],
                "produces": ["application/json"],
                "parameters": [
                    {
                        "name": "run",
                        "in": "query",
                        "required": false,
                        "type": "string",
                        "description": "run ID"
                    }
                ],
                "responses": {
                    "200": {
                        "description": "OK",
                        "schema": {"$ref": "#/definitions/response.Envelope"}
                    }
                }
            }
        },
        "/download/{token}": {
            "get": {
                "summary": "Download a generated file via a signed token",
                "tags": ["Scheduler"],
                "produces": ["application/octet-stream"],
                "parameters": [
                    {
                        "name": "token",
                        "in": "path",
                        "required": true,
                        "type": "string",
                        "description": "signed download token"
                    }
                ],
                "responses": {
                    "200": {"description": "OK"},
                    "401": {
                        "description": "Unauthorized",
                        "schema": {"$ref": "#/definitions/response.Envelope"}
                    },
                    "404": {
                        "description": "Not Found",
                        "schema": {"$ref": "#/definitions/response.Envelope"}
                    }
                }
            }
        },
        "/auth/login": {
            "post": {
                "summary": "Authenticate the configured admin",
                "description": "Issue a JWT for the single configured admin credential",
                "tags": ["Authentication"],
                "consumes": ["application/json"],
                "produces": ["application/json"],
                "parameters": [
                    {
                        "name": "payload",
                        "in": "body",
                        "required": true,
                        "schema": {"$ref": "#/definitions/models.LoginRequest"}
                    }
                ],
                "responses": {
                    "200": {
                        "description": "OK",
                        "schema": {"$ref": "#/definitions/response.Envelope"}
                    },
                    "400": {
                        "description": "Bad Request",
                        "schema": {"$ref": "#/definitions/response.Envelope"}
                    },
                    "401": {
                        "description": "Unauthorized",
                        "schema": {"$ref": "#/definitions/response.Envelope"}
                    }
                }
            }
        },
        "/health": {
            "get": {
                "summary": "Health check",
                "responses": {
                    "200": {
                        "description": "OK"
                    }
                }
            }
        },
        "/ready": {
            "get": {
                "summary": "Readiness check",
                "responses": {
                    "200": {
                        "description": "Ready"
                    }
                }
            }
        }
    },
    "definitions": {
        "response.Envelope": {
            "type": "object"
        },
        "dto.FacultyPlanRequest": {
            "type": "object"
        },
        "models.LoginRequest": {
            "type": "object"
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
