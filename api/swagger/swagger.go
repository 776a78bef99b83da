package swagger

import "github.com/swaggo/swag"

const docTemplate = `{
    "swagger": "2.0",
    "info": {
        "title": "Course Planner API",
        "description": "Course catalog browsing, filtering, selection and conflict checking",
        "version": "0.1.0"
    },
    "basePath": "/api/v1",
    "schemes": [
        "http"
    ],
    "tags": [
        {
            "name": "Catalog",
            "description": "Departments, courses and refreshes"
        },
        {
            "name": "Filters",
            "description": "Catalog and schedule filter state"
        },
        {
            "name": "Selections",
            "description": "Courses picked by a planner profile"
        },
        {
            "name": "Schedule",
            "description": "Filtered schedule views and conflicts"
        },
        {
            "name": "Terms",
            "description": "Term letter extraction"
        },
        {
            "name": "Exports",
            "description": "CSV and PDF schedule exports"
        },
        {
            "name": "Observability",
            "description": "Probes and metrics"
        }
    ],
    "paths": {
        "/health": {
            "get": {
                "tags": [
                    "Observability"
                ],
                "summary": "Liveness probe",
                "responses": {
                    "200": {
                        "description": "OK"
                    }
                }
            }
        },
        "/ready": {
            "get": {
                "tags": [
                    "Observability"
                ],
                "summary": "Readiness probe; 503 until a catalog is loaded",
                "responses": {
                    "200": {
                        "description": "Ready"
                    },
                    "503": {
                        "description": "Catalog unavailable",
                        "schema": {
                            "$ref": "#/definitions/ResponseEnvelope"
                        }
                    }
                }
            }
        },
        "/metrics/summary": {
            "get": {
                "tags": [
                    "Observability"
                ],
                "summary": "Instrumentation snapshot",
                "responses": {
                    "200": {
                        "description": "OK",
                        "schema": {
                            "$ref": "#/definitions/ResponseEnvelope"
                        }
                    }
                }
            }
        },
        "/departments": {
            "get": {
                "tags": [
                    "Catalog"
                ],
                "summary": "List departments",
                "responses": {
                    "200": {
                        "description": "OK",
                        "schema": {
                            "$ref": "#/definitions/ResponseEnvelope"
                        }
                    },
                    "503": {
                        "description": "Catalog unavailable",
                        "schema": {
                            "$ref": "#/definitions/ResponseEnvelope"
                        }
                    }
                }
            }
        },
        "/courses": {
            "get": {
                "tags": [
                    "Catalog"
                ],
                "summary": "List courses matching the profile's catalog filters",
                "parameters": [
                    {
                        "name": "X-Profile-ID",
                        "in": "header",
                        "type": "string",
                        "description": "Planner profile; generated when absent"
                    },
                    {
                        "name": "page",
                        "in": "query",
                        "type": "integer"
                    },
                    {
                        "name": "page_size",
                        "in": "query",
                        "type": "integer"
                    }
                ],
                "responses": {
                    "200": {
                        "description": "OK",
                        "schema": {
                            "$ref": "#/definitions/ResponseEnvelope"
                        }
                    },
                    "400": {
                        "description": "Validation error",
                        "schema": {
                            "$ref": "#/definitions/ResponseEnvelope"
                        }
                    },
                    "503": {
                        "description": "Catalog unavailable",
                        "schema": {
                            "$ref": "#/definitions/ResponseEnvelope"
                        }
                    }
                }
            }
        },
        "/courses/{id}": {
            "get": {
                "tags": [
                    "Catalog"
                ],
                "summary": "Get a course",
                "parameters": [
                    {
                        "name": "id",
                        "in": "path",
                        "required": true,
                        "type": "string"
                    }
                ],
                "responses": {
                    "200": {
                        "description": "OK",
                        "schema": {
                            "$ref": "#/definitions/ResponseEnvelope"
                        }
                    },
                    "404": {
                        "description": "Not found",
                        "schema": {
                            "$ref": "#/definitions/ResponseEnvelope"
                        }
                    },
                    "503": {
                        "description": "Catalog unavailable",
                        "schema": {
                            "$ref": "#/definitions/ResponseEnvelope"
                        }
                    }
                }
            }
        },
        "/catalog/refresh": {
            "post": {
                "tags": [
                    "Catalog"
                ],
                "summary": "Queue a catalog reload",
                "responses": {
                    "202": {
                        "description": "Accepted",
                        "schema": {
                            "$ref": "#/definitions/ResponseEnvelope"
                        }
                    },
                    "429": {
                        "description": "Refresh cooldown",
                        "schema": {
                            "$ref": "#/definitions/ResponseEnvelope"
                        }
                    }
                }
            }
        },
        "/filters/{scope}": {
            "get": {
                "tags": [
                    "Filters"
                ],
                "summary": "Active and registered filters of a scope",
                "parameters": [
                    {
                        "name": "X-Profile-ID",
                        "in": "header",
                        "type": "string",
                        "description": "Planner profile; generated when absent"
                    },
                    {
                        "name": "scope",
                        "in": "path",
                        "required": true,
                        "type": "string",
                        "enum": [
                            "catalog",
                            "schedule"
                        ]
                    }
                ],
                "responses": {
                    "200": {
                        "description": "OK",
                        "schema": {
                            "$ref": "#/definitions/ResponseEnvelope"
                        }
                    }
                }
            },
            "post": {
                "tags": [
                    "Filters"
                ],
                "summary": "Activate a filter",
                "parameters": [
                    {
                        "name": "X-Profile-ID",
                        "in": "header",
                        "type": "string",
                        "description": "Planner profile; generated when absent"
                    },
                    {
                        "name": "scope",
                        "in": "path",
                        "required": true,
                        "type": "string",
                        "enum": [
                            "catalog",
                            "schedule"
                        ]
                    },
                    {
                        "name": "payload",
                        "in": "body",
                        "required": true,
                        "schema": {
                            "$ref": "#/definitions/AddFilterRequest"
                        }
                    }
                ],
                "responses": {
                    "200": {
                        "description": "OK",
                        "schema": {
                            "$ref": "#/definitions/ResponseEnvelope"
                        }
                    },
                    "400": {
                        "description": "Validation error",
                        "schema": {
                            "$ref": "#/definitions/ResponseEnvelope"
                        }
                    },
                    "404": {
                        "description": "Not found",
                        "schema": {
                            "$ref": "#/definitions/ResponseEnvelope"
                        }
                    }
                }
            },
            "delete": {
                "tags": [
                    "Filters"
                ],
                "summary": "Deactivate every filter of a scope",
                "parameters": [
                    {
                        "name": "X-Profile-ID",
                        "in": "header",
                        "type": "string",
                        "description": "Planner profile; generated when absent"
                    },
                    {
                        "name": "scope",
                        "in": "path",
                        "required": true,
                        "type": "string",
                        "enum": [
                            "catalog",
                            "schedule"
                        ]
                    }
                ],
                "responses": {
                    "200": {
                        "description": "OK",
                        "schema": {
                            "$ref": "#/definitions/ResponseEnvelope"
                        }
                    }
                }
            }
        },
        "/filters/{scope}/{id}": {
            "put": {
                "tags": [
                    "Filters"
                ],
                "summary": "Change the criteria of an active filter",
                "parameters": [
                    {
                        "name": "X-Profile-ID",
                        "in": "header",
                        "type": "string",
                        "description": "Planner profile; generated when absent"
                    },
                    {
                        "name": "scope",
                        "in": "path",
                        "required": true,
                        "type": "string",
                        "enum": [
                            "catalog",
                            "schedule"
                        ]
                    },
                    {
                        "name": "id",
                        "in": "path",
                        "required": true,
                        "type": "string"
                    },
                    {
                        "name": "payload",
                        "in": "body",
                        "required": true,
                        "schema": {
                            "$ref": "#/definitions/FilterCriteriaRequest"
                        }
                    }
                ],
                "responses": {
                    "200": {
                        "description": "OK",
                        "schema": {
                            "$ref": "#/definitions/ResponseEnvelope"
                        }
                    },
                    "400": {
                        "description": "Validation error",
                        "schema": {
                            "$ref": "#/definitions/ResponseEnvelope"
                        }
                    },
                    "404": {
                        "description": "Not found",
                        "schema": {
                            "$ref": "#/definitions/ResponseEnvelope"
                        }
                    }
                }
            },
            "delete": {
                "tags": [
                    "Filters"
                ],
                "summary": "Deactivate a filter",
                "parameters": [
                    {
                        "name": "X-Profile-ID",
                        "in": "header",
                        "type": "string",
                        "description": "Planner profile; generated when absent"
                    },
                    {
                        "name": "scope",
                        "in": "path",
                        "required": true,
                        "type": "string",
                        "enum": [
                            "catalog",
                            "schedule"
                        ]
                    },
                    {
                        "name": "id",
                        "in": "path",
                        "required": true,
                        "type": "string"
                    }
                ],
                "responses": {
                    "200": {
                        "description": "OK",
                        "schema": {
                            "$ref": "#/definitions/ResponseEnvelope"
                        }
                    },
                    "404": {
                        "description": "Not found",
                        "schema": {
                            "$ref": "#/definitions/ResponseEnvelope"
                        }
                    }
                }
            }
        },
        "/filters/{scope}/{id}/toggle": {
            "post": {
                "tags": [
                    "Filters"
                ],
                "summary": "Toggle a filter",
                "parameters": [
                    {
                        "name": "X-Profile-ID",
                        "in": "header",
                        "type": "string",
                        "description": "Planner profile; generated when absent"
                    },
                    {
                        "name": "scope",
                        "in": "path",
                        "required": true,
                        "type": "string",
                        "enum": [
                            "catalog",
                            "schedule"
                        ]
                    },
                    {
                        "name": "id",
                        "in": "path",
                        "required": true,
                        "type": "string"
                    },
                    {
                        "name": "payload",
                        "in": "body",
                        "required": false,
                        "schema": {
                            "$ref": "#/definitions/FilterCriteriaRequest"
                        }
                    }
                ],
                "responses": {
                    "200": {
                        "description": "OK",
                        "schema": {
                            "$ref": "#/definitions/ResponseEnvelope"
                        }
                    },
                    "400": {
                        "description": "Validation error",
                        "schema": {
                            "$ref": "#/definitions/ResponseEnvelope"
                        }
                    },
                    "404": {
                        "description": "Not found",
                        "schema": {
                            "$ref": "#/definitions/ResponseEnvelope"
                        }
                    }
                }
            }
        },
        "/filters/{scope}/options/{id}": {
            "get": {
                "tags": [
                    "Filters"
                ],
                "summary": "List choices for a filter",
                "parameters": [
                    {
                        "name": "X-Profile-ID",
                        "in": "header",
                        "type": "string",
                        "description": "Planner profile; generated when absent"
                    },
                    {
                        "name": "scope",
                        "in": "path",
                        "required": true,
                        "type": "string",
                        "enum": [
                            "catalog",
                            "schedule"
                        ]
                    },
                    {
                        "name": "id",
                        "in": "path",
                        "required": true,
                        "type": "string"
                    }
                ],
                "responses": {
                    "200": {
                        "description": "OK",
                        "schema": {
                            "$ref": "#/definitions/ResponseEnvelope"
                        }
                    },
                    "404": {
                        "description": "Not found",
                        "schema": {
                            "$ref": "#/definitions/ResponseEnvelope"
                        }
                    }
                }
            }
        },
        "/filters/{scope}/state": {
            "get": {
                "tags": [
                    "Filters"
                ],
                "summary": "Serialize a filter scope",
                "parameters": [
                    {
                        "name": "X-Profile-ID",
                        "in": "header",
                        "type": "string",
                        "description": "Planner profile; generated when absent"
                    },
                    {
                        "name": "scope",
                        "in": "path",
                        "required": true,
                        "type": "string",
                        "enum": [
                            "catalog",
                            "schedule"
                        ]
                    }
                ],
                "responses": {
                    "200": {
                        "description": "OK",
                        "schema": {
                            "$ref": "#/definitions/ResponseEnvelope"
                        }
                    }
                }
            },
            "put": {
                "tags": [
                    "Filters"
                ],
                "summary": "Replace a filter scope from a serialized state",
                "parameters": [
                    {
                        "name": "X-Profile-ID",
                        "in": "header",
                        "type": "string",
                        "description": "Planner profile; generated when absent"
                    },
                    {
                        "name": "scope",
                        "in": "path",
                        "required": true,
                        "type": "string",
                        "enum": [
                            "catalog",
                            "schedule"
                        ]
                    },
                    {
                        "name": "payload",
                        "in": "body",
                        "required": true,
                        "schema": {
                            "$ref": "#/definitions/FilterState"
                        }
                    }
                ],
                "responses": {
                    "200": {
                        "description": "OK",
                        "schema": {
                            "$ref": "#/definitions/ResponseEnvelope"
                        }
                    },
                    "400": {
                        "description": "Validation error",
                        "schema": {
                            "$ref": "#/definitions/ResponseEnvelope"
                        }
                    }
                }
            }
        },
        "/selections": {
            "get": {
                "tags": [
                    "Selections"
                ],
                "summary": "List selected courses",
                "parameters": [
                    {
                        "name": "X-Profile-ID",
                        "in": "header",
                        "type": "string",
                        "description": "Planner profile; generated when absent"
                    }
                ],
                "responses": {
                    "200": {
                        "description": "OK",
                        "schema": {
                            "$ref": "#/definitions/ResponseEnvelope"
                        }
                    }
                }
            },
            "post": {
                "tags": [
                    "Selections"
                ],
                "summary": "Select a course",
                "parameters": [
                    {
                        "name": "X-Profile-ID",
                        "in": "header",
                        "type": "string",
                        "description": "Planner profile; generated when absent"
                    },
                    {
                        "name": "payload",
                        "in": "body",
                        "required": true,
                        "schema": {
                            "$ref": "#/definitions/SelectCourseRequest"
                        }
                    }
                ],
                "responses": {
                    "201": {
                        "description": "Created",
                        "schema": {
                            "$ref": "#/definitions/ResponseEnvelope"
                        }
                    },
                    "400": {
                        "description": "Validation error",
                        "schema": {
                            "$ref": "#/definitions/ResponseEnvelope"
                        }
                    },
                    "404": {
                        "description": "Not found",
                        "schema": {
                            "$ref": "#/definitions/ResponseEnvelope"
                        }
                    }
                }
            },
            "delete": {
                "tags": [
                    "Selections"
                ],
                "summary": "Remove every selection",
                "parameters": [
                    {
                        "name": "X-Profile-ID",
                        "in": "header",
                        "type": "string",
                        "description": "Planner profile; generated when absent"
                    }
                ],
                "responses": {
                    "204": {
                        "description": "No Content"
                    }
                }
            }
        },
        "/selections/{courseId}": {
            "delete": {
                "tags": [
                    "Selections"
                ],
                "summary": "Remove a course from the planner",
                "parameters": [
                    {
                        "name": "X-Profile-ID",
                        "in": "header",
                        "type": "string",
                        "description": "Planner profile; generated when absent"
                    },
                    {
                        "name": "courseId",
                        "in": "path",
                        "required": true,
                        "type": "string"
                    }
                ],
                "responses": {
                    "204": {
                        "description": "No Content"
                    },
                    "404": {
                        "description": "Not found",
                        "schema": {
                            "$ref": "#/definitions/ResponseEnvelope"
                        }
                    }
                }
            }
        },
        "/selections/{courseId}/toggle": {
            "post": {
                "tags": [
                    "Selections"
                ],
                "summary": "Select or unselect a course",
                "parameters": [
                    {
                        "name": "X-Profile-ID",
                        "in": "header",
                        "type": "string",
                        "description": "Planner profile; generated when absent"
                    },
                    {
                        "name": "courseId",
                        "in": "path",
                        "required": true,
                        "type": "string"
                    },
                    {
                        "name": "required",
                        "in": "query",
                        "type": "boolean"
                    }
                ],
                "responses": {
                    "200": {
                        "description": "OK",
                        "schema": {
                            "$ref": "#/definitions/ResponseEnvelope"
                        }
                    }
                }
            }
        },
        "/selections/{courseId}/section": {
            "put": {
                "tags": [
                    "Selections"
                ],
                "summary": "Choose the section of a selected course",
                "parameters": [
                    {
                        "name": "X-Profile-ID",
                        "in": "header",
                        "type": "string",
                        "description": "Planner profile; generated when absent"
                    },
                    {
                        "name": "courseId",
                        "in": "path",
                        "required": true,
                        "type": "string"
                    },
                    {
                        "name": "payload",
                        "in": "body",
                        "required": true,
                        "schema": {
                            "$ref": "#/definitions/SetSectionRequest"
                        }
                    }
                ],
                "responses": {
                    "200": {
                        "description": "OK",
                        "schema": {
                            "$ref": "#/definitions/ResponseEnvelope"
                        }
                    },
                    "400": {
                        "description": "Validation error",
                        "schema": {
                            "$ref": "#/definitions/ResponseEnvelope"
                        }
                    },
                    "404": {
                        "description": "Not found",
                        "schema": {
                            "$ref": "#/definitions/ResponseEnvelope"
                        }
                    }
                }
            }
        },
        "/selections/{courseId}/required": {
            "put": {
                "tags": [
                    "Selections"
                ],
                "summary": "Mark a selected course required or optional",
                "parameters": [
                    {
                        "name": "X-Profile-ID",
                        "in": "header",
                        "type": "string",
                        "description": "Planner profile; generated when absent"
                    },
                    {
                        "name": "courseId",
                        "in": "path",
                        "required": true,
                        "type": "string"
                    },
                    {
                        "name": "payload",
                        "in": "body",
                        "required": true,
                        "schema": {
                            "$ref": "#/definitions/SetRequiredRequest"
                        }
                    }
                ],
                "responses": {
                    "200": {
                        "description": "OK",
                        "schema": {
                            "$ref": "#/definitions/ResponseEnvelope"
                        }
                    },
                    "400": {
                        "description": "Validation error",
                        "schema": {
                            "$ref": "#/definitions/ResponseEnvelope"
                        }
                    },
                    "404": {
                        "description": "Not found",
                        "schema": {
                            "$ref": "#/definitions/ResponseEnvelope"
                        }
                    }
                }
            }
        },
        "/selections/export": {
            "get": {
                "tags": [
                    "Selections"
                ],
                "summary": "Export selections as a portable document",
                "parameters": [
                    {
                        "name": "X-Profile-ID",
                        "in": "header",
                        "type": "string",
                        "description": "Planner profile; generated when absent"
                    }
                ],
                "responses": {
                    "200": {
                        "description": "OK",
                        "schema": {
                            "$ref": "#/definitions/SelectionExport"
                        }
                    }
                }
            }
        },
        "/selections/import": {
            "post": {
                "tags": [
                    "Selections"
                ],
                "summary": "Replace selections from an exported document",
                "parameters": [
                    {
                        "name": "X-Profile-ID",
                        "in": "header",
                        "type": "string",
                        "description": "Planner profile; generated when absent"
                    },
                    {
                        "name": "payload",
                        "in": "body",
                        "required": true,
                        "schema": {
                            "$ref": "#/definitions/SelectionExport"
                        }
                    }
                ],
                "responses": {
                    "200": {
                        "description": "OK",
                        "schema": {
                            "$ref": "#/definitions/ResponseEnvelope"
                        }
                    },
                    "400": {
                        "description": "Validation error",
                        "schema": {
                            "$ref": "#/definitions/ResponseEnvelope"
                        }
                    }
                }
            }
        },
        "/schedule/sections": {
            "get": {
                "tags": [
                    "Schedule"
                ],
                "summary": "Sections of selected courses passing the schedule filters",
                "parameters": [
                    {
                        "name": "X-Profile-ID",
                        "in": "header",
                        "type": "string",
                        "description": "Planner profile; generated when absent"
                    }
                ],
                "responses": {
                    "200": {
                        "description": "OK",
                        "schema": {
                            "$ref": "#/definitions/ResponseEnvelope"
                        }
                    }
                }
            }
        },
        "/schedule/periods": {
            "get": {
                "tags": [
                    "Schedule"
                ],
                "summary": "Periods of selected courses passing the schedule filters",
                "parameters": [
                    {
                        "name": "X-Profile-ID",
                        "in": "header",
                        "type": "string",
                        "description": "Planner profile; generated when absent"
                    }
                ],
                "responses": {
                    "200": {
                        "description": "OK",
                        "schema": {
                            "$ref": "#/definitions/ResponseEnvelope"
                        }
                    }
                }
            }
        },
        "/schedule/courses": {
            "get": {
                "tags": [
                    "Schedule"
                ],
                "summary": "Selected courses with at least one visible section",
                "parameters": [
                    {
                        "name": "X-Profile-ID",
                        "in": "header",
                        "type": "string",
                        "description": "Planner profile; generated when absent"
                    }
                ],
                "responses": {
                    "200": {
                        "description": "OK",
                        "schema": {
                            "$ref": "#/definitions/ResponseEnvelope"
                        }
                    }
                }
            }
        },
        "/schedule/conflicts": {
            "get": {
                "tags": [
                    "Schedule"
                ],
                "summary": "Conflicts among chosen sections",
                "parameters": [
                    {
                        "name": "X-Profile-ID",
                        "in": "header",
                        "type": "string",
                        "description": "Planner profile; generated when absent"
                    }
                ],
                "responses": {
                    "200": {
                        "description": "OK",
                        "schema": {
                            "$ref": "#/definitions/ResponseEnvelope"
                        }
                    }
                }
            }
        },
        "/conflicts/check": {
            "post": {
                "tags": [
                    "Schedule"
                ],
                "summary": "Check arbitrary catalog sections for conflicts",
                "parameters": [
                    {
                        "name": "payload",
                        "in": "body",
                        "required": true,
                        "schema": {
                            "$ref": "#/definitions/ConflictCheckRequest"
                        }
                    }
                ],
                "responses": {
                    "200": {
                        "description": "OK",
                        "schema": {
                            "$ref": "#/definitions/ResponseEnvelope"
                        }
                    },
                    "400": {
                        "description": "Validation error",
                        "schema": {
                            "$ref": "#/definitions/ResponseEnvelope"
                        }
                    },
                    "404": {
                        "description": "Not found",
                        "schema": {
                            "$ref": "#/definitions/ResponseEnvelope"
                        }
                    }
                }
            }
        },
        "/terms/extract": {
            "get": {
                "tags": [
                    "Terms"
                ],
                "summary": "Derive the term letter of a section",
                "parameters": [
                    {
                        "name": "term",
                        "in": "query",
                        "type": "string"
                    },
                    {
                        "name": "section",
                        "in": "query",
                        "type": "string"
                    }
                ],
                "responses": {
                    "200": {
                        "description": "OK",
                        "schema": {
                            "$ref": "#/definitions/ResponseEnvelope"
                        }
                    },
                    "400": {
                        "description": "Validation error",
                        "schema": {
                            "$ref": "#/definitions/ResponseEnvelope"
                        }
                    }
                }
            }
        },
        "/exports": {
            "post": {
                "tags": [
                    "Exports"
                ],
                "summary": "Export the chosen schedule",
                "parameters": [
                    {
                        "name": "X-Profile-ID",
                        "in": "header",
                        "type": "string",
                        "description": "Planner profile; generated when absent"
                    },
                    {
                        "name": "payload",
                        "in": "body",
                        "required": true,
                        "schema": {
                            "$ref": "#/definitions/ExportRequest"
                        }
                    }
                ],
                "responses": {
                    "201": {
                        "description": "Created",
                        "schema": {
                            "$ref": "#/definitions/ResponseEnvelope"
                        }
                    },
                    "400": {
                        "description": "Validation error",
                        "schema": {
                            "$ref": "#/definitions/ResponseEnvelope"
                        }
                    }
                }
            }
        },
        "/exports/{token}": {
            "get": {
                "tags": [
                    "Exports"
                ],
                "summary": "Download an exported schedule",
                "produces": [
                    "text/csv",
                    "application/pdf"
                ],
                "parameters": [
                    {
                        "name": "token",
                        "in": "path",
                        "required": true,
                        "type": "string"
                    }
                ],
                "responses": {
                    "200": {
                        "description": "File"
                    },
                    "401": {
                        "description": "Invalid token",
                        "schema": {
                            "$ref": "#/definitions/ResponseEnvelope"
                        }
                    },
                    "404": {
                        "description": "Not found",
                        "schema": {
                            "$ref": "#/definitions/ResponseEnvelope"
                        }
                    }
                }
            }
        }
    },
    "definitions": {
        "AddFilterRequest": {
            "type": "object",
            "required": [
                "id",
                "criteria"
            ],
            "properties": {
                "id": {
                    "type": "string"
                },
                "criteria": {
                    "type": "object"
                }
            }
        },
        "FilterCriteriaRequest": {
            "type": "object",
            "properties": {
                "criteria": {
                    "type": "object"
                }
            }
        },
        "ActiveFilter": {
            "type": "object",
            "properties": {
                "id": {
                    "type": "string"
                },
                "name": {
                    "type": "string"
                },
                "criteria": {
                    "type": "object"
                },
                "displayValue": {
                    "type": "string"
                }
            }
        },
        "FilterState": {
            "type": "object",
            "properties": {
                "filters": {
                    "type": "array",
                    "items": {
                        "$ref": "#/definitions/ActiveFilter"
                    }
                }
            }
        },
        "SelectCourseRequest": {
            "type": "object",
            "required": [
                "courseId"
            ],
            "properties": {
                "courseId": {
                    "type": "string"
                },
                "isRequired": {
                    "type": "boolean"
                }
            }
        },
        "SetSectionRequest": {
            "type": "object",
            "properties": {
                "sectionNumber": {
                    "type": "string",
                    "x-nullable": true
                }
            }
        },
        "SetRequiredRequest": {
            "type": "object",
            "required": [
                "isRequired"
            ],
            "properties": {
                "isRequired": {
                    "type": "boolean"
                }
            }
        },
        "SelectionRecord": {
            "type": "object",
            "properties": {
                "courseId": {
                    "type": "string"
                },
                "sectionNumber": {
                    "type": "string",
                    "x-nullable": true
                },
                "computedTerm": {
                    "type": "string",
                    "x-nullable": true
                },
                "isRequired": {
                    "type": "boolean"
                },
                "position": {
                    "type": "integer"
                }
            }
        },
        "SelectionExport": {
            "type": "object",
            "properties": {
                "version": {
                    "type": "string"
                },
                "timestamp": {
                    "type": "string",
                    "format": "date-time"
                },
                "selectedCourses": {
                    "type": "array",
                    "items": {
                        "$ref": "#/definitions/SelectionRecord"
                    }
                }
            }
        },
        "SectionRef": {
            "type": "object",
            "required": [
                "courseId",
                "sectionNumber"
            ],
            "properties": {
                "courseId": {
                    "type": "string"
                },
                "sectionNumber": {
                    "type": "string"
                }
            }
        },
        "ConflictCheckRequest": {
            "type": "object",
            "required": [
                "sections"
            ],
            "properties": {
                "sections": {
                    "type": "array",
                    "items": {
                        "$ref": "#/definitions/SectionRef"
                    }
                }
            }
        },
        "ExportRequest": {
            "type": "object",
            "required": [
                "format"
            ],
            "properties": {
                "format": {
                    "type": "string",
                    "enum": [
                        "csv",
                        "pdf"
                    ]
                }
            }
        },
        "Pagination": {
            "type": "object",
            "properties": {
                "page": {
                    "type": "integer"
                },
                "page_size": {
                    "type": "integer"
                },
                "total_count": {
                    "type": "integer"
                }
            }
        },
        "APIError": {
            "type": "object",
            "properties": {
                "code": {
                    "type": "string"
                },
                "message": {
                    "type": "string"
                },
                "status": {
                    "type": "integer"
                }
            }
        },
        "ResponseEnvelope": {
            "type": "object",
            "properties": {
                "data": {
                    "type": "object"
                },
                "error": {
                    "$ref": "#/definitions/APIError"
                },
                "pagination": {
                    "$ref": "#/definitions/Pagination"
                },
                "meta": {
                    "type": "object"
                }
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
