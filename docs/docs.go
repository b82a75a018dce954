// Package docs registers the swagger document of the readings API.
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
        "/readings": {
            "get": {
                "produces": ["application/json"],
                "tags": ["readings"],
                "summary": "Recent readings",
                "parameters": [
                    {"type": "integer", "description": "Number of readings", "name": "count", "in": "query", "required": true}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"type": "array", "items": {"$ref": "#/definitions/models.Reading"}}},
                    "400": {"description": "Bad Request", "schema": {"$ref": "#/definitions/errors.APIError"}},
                    "500": {"description": "Internal Server Error", "schema": {"$ref": "#/definitions/errors.APIError"}}
                }
            },
            "post": {
                "security": [{"BearerAuth": []}],
                "consumes": ["application/json"],
                "produces": ["application/json"],
                "tags": ["readings"],
                "summary": "Submit one reading",
                "parameters": [
                    {"description": "Reading", "name": "reading", "in": "body", "required": true, "schema": {"$ref": "#/definitions/models.SingleReadingRequest"}}
                ],
                "responses": {
                    "201": {"description": "Created", "schema": {"$ref": "#/definitions/models.Reading"}},
                    "400": {"description": "Bad Request", "schema": {"$ref": "#/definitions/errors.APIError"}},
                    "500": {"description": "Internal Server Error", "schema": {"$ref": "#/definitions/errors.APIError"}}
                }
            }
        },
        "/readings/batch": {
            "post": {
                "security": [{"BearerAuth": []}],
                "consumes": ["application/json"],
                "produces": ["application/json"],
                "tags": ["readings"],
                "summary": "Submit a batch of readings",
                "parameters": [
                    {"description": "Device and readings", "name": "batch", "in": "body", "required": true, "schema": {"$ref": "#/definitions/models.BatchRequest"}}
                ],
                "responses": {
                    "201": {"description": "Created", "schema": {"type": "array", "items": {"$ref": "#/definitions/models.Reading"}}},
                    "400": {"description": "Bad Request", "schema": {"$ref": "#/definitions/errors.APIError"}},
                    "500": {"description": "Internal Server Error", "schema": {"$ref": "#/definitions/errors.APIError"}}
                }
            }
        },
        "/devices": {
            "get": {
                "produces": ["application/json"],
                "tags": ["devices"],
                "summary": "List devices",
                "responses": {
                    "200": {"description": "OK", "schema": {"type": "array", "items": {"$ref": "#/definitions/models.Device"}}}
                }
            }
        },
        "/devices/{id}": {
            "get": {
                "produces": ["application/json"],
                "tags": ["devices"],
                "summary": "Get a device by ID",
                "parameters": [
                    {"type": "integer", "description": "Device ID", "name": "id", "in": "path", "required": true}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/models.Device"}},
                    "404": {"description": "Not Found", "schema": {"$ref": "#/definitions/errors.APIError"}}
                }
            }
        },
        "/devices/{id}/readings": {
            "get": {
                "description": "Paginated readings of one device, newest first. The date range is [startDate, endDate).",
                "produces": ["application/json"],
                "tags": ["devices"],
                "summary": "Readings of a device",
                "parameters": [
                    {"type": "integer", "description": "Device ID", "name": "id", "in": "path", "required": true},
                    {"type": "integer", "description": "Page number (default 1)", "name": "page", "in": "query"},
                    {"type": "integer", "description": "Page size (default 60)", "name": "limit", "in": "query"},
                    {"type": "string", "description": "Inclusive lower bound (RFC3339 or YYYY-MM-DD)", "name": "startDate", "in": "query"},
                    {"type": "string", "description": "Exclusive upper bound (RFC3339 or YYYY-MM-DD)", "name": "endDate", "in": "query"},
                    {"type": "integer", "description": "Sensor ID", "name": "sensorId", "in": "query"}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/models.ReadingPage"}},
                    "400": {"description": "Bad Request", "schema": {"$ref": "#/definitions/errors.APIError"}},
                    "500": {"description": "Internal Server Error", "schema": {"$ref": "#/definitions/errors.APIError"}}
                }
            }
        },
        "/devices/{id}/latest": {
            "get": {
                "produces": ["application/json"],
                "tags": ["devices"],
                "summary": "Latest cached values of a device",
                "parameters": [
                    {"type": "integer", "description": "Device ID", "name": "id", "in": "path", "required": true}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"type": "array", "items": {"$ref": "#/definitions/models.LatestValue"}}},
                    "404": {"description": "Not Found", "schema": {"$ref": "#/definitions/errors.APIError"}},
                    "503": {"description": "Service Unavailable", "schema": {"$ref": "#/definitions/errors.APIError"}}
                }
            }
        },
        "/sensors": {
            "get": {
                "produces": ["application/json"],
                "tags": ["sensors"],
                "summary": "List sensors",
                "responses": {
                    "200": {"description": "OK", "schema": {"type": "array", "items": {"$ref": "#/definitions/models.Sensor"}}}
                }
            }
        }
    },
    "definitions": {
        "errors.APIError": {
            "type": "object",
            "properties": {
                "type": {"type": "string"},
                "message": {"type": "string"},
                "code": {"type": "integer"},
                "request_id": {"type": "string"},
                "details": {}
            }
        },
        "models.Reading": {
            "type": "object",
            "properties": {
                "reading_id": {"type": "integer"},
                "device_id": {"type": "integer"},
                "sensor_id": {"type": "integer"},
                "value": {"type": "number"},
                "timestamp": {"type": "string"}
            }
        },
        "models.DeviceReading": {
            "type": "object",
            "properties": {
                "reading_id": {"type": "integer"},
                "value": {"type": "number"},
                "timestamp": {"type": "string"},
                "sensor_name": {"type": "string"}
            }
        },
        "models.ReadingPage": {
            "type": "object",
            "properties": {
                "data": {"type": "array", "items": {"$ref": "#/definitions/models.DeviceReading"}},
                "total": {"type": "integer"},
                "totalPages": {"type": "integer"},
                "currentPage": {"type": "integer"}
            }
        },
        "models.ReadingInput": {
            "type": "object",
            "properties": {
                "sensor_id": {"type": "integer"},
                "value": {"type": "number"}
            }
        },
        "models.BatchRequest": {
            "type": "object",
            "properties": {
                "device_id": {"type": "integer"},
                "values": {"type": "array", "items": {"$ref": "#/definitions/models.ReadingInput"}}
            }
        },
        "models.SingleReadingRequest": {
            "type": "object",
            "properties": {
                "device_id": {"type": "integer"},
                "sensor_id": {"type": "integer"},
                "value": {"type": "number"}
            }
        },
        "models.LatestValue": {
            "type": "object",
            "properties": {
                "reading_id": {"type": "integer"},
                "sensor_id": {"type": "integer"},
                "value": {"type": "number"},
                "timestamp": {"type": "string"}
            }
        },
        "models.Device": {
            "type": "object",
            "properties": {
                "device_id": {"type": "integer"},
                "device_name": {"type": "string"},
                "location": {"type": "string"}
            }
        },
        "models.Sensor": {
            "type": "object",
            "properties": {
                "sensor_id": {"type": "integer"},
                "sensor_name": {"type": "string"}
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
	BasePath:         "/api/v1",
	Schemes:          []string{},
	Title:            "HomeGraph Readings API",
	Description:      "Ingestion and retrieval of device sensor readings.",
	InfoInstanceName: "swagger",
	SwaggerTemplate:  docTemplate,
	LeftDelim:        "{{",
	RightDelim:       "}}",
}

func init() {
	swag.Register(SwaggerInfo.InstanceName(), SwaggerInfo)
}
