// Package docs registra la definición OpenAPI servida en /swagger/*.
// El template se mantiene a mano (rutas, parámetros y request bodies); los
// esquemas de respuesta de las anotaciones @Success recién aparecen al
// regenerarlo con: swag init -g cmd/api/main.go
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
            "get": {"tags": ["health"], "summary": "Liveness", "responses": {"200": {"description": "ok"}}}
        },
        "/medicines": {
            "get": {
                "tags": ["medicines"], "summary": "Lista medicamentos del usuario",
                "parameters": [
                    {"type": "string", "name": "q", "in": "query"},
                    {"type": "string", "name": "frequency", "in": "query", "description": "all | daily | weekly | other"},
                    {"type": "string", "name": "X-Debug-User-ID", "in": "header"}
                ],
                "responses": {"200": {"description": "OK"}, "401": {"description": "unauthorized"}}
            },
            "post": {
                "tags": ["medicines"], "summary": "Crea un medicamento",
                "parameters": [{"name": "body", "in": "body", "required": true, "schema": {"$ref": "#/definitions/createMedicineRequest"}}],
                "responses": {"201": {"description": "Created"}, "400": {"description": "validation"}}
            }
        },
        "/medicines/summary": {
            "get": {"tags": ["medicines"], "summary": "Conteo por tipo", "responses": {"200": {"description": "OK"}}}
        },
        "/medicines/{medicineID}": {
            "get": {"tags": ["medicines"], "summary": "Detalle", "parameters": [{"type": "string", "name": "medicineID", "in": "path", "required": true}], "responses": {"200": {"description": "OK"}, "404": {"description": "not found"}}},
            "patch": {"tags": ["medicines"], "summary": "Actualiza", "parameters": [{"type": "string", "name": "medicineID", "in": "path", "required": true}], "responses": {"200": {"description": "OK"}, "400": {"description": "validation"}, "404": {"description": "not found"}}},
            "delete": {"tags": ["medicines"], "summary": "Elimina", "parameters": [{"type": "string", "name": "medicineID", "in": "path", "required": true}], "responses": {"204": {"description": "No Content"}, "404": {"description": "not found"}}}
        },
        "/medicines/taken": {
            "get": {"tags": ["schedule"], "summary": "Log de tomas", "parameters": [{"type": "string", "name": "from", "in": "query"}, {"type": "string", "name": "to", "in": "query"}], "responses": {"200": {"description": "OK"}}},
            "post": {"tags": ["schedule"], "summary": "Marca una toma", "parameters": [{"name": "body", "in": "body", "required": true, "schema": {"$ref": "#/definitions/doseKey"}}], "responses": {"200": {"description": "OK"}, "404": {"description": "not found"}, "409": {"description": "inconsistent state"}}},
            "delete": {"tags": ["schedule"], "summary": "Desmarca una toma", "parameters": [{"type": "string", "name": "medicine_id", "in": "query", "required": true}, {"type": "string", "name": "date", "in": "query", "required": true}, {"type": "string", "name": "time_slot", "in": "query", "required": true}], "responses": {"204": {"description": "No Content"}}}
        },
        "/schedule": {
            "get": {"tags": ["schedule"], "summary": "Agenda del día", "parameters": [{"type": "string", "name": "date", "in": "query", "description": "YYYY-MM-DD, default hoy"}], "responses": {"200": {"description": "OK"}}}
        },
        "/schedule/next": {
            "get": {"tags": ["schedule"], "summary": "Próximas tomas de hoy", "parameters": [{"type": "integer", "name": "limit", "in": "query"}], "responses": {"200": {"description": "OK"}}}
        },
        "/calendar": {
            "get": {"tags": ["schedule"], "summary": "Indicadores del mes", "parameters": [{"type": "string", "name": "month", "in": "query", "description": "YYYY-MM"}], "responses": {"200": {"description": "OK"}}}
        },
        "/adherence": {
            "get": {"tags": ["schedule"], "summary": "Resumen de adherencia", "parameters": [{"type": "string", "name": "from", "in": "query"}, {"type": "string", "name": "to", "in": "query"}], "responses": {"200": {"description": "OK"}, "400": {"description": "validation"}}}
        },
        "/users/profile": {
            "get": {"tags": ["profile"], "summary": "Perfil", "responses": {"200": {"description": "OK"}}},
            "put": {"tags": ["profile"], "summary": "Actualiza perfil", "responses": {"200": {"description": "OK"}, "400": {"description": "validation"}}}
        },
        "/notifications": {
            "get": {"tags": ["notifications"], "summary": "Lista + badge", "responses": {"200": {"description": "OK"}}}
        },
        "/notifications/read-all": {
            "post": {"tags": ["notifications"], "summary": "Marca todas leídas", "responses": {"200": {"description": "OK"}}}
        },
        "/notifications/{notificationID}/read": {
            "post": {"tags": ["notifications"], "summary": "Marca leída", "parameters": [{"type": "string", "name": "notificationID", "in": "path", "required": true}], "responses": {"200": {"description": "OK"}, "404": {"description": "not found"}}}
        },
        "/notifications/{notificationID}": {
            "delete": {"tags": ["notifications"], "summary": "Descarta", "parameters": [{"type": "string", "name": "notificationID", "in": "path", "required": true}], "responses": {"204": {"description": "No Content"}, "404": {"description": "not found"}}}
        }
    },
    "definitions": {
        "createMedicineRequest": {
            "type": "object",
            "properties": {
                "name": {"type": "string"},
                "type": {"type": "string", "enum": ["tablet", "capsule", "liquid", "injection", "topical", "other"]},
                "color": {"type": "string"},
                "dosage": {"type": "string"},
                "start_date": {"type": "string", "example": "2023-10-01"},
                "end_date": {"type": "string"},
                "time_slots": {"type": "array", "items": {"type": "string", "example": "08:00"}},
                "days": {"type": "array", "items": {"type": "string", "example": "Mon"}},
                "notes": {"type": "string"}
            }
        },
        "doseKey": {
            "type": "object",
            "properties": {
                "medicine_id": {"type": "string"},
                "date": {"type": "string", "example": "2023-10-02"},
                "time_slot": {"type": "string", "example": "08:00"}
            }
        }
    }
}`

// SwaggerInfo holds exported Swagger Info so clients can modify it
var SwaggerInfo = &swag.Spec{
	Version:          "1.0",
	Host:             "",
	BasePath:         "/",
	Schemes:          []string{},
	Title:            "MediTrack API",
	Description:      "Agenda de medicamentos, registro de tomas y adherencia.",
	InfoInstanceName: "swagger",
	SwaggerTemplate:  docTemplate,
	LeftDelim:        "{{",
	RightDelim:       "}}",
}

func init() {
	swag.Register(SwaggerInfo.InstanceName(), SwaggerInfo)
}
