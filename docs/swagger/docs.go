// Package swagger holds the generated OpenAPI document served at /api/docs.
// Regenerate with: swag init -g internal/api/main_annotations.go -o docs/swagger
package swagger

import "github.com/swaggo/swag"

const docTemplate = `{
    "swagger": "2.0",
    "info": {
        "title": "{{.Title}}",
        "description": "{{escape .Description}}",
        "version": "{{.Version}}"
    },
    "basePath": "{{.BasePath}}",
    "securityDefinitions": {
        "BearerToken": {
            "type": "apiKey",
            "name": "Authorization",
            "in": "header",
            "description": "Type \"Bearer\" followed by a space and your API token. Example: \"Bearer sf_xxx\""
        }
    },
    "paths": {
        "/llm-config": {
            "get": {
                "tags": ["llm-config"],
                "summary": "Get LLM provider configuration",
                "produces": ["application/json"],
                "responses": {"200": {"description": "OK"}}
            },
            "put": {
                "tags": ["llm-config"],
                "summary": "Save LLM provider configuration",
                "consumes": ["application/json"],
                "produces": ["application/json"],
                "responses": {"200": {"description": "OK"}}
            },
            "delete": {
                "tags": ["llm-config"],
                "summary": "Delete LLM provider configuration",
                "responses": {"204": {"description": "No Content"}}
            }
        },
        "/llm-config/test": {
            "post": {
                "tags": ["llm-config"],
                "summary": "Test an LLM provider connection",
                "consumes": ["application/json"],
                "produces": ["application/json"],
                "responses": {"200": {"description": "OK"}}
            }
        },
        "/flashcards/generate": {
            "post": {
                "tags": ["flashcards"],
                "summary": "Generate flashcards from content",
                "consumes": ["application/json"],
                "produces": ["application/json"],
                "responses": {"200": {"description": "OK"}}
            }
        },
        "/images/extract-text": {
            "post": {
                "tags": ["images"],
                "summary": "Extract text from an image",
                "consumes": ["application/json"],
                "produces": ["application/json"],
                "responses": {"200": {"description": "OK"}}
            }
        },
        "/decks": {
            "get": {
                "tags": ["decks"],
                "summary": "List decks",
                "produces": ["application/json"],
                "responses": {"200": {"description": "OK"}}
            },
            "post": {
                "tags": ["decks"],
                "summary": "Create a deck",
                "consumes": ["application/json"],
                "produces": ["application/json"],
                "responses": {"201": {"description": "Created"}}
            }
        },
        "/decks/{id}/cards": {
            "post": {
                "tags": ["decks"],
                "summary": "Save flashcards into a deck",
                "consumes": ["application/json"],
                "produces": ["application/json"],
                "parameters": [
                    {"name": "id", "in": "path", "required": true, "type": "string", "description": "deck id"}
                ],
                "responses": {"200": {"description": "OK"}}
            }
        },
        "/tokens": {
            "get": {
                "tags": ["tokens"],
                "summary": "List API tokens",
                "produces": ["application/json"],
                "responses": {"200": {"description": "OK"}}
            },
            "post": {
                "tags": ["tokens"],
                "summary": "Create an API token",
                "consumes": ["application/json"],
                "produces": ["application/json"],
                "responses": {"201": {"description": "Created"}}
            }
        },
        "/tokens/{id}": {
            "delete": {
                "tags": ["tokens"],
                "summary": "Revoke an API token",
                "parameters": [
                    {"name": "id", "in": "path", "required": true, "type": "string", "description": "token id"}
                ],
                "responses": {"204": {"description": "No Content"}}
            }
        }
    }
}`

var SwaggerInfo = &swag.Spec{
	Version:          "1.0",
	Host:             "",
	BasePath:         "/api/v1",
	Schemes:          []string{},
	Title:            "StudyForge API",
	Description:      "Flashcard generation service backed by configurable LLM providers.",
	InfoInstanceName: "swagger",
	SwaggerTemplate:  docTemplate,
}

func init() {
	swag.Register(SwaggerInfo.InstanceName(), SwaggerInfo)
}
