// Package docs registers the OpenAPI description served under /swagger.
package docs

import "github.com/swaggo/swag"

const docTemplate = `{
    "schemes": {{ marshal .Schemes }},
    "swagger": "2.0",
    "info": {
        "description": "{{escape .Description}}",
        "title": "{{.Title}}",
        "version": "{{.Version}}"
    },
    "host": "{{.Host}}",
    "basePath": "{{.BasePath}}",
    "securityDefinitions": {
        "BearerAuth": {"type": "apiKey", "name": "Authorization", "in": "header"}
    },
    "paths": {
        "/register": {"post": {"tags": ["Auth"], "summary": "Register an account and log in", "responses": {"201": {"description": "Created"}, "400": {"description": "Invalid field"}, "409": {"description": "Username or email taken"}}}},
        "/login": {"post": {"tags": ["Auth"], "summary": "Log in", "responses": {"200": {"description": "OK"}, "401": {"description": "Invalid credentials"}}}},
        "/login/demo": {"post": {"tags": ["Auth"], "summary": "Log in as a demo account", "responses": {"200": {"description": "OK"}}}},
        "/credentials": {
            "get": {"tags": ["Auth"], "summary": "Saved login prefill", "responses": {"200": {"description": "OK"}, "404": {"description": "Nothing saved"}}},
            "delete": {"tags": ["Auth"], "summary": "Forget saved credentials", "responses": {"204": {"description": "No Content"}}}
        },
        "/logout": {"post": {"tags": ["Auth"], "security": [{"BearerAuth": []}], "summary": "End the session", "responses": {"204": {"description": "No Content"}}}},
        "/session": {"get": {"tags": ["Auth"], "security": [{"BearerAuth": []}], "summary": "Current user, board and counters", "responses": {"200": {"description": "OK"}}}},
        "/users": {
            "get": {"tags": ["Users"], "security": [{"BearerAuth": []}], "summary": "List accounts (admin)", "responses": {"200": {"description": "OK"}, "403": {"description": "Forbidden"}}},
            "post": {"tags": ["Users"], "security": [{"BearerAuth": []}], "summary": "Add an account (admin)", "responses": {"201": {"description": "Created"}}}
        },
        "/users/{id}": {
            "put": {"tags": ["Users"], "security": [{"BearerAuth": []}], "summary": "Update a profile", "responses": {"200": {"description": "OK"}}},
            "delete": {"tags": ["Users"], "security": [{"BearerAuth": []}], "summary": "Delete an account (admin)", "responses": {"204": {"description": "No Content"}}}
        },
        "/users/{id}/stats": {"get": {"tags": ["Users"], "security": [{"BearerAuth": []}], "summary": "Task counts on a board", "responses": {"200": {"description": "OK"}}}},
        "/boards": {
            "get": {"tags": ["Boards"], "security": [{"BearerAuth": []}], "summary": "Boards of the current user", "responses": {"200": {"description": "OK"}}},
            "post": {"tags": ["Boards"], "security": [{"BearerAuth": []}], "summary": "Create and select a board", "responses": {"201": {"description": "Created"}}}
        },
        "/boards/join": {"post": {"tags": ["Board Sharing"], "security": [{"BearerAuth": []}], "summary": "Join by code or link", "responses": {"200": {"description": "OK"}, "404": {"description": "Unknown code"}}}},
        "/boards/{id}": {
            "get": {"tags": ["Boards"], "security": [{"BearerAuth": []}], "summary": "Get a board", "responses": {"200": {"description": "OK"}}},
            "delete": {"tags": ["Boards"], "security": [{"BearerAuth": []}], "summary": "Delete a board with its tasks", "responses": {"204": {"description": "No Content"}}}
        },
        "/boards/{id}/select": {"post": {"tags": ["Boards"], "security": [{"BearerAuth": []}], "summary": "Make the board current", "responses": {"200": {"description": "OK"}}}},
        "/boards/{id}/link": {"get": {"tags": ["Board Sharing"], "security": [{"BearerAuth": []}], "summary": "Shareable join link", "responses": {"200": {"description": "OK"}}}},
        "/boards/{id}/members": {"get": {"tags": ["Boards"], "security": [{"BearerAuth": []}], "summary": "Board members", "responses": {"200": {"description": "OK"}}}},
        "/boards/{id}/tasks": {"get": {"tags": ["Tasks"], "security": [{"BearerAuth": []}], "summary": "Tasks of a board", "responses": {"200": {"description": "OK"}}}},
        "/boards/{id}/columns": {"get": {"tags": ["Tasks"], "security": [{"BearerAuth": []}], "summary": "Tasks grouped by status", "responses": {"200": {"description": "OK"}}}},
        "/tasks": {
            "get": {"tags": ["Tasks"], "security": [{"BearerAuth": []}], "summary": "Tasks of the current board", "responses": {"200": {"description": "OK"}}},
            "post": {"tags": ["Tasks"], "security": [{"BearerAuth": []}], "summary": "Create a task", "responses": {"201": {"description": "Created"}}}
        },
        "/tasks/{id}": {
            "get": {"tags": ["Tasks"], "security": [{"BearerAuth": []}], "summary": "Get a task", "responses": {"200": {"description": "OK"}}},
            "put": {"tags": ["Tasks"], "security": [{"BearerAuth": []}], "summary": "Partially update a task", "responses": {"200": {"description": "OK"}}},
            "delete": {"tags": ["Tasks"], "security": [{"BearerAuth": []}], "summary": "Delete a task", "responses": {"204": {"description": "No Content"}}}
        },
        "/tasks/{id}/move": {"post": {"tags": ["Tasks"], "security": [{"BearerAuth": []}], "summary": "Change task status", "responses": {"200": {"description": "OK"}}}},
        "/tasks/{id}/comments": {"post": {"tags": ["Tasks"], "security": [{"BearerAuth": []}], "summary": "Add a comment", "responses": {"201": {"description": "Created"}}}},
        "/tasks/{id}/attachments": {"post": {"tags": ["Attachments"], "security": [{"BearerAuth": []}], "consumes": ["multipart/form-data"], "summary": "Upload an attachment", "responses": {"201": {"description": "Created"}}}},
        "/tasks/{id}/voice": {"post": {"tags": ["Attachments"], "security": [{"BearerAuth": []}], "consumes": ["multipart/form-data"], "summary": "Upload a voice message", "responses": {"201": {"description": "Created"}}}},
        "/notifications": {"get": {"tags": ["Notifications"], "security": [{"BearerAuth": []}], "summary": "Notifications, newest first", "responses": {"200": {"description": "OK"}}}},
        "/notifications/read-all": {"post": {"tags": ["Notifications"], "security": [{"BearerAuth": []}], "summary": "Mark everything read", "responses": {"200": {"description": "OK"}}}},
        "/notifications/{id}/read": {"post": {"tags": ["Notifications"], "security": [{"BearerAuth": []}], "summary": "Mark one read", "responses": {"204": {"description": "No Content"}}}}
    }
}`

// SwaggerInfo holds exported Swagger Info so clients can modify it
var SwaggerInfo = &swag.Spec{
	Version:          "1.0",
	Host:             "localhost:8080",
	BasePath:         "/",
	Schemes:          []string{"http"},
	Title:            "Task Board API",
	Description:      "Boards, tasks and notifications of the task board.",
	InfoInstanceName: "swagger",
	SwaggerTemplate:  docTemplate,
	LeftDelim:        "{{",
	RightDelim:       "}}",
}

func init() {
	swag.Register(SwaggerInfo.InstanceName(), SwaggerInfo)
}
