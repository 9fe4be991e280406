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
        "/auth/register": {"post": {"tags": ["auth"], "summary": "Register a player account", "responses": {"201": {"description": "Created"}, "400": {"description": "Invalid input"}, "409": {"description": "Email already taken"}}}},
        "/auth/login": {"post": {"tags": ["auth"], "summary": "Exchange credentials for a bearer token", "responses": {"200": {"description": "OK"}, "401": {"description": "Invalid credentials"}}}},
        "/users/me": {"get": {"tags": ["users"], "summary": "Profile of the authenticated user", "security": [{"BearerAuth": []}], "responses": {"200": {"description": "OK"}}}},
        "/clubs": {"post": {"tags": ["clubs"], "summary": "Create a club", "security": [{"BearerAuth": []}], "responses": {"201": {"description": "Created"}}}},
        "/clubs/{clubID}/memberships/{userID}": {"put": {"tags": ["clubs"], "summary": "Set a member role", "security": [{"BearerAuth": []}], "responses": {"200": {"description": "OK"}, "403": {"description": "Not a club admin"}}}},
        "/teams": {"post": {"tags": ["teams"], "summary": "Form a doubles team", "security": [{"BearerAuth": []}], "responses": {"201": {"description": "Created"}}}},
        "/teams/{teamID}": {"get": {"tags": ["teams"], "summary": "Get a team", "security": [{"BearerAuth": []}], "responses": {"200": {"description": "OK"}, "404": {"description": "Not found"}}}},
        "/tournaments": {
            "get": {"tags": ["tournaments"], "summary": "List tournaments", "security": [{"BearerAuth": []}], "responses": {"200": {"description": "OK"}}},
            "post": {"tags": ["tournaments"], "summary": "Create a tournament in a club", "security": [{"BearerAuth": []}], "responses": {"201": {"description": "Created"}, "403": {"description": "Not a club admin"}}}
        },
        "/tournaments/{tournamentID}": {"get": {"tags": ["tournaments"], "summary": "Tournament with participants and recent activity", "security": [{"BearerAuth": []}], "responses": {"200": {"description": "OK"}, "404": {"description": "Not found"}}}},
        "/tournaments/{tournamentID}/participants": {"get": {"tags": ["tournaments"], "summary": "List participants", "security": [{"BearerAuth": []}], "responses": {"200": {"description": "OK"}}}},
        "/tournaments/{tournamentID}/activities": {"get": {"tags": ["tournaments"], "summary": "Activity log, newest first", "security": [{"BearerAuth": []}], "responses": {"200": {"description": "OK"}}}},
        "/tournaments/{tournamentID}/status": {"patch": {"tags": ["tournaments"], "summary": "Move a tournament through its lifecycle", "security": [{"BearerAuth": []}], "responses": {"200": {"description": "OK"}, "403": {"description": "Not host or admin"}, "409": {"description": "Transition not allowed"}}}},
        "/tournaments/{tournamentID}/logo": {"put": {"tags": ["tournaments"], "summary": "Upload a tournament logo", "consumes": ["multipart/form-data"], "security": [{"BearerAuth": []}], "responses": {"200": {"description": "OK"}}}},
        "/tournaments/{tournamentID}/registrations": {"post": {"tags": ["participants"], "summary": "Register for a tournament", "security": [{"BearerAuth": []}], "responses": {"201": {"description": "Created"}, "409": {"description": "Closed, full or already registered"}}}},
        "/tournaments/{tournamentID}/team-registrations": {"post": {"tags": ["participants"], "summary": "Register a doubles team", "security": [{"BearerAuth": []}], "responses": {"201": {"description": "Created"}}}},
        "/events": {"post": {"tags": ["applications"], "summary": "Create a league, lightning or generic event", "security": [{"BearerAuth": []}], "responses": {"201": {"description": "Created"}}}},
        "/events/{eventID}/applications": {"get": {"tags": ["applications"], "summary": "Applications to an event (host only)", "security": [{"BearerAuth": []}], "responses": {"200": {"description": "OK"}}}},
        "/applications": {"post": {"tags": ["applications"], "summary": "Apply to an event", "security": [{"BearerAuth": []}], "responses": {"201": {"description": "Created"}}}},
        "/applications/{applicationID}/approve": {"post": {"tags": ["applications"], "summary": "Approve an event application", "security": [{"BearerAuth": []}], "responses": {"200": {"description": "OK"}, "403": {"description": "Not the event host"}, "404": {"description": "Not found"}}}},
        "/ws/tournaments/{tournamentID}": {"get": {"tags": ["realtime"], "summary": "Websocket stream of tournament activity", "security": [{"BearerAuth": []}], "responses": {"101": {"description": "Switching protocols"}}}}
    }
}`

var SwaggerInfo = &swag.Spec{
	Version:          "1.0",
	Host:             "",
	BasePath:         "/api/v1",
	Schemes:          []string{},
	Title:            "Club Tournaments API",
	Description:      "Tournament registry, registrations, lifecycle and event applications for clubs.",
	InfoInstanceName: "swagger",
	SwaggerTemplate:  docTemplate,
	LeftDelim:        "{{",
	RightDelim:       "}}",
}

func init() {
	swag.Register(SwaggerInfo.InstanceName(), SwaggerInfo)
}
