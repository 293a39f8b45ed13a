// Package docs registers the OpenAPI document that the swagger UI serves at
// /swagger/doc.json.
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
    "securityDefinitions": {
        "BearerAuth": {
            "type": "apiKey",
            "name": "Authorization",
            "in": "header",
            "description": "Escribe 'Bearer TU_TOKEN_JWT' para autorizar"
        }
    },
    "paths": {
        "/api/auth/register": {
            "post": {
                "tags": ["Auth"],
                "summary": "Registrar nuevo usuario",
                "consumes": ["application/json"],
                "produces": ["application/json"],
                "parameters": [{"name": "registerBody", "in": "body", "required": true, "schema": {"$ref": "#/definitions/auth.RegisterRequest"}}],
                "responses": {
                    "201": {"description": "Usuario registrado exitosamente", "schema": {"$ref": "#/definitions/respond.Envelope"}},
                    "400": {"description": "Datos incompletos o contraseña inválida", "schema": {"$ref": "#/definitions/respond.Envelope"}},
                    "409": {"description": "El usuario ya existe", "schema": {"$ref": "#/definitions/respond.Envelope"}}
                }
            }
        },
        "/api/auth/login": {
            "post": {
                "tags": ["Auth"],
                "summary": "Iniciar sesión",
                "consumes": ["application/json"],
                "produces": ["application/json"],
                "parameters": [{"name": "loginBody", "in": "body", "required": true, "schema": {"$ref": "#/definitions/auth.LoginRequest"}}],
                "responses": {
                    "200": {"description": "Login exitoso", "schema": {"$ref": "#/definitions/respond.Envelope"}},
                    "400": {"description": "Usuario y contraseña son requeridos", "schema": {"$ref": "#/definitions/respond.Envelope"}},
                    "401": {"description": "Credenciales inválidas", "schema": {"$ref": "#/definitions/respond.Envelope"}}
                }
            }
        },
        "/api/auth/me": {
            "get": {
                "tags": ["Auth"],
                "summary": "Obtener usuario actual",
                "produces": ["application/json"],
                "security": [{"BearerAuth": []}],
                "responses": {
                    "200": {"description": "Información del usuario", "schema": {"$ref": "#/definitions/respond.Envelope"}},
                    "401": {"description": "Token no proporcionado, inválido o expirado", "schema": {"$ref": "#/definitions/respond.Envelope"}}
                }
            }
        },
        "/api/usuarios": {
            "get": {
                "tags": ["Usuarios"],
                "summary": "Listar usuarios",
                "produces": ["application/json"],
                "responses": {"200": {"description": "OK", "schema": {"$ref": "#/definitions/respond.Envelope"}}}
            },
            "post": {
                "tags": ["Usuarios"],
                "summary": "Crear o actualizar un usuario",
                "consumes": ["application/json"],
                "produces": ["application/json"],
                "parameters": [{"name": "body", "in": "body", "required": true, "schema": {"$ref": "#/definitions/usuarios.GuardarRequest"}}],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/respond.Envelope"}},
                    "409": {"description": "El usuario ya existe", "schema": {"$ref": "#/definitions/respond.Envelope"}}
                }
            }
        },
        "/api/usuarios/{id}": {
            "get": {
                "tags": ["Usuarios"],
                "summary": "Obtener un usuario",
                "produces": ["application/json"],
                "parameters": [{"name": "id", "in": "path", "required": true, "type": "integer"}],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/respond.Envelope"}},
                    "404": {"description": "Usuario no encontrado", "schema": {"$ref": "#/definitions/respond.Envelope"}}
                }
            },
            "delete": {
                "tags": ["Usuarios"],
                "summary": "Eliminar un usuario",
                "produces": ["application/json"],
                "parameters": [{"name": "id", "in": "path", "required": true, "type": "integer"}],
                "responses": {
                    "200": {"description": "Usuario eliminado", "schema": {"$ref": "#/definitions/respond.Envelope"}},
                    "404": {"description": "Usuario no encontrado", "schema": {"$ref": "#/definitions/respond.Envelope"}}
                }
            }
        },
        "/api/clientes": {
            "get": {
                "tags": ["Clientes"],
                "summary": "Listar clientes",
                "produces": ["application/json"],
                "responses": {"200": {"description": "OK", "schema": {"$ref": "#/definitions/respond.Envelope"}}}
            },
            "post": {
                "tags": ["Clientes"],
                "summary": "Crear o actualizar un cliente",
                "consumes": ["application/json"],
                "produces": ["application/json"],
                "parameters": [{"name": "body", "in": "body", "required": true, "schema": {"$ref": "#/definitions/clientes.GuardarRequest"}}],
                "responses": {"200": {"description": "OK", "schema": {"$ref": "#/definitions/respond.Envelope"}}}
            }
        },
        "/api/clientes/{id}": {
            "get": {
                "tags": ["Clientes"],
                "summary": "Obtener un cliente",
                "produces": ["application/json"],
                "parameters": [{"name": "id", "in": "path", "required": true, "type": "integer"}],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/respond.Envelope"}},
                    "404": {"description": "Cliente no encontrado", "schema": {"$ref": "#/definitions/respond.Envelope"}}
                }
            },
            "delete": {
                "tags": ["Clientes"],
                "summary": "Eliminar un cliente",
                "produces": ["application/json"],
                "parameters": [{"name": "id", "in": "path", "required": true, "type": "integer"}],
                "responses": {
                    "200": {"description": "Cliente eliminado", "schema": {"$ref": "#/definitions/respond.Envelope"}},
                    "404": {"description": "Cliente no encontrado", "schema": {"$ref": "#/definitions/respond.Envelope"}}
                }
            }
        }
    },
    "definitions": {
        "auth.RegisterRequest": {
            "type": "object",
            "properties": {
                "nombre": {"type": "string", "example": "Juan Pérez"},
                "usuario": {"type": "string", "example": "juanperez"},
                "password": {"type": "string", "example": "password123"}
            }
        },
        "auth.LoginRequest": {
            "type": "object",
            "properties": {
                "usuario": {"type": "string", "example": "juanperez"},
                "password": {"type": "string", "example": "password123"}
            }
        },
        "usuarios.GuardarRequest": {
            "type": "object",
            "properties": {
                "id": {"type": "integer"},
                "nombre": {"type": "string", "example": "Juan Pérez"},
                "usuario": {"type": "string", "example": "juanperez"},
                "activo": {"type": "integer", "example": 1},
                "password": {"type": "string"}
            }
        },
        "clientes.GuardarRequest": {
            "type": "object",
            "properties": {
                "id": {"type": "integer"},
                "nombre": {"type": "string", "example": "María López"},
                "edad": {"type": "integer", "example": 25},
                "telefono": {"type": "string", "example": "300112233"},
                "direccion": {"type": "string", "example": "Carrera 7 #54 - 12, Bogotá"}
            }
        },
        "respond.Envelope": {
            "type": "object",
            "properties": {
                "error": {"type": "boolean"},
                "status": {"type": "integer"},
                "body": {}
            }
        }
    }
}`

// SwaggerInfo holds exported Swagger Info so clients can modify it.
var SwaggerInfo = &swag.Spec{
	Version:          "1.0",
	Host:             "",
	BasePath:         "/",
	Schemes:          []string{},
	Title:            "Primer Backend API",
	Description:      "API REST de clientes y usuarios con autenticación JWT.",
	InfoInstanceName: "swagger",
	SwaggerTemplate:  docTemplate,
}

func init() {
	swag.Register(SwaggerInfo.InstanceName(), SwaggerInfo)
}
