// Package docs registra a especificação OpenAPI do posconsole (formato gerado pelo swag).
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
        "ApiKeyAuth": {
            "type": "apiKey",
            "name": "Authorization",
            "in": "header"
        }
    },
    "paths": {
        "/drafts": {
            "post": {
                "security": [{"ApiKeyAuth": []}],
                "tags": ["drafts"],
                "summary": "Cria um rascunho de transação",
                "parameters": [{"in": "body", "name": "draft", "schema": {"$ref": "#/definitions/draftservice.DraftPatch"}}],
                "responses": {
                    "201": {"description": "Created", "schema": {"$ref": "#/definitions/draftservice.DraftView"}},
                    "400": {"description": "Payload inválido", "schema": {"$ref": "#/definitions/domain.ErrorResponse"}}
                }
            }
        },
        "/drafts/{id}": {
            "get": {
                "security": [{"ApiKeyAuth": []}],
                "tags": ["drafts"],
                "summary": "Obtém um rascunho",
                "parameters": [{"type": "string", "name": "id", "in": "path", "required": true}],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/draftservice.DraftView"}},
                    "404": {"description": "Rascunho não encontrado", "schema": {"$ref": "#/definitions/domain.ErrorResponse"}}
                }
            },
            "patch": {
                "security": [{"ApiKeyAuth": []}],
                "tags": ["drafts"],
                "summary": "Altera campos do rascunho",
                "parameters": [
                    {"type": "string", "name": "id", "in": "path", "required": true},
                    {"in": "body", "name": "patch", "required": true, "schema": {"$ref": "#/definitions/draftservice.DraftPatch"}}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/draftservice.DraftView"}},
                    "409": {"description": "Envio em andamento", "schema": {"$ref": "#/definitions/domain.ErrorResponse"}}
                }
            },
            "delete": {
                "security": [{"ApiKeyAuth": []}],
                "tags": ["drafts"],
                "summary": "Descarta um rascunho",
                "parameters": [{"type": "string", "name": "id", "in": "path", "required": true}],
                "responses": {"204": {"description": "No Content"}}
            }
        },
        "/drafts/{id}/query": {
            "put": {
                "security": [{"ApiKeyAuth": []}],
                "tags": ["drafts"],
                "summary": "Registra uma digitação na busca",
                "parameters": [
                    {"type": "string", "name": "id", "in": "path", "required": true},
                    {"in": "body", "name": "query", "required": true, "schema": {"$ref": "#/definitions/draft.QueryRequest"}}
                ],
                "responses": {"202": {"description": "Accepted"}}
            }
        },
        "/drafts/{id}/candidates": {
            "get": {
                "security": [{"ApiKeyAuth": []}],
                "tags": ["drafts"],
                "summary": "Lista os candidatos da última busca válida",
                "parameters": [{"type": "string", "name": "id", "in": "path", "required": true}],
                "responses": {"200": {"description": "OK", "schema": {"type": "array", "items": {"$ref": "#/definitions/domain.CandidateItem"}}}}
            }
        },
        "/drafts/{id}/items": {
            "post": {
                "security": [{"ApiKeyAuth": []}],
                "tags": ["drafts"],
                "summary": "Inclui um item no rascunho",
                "parameters": [
                    {"type": "string", "name": "id", "in": "path", "required": true},
                    {"in": "body", "name": "item", "required": true, "schema": {"$ref": "#/definitions/draftservice.AddItemRequest"}}
                ],
                "responses": {"200": {"description": "OK", "schema": {"$ref": "#/definitions/draftservice.DraftView"}}}
            }
        },
        "/drafts/{id}/items/{key}": {
            "put": {
                "security": [{"ApiKeyAuth": []}],
                "tags": ["drafts"],
                "summary": "Altera a quantidade de um item",
                "parameters": [
                    {"type": "string", "name": "id", "in": "path", "required": true},
                    {"type": "string", "name": "key", "in": "path", "required": true},
                    {"in": "body", "name": "quantity", "required": true, "schema": {"$ref": "#/definitions/draft.QuantityRequest"}}
                ],
                "responses": {"200": {"description": "OK", "schema": {"$ref": "#/definitions/draftservice.DraftView"}}}
            },
            "delete": {
                "security": [{"ApiKeyAuth": []}],
                "tags": ["drafts"],
                "summary": "Remove um item do rascunho",
                "parameters": [
                    {"type": "string", "name": "id", "in": "path", "required": true},
                    {"type": "string", "name": "key", "in": "path", "required": true}
                ],
                "responses": {"200": {"description": "OK", "schema": {"$ref": "#/definitions/draftservice.DraftView"}}}
            }
        },
        "/drafts/{id}/payload": {
            "get": {
                "security": [{"ApiKeyAuth": []}],
                "tags": ["drafts"],
                "summary": "Prévia do payload de envio",
                "parameters": [{"type": "string", "name": "id", "in": "path", "required": true}],
                "responses": {"200": {"description": "OK", "schema": {"$ref": "#/definitions/domain.BulkTransactionRequest"}}}
            }
        },
        "/drafts/{id}/submit": {
            "post": {
                "security": [{"ApiKeyAuth": []}],
                "tags": ["drafts"],
                "summary": "Envia o rascunho ao backend",
                "parameters": [{"type": "string", "name": "id", "in": "path", "required": true}],
                "responses": {
                    "201": {"description": "Created", "schema": {"$ref": "#/definitions/draftservice.SubmitResult"}},
                    "400": {"description": "Rascunho inválido", "schema": {"$ref": "#/definitions/domain.ErrorResponse"}},
                    "409": {"description": "Envio em andamento", "schema": {"$ref": "#/definitions/domain.ErrorResponse"}},
                    "502": {"description": "Backend rejeitou a transação", "schema": {"$ref": "#/definitions/domain.ErrorResponse"}}
                }
            }
        },
        "/submissions": {
            "get": {
                "security": [{"ApiKeyAuth": []}],
                "tags": ["drafts"],
                "summary": "Lista as submissões do operador",
                "parameters": [{"type": "integer", "name": "limit", "in": "query"}],
                "responses": {"200": {"description": "OK"}}
            }
        },
        "/points-of-sale": {
            "get": {
                "security": [{"ApiKeyAuth": []}],
                "tags": ["points-of-sale"],
                "summary": "Lista os pontos de venda",
                "responses": {"200": {"description": "OK"}}
            }
        },
        "/transactions": {
            "get": {
                "security": [{"ApiKeyAuth": []}],
                "tags": ["transactions"],
                "summary": "Histórico enriquecido de transações",
                "parameters": [
                    {"type": "integer", "name": "userId", "in": "query"},
                    {"type": "string", "name": "startDate", "in": "query"},
                    {"type": "string", "name": "endDate", "in": "query"}
                ],
                "responses": {"200": {"description": "OK"}}
            }
        },
        "/transactions/summary": {
            "get": {
                "security": [{"ApiKeyAuth": []}],
                "tags": ["transactions"],
                "summary": "Resumo do histórico por tipo",
                "responses": {"200": {"description": "OK"}}
            }
        },
        "/transactions/export": {
            "get": {
                "security": [{"ApiKeyAuth": []}],
                "tags": ["transactions"],
                "summary": "Exporta o histórico enriquecido",
                "parameters": [{"type": "string", "name": "format", "in": "query", "enum": ["csv", "xlsx"]}],
                "responses": {"200": {"description": "OK"}}
            }
        }
    },
    "definitions": {
        "domain.ErrorResponse": {
            "type": "object",
            "properties": {
                "code": {"type": "integer", "example": 400},
                "category": {"type": "string", "example": "VALIDATION_ERROR"},
                "message": {"type": "string"},
                "fields": {"type": "object", "additionalProperties": {"type": "string"}}
            }
        },
        "domain.CandidateItem": {
            "type": "object",
            "properties": {
                "id": {"type": "integer"},
                "inventoryId": {"type": "integer"},
                "productId": {"type": "integer"},
                "productName": {"type": "string"},
                "productSku": {"type": "string"},
                "stockQuantity": {"type": "integer"},
                "price": {"type": "string"}
            }
        },
        "domain.BulkTransactionRequest": {
            "type": "object",
            "properties": {
                "transactionType": {"type": "string", "enum": ["sale", "restock", "adjustment", "transfer"]},
                "remarks": {"type": "string"},
                "paymentMethod": {"type": "string"},
                "discount": {"type": "number"},
                "sourcePointOfSaleId": {"type": "integer"},
                "destinationPointOfSaleId": {"type": "integer"},
                "items": {"type": "array", "items": {"type": "object"}}
            }
        },
        "draft.QueryRequest": {
            "type": "object",
            "properties": {"query": {"type": "string"}}
        },
        "draft.QuantityRequest": {
            "type": "object",
            "required": ["quantity"],
            "properties": {"quantity": {"type": "integer"}}
        },
        "draftservice.DraftPatch": {
            "type": "object",
            "properties": {
                "transactionType": {"type": "string", "enum": ["sale", "restock", "adjustment", "transfer"]},
                "pointOfSaleId": {"type": "integer"},
                "destinationPointOfSaleId": {"type": "integer"},
                "paymentMethod": {"type": "string", "enum": ["cash", "card", "qr"]},
                "discount": {"type": "string"},
                "remarks": {"type": "string"}
            }
        },
        "draftservice.AddItemRequest": {
            "type": "object",
            "properties": {
                "candidateId": {"type": "integer"},
                "candidate": {"$ref": "#/definitions/domain.CandidateItem"},
                "quantity": {"type": "integer"}
            }
        },
        "draftservice.DraftView": {
            "type": "object",
            "properties": {
                "id": {"type": "string"},
                "state": {"type": "object"},
                "totals": {"type": "object"},
                "validation": {"type": "object"},
                "query": {"type": "string"},
                "submitting": {"type": "boolean"}
            }
        },
        "draftservice.SubmitResult": {
            "type": "object",
            "properties": {
                "draftId": {"type": "string"},
                "idempotencyKey": {"type": "string"},
                "transactionGroupId": {"type": "string"}
            }
        }
    }
}`

// SwaggerInfo guarda as informações exportadas da especificação.
var SwaggerInfo = &swag.Spec{
	Version:          "1.0",
	Host:             "",
	BasePath:         "/v1",
	Schemes:          []string{},
	Title:            "posconsole API",
	Description:      "Composição e histórico de transações de inventário do console de ponto de venda.",
	InfoInstanceName: "swagger",
	SwaggerTemplate:  docTemplate,
}

func init() {
	swag.Register(SwaggerInfo.InstanceName(), SwaggerInfo)
}
