// Package docs holds the swagger spec served under /api/swagger.
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
            "get": {
                "tags": [
                    "health"
                ],
                "summary": "Service health",
                "responses": {
                    "200": {
                        "description": "OK",
                        "schema": {
                            "type": "string"
                        }
                    }
                }
            }
        },
        "/bills": {
            "get": {
                "security": [
                    {
                        "BearerAuth": []
                    }
                ],
                "description": "Bills sorted from the most recent, with display dates and status labels",
                "produces": [
                    "application/json"
                ],
                "tags": [
                    "bills"
                ],
                "summary": "Bills of the logged in employee",
                "responses": {
                    "200": {
                        "description": "OK",
                        "schema": {
                            "$ref": "#/definitions/api.BillsPageResponse"
                        }
                    },
                    "401": {
                        "description": "Unauthorized",
                        "schema": {
                            "$ref": "#/definitions/api.ResponseError"
                        }
                    },
                    "403": {
                        "description": "Forbidden",
                        "schema": {
                            "$ref": "#/definitions/api.ResponseError"
                        }
                    },
                    "502": {
                        "description": "Store unreachable",
                        "schema": {
                            "$ref": "#/definitions/api.ResponseError"
                        }
                    }
                }
            }
        },
        "/bills/new": {
            "post": {
                "security": [
                    {
                        "BearerAuth": []
                    }
                ],
                "produces": [
                    "application/json"
                ],
                "tags": [
                    "bills"
                ],
                "summary": "\"Nouvelle note de frais\" button",
                "responses": {
                    "200": {
                        "description": "OK",
                        "schema": {
                            "$ref": "#/definitions/api.RouteResponse"
                        }
                    }
                }
            }
        },
        "/bills/{id}/preview": {
            "get": {
                "security": [
                    {
                        "BearerAuth": []
                    }
                ],
                "produces": [
                    "application/json"
                ],
                "tags": [
                    "bills"
                ],
                "summary": "Receipt preview of a bill",
                "parameters": [
                    {
                        "type": "string",
                        "description": "Bill ID",
                        "name": "id",
                        "in": "path",
                        "required": true
                    }
                ],
                "responses": {
                    "200": {
                        "description": "OK",
                        "schema": {
                            "$ref": "#/definitions/entity.Preview"
                        }
                    },
                    "404": {
                        "description": "Not Found",
                        "schema": {
                            "$ref": "#/definitions/api.ResponseError"
                        }
                    }
                }
            }
        },
        "/bills/{id}/receipt": {
            "get": {
                "security": [
                    {
                        "BearerAuth": []
                    }
                ],
                "produces": [
                    "application/octet-stream"
                ],
                "tags": [
                    "bills"
                ],
                "summary": "Download the receipt file of a bill",
                "parameters": [
                    {
                        "type": "string",
                        "description": "Bill ID",
                        "name": "id",
                        "in": "path",
                        "required": true
                    }
                ],
                "responses": {
                    "200": {
                        "description": "OK",
                        "schema": {
                            "type": "file"
                        }
                    },
                    "404": {
                        "description": "Not Found",
                        "schema": {
                            "$ref": "#/definitions/api.ResponseError"
                        }
                    },
                    "502": {
                        "description": "Bad Gateway",
                        "schema": {
                            "$ref": "#/definitions/api.ResponseError"
                        }
                    }
                }
            }
        },
        "/newbill": {
            "get": {
                "security": [
                    {
                        "BearerAuth": []
                    }
                ],
                "produces": [
                    "application/json"
                ],
                "tags": [
                    "newbill"
                ],
                "summary": "Open a fresh new bill form",
                "responses": {
                    "200": {
                        "description": "OK",
                        "schema": {
                            "$ref": "#/definitions/api.FormResponse"
                        }
                    }
                }
            },
            "post": {
                "security": [
                    {
                        "BearerAuth": []
                    }
                ],
                "consumes": [
                    "application/json"
                ],
                "produces": [
                    "application/json"
                ],
                "tags": [
                    "newbill"
                ],
                "summary": "Submit the new bill",
                "parameters": [
                    {
                        "description": "Form values",
                        "name": "request",
                        "in": "body",
                        "required": true,
                        "schema": {
                            "$ref": "#/definitions/entity.FormValues"
                        }
                    }
                ],
                "responses": {
                    "200": {
                        "description": "OK",
                        "schema": {
                            "$ref": "#/definitions/api.SubmitResponse"
                        }
                    },
                    "400": {
                        "description": "Bad Request",
                        "schema": {
                            "$ref": "#/definitions/api.ResponseError"
                        }
                    },
                    "409": {
                        "description": "No receipt attached",
                        "schema": {
                            "$ref": "#/definitions/api.ResponseError"
                        }
                    },
                    "422": {
                        "description": "Unprocessable Entity",
                        "schema": {
                            "$ref": "#/definitions/api.ResponseError"
                        }
                    },
                    "502": {
                        "description": "Bad Gateway",
                        "schema": {
                            "$ref": "#/definitions/api.ResponseError"
                        }
                    }
                }
            }
        },
        "/newbill/file": {
            "post": {
                "security": [
                    {
                        "BearerAuth": []
                    }
                ],
                "description": "Only jpg, jpeg and png files are accepted. The upload creates a pending draft.",
                "consumes": [
                    "multipart/form-data"
                ],
                "produces": [
                    "application/json"
                ],
                "tags": [
                    "newbill"
                ],
                "summary": "Attach a receipt to the new bill",
                "parameters": [
                    {
                        "type": "file",
                        "description": "Receipt",
                        "name": "file",
                        "in": "formData",
                        "required": true
                    }
                ],
                "responses": {
                    "200": {
                        "description": "OK",
                        "schema": {
                            "$ref": "#/definitions/api.FormResponse"
                        }
                    },
                    "400": {
                        "description": "Bad Request",
                        "schema": {
                            "$ref": "#/definitions/api.ResponseError"
                        }
                    },
                    "409": {
                        "description": "A newer file was selected",
                        "schema": {
                            "$ref": "#/definitions/api.ResponseError"
                        }
                    },
                    "422": {
                        "description": "Unsupported extension",
                        "schema": {
                            "$ref": "#/definitions/api.ResponseError"
                        }
                    },
                    "502": {
                        "description": "Bad Gateway",
                        "schema": {
                            "$ref": "#/definitions/api.ResponseError"
                        }
                    }
                }
            }
        }
    },
    "definitions": {
        "api.ResponseError": {
            "type": "object",
            "properties": {
                "error": {
                    "type": "string"
                },
                "field": {
                    "type": "string"
                },
                "message": {
                    "type": "string"
                }
            }
        },
        "api.RouteResponse": {
            "type": "object",
            "properties": {
                "path": {
                    "type": "string"
                },
                "route": {
                    "$ref": "#/definitions/entity.Route"
                }
            }
        },
        "api.BillsPageResponse": {
            "type": "object",
            "properties": {
                "activeIcon": {
                    "type": "string"
                },
                "bills": {
                    "type": "array",
                    "items": {
                        "$ref": "#/definitions/entity.BillView"
                    }
                },
                "route": {
                    "$ref": "#/definitions/api.RouteResponse"
                },
                "title": {
                    "type": "string"
                }
            }
        },
        "api.FormResponse": {
            "type": "object",
            "properties": {
                "activeIcon": {
                    "type": "string"
                },
                "defaultPct": {
                    "type": "integer"
                },
                "draft": {
                    "$ref": "#/definitions/entity.Draft"
                },
                "expenseTypes": {
                    "type": "array",
                    "items": {
                        "type": "string"
                    }
                },
                "state": {
                    "type": "string"
                }
            }
        },
        "api.SubmitResponse": {
            "type": "object",
            "properties": {
                "bill": {
                    "$ref": "#/definitions/entity.Bill"
                },
                "route": {
                    "$ref": "#/definitions/api.RouteResponse"
                }
            }
        },
        "entity.Route": {
            "type": "string",
            "enum": [
                "Login",
                "Bills",
                "NewBill",
                "Dashboard"
            ]
        },
        "entity.BillStatus": {
            "type": "string",
            "enum": [
                "pending",
                "accepted",
                "refused"
            ]
        },
        "entity.Bill": {
            "type": "object",
            "properties": {
                "amount": {
                    "type": "integer"
                },
                "commentAdmin": {
                    "type": "string"
                },
                "commentary": {
                    "type": "string"
                },
                "date": {
                    "type": "string"
                },
                "email": {
                    "type": "string"
                },
                "fileName": {
                    "type": "string"
                },
                "fileUrl": {
                    "type": "string"
                },
                "id": {
                    "type": "string"
                },
                "name": {
                    "type": "string"
                },
                "pct": {
                    "type": "integer"
                },
                "status": {
                    "$ref": "#/definitions/entity.BillStatus"
                },
                "type": {
                    "type": "string"
                },
                "vat": {
                    "type": "string"
                }
            }
        },
        "entity.BillView": {
            "type": "object",
            "properties": {
                "amount": {
                    "type": "integer"
                },
                "commentAdmin": {
                    "type": "string"
                },
                "commentary": {
                    "type": "string"
                },
                "date": {
                    "type": "string"
                },
                "email": {
                    "type": "string"
                },
                "fileName": {
                    "type": "string"
                },
                "fileUrl": {
                    "type": "string"
                },
                "id": {
                    "type": "string"
                },
                "name": {
                    "type": "string"
                },
                "pct": {
                    "type": "integer"
                },
                "rawDate": {
                    "type": "string"
                },
                "status": {
                    "type": "string"
                },
                "statusCode": {
                    "type": "string"
                },
                "type": {
                    "type": "string"
                },
                "vat": {
                    "type": "string"
                }
            }
        },
        "entity.Draft": {
            "type": "object",
            "properties": {
                "billId": {
                    "type": "string"
                },
                "fileName": {
                    "type": "string"
                },
                "fileUrl": {
                    "type": "string"
                }
            }
        },
        "entity.FormValues": {
            "type": "object",
            "properties": {
                "amount": {
                    "type": "string"
                },
                "commentary": {
                    "type": "string"
                },
                "date": {
                    "type": "string"
                },
                "name": {
                    "type": "string"
                },
                "pct": {
                    "type": "string"
                },
                "type": {
                    "type": "string"
                },
                "vat": {
                    "type": "string"
                }
            }
        },
        "entity.Preview": {
            "type": "object",
            "properties": {
                "billId": {
                    "type": "string"
                },
                "fileName": {
                    "type": "string"
                },
                "fileUrl": {
                    "type": "string"
                },
                "placeholder": {
                    "type": "boolean"
                }
            }
        }
    },
    "securityDefinitions": {
        "BearerAuth": {
            "type": "apiKey",
            "name": "Authorization",
            "in": "header"
        }
    }
}`

// SwaggerInfo is registered with swag on import.
var SwaggerInfo = &swag.Spec{
	Version:          "1.0",
	Host:             "",
	BasePath:         "/api",
	Schemes:          []string{},
	Title:            "Bills API",
	Description:      "Employee expense reports: bills list and new bill form.",
	InfoInstanceName: "swagger",
	SwaggerTemplate:  docTemplate,
	LeftDelim:        "{{",
	RightDelim:       "}}",
}

func init() {
	swag.Register(SwaggerInfo.InstanceName(), SwaggerInfo)
}
