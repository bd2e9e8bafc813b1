// Package docs registers the OpenAPI document served under /swagger.
// Regenerate with `swag init` after changing handler annotations.
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
        "/auth/login/": {
            "post": {
                "tags": [
                    "auth"
                ],
                "summary": "Log in",
                "produces": [
                    "application/json"
                ],
                "consumes": [
                    "application/json"
                ],
                "parameters": [
                    {
                        "description": "Request body",
                        "name": "body",
                        "in": "body",
                        "required": true,
                        "schema": {
                            "$ref": "#/definitions/dto.LoginRequest"
                        }
                    }
                ],
                "responses": {
                    "200": {
                        "description": "OK",
                        "schema": {
                            "$ref": "#/definitions/dto.LoginResponse"
                        }
                    }
                }
            }
        },
        "/dashboard/summary/": {
            "get": {
                "tags": [
                    "reports"
                ],
                "summary": "Dashboard summary",
                "produces": [
                    "application/json"
                ],
                "responses": {
                    "200": {
                        "description": "OK",
                        "schema": {
                            "$ref": "#/definitions/dto.DashboardResponse"
                        }
                    }
                }
            }
        },
        "/memorials/": {
            "get": {
                "tags": [
                    "reports"
                ],
                "summary": "Memorials",
                "produces": [
                    "application/json"
                ],
                "responses": {
                    "200": {
                        "description": "OK",
                        "schema": {
                            "type": "array",
                            "items": {
                                "$ref": "#/definitions/dto.MemorialSummaryResponse"
                            }
                        }
                    }
                }
            }
        },
        "/customers/": {
            "get": {
                "tags": [
                    "reports"
                ],
                "summary": "Customers",
                "produces": [
                    "application/json"
                ],
                "responses": {
                    "200": {
                        "description": "OK",
                        "schema": {
                            "type": "array",
                            "items": {
                                "$ref": "#/definitions/dto.CustomerSummaryResponse"
                            }
                        }
                    }
                }
            }
        },
        "/cemeteries/": {
            "get": {
                "tags": [
                    "reports"
                ],
                "summary": "Cemeteries",
                "produces": [
                    "application/json"
                ],
                "responses": {
                    "200": {
                        "description": "OK",
                        "schema": {
                            "type": "array",
                            "items": {
                                "$ref": "#/definitions/dto.CemeterySummaryResponse"
                            }
                        }
                    }
                }
            }
        },
        "/technicians/": {
            "get": {
                "tags": [
                    "reports"
                ],
                "summary": "Technicians",
                "produces": [
                    "application/json"
                ],
                "responses": {
                    "200": {
                        "description": "OK",
                        "schema": {
                            "type": "array",
                            "items": {
                                "$ref": "#/definitions/dto.TechnicianResponse"
                            }
                        }
                    }
                }
            }
        },
        "/scheduling/services/": {
            "get": {
                "tags": [
                    "scheduling"
                ],
                "summary": "Scheduling board",
                "produces": [
                    "application/json"
                ],
                "responses": {
                    "200": {
                        "description": "OK",
                        "schema": {
                            "type": "array",
                            "items": {
                                "$ref": "#/definitions/dto.SchedulingServiceResponse"
                            }
                        }
                    }
                }
            }
        },
        "/scheduling/services/create/": {
            "post": {
                "tags": [
                    "scheduling"
                ],
                "summary": "Create a service",
                "produces": [
                    "application/json"
                ],
                "consumes": [
                    "application/json"
                ],
                "parameters": [
                    {
                        "description": "Request body",
                        "name": "body",
                        "in": "body",
                        "required": true,
                        "schema": {
                            "$ref": "#/definitions/dto.CreateServiceRequest"
                        }
                    }
                ],
                "responses": {
                    "201": {
                        "description": "OK",
                        "schema": {
                            "$ref": "#/definitions/dto.SchedulingServiceResponse"
                        }
                    }
                }
            }
        },
        "/manager/services/{id}/assign/": {
            "post": {
                "tags": [
                    "manager"
                ],
                "summary": "Assign a technician",
                "produces": [
                    "application/json"
                ],
                "consumes": [
                    "application/json"
                ],
                "parameters": [
                    {
                        "type": "integer",
                        "description": "ID",
                        "name": "id",
                        "in": "path",
                        "required": true
                    },
                    {
                        "description": "Request body",
                        "name": "body",
                        "in": "body",
                        "required": true,
                        "schema": {
                            "$ref": "#/definitions/dto.AssignTechnicianRequest"
                        }
                    }
                ],
                "security": [
                    {
                        "BearerAuth": []
                    }
                ],
                "responses": {
                    "200": {
                        "description": "OK",
                        "schema": {
                            "$ref": "#/definitions/dto.ServiceEnvelope"
                        }
                    }
                }
            }
        },
        "/manager/services/{id}/status/": {
            "patch": {
                "tags": [
                    "manager"
                ],
                "summary": "Change service status",
                "produces": [
                    "application/json"
                ],
                "consumes": [
                    "application/json"
                ],
                "parameters": [
                    {
                        "type": "integer",
                        "description": "ID",
                        "name": "id",
                        "in": "path",
                        "required": true
                    },
                    {
                        "description": "Request body",
                        "name": "body",
                        "in": "body",
                        "required": true,
                        "schema": {
                            "$ref": "#/definitions/dto.UpdateServiceStatusRequest"
                        }
                    }
                ],
                "security": [
                    {
                        "BearerAuth": []
                    }
                ],
                "responses": {
                    "200": {
                        "description": "OK",
                        "schema": {
                            "$ref": "#/definitions/dto.ServiceEnvelope"
                        }
                    }
                }
            }
        },
        "/manager/services/{id}/history/": {
            "get": {
                "tags": [
                    "manager"
                ],
                "summary": "Service status history",
                "produces": [
                    "application/json"
                ],
                "parameters": [
                    {
                        "type": "integer",
                        "description": "ID",
                        "name": "id",
                        "in": "path",
                        "required": true
                    }
                ],
                "security": [
                    {
                        "BearerAuth": []
                    }
                ],
                "responses": {
                    "200": {
                        "description": "OK",
                        "schema": {
                            "type": "array",
                            "items": {
                                "$ref": "#/definitions/dto.StatusHistoryResponse"
                            }
                        }
                    }
                }
            }
        },
        "/emails/send/": {
            "post": {
                "tags": [
                    "emails"
                ],
                "summary": "Email customers",
                "produces": [
                    "application/json"
                ],
                "consumes": [
                    "application/json"
                ],
                "parameters": [
                    {
                        "description": "Request body",
                        "name": "body",
                        "in": "body",
                        "required": true,
                        "schema": {
                            "$ref": "#/definitions/dto.SendEmailsRequest"
                        }
                    }
                ],
                "security": [
                    {
                        "BearerAuth": []
                    }
                ],
                "responses": {
                    "200": {
                        "description": "OK",
                        "schema": {
                            "$ref": "#/definitions/dto.SendEmailsResponse"
                        }
                    }
                }
            }
        },
        "/manage/customers/": {
            "get": {
                "tags": [
                    "customers"
                ],
                "summary": "List customers",
                "produces": [
                    "application/json"
                ],
                "security": [
                    {
                        "BearerAuth": []
                    }
                ],
                "responses": {
                    "200": {
                        "description": "OK"
                    }
                }
            },
            "post": {
                "tags": [
                    "customers"
                ],
                "summary": "Create a customer",
                "produces": [
                    "application/json"
                ],
                "consumes": [
                    "application/json"
                ],
                "parameters": [
                    {
                        "description": "Request body",
                        "name": "body",
                        "in": "body",
                        "required": true,
                        "schema": {
                            "$ref": "#/definitions/dto.CreateCustomerRequest"
                        }
                    }
                ],
                "security": [
                    {
                        "BearerAuth": []
                    }
                ],
                "responses": {
                    "201": {
                        "description": "OK"
                    }
                }
            }
        },
        "/manage/customers/{id}/": {
            "patch": {
                "tags": [
                    "customers"
                ],
                "summary": "Update a customer",
                "produces": [
                    "application/json"
                ],
                "consumes": [
                    "application/json"
                ],
                "parameters": [
                    {
                        "type": "integer",
                        "description": "ID",
                        "name": "id",
                        "in": "path",
                        "required": true
                    },
                    {
                        "description": "Request body",
                        "name": "body",
                        "in": "body",
                        "required": true,
                        "schema": {
                            "$ref": "#/definitions/dto.UpdateCustomerRequest"
                        }
                    }
                ],
                "security": [
                    {
                        "BearerAuth": []
                    }
                ],
                "responses": {
                    "200": {
                        "description": "OK"
                    }
                }
            },
            "delete": {
                "tags": [
                    "customers"
                ],
                "summary": "Delete a customer",
                "produces": [
                    "application/json"
                ],
                "parameters": [
                    {
                        "type": "integer",
                        "description": "ID",
                        "name": "id",
                        "in": "path",
                        "required": true
                    }
                ],
                "security": [
                    {
                        "BearerAuth": []
                    }
                ],
                "responses": {
                    "204": {
                        "description": "OK"
                    }
                }
            }
        },
        "/manage/employees/": {
            "get": {
                "tags": [
                    "employees"
                ],
                "summary": "List employees",
                "produces": [
                    "application/json"
                ],
                "security": [
                    {
                        "BearerAuth": []
                    }
                ],
                "responses": {
                    "200": {
                        "description": "OK",
                        "schema": {
                            "type": "array",
                            "items": {
                                "$ref": "#/definitions/dto.EmployeeResponse"
                            }
                        }
                    }
                }
            }
        },
        "/manage/employees/create/": {
            "post": {
                "tags": [
                    "employees"
                ],
                "summary": "Create an employee",
                "produces": [
                    "application/json"
                ],
                "consumes": [
                    "application/json"
                ],
                "parameters": [
                    {
                        "description": "Request body",
                        "name": "body",
                        "in": "body",
                        "required": true,
                        "schema": {
                            "$ref": "#/definitions/dto.CreateEmployeeRequest"
                        }
                    }
                ],
                "security": [
                    {
                        "BearerAuth": []
                    }
                ],
                "responses": {
                    "201": {
                        "description": "OK",
                        "schema": {
                            "$ref": "#/definitions/dto.EmployeeResponse"
                        }
                    }
                }
            }
        },
        "/manage/employees/{id}/": {
            "patch": {
                "tags": [
                    "employees"
                ],
                "summary": "Change role or active flag",
                "produces": [
                    "application/json"
                ],
                "consumes": [
                    "application/json"
                ],
                "parameters": [
                    {
                        "type": "integer",
                        "description": "ID",
                        "name": "id",
                        "in": "path",
                        "required": true
                    },
                    {
                        "description": "Request body",
                        "name": "body",
                        "in": "body",
                        "required": true,
                        "schema": {
                            "$ref": "#/definitions/dto.UpdateEmployeeRoleRequest"
                        }
                    }
                ],
                "security": [
                    {
                        "BearerAuth": []
                    }
                ],
                "responses": {
                    "200": {
                        "description": "OK",
                        "schema": {
                            "$ref": "#/definitions/dto.EmployeeResponse"
                        }
                    }
                }
            }
        },
        "/manage/cemeteries/": {
            "post": {
                "tags": [
                    "records"
                ],
                "summary": "Create a cemetery",
                "produces": [
                    "application/json"
                ],
                "consumes": [
                    "application/json"
                ],
                "parameters": [
                    {
                        "description": "Request body",
                        "name": "body",
                        "in": "body",
                        "required": true,
                        "schema": {
                            "$ref": "#/definitions/dto.CreateCemeteryRequest"
                        }
                    }
                ],
                "security": [
                    {
                        "BearerAuth": []
                    }
                ],
                "responses": {
                    "201": {
                        "description": "OK"
                    }
                }
            }
        },
        "/manage/cemeteries/{id}/plots/": {
            "post": {
                "tags": [
                    "records"
                ],
                "summary": "Create a plot",
                "produces": [
                    "application/json"
                ],
                "consumes": [
                    "application/json"
                ],
                "parameters": [
                    {
                        "type": "integer",
                        "description": "ID",
                        "name": "id",
                        "in": "path",
                        "required": true
                    },
                    {
                        "description": "Request body",
                        "name": "body",
                        "in": "body",
                        "required": true,
                        "schema": {
                            "$ref": "#/definitions/dto.CreatePlotRequest"
                        }
                    }
                ],
                "security": [
                    {
                        "BearerAuth": []
                    }
                ],
                "responses": {
                    "201": {
                        "description": "OK"
                    }
                }
            }
        },
        "/manage/plots/{id}/": {
            "delete": {
                "tags": [
                    "records"
                ],
                "summary": "Delete a plot",
                "produces": [
                    "application/json"
                ],
                "parameters": [
                    {
                        "type": "integer",
                        "description": "ID",
                        "name": "id",
                        "in": "path",
                        "required": true
                    }
                ],
                "security": [
                    {
                        "BearerAuth": []
                    }
                ],
                "responses": {
                    "204": {
                        "description": "OK"
                    }
                }
            }
        },
        "/manage/memorials/": {
            "post": {
                "tags": [
                    "records"
                ],
                "summary": "Create a memorial",
                "produces": [
                    "application/json"
                ],
                "consumes": [
                    "application/json"
                ],
                "parameters": [
                    {
                        "description": "Request body",
                        "name": "body",
                        "in": "body",
                        "required": true,
                        "schema": {
                            "$ref": "#/definitions/dto.CreateMemorialRequest"
                        }
                    }
                ],
                "security": [
                    {
                        "BearerAuth": []
                    }
                ],
                "responses": {
                    "201": {
                        "description": "OK"
                    }
                }
            }
        },
        "/manage/memorials/{id}/": {
            "delete": {
                "tags": [
                    "records"
                ],
                "summary": "Delete a memorial",
                "produces": [
                    "application/json"
                ],
                "parameters": [
                    {
                        "type": "integer",
                        "description": "ID",
                        "name": "id",
                        "in": "path",
                        "required": true
                    }
                ],
                "security": [
                    {
                        "BearerAuth": []
                    }
                ],
                "responses": {
                    "204": {
                        "description": "OK"
                    }
                }
            }
        },
        "/memorials/{id}/photos/": {
            "get": {
                "tags": [
                    "records"
                ],
                "summary": "Memorial photos",
                "produces": [
                    "application/json"
                ],
                "parameters": [
                    {
                        "type": "integer",
                        "description": "ID",
                        "name": "id",
                        "in": "path",
                        "required": true
                    }
                ],
                "responses": {
                    "200": {
                        "description": "OK",
                        "schema": {
                            "type": "array",
                            "items": {
                                "$ref": "#/definitions/dto.PhotoResponse"
                            }
                        }
                    }
                }
            },
            "post": {
                "tags": [
                    "records"
                ],
                "summary": "Attach a photo",
                "produces": [
                    "application/json"
                ],
                "consumes": [
                    "application/json"
                ],
                "parameters": [
                    {
                        "type": "integer",
                        "description": "ID",
                        "name": "id",
                        "in": "path",
                        "required": true
                    },
                    {
                        "description": "Request body",
                        "name": "body",
                        "in": "body",
                        "required": true,
                        "schema": {
                            "$ref": "#/definitions/dto.CreatePhotoRequest"
                        }
                    }
                ],
                "security": [
                    {
                        "BearerAuth": []
                    }
                ],
                "responses": {
                    "201": {
                        "description": "OK",
                        "schema": {
                            "$ref": "#/definitions/dto.PhotoResponse"
                        }
                    }
                }
            }
        },
        "/manage/invoices/{id}/": {
            "get": {
                "tags": [
                    "invoices"
                ],
                "summary": "Get an invoice",
                "produces": [
                    "application/json"
                ],
                "parameters": [
                    {
                        "type": "integer",
                        "description": "ID",
                        "name": "id",
                        "in": "path",
                        "required": true
                    }
                ],
                "security": [
                    {
                        "BearerAuth": []
                    }
                ],
                "responses": {
                    "200": {
                        "description": "OK",
                        "schema": {
                            "$ref": "#/definitions/dto.InvoiceResponse"
                        }
                    }
                }
            }
        },
        "/manage/invoices/{id}/items/": {
            "post": {
                "tags": [
                    "invoices"
                ],
                "summary": "Add an invoice line",
                "produces": [
                    "application/json"
                ],
                "consumes": [
                    "application/json"
                ],
                "parameters": [
                    {
                        "type": "integer",
                        "description": "ID",
                        "name": "id",
                        "in": "path",
                        "required": true
                    },
                    {
                        "description": "Request body",
                        "name": "body",
                        "in": "body",
                        "required": true,
                        "schema": {
                            "$ref": "#/definitions/dto.AddInvoiceItemRequest"
                        }
                    }
                ],
                "security": [
                    {
                        "BearerAuth": []
                    }
                ],
                "responses": {
                    "201": {
                        "description": "OK",
                        "schema": {
                            "$ref": "#/definitions/dto.InvoiceResponse"
                        }
                    }
                }
            }
        },
        "/manage/invoices/{id}/payments/": {
            "post": {
                "tags": [
                    "invoices"
                ],
                "summary": "Record a manual payment",
                "produces": [
                    "application/json"
                ],
                "consumes": [
                    "application/json"
                ],
                "parameters": [
                    {
                        "type": "integer",
                        "description": "ID",
                        "name": "id",
                        "in": "path",
                        "required": true
                    },
                    {
                        "description": "Request body",
                        "name": "body",
                        "in": "body",
                        "required": true,
                        "schema": {
                            "$ref": "#/definitions/dto.RecordPaymentRequest"
                        }
                    }
                ],
                "security": [
                    {
                        "BearerAuth": []
                    }
                ],
                "responses": {
                    "201": {
                        "description": "OK",
                        "schema": {
                            "$ref": "#/definitions/dto.InvoiceResponse"
                        }
                    }
                }
            }
        }
    },
    "securityDefinitions": {
        "BearerAuth": {
            "description": "Type \"Bearer\" followed by a space and JWT token.",
            "type": "apiKey",
            "name": "Authorization",
            "in": "header"
        }
    },
    "definitions": {
        "dto.AddInvoiceItemRequest": {
            "type": "object",
            "properties": {
                "description": {
                    "type": "string"
                },
                "quantity": {
                    "type": "string",
                    "example": "0.00"
                },
                "unit_price": {
                    "type": "string",
                    "example": "0.00"
                }
            },
            "required": [
                "description"
            ]
        },
        "dto.AssignTechnicianRequest": {
            "type": "object",
            "properties": {
                "technician_id": {
                    "type": "integer"
                },
                "scheduled_start": {
                    "type": "string",
                    "format": "date-time"
                },
                "estimated_minutes": {
                    "type": "integer"
                },
                "price": {
                    "type": "string",
                    "example": "0.00"
                },
                "gps_lat": {
                    "type": "string",
                    "example": "0.00"
                },
                "gps_lng": {
                    "type": "string",
                    "example": "0.00"
                }
            },
            "required": [
                "technician_id",
                "scheduled_start",
                "estimated_minutes"
            ]
        },
        "dto.CemeterySummaryResponse": {
            "type": "object",
            "properties": {
                "id": {
                    "type": "integer"
                },
                "name": {
                    "type": "string"
                },
                "city": {
                    "type": "string"
                },
                "memorials_count": {
                    "type": "integer"
                },
                "active_services": {
                    "type": "integer"
                }
            }
        },
        "dto.CreateCemeteryRequest": {
            "type": "object",
            "properties": {
                "name": {
                    "type": "string"
                },
                "address": {
                    "type": "string"
                },
                "city": {
                    "type": "string"
                },
                "state": {
                    "type": "string"
                },
                "contact_name": {
                    "type": "string"
                },
                "contact_phone": {
                    "type": "string"
                },
                "contact_email": {
                    "type": "string"
                },
                "notes": {
                    "type": "string"
                }
            },
            "required": [
                "name"
            ]
        },
        "dto.CreateCustomerRequest": {
            "type": "object",
            "properties": {
                "full_name": {
                    "type": "string"
                },
                "email": {
                    "type": "string"
                },
                "phone": {
                    "type": "string"
                },
                "address_line1": {
                    "type": "string"
                },
                "address_line2": {
                    "type": "string"
                },
                "city": {
                    "type": "string"
                },
                "state": {
                    "type": "string"
                },
                "postal_code": {
                    "type": "string"
                },
                "notes": {
                    "type": "string"
                }
            },
            "required": [
                "full_name"
            ]
        },
        "dto.CreateEmployeeRequest": {
            "type": "object",
            "properties": {
                "username": {
                    "type": "string"
                },
                "password": {
                    "type": "string"
                },
                "full_name": {
                    "type": "string"
                },
                "email": {
                    "type": "string"
                },
                "phone": {
                    "type": "string"
                },
                "role": {
                    "type": "string"
                },
                "is_active": {
                    "type": "boolean"
                }
            },
            "required": [
                "username",
                "password",
                "full_name"
            ]
        },
        "dto.CreateMemorialRequest": {
            "type": "object",
            "properties": {
                "customer_id": {
                    "type": "integer"
                },
                "plot_id": {
                    "type": "integer"
                },
                "material": {
                    "type": "string"
                },
                "inscription_text": {
                    "type": "string"
                },
                "condition_summary": {
                    "type": "string"
                },
                "install_date": {
                    "type": "string"
                },
                "notes": {
                    "type": "string"
                }
            },
            "required": [
                "customer_id",
                "plot_id"
            ]
        },
        "dto.CreatePhotoRequest": {
            "type": "object",
            "properties": {
                "service_id": {
                    "type": "integer"
                },
                "photo_type": {
                    "type": "string"
                },
                "image_url": {
                    "type": "string"
                },
                "caption": {
                    "type": "string"
                }
            },
            "required": [
                "image_url"
            ]
        },
        "dto.CreatePlotRequest": {
            "type": "object",
            "properties": {
                "section": {
                    "type": "string"
                },
                "row": {
                    "type": "string"
                },
                "plot_number": {
                    "type": "string"
                },
                "gps_lat": {
                    "type": "string",
                    "example": "0.00"
                },
                "gps_lng": {
                    "type": "string",
                    "example": "0.00"
                },
                "access_notes": {
                    "type": "string"
                }
            }
        },
        "dto.CreateServiceRequest": {
            "type": "object",
            "properties": {
                "memorial_id": {
                    "type": "integer"
                },
                "service_type": {
                    "type": "string"
                },
                "initial_price": {
                    "type": "string",
                    "example": "0.00"
                }
            },
            "required": [
                "memorial_id"
            ]
        },
        "dto.CustomerSummaryResponse": {
            "type": "object",
            "properties": {
                "id": {
                    "type": "integer"
                },
                "full_name": {
                    "type": "string"
                },
                "email": {
                    "type": "string"
                },
                "phone": {
                    "type": "string"
                },
                "memorials_count": {
                    "type": "integer"
                },
                "last_contact": {
                    "type": "string"
                }
            }
        },
        "dto.DashboardResponse": {
            "type": "object",
            "properties": {
                "summary": {
                    "$ref": "#/definitions/dto.DashboardSummary"
                },
                "upcoming_services": {
                    "type": "array",
                    "items": {
                        "$ref": "#/definitions/dto.UpcomingServiceResponse"
                    }
                },
                "recent_completed": {
                    "type": "array",
                    "items": {
                        "$ref": "#/definitions/dto.RecentServiceResponse"
                    }
                }
            }
        },
        "dto.DashboardSummary": {
            "type": "object",
            "properties": {
                "total_revenue": {
                    "type": "number"
                },
                "active_services": {
                    "type": "integer"
                },
                "services_today": {
                    "type": "integer"
                },
                "crews_active": {
                    "type": "integer"
                },
                "completion_rate": {
                    "type": "number"
                }
            }
        },
        "dto.EmailFailure": {
            "type": "object",
            "properties": {
                "customer_id": {
                    "type": "integer"
                },
                "email": {
                    "type": "string"
                },
                "error": {
                    "type": "string"
                }
            }
        },
        "dto.EmailRecipient": {
            "type": "object",
            "properties": {
                "customer_id": {
                    "type": "integer"
                },
                "email": {
                    "type": "string"
                }
            }
        },
        "dto.EmailSkip": {
            "type": "object",
            "properties": {
                "customer_id": {
                    "type": "integer"
                },
                "reason": {
                    "type": "string"
                }
            }
        },
        "dto.EmployeeResponse": {
            "type": "object",
            "properties": {
                "id": {
                    "type": "integer"
                },
                "username": {
                    "type": "string"
                },
                "full_name": {
                    "type": "string"
                },
                "email": {
                    "type": "string"
                },
                "phone": {
                    "type": "string"
                },
                "role": {
                    "type": "string"
                },
                "is_active": {
                    "type": "boolean"
                }
            }
        },
        "dto.InvoiceItemResponse": {
            "type": "object",
            "properties": {
                "id": {
                    "type": "integer"
                },
                "description": {
                    "type": "string"
                },
                "quantity": {
                    "type": "string"
                },
                "unit_price": {
                    "type": "string"
                },
                "line_total": {
                    "type": "string"
                }
            }
        },
        "dto.InvoiceResponse": {
            "type": "object",
            "properties": {
                "id": {
                    "type": "integer"
                },
                "customer_id": {
                    "type": "integer"
                },
                "service_id": {
                    "type": "integer"
                },
                "status": {
                    "type": "string"
                },
                "issued_date": {
                    "type": "string"
                },
                "due_date": {
                    "type": "string"
                },
                "currency": {
                    "type": "string"
                },
                "total_amount": {
                    "type": "string"
                },
                "amount_paid": {
                    "type": "string"
                },
                "paid_at": {
                    "type": "string",
                    "format": "date-time"
                },
                "notes": {
                    "type": "string"
                },
                "items": {
                    "type": "array",
                    "items": {
                        "$ref": "#/definitions/dto.InvoiceItemResponse"
                    }
                },
                "payments": {
                    "type": "array",
                    "items": {
                        "$ref": "#/definitions/dto.PaymentResponse"
                    }
                }
            }
        },
        "dto.ListCustomersRequest": {
            "type": "object",
            "properties": {}
        },
        "dto.ListEmployeesRequest": {
            "type": "object",
            "properties": {}
        },
        "dto.LoginRequest": {
            "type": "object",
            "properties": {
                "username": {
                    "type": "string"
                },
                "password": {
                    "type": "string"
                }
            },
            "required": [
                "username",
                "password"
            ]
        },
        "dto.LoginResponse": {
            "type": "object",
            "properties": {
                "token": {
                    "type": "string"
                },
                "expires_at": {
                    "type": "string"
                },
                "employee": {
                    "$ref": "#/definitions/dto.EmployeeResponse"
                }
            }
        },
        "dto.MemorialSummaryResponse": {
            "type": "object",
            "properties": {
                "id": {
                    "type": "integer"
                },
                "customer": {
                    "type": "string"
                },
                "cemetery": {
                    "type": "string"
                },
                "last_service_status": {
                    "type": "string"
                },
                "last_service_date": {
                    "type": "string"
                }
            }
        },
        "dto.PaymentResponse": {
            "type": "object",
            "properties": {
                "id": {
                    "type": "integer"
                },
                "provider": {
                    "type": "string"
                },
                "status": {
                    "type": "string"
                },
                "method": {
                    "type": "string"
                },
                "currency": {
                    "type": "string"
                },
                "amount": {
                    "type": "string"
                },
                "provider_reference": {
                    "type": "string"
                },
                "succeeded_at": {
                    "type": "string",
                    "format": "date-time"
                },
                "created_at": {
                    "type": "string",
                    "format": "date-time"
                }
            }
        },
        "dto.PhotoResponse": {
            "type": "object",
            "properties": {
                "id": {
                    "type": "integer"
                },
                "memorial_id": {
                    "type": "integer"
                },
                "service_id": {
                    "type": "integer"
                },
                "photo_type": {
                    "type": "string"
                },
                "image_url": {
                    "type": "string"
                },
                "caption": {
                    "type": "string"
                },
                "created_at": {
                    "type": "string",
                    "format": "date-time"
                }
            }
        },
        "dto.RecentServiceResponse": {
            "type": "object",
            "properties": {
                "id": {
                    "type": "integer"
                },
                "memorial_name": {
                    "type": "string"
                },
                "cemetery_name": {
                    "type": "string"
                },
                "completed_date": {
                    "type": "string"
                },
                "amount": {
                    "type": "string"
                }
            }
        },
        "dto.RecordPaymentRequest": {
            "type": "object",
            "properties": {
                "amount": {
                    "type": "string",
                    "example": "0.00"
                },
                "method": {
                    "type": "string"
                },
                "provider_reference": {
                    "type": "string"
                },
                "notes": {
                    "type": "string"
                }
            },
            "required": [
                "method"
            ]
        },
        "dto.SchedulingServiceResponse": {
            "type": "object",
            "properties": {
                "id": {
                    "type": "integer"
                },
                "service_type": {
                    "type": "string"
                },
                "status": {
                    "type": "string"
                },
                "scheduled_start": {
                    "type": "string",
                    "format": "date-time"
                },
                "estimated_minutes": {
                    "type": "integer"
                },
                "memorial_name": {
                    "type": "string"
                },
                "cemetery_name": {
                    "type": "string"
                },
                "technician_id": {
                    "type": "integer"
                },
                "technician_name": {
                    "type": "string"
                },
                "price": {
                    "type": "number"
                },
                "gps_lat": {
                    "type": "string"
                },
                "gps_lng": {
                    "type": "string"
                }
            }
        },
        "dto.SendEmailsRequest": {
            "type": "object",
            "properties": {
                "customer_ids": {
                    "type": "array",
                    "items": {
                        "type": "integer"
                    }
                },
                "subject": {
                    "type": "string"
                },
                "body": {
                    "type": "string"
                }
            },
            "required": [
                "customer_ids",
                "subject",
                "body"
            ]
        },
        "dto.SendEmailsResponse": {
            "type": "object",
            "properties": {
                "ok": {
                    "type": "boolean"
                },
                "from_email": {
                    "type": "string"
                },
                "sent_count": {
                    "type": "integer"
                },
                "skipped_count": {
                    "type": "integer"
                },
                "failed_count": {
                    "type": "integer"
                },
                "sent": {
                    "type": "array",
                    "items": {
                        "$ref": "#/definitions/dto.EmailRecipient"
                    }
                },
                "skipped": {
                    "type": "array",
                    "items": {
                        "$ref": "#/definitions/dto.EmailSkip"
                    }
                },
                "failed": {
                    "type": "array",
                    "items": {
                        "$ref": "#/definitions/dto.EmailFailure"
                    }
                }
            }
        },
        "dto.ServiceEnvelope": {
            "type": "object",
            "properties": {
                "ok": {
                    "type": "boolean"
                },
                "service": {
                    "$ref": "#/definitions/dto.SchedulingServiceResponse"
                }
            }
        },
        "dto.StatusHistoryResponse": {
            "type": "object",
            "properties": {
                "id": {
                    "type": "integer"
                },
                "old_status": {
                    "type": "string"
                },
                "new_status": {
                    "type": "string"
                },
                "changed_by": {
                    "type": "integer"
                },
                "changed_at": {
                    "type": "string",
                    "format": "date-time"
                }
            }
        },
        "dto.TechnicianResponse": {
            "type": "object",
            "properties": {
                "id": {
                    "type": "integer"
                },
                "full_name": {
                    "type": "string"
                },
                "email": {
                    "type": "string"
                },
                "phone": {
                    "type": "string"
                }
            }
        },
        "dto.UpcomingServiceResponse": {
            "type": "object",
            "properties": {
                "id": {
                    "type": "integer"
                },
                "memorial_name": {
                    "type": "string"
                },
                "cemetery_name": {
                    "type": "string"
                },
                "scheduled_start": {
                    "type": "string",
                    "format": "date-time"
                },
                "status": {
                    "type": "string"
                },
                "status_display": {
                    "type": "string"
                }
            }
        },
        "dto.UpdateCustomerRequest": {
            "type": "object",
            "properties": {
                "full_name": {
                    "type": "string"
                },
                "email": {
                    "type": "string"
                },
                "phone": {
                    "type": "string"
                },
                "address_line1": {
                    "type": "string"
                },
                "address_line2": {
                    "type": "string"
                },
                "city": {
                    "type": "string"
                },
                "state": {
                    "type": "string"
                },
                "postal_code": {
                    "type": "string"
                },
                "notes": {
                    "type": "string"
                }
            }
        },
        "dto.UpdateEmployeeRoleRequest": {
            "type": "object",
            "properties": {
                "role": {
                    "type": "string"
                },
                "is_active": {
                    "type": "boolean"
                }
            }
        },
        "dto.UpdateServiceStatusRequest": {
            "type": "object",
            "properties": {
                "status": {
                    "type": "string"
                }
            },
            "required": [
                "status"
            ]
        }
    }
}`

// SwaggerInfo holds exported Swagger Info so clients can modify it
var SwaggerInfo = &swag.Spec{
	Version:          "1.0",
	Host:             "localhost:8080",
	BasePath:         "/api",
	Schemes:          []string{"http", "https"},
	Title:            "Headstone Restoration API",
	Description:      "Field-service back end for headstone restoration: scheduling, dashboards, customer email and record keeping.",
	InfoInstanceName: "swagger",
	SwaggerTemplate:  docTemplate,
}

func init() {
	swag.Register(SwaggerInfo.InstanceName(), SwaggerInfo)
}
