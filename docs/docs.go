// Package docs registers the OpenAPI document served at /swagger.
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
					"system"
				],
				"summary": "Health check",
				"produces": [
					"application/json"
				],
				"responses": {
					"200": {
						"description": "OK"
					}
				}
			}
		},
		"/auth/sign-up": {
			"post": {
				"tags": [
					"auth"
				],
				"summary": "Create operator account",
				"produces": [
					"application/json"
				],
				"responses": {
					"200": {
						"description": "OK"
					},
					"400": {
						"description": "Error",
						"schema": {
							"$ref": "#/definitions/handlers.errorResponse"
						}
					}
				},
				"parameters": [
					{
						"in": "body",
						"name": "body",
						"required": true,
						"schema": {
							"$ref": "#/definitions/handlers.authCredentials"
						}
					}
				],
				"consumes": [
					"application/json"
				]
			}
		},
		"/auth/sign-in": {
			"post": {
				"tags": [
					"auth"
				],
				"summary": "Issue bearer token",
				"produces": [
					"application/json"
				],
				"responses": {
					"200": {
						"description": "OK"
					},
					"400": {
						"description": "Error",
						"schema": {
							"$ref": "#/definitions/handlers.errorResponse"
						}
					},
					"401": {
						"description": "Error",
						"schema": {
							"$ref": "#/definitions/handlers.errorResponse"
						}
					}
				},
				"parameters": [
					{
						"in": "body",
						"name": "body",
						"required": true,
						"schema": {
							"$ref": "#/definitions/handlers.authCredentials"
						}
					}
				],
				"consumes": [
					"application/json"
				]
			}
		},
		"/api/v1/info": {
			"get": {
				"tags": [
					"device"
				],
				"summary": "Device identity",
				"produces": [
					"application/json"
				],
				"responses": {
					"200": {
						"description": "OK",
						"schema": {
							"$ref": "#/definitions/models.DeviceInfo"
						}
					}
				}
			}
		},
		"/api/v1/status": {
			"get": {
				"tags": [
					"device"
				],
				"summary": "Current status snapshot",
				"produces": [
					"application/json"
				],
				"responses": {
					"200": {
						"description": "OK"
					}
				}
			}
		},
		"/api/v1/history": {
			"get": {
				"tags": [
					"telemetry"
				],
				"summary": "Samples after a cursor",
				"produces": [
					"application/json"
				],
				"responses": {
					"200": {
						"description": "samples, seq_end"
					},
					"400": {
						"description": "Error",
						"schema": {
							"$ref": "#/definitions/handlers.errorResponse"
						}
					}
				},
				"parameters": [
					{
						"type": "integer",
						"description": "Last seen seq",
						"name": "since",
						"in": "query"
					},
					{
						"type": "integer",
						"description": "Page size, 1..200 (default 50)",
						"name": "max",
						"in": "query"
					}
				],
				"consumes": [
					"application/json"
				]
			}
		},
		"/api/v1/events": {
			"get": {
				"tags": [
					"telemetry"
				],
				"summary": "Events after a cursor",
				"produces": [
					"application/json"
				],
				"responses": {
					"200": {
						"description": "events, seq_end"
					},
					"400": {
						"description": "Error",
						"schema": {
							"$ref": "#/definitions/handlers.errorResponse"
						}
					}
				},
				"parameters": [
					{
						"type": "integer",
						"description": "Last seen seq",
						"name": "since",
						"in": "query"
					},
					{
						"type": "integer",
						"description": "Page size, 1..200 (default 50)",
						"name": "max",
						"in": "query"
					}
				],
				"consumes": [
					"application/json"
				]
			}
		},
		"/api/v1/sessions": {
			"get": {
				"tags": [
					"telemetry"
				],
				"summary": "Finalized sessions",
				"produces": [
					"application/json"
				],
				"responses": {
					"200": {
						"description": "OK"
					}
				}
			}
		},
		"/api/v1/config": {
			"get": {
				"tags": [
					"settings"
				],
				"summary": "Device configuration",
				"produces": [
					"application/json"
				],
				"responses": {
					"200": {
						"description": "OK",
						"schema": {
							"$ref": "#/definitions/models.DeviceConfig"
						}
					}
				}
			},
			"post": {
				"tags": [
					"settings"
				],
				"summary": "Update configuration",
				"produces": [
					"application/json"
				],
				"responses": {
					"200": {
						"description": "OK",
						"schema": {
							"$ref": "#/definitions/service.ConfigUpdate"
						}
					},
					"400": {
						"description": "Error",
						"schema": {
							"$ref": "#/definitions/handlers.errorResponse"
						}
					},
					"401": {
						"description": "Error",
						"schema": {
							"$ref": "#/definitions/handlers.errorResponse"
						}
					}
				},
				"parameters": [
					{
						"in": "body",
						"name": "body",
						"required": true,
						"schema": {
							"$ref": "#/definitions/models.DeviceConfig"
						}
					}
				],
				"consumes": [
					"application/json"
				],
				"security": [
					{
						"BearerAuth": []
					},
					{
						"BasicAuth": []
					}
				]
			}
		},
		"/api/v1/calibration": {
			"get": {
				"tags": [
					"settings"
				],
				"summary": "Current-sensor calibration",
				"produces": [
					"application/json"
				],
				"responses": {
					"200": {
						"description": "OK",
						"schema": {
							"$ref": "#/definitions/models.Calibration"
						}
					}
				}
			}
		},
		"/api/v1/calibrate": {
			"post": {
				"tags": [
					"settings"
				],
				"summary": "Calibrate current sensor",
				"produces": [
					"application/json"
				],
				"responses": {
					"200": {
						"description": "OK",
						"schema": {
							"$ref": "#/definitions/service.CalibrationUpdate"
						}
					},
					"400": {
						"description": "Error",
						"schema": {
							"$ref": "#/definitions/handlers.errorResponse"
						}
					},
					"401": {
						"description": "Error",
						"schema": {
							"$ref": "#/definitions/handlers.errorResponse"
						}
					}
				},
				"parameters": [
					{
						"in": "body",
						"name": "body",
						"required": true,
						"schema": {
							"$ref": "#/definitions/service.CalibrateRequest"
						}
					}
				],
				"consumes": [
					"application/json"
				],
				"security": [
					{
						"BearerAuth": []
					},
					{
						"BasicAuth": []
					}
				]
			}
		},
		"/api/v1/control": {
			"post": {
				"tags": [
					"control"
				],
				"summary": "Control action",
				"produces": [
					"application/json"
				],
				"responses": {
					"200": {
						"description": "OK"
					},
					"400": {
						"description": "Error",
						"schema": {
							"$ref": "#/definitions/handlers.errorResponse"
						}
					},
					"401": {
						"description": "Error",
						"schema": {
							"$ref": "#/definitions/handlers.errorResponse"
						}
					}
				},
				"parameters": [
					{
						"in": "body",
						"name": "body",
						"required": true,
						"schema": {
							"$ref": "#/definitions/service.ControlRequest"
						}
					}
				],
				"consumes": [
					"application/json"
				],
				"security": [
					{
						"BearerAuth": []
					},
					{
						"BasicAuth": []
					}
				]
			}
		},
		"/api/v1/run_timer": {
			"post": {
				"tags": [
					"control"
				],
				"summary": "Run for a fixed time",
				"produces": [
					"application/json"
				],
				"responses": {
					"200": {
						"description": "OK"
					},
					"400": {
						"description": "Error",
						"schema": {
							"$ref": "#/definitions/handlers.errorResponse"
						}
					},
					"401": {
						"description": "Error",
						"schema": {
							"$ref": "#/definitions/handlers.errorResponse"
						}
					}
				},
				"parameters": [
					{
						"in": "body",
						"name": "body",
						"required": true,
						"schema": {
							"$ref": "#/definitions/service.RunTimerRequest"
						}
					}
				],
				"consumes": [
					"application/json"
				],
				"security": [
					{
						"BearerAuth": []
					},
					{
						"BasicAuth": []
					}
				]
			}
		},
		"/api/v1/rtc": {
			"post": {
				"tags": [
					"control"
				],
				"summary": "Set wall clock",
				"produces": [
					"application/json"
				],
				"responses": {
					"200": {
						"description": "OK"
					},
					"400": {
						"description": "Error",
						"schema": {
							"$ref": "#/definitions/handlers.errorResponse"
						}
					},
					"401": {
						"description": "Error",
						"schema": {
							"$ref": "#/definitions/handlers.errorResponse"
						}
					}
				},
				"parameters": [
					{
						"in": "body",
						"name": "body",
						"required": true,
						"schema": {
							"$ref": "#/definitions/service.EpochRequest"
						}
					}
				],
				"consumes": [
					"application/json"
				],
				"security": [
					{
						"BearerAuth": []
					},
					{
						"BasicAuth": []
					}
				]
			}
		},
		"/ws": {
			"get": {
				"tags": [
					"telemetry"
				],
				"summary": "Live status and log stream",
				"produces": [
					"application/json"
				],
				"responses": {
					"200": {
						"description": "OK"
					}
				}
			}
		}
	},
	"definitions": {
		"handlers.authCredentials": {
			"type": "object",
			"required": [
				"username",
				"password"
			],
			"properties": {
				"username": {
					"type": "string"
				},
				"password": {
					"type": "string"
				}
			}
		},
		"handlers.errorResponse": {
			"type": "object",
			"properties": {
				"error": {
					"type": "string"
				}
			}
		},
		"models.DeviceInfo": {
			"type": "object",
			"properties": {
				"device_id": {
					"type": "string"
				},
				"device_name": {
					"type": "string"
				},
				"sw": {
					"type": "string"
				},
				"hw": {
					"type": "string"
				}
			}
		},
		"models.DeviceConfig": {
			"type": "object",
			"properties": {
				"limit_current_a": {
					"type": "number"
				},
				"ovc_mode": {
					"type": "integer",
					"enum": [
						0,
						1
					]
				},
				"ovc_min_ms": {
					"type": "integer"
				},
				"ovc_retry_ms": {
					"type": "integer"
				},
				"temp_motor_c": {
					"type": "number"
				},
				"temp_board_c": {
					"type": "number"
				},
				"temp_ambient_c": {
					"type": "number"
				},
				"temp_hyst_c": {
					"type": "number"
				},
				"latch_overtemp": {
					"type": "boolean"
				},
				"motor_vcc_v": {
					"type": "number"
				},
				"sampling_hz": {
					"type": "integer"
				},
				"buzzer_enabled": {
					"type": "boolean"
				},
				"run_max_s": {
					"type": "integer"
				}
			}
		},
		"models.Calibration": {
			"type": "object",
			"properties": {
				"zero_mv": {
					"type": "number"
				},
				"sens_mv_a": {
					"type": "number"
				},
				"input_scale": {
					"type": "number"
				}
			}
		},
		"service.ConfigUpdate": {
			"allOf": [
				{
					"$ref": "#/definitions/models.DeviceConfig"
				},
				{
					"type": "object",
					"properties": {
						"ignored": {
							"type": "array",
							"items": {
								"type": "string"
							}
						}
					}
				}
			]
		},
		"service.CalibrationUpdate": {
			"allOf": [
				{
					"$ref": "#/definitions/models.Calibration"
				},
				{
					"type": "object",
					"properties": {
						"ignored": {
							"type": "array",
							"items": {
								"type": "string"
							}
						}
					}
				}
			]
		},
		"service.CalibrateRequest": {
			"type": "object",
			"required": [
				"action"
			],
			"properties": {
				"action": {
					"type": "string",
					"enum": [
						"current_zero",
						"current_sensitivity"
					]
				},
				"zero_mv": {
					"type": "number"
				},
				"sens_mv_a": {
					"type": "number"
				},
				"input_scale": {
					"type": "number"
				}
			}
		},
		"service.ControlRequest": {
			"type": "object",
			"required": [
				"action"
			],
			"properties": {
				"action": {
					"type": "string",
					"enum": [
						"start",
						"stop",
						"relay_on",
						"relay_off",
						"clear_fault"
					]
				}
			}
		},
		"service.RunTimerRequest": {
			"type": "object",
			"properties": {
				"seconds": {
					"type": "integer"
				}
			}
		},
		"service.EpochRequest": {
			"type": "object",
			"required": [
				"epoch"
			],
			"properties": {
				"epoch": {
					"type": "integer"
				}
			}
		}
	},
	"securityDefinitions": {
		"BearerAuth": {
			"type": "apiKey",
			"name": "Authorization",
			"in": "header"
		},
		"BasicAuth": {
			"type": "basic"
		}
	}
}`

// SwaggerInfo holds exported Swagger Info so clients can modify it
var SwaggerInfo = &swag.Spec{
	Version:          "1.0",
	Host:             "",
	BasePath:         "/",
	Schemes:          []string{},
	Title:            "Motor Controller API",
	Description:      "Relay control, protection status and telemetry sync for a single motor controller.",
	InfoInstanceName: "swagger",
	SwaggerTemplate:  docTemplate,
}

func init() {
	swag.Register(SwaggerInfo.InstanceName(), SwaggerInfo)
}
