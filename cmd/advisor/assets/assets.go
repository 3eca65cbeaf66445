// Package assets embeds static files served by the advisor.
package assets

import _ "embed"

// OpenAPIData is the OpenAPI document shown by the Swagger UI.
//
//go:embed openapi.yaml
var OpenAPIData []byte
