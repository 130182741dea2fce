// Package orderapi embeds the static assets the HTTP transport serves, so a
// deployed binary does not depend on the source tree being present.
package orderapi

import _ "embed"

// SwaggerYAML is the OpenAPI document served at /swagger.yaml.
//
//go:embed swagger.yaml
var SwaggerYAML []byte
