// Package openapi embeds the OpenAPI document of the distflow HTTP API.
package openapi

import (
	"embed"
)

//go:embed openapi.json
var content embed.FS

// GetSpec возвращает содержимое OpenAPI спецификации
func GetSpec() ([]byte, error) {
	return content.ReadFile("openapi.json")
}

// MustGetSpec возвращает спецификацию или паникует
func MustGetSpec() []byte {
	data, err := GetSpec()
	if err != nil {
		panic("failed to load OpenAPI spec: " + err.Error())
	}
	return data
}
