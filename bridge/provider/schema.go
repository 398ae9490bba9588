package provider

import (
	"encoding/json"
	"maps"
	"slices"

	"github.com/invopop/jsonschema"
)

var reflector = jsonschema.Reflector{
	AllowAdditionalProperties:  false,
	DoNotReference:             true,
	RequiredFromJSONSchemaTags: true,
}

// GenerateSchema reflects T into a strict JSON schema: every object closes
// additionalProperties and lists all of its properties as required. It panics
// if T cannot be reflected, so callers build schemas at package init.
func GenerateSchema[T any]() map[string]any {
	var v T
	b, err := json.Marshal(reflector.Reflect(v))
	if err != nil {
		panic("GenerateSchema: " + err.Error())
	}
	var root map[string]any
	if err := json.Unmarshal(b, &root); err != nil {
		panic("GenerateSchema: " + err.Error())
	}
	tighten(root, true)
	return root
}

// tighten rewrites node in place. Document metadata only lives on the root.
func tighten(node map[string]any, root bool) {
	if root {
		delete(node, "$schema")
		delete(node, "$id")
	}
	props, _ := node["properties"].(map[string]any)
	if node["type"] == "object" {
		node["additionalProperties"] = false
		if len(props) > 0 {
			node["required"] = slices.Sorted(maps.Keys(props))
		}
	}
	for _, p := range props {
		if child, ok := p.(map[string]any); ok {
			tighten(child, false)
		}
	}
	for _, key := range []string{"items", "additionalProperties"} {
		if child, ok := node[key].(map[string]any); ok {
			tighten(child, false)
		}
	}
}
