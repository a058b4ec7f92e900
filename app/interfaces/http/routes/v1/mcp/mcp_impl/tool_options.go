package mcpimpl

import (
	"reflect"
	"strings"

	"github.com/mark3labs/mcp-go/mcp"
)

// ReflectToMCPOptions builds tool arguments from the json and jsonschema
// tags of an args struct.
func ReflectToMCPOptions(description string, v interface{}) []mcp.ToolOption {
	t := reflect.TypeOf(v)
	if t.Kind() == reflect.Ptr {
		t = t.Elem()
	}

	opts := []mcp.ToolOption{mcp.WithDescription(description)}
	for i := 0; i < t.NumField(); i++ {
		f := t.Field(i)

		jsonTag := f.Tag.Get("json")
		if jsonTag == "" || jsonTag == "-" {
			continue
		}
		name := strings.Split(jsonTag, ",")[0]

		jsSchema := f.Tag.Get("jsonschema")
		props := []mcp.PropertyOption{mcp.Description(extractDescription(jsSchema))}
		if hasSchemaFlag(jsSchema, "required") {
			props = append(props, mcp.Required())
		}

		baseType := f.Type
		if baseType.Kind() == reflect.Ptr {
			baseType = baseType.Elem()
		}
		switch baseType.Kind() {
		case reflect.String:
			opts = append(opts, mcp.WithString(name, props...))
		case reflect.Int, reflect.Int64, reflect.Float64:
			opts = append(opts, mcp.WithNumber(name, props...))
		case reflect.Bool:
			opts = append(opts, mcp.WithBoolean(name, props...))
		}
	}
	return opts
}

// description must be the last entry since it may contain commas
func extractDescription(tag string) string {
	if idx := strings.Index(tag, "description="); idx >= 0 {
		return tag[idx+len("description="):]
	}
	return ""
}

func hasSchemaFlag(tag string, flag string) bool {
	head := tag
	if idx := strings.Index(tag, "description="); idx >= 0 {
		head = tag[:idx]
	}
	for _, part := range strings.Split(head, ",") {
		if strings.TrimSpace(part) == flag {
			return true
		}
	}
	return false
}
