// pkg/registry/schema.go
package registry

// SchemaRegistry is the catalog of request payload schemas, one resource
// per record module. The file lives under configs/ and is versioned with
// the API.
type SchemaRegistry struct {
	Version     string     `json:"version"`
	LastUpdated string     `json:"lastUpdated"`
	Resources   []Resource `json:"resources"`
}

// Resource describes the payload contracts of one record module.
type Resource struct {
	Name         string                 `json:"name"`
	Description  string                 `json:"description"`
	CreateSchema map[string]interface{} `json:"createSchema"`
	UpdateSchema map[string]interface{} `json:"updateSchema"`
}
