// pkg/registry/registry.go
package registry

import (
	"encoding/json"
	"fmt"
	"os"
)

func LoadRegistry(path string) (*SchemaRegistry, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var reg SchemaRegistry
	err = json.Unmarshal(data, &reg)
	return &reg, err
}

// Resource returns the schema entry for one record module.
func (r *SchemaRegistry) Resource(name string) (*Resource, error) {
	for i := range r.Resources {
		if r.Resources[i].Name == name {
			return &r.Resources[i], nil
		}
	}
	return nil, fmt.Errorf("resource %q not in schema registry", name)
}
