// Package loader reads declarative model definitions from a YAML schema
// file and populates a model registry from them.
package loader

import (
	"fmt"
	"os"

	"github.com/leapstack-labs/modelsync/pkg/model"
	"gopkg.in/yaml.v3"
)

type schemaFile struct {
	Models []schemaModel `yaml:"models"`
}

type schemaModel struct {
	Name   string        `yaml:"name"`
	Fields []schemaField `yaml:"fields"`
}

type schemaField struct {
	Name       string           `yaml:"name"`
	Type       string           `yaml:"type"`
	Nullable   bool             `yaml:"nullable"`
	References *schemaReference `yaml:"references"`
}

type schemaReference struct {
	Model  string `yaml:"model"`
	Column string `yaml:"column"`
}

// LoadFile reads a schema file and returns a populated registry.
func LoadFile(path string) (*model.Registry, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading schema file: %w", err)
	}
	return Load(data)
}

// Load parses schema YAML and returns a populated registry. Declaration
// errors (duplicate models or fields, unknown types) surface unchanged.
func Load(data []byte) (*model.Registry, error) {
	var sf schemaFile
	if err := yaml.Unmarshal(data, &sf); err != nil {
		return nil, fmt.Errorf("parsing schema file: %w", err)
	}

	reg := model.NewRegistry()
	for _, sm := range sf.Models {
		fields := make([]model.Field, 0, len(sm.Fields))
		for _, f := range sm.Fields {
			kind, err := model.ParseKind(f.Type)
			if err != nil {
				return nil, fmt.Errorf("model %q, field %q: %w", sm.Name, f.Name, err)
			}
			ft := model.FieldType{Kind: kind, Nullable: f.Nullable}
			if f.References != nil {
				ft.Ref = &model.Reference{Model: f.References.Model, Column: f.References.Column}
			}
			fields = append(fields, model.Field{Name: f.Name, Type: ft})
		}
		if _, err := reg.Define(sm.Name, fields); err != nil {
			return nil, err
		}
	}
	return reg, nil
}
