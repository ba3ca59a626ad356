package metadata

import (
	"fmt"
	"io"
	"os"

	"github.com/jfburr/metabase/mbql"
	"gopkg.in/yaml.v3"
)

type yamlRoot struct {
	Tables []yamlTable `yaml:"tables"`
}

type yamlTable struct {
	ID          int         `yaml:"id"`
	Name        string      `yaml:"name"`
	DisplayName string      `yaml:"display_name"`
	Fields      []yamlField `yaml:"fields"`
}

type yamlField struct {
	ID              int          `yaml:"id"`
	Name            string       `yaml:"name"`
	DisplayName     string       `yaml:"display_name"`
	BaseType        string       `yaml:"base_type"`
	SpecialType     string       `yaml:"special_type"`
	FKTargetFieldID int          `yaml:"fk_target_field_id"`
	DefaultUnit     string       `yaml:"default_unit"`
	Options         []yamlOption `yaml:"dimension_options"`
	DefaultOption   *yamlOption  `yaml:"default_dimension_option"`
}

type yamlOption struct {
	Name string `yaml:"name"`
	MBQL []any  `yaml:"mbql"`
}

// LoadYAML reads a metadata registry from its YAML fixture form.
func LoadYAML(r io.Reader) (*Metadata, error) {
	var root yamlRoot
	if err := yaml.NewDecoder(r).Decode(&root); err != nil {
		return nil, fmt.Errorf("metadata: %w", err)
	}
	tables := make([]*Table, 0, len(root.Tables))
	for _, yt := range root.Tables {
		t := &Table{
			ID:          yt.ID,
			Name:        yt.Name,
			DisplayName: yt.DisplayName,
		}
		for _, yf := range yt.Fields {
			f := &Field{
				ID:              yf.ID,
				Name:            yf.Name,
				DisplayName:     yf.DisplayName,
				BaseType:        BaseType(yf.BaseType),
				SpecialType:     BaseType(yf.SpecialType),
				FKTargetFieldID: yf.FKTargetFieldID,
				DefaultUnit:     yf.DefaultUnit,
			}
			for _, opt := range yf.Options {
				f.DimensionOptions = append(f.DimensionOptions, opt.option())
			}
			if yf.DefaultOption != nil {
				opt := yf.DefaultOption.option()
				f.DefaultOption = &opt
			}
			t.Fields = append(t.Fields, f)
		}
		tables = append(tables, t)
	}
	return New(tables...), nil
}

// LoadYAMLFile reads a metadata registry from a YAML fixture on disk.
func LoadYAMLFile(path string) (*Metadata, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	return LoadYAML(f)
}

func (o yamlOption) option() DimensionOption {
	var clause mbql.Clause
	if o.MBQL != nil {
		clause = mbql.Normalize(o.MBQL).(mbql.Clause)
	}
	return DimensionOption{Name: o.Name, MBQL: clause}
}
