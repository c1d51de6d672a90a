/*
Copyright © 2026 Seednode <seednode@seedno.de>
*/

package roster

import (
	"encoding/json"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/BurntSushi/toml"
	"gopkg.in/yaml.v3"
)

// Record is one creature as written in a roster file. Weaknesses,
// strengths and display names are derived during enrichment.
type Record struct {
	ID          int      `yaml:"id" json:"id" toml:"id"`
	Name        string   `yaml:"name" json:"name" toml:"name"`
	Height      int      `yaml:"height" json:"height" toml:"height"`
	Weight      int      `yaml:"weight" json:"weight" toml:"weight"`
	Types       []string `yaml:"types" json:"types" toml:"types"`
	Generation  int      `yaml:"generation" json:"generation" toml:"generation"`
	Legendary   bool     `yaml:"legendary" json:"legendary" toml:"legendary"`
	Mythical    bool     `yaml:"mythical" json:"mythical" toml:"mythical"`
	Baby        bool     `yaml:"baby" json:"baby" toml:"baby"`
	EvolvesFrom string   `yaml:"evolves_from" json:"evolves_from" toml:"evolves_from"`
	Chain       int      `yaml:"chain" json:"chain" toml:"chain"`
	Color       string   `yaml:"color" json:"color" toml:"color"`
}

type document struct {
	Creatures []Record `yaml:"creatures" json:"creatures" toml:"creatures"`
}

// Format is a roster file encoding.
type Format string

const (
	FormatYAML Format = "yaml"
	FormatJSON Format = "json"
	FormatTOML Format = "toml"
)

// FormatFor picks a format from a file extension.
func FormatFor(path string) (Format, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		return FormatYAML, nil
	case ".json":
		return FormatJSON, nil
	case ".toml":
		return FormatTOML, nil
	}

	return "", fmt.Errorf("unsupported roster format %q (want .yaml, .yml, .json or .toml)", filepath.Ext(path))
}

// Parse decodes a roster document of the form {creatures: [...]}.
func Parse(data []byte, format Format) ([]Record, error) {
	var doc document

	var err error
	switch format {
	case FormatYAML:
		err = yaml.Unmarshal(data, &doc)
	case FormatJSON:
		err = json.Unmarshal(data, &doc)
	case FormatTOML:
		err = toml.Unmarshal(data, &doc)
	default:
		return nil, fmt.Errorf("unsupported roster format %q", format)
	}

	if err != nil {
		return nil, fmt.Errorf("parse %s roster: %w", format, err)
	}

	return doc.Creatures, nil
}
