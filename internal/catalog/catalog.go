// Package catalog holds the tag vocabularies the platform recommends over:
// interest categories, delivery formats and event types. The defaults mirror
// the production vocabulary; deployments can override them with a yaml file.
package catalog

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

type Catalog struct {
	Interests  []string `yaml:"interests"`
	Formats    []string `yaml:"formats"`
	EventTypes []string `yaml:"event_types"`
}

var defaultCatalog = Catalog{
	Interests: []string{
		"IT", "искусства", "музыка", "языки", "экономика",
		"менеджмент", "творчество", "спорт", "инжинерия", "культура",
	},
	Formats: []string{"онлайн", "офлайн", "гибрид"},
	EventTypes: []string{
		"хакатон", "лекция", "мастер-класс", "концерт", "встреча", "семинар",
		"воркшоп", "конференция", "выставка", "фестиваль", "конкурс", "чемпионат",
	},
}

// Default returns a copy of the built-in vocabulary.
func Default() Catalog {
	return Catalog{
		Interests:  append([]string(nil), defaultCatalog.Interests...),
		Formats:    append([]string(nil), defaultCatalog.Formats...),
		EventTypes: append([]string(nil), defaultCatalog.EventTypes...),
	}
}

// Load reads a catalog override from path. Sections left empty in the file
// fall back to the built-in vocabulary, so a partial override is valid.
func Load(path string) (Catalog, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return Catalog{}, fmt.Errorf("read catalog file: %w", err)
	}
	var c Catalog
	if err := yaml.Unmarshal(raw, &c); err != nil {
		return Catalog{}, fmt.Errorf("parse catalog file: %w", err)
	}
	if len(c.Interests) == 0 {
		c.Interests = Default().Interests
	}
	if len(c.Formats) == 0 {
		c.Formats = Default().Formats
	}
	if len(c.EventTypes) == 0 {
		c.EventTypes = Default().EventTypes
	}
	return c, nil
}

// FromEnv loads the catalog named by CATALOG_PATH, or the built-in one when
// the variable is unset. A broken override file is an error rather than a
// silent fallback: a deployment that sets the variable wants it honored.
func FromEnv() (Catalog, error) {
	path := os.Getenv("CATALOG_PATH")
	if path == "" {
		return Default(), nil
	}
	return Load(path)
}
