// Package mappingstore loads and saves named mapping variants: alternate
// line-item tables and category tables kept as YAML files instead of code
// copies. A missing file is not an error, the canonical defaults apply.
package mappingstore

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/sirupsen/logrus"
	"gopkg.in/yaml.v3"

	"jkouame/tft-engine/internal/mastersheet"
	"jkouame/tft-engine/internal/models"
	"jkouame/tft-engine/internal/tft"
)

var log = logrus.New()

// SetLogger allows setting a custom logger.
func SetLogger(logger *logrus.Logger) {
	if logger != nil {
		log = logger
	}
}

// MappingFile is the on-disk shape of a mappings file: any number of named
// variants, each overriding the line-item table, the category table or both.
type MappingFile struct {
	Variants map[string]Variant `yaml:"variants"`
}

// Variant is one named mapping override.
type Variant struct {
	LineItems  []models.LineItemSpec `yaml:"line_items,omitempty"`
	Categories []models.CategorySpec `yaml:"categories,omitempty"`
}

// Store manages the mappings file.
type Store struct {
	MappingsFile string
}

// NewStore creates a store for the given mappings file path.
func NewStore(mappingsFile string) *Store {
	return &Store{MappingsFile: mappingsFile}
}

// FindConfigFile looks for the mappings file in standard locations.
func (s *Store) FindConfigFile(filename string) (string, error) {
	if filepath.IsAbs(filename) {
		if _, err := os.Stat(filename); err == nil {
			return filename, nil
		}
		return "", os.ErrNotExist
	}

	locations := []string{
		filename,
		filepath.Join("config", filename),
		filepath.Join("database", filename),
	}
	for _, location := range locations {
		if _, err := os.Stat(location); err == nil {
			return location, nil
		}
	}

	homeDir, err := os.UserHomeDir()
	if err == nil {
		configPath := filepath.Join(homeDir, ".config", "tft-engine", filename)
		if _, err := os.Stat(configPath); err == nil {
			return configPath, nil
		}
	}

	return "", os.ErrNotExist
}

// Load reads the named variant and returns the line-item and category
// tables to use. A missing file, or a variant that omits one of the tables,
// falls back to the canonical defaults for the missing part. A loaded
// line-item table is validated before use.
func (s *Store) Load(variant string) ([]models.LineItemSpec, []models.CategorySpec, error) {
	specs := tft.DefaultModel()
	categories := mastersheet.DefaultCategories()

	if variant == "" || variant == "default" {
		return specs, categories, nil
	}

	filename := s.MappingsFile
	if filename == "" {
		filename = "mappings.yaml"
	}

	filePath, err := s.FindConfigFile(filename)
	if err != nil {
		if os.IsNotExist(err) {
			log.Warnf("Mappings file not found: %s, using default tables", filename)
			return specs, categories, nil
		}
		return nil, nil, fmt.Errorf("error resolving mappings file: %w", err)
	}

	data, err := os.ReadFile(filePath)
	if err != nil {
		return nil, nil, fmt.Errorf("error reading mappings file: %w", err)
	}

	var file MappingFile
	if err := yaml.Unmarshal(data, &file); err != nil {
		return nil, nil, fmt.Errorf("error parsing mappings file: %w", err)
	}

	v, ok := file.Variants[variant]
	if !ok {
		return nil, nil, fmt.Errorf("unknown mapping variant %q in %s", variant, filePath)
	}

	if len(v.LineItems) > 0 {
		if err := tft.ValidateModel(v.LineItems); err != nil {
			return nil, nil, fmt.Errorf("invalid line-item table in variant %q: %w", variant, err)
		}
		specs = v.LineItems
	}
	if len(v.Categories) > 0 {
		categories = v.Categories
	}

	log.Debugf("Loaded mapping variant %q from %s", variant, filePath)
	return specs, categories, nil
}

// Save writes the full mappings file, creating parent directories as needed.
func (s *Store) Save(file MappingFile) error {
	filename := s.MappingsFile
	if filename == "" {
		filename = "mappings.yaml"
	}

	filePath, err := s.FindConfigFile(filename)
	if err != nil && err != os.ErrNotExist {
		return fmt.Errorf("error resolving mappings file: %w", err)
	}
	if err == os.ErrNotExist {
		if !filepath.IsAbs(filename) {
			filePath = filepath.Join("database", filename)
		} else {
			filePath = filename
		}
	}

	for name, v := range file.Variants {
		if len(v.LineItems) > 0 {
			if err := tft.ValidateModel(v.LineItems); err != nil {
				return fmt.Errorf("invalid line-item table in variant %q: %w", name, err)
			}
		}
	}

	dir := filepath.Dir(filePath)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("error creating directory: %w", err)
	}

	data, err := yaml.Marshal(file)
	if err != nil {
		return fmt.Errorf("error marshaling mappings: %w", err)
	}

	if err := os.WriteFile(filePath, data, 0644); err != nil {
		return fmt.Errorf("error writing mappings: %w", err)
	}

	log.Debugf("Saved %d mapping variants to %s", len(file.Variants), filePath)
	return nil
}
