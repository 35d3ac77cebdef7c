// Package store provides the persistence edges of the pipeline: YAML-backed
// reference data (categories, rules, merchants, bank formats), an in-memory
// transaction store, and an append-only feedback log.
package store

import (
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"

	"ledgerflow/ingest/internal/bankformat"
	"ledgerflow/ingest/internal/logging"
	"ledgerflow/ingest/internal/models"
)

// FindConfigFile looks for name in the conventional locations: the working
// directory, ./config/, and ~/.config/ledgerflow/. First hit wins.
func FindConfigFile(name string) (string, error) {
	candidates := []string{
		name,
		filepath.Join("config", name),
	}
	if home, err := os.UserHomeDir(); err == nil {
		candidates = append(candidates, filepath.Join(home, ".config", "ledgerflow", name))
	}
	for _, c := range candidates {
		if info, err := os.Stat(c); err == nil && !info.IsDir() {
			return c, nil
		}
	}
	return "", fmt.Errorf("config file %q not found in search path", name)
}

// AssetStore loads reference data from YAML files on the config search path.
type AssetStore struct {
	logger logging.Logger
}

// NewAssetStore creates an AssetStore.
func NewAssetStore(logger logging.Logger) *AssetStore {
	return &AssetStore{logger: logger}
}

func (s *AssetStore) loadYAML(name string, out interface{}) error {
	path, err := FindConfigFile(name)
	if err != nil {
		return err
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read %s: %w", path, err)
	}
	if err := yaml.Unmarshal(data, out); err != nil {
		return fmt.Errorf("parse %s: %w", path, err)
	}
	s.logger.Debug("Loaded config asset", logging.Field{Key: "path", Value: path})
	return nil
}

// LoadCategories reads the category taxonomy from categories.yaml.
func (s *AssetStore) LoadCategories() ([]models.Category, error) {
	var doc struct {
		Categories []models.Category `yaml:"categories"`
	}
	if err := s.loadYAML("categories.yaml", &doc); err != nil {
		return nil, err
	}
	return doc.Categories, nil
}

// LoadRules reads user-defined categorization rules from rules.yaml.
func (s *AssetStore) LoadRules() ([]models.CustomRule, error) {
	var doc struct {
		Rules []models.CustomRule `yaml:"rules"`
	}
	if err := s.loadYAML("rules.yaml", &doc); err != nil {
		return nil, err
	}
	return doc.Rules, nil
}

// LoadMerchants reads the merchant reference table from merchants.yaml. Keys
// are canonical merchant match strings.
func (s *AssetStore) LoadMerchants() (map[string]models.MerchantInfo, error) {
	var doc struct {
		Merchants map[string]models.MerchantInfo `yaml:"merchants"`
	}
	if err := s.loadYAML("merchants.yaml", &doc); err != nil {
		return nil, err
	}
	return doc.Merchants, nil
}

// LoadFormats reads extra bank format configs from formats.yaml and registers
// them, overriding builtins on code collision.
func (s *AssetStore) LoadFormats(registry *bankformat.Registry) error {
	var doc struct {
		Formats []bankformat.FormatConfig `yaml:"formats"`
	}
	if err := s.loadYAML("formats.yaml", &doc); err != nil {
		return err
	}
	for _, cfg := range doc.Formats {
		if err := registry.Register(cfg); err != nil {
			return fmt.Errorf("register format %q: %w", cfg.Code, err)
		}
	}
	s.logger.Info("Registered bank formats from config",
		logging.Field{Key: "count", Value: len(doc.Formats)})
	return nil
}
