package main

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"
)

// itemsFile is the on-disk layout of items.yml: items: [[weight, value], ...]
type itemsFile struct {
	Items [][]int64 `yaml:"items"`
}

// LoadItems reads an item catalog from path. Files ending in .json are read
// as JSON, everything else as YAML. An empty catalog is returned together
// with ErrEmptyCatalog so callers may decide to continue.
func LoadItems(path string) ([]Item, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read items %s: %w", path, err)
	}
	var items []Item
	if strings.EqualFold(filepath.Ext(path), ".json") {
		items, err = parseItemsJSON(string(data))
	} else {
		items, err = parseItemsYAML(data)
	}
	if err != nil {
		return nil, fmt.Errorf("parse items %s: %w", path, err)
	}
	if len(items) == 0 {
		return items, fmt.Errorf("%s: %w", path, ErrEmptyCatalog)
	}
	return items, nil
}

func parseItemsYAML(data []byte) ([]Item, error) {
	var f itemsFile
	if err := yaml.Unmarshal(data, &f); err != nil {
		return nil, err
	}
	items := make([]Item, 0, len(f.Items))
	for i, pair := range f.Items {
		if len(pair) != 2 {
			return nil, fmt.Errorf("item %d: want [weight, value], got %d fields", i, len(pair))
		}
		it := Item{Weight: pair[0], Value: pair[1]}
		if err := checkItem(i, it); err != nil {
			return nil, err
		}
		items = append(items, it)
	}
	return items, nil
}

func checkItem(i int, it Item) error {
	if it.Weight < 0 || it.Value < 0 {
		return fmt.Errorf("item %d: negative weight or value (%d, %d)", i, it.Weight, it.Value)
	}
	return nil
}

// SaveItems writes items to path in the items.yml layout.
func SaveItems(path string, items []Item) error {
	f := itemsFile{Items: make([][]int64, len(items))}
	for i, it := range items {
		f.Items[i] = []int64{it.Weight, it.Value}
	}
	data, err := yaml.Marshal(&f)
	if err != nil {
		return err
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("write items %s: %w", path, err)
	}
	return nil
}
