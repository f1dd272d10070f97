package main

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func writeTempCatalog(t *testing.T, content string) string {
	t.Helper()

	tmpfile, err := os.CreateTemp("", "test_catalog_*.yaml")
	if err != nil {
		t.Fatalf("Failed to create temp file: %v", err)
	}
	t.Cleanup(func() { os.Remove(tmpfile.Name()) })

	if _, err := tmpfile.Write([]byte(content)); err != nil {
		t.Fatalf("Failed to write catalog: %v", err)
	}
	tmpfile.Close()

	return tmpfile.Name()
}

func TestValidateCatalog_ValidCatalog(t *testing.T) {
	path := writeTempCatalog(t, `products:
  - ДК
  - КК
  - ЦП
`)

	result := validateCatalog(path)
	if !result.Valid {
		t.Errorf("Expected valid catalog, but got errors: %v", result.Errors)
	}

	if result.File != filepath.Base(path) {
		t.Errorf("Expected file name %s, got %s", filepath.Base(path), result.File)
	}

	found := false
	for _, info := range result.Errors {
		if contains(info, "Products: 3") {
			found = true
			break
		}
	}
	if !found {
		t.Errorf("Expected product count in info, got: %v", result.Errors)
	}
}

func TestValidateCatalog_InvalidYAML(t *testing.T) {
	path := writeTempCatalog(t, "products: [unterminated")

	result := validateCatalog(path)
	if result.Valid {
		t.Error("Expected invalid catalog due to bad YAML")
	}

	found := false
	for _, err := range result.Errors {
		if contains(err, "Invalid YAML") {
			found = true
			break
		}
	}
	if !found {
		t.Error("Expected 'Invalid YAML' error")
	}
}

func TestValidateCatalog_MissingFile(t *testing.T) {
	result := validateCatalog("/non/existent/catalog.yaml")
	if result.Valid {
		t.Error("Expected invalid result for missing file")
	}

	found := false
	for _, err := range result.Errors {
		if contains(err, "Failed to read file") {
			found = true
			break
		}
	}
	if !found {
		t.Error("Expected 'Failed to read file' error")
	}
}

func TestValidateCatalog_Empty(t *testing.T) {
	path := writeTempCatalog(t, "products: []\n")

	result := validateCatalog(path)
	if result.Valid {
		t.Error("Expected invalid catalog due to empty product list")
	}

	found := false
	for _, err := range result.Errors {
		if contains(err, "no products") {
			found = true
			break
		}
	}
	if !found {
		t.Error("Expected 'no products' error")
	}
}

func TestValidateCatalog_Duplicates(t *testing.T) {
	path := writeTempCatalog(t, `products:
  - ДК
  - КК
  - ДК
`)

	result := validateCatalog(path)
	if result.Valid {
		t.Error("Expected invalid catalog due to duplicate products")
	}

	found := false
	for _, err := range result.Errors {
		if contains(err, "Duplicate product") {
			found = true
			break
		}
	}
	if !found {
		t.Error("Expected 'Duplicate product' error")
	}
}

func TestValidateCatalog_BlankName(t *testing.T) {
	path := writeTempCatalog(t, `products:
  - ДК
  - ""
`)

	result := validateCatalog(path)
	if result.Valid {
		t.Error("Expected invalid catalog due to blank product name")
	}

	found := false
	for _, err := range result.Errors {
		if contains(err, "Blank product name") {
			found = true
			break
		}
	}
	if !found {
		t.Error("Expected 'Blank product name' error")
	}
}

func TestValidateCatalog_SurroundingWhitespace(t *testing.T) {
	path := writeTempCatalog(t, `products:
  - "ДК "
  - КК
`)

	result := validateCatalog(path)
	if result.Valid {
		t.Error("Expected invalid catalog due to whitespace in name")
	}

	found := false
	for _, err := range result.Errors {
		if contains(err, "surrounding whitespace") {
			found = true
			break
		}
	}
	if !found {
		t.Error("Expected 'surrounding whitespace' error")
	}
}

// Helper function to check if a string contains a substring
func contains(s, substr string) bool {
	return strings.Contains(s, substr)
}
