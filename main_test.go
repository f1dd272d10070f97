package main

import (
	"testing"

	"github.com/zaruba-app/zaruba/scoring/catalog"
)

func TestConstants(t *testing.T) {
	if Version == "" {
		t.Error("Version should not be empty")
	}
	if AppName == "" {
		t.Error("AppName should not be empty")
	}

	expectedVersion := "1.0.0"
	if Version != expectedVersion {
		t.Errorf("Expected version %s, got %s", expectedVersion, Version)
	}

	expectedAppName := "Zaruba Scoring Server"
	if AppName != expectedAppName {
		t.Errorf("Expected app name %s, got %s", expectedAppName, AppName)
	}
}

func TestLoadCatalog_Default(t *testing.T) {
	cat, err := loadCatalog("")
	if err != nil {
		t.Fatalf("loadCatalog failed: %v", err)
	}

	if cat.Len() != catalog.Default().Len() {
		t.Errorf("Expected built-in catalog with %d products, got %d", catalog.Default().Len(), cat.Len())
	}
}

func TestLoadCatalog_MissingFile(t *testing.T) {
	_, err := loadCatalog("/non/existent/catalog.yaml")
	if err == nil {
		t.Error("Expected error for non-existent catalog file")
	}
}

// Note: run(), runHTTPServer(), and runStdioMCPWithInternalServer() start
// servers and block, so they are exercised by the API and transport tests
// rather than here.
