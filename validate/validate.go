// Command validate provides a small CLI that validates product catalog YAML
// files before they are handed to the server. It checks:
//   - YAML structure and the presence of a products list
//   - No blank product names
//   - No duplicate product names
//   - No leading/trailing whitespace in names
package main

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"
)

// catalogFile mirrors the YAML schema for a product catalog.
type catalogFile struct {
	Products []string `yaml:"products"`
}

// ValidationResult captures the outcome of validating a single file.
// If Valid is true, Errors contains informational messages; otherwise it
// accumulates the validation errors that were found.
type ValidationResult struct {
	File   string
	Valid  bool
	Errors []string
}

// validateCatalog loads and validates a single catalog YAML file.
func validateCatalog(filePath string) ValidationResult {
	result := ValidationResult{
		File:   filepath.Base(filePath),
		Valid:  true,
		Errors: []string{},
	}

	data, err := os.ReadFile(filePath)
	if err != nil {
		result.Valid = false
		result.Errors = append(result.Errors, fmt.Sprintf("Failed to read file: %v", err))
		return result
	}

	var file catalogFile
	if err := yaml.Unmarshal(data, &file); err != nil {
		result.Valid = false
		result.Errors = append(result.Errors, fmt.Sprintf("Invalid YAML: %v", err))
		return result
	}

	if len(file.Products) == 0 {
		result.Valid = false
		result.Errors = append(result.Errors, "Catalog has no products")
		return result
	}

	seen := make(map[string]int)
	for i, name := range file.Products {
		if strings.TrimSpace(name) == "" {
			result.Valid = false
			result.Errors = append(result.Errors, fmt.Sprintf("Blank product name at position %d", i+1))
			continue
		}
		if name != strings.TrimSpace(name) {
			result.Valid = false
			result.Errors = append(result.Errors, fmt.Sprintf("Product %q at position %d has surrounding whitespace", name, i+1))
		}
		if prev, dup := seen[name]; dup {
			result.Valid = false
			result.Errors = append(result.Errors, fmt.Sprintf("Duplicate product %q at positions %d and %d", name, prev+1, i+1))
		} else {
			seen[name] = i
		}
	}

	if result.Valid {
		result.Errors = append(result.Errors, fmt.Sprintf("✓ Products: %d", len(file.Products)))
		result.Errors = append(result.Errors, fmt.Sprintf("✓ First: %s", file.Products[0]))
		result.Errors = append(result.Errors, fmt.Sprintf("✓ Last: %s", file.Products[len(file.Products)-1]))
	}

	return result
}

// main scans the given directory (default "../catalogs") for *.yaml files and
// validates each one, printing a concise report and exiting with non-zero
// status if any are invalid.
func main() {
	catalogDir := "../catalogs"
	if len(os.Args) > 1 {
		catalogDir = os.Args[1]
	}

	files, err := filepath.Glob(filepath.Join(catalogDir, "*.yaml"))
	if err != nil {
		fmt.Printf("Error finding catalog files: %v\n", err)
		os.Exit(1)
	}
	ymlFiles, _ := filepath.Glob(filepath.Join(catalogDir, "*.yml"))
	files = append(files, ymlFiles...)

	if len(files) == 0 {
		fmt.Printf("No catalog files found in %s\n", catalogDir)
		os.Exit(1)
	}

	allValid := true
	for _, file := range files {
		result := validateCatalog(file)

		fmt.Printf("\n%s %s\n", strings.Repeat("=", 20), result.File)

		if result.Valid {
			fmt.Println("✅ VALID")
			for _, info := range result.Errors {
				fmt.Println("  " + info)
			}
		} else {
			fmt.Println("❌ INVALID")
			allValid = false
			for _, err := range result.Errors {
				if !strings.HasPrefix(err, "✓") {
					fmt.Println("  ❌ " + err)
				}
			}
		}
	}

	fmt.Printf("\n%s\n", strings.Repeat("=", 40))
	if allValid {
		fmt.Println("✅ All catalogs are valid!")
	} else {
		fmt.Println("❌ Some catalogs have errors")
		os.Exit(1)
	}
}
