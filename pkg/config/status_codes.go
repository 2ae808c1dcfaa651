package config

import (
	"fmt"
	"os"

	"github.com/binhbb2204/manga-catalog/pkg/models"
	"gopkg.in/yaml.v3"
)

// StatusCodes maps an opaque upgrade code to the role it grants.
type StatusCodes map[string]models.Role

func DefaultStatusCodes() StatusCodes {
	return StatusCodes{
		"ADMIN-2025":   models.RoleAdmin,
		"MANGAKA-2025": models.RoleMangaka,
	}
}

// Lookup returns the role granted by code.
func (s StatusCodes) Lookup(code string) (models.Role, bool) {
	role, ok := s[code]
	return role, ok
}

// LoadStatusCodes reads a YAML file of the form
//
//	codes:
//	  ADMIN-2025: admin
//	  MANGAKA-2025: mangaka
func LoadStatusCodes(path string) (StatusCodes, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read status codes file: %w", err)
	}
	var doc struct {
		Codes map[string]string `yaml:"codes"`
	}
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("failed to parse status codes file: %w", err)
	}
	codes := make(StatusCodes, len(doc.Codes))
	for code, roleName := range doc.Codes {
		role, err := models.ParseRole(roleName)
		if err != nil {
			return nil, fmt.Errorf("status code %q: %w", code, err)
		}
		codes[code] = role
	}
	return codes, nil
}
