package config

import (
	"fmt"
	"os"
	"strings"

	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"

	apperrors "github.com/fer-correa/OSPO-ColabAchievements/internal/errors"
)

// Targets is the set of repositories and organizations to ingest,
// loaded once before a run begins.
type Targets struct {
	// Repositories are explicit "owner/name" identifiers.
	Repositories []string `koanf:"repositories"`

	// Organizations are expanded into their public repositories.
	Organizations []string `koanf:"organizations"`
}

// LoadTargets builds the run targets by layering the YAML config file and
// environment variables.
// Order of precedence (low -> high):
//  1. file (YAML), if present
//  2. env (OSPO_REPOSITORIES / OSPO_ORGANIZATIONS, comma-separated)
func LoadTargets(path string) (*Targets, error) {
	k := koanf.New(".")

	if _, err := os.Stat(path); err == nil {
		if err := k.Load(file.Provider(path), yaml.Parser()); err != nil {
			return nil, fmt.Errorf("failed to parse %s: %w", path, err)
		}
	}

	// Comma-separated env lists override the file wholesale.
	envProvider := env.ProviderWithValue("OSPO_", ".", func(key, value string) (string, interface{}) {
		key = strings.ToLower(strings.TrimPrefix(key, "OSPO_"))
		parts := strings.Split(value, ",")
		list := make([]string, 0, len(parts))
		for _, p := range parts {
			if p = strings.TrimSpace(p); p != "" {
				list = append(list, p)
			}
		}
		return key, list
	})
	if err := k.Load(envProvider, nil); err != nil {
		return nil, err
	}

	var t Targets
	if err := k.UnmarshalWithConf("", &t, koanf.UnmarshalConf{Tag: "koanf"}); err != nil {
		return nil, err
	}

	if len(t.Repositories) == 0 && len(t.Organizations) == 0 {
		return nil, apperrors.NewConfigError("no repositories or organizations configured")
	}
	return &t, nil
}
