package secrets

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"regexp"

	"github.com/BurntSushi/toml"
)

// Allowlist holds content patterns that are never redacted, such as the
// well-known sandbox fixtures in Persona's documentation.
type Allowlist struct {
	Regexes []string
}

// LoadAllowlist reads an allowlist file:
//
//	[allowlist]
//	regexes = ['''persona_sandbox_DOCS_EXAMPLE''']
//
// A missing file yields an empty allowlist. Invalid TOML or patterns are
// errors.
func LoadAllowlist(path string) (*Allowlist, error) {
	var file struct {
		Allowlist struct {
			Regexes []string
		}
	}

	if _, err := os.Stat(path); err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return &Allowlist{Regexes: []string{}}, nil
		}
		return nil, fmt.Errorf("reading allowlist: %w", err)
	}

	if _, err := toml.DecodeFile(path, &file); err != nil {
		return nil, fmt.Errorf("%w: %s: %v", ErrInvalidTOML, path, err)
	}

	for _, pattern := range file.Allowlist.Regexes {
		if _, err := regexp.Compile(pattern); err != nil {
			return nil, fmt.Errorf("%w: invalid pattern '%s' in %s: %v",
				ErrInvalidRegex, pattern, path, err)
		}
	}

	regexes := file.Allowlist.Regexes
	if regexes == nil {
		regexes = []string{}
	}
	return &Allowlist{Regexes: regexes}, nil
}
