package shared

import (
	"fmt"
	"os"

	"github.com/BurntSushi/toml"
)

// Translator resolves UI string keys against a preloaded dictionary.
// Unknown keys fall back to the key itself, so an empty or missing
// dictionary degrades to English rather than failing.
type Translator struct {
	dict map[string]string
}

// NewTranslator creates a Translator over the given dictionary. A nil map
// is valid and yields identity lookups.
func NewTranslator(dict map[string]string) *Translator {
	return &Translator{dict: dict}
}

// LoadTranslator reads a TOML dictionary of key = "translation" pairs.
// An empty path returns an identity translator.
func LoadTranslator(path string) (*Translator, error) {
	if path == "" {
		return NewTranslator(nil), nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read locale file: %w", err)
	}

	dict := make(map[string]string)
	if err := toml.Unmarshal(data, &dict); err != nil {
		return nil, fmt.Errorf("failed to parse locale file: %w", err)
	}

	return NewTranslator(dict), nil
}

// T returns the translation for key, or key itself when absent.
func (tr *Translator) T(key string) string {
	if tr == nil || tr.dict == nil {
		return key
	}
	if s, ok := tr.dict[key]; ok && s != "" {
		return s
	}
	return key
}
