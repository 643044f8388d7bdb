package i18n

import (
	"embed"
	"fmt"
	"sync"

	"gopkg.in/yaml.v3"
)

// DefaultLanguage is used for unknown language codes
const DefaultLanguage = "zh"

//go:embed locales/*.yml
var localesFS embed.FS

// Translations holds all user-facing strings for one language
type Translations struct {
	Download struct {
		Start      string `yaml:"start"`
		OutputDir  string `yaml:"output_dir"`
		Extracting string `yaml:"extracting"`
		Title      string `yaml:"title"`
		Duration   string `yaml:"duration"`
		Seconds    string `yaml:"seconds"`
		Size       string `yaml:"size"`
		Unknown    string `yaml:"unknown"`
		Completed  string `yaml:"completed"`
		Failed     string `yaml:"failed"`
	} `yaml:"download"`
	Batch struct {
		Found     string `yaml:"found"`
		Completed string `yaml:"completed"`
		Failed    string `yaml:"failed"`
		FailedURL string `yaml:"failed_urls"`
		NoURLs    string `yaml:"no_urls"`
	} `yaml:"batch"`
	Errors struct {
		NotInstalled string `yaml:"not_installed"`
		InstallHint  string `yaml:"install_hint"`
		ConfigLoad   string `yaml:"config_load"`
	} `yaml:"errors"`
}

var (
	mu    sync.Mutex
	cache = map[string]*Translations{}
)

// Languages returns the supported language codes
func Languages() []string {
	return []string{"zh", "en"}
}

// T returns translations for lang, falling back to DefaultLanguage
func T(lang string) *Translations {
	mu.Lock()
	defer mu.Unlock()
	return lookup(lang)
}

func lookup(lang string) *Translations {
	if t, ok := cache[lang]; ok {
		return t
	}

	t, err := load(lang)
	if err != nil {
		if lang == DefaultLanguage {
			// embedded catalog is broken
			panic(err)
		}
		t = lookup(DefaultLanguage)
	}
	cache[lang] = t
	return t
}

func load(lang string) (*Translations, error) {
	data, err := localesFS.ReadFile("locales/" + lang + ".yml")
	if err != nil {
		return nil, fmt.Errorf("unsupported language %q", lang)
	}
	var t Translations
	if err := yaml.Unmarshal(data, &t); err != nil {
		return nil, fmt.Errorf("failed to parse %s catalog: %w", lang, err)
	}
	return &t, nil
}
