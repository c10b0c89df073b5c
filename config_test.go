package repocat

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.json")
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestLoadConfig(t *testing.T) {
	assert := assert.New(t)

	path := writeConfig(t, `{"file_extensions": ["py", "rs"]}`)
	cfg, err := LoadConfig(path)
	assert.NoError(err)
	assert.Equal([]string{"py", "rs"}, cfg.FileExtensions)
}

func TestLoadConfigHuJSON(t *testing.T) {
	assert := assert.New(t)

	// Comments and trailing commas are tolerated.
	path := writeConfig(t, `{
		// allowed extensions
		"file_extensions": [
			"py",
			"toml",
		],
	}`)
	cfg, err := LoadConfig(path)
	assert.NoError(err)
	assert.Equal([]string{"py", "toml"}, cfg.FileExtensions)
}

func TestLoadConfigMalformed(t *testing.T) {
	assert := assert.New(t)

	path := writeConfig(t, `{"file_extensions": [`)
	_, err := LoadConfig(path)
	assert.Error(err)
	assert.True(errors.Is(err, ErrConfig))
}

func TestLoadConfigEmptyExtensions(t *testing.T) {
	assert := assert.New(t)

	path := writeConfig(t, `{"file_extensions": []}`)
	_, err := LoadConfig(path)
	assert.Error(err)
	assert.True(errors.Is(err, ErrConfig))
}

func TestLoadConfigMissingFile(t *testing.T) {
	assert := assert.New(t)

	_, err := LoadConfig(filepath.Join(t.TempDir(), "nope.json"))
	assert.Error(err)
	assert.False(errors.Is(err, ErrConfig))
}

func TestSplitPatterns(t *testing.T) {
	assert := assert.New(t)

	assert.Nil(SplitPatterns(""))
	assert.Equal([]string{"*.go", "*.md"}, SplitPatterns("*.go,*.md"))
	assert.Equal([]string{"*.go", "*.md"}, SplitPatterns(" *.go , *.md ,"))
}

func TestBuildRulesModes(t *testing.T) {
	assert := assert.New(t)

	// Glob mode with explicit patterns.
	rules, err := BuildRules(nil, "*.go", "*_test.go")
	assert.NoError(err)
	assert.True(rules.Match("main.go"))
	assert.False(rules.Match("main_test.go"))

	// Extension mode from a legacy config.
	rules, err = BuildRules(&Config{FileExtensions: []string{"py"}}, "", "")
	assert.NoError(err)
	assert.True(rules.Match("a.py"))
	assert.False(rules.Match("a.go"))

	// Default glob mode when nothing is configured.
	rules, err = BuildRules(nil, "", "")
	assert.NoError(err)
	assert.True(rules.Match("readme.md"))
	assert.False(rules.Match("image.png"))
}

func TestBuildRulesMutuallyExclusive(t *testing.T) {
	assert := assert.New(t)

	_, err := BuildRules(&Config{FileExtensions: []string{"py"}}, "*.go", "")
	assert.Error(err)
	assert.True(errors.Is(err, ErrConfig))
}

func TestBuildRulesBadPattern(t *testing.T) {
	assert := assert.New(t)

	_, err := BuildRules(nil, "[", "")
	assert.Error(err)
	assert.True(errors.Is(err, ErrConfig))
}
