package cli

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"strings"
	"text/template"

	"github.com/joho/godotenv"
)

type TemplateContext struct {
	ENV map[string]string
}

var missingKeyRegex = regexp.MustCompile(`map has no entry for key "(.*?)"`)

// loadDotEnv loads .env from dir and from the working directory if they
// exist. Variables already set in the environment win.
func loadDotEnv(dir string) {
	paths := []string{filepath.Join(dir, ".env")}
	if cwd, err := os.Getwd(); err == nil && cwd != dir {
		paths = append(paths, filepath.Join(cwd, ".env"))
	}
	for _, p := range paths {
		_ = godotenv.Load(p) // no error if .env doesn't exist
	}
}

// PreprocessConfig replaces {{ .ENV.VAR }} placeholders in a config file with
// values from the environment or a .env file next to the config or in the
// working directory.
func PreprocessConfig(inputRaw []byte, dir string) ([]byte, error) {
	loadDotEnv(dir)

	envMap := map[string]string{}
	for _, e := range os.Environ() {
		if k, v, ok := strings.Cut(e, "="); ok {
			envMap[k] = v
		}
	}

	tmpl, err := template.New("config").Option("missingkey=error").Parse(string(inputRaw))
	if err != nil {
		return nil, fmt.Errorf("template error: %w", err)
	}

	var output bytes.Buffer
	if err := tmpl.Execute(&output, TemplateContext{ENV: envMap}); err != nil {
		matches := missingKeyRegex.FindStringSubmatch(err.Error())
		if len(matches) == 2 {
			return nil, fmt.Errorf("missing environment variable: %s (set it in your shell or .env file)", matches[1])
		}
		return nil, fmt.Errorf("template error: %w", err)
	}

	return output.Bytes(), nil
}
