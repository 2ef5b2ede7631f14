package output

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/rpgo/forecast-engine/internal/domain"
)

// GenerateReport writes result in every named format to dir and returns the
// paths written, in format order.
func GenerateReport(result *domain.ForecastResult, formats []string, opts Options, dir string) ([]string, error) {
	formatters, err := ResolveFormatters(formats, opts)
	if err != nil {
		return nil, err
	}
	paths := make([]string, 0, len(formatters))
	for _, f := range formatters {
		path, err := WriteFormatted(f, result, dir)
		if err != nil {
			return paths, err
		}
		paths = append(paths, path)
	}
	return paths, nil
}

// SaveConfiguration writes a forecast configuration as YAML, or as JSON when
// filename ends in .json.
func SaveConfiguration(config *domain.Configuration, filename string) error {
	var (
		b   []byte
		err error
	)
	switch strings.ToLower(filepath.Ext(filename)) {
	case ".json":
		b, err = json.MarshalIndent(config, "", "  ")
	case ".yaml", ".yml", "":
		b, err = yaml.Marshal(config)
	default:
		return fmt.Errorf("%w: cannot save configuration as %q", ErrUnsupportedFormat, filepath.Ext(filename))
	}
	if err != nil {
		return err
	}
	return os.WriteFile(filename, b, 0o644)
}
