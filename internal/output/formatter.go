package output

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/rpgo/forecast-engine/internal/domain"
)

// ErrUnsupportedFormat is returned for format names no formatter answers to.
var ErrUnsupportedFormat = errors.New("unsupported format")

// DefaultPrecision is the number of decimals rendered when none is configured.
const DefaultPrecision = 2

// Formatter defines a pluggable output formatter that returns a byte slice.
// Implementations should be pure (no side effects besides deterministic formatting).
type Formatter interface {
	Format(result *domain.ForecastResult) ([]byte, error)
	// Name returns a short identifier for logging / debugging.
	Name() string
	// Extension is the file extension used when the output is written to disk.
	Extension() string
}

// Options tune the registered formatters.
type Options struct {
	Precision int
}

// FormatterFunc adapter to allow ordinary functions to act as a Formatter.
type FormatterFunc struct {
	ID  string
	Ext string
	F   func(*domain.ForecastResult) ([]byte, error)
}

func (ff FormatterFunc) Format(r *domain.ForecastResult) ([]byte, error) { return ff.F(r) }
func (ff FormatterFunc) Name() string                                    { return ff.ID }
func (ff FormatterFunc) Extension() string                               { return ff.Ext }

// WriteFormatted runs a formatter and writes its output to a timestamped file in dir.
func WriteFormatted(f Formatter, result *domain.ForecastResult, dir string) (string, error) {
	data, err := f.Format(result)
	if err != nil {
		return "", fmt.Errorf("%s formatter: %w", f.Name(), err)
	}
	if dir == "" {
		dir = "."
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", err
	}
	stamp := result.GeneratedAt
	if stamp.IsZero() {
		stamp = time.Now()
	}
	name := fmt.Sprintf("forecast_%s_%s%s.%s", slug(result.Name), stamp.Format("20060102_150405"), variant(f), f.Extension())
	path := filepath.Join(dir, name)
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return "", err
	}
	return path, nil
}

// variant keeps two formatters sharing an extension from writing the same file.
func variant(f Formatter) string {
	if f.Name() == f.Extension() {
		return ""
	}
	return "_" + f.Name()
}

// builtInFormatters lists every registered formatter configured with opts.
func builtInFormatters(opts Options) []Formatter {
	p := opts.Precision
	return []Formatter{
		ConsoleFormatter{Precision: p, Plain: true},
		CSVFormatter{Precision: p},
		WideCSVFormatter{Precision: p},
		JSONFormatter{},
		YAMLFormatter{},
		PDFFormatter{Precision: p},
	}
}

// GetFormatterByName fetches a registered formatter, or nil.
func GetFormatterByName(name string, opts Options) Formatter {
	n := NormalizeFormatName(name)
	for _, f := range builtInFormatters(opts) {
		if f.Name() == n {
			return f
		}
	}
	return nil
}

// ResolveFormatters maps format names to formatters, failing on the first
// unknown name with the list of valid choices.
func ResolveFormatters(names []string, opts Options) ([]Formatter, error) {
	out := make([]Formatter, 0, len(names))
	for _, name := range names {
		if NormalizeFormatName(name) == "all" {
			return builtInFormatters(opts), nil
		}
		f := GetFormatterByName(name, opts)
		if f == nil {
			return nil, fmt.Errorf("%w: %q. Try one of: %s (aliases: %s)", ErrUnsupportedFormat, name,
				strings.Join(AvailableFormatterNames(), ", "), strings.Join(AvailableFormatAliases(), ", "))
		}
		out = append(out, f)
	}
	return out, nil
}

// aliasMap provides user-friendly synonyms for format names.
var aliasMap = map[string]string{
	"csv-long":    "csv",
	"long-csv":    "csv",
	"csv-wide":    "wide-csv",
	"spreadsheet": "wide-csv",
	"json-pretty": "json",
	"yml":         "yaml",
	"table":       "console",
	"text":        "console",
	"report":      "pdf",
}

// NormalizeFormatName lowers and resolves aliases.
func NormalizeFormatName(name string) string {
	n := strings.ToLower(strings.TrimSpace(name))
	if mapped, ok := aliasMap[n]; ok {
		return mapped
	}
	return n
}

// AvailableFormatterNames returns the canonical formatter names.
func AvailableFormatterNames() []string {
	formatters := builtInFormatters(Options{})
	names := make([]string, 0, len(formatters))
	for _, f := range formatters {
		names = append(names, f.Name())
	}
	sort.Strings(names)
	return names
}

// AvailableFormatAliases returns the supported alias keys.
func AvailableFormatAliases() []string {
	keys := make([]string, 0, len(aliasMap))
	for k := range aliasMap {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
