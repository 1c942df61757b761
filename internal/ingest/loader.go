package ingest

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/go-playground/validator/v10"
	"gopkg.in/yaml.v3"

	"github.com/ternarybob/screener/internal/common"
)

// ErrInvalidBundle is returned for bundles that fail parsing or validation.
var ErrInvalidBundle = errors.New("invalid bundle")

// Format is the encoding of a bundle file.
type Format string

const (
	FormatJSON Format = "json"
	FormatYAML Format = "yaml"
)

var validate = validator.New()

// FormatFor picks the format from a file extension.
func FormatFor(path string) (Format, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".json":
		return FormatJSON, nil
	case ".yaml", ".yml":
		return FormatYAML, nil
	}
	return "", fmt.Errorf("%w: unsupported file extension %q", ErrInvalidBundle, filepath.Ext(path))
}

// Loader reads bundles. Bundles that name no exchange take DefaultExchange
// for their bare symbols.
type Loader struct {
	DefaultExchange string
}

// Decode parses, validates and normalizes a bundle with no default exchange.
func Decode(r io.Reader, format Format) (*Bundle, error) {
	return Loader{}.Decode(r, format)
}

// LoadFile reads a bundle with no default exchange.
func LoadFile(path string) (*Bundle, error) {
	return Loader{}.LoadFile(path)
}

// Decode parses, validates and normalizes a bundle.
func (l Loader) Decode(r io.Reader, format Format) (*Bundle, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("failed to read bundle: %w", err)
	}

	var b Bundle
	switch format {
	case FormatJSON:
		dec := json.NewDecoder(bytes.NewReader(data))
		dec.DisallowUnknownFields()
		err = dec.Decode(&b)
	case FormatYAML:
		dec := yaml.NewDecoder(bytes.NewReader(data))
		dec.KnownFields(true)
		err = dec.Decode(&b)
	default:
		return nil, fmt.Errorf("%w: unknown format %q", ErrInvalidBundle, format)
	}
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidBundle, err)
	}

	// A snapshot may leave its symbol to the enclosing ticker.
	for i := range b.Tickers {
		if snap := b.Tickers[i].Snapshot; snap != nil && snap.Symbol == "" {
			snap.Symbol = b.Tickers[i].Symbol
		}
	}

	if b.Exchange == "" {
		b.Exchange = l.DefaultExchange
	}
	if err := Validate(&b); err != nil {
		return nil, err
	}
	Normalize(&b)
	return &b, nil
}

// LoadFile reads a bundle, choosing the decoder from the file extension.
func (l Loader) LoadFile(path string) (*Bundle, error) {
	format, err := FormatFor(path)
	if err != nil {
		return nil, err
	}
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open bundle %s: %w", path, err)
	}
	defer f.Close()

	b, err := l.Decode(f, format)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return b, nil
}

// ListBundles returns the bundle files in dir, sorted by name.
func ListBundles(dir string) ([]string, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("failed to read bundle directory %s: %w", dir, err)
	}
	var out []string
	for _, e := range entries {
		if e.IsDir() {
			continue
		}
		if _, err := FormatFor(e.Name()); err == nil {
			out = append(out, filepath.Join(dir, e.Name()))
		}
	}
	sort.Strings(out)
	return out, nil
}

// Validate checks struct tags and cross-field rules. Failures wrap
// ErrInvalidBundle.
func Validate(b *Bundle) error {
	if err := validate.Struct(b); err != nil {
		var verrs validator.ValidationErrors
		if errors.As(err, &verrs) {
			msgs := make([]string, 0, len(verrs))
			for _, fe := range verrs {
				msgs = append(msgs, fmt.Sprintf("%s failed %q", fe.Namespace(), fe.Tag()))
			}
			return fmt.Errorf("%w: %s", ErrInvalidBundle, strings.Join(msgs, "; "))
		}
		return fmt.Errorf("%w: %v", ErrInvalidBundle, err)
	}

	if len(b.Tickers) == 0 {
		return fmt.Errorf("%w: no tickers", ErrInvalidBundle)
	}

	seen := make(map[string]bool, len(b.Tickers))
	for _, t := range b.Tickers {
		key := common.ParseTicker(t.Symbol, b.Exchange).String()
		if seen[key] {
			return fmt.Errorf("%w: duplicate symbol %s", ErrInvalidBundle, key)
		}
		seen[key] = true

		if !ascending(t.History) {
			return fmt.Errorf("%w: %s history is not in ascending date order", ErrInvalidBundle, key)
		}
	}
	if b.Benchmark != nil && !ascending(b.Benchmark.History) {
		return fmt.Errorf("%w: benchmark history is not in ascending date order", ErrInvalidBundle)
	}
	return nil
}
