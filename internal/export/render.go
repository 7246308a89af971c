package export

import (
	"errors"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/GriffinCanCode/poseidon/internal/bag"
)

// Format names an export encoding.
type Format string

const (
	FormatJSON Format = "json"
	FormatCSV  Format = "csv"
	FormatXML  Format = "xml"
	FormatYAML Format = "yaml"
	FormatTOML Format = "toml"
)

// DefaultXMLRoot is the root element used when Options.XMLRoot is empty.
const DefaultXMLRoot = "root"

// ErrUnknownFormat is returned for format names no renderer handles.
var ErrUnknownFormat = errors.New("unknown export format")

// Source is anything that can be projected for export. Bags and
// registries both qualify.
type Source interface {
	Project(opts bag.ProjectionOptions) bag.Projection
	Keys() []string
}

// Options controls projection and encoding.
type Options struct {
	Keys     []string
	Exclude  []string
	DropKeys bool

	XMLDeclaration bool
	XMLRoot        string
	Indent         bool
}

// DefaultOptions returns options with the XML prologue and indentation on.
func DefaultOptions() Options {
	return Options{
		XMLDeclaration: true,
		XMLRoot:        DefaultXMLRoot,
		Indent:         true,
	}
}

func (o Options) projection() bag.ProjectionOptions {
	return bag.ProjectionOptions{
		Keys:     o.Keys,
		Exclude:  o.Exclude,
		DropKeys: o.DropKeys,
	}
}

// Formats lists every supported format.
func Formats() []Format {
	return []Format{FormatJSON, FormatCSV, FormatXML, FormatYAML, FormatTOML}
}

// ParseFormat maps a case-insensitive name (or common alias) to a Format.
func ParseFormat(name string) (Format, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "json":
		return FormatJSON, nil
	case "csv":
		return FormatCSV, nil
	case "xml":
		return FormatXML, nil
	case "yaml", "yml":
		return FormatYAML, nil
	case "toml":
		return FormatTOML, nil
	}
	return "", fmt.Errorf("%w: %q", ErrUnknownFormat, name)
}

// FormatFromPath infers the format from a file extension.
func FormatFromPath(path string) (Format, error) {
	ext := strings.TrimPrefix(filepath.Ext(path), ".")
	if ext == "" {
		return "", fmt.Errorf("%w: %s has no extension", ErrUnknownFormat, path)
	}
	return ParseFormat(ext)
}

// ContentType returns the MIME type served for f.
func (f Format) ContentType() string {
	switch f {
	case FormatJSON:
		return "application/json; charset=utf-8"
	case FormatCSV:
		return "text/csv; charset=utf-8"
	case FormatXML:
		return "application/xml; charset=utf-8"
	case FormatYAML:
		return "application/yaml; charset=utf-8"
	case FormatTOML:
		return "application/toml; charset=utf-8"
	default:
		return "application/octet-stream"
	}
}

// Render encodes src in the given format.
func Render(format Format, src Source, opts Options) ([]byte, error) {
	switch format {
	case FormatJSON:
		return JSON(src, opts)
	case FormatCSV:
		return CSV(src, opts)
	case FormatXML:
		return XML(src, opts)
	case FormatYAML:
		return YAML(src, opts)
	case FormatTOML:
		return TOML(src, opts)
	}
	return nil, fmt.Errorf("%w: %q", ErrUnknownFormat, string(format))
}
