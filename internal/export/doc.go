/*
Package export renders bag and registry projections as documents and loads
documents back into ordered entries.

Renderers:
  - JSON: ordered object via sonic, or an array when keys are dropped
  - CSV: header row plus one data row
  - XML: token-encoded tree under a configurable root
  - YAML: ordered mapping via goccy/go-yaml
  - TOML: table via go-toml

Loaders accept JSON, YAML and TOML.

Example Usage:

	b := bag.NewFromPairs(bag.Entry{Key: "name", Value: "ada"})
	out, err := export.Render(export.FormatXML, b, export.DefaultOptions())
*/
package export
