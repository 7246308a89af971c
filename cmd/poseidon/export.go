package main

import (
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/GriffinCanCode/poseidon/internal/bag"
	"github.com/GriffinCanCode/poseidon/internal/export"
	"github.com/GriffinCanCode/poseidon/internal/utils"
)

type exportFlags struct {
	format        string
	keys          string
	exclude       string
	root          string
	dropKeys      bool
	noDeclaration bool
	compact       bool
	gzip          bool
}

func newExportCmd() *cobra.Command {
	var flags exportFlags

	cmd := &cobra.Command{
		Use:   "export FILE",
		Short: "Render a JSON, YAML or TOML document in another format",
		Long: `Load the top-level entries of FILE into a bag and render them to stdout.

The input format is taken from the file extension.

Examples:
  poseidon export config.yaml --format json
  poseidon export config.json --format csv --keys host,port
  poseidon export config.toml --format xml --root settings --no-declaration
  poseidon export config.json --format json --drop-keys --keys b,a`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runExport(cmd, args[0], flags)
		},
	}

	cmd.Flags().StringVarP(&flags.format, "format", "f", "json",
		"output format ("+formatList()+")")
	cmd.Flags().StringVarP(&flags.keys, "keys", "k", "", "comma-separated keys to select, in order")
	cmd.Flags().StringVarP(&flags.exclude, "exclude", "x", "", "comma-separated keys to leave out")
	cmd.Flags().StringVar(&flags.root, "root", export.DefaultXMLRoot, "XML root element name")
	cmd.Flags().BoolVar(&flags.dropKeys, "drop-keys", false, "emit values without keys")
	cmd.Flags().BoolVar(&flags.noDeclaration, "no-declaration", false, "omit the XML declaration")
	cmd.Flags().BoolVar(&flags.compact, "compact", false, "disable indentation")
	cmd.Flags().BoolVar(&flags.gzip, "gzip", false, "gzip the output")
	return cmd
}

func runExport(cmd *cobra.Command, path string, flags exportFlags) error {
	format, err := export.ParseFormat(flags.format)
	if err != nil {
		return err
	}

	source, err := loadBag(path)
	if err != nil {
		return err
	}
	defer source.Flush()

	out, err := export.Render(format, source, export.Options{
		Keys:           utils.SplitList(flags.keys),
		Exclude:        utils.SplitList(flags.exclude),
		DropKeys:       flags.dropKeys,
		XMLDeclaration: !flags.noDeclaration,
		XMLRoot:        flags.root,
		Indent:         !flags.compact,
	})
	if err != nil {
		return err
	}

	if flags.gzip {
		if out, err = export.Gzip(out); err != nil {
			return err
		}
	} else if len(out) > 0 && out[len(out)-1] != '\n' {
		out = append(out, '\n')
	}

	_, err = cmd.OutOrStdout().Write(out)
	return err
}

func loadBag(path string) (*bag.Bag, error) {
	format, err := export.FormatFromPath(path)
	if err != nil {
		return nil, err
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read %s: %w", path, err)
	}

	entries, err := export.Load(format, data)
	if err != nil {
		return nil, fmt.Errorf("failed to load %s: %w", path, err)
	}
	return bag.NewFromPairs(entries...), nil
}

func formatList() string {
	names := make([]string, 0, len(export.Formats()))
	for _, f := range export.Formats() {
		names = append(names, string(f))
	}
	return strings.Join(names, "|")
}

func newFormatsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "formats",
		Short: "List export formats and their content types",
		Args:  cobra.NoArgs,
		Run: func(cmd *cobra.Command, args []string) {
			for _, f := range export.Formats() {
				fmt.Fprintf(cmd.OutOrStdout(), "%-5s %s\n", f, f.ContentType())
			}
		},
	}
}
