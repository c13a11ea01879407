package main

import (
	"context"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/giygas/aides-extras/aidesparser"
	"github.com/giygas/aides-extras/aidesparser/entities"
	"github.com/giygas/aides-extras/csvwriter"
	"github.com/giygas/aides-extras/flattener"
	"github.com/giygas/aides-extras/interfaces"
	"github.com/giygas/aides-extras/logging"
	"github.com/giygas/aides-extras/perimeters"
	"github.com/giygas/aides-extras/validation"
	"github.com/spf13/cobra"
)

func newConvertCmd() *cobra.Command {
	var output string

	cmd := &cobra.Command{
		Use:   "convert <input_file>",
		Short: "Convert a JSON export to a semicolon separated CSV, repairing it if needed",
		Long: `Converts an Aides-Territoires JSON export to CSV. Concatenated, truncated
or otherwise malformed documents are repaired when possible. HTML is removed
from the description, eligibility and contact columns.

The output defaults to the input path with a .csv extension.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if output == "" {
				output = cleanOutputPath(args[0])
			}
			return convertFile(aidesparser.NewResilientLoader(), flattener.AidCleanSchema, args[0], output)
		},
	}

	cmd.Flags().StringVarP(&output, "output", "o", "", "output CSV file")
	return cmd
}

func newConvertLegacyCmd() *cobra.Command {
	var output string

	cmd := &cobra.Command{
		Use:   "convert-legacy <input_file>",
		Short: "Convert a JSON export to a comma separated CSV with the full column set",
		Long: `Converts an Aides-Territoires JSON export to CSV using the full legacy
column set. Only trailing commas are repaired: the document must otherwise be
a valid {"results": [...]} envelope.

The output defaults to <input name>_converted.csv next to the input.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if output == "" {
				output = legacyOutputPath(args[0])
			}
			return convertFile(aidesparser.NewStrictLoader(), flattener.AidSchema, args[0], output)
		},
	}

	cmd.Flags().StringVarP(&output, "output", "o", "", "output CSV file")
	return cmd
}

type fetchOptions struct {
	scale   string
	jsonOut string
	csvOut  string
	noCSV   bool
}

func newFetchPerimetersCmd(a *app) *cobra.Command {
	var opts fetchOptions

	cmd := &cobra.Command{
		Use:   "fetch-perimeters",
		Short: "Download every perimeter of a scale to JSON and CSV",
		Long: `Downloads all pages of the perimeters endpoint (AT_API_URL) for one scale,
authenticating with the AT_API_TOKEN bearer token, and saves the list as
<scale>_perimeters.json and <scale>_perimeters.csv.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if opts.scale == "" {
				opts.scale = a.cfg.PerimeterScale
			}
			a.cfg.PerimeterScale = opts.scale

			fetcher, err := perimeters.NewFetcherFromConfig(a.cfg)
			if err != nil {
				return err
			}
			return fetchPerimeters(cmd.Context(), fetcher, opts)
		},
	}

	cmd.Flags().StringVar(&opts.scale, "scale", "", "perimeter scale (default PERIMETER_SCALE)")
	cmd.Flags().StringVar(&opts.jsonOut, "json", "", "JSON output file (default <scale>_perimeters.json)")
	cmd.Flags().StringVar(&opts.csvOut, "csv", "", "CSV output file (default <scale>_perimeters.csv)")
	cmd.Flags().BoolVar(&opts.noCSV, "no-csv", false, "skip the CSV output")
	return cmd
}

// convertFile loads input, reports its data quality and writes it as CSV
func convertFile(loader interfaces.Loader, schema *flattener.Schema, input, output string) error {
	logging.Info("Converting", "input", input, "output", output, "schema", schema.Name)

	rs, err := loader.LoadFile(input)
	if err != nil {
		return err
	}
	if rs.Len() == 0 {
		return fmt.Errorf("%s: %w", input, entities.ErrNoRecords)
	}
	logging.Info("Aids found", "records", rs.Len(), "total", rs.Count)

	report := validation.NewDataValidator().ReportDataQuality(rs)
	validation.LogReport(input, report)

	writer := csvwriter.ForSchema(schema)
	if err := writer.WriteRows(output, schema.Columns(), flattener.FlattenAll(rs.Results, schema)); err != nil {
		return err
	}

	logging.Info("Conversion complete", "output", output)
	return nil
}

// fetchPerimeters downloads the perimeters of opts.scale and saves them
func fetchPerimeters(ctx context.Context, fetcher interfaces.Fetcher, opts fetchOptions) error {
	if opts.jsonOut == "" {
		opts.jsonOut = opts.scale + "_perimeters.json"
	}
	if opts.csvOut == "" {
		opts.csvOut = opts.scale + "_perimeters.csv"
	}

	records, err := fetcher.FetchAll(ctx, opts.scale)
	if err != nil {
		return err
	}

	if err := perimeters.SaveJSON(opts.jsonOut, records); err != nil {
		return err
	}
	if opts.noCSV {
		return nil
	}
	return perimeters.SaveCSV(opts.csvOut, records)
}

// cleanOutputPath replaces the extension of input with .csv. A trailing .gz
// is dropped first.
func cleanOutputPath(input string) string {
	if strings.EqualFold(filepath.Ext(input), ".gz") {
		input = strings.TrimSuffix(input, filepath.Ext(input))
	}
	return strings.TrimSuffix(input, filepath.Ext(input)) + ".csv"
}

// legacyOutputPath is <stem>_converted.csv in the directory of input
func legacyOutputPath(input string) string {
	base := strings.TrimSuffix(cleanOutputPath(input), ".csv")
	return base + "_converted.csv"
}
