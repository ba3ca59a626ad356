package main

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"os"

	"github.com/jfburr/metabase/dimension"
	"github.com/jfburr/metabase/mbql"
	"github.com/jfburr/metabase/metadata"
	"github.com/jfburr/metabase/service"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

func execute() int {
	root := newRootCmd()
	if err := root.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "mbqldim: %v\n", err)
		return 1
	}
	return 0
}

func newRootCmd() *cobra.Command {
	var metadataPath string

	root := &cobra.Command{
		Use:           "mbqldim",
		Short:         "Inspect query-builder dimension expressions",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.PersistentFlags().StringVarP(&metadataPath, "metadata", "m", "", "path to a metadata YAML fixture")

	root.AddCommand(newParseCmd(&metadataPath))
	root.AddCommand(newOptionsCmd(&metadataPath))
	root.AddCommand(newServeCmd(&metadataPath))
	return root
}

func loadMetadata(path string) (*metadata.Metadata, error) {
	if path == "" {
		return nil, nil
	}
	return metadata.LoadYAMLFile(path)
}

// parseArg resolves a JSON expression argument to a typed dimension.
func parseArg(arg string, md *metadata.Metadata) (dimension.Dimension, error) {
	expr, err := mbql.ParseJSON([]byte(arg))
	if err != nil {
		return nil, fmt.Errorf("invalid expression: %w", err)
	}
	d := dimension.Parse(expr, md, nil)
	if d == nil {
		return nil, errors.New("expression does not match any dimension grammar")
	}
	return d, nil
}

func newParseCmd(metadataPath *string) *cobra.Command {
	return &cobra.Command{
		Use:   "parse <expression-json>",
		Short: "Parse an expression and print its canonical form and display info",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			md, err := loadMetadata(*metadataPath)
			if err != nil {
				return err
			}
			d, err := parseArg(args[0], md)
			if err != nil {
				return err
			}
			out := service.ParseResponse{
				Variant:     string(d.Variant()),
				Canonical:   d.Clause(),
				DisplayName: d.DisplayName(),
				ColumnName:  d.ColumnName(),
				Icon:        d.Icon(),
				Column:      d.Column(),
				Render:      d.Render(),
			}
			return printJSON(cmd, out)
		},
	}
}

func newOptionsCmd(metadataPath *string) *cobra.Command {
	return &cobra.Command{
		Use:   "options <expression-json>",
		Short: "List the sub-dimensions derivable from an expression",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			md, err := loadMetadata(*metadataPath)
			if err != nil {
				return err
			}
			d, err := parseArg(args[0], md)
			if err != nil {
				return err
			}
			resp := service.OptionsResponse{Options: []service.SubDimension{}}
			if def := dimension.DefaultDimension(d); def != nil {
				resp.Default = &service.SubDimension{
					Canonical:      def.Clause(),
					SubDisplayName: def.SubDisplayName(),
					SubTrigger:     def.SubTriggerDisplayName(),
				}
			}
			for _, sub := range dimension.SubDimensions(d) {
				resp.Options = append(resp.Options, service.SubDimension{
					Canonical:      sub.Clause(),
					SubDisplayName: sub.SubDisplayName(),
					SubTrigger:     sub.SubTriggerDisplayName(),
				})
			}
			return printJSON(cmd, resp)
		},
	}
}

func newServeCmd(metadataPath *string) *cobra.Command {
	var addr string

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the dimension HTTP service",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			md, err := loadMetadata(*metadataPath)
			if err != nil {
				return err
			}
			logger, err := zap.NewProduction()
			if err != nil {
				return err
			}
			defer logger.Sync()
			core := service.NewCore(service.Config{
				Logger:   logger,
				Metadata: md,
			})
			logger.Info("listening", zap.String("addr", addr))
			return http.ListenAndServe(addr, core.HTTPHandler())
		},
	}
	cmd.Flags().StringVarP(&addr, "addr", "a", ":8080", "listen address")
	return cmd
}

func printJSON(cmd *cobra.Command, v any) error {
	enc := json.NewEncoder(cmd.OutOrStdout())
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
