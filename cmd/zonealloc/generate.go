package main

import (
	"fmt"
	"io"
	"os"

	"github.com/katalvlaran/zonealloc/instance"
	"github.com/spf13/cobra"
)

func newGenerateCmd() *cobra.Command {
	var (
		opts = instance.DefaultGenerateOptions()
		out  string
		name string
	)
	cmd := &cobra.Command{
		Use:   "generate",
		Short: "Write a random instance as YAML",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			in, err := instance.Generate(opts)
			if err != nil {
				return err
			}
			if name != "" {
				in.Name = name
			}

			if out == "" {
				return writeInstance(cmd.OutOrStdout(), in)
			}
			f, err := os.Create(out)
			if err != nil {
				return err
			}
			if err = writeInstance(f, in); err != nil {
				_ = f.Close()

				return err
			}

			return f.Close()
		},
	}
	fs := cmd.Flags()
	fs.IntVar(&opts.Resources, "resources", opts.Resources, "number of resources")
	fs.IntVar(&opts.Zones, "zones", opts.Zones, "number of zones")
	fs.Int64Var(&opts.Seed, "seed", opts.Seed, "random seed")
	fs.Float64Var(&opts.MaxCost, "max-cost", opts.MaxCost, "largest cost")
	fs.Float64Var(&opts.Fill, "fill", opts.Fill, "share of resources reserved by zone minimums")
	fs.BoolVar(&opts.Named, "named", false, "use generated names")
	fs.StringVar(&name, "name", "", "instance name")
	fs.StringVarP(&out, "out", "o", "", "output file (default stdout)")

	return cmd
}

func writeInstance(w io.Writer, in *instance.Instance) error {
	if err := in.WriteYAML(w); err != nil {
		return fmt.Errorf("write instance: %w", err)
	}

	return nil
}
