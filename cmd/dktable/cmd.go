// Copyright 2024 The Cockroach Authors
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package main

import (
	"fmt"
	"io"

	"github.com/cockroachdb/doublekey"
	"github.com/cockroachdb/errors"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"go.uber.org/zap"
)

type stringTable = doublekey.Table[string, string, string]

// flags holds the options shared by every subcommand.
type flags struct {
	file       string
	sizes      []int
	innerSizes []int
	verbose    bool
}

func (f *flags) register(fs *pflag.FlagSet) {
	fs.StringVarP(&f.file, "file", "f", "", "tab-separated file of k1, k2, value lines")
	fs.IntSliceVar(&f.sizes, "sizes", nil, "outer size schedule (default doublekey.DefaultSizes)")
	fs.IntSliceVar(&f.innerSizes, "inner-sizes", nil, "inner size schedule (default the outer schedule)")
	fs.BoolVarP(&f.verbose, "verbose", "v", false, "log resize events")
}

func (f *flags) logger() (*zap.Logger, error) {
	if f.verbose {
		return zap.NewDevelopment()
	}
	return zap.NewNop(), nil
}

// open builds a table as configured by the flags and loads the file into it.
func (f *flags) open() (*stringTable, error) {
	log, err := f.logger()
	if err != nil {
		return nil, err
	}
	defer func() { _ = log.Sync() }()

	options := []doublekey.Option{doublekey.WithLogger(log)}
	if len(f.sizes) > 0 {
		options = append(options, doublekey.WithSizes(f.sizes...))
	}
	if len(f.innerSizes) > 0 {
		options = append(options, doublekey.WithInnerSizes(f.innerSizes...))
	}
	t, err := newTable(options)
	if err != nil {
		return nil, err
	}
	if err := loadFile(t, f.file); err != nil {
		return nil, err
	}
	log.Debug("loaded table", zap.String("file", f.file), zap.Int("entries", t.Len()),
		zap.Int("capacity", t.TableSize()))
	return t, nil
}

// newTable converts an invalid schedule into an error.
func newTable(options []doublekey.Option) (t *stringTable, err error) {
	defer func() {
		if r := recover(); r != nil {
			err = errors.Newf("invalid size schedule: %v", r)
		}
	}()
	return doublekey.New[string, string, string](options...), nil
}

func newRootCmd() *cobra.Command {
	f := &flags{}
	root := &cobra.Command{
		Use:   "dktable",
		Short: "Query a two-level hash table loaded from a file",
		Example: `  $ dktable -f triples.tsv stats
  $ dktable -f triples.tsv keys alice`,
		SilenceUsage: true,
	}
	f.register(root.PersistentFlags())
	_ = root.MarkPersistentFlagRequired("file")

	root.AddCommand(
		&cobra.Command{
			Use:   "stats",
			Short: "Print entry, top key and capacity counts",
			Args:  cobra.NoArgs,
			RunE: func(cmd *cobra.Command, _ []string) error {
				t, err := f.open()
				if err != nil {
					return err
				}
				w := cmd.OutOrStdout()
				fmt.Fprintf(w, "entries\t%d\n", t.Len())
				fmt.Fprintf(w, "keys\t%d\n", len(t.Keys()))
				fmt.Fprintf(w, "capacity\t%d\n", t.TableSize())
				return nil
			},
		},
		&cobra.Command{
			Use:   "get K1 K2",
			Short: "Print the value stored for a key pair",
			Args:  cobra.ExactArgs(2),
			RunE: func(cmd *cobra.Command, args []string) error {
				t, err := f.open()
				if err != nil {
					return err
				}
				v, err := t.Get(args[0], args[1])
				if err != nil {
					return err
				}
				fmt.Fprintln(cmd.OutOrStdout(), v)
				return nil
			},
		},
		&cobra.Command{
			Use:   "keys [K1]",
			Short: "Print every top key, or every key under K1",
			Args:  cobra.MaximumNArgs(1),
			RunE: func(cmd *cobra.Command, args []string) error {
				t, err := f.open()
				if err != nil {
					return err
				}
				if len(args) == 0 {
					return printAll(cmd.OutOrStdout(), t.Keys())
				}
				return printAll(cmd.OutOrStdout(), t.BucketKeys(args[0]))
			},
		},
		&cobra.Command{
			Use:   "values [K1]",
			Short: "Print every value, or every value under K1",
			Args:  cobra.MaximumNArgs(1),
			RunE: func(cmd *cobra.Command, args []string) error {
				t, err := f.open()
				if err != nil {
					return err
				}
				if len(args) == 0 {
					return printAll(cmd.OutOrStdout(), t.Values())
				}
				return printAll(cmd.OutOrStdout(), t.BucketValues(args[0]))
			},
		},
	)
	return root
}

func printAll(w io.Writer, lines []string) error {
	for _, l := range lines {
		if _, err := fmt.Fprintln(w, l); err != nil {
			return err
		}
	}
	return nil
}
