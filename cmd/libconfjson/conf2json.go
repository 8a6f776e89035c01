// Copyright 2020 YourBase Inc.
// SPDX-License-Identifier: BSD-3-Clause

package main

import (
	"bytes"
	"context"
	"io"
	"path/filepath"

	"github.com/spf13/afero"
	"github.com/spf13/cobra"
	"github.com/yourbase/conftools/dtype"
	"github.com/yourbase/conftools/envvar"
	"github.com/yourbase/conftools/jsondoc"
	"github.com/yourbase/conftools/libconfig"
	"zombiezen.com/go/log"
)

type conf2jsonOptions struct {
	includeDir      string
	fixLeadingZeros bool
}

func newConf2JSONCommand(fsys afero.Fs) *cobra.Command {
	opts := new(conf2jsonOptions)
	c := &cobra.Command{
		Use:   "conf2json [FILE]",
		Short: "Convert libconfig to tagged JSON",
		Long: `Convert a libconfig file (or stdin) to JSON with sorted keys and
2-space indentation. Every array and list gets a "<key>:dtype" member.`,
		Args:                  cobra.MaximumNArgs(1),
		DisableFlagsInUseLine: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			data, path, err := readInput(fsys, cmd.InOrStdin(), args)
			if err != nil {
				return err
			}
			return conf2json(cmd.Context(), fsys, cmd.OutOrStdout(), data, path, opts)
		},
	}
	c.Flags().StringVar(&opts.includeDir, "include-dir", envvar.FromEnv().IncludeDir, "directory for relative @include paths (default is the input file's directory)")
	c.Flags().BoolVar(&opts.fixLeadingZeros, "fix-leading-zeros", false, "strip leading zeros from decimal values before parsing")
	return c
}

func conf2json(ctx context.Context, fsys afero.Fs, out io.Writer, data []byte, path string, opts *conf2jsonOptions) error {
	parseOpts := &libconfig.ParseOptions{
		Filename:   path,
		IncludeDir: opts.includeDir,
		Open: func(name string) (io.ReadCloser, error) {
			log.Debugf(ctx, "Including %s", name)
			return fsys.Open(name)
		},
	}
	if path == "" || path == "-" {
		parseOpts.Filename = "<stdin>"
	} else if parseOpts.IncludeDir == "" {
		parseOpts.IncludeDir = filepath.Dir(path)
	}
	if opts.fixLeadingZeros {
		fixed := libconfig.FixLeadingZeros(data)
		if !bytes.Equal(fixed, data) {
			log.Debugf(ctx, "Stripped leading zeros from %s", parseOpts.Filename)
		}
		data = fixed
	}
	cfg, err := libconfig.Parse(bytes.NewReader(data), parseOpts)
	if err != nil {
		return err
	}
	log.Debugf(ctx, "Read %d settings from %s", cfg.Len(), parseOpts.Filename)
	text, err := jsondoc.MarshalIndent(dtype.Tag(cfg))
	if err != nil {
		return err
	}
	_, err = out.Write(text)
	return err
}
