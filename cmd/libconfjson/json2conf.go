// Copyright 2020 YourBase Inc.
// SPDX-License-Identifier: BSD-3-Clause

package main

import (
	"context"
	"fmt"
	"io"

	"github.com/spf13/afero"
	"github.com/spf13/cobra"
	"github.com/yourbase/conftools/dtype"
	"github.com/yourbase/conftools/jsondoc"
	"github.com/yourbase/conftools/libconfig"
	"zombiezen.com/go/log"
)

func newJSON2ConfCommand(fsys afero.Fs) *cobra.Command {
	return &cobra.Command{
		Use:   "json2conf [FILE]",
		Short: "Convert tagged JSON to libconfig",
		Long: `Convert JSON produced by conf2json (from stdin or FILE) back to libconfig.
Every JSON array must have a "<key>:dtype" member next to it.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			data, _, err := readInput(fsys, cmd.InOrStdin(), args)
			if err != nil {
				return err
			}
			return json2conf(cmd.Context(), cmd.OutOrStdout(), data)
		},
	}
}

func json2conf(ctx context.Context, out io.Writer, data []byte) error {
	tagged, err := jsondoc.Parse(data)
	if err != nil {
		return err
	}
	v, err := dtype.Recover(tagged)
	if err != nil {
		return fmt.Errorf("json2conf: %w", err)
	}
	cfg, ok := v.(*libconfig.Group)
	if !ok {
		return fmt.Errorf("json2conf: top-level value is a %v, not an object", v.Kind())
	}
	log.Debugf(ctx, "Recovered %d settings", cfg.Len())
	return libconfig.Encode(out, cfg)
}
