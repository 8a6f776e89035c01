// Copyright 2020 YourBase Inc.
// SPDX-License-Identifier: BSD-3-Clause

// libconfjson converts libconfig files to JSON and back, recording whether
// each sequence was an array or a list.
//
//	libconfjson conf2json [FILE] > out.json
//	libconfjson json2conf [FILE] < out.json > out.conf
package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/spf13/afero"
	"github.com/spf13/cobra"
	"github.com/yourbase/conftools/envvar"
	"github.com/yourbase/conftools/internal/clilog"
	"zombiezen.com/go/log"
)

const progName = "libconfjson"

func main() {
	clilog.Setup(progName, envvar.FromEnv().Debug)
	ctx := context.Background()
	if err := newRootCommand(afero.NewOsFs()).ExecuteContext(ctx); err != nil {
		log.Errorf(ctx, "%v", err)
		os.Exit(1)
	}
}

func newRootCommand(fsys afero.Fs) *cobra.Command {
	root := &cobra.Command{
		Use:   progName + " MODE [FILE]",
		Short: "Convert between libconfig and JSON",
		Long: `Convert between libconfig and JSON.

JSON has a single sequence type while libconfig has two: arrays, which hold
scalars of one type, and lists, which hold anything. conf2json records the
type of each sequence in a sibling member named "<key>:dtype" and json2conf
uses those members to restore it.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return errors.New("missing mode: want conf2json or json2conf")
		},
		SilenceErrors: true,
		SilenceUsage:  true,
	}
	root.AddCommand(newConf2JSONCommand(fsys), newJSON2ConfCommand(fsys))
	return root
}

// openInput opens the named file, or returns stdin if path is empty or "-".
func openInput(fsys afero.Fs, stdin io.Reader, path string) (io.ReadCloser, error) {
	if path == "" || path == "-" {
		return io.NopCloser(stdin), nil
	}
	f, err := fsys.Open(path)
	if err != nil {
		return nil, err
	}
	return f, nil
}

func readInput(fsys afero.Fs, stdin io.Reader, args []string) (data []byte, path string, err error) {
	if len(args) > 0 {
		path = args[0]
	}
	r, err := openInput(fsys, stdin, path)
	if err != nil {
		return nil, path, err
	}
	defer r.Close()
	data, err = io.ReadAll(r)
	if err != nil {
		if path == "" {
			return nil, path, fmt.Errorf("read stdin: %w", err)
		}
		return nil, path, fmt.Errorf("read %s: %w", path, err)
	}
	return data, path, nil
}
