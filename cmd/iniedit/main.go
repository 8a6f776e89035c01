// Copyright 2020 YourBase Inc.
// SPDX-License-Identifier: BSD-3-Clause

// iniedit reads and writes properties of an INI file in place.
//
//	iniedit [options] FILE SECTION.KEY[=VALUE]...
//
// Each SECTION.KEY argument prints the property's value on its own line, or an
// empty line if it is not set. Each SECTION.KEY=VALUE argument sets the
// property, and SECTION.KEY= deletes it. Arguments are processed in order.
// The file is rewritten only if its content changed, and lines that were not
// edited are kept as they were.
package main

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/afero"
	"github.com/spf13/pflag"
	"github.com/yourbase/conftools/envvar"
	"github.com/yourbase/conftools/ini"
	"github.com/yourbase/conftools/internal/clilog"
	"zombiezen.com/go/log"
)

const progName = "iniedit"

type options struct {
	path           string
	specs          []ini.Spec
	createSections bool
	verbose        bool
}

func main() {
	opts, err := parseFlags(os.Args[1:], os.Stderr)
	if errors.Is(err, pflag.ErrHelp) {
		return
	}
	if err != nil {
		fmt.Fprintf(os.Stderr, "%s: %v\n", progName, err)
		os.Exit(2)
	}
	clilog.Setup(progName, opts.verbose || envvar.FromEnv().Debug)
	ctx := context.Background()
	if err := run(ctx, afero.NewOsFs(), os.Stdout, opts); err != nil {
		log.Errorf(ctx, "%v", err)
		os.Exit(1)
	}
}

func parseFlags(args []string, stderr io.Writer) (*options, error) {
	opts := new(options)
	flags := pflag.NewFlagSet(progName, pflag.ContinueOnError)
	flags.SetOutput(stderr)
	flags.BoolVar(&opts.createSections, "create-sections", false, "create missing sections instead of failing")
	flags.BoolVarP(&opts.verbose, "verbose", "v", false, "log each change to stderr (or "+envvar.Debug+")")
	flags.Usage = func() {
		fmt.Fprintf(stderr, "usage: %s [options] FILE SECTION.KEY[=VALUE]...\n", progName)
		flags.PrintDefaults()
	}
	if err := flags.Parse(args); err != nil {
		return nil, err
	}
	if flags.NArg() < 2 {
		flags.Usage()
		return nil, errors.New("missing file or property arguments")
	}
	opts.path = flags.Arg(0)
	for _, arg := range flags.Args()[1:] {
		spec, err := ini.ParseSpec(arg)
		if err != nil {
			return nil, err
		}
		opts.specs = append(opts.specs, spec)
	}
	return opts, nil
}

func run(ctx context.Context, fsys afero.Fs, out io.Writer, opts *options) error {
	data, err := afero.ReadFile(fsys, opts.path)
	if errors.Is(err, fs.ErrNotExist) {
		log.Debugf(ctx, "%s does not exist; treating as empty", opts.path)
	} else if err != nil {
		return err
	}
	f, err := ini.Parse(bytes.NewReader(data), &ini.ParseOptions{
		NormalizeKey: func(section, key string) string {
			return strings.ToLower(key)
		},
		DefaultSection: "DEFAULT",
	})
	if err != nil {
		return fmt.Errorf("%s: %w", opts.path, err)
	}
	before, err := f.MarshalText()
	if err != nil {
		return err
	}

	for _, spec := range opts.specs {
		switch {
		case !spec.Write:
			v, ok := f.Lookup(spec.Section, spec.Key)
			if !ok {
				log.Debugf(ctx, "%s is not set", spec)
			}
			fmt.Fprintln(out, v)
		case spec.Value == "":
			if f.Delete(spec.Section, spec.Key) {
				log.Debugf(ctx, "Deleted %s.%s", spec.Section, spec.Key)
			}
		default:
			if opts.createSections && !f.HasSection(spec.Section) {
				log.Debugf(ctx, "Creating section [%s]", spec.Section)
				f.AddSection(spec.Section)
			}
			if err := f.Set(spec.Section, spec.Key, spec.Value); err != nil {
				return fmt.Errorf("%s: %w", opts.path, err)
			}
			log.Debugf(ctx, "Set %s", spec)
		}
	}

	after, err := f.MarshalText()
	if err != nil {
		return err
	}
	if bytes.Equal(before, after) {
		log.Debugf(ctx, "%s unchanged", opts.path)
		return nil
	}
	if err := writeFile(fsys, opts.path, after); err != nil {
		return err
	}
	log.Debugf(ctx, "Wrote %s", opts.path)
	return nil
}

// writeFile replaces the file at path with data by renaming a temporary file
// over it. The file's permissions are preserved.
func writeFile(fsys afero.Fs, path string, data []byte) (err error) {
	perm := fs.FileMode(0o644)
	if info, err := fsys.Stat(path); err == nil {
		perm = info.Mode().Perm()
	}
	tmp, err := afero.TempFile(fsys, filepath.Dir(path), "."+filepath.Base(path)+".*")
	if err != nil {
		return fmt.Errorf("write %s: %w", path, err)
	}
	defer func() {
		if err != nil {
			tmp.Close()
			fsys.Remove(tmp.Name())
		}
	}()
	if _, err := tmp.Write(data); err != nil {
		return fmt.Errorf("write %s: %w", path, err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("write %s: %w", path, err)
	}
	if err := fsys.Chmod(tmp.Name(), perm); err != nil {
		return fmt.Errorf("write %s: %w", path, err)
	}
	if err := fsys.Rename(tmp.Name(), path); err != nil {
		return fmt.Errorf("write %s: %w", path, err)
	}
	return nil
}
