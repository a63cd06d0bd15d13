// ndpack inspects and converts msgpack documents that carry numpy arrays.
//
//	ndpack inspect [--raw] [--tree] [--format json|yaml] FILE...
//	ndpack wrap [--compression zstd] IN OUT
//	ndpack unwrap IN OUT
//
// inspect lists every array of each file with its dtype, shape, size and
// BLAKE3 digest. Files are envelopes unless --raw is given, in which case
// they are bare msgpack. wrap packs a bare msgpack file into an envelope and
// unwrap does the reverse. Both validate every array on the way through.
package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"runtime"

	"github.com/sirupsen/logrus"
	"github.com/spf13/pflag"
	"golang.org/x/sync/errgroup"
	"gopkg.in/yaml.v3"

	"github.com/logicossoftware/go-ndpack"
	"github.com/logicossoftware/go-ndpack/internal/summary"
)

func main() {
	if err := run(os.Args[1:], os.Stdout); err != nil {
		if errors.Is(err, pflag.ErrHelp) {
			return
		}
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}

const usage = `ndpack inspects and converts numpy-carrying msgpack documents.

Usage:
  ndpack inspect [flags] FILE...
  ndpack wrap [flags] IN OUT
  ndpack unwrap [flags] IN OUT

Run "ndpack COMMAND --help" for the flags of a command.
`

func run(args []string, stdout io.Writer) error {
	if len(args) == 0 {
		fmt.Fprint(os.Stderr, usage)
		return pflag.ErrHelp
	}
	switch args[0] {
	case "inspect":
		return runInspect(args[1:], stdout)
	case "wrap":
		return runWrap(args[1:])
	case "unwrap":
		return runUnwrap(args[1:])
	case "-h", "--help", "help":
		fmt.Fprint(os.Stderr, usage)
		return pflag.ErrHelp
	default:
		return fmt.Errorf("unknown command %q", args[0])
	}
}

// commonFlags are shared by every subcommand.
type commonFlags struct {
	logLevel string
	host     string
	skip     []string
}

func (f *commonFlags) add(fs *pflag.FlagSet) {
	fs.StringVar(&f.logLevel, "log-level", "warning", "log level (debug, info, warning, error)")
	fs.StringVar(&f.host, "host-order", "native", "byte order to assume: native, little or big")
	fs.StringSliceVar(&f.skip, "skip-code", nil, "dtype codes to leave undecoded, e.g. f4,i8")
}

// codec builds the codec described by the flags. warn, when non-nil,
// receives every warning in addition to the log.
func (f *commonFlags) codec(warn func(ndpack.Warning)) (*ndpack.Codec, error) {
	level, err := logrus.ParseLevel(f.logLevel)
	if err != nil {
		return nil, err
	}
	backend := logrus.New()
	backend.SetOutput(os.Stderr)
	backend.SetLevel(level)

	opts := []ndpack.Option{
		ndpack.WithLogger(ndpack.NewLogrusLogger(backend).Sub("module", "ndpack")),
	}
	switch f.host {
	case "native":
	case "little":
		opts = append(opts, ndpack.WithHostEndianness(ndpack.LittleEndian))
	case "big":
		opts = append(opts, ndpack.WithHostEndianness(ndpack.BigEndian))
	default:
		return nil, fmt.Errorf("unknown --host-order %q", f.host)
	}
	if len(f.skip) > 0 {
		opts = append(opts, ndpack.WithRegistry(ndpack.NewRegistry().Without(f.skip...)))
	}
	if warn != nil {
		opts = append(opts, ndpack.WithWarningHandler(warn))
	}
	return ndpack.New(opts...), nil
}

func newFlagSet(name, args string) *pflag.FlagSet {
	fs := pflag.NewFlagSet(name, pflag.ContinueOnError)
	fs.Usage = func() {
		fmt.Fprintf(os.Stderr, "Usage: ndpack %s [flags] %s\n\nFlags:\n", name, args)
		fs.PrintDefaults()
	}
	return fs
}

func runInspect(args []string, stdout io.Writer) error {
	var common commonFlags
	var raw, tree bool
	var format string
	var jobs int

	fs := newFlagSet("inspect", "FILE...")
	common.add(fs)
	fs.BoolVar(&raw, "raw", false, "files are bare msgpack, not envelopes")
	fs.BoolVar(&tree, "tree", false, "include the decoded tree in the report")
	fs.StringVarP(&format, "format", "f", "yaml", "output format: yaml or json")
	fs.IntVarP(&jobs, "jobs", "j", runtime.GOMAXPROCS(0), "files decoded concurrently")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if fs.NArg() == 0 {
		fs.Usage()
		return errors.New("inspect needs at least one file")
	}
	if format != "yaml" && format != "json" {
		return fmt.Errorf("unknown --format %q", format)
	}

	files := fs.Args()
	reports := make([]summary.Report, len(files))
	g, ctx := errgroup.WithContext(context.Background())
	g.SetLimit(max(jobs, 1))
	for i, path := range files {
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			r, err := inspectFile(&common, path, raw, tree)
			if err != nil {
				return fmt.Errorf("%s: %w", path, err)
			}
			reports[i] = r
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return err
	}

	if format == "json" {
		enc := json.NewEncoder(stdout)
		enc.SetIndent("", "  ")
		return enc.Encode(reports)
	}
	enc := yaml.NewEncoder(stdout)
	enc.SetIndent(2)
	if err := enc.Encode(reports); err != nil {
		return err
	}
	return enc.Close()
}

func inspectFile(common *commonFlags, path string, raw, tree bool) (summary.Report, error) {
	report := summary.Report{Source: path}
	c, err := common.codec(func(w ndpack.Warning) {
		report.Warnings = append(report.Warnings, w.String())
	})
	if err != nil {
		return report, err
	}
	v, err := readDocument(c, path, raw)
	if err != nil {
		return report, err
	}
	report.Arrays, err = summary.Arrays(c, v)
	if err != nil {
		return report, err
	}
	if tree {
		report.Tree = summary.Plain(v)
	}
	return report, nil
}

func readDocument(c *ndpack.Codec, path string, raw bool) (ndpack.Value, error) {
	if raw {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, err
		}
		return c.Unpack(data)
	}
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	return ndpack.Decode(f, ndpack.WithReadCodec(c))
}

func runWrap(args []string) error {
	var common commonFlags
	var compression string

	fs := newFlagSet("wrap", "IN OUT")
	common.add(fs)
	fs.StringVarP(&compression, "compression", "c", ndpack.CompZSTD.String(), "none, zip, zstd, lz4 or brotli")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if fs.NArg() != 2 {
		fs.Usage()
		return errors.New("wrap needs IN and OUT")
	}
	comp, ok := ndpack.ParseCompression(compression)
	if !ok {
		return fmt.Errorf("unknown --compression %q", compression)
	}
	c, err := common.codec(nil)
	if err != nil {
		return err
	}
	v, err := readDocument(c, fs.Arg(0), true)
	if err != nil {
		return err
	}
	return writeFile(fs.Arg(1), func(w io.Writer) error {
		return ndpack.Encode(w, v, ndpack.WithWriteCodec(c), ndpack.WithCompression(comp))
	})
}

func runUnwrap(args []string) error {
	var common commonFlags

	fs := newFlagSet("unwrap", "IN OUT")
	common.add(fs)
	if err := fs.Parse(args); err != nil {
		return err
	}
	if fs.NArg() != 2 {
		fs.Usage()
		return errors.New("unwrap needs IN and OUT")
	}
	c, err := common.codec(nil)
	if err != nil {
		return err
	}
	v, err := readDocument(c, fs.Arg(0), false)
	if err != nil {
		return err
	}
	data, err := c.Pack(v)
	if err != nil {
		return err
	}
	return writeFile(fs.Arg(1), func(w io.Writer) error {
		_, err := w.Write(data)
		return err
	})
}

func writeFile(path string, write func(io.Writer) error) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	if err := write(f); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}
