// Command golzip compresses and decompresses files in the lzip format. It
// supports testing and listing of multi-member files.
package main

import (
	"io"
	"os"
	"strings"

	"github.com/alecthomas/kong"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/ulikunitz/lzip"
)

type cli struct {
	Decompress bool `kong:"short='d',help='Decompress the named files.'"`
	Test       bool `kong:"short='t',help='Check the integrity of the named files.'"`
	List       bool `kong:"short='l',help='Print information about the members of the named files.'"`
	Stdout     bool `kong:"short='c',help='Write to standard output.'"`
	Output     string `kong:"short='o',type='path',help='Write output to the named file.'"`
	DictSize   int  `kong:"short='s',name='dict-size',default='8388608',help='Set the dictionary size in bytes.'"`

	TrailingError bool `kong:"short='a',name='trailing-error',help='Report trailing data as an error.'"`
	EmptyError    bool `kong:"name='empty-error',help='Report empty members as an error.'"`
	MarkingError  bool `kong:"name='marking-error',help='Report marking data as an error.'"`
	LooseTrailing bool `kong:"name='loose-trailing',help='Allow trailing data seeming a corrupt header.'"`

	Verbose  int    `kong:"short='v',type='counter',help='Increase verbosity.'"`
	LogLevel string `kong:"name='log-level',default='warn',env='LOG_LEVEL',help='Set log level.'"`

	Files []string `kong:"arg,optional,name='file',help='Files to process; standard input if none are given (not in list mode: it opens named files only).'"`
}

// Exit classes of the tool: 1 signals an environment problem, 2 a corrupt
// or invalid file.
const (
	exitIO     = 1
	exitFormat = 2
)

// exitClass maps an error to the exit class it is reported with.
func exitClass(err error) int {
	if err == nil {
		return 0
	}
	if _, ok := err.(*os.PathError); ok {
		return exitIO
	}
	return exitFormat
}

// setRetval keeps the largest exit class seen.
func setRetval(retval *int, n int) {
	if *retval < n {
		*retval = n
	}
}

func main() {
	var args cli
	kong.Parse(&args,
		kong.Name("golzip"),
		kong.Description("Compress and decompress files in the lzip format."),
		kong.UsageOnError(),
	)

	level, err := zerolog.ParseLevel(args.LogLevel)
	if err != nil {
		level = zerolog.WarnLevel
	}
	log.Logger = zerolog.New(zerolog.ConsoleWriter{Out: os.Stderr}).
		With().Timestamp().Logger().Level(level)

	files := args.Files
	if len(files) == 0 {
		files = []string{"-"}
	}

	retval := 0
	switch {
	case args.List:
		listFiles(&args, files, &retval)
	case args.Test:
		for _, name := range files {
			err := decompressFile(&args, name, io.Discard)
			if err != nil {
				log.Error().Str("file", name).Err(err).
					Msg("test failed")
				setRetval(&retval, exitClass(err))
			}
		}
	case args.Decompress:
		for _, name := range files {
			w, closeOut, err := openOutput(&args, name, true)
			if err != nil {
				log.Error().Str("file", name).Err(err).Send()
				setRetval(&retval, exitIO)
				continue
			}
			err = decompressFile(&args, name, w)
			if cerr := closeOut(); err == nil {
				err = cerr
			}
			if err != nil {
				log.Error().Str("file", name).Err(err).
					Msg("decompression failed")
				setRetval(&retval, exitClass(err))
			}
		}
	default:
		for _, name := range files {
			w, closeOut, err := openOutput(&args, name, false)
			if err != nil {
				log.Error().Str("file", name).Err(err).Send()
				setRetval(&retval, exitIO)
				continue
			}
			err = compressFile(&args, name, w)
			if cerr := closeOut(); err == nil {
				err = cerr
			}
			if err != nil {
				log.Error().Str("file", name).Err(err).
					Msg("compression failed")
				setRetval(&retval, exitClass(err))
			}
		}
	}
	os.Exit(retval)
}

// openInput opens the named file or standard input for "-".
func openInput(name string) (f *os.File, err error) {
	if name == "-" {
		return os.Stdin, nil
	}
	return os.Open(name)
}

// openOutput determines the output writer for the given input file name.
// For decompression the .lz suffix is stripped; for compression it is
// added.
func openOutput(args *cli, name string, decompress bool,
) (w io.Writer, closeFn func() error, err error) {
	noop := func() error { return nil }
	if args.Stdout || name == "-" {
		return os.Stdout, noop, nil
	}
	out := args.Output
	if out == "" {
		if decompress {
			out = strings.TrimSuffix(name, ".lz")
			if out == name {
				out = name + ".out"
			}
		} else {
			out = name + ".lz"
		}
	}
	f, err := os.Create(out)
	if err != nil {
		return nil, noop, err
	}
	return f, f.Close, nil
}

// decompressFile decodes all members of the named file into w.
func decompressFile(args *cli, name string, w io.Writer) error {
	f, err := openInput(name)
	if err != nil {
		return err
	}
	defer f.Close()
	cfg := lzip.ReaderConfig{
		EmptyError:    args.EmptyError,
		MarkingError:  args.MarkingError,
		TrailingError: args.TrailingError,
		LooseTrailing: args.LooseTrailing,
	}
	z, err := cfg.NewReader(f)
	if err != nil {
		return err
	}
	n, err := io.Copy(w, z)
	if err != nil {
		return err
	}
	log.Debug().Str("file", name).Int64("bytes", n).
		Int("members", z.Members()).Msg("decompressed")
	return nil
}

// compressFile encodes the named file as a single member into w.
func compressFile(args *cli, name string, w io.Writer) error {
	f, err := openInput(name)
	if err != nil {
		return err
	}
	defer f.Close()
	cfg := lzip.WriterConfig{DictSize: args.DictSize}
	z, err := cfg.NewWriter(w)
	if err != nil {
		return err
	}
	if _, err = io.Copy(z, f); err != nil {
		return err
	}
	return z.Close()
}

// listFiles prints the index information of the named files.
func listFiles(args *cli, files []string, retval *int) {
	l := lzip.NewLister(os.Stdout, args.Verbose)
	cfg := lzip.IndexConfig{
		TrailingError: args.TrailingError,
		LooseTrailing: args.LooseTrailing,
	}
	for _, name := range files {
		f, err := os.Open(name)
		if err != nil {
			log.Error().Str("file", name).Err(err).Send()
			setRetval(retval, exitIO)
			continue
		}
		fi, err := f.Stat()
		if err != nil {
			f.Close()
			log.Error().Str("file", name).Err(err).Send()
			setRetval(retval, exitIO)
			continue
		}
		ix, err := cfg.NewIndex(f, fi.Size())
		f.Close()
		if err != nil {
			log.Error().Str("file", name).Err(err).Send()
			setRetval(retval, exitClass(err))
			continue
		}
		if err = l.List(ix, name); err != nil {
			setRetval(retval, exitIO)
			return
		}
	}
	if err := l.Totals(); err != nil {
		setRetval(retval, exitIO)
	}
}
