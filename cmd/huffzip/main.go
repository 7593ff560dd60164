// huffzip compresses and decompresses files with Huffman coding.
//
// Usage:
//
//	huffzip [-d|-t] [-o dir] [-v] <filename> [<filename> ...]
//
// By default each file is compressed to <dir>/<name>.huf.  With -d, each
// .huf file is decompressed to <dir>/<name>.  With -t, each file is
// compressed and then decompressed again to <dir>/<name>_decompressed<ext>,
// and the result is compared with the original.
//
// Options:
//
//	-d, --decompress   Decompress instead of compress
//	-t, --test         Round-trip each file and verify the result
//	-o, --output dir   Output directory (default "output")
//	-v, --verbose      Log progress
//	-h, --help         Print help message
//	    --version      Print version information
package main

import (
	"bytes"
	"errors"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/chronos-tachyon/huffzip"
)

const version = "1.0.0"

const fileExt = ".huf"

var (
	decompress bool
	roundTrip  bool
	outputDir  string
	verbose    bool
	showHelp   bool
	showVer    bool
)

func init() {
	flag.BoolVar(&decompress, "d", false, "decompress")
	flag.BoolVar(&decompress, "decompress", false, "decompress")
	flag.BoolVar(&roundTrip, "t", false, "round-trip test")
	flag.BoolVar(&roundTrip, "test", false, "round-trip test")
	flag.StringVar(&outputDir, "o", "output", "output directory")
	flag.StringVar(&outputDir, "output", "output", "output directory")
	flag.BoolVar(&verbose, "v", false, "verbose mode")
	flag.BoolVar(&verbose, "verbose", false, "verbose mode")
	flag.BoolVar(&showHelp, "h", false, "print help message")
	flag.BoolVar(&showHelp, "help", false, "print help message")
	flag.BoolVar(&showVer, "version", false, "print version information")
}

func usage() {
	fmt.Fprintf(os.Stderr, "Usage: %s [-d|-t] [-o dir] [-v] <filename> [<filename> ...]\n\n", os.Args[0])
	fmt.Fprintf(os.Stderr, "Compress or decompress files with Huffman coding\n\n")
	fmt.Fprintf(os.Stderr, "Options:\n")
	fmt.Fprintf(os.Stderr, "  -d, --decompress   decompress %s files\n", fileExt)
	fmt.Fprintf(os.Stderr, "  -t, --test         compress, decompress and compare\n")
	fmt.Fprintf(os.Stderr, "  -o, --output dir   output directory (default \"output\")\n")
	fmt.Fprintf(os.Stderr, "  -v, --verbose      verbose mode\n")
	fmt.Fprintf(os.Stderr, "  -h, --help         print this message\n")
	fmt.Fprintf(os.Stderr, "      --version      print version information\n")
}

func main() {
	flag.Usage = usage
	flag.Parse()

	if showHelp {
		usage()
		os.Exit(0)
	}

	if showVer {
		fmt.Printf("huffzip %s\n", version)
		os.Exit(0)
	}

	if flag.NArg() == 0 || (decompress && roundTrip) {
		usage()
		os.Exit(2)
	}

	level := slog.LevelInfo
	if verbose {
		level = slog.LevelDebug
	}
	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level}))

	if err := os.MkdirAll(outputDir, 0o755); err != nil {
		logger.Error("unable to create output directory", "dir", outputDir, "error", err)
		os.Exit(1)
	}

	codec := huffzip.New(huffzip.WithLogger(logger))

	exitCode := 0
	for _, path := range flag.Args() {
		var err error
		switch {
		case decompress:
			err = decompressFile(codec, logger, path)
		case roundTrip:
			err = roundTripFile(codec, logger, path)
		default:
			_, _, err = compressFile(codec, logger, path)
		}
		if err != nil {
			logger.Error("failed", "file", path, "error", err)
			exitCode = 1
		}
	}
	os.Exit(exitCode)
}

func compressFile(codec *huffzip.Codec, logger *slog.Logger, path string) (original []byte, compressed []byte, err error) {
	original, err = os.ReadFile(path)
	if err != nil {
		return nil, nil, err
	}

	compressed, err = codec.CompressFile(original)
	if err != nil {
		return nil, nil, err
	}

	outPath := filepath.Join(outputDir, filepath.Base(path)+fileExt)
	if err := os.WriteFile(outPath, compressed, 0o644); err != nil {
		return nil, nil, err
	}

	logger.Info("file compressed", "input", path, "output", outPath, "original", len(original), "compressed", len(compressed))
	return original, compressed, nil
}

func decompressFile(codec *huffzip.Codec, logger *slog.Logger, path string) error {
	base := filepath.Base(path)
	if !strings.HasSuffix(base, fileExt) {
		return fmt.Errorf("%s: missing %s extension", path, fileExt)
	}

	compressed, err := os.ReadFile(path)
	if err != nil {
		return err
	}

	data, err := codec.DecompressFile(compressed)
	if err != nil {
		return err
	}

	outPath := filepath.Join(outputDir, strings.TrimSuffix(base, fileExt))
	if err := os.WriteFile(outPath, data, 0o644); err != nil {
		return err
	}

	logger.Info("file decompressed", "input", path, "output", outPath, "size", len(data))
	return nil
}

func roundTripFile(codec *huffzip.Codec, logger *slog.Logger, path string) error {
	original, compressed, err := compressFile(codec, logger, path)
	if err != nil {
		return err
	}

	data, err := codec.DecompressFile(compressed)
	if err != nil {
		return err
	}

	base := filepath.Base(path)
	ext := filepath.Ext(base)
	outPath := filepath.Join(outputDir, strings.TrimSuffix(base, ext)+"_decompressed"+ext)
	if err := os.WriteFile(outPath, data, 0o644); err != nil {
		return err
	}

	if !bytes.Equal(original, data) {
		return errors.New("round trip mismatch: decompressed output differs from input")
	}

	logger.Info("file decompressed", "output", outPath, "size", len(data))
	return nil
}
