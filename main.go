package main

import (
	"bytes"
	"context"
	"flag"
	"fmt"
	"os"

	"github.com/poolqa/PngChunkKit/config"
	"github.com/poolqa/PngChunkKit/pngChunk"
	"github.com/poolqa/PngChunkKit/pngFile"
	"github.com/sirupsen/logrus"
)

type CommandOptions struct {
	Output    string
	Input     string
	Config    string
	Anonymize bool
	Texts     bool
	Strict    bool
	Verbose   bool
}

var ShowHelper bool
var Options CommandOptions

func init() {
	flag.BoolVar(&ShowHelper, "h", false, "show this help")

	flag.StringVar(&Options.Input, "i", "", "set source png `input` file")
	flag.StringVar(&Options.Output, "o", "", "write the chunk stream to `output` file")
	flag.StringVar(&Options.Config, "c", "", "load settings from yaml `config` file")
	flag.BoolVar(&Options.Anonymize, "a", false, "drop privacy sensitive chunks before writing")
	flag.BoolVar(&Options.Texts, "t", false, "print text chunks")
	flag.BoolVar(&Options.Strict, "strict", false, "treat crc mismatches as fatal")
	flag.BoolVar(&Options.Verbose, "v", false, "log diagnostics at debug level")

	flag.Usage = usage
}

func usage() {
	fmt.Fprintf(os.Stderr, `png chunk kit version: v0.1.0
Usage: pngchunkkit [-h] [-a] [-t] [-strict] [-v] [-c filename] [-o filename] -i filename

Options:
`)
	flag.PrintDefaults()
}

func main() {
	flag.Parse()

	if ShowHelper {
		flag.Usage()
		os.Exit(0)
	}
	if Options.Input == "" {
		flag.Usage()
		os.Exit(0)
	}

	cfg, err := config.Load(Options.Config)
	if err != nil {
		logrus.Fatal(err)
	}
	if Options.Strict {
		cfg.Parse.StrictCrc = true
	}
	log := cfg.Logger()
	if Options.Verbose {
		log.SetLevel(logrus.DebugLevel)
	}

	if err := run(context.Background(), cfg, log, Options); err != nil {
		log.Fatal(err)
	}
}

func run(ctx context.Context, cfg config.Config, log *logrus.Logger, opts CommandOptions) error {
	b, err := os.ReadFile(opts.Input)
	if err != nil {
		return err
	}

	img, report, err := pngFile.DecodeContext(ctx, bytes.NewReader(b), cfg.ReaderOptions(pngChunk.LogObserver(log)))
	if report != nil {
		fmt.Print(report.String())
	}
	if err != nil {
		return fmt.Errorf("error decoding %s: %w", opts.Input, err)
	}
	log.WithFields(logrus.Fields{
		"chunks": len(img.Chunks),
		"valid":  report.Valid(),
	}).Info("Decoded ", opts.Input)

	if opts.Texts {
		entries, err := img.Texts(ctx, cfg.Codec(), cfg.Workers)
		if err != nil {
			return err
		}
		for _, e := range entries {
			if e.Err != nil {
				log.WithField("index", e.Index).Warn("Could not decode ", e.Type, ": ", e.Err)
				continue
			}
			fmt.Printf("%s %s: %s\n", e.Type, e.Keyword, e.Text)
		}
	}

	if opts.Anonymize {
		before := len(img.Chunks)
		img = img.Anonymize()
		log.WithField("removed", before-len(img.Chunks)).Info("Anonymized chunk stream")
	}

	if opts.Output == "" {
		return nil
	}
	fo, err := os.OpenFile(opts.Output, os.O_WRONLY|os.O_CREATE|os.O_TRUNC, 0o666)
	if err != nil {
		return err
	}
	defer fo.Close()
	if err := img.EncodeContext(ctx, fo); err != nil {
		return err
	}
	return fo.Close()
}
