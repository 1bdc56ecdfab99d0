package main

import (
	"flag"
	"fmt"
	"log/slog"
	"os"

	"github.com/lucasjlepore/runtastic-gpx/pipeline"
)

func main() {
	var (
		outPath  = flag.String("out", "", "Output archive path (default: <source>_GPX.zip)")
		withFIT  = flag.Bool("fit", false, "Also write <id>.fit for every converted activity")
		parquet  = flag.Bool("parquet", false, "Also write activities.parquet")
		manifest = flag.Bool("manifest", false, "Also write manifest.json")
		jsonLog  = flag.Bool("json-log", false, "Log as JSON instead of text")
		verbose  = flag.Bool("v", false, "Log every converted activity")
	)

	flag.Usage = func() {
		fmt.Fprintf(flag.CommandLine.Output(), "Usage: %s [flags] <runtastic-export.zip>\n", os.Args[0])
		flag.PrintDefaults()
	}
	flag.Parse()

	if flag.NArg() != 1 {
		flag.Usage()
		os.Exit(2)
	}

	level := slog.LevelInfo
	if *verbose {
		level = slog.LevelDebug
	}
	handlerOpts := &slog.HandlerOptions{Level: level}
	var handler slog.Handler = slog.NewTextHandler(os.Stderr, handlerOpts)
	if *jsonLog {
		handler = slog.NewJSONHandler(os.Stderr, handlerOpts)
	}

	res, err := pipeline.Run(pipeline.Options{
		SourcePath:    flag.Arg(0),
		OutputPath:    *outPath,
		Logger:        slog.New(handler),
		WriteFIT:      *withFIT,
		WriteParquet:  *parquet,
		WriteManifest: *manifest,
	})
	if err != nil {
		fmt.Fprintf(os.Stderr, "export failed: %v\n", err)
		os.Exit(1)
	}

	fmt.Printf("Export complete\n")
	fmt.Printf("Output:    %s\n", res.OutputPath)
	fmt.Printf("Converted: %d activities\n", len(res.Converted))
	fmt.Printf("Skipped:   %d activities\n", len(res.Skipped))
	fmt.Printf("Entries:   %d\n", len(res.Entries))
	for _, w := range res.Warnings {
		fmt.Printf("Warning:   %s\n", w)
	}
}
