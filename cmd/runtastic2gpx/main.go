package main

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/lucasjlepore/runtastic-gpx/pipeline"
)

func main() {
	if len(os.Args) < 2 {
		fmt.Println("RUNTASTIC-GPX-CONVERTER: bad command line")
		fmt.Printf("Usage: %s <runtastic-export.zip>\n", os.Args[0])
		return
	}

	logger := slog.New(slog.NewTextHandler(os.Stdout, nil))

	fmt.Println("conversion started, please wait ...")
	if _, err := pipeline.Run(pipeline.Options{
		SourcePath: os.Args[1],
		Logger:     logger,
	}); err != nil {
		fmt.Fprintf(os.Stderr, "runtastic2gpx failed: %v\n", err)
		os.Exit(1)
	}
	fmt.Println("conversion completed")
}
