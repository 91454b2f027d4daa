// Command deckdump parses a .pptx file and prints the slide model as JSON.
//
// Usage:
//
//	deckdump [-v] [-media] deck.pptx
package main

import (
	"encoding/json"
	"flag"
	"fmt"
	"os"
	"sort"

	"go.uber.org/zap"

	deckparse "github.com/srse369/saisongs-sub006"
)

func main() {
	verbose := flag.Bool("v", false, "log parse warnings to stderr")
	media := flag.Bool("media", false, "list extracted media blobs instead of the model")
	flag.Parse()

	if flag.NArg() != 1 {
		fmt.Fprintf(os.Stderr, "usage: %s [-v] [-media] deck.pptx\n", os.Args[0])
		os.Exit(2)
	}

	var opts []deckparse.Option
	if *verbose {
		logger, err := zap.NewDevelopment()
		if err != nil {
			fmt.Fprintln(os.Stderr, err)
			os.Exit(1)
		}
		defer logger.Sync()
		opts = append(opts, deckparse.WithLogger(logger))
	}

	buf, err := os.ReadFile(flag.Arg(0))
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}

	p := deckparse.NewParser(opts...)
	pres, err := p.Parse(buf)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}

	if *media {
		blobs := p.MediaBlobs()
		names := make([]string, 0, len(blobs))
		for name := range blobs {
			names = append(names, name)
		}
		sort.Strings(names)
		for _, name := range names {
			b := blobs[name]
			fmt.Printf("%s\t%s\t%d bytes\n", name, b.MimeType, len(b.Data))
		}
		return
	}

	out, err := json.MarshalIndent(pres, "", "  ")
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
	fmt.Println(string(out))
}
