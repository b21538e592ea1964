// Sexpread reads S-expression data and prints each datum in canonical form
// as soon as it is complete.
//
// Usage:
//
//	sexpread [flags] [file ...]
//
// With no files it reads standard input, using a line editor when standard
// input is a terminal. Files ending in .gz or .zst are decompressed.
package main // import "github.com/alttpo/sexpread/cmd/sexpread"

import (
	"flag"
	"fmt"
	"log"
	"os"
	"strings"

	glua "github.com/yuin/gopher-lua"

	sexp "github.com/alttpo/sexpread"
	"github.com/alttpo/sexpread/config"
	"github.com/alttpo/sexpread/input"
	"github.com/alttpo/sexpread/lua"
	"github.com/alttpo/sexpread/run"
)

var (
	prompt     = flag.String("prompt", "> ", "interactive prompt")
	contPrompt = flag.String("cont", "", "prompt while a datum is unfinished")
	basic      = flag.Bool("basic", false, "read the basic grammar, without comments or strings")
	debug      = flag.String("debug", "", "comma-separated debug switches: "+strings.Join(config.DebugFlags, ", "))
	filter     = flag.String("filter", "", "Lua script whose global filter function rewrites each datum")
)

var conf config.Config

func main() {
	log.SetFlags(0)
	log.SetPrefix("sexpread: ")

	flag.Usage = usage
	flag.Parse()

	conf.SetPrompt(*prompt)
	conf.SetContinuationPrompt(*contPrompt)
	conf.SetBasic(*basic)
	if unknown := conf.SetDebugList(*debug); len(unknown) > 0 {
		log.Fatalf("unknown debug switch %s", strings.Join(unknown, ", "))
	}

	if *filter != "" {
		L := glua.NewState()
		defer L.Close()
		f, err := lua.NewFilter(L, *filter)
		if err != nil {
			log.Fatal(err)
		}
		conf.SetFilter(f)
	}

	if flag.NArg() == 0 {
		if err := runStdin(); err != nil {
			log.Fatal(err)
		}
		return
	}
	for _, name := range flag.Args() {
		if err := runFile(name); err != nil {
			log.Fatal(err)
		}
	}
}

func runStdin() error {
	if !input.IsTerminal() {
		return run.Run(sexp.NewReaderSource(os.Stdin), &conf)
	}
	term := input.NewTerminal(conf.Prompt(), conf.ContinuationPrompt())
	defer term.Close()
	err := run.Run(term, &conf)
	fmt.Fprintln(conf.Output())
	return err
}

// runFile reads the named file to its end. Each file starts with an empty
// buffer, so a datum left open at the end of one file does not continue
// into the next.
func runFile(name string) error {
	rc, err := input.Open(name)
	if err != nil {
		return err
	}
	defer rc.Close()
	if err := run.Run(sexp.NewReaderSource(rc), &conf); err != nil {
		return fmt.Errorf("%s: %w", name, err)
	}
	return nil
}

func usage() {
	fmt.Fprintf(os.Stderr, "usage: sexpread [flags] [file ...]\n")
	fmt.Fprintf(os.Stderr, "Flags:\n")
	flag.PrintDefaults()
	os.Exit(2)
}
