// Package config holds the runtime settings of the reader loop.
package config // import "github.com/alttpo/sexpread/config"

import (
	"io"
	"os"
	"sort"
	"strings"

	sexp "github.com/alttpo/sexpread"
)

// DebugFlags lists the recognized debug switches.
//   kind: print each datum's kind before it
//   spew: dump each datum's tree to the error output
//   buffer: report text left unparsed at end of input
var DebugFlags = []string{"buffer", "kind", "spew"}

// Filter rewrites a datum before it is printed. A nil result drops it.
type Filter func(n *sexp.Node) (*sexp.Node, error)

type Config struct {
	prompt     string
	contPrompt string
	basic      bool
	debug      map[string]bool
	output     io.Writer
	errOutput  io.Writer
	filter     Filter
}

func (c *Config) Prompt() string {
	return c.prompt
}

func (c *Config) SetPrompt(prompt string) {
	c.prompt = prompt
}

// ContinuationPrompt is shown while a datum is still open.
func (c *Config) ContinuationPrompt() string {
	return c.contPrompt
}

func (c *Config) SetContinuationPrompt(prompt string) {
	c.contPrompt = prompt
}

func (c *Config) Basic() bool {
	return c.basic
}

func (c *Config) SetBasic(basic bool) {
	c.basic = basic
}

// Parser returns the grammar selected by SetBasic.
func (c *Config) Parser() sexp.Parser {
	if c.basic {
		return sexp.BasicParser
	}
	return sexp.FullParser
}

func (c *Config) Debug(s string) bool {
	return c.debug[s]
}

// SetDebug sets the named debug switch and reports whether the name is
// recognized.
func (c *Config) SetDebug(s string, state bool) bool {
	i := sort.SearchStrings(DebugFlags, s)
	if i >= len(DebugFlags) || DebugFlags[i] != s {
		return false
	}
	if c.debug == nil {
		c.debug = make(map[string]bool)
	}
	c.debug[s] = state
	return true
}

// SetDebugList enables each switch in a comma-separated list and returns
// the names it did not recognize.
func (c *Config) SetDebugList(list string) (unknown []string) {
	for _, name := range strings.Split(list, ",") {
		name = strings.TrimSpace(name)
		if name == "" {
			continue
		}
		if !c.SetDebug(name, true) {
			unknown = append(unknown, name)
		}
	}
	return unknown
}

func (c *Config) Output() io.Writer {
	if c.output == nil {
		return os.Stdout
	}
	return c.output
}

func (c *Config) SetOutput(w io.Writer) {
	c.output = w
}

func (c *Config) ErrOutput() io.Writer {
	if c.errOutput == nil {
		return os.Stderr
	}
	return c.errOutput
}

func (c *Config) SetErrOutput(w io.Writer) {
	c.errOutput = w
}

func (c *Config) Filter() Filter {
	return c.filter
}

func (c *Config) SetFilter(f Filter) {
	c.filter = f
}
