// Package run provides the read/print loop of the reader.
// It is factored out of main so it can be used for tests.
package run // import "github.com/alttpo/sexpread/run"

import (
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/davecgh/go-spew/spew"

	sexp "github.com/alttpo/sexpread"
	"github.com/alttpo/sexpread/config"
)

// Run reads data from src until end of input, printing the canonical text
// of each datum on its own line of the configured output. Syntax errors are
// reported to the error output and reading continues with fresh input.
// The return value is nil when input ran out and otherwise the input error
// that stopped the run.
func Run(src sexp.Source, conf *config.Config) error {
	s := sexp.NewStream(conf.Parser(), src)
	for {
		n, err := s.Next()
		if err == io.EOF {
			if conf.Debug("buffer") && strings.TrimSpace(s.Buffered()) != "" {
				fmt.Fprintf(conf.ErrOutput(), "unfinished datum at end of input: %q\n", s.Buffered())
			}
			return nil
		}
		var se *sexp.SyntaxError
		if errors.As(err, &se) {
			fmt.Fprintf(conf.ErrOutput(), "syntax error: %v\n", se)
			continue
		}
		if err != nil {
			return err
		}

		if f := conf.Filter(); f != nil {
			n, err = f(n)
			if err != nil {
				fmt.Fprintf(conf.ErrOutput(), "filter: %v\n", err)
				continue
			}
			if n == nil {
				continue
			}
		}
		printDatum(conf, n)
	}
}

// String reads every datum in text and returns what Run prints for them,
// along with whatever it reported as errors.
func String(conf *config.Config, text string) (out, errOut string, err error) {
	var stdout, stderr strings.Builder
	c := *conf
	c.SetOutput(&stdout)
	c.SetErrOutput(&stderr)
	err = Run(sexp.NewReaderSource(strings.NewReader(text)), &c)
	return stdout.String(), stderr.String(), err
}

var dumper = spew.ConfigState{
	Indent:                  "  ",
	DisableMethods:          true,
	DisablePointerAddresses: true,
	DisableCapacities:       true,
}

func printDatum(conf *config.Config, n *sexp.Node) {
	w := conf.Output()
	if conf.Debug("kind") {
		fmt.Fprintf(w, "%s: ", kindOf(n))
	}
	fmt.Fprintln(w, n)
	if conf.Debug("spew") {
		dumper.Fdump(conf.ErrOutput(), n)
	}
}

func kindOf(n *sexp.Node) sexp.Kind {
	if n == nil {
		return sexp.KindNil
	}
	return n.Kind
}
