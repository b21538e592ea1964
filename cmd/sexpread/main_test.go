package main

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestRunFile(t *testing.T) {
	dir := t.TempDir()
	first := filepath.Join(dir, "first.scm")
	second := filepath.Join(dir, "second.scm")
	if err := os.WriteFile(first, []byte("(a 'b)\n#z\n(open\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(second, []byte("#(1 #x10) \"s\"\n"), 0o644); err != nil {
		t.Fatal(err)
	}

	var stdout, stderr bytes.Buffer
	conf.SetOutput(&stdout)
	conf.SetErrOutput(&stderr)
	defer func() {
		conf.SetOutput(nil)
		conf.SetErrOutput(nil)
	}()

	for _, name := range []string{first, second} {
		if err := runFile(name); err != nil {
			t.Fatalf("runFile(%s) error = %v", name, err)
		}
	}
	if got, want := stdout.String(), "(a (quote b))\n#(1 16)\n\"s\"\n"; got != want {
		t.Errorf("output %q, want %q", got, want)
	}
	if !strings.HasPrefix(stderr.String(), "syntax error: sharp") {
		t.Errorf("error output %q", stderr.String())
	}
}

func TestRunFileMissing(t *testing.T) {
	if err := runFile(filepath.Join(t.TempDir(), "missing.scm")); err == nil {
		t.Error("runFile of a missing file succeeded")
	}
}
