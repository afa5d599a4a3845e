// Package iotext reads plain-text input for command line tools, from a file
// argument or from piped stdin.
package iotext

import (
	"fmt"
	"io"
	"os"

	"github.com/urfave/cli/v3"
	"golang.org/x/term"
)

// FileReader reads text from a --file flag or from stdin when input is piped.
// Reading from an interactive terminal is refused rather than hanging.
type FileReader struct {
	fileFlagValue string
}

// Flag returns the file flag for registration on a command.
func (fr *FileReader) Flag() *cli.StringFlag {
	return &cli.StringFlag{
		Name:        "file",
		Aliases:     []string{"f"},
		Usage:       "path to input file (reads from stdin if not provided)",
		Destination: &fr.fileFlagValue,
	}
}

// Path returns the file flag value, empty when input comes from stdin.
func (fr *FileReader) Path() string {
	return fr.fileFlagValue
}

// Read returns the full input text.
func (fr *FileReader) Read() (string, error) {
	var reader io.Reader

	if fr.fileFlagValue != "" {
		f, err := os.Open(fr.fileFlagValue)
		if err != nil {
			return "", fmt.Errorf("open file: %w", err)
		}
		defer func() { _ = f.Close() }()
		reader = f
	} else {
		if term.IsTerminal(int(os.Stdin.Fd())) {
			return "", fmt.Errorf("no input provided (stdin is a terminal); use -f flag or pipe input")
		}
		reader = os.Stdin
	}

	data, err := io.ReadAll(reader)
	if err != nil {
		return "", fmt.Errorf("read input: %w", err)
	}
	return string(data), nil
}
