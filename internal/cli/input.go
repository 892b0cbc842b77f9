package cli

import (
	"bytes"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/matzehuels/jsontree/pkg/errors"
	"github.com/matzehuels/jsontree/pkg/session"
)

// Input names reported in logs.
const (
	inputStdin  = "stdin"
	inputSample = "sample"
)

// inputFlags selects the document a command reads.
type inputFlags struct {
	sample bool
}

func (f *inputFlags) register(cmd *cobra.Command) {
	cmd.Flags().BoolVar(&f.sample, "sample", false, "use the built-in sample document")
}

// readDocument returns the document named by the optional file argument:
// the sample with --sample, stdin for "-" or no argument, else the file.
func (c *CLI) readDocument(file string, flags inputFlags) ([]byte, string, error) {
	if flags.sample {
		if file != "" {
			return nil, "", errors.New(errors.ErrCodeInvalidInput, "--sample cannot be combined with a file argument")
		}
		return []byte(session.SampleJSON), inputSample, nil
	}

	var (
		data []byte
		name string
		err  error
	)
	if file == "" || file == "-" {
		name = inputStdin
		data, err = io.ReadAll(c.in)
	} else {
		name = file
		data, err = os.ReadFile(file)
	}
	if err != nil {
		return nil, "", fmt.Errorf("read %s: %w", name, err)
	}
	if len(bytes.TrimSpace(data)) == 0 {
		return nil, "", errors.New(errors.ErrCodeInvalidInput, "%s is empty", name)
	}
	return data, name, nil
}

// optionalArg returns args[i] or "".
func optionalArg(args []string, i int) string {
	if i < len(args) {
		return args[i]
	}
	return ""
}
