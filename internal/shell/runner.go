// Package shell runs provider commands on the local host and builds the
// command lines that renderers emit, including parameter chunking for
// commands that take arbitrarily many arguments.
package shell

import (
	"bytes"
	"encoding/json"
	"errors"
	"os/exec"
	"strings"

	"github.com/rs/zerolog/log"
)

// MaxCLIParams caps the total argv length of a single constructed command.
// Parameter lists longer than the remaining headroom are split across
// multiple invocations.
const MaxCLIParams = 1024

// Runner abstracts command execution so providers can be tested against
// canned output.
type Runner interface {
	Run(name string, args ...string) ([]byte, []byte, int32, error)
}

// ExecRunner executes commands on the local host.
type ExecRunner struct{}

func (r ExecRunner) Run(name string, args ...string) ([]byte, []byte, int32, error) {
	log.Debug().Str("command", Join(append([]string{name}, args...))).Msg("running command")

	cmd := exec.Command(name, args...)
	var stdout bytes.Buffer
	var stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	err := cmd.Run()
	if err == nil {
		return stdout.Bytes(), stderr.Bytes(), 0, nil
	}

	var exitErr *exec.ExitError
	if errors.As(err, &exitErr) {
		return stdout.Bytes(), stderr.Bytes(), int32(exitErr.ExitCode()), err
	}

	exitCode := int32(1)
	var execErr *exec.Error
	if errors.As(err, &execErr) {
		exitCode = 127
	}
	return stdout.Bytes(), stderr.Bytes(), exitCode, err
}

// Chunk splits params across as many copies of command as needed to keep
// every argv under MaxCLIParams entries. Without params the command runs
// once, as-is.
func Chunk(command []string, params []string) [][]string {
	if len(params) == 0 {
		return [][]string{append([]string(nil), command...)}
	}
	headroom := MaxCLIParams - len(command)
	if headroom < 1 {
		headroom = 1
	}
	var out [][]string
	for len(params) > 0 {
		n := headroom
		if n > len(params) {
			n = len(params)
		}
		argv := make([]string, 0, len(command)+n)
		argv = append(argv, command...)
		argv = append(argv, params[:n]...)
		out = append(out, argv)
		params = params[n:]
	}
	return out
}

// Lines runs command (chunked over params) and returns the non-empty stdout
// lines of every invocation in order.
func Lines(r Runner, command []string, params ...string) ([]string, error) {
	var out []string
	for _, argv := range Chunk(command, params) {
		stdout, _, _, err := r.Run(argv[0], argv[1:]...)
		if err != nil {
			return nil, err
		}
		for _, line := range strings.Split(string(stdout), "\n") {
			if line == "" {
				continue
			}
			out = append(out, line)
		}
	}
	return out, nil
}

// JSON runs command and decodes its stdout into v.
func JSON(r Runner, command []string, v any) error {
	stdout, _, _, err := r.Run(command[0], command[1:]...)
	if err != nil {
		return err
	}
	return json.Unmarshal(stdout, v)
}

// Quote single-quotes value for a POSIX shell.
func Quote(value string) string {
	if value == "" {
		return "''"
	}
	if !strings.ContainsAny(value, " \t\n'\"\\$&|;<>()*?[]#~%!{}`") {
		return value
	}
	return "'" + strings.ReplaceAll(value, "'", `'"'"'`) + "'"
}

// Join renders argv as a copy-pasteable shell line.
func Join(argv []string) string {
	var b strings.Builder
	for i, arg := range argv {
		if i > 0 {
			b.WriteByte(' ')
		}
		b.WriteString(Quote(arg))
	}
	return b.String()
}
