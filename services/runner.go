package services

import (
	"bytes"
	"context"
	"errors"
	"os/exec"

	"github.com/vicradon/ytdl-web/utils"
)

// MaxOutputBytes bounds each captured stream of a subprocess.
const MaxOutputBytes = 10 * 1024 * 1024

// Runner runs an external command and returns what it wrote.
type Runner interface {
	Run(ctx context.Context, name string, args ...string) (stdout, stderr []byte, err error)
}

// ExecRunner runs commands with os/exec, without a shell.
type ExecRunner struct {
	MaxOutput int
}

func NewExecRunner() *ExecRunner {
	return &ExecRunner{MaxOutput: MaxOutputBytes}
}

func (r *ExecRunner) Run(ctx context.Context, name string, args ...string) ([]byte, []byte, error) {
	stdout := &limitedBuffer{limit: r.MaxOutput}
	stderr := &limitedBuffer{limit: r.MaxOutput}

	cmd := exec.CommandContext(ctx, name, args...)
	cmd.Stdout = stdout
	cmd.Stderr = stderr

	err := cmd.Run()
	if stdout.overflow || stderr.overflow {
		return stdout.Bytes(), stderr.Bytes(), &ProcessError{
			Command: utils.QuoteCommand(name, args),
			Stderr:  stderr.String(),
			Err:     ErrOutputTooLarge,
		}
	}
	if err != nil {
		procErr := &ProcessError{
			Command: utils.QuoteCommand(name, args),
			Stderr:  stderr.String(),
			Err:     err,
		}
		var exitErr *exec.ExitError
		if errors.As(err, &exitErr) {
			procErr.ExitCode = exitErr.ExitCode()
		}
		if ctxErr := ctx.Err(); ctxErr != nil {
			procErr.Err = ctxErr
		}
		return stdout.Bytes(), stderr.Bytes(), procErr
	}
	return stdout.Bytes(), stderr.Bytes(), nil
}

// limitedBuffer keeps at most limit bytes and then reports an error, which
// makes os/exec stop copying from the pipe. The buffer is a named field so
// io.Copy cannot bypass Write through bytes.Buffer.ReadFrom.
type limitedBuffer struct {
	buf      bytes.Buffer
	limit    int
	overflow bool
}

func (b *limitedBuffer) Write(p []byte) (int, error) {
	if b.limit > 0 && b.buf.Len()+len(p) > b.limit {
		b.overflow = true
		b.buf.Write(p[:b.limit-b.buf.Len()])
		return 0, ErrOutputTooLarge
	}
	return b.buf.Write(p)
}

func (b *limitedBuffer) Bytes() []byte {
	return b.buf.Bytes()
}

func (b *limitedBuffer) String() string {
	return b.buf.String()
}
