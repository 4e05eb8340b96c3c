// Package shelltest provides a scripted shell.Executor for tests.
package shelltest

import (
	"context"
	"errors"
	"sync"

	"xtra-telemetry/internal/shell"
)

var ErrNotScripted = errors.New("shelltest: command not scripted")

// Executor answers commands from a fixed table and counts every call.
// Unscripted commands fail like a missing file would.
type Executor struct {
	mu      sync.Mutex
	outputs map[string]string
	errs    map[string]error
	calls   map[string]int
	total   int
}

func New() *Executor {
	return &Executor{
		outputs: make(map[string]string),
		errs:    make(map[string]error),
		calls:   make(map[string]int),
	}
}

func (e *Executor) Execute(_ context.Context, command string) (string, error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	e.calls[command]++
	e.total++

	if err, ok := e.errs[command]; ok {
		return "", err
	}
	if out, ok := e.outputs[command]; ok {
		return out, nil
	}
	return "", ErrNotScripted
}

func (e *Executor) SetOutput(command, out string) *Executor {
	e.mu.Lock()
	defer e.mu.Unlock()

	delete(e.errs, command)
	e.outputs[command] = out
	return e
}

func (e *Executor) SetError(command string, err error) *Executor {
	e.mu.Lock()
	defer e.mu.Unlock()

	delete(e.outputs, command)
	e.errs[command] = err
	return e
}

// SetFile scripts both the read and the existence probe for path.
func (e *Executor) SetFile(path, content string) *Executor {
	e.SetOutput(shell.CatCommand(path), content+"\n")
	e.SetOutput(shell.ExistsCommand(path), "1\n")
	return e
}

func (e *Executor) RemoveFile(path string) *Executor {
	e.mu.Lock()
	defer e.mu.Unlock()

	delete(e.outputs, shell.CatCommand(path))
	delete(e.outputs, shell.ExistsCommand(path))
	return e
}

// SetDir scripts only the existence probe.
func (e *Executor) SetDir(path string) *Executor {
	return e.SetOutput(shell.ExistsCommand(path), "1\n")
}

func (e *Executor) Calls(command string) int {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.calls[command]
}

func (e *Executor) FileReads(path string) int {
	return e.Calls(shell.CatCommand(path))
}

func (e *Executor) Total() int {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.total
}

func (e *Executor) ResetCalls() {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.calls = make(map[string]int)
	e.total = 0
}
