// pkg/execx/fake.go
package execx

import (
	"context"
	"strings"
)

// Call records a single command issued through a FakeRunner.
type Call struct {
	Name string
	Args []string
}

// Line returns the full command line of the call.
func (c Call) Line() string {
	return strings.Join(append([]string{c.Name}, c.Args...), " ")
}

// FakeRunner is a scripted Runner for tests. Responses and Errors are keyed
// by the full command line; unmatched commands return Default.
type FakeRunner struct {
	Calls     []Call
	Responses map[string]Result
	Errors    map[string]error
	Default   Result
}

// NewFakeRunner returns a fake whose unmatched commands succeed with exit 0.
func NewFakeRunner() *FakeRunner {
	return &FakeRunner{
		Responses: make(map[string]Result),
		Errors:    make(map[string]error),
	}
}

// Respond scripts a result for an exact command line.
func (f *FakeRunner) Respond(line string, res Result) {
	f.Responses[line] = res
}

// FailWith scripts a start-failure error for an exact command line.
func (f *FakeRunner) FailWith(line string, err error) {
	f.Errors[line] = err
}

// Run records the call and returns the scripted result.
func (f *FakeRunner) Run(_ context.Context, name string, args ...string) (Result, error) {
	call := Call{Name: name, Args: args}
	f.Calls = append(f.Calls, call)

	line := call.Line()
	if err, ok := f.Errors[line]; ok {
		return Result{ExitCode: -1}, err
	}
	if res, ok := f.Responses[line]; ok {
		return res, nil
	}
	return f.Default, nil
}

// Lines returns the full command lines issued so far, in order.
func (f *FakeRunner) Lines() []string {
	lines := make([]string, 0, len(f.Calls))
	for _, c := range f.Calls {
		lines = append(lines, c.Line())
	}
	return lines
}
