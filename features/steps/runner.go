//go:build integration

package steps

import (
	"context"
	"strings"
)

// fakeRunner implements ffmpeg.CommandRunner without starting processes
type fakeRunner struct {
	calls       [][]string
	output      []byte
	streamLines []string
	err         error
}

func (r *fakeRunner) record(name string, args []string) {
	r.calls = append(r.calls, append([]string{name}, args...))
}

func (r *fakeRunner) Run(ctx context.Context, name string, args ...string) error {
	r.record(name, args)
	return r.err
}

func (r *fakeRunner) Output(ctx context.Context, name string, args ...string) ([]byte, error) {
	r.record(name, args)
	return r.output, r.err
}

func (r *fakeRunner) CombinedOutput(ctx context.Context, name string, args ...string) ([]byte, error) {
	r.record(name, args)
	return r.output, r.err
}

func (r *fakeRunner) Stream(ctx context.Context, onLine func(string), name string, args ...string) error {
	r.record(name, args)
	for _, line := range r.streamLines {
		onLine(line)
	}
	return r.err
}

func (r *fakeRunner) lastArgs() []string {
	if len(r.calls) == 0 {
		return nil
	}
	return r.calls[len(r.calls)-1][1:]
}

func argAfter(args []string, flag string) (string, bool) {
	for i := 0; i < len(args)-1; i++ {
		if args[i] == flag {
			return args[i+1], true
		}
	}
	return "", false
}

func containsArg(args []string, want string) bool {
	for _, a := range args {
		if a == want {
			return true
		}
	}
	return false
}

func joinArgs(args []string) string {
	return strings.Join(args, " ")
}
