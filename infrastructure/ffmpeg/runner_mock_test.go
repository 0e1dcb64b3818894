package ffmpeg

import (
	"context"
)

// mockRunner implements CommandRunner for testing
type mockRunner struct {
	calls []mockCall

	output      []byte
	streamLines []string
	err         error
}

type mockCall struct {
	name string
	args []string
}

func (m *mockRunner) record(name string, args []string) {
	m.calls = append(m.calls, mockCall{name: name, args: append([]string(nil), args...)})
}

func (m *mockRunner) Run(ctx context.Context, name string, args ...string) error {
	m.record(name, args)
	return m.err
}

func (m *mockRunner) Output(ctx context.Context, name string, args ...string) ([]byte, error) {
	m.record(name, args)
	return m.output, m.err
}

func (m *mockRunner) CombinedOutput(ctx context.Context, name string, args ...string) ([]byte, error) {
	m.record(name, args)
	return m.output, m.err
}

func (m *mockRunner) Stream(ctx context.Context, onLine func(string), name string, args ...string) error {
	m.record(name, args)
	for _, line := range m.streamLines {
		onLine(line)
	}
	return m.err
}

func (m *mockRunner) lastArgs() []string {
	if len(m.calls) == 0 {
		return nil
	}
	return m.calls[len(m.calls)-1].args
}

func indexOf(args []string, value string) int {
	for i, a := range args {
		if a == value {
			return i
		}
	}
	return -1
}

// argAfter returns the argument following flag, or "" when absent
func argAfter(args []string, flag string) string {
	i := indexOf(args, flag)
	if i < 0 || i+1 >= len(args) {
		return ""
	}
	return args[i+1]
}
