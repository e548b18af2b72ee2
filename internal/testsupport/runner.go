package testsupport

import (
	"context"
	"fmt"
	"os"
	"sync"

	"peaksite/internal/services"
)

// FakeRunner records commands and, unless told to fail, writes a small file
// at the output path each command names. It stands in for ffmpeg,
// audiowaveform and the bundler.
type FakeRunner struct {
	mu       sync.Mutex
	commands []services.Command
	// Fail makes every command whose Name matches return an error.
	Fail map[string]error
	// Content is written to outputs; defaults to the command line.
	Content func(cmd services.Command) []byte
}

// Run implements services.Runner.
func (f *FakeRunner) Run(ctx context.Context, cmd services.Command) ([]byte, error) {
	f.mu.Lock()
	f.commands = append(f.commands, cmd)
	failure := f.Fail[cmd.Name]
	f.mu.Unlock()

	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if failure != nil {
		return []byte("boom"), failure
	}
	out := OutputArg(cmd.Args)
	if out == "" {
		return nil, nil
	}
	data := []byte(cmd.String())
	if f.Content != nil {
		data = f.Content(cmd)
	}
	if err := os.WriteFile(out, data, 0o644); err != nil {
		return nil, fmt.Errorf("fake runner: %w", err)
	}
	return nil, nil
}

// Commands returns a copy of every command run so far.
func (f *FakeRunner) Commands() []services.Command {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]services.Command(nil), f.commands...)
}

// CountByName returns how many commands invoked name.
func (f *FakeRunner) CountByName(name string) int {
	f.mu.Lock()
	defer f.mu.Unlock()
	n := 0
	for _, cmd := range f.commands {
		if cmd.Name == name {
			n++
		}
	}
	return n
}

// OutputArg finds the output path in an ffmpeg or audiowaveform argument
// list: the value after -o or --output-filename, else the final -y target.
func OutputArg(args []string) string {
	for i := 0; i < len(args)-1; i++ {
		switch args[i] {
		case "-o", "--output-filename", "-y":
			return args[i+1]
		}
	}
	return ""
}
