package cli

import (
	"context"
	"io"
	"testing"

	"github.com/charmbracelet/log"
)

func newTestCLI() *CLI {
	return &CLI{Logger: newLogger(io.Discard, log.ErrorLevel)}
}

func TestRootCommand(t *testing.T) {
	c := newTestCLI()
	root := c.RootCommand()

	if root.Use != appName {
		t.Errorf("root.Use = %q, want %q", root.Use, appName)
	}

	want := []string{"build", "layout", "render", "view", "serve", "cache", "completion"}
	for _, name := range want {
		found := false
		for _, cmd := range root.Commands() {
			if cmd.Name() == name {
				found = true
				break
			}
		}
		if !found {
			t.Errorf("root command missing subcommand %q", name)
		}
	}
}

func TestNewRunnerNoCache(t *testing.T) {
	c := newTestCLI()

	runner, err := c.newRunner(true)
	if err != nil {
		t.Fatalf("newRunner(true) error: %v", err)
	}
	defer runner.Close()

	if runner.Cache == nil {
		t.Error("runner should have a cache (null cache when disabled)")
	}
}

func TestCheckFormats(t *testing.T) {
	if err := checkFormats([]string{"svg", "html"}); err != nil {
		t.Errorf("checkFormats(valid) error: %v", err)
	}
	if err := checkFormats([]string{"webm"}); err == nil {
		t.Error("checkFormats should reject unknown format")
	}
}

func TestCheckEngine(t *testing.T) {
	if err := checkEngine("hierarchical"); err != nil {
		t.Errorf("checkEngine(hierarchical) error: %v", err)
	}
	if err := checkEngine("force"); err != nil {
		t.Errorf("checkEngine(force) error: %v", err)
	}
	if err := checkEngine("circular"); err == nil {
		t.Error("checkEngine should reject unknown engine")
	}
}

func TestLoadInput(t *testing.T) {
	tests := []struct {
		name     string
		args     []string
		example  bool
		wantFile string
		wantDoc  bool
		wantErr  bool
	}{
		{"file argument", []string{"data.json"}, false, "data.json", false, false},
		{"example", nil, true, "", true, false},
		{"example wins over args", []string{"data.json"}, true, "", true, false},
		{"nothing", nil, false, "", false, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			file, doc, err := loadInput(tt.args, tt.example)
			if (err != nil) != tt.wantErr {
				t.Fatalf("loadInput() error = %v, wantErr %v", err, tt.wantErr)
			}
			if file != tt.wantFile {
				t.Errorf("file = %q, want %q", file, tt.wantFile)
			}
			if (doc != "") != tt.wantDoc {
				t.Errorf("document set = %v, want %v", doc != "", tt.wantDoc)
			}
		})
	}
}

func TestRootCommandAttachesLogger(t *testing.T) {
	c := newTestCLI()
	root := c.RootCommand()
	root.SetContext(context.Background())

	if err := root.PersistentPreRunE(root, nil); err != nil {
		t.Fatalf("PersistentPreRunE error: %v", err)
	}
	if got := loggerFromContext(root.Context()); got != c.Logger {
		t.Error("command context does not carry the CLI logger")
	}
}
