package cli

import (
	"bufio"
	"context"
	"fmt"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// stubExec records which commands the REPL dispatched.
type stubExec struct {
	loggedIn bool
	admin    bool
	calls    []string
}

func (s *stubExec) record(name string, args ...string) error {
	call := name
	if len(args) > 0 {
		call = name + " " + strings.Join(args, " ")
	}
	s.calls = append(s.calls, call)
	return nil
}

func (s *stubExec) isLoggedIn() bool { return s.loggedIn }
func (s *stubExec) isAdmin() bool    { return s.admin }

func (s *stubExec) Login(ctx context.Context) error  { return s.record("login") }
func (s *stubExec) Logout(ctx context.Context) error { return s.record("logout") }
func (s *stubExec) List(ctx context.Context) error   { return s.record("list") }
func (s *stubExec) Mine(ctx context.Context) error   { return s.record("mine") }
func (s *stubExec) Search(ctx context.Context, term string) error {
	return s.record("search", term)
}
func (s *stubExec) Dates(ctx context.Context, from, to string) error {
	return s.record("dates", from, to)
}
func (s *stubExec) Sort(ctx context.Context, key string) error  { return s.record("sort", key) }
func (s *stubExec) Page(ctx context.Context, page string) error { return s.record("page", page) }
func (s *stubExec) Show(ctx context.Context, id string) error   { return s.record("show", id) }
func (s *stubExec) New(ctx context.Context) error               { return s.record("new") }
func (s *stubExec) Edit(ctx context.Context, id string) error   { return s.record("edit", id) }
func (s *stubExec) Hide(ctx context.Context, id string) error   { return s.record("hide", id) }
func (s *stubExec) Restore(ctx context.Context, id string) error {
	return s.record("restore", id)
}
func (s *stubExec) Delete(ctx context.Context, id string) error { return s.record("delete", id) }
func (s *stubExec) Export(ctx context.Context, id string) error { return s.record("export", id) }
func (s *stubExec) Stats(ctx context.Context) error             { return s.record("stats") }
func (s *stubExec) Users(ctx context.Context) error             { return s.record("users") }
func (s *stubExec) AddUser(ctx context.Context) error           { return s.record("adduser") }
func (s *stubExec) DelUser(ctx context.Context, id string) error {
	return s.record("deluser", id)
}
func (s *stubExec) Suggest(ctx context.Context) error { return s.record("suggest") }

// captureOutput redirects printlnFn for the duration of the test.
func captureOutput(t *testing.T) *[]string {
	t.Helper()
	var out []string
	orig := printlnFn
	printlnFn = func(a ...any) {
		out = append(out, strings.TrimRight(fmt.Sprintln(a...), "\n"))
	}
	t.Cleanup(func() { printlnFn = orig })
	return &out
}

func runScript(t *testing.T, a execIface, script string) {
	t.Helper()
	runREPL(context.Background(), a, func() string { return "" }, bufio.NewScanner(strings.NewReader(script)))
}

func TestREPL_DispatchesCommands(t *testing.T) {
	captureOutput(t)
	stub := &stubExec{loggedIn: true}

	runScript(t, stub, strings.Join([]string{
		"login",
		"list",
		"l",
		"mine",
		"search 5s corner",
		"dates 2025-01-01 2025-12-31",
		"sort views",
		"page 2",
		"show r1",
		"new",
		"edit r1",
		"hide r1",
		"restore r1",
		"delete r1",
		"export r1",
		"stats",
		"users",
		"adduser",
		"deluser u1",
		"suggest",
		"logout",
		"exit",
	}, "\n"))

	assert.Equal(t, []string{
		"login", "list", "list", "mine",
		"search 5s corner",
		"dates 2025-01-01 2025-12-31",
		"sort views", "page 2", "show r1",
		"new", "edit r1",
		"hide r1", "restore r1", "delete r1",
		"export r1", "stats",
		"users", "adduser", "deluser u1",
		"suggest", "logout",
	}, stub.calls)
}

func TestREPL_UsageForMissingArgs(t *testing.T) {
	out := captureOutput(t)
	stub := &stubExec{loggedIn: true}

	runScript(t, stub, "show\ndates 2025-01-01\npage\nexit\n")

	assert.Empty(t, stub.calls, "commands with missing args must not dispatch")
	joined := strings.Join(*out, "\n")
	assert.Contains(t, joined, "Usage: show <id>")
	assert.Contains(t, joined, "Usage: dates <from> <to>")
	assert.Contains(t, joined, "Usage: page <n>")
}

func TestREPL_UnknownCommand(t *testing.T) {
	out := captureOutput(t)
	stub := &stubExec{}

	runScript(t, stub, "frobnicate\nquit\n")

	joined := strings.Join(*out, "\n")
	assert.Contains(t, joined, "Unknown command: frobnicate")
	assert.Contains(t, joined, "Bye!")
}

func TestREPL_HelpPerRole(t *testing.T) {
	tests := []struct {
		name     string
		stub     *stubExec
		want     string
		dontWant string
	}{
		{"logged out", &stubExec{}, "login, exit", "Admin:"},
		{"contributor", &stubExec{loggedIn: true}, "Browse:", "Admin:"},
		{"admin", &stubExec{loggedIn: true, admin: true}, "Admin:", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			out := captureOutput(t)
			runScript(t, tt.stub, "help\nexit\n")

			joined := strings.Join(*out, "\n")
			require.Contains(t, joined, tt.want)
			if tt.dontWant != "" {
				assert.NotContains(t, joined, tt.dontWant)
			}
		})
	}
}

func TestREPL_EmptyLinesAndEOF(t *testing.T) {
	captureOutput(t)
	stub := &stubExec{loggedIn: true}

	// No trailing exit; the loop must end on EOF.
	runScript(t, stub, "\n\nlist\n")

	assert.Equal(t, []string{"list"}, stub.calls)
}

func TestREPL_PrintsHandlerErrors(t *testing.T) {
	out := captureOutput(t)

	stub := &failingExec{stubExec{loggedIn: true}}
	runScript(t, stub, "list\nexit\n")

	assert.Contains(t, strings.Join(*out, "\n"), "Error: boom")
}

type failingExec struct{ stubExec }

func (f *failingExec) List(ctx context.Context) error { return fmt.Errorf("boom") }
