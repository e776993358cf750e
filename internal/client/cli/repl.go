package cli

import (
	"bufio"
	"context"
	"fmt"
	"strings"
)

// printlnFn is a test seam for user-facing output. In tests, replace it with a stub.
var printlnFn = func(a ...any) { fmt.Println(a...) }

// execIface defines the minimal command surface the REPL needs to operate.
// The real App type satisfies this interface; tests can provide a lightweight stub.
type execIface interface {
	isLoggedIn() bool
	isAdmin() bool
	Login(ctx context.Context) error
	Logout(ctx context.Context) error
	List(ctx context.Context) error
	Mine(ctx context.Context) error
	Search(ctx context.Context, term string) error
	Dates(ctx context.Context, from, to string) error
	Sort(ctx context.Context, key string) error
	Page(ctx context.Context, page string) error
	Show(ctx context.Context, id string) error
	New(ctx context.Context) error
	Edit(ctx context.Context, id string) error
	Hide(ctx context.Context, id string) error
	Restore(ctx context.Context, id string) error
	Delete(ctx context.Context, id string) error
	Export(ctx context.Context, id string) error
	Stats(ctx context.Context) error
	Users(ctx context.Context) error
	AddUser(ctx context.Context) error
	DelUser(ctx context.Context, id string) error
	Suggest(ctx context.Context) error
}

// runREPL starts a simple read-eval-print loop for the kaizen library CLI.
//
// It reads a line from the provided scanner, parses the first token as the
// command, and dispatches to methods on 'a'. Unknown commands are reported
// back to the user. The loop exits on scanner EOF or when the user types
// "exit" or "quit".
//
// Prompt & Commands
//
// The prompt shows the current status (from statusFn) and accepts commands:
//
//	Not logged in:
//	  - help            — show available commands
//	  - login           — authenticate
//	  - exit | quit     — leave the program
//
//	Logged in:
//	  - (l)ist          — show the current page of records
//	  - mine            — toggle the "my records" view
//	  - search <term>   — filter by title substring
//	  - dates <from> <to> — filter by date range (YYYY-MM-DD, inclusive)
//	  - sort <key>      — sort by date/title/views/cost/unit; repeat to flip
//	  - page <n>        — go to page n
//	  - show <id>       — open a record (counts as a view)
//	  - new | edit <id> — create or edit a record
//	  - hide | restore | delete <id> — change record status (admin)
//	  - export <id>     — write a record to a CSV file
//	  - stats           — dashboard aggregates over the current view
//	  - users, adduser, deluser <id> — manage accounts (admin)
//	  - suggest         — draft an improvement narrative
//	  - logout, exit
//
// Errors returned by command handlers are printed and swallowed here to
// keep the REPL loop resilient and focused on I/O.
func runREPL(ctx context.Context, a execIface, statusFn func() string, scanner *bufio.Scanner) {
	for {
		printlnFn(fmt.Sprintf("kaizen %s> ", statusFn()))
		if !scanner.Scan() {
			return
		}
		line := scanner.Text()
		parts := strings.Fields(line)
		if len(parts) == 0 {
			continue
		}
		cmd := parts[0]
		args := parts[1:]

		var err error
		switch cmd {
		case "help":
			printHelp(a)

		case "login":
			err = a.Login(ctx)

		case "logout":
			err = a.Logout(ctx)

		case "l", "list":
			err = a.List(ctx)

		case "mine":
			err = a.Mine(ctx)

		case "search":
			err = a.Search(ctx, strings.Join(args, " "))

		case "dates":
			if len(args) != 2 {
				printlnFn("Usage: dates <from> <to>  (YYYY-MM-DD, '-' for open end)")
				continue
			}
			err = a.Dates(ctx, args[0], args[1])

		case "sort":
			if len(args) != 1 {
				printlnFn("Usage: sort <date|title|views|cost|unit>")
				continue
			}
			err = a.Sort(ctx, args[0])

		case "page":
			if len(args) != 1 {
				printlnFn("Usage: page <n>")
				continue
			}
			err = a.Page(ctx, args[0])

		case "show":
			if len(args) != 1 {
				printlnFn("Usage: show <id>")
				continue
			}
			err = a.Show(ctx, args[0])

		case "new":
			err = a.New(ctx)

		case "edit":
			if len(args) != 1 {
				printlnFn("Usage: edit <id>")
				continue
			}
			err = a.Edit(ctx, args[0])

		case "hide":
			if len(args) != 1 {
				printlnFn("Usage: hide <id>")
				continue
			}
			err = a.Hide(ctx, args[0])

		case "restore":
			if len(args) != 1 {
				printlnFn("Usage: restore <id>")
				continue
			}
			err = a.Restore(ctx, args[0])

		case "delete":
			if len(args) != 1 {
				printlnFn("Usage: delete <id>")
				continue
			}
			err = a.Delete(ctx, args[0])

		case "export":
			if len(args) != 1 {
				printlnFn("Usage: export <id>")
				continue
			}
			err = a.Export(ctx, args[0])

		case "stats":
			err = a.Stats(ctx)

		case "users":
			err = a.Users(ctx)

		case "adduser":
			err = a.AddUser(ctx)

		case "deluser":
			if len(args) != 1 {
				printlnFn("Usage: deluser <id>")
				continue
			}
			err = a.DelUser(ctx, args[0])

		case "suggest":
			err = a.Suggest(ctx)

		case "exit", "quit":
			printlnFn("Bye!")
			return

		default:
			printlnFn("Unknown command:", cmd)
		}

		if err != nil {
			printlnFn("Error:", err.Error())
		}
	}
}

func printHelp(a execIface) {
	if !a.isLoggedIn() {
		printlnFn("Available commands: login, exit")
		return
	}
	printlnFn("Browse:  (l)ist, mine, search <term>, dates <from> <to>, sort <key>, page <n>, show <id>")
	printlnFn("Write:   new, edit <id>, export <id>, stats, suggest")
	if a.isAdmin() {
		printlnFn("Admin:   hide <id>, restore <id>, delete <id>, users, adduser, deluser <id>")
	}
	printlnFn("Session: logout, exit")
}
