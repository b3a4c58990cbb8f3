package cli

import (
	"bufio"
	"context"
	"fmt"
	"strings"
)

// printlnFn is a test seam for user-facing output. In tests, replace it with a stub.
var printlnFn = fmt.Println

// execIface defines the minimal command surface the REPL needs to operate.
// The real App type satisfies this interface; tests can provide a lightweight stub.
type execIface interface {
	isLoggedIn() bool
	Register(ctx context.Context) error
	Login(ctx context.Context) error
	Logout(ctx context.Context) error
	Validate(ctx context.Context) error
	Whoami(ctx context.Context) error
	Status(ctx context.Context) error
	Profile(ctx context.Context) error
	Edit(ctx context.Context) error
	Clear(ctx context.Context) error
	Dismiss(ctx context.Context) error
}

// runREPL starts a simple read–eval–print loop for the sessionkeeper CLI.
//
// It reads a line from reader, parses the first token as the command, and
// dispatches to methods on 'a'. Unknown commands are reported back to the
// user. The loop exits on EOF, when ctx is done, or when the user types
// "exit" or "quit".
//
// Prompt & Commands
//
// The prompt shows the current status (from statusFn) and accepts commands:
//
//	Not logged in:
//	  - help           show available commands
//	  - register       create an account and sign in
//	  - login          authenticate
//	  - status         show session flags
//	  - dismiss        clear the last error
//	  - exit | quit    leave the program
//
//	Logged in, additionally:
//	  - whoami         show the current user
//	  - validate       re-check the token with the backend
//	  - profile        edit display fields on the backend
//	  - edit           edit display fields locally
//	  - logout         log out
//	  - clear          drop the local session without calling the backend
//
// Command outcomes are printed by the session observer; only input errors
// surface here.
func runREPL(ctx context.Context, a execIface, statusFn func() string, reader *bufio.Reader) {
	for {
		if ctx.Err() != nil {
			return
		}
		printlnFn(fmt.Sprintf("sk %s> ", statusFn()))
		line, err := readLine(reader)
		if err != nil {
			return
		}
		parts := strings.Fields(line)
		if len(parts) == 0 {
			continue
		}
		cmd := parts[0]

		var cmdErr error
		switch cmd {
		case "help":
			if a.isLoggedIn() {
				printlnFn("Available commands: whoami, validate, profile, edit, status, logout, clear, dismiss, exit")
			} else {
				printlnFn("Available commands: register, login, status, dismiss, exit")
			}

		case "register":
			cmdErr = a.Register(ctx)

		case "login":
			cmdErr = a.Login(ctx)

		case "logout":
			cmdErr = a.Logout(ctx)

		case "validate":
			cmdErr = a.Validate(ctx)

		case "whoami":
			cmdErr = a.Whoami(ctx)

		case "status":
			cmdErr = a.Status(ctx)

		case "profile":
			cmdErr = a.Profile(ctx)

		case "edit":
			cmdErr = a.Edit(ctx)

		case "clear":
			cmdErr = a.Clear(ctx)

		case "dismiss":
			cmdErr = a.Dismiss(ctx)

		case "exit", "quit":
			printlnFn("Bye!")
			return

		default:
			printlnFn("Unknown command:", cmd)
		}

		if cmdErr != nil {
			printlnFn("error:", cmdErr)
		}
	}
}
