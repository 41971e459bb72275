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
	List(ctx context.Context) error
	Search(ctx context.Context, keyword string) error
	FilterType(ctx context.Context, fileType string) error
	Sort(ctx context.Context, field, order string) error
	Reload(ctx context.Context) error
	Upload(ctx context.Context, path string) error
	Download(ctx context.Context, name string) error
	Remove(ctx context.Context, name string) error
	Share(ctx context.Context, name string) error
	Shares(ctx context.Context) error
	Revoke(ctx context.Context, shareID string) error
	Fetch(ctx context.Context, name string) error
	Chat(ctx context.Context) error
	Say(ctx context.Context, text string) error
	Voice(ctx context.Context, path string) error
	ClearChat(ctx context.Context) error
	Nick(ctx context.Context, name string) error
}

// runREPL starts a simple read–eval–print loop for the HomeCloud CLI.
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
//	  - help           — show available commands
//	  - register       — create an account
//	  - login          — authenticate
//	  - fetch <file>   — download a shared file by token (no login needed)
//	  - exit | quit    — leave the program
//
//	Logged in:
//	  - help                 — show available commands
//	  - list | l             — show the current file view
//	  - search <keyword>     — filter by name ("search" alone clears it)
//	  - type <category>      — filter by category (all, image, document, video, archive, other)
//	  - sort <field> <ord>   — order by name|size|date|type, asc|desc
//	  - reload               — refetch the file list from the server
//	  - upload <path>        — send a local file to the drive
//	  - download <file>      — save a file into the download directory
//	  - rm <file>            — delete a file (asks for confirmation)
//	  - share <file>         — create a share link
//	  - shares               — list active share links
//	  - revoke <id>          — deactivate a share link
//	  - fetch <file>         — download a shared file by token
//	  - chat                 — show the chat history
//	  - say [text]           — send a chat message
//	  - voice <audio file>   — send a voice message
//	  - clearchat            — wipe the chat history (asks for confirmation)
//	  - nick <name>          — change the chat display name
//	  - logout               — log out
//	  - exit | quit          — leave the program
//
// Any errors returned by command handlers are ignored here; handlers should
// log their own errors. This keeps the REPL loop resilient and focused on I/O.
func runREPL(ctx context.Context, a execIface, statusFn func() string, scanner *bufio.Scanner) {
	for {
		printlnFn(fmt.Sprintf("hc> %s > ", statusFn()))
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

		switch cmd {
		case "help":
			if a.isLoggedIn() {
				printlnFn("Files: (l)ist, search, type, sort, reload, upload, download, rm, share, shares, revoke, fetch")
				printlnFn("Chat:  chat, say, voice, clearchat, nick")
				printlnFn("Other: logout, exit")
			} else {
				printlnFn("Available commands: register, login, fetch, exit")
			}

		case "register":
			_ = a.Register(ctx)

		case "login":
			_ = a.Login(ctx)

		case "logout":
			_ = a.Logout(ctx)

		case "l", "list":
			_ = a.List(ctx)

		case "search":
			_ = a.Search(ctx, strings.Join(args, " "))

		case "type":
			if len(args) == 0 {
				printlnFn("Usage: type <all|image|document|video|archive|other>")
				continue
			}
			_ = a.FilterType(ctx, args[0])

		case "sort":
			if len(args) == 0 {
				printlnFn("Usage: sort <name|size|date|type> [asc|desc]")
				continue
			}
			order := ""
			if len(args) > 1 {
				order = args[1]
			}
			_ = a.Sort(ctx, args[0], order)

		case "reload":
			_ = a.Reload(ctx)

		case "upload":
			if len(args) == 0 {
				printlnFn("Usage: upload <path>")
				continue
			}
			_ = a.Upload(ctx, strings.Join(args, " "))

		case "download":
			if len(args) == 0 {
				printlnFn("Usage: download <file>")
				continue
			}
			_ = a.Download(ctx, strings.Join(args, " "))

		case "rm":
			if len(args) == 0 {
				printlnFn("Usage: rm <file>")
				continue
			}
			_ = a.Remove(ctx, strings.Join(args, " "))

		case "share":
			if len(args) == 0 {
				printlnFn("Usage: share <file>")
				continue
			}
			_ = a.Share(ctx, strings.Join(args, " "))

		case "shares":
			_ = a.Shares(ctx)

		case "revoke":
			if len(args) == 0 {
				printlnFn("Usage: revoke <id>")
				continue
			}
			_ = a.Revoke(ctx, args[0])

		case "fetch":
			if len(args) == 0 {
				printlnFn("Usage: fetch <file>")
				continue
			}
			_ = a.Fetch(ctx, strings.Join(args, " "))

		case "chat":
			_ = a.Chat(ctx)

		case "say":
			_ = a.Say(ctx, strings.Join(args, " "))

		case "voice":
			if len(args) == 0 {
				printlnFn("Usage: voice <audio file>")
				continue
			}
			_ = a.Voice(ctx, strings.Join(args, " "))

		case "clearchat":
			_ = a.ClearChat(ctx)

		case "nick":
			if len(args) == 0 {
				printlnFn("Usage: nick <name>")
				continue
			}
			_ = a.Nick(ctx, strings.Join(args, " "))

		case "exit", "quit":
			printlnFn("Bye!")
			return

		default:
			printlnFn("Unknown command:", cmd)
		}
	}
}
