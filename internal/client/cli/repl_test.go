package cli

import (
	"bufio"
	"context"
	"strings"
	"testing"
)

type fakeExec struct {
	loggedIn bool

	calls []string
	arg   string
}

func (f *fakeExec) isLoggedIn() bool { return f.loggedIn }
func (f *fakeExec) Register(ctx context.Context) error {
	f.calls = append(f.calls, "register")
	return nil
}
func (f *fakeExec) Login(ctx context.Context) error {
	f.calls = append(f.calls, "login")
	f.loggedIn = true
	return nil
}
func (f *fakeExec) Logout(ctx context.Context) error {
	f.calls = append(f.calls, "logout")
	f.loggedIn = false
	return nil
}
func (f *fakeExec) List(ctx context.Context) error { f.calls = append(f.calls, "list"); return nil }
func (f *fakeExec) Search(ctx context.Context, keyword string) error {
	f.calls = append(f.calls, "search")
	f.arg = keyword
	return nil
}
func (f *fakeExec) FilterType(ctx context.Context, fileType string) error {
	f.calls = append(f.calls, "type")
	f.arg = fileType
	return nil
}
func (f *fakeExec) Sort(ctx context.Context, field, order string) error {
	f.calls = append(f.calls, "sort")
	f.arg = field + "/" + order
	return nil
}
func (f *fakeExec) Reload(ctx context.Context) error { f.calls = append(f.calls, "reload"); return nil }
func (f *fakeExec) Upload(ctx context.Context, path string) error {
	f.calls = append(f.calls, "upload")
	f.arg = path
	return nil
}
func (f *fakeExec) Download(ctx context.Context, name string) error {
	f.calls = append(f.calls, "download")
	f.arg = name
	return nil
}
func (f *fakeExec) Remove(ctx context.Context, name string) error {
	f.calls = append(f.calls, "rm")
	f.arg = name
	return nil
}
func (f *fakeExec) Share(ctx context.Context, name string) error {
	f.calls = append(f.calls, "share")
	f.arg = name
	return nil
}
func (f *fakeExec) Shares(ctx context.Context) error { f.calls = append(f.calls, "shares"); return nil }
func (f *fakeExec) Revoke(ctx context.Context, shareID string) error {
	f.calls = append(f.calls, "revoke")
	f.arg = shareID
	return nil
}
func (f *fakeExec) Fetch(ctx context.Context, name string) error {
	f.calls = append(f.calls, "fetch")
	f.arg = name
	return nil
}
func (f *fakeExec) Chat(ctx context.Context) error { f.calls = append(f.calls, "chat"); return nil }
func (f *fakeExec) Say(ctx context.Context, text string) error {
	f.calls = append(f.calls, "say")
	f.arg = text
	return nil
}
func (f *fakeExec) Voice(ctx context.Context, path string) error {
	f.calls = append(f.calls, "voice")
	f.arg = path
	return nil
}
func (f *fakeExec) ClearChat(ctx context.Context) error {
	f.calls = append(f.calls, "clearchat")
	return nil
}
func (f *fakeExec) Nick(ctx context.Context, name string) error {
	f.calls = append(f.calls, "nick")
	f.arg = name
	return nil
}

func silencePrintln(t *testing.T) {
	t.Helper()
	orig := printlnFn
	printlnFn = func(...any) (int, error) { return 0, nil }
	t.Cleanup(func() { printlnFn = orig })
}

func TestRunREPL_LoginFlowAndCommands(t *testing.T) {
	silencePrintln(t)

	input := strings.NewReader(strings.Join([]string{
		"help",
		"login",
		"help",
		"list",
		"search holiday photos",
		"type image",
		"sort size desc",
		"download cat.jpg",
		"say hello there",
		"foobar",
		"exit",
	}, "\n"))

	exec := &fakeExec{loggedIn: false}
	sc := bufio.NewScanner(input)

	runREPL(context.Background(), exec, func() string { return "status" }, sc)

	wantOrder := []string{"login", "list", "search", "type", "sort", "download", "say"}
	idx := 0
	for _, c := range exec.calls {
		if idx < len(wantOrder) && c == wantOrder[idx] {
			idx++
		}
	}
	if idx != len(wantOrder) {
		t.Fatalf("commands order mismatch: got %v, want subseq %v", exec.calls, wantOrder)
	}
}

func TestRunREPL_MultiWordArgsJoined(t *testing.T) {
	silencePrintln(t)

	input := strings.NewReader("download my holiday photo.jpg\nquit\n")
	exec := &fakeExec{loggedIn: true}
	runREPL(context.Background(), exec, func() string { return "" }, bufio.NewScanner(input))

	if exec.arg != "my holiday photo.jpg" {
		t.Fatalf("got arg %q", exec.arg)
	}
}

func TestRunREPL_UsageAndQuit(t *testing.T) {
	silencePrintln(t)

	input := strings.NewReader("download\nrm\ntype\nrevoke\nquit\n")
	exec := &fakeExec{loggedIn: true}
	sc := bufio.NewScanner(input)

	runREPL(context.Background(), exec, func() string { return "s" }, sc)

	if len(exec.calls) != 0 {
		t.Fatalf("unexpected calls: %v", exec.calls)
	}
}

func TestRunREPL_SearchWithoutArgsClearsKeyword(t *testing.T) {
	silencePrintln(t)

	input := strings.NewReader("search\nquit\n")
	exec := &fakeExec{loggedIn: true, arg: "stale"}
	runREPL(context.Background(), exec, func() string { return "" }, bufio.NewScanner(input))

	if len(exec.calls) != 1 || exec.calls[0] != "search" || exec.arg != "" {
		t.Fatalf("calls=%v arg=%q", exec.calls, exec.arg)
	}
}
