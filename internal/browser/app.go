package browser

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/R4Lcoding/RaduBrowserServer/internal/logging"
	"github.com/R4Lcoding/RaduBrowserServer/internal/models"
)

type AccountService interface {
	Register(ctx context.Context, username, password string) error
	Login(ctx context.Context, username, password string) (models.AccountView, error)
	ChangePassword(ctx context.Context, username, oldPassword, newPassword, confirm string) error
	ToggleBan(ctx context.Context, actingAdmin, target string) (bool, error)
	ListAccounts(ctx context.Context, actingAdmin, filter string) ([]models.AccountSummary, error)
}

type SiteService interface {
	Publish(ctx context.Context, owner, title, content string) (string, error)
	Fetch(ctx context.Context, id string) (models.Site, error)
}

type Searcher interface {
	Results(ctx context.Context, query string) ([]models.SearchResult, error)
}

type App struct {
	accounts AccountService
	sites    SiteService
	search   Searcher
	log      logging.Logger

	session Session
	reader  *bufio.Reader
	out     io.Writer
	// passwordFd is the terminal to read passwords from without echo, or
	// -1 when input is not a terminal.
	passwordFd int
}

func NewApp(accounts AccountService, sites SiteService, search Searcher, log logging.Logger, in io.Reader, out io.Writer) *App {
	a := &App{
		accounts:   accounts,
		sites:      sites,
		search:     search,
		log:        log.With("component", "browser"),
		reader:     bufio.NewReader(in),
		out:        out,
		passwordFd: -1,
	}
	if f, ok := in.(*os.File); ok && isTerminal(int(f.Fd())) {
		a.passwordFd = int(f.Fd())
	}
	return a
}

func (a *App) Session() Session {
	return a.session
}

// Run reads commands until EOF, "exit" or ctx is done. Command failures are
// reported to the user and never end the loop.
func (a *App) Run(ctx context.Context) error {
	a.println("Welcome to Radu Browser. Type \"help\" for commands.")
	for {
		if ctx.Err() != nil {
			return ctx.Err()
		}
		fmt.Fprintf(a.out, "browser (%s)> ", a.session)
		line, err := a.reader.ReadString('\n')
		if err != nil && !errors.Is(err, io.EOF) {
			return err
		}
		if line == "" && err != nil {
			a.println()
			return nil
		}

		cmd, arg, _ := strings.Cut(strings.TrimSpace(line), " ")
		arg = strings.TrimSpace(arg)
		if cmd == "" {
			continue
		}
		if cmd == "exit" || cmd == "quit" {
			a.println("Bye!")
			return nil
		}
		a.report(a.dispatch(ctx, cmd, arg))
	}
}

func (a *App) dispatch(ctx context.Context, cmd, arg string) error {
	switch cmd {
	case "help":
		a.help()
		return nil
	case "register":
		return a.Register(ctx)
	case "login":
		return a.Login(ctx)
	case "logout":
		return a.Logout()
	case "whoami":
		a.println(a.session)
		return nil
	case "passwd":
		return a.ChangePassword(ctx)
	case "publish":
		return a.Publish(ctx)
	case "open":
		return a.Open(ctx, arg)
	case "search":
		return a.Search(ctx, arg)
	case "accounts":
		return a.Accounts(ctx, arg)
	case "ban":
		return a.Ban(ctx, arg)
	default:
		a.println("Unknown command:", cmd)
		return nil
	}
}

func (a *App) help() {
	cmds := []string{"help", "register", "login", "open <id>", "search [query]", "exit"}
	if a.session.LoggedIn() {
		cmds = []string{"help", "whoami", "passwd", "publish", "open <id>", "search [query]", "logout", "exit"}
	}
	if a.session.IsAdmin {
		cmds = append(cmds[:len(cmds)-1], "accounts [filter]", "ban <username>", "exit")
	}
	a.println("Available commands:", strings.Join(cmds, ", "))
}

// report prints refusals as-is and logs anything unexpected.
func (a *App) report(err error) {
	if err == nil {
		return
	}
	if errors.Is(err, errLoginRequired) {
		a.println("You must be logged in.")
		return
	}
	if errors.Is(err, errUsage) {
		a.println(err.Error())
		return
	}
	a.log.Error(context.Background(), "command failed", "err", err)
	a.println("Error:", err)
}

func (a *App) println(args ...any) {
	fmt.Fprintln(a.out, args...)
}
