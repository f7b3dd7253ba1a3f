package browser

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/R4Lcoding/RaduBrowserServer/internal/models"
	"github.com/R4Lcoding/RaduBrowserServer/internal/search"
)

var (
	errLoginRequired = errors.New("login required")
	errUsage         = errors.New("usage")
)

func usage(text string) error {
	return fmt.Errorf("%w: %s", errUsage, text)
}

// refuse prints the user-facing form of a directory refusal. Any other
// error is handed back for report to log.
func (a *App) refuse(err error, wrongPassword string) error {
	if msg, ok := describe(err, wrongPassword); ok {
		a.println(msg)
		return nil
	}
	return err
}

func (a *App) Register(ctx context.Context) error {
	username, err := readLine(a.reader, a.out, "Username")
	if err != nil {
		return err
	}
	password, err := readSecret(a.reader, a.out, "Password", a.passwordFd)
	if err != nil {
		return err
	}
	if err := a.accounts.Register(ctx, username, password); err != nil {
		return a.refuse(err, "Wrong password")
	}
	a.println("Account created")
	return nil
}

func (a *App) Login(ctx context.Context) error {
	username, err := readLine(a.reader, a.out, "Username")
	if err != nil {
		return err
	}
	password, err := readSecret(a.reader, a.out, "Password", a.passwordFd)
	if err != nil {
		return err
	}
	view, err := a.accounts.Login(ctx, username, password)
	if err != nil {
		return a.refuse(err, "Wrong password")
	}
	a.session = Session{Username: view.Username, IsAdmin: view.IsAdmin}
	a.println("Logged in as", a.session)
	return nil
}

func (a *App) Logout() error {
	if !a.session.LoggedIn() {
		return errLoginRequired
	}
	a.session = Session{}
	a.println("Logged out")
	return nil
}

func (a *App) ChangePassword(ctx context.Context) error {
	if !a.session.LoggedIn() {
		return errLoginRequired
	}
	oldPassword, err := readSecret(a.reader, a.out, "Old password", a.passwordFd)
	if err != nil {
		return err
	}
	newPassword, err := readSecret(a.reader, a.out, "New password", a.passwordFd)
	if err != nil {
		return err
	}
	confirm, err := readSecret(a.reader, a.out, "Confirm password", a.passwordFd)
	if err != nil {
		return err
	}
	if err := a.accounts.ChangePassword(ctx, a.session.Username, oldPassword, newPassword, confirm); err != nil {
		return a.refuse(err, "Old password incorrect")
	}
	a.println("Password changed")
	return nil
}

func (a *App) Publish(ctx context.Context) error {
	if !a.session.LoggedIn() {
		return errLoginRequired
	}
	title, err := readLine(a.reader, a.out, "Title")
	if err != nil {
		return err
	}
	content, err := readMultiline(a.reader, a.out, "Content")
	if err != nil {
		return err
	}
	id, err := a.sites.Publish(ctx, a.session.Username, title, content)
	if err != nil {
		return a.refuse(err, "Wrong password")
	}
	a.println("Published", id)
	return nil
}

func (a *App) Open(ctx context.Context, id string) error {
	if id == "" {
		return usage("open <owner/title>")
	}
	site, err := a.sites.Fetch(ctx, id)
	if err != nil {
		if errors.Is(err, models.ErrNotFound) {
			a.println("Site not found:", id)
			return nil
		}
		return err
	}
	a.println(site.Title)
	a.println(search.DisplayURL(site))
	a.println(strings.Repeat("-", 40))
	a.println(site.Content)
	return nil
}

func (a *App) Search(ctx context.Context, query string) error {
	results, err := a.search.Results(ctx, query)
	if err != nil {
		return err
	}
	if len(results) == 0 {
		a.println("No results")
		return nil
	}
	for _, r := range results {
		a.println(r.Site.Title)
		a.println("  " + r.DisplayURL + "  (open " + r.Site.ID + ")")
		a.println("  " + r.Snippet)
		a.println()
	}
	return nil
}

func (a *App) Accounts(ctx context.Context, filter string) error {
	if !a.session.LoggedIn() {
		return errLoginRequired
	}
	list, err := a.accounts.ListAccounts(ctx, a.session.Username, filter)
	if err != nil {
		return a.refuse(err, "Wrong password")
	}
	for _, acc := range list {
		status := "active"
		if acc.IsBanned {
			status = "banned"
		}
		role := "user"
		if acc.IsAdmin {
			role = "admin"
		}
		a.println(fmt.Sprintf("%-20s %-6s %s", acc.Username, role, status))
	}
	return nil
}

func (a *App) Ban(ctx context.Context, target string) error {
	if !a.session.LoggedIn() {
		return errLoginRequired
	}
	if target == "" {
		return usage("ban <username>")
	}
	banned, err := a.accounts.ToggleBan(ctx, a.session.Username, target)
	if err != nil {
		return a.refuse(err, "Wrong password")
	}
	if banned {
		a.println(target, "is now banned")
	} else {
		a.println(target, "is no longer banned")
	}
	return nil
}
