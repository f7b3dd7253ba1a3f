// Package accounts is the account directory: registration, credential checks,
// password changes and the admin-only ban and listing operations.
package accounts

import (
	"context"
	"fmt"
	"sort"
	"strings"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"golang.org/x/crypto/bcrypt"

	"github.com/R4Lcoding/RaduBrowserServer/internal/db"
	"github.com/R4Lcoding/RaduBrowserServer/internal/logging"
	"github.com/R4Lcoding/RaduBrowserServer/internal/models"
)

var tracer = otel.Tracer("accounts")

type Directory struct {
	users    *db.Collection[models.Account]
	log      logging.Logger
	hashCost int
}

type Option func(*Directory)

// WithHashCost sets the bcrypt cost used for new passwords.
func WithHashCost(cost int) Option {
	return func(d *Directory) { d.hashCost = cost }
}

func NewDirectory(store db.Store, log logging.Logger, opts ...Option) *Directory {
	d := &Directory{
		users: db.NewCollection(store, db.UsersCollection, func(key string, a *models.Account) {
			a.Username = key
		}),
		log:      log.With("component", "accounts"),
		hashCost: bcrypt.DefaultCost,
	}
	for _, opt := range opts {
		opt(d)
	}
	return d
}

func (d *Directory) Register(ctx context.Context, username, password string) error {
	ctx, span := tracer.Start(ctx, "Accounts.Directory.Register")
	defer span.End()

	account, err := models.NewAccount(username, password)
	if err != nil {
		return err
	}
	hash, err := d.hashPassword(password)
	if err != nil {
		return err
	}
	account.Password = hash

	err = d.users.Update(ctx, func(users map[string]models.Account) error {
		if _, ok := users[username]; ok {
			return models.ErrAlreadyExists
		}
		users[username] = account
		return nil
	})
	if err != nil {
		span.RecordError(err)
		return err
	}

	d.log.Info(ctx, "account registered", "username", username)
	return nil
}

// Login checks existence first, then the ban flag, then the password, so a
// banned account is refused whatever password is given.
func (d *Directory) Login(ctx context.Context, username, password string) (models.AccountView, error) {
	ctx, span := tracer.Start(ctx, "Accounts.Directory.Login")
	defer span.End()

	users, err := d.users.Load(ctx)
	if err != nil {
		return models.AccountView{}, fmt.Errorf("load accounts: %w", err)
	}

	account, ok := users[username]
	if !ok {
		return models.AccountView{}, models.ErrNotFound
	}
	if account.IsBanned {
		return models.AccountView{}, models.ErrBanned
	}
	if !checkPassword(account.Password, password) {
		return models.AccountView{}, models.ErrWrongPassword
	}

	span.SetAttributes(attribute.Bool("admin", account.IsAdmin))
	return models.AccountView{Username: account.Username, IsAdmin: account.IsAdmin}, nil
}

func (d *Directory) ChangePassword(ctx context.Context, username, oldPassword, newPassword, confirm string) error {
	ctx, span := tracer.Start(ctx, "Accounts.Directory.ChangePassword")
	defer span.End()

	err := d.users.Update(ctx, func(users map[string]models.Account) error {
		account, ok := users[username]
		if !ok {
			return models.ErrNotFound
		}
		if !checkPassword(account.Password, oldPassword) {
			return models.ErrWrongPassword
		}
		if newPassword == "" || newPassword != confirm {
			return models.ErrMismatch
		}

		hash, err := d.hashPassword(newPassword)
		if err != nil {
			return err
		}
		account.Password = hash
		users[username] = account
		return nil
	})
	if err != nil {
		return err
	}

	d.log.Info(ctx, "password changed", "username", username)
	return nil
}

// ToggleBan flips the target's banned flag and returns the new value.
func (d *Directory) ToggleBan(ctx context.Context, actingAdmin, target string) (bool, error) {
	ctx, span := tracer.Start(ctx, "Accounts.Directory.ToggleBan")
	defer span.End()

	var banned bool
	err := d.users.Update(ctx, func(users map[string]models.Account) error {
		if acting, ok := users[actingAdmin]; !ok || !acting.IsAdmin {
			return models.ErrNotAuthorized
		}
		if target == actingAdmin {
			return models.ErrSelfBan
		}
		account, ok := users[target]
		if !ok {
			return models.ErrNotFound
		}
		account.IsBanned = !account.IsBanned
		users[target] = account
		banned = account.IsBanned
		return nil
	})
	if err != nil {
		return false, err
	}

	d.log.Info(ctx, "ban toggled", "admin", actingAdmin, "username", target, "banned", banned)
	return banned, nil
}

// ListAccounts returns every account whose username contains filter
// (case-insensitive), sorted by username. Only admins may list.
func (d *Directory) ListAccounts(ctx context.Context, actingAdmin, filter string) ([]models.AccountSummary, error) {
	ctx, span := tracer.Start(ctx, "Accounts.Directory.ListAccounts")
	defer span.End()

	users, err := d.users.Load(ctx)
	if err != nil {
		return nil, fmt.Errorf("load accounts: %w", err)
	}
	if acting, ok := users[actingAdmin]; !ok || !acting.IsAdmin {
		return nil, models.ErrNotAuthorized
	}

	filter = strings.ToLower(filter)
	out := make([]models.AccountSummary, 0, len(users))
	for _, account := range users {
		if strings.Contains(strings.ToLower(account.Username), filter) {
			out = append(out, account.Summary())
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Username < out[j].Username })
	return out, nil
}

// Authenticate reports whether username is an identity allowed to act:
// registered and not banned.
func (d *Directory) Authenticate(ctx context.Context, username string) error {
	users, err := d.users.Load(ctx)
	if err != nil {
		return fmt.Errorf("load accounts: %w", err)
	}
	account, ok := users[username]
	if !ok {
		return models.ErrNotFound
	}
	if account.IsBanned {
		return models.ErrBanned
	}
	return nil
}

// EnsureAdmin creates username as an admin, or promotes it if it already
// exists. An existing password is left alone.
func (d *Directory) EnsureAdmin(ctx context.Context, username, password string) error {
	return d.users.Update(ctx, func(users map[string]models.Account) error {
		if account, ok := users[username]; ok {
			account.IsAdmin = true
			users[username] = account
			return nil
		}

		account, err := models.NewAccount(username, password)
		if err != nil {
			return err
		}
		if account.Password, err = d.hashPassword(password); err != nil {
			return err
		}
		account.IsAdmin = true
		users[username] = account
		return nil
	})
}
