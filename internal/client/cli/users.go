package cli

import (
	"context"
	"fmt"
	"os"

	"github.com/dmitrijs2005/kaizenlib/internal/client/models"
	"github.com/dmitrijs2005/kaizenlib/internal/client/services"
	"github.com/dmitrijs2005/kaizenlib/internal/shared"
)

// Users lists every account in the library.
func (a *App) Users(ctx context.Context) error {
	if a.user == nil {
		return errNotLoggedIn
	}

	snap := a.sync.Current()
	if len(snap.Users) == 0 {
		printlnFn("No users loaded")
		return nil
	}
	for _, u := range snap.Users {
		printlnFn(fmt.Sprintf("%-12s %-12s %-8s %s", u.Username, u.Role, u.Unit, u.FullName))
		printlnFn("    id: " + u.ID)
	}
	return nil
}

// AddUser walks an admin through creating an account.
func (a *App) AddUser(ctx context.Context) error {
	if a.user == nil {
		return errNotLoggedIn
	}

	username, err := getSimpleText(a.reader, "Username", os.Stdout)
	if err != nil {
		return err
	}

	password, err := getPassword(os.Stdout)
	if err != nil {
		return err
	}
	defer shared.WipeByteArray(password)

	fullName, err := getSimpleText(a.reader, "Full name", os.Stdout)
	if err != nil {
		return err
	}

	roles := []string{string(models.RoleViewer), string(models.RoleContributor), string(models.RoleAdmin)}
	idx, err := GetChoice(a.reader, "Role", roles, 0, os.Stdout)
	if err != nil {
		return err
	}

	units := make([]string, len(models.Units))
	copy(units, models.Units)
	uidx, err := GetChoice(a.reader, "Unit", units, 0, os.Stdout)
	if err != nil {
		return err
	}

	err = a.users.Add(ctx, *a.user, services.NewUserInput{
		Username: username,
		Password: string(password),
		FullName: fullName,
		Role:     models.Role(roles[idx]),
		Unit:     units[uidx],
	})
	if err != nil {
		return err
	}

	printlnFn("User added")
	return nil
}

// DelUser removes an account after confirmation.
func (a *App) DelUser(ctx context.Context, id string) error {
	if a.user == nil {
		return errNotLoggedIn
	}

	answer, err := getSimpleText(a.reader, "Type 'yes' to delete this user", os.Stdout)
	if err != nil {
		return err
	}
	if answer != "yes" {
		printlnFn("Cancelled")
		return nil
	}

	if err := a.users.Delete(ctx, *a.user, id); err != nil {
		return err
	}
	printlnFn("User deleted")
	return nil
}
