package cli

import (
	"context"
	"fmt"
	"os"

	"github.com/dmitrijs2005/kaizenlib/internal/shared"
)

// getSimpleText and getPassword are indirections used to facilitate testing.
// They point to interactive input helpers and can be swapped in tests.
var getSimpleText = GetSimpleText
var getPassword = GetPassword

// Login prompts for a username and password and authenticates against the
// library database. On success it stores the user on the App; the session
// is persisted by the auth service so the next start skips this prompt.
//
// The password byte slice is wiped before returning.
func (a *App) Login(ctx context.Context) error {
	username, err := getSimpleText(a.reader, "Enter username", os.Stdout)
	if err != nil {
		return err
	}

	password, err := getPassword(os.Stdout)
	if err != nil {
		return err
	}
	defer shared.WipeByteArray(password)

	u, err := a.auth.Login(ctx, username, password)
	if err != nil {
		return err
	}

	a.user = &u
	printlnFn(fmt.Sprintf("Welcome, %s!", u.FullName))
	return nil
}

// Logout clears the persisted session and forgets the current user.
func (a *App) Logout(ctx context.Context) error {
	if err := a.auth.Logout(ctx); err != nil {
		return err
	}
	a.user = nil
	printlnFn("Logged out")
	return nil
}
