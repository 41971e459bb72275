package cli

import (
	"context"
	"errors"
	"fmt"
	"os"

	"github.com/homecloud-app/homecloud/internal/common"
)

// getSimpleText and getPassword are indirections used to facilitate testing.
// They point to interactive input helpers and can be swapped in tests.
var getSimpleText = GetSimpleText
var getPassword = GetPassword

// Register prompts for a username, email and password (entered twice) and
// attempts to create an account. A password mismatch is rejected locally,
// before any request leaves the machine. Success does not log the user
// in; they are sent back to the login prompt, as the backend issues no
// token on registration.
func (a *App) Register(ctx context.Context) error {
	username, err := getSimpleText(a.reader, "Enter username", os.Stdout)
	if err != nil {
		return err
	}
	email, err := getSimpleText(a.reader, "Enter email", os.Stdout)
	if err != nil {
		return err
	}

	password, err := getPassword("Enter password", os.Stdout)
	if err != nil {
		return err
	}
	defer common.WipeByteArray(password)

	confirm, err := getPassword("Confirm password", os.Stdout)
	if err != nil {
		return err
	}
	defer common.WipeByteArray(confirm)

	if err := a.guard.Register(ctx, username, email, string(password), string(confirm)); err != nil {
		if errors.Is(err, common.ErrPasswordMismatch) {
			fmt.Println("Passwords do not match.")
			return err
		}
		a.log.Error(ctx, "registration failed", "error", err)
		return err
	}

	fmt.Println("Account created, you can log in now.")
	return nil
}

// Login prompts for credentials and authenticates. A successful login
// persists the credential, so the next start of the program skips the
// prompt.
func (a *App) Login(ctx context.Context) error {
	email, err := getSimpleText(a.reader, "Enter email", os.Stdout)
	if err != nil {
		return err
	}

	password, err := getPassword("Enter password", os.Stdout)
	if err != nil {
		return err
	}
	defer common.WipeByteArray(password)

	if err := a.guard.Login(ctx, email, string(password)); err != nil {
		a.log.Error(ctx, "login failed", "error", err)
		fmt.Println("Login failed.")
		return err
	}

	fmt.Println("Logged in.")
	return nil
}

// Logout drops the persisted credential and stops the chat loop.
func (a *App) Logout(ctx context.Context) error {
	if err := a.guard.Logout(ctx); err != nil {
		a.log.Error(ctx, "logout failed", "error", err)
		return err
	}
	fmt.Println("Logged out.")
	return nil
}
