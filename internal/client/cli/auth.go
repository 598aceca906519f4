package cli

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/akarpovs/bannerdesk/internal/client/models"
	"github.com/akarpovs/bannerdesk/internal/client/services"
	"github.com/akarpovs/bannerdesk/internal/client/session"
	"github.com/akarpovs/bannerdesk/internal/common"
)

// getSimpleText and getPassword are indirections used to facilitate testing.
// They point to interactive input helpers and can be swapped in tests.
var getSimpleText = GetSimpleText
var getPassword = GetPassword

// Login prompts the user for an email and password and attempts to
// authenticate. The outcome message always comes from the auth service; the
// CLI never interprets failures itself. The password byte slice is securely
// wiped before returning.
func (a *App) Login(ctx context.Context) error {
	email, err := getSimpleText(a.reader, "Enter email", os.Stdout)
	if err != nil {
		return err
	}

	password, err := getPassword(os.Stdout)
	if err != nil {
		return err
	}
	defer common.WipeByteArray(password)

	res := a.auth.Login(ctx, services.Credentials{Email: email, Password: string(password)})
	if res.Success {
		printlnFn("Logged in.")
	} else {
		printlnFn(res.Message)
	}
	return nil
}

// Logout ends the session. It never fails from the user's point of view: the
// local session is gone when it returns, whatever the server said.
func (a *App) Logout(ctx context.Context) error {
	a.auth.Logout(ctx)
	printlnFn("Logged out.")
	return nil
}

// Whoami prints the current identity. An anonymous session and a session
// whose profile was never fetched both render as fallback values, not errors.
func (a *App) Whoami(ctx context.Context) error {
	if !a.isLoggedIn() {
		printlnFn("Not logged in.")
		return nil
	}

	if session.TokenExpired(a.auth.AccessToken(ctx), time.Now()) {
		printlnFn("Session expired; please log in again.")
	}

	p := a.auth.CurrentUser(ctx)
	if p == nil {
		printlnFn("Logged in (profile not available).")
		return nil
	}

	printlnFn(fmt.Sprintf("Name:    %s", p.DisplayName()))
	if p.Email != "" {
		printlnFn(fmt.Sprintf("Email:   %s", p.Email))
	}
	if p.Phone != "" {
		printlnFn(fmt.Sprintf("Phone:   %s %s", p.CountryCode, p.Phone))
	}
	return nil
}

// Update prompts for new profile values, one field per line. An empty answer
// keeps the current value; only the changed fields are sent to the server.
func (a *App) Update(ctx context.Context) error {
	if !a.isLoggedIn() {
		printlnFn("Not logged in.")
		return nil
	}

	printlnFn("Leave a field empty to keep its current value.")

	update := models.ProfileUpdate{}
	fields := []struct {
		prompt string
		dest   **string
	}{
		{"Display name", &update.Name},
		{"First name", &update.FirstName},
		{"Last name", &update.LastName},
		{"Phone", &update.Phone},
		{"Country code", &update.CountryCode},
	}
	for _, f := range fields {
		value, err := getSimpleText(a.reader, f.prompt, os.Stdout)
		if err != nil {
			return err
		}
		if value != "" {
			v := value
			*f.dest = &v
		}
	}

	res := a.auth.UpdateProfile(ctx, update)
	if res.Success {
		printlnFn("Profile updated.")
	} else {
		printlnFn(res.Message)
	}
	return nil
}
