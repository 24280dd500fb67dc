package cli

import (
	"context"
	"fmt"
	"os"

	"github.com/dmitrijs2005/tillpoint/internal/common"
)

// Login authenticates the cashier and attaches the access token to all
// subsequent backend calls.
func (a *App) Login(ctx context.Context) {

	userName, err := GetSimpleText(a.reader, "Enter user name", os.Stdout)
	if err != nil {
		fmt.Println(err.Error())
		return
	}

	pin, err := GetPIN(os.Stdout)
	if err != nil {
		fmt.Println(err.Error())
		return
	}
	defer common.WipeByteArray(pin)

	resp, err := a.backend.Login(ctx, userName, string(pin))
	if err != nil {
		fmt.Println(err.Error())
		return
	}

	a.backend.SetAccessToken(resp.AccessToken)
	a.terminal.SetUser(resp.UserID)
	a.userName = userName

	fmt.Println("Success!")
}

// promptAuthorization asks a supervisor for credentials and exchanges them
// for a single-use token scoped to the given operation. The backend must be
// reachable; tokens cannot be obtained offline.
func (a *App) promptAuthorization(ctx context.Context, operation string) (string, error) {

	fmt.Printf("Supervisor authorization required for %s\n", operation)

	userName, err := GetSimpleText(a.reader, "Supervisor user name", os.Stdout)
	if err != nil {
		return "", err
	}

	pin, err := GetPIN(os.Stdout)
	if err != nil {
		return "", err
	}
	defer common.WipeByteArray(pin)

	resp, err := a.backend.Authorize(ctx, userName, string(pin), operation)
	if err != nil {
		return "", err
	}
	return resp.TokenID, nil
}
