package cli

import (
	"context"
	"fmt"
	"os"
)

func (a *App) openShift(ctx context.Context) {

	locationID, err := GetSimpleText(a.reader, "Enter location id", os.Stdout)
	if err != nil {
		fmt.Println(err.Error())
		return
	}

	openingAmount, err := GetAmount(a.reader, "Enter opening amount (counted drawer cash)", os.Stdout)
	if err != nil {
		fmt.Println(err.Error())
		return
	}

	result, err := a.terminal.Open(ctx, a.config.DeviceID, locationID, openingAmount)
	if err != nil {
		fmt.Println(err.Error())
		return
	}

	if result.Queued {
		fmt.Printf("Backend unreachable; shift %s opened locally and queued for sync\n", result.Session.ID)
		return
	}
	fmt.Printf("Shift %s opened\n", result.Session.ID)
}

func (a *App) closeShift(ctx context.Context) {

	closingAmount, err := GetAmount(a.reader, "Enter closing amount (counted drawer cash)", os.Stdout)
	if err != nil {
		fmt.Println(err.Error())
		return
	}

	result, err := a.terminal.Close(ctx, a.config.DeviceID, closingAmount, false, "")
	if err != nil {
		fmt.Println(err.Error())
		return
	}

	if result.Queued {
		fmt.Printf("Backend unreachable; shift %s closed locally and queued for sync\n", result.Session.ID)
		return
	}
	fmt.Printf("Shift %s closed\n", result.Session.ID)
}

// forceCloseShift closes a shift on behalf of a supervisor, e.g. when the
// opening cashier is gone. Online only.
func (a *App) forceCloseShift(ctx context.Context) {

	closingAmount, err := GetAmount(a.reader, "Enter closing amount (counted drawer cash)", os.Stdout)
	if err != nil {
		fmt.Println(err.Error())
		return
	}

	tokenID, err := a.promptAuthorization(ctx, "FORCE_CLOSE_TERMINAL")
	if err != nil {
		fmt.Println(err.Error())
		return
	}

	result, err := a.terminal.Close(ctx, a.config.DeviceID, closingAmount, true, tokenID)
	if err != nil {
		fmt.Println(err.Error())
		return
	}
	fmt.Printf("Shift %s force-closed\n", result.Session.ID)
}

// currentShiftID resolves the open shift on this terminal from the local
// mirror, which tracks both confirmed and tentative sessions.
func (a *App) currentShiftID(ctx context.Context) (string, error) {
	session, _, err := a.terminal.Status(ctx, a.config.DeviceID)
	if err != nil {
		return "", err
	}
	if session == nil {
		return "", fmt.Errorf("no open shift on this terminal")
	}
	return session.ID, nil
}
