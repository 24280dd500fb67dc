package cli

import (
	"context"
	"fmt"
	"os"
	"strings"
)

func (a *App) recordSale(ctx context.Context) {

	shiftID, err := a.currentShiftID(ctx)
	if err != nil {
		fmt.Println(err.Error())
		return
	}

	method, err := GetSimpleText(a.reader, "Enter payment method (CASH, CARD, TRANSFER, OTHER)", os.Stdout)
	if err != nil {
		fmt.Println(err.Error())
		return
	}
	method = strings.ToUpper(method)

	amount, err := GetAmount(a.reader, "Enter amount", os.Stdout)
	if err != nil {
		fmt.Println(err.Error())
		return
	}

	queued, err := a.terminal.RecordSale(ctx, shiftID, method, amount)
	if err != nil {
		fmt.Println(err.Error())
		return
	}

	if queued {
		fmt.Println("Backend unreachable; sale queued for sync")
		return
	}
	fmt.Println("Sale recorded")
}
