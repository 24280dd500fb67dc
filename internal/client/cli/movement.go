package cli

import (
	"context"
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/dmitrijs2005/tillpoint/internal/common"
)

func (a *App) recordMovement(ctx context.Context) {

	shiftID, err := a.currentShiftID(ctx)
	if err != nil {
		fmt.Println(err.Error())
		return
	}

	movType, err := GetSimpleText(a.reader, "Enter direction (IN/OUT)", os.Stdout)
	if err != nil {
		fmt.Println(err.Error())
		return
	}
	movType = strings.ToUpper(movType)

	reason, err := GetSimpleText(a.reader, "Enter reason (CASH_DEPOSIT, CASH_WITHDRAWAL, CASH_TRANSFER, BANK_DEPOSIT, EXPENSE, CORRECTION)", os.Stdout)
	if err != nil {
		fmt.Println(err.Error())
		return
	}
	reason = strings.ToUpper(reason)

	amount, err := GetAmount(a.reader, "Enter amount", os.Stdout)
	if err != nil {
		fmt.Println(err.Error())
		return
	}

	cash, err := GetSimpleText(a.reader, "Physical cash in/out of the drawer? (y/n)", os.Stdout)
	if err != nil {
		fmt.Println(err.Error())
		return
	}
	isCash := strings.EqualFold(cash, "y")

	result, err := a.terminal.RecordMovement(ctx, shiftID, movType, reason, amount, isCash, "")
	if err != nil && errors.Is(err, common.ErrAuthorization) {
		// Above-threshold movements need a supervisor; fetch a token and retry.
		tokenID, aerr := a.promptAuthorization(ctx, "RECORD_MOVEMENT")
		if aerr != nil {
			fmt.Println(aerr.Error())
			return
		}
		result, err = a.terminal.RecordMovement(ctx, shiftID, movType, reason, amount, isCash, tokenID)
	}
	if err != nil {
		fmt.Println(err.Error())
		return
	}

	if result.Queued {
		fmt.Printf("Backend unreachable; movement %s queued for sync\n", result.Movement.ID)
		return
	}
	fmt.Printf("Movement %s recorded\n", result.Movement.ID)
}

func (a *App) listMovements(ctx context.Context) {

	shiftID, err := a.currentShiftID(ctx)
	if err != nil {
		fmt.Println(err.Error())
		return
	}

	movements, err := a.backend.ListMovements(ctx, shiftID)
	if err != nil {
		fmt.Println(err.Error())
		return
	}

	if len(movements) == 0 {
		fmt.Println("No movements recorded for this shift")
		return
	}
	for _, m := range movements {
		cash := ""
		if m.IsCash {
			cash = " cash"
		}
		fmt.Printf("%s  %-3s %10d  %-16s%s\n", m.Timestamp.Format("15:04:05"), m.Type, m.Amount, m.Reason, cash)
	}
}
