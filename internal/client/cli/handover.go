package cli

import (
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/dmitrijs2005/tillpoint/internal/api"
)

func (a *App) calculateHandover(ctx context.Context) {

	declared, err := GetAmount(a.reader, "Enter declared cash (counted drawer cash)", os.Stdout)
	if err != nil {
		fmt.Println(err.Error())
		return
	}

	summary, err := a.terminal.CalculateHandover(ctx, a.config.DeviceID, declared)
	if err != nil {
		fmt.Println(err.Error())
		return
	}

	printSummary(summary)
}

// executeHandover runs the full close-of-shift flow: calculate, review,
// authorize, commit. Supervisor authorization is required even when the
// drawer reconciles exactly.
func (a *App) executeHandover(ctx context.Context) {

	declared, err := GetAmount(a.reader, "Enter declared cash (counted drawer cash)", os.Stdout)
	if err != nil {
		fmt.Println(err.Error())
		return
	}

	summary, err := a.terminal.CalculateHandover(ctx, a.config.DeviceID, declared)
	if err != nil {
		fmt.Println(err.Error())
		return
	}

	printSummary(summary)

	confirm, err := GetSimpleText(a.reader, "Execute handover? (y/n)", os.Stdout)
	if err != nil {
		fmt.Println(err.Error())
		return
	}
	if !strings.EqualFold(confirm, "y") {
		fmt.Println("Cancelled")
		return
	}

	tokenID, err := a.promptAuthorization(ctx, "EXECUTE_HANDOVER")
	if err != nil {
		fmt.Println(err.Error())
		return
	}

	result, err := a.terminal.ExecuteHandover(ctx, a.config.DeviceID, summary, tokenID)
	if err != nil {
		fmt.Println(err.Error())
		return
	}

	fmt.Printf("Shift %s handed over: keep %d, withdraw %d\n", result.ShiftID, result.AmountToKeep, result.AmountToWithdraw)
}

func printSummary(s *api.HandoverSummary) {
	fmt.Printf("Shift:            %s\n", s.ShiftID)
	fmt.Printf("Opening amount:   %10d\n", s.OpeningAmount)
	fmt.Printf("Cash sales:       %10d\n", s.CashSales)
	fmt.Printf("Card sales:       %10d\n", s.CardSales)
	fmt.Printf("Transfer sales:   %10d\n", s.TransferSales)
	fmt.Printf("Other sales:      %10d\n", s.OtherSales)
	fmt.Printf("Total sales:      %10d\n", s.TotalSales)
	fmt.Printf("Cash in:          %10d\n", s.CashIn)
	fmt.Printf("Cash out:         %10d\n", s.CashOut)
	fmt.Printf("Expected cash:    %10d\n", s.ExpectedCash)
	fmt.Printf("Declared cash:    %10d\n", s.DeclaredCash)
	fmt.Printf("Difference:       %10d\n", s.Diff)
	fmt.Printf("Amount to keep:   %10d\n", s.AmountToKeep)
	fmt.Printf("Amount withdrawn: %10d\n", s.AmountToWithdraw)
}
