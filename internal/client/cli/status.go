package cli

import (
	"context"
	"fmt"
)

func (a *App) status(ctx context.Context) {

	session, entries, err := a.terminal.Status(ctx, a.config.DeviceID)
	if err != nil {
		fmt.Println(err.Error())
		return
	}

	if session == nil {
		fmt.Println("No open shift on this terminal")
	} else {
		state := "confirmed"
		if !session.Confirmed {
			state = "pending sync"
		}
		fmt.Printf("Open shift %s (opened %s, %s)\n", session.ID, session.OpenedAt.Format("15:04:05"), state)
	}

	if len(entries) == 0 {
		fmt.Println("Outbox is empty")
		return
	}
	for _, e := range entries {
		line := fmt.Sprintf("%s  %-16s %-7s retries=%d", e.CreatedAt.Format("15:04:05"), string(e.OpType), string(e.Status), e.RetryCount)
		if e.LastError != "" {
			line += "  " + e.LastError
		}
		fmt.Println(line)
	}
}

func (a *App) syncNow(ctx context.Context) {

	if err := a.backend.Ping(ctx); err != nil {
		fmt.Println("Backend unreachable")
		return
	}
	if err := a.sync.Drain(ctx); err != nil {
		fmt.Println(err.Error())
		return
	}
	fmt.Println("Sync complete")
}
