package cli

import (
	"bufio"
	"context"
	"fmt"
	"log"
	"os"
	"strings"
)

func (a *App) getStatus() string {
	s := ""
	if a.userName != "" {
		s = a.userName + " "
	}
	if a.Mode != "" {
		s = s + string(a.Mode)
	}
	if s != "" {
		s = fmt.Sprintf("(%s)", s)
	}
	return s
}

func (a *App) Root(ctx context.Context) {

	log.Println("Welcome to Tillpoint terminal (type 'help' for commands)")
	scanner := bufio.NewScanner(os.Stdin)

	a.Login(ctx)

	for {
		fmt.Printf("till %s> ", a.getStatus())
		if !scanner.Scan() {
			break
		}
		line := scanner.Text()
		parts := strings.Fields(line)
		if len(parts) == 0 {
			continue
		}

		cmd := parts[0]

		switch cmd {
		case "help":
			if a.isLoggedIn() {
				fmt.Println("Available commands: open, close, forceclose, movement, movements, sale, calc, handover, status, sync, exit")
			} else {
				fmt.Println("Available commands: login, exit")
			}

		case "login":
			a.Login(ctx)
		case "open":
			a.openShift(ctx)
		case "close":
			a.closeShift(ctx)
		case "forceclose":
			a.forceCloseShift(ctx)
		case "movement":
			a.recordMovement(ctx)
		case "movements":
			a.listMovements(ctx)
		case "sale":
			a.recordSale(ctx)
		case "calc":
			a.calculateHandover(ctx)
		case "handover":
			a.executeHandover(ctx)
		case "status":
			a.status(ctx)
		case "sync":
			a.syncNow(ctx)
		case "exit", "quit":
			fmt.Println("Bye!")
			return
		default:
			fmt.Println("Unknown command:", cmd)
		}
	}

}
