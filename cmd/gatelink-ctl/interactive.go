package main

import (
	"context"
	"fmt"
	"strings"

	"github.com/chzyer/readline"
)

// RunInteractive starts the interactive command loop.
func (a *app) RunInteractive(ctx context.Context) error {
	rl, err := readline.NewEx(&readline.Config{
		Prompt:          "gatelink> ",
		InterruptPrompt: "^C",
		EOFPrompt:       "exit",
	})
	if err != nil {
		return fmt.Errorf("failed to create readline: %w", err)
	}
	defer rl.Close()

	a.printHelp()

	for {
		select {
		case <-ctx.Done():
			return nil
		default:
		}

		line, err := rl.Readline()
		if err != nil {
			// EOF or interrupt
			if err == readline.ErrInterrupt {
				continue
			}
			fmt.Fprintln(rl.Stdout(), "Exiting...")
			return nil
		}

		input := strings.TrimSpace(line)
		if input == "" {
			continue
		}

		parts := strings.Fields(input)
		cmd := strings.ToLower(parts[0])

		switch cmd {
		case "help", "?":
			a.printHelp()

		case "login":
			if a.config.Password == "" {
				pw, err := rl.ReadPassword("Password: ")
				if err != nil {
					fmt.Printf("Error: %v\n", err)
					continue
				}
				a.config.Password = string(pw)
			}
			if err := a.cmdLogin(ctx); err != nil {
				fmt.Printf("Error: %v\n", err)
				// A wrong password must be re-entered, not retried.
				a.config.Password = ""
			}

		case "info":
			a.runVerified(ctx, a.cmdInfo)

		case "reboot":
			a.runVerified(ctx, a.cmdReboot)

		case "discover":
			if err := a.cmdDiscover(ctx); err != nil {
				fmt.Printf("Error: %v\n", err)
			}

		case "status":
			a.cmdStatus()

		case "quit", "exit", "q":
			fmt.Println("Exiting...")
			return nil

		default:
			fmt.Printf("Unknown command: %s (type 'help' for commands)\n", cmd)
		}
	}
}

// runVerified runs a command that needs a verified session.
func (a *app) runVerified(ctx context.Context, fn func(context.Context) error) {
	if a.session == nil {
		fmt.Println("Not logged in (run 'login' first)")
		return
	}
	if err := fn(ctx); err != nil {
		fmt.Printf("Error: %v\n", err)
	}
}

func (a *app) cmdStatus() {
	fmt.Printf("Gateway:  %s\n", a.config.Gateway)
	fmt.Printf("Username: %s\n", a.config.Username)
	if a.session != nil {
		fmt.Printf("Session:  verified at %s (attempt %s)\n",
			a.session.VerifiedAt.Format("15:04:05"), a.session.AttemptID)
	} else {
		fmt.Println("Session:  not logged in")
	}
}

func (a *app) printHelp() {
	fmt.Println(`
GateLink Commands:
  login     - Log in to the gateway
  info      - Show device information (logs in first)
  reboot    - Reboot the gateway (logs in first)
  discover  - Browse for gateways via mDNS
  status    - Show connection status
  help      - Show this help
  quit      - Exit`)
}
