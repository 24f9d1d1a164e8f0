package main

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/urfave/cli/v2"

	"tripbook/internal/client"
	"tripbook/internal/utils"
)

func defaultSessionPath() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ".tourctl-session.json"
	}
	return filepath.Join(home, ".tourctl", "session.json")
}

func main() {
	utils.InitLogger("warn", false)
	utils.Log.SetOutput(os.Stderr)

	idArg := "<booking_id>"
	app := &cli.App{
		Name:  "tourctl",
		Usage: "Book trips and manage payments on tripbook",
		Flags: []cli.Flag{
			&cli.StringFlag{Name: "api", Value: "http://localhost:8080", EnvVars: []string{"TOURCTL_API"}, Usage: "API base URL"},
			&cli.StringFlag{Name: "session", Value: defaultSessionPath(), EnvVars: []string{"TOURCTL_SESSION"}, Usage: "session file"},
			&cli.StringFlag{Name: "log-level", Value: "warn", Usage: "logrus level"},
		},
		Before: func(c *cli.Context) error {
			utils.InitLogger(c.String("log-level"), false)
			utils.Log.SetOutput(os.Stderr)
			return nil
		},
		Commands: []*cli.Command{
			{
				Name:  "login",
				Usage: "log in and save the session",
				Flags: []cli.Flag{
					&cli.StringFlag{Name: "email", Required: true},
					&cli.StringFlag{Name: "password", Required: true, EnvVars: []string{"TOURCTL_PASSWORD"}},
				},
				Action: run((*Handler).Login),
			},
			{
				Name:   "logout",
				Usage:  "forget the saved session",
				Action: run((*Handler).Logout),
			},
			{
				Name:  "register",
				Usage: "create an account",
				Flags: []cli.Flag{
					&cli.StringFlag{Name: "name", Required: true},
					&cli.StringFlag{Name: "email", Required: true},
					&cli.StringFlag{Name: "password", Required: true, EnvVars: []string{"TOURCTL_PASSWORD"}},
					&cli.StringFlag{Name: "role", Value: "tourist", Usage: "tourist or agent"},
				},
				Action: run((*Handler).Register),
			},
			{
				Name:  "packages",
				Usage: "list packages",
				Flags: []cli.Flag{
					&cli.Int64Flag{Name: "agent", Usage: "only this agent's packages"},
				},
				Action: run((*Handler).Packages),
			},
			{
				Name:  "book",
				Usage: "book a package",
				Flags: []cli.Flag{
					&cli.Int64Flag{Name: "package", Required: true},
					&cli.StringFlag{Name: "date", Required: true, Usage: "travel date YYYY-MM-DD"},
					&cli.IntFlag{Name: "travelers", Value: 1},
				},
				Action: run((*Handler).Book),
			},
			{
				Name:   "bookings",
				Usage:  "list the bookings you can act on",
				Action: run((*Handler).Bookings),
			},
			{
				Name:   "agent-bookings",
				Usage:  "list bookings across your packages",
				Action: run((*Handler).AgentBookings),
			},
			{
				Name:      "cancel",
				ArgsUsage: idArg,
				Usage:     "cancel a pending booking",
				Action:    run((*Handler).Cancel),
			},
			{
				Name:      "confirm",
				ArgsUsage: idArg,
				Usage:     "confirm a booking",
				Action:    run((*Handler).Confirm),
			},
			{
				Name:      "upload-proof",
				ArgsUsage: idArg + " <image>",
				Usage:     "upload a payment proof",
				Action:    run((*Handler).UploadProof),
			},
			{
				Name:      "qr",
				ArgsUsage: idArg,
				Usage:     "show the QRIS payment code of a booking",
				Action:    run((*Handler).QR),
			},
			{
				Name:   "pending",
				Usage:  "list payments waiting for verification",
				Action: run((*Handler).Pending),
			},
			{
				Name:      "verify",
				ArgsUsage: idArg,
				Usage:     "accept a payment proof",
				Action:    run((*Handler).Verify),
			},
			{
				Name:      "reject",
				ArgsUsage: idArg,
				Usage:     "reject a payment proof",
				Flags: []cli.Flag{
					&cli.StringFlag{Name: "reason", Required: true},
				},
				Action: run((*Handler).Reject),
			},
			{
				Name:      "invoice",
				ArgsUsage: idArg,
				Usage:     "download the invoice PDF of a verified booking",
				Flags: []cli.Flag{
					&cli.StringFlag{Name: "out", Usage: "output file"},
				},
				Action: run((*Handler).Invoice),
			},
		},
	}

	if err := app.Run(os.Args); err != nil {
		fmt.Fprintln(os.Stderr, client.UserMessage(err))
		os.Exit(1)
	}
}

// run builds a Handler for the command and calls fn with it.
func run(fn func(*Handler, *cli.Context) error) cli.ActionFunc {
	return func(c *cli.Context) error {
		h, err := NewHandler(c.String("api"), c.String("session"))
		if err != nil {
			return err
		}
		return fn(h, c)
	}
}
