package main

import (
	"bufio"
	"context"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/arya/nyaya/internal/client"
	"github.com/arya/nyaya/internal/config"
	"github.com/arya/nyaya/internal/render"
)

const cliTimeout = 2 * time.Minute

func api() *client.Client {
	return client.New(config.Env().ServerURL)
}

func cliContext() (context.Context, context.CancelFunc) {
	return context.WithTimeout(context.Background(), cliTimeout)
}

// promptCredentials reads a username and password from stdin. The
// password is read without echo when stdin is a terminal.
func promptCredentials(username string) (string, string, error) {
	reader := bufio.NewReader(os.Stdin)

	if username == "" {
		fmt.Print("Username: ")
		line, err := reader.ReadString('\n')
		if err != nil {
			return "", "", err
		}
		username = strings.TrimSpace(line)
	}
	if username == "" {
		return "", "", fmt.Errorf("username required")
	}

	var password string
	if term.IsTerminal(int(os.Stdin.Fd())) {
		fmt.Print("Password: ")
		raw, err := term.ReadPassword(int(os.Stdin.Fd()))
		fmt.Println()
		if err != nil {
			return "", "", err
		}
		password = string(raw)
	} else {
		line, err := reader.ReadString('\n')
		if err != nil {
			return "", "", err
		}
		password = strings.TrimRight(line, "\r\n")
	}
	if password == "" {
		return "", "", fmt.Errorf("password required")
	}

	return username, password, nil
}

func signupCmd() *cobra.Command {
	var username string

	cmd := &cobra.Command{
		Use:   "signup",
		Short: "Create a Nyaya account",
		RunE: func(cmd *cobra.Command, args []string) error {
			user, pass, err := promptCredentials(username)
			if err != nil {
				return err
			}

			ctx, cancel := cliContext()
			defer cancel()

			if err := api().Signup(ctx, user, pass); err != nil {
				return err
			}
			render.Stdout().Println("Account created. Please login.")
			return nil
		},
	}

	cmd.Flags().StringVarP(&username, "user", "u", "", "Username")
	return cmd
}

func loginCmd() *cobra.Command {
	var username string

	cmd := &cobra.Command{
		Use:   "login",
		Short: "Check account credentials",
		RunE: func(cmd *cobra.Command, args []string) error {
			user, pass, err := promptCredentials(username)
			if err != nil {
				return err
			}

			ctx, cancel := cliContext()
			defer cancel()

			res, err := api().Login(ctx, user, pass)
			if err != nil {
				return err
			}
			render.Stdout().Println("Logged in as %s", res.Username)
			return nil
		},
	}

	cmd.Flags().StringVarP(&username, "user", "u", "", "Username")
	return cmd
}
