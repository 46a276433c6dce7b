// Package main provides the nyaya CLI entrypoint.
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/arya/nyaya/internal/chat"
	"github.com/arya/nyaya/internal/config"
	"github.com/arya/nyaya/internal/domain"
	"github.com/arya/nyaya/internal/logging"
	"github.com/arya/nyaya/internal/provider"
	"github.com/arya/nyaya/internal/runtime"
	"github.com/arya/nyaya/internal/server"
	"github.com/arya/nyaya/internal/store"
	"github.com/arya/nyaya/internal/tui"
)

var (
	version = "0.1.0"
	pretty  = true
)

func main() {
	rootCmd := &cobra.Command{
		Use:   "nyaya",
		Short: "Nyaya - legal assistance chat for Indian law",
		Long: `Nyaya: a Know-Your-Rights legal assistant backed by Gemini.

Usage modes:
  nyaya              Start the interactive chat client
  nyaya serve        Run the HTTP API server
  nyaya <command>    Run a specific command (see below)

Use 'nyaya status' to check the server.
Use 'nyaya help' for the full command list.`,
		Run: func(cmd *cobra.Command, args []string) {
			if err := tui.Run(config.Env().ServerURL); err != nil {
				fmt.Fprintf(os.Stderr, "Error: %v\n", err)
				os.Exit(1)
			}
		},
	}

	rootCmd.PersistentFlags().BoolVar(&pretty, "pretty", true, "Pretty print output")

	rootCmd.AddCommand(serveCmd())
	rootCmd.AddCommand(chatCmd())
	rootCmd.AddCommand(signupCmd())
	rootCmd.AddCommand(loginCmd())
	rootCmd.AddCommand(chatsCmd())
	rootCmd.AddCommand(showCmd())
	rootCmd.AddCommand(deleteCmd())
	rootCmd.AddCommand(exportCmd())
	rootCmd.AddCommand(statusCmd())
	rootCmd.AddCommand(versionCmd())

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func serveCmd() *cobra.Command {
	var addr string

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the Nyaya HTTP API server",
		RunE: func(cmd *cobra.Command, args []string) error {
			env := config.Env()
			if addr != "" {
				env.Addr = addr
			}
			if env.APIKey == "" {
				return fmt.Errorf("GEMINI_API_KEY is not set")
			}

			paths := config.GetPaths()
			if err := config.EnsureDir(paths.Data); err != nil {
				return fmt.Errorf("create data dir: %w", err)
			}

			accounts := store.NewCollection[domain.Account](paths.UsersFile)
			chats := store.NewCollection[domain.Chat](paths.ChatsFile)
			manager := chat.NewManager(accounts, chats)
			ai := provider.New(env.APIKey, env.Upstream, env.Model)
			srv := server.New(manager, ai, env.Addr)

			runtime.ListenForSignals()

			log := logging.New("main")
			log.Info("server_starting", map[string]any{
				"addr":  env.Addr,
				"model": env.Model,
				"data":  paths.Data,
			})

			return srv.Serve(runtime.ShutdownContext())
		},
	}

	cmd.Flags().StringVar(&addr, "addr", "", "Listen address (overrides NYAYA_ADDR)")
	return cmd
}

func chatCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "chat",
		Short: "Start the interactive chat client",
		RunE: func(cmd *cobra.Command, args []string) error {
			return tui.Run(config.Env().ServerURL)
		},
	}
}

func versionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Show nyaya version",
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Printf("nyaya version %s\n", version)
		},
	}
}
