package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/arya/nyaya/internal/config"
	"github.com/arya/nyaya/internal/export"
	"github.com/arya/nyaya/internal/render"
)

func chatsCmd() *cobra.Command {
	var username string

	cmd := &cobra.Command{
		Use:   "chats",
		Short: "List chats for a user",
		RunE: func(cmd *cobra.Command, args []string) error {
			if username == "" {
				return fmt.Errorf("--user is required")
			}

			ctx, cancel := cliContext()
			defer cancel()

			chats, err := api().Chats(ctx, username)
			if err != nil {
				return err
			}
			fmt.Print(render.New(pretty).ChatList(chats))
			return nil
		},
	}

	cmd.Flags().StringVarP(&username, "user", "u", "", "Username")
	return cmd
}

func showCmd() *cobra.Command {
	var username string

	cmd := &cobra.Command{
		Use:   "show <chat-id>",
		Short: "Print a chat transcript",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if username == "" {
				return fmt.Errorf("--user is required")
			}

			ctx, cancel := cliContext()
			defer cancel()

			chat, err := api().Chat(ctx, username, args[0])
			if err != nil {
				return err
			}
			fmt.Print(render.New(pretty).Transcript(chat))
			return nil
		},
	}

	cmd.Flags().StringVarP(&username, "user", "u", "", "Username")
	return cmd
}

func deleteCmd() *cobra.Command {
	var username string

	cmd := &cobra.Command{
		Use:   "delete <chat-id>",
		Short: "Delete a chat",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if username == "" {
				return fmt.Errorf("--user is required")
			}

			ctx, cancel := cliContext()
			defer cancel()

			deleted, err := api().DeleteChat(ctx, username, args[0])
			if err != nil {
				return err
			}
			if !deleted {
				render.Stdout().Empty("Chat not found")
				return nil
			}
			render.Stdout().Println("Chat deleted")
			return nil
		},
	}

	cmd.Flags().StringVarP(&username, "user", "u", "", "Username")
	return cmd
}

func exportCmd() *cobra.Command {
	var username string
	var output string

	cmd := &cobra.Command{
		Use:   "export <chat-id>",
		Short: "Export a chat transcript as HTML",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if username == "" {
				return fmt.Errorf("--user is required")
			}

			ctx, cancel := cliContext()
			defer cancel()

			chat, err := api().Chat(ctx, username, args[0])
			if err != nil {
				return err
			}

			renderer := export.NewHTML(nil)
			doc, err := renderer.Render(chat)
			if err != nil {
				return err
			}

			if output == "" {
				output = args[0] + renderer.FileExtension()
			}
			if err := os.WriteFile(output, doc, 0644); err != nil {
				return err
			}
			render.Stdout().Println("Exported to %s", output)
			return nil
		},
	}

	cmd.Flags().StringVarP(&username, "user", "u", "", "Username")
	cmd.Flags().StringVarP(&output, "output", "o", "", "Output file (default <chat-id>.html)")
	return cmd
}

func statusCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "status",
		Short: "Check server health",
		Run: func(cmd *cobra.Command, args []string) {
			ctx, cancel := cliContext()
			defer cancel()

			url := config.Env().ServerURL
			healthy := api().Health(ctx)
			fmt.Print(render.New(pretty).Status(url, healthy))
			if !healthy {
				os.Exit(1)
			}
		},
	}
}
