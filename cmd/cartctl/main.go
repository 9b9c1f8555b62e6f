package main

import (
	"context"
	"fmt"
	"log"
	"os"
	"text/tabwriter"
	"time"

	"github.com/spf13/cobra"

	"wardrobewizard/backend/internal/cart"
	"wardrobewizard/backend/internal/config"
	"wardrobewizard/backend/internal/store"
	"wardrobewizard/backend/internal/store/factory"
)

func main() {
	root := &cobra.Command{
		Use:   "cartctl",
		Short: "Inspect and manage persisted shopping carts",
	}

	root.AddCommand(sessionsCmd(), showCmd(), clearCmd())

	if err := root.Execute(); err != nil {
		os.Exit(1)
	}
}

func openStore(ctx context.Context) (store.Repository, func() error, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, nil, fmt.Errorf("load config: %w", err)
	}
	// A memory store is useless from a one-shot CLI; fall back to the
	// default cart file when no backend is configured.
	if cfg.DatabaseURL == "" && cfg.RedisAddr == "" && cfg.CartFile == "" {
		cfg.CartFile = "carts.json"
	}
	repo, closer, kind, err := factory.New(ctx, cfg)
	if err != nil {
		return nil, nil, fmt.Errorf("open %s store: %w", kind, err)
	}
	if closer == nil {
		closer = func() error { return nil }
	}
	return repo, closer, nil
}

func sessionsCmd() *cobra.Command {
	var limit int
	cmd := &cobra.Command{
		Use:   "sessions",
		Short: "List sessions with a persisted cart",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, cancel := context.WithTimeout(cmd.Context(), 10*time.Second)
			defer cancel()

			repo, closer, err := openStore(ctx)
			if err != nil {
				return err
			}
			defer closeQuietly(closer)

			ids, err := repo.ListSessions(ctx, limit)
			if err != nil {
				return err
			}
			for _, id := range ids {
				fmt.Println(id)
			}
			return nil
		},
	}
	cmd.Flags().IntVar(&limit, "limit", 50, "maximum number of sessions to list")
	return cmd
}

func showCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "show <session-id>",
		Short: "Print the cart lines and totals for a session",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, cancel := context.WithTimeout(cmd.Context(), 10*time.Second)
			defer cancel()

			repo, closer, err := openStore(ctx)
			if err != nil {
				return err
			}
			defer closeQuietly(closer)

			lines, err := repo.LoadCart(ctx, args[0])
			if err != nil {
				if err == store.ErrNotFound {
					fmt.Println("cart is empty")
					return nil
				}
				return err
			}

			w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
			fmt.Fprintln(w, "ID\tNAME\tQTY\tPRICE")
			for _, line := range lines {
				fmt.Fprintf(w, "%d\t%s\t%d\t%s\n", line.ID, line.Name, line.Quantity, line.Price)
			}
			if err := w.Flush(); err != nil {
				return err
			}

			totals := cart.Compute(lines, nil)
			fmt.Printf("items: %d\nsubtotal: %s\n", totals.ItemCount, cart.FormatAmount(totals.Subtotal))
			return nil
		},
	}
}

func clearCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "clear <session-id>",
		Short: "Delete the persisted cart for a session",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, cancel := context.WithTimeout(cmd.Context(), 10*time.Second)
			defer cancel()

			repo, closer, err := openStore(ctx)
			if err != nil {
				return err
			}
			defer closeQuietly(closer)

			if err := repo.DeleteCart(ctx, args[0]); err != nil {
				return err
			}
			fmt.Println("cleared", args[0])
			return nil
		},
	}
}

func closeQuietly(closer func() error) {
	if err := closer(); err != nil {
		log.Printf("close store: %v", err)
	}
}
