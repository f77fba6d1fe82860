package main

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"os"
	"time"

	"github.com/spf13/cobra"
	"golang.org/x/crypto/bcrypt"
)

var (
	baseURL string
	timeout time.Duration
	token   string

	// swapped in tests
	bcryptGenerate = bcrypt.GenerateFromPassword
)

func main() {
	rootCmd := &cobra.Command{
		Use:   "yieldledger-cli",
		Short: "YieldLedger CLI tool",
		Long:  `A command line interface for interacting with the YieldLedger API.`,
	}

	rootCmd.PersistentFlags().StringVar(&baseURL, "url", "http://localhost:8080", "Base URL of the YieldLedger API")
	rootCmd.PersistentFlags().DurationVar(&timeout, "timeout", 10*time.Second, "Request timeout")
	rootCmd.PersistentFlags().StringVar(&token, "token", "", "Bearer token for authenticated requests")

	rootCmd.AddCommand(
		accountCmd(),
		rateCmd(),
		transferCmd(),
		depositCmd(),
		redeemCmd(),
		bridgeCmd(),
		ledgerCmd(),
		hashPasswordCmd(),
	)

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func accountCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "account",
		Short: "Account operations",
	}

	cmd.AddCommand(&cobra.Command{
		Use:   "get <id>",
		Short: "Show an account's settled balance and locked rate",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return get("/api/v1/accounts/" + args[0])
		},
	})

	cmd.AddCommand(&cobra.Command{
		Use:   "entries <id>",
		Short: "List an account's journal entries",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return get("/api/v1/accounts/" + args[0] + "/entries")
		},
	})

	return cmd
}

func rateCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "rate",
		Short: "Interest rate governance",
	}

	cmd.AddCommand(&cobra.Command{
		Use:   "get",
		Short: "Show the current global rate",
		RunE: func(cmd *cobra.Command, args []string) error {
			return get("/api/v1/rate")
		},
	})

	cmd.AddCommand(&cobra.Command{
		Use:   "set <rate>",
		Short: "Lower the global rate (increases are rejected)",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return put("/api/v1/rate", map[string]string{"rate": args[0]})
		},
	})

	return cmd
}

func transferCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "transfer <from> <to> <amount>",
		Short: "Move settled balance between two accounts",
		Args:  cobra.ExactArgs(3),
		RunE: func(cmd *cobra.Command, args []string) error {
			return post("/api/v1/transfers", map[string]string{
				"from_account_id": args[0],
				"to_account_id":   args[1],
				"amount":          args[2],
			})
		},
	}
}

func depositCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "deposit <account> <amount>",
		Short: "Collect funds into custody and mint to the account",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			return post("/api/v1/deposits", map[string]string{
				"account_id": args[0],
				"amount":     args[1],
			})
		},
	}
}

func redeemCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "redeem <account> <amount>",
		Short: "Burn from the account and disburse from custody ('all' redeems everything)",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			return post("/api/v1/redemptions", map[string]string{
				"account_id": args[0],
				"amount":     args[1],
			})
		},
	}
}

func bridgeCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "bridge",
		Short: "Cross-ledger bridge operations",
	}

	cmd.AddCommand(&cobra.Command{
		Use:   "send <account> <peer> <destination> <amount>",
		Short: "Burn locally and queue a packet for the peer ledger",
		Args:  cobra.ExactArgs(4),
		RunE: func(cmd *cobra.Command, args []string) error {
			return post("/api/v1/bridge/transfers", map[string]string{
				"account_id":          args[0],
				"peer_id":             args[1],
				"destination_account": args[2],
				"amount":              args[3],
			})
		},
	})

	return cmd
}

func ledgerCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "ledger",
		Short: "Ledger operations",
	}

	cmd.AddCommand(&cobra.Command{
		Use:   "consistency",
		Short: "Check ledger consistency",
		RunE: func(cmd *cobra.Command, args []string) error {
			return get("/api/v1/ledger/consistency")
		},
	})

	return cmd
}

func hashPasswordCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "hash-password <password>",
		Short: "Hash a password for seeding users",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			hash, err := bcryptGenerate([]byte(args[0]), bcrypt.DefaultCost)
			if err != nil {
				return fmt.Errorf("failed to hash password: %w", err)
			}
			fmt.Println(string(hash))
			return nil
		},
	}
}

func get(path string) error {
	client := &http.Client{Timeout: timeout}
	req, err := http.NewRequest(http.MethodGet, baseURL+path, nil)
	if err != nil {
		return err
	}
	return do(client, req)
}

func post(path string, payload any) error {
	return send(http.MethodPost, path, payload)
}

func put(path string, payload any) error {
	return send(http.MethodPut, path, payload)
}

func send(method, path string, payload any) error {
	body, err := json.Marshal(payload)
	if err != nil {
		return err
	}

	client := &http.Client{Timeout: timeout}
	req, err := http.NewRequest(method, baseURL+path, bytes.NewReader(body))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")
	return do(client, req)
}

func do(client *http.Client, req *http.Request) error {
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	resp, err := client.Do(req)
	if err != nil {
		return fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("failed to read response: %w", err)
	}

	if resp.StatusCode >= 400 {
		return fmt.Errorf("status %d: %s", resp.StatusCode, truncate(string(body), 200))
	}

	var parsed any
	if err := json.Unmarshal(body, &parsed); err != nil {
		fmt.Println(string(body))
		return nil
	}
	printJSON(parsed)
	return nil
}

func printJSON(v any) {
	out, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		fmt.Printf("%v\n", v)
		return
	}
	fmt.Println(string(out))
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	if n <= 3 {
		return s[:n]
	}
	return s[:n-3] + "..."
}
