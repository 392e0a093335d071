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
)

var (
	baseURL string
	timeout time.Duration
)

func main() {
	rootCmd := &cobra.Command{
		Use:   "rentledger-cli",
		Short: "RentLedger CLI tool",
		Long:  `A command line interface for interacting with the RentLedger API.`,
	}

	rootCmd.PersistentFlags().StringVar(&baseURL, "url", "http://localhost:8080", "Base URL of the RentLedger API")
	rootCmd.PersistentFlags().DurationVar(&timeout, "timeout", 10*time.Second, "Request timeout")

	rootCmd.AddCommand(depositCmd(), refundCmd(), ledgerCmd())

	if err := rootCmd.Execute(); err != nil {
		fmt.Println(err)
		os.Exit(1)
	}
}

func depositCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "deposit",
		Short: "Deposit operations",
	}

	var tenantID, propertyID string

	getCmd := &cobra.Command{
		Use:   "get",
		Short: "Look up a deposit by tenant or property",
		RunE: func(cmd *cobra.Command, args []string) error {
			switch {
			case tenantID != "":
				return getJSON("/api/v1/deposits/tenant/" + tenantID)
			case propertyID != "":
				return getJSON("/api/v1/deposits/property/" + propertyID)
			default:
				return fmt.Errorf("either --tenant or --property is required")
			}
		},
	}
	getCmd.Flags().StringVar(&tenantID, "tenant", "", "Tenant ID")
	getCmd.Flags().StringVar(&propertyID, "property", "", "Property ID")

	listCmd := &cobra.Command{
		Use:   "list",
		Short: "List deposits",
		RunE: func(cmd *cobra.Command, args []string) error {
			return getJSON("/api/v1/deposits/")
		},
	}

	cmd.AddCommand(getCmd, listCmd)
	return cmd
}

func refundCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "refund",
		Short: "Refund operations",
	}

	var tenantID, propertyID, actorID string

	processCmd := &cobra.Command{
		Use:   "process",
		Short: "Process the move-out refund for a tenancy",
		RunE: func(cmd *cobra.Command, args []string) error {
			body := map[string]string{
				"tenant_id":   tenantID,
				"property_id": propertyID,
				"actor_id":    actorID,
			}
			return postJSON("/api/v1/refunds", body)
		},
	}
	processCmd.Flags().StringVar(&tenantID, "tenant", "", "Tenant ID")
	processCmd.Flags().StringVar(&propertyID, "property", "", "Property ID")
	processCmd.Flags().StringVar(&actorID, "actor", "cli", "Actor recorded in the audit trail")
	_ = processCmd.MarkFlagRequired("tenant")
	_ = processCmd.MarkFlagRequired("property")

	cmd.AddCommand(processCmd)
	return cmd
}

func ledgerCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "ledger",
		Short: "Ledger operations",
	}

	consistencyCmd := &cobra.Command{
		Use:   "consistency",
		Short: "Check ledger consistency",
		RunE: func(cmd *cobra.Command, args []string) error {
			return checkConsistency()
		},
	}

	auditCmd := &cobra.Command{
		Use:   "audit",
		Short: "List recent audit log entries",
		RunE: func(cmd *cobra.Command, args []string) error {
			return getJSON("/api/v1/ledger/audit")
		},
	}

	cmd.AddCommand(consistencyCmd, auditCmd)
	return cmd
}

func checkConsistency() error {
	client := &http.Client{Timeout: timeout}
	resp, err := client.Get(baseURL + "/api/v1/ledger/consistency")
	if err != nil {
		return fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()

	body, _ := io.ReadAll(resp.Body)

	var result map[string]any
	if err := json.Unmarshal(body, &result); err != nil {
		return fmt.Errorf("failed to parse response: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		fmt.Println("Consistency check FAILED")
		printJSON(result)
		return fmt.Errorf("ledger inconsistent (status %d)", resp.StatusCode)
	}

	fmt.Println("Consistency check PASSED")
	printJSON(result)
	return nil
}

func getJSON(path string) error {
	client := &http.Client{Timeout: timeout}
	resp, err := client.Get(baseURL + path)
	if err != nil {
		return fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()

	return printResponse(resp)
}

func postJSON(path string, body any) error {
	payload, err := json.Marshal(body)
	if err != nil {
		return err
	}

	client := &http.Client{Timeout: timeout}
	resp, err := client.Post(baseURL+path, "application/json", bytes.NewReader(payload))
	if err != nil {
		return fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()

	return printResponse(resp)
}

func printResponse(resp *http.Response) error {
	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return err
	}

	var result any
	if err := json.Unmarshal(body, &result); err != nil {
		fmt.Println(string(body))
	} else {
		printJSON(result)
	}

	if resp.StatusCode >= 400 {
		return fmt.Errorf("request failed with status %d", resp.StatusCode)
	}
	return nil
}

func printJSON(v any) {
	out, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		fmt.Printf("failed to format output: %v\n", err)
		return
	}
	fmt.Println(string(out))
}
