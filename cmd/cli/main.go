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
	project string
	user    string
)

func main() {
	rootCmd := &cobra.Command{
		Use:   "numledger-cli",
		Short: "numledger CLI tool",
		Long:  `A command line interface for interacting with the numledger API.`,
	}

	rootCmd.PersistentFlags().StringVar(&baseURL, "url", "http://localhost:8080", "Base URL of the numledger API")
	rootCmd.PersistentFlags().DurationVar(&timeout, "timeout", 10*time.Second, "Request timeout")
	rootCmd.PersistentFlags().StringVar(&project, "project", "", "Project ID (required)")
	rootCmd.PersistentFlags().StringVar(&user, "user", "default", "Operating user ID")

	rootCmd.AddCommand(
		addCmd(),
		listCmd(),
		deleteCmd(),
		bulkCmd(),
		summaryCmd(),
		extremesCmd(),
		filterCmd(),
		undoCmd(),
		redoCmd(),
		historyCmd(),
		balanceCmd(),
	)

	if err := rootCmd.Execute(); err != nil {
		fmt.Println(err)
		os.Exit(1)
	}
}

func addCmd() *cobra.Command {
	var (
		number    string
		entryType string
		first     string
		second    string
		notes     string
	)

	cmd := &cobra.Command{
		Use:   "add",
		Short: "Record an entry",
		Run: func(cmd *cobra.Command, args []string) {
			call(http.MethodPost, "/entries", map[string]any{
				"number":    number,
				"entryType": entryType,
				"first":     jsonNumber(first),
				"second":    jsonNumber(second),
				"notes":     notes,
			})
		},
	}

	cmd.Flags().StringVar(&number, "number", "", "Fixed-width number (e.g. 07 or 423)")
	cmd.Flags().StringVar(&entryType, "type", "akra", "Entry type: akra or ring")
	cmd.Flags().StringVar(&first, "first", "0", "FIRST amount (PKR)")
	cmd.Flags().StringVar(&second, "second", "0", "SECOND amount (PKR)")
	cmd.Flags().StringVar(&notes, "notes", "", "Optional notes")

	return cmd
}

func listCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List the project's entries",
		Run: func(cmd *cobra.Command, args []string) {
			call(http.MethodGet, "/entries", nil)
		},
	}
}

func deleteCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "delete <entry-id>",
		Short: "Delete an entry and refund its balance effect",
		Args:  cobra.ExactArgs(1),
		Run: func(cmd *cobra.Command, args []string) {
			call(http.MethodDelete, "/entries/"+args[0], nil)
		},
	}
}

func bulkCmd() *cobra.Command {
	var (
		entryType string
		preview   bool
	)

	cmd := &cobra.Command{
		Use:   "bulk",
		Short: "Submit bulk text entries from stdin (number first [second] per line)",
		Run: func(cmd *cobra.Command, args []string) {
			text, err := io.ReadAll(os.Stdin)
			if err != nil {
				fmt.Printf("failed to read stdin: %v\n", err)
				os.Exit(1)
			}

			path := "/entries/bulk-text"
			if preview {
				path += "/preview"
			}

			call(http.MethodPost, path, map[string]any{
				"entryType": entryType,
				"text":      string(text),
			})
		},
	}

	cmd.Flags().StringVar(&entryType, "type", "akra", "Entry type: akra or ring")
	cmd.Flags().BoolVar(&preview, "preview", false, "Parse only, commit nothing")

	return cmd
}

func summaryCmd() *cobra.Command {
	var entryType string

	cmd := &cobra.Command{
		Use:   "summary",
		Short: "Show per-number aggregates",
		Run: func(cmd *cobra.Command, args []string) {
			call(http.MethodGet, "/summaries?entryType="+entryType, nil)
		},
	}

	cmd.Flags().StringVar(&entryType, "type", "akra", "Entry type: akra or ring")

	return cmd
}

func extremesCmd() *cobra.Command {
	var entryType string

	cmd := &cobra.Command{
		Use:   "extremes",
		Short: "Show the highest and lowest numbers by combined total",
		Run: func(cmd *cobra.Command, args []string) {
			call(http.MethodGet, "/extremes?entryType="+entryType, nil)
		},
	}

	cmd.Flags().StringVar(&entryType, "type", "akra", "Entry type: akra or ring")

	return cmd
}

func filterCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "filter",
		Short: "Filter-driven deductions",
	}

	for _, action := range []string{"evaluate", "apply"} {
		action := action

		var (
			entryType string
			side      string
			operator  string
			threshold string
			cap       string
		)

		sub := &cobra.Command{
			Use:   action,
			Short: action + " a deduction filter",
			Run: func(cmd *cobra.Command, args []string) {
				criterion := map[string]any{
					"operator":  operator,
					"threshold": jsonNumber(threshold),
					"cap":       jsonNumber(cap),
				}

				body := map[string]any{"entryType": entryType}
				switch side {
				case "first":
					body["first"] = criterion
				case "second":
					body["second"] = criterion
				case "both":
					body["first"] = criterion
					body["second"] = criterion
				default:
					fmt.Printf("unknown side %q (want first, second, or both)\n", side)
					os.Exit(1)
				}

				call(http.MethodPost, "/filter/"+action, body)
			},
		}

		sub.Flags().StringVar(&entryType, "type", "akra", "Entry type: akra or ring")
		sub.Flags().StringVar(&side, "side", "first", "Which totals to filter: first, second, or both")
		sub.Flags().StringVar(&operator, "op", "gte", "Comparison: gte, gt, lte, lt, eq")
		sub.Flags().StringVar(&threshold, "threshold", "0", "Threshold (PKR)")
		sub.Flags().StringVar(&cap, "cap", "0", "Cap; the excess over it becomes the deduction")

		cmd.AddCommand(sub)
	}

	return cmd
}

func undoCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "undo",
		Short: "Undo the most recent action",
		Run: func(cmd *cobra.Command, args []string) {
			call(http.MethodPost, "/undo", nil)
		},
	}
}

func redoCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "redo",
		Short: "Redo the most recently undone action",
		Run: func(cmd *cobra.Command, args []string) {
			call(http.MethodPost, "/redo", nil)
		},
	}
}

func historyCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "history",
		Short: "List applied actions",
		Run: func(cmd *cobra.Command, args []string) {
			call(http.MethodGet, "/history", nil)
		},
	}
}

func balanceCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "balance",
		Short: "Show the operating user's balance",
		Run: func(cmd *cobra.Command, args []string) {
			call(http.MethodGet, "/balance", nil)
		},
	}
}

// call issues a request against the project-scoped API and pretty-prints
// the response.
func call(method, path string, body map[string]any) {
	if project == "" {
		fmt.Println("--project is required")
		os.Exit(1)
	}

	var reqBody io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			fmt.Printf("failed to encode request: %v\n", err)
			os.Exit(1)
		}
		reqBody = bytes.NewReader(data)
	}

	url := baseURL + "/api/v1/projects/" + project + path

	req, err := http.NewRequest(method, url, reqBody)
	if err != nil {
		fmt.Printf("failed to build request: %v\n", err)
		os.Exit(1)
	}

	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("X-User-ID", user)

	client := &http.Client{Timeout: timeout}
	resp, err := client.Do(req)
	if err != nil {
		fmt.Printf("request failed: %v\n", err)
		os.Exit(1)
	}
	defer resp.Body.Close()

	data, _ := io.ReadAll(resp.Body)

	var pretty bytes.Buffer
	if json.Indent(&pretty, data, "", "  ") == nil {
		data = pretty.Bytes()
	}

	fmt.Printf("%s\n%s\n", resp.Status, data)

	if resp.StatusCode >= 400 {
		os.Exit(1)
	}
}

// jsonNumber passes a decimal string through as a raw JSON number so the
// server parses it with full precision.
func jsonNumber(s string) json.RawMessage {
	if s == "" {
		s = "0"
	}

	return json.RawMessage(s)
}
