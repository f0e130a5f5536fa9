package main

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/intlakaa/pkg/client"
	"github.com/spf13/cobra"
)

var requestsCmd = &cobra.Command{
	Use:     "requests",
	Aliases: []string{"leads"},
	Short:   "Browse and manage lead requests",
}

var requestsListCmd = &cobra.Command{
	Use:   "list",
	Short: "List one page of requests",
	RunE: func(cmd *cobra.Command, args []string) error {
		c, err := newClient()
		if err != nil {
			return err
		}
		if err := requireSession(c); err != nil {
			return err
		}
		page, _ := cmd.Flags().GetInt("page")
		limit, _ := cmd.Flags().GetInt("limit")
		search, _ := cmd.Flags().GetString("search")

		result, err := c.Requests.List(cmd.Context(), client.ListQuery{Page: page, Limit: limit, Search: search})
		if err != nil {
			return err
		}
		printLeads(stdout, result.Data)
		fmt.Fprintf(stdout, "page %d of %d, %d total\n", result.Page, max(result.TotalPages, 1), result.Count)
		return nil
	},
}

var requestsDeleteCmd = &cobra.Command{
	Use:   "delete <id>",
	Short: "Delete a request",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		c, err := newClient()
		if err != nil {
			return err
		}
		if err := requireSession(c); err != nil {
			return err
		}
		if err := c.Requests.Delete(cmd.Context(), args[0], confirm()); err != nil {
			return err
		}
		fmt.Fprintln(stdout, "Request deleted")
		return nil
	},
}

var requestsExportCmd = &cobra.Command{
	Use:   "export",
	Short: "Export every request",
	Long:  `Export every request regardless of paging. --format xlsx saves the server-built spreadsheet; json prints the records.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		c, err := newClient()
		if err != nil {
			return err
		}
		if err := requireSession(c); err != nil {
			return err
		}
		format, _ := cmd.Flags().GetString("format")
		output, _ := cmd.Flags().GetString("output")

		switch format {
		case "json":
			leads, err := c.Requests.ExportAll(cmd.Context())
			if err != nil {
				return err
			}
			enc := json.NewEncoder(stdout)
			enc.SetIndent("", "  ")
			return enc.Encode(leads)
		case "xlsx":
			return exportXLSX(cmd, c, output)
		default:
			return fmt.Errorf("unknown format %q (want json or xlsx)", format)
		}
	},
}

func exportXLSX(cmd *cobra.Command, c *client.Client, output string) error {
	tmp, err := os.CreateTemp(".", ".requests-*.xlsx")
	if err != nil {
		return fmt.Errorf("failed to create output file: %w", err)
	}
	defer os.Remove(tmp.Name())

	name, err := c.Requests.ExportXLSX(cmd.Context(), tmp)
	if cerr := tmp.Close(); err == nil && cerr != nil {
		err = cerr
	}
	if err != nil {
		return err
	}
	if output == "" {
		output = name
	}
	if err := os.Rename(tmp.Name(), output); err != nil {
		return fmt.Errorf("failed to save %s: %w", output, err)
	}
	fmt.Fprintf(stdout, "Saved %s\n", output)
	return nil
}

var requestsStatsCmd = &cobra.Command{
	Use:   "stats",
	Short: "Show the dashboard counters",
	RunE: func(cmd *cobra.Command, args []string) error {
		c, err := newClient()
		if err != nil {
			return err
		}
		if err := requireSession(c); err != nil {
			return err
		}
		stats, err := c.Requests.Stats(cmd.Context())
		if err != nil {
			return err
		}
		fmt.Fprintf(stdout, "total\t%d\nthis month\t%d\ntoday\t%d\n", stats.Total, stats.ThisMonth, stats.Today)
		return nil
	},
}

func printLeads(w io.Writer, leads []client.Lead) {
	t := newTable(w, []string{"ID", "Name", "Phone", "Store", "Sales", "Country", "Created"})
	for _, l := range leads {
		t.AddRow([]string{l.ID, l.Name, l.Phone, l.StoreURL, l.MonthlySales, deref(l.Country), l.CreatedAt.Format(time.DateTime)})
	}
	t.Render()
}

func deref(s *string) string {
	if s == nil {
		return "-"
	}
	return *s
}

func init() {
	requestsListCmd.Flags().Int("page", 1, "Page number")
	requestsListCmd.Flags().Int("limit", client.DefaultPageSize, "Rows per page")
	requestsListCmd.Flags().String("search", "", "Match name or phone")

	requestsExportCmd.Flags().String("format", "xlsx", "json or xlsx")
	requestsExportCmd.Flags().StringP("output", "o", "", "Spreadsheet path (default: name suggested by the server)")

	requestsCmd.AddCommand(requestsListCmd, requestsDeleteCmd, requestsExportCmd, requestsStatsCmd)
	rootCmd.AddCommand(requestsCmd)
}
