package main

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/intlakaa/pkg/seo"
	"github.com/spf13/cobra"
)

var seoCmd = &cobra.Command{
	Use:   "seo",
	Short: "Read and edit the site SEO settings",
}

var seoGetCmd = &cobra.Command{
	Use:   "get",
	Short: "Print the current settings",
	RunE: func(cmd *cobra.Command, args []string) error {
		c, err := newClient()
		if err != nil {
			return err
		}
		settings, err := c.Seo.Fetch(cmd.Context())
		if err != nil {
			return err
		}
		enc := json.NewEncoder(stdout)
		enc.SetIndent("", "  ")
		return enc.Encode(settings)
	},
}

var seoSetCmd = &cobra.Command{
	Use:   "set <field=value>...",
	Short: "Change individual fields",
	Long:  `Change only the named fields, e.g. adminctl seo set siteTitle="Intlakaa" gtmId=GTM-ABC123. An empty value clears the field.`,
	Args:  cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		fields, err := parseFields(args)
		if err != nil {
			return err
		}
		c, err := newClient()
		if err != nil {
			return err
		}
		if err := requireSession(c); err != nil {
			return err
		}
		if _, err := c.Seo.Update(cmd.Context(), fields); err != nil {
			return err
		}
		fmt.Fprintln(stdout, "SEO settings saved")
		return nil
	},
}

var seoSyncCmd = &cobra.Command{
	Use:   "sync",
	Short: "Re-read the settings from the deployed page",
	RunE: func(cmd *cobra.Command, args []string) error {
		c, err := newClient()
		if err != nil {
			return err
		}
		if err := requireSession(c); err != nil {
			return err
		}
		settings, err := c.Seo.Sync(cmd.Context())
		if err != nil {
			return err
		}
		fmt.Fprintf(stdout, "Synced: %q\n", settings.SiteTitle)
		return nil
	},
}

// seoFields is the set of JSON names accepted by set.
var seoFields = func() map[string]bool {
	raw, _ := json.Marshal(seo.Settings{})
	var m map[string]interface{}
	json.Unmarshal(raw, &m)
	out := make(map[string]bool, len(m))
	for k := range m {
		out[k] = true
	}
	return out
}()

func parseFields(args []string) (map[string]string, error) {
	fields := make(map[string]string, len(args))
	for _, arg := range args {
		key, value, ok := strings.Cut(arg, "=")
		if !ok {
			return nil, fmt.Errorf("expected field=value, got %q", arg)
		}
		if !seoFields[key] {
			return nil, fmt.Errorf("unknown field %q", key)
		}
		fields[key] = strings.ReplaceAll(value, `\n`, "\n")
	}
	return fields, nil
}

func init() {
	seoCmd.AddCommand(seoGetCmd, seoSetCmd, seoSyncCmd)
	rootCmd.AddCommand(seoCmd)
}
