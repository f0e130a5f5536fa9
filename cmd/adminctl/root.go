package main

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/intlakaa/internal/logging"
	"github.com/intlakaa/pkg/client"
	"github.com/kelseyhightower/envconfig"
	"github.com/spf13/cobra"
)

// cliConfig is read from INTLAKAA_* variables. Flags win over it.
type cliConfig struct {
	APIURL      string `envconfig:"API_URL" default:"http://localhost:5000/api"`
	SessionFile string `envconfig:"SESSION_FILE"`
	LogLevel    string `envconfig:"LOG_LEVEL" default:"warn"`
}

var (
	apiURL    string
	assumeYes bool

	stdout io.Writer     = os.Stdout
	stdin  *bufio.Reader = bufio.NewReader(os.Stdin)
)

var rootCmd = &cobra.Command{
	Use:   "adminctl",
	Short: "Intlakaa admin panel",
	Long: `Manage leads, admin accounts and SEO settings of the Intlakaa site.

The API base URL is taken from --api or INTLAKAA_API_URL. The session is kept
in ~/.intlakaa/session.json unless INTLAKAA_SESSION_FILE says otherwise.`,
	SilenceUsage:  true,
	SilenceErrors: true,
}

func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, describe(err))
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringVar(&apiURL, "api", "", "API base URL (default $INTLAKAA_API_URL)")
	rootCmd.PersistentFlags().BoolVarP(&assumeYes, "yes", "y", false, "Skip confirmation prompts")
}

// describe turns err into the line shown to the user.
func describe(err error) string {
	var apiErr *client.APIError
	if errors.As(err, &apiErr) || errors.Is(err, client.ErrNotConfirmed) {
		return client.Message(err)
	}
	return err.Error()
}

func loadConfig() (cliConfig, error) {
	var cfg cliConfig
	if err := envconfig.Process("intlakaa", &cfg); err != nil {
		return cfg, fmt.Errorf("failed to read environment: %w", err)
	}
	if apiURL != "" {
		cfg.APIURL = apiURL
	}
	return cfg, nil
}

func newClient() (*client.Client, error) {
	cfg, err := loadConfig()
	if err != nil {
		return nil, err
	}

	path := cfg.SessionFile
	if path == "" {
		p, err := client.DefaultSessionPath()
		if err != nil {
			return nil, err
		}
		path = p
	}

	logger, err := logging.NewLogger(cfg.LogLevel)
	if err != nil {
		return nil, err
	}

	return client.New(cfg.APIURL,
		client.WithSession(client.NewSession(client.NewFileStore(path))),
		client.WithLogger(logger),
	), nil
}

func confirm() client.Confirm {
	if assumeYes {
		return client.Yes
	}
	return func(prompt string) bool {
		fmt.Fprintf(stdout, "%s [y/N]: ", prompt)
		line, _ := stdin.ReadString('\n')
		return accepted(line)
	}
}

func accepted(answer string) bool {
	switch strings.ToLower(strings.TrimSpace(answer)) {
	case "y", "yes", "نعم":
		return true
	}
	return false
}

// secret returns the flag value, or asks for it on stdin when the flag is
// empty.
func secret(cmd *cobra.Command, flag, prompt string) string {
	if v, _ := cmd.Flags().GetString(flag); v != "" {
		return v
	}
	fmt.Fprintf(stdout, "%s: ", prompt)
	line, _ := stdin.ReadString('\n')
	return strings.TrimRight(line, "\r\n")
}

// requireSession stops early when no session is stored, without a network
// call.
func requireSession(c *client.Client) error {
	if c.Session().State() == client.StateUnauthenticated {
		return fmt.Errorf("not logged in; run adminctl login")
	}
	return nil
}
