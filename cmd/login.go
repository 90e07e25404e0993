package cmd

import (
	"bufio"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/chargefront/chargefront/internal/colors"
	"github.com/chargefront/chargefront/internal/logging"
)

// loginCmd represents the login command
var loginCmd = &cobra.Command{
	Use:   "login",
	Short: "Authenticate against the backend",
	Long: `Authenticate against the backend.

USAGE:
    chargefront login --email <email> [OPTIONS]

OPTIONS:
    --email <email>        Account email (prompted when omitted)
    --password <password>  Account password (prompted when omitted)
    --tenant <subdomain>   Tenant subdomain (falls back to configuration)

The obtained session is cached in the profile store, so subsequent
commands run without logging in again until the token expires.`,
	RunE: runLogin,
}

var (
	loginEmail    string
	loginPassword string
)

func init() {
	rootCmd.AddCommand(loginCmd)

	loginCmd.Flags().StringVar(&loginEmail, "email", "", "Account email")
	loginCmd.Flags().StringVar(&loginPassword, "password", "", "Account password")
}

func runLogin(cmd *cobra.Command, args []string) error {
	t := tenant()
	if t == "" {
		return fmt.Errorf("no tenant configured, pass --tenant or set it in the config file")
	}

	email := loginEmail
	password := loginPassword
	reader := bufio.NewReader(cmd.InOrStdin())
	var err error
	if email == "" {
		if email, err = prompt(reader, "Email: "); err != nil {
			return err
		}
	}
	if password == "" {
		if password, err = prompt(reader, "Password: "); err != nil {
			return err
		}
	}

	a, err := newApp()
	if err != nil {
		return err
	}
	defer a.Close()

	if err := a.client.Login(cmd.Context(), email, password, t); err != nil {
		return fmt.Errorf("login failed: %w", err)
	}

	user := a.session.User()
	colors.Success("Logged in as " + user.Name + " (" + t + ")")
	logging.Info("login succeeded", "tenant", t)

	// A notification opened before this login may be waiting for a session.
	if outcome, had := a.router.CheckPending(); had {
		logging.Info("replayed pending notification", "outcome", int(outcome))
	}
	return nil
}

func prompt(reader *bufio.Reader, label string) (string, error) {
	fmt.Fprint(os.Stderr, label)
	line, err := reader.ReadString('\n')
	if err != nil {
		return "", fmt.Errorf("failed to read input: %w", err)
	}
	return strings.TrimSpace(line), nil
}
