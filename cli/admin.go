package cli

import (
	"errors"

	"github.com/spf13/cobra"

	"github.com/nixxel-company-limited/kiosk-printer/kiosk"
)

var (
	adminUsername string
	adminName     string
)

var adminCmd = &cobra.Command{
	Use:   "admin",
	Short: "Admin console",
}

var adminAddCmd = &cobra.Command{
	Use:   "add",
	Short: "Add a new admin",
	Args:  cobra.NoArgs,
	RunE:  runAdminAdd,
}

var adminClearPastCmd = &cobra.Command{
	Use:   "clear-past",
	Short: "Delete the visitor sign-out history",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, _ []string) error {
		e, err := openApp(cmd)
		if err != nil {
			return err
		}
		defer e.close()

		if err := requireAdmin(newPrompter(cmd), e); err != nil {
			return report(cmd, err)
		}
		n, err := e.app.ClearPast(cmd.Context())
		if err != nil {
			return report(cmd, err)
		}
		cmd.Printf("Cleared %d past visitors.\n", n)
		return nil
	},
}

var adminSignOutAllCmd = &cobra.Command{
	Use:   "signout-all",
	Short: "Sign out every current visitor",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, _ []string) error {
		e, err := openApp(cmd)
		if err != nil {
			return err
		}
		defer e.close()

		if err := requireAdmin(newPrompter(cmd), e); err != nil {
			return report(cmd, err)
		}
		n, err := e.app.SignOutAll(cmd.Context())
		if err != nil {
			return report(cmd, err)
		}
		cmd.Printf("Signed out %d visitors.\n", n)
		return nil
	},
}

func init() {
	adminAddCmd.Flags().StringVar(&adminUsername, "username", "", "new admin's username")
	adminAddCmd.Flags().StringVar(&adminName, "name", "", "new admin's real name")
	_ = adminAddCmd.MarkFlagRequired("username")
	_ = adminAddCmd.MarkFlagRequired("name")

	adminCmd.AddCommand(adminAddCmd, adminClearPastCmd, adminSignOutAllCmd)
	rootCmd.AddCommand(adminCmd)
}

// requireAdmin asks for admin credentials. Debug mode skips the check.
func requireAdmin(p *prompter, e *env) error {
	if e.cfg.Debug {
		return nil
	}
	username, err := p.line("Username: ")
	if err != nil {
		return err
	}
	password, err := p.password("Password: ")
	if err != nil {
		return err
	}
	return e.app.Authenticate(username, password)
}

func runAdminAdd(cmd *cobra.Command, _ []string) error {
	e, err := openApp(cmd)
	if err != nil {
		return err
	}
	defer e.close()

	p := newPrompter(cmd)

	// The first admin can be added without logging in.
	if e.app.HasAdmins() {
		if err := requireAdmin(p, e); err != nil {
			return report(cmd, err)
		}
	}
	if e.app.HasAdmin(adminUsername) {
		return report(cmd, kiosk.ErrAdminExists)
	}

	password, err := p.password("New admin's password: ")
	if err != nil {
		return err
	}
	if password == "" {
		return errors.New("password cannot be blank")
	}
	if kiosk.WeakPassword(password) {
		ok, err := p.confirm("Insecure password, are you sure you want to continue?")
		if err != nil {
			return err
		}
		if !ok {
			return errors.New("cancelled")
		}
	}
	confirmed, err := p.password("Enter the password one more time to confirm: ")
	if err != nil {
		return err
	}
	if confirmed != password {
		return errors.New("passwords do not match")
	}

	if err := e.app.AddAdmin(cmd.Context(), adminUsername, password, adminName); err != nil {
		return report(cmd, err)
	}
	cmd.Printf("New admin %s added successfully.\n", adminName)
	return nil
}
