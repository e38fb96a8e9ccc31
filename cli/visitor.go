package cli

import (
	"fmt"
	"text/tabwriter"

	"github.com/spf13/cobra"
)

const (
	timeLayout = "03:04:05 PM"
	dateLayout = "01/02/2006"
)

var visitorListPast bool

var visitorCmd = &cobra.Command{
	Use:   "visitor",
	Short: "Sign visitors in and out",
}

var visitorInCmd = &cobra.Command{
	Use:   "in <first> <last>",
	Short: "Sign a visitor in and print a visitor pass",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		e, err := openApp(cmd)
		if err != nil {
			return err
		}
		defer e.close()

		if err := e.app.VisitorSignIn(cmd.Context(), args[0], args[1]); err != nil {
			return report(cmd, err)
		}
		cmd.Println("You are successfully signed in!")
		cmd.Println("Remember to sign out again later.")
		return nil
	},
}

var visitorOutCmd = &cobra.Command{
	Use:   "out <first> <last>",
	Short: "Sign a visitor out",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		e, err := openApp(cmd)
		if err != nil {
			return err
		}
		defer e.close()

		past, err := e.app.VisitorSignOut(cmd.Context(), args[0], args[1])
		if err != nil {
			return report(cmd, err)
		}
		cmd.Printf("%s %s has been signed out.\n", past.FirstName, past.LastName)
		return nil
	},
}

var visitorListCmd = &cobra.Command{
	Use:   "list",
	Short: "List signed-in visitors (admin)",
	Args:  cobra.NoArgs,
	RunE:  runVisitorList,
}

func init() {
	visitorListCmd.Flags().BoolVar(&visitorListPast, "past", false, "list visitors who have signed out")
	visitorCmd.AddCommand(visitorInCmd, visitorOutCmd, visitorListCmd)
	rootCmd.AddCommand(visitorCmd)
}

func runVisitorList(cmd *cobra.Command, _ []string) error {
	e, err := openApp(cmd)
	if err != nil {
		return err
	}
	defer e.close()

	if err := requireAdmin(newPrompter(cmd), e); err != nil {
		return report(cmd, err)
	}

	w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
	defer w.Flush()

	if visitorListPast {
		past, err := e.app.PastVisitors(cmd.Context())
		if err != nil {
			return report(cmd, err)
		}
		fmt.Fprintln(w, "First Name\tLast Name\tTime Signed In\tDate Signed In\tTime Signed Out\tDate Signed Out")
		for _, p := range past {
			fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%s\t%s\n", p.FirstName, p.LastName,
				p.SignedIn.Format(timeLayout), p.SignedIn.Format(dateLayout),
				p.SignedOut.Format(timeLayout), p.SignedOut.Format(dateLayout))
		}
		return nil
	}

	current, err := e.app.CurrentVisitors(cmd.Context())
	if err != nil {
		return report(cmd, err)
	}
	if len(current) == 0 {
		cmd.Println("There are no visitors currently.")
		return nil
	}
	fmt.Fprintln(w, "First Name\tLast Name\tTime Signed In\tDate Signed In")
	for _, c := range current {
		fmt.Fprintf(w, "%s\t%s\t%s\t%s\n", c.FirstName, c.LastName,
			c.SignedIn.Format(timeLayout), c.SignedIn.Format(dateLayout))
	}
	return nil
}
