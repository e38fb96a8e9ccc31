package cli

import (
	"github.com/spf13/cobra"

	"github.com/nixxel-company-limited/kiosk-printer/kiosk"
)

var studentGrade int

var studentCmd = &cobra.Command{
	Use:   "student",
	Short: "Sign students in late or out early",
}

var studentInCmd = &cobra.Command{
	Use:   "in <first> <last>",
	Short: "Sign a late student in and print a late slip",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		return runStudent(cmd, args, true)
	},
}

var studentOutCmd = &cobra.Command{
	Use:   "out <first> <last>",
	Short: "Sign a student out early",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		return runStudent(cmd, args, false)
	},
}

func init() {
	studentCmd.PersistentFlags().IntVarP(&studentGrade, "grade", "g", 0, "grade, 1 to 12")
	studentCmd.AddCommand(studentInCmd, studentOutCmd)
	rootCmd.AddCommand(studentCmd)
}

func runStudent(cmd *cobra.Command, args []string, signIn bool) error {
	e, err := openApp(cmd)
	if err != nil {
		return err
	}
	defer e.close()

	s := kiosk.Student{FirstName: args[0], LastName: args[1], Grade: studentGrade}
	if signIn {
		if err := e.app.StudentSignIn(s); err != nil {
			return report(cmd, err)
		}
		cmd.Println("Here is your late slip.")
		return nil
	}

	if err := e.app.StudentSignOut(s); err != nil {
		return report(cmd, err)
	}
	cmd.Println("You have been signed out.")
	return nil
}
