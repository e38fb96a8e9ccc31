package cli

import (
	"errors"

	"github.com/spf13/cobra"

	"github.com/nixxel-company-limited/kiosk-printer/transport"
)

var testRunCmd = &cobra.Command{
	Use:   "test-run",
	Short: `Print a late slip for "hello world"`,
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, _ []string) error {
		e, err := openApp(cmd)
		if err != nil {
			return err
		}
		defer e.close()

		err = e.app.PrintLateSlip("hello world")
		var terr *transport.TransportError
		switch {
		case err == nil:
			cmd.Println("Printed.")
		case errors.Is(err, transport.ErrDeviceNotFound):
			cmd.Println("Printer Not Found")
		case errors.As(err, &terr):
			// already logged at error level by the kiosk
			cmd.Println("Printer error, check the log")
		default:
			return err
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(testRunCmd)
}
