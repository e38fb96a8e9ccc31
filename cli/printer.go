package cli

import (
	"github.com/spf13/cobra"

	"github.com/nixxel-company-limited/kiosk-printer/adapter"
)

var printerScanUSB bool

var printerCmd = &cobra.Command{
	Use:   "printer",
	Short: "Printer setup and maintenance",
}

var printerStatusCmd = &cobra.Command{
	Use:   "status",
	Short: "Show whether the printer device is present",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, _ []string) error {
		e, err := setup(cmd)
		if err != nil {
			return err
		}
		defer e.close()

		if e.sender.Connected() {
			cmd.Printf("Printer: connected (%s)\n", e.sender.DevicePath())
		} else {
			cmd.Printf("Printer: not found (%s)\n", e.sender.DevicePath())
		}

		if !printerScanUSB {
			return nil
		}
		printers := adapter.ListPrinters()
		if len(printers) == 0 {
			cmd.Println("No USB printers found.")
			return nil
		}
		for _, p := range printers {
			cmd.Printf("  %s\n", p)
		}
		return nil
	},
}

var printerPrepCmd = &cobra.Command{
	Use:   "prep",
	Short: "Reset the printer and set the slip text mode",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, _ []string) error {
		e, err := openApp(cmd)
		if err != nil {
			return err
		}
		defer e.close()

		if err := e.app.Prep(); err != nil {
			return report(cmd, err)
		}
		cmd.Println("Printer ready.")
		return nil
	},
}

var printerTestCmd = &cobra.Command{
	Use:   "test",
	Short: "Print the printer's self-test page (admin)",
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
		cmd.Println("Printing test page...")
		if err := e.app.SelfTest(); err != nil {
			return report(cmd, err)
		}
		cmd.Println("Printer ready.")
		return nil
	},
}

var printerPrintCmd = &cobra.Command{
	Use:   "print <text>",
	Short: `Print custom text (admin). A literal \n starts a new line`,
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		e, err := openApp(cmd)
		if err != nil {
			return err
		}
		defer e.close()

		if err := requireAdmin(newPrompter(cmd), e); err != nil {
			return report(cmd, err)
		}
		if err := e.app.CustomPrint(args[0]); err != nil {
			return report(cmd, err)
		}
		cmd.Println("Printed.")
		return nil
	},
}

func init() {
	printerStatusCmd.Flags().BoolVar(&printerScanUSB, "usb", false, "also list printer-class USB devices")
	printerCmd.AddCommand(printerStatusCmd, printerPrepCmd, printerTestCmd, printerPrintCmd)
	rootCmd.AddCommand(printerCmd)
}
