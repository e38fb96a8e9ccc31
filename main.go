package main

import "github.com/nixxel-company-limited/kiosk-printer/cli"

func main() {
	cli.Execute()
}
