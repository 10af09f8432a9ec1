// Command eventreg serves the event registration API and runs its maintenance tasks.
//
// @title Event Registration API
// @version 1.0
// @description Event registration with hosted payment, idempotent verification and QR check-in.
// @BasePath /
// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	_ "eventregistration/docs"
)

var Version = "dev"

func main() {
	rootCmd := &cobra.Command{
		Use:           "eventreg",
		Short:         "Event registration and payment service",
		Version:       Version,
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	rootCmd.AddCommand(serveCmd())
	rootCmd.AddCommand(migrateCmd())
	rootCmd.AddCommand(hashPasswordCmd())

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
