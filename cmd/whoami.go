package cmd

import (
	"fmt"

	"biliblock/internal/config"
	"biliblock/internal/ui"

	"github.com/spf13/cobra"
)

var (
	flagWhoamiCookie     string
	flagWhoamiCookieFile string
)

func init() {
	whoamiCmd := &cobra.Command{
		Use:   "whoami",
		Short: "Report the login state of the configured session cookies",
		RunE:  runWhoami,
	}

	whoamiCmd.Flags().StringVar(&flagWhoamiCookie, "cookie", "", "cookie string")
	whoamiCmd.Flags().StringVar(&flagWhoamiCookieFile, "cookie-file", "", "path to a text file with cookies")

	rootCmd.AddCommand(whoamiCmd)
}

func runWhoami(cmd *cobra.Command, _ []string) error {
	cfg, _, err := config.LoadMerged(config.Options{
		IgnoreConfig: flagIgnoreConfig,
		Debug:        flagDebug,
		Cookie:       flagWhoamiCookie,
		CookieFile:   flagWhoamiCookieFile,
	})
	if err != nil {
		return err
	}

	logSvc := ui.NewLogger(cfg.Debug)

	_, api, err := newClients(cfg, logSvc)
	if err != nil {
		return err
	}

	nav, err := api.Nav(cmd.Context())
	if err != nil {
		return err
	}

	if !nav.IsLogin {
		fmt.Println("Not logged in.")
		return nil
	}

	fmt.Printf("Logged in as %s (mid %d)\n", nav.Uname, nav.MID)
	if !api.Authenticated() {
		fmt.Println("Warning: bili_jct cookie is missing, blocking is disabled.")
	}

	return nil
}
