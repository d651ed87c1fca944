package cmd

import (
	"context"
	"fmt"
	"time"

	"biliblock/internal/bili"
	"biliblock/internal/config"
	"biliblock/internal/runner"
	"biliblock/internal/ui"
	"biliblock/internal/util"

	"github.com/manifoldco/promptui"
	"github.com/spf13/cobra"
)

var (
	flagUnblockDelayMS    int
	flagUnblockYes        bool
	flagUnblockCookie     string
	flagUnblockCookieFile string
)

func init() {
	unblockCmd := &cobra.Command{
		Use:   "unblock <mid>...",
		Short: "Remove creators from the block list by identifier",
		Args:  cobra.MinimumNArgs(1),
		RunE:  runUnblock,
	}

	unblockCmd.Flags().IntVar(&flagUnblockDelayMS, "delay-ms", 0, "delay between requests in milliseconds")
	unblockCmd.Flags().BoolVar(&flagUnblockYes, "yes", false, "skip the confirmation prompt")
	unblockCmd.Flags().StringVar(&flagUnblockCookie, "cookie", "", "cookie string")
	unblockCmd.Flags().StringVar(&flagUnblockCookieFile, "cookie-file", "", "path to a text file with cookies")

	rootCmd.AddCommand(unblockCmd)
}

func runUnblock(cmd *cobra.Command, args []string) error {
	cfg, _, err := config.LoadMerged(config.Options{
		IgnoreConfig: flagIgnoreConfig,
		Debug:        flagDebug,
		DelayMS:      flagUnblockDelayMS,
		Yes:          flagUnblockYes,
		Cookie:       flagUnblockCookie,
		CookieFile:   flagUnblockCookieFile,
	})
	if err != nil {
		return err
	}

	logSvc := ui.NewLogger(cfg.Debug)

	_, api, err := newClients(cfg, logSvc)
	if err != nil {
		return err
	}

	if !api.Authenticated() {
		return fmt.Errorf("%w (set --cookie, cookie_file or %s)", bili.ErrUnauthenticated, config.CookieEnvVar)
	}

	mids := []string{}
	seen := map[string]bool{}
	for _, a := range args {
		if !bili.ValidMID(a) {
			return fmt.Errorf("%q is not a creator identifier", a)
		}
		if seen[a] {
			continue
		}
		seen[a] = true
		mids = append(mids, a)
	}

	ctx, cancel := context.WithCancel(cmd.Context())
	defer cancel()
	util.SetupInterruptHandler(cancel, logSvc)

	run := runner.New(
		runner.SourceFunc(func(context.Context) ([]string, error) { return mids, nil }),
		runner.BlockerFunc(api.Unblock),
		runner.Options{
			Delay: time.Duration(cfg.DelayMS) * time.Millisecond,
			Log:   logSvc,
			Confirm: func(count int) bool {
				if cfg.Yes {
					return true
				}
				prompt := promptui.Prompt{
					Label:     fmt.Sprintf("Unblock %d creators", count),
					IsConfirm: true,
				}
				_, err := prompt.Run()
				return err == nil
			},
			Progress: func(index, total int, mid string) {
				logSvc.Infof("unblocking %d/%d: %s", index+1, total, mid)
			},
		},
	)

	sum, err := run.Run(ctx)
	if err != nil {
		return err
	}

	if sum.Declined {
		fmt.Println("Aborted.")
		return nil
	}

	fmt.Printf("Unblocked %d/%d.\n", sum.Blocked, sum.Total)
	return nil
}
