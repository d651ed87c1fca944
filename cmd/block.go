package cmd

import (
	"context"
	"fmt"
	"time"

	"biliblock/internal/bili"
	"biliblock/internal/config"
	"biliblock/internal/extract"
	"biliblock/internal/runner"
	"biliblock/internal/ui"
	"biliblock/internal/util"

	"github.com/manifoldco/promptui"
	"github.com/spf13/cobra"
)

var (
	// selection
	flagURL       string
	flagContainer string
	flagLink      string
	flagExpand    bool

	// runtime
	flagDelayMS int
	flagDryRun  bool
	flagYes     bool

	// headers/auth
	flagCookie     string
	flagCookieFile string
	flagUserAgent  string
)

func init() {
	blockCmd := &cobra.Command{
		Use:   "block",
		Short: "Scrape the recommendation sidebar of a video page and block every listed creator. Uses the defaults from the active profile, overwritten by CLI flags",
		RunE:  runBlock,
	}

	// selection
	blockCmd.Flags().StringVar(&flagURL, "url", "", "video page URL to scrape")
	blockCmd.Flags().StringVar(&flagContainer, "container", "", "CSS selector of the recommendation container")
	blockCmd.Flags().StringVar(&flagLink, "link", "", "CSS selector of the profile links inside the container")
	blockCmd.Flags().BoolVar(&flagExpand, "expand", false, "also pull creators from the related-videos endpoint before blocking")

	// runtime
	blockCmd.Flags().IntVar(&flagDelayMS, "delay-ms", 0, "delay between block requests in milliseconds")
	blockCmd.Flags().BoolVar(&flagDryRun, "dry-run", false, "list the creators that would be blocked, don’t block")
	blockCmd.Flags().BoolVar(&flagYes, "yes", false, "skip the confirmation prompt")

	// headers/auth
	blockCmd.Flags().StringVar(&flagCookie, "cookie", "", "cookie string, e.g. \"SESSDATA=...; bili_jct=...\"")
	blockCmd.Flags().StringVar(&flagCookieFile, "cookie-file", "", "path to a text file with cookies (one header line)")
	blockCmd.Flags().StringVar(&flagUserAgent, "user-agent", "", "override User-Agent")

	rootCmd.AddCommand(blockCmd)
}

func runBlock(cmd *cobra.Command, _ []string) error {
	cfg, usedPath, err := config.LoadMerged(config.Options{
		IgnoreConfig: flagIgnoreConfig,
		Debug:        flagDebug,
		URL:          flagURL,
		Container:    flagContainer,
		Link:         flagLink,
		Expand:       flagExpand,
		DelayMS:      flagDelayMS,
		Yes:          flagYes,
		Cookie:       flagCookie,
		CookieFile:   flagCookieFile,
		UserAgent:    flagUserAgent,
	})
	if err != nil {
		return err
	}

	logSvc := ui.NewLogger(cfg.Debug)
	if usedPath != "" {
		fmt.Printf("Config: %s\n", usedPath)
	}

	if cfg.DefaultURL == "" {
		return fmt.Errorf("missing --url and no default_url in config")
	}

	hc, api, err := newClients(cfg, logSvc)
	if err != nil {
		return err
	}

	if !api.Authenticated() {
		return fmt.Errorf("%w (set --cookie, cookie_file or %s)", bili.ErrUnauthenticated, config.CookieEnvVar)
	}

	ctx, cancel := context.WithCancel(cmd.Context())
	defer cancel()
	util.SetupInterruptHandler(cancel, logSvc)

	delay := time.Duration(cfg.DelayMS) * time.Millisecond
	sel := extract.Selectors{Container: cfg.ContainerSelector, Link: cfg.LinkSelector}

	source := runner.SourceFunc(func(ctx context.Context) ([]string, error) {
		doc, err := extract.FetchDocument(ctx, hc, cfg.DefaultURL)
		if err != nil {
			return nil, err
		}

		mids, err := extract.Creators(doc, cfg.DefaultURL, sel)
		if err != nil {
			return nil, err
		}

		if cfg.Expand {
			mids = expandRelated(ctx, api, cfg.DefaultURL, mids, delay, logSvc)
		}

		return mids, nil
	})

	if flagDryRun {
		mids, err := source.Creators(ctx)
		if err != nil {
			return err
		}
		if len(mids) == 0 {
			return runner.ErrNothingToDo
		}

		fmt.Printf("Dry-run: %d creators found.\n\n", len(mids))
		for i, mid := range mids {
			fmt.Printf("%3d) https://space.bilibili.com/%s\n", i+1, mid)
		}
		return nil
	}

	pm := ui.NewProgressManager()
	defer pm.Close()

	stats := &ui.Stats{}

	blocker := runner.BlockerFunc(func(ctx context.Context, mid string) error {
		err := api.Block(ctx, mid)
		if err != nil {
			stats.Failed.Add(1)
		} else {
			stats.Blocked.Add(1)
		}
		return err
	})

	var handle *ui.ProgressHandle

	run := runner.New(source, blocker, runner.Options{
		Delay: delay,
		Log:   logSvc,
		Confirm: func(count int) bool {
			if cfg.Yes {
				return true
			}
			prompt := promptui.Prompt{
				Label:     fmt.Sprintf("Block %d creators", count),
				IsConfirm: true,
			}
			_, err := prompt.Run()
			return err == nil
		},
		Progress: func(index, total int, mid string) {
			if handle == nil {
				handle = pm.Register("Blocking", total)
			}
			handle.Step(index, mid)
		},
	})

	start := time.Now()

	sum, err := run.Run(ctx)
	if handle != nil {
		handle.MarkDone()
	}
	pm.Close()

	if err != nil {
		return err
	}

	if sum.Declined {
		fmt.Println("Aborted.")
		return nil
	}

	if sum.Canceled {
		stats.Skipped.Add(int64(sum.Total - len(sum.Results)))
	}

	fmt.Println()
	fmt.Println("Block Summary:")
	fmt.Printf("Blocked:  %d/%d\n", stats.Blocked.Load(), sum.Total)
	if n := stats.Failed.Load(); n > 0 {
		fmt.Printf("Failed:   %d\n", n)
	}
	if n := stats.Skipped.Load(); n > 0 {
		fmt.Printf("Skipped:  %d (interrupted)\n", n)
	}
	fmt.Printf("Time:     %s\n", time.Since(start).Round(time.Second))

	return nil
}

// expandRelated merges owners from the related-videos endpoint into mids.
// Failures here only shrink the candidate set, never abort the run.
func expandRelated(ctx context.Context, api *bili.Client, pageURL string, mids []string, delay time.Duration, logSvc *ui.Logger) []string {
	bvid := bili.BVIDFromURL(pageURL)
	if bvid == "" {
		logSvc.Debugf("expand: no BV id in %s, skipping", pageURL)
		return mids
	}

	if delay > 0 {
		time.Sleep(delay)
	}

	extra, err := api.Related(ctx, bvid)
	if err != nil {
		logSvc.Warnf("expand: related fetch failed: %v", err)
		return mids
	}

	logSvc.Debugf("expand: %d owners from related videos", len(extra))
	return extract.Merge(mids, extra)
}
