package cmd

import (
	"bufio"
	"fmt"
	"os"
	"strings"

	"order-sync/core/reconcile"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

// yesConfirm skips the interactive prompt of cache add.
var yesConfirm bool

// cacheCmd is the parent command for idempotency cache operations.
var cacheCmd = &cobra.Command{
	Use:   "cache",
	Short: "Inspect or seed the idempotency cache",
}

// cacheShowCmd prints the settled external codes.
var cacheShowCmd = &cobra.Command{
	Use:   "show",
	Short: "List external codes recorded as settled",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, l, err := loadConfigAndLogger()
		if err != nil {
			return err
		}
		defer l.Sync()

		cache := reconcile.NewFileCache(cfg.Sync.CachePath, l)
		entries, err := cache.Entries()
		if err != nil {
			return err
		}

		l.Info("Idempotency cache",
			zap.String("path", cache.Path()),
			zap.Int("count", len(entries)),
		)
		for _, code := range entries {
			fmt.Fprintln(cmd.OutOrStdout(), code)
		}
		return nil
	},
}

// cacheAddCmd marks external codes as settled so runs skip them.
var cacheAddCmd = &cobra.Command{
	Use:   "add <external-code>...",
	Short: "Mark external codes as settled",
	Long: `Records external codes in the idempotency cache. Later runs skip these
orders without querying Tiendanube, so only add orders that are already
packed, shipped and paid there.

Examples:
  order-sync cache add A123 B456
  order-sync cache add A123 --yes`,
	Args: cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, l, err := loadConfigAndLogger()
		if err != nil {
			return err
		}
		defer l.Sync()

		if !confirmCacheAdd(args) {
			l.Warn("Operation cancelled by user. No changes were made.")
			return nil
		}

		cache := reconcile.NewFileCache(cfg.Sync.CachePath, l)
		for _, code := range args {
			if err := cache.Add(code); err != nil {
				return fmt.Errorf("add %s: %w", code, err)
			}
			l.Info("Marked order as settled", zap.String("external_code", code))
		}
		return nil
	},
}

func init() {
	cacheAddCmd.Flags().BoolVar(&yesConfirm, "yes", false, "Auto-confirm (non-interactive)")
	cacheCmd.AddCommand(cacheShowCmd, cacheAddCmd)
	RootCmd.AddCommand(cacheCmd)
}

// confirmCacheAdd prompts the user for confirmation or uses --yes flag.
func confirmCacheAdd(codes []string) bool {
	if yesConfirm {
		return true
	}

	fmt.Printf("\nRuns will skip %s. Type 'yes' to confirm: ", strings.Join(codes, ", "))
	reader := bufio.NewReader(os.Stdin)
	response, err := reader.ReadString('\n')
	if err != nil {
		return false
	}
	return strings.TrimSpace(response) == "yes"
}
