package main

import (
	"fmt"
	"os"

	"github.com/btcsuite/btclog"
	"github.com/ravencoin-community/ravenspv/pkg/bitcoin"
	"github.com/ravencoin-community/ravenspv/pkg/spvpeer"
	"github.com/spf13/cobra"
)

const Version = "0.1.0"

var (
	cfgFile  string
	dataDir  string
	testnet  bool
	regtest  bool
	verbose  bool
	backend  = btclog.NewBackend(os.Stdout)
)

var rootCmd = &cobra.Command{
	Use:     "spvpeer",
	Short:   "A Ravencoin SPV peer",
	Version: Version,
	Long: `spvpeer drives a single Simplified Payment Verification session
against a Ravencoin node: header sync, bloom-filtered tx/merkleblock
relay, and asset-metadata lookups, with no full-block validation.`,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		level := btclog.LevelInfo
		if verbose {
			level = btclog.LevelDebug
		}
		logger := backend.Logger("SPVP")
		logger.SetLevel(level)
		spvpeer.UseLogger(logger)
		bitcoin.UseLogger(backend.Logger("MGR"))
		return nil
	},
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&cfgFile, "config", "c", "", "config file (accepted but not read)")
	rootCmd.PersistentFlags().StringVarP(&dataDir, "datadir", "d", "", "data directory (accepted but not used)")
	rootCmd.PersistentFlags().BoolVarP(&testnet, "testnet", "t", false, "use testnet")
	rootCmd.PersistentFlags().BoolVarP(&regtest, "regtest", "r", false, "use regtest mode")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "verbose output")
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
