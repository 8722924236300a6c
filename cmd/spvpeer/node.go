package main

import (
	"fmt"
	"net"
	"os"
	"os/signal"
	"strconv"
	"syscall"
	"time"

	"github.com/ravencoin-community/ravenspv/pkg/bitcoin"
	"github.com/ravencoin-community/ravenspv/pkg/wire"
	"github.com/spf13/cobra"
)

var connectCmd = &cobra.Command{
	Use:   "connect <host:port>",
	Short: "Connect to a single Ravencoin peer and track its header chain",
	Args:  cobra.ExactArgs(1),
	RunE:  runConnect,
}

func init() {
	connectCmd.Flags().String("earliest-key-time", "", "RFC3339 wallet creation time; sync switches from getheaders to getblocks for headers from 7 days before this time onward")
	connectCmd.Flags().Int32("current-height", 0, "local tip height, used for tarpit detection")
	rootCmd.AddCommand(connectCmd)
}

func selectParams() wire.Params {
	switch {
	case regtest:
		return wire.RegtestParams
	case testnet:
		return wire.TestNetParams
	default:
		return wire.MainNetParams
	}
}

func runConnect(cmd *cobra.Command, args []string) error {
	host, portStr, err := net.SplitHostPort(args[0])
	if err != nil {
		return fmt.Errorf("spvpeer: %s: %w", args[0], err)
	}
	port, err := strconv.ParseUint(portStr, 10, 16)
	if err != nil {
		return fmt.Errorf("spvpeer: invalid port %q: %w", portStr, err)
	}

	var earliestKeyTime time.Time
	if s, _ := cmd.Flags().GetString("earliest-key-time"); s != "" {
		earliestKeyTime, err = time.Parse(time.RFC3339, s)
		if err != nil {
			return fmt.Errorf("spvpeer: --earliest-key-time: %w", err)
		}
	}

	params := selectParams()
	mgr := bitcoin.NewManager(params, fmt.Sprintf("/spvpeer:%s/", Version))

	fmt.Printf("connecting to %s on %s\n", args[0], params.Name)
	peer, err := mgr.AddPeer(host, uint16(port))
	if err != nil {
		return fmt.Errorf("spvpeer: connect: %w", err)
	}

	if !earliestKeyTime.IsZero() {
		peer.SetEarliestKeyTime(earliestKeyTime)
	}
	if height, _ := cmd.Flags().GetInt32("current-height"); height != 0 {
		peer.SetCurrentBlockHeight(height)
	}

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, os.Interrupt, syscall.SIGTERM)

	ticker := time.NewTicker(5 * time.Second)
	defer ticker.Stop()

	for {
		select {
		case <-sigCh:
			fmt.Println("shutting down")
			mgr.Stop()
			return nil
		case <-ticker.C:
			hash, height := mgr.BestBlock()
			fmt.Printf("peers=%d headers=%d tip=%s@%d\n", mgr.PeerCount(), mgr.HeaderCount(), hash, height)
			if mgr.PeerCount() == 0 {
				mgr.Stop()
				return fmt.Errorf("spvpeer: peer disconnected")
			}
		}
	}
}
