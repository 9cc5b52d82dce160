package cmd

import (
	"encoding/hex"
	"fmt"

	"github.com/mdlayher/wext"
	"github.com/mdlayher/wext/internal/iwioctl"
	"github.com/spf13/cobra"
	"k8s.io/klog/v2"
)

var (
	queryRequest uint
	querySize    int
)

var queryCmd = &cobra.Command{
	Use:   "query <interface>",
	Short: "Dump the raw result of a Wireless Extensions request",
	Long: `Issue a pointer-style Wireless Extensions request, such as a driver
private ioctl, and hex dump the bytes the driver returns.

The default request reads the Ralink MAC table.

Examples:
  wextinfo query ra0
  wextinfo query wlan0 --request 0x8b0b --size 1024`,
	Args: cobra.ExactArgs(1),
	RunE: runQuery,
}

func init() {
	rootCmd.AddCommand(queryCmd)
	queryCmd.Flags().UintVarP(&queryRequest, "request", "r", iwioctl.RTPrivIoctlGetMACTableStruct, "request number")
	queryCmd.Flags().IntVarP(&querySize, "size", "s", 4096, "size of the result buffer in bytes")
}

func runQuery(cmd *cobra.Command, args []string) error {
	c, err := wext.New()
	if err != nil {
		return fmt.Errorf("failed to open client: %w", err)
	}
	defer c.Close()

	klog.V(2).Infof("%s: request %#x, %d byte buffer", args[0], queryRequest, querySize)

	b, err := c.Query(&wext.Interface{Name: args[0]}, queryRequest, querySize)
	if err != nil {
		return err
	}

	_, err = fmt.Fprint(cmd.OutOrStdout(), hex.Dump(b))
	return err
}
