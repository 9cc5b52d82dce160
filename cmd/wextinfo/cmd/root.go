package cmd

import (
	"flag"
	"fmt"
	"net"
	"os"

	"github.com/mdlayher/wext"
	"github.com/spf13/cobra"
	"k8s.io/klog/v2"
)

var (
	// Global flags
	interfaceNames []string
)

var rootCmd = &cobra.Command{
	Use:   "wextinfo",
	Short: "Wireless Extensions radio status and PHY rate decoder",
	Long: `wextinfo reports the capabilities, channel and stations of wireless
interfaces, including those of vendor drivers which only implement Wireless
Extensions, and decodes Ralink/MediaTek transmit-setting words.

Examples:
  wextinfo status                      # All wireless interfaces
  wextinfo status -i ra0,rai0          # Selected interfaces
  wextinfo stations -i wlan0           # Station PHY rates over nl80211
  wextinfo rate 0x8187 --inic          # Decode an RT3352 iNIC word
  wextinfo query ra0 --request 0x8bff  # Dump a driver private request`,
	SilenceUsage: true,
}

// Execute runs the root command
func Execute() {
	err := rootCmd.Execute()
	klog.Flush()

	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func init() {
	fs := flag.NewFlagSet("klog", flag.ExitOnError)
	klog.InitFlags(fs)
	rootCmd.PersistentFlags().AddGoFlagSet(fs)

	rootCmd.PersistentFlags().StringSliceVarP(&interfaceNames, "interface", "i",
		parseInterfaces(getEnv(envInterfaces, "")),
		"interfaces to report, comma separated (default $"+envInterfaces+" or every wireless interface)")
}

// selectInterfaces returns the named interfaces, or every wireless
// interface c can find when names is empty.
func selectInterfaces(c *wext.Client, names []string) ([]*wext.Interface, error) {
	if len(names) == 0 {
		return c.Interfaces()
	}

	ifis := make([]*wext.Interface, 0, len(names))
	for _, name := range names {
		nifi, err := net.InterfaceByName(name)
		if err != nil {
			return nil, fmt.Errorf("interface %q: %w", name, err)
		}

		ifis = append(ifis, &wext.Interface{
			Index:        nifi.Index,
			Name:         nifi.Name,
			HardwareAddr: nifi.HardwareAddr,
		})
	}

	return ifis, nil
}
