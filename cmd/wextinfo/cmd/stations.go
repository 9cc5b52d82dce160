package cmd

import (
	"fmt"
	"io"
	"sort"
	"strings"
	"text/tabwriter"
	"time"

	"github.com/mdlayher/wext"
	"github.com/spf13/cobra"
	"k8s.io/klog/v2"
)

var (
	stationsMACTable bool
	stationsINIC     bool
	stationsChains   int
)

var stationsCmd = &cobra.Command{
	Use:   "stations",
	Short: "List associated stations and their PHY rates",
	Long: `List the stations associated with each interface along with the PHY
mode, bandwidth, MCS and coding of their transmit settings and the rate
those settings imply.

Station information is read over nl80211. Interfaces of vendor drivers
which only implement Wireless Extensions are read from the driver's MAC
table instead.

Examples:
  wextinfo stations -i wlan0
  wextinfo stations -i ra0,rai0 --mac-table
  wextinfo stations -i rai0 --inic --chains 2`,
	Args: cobra.NoArgs,
	RunE: runStations,
}

func init() {
	rootCmd.AddCommand(stationsCmd)
	stationsCmd.Flags().BoolVar(&stationsMACTable, "mac-table", false, "always read the Ralink MAC table instead of nl80211")
	stationsCmd.Flags().BoolVar(&stationsINIC, "inic", false, "read the RT3352 iNIC MAC table (implies --mac-table)")
	stationsCmd.Flags().IntVar(&stationsChains, "chains", 3, "number of receive chains considered for RSSI")
}

func runStations(cmd *cobra.Command, _ []string) error {
	c, err := wext.New()
	if err != nil {
		return fmt.Errorf("failed to open client: %w", err)
	}
	defer c.Close()

	ifis, err := selectInterfaces(c, interfaceNames)
	if err != nil {
		return fmt.Errorf("failed to list interfaces: %w", err)
	}

	format := wext.MACTableDefault
	if stationsINIC {
		format = wext.MACTableINIC
	}

	w := cmd.OutOrStdout()
	for _, ifi := range ifis {
		if !stationsMACTable && !stationsINIC {
			stations, err := c.StationInfo(ifi)
			if err == nil {
				klog.V(2).Infof("%s: %d stations over nl80211", ifi.Name, len(stations))
				if err := writeStations(w, ifi, stations); err != nil {
					return err
				}
				continue
			}

			klog.V(2).Infof("%s: nl80211 station info unavailable, reading MAC table: %v", ifi.Name, err)
		}

		entries, err := c.MACTable(ifi, format)
		if err != nil {
			klog.Errorf("%s: %v", ifi.Name, err)
			continue
		}

		klog.V(2).Infof("%s: %d stations in %s MAC table", ifi.Name, len(entries), format)
		if err := writeMACTable(w, ifi, entries, stationsChains); err != nil {
			return err
		}
	}

	return nil
}

// writeStations prints one row per station associated with ifi, as
// reported by nl80211.
func writeStations(w io.Writer, ifi *wext.Interface, stations []*wext.StationInfo) error {
	fmt.Fprintf(w, "\n%s Stations List\n%s\n", ifi.Name, separator)

	tw := tabwriter.NewWriter(w, 0, 8, 1, ' ', 0)
	fmt.Fprintln(tw, "MAC\tPhyMode\tBW\tMCS\tSGI\tLDPC\tSTBC\tTRate\tRSSI\tConnect Time")

	for _, s := range stations {
		fmt.Fprintf(tw, "%s\t%s\t%d\t%s\n",
			strings.ToUpper(s.HardwareAddr.String()),
			formatSetting(s.TransmitSetting, s.TransmitSettingKnown, s.TransmitBitrate),
			s.Signal,
			formatConnected(s.Connected),
		)
	}

	if err := tw.Flush(); err != nil {
		return err
	}

	_, err := fmt.Fprintln(w, separator)
	return err
}

// writeMACTable prints the stations of a Ralink MAC table, one list per
// BSS. RSSI is taken over the first chains receive chains.
func writeMACTable(w io.Writer, ifi *wext.Interface, entries []*wext.MACEntry, chains int) error {
	byAP := make(map[int][]*wext.MACEntry)
	aps := []int{0}
	for _, e := range entries {
		if _, ok := byAP[e.APIndex]; !ok && e.APIndex != 0 {
			aps = append(aps, e.APIndex)
		}
		byAP[e.APIndex] = append(byAP[e.APIndex], e)
	}
	sort.Ints(aps)

	for _, ap := range aps {
		fmt.Fprintf(w, "\n%s AP %s Stations List\n%s\n", ifi.Name, apName(ap), separator)

		tw := tabwriter.NewWriter(w, 0, 8, 1, ' ', 0)
		fmt.Fprintln(tw, "MAC\tPhyMode\tBW\tMCS\tSGI\tLDPC\tSTBC\tTRate\tRSSI\tPSM\tConnect Time")

		for _, e := range byAP[ap] {
			fmt.Fprintf(tw, "%s\t%s\t%d\t%s\t%s\n",
				strings.ToUpper(e.HardwareAddr.String()),
				formatSetting(e.TransmitSetting, true, 0),
				e.Signal(chains),
				yesNo(e.PowerSave),
				formatConnected(e.Connected),
			)
		}

		if err := tw.Flush(); err != nil {
			return err
		}

		if _, err := fmt.Fprintln(w, separator); err != nil {
			return err
		}
	}

	return nil
}

func apName(ap int) string {
	switch ap {
	case 0:
		return "Main"
	case 1:
		return "Guest"
	default:
		return fmt.Sprintf("%d", ap)
	}
}

// formatSetting renders the PhyMode through TRate columns of s. Settings
// outside the Ralink rate table show the kernel's bitrate instead.
func formatSetting(s wext.TransmitSetting, known bool, bitrate int) string {
	if !known {
		return fmt.Sprintf("N/A\tN/A\t-\t-\t-\t-\t%dM", bitrate/1e6)
	}

	return fmt.Sprintf("%s\t%s\t%d\t%s\t%s\t%s\t%dM",
		s.Mode,
		s.Bandwidth,
		s.MCS(),
		yesNo(s.ShortGI),
		yesNo(s.LDPC),
		yesNo(s.STBC),
		s.Rate(),
	)
}

func yesNo(b bool) string {
	if b {
		return "YES"
	}
	return "NO"
}

// formatConnected renders d as hh:mm:ss.
func formatConnected(d time.Duration) string {
	s := int(d / time.Second)
	return fmt.Sprintf("%02d:%02d:%02d", s/3600, (s/60)%60, s%60)
}
