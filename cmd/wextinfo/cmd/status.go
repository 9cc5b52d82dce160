package cmd

import (
	"fmt"
	"io"
	"net"
	"strings"
	"text/tabwriter"

	"github.com/mdlayher/wext"
	"github.com/spf13/cobra"
	"k8s.io/klog/v2"
)

const separator = "-------------------------------------------------------------------------------"

var statusCmd = &cobra.Command{
	Use:   "status",
	Short: "Print the radio status of wireless interfaces",
	Long: `Query each interface for its range info and current frequency, and
print its channel, Wireless Extensions versions and capabilities.

Drivers compiled against an unexpected Wireless Extensions version are
reported once as a warning.`,
	Args: cobra.NoArgs,
	RunE: runStatus,
}

func init() {
	rootCmd.AddCommand(statusCmd)
}

func runStatus(cmd *cobra.Command, _ []string) error {
	c, err := wext.New()
	if err != nil {
		return fmt.Errorf("failed to open client: %w", err)
	}
	defer c.Close()

	ifis, err := selectInterfaces(c, interfaceNames)
	if err != nil {
		return fmt.Errorf("failed to list interfaces: %w", err)
	}
	if len(ifis) == 0 {
		return fmt.Errorf("no wireless interfaces found")
	}

	var a wext.Advisor
	for _, ifi := range ifis {
		klog.V(2).Infof("querying range info for %s", ifi.Name)

		r, err := c.RangeInfo(ifi)
		if err != nil {
			klog.Errorf("%s: %v", ifi.Name, err)
			continue
		}

		for _, adv := range a.Check(r) {
			klog.Warningf("%s: %s", ifi.Name, adv)
		}

		f, err := c.Frequency(ifi)
		if err != nil {
			klog.Errorf("%s: failed to get frequency: %v", ifi.Name, err)
			f = wext.Freq{}
		}
		klog.V(2).Infof("%s: frequency %v, %d channels in range", ifi.Name, f.Float64(), r.Channels)

		bssid, err := c.BSSID(ifi)
		if err != nil {
			klog.V(2).Infof("%s: no BSSID: %v", ifi.Name, err)
		}

		if err := writeStatus(cmd.OutOrStdout(), ifi, r, f, bssid); err != nil {
			return err
		}
	}

	return nil
}

// writeStatus prints a key/value summary of ifi's range info r, tuned to f
// and associated with bssid if it is set.
func writeStatus(w io.Writer, ifi *wext.Interface, r *wext.Range, f wext.Freq, bssid net.HardwareAddr) error {
	tw := tabwriter.NewWriter(w, 0, 8, 1, ' ', 0)

	fmt.Fprintf(tw, "Interface\t: %s\n", ifi.Name)
	if len(ifi.HardwareAddr) > 0 {
		fmt.Fprintf(tw, "MAC\t: %s\n", strings.ToUpper(ifi.HardwareAddr.String()))
	}
	if ifi.Protocol != "" {
		fmt.Fprintf(tw, "Protocol\t: %s\n", ifi.Protocol)
	}

	if len(bssid) > 0 {
		fmt.Fprintf(tw, "Access Point\t: %s\n", strings.ToUpper(bssid.String()))
	}

	ch := r.Channel(f.Float64())
	if ch < 0 {
		ch = 0
	}
	fmt.Fprintf(tw, "Channel Main\t: %d\n", ch)
	fmt.Fprintf(tw, "WE Version\t: %d (source %d)\n", r.CompiledVersion, r.SourceVersion)
	fmt.Fprintf(tw, "Bitrates\t: %s\n", formatBitrates(r.Bitrates))
	fmt.Fprintf(tw, "TX Power\t: %s\n", formatInts(r.TxPower))
	fmt.Fprintf(tw, "Max Quality\t: %d/%d/%d\n", r.MaxQuality.Quality, r.MaxQuality.Level, r.MaxQuality.Noise)

	if err := tw.Flush(); err != nil {
		return err
	}

	_, err := fmt.Fprintln(w, separator)
	return err
}

func formatBitrates(rates []int32) string {
	if len(rates) == 0 {
		return "none"
	}

	ss := make([]string, 0, len(rates))
	for _, r := range rates {
		// Legacy rates such as 5.5M are not whole megabits.
		if r%1e6 == 0 {
			ss = append(ss, fmt.Sprintf("%dM", r/1e6))
		} else {
			ss = append(ss, fmt.Sprintf("%gM", float64(r)/1e6))
		}
	}

	return strings.Join(ss, " ")
}

func formatInts(vs []int32) string {
	if len(vs) == 0 {
		return "none"
	}

	ss := make([]string, 0, len(vs))
	for _, v := range vs {
		ss = append(ss, fmt.Sprint(v))
	}

	return strings.Join(ss, " ")
}
