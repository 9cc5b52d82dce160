package cmd

import (
	"fmt"
	"strconv"
	"text/tabwriter"

	"github.com/mdlayher/wext"
	"github.com/spf13/cobra"
)

var rateINIC bool

var rateCmd = &cobra.Command{
	Use:   "rate <word>...",
	Short: "Decode transmit-setting words into PHY rates",
	Long: `Decode 16-bit Ralink/MediaTek transmit-setting words, as found in driver
MAC tables, and print the PHY settings and rate they describe.

Words may be given in decimal, hex (0x) or octal (0) notation.

Examples:
  wextinfo rate 0x4007 0x6187
  wextinfo rate --inic 0x8187`,
	Args: cobra.MinimumNArgs(1),
	RunE: runRate,
}

func init() {
	rootCmd.AddCommand(rateCmd)
	rateCmd.Flags().BoolVar(&rateINIC, "inic", false, "decode words in the RT3352 iNIC layout")
}

func runRate(cmd *cobra.Command, args []string) error {
	parse := wext.ParseTransmitSetting
	if rateINIC {
		parse = wext.ParseINICTransmitSetting
	}

	tw := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 8, 2, ' ', 0)
	fmt.Fprintln(tw, "WORD\tPHYMODE\tBW\tMCS\tSS\tSGI\tLDPC\tSTBC\tRATE")

	for _, arg := range args {
		v, err := strconv.ParseUint(arg, 0, 16)
		if err != nil {
			return fmt.Errorf("invalid transmit-setting word %q: %w", arg, err)
		}

		s := parse(uint16(v))
		fmt.Fprintf(tw, "%#06x\t%s\t%s\t%d\t%d\t%s\t%s\t%s\t%dM\n",
			v, s.Mode, s.Bandwidth, s.MCS(), s.Streams(),
			yesNo(s.ShortGI), yesNo(s.LDPC), yesNo(s.STBC), s.Rate())
	}

	return tw.Flush()
}
