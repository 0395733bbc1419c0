package cli

import (
	"fmt"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/liangcun/ConceptsOfSpatialInformation/internal/serialize"
)

// formatsCmd lists the supported output formats
var formatsCmd = &cobra.Command{
	Use:   "formats",
	Short: "List supported output formats",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		tw := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 0, 2, ' ', 0)
		fmt.Fprintln(tw, "FORMAT\tEXT\tMIME TYPE\tDESCRIPTION")
		for _, info := range serialize.Formats() {
			fmt.Fprintf(tw, "%s\t.%s\t%s\t%s\n", info.Name, info.Extension, info.MIMEType, info.Description)
		}
		return tw.Flush()
	},
}

func init() {
	rootCmd.AddCommand(formatsCmd)
}
