package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/clustgo/clust/internal/messages"
)

var mediaTypeCmd = &cobra.Command{
	Use:   "media-type <path>...",
	Short: "Print the image media type for file paths",
	Long:  "Map each path's extension to the media type sent with image content. Files are not opened.",
	Args:  cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		out := cmd.OutOrStdout()
		for _, path := range args {
			mediaType, err := messages.ImageMediaTypeFromPath(path)
			if err != nil {
				return err
			}
			if len(args) == 1 {
				_, err = fmt.Fprintln(out, mediaType)
			} else {
				_, err = fmt.Fprintf(out, "%s\t%s\n", path, mediaType)
			}
			if err != nil {
				return err
			}
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(mediaTypeCmd)
}
