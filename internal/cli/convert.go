package cli

import (
	"fmt"
	"os"

	"github.com/dustin/go-humanize"
	"github.com/spf13/cobra"

	"github.com/matzehuels/voxelgraph/pkg/voxel"
)

// convertCommand re-encodes a voxel array.
func (c *CLI) convertCommand() *cobra.Command {
	var to, compress string
	var phases int

	cmd := &cobra.Command{
		Use:   "convert <input> <output>",
		Short: "Re-encode a voxel array as text or binary, optionally compressed",
		Long: `Convert reads any supported voxel array (text or binary, plain, gzip, zstd
or snappy; detected automatically) and writes it in the requested encoding.`,
		Example: `  voxelgraph convert sample.txt sample.vxg --to binary --compress zstd
  voxelgraph convert sample.vxg sample.txt`,
		Args: cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			comp, err := voxel.ParseCompression(compress)
			if err != nil {
				return err
			}
			if _, err := voxel.LookupFormat(to); err != nil {
				return err
			}

			prog := newProgress(c.Logger)
			a, err := voxel.ReadFile(args[0], voxel.ReadOptions{Phases: phases})
			if err != nil {
				return err
			}
			if err := voxel.WriteFile(args[1], a, voxel.WriteOptions{Format: to, Compression: comp}); err != nil {
				return err
			}
			prog.done(fmt.Sprintf("Converted %d voxels", a.Len()))

			printSuccess("Converted %s", args[0])
			printKeyValue("grid", a.Dims.String())
			printKeyValue("voxels", humanize.Comma(int64(a.Len())))
			printKeyValue("encoding", fmt.Sprintf("%s, %s", to, comp))
			if fi, err := os.Stat(args[1]); err == nil {
				printFileSize(args[1], fi.Size())
			} else {
				printFile(args[1])
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&to, "to", voxel.FormatText, fmt.Sprintf("output format: %v", voxel.FormatNames()))
	cmd.Flags().StringVar(&compress, "compress", "none", "output compression: none, gzip, zstd, snappy")
	cmd.Flags().IntVarP(&phases, "phases", "n", 0, "reject labels outside [0, phases) (0 disables the check)")

	return cmd
}
