package cmd

import (
	"context"
	"encoding/json"
	"os"

	"github.com/jpfielding/dicomlut.go/pkg/lut"
	"github.com/spf13/cobra"
)

// NewLUTCmd dumps the tables of a render as JSON
func NewLUTCmd(ctx context.Context, st *state) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "lut [file]",
		Short: "dump the modality and VOI LUTs as JSON",
		Long:  "Resolves the window of a frame and prints the parameters and entries of every table the render would use.",
		RunE: func(cmd *cobra.Command, args []string) error {
			f, err := fetch(ctx, cmd)
			if err != nil {
				return err
			}
			img, err := frameImage(cmd, f)
			if err != nil {
				return err
			}
			opts, err := st.options(cmd, img)
			if err != nil {
				return err
			}
			tables, err := st.rd.Tables(img, opts...)
			if err != nil {
				return err
			}
			enc := json.NewEncoder(os.Stdout)
			enc.SetIndent("", "  ")
			return enc.Encode(struct {
				Window         any                `json:"window"`
				ModalityParams lut.ModalityParams `json:"modalityParams"`
				Modality       *lut.Table         `json:"modality,omitempty"`
				VOIParams      lut.VOIParams      `json:"voiParams"`
				VOI            *lut.Table         `json:"voi,omitempty"`
				Presentation   *lut.Table         `json:"presentation,omitempty"`
			}{
				Window: map[string]any{
					"width":    tables.Window.Width,
					"level":    tables.Window.Level,
					"minLevel": tables.Window.MinLevel,
					"maxLevel": tables.Window.MaxLevel,
					"shape":    tables.Window.Shape.String(),
				},
				ModalityParams: tables.ModalityParams,
				Modality:       tables.Modality,
				VOIParams:      tables.VOIParams,
				VOI:            tables.VOI,
				Presentation:   tables.Presentation,
			})
		},
	}
	fetchFlags(cmd)
	windowFlags(cmd)
	return cmd
}
