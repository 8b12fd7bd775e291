package catalog

import (
	"io"

	"github.com/spf13/cobra"

	"github.com/agentstation/overlaysync/cmd/overlaysync/context"
	pkgcatalog "github.com/agentstation/overlaysync/pkg/catalog"
	"github.com/agentstation/overlaysync/pkg/errors"
	"github.com/agentstation/overlaysync/pkg/persist"
)

// GenerateFlags holds the catalog generate flags.
type GenerateFlags struct {
	From          string
	Output        string
	HairColors    string
	GenericColors string
}

// NewGenerateCommand creates the catalog generate command.
func NewGenerateCommand(appCtx context.Context) *cobra.Command {
	flags := &GenerateFlags{}
	cmd := &cobra.Command{
		Use:   "generate",
		Short: "Build a catalog from the game's cosmetic asset files",
		Long: `Generate reads the cosmetic asset definitions (Haircuts.json, Capes.json, ...)
and the HairColors.json / GenericColors.json palettes from a directory and
writes every value an override may use, in natural order.`,
		Args: cobra.NoArgs,
		Example: `  overlaysync catalog generate --from ./Cosmetics
  overlaysync catalog generate --from ./Cosmetics --output allowed_cosmetics.json`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return RunGenerate(cmd.OutOrStdout(), appCtx, flags)
		},
	}
	cmd.Flags().StringVar(&flags.From, "from", ".", "Directory holding the asset definition files")
	cmd.Flags().StringVar(&flags.Output, "output", "", "Write the catalog to this file instead of stdout")
	cmd.Flags().StringVar(&flags.HairColors, "hair-colors", pkgcatalog.DefaultHairColorFile, "Hair palette file name")
	cmd.Flags().StringVar(&flags.GenericColors, "generic-colors", pkgcatalog.DefaultGenericColorFile, "Generic palette file name")
	return cmd
}

// RunGenerate builds the catalog and prints it, or replaces the output file
// atomically.
func RunGenerate(w io.Writer, appCtx context.Context, flags *GenerateFlags) error {
	if flags.From == "" {
		return &errors.ValidationError{Field: "from", Message: "directory is required"}
	}
	logger := appCtx.Logger()

	cat, err := pkgcatalog.Generate(flags.From,
		pkgcatalog.WithColorFiles(flags.HairColors, flags.GenericColors),
		pkgcatalog.WithGenerateLogger(*logger),
	)
	if err != nil {
		return err
	}
	data, err := cat.Encode()
	if err != nil {
		return err
	}

	if flags.Output == "" {
		_, err = w.Write(append(data, '\n'))
		return err
	}
	if err := persist.New().Write(flags.Output, data); err != nil {
		return err
	}
	logger.Info().
		Str("path", flags.Output).
		Int("keys", cat.Len()).
		Msg("Catalog written")
	return nil
}
