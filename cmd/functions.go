package cmd

import (
	"github.com/spf13/cobra"

	"github.com/cube2222/octosubstrait/functions"
)

var functionsCmd = &cobra.Command{
	Use:   "functions [name]",
	Short: "List the declared function variants.",
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		env, err := loadEnvironment()
		if err != nil {
			return err
		}

		formatter, err := newFormatter("kind", "signature", "return", "intermediate", "uri")
		if err != nil {
			return err
		}

		for _, kind := range []functions.VariantKind{functions.VariantKindScalar, functions.VariantKindAggregate} {
			names := env.catalog.Names(kind)
			if len(args) == 1 {
				names = []string{args[0]}
			}
			for _, name := range names {
				for _, variant := range env.catalog.Function(kind, name) {
					intermediate := ""
					if variant.Intermediate != nil {
						intermediate = variant.Intermediate.Signature()
					}
					if err := formatter.Write([]string{kind.String(), variant.Signature(), variant.Return.Signature(), intermediate, variant.URI}); err != nil {
						return err
					}
				}
			}
		}
		return formatter.Close()
	},
}

func init() {
	rootCmd.AddCommand(functionsCmd)
}
