package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/cube2222/octosubstrait/collector"
	"github.com/cube2222/octosubstrait/serialization"
	"github.com/cube2222/octosubstrait/types"
)

var printWire bool

var typeCmd = &cobra.Command{
	Use:   "type <type>...",
	Short: "Decode type strings and show their signatures.",
	Example: `octosubstrait type "decimal<10,2>" "struct<fp64,i64>"
octosubstrait type --wire "list<string>"`,
	Args: cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		env, err := loadEnvironment()
		if err != nil {
			return err
		}
		resolver := &collector.TypeResolver{
			Collector: collector.New(),
			Types:     env.types,
		}

		formatter, err := newFormatter("input", "signature", "declaration", "arrow")
		if err != nil {
			return err
		}
		var wire [][]byte
		for _, raw := range args {
			t, err := types.Decode(raw)
			if err != nil {
				return fmt.Errorf("couldn't decode '%s': %w", raw, err)
			}
			arrowType := "-"
			if dt, err := types.ToArrow(t); err == nil {
				arrowType = dt.String()
			}
			if err := formatter.Write([]string{raw, t.Signature(), t.TypeString(), arrowType}); err != nil {
				return err
			}

			if printWire {
				pt, err := types.ToProto(t, resolver)
				if err != nil {
					return fmt.Errorf("couldn't encode '%s': %w", raw, err)
				}
				data, err := serialization.MarshalJSON(pt)
				if err != nil {
					return err
				}
				wire = append(wire, data)
			}
		}
		if err := formatter.Close(); err != nil {
			return err
		}

		for _, data := range wire {
			fmt.Println(string(data))
		}
		return nil
	},
}

func init() {
	typeCmd.Flags().BoolVar(&printWire, "wire", false, "Also print the JSON wire representation of each type.")
	rootCmd.AddCommand(typeCmd)
}
