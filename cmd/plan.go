package cmd

import (
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"
	substraitpb "github.com/substrait-io/substrait-go/proto"

	"github.com/cube2222/octosubstrait/collector"
	"github.com/cube2222/octosubstrait/expressions"
	"github.com/cube2222/octosubstrait/lookup"
	"github.com/cube2222/octosubstrait/serialization"
	"github.com/cube2222/octosubstrait/types"
)

var planOutput string

var planCmd = &cobra.Command{
	Use:   "plan <function[:type,type...]>...",
	Short: "Print the extension declarations of a plan calling the given functions.",
	Example: `octosubstrait plan "plus:i8,i8" "lt:i32,i32" "sum:i64"
octosubstrait plan --output plan.bin "count"`,
	Args: cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		env, err := loadEnvironment()
		if err != nil {
			return err
		}

		c := collector.New()
		for _, call := range args {
			query, err := parseCall(call)
			if err != nil {
				return err
			}
			variant, ok := env.scalar.LookupFunction(query)
			if !ok {
				variant, ok = env.aggregate.LookupFunction(query)
			}
			if !ok {
				return fmt.Errorf("%s: %w", query, expressions.ErrNoMatchingVariant)
			}
			c.FunctionReference(variant)
			if variant.BoundReturn().TypeID == types.TypeIDUserDefined {
				resolver := &collector.TypeResolver{Collector: c, Types: env.types}
				if _, err := resolver.TypeReference(variant.BoundReturn().UserDefined.Name); err != nil {
					return fmt.Errorf("couldn't reference return type of %s: %w", variant.Signature(), err)
				}
			}
		}

		plan := &substraitpb.Plan{}
		c.Flush(plan)

		if planOutput != "" {
			data, err := serialization.Serialize(plan)
			if err != nil {
				return err
			}
			if err := os.WriteFile(planOutput, data, 0644); err != nil {
				return fmt.Errorf("couldn't write plan: %w", err)
			}
			return nil
		}

		data, err := serialization.MarshalJSON(plan)
		if err != nil {
			return err
		}
		fmt.Println(string(data))
		return nil
	},
}

// parseCall parses name:type,type,... into a lookup query.
func parseCall(call string) (lookup.Signature, error) {
	name, args, found := strings.Cut(call, ":")
	if !found || args == "" {
		return lookup.Signature{Name: name}, nil
	}
	// The argument list has the same shape as a struct's fields.
	fields, err := types.Decode("struct<" + args + ">")
	if err != nil {
		return lookup.Signature{}, fmt.Errorf("couldn't decode argument types of '%s': %w", call, err)
	}
	return lookup.Signature{Name: name, Arguments: fields.Struct.Fields}, nil
}

func init() {
	planCmd.Flags().StringVarP(&planOutput, "output", "o", "", "Write the binary plan to this file instead of printing it as JSON.")
	rootCmd.AddCommand(planCmd)
}
