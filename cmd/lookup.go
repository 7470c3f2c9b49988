package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/cube2222/octosubstrait/expressions"
	"github.com/cube2222/octosubstrait/functions"
	"github.com/cube2222/octosubstrait/lookup"
	"github.com/cube2222/octosubstrait/types"
)

var lookupAggregate bool
var lookupReturnType string

var lookupCmd = &cobra.Command{
	Use:   "lookup <function> [type]...",
	Short: "Find the function variant matching a call with the given argument types.",
	Example: `octosubstrait lookup plus i8 i8
octosubstrait lookup lt "decimal<10,2>" "decimal<10,2>"
octosubstrait lookup --aggregate --return fp64 avg "struct<fp64,i64>"`,
	Args: cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		env, err := loadEnvironment()
		if err != nil {
			return err
		}

		query := lookup.Signature{Name: args[0]}
		for _, raw := range args[1:] {
			t, err := types.Decode(raw)
			if err != nil {
				return fmt.Errorf("couldn't decode argument type '%s': %w", raw, err)
			}
			query.Arguments = append(query.Arguments, t)
		}
		if lookupReturnType != "" {
			t, err := types.Decode(lookupReturnType)
			if err != nil {
				return fmt.Errorf("couldn't decode return type '%s': %w", lookupReturnType, err)
			}
			query.Return = &t
		}

		functionLookup := env.scalar
		if lookupAggregate {
			functionLookup = env.aggregate
		}
		variant, ok := functionLookup.LookupFunction(query)
		if !ok {
			return fmt.Errorf("%s: %w", query, expressions.ErrNoMatchingVariant)
		}

		return printVariant(variant)
	},
}

func printVariant(variant *functions.Variant) error {
	formatter, err := newFormatter("property", "value")
	if err != nil {
		return err
	}
	rows := [][]string{
		{"name", variant.Name},
		{"kind", variant.Kind.String()},
		{"uri", variant.URI},
		{"signature", variant.Signature()},
		{"declared", variant.DeclaredSignature()},
		{"return", variant.BoundReturn().Signature()},
	}
	if variant.Intermediate != nil {
		rows = append(rows, []string{"intermediate", variant.Intermediate.Signature()})
	}
	if variant.Description != "" {
		rows = append(rows, []string{"description", variant.Description})
	}
	for _, row := range rows {
		if err := formatter.Write(row); err != nil {
			return err
		}
	}
	return formatter.Close()
}

func init() {
	lookupCmd.Flags().BoolVar(&lookupAggregate, "aggregate", false, "Look up an aggregate function.")
	lookupCmd.Flags().StringVar(&lookupReturnType, "return", "", "Expected return type.")
	rootCmd.AddCommand(lookupCmd)
}
