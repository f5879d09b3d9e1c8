package main

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/dgallion1/steelbid/internal/aisc"
	"github.com/dgallion1/steelbid/internal/estimate"
)

func newWeightCmd() *cobra.Command {
	var (
		length   float64
		quantity int
	)
	cmd := &cobra.Command{
		Use:   "weight <designation>",
		Short: "Look up the weight of a section",
		Long: `Resolve a section designation to its weight per foot and, given a
length, the total weight of the pieces.

Plates have no per-foot table weight; their weight is computed from
thickness, width and length.

Examples:
  steelbid weight W8x31
  steelbid weight "HSS 6x6x.25" --length 12 --quantity 4
  steelbid weight PL1/2X6 --length 2`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if quantity < 1 {
				return fmt.Errorf("quantity must be at least 1")
			}
			if length < 0 {
				return fmt.Errorf("length must not be negative")
			}
			designation := args[0]
			out := cmd.OutOrStdout()

			fmt.Fprintf(out, "Designation: %s\n", designation)
			fmt.Fprintf(out, "Table key:   %s\n", aisc.Normalize(designation))

			perFt := aisc.LbsPerFt(designation)
			if !perFt.Known && !perFt.Varies {
				fmt.Fprintln(out, "Lbs/ft:      not found in AISC table")
				return nil
			}
			fmt.Fprintf(out, "Lbs/ft:      %s\n", perFt)

			if length == 0 {
				return nil
			}
			if p, ok := aisc.PlateWeight(designation, length); ok {
				fmt.Fprintf(out, "Plate:       %s lbs/ft over %s ft\n", strconv.FormatFloat(p.LbsPerFt, 'f', -1, 64), strconv.FormatFloat(length, 'f', -1, 64))
			}
			total, ok := aisc.TotalWeight(designation, quantity, length)
			if !ok {
				fmt.Fprintln(out, "Total:       --")
				return nil
			}
			fmt.Fprintf(out, "Total:       %s (%d @ %s ft)\n", estimate.FormatWeight(total), quantity, strconv.FormatFloat(length, 'f', -1, 64))
			return nil
		},
	}
	cmd.Flags().Float64VarP(&length, "length", "l", 0, "Piece length (ft)")
	cmd.Flags().IntVarP(&quantity, "quantity", "q", 1, "Number of pieces")
	return cmd
}

func newNormalizeCmd() *cobra.Command {
	var trace bool
	cmd := &cobra.Command{
		Use:   "normalize <designation>",
		Short: "Show the table key a designation normalizes to",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			out := cmd.OutOrStdout()
			if !trace {
				fmt.Fprintln(out, aisc.Normalize(args[0]))
				return nil
			}
			s := args[0]
			fmt.Fprintf(out, "%-26s %q\n", "input", s)
			for _, r := range aisc.NormalizeRules {
				next := r.Apply(s)
				mark := " "
				if next != s {
					mark = "*"
				}
				fmt.Fprintf(out, "%-24s %s %q\n", r.Name, mark, next)
				s = next
			}
			return nil
		},
	}
	cmd.Flags().BoolVar(&trace, "trace", false, "Print the result of every normalization rule")
	return cmd
}

func newSectionsCmd() *cobra.Command {
	var prefix string
	cmd := &cobra.Command{
		Use:   "sections",
		Short: "List designations in the AISC weight table",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			keys := aisc.Sections(prefix)
			if len(keys) == 0 {
				return fmt.Errorf("no sections match %q", strings.ToUpper(prefix))
			}
			out := cmd.OutOrStdout()
			for _, k := range keys {
				w, _ := aisc.Lookup(k)
				fmt.Fprintf(out, "%-22s %s\n", k, strconv.FormatFloat(w, 'f', -1, 64))
			}
			return nil
		},
	}
	cmd.Flags().StringVarP(&prefix, "prefix", "p", "", "Only list designations starting with this prefix")
	return cmd
}
