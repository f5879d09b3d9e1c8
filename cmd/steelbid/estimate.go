package main

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"text/tabwriter"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/dgallion1/steelbid/internal/estimate"
	"github.com/dgallion1/steelbid/internal/export"
)

type estimateOptions struct {
	file     string
	settings string
	jobName  string
	xlsx     string
	pdf      string
}

func newEstimateCmd() *cobra.Command {
	var opts estimateOptions
	cmd := &cobra.Command{
		Use:   "estimate",
		Short: "Price a member list",
		Long: `Compute weights and costs for a takeoff and print the estimate.

The member file is JSON: either an array of members or an object with
a "members" array, as saved by the server. Settings files may be YAML
or JSON with the same keys as the settings API:

  company_name: Acme Steel
  material_rate_per_lb: 0.85
  labor_rate_per_hour: 65
  hours_per_ton_structural: 12
  hours_per_ton_misc: 20
  hours_per_ton_plate: 15
  markup: 10

Examples:
  steelbid estimate --file takeoff.json
  steelbid estimate -f takeoff.json -s shop.yaml --job "Warehouse" --pdf bid.pdf`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runEstimate(cmd.OutOrStdout(), opts)
		},
	}
	cmd.Flags().StringVarP(&opts.file, "file", "f", "", "Member list JSON file [required]")
	cmd.Flags().StringVarP(&opts.settings, "settings", "s", "", "Pricing settings (YAML or JSON)")
	cmd.Flags().StringVarP(&opts.jobName, "job", "j", "", "Job name for the bid")
	cmd.Flags().StringVar(&opts.xlsx, "xlsx", "", "Write the bid workbook to this path")
	cmd.Flags().StringVar(&opts.pdf, "pdf", "", "Write the bid sheet to this path")
	cmd.MarkFlagRequired("file")
	return cmd
}

func runEstimate(out io.Writer, opts estimateOptions) error {
	members, jobName, err := loadMembers(opts.file)
	if err != nil {
		return err
	}
	if opts.jobName != "" {
		jobName = opts.jobName
	}

	settings := estimate.DefaultSettings()
	if opts.settings != "" {
		if settings, err = loadSettings(opts.settings); err != nil {
			return err
		}
	}

	est := estimate.Compute(members, settings)
	printEstimate(out, est, settings)

	bid := export.Bid{JobName: jobName, Settings: settings, Estimate: est}
	if opts.xlsx != "" {
		if err := writeFile(opts.xlsx, func(w io.Writer) error { return export.XLSX(w, bid) }); err != nil {
			return err
		}
		fmt.Fprintf(out, "\nWrote %s\n", opts.xlsx)
	}
	if opts.pdf != "" {
		if err := writeFile(opts.pdf, func(w io.Writer) error { return export.PDF(w, bid) }); err != nil {
			return err
		}
		fmt.Fprintf(out, "\nWrote %s\n", opts.pdf)
	}
	return nil
}

// loadMembers reads a bare member array or a saved estimate object.
func loadMembers(path string) ([]estimate.Member, string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, "", fmt.Errorf("read members: %w", err)
	}
	data = bytes.TrimSpace(data)

	var members []estimate.Member
	var jobName string
	if len(data) > 0 && data[0] == '[' {
		err = json.Unmarshal(data, &members)
	} else {
		var saved struct {
			JobName string            `json:"job_name"`
			Members []estimate.Member `json:"members"`
		}
		err = json.Unmarshal(data, &saved)
		members, jobName = saved.Members, saved.JobName
	}
	if err != nil {
		return nil, "", fmt.Errorf("parse members %s: %w", path, err)
	}
	for i := range members {
		members[i].Normalize()
	}
	return members, jobName, nil
}

func loadSettings(path string) (estimate.Settings, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return estimate.Settings{}, fmt.Errorf("read settings: %w", err)
	}
	var s estimate.Settings
	switch strings.ToLower(filepath.Ext(path)) {
	case ".json":
		err = json.Unmarshal(data, &s)
	default:
		err = yaml.Unmarshal(data, &s)
	}
	if err != nil {
		return estimate.Settings{}, fmt.Errorf("parse settings %s: %w", path, err)
	}
	return s.WithDefaults(), nil
}

func writeFile(path string, render func(io.Writer) error) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create %s: %w", path, err)
	}
	if err := render(f); err != nil {
		f.Close()
		os.Remove(path)
		return err
	}
	if err := f.Close(); err != nil {
		os.Remove(path)
		return fmt.Errorf("close %s: %w", path, err)
	}
	return nil
}

func printEstimate(out io.Writer, est estimate.Estimate, s estimate.Settings) {
	tw := tabwriter.NewWriter(out, 0, 0, 2, ' ', tabwriter.AlignRight)
	fmt.Fprintln(tw, "Mark\tSection\tCategory\tQty\tLength (ft)\tLbs/ft\tTotal Weight\tMat. Cost\tLabor Cost\t")
	for _, r := range est.Rows {
		length := "--"
		if r.LengthFt > 0 {
			length = strconv.FormatFloat(r.LengthFt, 'f', -1, 64)
		}
		perFt := r.LbsPerFt.String()
		if r.Section == "" {
			perFt = "--"
		}
		fmt.Fprintf(tw, "%s\t%s\t%s\t%d\t%s\t%s\t%s\t%s\t%s\t\n",
			r.Mark, r.Section, r.Category, r.Quantity, length, perFt,
			estimate.FormatOptional(r.TotalWeight, estimate.FormatWeight),
			estimate.FormatOptional(r.MaterialCost, estimate.FormatMoney),
			estimate.FormatOptional(r.LaborCost, estimate.FormatMoney),
		)
	}
	tw.Flush()

	t := est.Totals
	fmt.Fprintln(out)
	fmt.Fprintf(out, "Total weight:   %s (%.2f tons)\n", estimate.FormatWeight(t.WeightLbs), t.WeightTons)
	if s.MaterialRatePerLb.Set {
		fmt.Fprintf(out, "Material:       %s @ $%s/lb\n", estimate.FormatMoney(t.MaterialCost), strconv.FormatFloat(s.MaterialRatePerLb.Value, 'f', -1, 64))
	}
	if s.LaborRatePerHour.Set {
		fmt.Fprintf(out, "Labor:          %s @ $%s/hr\n", estimate.FormatMoney(t.LaborCost), strconv.FormatFloat(s.LaborRatePerHour.Value, 'f', -1, 64))
	}
	if s.HasRates() {
		fmt.Fprintf(out, "Subtotal:       %s\n", estimate.FormatMoney(t.TotalCost))
		fmt.Fprintf(out, "Grand total:    %s (incl. %s%% markup)\n", estimate.FormatMoney(t.GrandTotal), estimate.FormatNumber(t.MarkupPct))
	}
	if t.UnknownCount > 0 {
		fmt.Fprintf(out, "\nWarning: %d section(s) not found in AISC table\n", t.UnknownCount)
	}
}
