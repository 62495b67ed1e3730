package main

import (
	"fmt"
	"io"
	"regexp"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/Clark-Hu/flopwatch/internal/domain"
)

func newClassifyCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "classify [gross...]",
		Short: "Classify literal total gross values.",
		Long: "Classify each argument as flop or hit. Use - or an empty " +
			"argument for a movie with no recorded gross. Values may be " +
			"grouped in thousands with _ or , (225_000_000). Put -- before " +
			"the values when one of them starts with a minus sign.",
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return classify(cmd.OutOrStdout(), args)
		},
	}
}

func classify(out io.Writer, args []string) error {
	for _, arg := range args {
		gross, err := parseGrossArg(arg)
		if err != nil {
			return err
		}
		label := "-"
		if gross != nil {
			label = strconv.FormatInt(*gross, 10)
		}
		fmt.Fprintf(out, "%s\t%s\n", label, verdict(domain.IsFlop(gross)))
	}
	return nil
}

// grossPattern allows plain digits or thousands groups with a single
// separator kind.
var grossPattern = regexp.MustCompile(`^-?(\d+|\d{1,3}(,\d{3})+|\d{1,3}(_\d{3})+)$`)

// parseGrossArg accepts plain digits or digits grouped by _ or ,.
func parseGrossArg(arg string) (*int64, error) {
	arg = strings.TrimSpace(arg)
	if arg == "" || arg == "-" {
		return nil, nil
	}
	if !grossPattern.MatchString(arg) {
		return nil, fmt.Errorf("invalid gross %q", arg)
	}
	cleaned := strings.NewReplacer("_", "", ",", "").Replace(arg)
	v, err := strconv.ParseInt(cleaned, 10, 64)
	if err != nil {
		return nil, fmt.Errorf("invalid gross %q", arg)
	}
	if v < 0 {
		return nil, fmt.Errorf("gross must be non-negative, got %q", arg)
	}
	return &v, nil
}

func verdict(flop bool) string {
	if flop {
		return "flop"
	}
	return "hit"
}
