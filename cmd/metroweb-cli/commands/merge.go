package commands

import (
	"errors"
	"log/slog"

	"metroweb-extractor/lib/report"
	"metroweb-extractor/lib/util/serviceutil"

	"github.com/spf13/cobra"
)

var (
	mergeFrom *string
	mergeInto *string
)

func init() {
	mergeFrom = mergeCmd.Flags().String("from", "verificacion.xlsx", "The verification workbook to merge from.")
	mergeInto = mergeCmd.Flags().String("into", "", "The master workbook to merge into.")
	mergeCmd.MarkFlagRequired("into")
	rootCmd.AddCommand(mergeCmd)
}

var mergeCmd = &cobra.Command{
	Use:   "merge --into <master.xlsx> [--from <verificacion.xlsx>]",
	Short: "Merges a previously extracted verification workbook into a master workbook.",
	Run: func(cmd *cobra.Command, args []string) {
		rows, err := report.ReadVerification(*mergeFrom)
		if err != nil {
			serviceutil.Fatal("failed to read verification workbook", err)
		}

		out, err := report.MergeIntoWorkbook(*mergeInto, rows)
		if errors.Is(err, report.ErrWorkbookLocked) {
			serviceutil.Fatal("close the master workbook in Excel and retry", err)
		}
		if err != nil {
			serviceutil.Fatal("failed to merge into master workbook", err)
		}
		slog.Info("merged into master workbook", "path", out, "rows", len(rows))
	},
}
