package commands

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"metroweb-extractor/lib/configutil"
	"metroweb-extractor/lib/labelmap"
	"metroweb-extractor/lib/report"
	"metroweb-extractor/lib/restyutil"
	"metroweb-extractor/lib/scrapers/metroweb"
	"metroweb-extractor/lib/util/serviceutil"

	"github.com/spf13/cobra"
)

type Config struct {
	Username string `json:"username"`
	Password string `json:"password"`
	// defaults to the production portal
	BaseUrl string `json:"base_url"`
}

var (
	extractOt        *string
	extractOut       *string
	extractLabelMap  *string
	extractDump      *string
	extractMergeInto *string
)

func init() {
	extractOt = extractCmd.Flags().String("ot", "", "The work order number to extract (ddd-ddddd).")
	extractOut = extractCmd.Flags().String("out", "verificacion.xlsx", "The workbook to write the extraction to.")
	extractLabelMap = extractCmd.Flags().String("label-map", "", "A label map file overriding the built-in labels.")
	extractDump = extractCmd.Flags().String("dump", "", "A directory to dump HTTP exchanges to.")
	extractMergeInto = extractCmd.Flags().String("merge-into", "", "A master workbook to also merge the extraction into.")
	extractCmd.MarkFlagRequired("ot")
	rootCmd.AddCommand(extractCmd)
}

func loadLabelMap(path string) *labelmap.Map {
	if path == "" {
		return labelmap.Default()
	}
	m, err := labelmap.Load(path)
	if err != nil {
		serviceutil.Fatal("failed to read label map", err)
	}
	return m
}

func createClient(ctx context.Context, cfg Config) *metroweb.Client {
	var dump restyutil.InstrumentOutput
	if *extractDump != "" {
		out, err := restyutil.NewFilesystemOutput(*extractDump)
		if err != nil {
			serviceutil.Fatal("failed to initialize HTTP dump directory", err)
		}
		dump = out
	}

	client, err := metroweb.NewClient(ctx, metroweb.ClientOptions{
		BaseUrl: cfg.BaseUrl,
		Dump:    dump,
	})
	if err != nil {
		serviceutil.Fatal("failed to initialize MetroWeb client", err)
	}

	loginCtx, cancel := context.WithTimeout(ctx, time.Second*30)
	defer cancel()

	err = client.Login(loginCtx, cfg.Username, cfg.Password)
	if errors.Is(err, metroweb.ErrAuth) {
		serviceutil.Fatal("MetroWeb rejected the credentials, check config.json5", err)
	}
	if err != nil {
		serviceutil.Fatal("failed to login to MetroWeb", err)
	}

	return client
}

var extractCmd = &cobra.Command{
	Use:   "extract --ot <ddd-ddddd> [--out <workbook.xlsx>]",
	Short: "Extracts the verification data of one work order into a workbook.",
	Run: func(cmd *cobra.Command, args []string) {
		ctx := cmd.Context()

		cfg, err := configutil.ReadConfig[Config]("config.json5")
		if err != nil {
			serviceutil.Fatal("failed to read config", err)
		}

		m := loadLabelMap(*extractLabelMap)

		slog.Info("logging in", "username", cfg.Username)
		client := createClient(ctx, cfg)

		t1 := time.Now()
		records, err := metroweb.Extract(ctx, client, *extractOt, m, metroweb.Options{
			OnProgress: func(done, total int) {
				slog.Info("extracted instrument", "done", done, "total", total)
			},
		})
		if err != nil {
			serviceutil.Fatal("extraction failed", err)
		}
		slog.Info("extraction time", "seconds", time.Since(t1).Seconds())

		if len(records) == 0 {
			slog.Warn("the work order has no instruments loaded", "ot", *extractOt)
		}

		rows := report.BuildRows(records, m)
		if err := report.WriteVerification(*extractOut, rows); err != nil {
			serviceutil.Fatal("failed to write verification workbook", err)
		}
		slog.Info("wrote verification workbook", "path", *extractOut, "instruments", len(records))

		if *extractMergeInto != "" {
			out, err := report.MergeIntoWorkbook(*extractMergeInto, rows)
			if err != nil {
				serviceutil.Fatal("failed to merge into master workbook", err)
			}
			slog.Info("merged into master workbook", "path", out)
		}
	},
}
