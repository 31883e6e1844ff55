package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"SearchAudit/internal/app"
	"SearchAudit/internal/config"
	"SearchAudit/internal/domain"
	"SearchAudit/internal/logging"
	"SearchAudit/internal/querytool"
)

func main() {
	if err := rootCommand().Execute(); err != nil {
		os.Exit(1)
	}
}

func rootCommand() *cobra.Command {
	var configPath string

	root := &cobra.Command{
		Use:           "searchaudit",
		Short:         "Consistency and compliance checks for the search API migration",
		SilenceUsage:  true,
		SilenceErrors: false,
	}
	root.PersistentFlags().StringVar(&configPath, "config", "", "path to YAML config")

	newApp := func() (*app.Application, error) {
		cfg, err := config.Load(configPath)
		if err != nil {
			return nil, err
		}
		return app.New(cfg, logging.New(cfg.Logging.Level)), nil
	}

	root.AddCommand(&cobra.Command{
		Use:   "compare",
		Short: "Diff result ids between the old and new revision",
		RunE: func(cmd *cobra.Command, _ []string) error {
			application, err := newApp()
			if err != nil {
				return err
			}
			return application.Compare(signalContext(cmd))
		},
	})

	root.AddCommand(&cobra.Command{
		Use:   "audit",
		Short: "Check result records of both revisions against the field rules",
		RunE: func(cmd *cobra.Command, _ []string) error {
			application, err := newApp()
			if err != nil {
				return err
			}
			return application.Audit(signalContext(cmd))
		},
	})

	var cacheRev string
	cacheCmd := &cobra.Command{
		Use:   "cachecheck",
		Short: "Record per-query cache status of one revision",
		RunE: func(cmd *cobra.Command, _ []string) error {
			rev, err := parseRevision(cacheRev)
			if err != nil {
				return err
			}
			application, err := newApp()
			if err != nil {
				return err
			}
			return application.CacheCheck(signalContext(cmd), rev)
		},
	}
	cacheCmd.Flags().StringVar(&cacheRev, "revision", "C", "revision to probe (B or C)")
	root.AddCommand(cacheCmd)

	var coverRev string
	coverCmd := &cobra.Command{
		Use:   "typecover",
		Short: "Probe every information type per query and report mismatches",
		RunE: func(cmd *cobra.Command, _ []string) error {
			rev, err := parseRevision(coverRev)
			if err != nil {
				return err
			}
			application, err := newApp()
			if err != nil {
				return err
			}
			return application.TypeCover(signalContext(cmd), rev)
		},
	}
	coverCmd.Flags().StringVar(&coverRev, "revision", "C", "revision to probe (B or C)")
	root.AddCommand(coverCmd)

	root.AddCommand(&cobra.Command{
		Use:   "dedupe <in.csv> <out.csv>",
		Short: "Drop repeated queries from a corpus CSV, keeping first occurrences",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			kept, dropped, err := querytool.DedupeFirstColumn(args[0], args[1])
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "kept %d queries, dropped %d duplicates\n", kept, dropped)
			return nil
		},
	})

	root.AddCommand(&cobra.Command{
		Use:   "sortqueries <in.json> <out.json>",
		Short: "Sort a query export by insertTime and strip decomposed queries",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			n, err := querytool.SortByInsertTime(args[0], args[1])
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "sorted %d queries\n", n)
			return nil
		},
	})

	return root
}

func parseRevision(value string) (domain.Revision, error) {
	switch value {
	case string(domain.RevisionOld):
		return domain.RevisionOld, nil
	case string(domain.RevisionNew):
		return domain.RevisionNew, nil
	default:
		return "", fmt.Errorf("unknown revision %q, want B or C", value)
	}
}

// signalContext derives a context cancelled on SIGINT/SIGTERM so a long run
// can flush its partial reports on shutdown.
func signalContext(cmd *cobra.Command) context.Context {
	ctx, _ := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	return ctx
}
