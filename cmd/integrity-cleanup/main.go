// Команда integrity-cleanup выполняет один цикл аудита и очистки заказов.
// По умолчанию выполняется пробный прогон; флаг -execute удаляет тестовые заказы.
package main

import (
	"context"
	"flag"
	"fmt"
	"io"
	"log"
	"os"
	"strings"
	"text/tabwriter"

	"github.com/Renal37/order-integrity/internal/config"
	"github.com/Renal37/order-integrity/internal/database"
	"github.com/Renal37/order-integrity/internal/logger"
	"github.com/Renal37/order-integrity/internal/models"
	"github.com/Renal37/order-integrity/internal/services"
	"github.com/Renal37/order-integrity/internal/utils"
)

func main() {
	execute := flag.Bool("execute", false, "delete dummy orders instead of printing them")
	flag.Parse()

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Config wasn't loaded due to %s", err)
	}

	if err := logger.Initialize(cfg.LogLevel, cfg.Env); err != nil {
		log.Fatalf("Logger wasn't initialized due to %s", err)
	}

	ruleSet, err := cfg.RuleSet()
	if err != nil {
		log.Fatalf("Order validation rules weren't built due to %s", err)
	}

	ctx, stop := utils.HandleTerminationProcess(context.Background())
	defer stop()

	db, err := database.New(ctx, cfg.DSN)
	if err != nil {
		log.Fatalf("Database wasn't initialized due to %s", err)
	}
	defer db.Close()

	fallback := logger.NewFileLogger(logger.FileConfig{Path: cfg.Cleanup.FallbackLogPath, MaxSizeMB: 10})
	defer fallback.Sync() //nolint:errcheck

	integrity := services.NewIntegrity(db, ruleSet, fallback, nil, services.IntegrityConfig{
		MaxBatchSize: cfg.Cleanup.MaxBatchSize,
		TimeBudget:   cfg.Cleanup.TimeBudget,
	})

	var entry models.CleanupLogEntry
	scheduler := services.NewCleanupScheduler(func(ctx context.Context) error {
		var err error
		entry, err = integrity.RunCycle(ctx, !*execute)
		return err
	}, nil)

	if err := scheduler.RunOnce(ctx); err != nil {
		stop()
		db.Close()
		log.Fatalf("Cleanup run failed due to %s", err)
	}

	printSummary(os.Stdout, entry)

	if entry.Status != models.CleanupStatusSuccess && entry.Status != models.CleanupStatusDryRun {
		stop()
		db.Close()
		os.Exit(1)
	}
}

// printSummary печатает кандидатов пробного прогона или итог удаления с ошибками по заказам.
func printSummary(w io.Writer, entry models.CleanupLogEntry) {
	fmt.Fprintf(w, "run %s: %s\n", entry.ID, entry.Status)
	fmt.Fprintf(w, "audited %d orders: %d legitimate, %d suspicious, %d dummy\n",
		entry.TotalAudited, entry.Legitimate, entry.Suspicious, entry.Dummy)

	if entry.DryRun {
		fmt.Fprintf(w, "dry run: %d orders would be deleted\n", entry.Candidates)
	} else {
		fmt.Fprintf(w, "deleted %d orders, %d failed\n", entry.Deleted, entry.Failed)
	}

	if len(entry.DeletedOrders) > 0 {
		tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
		fmt.Fprintln(tw, "ORDER ID\tNUMBER\tREASONS")
		for _, order := range entry.DeletedOrders {
			fmt.Fprintf(tw, "%s\t%s\t%s\n", order.OrderID, order.OrderNumber, strings.Join(order.Reasons, "; "))
		}
		tw.Flush()
	}

	if len(entry.Failures) > 0 {
		tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
		fmt.Fprintln(tw, "FAILED ORDER ID\tSTAGE\tERROR")
		for _, failure := range entry.Failures {
			stage := string(failure.Stage)
			if failure.Partial {
				stage += " (partial)"
			}
			fmt.Fprintf(tw, "%s\t%s\t%s\n", failure.OrderID, stage, failure.Error)
		}
		tw.Flush()
	}
}
