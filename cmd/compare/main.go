// Command compare runs a single reconciliation from the command line and
// writes the classified discrepancies as JSON. It uses in-memory stores, so
// nothing is persisted beyond the output.
package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"log/slog"
	"os"

	"cohortcompare/internal/domain"
	"cohortcompare/internal/ingest"
	"cohortcompare/internal/platform/logger"
	"cohortcompare/internal/reconcile"
	"cohortcompare/internal/store"
)

type output struct {
	Run           domain.Run           `json:"run"`
	Discrepancies []domain.Discrepancy `json:"discrepancies"`
}

func main() {
	caasPath := flag.String("caas", "", "path to the CAAS extract CSV")
	bssPath := flag.String("bss", "", "path to the BSS extract CSV")
	aliasPath := flag.String("aliases", "", "optional YAML column alias map")
	outPath := flag.String("out", "", "write JSON output here instead of stdout")
	flag.Parse()

	if *caasPath == "" || *bssPath == "" {
		fmt.Fprintln(os.Stderr, "both -caas and -bss are required")
		flag.Usage()
		os.Exit(2)
	}

	log := logger.New(slog.LevelWarn)
	if err := run(*caasPath, *bssPath, *aliasPath, *outPath, log); err != nil {
		log.Error("compare failed", "error", err)
		os.Exit(1)
	}
}

func run(caasPath, bssPath, aliasPath, outPath string, log *slog.Logger) error {
	ctx := context.Background()

	aliases, err := ingest.LoadAliases(aliasPath)
	if err != nil {
		return fmt.Errorf("load column aliases: %w", err)
	}
	reader := ingest.NewReader(
		ingest.WithAliases(aliases),
		ingest.WithLogger(log),
	)

	discs := store.NewInMemoryDiscrepancyStore()
	service, err := reconcile.New(store.NewInMemoryRunStore(), discs,
		reconcile.WithReader(reader),
		reconcile.WithLogger(log),
	)
	if err != nil {
		return err
	}

	runResult, err := service.RunFromFiles(ctx, caasPath, bssPath)
	if err != nil {
		return err
	}

	discrepancies, err := discs.ListByRun(ctx, runResult.ID, "")
	if err != nil {
		return err
	}

	out := os.Stdout
	if outPath != "" {
		f, err := os.Create(outPath)
		if err != nil {
			return fmt.Errorf("create output file: %w", err)
		}
		defer f.Close()
		out = f
	}

	enc := json.NewEncoder(out)
	enc.SetIndent("", "  ")
	return enc.Encode(output{Run: runResult, Discrepancies: discrepancies})
}
