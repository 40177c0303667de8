package cmd

import (
	"context"
	"fmt"
	"time"

	"github.com/cheggaaa/pb/v3"
	"github.com/rs/zerolog/log"

	"repo-export/config"
	"repo-export/export"
	"repo-export/fetcher"
	"repo-export/filter"
	"repo-export/gh"
	"repo-export/model"
	"repo-export/ui"
)

type summary struct {
	OutputPath string
	Exported   int
	Skipped    int
	Failed     int
}

// exportRepo runs the walk -> filter -> fetch -> assemble pipeline. The
// document preserves the tree-walk order: filter exclusions are placed
// as Skipped results in their original slots and only eligible entries
// go through the worker pool.
func exportRepo(ctx context.Context, client *gh.Client, cfg config.Config, ref model.RepoRef) (*summary, error) {
	ui.StartSpinner("Listing repository tree")
	entries, truncated, err := client.Walk(ctx, ref)
	if err != nil {
		ui.StopSpinner("")
		return nil, err
	}
	ui.StopSpinner(fmt.Sprintf("Found %d files", len(entries)))
	if truncated {
		ui.PrintWarning("Tree listing was truncated by the API; the export may be incomplete")
	}

	if len(entries) == 0 {
		return &summary{}, nil
	}

	results := make([]model.FetchResult, len(entries))
	f := filter.New(cfg.MaxFileSize, cfg.ExtraIgnores)

	var eligible []model.TreeEntry
	var slots []int
	for i, entry := range entries {
		decision := f.Decide(entry)
		if !decision.Include {
			log.Debug().Str("path", entry.Path).Str("reason", decision.Reason).Msg("excluded")
			results[i] = model.FetchResult{
				Path:    entry.Path,
				Outcome: model.OutcomeSkipped,
				Reason:  decision.Reason,
			}
			continue
		}
		eligible = append(eligible, entry)
		slots = append(slots, i)
	}

	if len(eligible) > 0 {
		bar := pb.Full.Start(len(eligible))
		pool := fetcher.New(client, cfg.Concurrency, func(model.FetchResult) {
			bar.Increment()
		})
		fetched := pool.Fetch(ctx, ref, eligible)
		bar.Finish()

		for i, result := range fetched {
			results[slots[i]] = result
		}
	}

	sum := &summary{}
	for _, result := range results {
		switch result.Outcome {
		case model.OutcomeOk:
			sum.Exported++
		case model.OutcomeSkipped:
			sum.Skipped++
		case model.OutcomeFailed:
			sum.Failed++
		}
	}
	if sum.Exported == 0 {
		return &summary{Skipped: sum.Skipped, Failed: sum.Failed}, nil
	}

	doc := &export.Document{Ref: ref, GeneratedAt: time.Now(), Results: results}
	path, err := export.WriteDocument(cfg.OutputDir, doc)
	if err != nil {
		return nil, err
	}
	sum.OutputPath = path

	return sum, nil
}
