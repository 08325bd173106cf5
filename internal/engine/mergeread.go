package engine

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"golang.org/x/sync/errgroup"

	"mcpsync/internal/logging"
	"mcpsync/internal/model"
	"mcpsync/internal/target"
)

// MergeResult is one target's recovered current state.
type MergeResult struct {
	Config model.TargetConfig
	// Found reports whether at least one candidate file existed, readable
	// or not. No candidates at all means the tool is not installed.
	Found    bool
	Warnings []string
}

// MergeRead recovers a target's current state from its ordered candidate
// paths. Missing candidates are skipped; the readable ones are merged with
// earlier candidates winning duplicate entry names. A candidate whose
// entries fail validation degrades to a permissive salvage, and one whose
// document cannot be parsed at all degrades to a warning. MergeRead never
// fails: state recovery must work on whatever is on disk.
func MergeRead(adapter Adapter, candidates []string, logger *logging.AppLogger) MergeResult {
	result := MergeResult{Config: make(model.TargetConfig)}

	for _, path := range candidates {
		cfg, err := adapter.Read(path)
		if err != nil {
			if errors.Is(err, target.ErrNotFound) {
				continue
			}
			result.Found = true

			var invalid *target.InvalidConfigError
			if errors.As(err, &invalid) {
				salvaged, dropped, serr := adapter.ReadPermissive(path)
				if serr == nil {
					if len(dropped) > 0 {
						result.Warnings = append(result.Warnings, fmt.Sprintf(
							"%s: dropped invalid entries: %s", path, strings.Join(dropped, ", ")))
					}
					mergeInto(result.Config, salvaged)
					continue
				}
				err = serr
			}

			result.Warnings = append(result.Warnings, fmt.Sprintf("skipping unreadable %s: %v", path, err))
			if logger != nil {
				logger.Warn("Skipping unreadable candidate", "target", adapter.ID(), "path", path, "error", err)
			}
			continue
		}

		result.Found = true
		mergeInto(result.Config, cfg)
	}
	return result
}

// mergeInto copies entries from src that dst does not already hold.
func mergeInto(dst, src model.TargetConfig) {
	for name, def := range src {
		if _, exists := dst[name]; !exists {
			dst[name] = def
		}
	}
}

// ReadCurrentState merge-reads every source concurrently. The reads are
// independent and read-only, so they fan out per target; results come back
// keyed by target id.
func ReadCurrentState(ctx context.Context, adapters map[string]Adapter, sources []TargetSource, logger *logging.AppLogger) (map[string]MergeResult, error) {
	for _, src := range sources {
		if _, ok := adapters[src.TargetID]; !ok {
			return nil, fmt.Errorf("no adapter registered for target %q", src.TargetID)
		}
	}

	results := make([]MergeResult, len(sources))
	g, ctx := errgroup.WithContext(ctx)
	for i, src := range sources {
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			results[i] = MergeRead(adapters[src.TargetID], src.Candidates, logger)
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	state := make(map[string]MergeResult, len(sources))
	for i, src := range sources {
		state[src.TargetID] = results[i]
	}
	return state, nil
}
