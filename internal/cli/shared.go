package cli

import (
	"fmt"
	"time"

	"github.com/pathsentry/pathsentry/internal/audit"
	"github.com/pathsentry/pathsentry/internal/config"
	"github.com/pathsentry/pathsentry/internal/decision"
	"github.com/pathsentry/pathsentry/internal/filter"
	"github.com/pathsentry/pathsentry/internal/operation"
)

// filterBundle pairs a Filter with its audit Logger so every command shares
// the same construction-and-logging sequence.
type filterBundle struct {
	filter *filter.Filter
	logger *audit.Logger
	mode   string
}

func loadConfig() (*config.Config, error) {
	return config.Load(catalogPath, packsDirFlag, logPath, mode)
}

func newFilterBundle(cfg *config.Config) (*filterBundle, error) {
	f, err := filter.New(cfg.CatalogPath, cfg.PacksDir)
	if err != nil {
		return nil, fmt.Errorf("filter init failed: %w", err)
	}

	l, err := audit.New(cfg.LogPath)
	if err != nil {
		return nil, fmt.Errorf("audit log init failed: %w", err)
	}

	return &filterBundle{filter: f, logger: l, mode: cfg.Mode}, nil
}

func (b *filterBundle) Close() error {
	return b.logger.Close()
}

// checkAndLog evaluates one path and records it to the audit trail,
// swallowing (but warning about) logging failures — a log write failure
// must never change the verdict returned to the caller.
func (b *filterBundle) checkAndLog(op operation.Operation, rawPath, baseDir, source string) decision.Decision {
	d := b.filter.Check(op, rawPath, baseDir)
	b.logDecision(op, rawPath, d, source)
	return d
}

func (b *filterBundle) logDecision(op operation.Operation, path string, d decision.Decision, source string) {
	event := audit.Event{
		Timestamp: time.Now().UTC().Format(time.RFC3339),
		Operation: string(op),
		Path:      path,
		Verdict:   string(d.Verdict),
		Reason:    d.Reason,
		Source:    source,
	}
	if d.Level != nil {
		event.Level = d.Level.String()
	}
	_ = b.logger.Log(event)
}
