package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/benaskins/coffer"
	"github.com/benaskins/coffer/internal/audit"
	"github.com/benaskins/coffer/internal/config"
)

// newCoffer builds a Coffer from the config file and command flags. Flags
// win over config values. The returned closer releases the audit log, if
// one was opened.
func newCoffer(cmd *cobra.Command) (*coffer.Coffer, func(), error) {
	noop := func() {}

	cfgPath, _ := cmd.Flags().GetString("config")
	if cfgPath == "" {
		cfgPath = config.DefaultPath()
	}
	cfg, err := config.Load(cfgPath)
	if err != nil {
		return nil, noop, fmt.Errorf("loading config: %w", err)
	}

	var opts []coffer.Option

	ns, _ := cmd.Flags().GetString("namespace")
	if ns == "" {
		ns = cfg.Namespace
	}
	if ns != "" {
		opts = append(opts, coffer.WithNamespace(ns))
	}

	group, _ := cmd.Flags().GetString("group")
	if group == "" {
		group = cfg.Group
	}
	if group != "" {
		opts = append(opts, coffer.WithGroup(group))
	}

	acc, err := config.ParseAccessibility(cfg.Accessibility)
	if err != nil {
		return nil, noop, fmt.Errorf("loading config: %w", err)
	}
	if acc != coffer.AccessibilityUnset {
		opts = append(opts, coffer.WithAccessibility(acc))
	}

	closer := noop
	if cfg.AuditLog != "" {
		logger, err := audit.NewLogger(cfg.AuditLog)
		if err != nil {
			return nil, noop, fmt.Errorf("opening audit log: %w", err)
		}
		opts = append(opts, coffer.WithAudit(logger))
		closer = func() { logger.Close() }
	}

	return coffer.New(opts...), closer, nil
}
