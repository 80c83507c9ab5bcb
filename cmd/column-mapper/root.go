package main

import (
	"github.com/cockroachdb/errors"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/Elevated-Standards/mappings-sub003/internal/config"
	"github.com/Elevated-Standards/mappings-sub003/internal/diagnostic"
	"github.com/Elevated-Standards/mappings-sub003/internal/logger"
	"github.com/Elevated-Standards/mappings-sub003/internal/mapping"
	"github.com/Elevated-Standards/mappings-sub003/internal/match"
	"github.com/Elevated-Standards/mappings-sub003/internal/override"
)

// app carries state shared by subcommands once the root pre-run has loaded
// configuration.
type app struct {
	cfgFile string
	cfg     *config.Config
	logger  *zap.Logger
}

func newRootCmd() *cobra.Command {
	a := &app{logger: zap.NewNop()}

	root := &cobra.Command{
		Use:   "column-mapper",
		Short: "Map document column headers onto OSCAL fields",
		Long: `column-mapper resolves spreadsheet column headers to OSCAL target fields.

A rule file lists the target field catalog with known column aliases, plus
override rules that pin columns to targets by exact, substring, regex or
fuzzy patterns, scoped by document type, file, user, organization or project.`,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			if cmd.Name() == "help" || cmd.Name() == "completion" || cmd.Name() == "__complete" {
				return nil
			}

			return a.init(cmd)
		},
		PersistentPostRun: func(_ *cobra.Command, _ []string) {
			_ = a.logger.Sync()
		},
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	pf := root.PersistentFlags()
	pf.StringVar(&a.cfgFile, "config", "", "config file (default: ./"+config.DefaultFile+")")
	pf.String("strategy", "", "conflict resolution strategy (highest_priority|most_recent|most_specific|combine|manual)")
	pf.Float64("min-confidence", 0, "minimum fuzzy score for base column matches")
	pf.Int("cache-capacity", 0, "resolution cache capacity")
	pf.Bool("context-key", false, "include the full document context in resolution cache keys")
	pf.Bool("log-json", false, "log as JSON")
	pf.String("log-level", "", "log level (debug|info|warn|error)")

	_ = root.RegisterFlagCompletionFunc("strategy", func(_ *cobra.Command, _ []string, _ string) ([]string, cobra.ShellCompDirective) {
		return []string{"highest_priority", "most_recent", "most_specific", "combine", "manual"}, cobra.ShellCompDirectiveNoFileComp
	})

	root.AddCommand(newValidateCmd(a))
	root.AddCommand(newResolveCmd(a))
	root.AddCommand(newPlanCmd(a))

	return root
}

func (a *app) init(cmd *cobra.Command) error {
	cfg, err := config.Load(a.cfgFile, cmd.Root().PersistentFlags())
	if err != nil {
		return err
	}

	l, err := logger.New(logger.Options{JSON: cfg.Log.JSON, Level: cfg.Log.Level})
	if err != nil {
		return err
	}

	a.cfg = cfg
	a.logger = l

	if cfg.File != "" {
		l.Debug("using config file", zap.String("path", cfg.File))
	}

	return nil
}

// loadRules reads a rule file and fails on structural errors.
func (a *app) loadRules(path string) (*mapping.RuleFile, error) {
	rf, err := mapping.LoadFile(path)
	if err != nil {
		return nil, err
	}

	diags := mapping.Validate(rf)
	for _, w := range diags.Warnings {
		a.logger.Warn(w.Message, zap.String("code", w.Code), zap.String("rule", w.Rule))
	}

	if diags.HasErrors() {
		return nil, errors.WithHint(errors.Wrapf(diags.Error(), "rule file %s is invalid", path),
			"run column-mapper validate for details")
	}

	return rf, nil
}

// newEngine builds the override engine and base column mapper from a rule
// file, admitting every override.
func (a *app) newEngine(rf *mapping.RuleFile) (*override.SyncEngine, *match.ColumnMapper, error) {
	fields, err := rf.Fields()
	if err != nil {
		return nil, nil, err
	}

	rules, err := rf.Overrides()
	if err != nil {
		return nil, nil, err
	}

	opts, err := a.cfg.EngineOptions()
	if err != nil {
		return nil, nil, err
	}

	e := override.NewSyncEngine(override.NewEngine(append(opts, override.WithLogger(a.logger))...))

	for _, r := range rules {
		if err := e.AddOverride(r); err != nil {
			return nil, nil, err
		}
	}

	return e, match.NewColumnMapper(fields, a.cfg.Resolution.MinConfidence), nil
}

// diagnosticsError summarizes diagnostics errors for the exit status.
func diagnosticsError(d *diagnostic.Diagnostics) error {
	if !d.HasErrors() {
		return nil
	}

	return errors.Newf("%d error(s), %d warning(s)", len(d.Errors), len(d.Warnings))
}
