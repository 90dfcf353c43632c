// cmd/order-etl/stages.go
package main

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"

	apperrors "order-etl/internal/common/errors"
	"order-etl/internal/knowledge"
	"order-etl/internal/models"
	buildaliases "order-etl/internal/stages/artifacts/build-aliases"
	buildevalset "order-etl/internal/stages/artifacts/build-evalset"
	buildfewshots "order-etl/internal/stages/artifacts/build-fewshots"
	compilemenu "order-etl/internal/stages/artifacts/compile-menu"
	validateartifacts "order-etl/internal/stages/artifacts/validate-artifacts"
	"order-etl/internal/stages/drafting"
	filterorders "order-etl/internal/stages/ingestion/filter-orders"
)

// stage is one pipeline step runnable from the CLI.
type stage struct {
	name string
	run  func(a *app, out io.Writer) error
}

var (
	filterStage   = stage{filterorders.StageName, runFilter}
	menuStage     = stage{compilemenu.StageName, runMenu}
	aliasesStage  = stage{buildaliases.StageName, runAliases}
	fewShotsStage = stage{buildfewshots.StageName, runFewShots}
	evalsetStage  = stage{buildevalset.StageName, runEvalset}
	validateStage = stage{validateartifacts.StageName, runValidate}
)

// pipeline is the full run order. Validation comes last and gates the manifest.
var pipeline = []stage{filterStage, menuStage, aliasesStage, fewShotsStage, evalsetStage, validateStage}

func stageCommand(a *app, use, short string, s stage) *cobra.Command {
	return &cobra.Command{
		Use:   use,
		Short: short,
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if err := s.run(a, cmd.OutOrStdout()); err != nil {
				a.fail(s.name, err)
			}
			return nil
		},
	}
}

func newFilterCommand(a *app) *cobra.Command {
	return stageCommand(a, "filter", "Keep customer order utterances from the raw transcripts", filterStage)
}

func newMenuCommand(a *app) *cobra.Command {
	return stageCommand(a, "menu", "Compile the menu definition into menu.json", menuStage)
}

func newAliasesCommand(a *app) *cobra.Command {
	return stageCommand(a, "aliases", "Normalize alias rules into aliases.json", aliasesStage)
}

func newFewShotsCommand(a *app) *cobra.Command {
	return stageCommand(a, "fewshots", "Sample utterances and write few_shots.jsonl", fewShotsStage)
}

func newEvalsetCommand(a *app) *cobra.Command {
	return stageCommand(a, "evalset", "Sample utterances and write evalset.jsonl", evalsetStage)
}

func newValidateCommand(a *app) *cobra.Command {
	return stageCommand(a, "validate", "Validate artifacts and write the manifest", validateStage)
}

func newRunCommand(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "run",
		Short: "Run every stage in order, stopping at the first failure",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			for _, s := range pipeline {
				a.log.Info("stage starting", map[string]interface{}{"stage": s.name})
				if err := s.run(a, cmd.OutOrStdout()); err != nil {
					a.fail(s.name, err)
					if apperrors.IsFatal(err) {
						return nil
					}
				}
			}
			return nil
		},
	}
}

func newExtractCommand(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "extract <utterance>",
		Short: "Print the extraction outcome for one utterance",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			d, err := a.drafter()
			if err != nil {
				a.fail("extract", err)
				return nil
			}
			res, err := d.Draft(strings.Join(args, " "))
			if err != nil {
				a.fail("extract", err)
				return nil
			}
			var v interface{} = models.FewShotFromOutcome(res.Input, res.Outcome)
			if res.Excluded {
				v = map[string]interface{}{"input": res.Input, "excluded": true}
			}
			enc := json.NewEncoder(cmd.OutOrStdout())
			enc.SetEscapeHTML(false)
			enc.SetIndent("", "  ")
			return enc.Encode(v)
		},
	}
}

func (a *app) drafter() (*drafting.Drafter, error) {
	kb, err := knowledge.Load(a.cfg.Paths.MenuFile(a.cfg.Domain), a.cfg.Paths.AliasFile(a.cfg.Domain), a.log)
	if err != nil {
		return nil, err
	}
	return drafting.NewDrafter(a.cfg, kb, a.log)
}

func runFilter(a *app, w io.Writer) error {
	h, err := filterorders.NewHandler(filterorders.LoadConfig(a.cfg), a.log)
	if err != nil {
		return err
	}
	out, err := h.Execute(&filterorders.Input{})
	if err != nil {
		return err
	}
	fmt.Fprintf(w, "[filter] %d of %d rows kept from %d files -> %s\n", out.KeptRows, out.TotalRows, len(out.Sources), out.OutputFile)
	return nil
}

func runMenu(a *app, w io.Writer) error {
	out, err := compilemenu.NewHandler(compilemenu.LoadConfig(a.cfg), a.schemas, a.log).Execute(&compilemenu.Input{})
	if err != nil {
		return err
	}
	fmt.Fprintf(w, "[menu] %d items -> %s\n", len(out.Menu.Items), out.OutputFile)
	return nil
}

func runAliases(a *app, w io.Writer) error {
	out, err := buildaliases.NewHandler(buildaliases.LoadConfig(a.cfg), a.log).Execute(&buildaliases.Input{})
	if err != nil {
		return err
	}
	fmt.Fprintf(w, "[aliases] %d terms, %d skipped, %d conflicts -> %s\n", len(out.Aliases), len(out.Skipped), len(out.Conflicts), out.OutputFile)
	return nil
}

func runFewShots(a *app, w io.Writer) error {
	d, err := a.drafter()
	if err != nil {
		return err
	}
	out, err := buildfewshots.NewHandler(buildfewshots.LoadConfig(a.cfg), d, a.log).Execute(&buildfewshots.Input{})
	if err != nil {
		return err
	}
	fmt.Fprintf(w, "[fewshots] %d records from %d sampled (%d excluded) -> %s\n", len(out.Records), out.Sampled, out.Excluded, out.OutputFile)
	return nil
}

func runEvalset(a *app, w io.Writer) error {
	d, err := a.drafter()
	if err != nil {
		return err
	}
	out, err := buildevalset.NewHandler(buildevalset.LoadConfig(a.cfg), d, a.log).Execute(&buildevalset.Input{})
	if err != nil {
		return err
	}
	fmt.Fprintf(w, "[evalset] %d records from %d sampled (%d excluded, %d asks) -> %s\n", len(out.Records), out.Sampled, out.Excluded, out.Asks, out.OutputFile)
	return nil
}

func runValidate(a *app, w io.Writer) error {
	out, err := validateartifacts.NewHandler(validateartifacts.LoadConfig(a.cfg), a.schemas, a.log).Execute(&validateartifacts.Input{})
	if out != nil {
		for _, e := range out.Report.SchemaErrors {
			fmt.Fprintf(w, "[schema] %s\n", e)
		}
		for _, p := range out.Report.SemanticProblems {
			fmt.Fprintf(w, "[semantic] %s\n", p)
		}
		for _, c := range out.Report.AliasConflicts {
			fmt.Fprintf(w, "[alias] %q: %s -> %s\n", c.Term, c.PreviousSKU, c.NewSKU)
		}
	}
	if err != nil {
		return err
	}
	fmt.Fprintf(w, "[validate] manifest -> %s\n", out.ManifestFile)
	if n := len(out.Report.AliasConflicts); n > 0 {
		return apperrors.NewDataQualityWarning(fmt.Sprintf("%d alias terms remapped to a different sku", n))
	}
	return nil
}
