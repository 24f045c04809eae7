package main

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"

	"github.com/spf13/cobra"

	"rollclean/internal/config"
	"rollclean/internal/journal"
	"rollclean/internal/logging"
	"rollclean/internal/organizer"
	"rollclean/internal/prompt"
	"rollclean/internal/services/exiftool"
	"rollclean/internal/services/magick"
	"rollclean/internal/workflow"
)

func newProcessCommand(ctx *commandContext) *cobra.Command {
	var (
		reorg        bool
		convertBW    bool
		convertTIFF  bool
		dryRun       bool
		reprocess    bool
		generation   string
		rollPadding  int
		framePadding int
		scannerModel string
	)

	cmd := &cobra.Command{
		Use:   "process [export-root]",
		Short: "Rename, reorder, and timestamp scanner exports",
		Long: "Process walks every roll directory under the export root, orders the " +
			"frames, writes capture timestamps that preserve that order, and renames " +
			"the images to R<roll>F<frame> names. With --reorg the rolls are also " +
			"moved into <order id>/<date>/<roll> directories.",
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}
			applyProcessOverrides(cfg, cmd, generation, rollPadding, framePadding, scannerModel)
			if err := cfg.Validate(); err != nil {
				return err
			}

			root := cfg.Paths.ExportRoot
			if len(args) == 1 {
				root, err = config.ExpandPath(args[0])
				if err != nil {
					return fmt.Errorf("resolve export root: %w", err)
				}
			}
			if root == "" {
				root, err = os.Getwd()
				if err != nil {
					return fmt.Errorf("determine working directory: %w", err)
				}
			}
			cfg.Paths.ExportRoot = root

			logger, err := logging.NewFromConfig(cfg)
			if err != nil {
				return fmt.Errorf("initialize logging: %w", err)
			}

			deps := workflow.Deps{}

			if !dryRun {
				store, err := journal.Open(cfg)
				if err != nil {
					return fmt.Errorf("open journal: %w", err)
				}
				defer store.Close()
				deps.Journal = store

				writer, err := exiftool.New(cfg.Exiftool.Binary)
				if err != nil {
					return err
				}
				defer writer.Close()
				deps.Writer = writer
			}

			if convertBW || convertTIFF {
				converter, err := magick.New(cfg.Magick.Binary)
				if err != nil {
					return err
				}
				deps.Converter = converter

				if convertBW {
					if !prompt.Interactive() {
						logger.Warn("stdin is not a terminal, skipping B+W prompts")
						convertBW = false
					} else {
						deps.Prompter = prompt.New(os.Stdin, cmd.OutOrStdout(), converter)
					}
				}
			}

			mode := organizer.ModeInPlace
			if reorg {
				mode = organizer.ModeReorg
			}

			runner := workflow.New(cfg, logger, deps)
			summary, err := runner.Run(cmd.Context(), workflow.Options{
				Root:        root,
				Mode:        mode,
				ConvertBW:   convertBW,
				ConvertTIFF: convertTIFF,
				DryRun:      dryRun,
				Reprocess:   reprocess,
			})
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			if dryRun {
				printPlans(out, summary)
			}
			printSummary(out, summary)

			if summary.Count(workflow.StatusFailed) > 0 {
				return errors.New("one or more rolls failed; see the log for details")
			}
			return nil
		},
	}

	cmd.Flags().BoolVar(&reorg, "reorg", false, "Move rolls into <order id>/<date>/<roll> directories")
	cmd.Flags().BoolVar(&convertBW, "convert-bw", false, "Ask per roll whether to convert the scans to B+W")
	cmd.Flags().BoolVar(&convertTIFF, "convert-tif", false, "Convert BMP exports to LZW-compressed TIFFs first")
	cmd.Flags().BoolVar(&dryRun, "dry-run", false, "Plan every roll and print the renames without touching files")
	cmd.Flags().BoolVar(&reprocess, "reprocess", false, "Process rolls even when the journal marks them complete")
	cmd.Flags().StringVar(&generation, "generation", "", "Scanner software generation (ms01 or c4c5)")
	cmd.Flags().IntVar(&rollPadding, "roll-padding", 0, "Zero-pad roll numbers to this width")
	cmd.Flags().IntVar(&framePadding, "frame-padding", 0, "Zero-pad frame numbers to this width")
	cmd.Flags().StringVar(&scannerModel, "scanner-model", "", "Model written to EXIF metadata")

	return cmd
}

func applyProcessOverrides(cfg *config.Config, cmd *cobra.Command, generation string, rollPadding, framePadding int, scannerModel string) {
	if cmd.Flags().Changed("generation") {
		cfg.Scanner.Generation = generation
	}
	if cmd.Flags().Changed("roll-padding") {
		cfg.Naming.RollPadding = rollPadding
	}
	if cmd.Flags().Changed("frame-padding") {
		cfg.Naming.FramePadding = framePadding
	}
	if cmd.Flags().Changed("scanner-model") {
		cfg.Scanner.Model = scannerModel
	}
}

func printPlans(out io.Writer, summary *workflow.Summary) {
	for _, result := range summary.Results {
		if result.Plan == nil {
			continue
		}
		if result.Plan.DestDir != "" {
			fmt.Fprintf(out, "%s -> %s\n", result.Roll.Name(), result.Plan.DestDir)
		} else {
			fmt.Fprintf(out, "%s (renamed in place)\n", result.Roll.Name())
		}
		rows := make([][]string, 0, len(result.Plan.Moves))
		for _, move := range result.Plan.Moves {
			rows = append(rows, []string{
				filepath.Base(move.Source.Path),
				filepath.Base(move.DestPath),
			})
		}
		fmt.Fprintln(out, renderTable([]string{"Source", "Destination"}, rows))
	}
}

func printSummary(out io.Writer, summary *workflow.Summary) {
	rows := make([][]string, 0, len(summary.Results))
	for _, result := range summary.Results {
		images := ""
		if result.Plan != nil {
			images = strconv.Itoa(len(result.Plan.Moves))
		}
		rows = append(rows, []string{
			result.Roll.Name(),
			string(result.Status),
			images,
			result.Reason,
		})
	}
	fmt.Fprintln(out, renderTable([]string{"Roll", "Status", "Images", "Detail"}, rows, 2))
}
