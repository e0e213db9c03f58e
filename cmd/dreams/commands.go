package main

import (
	"context"
	"encoding/json"
	"fmt"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/rmf-ai/dreams-engine/internal/approval"
	"github.com/rmf-ai/dreams-engine/internal/intent"
	"github.com/rmf-ai/dreams-engine/internal/provenance"
)

// #region reconstruct

func newReconstructCmd() *cobra.Command {
	var jsonOut bool

	cmd := &cobra.Command{
		Use:   "reconstruct <text>",
		Short: "Reconstruct layered intent from raw text",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ri := intent.Reconstruct(strings.Join(args, " "), nil)
			if jsonOut {
				out, err := json.MarshalIndent(ri, "", "  ")
				if err != nil {
					return err
				}
				fmt.Println(string(out))
				return nil
			}

			fmt.Printf("category:  %s\n", ri.Category)
			fmt.Printf("goal:      %s\n", ri.PrimaryGoal)
			fmt.Printf("ambiguity: %.2f\n", ri.AmbiguityScore)
			fmt.Printf("strategy:  %s\n", ri.Strategy)
			for _, layer := range ri.Layers {
				fmt.Printf("  L%d (%.2f) %s\n", layer.Level, layer.Confidence, layer.Interpretation)
			}
			return nil
		},
	}
	cmd.Flags().BoolVar(&jsonOut, "json", false, "output as JSON")
	return cmd
}

// #endregion reconstruct

// #region plans-briefing

func newPlansCmd(cfgPath *string) *cobra.Command {
	return &cobra.Command{
		Use:   "plans <idea>",
		Short: "Compile an idea and list its shadow-plan set",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			eng, err := openEngine(*cfgPath)
			if err != nil {
				return err
			}
			defer eng.Close()

			compiled := eng.compiler.Compile(context.Background(), strings.Join(args, " "), nil)
			for _, p := range compiled.ShadowPlans {
				fmt.Printf("%-14s conf=%.2f triggers=%s\n  %s\n",
					p.PlanType, p.Confidence, strings.Join(p.Triggers, ","), p.Reasoning)
				for _, r := range p.Risks {
					fmt.Printf("  risk: %s p=%.2f impact=%s\n", r.RiskType, r.Probability, r.Impact)
				}
			}
			return nil
		},
	}
}

func newBriefingCmd(cfgPath *string) *cobra.Command {
	return &cobra.Command{
		Use:   "briefing <idea>",
		Short: "Compile an idea and print the cognitive briefing",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			eng, err := openEngine(*cfgPath)
			if err != nil {
				return err
			}
			defer eng.Close()

			eng.compiler.Compile(context.Background(), strings.Join(args, " "), nil)
			out, err := json.MarshalIndent(eng.planner.GetCognitiveBriefing(), "", "  ")
			if err != nil {
				return err
			}
			fmt.Println(string(out))
			return nil
		},
	}
}

// #endregion plans-briefing

// #region predict

func newPredictCmd(cfgPath *string) *cobra.Command {
	var ctxJSON string

	cmd := &cobra.Command{
		Use:   "predict <task-type>",
		Short: "Predict the operator decision for a task",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			eng, err := openEngine(*cfgPath)
			if err != nil {
				return err
			}
			defer eng.Close()

			var taskCtx map[string]any
			if ctxJSON != "" {
				if err := json.Unmarshal([]byte(ctxJSON), &taskCtx); err != nil {
					return fmt.Errorf("parse --context: %w", err)
				}
			}

			pred, err := eng.memory.PredictApproval(args[0], taskCtx)
			if err != nil {
				return err
			}
			routing := approval.Route(pred, approval.Config{
				AutoApproveConfidence: eng.cfg.Approval.AutoApproveConfidence,
				ReviewFloor:           eng.cfg.Approval.ReviewFloor,
			})

			fmt.Printf("prediction: %s (%.2f)\n", pred.Decision, pred.Confidence)
			fmt.Printf("reasoning:  %s\n", pred.Reasoning)
			fmt.Printf("routing:    %s (%s)\n", routing.Action, routing.Reason)
			return nil
		},
	}
	cmd.Flags().StringVar(&ctxJSON, "context", "", "task context as JSON object")
	return cmd
}

// #endregion predict

// #region outcome

func newOutcomeCmd(cfgPath *string) *cobra.Command {
	var success bool

	cmd := &cobra.Command{
		Use:   "outcome <decision-id>",
		Short: "Record the execution result of an approved decision",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := strconv.ParseInt(args[0], 10, 64)
			if err != nil {
				return fmt.Errorf("parse decision id: %w", err)
			}

			eng, err := openEngine(*cfgPath)
			if err != nil {
				return err
			}
			defer eng.Close()

			if err := eng.memory.UpdateOutcome(id, success); err != nil {
				return err
			}
			logEvent(eng, provenance.Entry{
				EventType: provenance.EventOutcomeLogged,
				SubjectID: args[0],
				Decision:  fmt.Sprintf("success=%t", success),
			})
			fmt.Printf("outcome recorded for decision %d\n", id)
			return nil
		},
	}
	cmd.Flags().BoolVar(&success, "success", false, "whether execution succeeded")
	return cmd
}

// #endregion outcome

// #region stats-inspect

func newStatsCmd(cfgPath *string) *cobra.Command {
	return &cobra.Command{
		Use:   "stats",
		Short: "Show learning statistics and preferences",
		RunE: func(cmd *cobra.Command, args []string) error {
			eng, err := openEngine(*cfgPath)
			if err != nil {
				return err
			}
			defer eng.Close()

			stats, err := eng.memory.GetStats()
			if err != nil {
				return err
			}
			prefs, err := eng.memory.GetPreferences()
			if err != nil {
				return err
			}

			out, err := json.MarshalIndent(map[string]any{
				"stats":       stats,
				"preferences": prefs,
			}, "", "  ")
			if err != nil {
				return err
			}
			fmt.Println(string(out))
			return nil
		},
	}
}

func newInspectCmd(cfgPath *string) *cobra.Command {
	var (
		last    int
		jsonOut bool
	)

	cmd := &cobra.Command{
		Use:   "inspect",
		Short: "Show recent engine log entries",
		RunE: func(cmd *cobra.Command, args []string) error {
			eng, err := openEngine(*cfgPath)
			if err != nil {
				return err
			}
			defer eng.Close()

			entries, err := provenance.Recent(eng.db, last)
			if err != nil {
				return err
			}
			if jsonOut {
				out, err := json.MarshalIndent(entries, "", "  ")
				if err != nil {
					return err
				}
				fmt.Println(string(out))
				return nil
			}

			for _, e := range entries {
				fmt.Printf("%-6d %-18s %-10s %-12s %s\n",
					e.ID, e.EventType, e.SubjectID, e.Decision,
					e.CreatedAt.Format("2006-01-02 15:04:05"))
			}
			return nil
		},
	}
	cmd.Flags().IntVar(&last, "last", 20, "show N most recent entries")
	cmd.Flags().BoolVar(&jsonOut, "json", false, "output as JSON")
	return cmd
}

// #endregion stats-inspect
