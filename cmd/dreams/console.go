package main

import (
	"bufio"
	"context"
	"encoding/json"
	"fmt"
	"log"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/rmf-ai/dreams-engine/internal/approval"
	"github.com/rmf-ai/dreams-engine/internal/compiler"
	"github.com/rmf-ai/dreams-engine/internal/memory"
	"github.com/rmf-ai/dreams-engine/internal/provenance"
)

// #region console

func newConsoleCmd(cfgPath *string) *cobra.Command {
	return &cobra.Command{
		Use:   "console",
		Short: "Interactive idea console",
		Long: `Read ideas from stdin, compile each into an intent, execution plan and
shadow-plan set, then route it through the decision gate. Operator
decisions are recorded and feed future predictions.

Inside the console: 'briefing' prints the cognitive state, 'plans'
lists the shadow working set, 'quit' exits.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			eng, err := openEngine(*cfgPath)
			if err != nil {
				return err
			}
			defer eng.Close()
			return runConsole(eng)
		},
	}
}

func runConsole(eng *engine) error {
	fmt.Println("Dreams engine console ready.")
	fmt.Printf("  DB: %s\n", eng.cfg.DBPath)
	fmt.Println("Type an idea (or 'quit' to exit):")

	gateCfg := approval.Config{
		AutoApproveConfidence: eng.cfg.Approval.AutoApproveConfidence,
		ReviewFloor:           eng.cfg.Approval.ReviewFloor,
	}

	scanner := bufio.NewScanner(os.Stdin)
	for {
		fmt.Print("> ")
		if !scanner.Scan() {
			break
		}
		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}
		switch line {
		case "quit", "exit":
			return nil
		case "briefing":
			printBriefing(eng)
			continue
		case "plans":
			printPlans(eng)
			continue
		case "stats":
			printStats(eng)
			continue
		}

		handleIdea(eng, gateCfg, scanner, line)
	}
	return scanner.Err()
}

func handleIdea(eng *engine, gateCfg approval.Config, scanner *bufio.Scanner, idea string) {
	compiled := eng.compiler.Compile(context.Background(), idea, nil)
	fmt.Println(compiler.FormatOutput(compiled))

	logEvent(eng, provenance.Entry{
		EventType: provenance.EventIdeaCompiled,
		SubjectID: string(compiled.Intent.Category),
		Reason:    compiled.EstimatedCompletion,
	})

	taskType := string(compiled.Intent.Category)
	decisionCtx := map[string]any{
		"category":   string(compiled.Intent.Category),
		"strategy":   string(compiled.Intent.Strategy),
		"complexity": string(compiled.ExecutionPlan.Complexity),
	}

	pred, err := eng.memory.PredictApproval(taskType, decisionCtx)
	if err != nil {
		log.Printf("[CONSOLE] prediction error: %v", err)
		return
	}
	routing := approval.Route(pred, gateCfg)
	fmt.Printf("[gate] action=%s confidence=%.2f reason=%s\n", routing.Action, pred.Confidence, routing.Reason)

	var decision memory.Decision
	notes := ""
	switch routing.Action {
	case approval.ActionAutoApprove:
		decision = memory.DecisionApprove
		notes = "auto-approved by gate"
		fmt.Println("[gate] auto-approved")
	default:
		decision, notes = promptDecision(scanner)
		if decision == "" {
			fmt.Println("skipped")
			return
		}
	}

	id, err := eng.memory.RecordDecision(taskType, decisionCtx, decision, 1.0, notes)
	if err != nil {
		log.Printf("[CONSOLE] record error: %v", err)
		return
	}
	fp, _ := memory.Fingerprint(decisionCtx)
	logEvent(eng, provenance.Entry{
		EventType:   provenance.EventDecisionLogged,
		SubjectID:   fmt.Sprintf("%d", id),
		Fingerprint: fp,
		Decision:    string(decision),
		Reason:      notes,
	})
	fmt.Printf("recorded decision %d (%s). Report the outcome later with: dreams outcome %d --success=<bool>\n",
		id, decision, id)
}

func promptDecision(scanner *bufio.Scanner) (memory.Decision, string) {
	fmt.Print("[a]pprove / [r]eject / [m]odify / [s]kip? ")
	if !scanner.Scan() {
		return "", ""
	}
	switch strings.ToLower(strings.TrimSpace(scanner.Text())) {
	case "a", "approve":
		return memory.DecisionApprove, ""
	case "r", "reject":
		return memory.DecisionReject, ""
	case "m", "modify":
		fmt.Print("modification notes: ")
		if !scanner.Scan() {
			return memory.DecisionModify, ""
		}
		return memory.DecisionModify, strings.TrimSpace(scanner.Text())
	default:
		return "", ""
	}
}

// #endregion console

// #region printers

func printBriefing(eng *engine) {
	briefing := eng.planner.GetCognitiveBriefing()
	out, _ := json.MarshalIndent(briefing, "", "  ")
	fmt.Println(string(out))
}

func printPlans(eng *engine) {
	export := eng.planner.ExportPlans()
	fmt.Printf("plans: %d total, %d active, %d shadow\n",
		export.Stats.Total, export.Stats.Active, export.Stats.Shadow)
	for id, p := range export.Plans {
		fmt.Printf("  %-14s %-9s conf=%.2f triggers=%s\n    %s\n",
			p.PlanType, p.Status, p.Confidence, strings.Join(p.Triggers, ","), id)
	}
}

func printStats(eng *engine) {
	stats, err := eng.memory.GetStats()
	if err != nil {
		log.Printf("[CONSOLE] stats error: %v", err)
		return
	}
	out, _ := json.MarshalIndent(stats, "", "  ")
	fmt.Println(string(out))
}

func logEvent(eng *engine, entry provenance.Entry) {
	if err := provenance.Log(eng.db, entry); err != nil {
		log.Printf("[CONSOLE] provenance error: %v", err)
	}
}

// #endregion printers
