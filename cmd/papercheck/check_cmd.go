package main

import (
	"context"
	"fmt"
	"os"
	"text/tabwriter"

	"github.com/fentz26/papercheck/internal/checkfeed"
	"github.com/fentz26/papercheck/internal/models"
	"github.com/fentz26/papercheck/internal/tui"
	"github.com/spf13/cobra"
)

var checkCmd = &cobra.Command{
	Use:   "check",
	Short: "Submit and follow check jobs",
}

var checkSubmitCmd = &cobra.Command{
	Use:   "submit",
	Short: "Submit a check job for a paper",
	RunE:  runCheckSubmit,
}

var checkStatusCmd = &cobra.Command{
	Use:   "status [task-id]",
	Short: "Fetch the current status of a check job",
	Args:  cobra.ExactArgs(1),
	RunE:  runCheckStatus,
}

var checkWatchCmd = &cobra.Command{
	Use:   "watch [task-id]",
	Short: "Follow a check job's progress live",
	Args:  cobra.ExactArgs(1),
	RunE:  runCheckWatch,
}

var checkHistoryCmd = &cobra.Command{
	Use:   "history",
	Short: "List checks submitted from this machine",
	RunE:  runCheckHistory,
}

var (
	checkPaperID    string
	checkTemplateID string
	checkTitle      bool
	checkFormat     bool
	checkContent    bool
	checkDuplicate  bool
	checkLogic      bool
	checkNoWatch    bool
	historyStatus   string
)

func init() {
	checkCmd.AddCommand(checkSubmitCmd, checkStatusCmd, checkWatchCmd, checkHistoryCmd)

	checkSubmitCmd.Flags().StringVar(&checkPaperID, "paper", "", "Paper ID (required)")
	checkSubmitCmd.Flags().StringVar(&checkTemplateID, "template", "", "Template ID (required)")
	checkSubmitCmd.Flags().BoolVar(&checkTitle, "title", true, "Run the title check")
	checkSubmitCmd.Flags().BoolVar(&checkFormat, "format", true, "Run the format check")
	checkSubmitCmd.Flags().BoolVar(&checkContent, "content", true, "Run the content quality check")
	checkSubmitCmd.Flags().BoolVar(&checkDuplicate, "duplicate", true, "Run the duplicate detection")
	checkSubmitCmd.Flags().BoolVar(&checkLogic, "logic", true, "Run the logic consistency check")
	checkSubmitCmd.Flags().BoolVar(&checkNoWatch, "no-watch", false, "Print the task id and exit instead of watching")
	checkSubmitCmd.MarkFlagRequired("paper")
	checkSubmitCmd.MarkFlagRequired("template")

	checkHistoryCmd.Flags().StringVar(&historyStatus, "status", "", "Filter by last observed status")
}

func runCheckSubmit(cmd *cobra.Command, args []string) error {
	client, _, err := apiClient()
	if err != nil {
		return err
	}

	checkCfg := models.CheckConfiguration{
		PaperID:        checkPaperID,
		TemplateID:     checkTemplateID,
		CheckTitle:     checkTitle,
		CheckFormat:    checkFormat,
		CheckContent:   checkContent,
		CheckDuplicate: checkDuplicate,
		CheckLogic:     checkLogic,
	}

	ctx, cancel := cmdContext()
	defer cancel()

	// One command invocation, one submission. A failed submit is reported
	// and never retried here: the server may already have created the task.
	taskID, err := client.SubmitCheck(ctx, checkCfg)
	if err != nil {
		return friendly(err)
	}

	if store, err := historyStore(); err == nil {
		if _, err := store.Record(taskID, checkCfg); err != nil {
			log.WithError(err).Debug("failed to record check in history")
		}
		store.Close()
	} else {
		log.WithError(err).Debug("history store unavailable")
	}

	fmt.Printf("Check submitted. Task: %s\n", taskID)
	if checkNoWatch {
		fmt.Printf("Follow it with: papercheck check watch %s\n", taskID)
		return nil
	}
	return watchTask(taskID)
}

func runCheckStatus(cmd *cobra.Command, args []string) error {
	client, _, err := apiClient()
	if err != nil {
		return err
	}

	ctx, cancel := cmdContext()
	defer cancel()

	task, err := client.GetCheckStatus(ctx, args[0])
	if err != nil {
		return friendly(err)
	}

	fmt.Printf("Task:     %s\n", task.TaskID)
	fmt.Printf("Status:   %s\n", task.Status)
	fmt.Printf("Progress: %d%%\n", task.ProgressPercent)
	if task.CurrentStage != "" {
		fmt.Printf("Stage:    %s\n", task.CurrentStage)
	}
	if task.ResultID != "" {
		fmt.Printf("Result:   %s\n", task.ResultID)
	}
	if task.ErrorMessage != "" {
		fmt.Printf("Error:    %s\n", task.ErrorMessage)
	}
	return nil
}

func runCheckWatch(cmd *cobra.Command, args []string) error {
	return watchTask(args[0])
}

// watchTask runs the live progress view for one task and records the
// outcome in local history.
func watchTask(taskID string) error {
	client, mgr, err := apiClient()
	if err != nil {
		return err
	}

	feed := checkfeed.NewChannel(cfg.WSURL, taskID, mgr.Token(),
		checkfeed.WithReconnectPolicy(cfg.ReconnectAttempts, cfg.ReconnectInterval),
		checkfeed.WithChannelLogger(log),
	)

	final, err := tui.RunProgress(context.Background(), taskID, client, feed)
	if err != nil {
		return err
	}

	if final.Phase == checkfeed.PhaseDone {
		if store, err := historyStore(); err == nil {
			if err := store.UpdateOutcome(taskID, final.Task.Status, final.Task.ResultID); err != nil {
				log.WithError(err).Debug("failed to update check history")
			}
			store.Close()
		}
	}
	return nil
}

func runCheckHistory(cmd *cobra.Command, args []string) error {
	store, err := historyStore()
	if err != nil {
		return err
	}
	defer store.Close()

	entries, err := store.List(models.CheckStatus(historyStatus))
	if err != nil {
		return err
	}
	if len(entries) == 0 {
		fmt.Println("No checks submitted from this machine")
		return nil
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "TASK\tPAPER\tSTATUS\tRESULT\tSUBMITTED")
	for _, e := range entries {
		fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%s\n",
			truncateID(e.TaskID), truncateID(e.PaperID), e.Status, truncateID(e.ResultID),
			e.SubmittedAt.Local().Format("2006-01-02 15:04"))
	}
	w.Flush()
	return nil
}
