package main

import (
	"fmt"
	"text/tabwriter"
	"time"

	"tutorhub/internal/domain/backup"

	"github.com/spf13/cobra"
)

func newBackupCmd(c *cli) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "backup",
		Short: "Create, list and prune database backups",
	}

	var limit, days int

	run := &cobra.Command{
		Use:   "run",
		Short: "Export every table to a compressed JSON file",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			svc, err := c.backupService(cmd.Context())
			if err != nil {
				return err
			}
			entry, err := svc.Run(cmd.Context(), backup.TriggerManual)
			if err != nil {
				return err
			}
			fmt.Fprintf(c.out, "Backup %s written to %s (%d bytes, %d tables)\n",
				entry.ID, entry.FilePath.String, entry.SizeBytes, entry.TablesCount)
			return nil
		},
	}

	list := &cobra.Command{
		Use:   "list",
		Short: "Show recent backups",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			svc, err := c.backupService(cmd.Context())
			if err != nil {
				return err
			}
			logs, err := svc.List(cmd.Context(), limit)
			if err != nil {
				return err
			}
			printBackups(c, logs)
			return nil
		},
	}
	list.Flags().IntVar(&limit, "limit", 20, "number of backups to show")

	prune := &cobra.Command{
		Use:   "prune",
		Short: "Delete backups older than the retention period",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if !cmd.Flags().Changed("days") {
				days = c.cfg.BackupRetentionDays
			}
			svc, err := c.backupService(cmd.Context())
			if err != nil {
				return err
			}
			n, err := svc.Prune(cmd.Context(), days)
			if err != nil {
				return err
			}
			fmt.Fprintf(c.out, "Pruned %d backup(s) older than %d days\n", n, days)
			return nil
		},
	}
	prune.Flags().IntVar(&days, "days", 0, "retention in days (defaults to BACKUP_RETENTION_DAYS)")

	cmd.AddCommand(run, list, prune)
	return cmd
}

func printBackups(c *cli, logs []*backup.Log) {
	if len(logs) == 0 {
		fmt.Fprintln(c.out, "No backups found")
		return
	}
	w := tabwriter.NewWriter(c.out, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "ID\tSTARTED\tTRIGGER\tSTATUS\tSIZE\tFILE")
	for _, l := range logs {
		fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%d\t%s\n",
			l.ID, l.StartedAt.UTC().Format(time.RFC3339), l.Trigger, l.Status, l.SizeBytes, l.FilePath.String)
	}
	w.Flush()
}
