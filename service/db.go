package service

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"toyblog/config"

	"github.com/spf13/cobra"
)

// backupDir receives timestamped backups unless --out is given.
var backupDir = filepath.Join("data", "backups")

func newDBCmd(c *cli) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "db",
		Short: "Maintain the local badger database",
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			if err := c.load(); err != nil {
				return err
			}
			if c.cfg.StoreDriver != config.StoreBadger {
				return fmt.Errorf("db commands need STORE_DRIVER=%s, got %q", config.StoreBadger, c.cfg.StoreDriver)
			}
			return nil
		},
	}

	var yes bool
	clean := &cobra.Command{
		Use:   "clean",
		Short: "Delete the database",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return cleanDB(cmd, c.cfg.DBPath, yes)
		},
	}
	clean.Flags().BoolVarP(&yes, "yes", "y", false, "skip the confirmation prompt")

	initCmd := &cobra.Command{
		Use:   "init",
		Short: "Create a new empty database",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return initDB(cmd, c.cfg.DBPath)
		},
	}

	var out string
	backup := &cobra.Command{
		Use:   "backup",
		Short: "Write a full backup of the database",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return backupDB(cmd, c.cfg.DBPath, out)
		},
	}
	backup.Flags().StringVarP(&out, "out", "o", "", "backup file (default data/backups/backup_<unix>.db)")

	var force bool
	restore := &cobra.Command{
		Use:   "restore <file>",
		Short: "Replace the database with a backup",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return restoreDB(cmd, c.cfg.DBPath, args[0], force)
		},
	}
	restore.Flags().BoolVarP(&force, "yes", "y", false, "replace an existing database without asking")

	cmd.AddCommand(clean, initCmd, backup, restore)
	return cmd
}

// confirm asks a yes/no question on the command's streams.
func confirm(cmd *cobra.Command, question string) bool {
	fmt.Fprintf(cmd.OutOrStdout(), "%s [y/N] ", question)
	answer, err := bufio.NewReader(cmd.InOrStdin()).ReadString('\n')
	if err != nil && !errors.Is(err, io.EOF) {
		return false
	}
	answer = strings.TrimSpace(answer)
	return answer == "y" || answer == "Y"
}

func exists(path string) bool {
	_, err := os.Stat(path)
	return err == nil
}

func cleanDB(cmd *cobra.Command, dbPath string, yes bool) error {
	out := cmd.OutOrStdout()
	if !exists(dbPath) {
		fmt.Fprintln(out, "Database is already clean (does not exist)")
		return nil
	}
	if !yes && !confirm(cmd, "Are you sure you want to clean the database? This cannot be undone.") {
		fmt.Fprintln(out, "Operation cancelled")
		return nil
	}
	if err := os.RemoveAll(dbPath); err != nil {
		return fmt.Errorf("failed to clean database: %w", err)
	}
	fmt.Fprintln(out, "Database cleaned successfully")
	return nil
}

func initDB(cmd *cobra.Command, dbPath string) error {
	out := cmd.OutOrStdout()
	if exists(dbPath) {
		fmt.Fprintln(out, "Database already exists. Use 'db clean' first if you want to reinitialize.")
		return nil
	}
	if err := os.MkdirAll(dbPath, 0o755); err != nil {
		return fmt.Errorf("failed to create database directory: %w", err)
	}
	db, err := openBadger(dbPath)
	if err != nil {
		return err
	}
	if err := db.Close(); err != nil {
		return fmt.Errorf("failed to close database: %w", err)
	}
	fmt.Fprintln(out, "Database initialized successfully")
	return nil
}

func backupDB(cmd *cobra.Command, dbPath, target string) error {
	if !exists(dbPath) {
		return errors.New("no database exists to backup")
	}
	if target == "" {
		target = filepath.Join(backupDir, fmt.Sprintf("backup_%d.db", time.Now().Unix()))
	}
	if err := os.MkdirAll(filepath.Dir(target), 0o755); err != nil {
		return fmt.Errorf("failed to create backup directory: %w", err)
	}

	db, err := openBadger(dbPath)
	if err != nil {
		return err
	}
	defer db.Close()

	f, err := os.Create(target)
	if err != nil {
		return fmt.Errorf("failed to create backup file: %w", err)
	}
	defer f.Close()

	if _, err := db.Backup(f, 0); err != nil {
		return fmt.Errorf("failed to backup database: %w", err)
	}
	fmt.Fprintf(cmd.OutOrStdout(), "Database backed up successfully to %s\n", target)
	return nil
}

func restoreDB(cmd *cobra.Command, dbPath, backupFile string, yes bool) (err error) {
	out := cmd.OutOrStdout()
	fi, err := os.Stat(backupFile)
	if err != nil {
		return fmt.Errorf("backup file does not exist: %s", backupFile)
	}
	if fi.Size() == 0 {
		return fmt.Errorf("backup file is empty: %s", backupFile)
	}

	if exists(dbPath) {
		if !yes && !confirm(cmd, "Existing database found. Do you want to replace it?") {
			fmt.Fprintln(out, "Operation cancelled")
			return nil
		}
		if err := os.RemoveAll(dbPath); err != nil {
			return fmt.Errorf("failed to remove existing database: %w", err)
		}
	}
	if err := os.MkdirAll(dbPath, 0o755); err != nil {
		return fmt.Errorf("failed to create database directory: %w", err)
	}

	db, err := openBadger(dbPath)
	if err != nil {
		return err
	}
	defer db.Close()

	f, err := os.Open(backupFile)
	if err != nil {
		return fmt.Errorf("failed to open backup file: %w", err)
	}
	defer f.Close()

	// badger panics on some malformed backups
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("failed to restore database: %v", r)
		}
	}()
	if err := db.Load(f, 4); err != nil {
		return fmt.Errorf("failed to restore database: %w", err)
	}
	fmt.Fprintln(out, "Database restored successfully")
	return nil
}
