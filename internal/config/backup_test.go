package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestBackupUserConfig(t *testing.T) {
	configDir := isolate(t)
	configPath := filepath.Join(configDir, "gitglob", "config.yaml")

	t.Run("no config exists", func(t *testing.T) {
		backupPath, err := BackupUserConfig()
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if backupPath != "" {
			t.Errorf("expected empty backup path for non-existent config, got %s", backupPath)
		}
	})

	t.Run("backup existing config", func(t *testing.T) {
		testContent := "version: 1\nwalk:\n  git_excludes: true\n"
		writeUserConfig(t, configDir, testContent)

		backupPath, err := BackupUserConfig()
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if backupPath == "" {
			t.Fatal("expected non-empty backup path")
		}

		backupContent, err := os.ReadFile(backupPath)
		if err != nil {
			t.Fatalf("failed to read backup: %v", err)
		}
		if string(backupContent) != testContent {
			t.Errorf("backup content mismatch:\ngot: %s\nwant: %s", backupContent, testContent)
		}
		if filepath.Dir(backupPath) != filepath.Dir(configPath) {
			t.Errorf("backup should sit next to the config: %s", backupPath)
		}
	})
}

func TestListUserConfigBackups_PrunesToMax(t *testing.T) {
	configDir := isolate(t)
	writeUserConfig(t, configDir, "version: 1\n")

	for i := 0; i < MaxBackups+2; i++ {
		if _, err := BackupUserConfig(); err != nil {
			t.Fatalf("backup %d failed: %v", i, err)
		}
		// Backup names carry millisecond timestamps.
		time.Sleep(5 * time.Millisecond)
	}

	backups, err := ListUserConfigBackups()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(backups) != MaxBackups {
		t.Fatalf("expected %d backups, got %d: %v", MaxBackups, len(backups), backups)
	}
	if backups[0] < backups[1] {
		t.Errorf("backups should be newest first: %v", backups)
	}
}

func TestListUserConfigBackups_NoDirectory(t *testing.T) {
	isolate(t)

	backups, err := ListUserConfigBackups()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(backups) != 0 {
		t.Errorf("expected no backups, got %v", backups)
	}
}
