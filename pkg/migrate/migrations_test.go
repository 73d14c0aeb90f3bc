package migrate_test

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/united17/relief-portal/pkg/migrate"
)

func TestMigrationsDirValidates(t *testing.T) {
	if err := migrate.ValidateDir("migrations"); err != nil {
		t.Fatalf("validate migrations dir: %v", err)
	}
}

func readMigration(t *testing.T, pattern string) string {
	t.Helper()
	matches, err := filepath.Glob(filepath.Join("migrations", pattern))
	if err != nil {
		t.Fatalf("glob migrations: %v", err)
	}
	if len(matches) == 0 {
		t.Fatalf("no migration matching %s", pattern)
	}
	data, err := os.ReadFile(matches[0])
	if err != nil {
		t.Fatalf("read migration file: %v", err)
	}
	return string(data)
}

func TestMissionsMigrationContainsConstraints(t *testing.T) {
	content := readMigration(t, "*_create_missions.sql")

	checks := []string{
		"CREATE TABLE IF NOT EXISTS missions",
		"CREATE TABLE IF NOT EXISTS mission_items",
		"CREATE TABLE IF NOT EXISTS mission_photos",
		"FOREIGN KEY (mission_id) REFERENCES missions(id) ON DELETE CASCADE",
		"FOREIGN KEY (linked_item_id) REFERENCES mission_items(id) ON DELETE SET NULL",
		"CHECK (quantity > 0)",
		"CHECK (total_spent >= 0)",
		"volunteer_names TEXT[]",
		"DROP TABLE IF EXISTS missions",
	}

	for _, sub := range checks {
		if !strings.Contains(content, sub) {
			t.Errorf("missing expected statement %q", sub)
		}
	}
}

func TestDonationsMigrationContainsConstraints(t *testing.T) {
	content := readMigration(t, "*_create_donations.sql")

	checks := []string{
		"CREATE TABLE IF NOT EXISTS donations",
		"CHECK (amount >= 0)",
		"CHECK (amount_lkr >= 0)",
		"donation_date DATE NOT NULL",
		"DROP TABLE IF EXISTS donations",
	}

	for _, sub := range checks {
		if !strings.Contains(content, sub) {
			t.Errorf("missing expected statement %q", sub)
		}
	}
}

func TestAdminsMigrationEnforcesRoles(t *testing.T) {
	content := readMigration(t, "*_create_admins.sql")

	checks := []string{
		"CREATE TABLE IF NOT EXISTS admins",
		"CHECK (role IN ('owner', 'collector'))",
		"CREATE UNIQUE INDEX IF NOT EXISTS idx_admins_username",
	}

	for _, sub := range checks {
		if !strings.Contains(content, sub) {
			t.Errorf("missing expected statement %q", sub)
		}
	}
}
