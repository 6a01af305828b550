package database

import (
	"database/sql"
	"fmt"
	"log/slog"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
)

// Seed populates the database with initial development data.
// It creates a default organization with an admin user and one starter
// draft if no users exist. The admin will be prompted to set up 2FA on
// first login (totp_enabled = false).
func Seed(db *sql.DB) error {
	// Check if any users exist already.
	var count int
	if err := db.QueryRow("SELECT COUNT(*) FROM users").Scan(&count); err != nil {
		return fmt.Errorf("seed check users: %w", err)
	}

	if count > 0 {
		slog.Info("database already seeded, skipping")
		return nil
	}

	// Hash the default admin password.
	hash, err := bcrypt.GenerateFromPassword([]byte("admin"), bcrypt.DefaultCost)
	if err != nil {
		return fmt.Errorf("seed bcrypt: %w", err)
	}

	orgID := uuid.New()

	// Insert default admin user. 2FA is not enabled — they must set it up
	// on first login.
	var adminID uuid.UUID
	err = db.QueryRow(`
		INSERT INTO users (email, password_hash, display_name, role, organization_id, totp_enabled)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING id
	`, "admin@scaffolder.local", string(hash), "Admin", "admin", orgID, false).Scan(&adminID)
	if err != nil {
		return fmt.Errorf("seed insert admin: %w", err)
	}

	// A small React starter draft so the builder has something to open.
	_, err = db.Exec(`
		INSERT INTO templates (name, description, organization_id, created_by, config, files, variables)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
	`,
		"React Starter",
		"A minimal React single-page app with Tailwind styling.",
		orgID, adminID,
		`{"framework":"react","styling":"tailwind","features":[],"integrations":[],"deployment":[],"testing":true,"documentation":false,"ci":false,"monitoring":false}`,
		`[{"path":"src/App.tsx","content":"export default function App() {\n  return <main>{{appName}}</main>\n}\n","type":"component","dependencies":["react"]},{"path":"package.json","content":"{\n  \"name\": \"{{appName}}\"\n}\n","type":"config","dependencies":[]}]`,
		`[{"key":"appName","label":"Application name","description":"Used in the page shell and package manifest.","placeholder":"my-app","type":"string","required":true,"default_value":"my-app"}]`,
	)
	if err != nil {
		return fmt.Errorf("seed insert starter template: %w", err)
	}

	slog.Info("database seeded with default admin user",
		"email", "admin@scaffolder.local",
		"password", "admin",
		"organization_id", orgID,
	)

	return nil
}
