package cmd

import (
	"fmt"
	"log"

	"github.com/spf13/cobra"
	"golang.org/x/crypto/bcrypt"
)

var seedCmd = &cobra.Command{
	Use:   "seed",
	Short: "Seed the database with sample data",
	Long:  `Seed the database with sample data for development and testing purposes.`,
	Run: func(cmd *cobra.Command, args []string) {
		cfg, err := loadConfig(".")
		if err != nil {
			log.Fatalf("failed to load config: %v", err)
		}

		db, err := initDB(cfg.Database)
		if err != nil {
			log.Fatalf("failed to init db: %v", err)
		}
		defer db.Close()

		if clearData {
			for _, table := range []string{"status_requests", "configurations", "users", "shifts", "statuses"} {
				if _, err := db.Exec(fmt.Sprintf("DELETE FROM %s", table)); err != nil {
					log.Fatalf("failed to clear %s: %v", table, err)
				}
			}
			fmt.Println("Cleared existing data")
		}

		statuses := []struct {
			Name string
			Desc string
		}{
			{"Available", "On the floor and taking work"},
			{"Offline", "Logged out"},
			{"On Break", "On an approved break"},
			{"Briefing", "In a briefing session"},
			{"Request Break", "Requesting a break"},
			{"Emergency Briefing", "Requesting an unscheduled briefing"},
		}

		for _, s := range statuses {
			var exists int
			if err := db.Get(&exists, "SELECT 1 FROM statuses WHERE name = $1", s.Name); err == nil {
				continue
			}
			if _, err := db.Exec("INSERT INTO statuses (name, description, created_at, updated_at) VALUES ($1, $2, now(), now())", s.Name, s.Desc); err != nil {
				log.Fatalf("failed to insert status %s: %v", s.Name, err)
			}
			fmt.Println("Seeded status:", s.Name)
		}

		shifts := []struct {
			Name  string
			Start string
			End   string
		}{
			{"Morning", "09:00", "17:00"},
			{"Evening", "14:00", "22:00"},
			{"Night", "22:00", "06:00"},
		}

		for _, sh := range shifts {
			var exists int
			if err := db.Get(&exists, "SELECT 1 FROM shifts WHERE name = $1", sh.Name); err == nil {
				continue
			}
			if _, err := db.Exec("INSERT INTO shifts (name, start_clock, end_clock, created_at, updated_at) VALUES ($1, $2, $3, now(), now())", sh.Name, sh.Start, sh.End); err != nil {
				log.Fatalf("failed to insert shift %s: %v", sh.Name, err)
			}
			fmt.Println("Seeded shift:", sh.Name)
		}

		password := "password"
		hash, _ := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)

		users := []struct {
			UserID     int64
			FirstName  string
			LastName   string
			Role       string
			CoachGroup string
		}{
			{100001, "Ana", "Admin", "admin", ""},
			{100002, "Sari", "Supervisor", "supervisor", ""},
			{100003, "Carlo", "Coach", "coach", "Team Alpha"},
			{100004, "Dina", "Agent", "agent", "Team Alpha"},
			{100005, "Eko", "Agent", "agent", "Team Alpha"},
			{100006, "Fira", "Agent", "agent", "Team Alpha"},
		}

		for _, u := range users {
			var exists int
			if err := db.Get(&exists, "SELECT 1 FROM users WHERE user_id = $1", u.UserID); err == nil {
				fmt.Printf("user %d already exists; skipping\n", u.UserID)
				continue
			}
			if _, err := db.Exec(
				"INSERT INTO users (user_id, first_name, last_name, role, coach_group, staff_active, status, password_hash, created_at, updated_at) VALUES ($1, $2, $3, $4, $5, true, 'Offline', $6, now(), now())",
				u.UserID, u.FirstName, u.LastName, u.Role, u.CoachGroup, string(hash)); err != nil {
				log.Fatalf("failed to insert user %d: %v", u.UserID, err)
			}
			fmt.Println("Seeded user:", u.UserID, u.FirstName)
		}

		var exists int
		if err := db.Get(&exists, "SELECT 1 FROM configurations WHERE status_name = $1 AND coach_group = $2", "Request Break", "Team Alpha"); err != nil {
			if _, err := db.Exec(
				"INSERT INTO configurations (created_by, cfg_type, status_name, coach_group, min_availability, shift1_start, shift1_end, briefing1_start, briefing1_end, created_at, updated_at) VALUES ($1, 'break', 'Request Break', 'Team Alpha', 80, '09:00', '17:00', '08:30', '09:00', now(), now())",
				int64(100001)); err != nil {
				log.Fatalf("failed to insert break configuration: %v", err)
			}
			fmt.Println("Seeded break configuration for Team Alpha")
		}

		fmt.Println("Seeding complete. Default password is:", password)
	},
}
