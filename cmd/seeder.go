package cmd

import (
	"log"

	"expensetracker/internal/user"
	userPostgres "expensetracker/internal/user/postgres"

	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/jmoiron/sqlx"
	"github.com/spf13/cobra"
	"golang.org/x/crypto/bcrypt"
	gormPostgres "gorm.io/driver/postgres"
	"gorm.io/gorm"
)

var clearData bool

var seedCmd = &cobra.Command{
	Use:   "seed",
	Short: "Seed the database with sample data",
	Long:  `Seed the database with an admin and an employee account for development and testing.`,
	Run: func(cmd *cobra.Command, args []string) {
		cfg, err := loadConfig(".")
		if err != nil {
			log.Fatalf("failed to load config: %v", err)
		}

		db, err := sqlx.Connect("pgx", cfg.Database.Source)
		if err != nil {
			log.Fatalf("failed to connect to database: %v", err)
		}
		defer db.Close()

		gormDB, err := gorm.Open(gormPostgres.New(gormPostgres.Config{Conn: db.DB}), &gorm.Config{})
		if err != nil {
			log.Fatalf("failed to initialize gorm: %v", err)
		}

		if clearData {
			if err := gormDB.Exec("DELETE FROM expenses").Error; err != nil {
				log.Fatalf("failed to clear expenses: %v", err)
			}
			if err := gormDB.Exec("DELETE FROM users").Error; err != nil {
				log.Fatalf("failed to clear users: %v", err)
			}
			log.Println("existing data cleared")
		}

		repo := userPostgres.NewUserRepository(gormDB)

		seedUsers := []struct {
			name     string
			email    string
			password string
			role     string
		}{
			{"Admin User", "admin@example.com", "Admin123", user.RoleAdmin},
			{"Employee User", "employee@example.com", "Employee123", user.RoleEmployee},
		}

		for _, s := range seedUsers {
			exists, err := repo.EmailExists(s.email)
			if err != nil {
				log.Fatalf("failed to check existing user %s: %v", s.email, err)
			}
			if exists {
				log.Printf("user %s already exists, skipping", s.email)
				continue
			}

			hash, err := bcrypt.GenerateFromPassword([]byte(s.password), cfg.Security.BCryptCost)
			if err != nil {
				log.Fatalf("failed to hash password for %s: %v", s.email, err)
			}

			u := &user.User{
				Name:         s.name,
				Email:        s.email,
				PasswordHash: string(hash),
				Role:         s.role,
			}
			if err := repo.Create(u); err != nil {
				log.Fatalf("failed to create user %s: %v", s.email, err)
			}
			log.Printf("user %s (%s) created", s.email, s.role)
		}
	},
}
