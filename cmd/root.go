package cmd

import (
	"fmt"
	"os"

	"github.com/Edwin43-star/solicitudes-almacen-xylem/internal/database"
	"github.com/Edwin43-star/solicitudes-almacen-xylem/internal/database/migration"
	"github.com/Edwin43-star/solicitudes-almacen-xylem/internal/logger"
	"github.com/Edwin43-star/solicitudes-almacen-xylem/internal/repository"
	"github.com/Edwin43-star/solicitudes-almacen-xylem/internal/users"
	"github.com/Edwin43-star/solicitudes-almacen-xylem/pkg/models"
	"github.com/Edwin43-star/solicitudes-almacen-xylem/pkg/roles"

	"github.com/spf13/cobra"
	"golang.org/x/crypto/bcrypt"
)

var migrateCmd = &cobra.Command{
	Use:   "migrate",
	Short: "Run the users/audit database migrations.",
	RunE: func(cmd *cobra.Command, _ []string) error {
		dbURL := os.Getenv("DATABASE_URL")
		if dbURL == "" {
			return fmt.Errorf("DATABASE_URL is not set")
		}
		migrationDir, _ := cmd.Flags().GetString("dir")

		err := migration.Migrate(
			dbURL,
			fmt.Sprintf("file://%s", migrationDir),
			logger.NewLogger(),
		)
		if err != nil {
			return fmt.Errorf("migrate database: %w", err)
		}

		return nil
	},
}

var createUserCmd = &cobra.Command{
	Use:   "create-user",
	Short: "Create an account from the command line.",
	Long:  `Seeds a user account directly, bypassing the admin API. Intended for bootstrapping the first admin.`,
	RunE: func(cmd *cobra.Command, _ []string) error {
		dbURL := os.Getenv("DATABASE_URL")
		if dbURL == "" {
			return fmt.Errorf("DATABASE_URL is not set")
		}

		username, _ := cmd.Flags().GetString("username")
		fullname, _ := cmd.Flags().GetString("fullname")
		password, _ := cmd.Flags().GetString("password")
		role, _ := cmd.Flags().GetString("role")

		if username == "" || fullname == "" {
			return fmt.Errorf("--username and --fullname are required")
		}
		if !roles.Role(role).IsValid() {
			return fmt.Errorf("unknown role %q", role)
		}
		if len(password) < 6 {
			return fmt.Errorf("password must be at least 6 characters long")
		}

		db, err := database.NewPostgresConnection(dbURL)
		if err != nil {
			return err
		}
		defer db.Close()

		hashedPassword, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
		if err != nil {
			return fmt.Errorf("hash password: %w", err)
		}

		userRepo := users.NewUserRepository(repository.NewRepository(db))
		err = userRepo.PersistUser(models.CreateUserRequest{
			Username: username,
			Fullname: fullname,
			Password: password,
			Role:     role,
		}, hashedPassword)
		if err != nil {
			return err
		}

		fmt.Printf("User %s (%s) created\n", username, role)
		return nil
	},
}

// Execute runs a subcommand when one was given. With no arguments the
// caller proceeds to serve HTTP.
func Execute() {
	if len(os.Args) < 2 {
		return
	}

	rootCmd := &cobra.Command{
		Use:   "solicitudes-almacen",
		Short: "Warehouse supply-request service",
	}
	migrateCmd.Flags().String("dir", "migrations", "Directory containing the migration files")
	createUserCmd.Flags().String("username", "", "Login name")
	createUserCmd.Flags().String("fullname", "", "Display name")
	createUserCmd.Flags().String("password", "", "Password")
	createUserCmd.Flags().String("role", string(roles.Personnel), "Role: personnel, warehouse or admin")
	rootCmd.AddCommand(migrateCmd)
	rootCmd.AddCommand(createUserCmd)

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
	os.Exit(0)
}
