// Command akistctl runs administrative tasks against the Akist database.
package main

import (
	"context"
	"database/sql"
	"fmt"
	"log"
	"os"
	"os/signal"
	"strings"

	"github.com/georgemunganga/akistapp-admin/internal/config"
	"github.com/georgemunganga/akistapp-admin/internal/modules/store"
	"github.com/georgemunganga/akistapp-admin/internal/modules/user"
	"github.com/georgemunganga/akistapp-admin/internal/postgres"
	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
)

func main() {
	_ = godotenv.Load()
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()
	if err := newRootCmd(config.Load()).ExecuteContext(ctx); err != nil {
		stop()
		os.Exit(1)
	}
}

func newRootCmd(cfg config.Config) *cobra.Command {
	root := &cobra.Command{
		Use:          "akistctl",
		Short:        "Administrative tasks for the Akist panel",
		SilenceUsage: true,
	}
	root.PersistentFlags().StringVar(&cfg.DatabaseURL, "database-url", cfg.DatabaseURL, "PostgreSQL connection string")

	open := func(ctx context.Context) (*sql.DB, error) {
		return postgres.Open(ctx, cfg.DatabaseURL)
	}
	root.AddCommand(migrateCmd(open), principalCmd(open), storeCmd(open))
	return root
}

type opener func(ctx context.Context) (*sql.DB, error)

func migrateCmd(open opener) *cobra.Command {
	return &cobra.Command{
		Use:   "migrate",
		Short: "Apply the database schema",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			db, err := open(cmd.Context())
			if err != nil {
				return err
			}
			defer db.Close()
			if err := postgres.Migrate(cmd.Context(), db); err != nil {
				return err
			}
			log.Println("schema applied")
			return nil
		},
	}
}

func principalCmd(open opener) *cobra.Command {
	cmd := &cobra.Command{Use: "principal", Short: "Manage panel principals"}

	var req user.CreateUserRequest
	var role string
	create := &cobra.Command{
		Use:   "create",
		Short: "Create a principal",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			db, err := open(cmd.Context())
			if err != nil {
				return err
			}
			defer db.Close()

			req.Role = user.Role(strings.ToLower(role))
			u, err := user.NewService(user.NewPostgresRepository(db), nil).CreateUser(cmd.Context(), req)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "created %s (%s) %s\n", u.Email, u.Role, u.ID)
			return nil
		},
	}
	create.Flags().StringVar(&req.Email, "email", "", "login email")
	create.Flags().StringVar(&req.Password, "password", "", "initial password")
	create.Flags().StringVar(&req.Name, "name", "", "display name")
	create.Flags().StringVar(&role, "role", string(user.RoleAdmin), "admin, store_manager, store_employee or customer")
	create.Flags().StringVar(&req.StoreID, "store", "", "store id for store roles")
	_ = create.MarkFlagRequired("email")
	_ = create.MarkFlagRequired("password")

	cmd.AddCommand(create)
	return cmd
}

func storeCmd(open opener) *cobra.Command {
	cmd := &cobra.Command{Use: "store", Short: "Manage stores"}
	cmd.AddCommand(&cobra.Command{
		Use:   "set-plan STORE_ID PLAN",
		Short: "Change a store's subscription plan and its derived limits",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			db, err := open(cmd.Context())
			if err != nil {
				return err
			}
			defer db.Close()

			plan := store.Plan(strings.ToUpper(args[1]))
			limits, err := store.NewService(store.NewPostgresRepository(db)).SetStorePlan(cmd.Context(), args[0], plan)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "store %s is now %s: maxProducts=%d allowReservations=%t featured=%t\n",
				args[0], plan, limits.MaxProducts, limits.AllowReservations, limits.Featured)
			return nil
		},
	})
	return cmd
}
