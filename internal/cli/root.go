package cli

import (
	"context"
	"fmt"
	"text/tabwriter"
	"time"

	"github.com/dmitrijs2005/windbreaker/internal/server/models"
	"github.com/spf13/cobra"
)

// localIP is recorded as the origin of operator-initiated resets.
const localIP = "cli"

// Service is the subset of *services.AuthService the commands use.
type Service interface {
	Register(ctx context.Context, name, email, password string) (*models.Identity, error)
	ForgotPassword(ctx context.Context, email, newPassword, ip string) error
	AuditTrail(ctx context.Context, email string, limit int) ([]*models.AuditEntry, error)
}

// Backend opens the store. OpenService returns the service together with a
// function releasing its resources; Migrate applies pending migrations.
type Backend interface {
	OpenService(ctx context.Context) (Service, func() error, error)
	Migrate(ctx context.Context) error
}

// Global flags. They are read from os.Args by the config package; cobra
// only needs to know they exist.
var (
	configFile string
	envFile    string
)

// NewRootCmd creates the root command of the operator CLI.
func NewRootCmd(b Backend) *cobra.Command {
	cmd := &cobra.Command{
		Use:           "windbreaker-cli",
		Short:         "Operator tool for the windbreaker authentication store",
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	cmd.PersistentFlags().StringVarP(&configFile, "config", "c", "", "JSON config file path")
	cmd.PersistentFlags().StringVar(&envFile, "env", "", "dotenv file path (default .env)")

	cmd.AddCommand(newRegisterCmd(b))
	cmd.AddCommand(newResetPasswordCmd(b))
	cmd.AddCommand(newAuditCmd(b))
	cmd.AddCommand(newMigrateCmd(b))

	return cmd
}

func withService(cmd *cobra.Command, b Backend, fn func(ctx context.Context, svc Service) error) error {
	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}

	svc, closeFn, err := b.OpenService(ctx)
	if err != nil {
		return err
	}
	defer func() { _ = closeFn() }()

	return fn(ctx, svc)
}

func newRegisterCmd(b Backend) *cobra.Command {
	var name, email string

	cmd := &cobra.Command{
		Use:   "register",
		Short: "Create an account",
		RunE: func(cmd *cobra.Command, _ []string) error {
			password, err := getNewPassword(cmd.OutOrStdout())
			if err != nil {
				return err
			}
			return withService(cmd, b, func(ctx context.Context, svc Service) error {
				identity, err := svc.Register(ctx, name, email, password)
				if err != nil {
					return fmt.Errorf("register %s: %w", email, err)
				}
				cmd.Printf("Registered %s (%s)\n", identity.Email, identity.DisplayName)
				return nil
			})
		},
	}

	cmd.Flags().StringVar(&name, "name", "", "display name")
	cmd.Flags().StringVar(&email, "email", "", "account email")
	_ = cmd.MarkFlagRequired("name")
	_ = cmd.MarkFlagRequired("email")
	return cmd
}

func newResetPasswordCmd(b Backend) *cobra.Command {
	var email string

	cmd := &cobra.Command{
		Use:   "reset-password",
		Short: "Replace an account's password",
		RunE: func(cmd *cobra.Command, _ []string) error {
			password, err := getNewPassword(cmd.OutOrStdout())
			if err != nil {
				return err
			}
			return withService(cmd, b, func(ctx context.Context, svc Service) error {
				if err := svc.ForgotPassword(ctx, email, password, localIP); err != nil {
					return fmt.Errorf("reset password for %s: %w", email, err)
				}
				cmd.Printf("Password updated for %s\n", email)
				return nil
			})
		},
	}

	cmd.Flags().StringVar(&email, "email", "", "account email")
	_ = cmd.MarkFlagRequired("email")
	return cmd
}

func newAuditCmd(b Backend) *cobra.Command {
	var email string
	var limit int

	cmd := &cobra.Command{
		Use:   "audit",
		Short: "List recent authentication events, newest first",
		RunE: func(cmd *cobra.Command, _ []string) error {
			return withService(cmd, b, func(ctx context.Context, svc Service) error {
				entries, err := svc.AuditTrail(ctx, email, limit)
				if err != nil {
					return err
				}

				tw := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
				fmt.Fprintln(tw, "ID\tTIME\tEMAIL\tEVENT\tIP")
				for _, e := range entries {
					fmt.Fprintf(tw, "%d\t%s\t%s\t%s\t%s\n",
						e.ID, e.Timestamp.UTC().Format(time.RFC3339), e.Email, e.Event, e.IPAddress)
				}
				return tw.Flush()
			})
		},
	}

	cmd.Flags().StringVar(&email, "email", "", "only events for this email")
	cmd.Flags().IntVar(&limit, "limit", 20, "maximum number of entries")
	return cmd
}

func newMigrateCmd(b Backend) *cobra.Command {
	return &cobra.Command{
		Use:   "migrate",
		Short: "Run database migrations",
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx := cmd.Context()
			if ctx == nil {
				ctx = context.Background()
			}
			cmd.Println("Running migrations...")
			if err := b.Migrate(ctx); err != nil {
				return err
			}
			cmd.Println("Migrations completed successfully")
			return nil
		},
	}
}
