package app

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/GoRBAC-Admin/GoRBAC-Admin/internal/auth"
	store "github.com/GoRBAC-Admin/GoRBAC-Admin/internal/db"
	"github.com/GoRBAC-Admin/GoRBAC-Admin/internal/db/controller/user"
)

// ErrPermissionDenied is returned by the check command for a denied
// permission, so the process exits non-zero.
var ErrPermissionDenied = errors.New("permission denied")

func init() { //nolint: gochecknoinits
	checkCmd.Flags().StringVar(&checkEmail, "email", "", "Email of the user to check")
	checkCmd.Flags().StringVar(&checkPermission, "permission", "", "Permission name to check")

	_ = checkCmd.MarkFlagRequired("email")

	rootCmd.AddCommand(checkCmd)
}

var (
	checkEmail      string
	checkPermission string

	checkCmd = &cobra.Command{
		Use:   "check",
		Short: "Print the effective permissions of a user and check one permission",
		PreRunE: func(_ *cobra.Command, _ []string) error {
			return loadConfig()
		},
		RunE: func(cmd *cobra.Command, _ []string) error {
			db, err := store.Open(&cfg)
			if err != nil {
				return err
			}

			u, err := user.GetByEmail(db, checkEmail)
			if err != nil {
				return fmt.Errorf("user %s: %w", checkEmail, err)
			}

			authService := auth.NewService(db)
			ctx := context.Background()

			names, err := authService.EffectivePermissions(ctx, u.ID)
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			_, _ = fmt.Fprintf(out, "user:        %s (%d)\n", u.Email, u.ID)
			_, _ = fmt.Fprintf(out, "roles:       %s\n", strings.Join(u.RoleNames(), ", "))
			_, _ = fmt.Fprintf(out, "permissions: %s\n", strings.Join(names, ", "))

			if checkPermission == "" {
				return nil
			}

			ok, err := authService.HasPermission(ctx, u.ID, checkPermission)
			if err != nil {
				return err
			}

			if !ok {
				_, _ = fmt.Fprintf(out, "%s: denied\n", checkPermission)
				return ErrPermissionDenied
			}

			_, _ = fmt.Fprintf(out, "%s: granted\n", checkPermission)

			return nil
		},
	}
)
