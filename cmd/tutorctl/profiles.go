package main

import (
	"fmt"
	"time"

	"tutorhub/internal/domain/profile"
	idb "tutorhub/internal/infra/database"
	"tutorhub/internal/infra/httpapi"

	"github.com/google/uuid"
	"github.com/spf13/cobra"
)

func validProfileID(_ *cobra.Command, args []string) error {
	if len(args) != 1 {
		return fmt.Errorf("expected exactly one profile id")
	}
	if _, err := uuid.Parse(args[0]); err != nil {
		return fmt.Errorf("invalid profile id %q", args[0])
	}
	return nil
}

// newPromoteCmd bootstraps admins: the API only lets an existing admin promote.
func newPromoteCmd(c *cli) *cobra.Command {
	return &cobra.Command{
		Use:   "promote <profile-id>",
		Short: "Grant the admin role to a profile",
		Args:  validProfileID,
		RunE: func(cmd *cobra.Command, args []string) error {
			db, err := c.database(cmd.Context())
			if err != nil {
				return err
			}
			repo := idb.NewPostgresProfileRepository(db)
			if err := repo.PromoteToAdmin(cmd.Context(), args[0]); err != nil {
				return err
			}
			fmt.Fprintf(c.out, "Profile %s is now an admin\n", args[0])
			return nil
		},
	}
}

func newTokenCmd(c *cli) *cobra.Command {
	var ttl time.Duration
	cmd := &cobra.Command{
		Use:   "token <profile-id>",
		Short: "Issue an API access token for a profile",
		Args:  validProfileID,
		RunE: func(cmd *cobra.Command, args []string) error {
			db, err := c.database(cmd.Context())
			if err != nil {
				return err
			}
			p, err := idb.NewPostgresProfileRepository(db).GetByID(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			if !p.Active {
				return fmt.Errorf("profile %s is deactivated", p.ID)
			}
			tok, err := httpapi.IssueToken(c.cfg.JWTSecret, profile.Actor{ID: p.ID, Role: p.Role}, ttl)
			if err != nil {
				return fmt.Errorf("failed to sign token: %w", err)
			}
			fmt.Fprintln(c.out, tok)
			return nil
		},
	}
	cmd.Flags().DurationVar(&ttl, "ttl", 24*time.Hour, "token lifetime")
	return cmd
}
