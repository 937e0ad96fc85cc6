package main

import (
	"fmt"
	"strconv"

	"fulvo/backend/internal/database"
	"fulvo/backend/internal/payments"

	"github.com/spf13/cobra"
)

func newMigrateCmd(e *env) *cobra.Command {
	return &cobra.Command{
		Use:   "migrate",
		Short: "Create or update the database schema",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := e.cfg()
			if err != nil {
				return err
			}
			db, err := database.Connect(cfg.DatabaseURL, e.log)
			if err != nil {
				return err
			}
			if err := database.Migrate(db); err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), "schema up to date")
			return nil
		},
	}
}

func newSeasonCmd(e *env) *cobra.Command {
	season := &cobra.Command{
		Use:   "season",
		Short: "Manage league seasons",
	}

	var name string
	var days int
	open := &cobra.Command{
		Use:   "open",
		Short: "Open a new season starting today",
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := e.app(cmd.Context())
			if err != nil {
				return err
			}
			s, err := a.Leagues.OpenSeason(cmd.Context(), name, days)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "opened season %d %q (%s to %s)\n", s.ID, s.Name, s.StartsOn, s.EndsOn)
			return nil
		},
	}
	open.Flags().StringVar(&name, "name", "", "Season name")
	open.Flags().IntVar(&days, "days", 30, "Season length in days")
	_ = open.MarkFlagRequired("name")

	rollover := &cobra.Command{
		Use:   "rollover",
		Short: "Close the active season if it has ended and open the next one",
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := e.app(cmd.Context())
			if err != nil {
				return err
			}
			res, err := a.Leagues.Rollover(cmd.Context())
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			if res == nil {
				fmt.Fprintln(out, "nothing to roll over")
				return nil
			}
			fmt.Fprintf(out, "closed %q, awarded %d prizes, opened %q\n", res.Closed.Name, res.Awarded, res.Opened.Name)
			return nil
		},
	}

	season.AddCommand(open, rollover)
	return season
}

func newSubscriptionCmd(e *env) *cobra.Command {
	sub := &cobra.Command{
		Use:   "subscription",
		Short: "Grant or revoke subscriptions without a payment",
	}

	activate := &cobra.Command{
		Use:   "activate <user-id>",
		Short: "Activate the subscription that matches the user's role",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseUserID(args[0])
			if err != nil {
				return err
			}
			a, err := e.app(cmd.Context())
			if err != nil {
				return err
			}
			user, err := a.Store.Users.ByID(cmd.Context(), id)
			if err != nil {
				return err
			}
			kind, err := payments.KindFor(user.Role)
			if err != nil {
				return err
			}
			if err := a.Payments.Activate(cmd.Context(), id, kind, "manual"); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "activated %s subscription for user %d\n", kind, id)
			return nil
		},
	}

	deactivate := &cobra.Command{
		Use:   "deactivate <user-id>",
		Short: "Clear the user's subscription",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseUserID(args[0])
			if err != nil {
				return err
			}
			a, err := e.app(cmd.Context())
			if err != nil {
				return err
			}
			user, err := a.Payments.Deactivate(cmd.Context(), id)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "deactivated subscription for %s\n", user.Email)
			return nil
		},
	}

	sub.AddCommand(activate, deactivate)
	return sub
}

func parseUserID(s string) (uint, error) {
	id, err := strconv.ParseUint(s, 10, 32)
	if err != nil || id == 0 {
		return 0, fmt.Errorf("invalid user id %q", s)
	}
	return uint(id), nil
}
