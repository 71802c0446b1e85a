package main

import (
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/wikistars5/wikistars5/internal/auth"
	"github.com/wikistars5/wikistars5/internal/defaults"
	"github.com/wikistars5/wikistars5/internal/figures"
)

var seedFile string

var seedCmd = &cobra.Command{
	Use:   "seed",
	Short: "Create the default figures (existing ones are skipped)",
	Long: `Create figures from a YAML seed file. Without --file the built-in
catalog is used. Running it twice is safe: figures whose slug already
exists are skipped.`,
	RunE: runSeed,
}

var createAdminPassword string

var createAdminCmd = &cobra.Command{
	Use:   "create-admin USERNAME",
	Short: "Create an admin account or promote an existing user",
	Args:  cobra.ExactArgs(1),
	RunE:  runCreateAdmin,
}

func init() {
	seedCmd.Flags().StringVarP(&seedFile, "file", "f", "", "YAML seed file (default: built-in catalog)")

	createAdminCmd.Flags().StringVarP(&createAdminPassword, "password", "p", "", "Password (or set WIKISTARS_ADMIN_PASSWORD)")
}

func newDefaults(e *env) (*defaults.Service, *auth.Service, error) {
	authService, err := auth.NewService(e.db.Conn(), e.cfg.Auth.JWTSecret, time.Duration(e.cfg.Auth.TokenTTLHours)*time.Hour, e.log)
	if err != nil {
		return nil, nil, err
	}
	figureService := figures.NewService(e.db.Conn(), e.log)
	return defaults.NewService(e.db.Conn(), figureService, authService, e.log), authService, nil
}

func runSeed(cmd *cobra.Command, args []string) error {
	e, err := loadEnv(true)
	if err != nil {
		return err
	}
	defer e.Close()

	var data []byte
	if seedFile != "" {
		data, err = os.ReadFile(seedFile)
		if err != nil {
			return fmt.Errorf("failed to read seed file: %w", err)
		}
	}

	svc, _, err := newDefaults(e)
	if err != nil {
		return err
	}
	res, err := svc.SeedFigures(cmd.Context(), data)
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "Created %d, skipped %d, failed %d\n", res.Created, res.Skipped, len(res.Failed))
	for _, f := range res.Failed {
		fmt.Fprintf(out, "  failed: %s\n", f)
	}
	return nil
}

func runCreateAdmin(cmd *cobra.Command, args []string) error {
	password := createAdminPassword
	if password == "" {
		password = os.Getenv("WIKISTARS_ADMIN_PASSWORD")
	}
	if password == "" {
		return fmt.Errorf("a password is required (--password or WIKISTARS_ADMIN_PASSWORD)")
	}

	e, err := loadEnv(true)
	if err != nil {
		return err
	}
	defer e.Close()

	_, authService, err := newDefaults(e)
	if err != nil {
		return err
	}
	user, err := authService.CreateAdmin(cmd.Context(), args[0], password)
	if err != nil {
		return err
	}

	fmt.Fprintf(cmd.OutOrStdout(), "Admin %q ready (id %d)\n", user.Username, user.ID)
	return nil
}
