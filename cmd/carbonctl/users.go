package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

func init() {
	usersCmd := &cobra.Command{Use: "users", Short: "User operations"}

	// create
	var email, name, location, lifestyle string
	var household int
	createCmd := &cobra.Command{
		Use:   "create",
		Short: "Create a user",
		RunE: func(cmd *cobra.Command, args []string) error {
			if email == "" || name == "" {
				return fmt.Errorf("--email and --name required")
			}
			payload := map[string]interface{}{"email": email, "name": name}
			if location != "" {
				payload["location"] = location
			}
			if household > 0 {
				payload["householdSize"] = household
			}
			if lifestyle != "" {
				payload["lifestyle"] = lifestyle
			}
			data, err := doPostJSON(fmt.Sprintf("%s/api/users", apiFlag), payload)
			if err != nil {
				return err
			}
			_, _ = fmt.Fprintln(os.Stdout, string(data))
			return nil
		},
	}
	createCmd.Flags().StringVarP(&email, "email", "e", "", "User email (required)")
	createCmd.Flags().StringVarP(&name, "name", "n", "", "Full name (required)")
	createCmd.Flags().StringVarP(&location, "location", "l", "", "Location, e.g. california")
	createCmd.Flags().IntVar(&household, "household", 0, "Household size")
	createCmd.Flags().StringVar(&lifestyle, "lifestyle", "", "Lifestyle (minimal, moderate, high-consumption)")
	_ = createCmd.MarkFlagRequired("email")
	usersCmd.AddCommand(createCmd)

	// get
	getCmd := &cobra.Command{
		Use:   "get USER_ID",
		Short: "Get user by ID",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			data, err := doGet(fmt.Sprintf("%s/api/users/%s", apiFlag, args[0]))
			if err != nil {
				return err
			}
			_, _ = fmt.Fprintln(os.Stdout, string(data))
			return nil
		},
	}
	usersCmd.AddCommand(getCmd)

	rootCmd.AddCommand(usersCmd)
}
