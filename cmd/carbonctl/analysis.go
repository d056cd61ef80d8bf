package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

func init() {
	// analyze
	var userID, question string
	analyzeCmd := &cobra.Command{
		Use:   "analyze",
		Short: "Run the analysis agents over a user's history",
		RunE: func(cmd *cobra.Command, args []string) error {
			if userID == "" {
				return fmt.Errorf("--user required")
			}
			payload := map[string]interface{}{}
			if question != "" {
				payload["question"] = question
			}
			data, err := doPostJSON(fmt.Sprintf("%s/api/users/%s/analyze", apiFlag, userID), payload)
			if err != nil {
				return err
			}
			_, _ = fmt.Fprintln(os.Stdout, string(data))
			return nil
		},
	}
	analyzeCmd.Flags().StringVarP(&userID, "user", "u", "", "User ID (required)")
	analyzeCmd.Flags().StringVarP(&question, "question", "q", "", "Question for the insight provider")
	rootCmd.AddCommand(analyzeCmd)

	// simple per-user GET commands
	for _, c := range []struct {
		use, short, path string
	}{
		{"insights USER_ID", "Get a user's stored insights", "insights"},
		{"recommendations USER_ID", "Get a user's stored recommendations", "recommendations"},
		{"dashboard USER_ID", "Get a user's dashboard summary", "dashboard"},
		{"trends USER_ID", "Get a user's emission trend statistics", "stats/trends"},
	} {
		path := c.path
		cmd := &cobra.Command{
			Use:   c.use,
			Short: c.short,
			Args:  cobra.ExactArgs(1),
			RunE: func(cmd *cobra.Command, args []string) error {
				data, err := doGet(fmt.Sprintf("%s/api/users/%s/%s", apiFlag, args[0], path))
				if err != nil {
					return err
				}
				_, _ = fmt.Fprintln(os.Stdout, string(data))
				return nil
			},
		}
		rootCmd.AddCommand(cmd)
	}

	// agents
	agentsCmd := &cobra.Command{
		Use:   "agents",
		Short: "List the analysis agents and their capabilities",
		RunE: func(cmd *cobra.Command, args []string) error {
			data, err := doGet(fmt.Sprintf("%s/api/agents", apiFlag))
			if err != nil {
				return err
			}
			_, _ = fmt.Fprintln(os.Stdout, string(data))
			return nil
		},
	}
	rootCmd.AddCommand(agentsCmd)
}
