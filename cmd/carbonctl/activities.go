package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

func init() {
	activitiesCmd := &cobra.Command{Use: "activities", Short: "Activity operations"}

	// add
	var userID, category, actType, unit, location, date string
	var amount float64
	addCmd := &cobra.Command{
		Use:   "add",
		Short: "Price and record an activity",
		RunE: func(cmd *cobra.Command, args []string) error {
			if userID == "" {
				return fmt.Errorf("--user required")
			}
			payload := map[string]interface{}{
				"category": category,
				"type":     actType,
				"amount":   amount,
				"unit":     unit,
			}
			if location != "" {
				payload["location"] = location
			}
			if date != "" {
				payload["date"] = date
			}
			data, err := doPostJSON(fmt.Sprintf("%s/api/users/%s/activities", apiFlag, userID), payload)
			if err != nil {
				return err
			}
			_, _ = fmt.Fprintln(os.Stdout, string(data))
			return nil
		},
	}
	addCmd.Flags().StringVarP(&userID, "user", "u", "", "User ID (required)")
	addCmd.Flags().StringVarP(&category, "category", "c", "", "Activity category (required)")
	addCmd.Flags().StringVarP(&actType, "type", "t", "", "Activity type, e.g. car_gasoline (required)")
	addCmd.Flags().Float64Var(&amount, "amount", 0, "Amount in --unit (required)")
	addCmd.Flags().StringVar(&unit, "unit", "", "Unit, e.g. miles, kwh, lbs (required)")
	addCmd.Flags().StringVarP(&location, "location", "l", "", "Location override")
	addCmd.Flags().StringVar(&date, "date", "", "Activity date (RFC3339)")
	_ = addCmd.MarkFlagRequired("category")
	_ = addCmd.MarkFlagRequired("type")
	_ = addCmd.MarkFlagRequired("unit")
	activitiesCmd.AddCommand(addCmd)

	// list
	var listUser, listCategory string
	var limit int
	listCmd := &cobra.Command{
		Use:   "list",
		Short: "List a user's activities",
		RunE: func(cmd *cobra.Command, args []string) error {
			if listUser == "" {
				return fmt.Errorf("--user required")
			}
			url := fmt.Sprintf("%s/api/users/%s/activities?limit=%d", apiFlag, listUser, limit)
			if listCategory != "" {
				url += "&category=" + listCategory
			}
			data, err := doGet(url)
			if err != nil {
				return err
			}
			_, _ = fmt.Fprintln(os.Stdout, string(data))
			return nil
		},
	}
	listCmd.Flags().StringVarP(&listUser, "user", "u", "", "User ID (required)")
	listCmd.Flags().StringVarP(&listCategory, "category", "c", "", "Filter by category")
	listCmd.Flags().IntVarP(&limit, "limit", "k", 50, "Maximum activities to return")
	activitiesCmd.AddCommand(listCmd)

	rootCmd.AddCommand(activitiesCmd)

	// calculate (top-level, no persistence)
	var calcCategory, calcType, calcUnit, calcLocation, calcDate string
	var calcAmount float64
	calcCmd := &cobra.Command{
		Use:   "calculate",
		Short: "Price an activity without recording it",
		RunE: func(cmd *cobra.Command, args []string) error {
			payload := map[string]interface{}{
				"category": calcCategory,
				"type":     calcType,
				"amount":   calcAmount,
				"unit":     calcUnit,
			}
			if calcLocation != "" {
				payload["location"] = calcLocation
			}
			if calcDate != "" {
				payload["date"] = calcDate
			}
			data, err := doPostJSON(fmt.Sprintf("%s/api/calculate", apiFlag), payload)
			if err != nil {
				return err
			}
			_, _ = fmt.Fprintln(os.Stdout, string(data))
			return nil
		},
	}
	calcCmd.Flags().StringVarP(&calcCategory, "category", "c", "", "Activity category (required)")
	calcCmd.Flags().StringVarP(&calcType, "type", "t", "", "Activity type (required)")
	calcCmd.Flags().Float64Var(&calcAmount, "amount", 0, "Amount in --unit (required)")
	calcCmd.Flags().StringVar(&calcUnit, "unit", "", "Unit (required)")
	calcCmd.Flags().StringVarP(&calcLocation, "location", "l", "", "Location")
	calcCmd.Flags().StringVar(&calcDate, "date", "", "Activity date (RFC3339)")
	_ = calcCmd.MarkFlagRequired("category")
	_ = calcCmd.MarkFlagRequired("type")
	_ = calcCmd.MarkFlagRequired("unit")
	rootCmd.AddCommand(calcCmd)

	// categories
	categoriesCmd := &cobra.Command{
		Use:   "categories",
		Short: "List known categories and activity types",
		RunE: func(cmd *cobra.Command, args []string) error {
			data, err := doGet(fmt.Sprintf("%s/api/categories", apiFlag))
			if err != nil {
				return err
			}
			_, _ = fmt.Fprintln(os.Stdout, string(data))
			return nil
		},
	}
	rootCmd.AddCommand(categoriesCmd)
}
