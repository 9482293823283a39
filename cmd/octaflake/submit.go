package main

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/spf13/cobra"

	"github.com/printfarm/octaflake/api/models"
)

var submitFlags struct {
	server    string
	profileID string
	specID    string
}

// submitCmd queues a generation job on a print farm node
var submitCmd = &cobra.Command{
	Use:   "submit",
	Short: "Submit a generation job to a print farm node",
	RunE: func(cmd *cobra.Command, args []string) error {
		job := models.GenerationJob{
			ProfileID: submitFlags.profileID,
			SpecID:    submitFlags.specID,
		}

		body, err := json.Marshal(job)
		if err != nil {
			return err
		}

		client := &http.Client{Timeout: 10 * time.Second}
		resp, err := client.Post(submitFlags.server+"/api/v1/jobs", "application/json", bytes.NewReader(body))
		if err != nil {
			return fmt.Errorf("failed to reach farm node: %w", err)
		}
		defer resp.Body.Close()

		respBody, err := io.ReadAll(resp.Body)
		if err != nil {
			return err
		}
		if resp.StatusCode != http.StatusCreated {
			return fmt.Errorf("farm node rejected job (%d): %s", resp.StatusCode, string(respBody))
		}

		var created models.GenerationJob
		if err := json.Unmarshal(respBody, &created); err != nil {
			return err
		}

		fmt.Fprintf(cmd.OutOrStdout(), "queued job %s (size multiplier %g, full height %d mm)\n",
			created.ID, created.Geometry.SizeMultiplier, created.Geometry.FullHeight)
		return nil
	},
}

func init() {
	submitCmd.Flags().StringVar(&submitFlags.server, "server", "http://localhost:8000", "farm node HTTP address")
	submitCmd.Flags().StringVar(&submitFlags.profileID, "profile", "", "printer profile ID (required)")
	submitCmd.Flags().StringVar(&submitFlags.specID, "spec", "", "model spec ID (required)")
	_ = submitCmd.MarkFlagRequired("profile")
	_ = submitCmd.MarkFlagRequired("spec")
	rootCmd.AddCommand(submitCmd)
}
