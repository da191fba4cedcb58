// Package process handles the deal submission standardization command
package process

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"rehub/dealsub/cmd/root"
	"rehub/dealsub/internal/export"
	"rehub/dealsub/internal/logging"
	"rehub/dealsub/internal/mailer"
	"rehub/dealsub/internal/models"
	"rehub/dealsub/internal/pipeline"

	"github.com/spf13/cobra"
)

var (
	inputFile string
	company   string
	dealName  string
	output    string
	emailTo   string
)

// Cmd represents the process command
var Cmd = &cobra.Command{
	Use:   "process",
	Short: "Standardize a deal submission spreadsheet",
	Long: `Process a deal submission spreadsheet: locate the data table, extract the
deal header and ad zone selection, and remap the rows onto the output template.
The standardized data can be written to a CSV file or a ZIP bundle, and the
summary can be emailed with the exports attached.`,
	Run: processFunc,
}

func init() {
	Cmd.Flags().StringVarP(&inputFile, "file", "f", "", "Input spreadsheet file")
	Cmd.Flags().StringVarP(&company, "company", "c", "", "Company the submission belongs to")
	Cmd.Flags().StringVarP(&dealName, "deal-name", "d", "", "Human-entered deal name")
	Cmd.Flags().StringVarP(&output, "output", "o", "", "Output path (.csv for data only, anything else for a ZIP bundle)")
	Cmd.Flags().StringVarP(&emailTo, "email-to", "e", "", "Email the summary and exports to this address")
	_ = Cmd.MarkFlagRequired("file")
	_ = Cmd.MarkFlagRequired("company")
}

func processFunc(cmd *cobra.Command, args []string) {
	root.Log.Infof("Processing deal submission: %s", inputFile)

	logger := logging.NewLogrusAdapterFromLogger(root.Log)

	f, err := os.Open(inputFile)
	if err != nil {
		root.Log.Fatalf("Error opening input file: %v", err)
	}
	defer func() {
		if err := f.Close(); err != nil {
			root.Log.Warnf("Failed to close input file: %v", err)
		}
	}()

	p := pipeline.New(root.Cfg, logger)
	result, err := p.Process(cmd.Context(), pipeline.Request{
		FileName: filepath.Base(inputFile),
		Company:  company,
		DealName: dealName,
		Content:  f,
	})
	if err != nil {
		root.Log.Fatalf("Error processing file: %v", err)
	}

	fmt.Println(result.TextSummary)

	if output != "" {
		if err := writeOutput(result); err != nil {
			root.Log.Fatalf("Error writing output: %v", err)
		}
		root.Log.Infof("Standardized data written to %s", output)
	}

	if emailTo != "" {
		m := mailer.New(root.Cfg.Email.APIKey, root.Cfg.Email.Sender, logger)
		err := m.SendSummary(cmd.Context(), mailer.Message{
			Recipient:   emailTo,
			TextSummary: result.TextSummary,
			HTMLSummary: result.HTMLSummary,
			DealHeader:  result.DealHeader,
			Rows:        result.Rows,
			Headers:     result.Schema,
		})
		if err != nil {
			root.Log.Fatalf("Error sending summary email: %v", err)
		}
		root.Log.Infof("Summary email sent to %s", emailTo)
	}

	root.Log.Info("Deal submission processed successfully!")
}

func writeOutput(result *models.Result) error {
	var content []byte
	var err error
	if strings.EqualFold(filepath.Ext(output), ".csv") {
		content, err = export.DataCSV(result.Schema, result.Rows)
	} else {
		content, err = export.Bundle(result.Schema, result.Rows, result.DealHeader)
	}
	if err != nil {
		return err
	}
	return os.WriteFile(output, content, 0o600)
}
