// Package chat answers questions about previously exported standardized data
package chat

import (
	"encoding/csv"
	"fmt"
	"os"

	"rehub/dealsub/cmd/root"
	"rehub/dealsub/internal/assistant"
	"rehub/dealsub/internal/logging"
	"rehub/dealsub/internal/models"

	"github.com/spf13/cobra"
)

var (
	dataFile string
	company  string
	message  string
)

// Cmd represents the chat command
var Cmd = &cobra.Command{
	Use:   "chat",
	Short: "Ask questions about standardized data",
	Long: `Ask a question about a previously exported standardized data CSV. The data
is summarized into the prompt, so answers are grounded in the actual rows.`,
	Run: chatFunc,
}

func init() {
	Cmd.Flags().StringVarP(&dataFile, "data", "f", "", "Standardized data CSV to chat about")
	Cmd.Flags().StringVarP(&company, "company", "c", "", "Company the data belongs to")
	Cmd.Flags().StringVarP(&message, "message", "m", "", "Question to ask")
	_ = Cmd.MarkFlagRequired("data")
	_ = Cmd.MarkFlagRequired("message")
}

func chatFunc(cmd *cobra.Command, args []string) {
	headers, rows, err := readDataCSV(dataFile)
	if err != nil {
		root.Log.Fatalf("Error reading data file: %v", err)
	}

	a := assistant.New(
		root.Cfg.AI.APIKey,
		root.Cfg.AI.Model,
		root.Cfg.AI.Temperature,
		root.Cfg.AI.MaxTokens,
		logging.NewLogrusAdapterFromLogger(root.Log),
	)

	answer, err := a.Ask(cmd.Context(), company, message, rows, headers)
	if err != nil {
		root.Log.Fatalf("Error in chat: %v", err)
	}
	fmt.Println(answer)
}

// readDataCSV loads an exported standardized data CSV back into rows keyed by
// header name.
func readDataCSV(path string) ([]string, []models.OutputRow, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, nil, err
	}
	defer func() {
		if err := f.Close(); err != nil {
			root.Log.Warnf("Failed to close data file: %v", err)
		}
	}()

	records, err := csv.NewReader(f).ReadAll()
	if err != nil {
		return nil, nil, fmt.Errorf("error parsing CSV: %w", err)
	}
	if len(records) == 0 {
		return nil, nil, fmt.Errorf("data file '%s' is empty", path)
	}

	headers := records[0]
	rows := make([]models.OutputRow, 0, len(records)-1)
	for _, record := range records[1:] {
		row := make(models.OutputRow, len(headers))
		for i, header := range headers {
			if i < len(record) {
				row[header] = record[i]
			}
		}
		rows = append(rows, row)
	}
	return headers, rows, nil
}
