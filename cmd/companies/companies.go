// Package companies lists the companies configured in the mapping rules
package companies

import (
	"fmt"

	"rehub/dealsub/cmd/root"
	"rehub/dealsub/internal/logging"
	"rehub/dealsub/internal/pipeline"

	"github.com/spf13/cobra"
)

// Cmd represents the companies command
var Cmd = &cobra.Command{
	Use:   "companies",
	Short: "List companies with a mapping configuration",
	Long:  `List the distinct companies found in the mapping rules index, sorted by name.`,
	Run:   companiesFunc,
}

func companiesFunc(cmd *cobra.Command, args []string) {
	p := pipeline.New(root.Cfg, logging.NewLogrusAdapterFromLogger(root.Log))

	companies, err := p.Companies()
	if err != nil {
		root.Log.Fatalf("Error listing companies: %v", err)
	}
	for _, company := range companies {
		fmt.Println(company)
	}
}
