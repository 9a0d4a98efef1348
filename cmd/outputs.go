package cmd

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"github.com/spf13/cobra"

	"github.com/wlkit/wlkit/output"
	"github.com/wlkit/wlkit/protocols"
)

// OutputInfo represents one output in JSON form
type OutputInfo struct {
	ID          uint32 `json:"id"`
	Name        string `json:"name"`
	Description string `json:"description,omitempty"`
	Make        string `json:"make,omitempty"`
	Model       string `json:"model,omitempty"`
	Width       int32  `json:"width"`
	Height      int32  `json:"height"`
	Refresh     int32  `json:"refresh_mhz"`
	Scale       int32  `json:"scale"`
}

var outputsJSON bool

var outputsCmd = &cobra.Command{
	Use:   "outputs",
	Short: "Show connected outputs",
	Long:  `List the compositor's outputs with their current mode and scale factor.`,
	RunE:  runOutputs,
}

func init() {
	outputsCmd.Flags().BoolVar(&outputsJSON, "json", false, "Output in JSON format")
	rootCmd.AddCommand(outputsCmd)
}

func runOutputs(cmd *cobra.Command, args []string) error {
	env, err := connect()
	if err != nil {
		return err
	}
	defer env.Close()

	infos := env.Outputs().Outputs()

	if outputsJSON {
		out := make([]OutputInfo, 0, len(infos))
		for _, info := range infos {
			out = append(out, toOutputInfo(info))
		}
		return json.NewEncoder(os.Stdout).Encode(out)
	}

	rows := [][]string{}
	for _, info := range infos {
		oi := toOutputInfo(info)
		rows = append(rows, []string{
			fmt.Sprintf("%d", oi.ID),
			oi.Name,
			fmt.Sprintf("%dx%d", oi.Width, oi.Height),
			fmt.Sprintf("%.3f Hz", float64(oi.Refresh)/1000),
			fmt.Sprintf("%d", oi.Scale),
			oi.Description,
		})
	}

	t := table.New().
		Border(lipgloss.RoundedBorder()).
		BorderStyle(lipgloss.NewStyle().Foreground(lipgloss.Color("240"))).
		StyleFunc(func(row, col int) lipgloss.Style {
			if row == 0 {
				return lipgloss.NewStyle().Foreground(lipgloss.Color("39")).Bold(true).Padding(0, 1)
			}
			return lipgloss.NewStyle().Padding(0, 1)
		}).
		Headers("ID", "NAME", "MODE", "REFRESH", "SCALE", "DESCRIPTION").
		Rows(rows...)
	fmt.Println(t.String())

	if len(infos) == 0 {
		fmt.Println(lipgloss.NewStyle().Foreground(lipgloss.Color("240")).Render("No outputs reported"))
	}
	return nil
}

func toOutputInfo(info output.Info) OutputInfo {
	oi := OutputInfo{
		ID:          info.ID,
		Name:        info.Name,
		Description: info.Description,
		Make:        info.Make,
		Model:       info.Model,
		Scale:       info.Scale,
	}
	for _, mode := range info.Modes {
		if mode.Flags&protocols.ModeCurrent != 0 {
			oi.Width = mode.Width
			oi.Height = mode.Height
			oi.Refresh = mode.Refresh
			break
		}
	}
	return oi
}
