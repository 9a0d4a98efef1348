package cmd

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"github.com/spf13/cobra"
)

// SeatInfo represents one seat in JSON form
type SeatInfo struct {
	ID       uint32 `json:"id"`
	Name     string `json:"name"`
	Pointer  bool   `json:"pointer"`
	Keyboard bool   `json:"keyboard"`
	Touch    bool   `json:"touch"`
}

var seatsJSON bool

var seatsCmd = &cobra.Command{
	Use:   "seats",
	Short: "Show input seats",
	Long:  `List the compositor's seats and the device classes each one offers.`,
	RunE:  runSeats,
}

func init() {
	seatsCmd.Flags().BoolVar(&seatsJSON, "json", false, "Output in JSON format")
	rootCmd.AddCommand(seatsCmd)
}

func runSeats(cmd *cobra.Command, args []string) error {
	env, err := connect()
	if err != nil {
		return err
	}
	defer env.Close()

	seats := env.Seats().Seats()

	if seatsJSON {
		out := make([]SeatInfo, 0, len(seats))
		for _, s := range seats {
			out = append(out, SeatInfo{
				ID:       s.ID(),
				Name:     s.Name(),
				Pointer:  s.HasPointer(),
				Keyboard: s.HasKeyboard(),
				Touch:    s.HasTouch(),
			})
		}
		return json.NewEncoder(os.Stdout).Encode(out)
	}

	mark := func(ok bool) string {
		if ok {
			return "yes"
		}
		return "-"
	}
	rows := [][]string{}
	for _, s := range seats {
		rows = append(rows, []string{
			fmt.Sprintf("%d", s.ID()),
			s.Name(),
			mark(s.HasPointer()),
			mark(s.HasKeyboard()),
			mark(s.HasTouch()),
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
		Headers("ID", "NAME", "POINTER", "KEYBOARD", "TOUCH").
		Rows(rows...)
	fmt.Println(t.String())
	return nil
}
