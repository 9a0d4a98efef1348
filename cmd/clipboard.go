package cmd

import (
	"errors"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/wlkit/wlkit"
	"github.com/wlkit/wlkit/clipboard"
	"github.com/wlkit/wlkit/internal/config"
)

var clipboardCmd = &cobra.Command{
	Use:   "clipboard",
	Short: "Read or write the selection",
}

var clipboardGetCmd = &cobra.Command{
	Use:   "get",
	Short: "Print the current selection",
	Long:  `Read the selection and write it to stdout, negotiating the mime type from the configured preference list.`,
	RunE:  runClipboardGet,
}

var clipboardSetCmd = &cobra.Command{
	Use:   "set [text]",
	Short: "Take the selection",
	Long: `Offer text as the selection. With no argument the text is read from
stdin. The command keeps running to serve paste requests until the
selection is taken over by another client.`,
	RunE: runClipboardSet,
}

func init() {
	clipboardCmd.AddCommand(clipboardGetCmd)
	clipboardCmd.AddCommand(clipboardSetCmd)
	rootCmd.AddCommand(clipboardCmd)
}

func seatClipboard() (*wlkit.Environment, *clipboard.Clipboard, error) {
	env, err := connect()
	if err != nil {
		return nil, nil, err
	}
	seats := env.Seats().Seats()
	if len(seats) == 0 {
		env.Close()
		return nil, nil, errors.New("compositor reports no seats")
	}
	cb, err := env.Clipboard(seats[0])
	if err != nil {
		env.Close()
		return nil, nil, err
	}
	// The selection event arrives after the device exists.
	if err := env.Roundtrip(); err != nil {
		env.Close()
		return nil, nil, err
	}
	return env, cb, nil
}

func runClipboardGet(cmd *cobra.Command, args []string) error {
	env, cb, err := seatClipboard()
	if err != nil {
		return err
	}
	defer env.Close()

	preferred := config.Get().Clipboard.MimeTypes
	if len(preferred) == 0 {
		preferred = clipboard.TextMimeTypes
	}
	r, mime, err := cb.Get(preferred)
	if errors.Is(err, clipboard.ErrEmpty) {
		fmt.Fprintln(os.Stderr, "clipboard is empty")
		return nil
	}
	if err != nil {
		return err
	}
	defer r.Close()

	fmt.Fprintf(os.Stderr, "reading selection as %s\n", mime)
	_, err = io.Copy(os.Stdout, r)
	return err
}

func runClipboardSet(cmd *cobra.Command, args []string) error {
	var text string
	if len(args) > 0 {
		text = args[0]
	} else {
		data, err := io.ReadAll(os.Stdin)
		if err != nil {
			return err
		}
		text = string(data)
	}

	env, cb, err := seatClipboard()
	if err != nil {
		return err
	}
	defer env.Close()

	// Serial zero: without a recent input event this is the best a
	// non-interactive client can present.
	if err := cb.SetText(text, 0); err != nil {
		return err
	}

	// Serve paste requests until another client takes the selection.
	for cb.Owns() {
		if err := env.Roundtrip(); err != nil {
			return err
		}
		time.Sleep(50 * time.Millisecond)
	}
	return nil
}
