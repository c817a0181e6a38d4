package main

import (
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"os"
	"strconv"

	"github.com/spf13/cobra"
)

type paletteStore struct {
	Name     string `json:"name"`
	Palettes []struct {
		Id     int    `json:"id"`
		Name   string `json:"name"`
		Emojis string `json:"emojis"`
	} `json:"palettes"`
}

func init() {
	palettesCmd := &cobra.Command{Use: "palettes", Short: "Palette store operations"}

	listCmd := &cobra.Command{
		Use:   "list",
		Short: "List palettes in order",
		RunE: func(cmd *cobra.Command, args []string) error {
			data, err := call(newClient(apiFlag, tokenFlag), http.MethodGet, "/palette/v1", nil)
			if err != nil {
				return err
			}
			return printPalettes(os.Stdout, data)
		},
	}
	palettesCmd.AddCommand(listCmd)

	var index int
	addCmd := &cobra.Command{
		Use:   "add NAME EMOJIS",
		Short: "Insert a palette",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			payload := map[string]interface{}{"name": args[0], "emojis": args[1], "index": index}
			data, err := call(newClient(apiFlag, tokenFlag), http.MethodPost, "/palette/v1", payload)
			if err != nil {
				return err
			}
			return printJSON(os.Stdout, data)
		},
	}
	addCmd.Flags().IntVarP(&index, "index", "i", 0, "Position to insert at (clamped)")
	palettesCmd.AddCommand(addCmd)

	removeCmd := &cobra.Command{
		Use:   "remove INDEX",
		Short: "Remove the palette at INDEX (the last palette is kept)",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			i, err := strconv.Atoi(args[0])
			if err != nil {
				return fmt.Errorf("invalid index %q", args[0])
			}
			data, err := call(newClient(apiFlag, tokenFlag), http.MethodDelete, "/palette/v1/at/"+strconv.Itoa(i), nil)
			if err != nil {
				return err
			}
			return printJSON(os.Stdout, data)
		},
	}
	palettesCmd.AddCommand(removeCmd)

	rootCmd.AddCommand(palettesCmd)
}

func printPalettes(w io.Writer, data json.RawMessage) error {
	var store paletteStore
	if err := json.Unmarshal(data, &store); err != nil {
		return err
	}
	fmt.Fprintf(w, "Store %s\n", store.Name)
	for i, p := range store.Palettes {
		fmt.Fprintf(w, "%3d  #%-4d %-16s %s\n", i, p.Id, p.Name, p.Emojis)
	}
	return nil
}
