package main

import (
	"fmt"
	"net/http"
	"os"

	"github.com/spf13/cobra"
)

func init() {
	documentCmd := &cobra.Command{Use: "document", Short: "Document operations"}

	showCmd := &cobra.Command{
		Use:   "show",
		Short: "Print the current document state",
		RunE: func(cmd *cobra.Command, args []string) error {
			data, err := call(newClient(apiFlag, tokenFlag), http.MethodGet, "/document/v1", nil)
			if err != nil {
				return err
			}
			return printJSON(os.Stdout, data)
		},
	}
	documentCmd.AddCommand(showCmd)

	var url, file string
	var blank bool
	backgroundCmd := &cobra.Command{
		Use:   "background",
		Short: "Set the background to a url, an image file or blank",
		RunE: func(cmd *cobra.Command, args []string) error {
			payload, err := backgroundPayload(url, file, blank)
			if err != nil {
				return err
			}
			data, err := call(newClient(apiFlag, tokenFlag), http.MethodPut, "/document/v1/background", payload)
			if err != nil {
				return err
			}
			return printJSON(os.Stdout, data)
		},
	}
	backgroundCmd.Flags().StringVarP(&url, "url", "u", "", "Image URL to fetch")
	backgroundCmd.Flags().StringVarP(&file, "file", "f", "", "Local image file to embed")
	backgroundCmd.Flags().BoolVar(&blank, "blank", false, "Clear the background")
	documentCmd.AddCommand(backgroundCmd)

	rootCmd.AddCommand(documentCmd)
}

// backgroundPayload builds the request body; exactly one source must be set.
func backgroundPayload(url, file string, blank bool) (map[string]interface{}, error) {
	set := 0
	for _, on := range []bool{url != "", file != "", blank} {
		if on {
			set++
		}
	}
	if set != 1 {
		return nil, fmt.Errorf("exactly one of --url, --file or --blank is required")
	}

	switch {
	case url != "":
		return map[string]interface{}{"kind": "url", "url": url}, nil
	case file != "":
		data, err := os.ReadFile(file)
		if err != nil {
			return nil, err
		}
		// []byte marshals as base64.
		return map[string]interface{}{"kind": "image_data", "image_data": data}, nil
	default:
		return map[string]interface{}{"kind": "blank"}, nil
	}
}
