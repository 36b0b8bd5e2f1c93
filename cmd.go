// MIT License

// Copyright (c) 2023 wetrycode

// Permission is hereby granted, free of charge, to any person obtaining a copy
// of this software and associated documentation files (the "Software"), to deal
// in the Software without restriction, including without limitation the rights
// to use, copy, modify, merge, publish, distribute, sublicense, and/or sell
// copies of the Software, and to permit persons to whom the Software is
// furnished to do so, subject to the following conditions:

// The above copyright notice and this permission notice shall be included in all
// copies or substantial portions of the Software.

// THE SOFTWARE IS PROVIDED "AS IS", WITHOUT WARRANTY OF ANY KIND, EXPRESS OR
// IMPLIED, INCLUDING BUT NOT LIMITED TO THE WARRANTIES OF MERCHANTABILITY,
// FITNESS FOR A PARTICULAR PURPOSE AND NONINFRINGEMENT. IN NO EVENT SHALL THE
// AUTHORS OR COPYRIGHT HOLDERS BE LIABLE FOR ANY CLAIM, DAMAGES OR OTHER
// LIABILITY, WHETHER IN AN ACTION OF CONTRACT, TORT OR OTHERWISE, ARISING FROM,
// OUT OF OR IN CONNECTION WITH THE SOFTWARE OR THE USE OR OTHER DEALINGS IN THE
// SOFTWARE.

package urifetch

import (
	"context"
	"fmt"
	"strings"

	jsoniter "github.com/json-iterator/go"
	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "urifetch",
	Short: "urifetch fetches file, http and https resources with one result shape",
}

// fetchOutput one line of fetch command output
type fetchOutput struct {
	URI    string            `json:"uri"`
	Status int               `json:"status"`
	Header map[string]string `json:"header"`
	Body   *string           `json:"body"`
}

func newFetchCmd(aggregator *Aggregator) *cobra.Command {
	var method string
	var headers []string
	fetchCmd := &cobra.Command{
		Use:   "fetch URI...",
		Short: "Fetch resources concurrently and print them in argument order",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			header, err := parseHeaderFlags(headers)
			if err != nil {
				return err
			}
			results, err := aggregator.FetchAll(context.Background(), args, strings.ToUpper(method), header)
			if err != nil {
				return err
			}
			encoder := jsoniter.NewEncoder(cmd.OutOrStdout())
			for i, uri := range args {
				out := fetchOutput{
					URI:    uri,
					Status: results.Statuses[i],
					Header: results.Headers[i],
					Body:   results.Bodies[i],
				}
				if err := encoder.Encode(out); err != nil {
					return err
				}
			}
			return nil
		},
	}
	fetchCmd.Flags().StringVarP(&method, "method", "X", GET, "request method")
	fetchCmd.Flags().StringArrayVarP(&headers, "header", "H", nil, "request header as name:value, repeatable")
	return fetchCmd
}

// parseHeaderFlags turn name:value pairs into a header map
func parseHeaderFlags(values []string) (map[string]string, error) {
	header := make(map[string]string, len(values))
	for _, value := range values {
		name, v, ok := strings.Cut(value, ":")
		if !ok || strings.TrimSpace(name) == "" {
			return nil, fmt.Errorf("invalid header %q, want name:value", value)
		}
		header[strings.ToLower(strings.TrimSpace(name))] = strings.TrimSpace(v)
	}
	return header, nil
}

// ExecuteCmd run the command line with the given aggregator
func ExecuteCmd(aggregator *Aggregator) error {
	rootCmd.AddCommand(newFetchCmd(aggregator))
	return rootCmd.Execute()
}
