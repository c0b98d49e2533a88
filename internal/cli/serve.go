package cli

import (
	"os"

	"github.com/spf13/cobra"

	"github.com/pathsentry/pathsentry/internal/rpcproxy"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the JSON-RPC proxy over stdin/stdout",
	Long: `Enters the long-lived JSON-RPC 2.0 loop spec.md §4.5/§6 describes:
one line-framed request per line on stdin, one response per line on
stdout, until "shutdown" or stdin EOF.`,
	RunE: runServe,
}

func init() {
	rootCmd.RunE = runServe
	rootCmd.AddCommand(serveCmd)
}

func runServe(cmd *cobra.Command, args []string) error {
	bundle, err := buildFilter()
	if err != nil {
		return err
	}
	defer bundle.Close()

	proxy := rpcproxy.New(bundle.filter)
	code := proxy.Serve(os.Stdin, os.Stdout)
	if code != 0 {
		os.Exit(code)
	}
	return nil
}
