package cmd

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/KaramelBytes/fitsloom-cli/internal/pipeline"
	"github.com/KaramelBytes/fitsloom-cli/internal/utils"
	"github.com/spf13/cobra"
)

var (
	insPreviewsDir string
	insName        string
	insOutputPath  string
	insPretty      bool
)

// inspectUsage is reported as a structured result, not a CLI error: the
// pipeline contract is one valid JSON document and exit code zero for every
// invocation the runtime can start.
const inspectUsage = "Usage: fitsloom inspect <fits_path> [--previews-dir DIR] [--name NAME]"

var inspectCmd = &cobra.Command{
	Use:   "inspect <file>",
	Short: "Introspect a FITS file and emit a JSON pipeline result",
	Long: `Inspect runs the full pipeline over one FITS file: metadata extraction,
per-HDU classification, and best-effort preview rendering. The result is
always a single well-formed JSON document on stdout, even when the input is
corrupt or arguments are missing; the exit code stays zero.`,
	Args: cobra.ArbitraryArgs,
	Run: func(cmd *cobra.Command, args []string) {
		res := runInspect(args)
		emitResult(res)
	},
}

func runInspect(args []string) pipeline.Result {
	if len(args) < 1 {
		return usageResult(inspectUsage)
	}
	dir := insPreviewsDir
	if dir == "" && cfg != nil {
		dir = cfg.PreviewsDir
	}
	if dir == "" {
		dir = "previews"
	}
	return pipeline.Run(args[0], dir, insName)
}

// usageResult wraps a caller mistake as a status=error result.
func usageResult(msg string) pipeline.Result {
	return pipeline.Result{
		Status:   pipeline.StatusError,
		HDUs:     []pipeline.UnitResult{},
		Warnings: []string{},
		Error:    &msg,
	}
}

func emitResult(res pipeline.Result) {
	var (
		b   []byte
		err error
	)
	if insPretty || (cfg != nil && cfg.Pretty) {
		b, err = utils.PrettyJSON(res)
	} else {
		b, err = json.Marshal(res)
	}
	if err != nil {
		// Last-ditch valid document; Result marshaling has no cyclic or
		// channel-typed fields, so this path should never be taken.
		fmt.Printf(`{"status":"error","fileName":%q,"hdus":[],"warnings":[],"error":%q}`+"\n", res.FileName, err.Error())
		return
	}
	if insOutputPath != "" {
		if err := utils.SafeWriteFile(insOutputPath, append(b, '\n')); err != nil {
			fmt.Fprintf(os.Stderr, "⚠ Warning: write output: %v\n", err)
		}
	}
	fmt.Println(string(b))
}

func init() {
	rootCmd.AddCommand(inspectCmd)
	inspectCmd.Flags().StringVar(&insPreviewsDir, "previews-dir", "", "directory to write preview PNGs (default from config)")
	inspectCmd.Flags().StringVar(&insName, "name", "", "display name to report instead of the file's base name")
	inspectCmd.Flags().StringVarP(&insOutputPath, "output", "o", "", "optional path to also write the JSON result")
	inspectCmd.Flags().BoolVar(&insPretty, "pretty", false, "indent the JSON result")
}
