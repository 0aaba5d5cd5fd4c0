package main

import (
	"os"

	"github.com/akolanti/StudyAPI/internal/app"
	"github.com/akolanti/StudyAPI/internal/config"
	"github.com/akolanti/StudyAPI/pkg/logger_i"
	"github.com/fatih/color"
	"github.com/spf13/cobra"
)

var (
	verbose  bool
	noColor  bool
	services app.Services
)

var rootCmd = &cobra.Command{
	Use:   "studytool",
	Short: "Summaries, quizzes and story games from a PDF",
	Long: `studytool runs the study pipeline locally: the document is rendered and
OCR'd page by page, then the completion service writes a summary, a multiple
choice quiz or a story game from the text.`,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		config.Load()
		if verbose {
			os.Setenv("LOG_LEVEL", "debug")
		} else if os.Getenv("LOG_LEVEL") == "" {
			os.Setenv("LOG_LEVEL", "warn")
		}
		// results go to stdout, logs never do
		logger_i.InitWithWriter(os.Stderr)
		if noColor {
			color.NoColor = true
		}
		services = app.NewServices(cmd.Context())
		return nil
	},
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "enable debug logs on stderr")
	rootCmd.PersistentFlags().BoolVar(&noColor, "no-color", false, "disable colored output")

	rootCmd.AddCommand(summarizeCmd, quizCmd, storyCmd, imageCmd, pathCmd, seedCmd, mcpCmd)
}
