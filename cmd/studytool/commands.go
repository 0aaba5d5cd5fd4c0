package main

import (
	"bufio"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"slices"
	"strings"

	"github.com/akolanti/StudyAPI/internal/data/store"
	"github.com/akolanti/StudyAPI/internal/domain/learningModel"
	"github.com/akolanti/StudyAPI/internal/domain/workflowModel"
	"github.com/akolanti/StudyAPI/internal/mcptools"
	"github.com/akolanti/StudyAPI/internal/pipeline/parse"
	"github.com/modelcontextprotocol/go-sdk/mcp"
	"github.com/spf13/cobra"
)

var (
	interactive bool
	withImages  bool
	chapter     int
	prompt      string
	seedFile    string
)

var summarizeCmd = &cobra.Command{
	Use:   "summarize <file>",
	Short: "Summarize a document",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()
		sessionId, err := loadSession(ctx, args[0])
		if err != nil {
			return err
		}
		if _, err := runWorkflow(ctx, sessionId, workflowModel.Summary, services.Orchestrator.Generate); err != nil {
			return err
		}
		summary, advice, err := services.Orchestrator.Summary(ctx, sessionId)
		if err != nil {
			return err
		}
		out := cmd.OutOrStdout()
		printHeading(out, "Summary")
		fmt.Fprintln(out, summary)
		if advice != "" {
			fmt.Fprintln(out)
			printHeading(out, "Advice")
			fmt.Fprintln(out, advice)
		}
		return nil
	},
}

var quizCmd = &cobra.Command{
	Use:   "quiz <file>",
	Short: "Generate multiple choice questions, optionally answering them",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()
		sessionId, err := loadSession(ctx, args[0])
		if err != nil {
			return err
		}
		if _, err := runWorkflow(ctx, sessionId, workflowModel.Mcq, services.Orchestrator.Generate); err != nil {
			return err
		}
		questions, err := services.Orchestrator.Questions(ctx, sessionId)
		if err != nil {
			return err
		}
		out := cmd.OutOrStdout()
		if !interactive {
			for _, q := range questions {
				printQuestion(out, q)
				good.Fprintf(out, "Answer: %s\n\n", q.CorrectOptionId)
			}
			return nil
		}

		in := bufio.NewScanner(cmd.InOrStdin())
		for {
			wrong := askQuestions(cmd, in, sessionId, questions)
			fmt.Fprintf(out, "\nScore: %d/%d\n", len(questions)-len(wrong), len(questions))
			if len(wrong) == 0 || !confirm(out, in, "Practice the wrong ones again?") {
				return nil
			}
			if _, err := runWorkflow(ctx, sessionId, workflowModel.Mcq, func(ctx2 context.Context, id string, _ workflowModel.WorkflowKind) (workflowModel.Artifact, error) {
				return services.Orchestrator.RegenerateFromWrong(ctx2, id, wrong)
			}); err != nil {
				return err
			}
			if questions, err = services.Orchestrator.Questions(ctx, sessionId); err != nil {
				return err
			}
		}
	},
}

func printQuestion(out io.Writer, q learningModel.Question) {
	printHeading(out, fmt.Sprintf("%d. %s", q.Id, q.Text))
	for _, id := range learningModel.OptionIds {
		fmt.Fprintf(out, "   %s. %s\n", id, q.Options[id])
	}
}

// askQuestions returns the ids answered wrong.
func askQuestions(cmd *cobra.Command, in *bufio.Scanner, sessionId string, questions []learningModel.Question) []int {
	out := cmd.OutOrStdout()
	var wrong []int
	for _, q := range questions {
		printQuestion(out, q)
		answer := ""
		for !slices.Contains(learningModel.OptionIds, answer) {
			fmt.Fprint(out, "Your answer (A-D): ")
			if !in.Scan() {
				return wrong
			}
			answer = strings.ToUpper(strings.TrimSpace(in.Text()))
		}
		if answer == q.CorrectOptionId {
			good.Fprintln(out, "Correct!")
			continue
		}
		bad.Fprintf(out, "Wrong, the answer is %s.\n", q.CorrectOptionId)
		wrong = append(wrong, q.Id)
		if advice, err := services.Orchestrator.AdviseOnMistake(cmd.Context(), sessionId, q.Id, answer); err == nil && advice != "" {
			muted.Fprintln(out, advice)
		}
	}
	return wrong
}

func confirm(out io.Writer, in *bufio.Scanner, question string) bool {
	fmt.Fprintf(out, "%s [y/N]: ", question)
	if !in.Scan() {
		return false
	}
	return strings.EqualFold(strings.TrimSpace(in.Text()), "y")
}

var storyCmd = &cobra.Command{
	Use:   "story <file>",
	Short: "Generate a story game",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()
		sessionId, err := loadSession(ctx, args[0])
		if err != nil {
			return err
		}
		if _, err := runWorkflow(ctx, sessionId, workflowModel.Story, services.Orchestrator.Generate); err != nil {
			return err
		}
		game, err := services.Orchestrator.StoryGame(ctx, sessionId)
		if err != nil {
			return err
		}
		out := cmd.OutOrStdout()
		printHeading(out, game.Title)
		fmt.Fprintln(out, game.Description)
		for i, ch := range game.Chapters {
			fmt.Fprintln(out)
			printHeading(out, fmt.Sprintf("Chapter %d: %s", i+1, ch.Name))
			fmt.Fprintln(out, ch.Description)
			if withImages {
				link, err := services.Orchestrator.ResolveImage(ctx, sessionId, i, parse.ChapterImagePrompt(ch))
				if err != nil {
					printError("%s", workflowModel.UserMessage(err))
				} else if link != "" {
					muted.Fprintln(out, link)
				}
			}
			fmt.Fprintln(out, ch.Question)
			correct := parse.CorrectOptionId(ch)
			for _, option := range ch.Options {
				if option.Id == correct {
					good.Fprintf(out, "   %s. %s\n", option.Id, option.Text)
				} else {
					fmt.Fprintf(out, "   %s. %s\n", option.Id, option.Text)
				}
			}
		}
		return nil
	},
}

var imageCmd = &cobra.Command{
	Use:   "image <file>",
	Short: "Resolve the image for one story chapter",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()
		sessionId, err := loadSession(ctx, args[0])
		if err != nil {
			return err
		}
		link, err := services.Orchestrator.ResolveImage(ctx, sessionId, chapter, prompt)
		if err != nil {
			return errors.New(workflowModel.UserMessage(err))
		}
		fmt.Fprintln(cmd.OutOrStdout(), link)
		return nil
	},
}

var pathCmd = &cobra.Command{
	Use:   "path <topic>",
	Short: "Search query and learning path for a topic",
	Args:  cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		query, path := services.Orchestrator.LearningPath(cmd.Context(), strings.Join(args, " "))
		out := cmd.OutOrStdout()
		muted.Fprintf(out, "search: %s\n", query)
		printHeading(out, path.Title)
		fmt.Fprintln(out, path.Description)
		for i, step := range path.Steps {
			fmt.Fprintf(out, "%d. %s\n", i+1, step.Title)
		}
		return nil
	},
}

var seedCmd = &cobra.Command{
	Use:   "seed",
	Short: "Load the fixed chapter image and story tables from a json file",
	RunE: func(cmd *cobra.Command, args []string) error {
		raw, err := os.ReadFile(seedFile)
		if err != nil {
			return err
		}
		var seed store.SeedFile
		if err := json.Unmarshal(raw, &seed); err != nil {
			return fmt.Errorf("parse %s: %w", seedFile, err)
		}
		if err := store.Seed(cmd.Context(), services.Tables, seed); err != nil {
			return err
		}
		good.Fprintf(cmd.OutOrStdout(), "✓ seeded %d chapter images, story included: %t\n", len(seed.Images), len(seed.Story) > 0)
		return nil
	},
}

var mcpCmd = &cobra.Command{
	Use:   "mcp",
	Short: "Serve the study tools over mcp on stdio",
	RunE: func(cmd *cobra.Command, args []string) error {
		return mcptools.NewServer(services.Orchestrator, "v1.0.0").Run(cmd.Context(), &mcp.StdioTransport{})
	},
}

func init() {
	quizCmd.Flags().BoolVarP(&interactive, "interactive", "i", false, "answer the questions in the terminal")
	storyCmd.Flags().BoolVar(&withImages, "images", false, "resolve an image for every chapter")
	imageCmd.Flags().IntVar(&chapter, "chapter", 0, "zero based chapter index")
	imageCmd.Flags().StringVar(&prompt, "prompt", "", "image prompt of the chapter")
	seedCmd.Flags().StringVarP(&seedFile, "file", "f", "tables.json", "seed file")
}
