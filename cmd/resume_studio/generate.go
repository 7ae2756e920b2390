package main

import (
	"encoding/json"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/jonathan/resume-studio/internal/backend"
	"github.com/jonathan/resume-studio/internal/config"
	"github.com/jonathan/resume-studio/internal/ingestion"
	"github.com/jonathan/resume-studio/internal/observability"
	"github.com/jonathan/resume-studio/internal/pipeline"
	"github.com/jonathan/resume-studio/internal/schemas"
	"github.com/jonathan/resume-studio/internal/session"
	"github.com/jonathan/resume-studio/internal/types"
)

var (
	genConfigPath string
	genResumePath string
	genJobPath    string
	genJobURL     string
	genPrompt     string
	genOp         string
	genProvider   string
	genModel      string
	genUseBrowser bool
	genVerbose    bool
)

var generateCmd = &cobra.Command{
	Use:   "generate",
	Short: "Run a one-shot generation against the configured backend",
	Long:  `Read a resume JSON file and a job description (file or URL), run one generation operation (or all of them) and print the resulting editable renderings.`,
	RunE:  runGenerate,
}

func init() {
	generateCmd.Flags().StringVar(&genConfigPath, "config", "", "Path to JSON config file")
	generateCmd.Flags().StringVar(&genResumePath, "resume", "", "Path to resume JSON file (required)")
	generateCmd.Flags().StringVar(&genJobPath, "job", "", "Path to job description text file")
	generateCmd.Flags().StringVar(&genJobURL, "job-url", "", "URL of the job posting")
	generateCmd.Flags().StringVar(&genPrompt, "prompt", "", "Additional instructions for tailoring or the cover letter")
	generateCmd.Flags().StringVar(&genOp, "op", "all", "Operation: analyze, tailor, cover-letter, suggestions or all")
	generateCmd.Flags().StringVar(&genProvider, "provider", "", "Provider to use (overrides config)")
	generateCmd.Flags().StringVar(&genModel, "model", "", "Model to use (overrides config)")
	generateCmd.Flags().BoolVar(&genUseBrowser, "use-browser", false, "Render JS-heavy postings in a headless browser")
	generateCmd.Flags().BoolVar(&genVerbose, "verbose", false, "Print analysis and outcome summaries")
	_ = generateCmd.MarkFlagRequired("resume")
	rootCmd.AddCommand(generateCmd)
}

func runGenerate(cmd *cobra.Command, _ []string) error {
	if genJobPath == "" && genJobURL == "" {
		return fmt.Errorf("either --job or --job-url must be provided")
	}

	cfg, err := loadMergedConfig(genConfigPath)
	if err != nil {
		return err
	}

	// Flags win over the config file. Bool flags are applied directly since
	// MergeWithDefaults cannot tell unset from false.
	flagCfg := config.Config{Provider: genProvider, Model: genModel}
	merged := flagCfg.MergeWithDefaults(*cfg)
	cfg = &merged
	if genUseBrowser {
		cfg.UseBrowser = true
	}
	if genVerbose {
		cfg.Verbose = true
	}

	resumeRaw, err := os.ReadFile(genResumePath)
	if err != nil {
		return fmt.Errorf("failed to read resume file: %w", err)
	}
	if err := schemas.ValidateResume(resumeRaw); err != nil {
		return err
	}
	var resume types.ResumeData
	if err := json.Unmarshal(resumeRaw, &resume); err != nil {
		return fmt.Errorf("failed to parse resume JSON: %w", err)
	}

	ctx := cmd.Context()

	var description string
	if genJobPath != "" {
		raw, err := os.ReadFile(genJobPath)
		if err != nil {
			return fmt.Errorf("failed to read job file: %w", err)
		}
		description = string(raw)
	} else {
		fmt.Printf("Ingesting job posting from %s...\n", genJobURL)
		opts := ingestion.DefaultOptions()
		opts.UseBrowser = cfg.UseBrowser
		opts.Verbose = cfg.Verbose
		description, err = ingestion.FromURL(ctx, genJobURL, opts)
		if err != nil {
			return fmt.Errorf("job ingestion failed: %w", err)
		}
	}

	client, closeClient, err := buildClient(ctx, cfg)
	if err != nil {
		return err
	}
	defer closeClient()

	sess := session.New(client)
	provider := cfg.Provider
	if provider == "" {
		provider = backend.GeminiProvider
	}
	sess.Registry().SelectProvider(ctx, provider)
	if cfg.Model != "" {
		sess.Registry().SelectModel(cfg.Model)
	}
	if cfg.GeminiAPIKey != "" {
		sess.Registry().SetCredential(cfg.GeminiAPIKey)
	} else if cfg.BackendKey != "" {
		sess.Registry().SetCredential(cfg.BackendKey)
	}

	p := pipeline.New(sess, client, nil)
	in := pipeline.Inputs{
		JobDescription: description,
		JobURL:         genJobURL,
		Resume:         resume,
		UserPrompt:     genPrompt,
	}

	switch genOp {
	case "analyze":
		p.Analyze(ctx, in)
		printArtifact(sess, types.KindAnalysis)
	case "tailor":
		p.Tailor(ctx, in)
		printArtifact(sess, types.KindTailoredResume)
	case "cover-letter":
		p.DraftCoverLetter(ctx, in)
		printArtifact(sess, types.KindCoverLetter)
	case "suggestions":
		p.SuggestImprovements(ctx, in)
		printArtifact(sess, types.KindSuggestions)
	case "all":
		p.GenerateAll(ctx, in)
		for _, kind := range types.AllKinds() {
			printArtifact(sess, kind)
		}
	default:
		return fmt.Errorf("unknown operation %q", genOp)
	}

	if cfg.Verbose {
		printer := observability.NewPrinter(os.Stdout)
		fmt.Println()
		printer.PrintAnalysis(sess.Analysis())
		printer.PrintOutcomes(sess.Overlay().Snapshot())
		prov, model := sess.Registry().Active()
		printer.PrintSessionSummary(prov, model, sess.Ledger().Display(), sess.StatusLine())
	}

	if errMsg := sess.LastError(); errMsg != "" {
		fmt.Printf("\nLast error: %s\n", errMsg)
	}
	fmt.Printf("\n%s\n", sess.StatusLine())
	return nil
}

func printArtifact(sess *session.Session, kind types.ArtifactKind) {
	title := strings.ToUpper(strings.ReplaceAll(string(kind), "_", " "))
	fmt.Printf("\n===== %s =====\n", title)
	if text, ok := sess.Overlay().EditedText(kind); ok && text != "" {
		fmt.Println(text)
		return
	}
	if g, ok := sess.Overlay().Generated(kind); ok && !g.Success {
		fmt.Printf("(failed: %s)\n", g.ErrorMessage)
		return
	}
	fmt.Println("(not generated)")
}
