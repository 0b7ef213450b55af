package commands

import (
	"context"
	"errors"
	"fmt"
	"io"
	"time"

	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"github.com/dshills/proofmark/internal/app"
	"github.com/dshills/proofmark/internal/commands/options"
	"github.com/dshills/proofmark/internal/config"
	"github.com/dshills/proofmark/internal/engine/buffer"
	"github.com/dshills/proofmark/internal/engine/ranges"
	"github.com/dshills/proofmark/internal/llm"
	"github.com/dshills/proofmark/internal/printers"
	"github.com/dshills/proofmark/internal/store"
	"github.com/dshills/proofmark/internal/suggest"
)

// Errors returned by check.
var (
	ErrAllRulesFailed = errors.New("every rule failed")
	ErrNoRules        = errors.New("no rules to check")
	ErrFindings       = errors.New("suggestions found")
)

func addCheck(topLevel *cobra.Command, global *options.GlobalOptions) {
	oo := &options.OutputOptions{}
	guide := &options.GuideOptions{}
	var strict bool

	cmd := &cobra.Command{
		Use:   "check [file|-]",
		Short: "Check a file once and print the suggestions.",
		Long: options.Wrap80("Check a file against the selected style guide without opening the " +
			"editor. Standard input is read when the file is - or missing. Failed rules " +
			"are reported on standard error; the command fails only when every rule failed, " +
			"or with --strict when there are suggestions."),
		Example: `
proofmark check draft.txt
proofmark check --guide Economist --table draft.txt
cat draft.txt | proofmark check --rule "Avoid the passive voice." -
`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := global.Config(cmd)
			if err != nil {
				return oo.HandleError(err)
			}
			source, text, err := readInput(cmd.InOrStdin(), args)
			if err != nil {
				return oo.HandleError(err)
			}

			log, closer, err := app.OpenLogger(cfg.Logging.Level, cfg.Logging.File)
			if err != nil {
				return err
			}
			defer closer.Close()

			c := &checker{cfg: cfg, guide: guide, log: log}
			if st, err := options.Store(cfg); err == nil {
				c.store = st
			} else {
				log.WithComponent("store").Debug("no stored credential: %v", err)
			}

			rep, err := c.Check(commandContext(cmd), source, text)
			if err != nil {
				return oo.HandleError(err)
			}

			out := cmd.OutOrStdout()
			switch {
			case oo.JSON:
				if err := printers.PrintJSON(out, rep); err != nil {
					return err
				}
			case oo.Table:
				(&printers.Table{}).Print(out, rep)
			default:
				(&printers.Pretty{}).Print(out, rep)
			}
			if !oo.JSON {
				printers.RuleErrors(cmd.ErrOrStderr(), rep.Errors)
			}

			if c.rules > 0 && len(rep.Errors) == c.rules {
				return ErrAllRulesFailed
			}
			if strict && len(rep.Suggestions) > 0 {
				return fmt.Errorf("%w: %d", ErrFindings, len(rep.Suggestions))
			}
			return nil
		},
	}

	options.AddGuideArgs(cmd, guide)
	options.AddRuleArgs(cmd, guide)
	options.AddOutputArg(cmd, oo)
	options.AddTableArg(cmd, oo)
	cmd.Flags().BoolVar(&strict, "strict", false,
		"Fail when there are suggestions.")

	topLevel.AddCommand(cmd)
}

// checker runs one generation outside the editor.
type checker struct {
	cfg    *config.Config
	guide  *options.GuideOptions
	client llm.Client // built from cfg when nil
	store  *store.Store
	log    *app.Logger

	rules int // rules sent by the last Check
}

// Check sends text to the model once per rule of the chosen guide. Failed
// rules are reported in the report, not as an error.
func (c *checker) Check(ctx context.Context, source, text string) (*printers.Report, error) {
	if c.log == nil {
		c.log = app.NewNullLogger()
	}
	guides, err := config.LoadStyleGuides(c.cfg.StyleGuides.File)
	if err != nil {
		return nil, err
	}
	selected := c.cfg.StyleGuides.Selected
	if c.store != nil {
		if r, err := c.store.Get("styleguideIndex"); err == nil && r.Exists() {
			selected = int(r.Int())
		}
	}
	g, ok := c.guide.Select(guides, selected)
	if !ok || len(g.Rules) == 0 {
		return nil, ErrNoRules
	}
	c.rules = len(g.Rules)

	client := c.client
	if client == nil {
		client, err = llm.New(llm.Options{
			Provider:    c.cfg.AI.Provider,
			Model:       c.cfg.AI.Model,
			APIKey:      options.Credential(c.cfg, c.store),
			MaxTokens:   c.cfg.AI.MaxTokens,
			Temperature: c.cfg.AI.Temperature,
			Timeout:     c.cfg.AI.Timeout.Std(),
		})
		if err != nil {
			return nil, err
		}
	}

	text = buffer.Normalize(text)
	clog := c.log.WithComponent("check").WithField("cycle", uuid.NewString())
	clog.Info("checking %s: %d rules of %q", source, len(g.Rules), g.Name)
	start := time.Now()

	req := suggest.NewRequester(client,
		suggest.WithConcurrency(c.cfg.AI.Concurrency),
		suggest.WithReplyHook(func(rule int, reply string) {
			clog.WithField("rule", rule).Debug("reply of %d bytes", len(reply))
		}),
	)
	res, _ := req.Generate(ctx, text, g.Rules)
	for _, e := range res.Errors {
		clog.WithField("rule", e.Rule).Warn("rule failed: %v", e.Err)
	}
	clog.Info("%d suggestions in %s", len(res.Findings), time.Since(start).Round(time.Millisecond))

	return &printers.Report{
		Source:      source,
		Guide:       g.Name,
		Text:        text,
		Suggestions: ranges.Number(nil, res.Findings, c.cfg.Editor.SuggestionColor),
		Errors:      res.Errors,
	}, nil
}

// readInput reads the named file, or stdin for "-" and no argument.
func readInput(stdin io.Reader, args []string) (source, text string, err error) {
	if len(args) == 0 || args[0] == "-" {
		data, err := io.ReadAll(stdin)
		if err != nil {
			return "", "", app.NewOperationError("read", "stdin", err)
		}
		return "<stdin>", string(data), nil
	}
	text, err = readFile(args[0])
	return args[0], text, err
}
