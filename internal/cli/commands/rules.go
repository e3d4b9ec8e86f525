package commands

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/spf13/cobra"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"github.com/leapstack-labs/archlint/internal/cli/output"
	"github.com/leapstack-labs/archlint/pkg/core"
	"github.com/leapstack-labs/archlint/pkg/lint"
	_ "github.com/leapstack-labs/archlint/pkg/lint/rules" // register R1-R8
)

// RulesOptions holds options for the rules command.
type RulesOptions struct {
	Group   string // Filter by group
	Details bool   // Show rationale and fix guidance
	Format  string // Output format
}

// NewRulesCommand creates the rules command.
func NewRulesCommand() *cobra.Command {
	opts := &RulesOptions{}
	cmd := &cobra.Command{
		Use:   "rules [rule-id]",
		Short: "List the architecture rules",
		Long: `List the registered architecture rules with their documentation.

Rules are organized by group (isolation, placement, naming, structure).

Output adapts to environment:
  - Terminal: Styled output with colors
  - Piped/Scripted: Markdown format
  - JSON: Machine-readable format`,
		Example: `  # List all rules
  archlint rules

  # Show details for a specific rule
  archlint rules R4

  # List the isolation rules with rationale
  archlint rules --group isolation -d

  # Output as JSON
  archlint rules --format json`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if len(args) > 0 {
				return showRule(cmd, args[0], opts)
			}
			return listRules(cmd, opts)
		},
	}

	cmd.Flags().StringVarP(&opts.Group, "group", "g", "", "Filter by group")
	cmd.Flags().BoolVarP(&opts.Details, "details", "d", false, "Show rationale and fix guidance")
	cmd.Flags().StringVarP(&opts.Format, "format", "f", "", "Output format: text, json, markdown")

	return cmd
}

func rulesRenderer(cmd *cobra.Command, opts *RulesOptions) (*output.Renderer, error) {
	mode, err := output.ParseMode(opts.Format)
	if err != nil {
		return nil, err
	}
	return output.NewRenderer(cmd.OutOrStdout(), cmd.ErrOrStderr(), mode), nil
}

func listRules(cmd *cobra.Command, opts *RulesOptions) error {
	r, err := rulesRenderer(cmd, opts)
	if err != nil {
		return err
	}

	defs := lint.GetAll()
	if opts.Group != "" {
		defs = lint.GetByGroup(opts.Group)
	}
	var rules []core.RuleInfo
	for _, def := range defs {
		rules = append(rules, def.Info())
	}

	switch r.EffectiveMode() {
	case output.ModeJSON:
		return listRulesJSON(r, rules)
	case output.ModeMarkdown:
		return listRulesMarkdown(r, rules, opts.Details)
	default:
		return listRulesText(r, rules, opts.Details)
	}
}

func showRule(cmd *cobra.Command, ruleID string, opts *RulesOptions) error {
	r, err := rulesRenderer(cmd, opts)
	if err != nil {
		return err
	}

	def, ok := lint.GetByID(strings.ToUpper(ruleID))
	if !ok {
		return fmt.Errorf("rule %q not found", ruleID)
	}
	rule := def.Info()

	switch r.EffectiveMode() {
	case output.ModeJSON:
		return r.JSON(rule)
	case output.ModeMarkdown:
		return showRuleMarkdown(r, &rule)
	default:
		return showRuleText(r, &rule)
	}
}

// groupTitle renders a group name as a heading, e.g. "placement" -> "Placement".
func groupTitle(group string) string {
	return cases.Title(language.English).String(group)
}

// listRulesText outputs rules in styled text format.
func listRulesText(r *output.Renderer, rules []core.RuleInfo, details bool) error {
	styles := r.Styles()

	r.Println("")
	r.Println(styles.Header1.Render(fmt.Sprintf("Architecture Rules (%d)", len(rules))))
	r.Println("")

	for _, group := range groupRules(rules) {
		r.Println(styles.Bold.Render("  " + groupTitle(group.name)))
		for _, rule := range group.rules {
			r.Printf("    %s  %s - %s\n",
				styles.RuleID.Render(rule.ID),
				rule.Name,
				severityStyle(styles, rule.DefaultSeverity).Render(rule.DefaultSeverity.String()),
			)
			if details {
				r.Println(styles.Muted.Render("        " + rule.Description))
				if rule.Rationale != "" {
					r.Println(styles.Muted.Render("        Why: " + rule.Rationale))
				}
				r.Println("")
			}
		}
	}

	r.Println("")
	r.Println(styles.Muted.Render("Use 'archlint rules <rule-id>' for detailed documentation"))
	r.Println("")
	return nil
}

// listRulesMarkdown outputs rules in markdown format.
func listRulesMarkdown(r *output.Renderer, rules []core.RuleInfo, details bool) error {
	r.Println("# Architecture Rules")
	r.Println("")

	for _, group := range groupRules(rules) {
		r.Println("## " + groupTitle(group.name))
		r.Println("")
		for _, rule := range group.rules {
			r.Printf("- **%s** - %s (`%s`)\n", rule.ID, rule.Name, rule.DefaultSeverity.String())
			if details {
				r.Println("  " + rule.Description)
				if rule.Rationale != "" {
					r.Println("  > " + rule.Rationale)
				}
			}
		}
		r.Println("")
	}
	return nil
}

// RulesJSONOutput is the JSON output structure for rules listing.
type RulesJSONOutput struct {
	Rules []core.RuleInfo `json:"rules"`
	Count int             `json:"count"`
}

// listRulesJSON outputs rules in JSON format.
func listRulesJSON(r *output.Renderer, rules []core.RuleInfo) error {
	if rules == nil {
		rules = []core.RuleInfo{}
	}
	return r.JSON(RulesJSONOutput{Rules: rules, Count: len(rules)})
}

// showRuleText displays detailed rule info in text format.
func showRuleText(r *output.Renderer, rule *core.RuleInfo) error {
	styles := r.Styles()

	r.Println("")
	r.Println(styles.Header1.Render(fmt.Sprintf("%s - %s", rule.ID, rule.Name)))
	r.Println("")

	r.Printf("  %s: %s\n", styles.Bold.Render("Group"), groupTitle(rule.Group))
	r.Printf("  %s: %s\n", styles.Bold.Render("Severity"), rule.DefaultSeverity.String())
	r.Println("")

	r.Println(styles.Bold.Render("Description"))
	r.Println("  " + rule.Description)
	r.Println("")

	if rule.Rationale != "" {
		r.Println(styles.Bold.Render("Why This Matters"))
		r.Println("  " + rule.Rationale)
		r.Println("")
	}

	if rule.Fix != "" {
		r.Println(styles.Bold.Render("How to Fix"))
		r.Println("  " + rule.Fix)
		r.Println("")
	}

	r.Println(styles.Muted.Render(fmt.Sprintf("Suppress inline with @SuppressArchRule(%q) or list %s under suppressed_rules.", rule.ID, rule.ID)))
	return nil
}

// showRuleMarkdown displays detailed rule info in markdown format.
func showRuleMarkdown(r *output.Renderer, rule *core.RuleInfo) error {
	r.Printf("# %s - %s\n\n", rule.ID, rule.Name)
	r.Printf("**Group:** %s | **Severity:** `%s`\n\n", groupTitle(rule.Group), rule.DefaultSeverity.String())
	r.Println(rule.Description)
	r.Println("")

	if rule.Rationale != "" {
		r.Println("## Why This Matters")
		r.Println("")
		r.Println(rule.Rationale)
		r.Println("")
	}

	if rule.Fix != "" {
		r.Println("## How to Fix")
		r.Println("")
		r.Println(rule.Fix)
		r.Println("")
	}
	return nil
}

type ruleGroup struct {
	name  string
	rules []core.RuleInfo
}

// groupRules buckets rules by group, keeping the order in which groups first appear.
func groupRules(rules []core.RuleInfo) []ruleGroup {
	var groups []ruleGroup
	index := make(map[string]int)
	for _, rule := range rules {
		i, ok := index[rule.Group]
		if !ok {
			i = len(groups)
			index[rule.Group] = i
			groups = append(groups, ruleGroup{name: rule.Group})
		}
		groups[i].rules = append(groups[i].rules, rule)
	}
	return groups
}

func severityStyle(styles *output.Styles, sev core.Severity) lipgloss.Style {
	if sev == core.SeverityError {
		return styles.Error
	}
	return styles.Warning
}
