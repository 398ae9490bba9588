package dialogue

import (
	"fmt"
	"path/filepath"
	"strings"
	"time"

	"github.com/theimaginaryfoundation/signal-bridge/bridge/fileutils"
)

// RenderScenarioMarkdown renders a full transcript with every turn's mind state.
func RenderScenarioMarkdown(res ScenarioResult) string {
	var b strings.Builder
	sc := res.Scenario
	a, c := res.FinalStates[0], res.FinalStates[1]
	nameA, nameB := sc.Agents[0].Name, sc.Agents[1].Name

	fmt.Fprintf(&b, "# %s\n\n", sc.Name)
	fmt.Fprintf(&b, "**Category:** %s\n", sc.Category)
	fmt.Fprintf(&b, "**Description:** %s\n", sc.Description)
	fmt.Fprintf(&b, "**Status:** %s\n", statusWord(res.Success))
	fmt.Fprintf(&b, "**Duration:** %.2fs\n", float64(res.DurationMs)/1000)
	fmt.Fprintf(&b, "**Timestamp:** %s\n\n", res.StartTime.Format(time.RFC3339))

	b.WriteString("## Scenario Setup\n\n### Context\n")
	fmt.Fprintf(&b, "> %s\n\n", fileutils.SanitizeNewlines(sc.Context))
	b.WriteString("### Secret Goals\n")
	for _, s := range sc.Agents {
		fmt.Fprintf(&b, "- **%s's Goal:** %s\n", s.Name, fileutils.SanitizeNewlines(s.SecretGoal))
	}
	b.WriteString("\n## Conversation Transcript\n\n")

	for _, t := range res.Turns {
		fmt.Fprintf(&b, "### Turn %d: %s\n\n", t.TurnNumber, t.Agent)
		fmt.Fprintf(&b, "**Message:**\n> \"%s\"\n\n", fileutils.SanitizeNewlines(t.Message))
		if t.Subtext != "" {
			fmt.Fprintf(&b, "**Subtext:** %s\n", fileutils.SanitizeNewlines(t.Subtext))
		}
		if t.EmotionalTone != "" || t.DefenseActive != "" {
			fmt.Fprintf(&b, "**Tone:** %s  **Defense:** %s\n", orDash(string(t.EmotionalTone)), orDash(string(t.DefenseActive)))
		}
		if t.Subtext != "" || t.EmotionalTone != "" || t.DefenseActive != "" {
			b.WriteString("\n")
		}
		b.WriteString("**Mental State:**\n")
		writeMind(&b, t.Mind, "Other", "Other's")
		b.WriteString("\n---\n\n")
	}

	b.WriteString("## Final Mental States\n\n")
	fmt.Fprintf(&b, "### %s's Final State\n", nameA)
	writeMind(&b, a.Mind, nameB, nameB+"'s")
	fmt.Fprintf(&b, "\n### %s's Final State\n", nameB)
	writeMind(&b, c.Mind, nameA, nameA+"'s")

	if res.Error != "" {
		fmt.Fprintf(&b, "\n## Error\n```\n%s\n```\n", res.Error)
	}
	return b.String()
}

func writeMind(b *strings.Builder, m MindState, other, othersPossessive string) {
	fmt.Fprintf(b, "- *Self Analysis:* %s\n", fileutils.SanitizeNewlines(m.SelfAnalysis))
	fmt.Fprintf(b, "- *Model of %s:* %s\n", other, fileutils.SanitizeNewlines(m.ModelOfOther))
	fmt.Fprintf(b, "- *%s Model of Me:* %s\n", othersPossessive, fileutils.SanitizeNewlines(m.ModelOfOthersModel))
}

func statusWord(ok bool) string {
	if ok {
		return "Completed"
	}
	return "Failed"
}

func orDash(s string) string {
	if s == "" {
		return "-"
	}
	return s
}

// RenderSummary renders the overview table of a run, with a per-category tally
// in first-seen category order.
func RenderSummary(results []ScenarioResult, generated time.Time) string {
	var b strings.Builder
	ok := 0
	for _, r := range results {
		if r.Success {
			ok++
		}
	}
	b.WriteString("# Theory of Mind Simulation - Results Summary\n\n")
	fmt.Fprintf(&b, "**Generated:** %s\n", generated.UTC().Format(time.RFC3339))
	fmt.Fprintf(&b, "**Total Scenarios:** %d\n", len(results))
	fmt.Fprintf(&b, "**Successful:** %d\n", ok)
	fmt.Fprintf(&b, "**Failed:** %d\n\n", len(results)-ok)

	b.WriteString("## Results Overview\n\n")
	b.WriteString("| Scenario | Category | Turns | Duration | Status |\n")
	b.WriteString("|----------|----------|-------|----------|--------|\n")
	var categories []string
	tally := map[string][2]int{}
	for _, r := range results {
		sc := r.Scenario
		fmt.Fprintf(&b, "| %s | %s | %d/%d | %.1fs | %s |\n",
			sc.Name, sc.Category, len(r.Turns), sc.Turns, float64(r.DurationMs)/1000, statusWord(r.Success))
		t, seen := tally[sc.Category]
		if !seen {
			categories = append(categories, sc.Category)
		}
		t[1]++
		if r.Success {
			t[0]++
		}
		tally[sc.Category] = t
	}

	b.WriteString("\n## Category Breakdown\n\n")
	for _, c := range categories {
		t := tally[c]
		fmt.Fprintf(&b, "- **%s:** %d/%d successful\n", c, t[0], t[1])
	}
	b.WriteString("\n---\n*See individual scenario files for detailed transcripts.*\n")
	return b.String()
}

// WriteScenarioReport writes <id>.json and <id>.md into dir.
func WriteScenarioReport(dir string, res ScenarioResult, overwrite bool) error {
	base := filepath.Join(dir, res.Scenario.ID)
	if !overwrite && fileutils.FileExists(base+".json") {
		return fmt.Errorf("output exists (use -overwrite): %s", base+".json")
	}
	if err := fileutils.WriteJSONFileAtomic(base+".json", res, true); err != nil {
		return err
	}
	return fileutils.WriteNewFileAtomic(base+".md", []byte(RenderScenarioMarkdown(res)), overwrite)
}

// WriteSummary writes SUMMARY.md and all-results.json into dir.
func WriteSummary(dir string, results []ScenarioResult, generated time.Time, overwrite bool) error {
	if err := fileutils.WriteNewFileAtomic(filepath.Join(dir, "SUMMARY.md"), []byte(RenderSummary(results, generated)), overwrite); err != nil {
		return err
	}
	return fileutils.WriteJSONFileAtomic(filepath.Join(dir, "all-results.json"), results, true)
}
