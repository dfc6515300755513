package cli

import (
	"fmt"
	"io"
	"strings"

	"github.com/bastiangx/wordchain/internal/utils"
	"github.com/bastiangx/wordchain/pkg/chain"
	"github.com/bastiangx/wordchain/pkg/dictionary"
	"github.com/charmbracelet/lipgloss"
)

// printer renders engine results for a terminal.
type printer struct {
	out   io.Writer
	color bool

	word  lipgloss.Style
	dead  lipgloss.Style
	muted lipgloss.Style
}

func newPrinter(out io.Writer, color bool) *printer {
	r := lipgloss.NewRenderer(out)
	return &printer{
		out:   out,
		color: color,
		word:  r.NewStyle().Foreground(lipgloss.AdaptiveColor{Light: "#286983", Dark: "#9ccfd8"}),
		dead:  r.NewStyle().Bold(true).Foreground(lipgloss.AdaptiveColor{Light: "#b4637a", Dark: "#eb6f92"}),
		muted: r.NewStyle().Italic(true).Foreground(lipgloss.AdaptiveColor{Light: "#797593", Dark: "#908caa"}),
	}
}

func (p *printer) render(s lipgloss.Style, text string) string {
	if !p.color {
		return text
	}
	return s.Render(text)
}

func (p *printer) printf(format string, args ...any) {
	fmt.Fprintf(p.out, format, args...)
}

func (p *printer) note(format string, args ...any) {
	p.printf("%s\n", p.render(p.muted, fmt.Sprintf(format, args...)))
}

// results prints numbered next-word results starting at offset+1.
func (p *printer) results(results []chain.Result, offset int) {
	for i, r := range results {
		if r.IsDead {
			p.printf("%3d. %s %s\n", offset+i+1, p.render(p.dead, r.Word), p.render(p.muted, "(dead)"))
			continue
		}
		p.printf("%3d. %s\n", offset+i+1, p.render(p.word, r.Word))
	}
}

func (p *printer) words(words []string) {
	for i, w := range words {
		p.printf("%3d. %s\n", i+1, p.render(p.word, w))
	}
}

func (p *printer) chain(words []string, dead bool) string {
	parts := make([]string, len(words))
	for i, w := range words {
		style := p.word
		if dead && i == len(words)-1 {
			style = p.dead
		}
		parts[i] = p.render(style, w)
	}
	return strings.Join(parts, " → ")
}

func (p *printer) deadEndChains(chains []chain.DeadEndChain) {
	for i, c := range chains {
		p.printf("%3d. %s %s\n", i+1, p.chain(c.Chain, c.IsGameEnding), p.render(p.muted, fmt.Sprintf("(%d)", c.Length)))
	}
}

func (p *printer) exampleChains(chains []chain.ExampleChain) {
	for i, c := range chains {
		suffix := "(ends)"
		if c.CanContinue {
			suffix = "(continues)"
		}
		p.printf("%3d. %s %s\n", i+1, p.chain(c.Chain, !c.CanContinue), p.render(p.muted, suffix))
	}
}

func (p *printer) moves(moves []chain.Move) {
	for i, m := range moves {
		style := p.word
		if m.Continuations == 0 {
			style = p.dead
		}
		p.printf("%3d. %-30s %s\n", i+1, p.render(style, m.Word),
			p.render(p.muted, fmt.Sprintf("%d %s", m.Continuations, utils.Plural(m.Continuations, "reply", "replies"))))
	}
}

func (p *printer) stats(st dictionary.Stats) {
	p.printf("language:    %s\n", st.Language)
	p.printf("words:       %s\n", utils.FormatWithCommas(st.TotalWords))
	p.printf("user words:  %s\n", utils.FormatWithCommas(st.UserAddedWords))
	p.printf("dead words:  %s\n", utils.FormatWithCommas(st.DeadWords))
	p.printf("elements:    %s\n", utils.FormatWithCommas(len(st.Elements)))
	if blocking := st.BlockingElements(); len(blocking) > 0 {
		if len(blocking) > 20 {
			blocking = append(blocking[:20], "…")
		}
		p.printf("blocking:    %s\n", strings.Join(blocking, ", "))
	}
}

func (p *printer) history(entries []dictionary.UsageEntry, limit int) {
	if limit > 0 && len(entries) > limit {
		entries = entries[:limit]
	}
	for i, e := range entries {
		p.printf("%3d. %-30s %s\n", i+1, p.render(p.word, e.Word), utils.FormatWithCommas(e.Count))
	}
}
