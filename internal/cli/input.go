// Package cli implements the interactive word chain prompt.
package cli

import (
	"bufio"
	"context"
	"errors"
	"io"
	"strconv"
	"strings"
	"time"

	"github.com/bastiangx/wordchain/internal/utils"
	"github.com/bastiangx/wordchain/pkg/chain"
	"github.com/bastiangx/wordchain/pkg/dictionary"
	"github.com/bastiangx/wordchain/pkg/session"
	"github.com/charmbracelet/log"
)

const helpText = `commands:
  next <word>            words that can follow <word>
  more [word]            next page of the last "next"
  prev <word>            words <word> can follow
  check <a>, <b>         can <b> follow <a>
  chain <w1>, <w2>, ...  validate a sequence
  dead <word>            shortest routes to a dead word
  examples <word>        sample chains from <word>
  longest <word>         longest chain found from <word>
  moves <word>           next words ranked by replies
  add <w1>, <w2>, ...    add user words
  remove <w1>, ...       remove words
  find <prefix>          words starting with <prefix>
  word <word>            format and dictionary check
  random [n]             random words
  stats | history | lang [tag] | help | quit`

// InputHandler reads commands line by line and prints engine results.
type InputHandler struct {
	sess    *session.Session
	in      *bufio.Reader
	p       *printer
	limit   int
	seen    *utils.SeenFilter
	hasMore bool

	requestCount int
}

// NewInputHandler prepares a prompt over sess. Results are capped at limit
// per page; color turns on lipgloss styling.
func NewInputHandler(sess *session.Session, in io.Reader, out io.Writer, limit int, color bool) *InputHandler {
	if limit <= 0 {
		limit = 20
	}
	return &InputHandler{
		sess:  sess,
		in:    bufio.NewReader(in),
		p:     newPrinter(out, color),
		limit: limit,
	}
}

// Start runs the prompt until quit, end of input or ctx is done.
func (h *InputHandler) Start(ctx context.Context) error {
	h.p.printf("WordChain [%s], type help for commands\n", h.sess.Language())
	for {
		if ctx.Err() != nil {
			return nil
		}
		h.p.printf("> ")
		line, err := h.in.ReadString('\n')
		line = strings.TrimSpace(line)
		if line != "" {
			if quit := h.handleInput(ctx, line); quit {
				return nil
			}
		}
		if err != nil {
			if errors.Is(err, io.EOF) {
				h.p.printf("\n")
				return nil
			}
			return err
		}
	}
}

// handleInput runs one command line and reports whether the prompt should end.
func (h *InputHandler) handleInput(ctx context.Context, line string) bool {
	h.requestCount++
	cmd, arg, _ := strings.Cut(line, " ")
	cmd = strings.ToLower(cmd)
	arg = strings.TrimSpace(arg)

	start := time.Now()
	defer func() {
		log.Debugf("Took [ %v ] for request %d %q", time.Since(start), h.requestCount, line)
	}()

	switch cmd {
	case "quit", "exit", "q":
		return true
	case "help", "?":
		h.p.printf("%s\n", helpText)
	case "next", "n":
		if h.validWord(arg) {
			h.next(arg)
		}
	case "more", "m":
		h.more(arg)
	case "prev", "p":
		if h.validWord(arg) {
			h.prev(arg)
		}
	case "check", "c":
		h.check(arg)
	case "chain", "validate":
		h.validate(arg)
	case "dead", "d":
		if h.validWord(arg) {
			h.deadEnds(arg)
		}
	case "examples", "e":
		if h.validWord(arg) {
			h.examples(arg)
		}
	case "longest":
		if h.validWord(arg) {
			h.longest(arg)
		}
	case "moves":
		if h.validWord(arg) {
			h.p.moves(h.sess.Engine().RankMoves(arg, h.limit))
		}
	case "add", "a":
		h.add(arg)
	case "remove", "rm":
		h.remove(arg)
	case "find", "f":
		if h.validWord(arg) {
			h.find(arg)
		}
	case "word", "w":
		h.p.note("%s", h.sess.Store().CheckWord(arg).Message)
	case "random", "r":
		h.random(arg)
	case "stats":
		h.p.stats(h.sess.Store().Stats())
	case "history":
		h.history()
	case "lang", "language":
		h.language(ctx, arg)
	default:
		h.p.note("unknown command %q, type help", cmd)
	}
	return false
}

func (h *InputHandler) validWord(arg string) bool {
	if arg == "" {
		h.p.note("missing word")
		return false
	}
	if !utils.IsValidInput(arg) {
		h.p.note("ignoring %q: not a word", arg)
		return false
	}
	return true
}

func (h *InputHandler) next(word string) {
	h.seen = utils.NewSeenFilter(word)
	h.hasMore = false
	h.page()
}

// more pages the last next query. A different word starts a new query.
func (h *InputHandler) more(arg string) {
	if arg != "" && !h.seen.Matches(arg) {
		if h.validWord(arg) {
			h.next(arg)
		}
		return
	}
	if h.seen == nil {
		h.p.note("nothing to page, use next <word> first")
		return
	}
	if !h.hasMore {
		h.p.note("no more words after %q", h.seen.Query())
		return
	}
	h.page()
}

func (h *InputHandler) page() {
	shown := h.seen.Seen()
	page := h.sess.Engine().FindNextWordsPaginated(h.seen.Query(), chain.Options{Limit: h.limit}, shown)
	if len(page.Words) == 0 && len(shown) == 0 {
		h.p.note("no words can follow %q", h.seen.Query())
		h.hasMore = false
		return
	}
	for _, r := range page.Words {
		h.seen.ShouldInclude(r.Word)
	}
	h.p.results(page.Words, len(shown))
	h.hasMore = page.HasMore
	if h.hasMore {
		h.p.note("more available, type more")
	}
}

func (h *InputHandler) prev(word string) {
	words := h.sess.Engine().FindPreviousWords(word, chain.Options{Limit: h.limit})
	if len(words) == 0 {
		h.p.note("no words come before %q", word)
		return
	}
	h.p.words(words)
}

func (h *InputHandler) check(arg string) {
	words := utils.SplitList(arg)
	if len(words) != 2 {
		h.p.note("usage: check <a>, <b>")
		return
	}
	if h.sess.Engine().CanChain(words[0], words[1]) {
		h.p.note("%q can follow %q", words[1], words[0])
		return
	}
	h.p.note("%q cannot follow %q", words[1], words[0])
}

func (h *InputHandler) validate(arg string) {
	words := utils.SplitList(arg)
	e := h.sess.Engine()
	switch {
	case e.ValidateChainStrict(words):
		h.p.note("valid chain of %d %s", len(words), utils.Plural(len(words), "word", "words"))
	case e.ValidateChain(words):
		h.p.note("connected, but not every word is in the dictionary")
	default:
		for i := 1; i < len(words); i++ {
			if !e.CanChain(words[i-1], words[i]) {
				h.p.note("broken between %q and %q", words[i-1], words[i])
				return
			}
		}
	}
}

func (h *InputHandler) deadEnds(word string) {
	chains := h.sess.Engine().FindChainsToDeadWords(word, 0, 0)
	if len(chains) == 0 {
		h.p.note("no dead word reachable from %q", word)
		return
	}
	h.p.deadEndChains(chains)
}

func (h *InputHandler) examples(word string) {
	chains := h.sess.Engine().GenerateWordChains(word, 0, 0)
	if len(chains) == 0 {
		h.p.note("no chains from %q", word)
		return
	}
	h.p.exampleChains(chains)
}

func (h *InputHandler) longest(word string) {
	path := h.sess.Engine().LongestChain(word, 0)
	if len(path) < 2 {
		h.p.note("nothing follows %q", word)
		return
	}
	h.p.printf("%s\n", h.p.chain(path, h.sess.Engine().IsDead(path[len(path)-1])))
}

func (h *InputHandler) add(arg string) {
	res := h.sess.Store().AddWords(utils.SplitList(arg), true)
	if len(res.Added) > 0 {
		h.p.note("added: %s", strings.Join(res.Added, ", "))
	}
	if len(res.Duplicates) > 0 {
		h.p.note("already known: %s", strings.Join(res.Duplicates, ", "))
	}
	if len(res.Rejected) > 0 {
		h.p.note("rejected: %s, expected %s", strings.Join(res.Rejected, ", "), h.sess.Language().FormatHint())
	}
}

func (h *InputHandler) remove(arg string) {
	res := h.sess.Store().RemoveWords(utils.SplitList(arg))
	if len(res.Removed) > 0 {
		h.p.note("removed: %s", strings.Join(res.Removed, ", "))
	}
	if len(res.NotFound) > 0 {
		h.p.note("not found: %s", strings.Join(res.NotFound, ", "))
	}
}

func (h *InputHandler) find(prefix string) {
	words := h.sess.Store().Search(prefix, h.limit)
	if len(words) == 0 {
		h.p.note("no words start with %q", prefix)
		return
	}
	h.p.words(words)
}

func (h *InputHandler) random(arg string) {
	n := 5
	if arg != "" {
		v, err := strconv.Atoi(arg)
		if err != nil || v <= 0 {
			h.p.note("usage: random [n]")
			return
		}
		n = v
	}
	h.p.words(h.sess.Store().RandomWords(n))
}

func (h *InputHandler) history() {
	entries := h.sess.Store().History()
	if len(entries) == 0 {
		h.p.note("no words used yet")
		return
	}
	h.p.history(entries, h.limit)
}

func (h *InputHandler) language(ctx context.Context, tag string) {
	if tag == "" {
		names := make([]string, 0, 2)
		for _, l := range dictionary.Languages() {
			names = append(names, l.String())
		}
		h.p.note("language: %s (available: %s)", h.sess.Language(), strings.Join(names, ", "))
		return
	}
	lang, err := h.sess.SetLanguage(ctx, tag)
	if err != nil {
		h.p.note("%v", err)
		return
	}
	h.seen = nil
	h.hasMore = false
	h.p.note("language: %s, %s words", lang, utils.FormatWithCommas(h.sess.Store().Len()))
}
