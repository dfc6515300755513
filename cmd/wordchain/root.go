package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/bastiangx/wordchain/internal/cli"
	"github.com/bastiangx/wordchain/internal/logger"
	"github.com/bastiangx/wordchain/internal/utils"
	"github.com/bastiangx/wordchain/pkg/chain"
	"github.com/bastiangx/wordchain/pkg/config"
	"github.com/bastiangx/wordchain/pkg/persist"
	"github.com/bastiangx/wordchain/pkg/server"
	"github.com/bastiangx/wordchain/pkg/session"
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"
)

// app carries the root flags and the session opened for a command.
type app struct {
	debug      bool
	configPath string
	language   string
	asJSON     bool

	cfg  *config.Config
	sess *session.Session
	res  *session.Resources
}

func newRootCmd() *cobra.Command {
	a := &app{}
	root := &cobra.Command{
		Use:           "wordchain",
		Short:         "Word chain helper for Vietnamese and English",
		Long:          "WordChain finds next words, dead words and winning chains for the word chain game.",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			logger.Setup(a.debug)
			return nil
		},
		PersistentPostRun: func(*cobra.Command, []string) {
			a.close()
		},
	}
	flags := root.PersistentFlags()
	flags.BoolVarP(&a.debug, "debug", "d", false, "Toggle debug mode")
	flags.StringVar(&a.configPath, "config", "", "Path to a config.toml")
	flags.StringVarP(&a.language, "language", "l", "", "Language to load (vietnamese, english)")
	flags.BoolVar(&a.asJSON, "json", false, "Print results as JSON")

	root.AddCommand(
		a.checkCmd(),
		a.nextCmd(),
		a.prevCmd(),
		a.validateCmd(),
		a.addCmd(),
		a.removeCmd(),
		a.statsCmd(),
		a.chainsCmd(),
		a.replCmd(),
		a.serveCmd(),
		a.configCmd(),
		versionCmd(),
	)
	return root
}

func (a *app) loadConfig() error {
	if a.cfg != nil {
		return nil
	}
	cfg, path, err := config.LoadConfigWithPriority(a.configPath)
	if err != nil {
		return err
	}
	log.Debugf("Using config: %s", config.GetActiveConfigPath(path))
	if a.language != "" {
		cfg.Dict.Language = a.language
	}
	a.cfg = cfg
	return nil
}

// open loads the config and the session of the selected language.
func (a *app) open(ctx context.Context) error {
	if err := a.loadConfig(); err != nil {
		return err
	}
	sess, res, err := session.Open(ctx, a.cfg)
	if err != nil {
		return err
	}
	a.sess, a.res = sess, res
	log.Debugf("User words: %s (%s)", res.StoragePath, a.cfg.Storage.Backend)
	if res.DataDir != "" {
		log.Debugf("Word lists: %s", res.DataDir)
	}
	return nil
}

func (a *app) close() {
	if a.res == nil || a.res.Store == nil {
		return
	}
	if err := a.res.Store.Close(); err != nil {
		log.Warnf("Failed to close user word storage: %v", err)
	}
	a.res = nil
}

// emit prints v as JSON with --json, otherwise runs plain.
func (a *app) emit(w io.Writer, v any, plain func()) error {
	if !a.asJSON {
		plain()
		return nil
	}
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

// wordArgs splits every argument on commas so both
// `add "xe hơi" "máy bay"` and `add "xe hơi, máy bay"` work.
func wordArgs(args []string) []string {
	var out []string
	for _, arg := range args {
		out = append(out, utils.SplitList(arg)...)
	}
	return out
}

func (a *app) lookupOptions(cmd *cobra.Command) (chain.Options, error) {
	limit, _ := cmd.Flags().GetInt("limit")
	random, _ := cmd.Flags().GetBool("random")
	order, _ := cmd.Flags().GetString("order")
	opts := chain.Options{Limit: limit, Random: random}
	switch order {
	case "":
	case "dead-first":
		opts.Order = chain.OrderDeadFirst
	case "live-first":
		opts.Order = chain.OrderLiveFirst
	default:
		return opts, fmt.Errorf("unknown order %q, want dead-first or live-first", order)
	}
	if opts.Limit == 0 {
		opts.Limit = a.cfg.CLI.DefaultLimit
	}
	return opts, nil
}

func addLookupFlags(cmd *cobra.Command) {
	cmd.Flags().IntP("limit", "n", 0, "Number of words to print (default from config, -1 for all)")
	cmd.Flags().Bool("random", false, "Sample results in random order")
	cmd.Flags().String("order", "", "dead-first or live-first")
}

func (a *app) checkCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "check <word> <next>",
		Short: "Report whether <next> can follow <word>",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := a.open(cmd.Context()); err != nil {
				return err
			}
			ok := a.sess.Engine().CanChain(args[0], args[1])
			return a.emit(cmd.OutOrStdout(), ok, func() {
				verdict := "cannot"
				if ok {
					verdict = "can"
				}
				fmt.Fprintf(cmd.OutOrStdout(), "%q %s follow %q\n", args[1], verdict, args[0])
			})
		},
	}
}

func (a *app) nextCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "next <word>",
		Short: "List the words that can follow <word>",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := a.open(cmd.Context()); err != nil {
				return err
			}
			opts, err := a.lookupOptions(cmd)
			if err != nil {
				return err
			}
			results := a.sess.Engine().FindNextWords(args[0], opts)
			return a.emit(cmd.OutOrStdout(), results, func() {
				for _, r := range results {
					if r.IsDead {
						fmt.Fprintf(cmd.OutOrStdout(), "%s\t(dead)\n", r.Word)
						continue
					}
					fmt.Fprintln(cmd.OutOrStdout(), r.Word)
				}
			})
		},
	}
	addLookupFlags(cmd)
	return cmd
}

func (a *app) prevCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "prev <word>",
		Short: "List the words <word> can follow",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := a.open(cmd.Context()); err != nil {
				return err
			}
			opts, err := a.lookupOptions(cmd)
			if err != nil {
				return err
			}
			words := a.sess.Engine().FindPreviousWords(args[0], opts)
			return a.emit(cmd.OutOrStdout(), words, func() {
				for _, w := range words {
					fmt.Fprintln(cmd.OutOrStdout(), w)
				}
			})
		},
	}
	addLookupFlags(cmd)
	return cmd
}

func (a *app) validateCmd() *cobra.Command {
	var strict bool
	cmd := &cobra.Command{
		Use:   "validate <word>...",
		Short: "Validate a played sequence",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := a.open(cmd.Context()); err != nil {
				return err
			}
			words := wordArgs(args)
			ok := a.sess.Engine().ValidateChain(words)
			if strict {
				ok = a.sess.Engine().ValidateChainStrict(words)
			}
			return a.emit(cmd.OutOrStdout(), ok, func() {
				if ok {
					fmt.Fprintf(cmd.OutOrStdout(), "valid: %s\n", strings.Join(words, " → "))
					return
				}
				fmt.Fprintln(cmd.OutOrStdout(), "invalid")
			})
		},
	}
	cmd.Flags().BoolVar(&strict, "strict", false, "Also require every word to be in the dictionary")
	return cmd
}

func (a *app) addCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "add <word>...",
		Short: "Add user words",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := a.open(cmd.Context()); err != nil {
				return err
			}
			res := a.sess.Store().AddWords(wordArgs(args), true)
			return a.emit(cmd.OutOrStdout(), res, func() {
				out := cmd.OutOrStdout()
				fmt.Fprintf(out, "added %d %s\n", len(res.Added), utils.Plural(len(res.Added), "word", "words"))
				if len(res.Duplicates) > 0 {
					fmt.Fprintf(out, "already known: %s\n", strings.Join(res.Duplicates, ", "))
				}
				if len(res.Rejected) > 0 {
					fmt.Fprintf(out, "rejected: %s (expected %s)\n", strings.Join(res.Rejected, ", "), a.sess.Language().FormatHint())
				}
			})
		},
	}
}

func (a *app) removeCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "remove <word>...",
		Short: "Remove words",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := a.open(cmd.Context()); err != nil {
				return err
			}
			res := a.sess.Store().RemoveWords(wordArgs(args))
			return a.emit(cmd.OutOrStdout(), res, func() {
				out := cmd.OutOrStdout()
				fmt.Fprintf(out, "removed %d %s\n", len(res.Removed), utils.Plural(len(res.Removed), "word", "words"))
				if len(res.NotFound) > 0 {
					fmt.Fprintf(out, "not found: %s\n", strings.Join(res.NotFound, ", "))
				}
			})
		},
	}
}

func (a *app) statsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "stats",
		Short: "Print dictionary statistics",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if err := a.open(cmd.Context()); err != nil {
				return err
			}
			st := a.sess.Store().Stats()
			return a.emit(cmd.OutOrStdout(), st, func() {
				out := cmd.OutOrStdout()
				fmt.Fprintf(out, "language:   %s\n", st.Language)
				fmt.Fprintf(out, "words:      %s\n", utils.FormatWithCommas(st.TotalWords))
				fmt.Fprintf(out, "user words: %s\n", utils.FormatWithCommas(st.UserAddedWords))
				fmt.Fprintf(out, "dead words: %s\n", utils.FormatWithCommas(st.DeadWords))
				fmt.Fprintf(out, "blocking:   %s\n", strings.Join(st.BlockingElements(), ", "))
			})
		},
	}
}

func (a *app) chainsCmd() *cobra.Command {
	var (
		maxChains, maxLength int
		toDead, longest      bool
	)
	cmd := &cobra.Command{
		Use:   "chains <word>",
		Short: "Show example chains starting at <word>",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := a.open(cmd.Context()); err != nil {
				return err
			}
			e, out := a.sess.Engine(), cmd.OutOrStdout()
			switch {
			case longest:
				path := e.LongestChain(args[0], maxLength)
				return a.emit(out, path, func() {
					fmt.Fprintln(out, strings.Join(path, " → "))
				})
			case toDead:
				chains := e.FindChainsToDeadWords(args[0], maxChains, maxLength)
				return a.emit(out, chains, func() {
					for _, c := range chains {
						fmt.Fprintf(out, "%s\t(%d)\n", strings.Join(c.Chain, " → "), c.Length)
					}
				})
			}
			chains := e.GenerateWordChains(args[0], maxChains, maxLength)
			return a.emit(out, chains, func() {
				for _, c := range chains {
					suffix := ""
					if c.CanContinue {
						suffix = " …"
					}
					fmt.Fprintf(out, "%s%s\n", strings.Join(c.Chain, " → "), suffix)
				}
			})
		},
	}
	cmd.Flags().IntVar(&maxChains, "max-chains", 0, "Number of chains (default from config)")
	cmd.Flags().IntVar(&maxLength, "max-length", 0, "Maximum chain length (default from config)")
	cmd.Flags().BoolVar(&toDead, "dead", false, "Shortest chains that end in a dead word")
	cmd.Flags().BoolVar(&longest, "longest", false, "Longest chain found within the search budget")
	return cmd
}

func (a *app) replCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "repl",
		Short: "Interactive prompt",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if err := a.open(cmd.Context()); err != nil {
				return err
			}
			log.SetReportTimestamp(false)
			h := cli.NewInputHandler(a.sess, cmd.InOrStdin(), cmd.OutOrStdout(), a.cfg.CLI.DefaultLimit, a.cfg.CLI.Color)
			return h.Start(cmd.Context())
		},
	}
}

func (a *app) serveCmd() *cobra.Command {
	var (
		codec   string
		noWatch bool
	)
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the IPC server on stdin/stdout",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if err := a.open(cmd.Context()); err != nil {
				return err
			}
			if codec == "" {
				codec = a.cfg.Server.Codec
			}
			srv, err := server.NewServer(a.sess, cmd.InOrStdin(), cmd.OutOrStdout(), codec)
			if err != nil {
				return err
			}
			showStartupInfo(a.sess, a.res)

			ctx, cancel := context.WithCancel(cmd.Context())
			defer cancel()
			g, gctx := errgroup.WithContext(ctx)
			g.Go(func() error {
				defer cancel()
				return srv.Start(gctx)
			})
			if a.cfg.Server.Watch && !noWatch && a.cfg.Storage.Backend != persist.BackendMemory {
				w, err := persist.NewWatcher(a.res.StoragePath, func() { srv.Reload(gctx) })
				if err != nil {
					log.Warnf("User word file watcher disabled: %v", err)
				} else {
					g.Go(func() error { return w.Run(gctx) })
				}
			}
			return g.Wait()
		},
	}
	cmd.Flags().StringVar(&codec, "codec", "", "json or msgpack (default from config)")
	cmd.Flags().BoolVar(&noWatch, "no-watch", false, "Do not reload user words changed by other processes")
	return cmd
}

func (a *app) configCmd() *cobra.Command {
	var rebuild bool
	cmd := &cobra.Command{
		Use:   "config",
		Short: "Print the active config path, or rewrite it with defaults",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if rebuild {
				path, err := config.RebuildConfigFile()
				if err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "wrote defaults to %s\n", path)
				return nil
			}
			_, path, err := config.LoadConfigWithPriority(a.configPath)
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), config.GetActiveConfigPath(path))
			if a.debug {
				if pr, err := utils.NewPathResolver(); err == nil {
					for k, v := range pr.GetRuntimeInfo() {
						log.Debug("runtime", k, v)
					}
				}
			}
			return nil
		},
	}
	cmd.Flags().BoolVar(&rebuild, "rebuild", false, "Overwrite the default config file with built-in defaults")
	return cmd
}

func versionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Show current version",
		Args:  cobra.NoArgs,
		Run: func(*cobra.Command, []string) {
			logger := log.NewWithOptions(os.Stderr, log.Options{
				ReportCaller:    false,
				ReportTimestamp: false,
				Prefix:          "",
			})

			styles := log.DefaultStyles()
			styles.Values["version"] = lipgloss.NewStyle().Bold(true).
				Foreground(lipgloss.AdaptiveColor{Light: "#575279", Dark: "#e0def4"})
			styles.Values["gh"] = lipgloss.NewStyle().Italic(true).
				Foreground(lipgloss.AdaptiveColor{Light: "#575279", Dark: "#e0def4"})
			logger.SetStyles(styles)

			logger.Print("")
			logger.Print("[ WordChain ] Never run out of words!")
			logger.Print("", "version", Version)
			logger.Print("")
			logger.Print("use -h or --help to see available options")
			logger.Print("Github Repo", "gh", gh)
		},
	}
}

// showStartupInfo displays some basic info about the init process.
func showStartupInfo(sess *session.Session, res *session.Resources) {
	log.Infof("Version: %s", Version)
	log.Infof("Process ID: [ %d ]", os.Getpid())
	log.Infof("language: %s (%s words)", sess.Language(), utils.FormatWithCommas(sess.Store().Len()))
	log.Infof("user words: ( %s )", res.StoragePath)
	if res.DataDir != "" {
		log.Infof("data dir: ( %s )", res.DataDir)
	}
	log.Info("status: ready")
}
