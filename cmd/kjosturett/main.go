// ABOUTME: CLI entrypoint for the election site: build statement JSON, serve the site, and browse quiz results.
// ABOUTME: Wires the content builder, SQLite store, chi server, and Bubble Tea browser behind cobra subcommands.
package main

import (
	"encoding/json"
	"fmt"
	"io"
	"log"
	"os"
	"os/signal"
	"syscall"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"

	"github.com/kjosturett/kjosturett/content"
	"github.com/kjosturett/kjosturett/quiz"
	"github.com/kjosturett/kjosturett/site"
	"github.com/kjosturett/kjosturett/store"
	"github.com/kjosturett/kjosturett/tui"
	"github.com/kjosturett/kjosturett/web"
)

var version = "dev"

func main() {
	loadDotEnvAuto()

	if err := newRootCmd(os.Stdout).Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "error:", err)
		os.Exit(1)
	}
}

func newRootCmd(out io.Writer) *cobra.Command {
	root := &cobra.Command{
		Use:   "kjosturett",
		Short: "Election information site: party statements and quiz results",
		Long: `kjosturett builds and serves the election information site.

  build    flatten <party>/<category>.md statements into JSON documents
  serve    serve statement pages and quiz results over HTTP
  results  browse a quiz results snapshot in the terminal`,
		Version:       version,
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.SetOut(out)

	root.AddCommand(buildCmd())
	root.AddCommand(serveCmd())
	root.AddCommand(resultsCmd())
	root.AddCommand(versionCmd())
	return root
}

func versionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print version and exit",
		Args:  cobra.NoArgs,
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Fprintf(cmd.OutOrStdout(), "kjosturett %s\n", version)
		},
	}
}

func buildCmd() *cobra.Command {
	var (
		sourceDir string
		outDir    string
		listsPath string
		index     bool
		dataDir   string
	)

	cmd := &cobra.Command{
		Use:   "build",
		Short: "Convert Markdown statements into the site's JSON documents",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			lists, err := site.LoadLists(listsPath)
			if err != nil {
				return err
			}

			builder := content.NewBuilder(sourceDir, outDir, lists)
			if index {
				db, err := openStore(dataDir)
				if err != nil {
					return err
				}
				defer db.Close()
				builder.Index = db
			}

			report, err := builder.Build(cmd.Context())
			if report != nil {
				fmt.Fprint(cmd.OutOrStdout(), report.Render())
			}
			return err
		},
	}

	cmd.Flags().StringVar(&sourceDir, "source", ".", "Directory holding <party>/<category>.md statements")
	cmd.Flags().StringVar(&outDir, "out", "../src/lib/data", "Directory the JSON documents are written to")
	cmd.Flags().StringVar(&listsPath, "lists", "", "YAML file with categories and parties (default: built-in lists)")
	cmd.Flags().BoolVar(&index, "index", true, "Write statements to the SQLite index used by serve (--index=false skips it)")
	cmd.Flags().StringVar(&dataDir, "data-dir", "", "Data directory for the SQLite database (default: $XDG_DATA_HOME/kjosturett)")
	return cmd
}

func serveCmd() *cobra.Command {
	var (
		addr      string
		dataDir   string
		jsonDir   string
		listsPath string
		assetURL  string
	)

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve statement pages and quiz results",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			lists, err := site.LoadLists(listsPath)
			if err != nil {
				return err
			}
			db, err := openStore(dataDir)
			if err != nil {
				return err
			}
			defer db.Close()

			srv, err := web.NewServer(web.ServerConfig{
				Addr:    firstNonEmpty(addr, os.Getenv("KJOSTURETT_ADDR")),
				Lists:   lists,
				Store:   db,
				Assets:  quiz.CDNAssets{BaseURL: firstNonEmpty(assetURL, os.Getenv("KJOSTURETT_ASSET_URL"), "/static/img")},
				DataDir: jsonDir,
			})
			if err != nil {
				return err
			}

			ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
			defer stop()

			log.Printf("serve: listening addr=%s", firstNonEmpty(addr, os.Getenv("KJOSTURETT_ADDR"), "127.0.0.1:3000"))
			return srv.ListenAndServe(ctx)
		},
	}

	cmd.Flags().StringVar(&addr, "addr", "", "Listen address (default: $KJOSTURETT_ADDR or 127.0.0.1:3000)")
	cmd.Flags().StringVar(&dataDir, "data-dir", "", "Data directory for the SQLite database (default: $XDG_DATA_HOME/kjosturett)")
	cmd.Flags().StringVar(&jsonDir, "json-dir", "", "Directory of built JSON documents to serve under /data/")
	cmd.Flags().StringVar(&listsPath, "lists", "", "YAML file with categories and parties (default: built-in lists)")
	cmd.Flags().StringVar(&assetURL, "asset-url", "", "Base URL for party and candidate images (default: $KJOSTURETT_ASSET_URL)")
	return cmd
}

func resultsCmd() *cobra.Command {
	var (
		plain     bool
		open      string
		listsPath string
	)

	cmd := &cobra.Command{
		Use:   "results <snapshot.json>",
		Short: "Browse a quiz results snapshot in the terminal",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			lists, err := site.LoadLists(listsPath)
			if err != nil {
				return err
			}
			in, err := readResult(args[0])
			if err != nil {
				return err
			}
			presenter := quiz.Presenter{Lists: lists}

			if plain {
				view, err := presenter.BuildView(in, quiz.ParseOpenState(open))
				if err != nil {
					return err
				}
				text, _ := tui.Render(view, tui.RenderOptions{Cursor: -1, ShowCandidates: true})
				fmt.Fprintln(cmd.OutOrStdout(), text)
				return nil
			}

			model, err := tui.NewModel(presenter, in)
			if err != nil {
				return err
			}
			_, err = tea.NewProgram(model, tea.WithAltScreen(), tea.WithContext(cmd.Context())).Run()
			return err
		},
	}

	cmd.Flags().BoolVar(&plain, "plain", false, "Print the results instead of opening the interactive browser")
	cmd.Flags().StringVar(&open, "open", "", "Comma separated party letters to expand with --plain")
	cmd.Flags().StringVar(&listsPath, "lists", "", "YAML file with categories and parties (default: built-in lists)")
	return cmd
}

func openStore(dataDirFlag string) (*store.DB, error) {
	dataDir, err := resolveDataDir(dataDirFlag)
	if err != nil {
		return nil, err
	}
	return store.Open(databasePath(dataDir))
}

func readResult(path string) (quiz.Input, error) {
	var in quiz.Input
	data, err := os.ReadFile(path)
	if err != nil {
		return in, fmt.Errorf("read results: %w", err)
	}
	if err := json.Unmarshal(data, &in); err != nil {
		return in, fmt.Errorf("parse results %s: %w", path, err)
	}
	return in, nil
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}
