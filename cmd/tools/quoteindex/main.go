// Command quoteindex inspects a quote corpus without starting the server.
package main

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log"
	"os"
	"strconv"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/xfnw/ircqrs/internal/config"
	"github.com/xfnw/ircqrs/internal/model/quote"
	quoteService "github.com/xfnw/ircqrs/internal/service/quote"
	"github.com/xfnw/ircqrs/quotes"
)

func main() {
	log.SetFlags(log.LstdFlags | log.Lmicroseconds)

	if err := godotenv.Load(); err != nil && !errors.Is(err, os.ErrNotExist) {
		log.Printf("[WARN] failed to load .env, using system environment: %v", err)
	}

	if err := newRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}

type options struct {
	dir    string
	format string
}

func newRootCmd() *cobra.Command {
	opts := &options{}

	root := &cobra.Command{
		Use:          "quoteindex",
		Short:        "Inspect the ircqrs quote corpus",
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			if opts.format != "yaml" && opts.format != "json" {
				return fmt.Errorf("unsupported format %q (want yaml or json)", opts.format)
			}
			if cmd.Flags().Changed("dir") {
				return nil
			}
			cfg, err := config.Load()
			if err != nil {
				return err
			}
			opts.dir = cfg.Corpus.Dir
			return nil
		},
	}

	root.PersistentFlags().StringVar(&opts.dir, "dir", "", "quote directory (default: QUOTES_DIR or the embedded corpus)")
	root.PersistentFlags().StringVarP(&opts.format, "format", "o", "yaml", "output format: yaml or json")

	root.AddCommand(newParticipantsCmd(opts), newQuoteCmd(opts), newCheckCmd(opts))
	return root
}

func newParticipantsCmd(opts *options) *cobra.Command {
	return &cobra.Command{
		Use:   "participants [name]",
		Short: "List participants and the quotes they appear in",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			svc, err := openService(opts.dir)
			if err != nil {
				return err
			}

			if len(args) == 1 {
				return encode(cmd.OutOrStdout(), opts.format, quote.Participant{Name: args[0], Quotes: svc.Participant(args[0])})
			}
			return encode(cmd.OutOrStdout(), opts.format, svc.Participants())
		},
	}
}

func newQuoteCmd(opts *options) *cobra.Command {
	return &cobra.Command{
		Use:   "quote <id>",
		Short: "Print one quote with its navigation links",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := strconv.ParseUint(args[0], 10, 32)
			if err != nil {
				return fmt.Errorf("invalid quote id %q: %w", args[0], err)
			}

			svc, err := openService(opts.dir)
			if err != nil {
				return err
			}

			q, err := svc.Get(uint32(id))
			if err != nil {
				return err
			}

			return encode(cmd.OutOrStdout(), opts.format, struct {
				Quote      quote.Quote             `json:"quote" yaml:"quote"`
				Navigation quoteService.Navigation `json:"navigation" yaml:"navigation"`
			}{q, svc.Navigate(q.ID)})
		},
	}
}

type problem struct {
	ID    uint32 `json:"id" yaml:"id"`
	Error string `json:"error" yaml:"error"`
}

type report struct {
	Quotes       int                 `json:"quotes" yaml:"quotes"`
	Participants int                 `json:"participants" yaml:"participants"`
	Bounds       quoteService.Bounds `json:"bounds" yaml:"bounds"`
	Problems     []problem           `json:"problems,omitempty" yaml:"problems,omitempty"`
}

func newCheckCmd(opts *options) *cobra.Command {
	return &cobra.Command{
		Use:   "check",
		Short: "Verify every quote can be served",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			svc, err := openService(opts.dir)
			if err != nil {
				return err
			}

			rep := report{
				Quotes:       svc.Count(),
				Participants: len(svc.Participants()),
				Bounds:       svc.Bounds(),
			}
			for _, id := range svc.IDs() {
				if _, err := svc.Get(id); err != nil {
					rep.Problems = append(rep.Problems, problem{ID: id, Error: err.Error()})
				}
			}

			if err := encode(cmd.OutOrStdout(), opts.format, rep); err != nil {
				return err
			}
			if len(rep.Problems) > 0 {
				return fmt.Errorf("%d of %d quotes cannot be served", len(rep.Problems), rep.Quotes)
			}
			return nil
		},
	}
}

func openService(dir string) (*quoteService.Service, error) {
	store, err := quotes.Open(dir)
	if err != nil {
		return nil, err
	}
	return quoteService.NewService(store), nil
}

func encode(w io.Writer, format string, v any) error {
	if format == "json" {
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(v)
	}

	enc := yaml.NewEncoder(w)
	enc.SetIndent(2)
	if err := enc.Encode(v); err != nil {
		return err
	}
	return enc.Close()
}
