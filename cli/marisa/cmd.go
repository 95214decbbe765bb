// Package marisa implements the marisa command-line tool's subcommands:
// build, lookup, reverse-lookup, common-prefix-search, predictive-search,
// and dump. Every search subcommand reads queries from stdin (or the
// files named as args) one per line and writes tab-separated results to
// stdout, mirroring the original tool's batch-query contract.
package marisa

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	marisalib "github.com/marisago/marisa"
	internaltrie "github.com/marisago/marisa/internal/grimoire/trie"
)

// MainCmd returns the root cobra command with every subcommand attached.
func MainCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "marisa",
		Short: "build and query marisa-trie dictionaries",
	}
	cmd.AddCommand(buildCmd(), lookupCmd(), reverseLookupCmd(), commonPrefixSearchCmd(), predictiveSearchCmd(), dumpCmd())
	return cmd
}

type buildFlags struct {
	Output     string
	NumTries   int
	TailBinary bool
	Weighted   bool
}

func buildCmd() *cobra.Command {
	f := new(buildFlags)
	cmd := &cobra.Command{
		Use:   "build [keyfile...]",
		Short: "build a dictionary from a newline- or tab-separated key list",
		Run: func(cmd *cobra.Command, args []string) {
			if err := runBuild(f, args); err != nil {
				logrus.Fatal(err)
			}
		},
	}
	cmd.Flags().StringVarP(&f.Output, "output", "o", "", "Output dictionary path (required).")
	cmd.Flags().IntVarP(&f.NumTries, "num-tries", "n", 3, "Number of recursive trie levels before falling back to the tail table.")
	cmd.Flags().BoolVarP(&f.TailBinary, "tail-binary", "b", false, "Record binary tail mode in the config flags; the tail encoding is still binary only when a suffix contains a NUL byte.")
	cmd.Flags().BoolVarP(&f.Weighted, "weighted", "w", false, "Parse a second tab-separated column as each key's weight.")
	return cmd
}

func runBuild(f *buildFlags, args []string) error {
	if f.Output == "" {
		return fmt.Errorf("marisa build: --output is required")
	}
	ks := marisalib.NewKeyset()
	r, closeFn, err := openInputs(args)
	if err != nil {
		return err
	}
	defer closeFn()

	scanner := bufio.NewScanner(r)
	for scanner.Scan() {
		line := scanner.Text()
		if line == "" {
			continue
		}
		if f.Weighted {
			parts := strings.SplitN(line, "\t", 2)
			weight := 1.0
			if len(parts) == 2 {
				if w, err := strconv.ParseFloat(parts[1], 64); err == nil {
					weight = w
				}
			}
			ks.AddWeighted([]byte(parts[0]), weight)
		} else {
			ks.Add([]byte(line))
		}
	}
	if err := scanner.Err(); err != nil {
		return err
	}

	opts := []marisalib.Option{marisalib.WithNumTries(f.NumTries)}
	if f.TailBinary {
		opts = append(opts, marisalib.WithTailMode(internaltrie.TailModeBinary))
	}
	t, err := marisalib.New(ks, opts...)
	if err != nil {
		return err
	}
	if err := t.Save(f.Output); err != nil {
		return err
	}
	logrus.Infof("built %s: %d keys, %d nodes", f.Output, t.NumKeys(), t.NumNodes())
	return nil
}

func lookupCmd() *cobra.Command {
	var dictPath string
	cmd := &cobra.Command{
		Use:   "lookup [queryfile...]",
		Short: "print the key id for each exact-match query, one per line",
		Run: func(cmd *cobra.Command, args []string) {
			if err := runLookup(dictPath, args); err != nil {
				logrus.Fatal(err)
			}
		},
	}
	cmd.Flags().StringVarP(&dictPath, "dictionary", "d", "", "Dictionary path (required).")
	return cmd
}

func runLookup(dictPath string, args []string) error {
	t, err := marisalib.Load(dictPath)
	if err != nil {
		return err
	}
	agent := t.NewAgent()
	return forEachQueryLine(args, func(line string) {
		agent.Set(marisalib.QueryBytes([]byte(line)))
		res, ok, err := agent.Lookup()
		if err != nil || !ok {
			fmt.Printf("%s\t-1\n", line)
			return
		}
		fmt.Printf("%s\t%d\n", line, res.KeyID)
	})
}

func reverseLookupCmd() *cobra.Command {
	var dictPath string
	cmd := &cobra.Command{
		Use:   "reverse-lookup [idfile...]",
		Short: "print the key for each id, one per line",
		Run: func(cmd *cobra.Command, args []string) {
			if err := runReverseLookup(dictPath, args); err != nil {
				logrus.Fatal(err)
			}
		},
	}
	cmd.Flags().StringVarP(&dictPath, "dictionary", "d", "", "Dictionary path (required).")
	return cmd
}

func runReverseLookup(dictPath string, args []string) error {
	t, err := marisalib.Load(dictPath)
	if err != nil {
		return err
	}
	agent := t.NewAgent()
	return forEachQueryLine(args, func(line string) {
		id, err := strconv.Atoi(strings.TrimSpace(line))
		if err != nil {
			fmt.Printf("%s\t\n", line)
			return
		}
		agent.Set(marisalib.QueryID(id))
		res, err := agent.ReverseLookup()
		if err != nil {
			fmt.Printf("%d\t\n", id)
			return
		}
		fmt.Printf("%d\t%s\n", id, res.Bytes)
	})
}

func commonPrefixSearchCmd() *cobra.Command {
	var dictPath string
	cmd := &cobra.Command{
		Use:   "common-prefix-search [queryfile...]",
		Short: "print every key that is a prefix of each query",
		Run: func(cmd *cobra.Command, args []string) {
			if err := runCommonPrefixSearch(dictPath, args); err != nil {
				logrus.Fatal(err)
			}
		},
	}
	cmd.Flags().StringVarP(&dictPath, "dictionary", "d", "", "Dictionary path (required).")
	return cmd
}

func runCommonPrefixSearch(dictPath string, args []string) error {
	t, err := marisalib.Load(dictPath)
	if err != nil {
		return err
	}
	agent := t.NewAgent()
	return forEachQueryLine(args, func(line string) {
		agent.Set(marisalib.QueryBytes([]byte(line)))
		if err := agent.CommonPrefixSearch(); err != nil {
			logrus.Warn(err)
			return
		}
		for {
			res, ok := agent.Next()
			if !ok {
				break
			}
			fmt.Printf("%s\t%d\t%d\n", res.Bytes, res.Length, res.KeyID)
		}
	})
}

func predictiveSearchCmd() *cobra.Command {
	var dictPath string
	cmd := &cobra.Command{
		Use:   "predictive-search [queryfile...]",
		Short: "print every key starting with each query",
		Run: func(cmd *cobra.Command, args []string) {
			if err := runPredictiveSearch(dictPath, args); err != nil {
				logrus.Fatal(err)
			}
		},
	}
	cmd.Flags().StringVarP(&dictPath, "dictionary", "d", "", "Dictionary path (required).")
	return cmd
}

func runPredictiveSearch(dictPath string, args []string) error {
	t, err := marisalib.Load(dictPath)
	if err != nil {
		return err
	}
	agent := t.NewAgent()
	return forEachQueryLine(args, func(line string) {
		agent.Set(marisalib.QueryBytes([]byte(line)))
		if err := agent.PredictiveSearch(); err != nil {
			logrus.Warn(err)
			return
		}
		for {
			res, ok := agent.Next()
			if !ok {
				break
			}
			fmt.Printf("%s\t%d\n", res.Bytes, res.KeyID)
		}
	})
}

func dumpCmd() *cobra.Command {
	var dictPath string
	cmd := &cobra.Command{
		Use:   "dump",
		Short: "print every key in the dictionary, in canonical id order",
		Run: func(cmd *cobra.Command, args []string) {
			if err := runDump(dictPath); err != nil {
				logrus.Fatal(err)
			}
		},
	}
	cmd.Flags().StringVarP(&dictPath, "dictionary", "d", "", "Dictionary path (required).")
	return cmd
}

func runDump(dictPath string) error {
	t, err := marisalib.Load(dictPath)
	if err != nil {
		return err
	}
	for id := 0; id < t.NumKeys(); id++ {
		key, err := t.ReverseLookup(id)
		if err != nil {
			return err
		}
		fmt.Printf("%d\t%s\n", id, key)
	}
	return nil
}

func openInputs(args []string) (io.Reader, func(), error) {
	if len(args) == 0 {
		return os.Stdin, func() {}, nil
	}
	readers := make([]io.Reader, 0, len(args))
	files := make([]*os.File, 0, len(args))
	for _, path := range args {
		f, err := os.Open(path)
		if err != nil {
			for _, opened := range files {
				opened.Close()
			}
			return nil, nil, err
		}
		files = append(files, f)
		readers = append(readers, f)
	}
	return io.MultiReader(readers...), func() {
		for _, f := range files {
			f.Close()
		}
	}, nil
}

func forEachQueryLine(args []string, fn func(line string)) error {
	r, closeFn, err := openInputs(args)
	if err != nil {
		return err
	}
	defer closeFn()
	scanner := bufio.NewScanner(r)
	for scanner.Scan() {
		line := scanner.Text()
		if line == "" {
			continue
		}
		fn(line)
	}
	return scanner.Err()
}
