// Command kiwicli runs the analyzer over stdin or a -text argument and
// prints one line per token.
package main

import (
	"bufio"
	"flag"
	"fmt"
	"io"
	"log"
	"os"

	"github.com/kiwi-go/kiwi"
)

func main() {
	modelDir := flag.String("model", "model", "path to the Kiwi model directory")
	arch := flag.String("arch", "auto", "trie dispatch variant: auto, scalar, or simd")
	threads := flag.Int("threads", 1, "worker pool size passed to kiwi.New (each line is analyzed synchronously)")
	topN := flag.Int("topn", 1, "number of candidate analyses to print per line")
	text := flag.String("text", "", "analyze this text instead of reading stdin")
	splitSaisiot := flag.Bool("splitsaisiot", false, "split the sai-siot consonant into its own morpheme")
	mergeSaisiot := flag.Bool("mergesaisiot", false, "merge the sai-siot consonant into the preceding noun")
	flag.Parse()

	match := kiwi.MatchAllWithNormalizing
	if *splitSaisiot {
		match |= kiwi.MatchSplitSaisiot
	}
	if *mergeSaisiot {
		match |= kiwi.MatchMergeSaisiot
	}
	match, err := kiwi.ParseMatch(match)
	if err != nil {
		log.Fatalf("parse match options: %v", err)
	}

	k, err := kiwi.New(*modelDir, *arch, *threads, kiwi.DefaultBuildOptions)
	if err != nil {
		log.Fatalf("load model: %v", err)
	}
	defer k.Close()

	if *text != "" {
		printResults(os.Stdout, *text, k.Analyze(*text, *topN, match))
		return
	}

	scanner := bufio.NewScanner(os.Stdin)
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)
	for scanner.Scan() {
		line := scanner.Text()
		if line == "" {
			continue
		}
		printResults(os.Stdout, line, k.Analyze(line, *topN, match))
	}
	if err := scanner.Err(); err != nil && err != io.EOF {
		log.Fatalf("read stdin: %v", err)
	}
}

func printResults(w io.Writer, line string, results []kiwi.AnalyzeResult) {
	fmt.Fprintf(w, "%s\n", line)
	for i, r := range results {
		fmt.Fprintf(w, "  [%d] score=%.4f\n", i, r.Score)
		for _, t := range r.Tokens {
			fmt.Fprintf(w, "      %s\t%s\t(%d, %d)\n", t.Form, t.Tag, t.Position, t.Length)
		}
	}
}
