// Package wordlist loads the word and quote corpora.
package wordlist

import (
	"bufio"
	_ "embed"
	"fmt"
	"io"
	"os"
	"strings"
)

//go:embed data/words.txt
var defaultWords string

//go:embed data/quotes.txt
var defaultQuotes string

// Corpus is the source material for generated text.
type Corpus struct {
	Words  []string
	Quotes []string
}

// Default returns the embedded English corpus.
func Default() Corpus {
	words, _ := readLines(strings.NewReader(defaultWords))
	quotes, _ := readLines(strings.NewReader(defaultQuotes))
	return Corpus{
		Words:  Filter(words, FilterForLang("en")),
		Quotes: quotes,
	}
}

// LoadWords reads one word per line from the provided file path.
func LoadWords(path string) ([]string, error) {
	lines, err := loadLines(path)
	if err != nil {
		return nil, err
	}
	words := make([]string, 0, len(lines))
	for _, line := range lines {
		// Words may not contain the separator the engine splits on.
		if strings.ContainsAny(line, " \t") {
			continue
		}
		words = append(words, line)
	}
	if len(words) == 0 {
		return nil, fmt.Errorf("word list is empty")
	}
	return words, nil
}

// LoadQuotes reads one quote per line from the provided file path. Runs of
// whitespace inside a quote are collapsed to a single space.
func LoadQuotes(path string) ([]string, error) {
	lines, err := loadLines(path)
	if err != nil {
		return nil, err
	}
	quotes := make([]string, 0, len(lines))
	for _, line := range lines {
		quotes = append(quotes, strings.Join(strings.Fields(line), " "))
	}
	return quotes, nil
}

func loadLines(path string) ([]string, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer func() {
		if cerr := file.Close(); cerr != nil {
			// Best-effort close for read-only corpus file.
			_ = cerr
		}
	}()
	lines, err := readLines(file)
	if err != nil {
		return nil, err
	}
	if len(lines) == 0 {
		return nil, fmt.Errorf("%s is empty", path)
	}
	return lines, nil
}

func readLines(r io.Reader) ([]string, error) {
	var lines []string
	scanner := bufio.NewScanner(r)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}
		lines = append(lines, line)
	}
	if err := scanner.Err(); err != nil {
		return nil, err
	}
	return lines, nil
}
