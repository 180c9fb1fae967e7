package learned

import (
	"regexp"
	"strings"
)

// wordPattern extracts alphabetic tokens of two or more letters. Numbers
// and punctuation in statement descriptions (card suffixes, reference
// codes) carry no category signal and only bloat the vocabulary.
var wordPattern = regexp.MustCompile(`[a-zA-Z]{2,}`)

// Tokenize lowercases the text and produces unigram and bigram terms.
// Bigrams let the classifier separate phrases like "credit card" from the
// individual words. The same tokenizer runs at train and predict time;
// feature construction must never diverge between the two.
func Tokenize(text string) []string {
	words := wordPattern.FindAllString(strings.ToLower(text), -1)
	if len(words) == 0 {
		return nil
	}

	tokens := make([]string, 0, 2*len(words)-1)
	tokens = append(tokens, words...)
	for i := 0; i+1 < len(words); i++ {
		tokens = append(tokens, words[i]+" "+words[i+1])
	}
	return tokens
}
