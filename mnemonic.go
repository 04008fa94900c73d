// Copyright (c) 2025-2026 complex (complex@ft.hn)
// See LICENSE for licensing information

package seedscan

import (
	"crypto/sha512"
	"errors"
	"fmt"
	"strings"
	"sync"

	"github.com/tyler-smith/go-bip39"
	"github.com/tyler-smith/go-bip39/wordlists"
	"golang.org/x/crypto/pbkdf2"
	lang "golang.org/x/text/language"
	"golang.org/x/text/language/display"
	"golang.org/x/text/unicode/norm"
)

// seedIterations is the PBKDF2 round count fixed by BIP39.
const seedIterations = 2048

// WordCount is the number of words in a mnemonic.
type WordCount int

// Valid word counts. The zero value is treated as Words12 by GenerateMnemonic.
const (
	Words12 WordCount = 12
	Words15 WordCount = 15
	Words18 WordCount = 18
	Words21 WordCount = 21
	Words24 WordCount = 24
)

// entropySizeMap maps word counts to their entropy size in bits.
var entropySizeMap = map[WordCount]int{
	Words12: 128,
	Words15: 160,
	Words18: 192,
	Words21: 224,
	Words24: 256,
}

// EntropyBits returns the entropy size for the word count.
//
// Returns ErrInvalidMnemonic wrapping ErrInvalidWordCount for anything but
// 12, 15, 18, 21 or 24.
func (wc WordCount) EntropyBits() (int, error) {
	bits, ok := entropySizeMap[wc]
	if !ok {
		return 0, WrapError(ErrInvalidMnemonic, "word count", fmt.Errorf("%w: got %d", ErrInvalidWordCount, int(wc)))
	}
	return bits, nil
}

// Language identifies one of the BIP39 wordlists.
type Language int

// Supported wordlists. The zero value is English.
const (
	English Language = iota
	Japanese
	Korean
	Spanish
	ChineseSimplified
	ChineseTraditional
	French
	Italian
	Czech
)

// languages is the order in which wordlists are tried when a phrase is
// parsed. English goes first since most phrases in the wild are English.
var languages = []Language{
	English, Japanese, Korean, Spanish, ChineseSimplified,
	ChineseTraditional, French, Italian, Czech,
}

var languageWordlists = map[Language][]string{
	English:            wordlists.English,
	Japanese:           wordlists.Japanese,
	Korean:             wordlists.Korean,
	Spanish:            wordlists.Spanish,
	ChineseSimplified:  wordlists.ChineseSimplified,
	ChineseTraditional: wordlists.ChineseTraditional,
	French:             wordlists.French,
	Italian:            wordlists.Italian,
	Czech:              wordlists.Czech,
}

var languageNames = map[Language]string{
	English:            "english",
	Japanese:           "japanese",
	Korean:             "korean",
	Spanish:            "spanish",
	ChineseSimplified:  "chinese-simplified",
	ChineseTraditional: "chinese-traditional",
	French:             "french",
	Italian:            "italian",
	Czech:              "czech",
}

var languageTags = map[lang.Tag]Language{
	lang.Chinese:              ChineseSimplified,
	lang.SimplifiedChinese:    ChineseSimplified,
	lang.TraditionalChinese:   ChineseTraditional,
	lang.Czech:                Czech,
	lang.AmericanEnglish:      English,
	lang.BritishEnglish:       English,
	lang.English:              English,
	lang.French:               French,
	lang.Italian:              Italian,
	lang.Japanese:             Japanese,
	lang.Korean:               Korean,
	lang.Spanish:              Spanish,
	lang.EuropeanSpanish:      Spanish,
	lang.LatinAmericanSpanish: Spanish,
}

func (l Language) String() string {
	if name, ok := languageNames[l]; ok {
		return name
	}
	return fmt.Sprintf("language(%d)", int(l))
}

func (l Language) wordlist() ([]string, error) {
	list, ok := languageWordlists[l]
	if !ok {
		return nil, fmt.Errorf("unsupported language %d", int(l))
	}
	return list, nil
}

func sanitizeLang(s string) string {
	return strings.ReplaceAll(strings.ToLower(strings.TrimSpace(s)), " ", "-")
}

// LanguageFromString resolves a user supplied language name.
//
// Accepted forms are the names returned by Language.String, BCP 47 tags such
// as "ja" or "zh-Hant", and English display names such as "Simplified
// Chinese" (case insensitive, spaces or dashes).
func LanguageFromString(name string) (Language, error) {
	name = sanitizeLang(name)
	for l, n := range languageNames {
		if n == name {
			return l, nil
		}
	}

	tag := lang.Make(name)
	en := display.English.Languages() // default language name matcher
	for t := range languageTags {
		if sanitizeLang(en.Name(t)) == name {
			tag = t
			break
		}
	}
	if tag == lang.Und {
		return English, fmt.Errorf("unsupported language %q", name)
	}
	if l, ok := languageTags[tag]; ok {
		return l, nil
	}
	base, _ := tag.Base()
	if l, ok := languageTags[lang.Make(base.String())]; ok {
		return l, nil
	}
	return English, fmt.Errorf("unsupported language %q", name)
}

// bip39Mu guards go-bip39's package level wordlist. The library only reads
// the list during encoding and decoding, so every call that depends on it is
// made with the lock held and the previous list restored afterwards.
var bip39Mu sync.Mutex

func withWordList[T any](l Language, fn func() (T, error)) (T, error) {
	var zero T
	list, err := l.wordlist()
	if err != nil {
		return zero, err
	}

	bip39Mu.Lock()
	defer bip39Mu.Unlock()

	prev := bip39.GetWordList()
	if !sameList(prev, list) {
		bip39.SetWordList(list)
		defer bip39.SetWordList(prev)
	}
	return fn()
}

func sameList(a, b []string) bool {
	return len(a) == len(b) && len(a) > 0 && &a[0] == &b[0]
}

// wordIndexes maps every wordlist's NFKD normalized words to their index.
var wordIndexes = sync.OnceValue(func() map[Language]map[string]int {
	indexes := make(map[Language]map[string]int, len(languageWordlists))
	for l, list := range languageWordlists {
		index := make(map[string]int, len(list))
		for i, w := range list {
			index[norm.NFKD.String(w)] = i
		}
		indexes[l] = index
	}
	return indexes
})

// Mnemonic is a validated BIP39 phrase. It is immutable once built.
type Mnemonic struct {
	words    []string
	language Language
	entropy  []byte
}

// GenerateMnemonic creates a new random mnemonic.
//
// Entropy comes from crypto/rand through bip39.NewEntropy and is encoded with
// the wordlist of language. A zero word count means 12 words.
//
// Parameters:
//   - wc: The number of words (12, 15, 18, 21 or 24)
//   - language: The wordlist to encode with
//
// Returns:
//   - A mnemonic whose checksum is valid
//   - An error if the word count or language is unsupported
func GenerateMnemonic(wc WordCount, language Language) (*Mnemonic, error) {
	if wc == 0 {
		wc = Words12
	}
	bits, err := wc.EntropyBits()
	if err != nil {
		return nil, err
	}
	entropy, err := bip39.NewEntropy(bits)
	if err != nil {
		return nil, fmt.Errorf("could not create entropy: %w", err)
	}
	return MnemonicFromEntropy(entropy, language)
}

// MnemonicFromEntropy encodes raw entropy as a mnemonic. The entropy must be
// 16, 20, 24, 28 or 32 bytes long.
func MnemonicFromEntropy(entropy []byte, language Language) (*Mnemonic, error) {
	phrase, err := withWordList(language, func() (string, error) {
		return bip39.NewMnemonic(entropy)
	})
	if err != nil {
		if errors.Is(err, bip39.ErrEntropyLengthInvalid) {
			err = fmt.Errorf("%w: entropy is %d bytes", ErrInvalidWordCount, len(entropy))
		}
		return nil, WrapError(ErrInvalidMnemonic, "mnemonic from entropy", err)
	}

	e := make([]byte, len(entropy))
	copy(e, entropy)
	return &Mnemonic{
		words:    strings.Fields(phrase),
		language: language,
		entropy:  e,
	}, nil
}

// ParseMnemonic validates a phrase and detects its language.
//
// Words may be separated by any Unicode whitespace, including the ideographic
// space used by Japanese phrases. The phrase must have a valid word count,
// every word must come from one wordlist and the checksum must match. All
// failures match ErrInvalidMnemonic together with ErrInvalidWordCount,
// ErrUnknownWord or ErrInvalidChecksum.
//
// When the words fit more than one list, the first list in detection order
// whose checksum matches is reported. The two Chinese lists share most of
// their characters, so a Traditional Chinese phrase can come back as
// ChineseSimplified with different entropy. The words, and so the seed, are
// unchanged.
func ParseMnemonic(phrase string) (*Mnemonic, error) {
	const op = "parse mnemonic"

	words := strings.Fields(phrase)
	if _, err := WordCount(len(words)).EntropyBits(); err != nil {
		return nil, err
	}

	normalized := make([]string, len(words))
	for i, w := range words {
		normalized[i] = norm.NFKD.String(w)
	}

	var (
		candidates []Language
		best       = -1
		unknown    string
	)
	indexes := wordIndexes()
	for _, l := range languages {
		index := indexes[l]
		found, missing := 0, ""
		for _, w := range normalized {
			if _, ok := index[w]; ok {
				found++
			} else if missing == "" {
				missing = w
			}
		}
		if found == len(normalized) {
			candidates = append(candidates, l)
			continue
		}
		if found > best {
			best, unknown = found, missing
		}
	}
	if len(candidates) == 0 {
		return nil, WrapError(ErrInvalidMnemonic, op, fmt.Errorf("%w: %q", ErrUnknownWord, unknown))
	}

	// Some lists overlap (the two Chinese lists share most characters), so the
	// checksum decides between candidates.
	for _, l := range candidates {
		list, _ := l.wordlist()
		index := indexes[l]
		canonical := make([]string, len(normalized))
		for i, w := range normalized {
			canonical[i] = list[index[w]]
		}

		entropy, err := withWordList(l, func() ([]byte, error) {
			return bip39.EntropyFromMnemonic(strings.Join(canonical, " "))
		})
		if err != nil {
			continue
		}
		return &Mnemonic{words: canonical, language: l, entropy: entropy}, nil
	}
	return nil, WrapError(ErrInvalidMnemonic, op, ErrInvalidChecksum)
}

// Seed stretches the mnemonic and passphrase into the 64 byte BIP39 seed.
//
// Both inputs are NFKD normalized, the salt is "mnemonic" followed by the
// passphrase and PBKDF2-HMAC-SHA512 runs for 2048 rounds. An empty passphrase
// is valid and distinct from any other passphrase.
func (m *Mnemonic) Seed(passphrase string) []byte {
	password := norm.NFKD.String(m.String())
	salt := norm.NFKD.String("mnemonic" + passphrase)
	return pbkdf2.Key([]byte(password), []byte(salt), seedIterations, 64, sha512.New)
}

// Entropy returns a copy of the entropy the mnemonic encodes.
func (m *Mnemonic) Entropy() []byte {
	e := make([]byte, len(m.entropy))
	copy(e, m.entropy)
	return e
}

// Words returns a copy of the mnemonic words.
func (m *Mnemonic) Words() []string {
	w := make([]string, len(m.words))
	copy(w, m.words)
	return w
}

// WordCount returns the number of words.
func (m *Mnemonic) WordCount() WordCount {
	return WordCount(len(m.words))
}

// Language returns the wordlist the mnemonic was encoded with. For parsed
// phrases it is the detected list, which may be ChineseSimplified for a
// phrase written with Traditional characters; see ParseMnemonic.
func (m *Mnemonic) Language() Language {
	return m.language
}

// String joins the words with single spaces.
func (m *Mnemonic) String() string {
	return strings.Join(m.words, " ")
}
