package endgame

import (
	"fmt"
	"io"
	"sort"
	"strings"

	"golang.org/x/exp/maps"

	"github.com/ianfab/chess-variant-stats/internal/epd"
)

// Report filters and orders the tabulated endgames for printing.
type ReportConfig struct {
	MinEntropy   float64
	MinFrequency float64
	MinRelevance float64
	OrderBy      string // material, frequency, entropy, relevance or all
}

var OrderChoices = []string{"material", "frequency", "entropy", "relevance"}

// pieceOrder keys a piece for display ordering: white pieces first, then by
// strength.
func (tab *Tabulation) pieceOrder(piece string) float64 {
	var key = tab.LossRate(strings.ToLower(piece))
	if isUpper(piece) {
		key -= 1
	}
	return key
}

func isUpper(piece string) bool {
	var letter = piece[len(piece)-1]
	return 'A' <= letter && letter <= 'Z'
}

// SignatureLabel renders a signature with its pieces sorted by strength.
func (tab *Tabulation) SignatureLabel(sig []string) string {
	var ordered = make([]string, len(sig))
	copy(ordered, sig)
	sort.SliceStable(ordered, func(i, j int) bool {
		return tab.pieceOrder(ordered[i]) < tab.pieceOrder(ordered[j])
	})
	return strings.Join(ordered, "")
}

// StrengthOrder lists the observed piece letters strongest first.
func (tab *Tabulation) StrengthOrder() []string {
	var letters = maps.Keys(tab.PieceScore)
	sort.SliceStable(letters, func(i, j int) bool {
		var a, b = tab.LossRate(letters[i]), tab.LossRate(letters[j])
		if a != b {
			return a < b
		}
		return letters[i] < letters[j]
	})
	return letters
}

// Sufficient lists signatures where one side won at least 90% of all games.
func (tab *Tabulation) Sufficient() []*Entry {
	var result []*Entry
	for _, entry := range tab.sortedEntries() {
		var r = entry.Results
		if r.Total() > 0 && max(r[Win], r[Loss]) >= (9*r.Total()+9)/10 {
			result = append(result, entry)
		}
	}
	return result
}

// Insufficient lists signatures that never produced a decisive game and
// where only one side holds non royal material.
func (tab *Tabulation) Insufficient() []*Entry {
	var result []*Entry
	for _, entry := range tab.sortedEntries() {
		if entry.Results.Decisive() != 0 {
			continue
		}
		var whiteExtra, blackExtra = false, false
		var royal = make(map[string]int, len(tab.Royal))
		maps.Copy(royal, tab.Royal)
		for _, p := range entry.Signature {
			if royal[p] > 0 {
				royal[p]--
				continue
			}
			if isUpper(p) {
				whiteExtra = true
			} else {
				blackExtra = true
			}
		}
		if !whiteExtra || !blackExtra {
			result = append(result, entry)
		}
	}
	return result
}

// MinimalSufficient lists sufficient signatures with no sufficient proper
// sub-signature, color swapped included.
func (tab *Tabulation) MinimalSufficient() []*Entry {
	var sufficient = tab.Sufficient()
	var result []*Entry
	for _, entry := range sufficient {
		var counts = multiset(entry.Signature)
		var minimal = true
		for _, other := range sufficient {
			if other == entry {
				continue
			}
			if isSubset(multiset(other.Signature), counts) ||
				isSubset(multiset(swapAll(other.Signature)), counts) {
				minimal = false
				break
			}
		}
		if minimal {
			result = append(result, entry)
		}
	}
	return result
}

func swapAll(sig []string) []string {
	var result = make([]string, len(sig))
	for i, p := range sig {
		if isUpper(p) {
			result[i] = strings.ToLower(p)
		} else {
			result[i] = strings.ToUpper(p)
		}
	}
	return result
}

func isSubset(sub, super map[string]int) bool {
	for piece, n := range sub {
		if super[piece] < n {
			return false
		}
	}
	return true
}

func (tab *Tabulation) sortedEntries() []*Entry {
	var keys = maps.Keys(tab.Endgames)
	sort.Strings(keys)
	var result = make([]*Entry, 0, len(keys))
	for _, key := range keys {
		result = append(result, tab.Endgames[key])
	}
	return result
}

func (tab *Tabulation) Frequency(entry *Entry) float64 {
	if tab.Records == 0 {
		return 0
	}
	return float64(entry.Count) / float64(tab.Records)
}

func (tab *Tabulation) Relevance(entry *Entry) float64 {
	return entry.Results.Entropy() * tab.Frequency(entry)
}

func (tab *Tabulation) orderedEntries(orderBy string) []*Entry {
	var entries = tab.sortedEntries()
	switch orderBy {
	case "material":
		sort.SliceStable(entries, func(i, j int) bool {
			var a, b = entries[i].Signature, entries[j].Signature
			if len(a) != len(b) {
				return len(a) < len(b)
			}
			return epd.SignatureString(a) > epd.SignatureString(b)
		})
	case "frequency":
		sort.SliceStable(entries, func(i, j int) bool {
			return entries[i].Count > entries[j].Count
		})
	case "entropy":
		sort.SliceStable(entries, func(i, j int) bool {
			return entries[i].Results.Entropy() > entries[j].Results.Entropy()
		})
	case "relevance":
		sort.SliceStable(entries, func(i, j int) bool {
			return tab.Relevance(entries[i]) > tab.Relevance(entries[j])
		})
	}
	return entries
}

func (tab *Tabulation) Print(w io.Writer, cfg ReportConfig) {
	fmt.Fprintln(w, "Pieces sorted by strength")
	fmt.Fprintln(w, strings.ToUpper(strings.Join(tab.StrengthOrder(), " > ")))

	var labels = func(entries []*Entry) string {
		var parts = make([]string, 0, len(entries))
		for _, entry := range entries {
			parts = append(parts, tab.SignatureLabel(entry.Signature))
		}
		return strings.Join(parts, ", ")
	}
	fmt.Fprintf(w, "\nSufficient material: %v\n", labels(tab.MinimalSufficient()))
	fmt.Fprintf(w, "Insufficient material: %v\n", labels(tab.Insufficient()))

	for _, name := range OrderChoices {
		if cfg.OrderBy != "all" && cfg.OrderBy != name {
			continue
		}
		fmt.Fprintf(w, "\nEndgames sorted by %v\n", name)
		fmt.Fprintln(w, "Pieces\tFreq.\tWin\tLoss\tDraw")
		for _, entry := range tab.orderedEntries(name) {
			var freq = tab.Frequency(entry)
			var entropy = entry.Results.Entropy()
			if freq < cfg.MinFrequency ||
				entropy < cfg.MinEntropy ||
				entropy*freq < cfg.MinRelevance {
				continue
			}
			var total = entry.Results.Total()
			if total == 0 {
				total = 1
			}
			fmt.Fprintf(w, "%v\t%.2f%%\t%.2f%%\t%.2f%%\t%.2f%%\n",
				tab.SignatureLabel(entry.Signature),
				100*freq,
				100*float64(entry.Results[Win])/float64(total),
				100*float64(entry.Results[Loss])/float64(total),
				100*float64(entry.Results[Draw])/float64(total))
		}
	}
}
