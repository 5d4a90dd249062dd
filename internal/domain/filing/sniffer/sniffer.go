// Package sniffer detects which marketplace a sales report came from by
// scoring its header row against known platform signatures. Detection is a
// heuristic: the parser treats the result as a column-mapping hint, and a
// wrong guess only leaves unmapped fields empty.
package sniffer

import (
	"strings"

	"github.com/cloudflare/ahocorasick"

	"github.com/FACorreiaa/gst-filing/internal/domain/filing/invoice"
)

// platformSignatures lists the keyword signatures per platform, in declared
// order. Order matters: ties keep the earlier platform.
var platformSignatures = []struct {
	platform invoice.Platform
	keywords []string
}{
	{invoice.PlatformAmazon, []string{"asin", "amazon", "sku", "order-id", "fulfillment"}},
	{invoice.PlatformFlipkart, []string{"flipkart", "fsn", "product title", "order id"}},
	{invoice.PlatformCustom, []string{"invoice no", "invoice date", "gstin", "taxable value"}},
}

// matcher finds all signature keywords in a single pass (the same
// multi-pattern approach the categorization engine uses for merchants).
var (
	matcher         *ahocorasick.Matcher
	patternPlatform []int    // pattern index -> platformSignatures index
	patternKeyword  []string // pattern index -> keyword
)

func init() {
	var patterns [][]byte
	for pi, sig := range platformSignatures {
		for _, kw := range sig.keywords {
			patterns = append(patterns, []byte(kw))
			patternPlatform = append(patternPlatform, pi)
			patternKeyword = append(patternKeyword, kw)
		}
	}
	matcher = ahocorasick.NewMatcher(patterns)
}

// Detection holds the chosen platform plus the evidence behind the choice,
// exposed so callers can show or test why a mapping was selected.
type Detection struct {
	Platform invoice.Platform
	Scores   map[invoice.Platform]int
	Matched  []string
}

// DetectPlatform scores the header strings against every platform signature
// and picks the strictly highest scorer. A zero score falls back to the
// generic tax format when the headers mention GST or tax at all, and to
// PlatformOther otherwise.
func DetectPlatform(headers []string) Detection {
	lowered := make([]string, len(headers))
	for i, h := range headers {
		lowered[i] = strings.ToLower(h)
	}
	headerStr := strings.Join(lowered, "|")

	det := Detection{
		Platform: invoice.PlatformOther,
		Scores:   make(map[invoice.Platform]int, len(platformSignatures)),
	}

	hits := matcher.Match([]byte(headerStr))
	for _, idx := range hits {
		det.Scores[platformSignatures[patternPlatform[idx]].platform]++
		det.Matched = append(det.Matched, patternKeyword[idx])
	}

	best := 0
	for _, sig := range platformSignatures {
		if s := det.Scores[sig.platform]; s > best {
			best = s
			det.Platform = sig.platform
		}
	}

	if det.Platform == invoice.PlatformOther &&
		(strings.Contains(headerStr, "gst") || strings.Contains(headerStr, "tax")) {
		det.Platform = invoice.PlatformCustom
	}

	return det
}

// headerScanLimit caps how deep FindHeaderRow looks for a plausible header.
const headerScanLimit = 20

// minHeaderCells is the non-sparse threshold: a row with at least this many
// non-empty cells is taken as the header.
const minHeaderCells = 5

// FindHeaderRow returns the index of the first non-sparse row within the
// scan window, or 0 when every scanned row is sparse.
func FindHeaderRow(rows [][]string) int {
	limit := len(rows)
	if limit > headerScanLimit {
		limit = headerScanLimit
	}
	for i := 0; i < limit; i++ {
		nonEmpty := 0
		for _, c := range rows[i] {
			if strings.TrimSpace(c) != "" {
				nonEmpty++
			}
		}
		if nonEmpty >= minHeaderCells {
			return i
		}
	}
	return 0
}
