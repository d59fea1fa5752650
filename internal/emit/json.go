// Package emit writes the inverted index, word counts, and query results to
// pretty-printed JSON files in the exact shape documented for this engine's
// output formats.
package emit

import (
	"bytes"
	"encoding/json"
	"os"
	"sort"
	"strconv"

	"search-engine/internal/index"
)

// emptyObject is the literal byte-for-byte rendering of an empty JSON object
// at two-space indentation. encoding/json.Indent leaves a compact "{}"
// unchanged rather than splitting it across lines, so the empty case is
// special-cased here rather than routed through Indent.
const emptyObject = "{\n}"

// WriteCounts writes { "<location>": <int>, ... }, locations sorted ascending.
func WriteCounts(path string, counts map[string]int) error {
	locations := make([]string, 0, len(counts))
	for loc := range counts {
		locations = append(locations, loc)
	}

	sort.Strings(locations)

	if len(locations) == 0 {
		return os.WriteFile(path, []byte(emptyObject), 0o644)
	}

	var buf bytes.Buffer

	buf.WriteString("{\n")

	for i, loc := range locations {
		writeKey(&buf, loc, 1)
		buf.WriteString(strconv.Itoa(counts[loc]))

		if i < len(locations)-1 {
			buf.WriteByte(',')
		}

		buf.WriteByte('\n')
	}

	buf.WriteString("}")

	return os.WriteFile(path, buf.Bytes(), 0o644)
}

// WriteIndex writes { "<token>": { "<location>": [<position>, ...], ... }, ... },
// outer keys token-sorted, inner keys location-sorted, positions ascending.
func WriteIndex(path string, idx index.Index) error {
	tokens := idx.Words()
	if len(tokens) == 0 {
		return os.WriteFile(path, []byte(emptyObject), 0o644)
	}

	var buf bytes.Buffer

	buf.WriteString("{\n")

	for i, tok := range tokens {
		writeKey(&buf, tok, 1)
		writeLocationsObject(&buf, idx, tok)

		if i < len(tokens)-1 {
			buf.WriteByte(',')
		}

		buf.WriteByte('\n')
	}

	buf.WriteString("}")

	return os.WriteFile(path, buf.Bytes(), 0o644)
}

func writeLocationsObject(buf *bytes.Buffer, idx index.Index, token string) {
	locations := idx.Locations(token)
	if len(locations) == 0 {
		buf.WriteString(emptyObject)
		return
	}

	buf.WriteString("{\n")

	for i, loc := range locations {
		writeKey(buf, loc, 2)
		writePositionsArray(buf, idx.Positions(token, loc))

		if i < len(locations)-1 {
			buf.WriteByte(',')
		}

		buf.WriteByte('\n')
	}

	indent(buf, 1)
	buf.WriteString("}")
}

func writePositionsArray(buf *bytes.Buffer, positions []int) {
	buf.WriteByte('[')

	for i, p := range positions {
		if i > 0 {
			buf.WriteString(", ")
		}

		buf.WriteString(strconv.Itoa(p))
	}

	buf.WriteByte(']')
}

// WriteResults writes { "<canonical query>": [ {"count":, "score":, "where":}, ... ], ... },
// queries sorted ascending, results in the index's total order, score
// rendered with exactly 8 fractional digits.
func WriteResults(path string, results map[string][]index.SearchResult) error {
	queries := make([]string, 0, len(results))
	for q := range results {
		queries = append(queries, q)
	}

	sort.Strings(queries)

	if len(queries) == 0 {
		return os.WriteFile(path, []byte(emptyObject), 0o644)
	}

	var buf bytes.Buffer

	buf.WriteString("{\n")

	for i, q := range queries {
		writeKey(&buf, q, 1)
		writeResultsArray(&buf, results[q])

		if i < len(queries)-1 {
			buf.WriteByte(',')
		}

		buf.WriteByte('\n')
	}

	buf.WriteString("}")

	return os.WriteFile(path, buf.Bytes(), 0o644)
}

func writeResultsArray(buf *bytes.Buffer, hits []index.SearchResult) {
	if len(hits) == 0 {
		buf.WriteString("[]")
		return
	}

	buf.WriteString("[\n")

	for i, h := range hits {
		indent(buf, 2)
		buf.WriteString("{\"count\": ")
		buf.WriteString(strconv.Itoa(h.Count))
		buf.WriteString(", \"score\": ")
		buf.WriteString(strconv.FormatFloat(h.Score, 'f', 8, 64))
		buf.WriteString(", \"where\": ")
		buf.Write(mustMarshal(h.Where))
		buf.WriteString("}")

		if i < len(hits)-1 {
			buf.WriteByte(',')
		}

		buf.WriteByte('\n')
	}

	indent(buf, 1)
	buf.WriteString("]")
}

func writeKey(buf *bytes.Buffer, key string, depth int) {
	indent(buf, depth)
	buf.Write(mustMarshal(key))
	buf.WriteString(": ")
}

func indent(buf *bytes.Buffer, depth int) {
	for i := 0; i < depth; i++ {
		buf.WriteString("  ")
	}
}

// mustMarshal produces the correctly escaped JSON string literal for s. It
// cannot fail for a Go string input.
func mustMarshal(s string) []byte {
	b, err := json.Marshal(s)
	if err != nil {
		panic(err)
	}

	return b
}
