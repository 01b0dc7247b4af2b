package lineage

import (
	"bufio"
	"bytes"
	"encoding/json"
	"strings"

	"github.com/framemark/framemark/internal/models"
)

// maxLineSize bounds a single lineage line; task lists can get long.
const maxLineSize = 1 << 20

// ParseDocument parses a line-delimited JSON lineage document into a table
// keyed by episode index. Malformed lines are skipped individually so one
// bad entry never blocks resolution of the others; the skip count is
// returned for logging.
func ParseDocument(doc []byte) (map[int]models.LineageRecord, int) {
	table := make(map[int]models.LineageRecord)
	skipped := 0

	scanner := bufio.NewScanner(bytes.NewReader(doc))
	scanner.Buffer(make([]byte, 0, 64*1024), maxLineSize)

	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}

		var rec models.LineageRecord
		if err := json.Unmarshal([]byte(line), &rec); err != nil {
			skipped++
			continue
		}
		table[rec.EpisodeIndex] = rec
	}
	if err := scanner.Err(); err != nil {
		// An oversized or unreadable tail loses the remaining lines but
		// keeps everything parsed so far.
		skipped++
	}

	return table, skipped
}
