package pipeline

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"io"
	"strconv"
	"time"

	"github.com/osintlab/tgscout/internal/model"
)

// Renderer serializes hunt results. All formats derive purely from the
// result; no additional logic.
type Renderer struct{}

// NewRenderer creates a renderer.
func NewRenderer() *Renderer {
	return &Renderer{}
}

// WriteJSON writes the full result as indented JSON.
func (r *Renderer) WriteJSON(w io.Writer, result *model.HuntResult) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(result); err != nil {
		return fmt.Errorf("encode JSON: %w", err)
	}
	return nil
}

// WriteCSV writes the candidate list as a flat table, one row per
// candidate with its best provenance entry.
func (r *Renderer) WriteCSV(w io.Writer, result *model.HuntResult) error {
	cw := csv.NewWriter(w)
	header := []string{"identifier", "url", "kind", "confidence", "verified", "sources", "popularity", "first_seen", "top_source"}
	if err := cw.Write(header); err != nil {
		return fmt.Errorf("write CSV header: %w", err)
	}

	for i := range result.Results {
		c := &result.Results[i]
		firstSeen := ""
		if c.FirstSeen != nil {
			firstSeen = c.FirstSeen.Format(time.RFC3339)
		}
		topSource := ""
		if len(c.Provenance) > 0 {
			topSource = string(c.Provenance[0].Source)
		}
		row := []string{
			c.Identifier,
			c.URL,
			string(c.Kind),
			strconv.Itoa(c.Confidence),
			strconv.FormatBool(c.Verified),
			strconv.Itoa(c.Corroboration()),
			strconv.Itoa(c.Popularity()),
			firstSeen,
			topSource,
		}
		if err := cw.Write(row); err != nil {
			return fmt.Errorf("write CSV row: %w", err)
		}
	}

	cw.Flush()
	return cw.Error()
}

// WriteText writes a human-readable summary.
func (r *Renderer) WriteText(w io.Writer, result *model.HuntResult) error {
	fmt.Fprintf(w, "Target: %s\n", result.Metadata.Identifier)
	fmt.Fprintf(w, "Found:  %d candidates, %d after filtering\n\n", result.Metadata.TotalFound, len(result.Results))

	for i := range result.Results {
		c := &result.Results[i]
		mark := " "
		if c.Verified {
			mark = "*"
		}
		fmt.Fprintf(w, "%3d. [%3d]%s %-34s %-8s %s\n", i+1, c.Confidence, mark, c.Identifier, c.Kind, c.URL)
		for _, ref := range c.Provenance {
			where := string(ref.Source)
			if ref.SubCollection != "" {
				where += "/" + ref.SubCollection
			}
			fmt.Fprintf(w, "       via %s (score %d) %q\n", where, ref.Popularity, truncate(ref.Title, 60))
		}
	}

	if result.Statistics != nil {
		s := result.Statistics
		fmt.Fprintf(w, "\nConfidence: %d high / %d medium / %d low (avg %.1f)\n",
			s.ConfidenceDistribution["high"], s.ConfidenceDistribution["medium"],
			s.ConfidenceDistribution["low"], s.AverageConfidence)
	}
	if len(result.Errors) > 0 {
		fmt.Fprintf(w, "\n%d recoverable errors:\n", len(result.Errors))
		for _, e := range result.Errors {
			fmt.Fprintf(w, "  - %s: %s\n", e.Provider, e.Message)
		}
	}
	return nil
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n-3] + "..."
}
