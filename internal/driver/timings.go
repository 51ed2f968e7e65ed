package driver

import (
	"encoding/json"
	"fmt"
	"strings"

	"quoted/internal/diag"
	"quoted/internal/observ"
)

// timingNote is the JSON carried by the OBS6001 note. observ.Report is
// embedded so total_ms and phases sit at the top level.
type timingNote struct {
	Kind     string `json:"kind"`
	Path     string `json:"path,omitempty"`
	RunID    string `json:"run_id,omitempty"`
	Segments int    `json:"segments,omitempty"`
	observ.Report
}

func (n timingNote) diagnostic() (diag.Diagnostic, error) {
	data, err := json.Marshal(n)
	if err != nil {
		return diag.Diagnostic{}, err
	}
	var msg strings.Builder
	fmt.Fprintf(&msg, "timings (%s): total %.2f ms", n.Kind, n.TotalMS)
	if n.Path != "" {
		msg.WriteString(", " + n.Path)
	}
	return diag.Diagnostic{
		Severity: diag.SevInfo,
		Code:     diag.ObsTimings,
		Message:  msg.String(),
		Notes:    []diag.Note{{Msg: string(data)}},
	}, nil
}

// addTimings puts the note into bag. A full bag is grown by one: timings
// are asked for explicitly and must not fall off the limit.
func addTimings(bag *diag.Bag, n timingNote) {
	if bag == nil {
		return
	}
	d, err := n.diagnostic()
	if err != nil || bag.Add(d) {
		return
	}
	extra := diag.NewBag(1)
	extra.Add(d)
	bag.Merge(extra)
}
