package tb

import (
	"fmt"
	"io"
	"os"

	"github.com/google/uuid"
	"github.com/jedib0t/go-pretty/v6/table"
)

// Report collects the results of one run.
type Report struct {
	RunID   uuid.UUID
	Results []Result
}

// NewReport tags results with a fresh run id.
func NewReport(results []Result) *Report {
	return &Report{
		RunID:   uuid.New(),
		Results: results,
	}
}

// Passed reports whether every scenario passed.
func (r *Report) Passed() bool {
	return len(r.Failed()) == 0
}

// Failed returns the results of the failing scenarios.
func (r *Report) Failed() []Result {
	var failed []Result

	for _, res := range r.Results {
		if !res.Passed() {
			failed = append(failed, res)
		}
	}

	return failed
}

// Table renders one row per scenario.
func (r *Report) Table() string {
	t := table.NewWriter()
	t.SetTitle(fmt.Sprintf("Run %s", r.RunID))
	t.AppendHeader(table.Row{
		"Scenario", "Result", "Phase", "Sim Time (ns)", "Events", "Peak Occupancy",
	})

	for _, res := range r.Results {
		status := "PASS"
		if !res.Passed() {
			status = "FAIL"
		}

		t.AppendRow(table.Row{
			res.Scenario,
			status,
			res.Phase,
			fmt.Sprintf("%.1f", float64(res.SimTime*1e9)),
			res.Events,
			res.PeakOccupancy,
		})
	}

	t.AppendFooter(table.Row{
		"Total", fmt.Sprintf("%d/%d passed", len(r.Results)-len(r.Failed()), len(r.Results)),
	})

	return t.Render()
}

// WriteReport writes the table followed by the details of every failure.
func (r *Report) WriteReport(w io.Writer) {
	fmt.Fprintln(w, r.Table())

	for _, res := range r.Failed() {
		fmt.Fprintf(w, "\n%s failed in %s: %v\n", res.Scenario, res.Phase, res.Err)

		if res.DeviceState != "" {
			fmt.Fprintln(w, res.DeviceState)
		}
	}
}

// SaveReportToFile saves the report to a file.
func (r *Report) SaveReportToFile(filename string) error {
	file, err := os.Create(filename)
	if err != nil {
		return fmt.Errorf("failed to create report file: %w", err)
	}
	defer file.Close()

	r.WriteReport(file)

	return nil
}
