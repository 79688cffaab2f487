// Package report renders solved allocations for people and programs.
package report

import (
	"encoding/json"
	"fmt"
	"io"
	"text/tabwriter"

	"github.com/katalvlaran/zonealloc/alloc"
	"github.com/katalvlaran/zonealloc/instance"
)

// ZoneLine is the per-zone view of a solution.
type ZoneLine struct {
	Zone     string  `json:"zone"`
	Capacity int     `json:"capacity"`
	Assigned int     `json:"assigned"`
	Cost     float64 `json:"cost"`
	Met      bool    `json:"met"`
}

// Row is one resource's assignment with names resolved.
type Row struct {
	Resource string  `json:"resource"`
	Zone     string  `json:"zone"`
	Cost     float64 `json:"cost"`
}

// Document is the JSON report.
type Document struct {
	Instance   string       `json:"instance,omitempty"`
	Status     alloc.Status `json:"status"`
	TotalCost  float64      `json:"total_cost"`
	Assignment []Row        `json:"assignment"`
	Zones      []ZoneLine   `json:"zones"`
	Stats      alloc.Stats  `json:"stats"`
}

// ZoneSummary counts resources and cost per zone and flags zones below
// their capacity. Pairs outside the instance are ignored.
func ZoneSummary(in *instance.Instance, sol alloc.Solution) []ZoneLine {
	lines := make([]ZoneLine, len(in.Capacity))
	for j := range lines {
		lines[j] = ZoneLine{Zone: in.ZoneName(j), Capacity: in.Capacity[j]}
	}
	for _, p := range sol.Assignment {
		if p.Zone < 0 || p.Zone >= len(lines) || p.Resource < 0 || p.Resource >= len(in.Cost) {
			continue
		}
		lines[p.Zone].Assigned++
		lines[p.Zone].Cost += in.Cost[p.Resource][p.Zone]
	}
	for j := range lines {
		lines[j].Met = lines[j].Assigned >= lines[j].Capacity
	}

	return lines
}

// Rows resolves names for every pair of sol.
func Rows(in *instance.Instance, sol alloc.Solution) []Row {
	rows := make([]Row, 0, len(sol.Assignment))
	for _, p := range sol.Assignment {
		r := Row{Resource: in.ResourceName(p.Resource), Zone: in.ZoneName(p.Zone)}
		if p.Resource >= 0 && p.Resource < len(in.Cost) && p.Zone >= 0 && p.Zone < len(in.Cost[p.Resource]) {
			r.Cost = in.Cost[p.Resource][p.Zone]
		}
		rows = append(rows, r)
	}

	return rows
}

// Table writes the assignment followed by the zone summary as aligned text.
func Table(w io.Writer, in *instance.Instance, sol alloc.Solution) error {
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)

	fmt.Fprintln(tw, "RESOURCE\tZONE\tCOST")
	for _, r := range Rows(in, sol) {
		fmt.Fprintf(tw, "%s\t%s\t%g\n", r.Resource, r.Zone, r.Cost)
	}
	fmt.Fprintln(tw)
	fmt.Fprintln(tw, "ZONE\tASSIGNED\tCAPACITY\tCOST\t")
	for _, z := range ZoneSummary(in, sol) {
		mark := ""
		if !z.Met {
			mark = "UNDER CAPACITY"
		}
		fmt.Fprintf(tw, "%s\t%d\t%d\t%g\t%s\n", z.Zone, z.Assigned, z.Capacity, z.Cost, mark)
	}
	fmt.Fprintln(tw)
	fmt.Fprintf(tw, "total cost\t%g\n", sol.TotalCost)
	fmt.Fprintf(tw, "status\t%s\n", sol.Status)
	fmt.Fprintf(tw, "nodes\t%d\n", sol.Stats.Nodes)

	return tw.Flush()
}

// JSON writes the report Document as indented JSON.
func JSON(w io.Writer, in *instance.Instance, sol alloc.Solution) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")

	return enc.Encode(Build(in, sol))
}

// Build assembles the report Document.
func Build(in *instance.Instance, sol alloc.Solution) Document {
	return Document{
		Instance:   in.Name,
		Status:     sol.Status,
		TotalCost:  sol.TotalCost,
		Assignment: Rows(in, sol),
		Zones:      ZoneSummary(in, sol),
		Stats:      sol.Stats,
	}
}
