package ui

import (
	"fmt"
	"io"
	"strings"
	"text/tabwriter"
)

// Fprint writes nodes as plain text: cards as indented blocks, rows and
// tables as aligned columns.
func Fprint(w io.Writer, nodes []Node) error {
	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	for _, n := range nodes {
		switch n.Kind {
		case KindCard:
			fmt.Fprintf(tw, "[%s] %s\n", n.ID, n.Title)
			for _, line := range n.Lines {
				fmt.Fprintf(tw, "    %s\n", line)
			}
			if len(n.Actions) > 0 {
				fmt.Fprintf(tw, "    actions: %s\n", actionLabels(n.Actions))
			}
		case KindRow:
			for _, cells := range n.Cells {
				fmt.Fprintln(tw, strings.Join(cells, "\t"))
			}
		case KindTable:
			if n.Title != "" {
				fmt.Fprintln(tw, n.Title)
			}
			fmt.Fprintln(tw, strings.Join(n.Header, "\t"))
			for _, cells := range n.Cells {
				fmt.Fprintln(tw, strings.Join(cells, "\t"))
			}
		default:
			fmt.Fprintln(tw, n.Title)
		}
	}
	return tw.Flush()
}

func actionLabels(actions []Action) string {
	labels := make([]string, 0, len(actions))
	for _, a := range actions {
		labels = append(labels, a.Label)
	}
	return strings.Join(labels, ", ")
}
