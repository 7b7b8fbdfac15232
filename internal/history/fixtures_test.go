package history

import (
	"context"
	"testing"

	"github.com/dvloznov/points-sync/internal/webagent"
	"github.com/dvloznov/points-sync/internal/webagent/inmemory"
)

// tr builds a history table row. cells are date, (blank), content,
// category, amount; note may be nil.
func tr(class, date, content, category, amount string, note *inmemory.Node) *inmemory.Node {
	row := inmemory.El("tr",
		inmemory.Text("td", date),
		inmemory.Text("td", ""),
		inmemory.Text("td", content),
		inmemory.Text("td", category),
		inmemory.Text("td", amount),
	).WithClass(class)
	if note != nil {
		row.Children = append(row.Children, note)
	} else {
		row.Children = append(row.Children, inmemory.Text("td", ""))
	}
	return row
}

// breakdown builds a note cell carrying a cash breakdown.
func breakdown(cash string) *inmemory.Node {
	return inmemory.El("td",
		inmemory.Text("span", "内訳").WithClass("note-icon"),
		inmemory.Text("span", cash).WithClass("note-cash"),
	)
}

// historyPage wraps rows into a page laid out like the history site.
func historyPage(rows ...*inmemory.Node) *inmemory.Node {
	table := inmemory.El("table", rows...).WithXPath(selTable.Value)
	return inmemory.El("html", inmemory.El("body", table))
}

// loadRows serves rows on a page and returns the agent and the row elements.
func loadRows(t *testing.T, rows ...*inmemory.Node) (*inmemory.Agent, []webagent.Element) {
	t.Helper()
	ctx := context.Background()

	agent := inmemory.NewAgent()
	agent.AddPage(HistoryURL, historyPage(rows...))
	if err := agent.Navigate(ctx, HistoryURL); err != nil {
		t.Fatalf("Navigate failed: %v", err)
	}
	table, err := agent.Find(ctx, selTable)
	if err != nil {
		t.Fatalf("Find table failed: %v", err)
	}
	elements, err := table.FindAll(ctx, selRow)
	if err != nil {
		t.Fatalf("FindAll rows failed: %v", err)
	}
	return agent, elements
}
