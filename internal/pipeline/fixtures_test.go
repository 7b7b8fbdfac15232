package pipeline

import (
	"github.com/dvloznov/points-sync/internal/history"
	"github.com/dvloznov/points-sync/internal/ledger"
	"github.com/dvloznov/points-sync/internal/webagent/inmemory"
)

const (
	historyTableXPath = "/html/body/div[2]/div/div[2]/div/div/div/table"
	signInLinkXPath   = "/html/body/main/div/div/div/div/div[1]/section/div/div/div[2]/div/a[1]"
	openEntryXPath    = "/html/body/div[1]/div[2]/div/div/div/section/section/div[1]/div[1]/div/button"
)

// useRow is a history row paid partly from the cash wallet.
func useRow(date, content, cash string) *inmemory.Node {
	return inmemory.El("tr",
		inmemory.Text("td", date),
		inmemory.Text("td", ""),
		inmemory.Text("td", content),
		inmemory.Text("td", history.CategoryUse),
		inmemory.Text("td", "9,999"),
		inmemory.El("td",
			inmemory.Text("span", "内訳").WithClass("note-icon"),
			inmemory.Text("span", cash).WithClass("note-cash"),
		),
	).WithClass(history.ClassUse)
}

// world is an in-memory browser serving both sites.
type world struct {
	agent   *inmemory.Agent
	content *inmemory.Node
	posted  []string
}

func newWorld(rows ...*inmemory.Node) *world {
	w := &world{agent: inmemory.NewAgent()}

	w.agent.AddPage(history.HistoryURL, inmemory.El("html",
		inmemory.El("form",
			inmemory.El("input").WithID("loginInner_u"),
			inmemory.El("input").WithID("loginInner_p"),
			inmemory.El("input").WithName("submit"),
		),
		inmemory.El("table", rows...).WithXPath(historyTableXPath),
	))
	w.agent.AddPage(history.LogoutURL, inmemory.El("html"))

	w.agent.AddPage(ledger.SignInURL, inmemory.El("html",
		inmemory.Text("a", "メールアドレスでログイン").WithXPath(signInLinkXPath),
		inmemory.El("input").WithName("mfid_user[email]"),
		inmemory.El("input").WithName("mfid_user[password]"),
		inmemory.Text("button", "ログイン").WithClass("submitBtn"),
	))

	w.content = inmemory.El("input").WithID("js-content-field")
	open := inmemory.Text("button", "手入力").WithXPath(openEntryXPath)
	open.OnClick = func() error {
		w.content.Value = ""
		return nil
	}
	submit := inmemory.Text("button", "保存する").WithID("submit-button")
	submit.OnClick = func() error {
		w.posted = append(w.posted, w.content.Value)
		return nil
	}
	w.agent.AddPage(ledger.CashFlowURL, inmemory.El("html",
		open,
		inmemory.El("form",
			inmemory.Text("a", "収入").WithID("info"),
			inmemory.Text("a", "支出").WithID("important"),
			inmemory.El("input").WithID("updated-at"),
			inmemory.El("input").WithID("appendedPrependedInput"),
			inmemory.El("select",
				inmemory.Text("option", "財布(0円)"),
				inmemory.Text("option", "楽天キャッシュ(5,000円)"),
			).WithID("user_asset_act_sub_account_id_hash"),
			w.content,
			submit,
			inmemory.Text("button", "閉じる").WithID("cancel-button"),
		),
	))
	w.agent.AddPage(ledger.SignOutURL, inmemory.El("html"))
	return w
}

func (w *world) visited(url string) bool {
	for _, v := range w.agent.Visited() {
		if v == url {
			return true
		}
	}
	return false
}
