package ledger

import (
	"errors"
	"fmt"

	"github.com/dvloznov/points-sync/internal/webagent/inmemory"
)

// entry is what the fake ledger stored for one submitted form.
type entry struct {
	IsIncome bool
	Date     string
	Amount   string
	Account  string
	Content  string
}

// site is an in-memory ledger: a sign-in page and a cash flow page whose
// entry form behaves like the real one closely enough to drive.
type site struct {
	agent   *inmemory.Agent
	entries []entry
	balance int

	open     bool
	isIncome bool

	email, password         *inmemory.Node
	date, amount, content   *inmemory.Node
	account, cashOption     *inmemory.Node
	submitBtn, openEntryBtn *inmemory.Node
	closeBtn                *inmemory.Node
}

func newSite(balance int, otherAccounts ...string) *site {
	s := &site{agent: inmemory.NewAgent(), balance: balance}

	s.email = inmemory.El("input").WithName("mfid_user[email]")
	s.password = inmemory.El("input").WithName("mfid_user[password]")
	s.agent.AddPage(SignInURL, inmemory.El("html",
		inmemory.Text("a", "メールアドレスでログイン").WithXPath(selSignInWithEmail.Value),
		s.email,
		s.password,
		inmemory.Text("button", "ログイン").WithClass("submitBtn"),
	))

	s.openEntryBtn = inmemory.Text("button", "手入力").WithXPath(selOpenEntry.Value)
	s.openEntryBtn.OnClick = func() error {
		if s.open {
			return errors.New("entry form already open")
		}
		s.open = true
		s.date.Value = "2099/12/31"
		s.amount.Value = ""
		s.content.Value = ""
		s.account.Value = ""
		return nil
	}

	income := inmemory.Text("a", "収入").WithID("info")
	income.OnClick = func() error { s.isIncome = true; return nil }
	expense := inmemory.Text("a", "支出").WithID("important")
	expense.OnClick = func() error { s.isIncome = false; return nil }

	s.date = inmemory.El("input").WithID("updated-at")
	s.amount = inmemory.El("input").WithID("appendedPrependedInput")
	s.content = inmemory.El("input").WithID("js-content-field")

	var options []*inmemory.Node
	for i, label := range otherAccounts {
		options = append(options, inmemory.Text("option", label).WithAttr("value", fmt.Sprintf("other-%d", i)))
	}
	s.cashOption = inmemory.Text("option", s.cashLabel()).WithAttr("value", "cash")
	options = append(options, s.cashOption)
	s.account = inmemory.El("select", options...).WithID("user_asset_act_sub_account_id_hash")

	s.submitBtn = inmemory.Text("button", "保存する").WithID("submit-button")
	s.submitBtn.OnClick = func() error {
		if !s.open {
			return errors.New("no entry form open")
		}
		s.entries = append(s.entries, entry{
			IsIncome: s.isIncome,
			Date:     s.date.Value,
			Amount:   s.amount.Value,
			Account:  s.account.Value,
			Content:  s.content.Value,
		})
		var amount int
		fmt.Sscan(s.amount.Value, &amount)
		if s.isIncome {
			s.balance += amount
		} else {
			s.balance -= amount
		}
		s.cashOption.TextValue = s.cashLabel()
		return nil
	}

	s.closeBtn = inmemory.Text("button", "閉じる").WithID("cancel-button")
	s.closeBtn.OnClick = func() error { s.open = false; return nil }

	s.agent.AddPage(CashFlowURL, inmemory.El("html",
		s.openEntryBtn,
		inmemory.El("form",
			income, expense,
			s.date, s.amount, s.account, s.content,
			s.submitBtn, s.closeBtn,
		),
	))
	s.agent.AddPage(SignOutURL, inmemory.El("html"))
	return s
}

func (s *site) cashLabel() string {
	return fmt.Sprintf("%s(%d円)", DefaultAccount, s.balance)
}
