package history

import "github.com/dvloznov/points-sync/internal/webagent"

// Point history site endpoints.
const (
	TopPageURL = "https://point.rakuten.co.jp/"
	HistoryURL = TopPageURL + "history/"
	LogoutURL  = "https://member.id.rakuten.co.jp/r/logout.html"
)

// Row classes that mark transaction rows of the history table.
const (
	ClassGet = "get"
	ClassUse = "use"
)

// Positional cell indices of a transaction row.
const (
	cellDate     = 0
	cellContent  = 2
	cellCategory = 3
	cellAmount   = 4
	cellNote     = 5
)

// Page structure of the history site. Everything that depends on the
// site's markup lives here and in rowparser.go.
var (
	selLoginUser   = webagent.ByID("loginInner_u")
	selLoginPass   = webagent.ByID("loginInner_p")
	selLoginSubmit = webagent.ByName("submit")
	selTable       = webagent.ByXPath("/html/body/div[2]/div/div[2]/div/div/div/table")
	selRow         = webagent.ByTag("tr")
	selCell        = webagent.ByTag("td")
	selNoteIcon    = webagent.ByClass("note-icon")
	selNoteCash    = webagent.ByClass("note-cash")
)
