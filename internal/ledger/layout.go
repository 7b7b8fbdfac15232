package ledger

import "github.com/dvloznov/points-sync/internal/webagent"

// Ledger site endpoints.
const (
	SignInURL   = "https://moneyforward.com/sign_in"
	CashFlowURL = "https://moneyforward.com/cf"
	SignOutURL  = "https://moneyforward.com/sign_out"
)

// DefaultAccount is the ledger account the cash wallet is booked against.
const DefaultAccount = "楽天キャッシュ"

// Page structure of the ledger site.
var (
	selSignInWithEmail = webagent.ByXPath("/html/body/main/div/div/div/div/div[1]/section/div/div/div[2]/div/a[1]")
	selEmail           = webagent.ByName("mfid_user[email]")
	selPassword        = webagent.ByName("mfid_user[password]")
	selSubmitCreds     = webagent.ByClass("submitBtn")

	selOpenEntry   = webagent.ByXPath("/html/body/div[1]/div[2]/div/div/div/section/section/div[1]/div[1]/div/button")
	selIncomeTab   = webagent.ByID("info")
	selExpenseTab  = webagent.ByID("important")
	selDate        = webagent.ByID("updated-at")
	selAmount      = webagent.ByID("appendedPrependedInput")
	selAccount     = webagent.ByID("user_asset_act_sub_account_id_hash")
	selOption      = webagent.ByTag("option")
	selDescription = webagent.ByID("js-content-field")
	selSubmitEntry = webagent.ByID("submit-button")
	selCloseEntry  = webagent.ByID("cancel-button")
)
