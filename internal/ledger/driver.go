package ledger

import (
	"context"
	"fmt"
	"strconv"

	"github.com/dvloznov/points-sync/internal/domain"
	"github.com/dvloznov/points-sync/internal/logger"
	"github.com/dvloznov/points-sync/internal/webagent"
)

// Credentials for the ledger site.
type Credentials struct {
	ID       string
	Password string
}

// Driver posts records through the ledger's manual-entry form, one full form
// cycle per record. A Driver is single-use and not safe for concurrent use.
type Driver struct {
	agent     webagent.Agent
	creds     Credentials
	account   string
	state     State
	committed int
}

// NewDriver creates a Driver that books records against account. An empty
// account falls back to DefaultAccount.
func NewDriver(agent webagent.Agent, creds Credentials, account string) *Driver {
	if account == "" {
		account = DefaultAccount
	}
	return &Driver{agent: agent, creds: creds, account: account}
}

// State returns the last state the driver reached.
func (d *Driver) State() State {
	return d.state
}

// Committed returns how many records were submitted so far.
func (d *Driver) Committed() int {
	return d.committed
}

// PostAll signs in, posts every record in order and signs out. An empty list
// never touches the ledger. The first failure aborts the run; records already
// submitted stay committed and the returned count reflects them.
func (d *Driver) PostAll(ctx context.Context, records []domain.TransactionRecord) (int, error) {
	if len(records) == 0 {
		return 0, nil
	}

	if err := d.SignIn(ctx); err != nil {
		return 0, fmt.Errorf("PostAll: %w", err)
	}

	for i, rec := range records {
		if err := d.Post(ctx, i, rec); err != nil {
			return d.committed, fmt.Errorf("PostAll: %w", err)
		}
	}

	if err := d.SignOut(ctx); err != nil {
		return d.committed, fmt.Errorf("PostAll: %w", err)
	}
	return d.committed, nil
}

// SignIn establishes the session used by every following Post.
func (d *Driver) SignIn(ctx context.Context) error {
	if d.state != Idle {
		return fmt.Errorf("SignIn: driver is %s, want %s", d.state, Idle)
	}

	if err := d.agent.Navigate(ctx, SignInURL); err != nil {
		return fmt.Errorf("SignIn: open sign-in page: %w", err)
	}
	d.state = AuthStarted

	steps := []struct {
		sel   webagent.Selector
		text  string
		click bool
	}{
		{sel: selSignInWithEmail, click: true},
		{sel: selEmail, text: d.creds.ID},
		{sel: selSubmitCreds, click: true},
		{sel: selPassword, text: d.creds.Password},
		{sel: selSubmitCreds, click: true},
	}
	for _, step := range steps {
		var err error
		if step.click {
			err = d.click(ctx, step.sel)
		} else {
			err = d.typeInto(ctx, step.sel, step.text, false)
		}
		if err != nil {
			return fmt.Errorf("SignIn: %w: %w", domain.ErrAuthentication, err)
		}
	}

	if err := d.agent.Navigate(ctx, CashFlowURL); err != nil {
		return fmt.Errorf("SignIn: open cash flow page: %w", err)
	}
	d.state = AuthComplete

	log := logger.FromContext(ctx)
	log.Info().Msg("Signed in to ledger")
	return nil
}

// postStep moves the form from one state to the next for a single record.
type postStep struct {
	state State
	run   func(ctx context.Context, rec domain.TransactionRecord) error
}

func (d *Driver) postSteps() []postStep {
	return []postStep{
		{EntryOpened, d.openEntry},
		{CategorySelected, d.selectCategory},
		{FieldsFilled, d.fillFields},
		{AccountResolved, d.selectAccount},
		{Submitted, d.submit},
		{Closed, d.closeEntry},
	}
}

// Post runs one full form cycle for rec. index identifies the record in
// errors and logs. Post requires a signed-in driver between records.
func (d *Driver) Post(ctx context.Context, index int, rec domain.TransactionRecord) error {
	if d.state != AuthComplete && d.state != Closed {
		return fmt.Errorf("Post: driver is %s, want %s or %s", d.state, AuthComplete, Closed)
	}

	log := logger.FromContext(ctx).With().Int("record", index).Logger()

	for _, step := range d.postSteps() {
		if err := step.run(ctx, rec); err != nil {
			return &PostingError{Index: index, State: step.state, Committed: d.committed, Err: err}
		}
		d.state = step.state
		if step.state == Submitted {
			d.committed++
		}
		log.Debug().Str("state", step.state.String()).Msg("Posting state reached")
	}

	log.Info().
		Bool("is_income", rec.IsIncome).
		Int64("amount", rec.Amount).
		Str("content", rec.Description).
		Msg("Posted record")
	return nil
}

// SignOut ends the ledger session.
func (d *Driver) SignOut(ctx context.Context) error {
	if err := d.agent.Navigate(ctx, SignOutURL); err != nil {
		return fmt.Errorf("SignOut: %w", err)
	}
	d.state = LoggedOut
	log := logger.FromContext(ctx)
	log.Info().Int("committed", d.committed).Msg("Signed out of ledger")
	return nil
}

func (d *Driver) openEntry(ctx context.Context, _ domain.TransactionRecord) error {
	return d.click(ctx, selOpenEntry)
}

func (d *Driver) selectCategory(ctx context.Context, rec domain.TransactionRecord) error {
	if rec.IsIncome {
		return d.click(ctx, selIncomeTab)
	}
	return d.click(ctx, selExpenseTab)
}

func (d *Driver) fillFields(ctx context.Context, rec domain.TransactionRecord) error {
	if err := d.typeInto(ctx, selDate, rec.FormattedDate(), true); err != nil {
		return err
	}
	return d.typeInto(ctx, selAmount, strconv.FormatInt(rec.Amount, 10), true)
}

// selectAccount reads the option labels afresh; the balance in each label
// changes after every submission.
func (d *Driver) selectAccount(ctx context.Context, _ domain.TransactionRecord) error {
	sel, err := d.agent.Find(ctx, selAccount)
	if err != nil {
		return err
	}
	elems, err := sel.FindAll(ctx, selOption)
	if err != nil {
		return err
	}

	options := make([]domain.AccountOption, 0, len(elems))
	for _, el := range elems {
		label, err := el.Text(ctx)
		if err != nil {
			return err
		}
		options = append(options, domain.AccountOption{Label: label})
	}

	opt, err := Resolve(options, d.account)
	if err != nil {
		return err
	}
	return sel.SelectByVisibleText(ctx, opt.Label)
}

func (d *Driver) submit(ctx context.Context, rec domain.TransactionRecord) error {
	if err := d.typeInto(ctx, selDescription, rec.Description, false); err != nil {
		return err
	}
	return d.click(ctx, selSubmitEntry)
}

func (d *Driver) closeEntry(ctx context.Context, _ domain.TransactionRecord) error {
	return d.click(ctx, selCloseEntry)
}

func (d *Driver) click(ctx context.Context, sel webagent.Selector) error {
	el, err := d.agent.Find(ctx, sel)
	if err != nil {
		return err
	}
	return el.Click(ctx)
}

func (d *Driver) typeInto(ctx context.Context, sel webagent.Selector, text string, clear bool) error {
	el, err := d.agent.Find(ctx, sel)
	if err != nil {
		return err
	}
	if clear {
		if err := el.Clear(ctx); err != nil {
			return err
		}
	}
	return el.Type(ctx, text)
}
