// Package report renders buyer balances for operators.
package report

import (
	"fmt"
	"io"
	"text/tabwriter"

	"github.com/Rhymond/go-money"
	"github.com/shopspring/decimal"

	"github.com/linqfy/horsesShit/internal/models"
)

// Formatter prints decimal amounts in one currency.
type Formatter struct {
	cur *money.Currency
}

// NewFormatter returns a formatter for an ISO 4217 currency code.
func NewFormatter(code string) (*Formatter, error) {
	cur := money.GetCurrency(code)
	if cur == nil {
		return nil, fmt.Errorf("unknown currency %q", code)
	}
	return &Formatter{cur: cur}, nil
}

// Format rounds d to the currency's minor unit and formats it with the
// currency's symbol and separators.
func (f *Formatter) Format(d decimal.Decimal) string {
	minor := d.Round(int32(f.cur.Fraction)).Shift(int32(f.cur.Fraction))
	return f.cur.Formatter().Format(minor.IntPart())
}

// Line is one buyer of a balance report.
type Line struct {
	Buyer   *models.Buyer
	Balance models.BuyerBalance
	// HorseNames resolves horse ids in Balance.Horses. Missing ids print as #id.
	HorseNames map[int64]string
}

// WriteBalances writes one row per buyer followed by its per-horse balances.
func (f *Formatter) WriteBalances(w io.Writer, lines []Line) error {
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', tabwriter.AlignRight)
	fmt.Fprintln(tw, "BUYER\tBALANCE\tOUTSTANDING\tPAID\t")
	for _, l := range lines {
		fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t\n",
			l.Buyer.Name,
			f.Format(l.Balance.Current),
			f.Format(l.Balance.Outstanding),
			f.Format(l.Balance.TotalPaid),
		)
		for _, h := range l.Balance.Horses {
			name, ok := l.HorseNames[h.HorseID]
			if !ok {
				name = fmt.Sprintf("#%d", h.HorseID)
			}
			fmt.Fprintf(tw, "  %s (%s%%)\t%s\t\t\t\n", name, h.Percentage.String(), f.Format(h.Balance))
		}
	}
	return tw.Flush()
}
