package trip

import (
	"errors"

	"github.com/shopspring/decimal"
)

// ErrNotSealed is returned when reconciliation is attempted before the
// evening return has been recorded.
var ErrNotSealed = errors.New("ledger is not sealed")

// Summary is the financial outcome of one trip.
type Summary struct {
	GrossRevenue   decimal.Decimal `json:"grossRevenue"`
	TotalWasteCost decimal.Decimal `json:"totalWasteCost"`
	TotalCharges   decimal.Decimal `json:"totalCharges"`
	WaitedAmount   decimal.Decimal `json:"waitedAmount"`
	ReceivedAmount decimal.Decimal `json:"receivedAmount"`
	Deff           decimal.Decimal `json:"deff"`
	Benefit        decimal.Decimal `json:"benefit"`
	CrateDeficit   map[int]int     `json:"crateDeficit"`
}

// Reconcile derives the financial facts from a sealed ledger. It fills in
// QttVendu on every product line and returns the totals:
//
//	qttVendu     = unitsOut − unitsReturned   (≥ 0 by the ledger invariant)
//	grossRevenue = Σ qttVendu × priceUnite
//	waitedAmount = grossRevenue − totalCharges − totalWasteCost
//	deff         = receivedAmount − waitedAmount
//
// Benefit is reported as waitedAmount: the data model carries no wholesale
// cost per product, so a real margin cannot be computed. It is kept as a
// separate field so a cost basis can be introduced without touching deff.
func (l *Ledger) Reconcile() (Summary, error) {
	if !l.sealed {
		return Summary{}, ErrNotSealed
	}

	var gross decimal.Decimal
	for i := range l.Products {
		line := &l.Products[i]
		out, err := ToUnits(line.QttOut, line.QttOutUnite, line.CapacityByBox)
		if err != nil {
			return Summary{}, err
		}
		ret, err := ToUnits(line.QttReutour, line.QttReutourUnite, line.CapacityByBox)
		if err != nil {
			return Summary{}, err
		}
		line.QttVendu = out - ret
		gross = gross.Add(line.PriceUnite.Mul(decimal.NewFromInt(int64(line.QttVendu))))
	}

	var wasteCost decimal.Decimal
	for _, w := range l.Wastes {
		wasteCost = wasteCost.Add(w.PriceUnite.Mul(decimal.NewFromInt(int64(w.Qtt))))
	}

	var charges decimal.Decimal
	for _, c := range l.Charges {
		charges = charges.Add(c.Amount)
	}

	waited := gross.Sub(charges).Sub(wasteCost)
	deff := l.ReceivedAmount.Sub(waited)

	deficit := make(map[int]int, len(l.Boxes))
	for _, b := range l.Boxes {
		deficit[b.BoxID] = b.Deficit()
	}

	return Summary{
		GrossRevenue:   gross,
		TotalWasteCost: wasteCost,
		TotalCharges:   charges,
		WaitedAmount:   waited,
		ReceivedAmount: l.ReceivedAmount,
		Deff:           deff,
		Benefit:        waited,
		CrateDeficit:   deficit,
	}, nil
}
