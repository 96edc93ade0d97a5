package finance

import "github.com/shopspring/decimal"

// LineInput reúne o que é preciso para liquidar uma linha de serviço.
type LineInput struct {
	CatalogPrice   float64
	CustomPrice    *float64
	FeeRate        float64 // % da forma de pagamento
	CommissionRate float64 // % do profissional
	DiscountFee    bool    // taxa descontada antes da comissão
}

type LineResult struct {
	Price           decimal.Decimal
	PaymentFee      decimal.Decimal
	NetServiceValue decimal.Decimal
	Commission      decimal.Decimal
	SalonProfit     decimal.Decimal
	CommissionRate  decimal.Decimal
}

var hundred = decimal.NewFromInt(100)

// Settle calcula os valores de uma linha, arredondados em centavos.
//
//	price        = custom_price ?? preço do catálogo
//	payment_fee  = price * fee_rate / 100
//	net          = discount ? price - fee : price
//	commission   = net * commission_rate / 100
//	salon_profit = price - fee - commission
func Settle(in LineInput) LineResult {
	price := decimal.NewFromFloat(in.CatalogPrice)
	if in.CustomPrice != nil {
		price = decimal.NewFromFloat(*in.CustomPrice)
	}
	price = price.Round(2)

	rate := decimal.NewFromFloat(in.CommissionRate)
	fee := price.Mul(decimal.NewFromFloat(in.FeeRate)).Div(hundred).Round(2)

	net := price
	if in.DiscountFee {
		net = price.Sub(fee)
	}

	commission := net.Mul(rate).Div(hundred).Round(2)

	return LineResult{
		Price:           price,
		PaymentFee:      fee,
		NetServiceValue: net,
		Commission:      commission,
		SalonProfit:     price.Sub(fee).Sub(commission),
		CommissionRate:  rate,
	}
}

type Summary struct {
	Gross       decimal.Decimal `json:"gross"`
	Fees        decimal.Decimal `json:"fees"`
	Commission  decimal.Decimal `json:"commission"`
	SalonProfit decimal.Decimal `json:"salon_profit"`
}

func Summarize(lines []LineResult) Summary {
	s := Summary{
		Gross:       decimal.Zero,
		Fees:        decimal.Zero,
		Commission:  decimal.Zero,
		SalonProfit: decimal.Zero,
	}
	for _, l := range lines {
		s.Gross = s.Gross.Add(l.Price)
		s.Fees = s.Fees.Add(l.PaymentFee)
		s.Commission = s.Commission.Add(l.Commission)
		s.SalonProfit = s.SalonProfit.Add(l.SalonProfit)
	}
	return s
}
