package services

import (
	"math"
	"math/big"
	"strconv"
	"strings"

	"github.com/ethereum/go-ethereum/params"
	"github.com/mintroai/payment-service/libs/go/apperrors"
	"github.com/mintroai/payment-service/libs/go/constants"
)

var weiPerEther = new(big.Rat).SetInt(big.NewInt(params.Ether))

// USDToBaseUnits converts a USD amount into the smallest unit of a native token
// worth unitPriceUSD each, rounding half up. Both inputs are read as their
// shortest decimal form so no binary floating point error reaches the result.
func USDToBaseUnits(usd float64, unitPriceUSD float64) (*big.Int, error) {
	if math.IsNaN(unitPriceUSD) || math.IsInf(unitPriceUSD, 0) || unitPriceUSD <= 0 {
		return nil, apperrors.New(apperrors.CodeInvalidUnitPrice, "Invalid token price")
	}
	if math.IsNaN(usd) || math.IsInf(usd, 0) || usd < 0 {
		return nil, apperrors.Newf(apperrors.CodeInvalidField, "Invalid USD amount %v", usd).
			WithDetails(apperrors.DetailFields, []string{"usd"})
	}

	usdRat, err := decimalRat(usd)
	if err != nil {
		return nil, err
	}
	priceRat, err := decimalRat(unitPriceUSD)
	if err != nil {
		return nil, err
	}

	units := new(big.Rat).Quo(usdRat, priceRat)
	units.Mul(units, weiPerEther)
	return roundHalfUp(units), nil
}

// BaseUnitsToUSD values an amount of base units at unitPriceUSD per whole token
func BaseUnitsToUSD(units *big.Int, unitPriceUSD float64) float64 {
	if units == nil {
		return 0
	}
	priceRat, err := decimalRat(unitPriceUSD)
	if err != nil {
		return 0
	}
	value := new(big.Rat).SetFrac(units, big.NewInt(params.Ether))
	value.Mul(value, priceRat)
	f, _ := value.Float64()
	return f
}

// FormatBaseUnits renders base units as a whole-token decimal string without
// trailing zeros, e.g. 20000000000000000 -> "0.02".
func FormatBaseUnits(units *big.Int) string {
	if units == nil {
		return "0"
	}
	s := new(big.Rat).SetFrac(units, big.NewInt(params.Ether)).FloatString(constants.BaseUnitDecimals)
	if strings.Contains(s, ".") {
		s = strings.TrimRight(s, "0")
		s = strings.TrimSuffix(s, ".")
	}
	return s
}

func decimalRat(f float64) (*big.Rat, error) {
	r, ok := new(big.Rat).SetString(strconv.FormatFloat(f, 'g', -1, 64))
	if !ok {
		return nil, apperrors.Newf(apperrors.CodeInvalidField, "Cannot represent %v as a decimal", f)
	}
	return r, nil
}

// roundHalfUp rounds a non-negative rational to the nearest integer, ties up
func roundHalfUp(r *big.Rat) *big.Int {
	quotient, remainder := new(big.Int).QuoRem(r.Num(), r.Denom(), new(big.Int))
	if new(big.Int).Lsh(remainder, 1).Cmp(r.Denom()) >= 0 {
		quotient.Add(quotient, big.NewInt(1))
	}
	return quotient
}
