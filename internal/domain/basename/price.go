package basename

import (
	"math/big"
	"strings"
	"time"
)

// RegistrationDuration is the fixed registration term: one year in seconds.
const RegistrationDuration = 365 * 24 * time.Hour

// RegistrationSeconds returns RegistrationDuration as a uint256-ready value.
func RegistrationSeconds() *big.Int {
	return big.NewInt(int64(RegistrationDuration / time.Second))
}

// FallbackPrice is quoted when a source confirms availability without a usable price.
const FallbackPrice = "0.01"

const etherDecimals = 18

var weiPerEther = new(big.Int).Exp(big.NewInt(10), big.NewInt(etherDecimals), nil)

// RentPrice is the registrar's quote for a registration term, in wei.
type RentPrice struct {
	Base    *big.Int
	Premium *big.Int
}

// Total returns Base + Premium. Nil components count as zero.
func (p RentPrice) Total() *big.Int {
	total := new(big.Int)
	if p.Base != nil {
		total.Add(total, p.Base)
	}
	if p.Premium != nil {
		total.Add(total, p.Premium)
	}
	return total
}

// FormatEther renders a wei amount as a decimal ETH string without trailing
// zeros: 1500000000000000000 -> "1.5", 10^18 -> "1", 0 -> "0".
func FormatEther(wei *big.Int) string {
	if wei == nil {
		return "0"
	}
	neg := wei.Sign() < 0
	abs := new(big.Int).Abs(wei)
	whole, frac := new(big.Int).QuoRem(abs, weiPerEther, new(big.Int))

	out := whole.String()
	if frac.Sign() != 0 {
		digits := frac.String()
		digits = strings.Repeat("0", etherDecimals-len(digits)) + digits
		out += "." + strings.TrimRight(digits, "0")
	}
	if neg {
		out = "-" + out
	}
	return out
}

// DefaultPrice is the length-based quote used when the registrar confirmed
// availability but its price query failed.
func DefaultPrice(n CandidateName) string {
	switch n.Len() {
	case 3:
		return "0.1"
	case 4:
		return "0.05"
	case 5:
		return "0.02"
	default:
		return FallbackPrice
	}
}
