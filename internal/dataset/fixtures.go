package dataset

import (
	"math"
	"math/rand/v2"
	"sort"

	"creditcard-eda/internal/domain"
)

const (
	// fixtureSpan is the observation window of the public dataset in seconds.
	fixtureSpan = 172792

	fixtureFraudRate = 0.0173
)

// GenerateFixtures builds n synthetic transactions shaped like the public
// credit-card dataset: two days of sorted timestamps, standard normal V
// features, log-normal amounts and a small fraud share. The same seed always
// yields the same rows. Every 500th row repeats its predecessor so the
// duplicate count is non-zero.
func GenerateFixtures(n int, seed uint64) []*domain.Transaction {
	if n <= 0 {
		return nil
	}
	rng := rand.New(rand.NewPCG(seed, seed^0x9e3779b97f4a7c15))

	times := make([]float64, n)
	for i := range times {
		times[i] = math.Floor(rng.Float64() * fixtureSpan)
	}
	sort.Float64s(times)

	txs := make([]*domain.Transaction, n)
	for i := range txs {
		if i > 0 && i%500 == 0 {
			dup := *txs[i-1]
			txs[i] = &dup
			continue
		}

		tx := &domain.Transaction{Time: times[i], Class: domain.ClassNormal}
		if rng.Float64() < fixtureFraudRate {
			tx.Class = domain.ClassFraud
		}
		for f := range tx.V {
			tx.V[f] = rng.NormFloat64()
			if tx.Class == domain.ClassFraud && f < 4 {
				tx.V[f] -= 3
			}
		}
		tx.Amount = math.Round(math.Exp(3+1.4*rng.NormFloat64())*100) / 100
		txs[i] = tx
	}
	return txs
}
