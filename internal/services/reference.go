package services

import (
	"fmt"
	"math/rand/v2"
	"time"
)

// referenceSpace bounds the random suffix of a payment reference.
const referenceSpace = 1_000_000

// ReferenceGenerator builds payment references of the form "{prefix}-{unixMillis}-{random}".
// Uniqueness is enforced by the payment_reference constraint, not here.
type ReferenceGenerator struct {
	now   func() time.Time
	randN func(n int) int
}

// NewReferenceGenerator returns a generator using the wall clock and math/rand/v2.
func NewReferenceGenerator() *ReferenceGenerator {
	return &ReferenceGenerator{now: time.Now, randN: rand.IntN}
}

func (g *ReferenceGenerator) Generate(prefix string) string {
	return fmt.Sprintf("%s-%d-%d", prefix, g.now().UnixMilli(), g.randN(referenceSpace))
}
