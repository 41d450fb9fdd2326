package service

import (
	"strings"

	"github.com/brianvoe/gofakeit/v7"
)

// NameGenerator produces display names for lotteries created without one.
type NameGenerator func() string

// RandomLotteryName returns a phrase such as "tan octopus lottery".
// Names are not required to be unique.
func RandomLotteryName() string {
	adjective := strings.ToLower(gofakeit.AdjectiveDescriptive())
	animal := strings.ToLower(gofakeit.Animal())
	return adjective + " " + animal + " lottery"
}
