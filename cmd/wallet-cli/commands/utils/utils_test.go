package utils

import (
	"testing"

	"github.com/coschain/walletkeeper/wallet"
	"github.com/stretchr/testify/assert"
)

func TestParseAmount(t *testing.T) {
	myassert := assert.New(t)

	cases := map[string]wallet.Amount{
		"1":           1000000,
		"1.5":         1500000,
		"0.000001":    1,
		"2.25 COS":    2250000,
		"0":           0,
		"1000.000000": 1000000000,
	}
	for in, want := range cases {
		got, err := ParseAmount(in)
		myassert.NoError(err, in)
		myassert.Equal(want, got, in)
	}
	for _, in := range []string{"", "abc", "-1", "0.0000001", "1e30"} {
		_, err := ParseAmount(in)
		myassert.Error(err, in)
	}
}
