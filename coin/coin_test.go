package coin

import (
	"encoding/json"
	"math"
	"testing"

	"github.com/iov-one/pairswap/errors"
	"github.com/iov-one/pairswap/swaptest/assert"
	. "github.com/smartystreets/goconvey/convey"
)

func TestCoinArithmetic(t *testing.T) {
	Convey("Given a coin of 100 ETH", t, func() {
		c := NewCoin(100, "ETH")

		Convey("adding the same token sums the amounts", func() {
			res, err := c.Add(NewCoin(23, "ETH"))
			So(err, ShouldBeNil)
			So(res.Equals(NewCoin(123, "ETH")), ShouldBeTrue)
		})

		Convey("adding a different token fails", func() {
			_, err := c.Add(NewCoin(1, "BTC"))
			So(errors.ErrCurrency.Is(err), ShouldBeTrue)
		})

		Convey("adding past the maximum value overflows", func() {
			_, err := c.Add(NewCoin(math.MaxUint64-99, "ETH"))
			So(errors.ErrOverflow.Is(err), ShouldBeTrue)
		})

		Convey("subtracting a lower amount succeeds", func() {
			res, err := c.Subtract(NewCoin(100, "ETH"))
			So(err, ShouldBeNil)
			So(res.IsZero(), ShouldBeTrue)
			So(res.Ticker, ShouldEqual, "ETH")
		})

		Convey("subtracting a greater amount fails", func() {
			_, err := c.Subtract(NewCoin(101, "ETH"))
			So(errors.ErrInsufficientAmount.Is(err), ShouldBeTrue)
		})

		Convey("subtracting a different token fails", func() {
			_, err := c.Subtract(NewCoin(1, "BTC"))
			So(errors.ErrCurrency.Is(err), ShouldBeTrue)
		})
	})
}

func TestCompareCoin(t *testing.T) {
	cases := map[string]struct {
		a       Coin
		b       Coin
		wantRes int
	}{
		"a greater than b": {
			a:       NewCoin(20, "ABC"),
			b:       NewCoin(19, "ABC"),
			wantRes: 1,
		},
		"a smaller than b": {
			a:       NewCoin(0, "FOO"),
			b:       NewCoin(1, "FOO"),
			wantRes: -1,
		},
		"zero value coins": {
			a:       Coin{},
			b:       Coin{},
			wantRes: 0,
		},
	}

	for testName, tc := range cases {
		t.Run(testName, func(t *testing.T) {
			assert.Equal(t, tc.wantRes, tc.a.Compare(tc.b))
		})
	}
}

func TestCoinValidate(t *testing.T) {
	cases := map[string]struct {
		coin    Coin
		wantErr *errors.Error
	}{
		"valid":             {coin: NewCoin(5, "ETH")},
		"zero is valid":     {coin: NewCoin(0, "BTC")},
		"lowercase ticker":  {coin: NewCoin(5, "eth"), wantErr: errors.ErrCurrency},
		"missing ticker":    {coin: NewCoin(5, ""), wantErr: errors.ErrCurrency},
		"too long ticker":   {coin: NewCoin(5, "ETHER"), wantErr: errors.ErrCurrency},
		"too short ticker":  {coin: NewCoin(5, "ET"), wantErr: errors.ErrCurrency},
		"four letter valid": {coin: NewCoin(5, "IOVX")},
	}
	for testName, tc := range cases {
		t.Run(testName, func(t *testing.T) {
			assert.IsErr(t, tc.wantErr, tc.coin.Validate())
		})
	}
}

func TestCoinHumanFormat(t *testing.T) {
	cases := map[string]struct {
		raw      string
		wantCoin Coin
		wantErr  *errors.Error
	}{
		"amount and ticker": {raw: "40 ETH", wantCoin: NewCoin(40, "ETH")},
		"no space":          {raw: "7BTC", wantCoin: NewCoin(7, "BTC")},
		"missing ticker":    {raw: "40", wantErr: errors.ErrInvalidInput},
		"negative amount":   {raw: "-4 ETH", wantErr: errors.ErrInvalidInput},
		"fractional amount": {raw: "4.2 ETH", wantErr: errors.ErrInvalidInput},
		"amount overflow":   {raw: "18446744073709551616 ETH", wantErr: errors.ErrOverflow},
	}
	for testName, tc := range cases {
		t.Run(testName, func(t *testing.T) {
			c, err := ParseHumanFormat(tc.raw)
			assert.IsErr(t, tc.wantErr, err)
			if tc.wantErr == nil {
				assert.Equal(t, tc.wantCoin, c)
				back, err := ParseHumanFormat(c.String())
				assert.Nil(t, err)
				assert.Equal(t, c, back)
			}
		})
	}
}

func TestCoinUnmarshalJSON(t *testing.T) {
	var c Coin
	assert.Nil(t, json.Unmarshal([]byte(`"12 BTC"`), &c))
	assert.Equal(t, NewCoin(12, "BTC"), c)

	assert.Nil(t, json.Unmarshal([]byte(`{"ticker": "ETH", "amount": 3}`), &c))
	assert.Equal(t, NewCoin(3, "ETH"), c)

	if err := json.Unmarshal([]byte(`"twelve BTC"`), &c); err == nil {
		t.Fatal("invalid human format accepted")
	}
}

func TestCoinClone(t *testing.T) {
	var empty *Coin
	assert.Nil(t, empty.Clone())

	c := NewCoinp(4, "ETH")
	cpy := c.Clone()
	cpy.Amount = 5
	assert.Equal(t, uint64(4), c.Amount)
}
