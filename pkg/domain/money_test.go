package domain_test

import (
	"encoding/json"
	"testing"

	"github.com/aretw0/prr/pkg/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseMoney(t *testing.T) {
	tests := []struct {
		in      string
		want    domain.Money
		wantErr bool
	}{
		{in: "12", want: 1200},
		{in: "12.5", want: 1250},
		{in: "12,50", want: 1250},
		{in: "0.999", want: 99},
		{in: "-3.10", want: -310},
		{in: "", want: 0},
		{in: "1.2.3", wantErr: true},
		{in: "abc", wantErr: true},
		{in: "-", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := domain.ParseMoney(tt.in)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestMoneyRoundAndString(t *testing.T) {
	assert.Equal(t, int64(13), domain.Money(1250).Round())
	assert.Equal(t, int64(12), domain.Money(1249).Round())
	assert.Equal(t, int64(-13), domain.Money(-1250).Round())
	assert.Equal(t, "-0.05", domain.Money(-5).String())
	assert.Equal(t, "40.00", domain.Units(40).String())
	assert.Equal(t, domain.Money(2), domain.Money(5).Half())
}

func TestMoneyJSON(t *testing.T) {
	data, err := json.Marshal(struct {
		Balance domain.Money `json:"balance"`
	}{Balance: 1999})
	require.NoError(t, err)
	assert.JSONEq(t, `{"balance":"19.99"}`, string(data))

	var out struct {
		Balance domain.Money `json:"balance"`
	}
	require.NoError(t, json.Unmarshal(data, &out))
	assert.Equal(t, domain.Money(1999), out.Balance)
}
