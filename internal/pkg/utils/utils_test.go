package utils

import (
	"math/big"
	"testing"
)

func TestFormatBigInt(t *testing.T) {
	wei, _ := new(big.Int).SetString("75000000000000000", 10)
	large, _ := new(big.Int).SetString("1234500000000000000", 10)

	tests := []struct {
		name     string
		amount   *big.Int
		decimals uint8
		want     string
	}{
		{name: "nil", amount: nil, decimals: 18, want: "0"},
		{name: "fraction", amount: wei, decimals: 18, want: "0.075"},
		{name: "mixed", amount: large, decimals: 18, want: "1.2345"},
		{name: "whole", amount: big.NewInt(3000), decimals: 3, want: "3"},
		{name: "no decimals", amount: big.NewInt(42), decimals: 0, want: "42"},
		{name: "negative", amount: big.NewInt(-1500), decimals: 3, want: "-1.5"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := FormatBigInt(tt.amount, tt.decimals); got != tt.want {
				t.Fatalf("FormatBigInt() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestParseBigInt(t *testing.T) {
	v, err := ParseBigInt("75000000000000000000")
	if err != nil || v.String() != "75000000000000000000" {
		t.Fatalf("unexpected result %v, %v", v, err)
	}
	v, err = ParseBigInt("7.5e16")
	if err != nil || v.String() != "75000000000000000" {
		t.Fatalf("unexpected exponent result %v, %v", v, err)
	}
	if _, err := ParseBigInt("0.5"); err == nil {
		t.Fatalf("expected error for fractional value")
	}
	if _, err := ParseBigInt(""); err == nil {
		t.Fatalf("expected error for empty value")
	}
}

func TestGetEnv(t *testing.T) {
	t.Setenv("MINTING_DAPP_TEST_VALUE", "set")
	if got := GetEnv("MINTING_DAPP_TEST_VALUE", "fallback"); got != "set" {
		t.Fatalf("unexpected value %q", got)
	}
	t.Setenv("MINTING_DAPP_TEST_VALUE", "")
	if got := GetEnv("MINTING_DAPP_TEST_VALUE", "fallback"); got != "fallback" {
		t.Fatalf("empty value must use the fallback, got %q", got)
	}
}
