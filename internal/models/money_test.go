package models

import (
	"encoding/json"
	"testing"
)

func TestMoneyUnmarshalStringAndNumber(t *testing.T) {
	var fromString Money
	if err := json.Unmarshal([]byte(`"12.345"`), &fromString); err != nil {
		t.Fatalf("unmarshal string failed: %v", err)
	}
	if fromString.String() != "12.35" {
		t.Fatalf("unexpected rounded value: %s", fromString.String())
	}

	var fromNumber Money
	if err := json.Unmarshal([]byte(`19.9`), &fromNumber); err != nil {
		t.Fatalf("unmarshal number failed: %v", err)
	}
	if fromNumber.String() != "19.90" {
		t.Fatalf("unexpected value: %s", fromNumber.String())
	}

	var fromNull Money
	if err := json.Unmarshal([]byte(`null`), &fromNull); err != nil {
		t.Fatalf("unmarshal null failed: %v", err)
	}
	if !fromNull.IsZero() {
		t.Fatalf("null should stay zero, got %s", fromNull.String())
	}
}

func TestMoneyMarshalFixedTwoDecimals(t *testing.T) {
	m, err := NewMoneyFromString("7.5")
	if err != nil {
		t.Fatalf("new money failed: %v", err)
	}
	out, err := json.Marshal(m)
	if err != nil {
		t.Fatalf("marshal failed: %v", err)
	}
	if string(out) != `"7.50"` {
		t.Fatalf("unexpected marshal output: %s", out)
	}
}

func TestProductDiscountPercent(t *testing.T) {
	oldPrice, _ := NewMoneyFromString("100.00")
	price, _ := NewMoneyFromString("75.00")
	p := Product{Price: price, OldPrice: oldPrice}
	if got := p.DiscountPercent(); got != 25 {
		t.Fatalf("discount want 25 got %d", got)
	}

	noOld := Product{Price: price}
	if got := noOld.DiscountPercent(); got != 0 {
		t.Fatalf("missing old price should be 0, got %d", got)
	}

	cheaperBefore := Product{Price: oldPrice, OldPrice: price}
	if got := cheaperBefore.DiscountPercent(); got != 0 {
		t.Fatalf("price above old price should be 0, got %d", got)
	}
}

func TestCartItemSameLine(t *testing.T) {
	item := CartItem{
		ID:      3,
		Product: Product{ID: 9},
		Color:   "red",
		Size:    "M",
	}
	if !item.SameLine(9, "red", "M") {
		t.Fatalf("expected same line")
	}
	if item.SameLine(9, "red", "L") {
		t.Fatalf("different size must not match")
	}
	if item.SameLine(8, "red", "M") {
		t.Fatalf("different product must not match")
	}
}
