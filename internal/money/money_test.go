package money

import "testing"

func TestParse(t *testing.T) {
	t.Run("whole rupees", func(t *testing.T) {
		paise, err := Parse("10000")
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if paise != 1000000 {
			t.Errorf("expected 1000000 paise, got %d", paise)
		}
	})

	t.Run("fractional rupees", func(t *testing.T) {
		paise, err := Parse("7219.50")
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if paise != 721950 {
			t.Errorf("expected 721950 paise, got %d", paise)
		}
	})

	t.Run("rejects sub-paise precision", func(t *testing.T) {
		if _, err := Parse("10.005"); err == nil {
			t.Error("expected error for sub-paise amount")
		}
	})

	t.Run("rejects garbage", func(t *testing.T) {
		if _, err := Parse("ten rupees"); err == nil {
			t.Error("expected error for non-numeric amount")
		}
	})
}

func TestFormat(t *testing.T) {
	if got := Format(1000000); got != "10000.00" {
		t.Errorf("expected 10000.00, got %s", got)
	}
	if got := Format(721950); got != "7219.50" {
		t.Errorf("expected 7219.50, got %s", got)
	}
	if got := Format(0); got != "0.00" {
		t.Errorf("expected 0.00, got %s", got)
	}
}

func TestSplitPercent(t *testing.T) {
	t.Run("thirty percent of round amount", func(t *testing.T) {
		reserved, remainder := SplitPercent(1000000, 30)
		if reserved != 300000 {
			t.Errorf("expected reserved 300000, got %d", reserved)
		}
		if remainder != 700000 {
			t.Errorf("expected remainder 700000, got %d", remainder)
		}
	})

	t.Run("parts always sum to the whole", func(t *testing.T) {
		for _, amount := range []int64{1, 3, 99, 101, 333333, 1000001} {
			reserved, remainder := SplitPercent(amount, 30)
			if reserved+remainder != amount {
				t.Errorf("amount %d: %d + %d != %d", amount, reserved, remainder, amount)
			}
			if reserved < 0 || remainder < 0 {
				t.Errorf("amount %d: negative part (%d, %d)", amount, reserved, remainder)
			}
		}
	})

	t.Run("zero percent reserves nothing", func(t *testing.T) {
		reserved, remainder := SplitPercent(500, 0)
		if reserved != 0 || remainder != 500 {
			t.Errorf("expected (0, 500), got (%d, %d)", reserved, remainder)
		}
	})
}
