package domain

import (
	"fmt"
	"strings"
)

// Money is an amount in hundredths of a currency unit.
type Money int64

// Units returns n whole currency units.
func Units(n int64) Money {
	return Money(n * 100)
}

// ParseMoney parses a decimal amount such as "1.80" or "1,80" into Money.
// Digits beyond the second decimal place are ignored.
func ParseMoney(s string) (Money, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return 0, nil
	}

	s = strings.ReplaceAll(s, ",", ".")

	neg := false
	if s[0] == '-' {
		neg = true
		s = s[1:]
	}
	if s == "" {
		return 0, fmt.Errorf("money: bad %q", s)
	}

	var (
		whole      int64
		frac       int64
		seenDot    bool
		fracDigits int
	)

	for i := 0; i < len(s); i++ {
		c := s[i]
		if c == '.' {
			if seenDot {
				return 0, fmt.Errorf("money: bad %q", s)
			}
			seenDot = true
			continue
		}
		if c < '0' || c > '9' {
			return 0, fmt.Errorf("money: bad %q", s)
		}
		d := int64(c - '0')
		if !seenDot {
			whole = whole*10 + d
		} else if fracDigits < 2 {
			frac = frac*10 + d
			fracDigits++
		}
	}

	if fracDigits == 1 {
		frac *= 10
	}

	v := whole*100 + frac
	if neg {
		v = -v
	}
	return Money(v), nil
}

// Round returns the amount rounded to the nearest whole unit, halves away from zero.
func (m Money) Round() int64 {
	if m < 0 {
		return -int64((-m + 50) / 100)
	}
	return int64((m + 50) / 100)
}

// Half returns half of the amount, truncated to the hundredth.
func (m Money) Half() Money {
	return m / 2
}

func (m Money) String() string {
	sign := ""
	v := int64(m)
	if v < 0 {
		sign = "-"
		v = -v
	}
	return fmt.Sprintf("%s%d.%02d", sign, v/100, v%100)
}

// MarshalText implements encoding.TextMarshaler so config and JSON payloads read "12.50".
func (m Money) MarshalText() ([]byte, error) {
	return []byte(m.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (m *Money) UnmarshalText(text []byte) error {
	v, err := ParseMoney(string(text))
	if err != nil {
		return err
	}
	*m = v
	return nil
}
