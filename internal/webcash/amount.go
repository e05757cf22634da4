package webcash

import "fmt"

// Amount is a webcash value expressed in signed minor units. Webcash
// amounts are bearer values, not scripted balances: arithmetic on them
// never wraps silently, it errors, so callers are forced to refuse an
// operation rather than misreport a total.
type Amount int64

// Add returns a + b, or an error if the sum overflows int64. Callers
// summing a set of inputs or outputs (e.g. the replace protocol's
// conservation check) must use this instead of the raw operator.
func (a Amount) Add(b Amount) (Amount, error) {
	sum := a + b
	if (b > 0 && sum < a) || (b < 0 && sum > a) {
		return 0, fmt.Errorf("webcash: amount overflow adding %d and %d", a, b)
	}
	return sum, nil
}

// Sum adds a slice of amounts, refusing on overflow.
func Sum(amounts []Amount) (Amount, error) {
	var total Amount
	var err error
	for _, a := range amounts {
		total, err = total.Add(a)
		if err != nil {
			return 0, err
		}
	}
	return total, nil
}

// Less reports whether a orders before b. Amount already has a total
// order via the built-in int64 comparison operators; Less exists so
// generic sort call sites read naturally.
func (a Amount) Less(b Amount) bool { return a < b }
