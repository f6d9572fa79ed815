package dist

import (
	"fmt"

	"github.com/arloliu/uncmc/errs"
)

// ChiSquare computes the reduced chi-square of theoretical values fit
// against experimental data with the given uncertainties.
//
// Parameters:
//   - data: Experimental values
//   - uncertainties: One standard uncertainty per data point, all non-zero
//   - fit: Theoretical values describing the data, same length as data
//   - degreesOfFreedom: Degrees of freedom of the theory, >= 1
//
// Returns:
//   - float64: sum((data-fit)^2 / uncertainties^2) / degreesOfFreedom
//   - error: ErrInvalidOperand on mismatched lengths or invalid dof
func ChiSquare(data, uncertainties, fit []float64, degreesOfFreedom int) (float64, error) {
	if len(data) != len(uncertainties) || len(data) != len(fit) {
		return 0, fmt.Errorf("%w: length mismatch data=%d uncertainties=%d fit=%d",
			errs.ErrInvalidOperand, len(data), len(uncertainties), len(fit))
	}
	if degreesOfFreedom < 1 {
		return 0, fmt.Errorf("%w: degrees of freedom must be >= 1, got %d",
			errs.ErrInvalidOperand, degreesOfFreedom)
	}

	sum := 0.0
	for i, d := range data {
		r := (d - fit[i]) / uncertainties[i]
		sum += r * r
	}

	return sum / float64(degreesOfFreedom), nil
}
