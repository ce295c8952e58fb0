package sim

import (
	"math/rand/v2"

	"github.com/samber/lo"
	"gonum.org/v1/gonum/stat/distuv"
)

// truncatedNormal samples a normal distribution restricted to [min, max]
// by inverting the CDF over the probability mass that lies inside the bounds.
//
// When the interval lies above the mean, CDF values crowd against 1 and lose
// precision, so the draw is taken from the mirrored lower tail and reflected.
type truncatedNormal struct {
	normal   distuv.Normal
	min, max float64
	mirrored bool
	mass     distuv.Uniform // uniform over the lower-tail probabilities of the interval
}

func newTruncatedNormal(mu, sigma, min, max float64, src rand.Source) truncatedNormal {
	t := truncatedNormal{
		normal: distuv.Normal{Mu: mu, Sigma: sigma},
		min:    min,
		max:    max,
	}
	if min > mu {
		// Survival(x) == CDF(2*mu - x): the interval reflected below the mean.
		t.mirrored = true
		t.mass = distuv.Uniform{Min: t.normal.Survival(max), Max: t.normal.Survival(min), Src: src}
	} else {
		t.mass = distuv.Uniform{Min: t.normal.CDF(min), Max: t.normal.CDF(max), Src: src}
	}
	return t
}

// Rand returns one draw in [min, max]. The clamp absorbs rounding in the
// quantile function at the tails.
func (t truncatedNormal) Rand() float64 {
	x := t.normal.Quantile(t.mass.Rand())
	if t.mirrored {
		x = 2*t.normal.Mu - x
	}
	return lo.Clamp(x, t.min, t.max)
}
