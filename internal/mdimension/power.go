package mdimension

import (
	"math"

	"gonum.org/v1/gonum/num/quat"
)

// hypersphericalPow raises z to the power in hyperspherical coordinates:
// the radius goes to r^power and every angle is multiplied by power.
//
// Angles: theta_k = acos(z_k / |z_k..z_n-1|) for k < n-2 and
// theta_{n-2} = atan2(z_{n-1}, z_{n-2}). A zero tail yields angle 0.
func hypersphericalPow(z []float64, r, power float64) {
	n := len(z)
	var tail [MaxDimension]float64
	acc := 0.0
	for i := n - 1; i >= 0; i-- {
		acc += z[i] * z[i]
		tail[i] = math.Sqrt(acc)
	}
	var ang [MaxDimension]float64
	for k := 0; k < n-2; k++ {
		if tail[k] < epsRadius {
			break
		}
		ang[k] = math.Acos(clamp(z[k]/tail[k], -1, 1))
	}
	ang[n-2] = math.Atan2(z[n-1], z[n-2])

	s := math.Pow(r, power)
	for k := 0; k < n-2; k++ {
		sa, ca := math.Sincos(ang[k] * power)
		z[k] = s * ca
		s *= sa
	}
	sa, ca := math.Sincos(ang[n-2] * power)
	z[n-2] = s * ca
	z[n-1] = s * sa
}

func toQuat(z []float64) quat.Number {
	return quat.Number{Real: z[0], Imag: z[1], Jmag: z[2], Kmag: z[3]}
}

func fromQuat(z []float64, q quat.Number) {
	z[0], z[1], z[2], z[3] = q.Real, q.Imag, q.Jmag, q.Kmag
}

// quaternionPolarPow is q^p = r^p (cos(p·θ) + u·sin(p·θ)) with θ the angle
// between q and the real axis and u the unit imaginary direction. A purely
// real q uses u = i.
func quaternionPolarPow(z []float64, r, power float64) {
	v := math.Sqrt(z[1]*z[1] + z[2]*z[2] + z[3]*z[3])
	theta := math.Atan2(v, z[0])
	rp := math.Pow(r, power)
	sa, ca := math.Sincos(theta * power)
	z[0] = rp * ca
	if v < epsRadius {
		z[1], z[2], z[3] = rp*sa, 0, 0
		return
	}
	k := rp * sa / v
	z[1] *= k
	z[2] *= k
	z[3] *= k
}

// integerPower reports whether p is an integer in [2,8], the range served
// by repeated multiplication.
func integerPower(p float64) (int, bool) {
	k := math.Round(p)
	if k != p || k < 2 || k > 8 {
		return 0, false
	}
	return int(k), true
}

// quaternionIntPow returns a step computing q^k by squaring and
// multiplication; no trigonometry.
func quaternionIntPow(k int) powerStep {
	return func(z []float64, _, _ float64) {
		q := toQuat(z)
		res := quat.Number{Real: 1}
		base := q
		for e := k; e > 0; e >>= 1 {
			if e&1 == 1 {
				res = quat.Mul(res, base)
			}
			if e > 1 {
				base = quat.Mul(base, base)
			}
		}
		fromQuat(z, res)
	}
}
