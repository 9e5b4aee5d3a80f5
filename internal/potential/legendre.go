package potential

// legendre evaluates the Legendre polynomials P_0..P_lmax at x by upward
// recurrence, writing the values into out (len lmax+1).
func legendre(lmax int, x float64, out []float64) {
	out[0] = 1
	if lmax == 0 {
		return
	}
	out[1] = x
	for l := 2; l <= lmax; l++ {
		out[l] = (float64(2*l-1)*x*out[l-1] - float64(l-1)*out[l-2]) / float64(l)
	}
}

// legendreDeriv evaluates dP_l/dx for l = 0..lmax at x, given the polynomial
// values p already computed at x.
func legendreDeriv(lmax int, x float64, p, out []float64) {
	out[0] = 0
	if lmax == 0 {
		return
	}
	if x == 1 || x == -1 {
		// dP_l/dx(+-1) = (+-1)^(l+1) * l(l+1)/2
		for l := 1; l <= lmax; l++ {
			v := float64(l*(l+1)) / 2
			if x < 0 && l%2 == 0 {
				v = -v
			}
			out[l] = v
		}
		return
	}
	for l := 1; l <= lmax; l++ {
		out[l] = float64(l) * (x*p[l] - p[l-1]) / (x*x - 1)
	}
}
