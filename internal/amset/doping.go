package amset

// dopingLadder returns the carrier concentration sweep AMSET is run over:
// 1e18 through 1e22 cm^-3, denser between 1e19 and 1.5e19 where the
// thermoelectric optimum usually sits. Negative (n-type) concentrations
// come first, then the positive mirror.
func dopingLadder() []float64 {
	var mags []float64

	// 1.0e18 to 9.0e18 in steps of 0.5e18.
	for i := 10; i <= 90; i += 5 {
		mags = append(mags, float64(i)/10*1e18)
	}
	// 1.0e19 to 1.5e19 in steps of 0.05e19.
	for i := 100; i <= 150; i += 5 {
		mags = append(mags, float64(i)/100*1e19)
	}
	mags = append(mags, 1.75e19)
	// 2.0e19 to 9.0e19 in steps of 0.5e19.
	for i := 20; i <= 90; i += 5 {
		mags = append(mags, float64(i)/10*1e19)
	}
	// 1.0e20 to 9.0e20 and 1.0e21 to 9.0e21 in steps of half a decade unit.
	for i := 10; i <= 90; i += 5 {
		mags = append(mags, float64(i)/10*1e20)
	}
	for i := 10; i <= 90; i += 5 {
		mags = append(mags, float64(i)/10*1e21)
	}
	mags = append(mags, 1e22)

	ladder := make([]float64, 0, 2*len(mags))
	for _, m := range mags {
		ladder = append(ladder, -m)
	}
	ladder = append(ladder, mags...)
	return ladder
}
