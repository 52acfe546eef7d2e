package catchstep

const (
	secperday = 86400.
	gravity   = 9.80665 // [m/s²]

	fiveThirds = 5. / 3.
	twoThirds  = 2. / 3.

	// Honma weir coefficients
	honmaFree     = .35
	honmaDrowned  = .91
	honmaDrownLim = twoThirds // downstream/upstream head ratio above which the weir is drowned
)
