package validate

// Bounds is an inclusive geographic bounding box.
type Bounds struct {
	MinLat, MaxLat float64
	MinLng, MaxLng float64
}

// Contains reports whether (lat, lng) falls inside the box.
func (b Bounds) Contains(lat, lng float64) bool {
	return lat >= b.MinLat && lat <= b.MaxLat && lng >= b.MinLng && lng <= b.MaxLng
}

// Default bounding boxes. CountryBounds covers continental Chile;
// LocalBounds covers the municipality's service area in the Santiago
// basin. Callers may substitute their own boxes; these defaults preserve
// the portal's historical behavior.
var (
	CountryBounds = Bounds{MinLat: -56.0, MaxLat: -17.5, MinLng: -76.0, MaxLng: -66.0}
	LocalBounds   = Bounds{MinLat: -33.75, MaxLat: -33.45, MinLng: -70.85, MaxLng: -70.55}
)

// Point is the result of coordinate normalization. Valid is false only when
// the point falls outside the country box; an out-of-local-area point stays
// valid but carries an advisory Warning.
type Point struct {
	Lat     float64
	Lng     float64
	Valid   bool
	Warning string
}

// NormalizeCoordinates corrects the common lat/lng transposition bug and
// validates the point against the country and local-area boxes. A pair is
// considered transposed when the latitude is impossible as given (outside
// the country's latitude band or beyond ±90) while the swapped pair lands
// inside the country box.
func NormalizeCoordinates(lat, lng float64, country, local Bounds) Point {
	p := Point{Lat: lat, Lng: lng}

	latImpossible := lat < -90 || lat > 90 || lat < country.MinLat || lat > country.MaxLat
	if latImpossible && country.Contains(lng, lat) {
		p.Lat, p.Lng = lng, lat
		p.Warning = "coordenadas intercambiadas: latitud y longitud fueron corregidas"
	}

	if !country.Contains(p.Lat, p.Lng) {
		p.Valid = false
		return p
	}
	p.Valid = true

	if !local.Contains(p.Lat, p.Lng) {
		warning := "el punto está fuera del área de cobertura de la comuna"
		if p.Warning != "" {
			p.Warning += "; " + warning
		} else {
			p.Warning = warning
		}
	}
	return p
}
