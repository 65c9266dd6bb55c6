package wweb

// LocationOptions carries the optional parts of a Location.
type LocationOptions struct {
	Name    string `json:"name,omitempty"`
	Address string `json:"address,omitempty"`
	URL     string `json:"url,omitempty"`
}

// Location is a coordinate pair with an optional place description.
type Location struct {
	Latitude  float64 `json:"latitude"`
	Longitude float64 `json:"longitude"`
	Name      string  `json:"name,omitempty"`
	Address   string  `json:"address,omitempty"`
	URL       string  `json:"url,omitempty"`

	// Description is "name\naddress", or whichever of the two is set.
	Description string `json:"description"`
}

// NewLocation builds a Location. opts may be nil.
func NewLocation(latitude, longitude float64, opts *LocationOptions) *Location {
	l := &Location{Latitude: latitude, Longitude: longitude}
	if opts != nil {
		l.Name, l.Address, l.URL = opts.Name, opts.Address, opts.URL
	}

	switch {
	case l.Name != "" && l.Address != "":
		l.Description = l.Name + "\n" + l.Address
	case l.Name != "":
		l.Description = l.Name
	case l.Address != "":
		l.Description = l.Address
	}
	return l
}
