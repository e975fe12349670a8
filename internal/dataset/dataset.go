// Package dataset loads property listings and normalises their loosely keyed
// records into models.Property.
package dataset

import (
	"bytes"
	_ "embed"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/BinaryNexusLab/real-estate/internal/models"
)

//go:embed properties.json
var sampleProperties []byte

// Defaults applied when a record has no location.
const (
	DefaultSuburb = "Sydney"
	DefaultState  = "NSW"
)

// ErrInvalidRecord is returned for a record that cannot be analysed.
var ErrInvalidRecord = errors.New("invalid property record")

// Accepted keys per field, in lookup order.
var (
	idKeys          = []string{"id", "ID", "Id"}
	externalIDKeys  = []string{"Property ID", "property_id", "propertyId"}
	priceKeys       = []string{"Price (AUD)", "price", "Price"}
	addressKeys     = []string{"Full Address", "address", "Address"}
	suburbKeys      = []string{"Suburb", "suburb"}
	stateKeys       = []string{"State", "state"}
	postcodeKeys    = []string{"Postcode", "postcode", "Post Code"}
	typeKeys        = []string{"Property Type", "property_type", "propertyType", "Type"}
	bedroomKeys     = []string{"Bedrooms", "bedrooms"}
	bathroomKeys    = []string{"Bathrooms", "bathrooms"}
	carSpaceKeys    = []string{"Car Spaces", "car_spaces", "carSpaces"}
	rentKeys        = []string{"Estimated Rental Value (Weekly)", "weekly_rent", "estimatedRentalValueWeekly", "Weekly Rent"}
	maintenanceKeys = []string{"Maintenance Cost (Annual)", "annual_maintenance_cost", "maintenanceCostAnnual"}
	medianKeys      = []string{"Suburb Median Price", "median_price", "medianPrice"}
	landKeys        = []string{"Land Size (m²)", "land_size", "landSize"}
	buildingKeys    = []string{"Building Area (m²)", "building_area", "buildingArea"}
	facilityKeys    = []string{"Facilities", "facilities"}
	yearKeys        = []string{"Year Built", "year_built", "yearBuilt"}
	energyKeys      = []string{"Energy Rating", "energy_rating", "energyRating"}
	agentKeys       = []string{"Agent Name", "agent_name", "agentName"}
	agencyKeys      = []string{"Agency", "agency"}
	schoolKeys      = []string{"Nearby Schools (km)", "nearby_schools_km", "nearbySchools"}
	transportKeys   = []string{"Nearby Transport (km)", "nearby_transport_km", "nearbyTransport"}
)

// Normalize maps one raw record onto a Property. Records need an id and a
// positive price; everything else is optional.
func Normalize(raw map[string]any) (models.Property, error) {
	p := models.Property{
		ID:                    text(raw, idKeys),
		ExternalID:            text(raw, externalIDKeys),
		Price:                 number(raw, priceKeys),
		Address:               text(raw, addressKeys),
		Suburb:                text(raw, suburbKeys),
		State:                 text(raw, stateKeys),
		Postcode:              text(raw, postcodeKeys),
		PropertyType:          text(raw, typeKeys),
		Bedrooms:              int(number(raw, bedroomKeys)),
		Bathrooms:             int(number(raw, bathroomKeys)),
		CarSpaces:             int(number(raw, carSpaceKeys)),
		WeeklyRent:            number(raw, rentKeys),
		AnnualMaintenanceCost: number(raw, maintenanceKeys),
		MedianPrice:           number(raw, medianKeys),
		LandSize:              number(raw, landKeys),
		BuildingArea:          number(raw, buildingKeys),
		Facilities:            list(raw, facilityKeys),
		YearBuilt:             int(number(raw, yearKeys)),
		EnergyRating:          text(raw, energyKeys),
		AgentName:             text(raw, agentKeys),
		Agency:                text(raw, agencyKeys),
		NearbySchoolsKm:       number(raw, schoolKeys),
		NearbyTransportKm:     number(raw, transportKeys),
	}

	if p.ID == "" {
		p.ID = p.ExternalID
	}
	if p.ID == "" {
		return models.Property{}, fmt.Errorf("%w: missing id", ErrInvalidRecord)
	}
	if p.Price <= 0 {
		return models.Property{}, fmt.Errorf("%w: property %s has no price", ErrInvalidRecord, p.ID)
	}
	if p.WeeklyRent < 0 || p.AnnualMaintenanceCost < 0 {
		return models.Property{}, fmt.Errorf("%w: property %s has negative rent or maintenance", ErrInvalidRecord, p.ID)
	}
	if p.Suburb == "" {
		p.Suburb = DefaultSuburb
	}
	if p.State == "" {
		p.State = DefaultState
	}
	if p.PropertyType == "" {
		p.PropertyType = "Unknown"
	}
	return p, nil
}

func lookup(raw map[string]any, keys []string) (any, bool) {
	for _, k := range keys {
		if v, ok := raw[k]; ok && v != nil {
			return v, true
		}
	}
	return nil, false
}

func text(raw map[string]any, keys []string) string {
	v, ok := lookup(raw, keys)
	if !ok {
		return ""
	}
	switch t := v.(type) {
	case string:
		return strings.TrimSpace(t)
	case float64:
		return strconv.FormatFloat(t, 'f', -1, 64)
	case json.Number:
		return t.String()
	default:
		return fmt.Sprint(t)
	}
}

// number accepts JSON numbers and strings such as "$650,000".
func number(raw map[string]any, keys []string) float64 {
	v, ok := lookup(raw, keys)
	if !ok {
		return 0
	}
	switch t := v.(type) {
	case float64:
		return t
	case int:
		return float64(t)
	case json.Number:
		f, _ := t.Float64()
		return f
	case string:
		cleaned := strings.NewReplacer("$", "", ",", "", " ", "").Replace(t)
		f, err := strconv.ParseFloat(cleaned, 64)
		if err != nil {
			return 0
		}
		return f
	}
	return 0
}

// list accepts either a JSON array or a comma-separated string.
func list(raw map[string]any, keys []string) []string {
	v, ok := lookup(raw, keys)
	if !ok {
		return nil
	}
	var parts []string
	switch t := v.(type) {
	case string:
		parts = strings.Split(t, ",")
	case []any:
		for _, item := range t {
			parts = append(parts, fmt.Sprint(item))
		}
	}
	out := make([]string, 0, len(parts))
	for _, part := range parts {
		if s := strings.TrimSpace(part); s != "" {
			out = append(out, s)
		}
	}
	return out
}

// Dataset is an immutable set of listings. It is safe for concurrent reads.
type Dataset struct {
	props []models.Property
	byID  map[string]int
}

// Load decodes a JSON array of raw records.
func Load(r io.Reader) (*Dataset, error) {
	var raws []map[string]any
	if err := json.NewDecoder(r).Decode(&raws); err != nil {
		return nil, fmt.Errorf("failed to decode properties: %w", err)
	}

	ds := &Dataset{
		props: make([]models.Property, 0, len(raws)),
		byID:  make(map[string]int, len(raws)),
	}
	for i, raw := range raws {
		p, err := Normalize(raw)
		if err != nil {
			return nil, fmt.Errorf("record %d: %w", i, err)
		}
		if _, dup := ds.byID[p.ID]; dup {
			return nil, fmt.Errorf("record %d: %w: duplicate id %s", i, ErrInvalidRecord, p.ID)
		}
		ds.byID[p.ID] = len(ds.props)
		ds.props = append(ds.props, p)
	}
	return ds, nil
}

// LoadFile loads listings from a JSON file on disk.
func LoadFile(path string) (*Dataset, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open property data: %w", err)
	}
	defer f.Close()
	return Load(f)
}

// Default returns the bundled sample listings.
func Default() (*Dataset, error) {
	return Load(bytes.NewReader(sampleProperties))
}

// All returns a copy of every listing in load order.
func (d *Dataset) All() []models.Property {
	out := make([]models.Property, len(d.props))
	copy(out, d.props)
	return out
}

// ByID finds a listing by id.
func (d *Dataset) ByID(id string) (models.Property, bool) {
	i, ok := d.byID[id]
	if !ok {
		return models.Property{}, false
	}
	return d.props[i], true
}

// Len is the number of listings.
func (d *Dataset) Len() int {
	return len(d.props)
}
