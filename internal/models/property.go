package models

import "github.com/BinaryNexusLab/real-estate/internal/analysis"

// Property is a normalised listing from the property dataset.
type Property struct {
	ID                    string   `json:"id"`
	ExternalID            string   `json:"external_id,omitempty"`
	Price                 float64  `json:"price"`
	Address               string   `json:"address"`
	Suburb                string   `json:"suburb"`
	State                 string   `json:"state"`
	Postcode              string   `json:"postcode"`
	PropertyType          string   `json:"property_type"`
	Bedrooms              int      `json:"bedrooms"`
	Bathrooms             int      `json:"bathrooms"`
	CarSpaces             int      `json:"car_spaces"`
	WeeklyRent            float64  `json:"weekly_rent"`
	AnnualMaintenanceCost float64  `json:"annual_maintenance_cost"`
	MedianPrice           float64  `json:"median_price,omitempty"`
	LandSize              float64  `json:"land_size,omitempty"`
	BuildingArea          float64  `json:"building_area,omitempty"`
	Facilities            []string `json:"facilities,omitempty"`
	YearBuilt             int      `json:"year_built,omitempty"`
	EnergyRating          string   `json:"energy_rating,omitempty"`
	AgentName             string   `json:"agent_name,omitempty"`
	Agency                string   `json:"agency,omitempty"`
	NearbySchoolsKm       float64  `json:"nearby_schools_km,omitempty"`
	NearbyTransportKm     float64  `json:"nearby_transport_km,omitempty"`
}

// FinancialInput is the slice of a listing the calculator works from.
func (p Property) FinancialInput() analysis.PropertyFinancialInput {
	return analysis.PropertyFinancialInput{
		PurchasePrice:         p.Price,
		WeeklyRent:            p.WeeklyRent,
		AnnualMaintenanceCost: p.AnnualMaintenanceCost,
	}
}
